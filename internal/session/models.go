package session

import "github.com/LiorShur/NatureAccessNewUI/internal/route"

// RouteSession is one finished, named recording. Distance is stored
// pre-formatted with two decimals because the value is display data from
// this point on; the raw entry sequence in Data stays authoritative.
type RouteSession struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Date     string        `json:"date"`
	Time     string        `json:"time"`
	Distance string        `json:"distance"`
	Data     []route.Entry `json:"data"`
}
