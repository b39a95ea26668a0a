package stream

import (
	"context"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Hub fans live telemetry out to websocket clients watching a route. An
// optional redis client mirrors broadcasts across processes; a nil client
// keeps everything in-process.
type Hub struct {
	redis   *redis.Client
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	RouteID string
	Send    chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		redis:   redisClient,
		clients: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		go h.subscribeRedis()
	}
	return h
}

func (h *Hub) Register(routeID string) *Client {
	client := &Client{
		RouteID: routeID,
		Send:    make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[routeID] == nil {
		h.clients[routeID] = map[*Client]struct{}{}
	}
	h.clients[routeID][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if routeClients, ok := h.clients[client.RouteID]; ok {
		delete(routeClients, client)
		if len(routeClients) == 0 {
			delete(h.clients, client.RouteID)
		}
	}
	close(client.Send)
}

func (h *Hub) Broadcast(routeID string, payload []byte) {
	// sends stay under the read lock so Unregister cannot close a
	// channel mid-broadcast; sends never block
	h.mu.RLock()
	for client := range h.clients[routeID] {
		select {
		case client.Send <- payload:
		default:
		}
	}
	h.mu.RUnlock()

	if h.redis != nil {
		err := h.redis.Publish(context.Background(), redisChannel(routeID), payload).Err()
		if err != nil {
			log.Printf("redis publish error: %v", err)
		}
	}
}

func (h *Hub) subscribeRedis() {
	ctx := context.Background()
	pubsub := h.redis.PSubscribe(ctx, "route:*:live")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		routeID := routeIDFromChannel(msg.Channel)
		h.mu.RLock()
		for client := range h.clients[routeID] {
			select {
			case client.Send <- []byte(msg.Payload):
			default:
			}
		}
		h.mu.RUnlock()
	}
}

func redisChannel(routeID string) string {
	return "route:" + routeID + ":live"
}

func routeIDFromChannel(ch string) string {
	// route:{id}:live
	const prefix = "route:"
	const suffix = ":live"
	if len(ch) <= len(prefix)+len(suffix) {
		return ""
	}
	return ch[len(prefix) : len(ch)-len(suffix)]
}
