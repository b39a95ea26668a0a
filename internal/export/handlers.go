package export

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/LiorShur/NatureAccessNewUI/internal/session"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, live Snapshotter, sessions *session.Store, importer Importer) {
	r.Get("/live/:format", func(c *fiber.Ctx) error {
		entries, distanceKm, elapsed := live.Snapshot()
		if len(entries) == 0 {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no route data to export"})
		}
		name := c.Query("name", "Current route")
		return writeDocument(c, FromLive(name, entries, distanceKm, elapsed), c.Params("format"))
	})

	r.Get("/sessions/:index/:format", func(c *fiber.Ctx) error {
		index, err := strconv.Atoi(c.Params("index"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid session index"})
		}
		sess, err := sessions.Get(c.Context(), index)
		if errors.Is(err, session.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load session"})
		}
		return writeDocument(c, FromSession(sess), c.Params("format"))
	})

	r.Post("/import/gpx", func(c *fiber.Ctx) error {
		entries, err := ParseGPX(c.Body())
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid GPX file"})
		}
		importer.ImportShared(entries)
		return c.JSON(fiber.Map{"imported": len(entries)})
	})

	r.Post("/import/json", func(c *fiber.Ctx) error {
		entries, err := ImportJSON(c.Body())
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid route document"})
		}
		importer.ImportShared(entries)
		return c.JSON(fiber.Map{"imported": len(entries)})
	})
}

func writeDocument(c *fiber.Ctx, doc Document, format string) error {
	var (
		data        []byte
		contentType string
		ext         string
		err         error
	)

	switch format {
	case "gpx":
		data, err = GPX(doc)
		contentType, ext = "application/gpx+xml", "gpx"
	case "json":
		data, err = JSON(doc)
		contentType, ext = "application/json", "json"
	case "pdf":
		data, err = PDF(doc)
		contentType, ext = "application/pdf", "pdf"
	case "bundle":
		data, err = Bundle(doc)
		contentType, ext = "application/zip", "zip"
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown export format"})
	}

	if errors.Is(err, ErrNoTrackPoints) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "route has no location entries"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "export failed"})
	}

	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s.%s"`, slug(doc.Name), ext))
	return c.Send(data)
}
