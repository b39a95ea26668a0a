package session

import (
	"errors"
	"strconv"

	"github.com/LiorShur/NatureAccessNewUI/internal/route"

	"github.com/gofiber/fiber/v2"
)

type deleteMediaRequest struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
}

func RegisterRoutes(r fiber.Router, store *Store) {
	r.Get("/", func(c *fiber.Ctx) error {
		sessions, err := store.List(c.Context())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load sessions"})
		}
		if sessions == nil {
			sessions = []RouteSession{}
		}
		return c.JSON(sessions)
	})

	r.Get("/recent", func(c *fiber.Ctx) error {
		sess, err := store.MostRecent(c.Context())
		if errors.Is(err, ErrNoSessions) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no saved sessions"})
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load sessions"})
		}
		return c.JSON(sess)
	})

	r.Get("/usage", func(c *fiber.Ctx) error {
		usage, err := store.Usage(c.Context())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read storage usage"})
		}
		return c.JSON(usage)
	})

	r.Get("/:index", func(c *fiber.Ctx) error {
		index, err := strconv.Atoi(c.Params("index"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid session index"})
		}
		sess, err := store.Get(c.Context(), index)
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load session"})
		}
		return c.JSON(sess)
	})

	r.Delete("/media", func(c *fiber.Ctx) error {
		var req deleteMediaRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		typ := route.EntryType(req.Type)
		if !route.IsAnnotation(typ) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unsupported media type"})
		}
		removed, err := store.DeleteMediaByTimestamp(c.Context(), typ, req.Timestamp)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete media"})
		}
		return c.JSON(fiber.Map{"removed": removed})
	})

	r.Delete("/photos", func(c *fiber.Ctx) error {
		removed, err := store.DeleteAllPhotos(c.Context())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete photos"})
		}
		return c.JSON(fiber.Map{"removed": removed})
	})

	r.Delete("/:index", func(c *fiber.Ctx) error {
		index, err := strconv.Atoi(c.Params("index"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid session index"})
		}
		err = store.Delete(c.Context(), index)
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete session"})
		}
		return c.JSON(fiber.Map{"message": "session deleted"})
	})

	r.Delete("/", func(c *fiber.Ctx) error {
		if err := store.DeleteAll(c.Context()); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete sessions"})
		}
		return c.JSON(fiber.Map{"message": "all sessions deleted"})
	})
}
