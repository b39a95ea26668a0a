package archive

import (
	"errors"
	"strconv"

	"github.com/LiorShur/NatureAccessNewUI/internal/export"
	"github.com/LiorShur/NatureAccessNewUI/internal/session"
	"github.com/LiorShur/NatureAccessNewUI/internal/storage"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, store *Store, sessions *session.Store) {
	// renders a saved session into a standalone summary page and archives it
	r.Post("/sessions/:index", func(c *fiber.Ctx) error {
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

		html, err := export.SummaryHTML(export.FromSession(sess))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to render summary"})
		}

		item, err := store.Save(c.Context(), sess.Name, html, export.MediaFiles(sess.Data))
		if errors.Is(err, storage.ErrCapacityExceeded) {
			return c.Status(fiber.StatusInsufficientStorage).JSON(fiber.Map{"error": "storage capacity exceeded"})
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to archive summary"})
		}
		return c.Status(fiber.StatusCreated).JSON(Summary{ID: item.ID, Name: item.Name, Date: item.Date})
	})

	r.Get("/", func(c *fiber.Ctx) error {
		summaries, err := store.List(c.Context())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load archive"})
		}
		if summaries == nil {
			summaries = []Summary{}
		}
		return c.JSON(summaries)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid archive id"})
		}
		item, err := store.Get(c.Context(), id)
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "archived summary not found"})
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load summary"})
		}
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.SendString(item.HTML)
	})

	r.Delete("/:id", func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid archive id"})
		}
		err = store.Delete(c.Context(), id)
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "archived summary not found"})
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete summary"})
		}
		return c.JSON(fiber.Map{"message": "summary deleted"})
	})

	r.Delete("/", func(c *fiber.Ctx) error {
		if err := store.Clear(c.Context()); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to clear archive"})
		}
		return c.JSON(fiber.Map{"message": "archive cleared"})
	})
}
