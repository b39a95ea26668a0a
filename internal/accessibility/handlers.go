package accessibility

import (
	"context"
	"errors"

	"github.com/LiorShur/NatureAccessNewUI/internal/route"
	"github.com/LiorShur/NatureAccessNewUI/internal/storage"

	"github.com/gofiber/fiber/v2"
)

// EntrySink also lands a saved report in the live route log so the
// report travels with the recording it was made on.
type EntrySink interface {
	AddAccessibility(ctx context.Context, answers map[string]any) (route.Entry, error)
}

type reportRequest struct {
	Answers map[string]any `json:"answers"`
}

func RegisterRoutes(r fiber.Router, store *Store, sink EntrySink) {
	r.Post("/", func(c *fiber.Ctx) error {
		var req reportRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		report, err := store.Save(c.Context(), req.Answers)
		if errors.Is(err, ErrEmptyReport) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "report has no answers"})
		}
		if errors.Is(err, storage.ErrCapacityExceeded) {
			return c.Status(fiber.StatusInsufficientStorage).JSON(fiber.Map{"error": "storage capacity exceeded"})
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save report"})
		}

		if _, err := sink.AddAccessibility(c.Context(), req.Answers); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to record report entry"})
		}
		return c.Status(fiber.StatusCreated).JSON(report)
	})

	r.Get("/", func(c *fiber.Ctx) error {
		reports, err := store.List(c.Context())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load reports"})
		}
		if reports == nil {
			reports = []Report{}
		}
		return c.JSON(reports)
	})

	r.Delete("/", func(c *fiber.Ctx) error {
		if err := store.Clear(c.Context()); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to clear reports"})
		}
		return c.JSON(fiber.Map{"message": "reports cleared"})
	})
}
