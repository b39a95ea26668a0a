package tracking

import (
	"context"
	"errors"
	"log"

	"github.com/LiorShur/NatureAccessNewUI/internal/route"
	"github.com/LiorShur/NatureAccessNewUI/internal/session"
	"github.com/LiorShur/NatureAccessNewUI/internal/storage"

	"github.com/gofiber/fiber/v2"
)

// FallbackWriter dumps a route to local export files when a save cannot
// land in storage, so a full quota never costs the user the recording.
type FallbackWriter interface {
	WriteFallback(ctx context.Context, name string, entries []route.Entry, distanceKm float64, elapsed string) (string, error)
}

type fixRequest struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	AccuracyM float64 `json:"accuracy_m"`
	Timestamp int64   `json:"timestamp"`
}

type entryRequest struct {
	Type      string  `json:"type"`
	Content   string  `json:"content"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Timestamp int64   `json:"timestamp"`
}

type stopRequest struct {
	Save bool   `json:"save"`
	Name string `json:"name"`
}

type recoveryRequest struct {
	Restore bool `json:"restore"`
}

func RegisterRoutes(r fiber.Router, ctrl *Controller, sessions *session.Store, fallback FallbackWriter) {
	r.Post("/start", func(c *fiber.Ctx) error {
		state, err := ctrl.Start(c.Context())
		if errors.Is(err, ErrAlreadyTracking) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "tracking already in progress"})
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to start tracking"})
		}
		return c.JSON(state)
	})

	r.Post("/fixes", func(c *fiber.Ctx) error {
		var req fixRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		accepted, state, err := ctrl.HandleFix(c.Context(), Fix{
			Lat:       req.Lat,
			Lng:       req.Lng,
			AccuracyM: req.AccuracyM,
			Timestamp: req.Timestamp,
		})
		if errors.Is(err, ErrNotTracking) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "tracking is not active"})
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to process fix"})
		}
		return c.JSON(fiber.Map{"accepted": accepted, "state": state})
	})

	r.Post("/entries", func(c *fiber.Ctx) error {
		var req entryRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		entry, err := ctrl.AddAnnotation(c.Context(), route.EntryType(req.Type), req.Content,
			route.Coordinate{Lat: req.Lat, Lng: req.Lng}, req.Timestamp)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusCreated).JSON(entry)
	})

	r.Post("/pause", func(c *fiber.Ctx) error {
		state, err := ctrl.Pause(c.Context())
		if errors.Is(err, ErrNotTracking) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "tracking is not active"})
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to pause"})
		}
		return c.JSON(state)
	})

	r.Post("/resume", func(c *fiber.Ctx) error {
		state, err := ctrl.Resume(c.Context())
		if errors.Is(err, ErrNotTracking) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "tracking is not active"})
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to resume"})
		}
		return c.JSON(state)
	})

	r.Post("/stop", func(c *fiber.Ctx) error {
		var req stopRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		if _, err := ctrl.Stop(c.Context()); errors.Is(err, ErrNotTracking) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "tracking is not active"})
		} else if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to stop tracking"})
		}

		if !req.Save {
			if err := ctrl.Reset(c.Context()); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to discard route"})
			}
			return c.JSON(fiber.Map{"message": "route discarded"})
		}

		if req.Name == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "session name is required"})
		}

		entries, distanceKm, elapsed := ctrl.Snapshot()
		sess, err := sessions.Create(c.Context(), req.Name, entries, distanceKm, elapsed)
		if errors.Is(err, storage.ErrCapacityExceeded) {
			dir, exportErr := fallback.WriteFallback(c.Context(), req.Name, entries, distanceKm, elapsed)
			if exportErr != nil {
				log.Printf("fallback export failed: %v", exportErr)
			}
			if _, resumeErr := ctrl.ResumeTracking(c.Context()); resumeErr != nil {
				log.Printf("resume after failed save failed: %v", resumeErr)
			}
			return c.Status(fiber.StatusInsufficientStorage).JSON(fiber.Map{
				"error":      "storage capacity exceeded, route exported to disk",
				"export_dir": dir,
			})
		}
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		if err := ctrl.Reset(c.Context()); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to clear route state"})
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "session saved", "session": sess})
	})

	r.Post("/reset", func(c *fiber.Ctx) error {
		if err := ctrl.Reset(c.Context()); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to reset"})
		}
		return c.JSON(fiber.Map{"message": "tracking state cleared"})
	})

	r.Get("/state", func(c *fiber.Ctx) error {
		return c.JSON(ctrl.State())
	})

	r.Get("/recovery", func(c *fiber.Ctx) error {
		snap, err := ctrl.PendingRecovery(c.Context())
		if errors.Is(err, ErrNoBackup) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no backup snapshot"})
		}
		if errors.Is(err, ErrCorruptBackup) {
			return c.JSON(fiber.Map{"pending": true, "corrupt": true})
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read backup"})
		}
		return c.JSON(fiber.Map{"pending": true, "snapshot": snap})
	})

	r.Post("/recovery", func(c *fiber.Ctx) error {
		var req recoveryRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		state, err := ctrl.Recover(c.Context(), req.Restore)
		if errors.Is(err, ErrNoBackup) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no backup snapshot"})
		}
		if errors.Is(err, ErrCorruptBackup) {
			return c.Status(fiber.StatusGone).JSON(fiber.Map{"error": "backup snapshot is corrupt"})
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to recover"})
		}
		return c.JSON(state)
	})
}
