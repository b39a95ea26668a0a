package share

import (
	"github.com/LiorShur/NatureAccessNewUI/internal/route"

	"github.com/gofiber/fiber/v2"
)

// Snapshotter is the live route as the share encoder sees it.
type Snapshotter interface {
	Snapshot() ([]route.Entry, float64, string)
}

// Importer receives a verified shared route.
type Importer interface {
	ImportShared(entries []route.Entry)
}

type importRequest struct {
	Token string `json:"token"`
}

func RegisterRoutes(r fiber.Router, svc *Service, live Snapshotter, importer Importer) {
	r.Post("/", func(c *fiber.Ctx) error {
		entries, _, _ := live.Snapshot()
		if len(entries) == 0 {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no route data to share"})
		}

		token, err := svc.Encode(c.Query("name", "Shared route"), entries)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create share token"})
		}
		return c.JSON(fiber.Map{"token": token})
	})

	r.Get("/:token", func(c *fiber.Ctx) error {
		name, entries, err := svc.Decode(c.Params("token"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid share token"})
		}
		return c.JSON(fiber.Map{"name": name, "entries": entries})
	})

	r.Post("/import", func(c *fiber.Ctx) error {
		var req importRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		name, entries, err := svc.Decode(req.Token)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid share token"})
		}
		importer.ImportShared(entries)
		return c.JSON(fiber.Map{"name": name, "imported": len(entries)})
	})
}
