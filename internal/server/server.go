package server

import (
	"database/sql"
	"log"

	"github.com/LiorShur/NatureAccessNewUI/internal/accessibility"
	"github.com/LiorShur/NatureAccessNewUI/internal/archive"
	"github.com/LiorShur/NatureAccessNewUI/internal/config"
	"github.com/LiorShur/NatureAccessNewUI/internal/export"
	"github.com/LiorShur/NatureAccessNewUI/internal/session"
	"github.com/LiorShur/NatureAccessNewUI/internal/share"
	"github.com/LiorShur/NatureAccessNewUI/internal/storage"
	"github.com/LiorShur/NatureAccessNewUI/internal/stream"
	"github.com/LiorShur/NatureAccessNewUI/internal/tracking"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App      *fiber.App
	Cfg      config.Config
	DB       *sql.DB
	Redis    *redis.Client
	Stream   *stream.Hub
	Tracker  *tracking.Controller
	Sessions *session.Store
}

func NewServer(cfg config.Config, db *sql.DB, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	kv, err := storage.New(db, cfg.StorageQuotaBytes)
	if err != nil {
		log.Fatalf("storage init failed: %v", err)
	}

	hub := stream.NewHub(redisClient)
	s := &Server{
		App:      app,
		Cfg:      cfg,
		DB:       db,
		Redis:    redisClient,
		Stream:   hub,
		Tracker:  tracking.NewController(kv, hub),
		Sessions: session.NewStore(kv),
	}

	registerRoutes(s, kv)
	return s
}

func registerRoutes(s *Server, kv *storage.Store) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	exporter := export.NewService(s.Cfg.ExportDir)

	tracking.RegisterRoutes(s.App.Group("/tracking"), s.Tracker, s.Sessions, exporter)
	session.RegisterRoutes(s.App.Group("/sessions"), s.Sessions)
	export.RegisterRoutes(s.App.Group("/export"), s.Tracker, s.Sessions, s.Tracker)
	archive.RegisterRoutes(s.App.Group("/archive"), archive.NewStore(kv), s.Sessions)
	accessibility.RegisterRoutes(s.App.Group("/accessibility"), accessibility.NewStore(kv), s.Tracker)
	share.RegisterRoutes(s.App.Group("/share"), share.NewService(s.Cfg.ShareSecret), s.Tracker, s.Tracker)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}
