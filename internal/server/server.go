package server

import (
	"github.com/dn1a1/ledang-hikers/internal/alert"
	"github.com/dn1a1/ledang-hikers/internal/auth"
	"github.com/dn1a1/ledang-hikers/internal/checkpoint"
	"github.com/dn1a1/ledang-hikers/internal/config"
	"github.com/dn1a1/ledang-hikers/internal/guider"
	"github.com/dn1a1/ledang-hikers/internal/hiker"
	"github.com/dn1a1/ledang-hikers/internal/location"
	"github.com/dn1a1/ledang-hikers/internal/qrsession"
	"github.com/dn1a1/ledang-hikers/internal/stream"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Stream *stream.Hub
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     db,
		Redis:  redisClient,
		Stream: stream.NewHub(redisClient),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB))
	hiker.RegisterRoutes(s.App.Group("/hikers"), hiker.NewService(s.DB), jwtMiddleware)
	guider.RegisterRoutes(s.App.Group("/guiders"), guider.NewService(s.DB), jwtMiddleware)
	checkpoint.RegisterRoutes(s.App.Group("/checkpoints"), checkpoint.NewService(s.DB), jwtMiddleware)
	location.RegisterRoutes(s.App.Group("/location"), location.NewService(s.DB, s.Stream))
	qrsession.RegisterRoutes(s.App.Group("/qr"), qrsession.NewService(s.DB), jwtMiddleware)
	alert.RegisterRoutes(s.App.Group("/alerts"), alert.NewService(s.DB, s.Stream), jwtMiddleware)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}
