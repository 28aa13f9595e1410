package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/uygunlik/course-platform/internal/config"
	"github.com/uygunlik/course-platform/internal/database"
	"github.com/uygunlik/course-platform/internal/media"
	"github.com/uygunlik/course-platform/internal/queue"
	"github.com/uygunlik/course-platform/internal/repository"
	"github.com/uygunlik/course-platform/internal/router"
	"github.com/uygunlik/course-platform/internal/utils"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	setupLogger(cfg.Env)

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBMaxConns)
	if err != nil {
		log.Fatal().Err(err).Msg("database: open")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("database: ensure schema")
	}
	if cfg.AdminPassword != "" {
		hash, err := utils.HashPassword(cfg.AdminPassword, cfg.BcryptCost)
		if err != nil {
			log.Fatal().Err(err).Msg("seed admin: hash password")
		}
		if err := database.SeedAdmin(ctx, db, cfg.AdminEmail, hash); err != nil {
			log.Fatal().Err(err).Msg("seed admin")
		}
	}

	store, err := media.NewStore(cfg.UploadDir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.UploadDir).Msg("media: create store")
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn().Msg("redis unavailable, caching and rate limiting disabled")
	}

	go queue.StartCompletionConsumer()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{strOr("CORS_ORIGIN", "*")},
		AllowCredentials: true,
	}))

	router.Register(e, router.Deps{
		Cfg:      &cfg,
		Users:    repository.NewUserRepo(db),
		Courses:  repository.NewCourseRepo(db),
		Videos:   repository.NewVideoRepo(db),
		Progress: repository.NewProgressRepo(db),
		Settings: repository.NewSettingsRepo(db),
		Store:    store,
		Redis:    rdb,
	})

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// setupLogger configures the global zerolog logger: compact console output
// in dev, structured JSON elsewhere.
func setupLogger(env string) {
	zerolog.TimeFieldFormat = time.RFC3339
	if env == "dev" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func strOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
