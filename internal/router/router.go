// Package router wires handlers to routes and applies the per-route
// middleware chain: identity resolution everywhere, auth guards on the
// user surface, admin guards on management routes, response caching on
// the public catalog reads.
package router

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/uygunlik/course-platform/internal/config"
	"github.com/uygunlik/course-platform/internal/handler"
	"github.com/uygunlik/course-platform/internal/media"
	"github.com/uygunlik/course-platform/internal/middleware"
	"github.com/uygunlik/course-platform/internal/repository"
)

// Deps bundles everything route registration needs.
type Deps struct {
	Cfg      *config.Config
	Users    *repository.UserRepo
	Courses  *repository.CourseRepo
	Videos   *repository.VideoRepo
	Progress *repository.ProgressRepo
	Settings *repository.SettingsRepo
	Store    *media.Store
	Redis    *redis.Client // nil disables caching and rate limiting
}

// Register attaches all routes to the echo instance.
func Register(e *echo.Echo, d Deps) {
	e.Use(middleware.Identity(d.Cfg.JWTSecret))

	invalidate := func() {}
	catalogMW := []echo.MiddlewareFunc{}
	if d.Redis != nil {
		cacheCfg := config.LoadCacheConfig()
		rateCfg := config.LoadRateLimitConfig()
		e.Use(middleware.RateLimit(rateCfg, d.Redis))
		drop := middleware.InvalidateCatalog(cacheCfg, d.Redis)
		invalidate = func() { drop(context.Background()) }
		catalogMW = append(catalogMW, middleware.CatalogCache(cacheCfg, d.Redis))
	}

	auth := handler.NewAuthHandler(d.Cfg, d.Users, d.Settings)
	courses := handler.NewCourseHandler(d.Courses, invalidate)
	videos := handler.NewVideoHandler(d.Videos, d.Settings, d.Store, invalidate)
	progress := handler.NewProgressHandler(d.Progress, d.Videos)
	stream := handler.NewStreamHandler(d.Store)
	settings := handler.NewSettingsHandler(d.Settings, invalidate)
	dashboard := handler.NewDashboardHandler(d.Courses, d.Progress)
	users := handler.NewUserAdminHandler(d.Users)

	e.GET("/healthz", handler.Health)

	e.POST("/users/register", auth.Register)
	e.POST("/users/login", auth.Login)
	e.POST("/users/logout", auth.Logout)

	authed := e.Group("", middleware.RequireAuth())
	authed.GET("/users/me", auth.Me)
	authed.PATCH("/users/me", auth.UpdateMe)
	authed.POST("/video-progress", progress.Update)
	authed.GET("/video-progress", progress.Get)
	authed.GET("/video-stream/stream/:filename", stream.Stream)
	authed.GET("/dashboard", dashboard.Get)

	admin := e.Group("", middleware.RequireAuth(), middleware.RequireAdmin())
	admin.GET("/users/all", users.List)
	admin.PATCH("/users/role", users.UpdateRole)
	admin.PATCH("/users/status", users.UpdateStatus)
	admin.PUT("/users/:id/courses", users.AssignCourses)
	admin.DELETE("/users/:id", users.Delete)
	admin.POST("/upload/video", videos.Upload)
	admin.GET("/videos", videos.List)
	admin.PATCH("/videos/:id", videos.Update)
	admin.DELETE("/videos/:id", videos.Delete)
	admin.POST("/courses", courses.Create)
	admin.PATCH("/courses/:id", courses.Update)
	admin.DELETE("/courses/:id", courses.Delete)
	admin.PUT("/settings", settings.Update)

	e.GET("/courses", courses.List, catalogMW...)
	e.GET("/courses/:id", courses.Get, catalogMW...)
	e.GET("/settings", settings.Get, catalogMW...)
}
