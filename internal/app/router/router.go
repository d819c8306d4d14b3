// Package router assembles the gin engine and its routes.
package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"ipo_backend/internal/app/di"
	platformhandler "ipo_backend/internal/platform/http/handler"
	"ipo_backend/internal/platform/http/middleware"
	jwtmw "ipo_backend/internal/platform/jwt"
)

// Options carries the router's non-handler dependencies.
type Options struct {
	// AllowOrigins lists CORS origins; empty allows any origin.
	AllowOrigins []string
	// AuthEnabled puts operator routes behind a bearer token signed with JWTSecret.
	AuthEnabled bool
	JWTSecret   string
	// DB backs /healthz; nil reports liveness only.
	DB platformhandler.Pinger
	// Metrics serves /metrics when non-nil.
	Metrics http.Handler
	// LoginLimiter throttles /api/auth/login when non-nil.
	LoginLimiter middleware.Limiter
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", middleware.HeaderRequestID)
	cfg.ExposeHeaders = []string{middleware.HeaderRequestID, "Content-Disposition", "Retry-After"}
	cfg.MaxAge = 12 * time.Hour
	return cors.New(cfg)
}

// NewRouter registers every route on a new engine.
func NewRouter(h *di.Handlers, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(logrus.StandardLogger()),
		gin.Recovery(),
		corsMiddleware(opts.AllowOrigins),
	)

	// Public
	health := platformhandler.Health(opts.DB)
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)
	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics))
	}

	api := r.Group("/api")
	login := []gin.HandlerFunc{h.Auth.Login}
	if opts.LoginLimiter != nil {
		login = append([]gin.HandlerFunc{middleware.Throttle(opts.LoginLimiter)}, login...)
	}
	api.POST("/auth/login", login...)
	api.POST("/applications", h.Applications.Submit)
	api.GET("/companies/active", h.Companies.Active)

	// Operator
	op := r.Group("/api")
	if opts.AuthEnabled {
		op.Use(jwtmw.AuthRequired(opts.JWTSecret))
	}
	{
		op.GET("/dashboard", h.Dashboard.Summary)

		op.GET("/companies", h.Companies.List)
		op.POST("/companies", h.Companies.Create)
		op.PUT("/companies/:id/activate", h.Companies.Activate)

		op.GET("/applications", h.Applications.List)

		op.POST("/allotment", h.Allotment.RunAllotment)
		op.POST("/run-allotment", h.Allotment.RunAllotment)
		op.POST("/refunds", h.Allotment.RunRefunds)
		op.POST("/run-refunds", h.Allotment.RunRefunds)
		op.GET("/allotments", h.Allotment.Results)
		op.GET("/allotment-results", h.Allotment.Results)

		op.GET("/settings", h.Settings.Get)
		op.PUT("/settings", h.Settings.Update)

		op.GET("/export", h.Data.ExportAll)
		op.GET("/export/:type", h.Data.ExportReport)
		op.POST("/reset", h.Data.Reset)
	}

	if !opts.AuthEnabled {
		logrus.Warn("AUTH_ENABLED is false: operator routes are unauthenticated")
	}
	return r
}
