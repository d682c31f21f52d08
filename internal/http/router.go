package http

import (
	"log/slog"

	"github.com/creatorlink/creatorlink/internal/config"
	"github.com/creatorlink/creatorlink/internal/http/handlers"
	"github.com/creatorlink/creatorlink/internal/http/middlewares"
	"github.com/creatorlink/creatorlink/internal/observability"
	"github.com/creatorlink/creatorlink/internal/session"
	"github.com/creatorlink/creatorlink/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const maxBodyBytes = 1 << 20 // 1 MiB, the bodies here are tiny

// NewRouter wires the full HTTP surface. The caller hands in the store
// already wrapped with instrumentation so the session manager and the
// handlers observe the same thing.
func NewRouter(log *slog.Logger, users store.Store, sessions *session.Manager, prom *observability.Prom, reg *prometheus.Registry, cfg config.Config, ping func() error) *gin.Engine {
	if cfg.Env != "dev" && cfg.Env != "test" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("creatorlink"))
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(prom.GinHandleMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middlewares.RequireJSON())
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))

	// health + metrics
	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// wire up the auth surface
	authHandler := handlers.NewAuthHandler(users, sessions, prom, cfg)
	sessionMW := middlewares.NewSessionMiddleware(sessions)

	api := r.Group("/api")

	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)
	api.POST("/logout", authHandler.Logout)
	api.GET("/user", sessionMW.RequireSession(), authHandler.Me)

	return r
}
