package http

import (
	"context"
	"time"

	"eventboard/internal/auth"
	"eventboard/internal/cache"
	"eventboard/internal/config"
	"eventboard/internal/files"
	"eventboard/internal/http/handlers"
	"eventboard/internal/http/middlewares"
	"eventboard/internal/observability"
	"eventboard/internal/repo/postgres"
	"eventboard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Deps carries everything the router wires together. Tests hand in
// fakes; main hands in the real thing.
type Deps struct {
	Cfg          config.Config
	Pool         *pgxpool.Pool
	Prom         *observability.Prom
	PromRegistry *prometheus.Registry
	ListCache    cache.Cache
	Files        *files.DiskStorage
	JWT          *auth.Manager
}

func NewRouter(deps Deps) *gin.Engine {
	if deps.Cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(deps.Cfg.AllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(1 << 20))
	r.Use(otelgin.Middleware("eventboard"))

	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}

	// health
	ping := func() error {
		if deps.Pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return deps.Pool.Ping(ctx)
	}

	health := handlers.NewHealthHandler(ping)
	r.GET("/healthz", health.Healthz)
	r.GET("/readyz", health.Readyz)

	if deps.PromRegistry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.PromRegistry, promhttp.HandlerOpts{})))
	}

	// wire up repositories and services
	eventsRepo := postgres.NewEventsRepo(deps.Pool, deps.Prom)
	registrationsRepo := postgres.NewRegistrationsRepo(deps.Pool, deps.Prom)
	usersRepo := postgres.NewUsersRepo(deps.Pool, deps.Prom)

	catalog := service.NewCatalog(eventsRepo, registrationsRepo, deps.Files)
	coordinator := service.NewCoordinator(eventsRepo, registrationsRepo, deps.Prom)

	eventsHandler := handlers.NewEventsHandler(catalog, deps.ListCache, deps.Prom)
	registrationsHandler := handlers.NewRegistrationsHandler(coordinator, deps.ListCache)
	authHandler := handlers.NewAuthHandler(usersRepo, usersRepo, deps.JWT)
	filesHandler := handlers.NewFilesHandler(deps.Files)

	authMw := middlewares.NewAuthMiddleware(deps.JWT)
	requireJSON := middlewares.RequireJSON()

	// brute-force protection on credential endpoints
	authLimiter := middlewares.NewRateLimiter(10, time.Minute)
	writeLimiter := middlewares.NewRateLimiter(60, time.Minute)

	authGroup := r.Group("/auth", authLimiter.RateLimiterMiddleware(middlewares.KeyByIP), requireJSON)
	{
		authGroup.POST("/register", authHandler.SignUp)
		authGroup.POST("/login", authHandler.Login)
		authGroup.GET("/me", authMw.RequireAuth(), authHandler.Me)
	}

	events := r.Group("/events")
	{
		events.GET("", eventsHandler.ListEvents)
		events.GET("/my", authMw.RequireAuth(), eventsHandler.MyEvents)
		events.GET("/:id", eventsHandler.GetEventByID)

		events.POST("", authMw.RequireAuth(), authMw.RequireRole("admin"), requireJSON, eventsHandler.CreateEvent)
		events.PUT("/:id", authMw.RequireAuth(), authMw.RequireRole("admin"), requireJSON, eventsHandler.UpdateEvent)

		limited := writeLimiter.RateLimiterMiddleware(middlewares.KeyByUserOrIP)

		events.POST("/:id/registrations", authMw.RequireAuth(), limited, registrationsHandler.Register)
		events.DELETE("/:id/registrations", authMw.RequireAuth(), limited, registrationsHandler.Unregister)
		events.GET("/:id/registrations", authMw.RequireAuth(), registrationsHandler.ListParticipants)
		events.GET("/:id/registrations/:userId", authMw.RequireAuth(), registrationsHandler.GetParticipant)
	}

	filesGroup := r.Group("/files")
	{
		filesGroup.POST("", authMw.RequireAuth(), authMw.RequireRole("admin"), filesHandler.Upload)
		filesGroup.GET("/:id", filesHandler.Download)
	}

	return r
}
