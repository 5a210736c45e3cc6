package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventboard/internal/auth"
	"eventboard/internal/cache"
	"eventboard/internal/config"
	"eventboard/internal/db"
	"eventboard/internal/files"
	httpx "eventboard/internal/http"
	"eventboard/internal/observability"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)

	// tracing is best effort; the service runs fine without a collector
	shutdownTracer, err := observability.InitTracer(context.Background(), "eventboard", cfg.OtelEndpoint)
	if err != nil {
		log.Warn("tracing disabled", "err", err)
	} else {
		defer shutdownTracer(context.Background())
	}

	promRegistry := prometheus.NewRegistry()
	prom := observability.NewProm(promRegistry)

	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("could not connect to database", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.Migrate(cfg.DBURL); err != nil {
		log.Error("could not run migrations", "err", err)
		os.Exit(1)
	}

	seedCtx, seedCancel := config.WithTimeout(5 * time.Second)
	err = db.EnsureAdminUser(seedCtx, pool, cfg)
	seedCancel()

	if err != nil {
		log.Error("could not seed admin user", "err", err)
		os.Exit(1)
	}

	storage, err := files.NewDiskStorage(cfg.UploadsDir)
	if err != nil {
		log.Error("could not prepare uploads directory", "err", err)
		os.Exit(1)
	}

	listCache := buildListCache(cfg, log)

	jwtManager := auth.NewManager(cfg.JWTSecret, time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute)

	router := httpx.NewRouter(httpx.Deps{
		Cfg:          cfg,
		Pool:         pool,
		Prom:         prom,
		PromRegistry: promRegistry,
		ListCache:    listCache,
		Files:        storage,
		JWT:          jwtManager,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}

// buildListCache prefers Redis when an address is configured and falls
// back to the in-process cache otherwise.
func buildListCache(cfg config.Config, log *slog.Logger) cache.Cache {
	ttl := time.Duration(cfg.ListCacheTTLSeconds) * time.Second

	if cfg.RedisAddr != "" {
		r := cache.NewRedis(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, ttl)

		ctx, cancel := config.WithTimeout(2 * time.Second)
		defer cancel()

		if err := r.Ping(ctx); err != nil {
			log.Warn("redis unreachable, using in-process cache", "err", err)
			return cache.NewMemory(ttl)
		}

		return r
	}

	return cache.NewMemory(ttl)
}
