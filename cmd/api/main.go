package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/creatorlink/creatorlink/internal/config"
	"github.com/creatorlink/creatorlink/internal/db"
	httpx "github.com/creatorlink/creatorlink/internal/http"
	"github.com/creatorlink/creatorlink/internal/observability"
	"github.com/creatorlink/creatorlink/internal/security"
	"github.com/creatorlink/creatorlink/internal/session"
	"github.com/creatorlink/creatorlink/internal/store"
	"github.com/creatorlink/creatorlink/internal/store/csvfile"
	"github.com/creatorlink/creatorlink/internal/store/memory"
	"github.com/creatorlink/creatorlink/internal/store/postgres"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// .env is optional, real env always wins
	_ = godotenv.Load()

	cfg := config.Load()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)

	// tracing is opt-in via OTEL_EXPORTER_ENDPOINT
	if cfg.OTELEndpoint != "" {
		shutdownTracer, err := observability.InitTracer(context.Background(), "creatorlink", cfg.OTELEndpoint)

		if err != nil {
			log.Error("tracer init failed", "err", err)
			os.Exit(1)
		}

		defer func() {
			ctx, cancel := config.WithTimeout(5 * time.Second)
			defer cancel()
			_ = shutdownTracer(ctx)
		}()
	}

	hasher := security.NewHasher(cfg.HashScheme)

	// pick the credential store variant

	var users store.Store
	var ping func() error

	switch cfg.StoreBackend {
	case "memory":
		users = memory.NewUsersRepo(hasher)

	case "postgres":
		pool, err := db.NewPool(cfg.DBURL)

		if err != nil {
			log.Error("postgres pool failed", "err", err)
			os.Exit(1)
		}

		defer pool.Close()

		users = postgres.NewUsersRepo(pool, hasher)

		ping = func() error {
			ctx, cancel := config.WithTimeout(1 * time.Second)
			defer cancel()
			return pool.Ping(ctx)
		}

	default: // csv
		repo, err := csvfile.NewUsersRepo(cfg.CSVPath, hasher)

		if err != nil {
			log.Error("csv store init failed", "err", err, "path", cfg.CSVPath)
			os.Exit(1)
		}

		users = repo
	}

	// metrics registry + instrumented store

	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	instrumented := store.NewInstrumented(users, prom)

	// pick the session store variant

	var sessions session.Store

	if cfg.SessionBackend == "redis" {
		rstore := session.NewRedisStore(session.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		defer rstore.Close()

		storePing := ping
		sessions = rstore

		ping = func() error {
			ctx, cancel := config.WithTimeout(1 * time.Second)
			defer cancel()

			if storePing != nil {
				if err := storePing(); err != nil {
					return err
				}
			}

			return rstore.Ping(ctx)
		}
	} else {
		sessions = session.NewMemoryStore()
	}

	manager := session.NewManager(instrumented, sessions, cfg.SessionTTL())

	// optional bootstrap account

	seedCtx, cancelSeed := config.WithTimeout(3 * time.Second)

	err := store.EnsureSeedUser(seedCtx, instrumented, cfg.SeedEmail, cfg.SeedPassword, cfg.SeedName, cfg.SeedRole)

	cancelSeed()

	if err != nil {
		log.Error("seed user failed", "err", err)
		os.Exit(1)
	}

	// set up the router
	router := httpx.NewRouter(log, instrumented, manager, prom, reg, cfg, ping)

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// start server using a concurrent go-routine driven anonymous function.

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env, "store", cfg.StoreBackend, "sessions", cfg.SessionBackend)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)

		defer cancel()

		err := srv.Shutdown(ctx)

		if err != nil {
			log.Error("graceful shutdown failed", "err", err)

			return
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
