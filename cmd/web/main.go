package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clubhouse/messageboard/internal/config"
	"github.com/clubhouse/messageboard/internal/db"
	httpx "github.com/clubhouse/messageboard/internal/http"
	"github.com/clubhouse/messageboard/internal/observability"
	"github.com/clubhouse/messageboard/internal/session"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// secrets and connection strings come from the environment; .env is a
	// local dev convenience
	_ = godotenv.Load()

	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)

	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("failed to connect to postgres", "err", err)
		os.Exit(1)
	}

	defer pool.Close()

	schemaCtx, cancelSchema := config.WithTimeout(10 * time.Second)

	err = db.EnsureSchema(schemaCtx, pool)

	cancelSchema()

	if err != nil {
		log.Error("failed to ensure schema", "err", err)
		os.Exit(1)
	}

	store := session.NewRedisStore(session.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, cfg.SessionTTL)

	defer store.Close()

	pingCtx, cancelPing := config.WithTimeout(2 * time.Second)

	err = store.Ping(pingCtx)

	cancelPing()

	if err != nil {
		log.Error("failed to connect to redis", "err", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	router := httpx.NewRouter(log, pool, store, cfg, prom, reg)

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
