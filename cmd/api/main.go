package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cat-care-console/internal/adapters/auth/jwtverify"
	"cat-care-console/internal/adapters/dedupe"
	"cat-care-console/internal/adapters/photos/s3photos"
	pg "cat-care-console/internal/adapters/storage/postgres"
	"cat-care-console/internal/config"
	"cat-care-console/internal/domain/activity"
	"cat-care-console/internal/platform/logger"
	"cat-care-console/internal/ports/auth"
	"cat-care-console/internal/ports/photos"
	"cat-care-console/internal/router"

	"github.com/joho/godotenv"
)

// @title Cat Care Console API
// @version 1.0
// @description Registro de salud, peso, grooming, inventario y actividad de una casa/refugio de gatos.
// @BasePath /
func main() {
	log := logger.NewFromEnv()

	if err := godotenv.Load(); err != nil {
		log.Debug("dotenv.not_found", map[string]any{"err": err})
	}

	cfg, err := config.Load()
	if err != nil {
		log.Error("config.invalid", map[string]any{"err": err})
		os.Exit(1)
	}

	log = logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.App.LogLevel),
		Format: logger.ParseFormat(cfg.App.LogFormat),
		App:    cfg.App.Name,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db *sql.DB
	if cfg.DB.Enabled() {
		db, err = pg.Open(ctx, cfg.DB)
		if err != nil {
			log.Error("db.open_failed", map[string]any{"err": err})
			os.Exit(1)
		}
		defer db.Close()

		if cfg.DB.AutoMigrate {
			if err := pg.Migrate(ctx, db); err != nil {
				log.Error("db.migrate_failed", map[string]any{"err": err})
				os.Exit(1)
			}
		}
	} else {
		log.Warn("db.disabled", map[string]any{"storage": "memory"})
	}

	var guard activity.Guard
	if cfg.Redis.URL != "" {
		rdb, err := dedupe.OpenRedis(ctx, cfg.Redis.URL)
		if err != nil {
			log.Error("redis.open_failed", map[string]any{"err": err})
			os.Exit(1)
		}
		defer rdb.Close()
		guard = dedupe.NewRedisGuard(rdb, cfg.WhatsApp.DedupeTTL)
	}

	var verifier auth.AuthVerifier
	if !cfg.Auth.DevMode {
		verifier = jwtverify.New(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
	} else {
		log.Warn("auth.dev_mode", map[string]any{"header": "X-Debug-User-ID"})
	}

	var signer photos.Signer
	if cfg.Photos.Enabled() {
		s, err := s3photos.New(ctx, cfg.Photos)
		if err != nil {
			log.Error("photos.signer_failed", map[string]any{"err": err})
			os.Exit(1)
		}
		signer = s
	}

	srv := &http.Server{
		Addr: ":" + cfg.App.Port,
		Handler: router.NewRouter(router.Options{
			Config:       cfg,
			Logger:       log,
			AuthVerifier: verifier,
			DB:           db,
			Guard:        guard,
			Signer:       signer,
		}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server.starting", map[string]any{"addr": srv.Addr, "env": cfg.App.Env})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server.failed", map[string]any{"err": err})
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server.shutdown_failed", map[string]any{"err": err})
		}
		log.Info("server.stopped", nil)
	}
}
