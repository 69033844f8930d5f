package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	_ "github.com/tbourn/sparrow-design-service/docs"
	"github.com/tbourn/sparrow-design-service/internal/config"
	httpapi "github.com/tbourn/sparrow-design-service/internal/http"
	"github.com/tbourn/sparrow-design-service/internal/observability"
	"github.com/tbourn/sparrow-design-service/internal/repo"
	"github.com/tbourn/sparrow-design-service/internal/sysutil"
)

// @title         Sparrow Sports Design Service API
// @version       1.0
// @description   Custom apparel design requests: quoting, negotiation, advance payment and conversion into orders.
// @license.name  MIT
// @host          localhost:8080
// @BasePath      /api/v1

func main() {
	cfg := config.MustLoad()
	sysutil.SetupLogging(cfg.LogLevel, cfg.LogPretty, nil)
	gin.SetMode(cfg.GinMode)
	version := sysutil.Version(os.Getenv("SERVICE_VERSION"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open sqlite")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}
	if n, err := repo.PurgeExpiredIdempotency(ctx, db, time.Now().UTC()); err != nil {
		log.Warn().Err(err).Msg("purge expired idempotency keys")
	} else if n > 0 {
		log.Info().Int64("removed", n).Msg("purged expired idempotency keys")
	}

	ext, closeExt, err := buildCollaborators(ctx, cfg, db)
	if err != nil {
		log.Fatal().Err(err).Msg("collaborators")
	}

	r := gin.New()
	httpapi.RegisterRoutes(r, db, ext, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().
			Str("addr", srv.Addr).
			Str("version", version).
			Str("store", cfg.StoreBackend).
			Msg("design service listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")

		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		err := srv.Shutdown(sctx)

		closeExt()
		if oerr := shutdownOTel(sctx); oerr != nil {
			log.Warn().Err(oerr).Msg("otel shutdown")
		}
		if sqlDB, derr := db.DB(); derr == nil {
			_ = sqlDB.Close()
		}
		return err
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("server gracefully stopped")
}
