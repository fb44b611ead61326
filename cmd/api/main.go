package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"gocause/adapters/api"
	"gocause/adapters/postgres"
	"gocause/app"
	attrdomain "gocause/domain/attribution"
	attribanalyzer "gocause/internal/attribution"
	"gocause/internal/causal"
	"gocause/internal/config"
	"gocause/internal/logging"
	"gocause/ports"
)

func main() {
	// .env is optional; real environments set variables directly
	_ = godotenv.Load()

	logger := logging.NewDefaultLogger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runs, err := setupRunHistory(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("run history setup failed: %v", err)
	}

	attributionAnalyzer := attribanalyzer.NewAnalyzer(
		attribanalyzer.WithMethod(attrdomain.Method(cfg.Engine.Method)),
		attribanalyzer.WithMinCorrelation(cfg.Engine.MinCorrelation),
		attribanalyzer.WithMaxFactors(cfg.Engine.MaxFactors),
		attribanalyzer.WithSeed(cfg.Engine.EnsembleSeed),
		attribanalyzer.WithLogger(logger),
	)
	rootCauseAnalyzer := causal.NewRootCauseAnalyzer(
		causal.WithAttributionAnalyzer(attributionAnalyzer),
		causal.WithMinCausalStrength(cfg.Engine.MinCausalStrength),
		causal.WithMaxDepth(cfg.Engine.MaxDepth),
		causal.WithLogger(logger),
	)

	service := app.NewAnalysisService(attributionAnalyzer, rootCauseAnalyzer, runs, logger)
	server := api.NewServer(service, runs, logger)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("analysis API listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

// setupRunHistory connects the optional run-history store. Without a
// DATABASE_URL, history is disabled and the engine runs fully stateless.
func setupRunHistory(ctx context.Context, cfg *config.Config, logger *logging.Logger) (ports.RunRepository, error) {
	if cfg.Database.URL == "" {
		logger.Info("DATABASE_URL not set, run history disabled")
		return nil, nil
	}
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		return nil, err
	}
	repo := postgres.NewRunRepository(db)
	logger.Info("run history enabled")
	return repo, nil
}
