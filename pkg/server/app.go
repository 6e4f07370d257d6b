package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"FitPrice/internal/usecase"
	"FitPrice/pkg/config"
	applogger "FitPrice/pkg/logger"
	"FitPrice/pkg/metrics"
)

// App encapsulates one pricing run and the resources it reports to.
type App struct {
	cfg      *config.Config
	pipeline *usecase.PricingPipeline
	recorder *metrics.Recorder
	log      *applogger.Logger
	runID    string
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	pipeline *usecase.PricingPipeline,
	recorder *metrics.Recorder,
	log *applogger.Logger,
	runID string,
) *App {
	return &App{
		cfg:      cfg,
		pipeline: pipeline,
		recorder: recorder,
		log:      log,
		runID:    runID,
	}
}

// RunID identifies this run in logs and metrics.
func (a *App) RunID() string { return a.runID }

// Run executes the pipeline once. An interrupt cancels in-flight work; no
// output is written for a cancelled run.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.log.Info("pricing run started",
		applogger.String("env", a.cfg.Environment),
		applogger.String("input", a.cfg.Input.Path),
		applogger.String("elasticity_backend", a.cfg.Elasticity.Backend),
		applogger.String("forecast_backend", a.cfg.Forecast.Backend),
		applogger.Bool("metrics", a.cfg.Metrics.Enabled),
	)

	if _, err := a.pipeline.Run(ctx); err != nil {
		return fmt.Errorf("pricing run: %w", err)
	}

	if a.cfg.Metrics.Enabled && a.recorder != nil {
		path := a.cfg.OutputPath(a.cfg.Metrics.Textfile)
		if err := a.recorder.WriteTextfile(path); err != nil {
			return err
		}
		a.log.Info("metrics textfile written", applogger.String("path", path))
	}
	return nil
}
