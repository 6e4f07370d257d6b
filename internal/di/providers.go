package di

import (
	"fmt"

	"github.com/google/uuid"

	"FitPrice/internal/domain/repository"
	domsvc "FitPrice/internal/domain/service"
	internalrepo "FitPrice/internal/repository"
	"FitPrice/internal/services/analytics"
	"FitPrice/internal/services/pricing"
	"FitPrice/internal/usecase"
	"FitPrice/pkg/config"
	"FitPrice/pkg/logger"
	"FitPrice/pkg/metrics"
	"FitPrice/pkg/server"
)

// RunID is the identifier shared by every log line and metric of one run.
type RunID string

// ProvideRunID generates a fresh run identifier.
func ProvideRunID() RunID {
	return RunID(uuid.NewString())
}

// ProvideLogger creates the application logger tagged with the run id.
func ProvideLogger(cfg *config.Config, id RunID) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(logger.String("run_id", string(id))), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(id RunID) *metrics.Recorder {
	return metrics.New(string(id))
}

// ProvideRecordSource creates the CSV booking record source.
func ProvideRecordSource(cfg *config.Config, log *logger.Logger) repository.RecordSource {
	return internalrepo.NewCSVRecordSource(cfg.Input.Path, cfg.Input.Columns, log)
}

// ProvideOutputWriter creates the CSV output writer.
func ProvideOutputWriter(cfg *config.Config, log *logger.Logger) repository.OutputWriter {
	return internalrepo.NewCSVWriter(cfg.Output.Header, log)
}

// ProvideElasticityEstimator selects the elasticity backend.
func ProvideElasticityEstimator(cfg *config.Config) domsvc.ElasticityEstimator {
	if cfg.Elasticity.Backend == config.BackendHTTP {
		return analytics.NewHTTPElasticityEstimator(cfg)
	}
	return analytics.NewOLSElasticityEstimator()
}

// ProvideDemandForecaster selects the forecast backend.
func ProvideDemandForecaster(cfg *config.Config) domsvc.DemandForecaster {
	if cfg.Forecast.Backend == config.BackendHTTP {
		return analytics.NewHTTPDemandForecaster(cfg)
	}
	return analytics.NewSeasonalForecaster(analytics.SeasonalOptions{
		WeeklyOrder:   cfg.Forecast.WeeklyOrder,
		DailyOrder:    cfg.Forecast.DailyOrder,
		Ridge:         cfg.Forecast.Ridge,
		IntervalWidth: cfg.Forecast.IntervalWidth,
		FutureDays:    cfg.Forecast.FutureDays,
	})
}

// ProvideEngine creates the pricing engine with the default rule order.
func ProvideEngine() *pricing.Engine {
	return pricing.NewEngine()
}

// ProvidePricingPipeline creates the pricing pipeline use case.
func ProvidePricingPipeline(
	cfg *config.Config,
	source repository.RecordSource,
	estimator domsvc.ElasticityEstimator,
	forecaster domsvc.DemandForecaster,
	engine *pricing.Engine,
	writer repository.OutputWriter,
	recorder *metrics.Recorder,
	log *logger.Logger,
) *usecase.PricingPipeline {
	return usecase.NewPricingPipeline(
		source,
		estimator,
		forecaster,
		engine,
		writer,
		recorder,
		log,
		cfg.Forecast.TrainFraction,
		usecase.Outputs{
			Recommendations: cfg.OutputPath(cfg.Output.Recommendations),
			Forecast:        cfg.OutputPath(cfg.Output.Forecast),
			Elasticity:      cfg.OutputPath(cfg.Output.Elasticity),
		},
	)
}

// ProvideApp creates the application.
func ProvideApp(
	cfg *config.Config,
	pipeline *usecase.PricingPipeline,
	recorder *metrics.Recorder,
	log *logger.Logger,
	id RunID,
) *server.App {
	return server.New(cfg, pipeline, recorder, log, string(id))
}
