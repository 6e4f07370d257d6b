package usecase

import (
	"context"
	"fmt"
	"time"

	"FitPrice/internal/domain/models"
	drepo "FitPrice/internal/domain/repository"
	domsvc "FitPrice/internal/domain/service"
	"FitPrice/internal/services/features"
	"FitPrice/internal/services/pricing"
	"FitPrice/pkg/logger"
	"FitPrice/pkg/validate"
)

// Outputs names the files a run writes. An empty path disables that file,
// except Recommendations which is always written.
type Outputs struct {
	Recommendations string
	Forecast        string
	Elasticity      string
}

// PricingPipeline runs one batch: load, fit both signals, price every
// record, then write all outputs. Nothing is written unless every stage
// before the writes succeeded.
type PricingPipeline struct {
	source        drepo.RecordSource
	estimator     domsvc.ElasticityEstimator
	forecaster    domsvc.DemandForecaster
	engine        *pricing.Engine
	writer        drepo.OutputWriter
	metrics       drepo.Metrics
	log           *logger.Logger
	trainFraction float64
	outputs       Outputs
}

// NewPricingPipeline creates a new PricingPipeline instance.
func NewPricingPipeline(
	source drepo.RecordSource,
	estimator domsvc.ElasticityEstimator,
	forecaster domsvc.DemandForecaster,
	engine *pricing.Engine,
	writer drepo.OutputWriter,
	metrics drepo.Metrics,
	log *logger.Logger,
	trainFraction float64,
	outputs Outputs,
) *PricingPipeline {
	return &PricingPipeline{
		source:        source,
		estimator:     estimator,
		forecaster:    forecaster,
		engine:        engine,
		writer:        writer,
		metrics:       metrics,
		log:           log,
		trainFraction: trainFraction,
		outputs:       outputs,
	}
}

// Run executes the pipeline once and returns the run summary.
func (p *PricingPipeline) Run(ctx context.Context) (*Summary, error) {
	started := time.Now()

	var records []models.BookingRecord
	err := p.stage("load", func() (err error) {
		records, err = p.source.Load(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	p.metrics.RecordRecords("load", len(records))

	err = p.stage("validate", func() error {
		return validate.Each("booking records", len(records), func(i int) interface{} { return records[i] })
	})
	if err != nil {
		return nil, err
	}

	var (
		elasticity models.ElasticityResult
		forecast   models.ForecastResult
	)
	if len(records) == 0 {
		p.log.Warn("No booking records; signal fits skipped")
	} else {
		err = p.stage("elasticity", func() (err error) {
			elasticity, err = p.estimator.Estimate(ctx, features.PricePoints(records))
			return err
		})
		if err != nil {
			return nil, err
		}
		p.metrics.RecordSignal("elasticity", elasticity.Coefficient)
		p.log.Info("Elasticity estimated",
			logger.Float64("elasticity", elasticity.Coefficient),
			logger.Float64("r_squared", elasticity.Metrics.RSquared),
			logger.Float64("mape", elasticity.Metrics.MAPE),
		)

		daily := features.AggregateDaily(records)
		err = p.stage("forecast", func() (err error) {
			forecast, err = p.forecaster.Forecast(ctx, daily, p.trainFraction)
			return err
		})
		if err != nil {
			return nil, err
		}
		p.metrics.RecordSignal("forecast_mae", forecast.Metrics.MAE)
		p.metrics.RecordSignal("forecast_rmse", forecast.Metrics.RMSE)
		logFn := p.log.Info
		if forecast.Metrics.HoldoutSize == 0 {
			logFn = p.log.Warn
		}
		logFn("Demand forecast fitted",
			logger.String("model", forecast.Model),
			logger.Int("days", len(daily)),
			logger.Int("train_size", forecast.Metrics.TrainSize),
			logger.Int("holdout_size", forecast.Metrics.HoldoutSize),
			logger.Float64("mae", forecast.Metrics.MAE),
			logger.Float64("rmse", forecast.Metrics.RMSE),
		)
	}

	agg := pricing.Aggregates{Elasticity: elasticity.Coefficient, MeanBookings: features.MeanBookings(records)}
	p.log.Debug("Pricing aggregates", logger.String("aggregates", agg.String()), logger.Any("rules", p.engine.Rules()))
	var priced []models.PricedRecord
	err = p.stage("pricing", func() (err error) {
		priced, err = p.engine.Price(records, agg, forecast.Points)
		return err
	})
	if err != nil {
		return nil, err
	}
	p.metrics.RecordRecords("pricing", len(priced))
	for _, pr := range priced {
		for _, adj := range pr.Adjustments {
			p.metrics.RecordAdjustment(adj.Rule, pricing.Direction(adj.Multiplier))
		}
	}

	if err := p.stage("write", func() error { return p.write(records, priced, elasticity, forecast) }); err != nil {
		return nil, err
	}
	p.metrics.RecordRecords("write", len(priced))

	summary := Summarize(priced, elasticity, forecast)
	summary.Duration = time.Since(started)
	p.log.Info("Pricing run complete", summary.Fields()...)
	return summary, nil
}

// write stages every output and commits them together, so a failure in any
// one of them leaves no output behind.
func (p *PricingPipeline) write(records []models.BookingRecord, priced []models.PricedRecord, el models.ElasticityResult, fc models.ForecastResult) error {
	if err := p.stageOutputs(records, priced, el, fc); err != nil {
		p.writer.Discard()
		return err
	}
	return p.writer.Commit()
}

func (p *PricingPipeline) stageOutputs(records []models.BookingRecord, priced []models.PricedRecord, el models.ElasticityResult, fc models.ForecastResult) error {
	if err := p.writer.WriteRecommendations(p.outputs.Recommendations, priced); err != nil {
		return err
	}
	if p.outputs.Forecast != "" {
		if err := p.writer.WriteForecast(p.outputs.Forecast, fc.Points); err != nil {
			return err
		}
	}
	if p.outputs.Elasticity != "" {
		predicted := el.Predictions
		if len(predicted) != len(records) {
			p.log.Warn("Elasticity backend returned no per-record predictions; elasticity output skipped")
			return nil
		}
		if err := p.writer.WriteElasticity(p.outputs.Elasticity, records, predicted); err != nil {
			return err
		}
	}
	return nil
}

// stage times fn, counting and logging its failure under the stage name.
func (p *PricingPipeline) stage(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	p.metrics.RecordLatency(name, time.Since(start).Seconds())
	if err != nil {
		p.metrics.RecordError(name)
		p.log.Error("Pipeline stage failed", logger.String("stage", name), logger.Error(err))
		return fmt.Errorf("%s: %w", name, err)
	}
	p.log.Debug("Pipeline stage done", logger.String("stage", name), logger.Duration("elapsed_ms", time.Since(start)))
	return nil
}
