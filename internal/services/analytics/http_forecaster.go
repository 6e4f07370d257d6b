package analytics

import (
	"context"
	"fmt"

	"FitPrice/internal/domain/models"
	domsvc "FitPrice/internal/domain/service"
	"FitPrice/internal/services/features"
	"FitPrice/pkg/config"
	xhttp "FitPrice/pkg/http"
	"FitPrice/pkg/util"
)

// HTTPDemandForecaster fits the seasonal model on the remote model service.
type HTTPDemandForecaster struct {
	base          *HTTPServiceBase
	futureDays    int
	intervalWidth float64
}

func NewHTTPDemandForecaster(cfg *config.Config, opts ...xhttp.ClientOption) *HTTPDemandForecaster {
	return &HTTPDemandForecaster{
		base:          NewHTTPServiceBase(cfg, opts...),
		futureDays:    cfg.Forecast.FutureDays,
		intervalWidth: cfg.Forecast.IntervalWidth,
	}
}

type forecastReq struct {
	Dates             []string  `json:"ds"`
	Values            []float64 `json:"y"`
	TrainFraction     float64   `json:"train_fraction"`
	FutureDays        int       `json:"future_days"`
	IntervalWidth     float64   `json:"interval_width"`
	DailySeasonality  bool      `json:"daily_seasonality"`
	WeeklySeasonality bool      `json:"weekly_seasonality"`
}

type forecastRow struct {
	Date  string  `json:"ds"`
	Yhat  float64 `json:"yhat"`
	Lower float64 `json:"yhat_lower"`
	Upper float64 `json:"yhat_upper"`
}

type forecastResp struct {
	Model    string        `json:"model"`
	Forecast []forecastRow `json:"forecast"`
	Metrics  struct {
		MAE  float64 `json:"mae"`
		RMSE float64 `json:"rmse"`
	} `json:"metrics"`
	TrainSize   int `json:"train_size"`
	HoldoutSize int `json:"holdout_size"`
}

func (f *HTTPDemandForecaster) Forecast(ctx context.Context, series []models.DailyDemand, trainFraction float64) (models.ForecastResult, error) {
	var result models.ForecastResult
	if trainSize := features.SplitIndex(len(series), trainFraction); trainSize < 2 {
		return result, fmt.Errorf("%w: forecast training segment has %d points, need at least 2", ErrInsufficientData, trainSize)
	}

	req := forecastReq{
		Dates:             make([]string, len(series)),
		Values:            make([]float64, len(series)),
		TrainFraction:     trainFraction,
		FutureDays:        f.futureDays,
		IntervalWidth:     f.intervalWidth,
		DailySeasonality:  true,
		WeeklySeasonality: true,
	}
	for i, d := range series {
		req.Dates[i] = util.DateKey(d.Date)
		req.Values[i] = d.Total
	}

	var fr forecastResp
	if err := f.base.PostJSONWithRetry(ctx, "/forecast/fit", req, &fr); err != nil {
		return result, fmt.Errorf("post forecast: %w", err)
	}

	result.Points = make([]models.ForecastPoint, 0, len(fr.Forecast))
	for i, row := range fr.Forecast {
		day, ok := util.ParseTime(row.Date)
		if !ok {
			return result, fmt.Errorf("forecast row %d: unparseable date %q", i, row.Date)
		}
		result.Points = append(result.Points, models.ForecastPoint{
			Date:            util.TruncateDay(day),
			PredictedDemand: row.Yhat,
			LowerBound:      row.Lower,
			UpperBound:      row.Upper,
		})
	}
	result.Model = fr.Model
	result.Metrics = models.ForecastMetrics{
		MAE:         fr.Metrics.MAE,
		RMSE:        fr.Metrics.RMSE,
		TrainSize:   fr.TrainSize,
		HoldoutSize: fr.HoldoutSize,
	}
	return result, nil
}

var _ domsvc.DemandForecaster = (*HTTPDemandForecaster)(nil)
