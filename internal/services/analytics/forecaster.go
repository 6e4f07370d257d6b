package analytics

import (
	"context"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"FitPrice/internal/domain/models"
	domsvc "FitPrice/internal/domain/service"
	"FitPrice/internal/services/features"
	"FitPrice/pkg/util"
	"FitPrice/pkg/validate"
)

const (
	weeklyPeriodDays = 7.0
	dailyPeriodDays  = 1.0
)

// SeasonalOptions tunes the native forecaster.
type SeasonalOptions struct {
	WeeklyOrder   int     // Fourier pairs for the 7-day cycle
	DailyOrder    int     // Fourier pairs for the 24-hour cycle
	Ridge         float64 // L2 penalty on every coefficient except the intercept
	IntervalWidth float64 // central mass of the uncertainty interval, e.g. 0.8
	FutureDays    int     // extra consecutive days predicted after the last observation
}

// SeasonalForecaster is an additive model: linear trend plus weekly and
// daily Fourier seasonality, fit by ridge least squares on the training
// segment. Intervals are symmetric, from the training residual spread.
type SeasonalForecaster struct {
	opts SeasonalOptions
}

func NewSeasonalForecaster(opts SeasonalOptions) *SeasonalForecaster {
	if opts.IntervalWidth <= 0 || opts.IntervalWidth >= 1 {
		opts.IntervalWidth = 0.8
	}
	return &SeasonalForecaster{opts: opts}
}

const seasonalModelName = "additive_trend_fourier"

func (f *SeasonalForecaster) Forecast(ctx context.Context, series []models.DailyDemand, trainFraction float64) (models.ForecastResult, error) {
	var result models.ForecastResult
	if err := ctx.Err(); err != nil {
		return result, err
	}
	if err := validate.Each("demand series", len(series), func(i int) interface{} {
		return demandCheck{Total: series[i].Total}
	}); err != nil {
		return result, err
	}

	trainSize := features.SplitIndex(len(series), trainFraction)
	if trainSize < 2 {
		return result, fmt.Errorf("%w: forecast training segment has %d points, need at least 2", ErrInsufficientData, trainSize)
	}
	train := series[:trainSize]
	holdout := series[trainSize:]

	origin := train[0].Date
	span := daysBetween(origin, train[trainSize-1].Date)
	if span <= 0 {
		span = 1
	}
	scale := maxAbs(train)

	design := mat.NewDense(trainSize, f.width(), nil)
	target := mat.NewVecDense(trainSize, nil)
	for i, d := range train {
		design.SetRow(i, f.row(d.Date, origin, span))
		target.SetVec(i, d.Total/scale)
	}

	beta, err := f.solve(design, target)
	if err != nil {
		return result, fmt.Errorf("fit seasonal model: %w", err)
	}

	predict := func(t time.Time) float64 {
		return mat.Dot(mat.NewVecDense(f.width(), f.row(t, origin, span)), beta) * scale
	}

	sse := 0.0
	for _, d := range train {
		r := d.Total - predict(d.Date)
		sse += r * r
	}
	dof := trainSize - f.width()
	if dof < 1 {
		dof = trainSize
	}
	sigma := math.Sqrt(sse / float64(dof))
	halfWidth := distuv.UnitNormal.Quantile(0.5+f.opts.IntervalWidth/2) * sigma

	dates := make([]time.Time, 0, len(series)+f.opts.FutureDays)
	for _, d := range series {
		dates = append(dates, d.Date)
	}
	last := series[len(series)-1].Date
	for i := 1; i <= f.opts.FutureDays; i++ {
		dates = append(dates, util.AddDays(last, i))
	}

	result.Points = make([]models.ForecastPoint, 0, len(dates))
	for _, t := range dates {
		yhat := predict(t)
		result.Points = append(result.Points, models.ForecastPoint{
			Date:            t,
			PredictedDemand: yhat,
			LowerBound:      yhat - halfWidth,
			UpperBound:      yhat + halfWidth,
		})
	}

	var absSum, sqSum float64
	for i, d := range holdout {
		diff := d.Total - result.Points[trainSize+i].PredictedDemand
		absSum += math.Abs(diff)
		sqSum += diff * diff
	}
	result.Metrics = models.ForecastMetrics{TrainSize: trainSize, HoldoutSize: len(holdout)}
	if len(holdout) > 0 {
		result.Metrics.MAE = absSum / float64(len(holdout))
		result.Metrics.RMSE = math.Sqrt(sqSum / float64(len(holdout)))
	}
	result.Model = seasonalModelName
	return result, nil
}

type demandCheck struct {
	Total float64 `json:"total" validate:"finite,gte=0"`
}

// width is the number of design columns: intercept, trend, then sin/cos pairs.
func (f *SeasonalForecaster) width() int {
	return 2 + 2*f.opts.WeeklyOrder + 2*f.opts.DailyOrder
}

func (f *SeasonalForecaster) row(t, origin time.Time, span float64) []float64 {
	row := make([]float64, 0, f.width())
	row = append(row, 1, daysBetween(origin, t)/span)
	abs := float64(t.Unix()) / 86400
	row = fourier(row, abs, weeklyPeriodDays, f.opts.WeeklyOrder)
	row = fourier(row, abs, dailyPeriodDays, f.opts.DailyOrder)
	return row
}

// solve computes (XᵀX + λD)β = Xᵀy where D leaves the intercept unpenalized.
func (f *SeasonalForecaster) solve(x *mat.Dense, y *mat.VecDense) (*mat.VecDense, error) {
	p := f.width()
	var gram mat.Dense
	gram.Mul(x.T(), x)
	for j := 1; j < p; j++ {
		gram.Set(j, j, gram.At(j, j)+f.opts.Ridge)
	}
	var rhs mat.VecDense
	rhs.MulVec(x.T(), y)

	var beta mat.VecDense
	if err := beta.SolveVec(&gram, &rhs); err != nil {
		return nil, fmt.Errorf("solve normal equations (increase forecast.ridge if singular): %w", err)
	}
	return &beta, nil
}

func fourier(row []float64, t, period float64, order int) []float64 {
	for k := 1; k <= order; k++ {
		x := 2 * math.Pi * float64(k) * t / period
		row = append(row, math.Sin(x), math.Cos(x))
	}
	return row
}

func daysBetween(from, to time.Time) float64 {
	return to.Sub(from).Hours() / 24
}

func maxAbs(series []models.DailyDemand) float64 {
	m := 0.0
	for _, d := range series {
		if a := math.Abs(d.Total); a > m {
			m = a
		}
	}
	if m == 0 {
		return 1
	}
	return m
}

var _ domsvc.DemandForecaster = (*SeasonalForecaster)(nil)
