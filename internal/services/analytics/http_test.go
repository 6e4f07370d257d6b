package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"FitPrice/internal/domain/models"
	"FitPrice/pkg/config"
	xhttp "FitPrice/pkg/http"
)

func testConfig(t *testing.T, url string) *config.Config {
	t.Helper()
	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	cfg.Analytics.ServiceURL = url
	cfg.Analytics.Retries = 3
	return cfg
}

func TestHTTPElasticityDecodesContract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/elasticity/fit" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req elasticityReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Prices) != 2 || req.Prices[1] != 200 || req.Demand[0] != 10 {
			t.Errorf("unexpected payload %+v", req)
		}
		_, _ = w.Write([]byte(`{"elasticity":-1.3,"intercept":7.1,"r_squared":0.62,"adj_r_squared":0.6,
			"mse":4,"rmse":2,"mae":1.5,"mape":12.5,"predicted_demand":[9.5,5.1]}`))
	}))
	defer srv.Close()

	est := NewHTTPElasticityEstimator(testConfig(t, srv.URL))
	res, err := est.Estimate(context.Background(), []models.PricePoint{{Price: 100, Demand: 10}, {Price: 200, Demand: 5}})
	if err != nil {
		t.Fatalf("Estimate error: %v", err)
	}
	if res.Coefficient != -1.3 || res.Intercept != 7.1 || res.Metrics.MAPE != 12.5 || res.Metrics.AdjRSquared != 0.6 {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(res.Predictions) != 2 || res.Predictions[1] != 5.1 {
		t.Fatalf("unexpected predictions %v", res.Predictions)
	}
}

func TestHTTPElasticityValidatesLocally(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	est := NewHTTPElasticityEstimator(testConfig(t, srv.URL))
	_, err := est.Estimate(context.Background(), []models.PricePoint{{Price: 100, Demand: 0}, {Price: 200, Demand: 5}})
	if !errors.Is(err, ErrNonPositive) {
		t.Fatalf("expected ErrNonPositive, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatalf("invalid input must not reach the service")
	}
}

func TestHTTPElasticityPredictionCountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"elasticity":-0.4,"predicted_demand":[1]}`))
	}))
	defer srv.Close()

	est := NewHTTPElasticityEstimator(testConfig(t, srv.URL))
	if _, err := est.Estimate(context.Background(), []models.PricePoint{{Price: 1, Demand: 1}, {Price: 2, Demand: 1}}); err == nil {
		t.Fatalf("expected error on prediction count mismatch")
	}
}

func TestHTTPForecasterDecodesContract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req forecastReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if r.URL.Path != "/forecast/fit" || len(req.Dates) != 3 || req.Dates[0] != "2018-04-02" {
			t.Errorf("unexpected request %s %+v", r.URL.Path, req)
		}
		if !req.DailySeasonality || !req.WeeklySeasonality || req.TrainFraction != 0.8 || req.IntervalWidth != 0.8 {
			t.Errorf("unexpected model options %+v", req)
		}
		_, _ = w.Write([]byte(`{"model":"prophet","forecast":[
			{"ds":"2018-04-02","yhat":4,"yhat_lower":3,"yhat_upper":5},
			{"ds":"2018-04-03 00:00:00","yhat":6,"yhat_lower":5,"yhat_upper":7},
			{"ds":"2018-04-04","yhat":8,"yhat_lower":7,"yhat_upper":9}],
			"metrics":{"mae":0.5,"rmse":0.5},"train_size":2,"holdout_size":1}`))
	}))
	defer srv.Close()

	f := NewHTTPDemandForecaster(testConfig(t, srv.URL))
	res, err := f.Forecast(context.Background(), series(4, 6, 8.5), 0.8)
	if err != nil {
		t.Fatalf("Forecast error: %v", err)
	}
	if len(res.Points) != 3 || res.Model != "prophet" {
		t.Fatalf("unexpected result %+v", res)
	}
	if !res.Points[1].Date.Equal(day0.AddDate(0, 0, 1)) || res.Points[1].UpperBound != 7 {
		t.Fatalf("unexpected second point %+v", res.Points[1])
	}
	if math.Abs(res.Metrics.MAE-0.5) > 1e-12 || res.Metrics.TrainSize != 2 || res.Metrics.HoldoutSize != 1 {
		t.Fatalf("unexpected metrics %+v", res.Metrics)
	}
}

func TestHTTPForecasterRejectsShortSeries(t *testing.T) {
	f := NewHTTPDemandForecaster(testConfig(t, "http://127.0.0.1:0"))
	if _, err := f.Forecast(context.Background(), series(1, 2), 0.8); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestRetryOnTemporaryStatus(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"elasticity":-2}`))
	}))
	defer srv.Close()

	est := NewHTTPElasticityEstimator(testConfig(t, srv.URL))
	res, err := est.Estimate(context.Background(), []models.PricePoint{{Price: 1, Demand: 1}, {Price: 2, Demand: 1}})
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if res.Coefficient != -2 || atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("unexpected result %v after %d calls", res.Coefficient, calls)
	}
}

func TestNoRetryOnClientError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad payload", http.StatusBadRequest)
	}))
	defer srv.Close()

	base := NewHTTPServiceBase(testConfig(t, srv.URL), xhttp.WithHTTPClient(srv.Client()))
	err := base.PostJSONWithRetry(context.Background(), "/elasticity/fit", map[string]int{"a": 1}, nil)
	var se *xhttp.StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 StatusError, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("client errors must not be retried, got %d calls", calls)
	}
}

func TestNoRetryOnUndecodableResponse(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	var dest map[string]float64
	err := NewHTTPServiceBase(testConfig(t, srv.URL)).PostJSONWithRetry(context.Background(), "/elasticity/fit", map[string]int{"a": 1}, &dest)
	if err == nil {
		t.Fatalf("expected decode error")
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("undecodable responses must not be retried, got %d calls", n)
	}
}

func TestRetryOnDroppedConnection(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			hj, ok := w.(http.Hijacker)
			if !ok {
				t.Errorf("response writer cannot hijack")
				return
			}
			conn, _, err := hj.Hijack()
			if err == nil {
				_ = conn.Close()
			}
			return
		}
		_, _ = w.Write([]byte(`{"elasticity":-0.7}`))
	}))
	defer srv.Close()

	var out elasticityResp
	if err := NewHTTPServiceBase(testConfig(t, srv.URL)).PostJSONWithRetry(context.Background(), "/elasticity/fit", elasticityReq{}, &out); err != nil {
		t.Fatalf("expected retry after dropped connection, got %v", err)
	}
	if out.Elasticity != -0.7 || atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("unexpected result %v after %d calls", out.Elasticity, atomic.LoadInt32(&calls))
	}
}

func TestPostJSONRequiresBaseURL(t *testing.T) {
	base := NewHTTPServiceBase(testConfig(t, ""))
	if err := base.PostJSON(context.Background(), "/x", nil, nil); err == nil {
		t.Fatalf("expected error without service url")
	}
}
