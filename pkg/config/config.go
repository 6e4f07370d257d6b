package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"FitPrice/pkg/validate"
)

const (
	BackendNative = "native"
	BackendHTTP   = "http"
)

type Config struct {
	Environment string `yaml:"environment" json:"environment" default:"development" validate:"required"`
	Log         struct {
		Level  string `yaml:"level" json:"level" default:"info" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" json:"format" default:"console" validate:"oneof=json console"`
		Output string `yaml:"output" json:"output" default:"stdout"`
	} `yaml:"log" json:"log"`
	Input struct {
		Path    string  `yaml:"path" json:"path" default:"data/Cleaned_Fitness_Classes_Data.csv" validate:"required"`
		Columns Columns `yaml:"columns" json:"columns"`
	} `yaml:"input" json:"input"`
	Output struct {
		Dir             string `yaml:"dir" json:"dir" default:"output" validate:"required"`
		Recommendations string `yaml:"recommendations" json:"recommendations" default:"pricing_recommendations.csv" validate:"required"`
		Forecast        string `yaml:"forecast" json:"forecast" default:"forecast_output.csv"`
		Elasticity      string `yaml:"elasticity" json:"elasticity" default:"elasticity_output.csv"`
		// Header names of the recommendations file, in column order.
		Header []string `yaml:"header" json:"header" validate:"omitempty,len=5"`
	} `yaml:"output" json:"output"`
	Elasticity struct {
		Backend string `yaml:"backend" json:"backend" default:"native" validate:"oneof=native http"`
	} `yaml:"elasticity" json:"elasticity"`
	Forecast struct {
		Backend       string  `yaml:"backend" json:"backend" default:"native" validate:"oneof=native http"`
		TrainFraction float64 `yaml:"train_fraction" json:"train_fraction" default:"0.8" validate:"gt=0,lte=1"`
		FutureDays    int     `yaml:"future_days" json:"future_days" validate:"gte=0"`
		IntervalWidth float64 `yaml:"interval_width" json:"interval_width" default:"0.8" validate:"gt=0,lt=1"`
		WeeklyOrder   int     `yaml:"weekly_order" json:"weekly_order" default:"3" validate:"gte=0"`
		DailyOrder    int     `yaml:"daily_order" json:"daily_order" default:"4" validate:"gte=0"`
		Ridge         float64 `yaml:"ridge" json:"ridge" default:"0.0001" validate:"gte=0"`
	} `yaml:"forecast" json:"forecast"`
	Analytics struct {
		ServiceURL string        `yaml:"service_url" json:"service_url"`
		Timeout    time.Duration `yaml:"timeout" json:"timeout" default:"30s"`
		Retries    int           `yaml:"retries" json:"retries" default:"3" validate:"gte=1"`
	} `yaml:"analytics" json:"analytics"`
	Metrics struct {
		Enabled  bool   `yaml:"enabled" json:"enabled"`
		Textfile string `yaml:"textfile" json:"textfile" default:"pricing.prom"`
	} `yaml:"metrics" json:"metrics"`
}

// Columns maps input CSV headers onto booking record fields. StartTime is
// optional; when set, its clock value is placed on the Timestamp date.
type Columns struct {
	Timestamp string `yaml:"timestamp" json:"timestamp" default:"BookingEndDateTime" validate:"required"`
	StartTime string `yaml:"start_time" json:"start_time"`
	Activity  string `yaml:"activity" json:"activity" default:"ActivityDescription" validate:"required"`
	Site      string `yaml:"site" json:"site" default:"ActivitySiteID" validate:"required"`
	Price     string `yaml:"price" json:"price" default:"Price (INR)" validate:"required"`
	Bookings  string `yaml:"bookings" json:"bookings" default:"Number Booked" validate:"required"`
	Capacity  string `yaml:"capacity" json:"capacity" default:"MaxBookees" validate:"required"`
}

// Default returns a Config populated from struct defaults only.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("set defaults: %w", err)
	}
	return &c, nil
}

// Load reads and parses a YAML configuration file on top of the defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	c, err := Default()
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

// LoadWithEnv loads config from YAML, reads a .env file if present, and
// overrides with FITPRICE_* environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	_ = godotenv.Load()

	setStr(&c.Environment, "FITPRICE_ENV")
	setStr(&c.Log.Level, "FITPRICE_LOG_LEVEL")
	setStr(&c.Log.Format, "FITPRICE_LOG_FORMAT")
	setStr(&c.Input.Path, "FITPRICE_INPUT_PATH")
	setStr(&c.Input.Columns.StartTime, "FITPRICE_INPUT_START_TIME_COLUMN")
	setStr(&c.Output.Dir, "FITPRICE_OUTPUT_DIR")
	setStr(&c.Elasticity.Backend, "FITPRICE_ELASTICITY_BACKEND")
	setStr(&c.Forecast.Backend, "FITPRICE_FORECAST_BACKEND")
	setFloat64(&c.Forecast.TrainFraction, "FITPRICE_FORECAST_TRAIN_FRACTION")
	setInt(&c.Forecast.FutureDays, "FITPRICE_FORECAST_FUTURE_DAYS")
	setStr(&c.Analytics.ServiceURL, "FITPRICE_ANALYTICS_URL")
	setBool(&c.Metrics.Enabled, "FITPRICE_METRICS_ENABLED")

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct("config", c); err != nil {
		return err
	}
	usesHTTP := c.Elasticity.Backend == BackendHTTP || c.Forecast.Backend == BackendHTTP
	if usesHTTP && c.Analytics.ServiceURL == "" {
		return fmt.Errorf("analytics.service_url is required when a signal backend is %q", BackendHTTP)
	}
	return nil
}

// OutputPath joins a configured output file name onto the output directory.
// Empty names disable that output.
func (c *Config) OutputPath(name string) string {
	if name == "" {
		return ""
	}
	return strings.TrimRight(c.Output.Dir, "/") + "/" + name
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
