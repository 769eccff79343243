// Package config loads the service settings from a YAML file, an optional
// .env file and LOADCAST_* environment variables, in increasing priority.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/xh3b4sd/tracer"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Listen    string        `yaml:"listen" validate:"required,hostname_port"`
	ModelPath string        `yaml:"model_path" validate:"required"`
	LogoPath  string        `yaml:"logo_path" validate:"required"`
	Title     string        `yaml:"title" validate:"required"`
	Python    string        `yaml:"python" validate:"required"`
	Host      string        `yaml:"loader_host" validate:"required"`
	Port      int           `yaml:"loader_port" validate:"min=1,max=65535"`
	Restore   time.Duration `yaml:"restore_timeout" validate:"gt=0"`
	Timeout   time.Duration `yaml:"timeout" validate:"gt=0"`
	LogLevel  string        `yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string        `yaml:"log_format" validate:"oneof=text json"`
	Recorder  Recorder      `yaml:"recorder"`
}

// Recorder configures the optional forecast history. An empty driver
// disables it.
type Recorder struct {
	Driver string `yaml:"driver" validate:"omitempty,oneof=sqlite postgres"`
	DSN    string `yaml:"dsn" validate:"required_with=Driver"`
}

// Path returns the config file path from the environment or the default.
func Path() string {
	if pat := os.Getenv("LOADCAST_CONFIG"); pat != "" {
		return pat
	}

	return "./loadcast.yaml"
}

// Load reads the config file at pat. A missing file is not an error, since
// every setting has a default. Missing required files referenced by the
// config, e.g. the model, are only detected when they are loaded.
func Load(pat string) (Config, error) {
	var cfg Config

	byt, err := os.ReadFile(pat)
	if err != nil && !os.IsNotExist(err) {
		return Config{}, tracer.Mask(err)
	}

	if err == nil {
		err := yaml.Unmarshal(byt, &cfg)
		if err != nil {
			return Config{}, tracer.Maskf(invalidConfigError, "parse %s: %v", pat, err)
		}
	}

	{
		err := godotenv.Load()
		if err != nil && !os.IsNotExist(err) {
			return Config{}, tracer.Mask(err)
		}
	}

	{
		defaults(&cfg)
	}

	{
		err := environment(&cfg)
		if err != nil {
			return Config{}, tracer.Mask(err)
		}
	}

	{
		err := cfg.Verify()
		if err != nil {
			return Config{}, tracer.Mask(err)
		}
	}

	return cfg, nil
}

func (c Config) Verify() error {
	err := validator.New().Struct(c)
	if err != nil {
		return tracer.Maskf(invalidConfigError, "%v", err)
	}

	return nil
}

func defaults(cfg *Config) {
	if cfg.Listen == "" {
		cfg.Listen = ":8080"
	}
	if cfg.ModelPath == "" {
		cfg.ModelPath = "model_prediksi_beban.joblib"
	}
	if cfg.LogoPath == "" {
		cfg.LogoPath = "logo-pln.png"
	}
	if cfg.Title == "" {
		cfg.Title = "PLN Electrical Load Forecast"
	}
	if cfg.Python == "" {
		cfg.Python = "python3"
	}
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 8642
	}
	if cfg.Restore == 0 {
		cfg.Restore = time.Minute
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "json"
	}
}

func environment(cfg *Config) error {
	str := map[string]*string{
		"LOADCAST_LISTEN":          &cfg.Listen,
		"LOADCAST_MODEL_PATH":      &cfg.ModelPath,
		"LOADCAST_LOGO_PATH":       &cfg.LogoPath,
		"LOADCAST_TITLE":           &cfg.Title,
		"LOADCAST_PYTHON":          &cfg.Python,
		"LOADCAST_LOADER_HOST":     &cfg.Host,
		"LOADCAST_LOG_LEVEL":       &cfg.LogLevel,
		"LOADCAST_LOG_FORMAT":      &cfg.LogFormat,
		"LOADCAST_RECORDER_DRIVER": &cfg.Recorder.Driver,
		"LOADCAST_RECORDER_DSN":    &cfg.Recorder.DSN,
	}

	for k, v := range str {
		if val := os.Getenv(k); val != "" {
			*v = val
		}
	}

	if val := os.Getenv("LOADCAST_LOADER_PORT"); val != "" {
		por, err := strconv.Atoi(val)
		if err != nil {
			return tracer.Maskf(invalidConfigError, "LOADCAST_LOADER_PORT must be a number, got %q", val)
		}

		cfg.Port = por
	}

	if val := os.Getenv("LOADCAST_TIMEOUT"); val != "" {
		dur, err := time.ParseDuration(val)
		if err != nil {
			return tracer.Maskf(invalidConfigError, "LOADCAST_TIMEOUT must be a duration, got %q", val)
		}

		cfg.Timeout = dur
	}

	if val := os.Getenv("LOADCAST_RESTORE_TIMEOUT"); val != "" {
		dur, err := time.ParseDuration(val)
		if err != nil {
			return tracer.Maskf(invalidConfigError, "LOADCAST_RESTORE_TIMEOUT must be a duration, got %q", val)
		}

		cfg.Restore = dur
	}

	return nil
}
