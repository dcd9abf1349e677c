package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const defaultWialonBase = "https://hst-api.wialon.com/wialon/ajax.html"

type Config struct {
	WialonBase   string        `yaml:"wialon_base" validate:"required,url"`
	WialonToken  string        `yaml:"wialon_token"`
	LoginTimeout time.Duration `yaml:"login_timeout" validate:"gt=0"`
	CallTimeout  time.Duration `yaml:"call_timeout" validate:"gt=0"`

	HTTPPort    string   `yaml:"http_port" validate:"required,numeric"`
	CORSOrigins []string `yaml:"cors_allow_origins" validate:"min=1,dive,required"`

	LogLevel      string `yaml:"log_level" validate:"omitempty,oneof=DEBUG INFO WARN ERROR"`
	LogFilePath   string `yaml:"log_file_path"`
	LogMaxAgeDays int    `yaml:"log_max_age_days" validate:"gte=0"`
}

// Load builds the configuration from defaults, then the YAML file named by
// CONFIG_FILE if any, then environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		WialonBase:    defaultWialonBase,
		LoginTimeout:  15 * time.Second,
		CallTimeout:   30 * time.Second,
		HTTPPort:      "8080",
		CORSOrigins:   []string{"*"},
		LogLevel:      "INFO",
		LogMaxAgeDays: 30,
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	cfg.LogLevel = strings.ToUpper(cfg.LogLevel)
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	cfg.WialonBase = getEnv("WIALON_BASE", cfg.WialonBase)
	cfg.WialonToken = getEnv("WIALON_TOKEN", cfg.WialonToken)
	cfg.HTTPPort = getEnv("HTTP_PORT", cfg.HTTPPort)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFilePath = getEnv("LOG_FILE_PATH", cfg.LogFilePath)

	if v := os.Getenv("CORS_ALLOW_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.CORSOrigins = origins
	}

	var err error
	if cfg.LoginTimeout, err = getDuration("WIALON_LOGIN_TIMEOUT", cfg.LoginTimeout); err != nil {
		return err
	}
	if cfg.CallTimeout, err = getDuration("WIALON_CALL_TIMEOUT", cfg.CallTimeout); err != nil {
		return err
	}

	if v := os.Getenv("LOG_MAX_AGE_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid LOG_MAX_AGE_DAYS: %w", err)
		}
		cfg.LogMaxAgeDays = days
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
