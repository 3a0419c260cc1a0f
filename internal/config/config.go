package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the console's settings.
type Config struct {
	APIURL                 string        `validate:"required,url"`
	Token                  string        `validate:"omitempty,printascii"`
	PageSize               int           `validate:"min=25,max=500"`
	PollInterval           time.Duration `validate:"min=1s"`
	InProgressPollInterval time.Duration `validate:"min=1s"`
	RequestTimeout         time.Duration `validate:"min=1s"`
	RateLimit              float64       `validate:"gt=0"`
	Burst                  int           `validate:"min=1"`
	LogLevel               string        `validate:"oneof=debug info warn error"`
	LogFile                string
	MetricsAddr            string `validate:"omitempty,hostname_port"`
}

const (
	defaultConfigPath     = "~/.config/cirrus/config.toml"
	defaultAPIURL         = "https://api.linode.com/v4"
	defaultPageSize       = 100
	defaultPollSeconds    = 16
	defaultFastPollSecond = 2
	defaultTimeoutSeconds = 30
	defaultRateLimit      = 10
	defaultBurst          = 20
	defaultLogLevel       = "info"
	defaultLogFile        = "~/.local/state/cirrus/cirrus.log"

	envToken  = "CIRRUS_TOKEN"
	envAPIURL = "CIRRUS_API_URL"
)

var validate = validator.New()

// Default returns the built-in settings.
func Default() Config {
	return Config{
		APIURL:                 defaultAPIURL,
		PageSize:               defaultPageSize,
		PollInterval:           defaultPollSeconds * time.Second,
		InProgressPollInterval: defaultFastPollSecond * time.Second,
		RequestTimeout:         defaultTimeoutSeconds * time.Second,
		RateLimit:              defaultRateLimit,
		Burst:                  defaultBurst,
		LogLevel:               defaultLogLevel,
		LogFile:                mustExpand(defaultLogFile),
	}
}

// Load reads the config file, falling back to defaults when it is missing.
// A .env file next to the config and then the process environment override
// the token and API URL.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := readFile(resolved, &cfg); err != nil {
		return Config{}, err
	}
	applyEnv(&cfg, filepath.Join(filepath.Dir(resolved), ".env"))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and formats.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, ", "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func readFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL                string  `toml:"api_url"`
		Token                 string  `toml:"token"`
		PageSize              int     `toml:"page_size"`
		PollSeconds           int     `toml:"poll_seconds"`
		InProgressPollSeconds int     `toml:"in_progress_poll_seconds"`
		RequestTimeoutSeconds int     `toml:"request_timeout_seconds"`
		RateLimit             float64 `toml:"rate_limit"`
		Burst                 int     `toml:"burst"`
		LogLevel              string  `toml:"log_level"`
		LogFile               string  `toml:"log_file"`
		MetricsAddr           string  `toml:"metrics_addr"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	cfg.Token = strings.TrimSpace(raw.Token)
	if raw.PageSize != 0 {
		cfg.PageSize = raw.PageSize
	}
	if raw.PollSeconds != 0 {
		cfg.PollInterval = time.Duration(raw.PollSeconds) * time.Second
	}
	if raw.InProgressPollSeconds != 0 {
		cfg.InProgressPollInterval = time.Duration(raw.InProgressPollSeconds) * time.Second
	}
	if raw.RequestTimeoutSeconds != 0 {
		cfg.RequestTimeout = time.Duration(raw.RequestTimeoutSeconds) * time.Second
	}
	if raw.RateLimit != 0 {
		cfg.RateLimit = raw.RateLimit
	}
	if raw.Burst != 0 {
		cfg.Burst = raw.Burst
	}
	if v := strings.ToLower(strings.TrimSpace(raw.LogLevel)); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	cfg.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)
	return nil
}

// applyEnv overlays the .env file at dotenv and then the environment.
func applyEnv(cfg *Config, dotenv string) {
	if values, err := godotenv.Read(dotenv); err == nil {
		overlay(cfg, func(key string) string { return values[key] })
	}
	overlay(cfg, os.Getenv)
}

func overlay(cfg *Config, lookup func(string) string) {
	if v := strings.TrimSpace(lookup(envToken)); v != "" {
		cfg.Token = v
	}
	if v := strings.TrimSpace(lookup(envAPIURL)); v != "" {
		cfg.APIURL = v
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
