// Load envs from .env
// Load YAML config
// Override with env vars
// Provide default values
// Validate config

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go-startup-automation/internal/filter"
	"go-startup-automation/internal/letter"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

type Config struct {
	BaseURL   string `yaml:"base_url"`
	ListURL   string `yaml:"list_url"`
	LoginURL  string `yaml:"login_url"`
	Email     string `yaml:"email" env:"WORK_AT_A_STARTUP_EMAIL"`
	Password  string `yaml:"password" env:"WORK_AT_A_STARTUP_PASSWORD"`
	Headless  bool   `yaml:"headless" env:"HEADLESS"`
	SlowMoMS  int    `yaml:"slow_mo_ms"`
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL"`
	UserAgent string `yaml:"user_agent"`

	MaxApplications int  `yaml:"max_applications" env:"MAX_APPLICATIONS"`
	MatchListings   bool `yaml:"match_listings"`

	Filter  filter.JobFilter `yaml:"filter"`
	Profile letter.Profile   `yaml:"profile"`

	//Timing
	ProbeTimeout    time.Duration `yaml:"probe_timeout"`
	ScrollSettle    time.Duration `yaml:"scroll_settle"`
	MaxScrolls      int           `yaml:"max_scrolls"`
	DetailsPerMin   int           `yaml:"details_per_minute"`
	RunTimeout      time.Duration `yaml:"run_timeout"`
	SeenExpiry      time.Duration `yaml:"seen_expiry"`
	SkipSeen        bool          `yaml:"skip_seen"`
	RenderPDF       bool          `yaml:"render_pdf"`
	LetterTemplate  string        `yaml:"letter_template"`
	ServerAddr      string        `yaml:"server_addr" env:"SERVER_ADDR"`
	TelegramToken   string        `yaml:"telegram_token" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID  int64         `yaml:"telegram_chat_id" env:"TELEGRAM_CHAT_ID"`
	DatabaseURL     string        `yaml:"database_url" env:"DATABASE_URL"`
	CookiesPath     string        `yaml:"cookies_path"`
	CachePath       string        `yaml:"cache_path"`
	OutputDir       string        `yaml:"output_dir"`
	ScreenshotDir   string        `yaml:"screenshot_dir"`
	SaveCookiesPath string        `yaml:"save_cookies_path"`
}

// Load reads .env, then the YAML file at path (a missing file is not an error),
// then environment overrides. Defaults fill what is still empty.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{Headless: true, SkipSeen: true}

	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("WORK_AT_A_STARTUP_EMAIL"); v != "" {
		c.Email = v
	}
	if v := os.Getenv("WORK_AT_A_STARTUP_PASSWORD"); v != "" {
		c.Password = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.TelegramToken = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		c.ServerAddr = v
	}

	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		c.TelegramChatID = id
	}
	if v := os.Getenv("MAX_APPLICATIONS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid MAX_APPLICATIONS: %w", err)
		}
		c.MaxApplications = n
	}
	if v := os.Getenv("HEADLESS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid HEADLESS: %w", err)
		}
		c.Headless = b
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://www.workatastartup.com"
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.ListURL == "" {
		c.ListURL = c.BaseURL + "/companies"
	}
	if c.LoginURL == "" {
		c.LoginURL = "https://account.ycombinator.com/?continue=" + c.BaseURL + "/application"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.MaxApplications == 0 {
		c.MaxApplications = 5
	}
	if c.Filter.MaxApplications == 0 {
		c.Filter.MaxApplications = c.MaxApplications
	}
	if c.ProbeTimeout == 0 {
		c.ProbeTimeout = 2 * time.Second
	}
	if c.ScrollSettle == 0 {
		c.ScrollSettle = 1500 * time.Millisecond
	}
	if c.MaxScrolls == 0 {
		c.MaxScrolls = 50
	}
	if c.DetailsPerMin == 0 {
		c.DetailsPerMin = 12
	}
	if c.RunTimeout == 0 {
		c.RunTimeout = 15 * time.Minute
	}
	if c.SeenExpiry == 0 {
		c.SeenExpiry = 30 * 24 * time.Hour
	}
	if c.ServerAddr == "" {
		c.ServerAddr = ":8080"
	}
	if c.CookiesPath == "" {
		c.CookiesPath = ".cookies/cookies-workatastartup.json"
	}
	if c.CachePath == "" {
		c.CachePath = ".cache"
	}
	if c.OutputDir == "" {
		c.OutputDir = "logs"
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = "logs/screenshots"
	}
}

// Validate checks values that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error", "disable":
	default:
		errs = append(errs, fmt.Errorf("log_level must be debug, info, warn, error or disable, got %q", c.LogLevel))
	}
	if c.MaxApplications < 0 {
		errs = append(errs, errors.New("max_applications must not be negative"))
	}
	if c.DetailsPerMin < 0 {
		errs = append(errs, errors.New("details_per_minute must not be negative"))
	}
	if (c.Email == "") != (c.Password == "") {
		errs = append(errs, errors.New("WORK_AT_A_STARTUP_EMAIL and WORK_AT_A_STARTUP_PASSWORD must be set together"))
	}
	if c.TelegramToken != "" && c.TelegramChatID == 0 {
		errs = append(errs, errors.New("TELEGRAM_CHAT_ID is required when TELEGRAM_BOT_TOKEN is set"))
	}
	return errors.Join(errs...)
}

// HasCredentials reports whether login can be attempted.
func (c *Config) HasCredentials() bool {
	return c.Email != "" && c.Password != ""
}

// TelegramEnabled reports whether notifications should be sent.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}
