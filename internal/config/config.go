package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Addr      string `yaml:"addr"`       // API bind address, e.g., "127.0.0.1:8080" or ":8080" (Docker)
	LogDir    string `yaml:"log_dir"`    // logs directory
	LogLevel  string `yaml:"log_level"`  // debug, info, warn, error
	LogStdout bool   `yaml:"log_stdout"` // also write logs to stdout

	DatabaseDriver string `yaml:"database_driver"` // memory, postgres or sqlite
	DatabaseURL    string `yaml:"database_url"`    // postgres DSN or sqlite file path

	ProberURL    string        `yaml:"prober_url"`
	ProberToken  string        `yaml:"prober_token"`
	ProbeTimeout time.Duration `yaml:"probe_timeout"`

	PublicAPIKeys  []string `yaml:"public_api_keys"`
	AdminAPIKeys   []string `yaml:"admin_api_keys"`
	PublicRPM      int      `yaml:"public_rpm"`
	PublicBurst    int      `yaml:"public_burst"`
	AdminRPM       int      `yaml:"admin_rpm"`
	AdminBurst     int      `yaml:"admin_burst"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

func Defaults() Config {
	return Config{
		Addr:         "127.0.0.1:8080",
		LogDir:       "logs",
		LogLevel:     "info",
		ProbeTimeout: 10 * time.Second,
		PublicRPM:    120,
		PublicBurst:  60,
		AdminRPM:     60,
		AdminBurst:   30,
	}
}

// FromEnv builds the config from defaults, then the YAML file named by
// CONFIG_FILE (if any), then environment variables. Every problem found is
// reported together.
func FromEnv() (Config, error) {
	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return cfg, err
		}
	}
	err := cfg.applyEnv()
	if cfg.DatabaseDriver == "" {
		// empty DATABASE_URL means the in-memory store
		cfg.DatabaseDriver = DriverMemory
		if cfg.DatabaseURL != "" {
			cfg.DatabaseDriver = DriverPostgres
		}
	}
	return cfg, multierr.Append(err, cfg.Validate())
}

func (c *Config) loadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	var errs error
	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		v := os.Getenv(key)
		if v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: not an integer: %q", key, v))
			return
		}
		*dst = n
	}
	list := func(key string, dst *[]string) {
		if v := os.Getenv(key); v != "" {
			*dst = splitList(v)
		}
	}

	str("API_ADDR", &c.Addr)
	str("LOG_DIR", &c.LogDir)
	str("LOG_LEVEL", &c.LogLevel)
	if v := os.Getenv("LOG_STDOUT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("LOG_STDOUT: not a boolean: %q", v))
		}
		c.LogStdout = b
	}
	str("DATABASE_DRIVER", &c.DatabaseDriver)
	str("DATABASE_URL", &c.DatabaseURL)
	str("PROBER_URL", &c.ProberURL)
	str("PROBER_TOKEN", &c.ProberToken)
	timeoutMS := -1
	num("PROBE_TIMEOUT_MS", &timeoutMS)
	if timeoutMS >= 0 {
		c.ProbeTimeout = time.Duration(timeoutMS) * time.Millisecond
	}
	list("PUBLIC_API_KEYS", &c.PublicAPIKeys)
	list("ADMIN_API_KEYS", &c.AdminAPIKeys)
	num("PUBLIC_RPM", &c.PublicRPM)
	num("PUBLIC_BURST", &c.PublicBurst)
	num("ADMIN_RPM", &c.AdminRPM)
	num("ADMIN_BURST", &c.AdminBurst)
	list("ALLOWED_ORIGINS", &c.AllowedOrigins)
	return errs
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs error
	if c.Addr == "" {
		errs = multierr.Append(errs, fmt.Errorf("API_ADDR must not be empty"))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}
	switch c.DatabaseDriver {
	case DriverMemory:
	case DriverPostgres, DriverSQLite:
		if c.DatabaseURL == "" {
			errs = multierr.Append(errs, fmt.Errorf("DATABASE_URL is required for driver %q", c.DatabaseDriver))
		}
	default:
		errs = multierr.Append(errs, fmt.Errorf("DATABASE_DRIVER: unknown driver %q", c.DatabaseDriver))
	}
	if c.ProberURL != "" {
		u, err := url.Parse(c.ProberURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = multierr.Append(errs, fmt.Errorf("PROBER_URL must be an absolute http(s) URL: %q", c.ProberURL))
		}
	}
	if c.ProbeTimeout <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("PROBE_TIMEOUT_MS must be positive"))
	}
	for name, v := range map[string]int{
		"PUBLIC_RPM": c.PublicRPM, "PUBLIC_BURST": c.PublicBurst,
		"ADMIN_RPM": c.AdminRPM, "ADMIN_BURST": c.AdminBurst,
	} {
		if v < 0 {
			errs = multierr.Append(errs, fmt.Errorf("%s must not be negative", name))
		}
	}
	return errs
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
