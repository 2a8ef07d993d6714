// cmd/preflight/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/hamed0406/statusforge/internal/config"
	"github.com/hamed0406/statusforge/internal/repo/postgres"
)

func main() {
	_ = godotenv.Load()

	failed := false
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		failed = true
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	cfg, err := config.FromEnv()
	for _, e := range multierr.Errors(err) {
		fail(e.Error())
	}

	if len(cfg.AdminAPIKeys) == 0 {
		fail("ADMIN_API_KEYS is empty; write routes would accept anonymous requests.")
	}
	if len(cfg.PublicAPIKeys) == 0 {
		warn("PUBLIC_API_KEYS is empty; only admin keys can read.")
	}
	for name, v := range map[string]string{
		"ADMIN_API_KEYS":  os.Getenv("ADMIN_API_KEYS"),
		"PUBLIC_API_KEYS": os.Getenv("PUBLIC_API_KEYS"),
	} {
		if strings.Contains(v, " ") {
			warn(name + " contains spaces; use comma-separated with no spaces, e.g. key1,key2")
		}
	}

	ok("API_ADDR=" + cfg.Addr)

	switch cfg.DatabaseDriver {
	case config.DriverMemory:
		warn("DATABASE_DRIVER=memory; monitors and results are lost on restart.")
	case config.DriverPostgres:
		if cfg.DatabaseURL != "" {
			if err := pingPostgres(cfg.DatabaseURL); err != nil {
				fail("postgres unreachable: " + err.Error())
			} else {
				ok("postgres reachable")
			}
		}
	case config.DriverSQLite:
		ok("sqlite file " + cfg.DatabaseURL)
	}

	if cfg.ProberURL == "" {
		warn("PROBER_URL empty; on-demand checks will answer 502.")
	} else {
		ok("PROBER_URL=" + cfg.ProberURL)
	}

	if len(cfg.AllowedOrigins) == 0 {
		warn("ALLOWED_ORIGINS empty; CORS will allow any origin.")
	} else {
		ok("ALLOWED_ORIGINS=" + strings.Join(cfg.AllowedOrigins, ","))
	}

	if failed {
		os.Exit(1)
	}
	ok("preflight passed")
}

func pingPostgres(dsn string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s, err := postgres.New(ctx, dsn, zap.NewNop())
	if err != nil {
		return err
	}
	return s.Close()
}
