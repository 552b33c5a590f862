// Package bootstrap loads configuration and the process-wide logger, timezone and
// database for CLI commands.
package bootstrap

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lumishop/shopadmin/internal/infrastructure/config"
	"github.com/lumishop/shopadmin/internal/infrastructure/database"
	"github.com/lumishop/shopadmin/internal/shared/biztime"
	"github.com/lumishop/shopadmin/internal/shared/logger"
)

// Options are the persistent flags shared by every command.
type Options struct {
	Env        string
	ConfigPath string
}

// Bind registers --env and --config on cmd and its subcommands.
func (o *Options) Bind(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&o.Env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&o.ConfigPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
}

// ResolveEnv lets the ENV variable override the --env flag.
func (o Options) ResolveEnv() string {
	if envVar := os.Getenv("ENV"); envVar != "" {
		return envVar
	}
	return o.Env
}

// Env is a loaded configuration with logging and business time initialized.
type Env struct {
	Name   string
	Config *config.Config
	Log    logger.Interface
}

// Load reads the configuration, initializes the logger and the business timezone.
func Load(opts Options) (*Env, error) {
	name := opts.ResolveEnv()

	cfg, err := config.Load(name, opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg.Server.Mode = GinMode(name)

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	tz := cfg.Report.Timezone
	if tz == "" {
		tz = cfg.Server.Timezone
	}
	if err := biztime.Init(tz); err != nil {
		return nil, fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	return &Env{Name: name, Config: cfg, Log: logger.NewLogger()}, nil
}

// LoadWithDatabase is Load plus the process-wide database connection. Call
// database.Close when done.
func LoadWithDatabase(opts Options) (*Env, error) {
	e, err := Load(opts)
	if err != nil {
		return nil, err
	}
	if err := database.Init(&e.Config.Database); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return e, nil
}

// GinMode maps an environment name to a gin mode.
func GinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}
