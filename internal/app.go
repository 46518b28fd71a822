// Package internal provides the App struct that wires all components of ogit
// together and initializes the CLI layer.
package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/valter-silva-au/ogit/internal/cli"
	"github.com/valter-silva-au/ogit/internal/core"
	"github.com/valter-silva-au/ogit/internal/integration"
	"github.com/valter-silva-au/ogit/internal/observability"
	"github.com/valter-silva-au/ogit/pkg/models"
)

// App holds all service dependencies for ogit.
type App struct {
	BasePath string

	// Configuration
	ConfigMgr core.ConfigurationManager
	Config    *models.Config

	// Observability
	Metrics *observability.Metrics
	Logger  observability.EventLogger

	// Integration services
	RepoOpener integration.RepositoryOpener
}

// NewApp creates the App for basePath and registers it with the CLI layer.
// Configuration is loaded later, once the command line has been parsed, by
// Configure.
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}
	app.ConfigMgr = core.NewConfigurationManager(basePath, homeDir)
	app.Metrics = observability.NewMetrics()

	cli.BasePath = basePath
	cli.Configure = app.Configure

	return app, nil
}

// Configure loads the effective configuration using the parsed persistent
// flags, builds the event logger and repository opener, and wires them into
// the CLI package.
func (a *App) Configure(flags *pflag.FlagSet) error {
	cfg, err := a.ConfigMgr.Load(flags)
	if err != nil {
		return err
	}

	loggerCfg, err := core.ToLoggerConfig(cfg)
	if err != nil {
		return err
	}
	sinks, err := observability.NewSinks(loggerCfg)
	if err != nil {
		return fmt.Errorf("creating sinks: %w", err)
	}

	var author *integration.Signature
	if cfg.Commit.AuthorName != "" {
		author = &integration.Signature{Name: cfg.Commit.AuthorName, Email: cfg.Commit.AuthorEmail}
	}

	a.Config = cfg
	a.Logger = observability.NewEventLogger(loggerCfg, a.Metrics, sinks...)
	a.RepoOpener = integration.NewRepositoryOpener(author)

	// --- Wire CLI package-level variables ---
	cli.Settings = a.Config
	cli.Logger = a.Logger
	cli.RepoOpener = a.RepoOpener

	return nil
}

// Close exports the logger metrics when logging.metrics_file is configured.
// It is safe to call Close before Configure.
func (a *App) Close() error {
	if a.Config == nil || a.Config.Logging.MetricsFile == "" {
		return nil
	}
	return a.Metrics.WriteTextfile(a.Config.Logging.MetricsFile)
}

// ResolveBasePath determines the directory configuration is read from.
// It checks for the OGIT_HOME env var, then the nearest ancestor of the
// current directory containing .ogitconfig, then falls back to the current
// directory.
func ResolveBasePath() string {
	if home := os.Getenv("OGIT_HOME"); home != "" {
		return home
	}
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	// Walk up to find a directory containing .ogitconfig.
	for {
		if _, err := os.Stat(filepath.Join(dir, core.ConfigFileName)); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	// Fall back to cwd.
	cwd, _ := os.Getwd()
	return cwd
}
