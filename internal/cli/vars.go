package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/valter-silva-au/ogit/internal/integration"
	"github.com/valter-silva-au/ogit/internal/observability"
	"github.com/valter-silva-au/ogit/pkg/models"
)

// Service instances, set during app initialization in app.go.
var (
	BasePath   string
	Settings   *models.Config
	Logger     observability.EventLogger
	RepoOpener integration.RepositoryOpener

	// Configure loads the configuration for the current invocation, taking
	// the parsed persistent flags into account, and sets the variables above.
	Configure func(flags *pflag.FlagSet) error
)

func requireLogger() (observability.EventLogger, error) {
	if Logger == nil {
		return nil, fmt.Errorf("event logger not initialized")
	}
	return Logger, nil
}

// openRepository finds the repository containing the working directory.
func openRepository() (integration.Repository, error) {
	if RepoOpener == nil {
		return nil, fmt.Errorf("repository opener not initialized")
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	return RepoOpener.Discover(wd)
}

// repoPaths converts command-line paths, relative to the working directory,
// into slash-separated paths relative to the repository root.
func repoPaths(root string, args []string) ([]string, error) {
	if len(args) == 0 {
		return nil, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}

	out := make([]string, 0, len(args))
	for _, arg := range args {
		p := arg
		if !filepath.IsAbs(p) {
			p = filepath.Join(wd, p)
		}
		rel, err := filepath.Rel(root, p)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil, fmt.Errorf("%s is outside the repository at %s", arg, root)
		}
		out = append(out, filepath.ToSlash(rel))
	}
	return out, nil
}

// logFailure records that action failed with err and returns err wrapped
// with the action, joined with any error from the logger itself.
func logFailure(log observability.EventLogger, location string, err error, action string, fields observability.Fields) error {
	if logErr := log.Error(location, err, action+" failed", fields); logErr != nil {
		return fmt.Errorf("%s: %w", action, errors.Join(err, logErr))
	}
	return fmt.Errorf("%s: %w", action, err)
}
