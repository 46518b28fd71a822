package internal

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/valter-silva-au/ogit/internal/cli"
	"github.com/valter-silva-au/ogit/internal/observability"
)

const testLocation = "9d7b95bb-0e67-4659-8da7-265857ef3347"

// newFlags mirrors the persistent flags registered by the root command.
func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("ogit", pflag.ContinueOnError)
	fs.String("log-level", "", "")
	fs.String("log-file", "", "")
	fs.String("seq-url", "", "")
	fs.String("correlation-id", "", "")
	fs.Bool("no-seq", false, "")
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parsing flags: %v", err)
	}
	return fs
}

// isolateHome keeps a developer's ~/.ogitconfig out of the test.
func isolateHome(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
}

func TestResolveBasePath_OgitHomeSet(t *testing.T) {
	// Test that OGIT_HOME env var takes precedence.
	tmpDir := t.TempDir()
	t.Setenv("OGIT_HOME", tmpDir)

	got := ResolveBasePath()
	if got != tmpDir {
		t.Errorf("ResolveBasePath() = %q, want %q", got, tmpDir)
	}
}

func TestResolveBasePath_FindsOgitconfig(t *testing.T) {
	tmpDir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	subDir := filepath.Join(tmpDir, "sub", "nested")
	if err := os.MkdirAll(subDir, 0o755); err != nil {
		t.Fatal(err)
	}

	// Create .ogitconfig in the parent directory.
	configPath := filepath.Join(tmpDir, ".ogitconfig")
	if err := os.WriteFile(configPath, []byte("logging:\n  level: info\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Change to the nested subdirectory.
	origDir, _ := os.Getwd()
	defer func() { _ = os.Chdir(origDir) }()
	if err := os.Chdir(subDir); err != nil {
		t.Fatal(err)
	}

	t.Setenv("OGIT_HOME", "")

	got := ResolveBasePath()
	if got != tmpDir {
		t.Errorf("ResolveBasePath() = %q, want %q (should find .ogitconfig in parent)", got, tmpDir)
	}
}

func TestResolveBasePath_FallbackToCwd(t *testing.T) {
	tmpDir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	origDir, _ := os.Getwd()
	defer func() { _ = os.Chdir(origDir) }()
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatal(err)
	}

	t.Setenv("OGIT_HOME", "")

	got := ResolveBasePath()
	if got != tmpDir {
		t.Errorf("ResolveBasePath() = %q, want %q (should fall back to cwd)", got, tmpDir)
	}
}

func TestNewApp_Success(t *testing.T) {
	isolateHome(t)
	tmpDir := t.TempDir()
	app, err := NewApp(tmpDir)
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	if app == nil {
		t.Fatal("NewApp() returned nil app")
	}
	if app.BasePath != tmpDir {
		t.Errorf("app.BasePath = %q, want %q", app.BasePath, tmpDir)
	}
	if app.ConfigMgr == nil || app.Metrics == nil {
		t.Error("configuration manager and metrics must be created eagerly")
	}
	if cli.Configure == nil {
		t.Error("cli.Configure not wired")
	}
	if cli.BasePath != tmpDir {
		t.Errorf("cli.BasePath = %q, want %q", cli.BasePath, tmpDir)
	}
}

func TestConfigure_FileSinkOnly(t *testing.T) {
	isolateHome(t)
	tmpDir := t.TempDir()
	app, err := NewApp(tmpDir)
	if err != nil {
		t.Fatal(err)
	}

	logPath := filepath.Join(tmpDir, "logs", "events.jsonl")
	if err := app.Configure(newFlags(t, "--no-seq", "--log-file", logPath, "--log-level", "debug")); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	if cli.Logger != app.Logger || cli.RepoOpener != app.RepoOpener || cli.Settings != app.Config {
		t.Error("CLI variables not wired to the app")
	}

	if err := cli.Logger.Debug(testLocation, "hello", observability.Fields{"n": 1}); err != nil {
		t.Fatalf("Debug() error = %v", err)
	}

	envs, err := observability.ReadEnvelopes(logPath, observability.EnvelopeFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(envs) != 1 || envs[0].Message != "hello" {
		t.Fatalf("envelopes = %+v", envs)
	}
	if envs[0].CorrelationID != app.Logger.CorrelationID() {
		t.Errorf("CorrelationID = %q, want %q", envs[0].CorrelationID, app.Logger.CorrelationID())
	}
}

func TestConfigure_SeqSink(t *testing.T) {
	isolateHome(t)

	var bodies []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		var body map[string]any
		if err := json.Unmarshal(data, &body); err != nil {
			t.Errorf("collector received invalid JSON: %v", err)
		}
		bodies = append(bodies, body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	app, err := NewApp(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	correlation := "3d15a92c-b5a8-4ae4-9c61-36c6f0e19a0d"
	if err := app.Configure(newFlags(t, "--seq-url", srv.URL, "--correlation-id", correlation)); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}

	if err := app.Logger.Info(testLocation, "saved", nil); err != nil {
		t.Fatalf("Info() error = %v", err)
	}
	if err := app.Logger.Debug(testLocation, "filtered", nil); err != nil {
		t.Fatalf("Debug() error = %v", err)
	}

	if len(bodies) != 1 {
		t.Fatalf("collector received %d events, want 1", len(bodies))
	}
	if bodies[0]["@m"] != "saved" || bodies[0]["cor"] != correlation || bodies[0]["loc"] != testLocation {
		t.Errorf("event = %v", bodies[0])
	}
}

func TestConfigure_SeqUnavailable(t *testing.T) {
	isolateHome(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	app, err := NewApp(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := app.Configure(newFlags(t, "--seq-url", srv.URL)); err != nil {
		t.Fatal(err)
	}

	err = app.Logger.Error(testLocation, errors.New("boom"), "failed", nil)
	if !errors.Is(err, observability.ErrSinkDeliveryFailed) {
		t.Fatalf("error = %v, want ErrSinkDeliveryFailed", err)
	}
}

func TestConfigure_InvalidConfig(t *testing.T) {
	isolateHome(t)
	app, err := NewApp(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	err = app.Configure(newFlags(t, "--log-level", "chatty"))
	if err == nil || !strings.Contains(err.Error(), "logging.level") {
		t.Fatalf("error = %v, want level validation error", err)
	}
	if app.Logger != nil {
		t.Error("logger must not be built from an invalid configuration")
	}
}

func TestClose_WritesMetricsFile(t *testing.T) {
	isolateHome(t)
	tmpDir := t.TempDir()
	metricsPath := filepath.Join(tmpDir, "ogit.prom")
	configPath := filepath.Join(tmpDir, ".ogitconfig")
	content := "logging:\n  sinks: []\n  metrics_file: " + metricsPath + "\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	app, err := NewApp(tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	if err := app.Close(); err != nil {
		t.Fatalf("Close() before Configure error = %v", err)
	}
	if err := app.Configure(newFlags(t)); err != nil {
		t.Fatal(err)
	}
	if err := app.Logger.Info(testLocation, "counted", nil); err != nil {
		t.Fatal(err)
	}
	if err := app.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatalf("metrics file not written: %v", err)
	}
	if !strings.Contains(string(data), `ogit_log_events_emitted_total{level="info"} 1`) {
		t.Errorf("metrics file = %s", data)
	}
}
