package cli

import (
	"testing"

	"github.com/valter-silva-au/ogit/internal/integration"
	"github.com/valter-silva-au/ogit/internal/observability"
)

const testCorrelation = "0e65a9dd-547a-42e8-8d6e-a0e2fd210cb7"

// captureSink records every envelope delivered to it.
type captureSink struct {
	envs []observability.Envelope
	err  error
}

func (s *captureSink) Name() string { return "capture" }

func (s *captureSink) Deliver(env observability.Envelope) error {
	s.envs = append(s.envs, env)
	return s.err
}

func (s *captureSink) messages() []string {
	out := make([]string, len(s.envs))
	for i, env := range s.envs {
		out[i] = env.Message
	}
	return out
}

// useLogger installs a logger at level writing to a fresh captureSink and
// restores the previous logger when the test ends.
func useLogger(t *testing.T, level observability.Level) *captureSink {
	t.Helper()
	orig := Logger
	t.Cleanup(func() { Logger = orig })

	sink := &captureSink{}
	Logger = observability.NewEventLogger(observability.LoggerConfig{
		Level:         level,
		CorrelationID: testCorrelation,
	}, nil, sink)
	return sink
}

// repoMock implements integration.Repository with overridable functions.
type repoMock struct {
	root      string
	statusFn  func(includeIgnored bool) (*integration.Status, error)
	commitFn  func(opts integration.CommitOptions) (string, error)
	removeFn  func(opts integration.RemoveOptions) ([]string, error)
	discardFn func(files []string) ([]string, error)
}

func (m *repoMock) Root() string { return m.root }

func (m *repoMock) Status(includeIgnored bool) (*integration.Status, error) {
	if m.statusFn != nil {
		return m.statusFn(includeIgnored)
	}
	return &integration.Status{}, nil
}

func (m *repoMock) Commit(opts integration.CommitOptions) (string, error) {
	if m.commitFn != nil {
		return m.commitFn(opts)
	}
	return "0000000000000000000000000000000000000000", nil
}

func (m *repoMock) RemoveUntracked(opts integration.RemoveOptions) ([]string, error) {
	if m.removeFn != nil {
		return m.removeFn(opts)
	}
	return nil, nil
}

func (m *repoMock) Discard(files []string) ([]string, error) {
	if m.discardFn != nil {
		return m.discardFn(files)
	}
	return nil, nil
}

// openerMock returns a fixed repository or error from Discover.
type openerMock struct {
	repo integration.Repository
	err  error
}

func (m *openerMock) Discover(path string) (integration.Repository, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.repo, nil
}

// useRepo installs repo behind RepoOpener for the duration of the test.
func useRepo(t *testing.T, repo integration.Repository) {
	t.Helper()
	orig := RepoOpener
	t.Cleanup(func() { RepoOpener = orig })
	RepoOpener = &openerMock{repo: repo}
}
