package observability

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// fileSink appends envelopes as JSON Lines. The file is opened and locked
// for every delivery and synced before it is closed.
type fileSink struct {
	path string
}

// NewFileSink creates a Sink that appends one JSON line per envelope to path.
func NewFileSink(path string) Sink {
	return &fileSink{path: path}
}

func (s *fileSink) Name() string { return string(SinkFile) }

// Deliver appends env to the file, creating it (and its directory) if needed.
func (s *fileSink) Deliver(env Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return &SinkError{Sink: s.Name(), Err: fmt.Errorf("marshalling event: %w", err)}
	}
	data = append(data, '\n')

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return &SinkError{Sink: s.Name(), Err: fmt.Errorf("creating log directory: %w", err)}
		}
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return &SinkError{Sink: s.Name(), Err: fmt.Errorf("opening event log: %w", err)}
	}
	if err := appendLocked(f, data); err != nil {
		_ = f.Close()
		return &SinkError{Sink: s.Name(), Err: err}
	}
	if err := f.Close(); err != nil {
		return &SinkError{Sink: s.Name(), Err: fmt.Errorf("closing event log: %w", err)}
	}
	return nil
}

// appendLocked writes data under an exclusive lock and syncs it to disk.
func appendLocked(f *os.File, data []byte) error {
	unlock, err := lockFile(f)
	if err != nil {
		return err
	}
	defer func() { _ = unlock() }()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("writing event: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("syncing event log: %w", err)
	}
	return nil
}
