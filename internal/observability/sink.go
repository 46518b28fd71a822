package observability

import (
	"errors"
	"fmt"
)

// ErrSinkDeliveryFailed is matched by every error a sink returns from Deliver.
var ErrSinkDeliveryFailed = errors.New("sink delivery failed")

// Sink delivers envelopes to a single destination.
type Sink interface {
	Name() string
	Deliver(env Envelope) error
}

// SinkError records which sink failed and why.
type SinkError struct {
	Sink string
	Err  error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("%s sink: %v", e.Sink, e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrSinkDeliveryFailed) hold for every SinkError.
func (e *SinkError) Is(target error) bool {
	return target == ErrSinkDeliveryFailed
}

// SinkKind names a configurable sink.
type SinkKind string

const (
	SinkSeq  SinkKind = "seq"
	SinkFile SinkKind = "file"
)

// NewSinks builds the sinks named in cfg, in the configured order.
func NewSinks(cfg LoggerConfig) ([]Sink, error) {
	sinks := make([]Sink, 0, len(cfg.Sinks))
	seen := make(map[SinkKind]bool, len(cfg.Sinks))
	for _, kind := range cfg.Sinks {
		if seen[kind] {
			continue
		}
		seen[kind] = true

		switch kind {
		case SinkSeq:
			sinks = append(sinks, NewSeqSink(SeqConfig{
				URL:     cfg.SeqURL,
				APIKey:  cfg.SeqAPIKey,
				Timeout: cfg.Timeout,
			}))
		case SinkFile:
			if cfg.FilePath == "" {
				return nil, fmt.Errorf("file sink requires a file path")
			}
			sinks = append(sinks, NewFileSink(cfg.FilePath))
		default:
			return nil, fmt.Errorf("unknown sink %q, must be one of: seq, file", kind)
		}
	}
	return sinks, nil
}
