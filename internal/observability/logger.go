package observability

import (
	"errors"
	"time"
)

// LoggerConfig is the immutable configuration an EventLogger is built from.
type LoggerConfig struct {
	Level         Level
	Sinks         []SinkKind
	FilePath      string
	SeqURL        string
	SeqAPIKey     string
	Timeout       time.Duration
	CorrelationID string
}

// LazyMessage produces an event's message and fields on demand. It is only
// called for events that pass the level filter.
type LazyMessage func() (string, Fields)

// EventLogger emits structured events to the configured sinks.
//
// Every call first validates the location, then applies the level filter.
// A filtered call returns nil without building an envelope. Delivery errors
// from all sinks are joined and returned; each matches ErrSinkDeliveryFailed.
type EventLogger interface {
	Log(level Level, location, msg string, fields Fields, err error) error
	LogLazy(level Level, location string, msg LazyMessage, err error) error

	Debug(location, msg string, fields Fields) error
	DebugLazy(location string, msg LazyMessage) error
	Info(location, msg string, fields Fields) error
	InfoLazy(location string, msg LazyMessage) error
	Warn(location string, err error, msg string, fields Fields) error
	WarnLazy(location string, err error, msg LazyMessage) error
	Error(location string, err error, msg string, fields Fields) error
	ErrorLazy(location string, err error, msg LazyMessage) error

	Enabled(level Level) bool
	CorrelationID() string
}

// eventLogger implements EventLogger with a synchronous fan-out to sinks.
type eventLogger struct {
	level         Level
	correlationID string
	sinks         []Sink
	metrics       *Metrics
	now           func() time.Time
}

// NewEventLogger creates an EventLogger for cfg delivering to sinks in order.
// metrics may be nil.
func NewEventLogger(cfg LoggerConfig, metrics *Metrics, sinks ...Sink) EventLogger {
	return &eventLogger{
		level:         cfg.Level,
		correlationID: cfg.CorrelationID,
		sinks:         append([]Sink(nil), sinks...),
		metrics:       metrics,
		now:           time.Now,
	}
}

func (l *eventLogger) Enabled(level Level) bool { return l.level.Enables(level) }

func (l *eventLogger) CorrelationID() string { return l.correlationID }

func (l *eventLogger) Log(level Level, location, msg string, fields Fields, err error) error {
	if verr := ValidateLocation(location); verr != nil {
		return verr
	}
	if !l.Enabled(level) {
		l.metrics.observeFiltered(level)
		return nil
	}
	return l.dispatch(l.envelope(level, location, msg, fields, err))
}

func (l *eventLogger) LogLazy(level Level, location string, msg LazyMessage, err error) error {
	if verr := ValidateLocation(location); verr != nil {
		return verr
	}
	if !l.Enabled(level) {
		l.metrics.observeFiltered(level)
		return nil
	}
	var text string
	var fields Fields
	if msg != nil {
		text, fields = msg()
	}
	return l.dispatch(l.envelope(level, location, text, fields, err))
}

func (l *eventLogger) Debug(location, msg string, fields Fields) error {
	return l.Log(LevelDebug, location, msg, fields, nil)
}

func (l *eventLogger) DebugLazy(location string, msg LazyMessage) error {
	return l.LogLazy(LevelDebug, location, msg, nil)
}

func (l *eventLogger) Info(location, msg string, fields Fields) error {
	return l.Log(LevelInfo, location, msg, fields, nil)
}

func (l *eventLogger) InfoLazy(location string, msg LazyMessage) error {
	return l.LogLazy(LevelInfo, location, msg, nil)
}

func (l *eventLogger) Warn(location string, err error, msg string, fields Fields) error {
	return l.Log(LevelWarn, location, msg, fields, err)
}

func (l *eventLogger) WarnLazy(location string, err error, msg LazyMessage) error {
	return l.LogLazy(LevelWarn, location, msg, err)
}

func (l *eventLogger) Error(location string, err error, msg string, fields Fields) error {
	return l.Log(LevelError, location, msg, fields, err)
}

func (l *eventLogger) ErrorLazy(location string, err error, msg LazyMessage) error {
	return l.LogLazy(LevelError, location, msg, err)
}

func (l *eventLogger) envelope(level Level, location, msg string, fields Fields, err error) Envelope {
	env := Envelope{
		Time:          l.now().UTC(),
		Message:       msg,
		Level:         level,
		Location:      location,
		CorrelationID: l.correlationID,
		Fields:        fields,
	}
	if err != nil {
		env.Exception = err.Error()
	}
	return env
}

// dispatch attempts every sink even after a failure.
func (l *eventLogger) dispatch(env Envelope) error {
	l.metrics.observeEmitted(env.Level)

	var errs []error
	for _, s := range l.sinks {
		if err := s.Deliver(env); err != nil {
			l.metrics.observeSinkFailure(s.Name())
			var sinkErr *SinkError
			if !errors.As(err, &sinkErr) {
				err = &SinkError{Sink: s.Name(), Err: err}
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
