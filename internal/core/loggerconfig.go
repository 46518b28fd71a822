package core

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/valter-silva-au/ogit/internal/observability"
	"github.com/valter-silva-au/ogit/pkg/models"
)

// ToLoggerConfig converts the logging section of cfg into the immutable
// configuration an EventLogger is built from. A correlation id is generated
// when none is configured so that every event of one invocation shares it.
func ToLoggerConfig(cfg *models.Config) (observability.LoggerConfig, error) {
	if cfg == nil {
		return observability.LoggerConfig{}, fmt.Errorf("configuration is nil")
	}
	lc := cfg.Logging

	level, err := observability.ParseLevel(lc.Level)
	if err != nil {
		return observability.LoggerConfig{}, fmt.Errorf("logging.level: %w", err)
	}

	sinks := make([]observability.SinkKind, 0, len(lc.Sinks))
	for _, s := range lc.Sinks {
		sinks = append(sinks, observability.SinkKind(s))
	}

	correlationID := lc.CorrelationID
	if correlationID == "" {
		correlationID = uuid.NewString()
	} else if _, err := uuid.Parse(correlationID); err != nil {
		return observability.LoggerConfig{}, fmt.Errorf("logging.correlation_id: %w", err)
	}

	timeout := observability.DefaultSeqTimeout
	if lc.TimeoutSecs > 0 {
		timeout = time.Duration(lc.TimeoutSecs) * time.Second
	}

	return observability.LoggerConfig{
		Level:         level,
		Sinks:         sinks,
		FilePath:      lc.File,
		SeqURL:        lc.SeqURL,
		SeqAPIKey:     lc.SeqAPIKey,
		Timeout:       timeout,
		CorrelationID: correlationID,
	}, nil
}
