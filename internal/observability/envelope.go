package observability

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Reserved CLEF keys. Everything else in an encoded envelope is a user field.
const (
	keyTimestamp   = "@t"
	keyMessage     = "@m"
	keyLevel       = "@l"
	keyException   = "@x"
	keyLocation    = "loc"
	keyCorrelation = "cor"
)

// timestampLayout keeps a fixed microsecond precision so lines sort lexically.
const timestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// Fields carries additional structured data merged into an envelope.
type Fields map[string]any

// Envelope is a fully assembled event ready for delivery.
type Envelope struct {
	Time          time.Time
	Message       string
	Level         Level
	Location      string
	CorrelationID string
	Exception     string
	Fields        Fields
}

// MarshalJSON encodes the envelope as a flat CLEF object. Reserved keys win
// over user fields with the same name.
func (e Envelope) MarshalJSON() ([]byte, error) {
	body := make(map[string]any, len(e.Fields)+6)
	for k, v := range e.Fields {
		body[k] = v
	}
	body[keyTimestamp] = e.Time.UTC().Format(timestampLayout)
	body[keyMessage] = e.Message
	body[keyLevel] = e.Level.String()
	body[keyLocation] = e.Location
	body[keyCorrelation] = e.CorrelationID
	if e.Exception != "" {
		body[keyException] = e.Exception
	} else {
		delete(body, keyException)
	}
	return json.Marshal(body)
}

// UnmarshalJSON decodes a CLEF object produced by MarshalJSON. Numeric user
// fields are kept as json.Number so they re-encode exactly.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		return err
	}

	var out Envelope
	if raw, ok := body[keyTimestamp].(string); ok {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", keyTimestamp, err)
		}
		out.Time = t
	}
	if raw, ok := body[keyLevel].(string); ok {
		lvl, err := ParseLevel(raw)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", keyLevel, err)
		}
		out.Level = lvl
	}
	out.Message, _ = body[keyMessage].(string)
	out.Exception, _ = body[keyException].(string)
	out.Location, _ = body[keyLocation].(string)
	out.CorrelationID, _ = body[keyCorrelation].(string)

	for _, k := range []string{keyTimestamp, keyMessage, keyLevel, keyException, keyLocation, keyCorrelation} {
		delete(body, k)
	}
	if len(body) > 0 {
		out.Fields = Fields(body)
	}

	*e = out
	return nil
}
