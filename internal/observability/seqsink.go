package observability

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultSeqURL is the raw CLEF ingestion endpoint of a local Seq instance.
const DefaultSeqURL = "http://localhost:5341/api/events/raw?clef"

// DefaultSeqTimeout bounds a single delivery so a missing collector cannot
// hang a CLI invocation.
const DefaultSeqTimeout = 5 * time.Second

// SeqConfig configures the Seq sink.
type SeqConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// seqSink posts each envelope to a Seq collector as a single CLEF event.
type seqSink struct {
	url    string
	apiKey string
	client *http.Client
}

// NewSeqSink creates a Sink that posts envelopes to a Seq collector.
func NewSeqSink(cfg SeqConfig) Sink {
	url := cfg.URL
	if url == "" {
		url = DefaultSeqURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultSeqTimeout
	}
	return &seqSink{
		url:    url,
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: timeout},
	}
}

func (s *seqSink) Name() string { return string(SinkSeq) }

// Deliver sends one event. Seq answers 201 Created on success; any other
// status is a failed delivery.
func (s *seqSink) Deliver(env Envelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return &SinkError{Sink: s.Name(), Err: fmt.Errorf("marshalling event: %w", err)}
	}

	req, err := http.NewRequest(http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return &SinkError{Sink: s.Name(), Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("X-Seq-ApiKey", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return &SinkError{Sink: s.Name(), Err: fmt.Errorf("posting event: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		msg := fmt.Sprintf("collector returned status %d", resp.StatusCode)
		if d := strings.TrimSpace(string(detail)); d != "" {
			msg += ": " + d
		}
		return &SinkError{Sink: s.Name(), Err: fmt.Errorf("%s", msg)}
	}
	return nil
}
