package observability

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// EnvelopeFilter specifies criteria for reading envelopes back from a file
// written by the file sink. Zero values match everything.
type EnvelopeFilter struct {
	Since         *time.Time
	Until         *time.Time
	MinLevel      Level
	CorrelationID string
	Location      string
}

// maxLineSize allows for large lazily built payloads such as status summaries.
const maxLineSize = 4 * 1024 * 1024

// ReadEnvelopes reads the JSON Lines file at path and returns the envelopes
// matching filter in file order. Malformed lines and lines longer than
// maxLineSize are skipped. A missing file yields no envelopes and no error.
func ReadEnvelopes(path string, filter EnvelopeFilter) ([]Envelope, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening event log for reading: %w", err)
	}
	defer func() { _ = f.Close() }()

	var envs []Envelope
	r := bufio.NewReaderSize(f, 64*1024)
	for {
		line, tooLong, readErr := readLine(r, maxLineSize)
		line = bytes.TrimSpace(line)
		if !tooLong && len(line) > 0 {
			var env Envelope
			if err := json.Unmarshal(line, &env); err == nil && matchesEnvelopeFilter(env, filter) {
				envs = append(envs, env)
			}
		}
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("reading event log: %w", readErr)
		}
	}

	return envs, nil
}

// readLine returns the next line including its newline. Once a line exceeds
// limit the rest of it is consumed and dropped, and tooLong is set.
func readLine(r *bufio.Reader, limit int) (line []byte, tooLong bool, err error) {
	for {
		chunk, readErr := r.ReadSlice('\n')
		if !tooLong {
			if len(line)+len(chunk) > limit {
				tooLong, line = true, nil
			} else {
				line = append(line, chunk...)
			}
		}
		if errors.Is(readErr, bufio.ErrBufferFull) {
			continue
		}
		return line, tooLong, readErr
	}
}

// matchesEnvelopeFilter checks whether an envelope satisfies all filter criteria.
func matchesEnvelopeFilter(env Envelope, filter EnvelopeFilter) bool {
	if filter.Since != nil && env.Time.Before(*filter.Since) {
		return false
	}
	if filter.Until != nil && env.Time.After(*filter.Until) {
		return false
	}
	if env.Level < filter.MinLevel {
		return false
	}
	if filter.CorrelationID != "" && env.CorrelationID != filter.CorrelationID {
		return false
	}
	if filter.Location != "" && env.Location != filter.Location {
		return false
	}
	return true
}
