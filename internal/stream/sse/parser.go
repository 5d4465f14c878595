package sse

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
	"strings"
	"time"
)

// Event is one dispatched server-sent event
type Event struct {
	ID    string
	Type  string
	Data  []byte
	Retry time.Duration

	// HasID is set when the event carried an id field, even an empty one
	HasID bool
}

// IsMessage reports whether the event uses the default "message" type
func (e Event) IsMessage() bool {
	return e.Type == "" || e.Type == "message"
}

// Reader splits a text/event-stream body into events
type Reader struct {
	r *bufio.Reader
}

// NewReader wraps r
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Next returns the next dispatched event. Events without data are returned
// too so the caller can track ids. It returns io.EOF when the stream ends,
// discarding an unterminated trailing event.
func (r *Reader) Next() (Event, error) {
	var (
		ev      Event
		data    bytes.Buffer
		hasData bool
	)

	for {
		line, err := r.r.ReadString('\n')
		if err != nil {
			// an unterminated last line never dispatches
			return Event{}, err
		}
		line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")

		if line == "" {
			if !hasData && !ev.HasID && ev.Retry == 0 && ev.Type == "" {
				continue
			}
			ev.Data = data.Bytes()
			return ev, nil
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value := line, ""
		if i := strings.IndexByte(line, ':'); i >= 0 {
			field = line[:i]
			value = strings.TrimPrefix(line[i+1:], " ")
		}

		switch field {
		case "data":
			if hasData {
				data.WriteByte('\n')
			}
			data.WriteString(value)
			hasData = true
		case "event":
			ev.Type = value
		case "id":
			if !strings.ContainsRune(value, 0) {
				ev.ID = value
				ev.HasID = true
			}
		case "retry":
			if ms, err := strconv.Atoi(value); err == nil && ms >= 0 {
				ev.Retry = time.Duration(ms) * time.Millisecond
			}
		}
	}
}
