package sse

import (
	"io"
	"strings"
	"testing"
	"time"
)

func TestReader_Next(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Event
	}{
		{
			name:  "single",
			input: "data: hello\n\n",
			want:  []Event{{Data: []byte("hello")}},
		},
		{
			name:  "multi line data",
			input: "data: one\ndata: two\n\n",
			want:  []Event{{Data: []byte("one\ntwo")}},
		},
		{
			name:  "comments and crlf",
			input: ": keepalive\r\ndata:x\r\n\r\n",
			want:  []Event{{Data: []byte("x")}},
		},
		{
			name:  "fields",
			input: "event: update\nid: 7\nretry: 1500\ndata: {}\n\n",
			want:  []Event{{Type: "update", ID: "7", HasID: true, Retry: 1500 * time.Millisecond, Data: []byte("{}")}},
		},
		{
			name:  "only one leading space is stripped",
			input: "data:  padded\n\n",
			want:  []Event{{Data: []byte(" padded")}},
		},
		{
			name:  "blank lines between events",
			input: "\n\ndata: a\n\n\ndata: b\n\n",
			want:  []Event{{Data: []byte("a")}, {Data: []byte("b")}},
		},
		{
			name:  "unterminated event dropped",
			input: "data: a\n\ndata: partial\n",
			want:  []Event{{Data: []byte("a")}},
		},
		{
			name:  "unknown field ignored",
			input: "foo: bar\ndata: a\n\n",
			want:  []Event{{Data: []byte("a")}},
		},
		{
			name:  "invalid retry ignored",
			input: "retry: soon\ndata: a\n\n",
			want:  []Event{{Data: []byte("a")}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(strings.NewReader(tt.input))
			var got []Event
			for {
				ev, err := r.Next()
				if err == io.EOF {
					break
				}
				if err != nil {
					t.Fatalf("Next() error = %v", err)
				}
				got = append(got, ev)
			}

			if len(got) != len(tt.want) {
				t.Fatalf("events = %d, want %d", len(got), len(tt.want))
			}
			for i := range tt.want {
				g, w := got[i], tt.want[i]
				if string(g.Data) != string(w.Data) || g.Type != w.Type || g.ID != w.ID ||
					g.HasID != w.HasID || g.Retry != w.Retry {
					t.Errorf("event %d = %+v, want %+v", i, g, w)
				}
			}
		})
	}
}

func TestEvent_IsMessage(t *testing.T) {
	tests := []struct {
		typ  string
		want bool
	}{
		{"", true},
		{"message", true},
		{"ping", false},
	}

	for _, tt := range tests {
		if got := (Event{Type: tt.typ}).IsMessage(); got != tt.want {
			t.Errorf("IsMessage(%q) = %v, want %v", tt.typ, got, tt.want)
		}
	}
}
