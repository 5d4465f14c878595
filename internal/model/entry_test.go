package model

import (
	"testing"
	"time"
)

func TestLogEntry_Backfill(t *testing.T) {
	now := time.Date(2026, 10, 2, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		entry     LogEntry
		wantID    string
		wantStamp string
	}{
		{"fills missing", LogEntry{Type: "info"}, "", "2026-10-02T12:30:00Z"},
		{"keeps existing", LogEntry{ID: "abc", Timestamp: "2025-01-01T00:00:00Z"}, "abc", "2025-01-01T00:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.entry.Backfill(now)
			if got.ID == "" {
				t.Error("ID should never be empty after Backfill")
			}
			if tt.wantID != "" && got.ID != tt.wantID {
				t.Errorf("ID = %v, want %v", got.ID, tt.wantID)
			}
			if got.Timestamp != tt.wantStamp {
				t.Errorf("Timestamp = %v, want %v", got.Timestamp, tt.wantStamp)
			}
			if got.Tags == nil {
				t.Error("Tags should be non-nil")
			}
		})
	}
}

func TestLogEntry_BackfillUniqueIDs(t *testing.T) {
	now := time.Now()
	a := LogEntry{}.Backfill(now)
	b := LogEntry{}.Backfill(now)
	if a.ID == b.ID {
		t.Errorf("Backfill() produced duplicate id %v", a.ID)
	}
}

func TestLogEntry_Time(t *testing.T) {
	if got := (LogEntry{Timestamp: "not a time"}).Time(); !got.IsZero() {
		t.Errorf("Time() = %v, want zero", got)
	}
	want := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	if got := (LogEntry{Timestamp: "2026-01-02T03:04:05Z"}).Time(); !got.Equal(want) {
		t.Errorf("Time() = %v, want %v", got, want)
	}
}
