// ============================================================================
// livelog - Echtzeit Log Viewer
// ============================================================================
//
// Package:     model
// Description: Log entry type shared by buffer, filter, export and display
// Author:      Mike Stoffels
// Created:     2026-10-02
// License:     MIT
// ============================================================================

package model

import (
	"time"

	"github.com/google/uuid"
)

// TimestampLayout is the layout used when a timestamp is backfilled
const TimestampLayout = time.RFC3339Nano

// LogEntry is one received log record. It is not modified after ingestion.
type LogEntry struct {
	ID        string   `json:"id" yaml:"id"`
	Timestamp string   `json:"timestamp" yaml:"timestamp"`
	Type      string   `json:"type" yaml:"type"`
	Tags      []string `json:"tags" yaml:"tags"`
	Data      string   `json:"data" yaml:"data"`
}

// Backfill assigns an id and a receive timestamp where they are missing
func (e LogEntry) Backfill(now time.Time) LogEntry {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp == "" {
		e.Timestamp = now.UTC().Format(TimestampLayout)
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}
	return e
}

// Time parses the timestamp. Unparseable values return the zero time.
func (e LogEntry) Time() time.Time {
	t, err := time.Parse(time.RFC3339Nano, e.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}
