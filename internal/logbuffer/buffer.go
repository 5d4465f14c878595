// ============================================================================
// livelog - Echtzeit Log Viewer
// ============================================================================
//
// Package:     logbuffer
// Description: Bounded FIFO log store with filtered view and pause queue
// Author:      Mike Stoffels
// Created:     2026-10-02
// License:     MIT
// ============================================================================

package logbuffer

import (
	"time"

	"github.com/msto63/livelog/internal/filter"
	"github.com/msto63/livelog/internal/model"
)

// DefaultMaxLogs is the store capacity
const DefaultMaxLogs = 10000

// Sink receives display notifications
type Sink interface {
	Append(entry model.LogEntry)
	Replace(entries []model.LogEntry)
	PendingChanged(n int)
	Stats(total, visible int)
}

// Matcher decides whether a new entry belongs to the filtered view
type Matcher interface {
	EvaluateIncremental(entry model.LogEntry) bool
}

type item struct {
	seq   uint64
	entry model.LogEntry
}

// Buffer keeps at most max entries in arrival order. When it is full the
// oldest entry is evicted, from the filtered view too.
// Not safe for concurrent use; the viewer calls it from its loop.
type Buffer struct {
	max  int
	ring []item
	head int
	size int
	seq  uint64

	filtered []item
	pending  []model.LogEntry
	paused   bool

	matcher Matcher
	sink    Sink
	now     func() time.Time
}

// Option configures a Buffer
type Option func(*Buffer)

// WithClock sets the time source for timestamp backfill
func WithClock(now func() time.Time) Option {
	return func(b *Buffer) { b.now = now }
}

// New creates a buffer. max <= 0 uses DefaultMaxLogs; nil sink discards.
func New(max int, matcher Matcher, sink Sink, opts ...Option) *Buffer {
	if max <= 0 {
		max = DefaultMaxLogs
	}
	if sink == nil {
		sink = nopSink{}
	}
	b := &Buffer{
		max:     max,
		ring:    make([]item, max),
		matcher: matcher,
		sink:    sink,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Ingest adds one received entry. While paused it is queued instead.
func (b *Buffer) Ingest(entry model.LogEntry) {
	entry = entry.Backfill(b.now())

	if b.paused {
		b.pending = append(b.pending, entry)
		b.sink.PendingChanged(len(b.pending))
		return
	}

	it := b.push(entry)
	if b.matcher == nil || b.matcher.EvaluateIncremental(entry) {
		b.filtered = append(b.filtered, it)
		b.sink.Append(entry)
	}
	b.sink.Stats(b.size, len(b.filtered))
}

func (b *Buffer) push(entry model.LogEntry) item {
	b.seq++
	it := item{seq: b.seq, entry: entry}

	if b.size == b.max {
		evicted := b.ring[b.head]
		if len(b.filtered) > 0 && b.filtered[0].seq == evicted.seq {
			b.filtered[0] = item{}
			b.filtered = b.filtered[1:]
		}
		b.ring[b.head] = it
		b.head = (b.head + 1) % b.max
		return it
	}

	b.ring[(b.head+b.size)%b.max] = it
	b.size++
	return it
}

// Pause queues further entries until Resume
func (b *Buffer) Pause() {
	b.paused = true
	b.sink.PendingChanged(len(b.pending))
}

// Resume drains queued entries through Ingest in arrival order
func (b *Buffer) Resume() {
	if !b.paused {
		return
	}
	b.paused = false

	queued := b.pending
	b.pending = nil
	for _, entry := range queued {
		b.Ingest(entry)
	}
	b.sink.PendingChanged(0)
}

// Toggle flips the paused state and returns the new state
func (b *Buffer) Toggle() bool {
	if b.paused {
		b.Resume()
	} else {
		b.Pause()
	}
	return b.paused
}

// Paused reports whether entries are being queued
func (b *Buffer) Paused() bool {
	return b.paused
}

// Clear drops all stored, filtered and queued entries. The paused state is kept.
func (b *Buffer) Clear() {
	for i := range b.ring {
		b.ring[i] = item{}
	}
	b.head, b.size = 0, 0
	b.filtered = nil
	b.pending = nil

	b.sink.Replace(nil)
	b.sink.PendingChanged(0)
	b.sink.Stats(0, 0)
}

// Recompute rebuilds the filtered view from scratch for p
func (b *Buffer) Recompute(p filter.Predicate) {
	filtered := make([]item, 0, b.size)
	for i := 0; i < b.size; i++ {
		it := b.ring[(b.head+i)%b.max]
		if filter.Matches(it.entry, p) {
			filtered = append(filtered, it)
		}
	}
	b.filtered = filtered

	b.sink.Replace(entriesOf(b.filtered))
	b.sink.Stats(b.size, len(b.filtered))
}

// ExportSnapshot returns the filtered view, or every stored entry when the
// filtered view is empty
func (b *Buffer) ExportSnapshot() []model.LogEntry {
	if len(b.filtered) > 0 {
		return b.Filtered()
	}
	return b.Entries()
}

// Entries returns all stored entries, oldest first
func (b *Buffer) Entries() []model.LogEntry {
	out := make([]model.LogEntry, 0, b.size)
	for i := 0; i < b.size; i++ {
		out = append(out, b.ring[(b.head+i)%b.max].entry)
	}
	return out
}

// Filtered returns the entries of the filtered view, oldest first
func (b *Buffer) Filtered() []model.LogEntry {
	return entriesOf(b.filtered)
}

// Len returns the number of stored entries
func (b *Buffer) Len() int {
	return b.size
}

// Visible returns the size of the filtered view
func (b *Buffer) Visible() int {
	return len(b.filtered)
}

// Pending returns the number of queued entries
func (b *Buffer) Pending() int {
	return len(b.pending)
}

// Cap returns the capacity
func (b *Buffer) Cap() int {
	return b.max
}

func entriesOf(items []item) []model.LogEntry {
	out := make([]model.LogEntry, len(items))
	for i, it := range items {
		out[i] = it.entry
	}
	return out
}

type nopSink struct{}

func (nopSink) Append(model.LogEntry) {}
func (nopSink) Replace([]model.LogEntry) {}
func (nopSink) PendingChanged(int) {}
func (nopSink) Stats(int, int) {}
