// ============================================================================
// livelog - Echtzeit Log Viewer
// ============================================================================
//
// Package:     filter
// Description: Keyword/tag/type predicates and the debounced recompute
// Author:      Mike Stoffels
// Created:     2026-10-02
// License:     MIT
// ============================================================================

package filter

import (
	"strings"
	"time"

	"github.com/msto63/livelog/internal/eventloop"
	"github.com/msto63/livelog/internal/model"
)

// DefaultDebounce is the quiet period before a predicate change is applied
const DefaultDebounce = 300 * time.Millisecond

// Predicate is a conjunction of three optional conditions
type Predicate struct {
	Keyword string // case-insensitive substring of Data
	Tag     string // case-insensitive substring of any tag
	Type    string // exact match
}

// IsZero reports whether the predicate matches everything
func (p Predicate) IsZero() bool {
	return p.Keyword == "" && p.Tag == "" && p.Type == ""
}

// Matches applies the predicate to one entry
func Matches(entry model.LogEntry, p Predicate) bool {
	if p.Keyword != "" && !containsFold(entry.Data, p.Keyword) {
		return false
	}
	if p.Type != "" && entry.Type != p.Type {
		return false
	}
	if p.Tag != "" {
		found := false
		for _, tag := range entry.Tags {
			if containsFold(tag, p.Tag) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Recompute returns the matching entries in their original order
func Recompute(entries []model.LogEntry, p Predicate) []model.LogEntry {
	out := make([]model.LogEntry, 0, len(entries))
	for _, e := range entries {
		if Matches(e, p) {
			out = append(out, e)
		}
	}
	return out
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// Engine holds the active predicate and debounces changes to it.
// All methods must be called on the loop.
type Engine struct {
	loop      *eventloop.Loop
	delay     time.Duration
	predicate Predicate
	onApply   func(Predicate)
	debounce  *eventloop.Task
}

// NewEngine creates an engine. onApply runs once per settled predicate
// change, on the loop.
func NewEngine(loop *eventloop.Loop, delay time.Duration, onApply func(Predicate)) *Engine {
	if delay < 0 {
		delay = DefaultDebounce
	}
	return &Engine{loop: loop, delay: delay, onApply: onApply}
}

// Predicate returns the current predicate
func (e *Engine) Predicate() Predicate {
	return e.predicate
}

// EvaluateIncremental checks one new entry against the current predicate
func (e *Engine) EvaluateIncremental(entry model.LogEntry) bool {
	return Matches(entry, e.predicate)
}

// SetPredicate stores p and restarts the debounce timer
func (e *Engine) SetPredicate(p Predicate) {
	e.predicate = p
	e.debounce.Stop()
	e.debounce = e.loop.AfterFunc(e.delay, func() {
		e.debounce = nil
		if e.onApply != nil {
			e.onApply(e.predicate)
		}
	})
}

// Apply sets p at once, skipping the debounce and the recompute
func (e *Engine) Apply(p Predicate) {
	e.Cancel()
	e.predicate = p
}

// Reset clears the predicate without a recompute
func (e *Engine) Reset() {
	e.Cancel()
	e.predicate = Predicate{}
}

// Cancel stops a pending debounce
func (e *Engine) Cancel() {
	e.debounce.Stop()
	e.debounce = nil
}
