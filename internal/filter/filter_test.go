package filter

import (
	"testing"
	"time"

	"github.com/msto63/livelog/internal/eventloop"
	"github.com/msto63/livelog/internal/model"
)

func TestMatches(t *testing.T) {
	entry := model.LogEntry{Type: "error", Tags: []string{"db", "api"}, Data: "Connection refused"}

	tests := []struct {
		name string
		p    Predicate
		want bool
	}{
		{"zero predicate", Predicate{}, true},
		{"keyword and tag", Predicate{Keyword: "refused", Tag: "DB"}, true},
		{"wrong type", Predicate{Keyword: "refused", Tag: "DB", Type: "info"}, false},
		{"keyword case", Predicate{Keyword: "CONNECTION"}, true},
		{"keyword miss", Predicate{Keyword: "timeout"}, false},
		{"tag substring", Predicate{Tag: "ap"}, true},
		{"tag miss", Predicate{Tag: "cache"}, false},
		{"type exact", Predicate{Type: "error"}, true},
		{"type is case sensitive", Predicate{Type: "Error"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matches(entry, tt.p); got != tt.want {
				t.Errorf("Matches(%+v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestMatches_NoTags(t *testing.T) {
	entry := model.LogEntry{Type: "info", Data: "x"}
	if Matches(entry, Predicate{Tag: "a"}) {
		t.Error("tag filter should not match an entry without tags")
	}
}

func TestRecompute_PreservesOrder(t *testing.T) {
	entries := []model.LogEntry{
		{ID: "1", Type: "info", Data: "a"},
		{ID: "2", Type: "error", Data: "b"},
		{ID: "3", Type: "info", Data: "c"},
		{ID: "4", Type: "error", Data: "d"},
	}

	got := Recompute(entries, Predicate{Type: "error"})
	if len(got) != 2 || got[0].ID != "2" || got[1].ID != "4" {
		t.Errorf("Recompute() = %v", got)
	}

	if all := Recompute(entries, Predicate{}); len(all) != 4 {
		t.Errorf("Recompute(zero) len = %d, want 4", len(all))
	}
}

func TestEngine_Debounce(t *testing.T) {
	loop := eventloop.New(eventloop.NewManual(time.Now()), nil)

	var applied []Predicate
	engine := NewEngine(loop, DefaultDebounce, func(p Predicate) { applied = append(applied, p) })

	// typing "err" one key every 100ms
	for _, kw := range []string{"e", "er", "err"} {
		engine.SetPredicate(Predicate{Keyword: kw})
		loop.Advance(100 * time.Millisecond)
	}
	if len(applied) != 0 {
		t.Fatalf("applied too early: %v", applied)
	}

	loop.Advance(200 * time.Millisecond)
	if len(applied) != 1 {
		t.Fatalf("applied %d times, want exactly 1", len(applied))
	}
	if applied[0].Keyword != "err" {
		t.Errorf("applied keyword = %q, want err", applied[0].Keyword)
	}

	loop.Advance(time.Second)
	if len(applied) != 1 {
		t.Errorf("applied %d times after quiet period, want 1", len(applied))
	}
}

func TestEngine_EvaluateIncrementalUsesLatest(t *testing.T) {
	loop := eventloop.New(eventloop.NewManual(time.Now()), nil)
	engine := NewEngine(loop, DefaultDebounce, nil)

	entry := model.LogEntry{Type: "info", Data: "disk full"}
	engine.SetPredicate(Predicate{Keyword: "disk"})

	// the predicate is effective for new entries before the debounce settles
	if !engine.EvaluateIncremental(entry) {
		t.Error("EvaluateIncremental() = false, want true")
	}
	engine.SetPredicate(Predicate{Keyword: "cpu"})
	if engine.EvaluateIncremental(entry) {
		t.Error("EvaluateIncremental() = true, want false")
	}
}

func TestEngine_ResetAndCancel(t *testing.T) {
	clock := eventloop.NewManual(time.Now())
	loop := eventloop.New(clock, nil)

	calls := 0
	engine := NewEngine(loop, DefaultDebounce, func(Predicate) { calls++ })
	engine.SetPredicate(Predicate{Type: "error"})
	engine.Reset()

	loop.Advance(time.Second)
	if calls != 0 {
		t.Errorf("onApply called %d times after Reset, want 0", calls)
	}
	if !engine.Predicate().IsZero() {
		t.Errorf("Predicate() = %+v, want zero", engine.Predicate())
	}
	if clock.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", clock.Pending())
	}
}

func TestEngine_Apply(t *testing.T) {
	clock := eventloop.NewManual(time.Now())
	loop := eventloop.New(clock, nil)

	calls := 0
	engine := NewEngine(loop, DefaultDebounce, func(Predicate) { calls++ })
	engine.SetPredicate(Predicate{Keyword: "old"})
	engine.Apply(Predicate{Type: "error"})

	if engine.Predicate().Type != "error" || engine.Predicate().Keyword != "" {
		t.Errorf("Predicate() = %+v, want type error only", engine.Predicate())
	}
	loop.Advance(time.Second)
	if calls != 0 {
		t.Errorf("onApply called %d times, Apply must not recompute", calls)
	}
}
