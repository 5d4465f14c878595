package backoff

import (
	"fmt"
	"testing"
	"time"

	"github.com/msto63/livelog/internal/eventloop"
)

func TestPolicy_NextDelay(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{-3, time.Second},
		{0, time.Second},
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{4, 8 * time.Second},
		{5, 16 * time.Second},
		{6, 30 * time.Second},
		{7, 30 * time.Second},
		{10, 30 * time.Second},
		{200, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tt.attempt), func(t *testing.T) {
			if got := p.NextDelay(tt.attempt); got != tt.want {
				t.Errorf("NextDelay(%d) = %v, want %v", tt.attempt, got, tt.want)
			}
		})
	}
}

func TestPolicy_NextDelay_CustomCap(t *testing.T) {
	p := Policy{Base: 500 * time.Millisecond, Max: 3 * time.Second}

	want := []time.Duration{
		500 * time.Millisecond,
		time.Second,
		2 * time.Second,
		3 * time.Second,
		3 * time.Second,
	}
	for i, w := range want {
		if got := p.NextDelay(i + 1); got != w {
			t.Errorf("NextDelay(%d) = %v, want %v", i+1, got, w)
		}
	}
}

func TestSeconds(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want int
	}{
		{0, 0},
		{time.Second, 1},
		{1500 * time.Millisecond, 2},
		{30 * time.Second, 30},
	}

	for _, tt := range tests {
		if got := Seconds(tt.in); got != tt.want {
			t.Errorf("Seconds(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestCountdown(t *testing.T) {
	clock := eventloop.NewManual(time.Now())
	loop := eventloop.New(clock, nil)

	var ticks []int
	StartCountdown(loop, 4, func(n int) { ticks = append(ticks, n) })

	loop.Advance(10 * time.Second)

	want := []int{3, 2, 1}
	if len(ticks) != len(want) {
		t.Fatalf("ticks = %v, want %v", ticks, want)
	}
	for i := range want {
		if ticks[i] != want[i] {
			t.Errorf("ticks = %v, want %v", ticks, want)
		}
	}
	if clock.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0 after countdown reached 1", clock.Pending())
	}
}

func TestCountdown_Stop(t *testing.T) {
	clock := eventloop.NewManual(time.Now())
	loop := eventloop.New(clock, nil)

	var ticks []int
	c := StartCountdown(loop, 8, func(n int) { ticks = append(ticks, n) })

	loop.Advance(2 * time.Second)
	c.Stop()
	loop.Advance(10 * time.Second)

	if len(ticks) != 2 {
		t.Errorf("ticks = %v, want 2 ticks before Stop", ticks)
	}
	if c.Remaining() != 6 {
		t.Errorf("Remaining() = %d, want 6", c.Remaining())
	}

	var nilCountdown *Countdown
	nilCountdown.Stop()
}
