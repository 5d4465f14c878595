// ============================================================================
// livelog - Echtzeit Log Viewer
// ============================================================================
//
// Package:     viewer
// Description: Viewer context object wiring stream, buffer, filter and channels
// Author:      Mike Stoffels
// Created:     2026-10-04
// License:     MIT
// ============================================================================

// Package viewer owns one log viewer session. Every state change runs on a
// single event loop; the Display only receives notifications.
package viewer

import (
	"context"
	"time"

	mdwerror "github.com/msto63/livelog/foundation/core/error"
	"github.com/msto63/livelog/internal/channels"
	"github.com/msto63/livelog/internal/envelope"
	"github.com/msto63/livelog/internal/eventloop"
	"github.com/msto63/livelog/internal/export"
	"github.com/msto63/livelog/internal/filter"
	"github.com/msto63/livelog/internal/logbuffer"
	"github.com/msto63/livelog/internal/model"
	"github.com/msto63/livelog/internal/store"
	"github.com/msto63/livelog/internal/stream"
	"github.com/msto63/livelog/pkg/core/logging"
)

// Display is the surface that renders a session. Methods are called from
// the viewer's loop goroutine and must not block.
type Display interface {
	Status(state stream.State, text string)
	Append(entry model.LogEntry)
	Replace(entries []model.LogEntry)
	PendingChanged(n int)
	Stats(total, visible int)
	Alert(msg string)
	HistoryChanged(history []string)

	Paused(paused bool)
	ChannelChanged(channel string)
	Exported(path string, count int)
}

// Options configures a Viewer
type Options struct {
	Transport      stream.EventStream
	Decoder        *envelope.Decoder
	Store          store.Store
	Logger         *logging.Logger
	DefaultChannel string
	MaxLogs        int
	Debounce       time.Duration
	Stream         stream.Config
	ExportDir      string
	Export         export.Options

	// Filter is active from the first entry on
	Filter filter.Predicate

	// Loop runs the session when set. The caller then owns it and must
	// drive it; otherwise the viewer starts and stops its own loop.
	Loop *eventloop.Loop
}

// Viewer is the session context object
type Viewer struct {
	opts    Options
	display Display
	logger  *logging.Logger

	loop     *eventloop.Loop
	ownsLoop bool
	started  bool
	ctx      context.Context
	cancel   context.CancelFunc

	buffer   *logbuffer.Buffer
	filter   *filter.Engine
	manager  *stream.Manager
	registry *channels.Registry
}

// New wires a viewer. Nothing happens until Init.
func New(display Display, opts Options) *Viewer {
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if opts.Store == nil {
		opts.Store = store.NewMemory()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = filter.DefaultDebounce
	}

	v := &Viewer{
		opts:    opts,
		display: display,
		logger:  opts.Logger.Named("viewer"),
		loop:    opts.Loop,
	}
	if v.loop == nil {
		v.loop = eventloop.New(eventloop.Real{}, opts.Logger)
		v.ownsLoop = true
	}
	v.ctx, v.cancel = context.WithCancel(context.Background())

	v.filter = filter.NewEngine(v.loop, opts.Debounce, func(p filter.Predicate) {
		v.logger.Debug("Applying filter", "keyword", p.Keyword, "tag", p.Tag, "type", p.Type)
		v.buffer.Recompute(p)
	})
	v.buffer = logbuffer.New(opts.MaxLogs, v.filter, display,
		logbuffer.WithClock(v.loop.Clock().Now))
	v.manager = stream.NewManager(v.loop, opts.Transport, opts.Decoder,
		v.buffer.Ingest, display, opts.Stream, opts.Logger)

	v.registry = channels.New(opts.Store, opts.DefaultChannel, opts.Logger)
	v.registry.SetConnector(v.manager)
	v.registry.OnHistoryChanged(display.HistoryChanged)
	v.registry.OnReset(func() {
		v.filter.Reset()
		v.buffer.Clear()
		v.display.ChannelChanged(v.registry.Active())
	})

	return v
}

// Loop returns the session loop
func (v *Viewer) Loop() *eventloop.Loop {
	return v.loop
}

// Init loads the channel history and subscribes to the default channel
func (v *Viewer) Init() {
	if v.ownsLoop {
		v.loop.Start()
	}
	v.started = true
	v.loop.Post(func() {
		history := v.registry.Load(v.ctx)
		v.logger.Info("Viewer started", "channel", v.registry.Active(), "history", len(history))
		v.display.ChannelChanged(v.registry.Active())
		v.display.Paused(false)
		if !v.opts.Filter.IsZero() {
			v.filter.Apply(v.opts.Filter)
		}
		v.manager.Open(v.registry.Active())
	})
}

// Teardown cancels all timers and closes the subscription. With an owned
// loop it waits for that and stops the loop.
func (v *Viewer) Teardown() {
	done := make(chan struct{})
	posted := v.loop.Post(func() {
		defer close(done)
		v.filter.Cancel()
		v.manager.Close()
		v.cancel()
		v.logger.Info("Viewer stopped")
	})
	if !v.ownsLoop {
		return
	}
	if posted && v.started {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			v.logger.Warn("Teardown timed out")
		}
	}
	v.loop.Stop()
}

// SetFilter replaces the predicate; the view is recomputed after the
// debounce delay
func (v *Viewer) SetFilter(p filter.Predicate) {
	v.loop.Post(func() {
		v.filter.SetPredicate(p)
	})
}

// TogglePause pauses or resumes rendering of new entries
func (v *Viewer) TogglePause() {
	v.loop.Post(func() {
		paused := v.buffer.Toggle()
		v.display.Paused(paused)
	})
}

// SwitchChannel moves the session to channel. Empty names raise an alert.
func (v *Viewer) SwitchChannel(channel string) {
	v.loop.Post(func() {
		if _, err := v.registry.Switch(v.ctx, channel); err != nil {
			if mdwerror.HasCode(err, mdwerror.CodeValidationFailed) {
				v.display.Alert(validationMessage(err))
				return
			}
			v.logger.Warn("Channel switch", "error", err.Error())
		}
	})
}

// Export writes the filtered view, or every entry when nothing matches,
// to the export directory
func (v *Viewer) Export() {
	v.loop.Post(func() {
		entries := v.buffer.ExportSnapshot()
		opts := v.opts.Export
		if opts.Now.IsZero() {
			opts.Now = v.loop.Clock().Now()
		}
		path, err := export.Write(v.opts.ExportDir, entries, opts)
		if err != nil {
			v.logger.Error("Export failed", "error", err.Error())
			v.display.Alert("Export fehlgeschlagen: " + err.Error())
			return
		}
		v.logger.Info("Exported logs", "path", path, "count", len(entries))
		v.display.Exported(path, len(entries))
	})
}

// Retry reconnects after the connection gave up
func (v *Viewer) Retry() {
	v.loop.Post(func() {
		v.manager.ManualRetry()
	})
}

// Clear drops every buffered and queued entry
func (v *Viewer) Clear() {
	v.loop.Post(func() {
		v.buffer.Clear()
	})
}

// ClearHistory forgets all channels but the active one
func (v *Viewer) ClearHistory() {
	v.loop.Post(func() {
		if err := v.registry.Clear(v.ctx); err != nil {
			v.logger.Warn("Clearing channel history", "error", err.Error())
		}
	})
}

func validationMessage(err error) string {
	if e, ok := err.(*mdwerror.Error); ok {
		return e.Message()
	}
	return err.Error()
}
