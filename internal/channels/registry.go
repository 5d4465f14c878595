// ============================================================================
// livelog - Echtzeit Log Viewer
// ============================================================================
//
// Package:     channels
// Description: Active channel, persisted channel history and switching
// Author:      Mike Stoffels
// Created:     2026-10-02
// License:     MIT
// ============================================================================

package channels

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"

	mdwerror "github.com/msto63/livelog/foundation/core/error"
	"github.com/msto63/livelog/internal/store"
	"github.com/msto63/livelog/pkg/core/logging"
)

// HistoryKey is the store key of the channel history
const HistoryKey = "logViewer_channelHistory"

// DefaultChannel is used when nothing else is configured
const DefaultChannel = "logs"

// Connector is the part of the connection manager a switch drives
type Connector interface {
	Close()
	Reset()
	Open(channel string)
}

// Registry tracks the active channel and the set of used channels.
// Not safe for concurrent use; the viewer calls it from its loop.
type Registry struct {
	store          store.Store
	logger         *logging.Logger
	defaultChannel string

	active  string
	history map[string]struct{}

	connector Connector
	resets    []func()
	onHistory func([]string)
}

// New creates a registry whose active channel is defaultChannel
func New(st store.Store, defaultChannel string, logger *logging.Logger) *Registry {
	defaultChannel = strings.TrimSpace(defaultChannel)
	if defaultChannel == "" {
		defaultChannel = DefaultChannel
	}
	if st == nil {
		st = store.NewMemory()
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Registry{
		store:          st,
		logger:         logger.Named("channels"),
		defaultChannel: defaultChannel,
		active:         defaultChannel,
		history:        map[string]struct{}{defaultChannel: {}},
	}
}

// SetConnector wires the connection manager
func (r *Registry) SetConnector(c Connector) {
	r.connector = c
}

// OnReset registers a hook that runs on every effective switch
func (r *Registry) OnReset(fn func()) {
	r.resets = append(r.resets, fn)
}

// OnHistoryChanged registers the history listener
func (r *Registry) OnHistoryChanged(fn func([]string)) {
	r.onHistory = fn
}

// Load reads the persisted history. Absent or corrupt data yields
// {defaultChannel}.
func (r *Registry) Load(ctx context.Context) []string {
	r.history = map[string]struct{}{r.defaultChannel: {}}

	data, err := r.store.Get(ctx, HistoryKey)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		r.logger.Warn("Failed to load channel history", "error", err.Error())
	default:
		var saved []string
		if err := json.Unmarshal(data, &saved); err != nil {
			r.logger.Warn("Ignoring corrupt channel history", "error", err.Error())
			break
		}
		r.history = make(map[string]struct{}, len(saved))
		for _, ch := range saved {
			if ch = strings.TrimSpace(ch); ch != "" {
				r.history[ch] = struct{}{}
			}
		}
		if len(r.history) == 0 {
			r.history[r.defaultChannel] = struct{}{}
		}
	}

	history := r.History()
	r.notifyHistory(history)
	return history
}

// Active returns the active channel
func (r *Registry) Active() string {
	return r.active
}

// Default returns the configured default channel
func (r *Registry) Default() string {
	return r.defaultChannel
}

// History returns the known channels sorted by name
func (r *Registry) History() []string {
	out := make([]string, 0, len(r.history))
	for ch := range r.history {
		out = append(out, ch)
	}
	sort.Strings(out)
	return out
}

// Switch makes newChannel the active channel. It returns false without
// side effects when newChannel is already active.
func (r *Registry) Switch(ctx context.Context, newChannel string) (bool, error) {
	newChannel = strings.TrimSpace(newChannel)
	if newChannel == "" {
		return false, mdwerror.New("Bitte einen Kanalnamen eingeben").
			WithCode(mdwerror.CodeValidationFailed).
			WithOperation("switch channel")
	}
	if newChannel == r.active {
		r.logger.Debug("Already on channel", "channel", newChannel)
		return false, nil
	}

	r.logger.Info("Switching channel", "from", r.active, "to", newChannel)

	if r.connector != nil {
		r.connector.Close()
		r.connector.Reset()
	}

	r.active = newChannel
	r.Add(ctx, newChannel)

	for _, reset := range r.resets {
		reset()
	}

	if r.connector != nil {
		r.connector.Open(newChannel)
	}
	return true, nil
}

// Add records a channel in the history and persists it. A persistence
// failure is logged; the in-memory history keeps the channel.
func (r *Registry) Add(ctx context.Context, channel string) error {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		return mdwerror.New("empty channel name").WithCode(mdwerror.CodeValidationFailed)
	}

	r.history[channel] = struct{}{}
	err := r.persist(ctx)
	r.notifyHistory(r.History())
	return err
}

// Clear forgets all channels except the active one
func (r *Registry) Clear(ctx context.Context) error {
	r.history = map[string]struct{}{r.active: {}}
	err := r.persist(ctx)
	r.notifyHistory(r.History())
	return err
}

func (r *Registry) persist(ctx context.Context) error {
	data, err := json.Marshal(r.History())
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, HistoryKey, data); err != nil {
		r.logger.Warn("Failed to persist channel history", "error", err.Error())
		return mdwerror.Wrap(err, "persist channel history").WithCode(mdwerror.CodeDatabaseError)
	}
	return nil
}

func (r *Registry) notifyHistory(history []string) {
	if r.onHistory != nil {
		r.onHistory(history)
	}
}
