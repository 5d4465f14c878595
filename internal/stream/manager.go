// ============================================================================
// livelog - Echtzeit Log Viewer
// ============================================================================
//
// Package:     stream
// Description: Subscription lifecycle with exponential reconnect
// Author:      Mike Stoffels
// Created:     2026-10-02
// License:     MIT
// ============================================================================

package stream

import (
	"context"
	"time"

	mdwerror "github.com/msto63/livelog/foundation/core/error"
	"github.com/msto63/livelog/internal/backoff"
	"github.com/msto63/livelog/internal/envelope"
	"github.com/msto63/livelog/internal/eventloop"
	"github.com/msto63/livelog/internal/model"
	"github.com/msto63/livelog/pkg/core/logging"
)

// DefaultMaxAttempts is the number of consecutive faults before giving up
const DefaultMaxAttempts = 10

// Config holds manager settings
type Config struct {
	Policy      backoff.Policy
	MaxAttempts int
}

// DefaultConfig returns 1s/30s backoff and 10 attempts
func DefaultConfig() Config {
	return Config{Policy: backoff.DefaultPolicy(), MaxAttempts: DefaultMaxAttempts}
}

// Manager owns the single active subscription. Every method must run on
// the loop; transport callbacks are posted there automatically.
type Manager struct {
	loop      *eventloop.Loop
	transport EventStream
	decoder   *envelope.Decoder
	deliver   func(model.LogEntry)
	status    StatusSink
	logger    *logging.Logger
	cfg       Config

	state        State
	channel      string
	attempts     int
	reconnecting bool

	gen       uint64
	sub       Subscription
	cancel    context.CancelFunc
	timer     *eventloop.Task
	countdown *backoff.Countdown
}

// NewManager wires a manager. deliver receives every decoded entry.
func NewManager(loop *eventloop.Loop, transport EventStream, decoder *envelope.Decoder,
	deliver func(model.LogEntry), status StatusSink, cfg Config, logger *logging.Logger) *Manager {
	if decoder == nil {
		decoder = envelope.NewDecoder(nil)
	}
	if status == nil {
		status = StatusFunc(func(State, string) {})
	}
	if logger == nil {
		logger = logging.Nop()
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.Policy.Base <= 0 || cfg.Policy.Max <= 0 {
		cfg.Policy = backoff.DefaultPolicy()
	}
	return &Manager{
		loop:      loop,
		transport: transport,
		decoder:   decoder,
		deliver:   deliver,
		status:    status,
		logger:    logger.Named("stream"),
		cfg:       cfg,
	}
}

// State returns the current state
func (m *Manager) State() State {
	return m.state
}

// Attempts returns the consecutive fault count
func (m *Manager) Attempts() int {
	return m.attempts
}

// Channel returns the channel of the current or last subscription
func (m *Manager) Channel() string {
	return m.channel
}

// Reconnecting reports whether a reconnect timer is pending
func (m *Manager) Reconnecting() bool {
	return m.reconnecting
}

// Open replaces any existing subscription with one for channel
func (m *Manager) Open(channel string) {
	m.stopTimers()
	m.closeSubscription()
	m.reconnecting = false

	m.channel = channel
	m.gen++
	gen := m.gen
	m.setState(StateConnecting, connectingText(channel))

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	sub, err := m.transport.Subscribe(ctx, channel, &handler{m: m, gen: gen})
	if err != nil {
		cancel()
		m.cancel = nil
		m.OnTransportError(mdwerror.Wrap(err, "subscribe").
			WithCode(mdwerror.CodeConnectionFailed).
			WithDetail("channel", channel))
		return
	}
	m.sub = sub
}

// OnOpen marks the subscription as connected
func (m *Manager) OnOpen() {
	m.reconnecting = false
	m.attempts = 0
	m.countdown.Stop()
	m.countdown = nil
	m.logger.Info("Subscription open", "channel", m.channel)
	m.setState(StateConnected, connectedText(m.channel))
}

// OnMessage decodes one payload and delivers it. Malformed payloads are
// logged and dropped.
func (m *Manager) OnMessage(raw []byte) {
	entry, err := m.decoder.Decode(raw)
	if err != nil {
		m.logger.Warn("Dropping malformed event", "channel", m.channel, "error", err.Error())
		return
	}
	if m.deliver != nil {
		m.deliver(entry)
	}
}

// OnTransportError closes the failed transport and starts a reconnect
// unless one is already pending or the attempt limit was reached
func (m *Manager) OnTransportError(err error) {
	m.logger.Warn("Transport fault", "channel", m.channel, "attempts", m.attempts, "error", errText(err))
	m.closeSubscription()
	m.gen++

	if m.reconnecting {
		return
	}
	if m.attempts >= m.cfg.MaxAttempts {
		m.fail()
		return
	}
	m.Reconnect()
}

// Reconnect counts an attempt and schedules Open after the backoff delay.
// Reaching the attempt limit moves to failed instead.
func (m *Manager) Reconnect() {
	m.attempts++
	if m.attempts >= m.cfg.MaxAttempts {
		m.fail()
		return
	}

	delay := m.cfg.Policy.NextDelay(m.attempts)
	seconds := backoff.Seconds(delay)
	m.reconnecting = true
	m.setState(StateReconnecting, reconnectingText(m.channel, m.attempts, m.cfg.MaxAttempts, seconds))
	m.logger.Info("Scheduling reconnect", "channel", m.channel, "attempt", m.attempts, "delay", delay.String())

	m.stopTimers()
	m.countdown = backoff.StartCountdown(m.loop, seconds, func(remaining int) {
		if m.reconnecting && m.state == StateReconnecting {
			m.setState(StateReconnecting, reconnectingText(m.channel, m.attempts, m.cfg.MaxAttempts, remaining))
		}
	})
	m.timer = m.loop.AfterFunc(delay, func() {
		m.timer = nil
		m.reconnecting = false
		m.Open(m.channel)
	})
}

// ManualRetry resets the attempt counter and reconnects immediately.
// It only acts in the failed and disconnected states.
func (m *Manager) ManualRetry() bool {
	if m.state != StateFailed && m.state != StateDisconnected {
		return false
	}
	if m.channel == "" {
		return false
	}
	m.logger.Info("Manual retry", "channel", m.channel)
	m.attempts = 0
	m.reconnecting = false
	m.stopTimers()
	m.Open(m.channel)
	return true
}

// Reset forgets the fault history so the next fault counts as attempt 1.
// It is used when the manager is pointed at a different channel.
func (m *Manager) Reset() {
	m.stopTimers()
	m.attempts = 0
	m.reconnecting = false
}

// Close cancels timers and the transport
func (m *Manager) Close() {
	m.stopTimers()
	m.closeSubscription()
	m.reconnecting = false
	m.gen++
	if m.state != StateDisconnected {
		m.setState(StateDisconnected, disconnectedText)
	}
}

// NextDelay exposes the delay for the upcoming attempt
func (m *Manager) NextDelay() time.Duration {
	return m.cfg.Policy.NextDelay(m.attempts + 1)
}

func (m *Manager) fail() {
	m.stopTimers()
	m.reconnecting = false
	m.logger.Error("Giving up after repeated faults", "channel", m.channel, "attempts", m.attempts)
	m.setState(StateFailed, failedText)
}

func (m *Manager) stopTimers() {
	m.timer.Stop()
	m.timer = nil
	m.countdown.Stop()
	m.countdown = nil
}

func (m *Manager) closeSubscription() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	if m.sub != nil {
		if err := m.sub.Close(); err != nil {
			m.logger.Debug("Closing subscription", "error", err.Error())
		}
		m.sub = nil
	}
}

func (m *Manager) setState(state State, text string) {
	m.state = state
	m.status.Status(state, text)
}

func errText(err error) string {
	if err == nil {
		return "unknown"
	}
	return err.Error()
}

// handler forwards callbacks of one subscription generation onto the loop.
// Callbacks from superseded generations are dropped.
type handler struct {
	m   *Manager
	gen uint64
}

func (h *handler) OnOpen() {
	h.m.loop.Post(func() {
		if h.current() {
			h.m.OnOpen()
		}
	})
}

func (h *handler) OnEvent(data []byte) {
	h.m.loop.Post(func() {
		if h.current() {
			h.m.OnMessage(data)
		}
	})
}

func (h *handler) OnError(err error) {
	h.m.loop.Post(func() {
		if h.current() {
			h.m.OnTransportError(err)
		}
	})
}

func (h *handler) current() bool {
	return h.gen == h.m.gen
}
