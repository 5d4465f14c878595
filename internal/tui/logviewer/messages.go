// ============================================================================
// livelog - Echtzeit Log Viewer
// ============================================================================
//
// Package:     logviewer
// Description: Message types forwarded from the viewer core to the TUI
// Author:      Mike Stoffels
// Created:     2026-10-05
// License:     MIT
// ============================================================================

package logviewer

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/msto63/livelog/internal/model"
	"github.com/msto63/livelog/internal/stream"
)

// Message types sent by Display into the running program

// statusMsg carries a connection state change
type statusMsg struct {
	state stream.State
	text  string
}

// appendMsg adds one visible entry
type appendMsg struct {
	entry model.LogEntry
}

// replaceMsg replaces all visible entries
type replaceMsg struct {
	entries []model.LogEntry
}

type pendingMsg int

type statsMsg struct {
	total   int
	visible int
}

// alertMsg shows a validation or export error
type alertMsg string

type historyMsg []string

type pausedMsg bool

type channelMsg string

type exportedMsg struct {
	path  string
	count int
}

// frameMsg triggers a render of entries appended since the last frame
type frameMsg struct{}

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg {
		return frameMsg{}
	})
}

// Display forwards viewer notifications to a tea.Program. Messages sent
// before Attach are dropped.
type Display struct {
	send func(tea.Msg)
}

// NewDisplay creates an unattached Display
func NewDisplay() *Display {
	return &Display{}
}

// Attach sets the send function, usually (*tea.Program).Send. It must be
// called before the viewer is initialized.
func (d *Display) Attach(send func(tea.Msg)) {
	d.send = send
}

func (d *Display) emit(msg tea.Msg) {
	if d.send != nil {
		d.send(msg)
	}
}

// Status implements viewer.Display
func (d *Display) Status(state stream.State, text string) {
	d.emit(statusMsg{state: state, text: text})
}

// Append implements viewer.Display
func (d *Display) Append(entry model.LogEntry) {
	d.emit(appendMsg{entry: entry})
}

// Replace implements viewer.Display
func (d *Display) Replace(entries []model.LogEntry) {
	d.emit(replaceMsg{entries: entries})
}

// PendingChanged implements viewer.Display
func (d *Display) PendingChanged(n int) {
	d.emit(pendingMsg(n))
}

// Stats implements viewer.Display
func (d *Display) Stats(total, visible int) {
	d.emit(statsMsg{total: total, visible: visible})
}

// Alert implements viewer.Display
func (d *Display) Alert(msg string) {
	d.emit(alertMsg(msg))
}

// HistoryChanged implements viewer.Display
func (d *Display) HistoryChanged(history []string) {
	d.emit(historyMsg(history))
}

// Paused implements viewer.Display
func (d *Display) Paused(paused bool) {
	d.emit(pausedMsg(paused))
}

// ChannelChanged implements viewer.Display
func (d *Display) ChannelChanged(channel string) {
	d.emit(channelMsg(channel))
}

// Exported implements viewer.Display
func (d *Display) Exported(path string, count int) {
	d.emit(exportedMsg{path: path, count: count})
}
