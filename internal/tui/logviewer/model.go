// ============================================================================
// livelog - Echtzeit Log Viewer
// ============================================================================
//
// Package:     logviewer
// Description: Main Bubbletea model for the livelog terminal viewer
// Author:      Mike Stoffels
// Created:     2026-10-05
// License:     MIT
// ============================================================================

package logviewer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/msto63/livelog/internal/filter"
	"github.com/msto63/livelog/internal/model"
	"github.com/msto63/livelog/internal/stream"
	"github.com/msto63/livelog/internal/viewer"
	"github.com/msto63/livelog/pkg/core/version"
)

var _ viewer.Display = (*Display)(nil)

// frameInterval bounds how often appended entries are rendered
const frameInterval = 50 * time.Millisecond

// Controller receives user intents. *viewer.Viewer implements it.
type Controller interface {
	Init()
	SetFilter(p filter.Predicate)
	TogglePause()
	SwitchChannel(channel string)
	Export()
	Retry()
	Clear()
	ClearHistory()
}

// input focus targets
const (
	focusNone = iota
	focusKeyword
	focusTag
	focusType
	focusChannel
)

// Model is the main Bubbletea model for the log viewer
type Model struct {
	// State
	width      int
	height     int
	ready      bool
	paused     bool
	autoScroll bool
	focus      int
	confirm    bool
	dirty      bool

	// Components
	viewport viewport.Model
	spinner  spinner.Model
	keyword  textinput.Model
	tag      textinput.Model
	typ      textinput.Model
	channel  textinput.Model

	// Mirror of the filtered view
	rows  []model.LogEntry
	lines []string

	// Core notifications
	state      stream.State
	statusText string
	active     string
	history    []string
	total      int
	visible    int
	pending    int
	alert      string
	notice     string

	ctrl Controller
}

// New creates a new log viewer model driving ctrl
func New(ctrl Controller) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorPrimary)

	return Model{
		spinner:    sp,
		keyword:    newInput("Suchbegriff", 40),
		tag:        newInput("Tag", 20),
		typ:        newInput("Typ", 12),
		channel:    newInput("Kanalname", 30),
		autoScroll: true,
		ctrl:       ctrl,
	}
}

func newInput(placeholder string, width int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 200
	in.Width = width
	in.Prompt = ""
	return in
}

// Init starts the viewer session
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		frameTick(),
		func() tea.Msg {
			m.ctrl.Init()
			return nil
		},
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.dirty {
			m.refresh()
		}
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 5 // Title panel + filter bar
		footerHeight := 4 // Log panel border + status bar + help
		viewportHeight := msg.Height - headerHeight - footerHeight
		if viewportHeight < 3 {
			viewportHeight = 3
		}

		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, viewportHeight)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = viewportHeight
		}
		m.refresh()

	case frameMsg:
		if m.dirty {
			m.refresh()
		}
		cmds = append(cmds, frameTick())

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case statusMsg:
		m.state = msg.state
		m.statusText = msg.text

	case appendMsg:
		m.rows = append(m.rows, msg.entry)
		m.lines = append(m.lines, formatEntry(msg.entry))
		m.dirty = true

	case replaceMsg:
		m.rows = append([]model.LogEntry(nil), msg.entries...)
		m.lines = make([]string, len(m.rows))
		for i, e := range m.rows {
			m.lines[i] = formatEntry(e)
		}
		m.refresh()

	case statsMsg:
		m.total = msg.total
		m.visible = msg.visible
		// entries evicted from the buffer leave the view from the front
		if drop := len(m.rows) - msg.visible; drop > 0 {
			m.rows = m.rows[drop:]
			m.lines = m.lines[drop:]
			m.dirty = true
		}

	case pendingMsg:
		m.pending = int(msg)

	case pausedMsg:
		m.paused = bool(msg)

	case alertMsg:
		m.alert = string(msg)
		m.notice = ""

	case historyMsg:
		m.history = []string(msg)

	case channelMsg:
		m.active = string(msg)
		m.keyword.SetValue("")
		m.tag.SetValue("")
		m.typ.SetValue("")

	case exportedMsg:
		m.alert = ""
		m.notice = fmt.Sprintf("%d Logs exportiert nach %s", msg.count, filepath.Base(msg.path))
	}

	if m.focus == focusNone {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKeyPress handles keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.confirm {
		m.confirm = false
		switch msg.String() {
		case "j", "y", "enter":
			m.ctrl.Clear()
			m.notice = "Logs geleert"
		default:
			m.notice = ""
		}
		return m, nil
	}

	if m.focus != focusNone {
		return m.handleInputKey(msg)
	}

	switch msg.String() {
	case "ctrl+k", "/":
		return m.focusInput(focusKeyword)
	case "tab":
		return m.focusInput(focusKeyword)
	case "c", "ctrl+o":
		return m.focusInput(focusChannel)

	case "ctrl+l":
		m.confirm = true
		m.notice = "Alle Logs loeschen? (j/n)"
		return m, nil

	case "ctrl+e":
		m.ctrl.Export()
		return m, nil

	case " ", "p":
		m.ctrl.TogglePause()
		return m, nil

	case "r":
		m.ctrl.Retry()
		return m, nil

	case "x":
		m.ctrl.ClearHistory()
		return m, nil

	case "a":
		m.autoScroll = !m.autoScroll
		if m.autoScroll {
			m.viewport.GotoBottom()
		}
		return m, nil

	case "g", "home":
		m.viewport.GotoTop()
		m.autoScroll = false
		return m, nil

	case "G", "end":
		m.viewport.GotoBottom()
		m.autoScroll = true
		return m, nil

	case "esc":
		m.alert = ""
		m.notice = ""
		return m, nil

	case "pgup":
		m.viewport.ViewUp()
		m.autoScroll = false
		return m, nil

	case "pgdown":
		m.viewport.ViewDown()
		m.autoScroll = m.viewport.AtBottom()
		return m, nil

	case "up", "k":
		m.viewport.LineUp(1)
		m.autoScroll = false
		return m, nil

	case "down", "j":
		m.viewport.LineDown(1)
		m.autoScroll = m.viewport.AtBottom()
		return m, nil
	}

	// 1-9 jump to a channel from the history
	if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		if i := int(s[0] - '1'); i < len(m.history) {
			m.ctrl.SwitchChannel(m.history[i])
		}
	}
	return m, nil
}

// handleInputKey routes keys to the focused input
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.focusInput(focusNone)

	case "tab":
		next := m.focus + 1
		if next > focusType {
			next = focusKeyword
		}
		if m.focus == focusChannel {
			next = focusNone
		}
		return m.focusInput(next)

	case "enter":
		if m.focus == focusChannel {
			m.ctrl.SwitchChannel(m.channel.Value())
			m.channel.SetValue("")
		}
		return m.focusInput(focusNone)
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusKeyword:
		m.keyword, cmd = m.keyword.Update(msg)
	case focusTag:
		m.tag, cmd = m.tag.Update(msg)
	case focusType:
		m.typ, cmd = m.typ.Update(msg)
	case focusChannel:
		m.channel, cmd = m.channel.Update(msg)
		return m, cmd
	}

	m.ctrl.SetFilter(m.predicate())
	return m, cmd
}

// focusInput moves the cursor to target, or back to the log when focusNone
func (m Model) focusInput(target int) (tea.Model, tea.Cmd) {
	m.keyword.Blur()
	m.tag.Blur()
	m.typ.Blur()
	m.channel.Blur()
	m.focus = target

	var cmd tea.Cmd
	switch target {
	case focusKeyword:
		cmd = m.keyword.Focus()
	case focusTag:
		cmd = m.tag.Focus()
	case focusType:
		cmd = m.typ.Focus()
	case focusChannel:
		cmd = m.channel.Focus()
	}
	return m, cmd
}

func (m Model) predicate() filter.Predicate {
	return filter.Predicate{
		Keyword: m.keyword.Value(),
		Tag:     m.tag.Value(),
		Type:    strings.TrimSpace(m.typ.Value()),
	}
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Lade livelog..."
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	b.WriteString(m.renderFilterBar())
	b.WriteString("\n")

	b.WriteString(m.renderLogArea())
	b.WriteString("\n")

	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")

	b.WriteString(m.renderHelpBar())

	return b.String()
}

// renderHeader renders the header with channel and connection status
func (m Model) renderHeader() string {
	logo := LogoStyle.Render(Logo)

	status := RenderState(m.state, m.statusText)
	if m.state == stream.StateConnecting || m.state == stream.StateReconnecting {
		status = m.spinner.View() + " " + status
	}

	pauseStatus := ""
	if m.paused {
		label := IconPaused + "PAUSIERT"
		if m.pending > 0 {
			label += fmt.Sprintf(" (%d neue)", m.pending)
		}
		pauseStatus = "  " + StatusPausedStyle.Render(label)
	}

	channel := HelpDescStyle.Render("Kanal: ") + ChannelStyle.Render(m.active)
	if m.focus == focusChannel {
		channel = FilterFocusedLabelStyle.Render("Kanal: ") + m.channel.View()
	}

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		logo,
		strings.Repeat(" ", 3),
		channel,
		strings.Repeat(" ", 3),
		status,
		pauseStatus,
	)

	return TitlePanelStyle.Width(m.width - 4).Render(header)
}

// renderFilterBar renders the filter inputs and counts
func (m Model) renderFilterBar() string {
	fields := []string{
		m.renderInput("Suche", m.keyword, m.focus == focusKeyword),
		m.renderInput("Tag", m.tag, m.focus == focusTag),
		m.renderInput("Typ", m.typ, m.focus == focusType),
	}

	countStr := HelpDescStyle.Render(fmt.Sprintf("[%d/%d Logs]", m.visible, m.total))

	scrollStr := ""
	if m.autoScroll {
		scrollStr = "  " + FilterActiveStyle.Render("[Auto-Scroll]")
	}

	content := IconFilter + strings.Join(fields, "  ") + "  " + countStr + scrollStr
	return FilterBarStyle.Width(m.width - 2).Render(content)
}

func (m Model) renderInput(label string, in textinput.Model, focused bool) string {
	if focused {
		return FilterFocusedLabelStyle.Render(label+":") + " " + in.View()
	}
	value := in.Value()
	if value == "" {
		value = "-"
	}
	return FilterLabelStyle.Render(label+":") + " " + LogMessageStyle.Render(value)
}

// renderLogArea renders the main log viewport
func (m Model) renderLogArea() string {
	style := LogPanelStyle.Width(m.width - 2).Height(m.viewport.Height + 2)
	return style.Render(m.viewport.View())
}

// renderStatusBar renders alerts, channel history and version
func (m Model) renderStatusBar() string {
	var leftPart string
	switch {
	case m.alert != "":
		leftPart = AlertStyle.Render(m.alert)
	case m.notice != "":
		leftPart = NoticeStyle.Render(m.notice)
	default:
		leftPart = HelpDescStyle.Render("Verlauf: " + renderHistory(m.history, m.active))
	}

	rightPart := HelpDescStyle.Render("v" + version.Version)

	padding := m.width - lipgloss.Width(leftPart) - lipgloss.Width(rightPart) - 4
	if padding < 2 {
		padding = 2
	}

	return StatusBarStyle.Width(m.width - 2).Render(leftPart + strings.Repeat(" ", padding) + rightPart)
}

func renderHistory(history []string, active string) string {
	items := make([]string, 0, len(history))
	for i, ch := range history {
		label := ch
		if ch == active {
			label = "*" + ch
		}
		if i < 9 {
			label = fmt.Sprintf("%d:%s", i+1, label)
		}
		items = append(items, label)
	}
	return strings.Join(items, " ")
}

// renderHelpBar renders the help shortcuts bar
func (m Model) renderHelpBar() string {
	if m.focus != focusNone {
		return HelpStyle.Render(strings.Join([]string{
			RenderKeyHint("Tab", "Naechstes Feld"),
			RenderKeyHint("Enter", "Uebernehmen"),
			RenderKeyHint("Esc", "Zurueck"),
		}, "  "))
	}

	items := []string{
		RenderKeyHint("Ctrl+K", "Filter"),
		RenderKeyHint("c", "Kanal"),
		RenderKeyHint("1-9", "Verlauf"),
		RenderKeyHint("Space", "Pause"),
		RenderKeyHint("Ctrl+E", "Export"),
		RenderKeyHint("Ctrl+L", "Leeren"),
		RenderKeyHint("r", "Neu verbinden"),
		RenderKeyHint("a", "AutoScroll"),
		RenderKeyHint("Ctrl+C", "Beenden"),
	}

	return HelpStyle.Render(strings.Join(items, "  "))
}

// refresh rebuilds the viewport content from the rendered lines.
// Appends only mark the model dirty; the next frame calls refresh.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.dirty = false
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
	if m.autoScroll {
		m.viewport.GotoBottom()
	}
}

// formatEntry renders [TIME] [TYPE] [tags] data, pretty-printing JSON data
func formatEntry(e model.LogEntry) string {
	timeStr := e.Timestamp
	if t := e.Time(); !t.IsZero() {
		timeStr = t.Local().Format("15:04:05")
	}

	parts := []string{
		LogTimestampStyle.Render(timeStr),
		RenderTypeBadge(e.Type),
	}
	if len(e.Tags) > 0 {
		parts = append(parts, LogTagStyle.Render("["+strings.Join(e.Tags, ", ")+"]"))
	}

	if pretty, ok := prettyJSON(e.Data); ok {
		parts = append(parts, "\n"+LogJSONStyle.Render(pretty))
	} else {
		parts = append(parts, LogMessageStyle.Render(e.Data))
	}
	return strings.Join(parts, " ")
}

// prettyJSON indents data when it is a JSON object or array
func prettyJSON(data string) (string, bool) {
	trimmed := strings.TrimSpace(data)
	if trimmed == "" || (trimmed[0] != '{' && trimmed[0] != '[') {
		return "", false
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(trimmed), "  ", "  "); err != nil {
		return "", false
	}
	return "  " + buf.String(), true
}

// Run starts the TUI for ctrl and blocks until the user quits or ctx is
// done. display must be the Display the controller reports to.
func Run(ctx context.Context, ctrl Controller, display *Display) error {
	p := tea.NewProgram(New(ctrl), tea.WithAltScreen(), tea.WithContext(ctx))
	display.Attach(p.Send)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
