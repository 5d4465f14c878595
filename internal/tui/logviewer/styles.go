// ============================================================================
// livelog - Echtzeit Log Viewer
// ============================================================================
//
// Package:     logviewer
// Description: Styles for the log viewer TUI
// Author:      Mike Stoffels
// Created:     2026-10-05
// License:     MIT
// ============================================================================

package logviewer

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/msto63/livelog/internal/stream"
)

// Color Palette
var (
	ColorPrimary   = lipgloss.Color("#8B5CF6") // Violet
	ColorSecondary = lipgloss.Color("#06B6D4") // Cyan
	ColorSuccess   = lipgloss.Color("#10B981") // Emerald
	ColorWarning   = lipgloss.Color("#F59E0B") // Amber
	ColorError     = lipgloss.Color("#EF4444") // Red
	ColorDimmed    = lipgloss.Color("#374151") // Dark Gray

	ColorBgPanel = lipgloss.Color("#1E293B") // Slate 800

	ColorText      = lipgloss.Color("#F8FAFC") // Slate 50
	ColorTextMuted = lipgloss.Color("#94A3B8") // Slate 400
	ColorTextDim   = lipgloss.Color("#64748B") // Slate 500

	ColorDebug = lipgloss.Color("#94A3B8")
	ColorInfo  = lipgloss.Color("#06B6D4")
	ColorFatal = lipgloss.Color("#DC2626")
)

var (
	LogoStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	ChannelStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true)
)

// Log entry styles
var (
	LogTimestampStyle = lipgloss.NewStyle().
				Foreground(ColorTextDim)

	LogTagStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary)

	LogMessageStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	LogJSONStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	LogTypeDebugStyle = lipgloss.NewStyle().
				Foreground(ColorDebug).
				Bold(true)

	LogTypeInfoStyle = lipgloss.NewStyle().
				Foreground(ColorInfo).
				Bold(true)

	LogTypeWarnStyle = lipgloss.NewStyle().
				Foreground(ColorWarning).
				Bold(true)

	LogTypeErrorStyle = lipgloss.NewStyle().
				Foreground(ColorError).
				Bold(true)

	LogTypeFatalStyle = lipgloss.NewStyle().
				Foreground(ColorFatal).
				Background(lipgloss.Color("#450A0A")).
				Bold(true)

	LogTypeOtherStyle = lipgloss.NewStyle().
				Foreground(ColorPrimary).
				Bold(true)
)

// Panel/Box styles
var (
	LogPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDimmed).
			Padding(0, 1)

	FilterBarStyle = lipgloss.NewStyle().
			Background(ColorBgPanel).
			Foreground(ColorText).
			Padding(0, 1)

	TitlePanelStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 2)
)

// Status bar styles
var (
	StatusBarStyle = lipgloss.NewStyle().
			Background(ColorBgPanel).
			Foreground(ColorText).
			Padding(0, 1)

	StatusOnlineStyle = lipgloss.NewStyle().
				Foreground(ColorSuccess).
				Bold(true)

	StatusOfflineStyle = lipgloss.NewStyle().
				Foreground(ColorError).
				Bold(true)

	StatusPausedStyle = lipgloss.NewStyle().
				Foreground(ColorWarning).
				Bold(true)

	AlertStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	NoticeStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)
)

// Help styles
var (
	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	FilterActiveStyle = lipgloss.NewStyle().
				Foreground(ColorSuccess).
				Bold(true)

	FilterLabelStyle = lipgloss.NewStyle().
				Foreground(ColorTextDim)

	FilterFocusedLabelStyle = lipgloss.NewStyle().
				Foreground(ColorPrimary).
				Bold(true)
)

// Icons
const (
	IconOnline  = "● "
	IconOffline = "○ "
	IconPaused  = "⏸ "
	IconFilter  = "⚲ "
)

// Logo
const Logo = "livelog"

// RenderKeyHint renders a keyboard shortcut hint
func RenderKeyHint(key, description string) string {
	return HelpKeyStyle.Render(key) + " " + HelpDescStyle.Render(description)
}

// RenderTypeBadge renders an entry type, coloring the usual level names
func RenderTypeBadge(typ string) string {
	label := "[" + typ + "]"
	switch strings.ToLower(typ) {
	case "debug", "trace":
		return LogTypeDebugStyle.Render(label)
	case "info", "log":
		return LogTypeInfoStyle.Render(label)
	case "warn", "warning":
		return LogTypeWarnStyle.Render(label)
	case "error", "err":
		return LogTypeErrorStyle.Render(label)
	case "fatal", "critical":
		return LogTypeFatalStyle.Render(label)
	default:
		return LogTypeOtherStyle.Render(label)
	}
}

// RenderState renders the connection indicator
func RenderState(state stream.State, text string) string {
	switch state {
	case stream.StateConnected:
		return StatusOnlineStyle.Render(IconOnline + text)
	case stream.StateConnecting, stream.StateReconnecting:
		return StatusPausedStyle.Render(IconOffline + text)
	default:
		return StatusOfflineStyle.Render(IconOffline + text)
	}
}
