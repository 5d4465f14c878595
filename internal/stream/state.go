package stream

import "fmt"

// State is the connection state shown to the user
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateReconnecting
	StateFailed
)

// String returns the lower-case state tag
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Status texts
func connectingText(channel string) string {
	return fmt.Sprintf("Verbinde mit '%s'...", channel)
}

func connectedText(channel string) string {
	return fmt.Sprintf("Verbunden mit '%s'", channel)
}

func reconnectingText(channel string, attempt, max, seconds int) string {
	return fmt.Sprintf("Neuverbindung mit '%s'... (%d/%d) - %ds", channel, attempt, max, seconds)
}

const (
	failedText       = "Verbindung fehlgeschlagen - r fuer erneuten Versuch"
	disconnectedText = "Getrennt"
)
