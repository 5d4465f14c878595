package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	serverURL string
	channel   string
	transport string
	noHistory bool
	logLevel  string
)

var rootCmd = &cobra.Command{
	Use:   "livelog",
	Short: "livelog - Echtzeit Log Viewer",
	Long: `livelog abonniert einen Log-Kanal per Server-Sent Events
und zeigt eingehende Eintraege live im Terminal an.

Befehle:
  view      - Interaktiver Viewer (Standard)
  tail      - Eintraege zeilenweise ausgeben
  channels  - Kanalverlauf verwalten
  status    - Server und Verlauf pruefen`,
	SilenceUsage: true,
	RunE:         runView,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config-Datei (default: ./configs/livelog.toml)")
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "", "Basis-URL des Log-Servers")
	rootCmd.PersistentFlags().StringVarP(&channel, "channel", "c", "", "Kanal beim Start")
	rootCmd.PersistentFlags().StringVar(&transport, "transport", "", "Transport: sse oder websocket")
	rootCmd.PersistentFlags().BoolVar(&noHistory, "no-history", false, "Kanalverlauf nicht speichern")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log-Level (debug, info, warn, error)")
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Fehler: %s: %v\n", msg, err)
}
