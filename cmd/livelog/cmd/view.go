// ============================================================================
// livelog - Echtzeit Log Viewer
// ============================================================================
//
// Package:     cmd
// Description: CLI command for the interactive log viewer
// Author:      Mike Stoffels
// Created:     2026-10-06
// License:     MIT
// ============================================================================

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/msto63/livelog/internal/tui/logviewer"
)

var viewCmd = &cobra.Command{
	Use:     "view",
	Aliases: []string{"ui", "tui"},
	Short:   "Startet den interaktiven Log Viewer",
	Long: `Startet den interaktiven Log Viewer.

Eingehende Eintraege werden live angezeigt. Filter, Pause,
Export und Kanalwechsel wirken sofort.

Tastenkuerzel:
  Ctrl+K / /  Filterfeld (Tab: Suche, Tag, Typ)
  c           Kanal wechseln
  1-9         Kanal aus dem Verlauf
  Space / p   Pause/Resume
  Ctrl+E      Export als Datei
  Ctrl+L      Logs leeren (mit Rueckfrage)
  r           Neu verbinden
  x           Verlauf leeren
  a           Auto-Scroll togglen
  g / End     Zum Anfang / Ende springen
  Ctrl+C      Beenden`,
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		printError("Konfiguration", err)
		return err
	}

	display := logviewer.NewDisplay()
	s, err := newSession(cfg, display)
	if err != nil {
		printError("Initialisierung", err)
		return err
	}
	defer s.Close()
	defer s.viewer.Teardown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.logger.Info("Starting viewer", "server", cfg.Server.BaseURL, "transport", cfg.Server.Transport)
	if err := logviewer.Run(ctx, s.viewer, display); err != nil {
		printError("TUI", err)
		return err
	}
	return nil
}
