// ============================================================================
// livelog - Echtzeit Log Viewer
// ============================================================================
//
// Package:     cmd
// Description: Headless line printer for a log channel
// Author:      Mike Stoffels
// Created:     2026-10-06
// License:     MIT
// ============================================================================

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/msto63/livelog/internal/filter"
	"github.com/msto63/livelog/internal/model"
	"github.com/msto63/livelog/internal/stream"
	"github.com/msto63/livelog/internal/viewer"
)

var (
	tailKeyword string
	tailTag     string
	tailType    string
	tailJSON    bool
)

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Gibt eingehende Eintraege zeilenweise aus",
	Long: `Abonniert den Kanal und schreibt jeden passenden Eintrag
auf die Standardausgabe. Statusmeldungen gehen nach stderr.

Beispiel:
  livelog tail --channel audit --type error --json`,
	RunE: runTail,
}

func init() {
	rootCmd.AddCommand(tailCmd)

	tailCmd.Flags().StringVarP(&tailKeyword, "keyword", "k", "", "Nur Eintraege mit diesem Text")
	tailCmd.Flags().StringVarP(&tailTag, "tag", "t", "", "Nur Eintraege mit passendem Tag")
	tailCmd.Flags().StringVar(&tailType, "type", "", "Nur Eintraege dieses Typs")
	tailCmd.Flags().BoolVar(&tailJSON, "json", false, "Ausgabe als JSON-Zeilen")
}

func runTail(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		printError("Konfiguration", err)
		return err
	}

	display := &lineDisplay{out: os.Stdout, status: os.Stderr, json: tailJSON}
	s, err := newSession(cfg, display, func(o *viewer.Options) {
		o.Filter = filter.Predicate{Keyword: tailKeyword, Tag: tailTag, Type: tailType}
	})
	if err != nil {
		printError("Initialisierung", err)
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.viewer.Init()
	<-ctx.Done()
	s.viewer.Teardown()
	return nil
}

// lineDisplay prints visible entries one per line
type lineDisplay struct {
	out    io.Writer
	status io.Writer
	json   bool
}

func (d *lineDisplay) Status(state stream.State, text string) {
	fmt.Fprintf(d.status, "[%s] %s\n", state, text)
}

func (d *lineDisplay) Append(entry model.LogEntry) {
	if d.json {
		line, err := json.Marshal(entry)
		if err != nil {
			return
		}
		fmt.Fprintf(d.out, "%s\n", line)
		return
	}
	tags := ""
	if len(entry.Tags) > 0 {
		tags = " [" + strings.Join(entry.Tags, ",") + "]"
	}
	fmt.Fprintf(d.out, "%s %s%s %s\n", entry.Timestamp, entry.Type, tags, entry.Data)
}

// Replace is a no-op: printed lines cannot be taken back
func (d *lineDisplay) Replace(entries []model.LogEntry) {}

func (d *lineDisplay) PendingChanged(n int) {}

func (d *lineDisplay) Stats(total, visible int) {}

func (d *lineDisplay) Alert(msg string) {
	fmt.Fprintf(d.status, "Fehler: %s\n", msg)
}

func (d *lineDisplay) HistoryChanged(history []string) {}

func (d *lineDisplay) Paused(paused bool) {}

func (d *lineDisplay) ChannelChanged(channel string) {
	fmt.Fprintf(d.status, "Kanal: %s\n", channel)
}

func (d *lineDisplay) Exported(path string, count int) {
	fmt.Fprintf(d.status, "%d Eintraege exportiert nach %s\n", count, path)
}
