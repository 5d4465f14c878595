// ============================================================================
// livelog - Echtzeit Log Viewer
// ============================================================================
//
// Package:     export
// Description: Writes buffered log entries to a timestamped file
// Author:      Mike Stoffels
// Created:     2026-10-04
// License:     MIT
// ============================================================================

package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/livelog/foundation/core/error"
	"github.com/msto63/livelog/internal/model"
)

// Formats and compressions
const (
	FormatJSON = "json"
	FormatYAML = "yaml"

	CompressionNone = "none"
	CompressionGzip = "gzip"
	CompressionZstd = "zstd"
)

// Options selects the export encoding
type Options struct {
	Format      string
	Compression string

	// Now stamps the filename; zero means time.Now()
	Now time.Time
}

// Filename returns logs_<YYYY-MM-DDTHH-MM-SS>.<ext>[.gz|.zst] in UTC
func Filename(opts Options) string {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	stamp := strings.ReplaceAll(now.UTC().Format("2006-01-02T15:04:05"), ":", "-")

	name := "logs_" + stamp + "." + extension(opts.Format)
	switch opts.Compression {
	case CompressionGzip:
		name += ".gz"
	case CompressionZstd:
		name += ".zst"
	}
	return name
}

func extension(format string) string {
	if format == FormatYAML {
		return "yaml"
	}
	return "json"
}

// Encode writes entries to w in the selected format and compression
func Encode(w io.Writer, entries []model.LogEntry, opts Options) error {
	if entries == nil {
		entries = []model.LogEntry{}
	}

	body, err := marshal(entries, opts.Format)
	if err != nil {
		return err
	}

	switch opts.Compression {
	case "", CompressionNone:
		_, err = w.Write(body)
		return err
	case CompressionGzip:
		zw := gzip.NewWriter(w)
		if _, err := zw.Write(body); err != nil {
			zw.Close()
			return err
		}
		return zw.Close()
	case CompressionZstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return err
		}
		if _, err := zw.Write(body); err != nil {
			zw.Close()
			return err
		}
		return zw.Close()
	default:
		return mdwerror.New(fmt.Sprintf("unknown compression %q", opts.Compression)).
			WithCode(mdwerror.CodeInvalidInput)
	}
}

func marshal(entries []model.LogEntry, format string) ([]byte, error) {
	switch format {
	case "", FormatJSON:
		body, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(body, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, mdwerror.New(fmt.Sprintf("unknown format %q", format)).
			WithCode(mdwerror.CodeInvalidInput)
	}
}

// Write encodes entries into a new file in dir and returns its path
func Write(dir string, entries []model.LogEntry, opts Options) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", mdwerror.Wrap(err, "failed to create export directory").
			WithCode(mdwerror.CodeInternal).
			WithDetail("dir", dir)
	}

	path := filepath.Join(dir, Filename(opts))
	tmp, err := os.CreateTemp(dir, ".export-*")
	if err != nil {
		return "", mdwerror.Wrap(err, "failed to create export file").
			WithCode(mdwerror.CodeInternal).
			WithDetail("dir", dir)
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, entries, opts); err != nil {
		tmp.Close()
		return "", mdwerror.Wrap(err, "failed to encode export").
			WithCode(mdwerror.CodeInternal).
			WithDetail("path", path)
	}
	if err := tmp.Close(); err != nil {
		return "", mdwerror.Wrap(err, "failed to write export").
			WithCode(mdwerror.CodeInternal).
			WithDetail("path", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", mdwerror.Wrap(err, "failed to finalize export").
			WithCode(mdwerror.CodeInternal).
			WithDetail("path", path)
	}
	return path, nil
}
