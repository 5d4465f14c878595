// ============================================================================
// livelog - Echtzeit Log Viewer
// ============================================================================
//
// Package:     cmd
// Description: Shared wiring of config, logging, store and transport
// Author:      Mike Stoffels
// Created:     2026-10-06
// License:     MIT
// ============================================================================

package cmd

import (
	"io"

	mdwerror "github.com/msto63/livelog/foundation/core/error"
	"github.com/msto63/livelog/internal/backoff"
	"github.com/msto63/livelog/internal/envelope"
	"github.com/msto63/livelog/internal/export"
	"github.com/msto63/livelog/internal/store"
	"github.com/msto63/livelog/internal/store/filestore"
	"github.com/msto63/livelog/internal/store/sqlstore"
	"github.com/msto63/livelog/internal/stream"
	"github.com/msto63/livelog/internal/stream/sse"
	"github.com/msto63/livelog/internal/stream/wsstream"
	"github.com/msto63/livelog/internal/viewer"
	"github.com/msto63/livelog/pkg/core/config"
	"github.com/msto63/livelog/pkg/core/logging"
)

// loadConfig reads the config file and applies command line flags
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, err
	}

	if serverURL != "" {
		cfg.Server.BaseURL = serverURL
	}
	if channel != "" {
		cfg.Viewer.DefaultChannel = channel
	}
	if transport != "" {
		cfg.Server.Transport = transport
	}
	if noHistory {
		cfg.History.Backend = "memory"
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger writes to the configured log file so the terminal stays clean
func newLogger(cfg *config.Config) (*logging.Logger, io.Closer, error) {
	base, closer, err := logging.NewLogger(logging.LoggerConfig{
		ServiceName: "livelog",
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		File:        cfg.Log.File,
	})
	if err != nil {
		return nil, nil, err
	}
	return logging.Wrap(base), closer, nil
}

// openStore opens the channel history backend
func openStore(cfg *config.Config) (store.Store, io.Closer, error) {
	switch cfg.History.Backend {
	case "memory":
		return store.NewMemory(), nopCloser{}, nil
	case "file":
		return filestore.New(cfg.History.Path), nopCloser{}, nil
	case "sqlite":
		st, err := sqlstore.OpenSQLite(cfg.History.Path)
		if err != nil {
			return nil, nil, err
		}
		return st, st, nil
	case "postgres":
		st, err := sqlstore.OpenPostgres(cfg.History.DSN)
		if err != nil {
			return nil, nil, err
		}
		return st, st, nil
	default:
		return nil, nil, mdwerror.New("unknown history backend " + cfg.History.Backend).
			WithCode(mdwerror.CodeInvalidConfig)
	}
}

// newTransport selects SSE or WebSocket
func newTransport(cfg *config.Config, logger *logging.Logger) stream.EventStream {
	if cfg.Server.Transport == "websocket" {
		return wsstream.New(cfg.Server.BaseURL, cfg.Server.ConnectTimeout.Duration, logger)
	}
	return sse.New(cfg.Server.BaseURL, cfg.Server.ConnectTimeout.Duration, sse.WithLogger(logger))
}

// newDecoder enables payload decryption when a shared key is configured
func newDecoder(cfg *config.Config) (*envelope.Decoder, error) {
	if cfg.Crypto.SharedKey == "" {
		return envelope.NewDecoder(nil), nil
	}
	cipher, err := envelope.NewCipher(cfg.Crypto.SharedKey)
	if err != nil {
		return nil, err
	}
	return envelope.NewDecoder(cipher), nil
}

// session bundles a wired viewer with everything that must be released
type session struct {
	viewer  *viewer.Viewer
	logger  *logging.Logger
	closers []io.Closer
}

// newSession wires a viewer for display from the loaded configuration
func newSession(cfg *config.Config, display viewer.Display, opts ...func(*viewer.Options)) (*session, error) {
	logger, logCloser, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	s := &session{logger: logger, closers: []io.Closer{logCloser}}

	st, stCloser, err := openStore(cfg)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.closers = append(s.closers, stCloser)

	decoder, err := newDecoder(cfg)
	if err != nil {
		s.Close()
		return nil, err
	}

	options := viewer.Options{
		Transport:      newTransport(cfg, logger),
		Decoder:        decoder,
		Store:          st,
		Logger:         logger,
		DefaultChannel: cfg.Viewer.DefaultChannel,
		MaxLogs:        cfg.Viewer.MaxLogs,
		Debounce:       cfg.Viewer.FilterDebounce.Duration,
		Stream: stream.Config{
			Policy: backoff.Policy{
				Base: cfg.Reconnect.BaseDelay.Duration,
				Max:  cfg.Reconnect.MaxDelay.Duration,
			},
			MaxAttempts: cfg.Reconnect.MaxAttempts,
		},
		ExportDir: cfg.Export.Dir,
		Export: export.Options{
			Format:      cfg.Export.Format,
			Compression: cfg.Export.Compression,
		},
	}
	for _, opt := range opts {
		opt(&options)
	}

	s.viewer = viewer.New(display, options)
	return s, nil
}

// Close releases the store and the log file in reverse order
func (s *session) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i].Close()
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
