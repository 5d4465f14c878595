// Package log provides structured logging for livelog.
//
// Package: log
// Title: livelog Structured Logging
// Description: A small structured logger with levels, persistent context fields and
//              JSON or text output. The viewer logs transport faults, dropped
//              messages and persistence warnings through it; while the terminal UI
//              is active the output goes to a file instead of the screen.
// Author: Mike Stoffels
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-02
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with structured logging and error integration
// - 2026-10-02 v0.2.0: Removed async worker, audit level and timers; newline-terminated JSON
//
// Usage:
//   import mdwlog "github.com/msto63/livelog/foundation/core/log"
//
//   logger := mdwlog.New().
//     WithLevel(mdwlog.LevelInfo).
//     WithFormat(mdwlog.FormatJSON).
//     WithName("stream")
//
//   logger.Info("subscribed", mdwlog.Field("channel", "logs"))
//   logger.ErrorWithErr("transport fault", err)
package log
