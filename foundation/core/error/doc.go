// Package error provides structured error handling for livelog.
//
// Package: error
// Title: livelog Error Handling
// Description: Errors with a classification code, a severity, free-form details
//              and an optional cause. Every boundary of the viewer core (transport,
//              persistence, validation, configuration) reports its faults through
//              this type so the CLI and the TUI can decide how to surface them.
// Author: Mike Stoffels
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-02
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with contextual errors and codes
// - 2026-10-02 v0.2.0: Reduced to the codes used by the log viewer, errors.As support
//
// Usage:
//   import mdwerror "github.com/msto63/livelog/foundation/core/error"
//
//   err := mdwerror.Wrap(err, "failed to subscribe").
//     WithCode(mdwerror.CodeConnectionFailed).
//     WithDetail("channel", "logs")
//
//   if mdwerror.HasCode(err, mdwerror.CodeValidationFailed) {
//     // show the message to the user
//   }
package error
