// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

// Package logging provides the zerolog-based structured logger used across Sage.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Int64("container_id", id).Msg("evaluation started")
//	logging.Err(err).Msg("import failed")
//
// Components derive their own logger and tag it:
//
//	logger := logging.WithComponent("harness")
//
// # Evaluation runs
//
// Every evaluation run carries a run ID in its context. Ctx adds it to each
// line so a run can be followed through the store, the suggestion engine and
// the harness:
//
//	ctx = logging.ContextWithNewRunID(ctx)
//	logging.Ctx(ctx).Info().Msg("partition complete")
//	// {"level":"info","run_id":"7c9e6679-...","message":"partition complete"}
//
// # slog
//
// NewSlogLogger bridges to log/slog for libraries that only accept
// *slog.Logger, such as sutureslog.
//
// # Configuration
//
// The logging section of the Sage config (or LOG_LEVEL, LOG_FORMAT, LOG_CALLER)
// selects the level (trace through error, or disabled), json or console output,
// and caller annotation.
package logging
