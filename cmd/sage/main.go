// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

// Package main is the sage command line.
//
// Sage suggests annotations for a container of concepts (textual tags) and
// objects (annotated items) and measures how well each suggestion algorithm
// recovers annotations that were held out.
//
// # Commands
//
//	sage import dataset.json          load a JSON dataset into the store
//	sage export --container 3         write a container as a JSON dataset
//	sage suggest --container 3 --item concept:12
//	sage suggest --container 3 --text "red sports car"
//	sage evaluate --container 3 --fraction 0.4 --trials 30 --format csv
//	sage stats --container 3          container analytics
//	sage serve                        HTTP API, metrics and scheduled evaluation
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
//   - Command line flags of each command
//   - Environment variables (DB_DRIVER, DUCKDB_PATH, EVAL_TRIALS, HTTP_PORT, ...)
//   - Config file (--config, $CONFIG_PATH or ./config.yaml)
//   - Built-in defaults
//
// Reports go to stdout; logs go to stderr.
//
// # Signal Handling
//
// Every command runs under a context canceled by SIGINT and SIGTERM. serve
// stops the supervisor tree, drains HTTP connections and closes the store.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
