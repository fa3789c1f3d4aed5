// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

// Package analytics describes the shape of an annotation graph: item and
// word counts, degree distributions, connected object subgraphs, annotation
// bursts over time, and how often suggestions were accepted.
//
// Every analysis reads an immutable graph.Graph snapshot; Analyze loads one
// from a store and runs them all.
package analytics
