// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

// Package testinfra provides fixtures shared by package tests.
//
// GraphBuilder creates an in-memory container and lets tests name their
// concepts and objects instead of tracking generated IDs:
//
//	b := testinfra.NewGraphBuilder(t)
//	b.Concept("red", "red car")
//	b.Object("o1")
//	b.Edge("red", "o1")
//
//	got := b.Name(result[0].Ref) // "red"
//
// Both store drivers are embedded, so integration tests need no external
// services: DuckDB tests open ":memory:" and SQLite tests use t.TempDir().
package testinfra
