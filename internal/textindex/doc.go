// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

// Package textindex measures textual similarity between the concepts of one
// container using tf-idf vectors.
//
// Cosine similarity here divides the dot product by the sum of the two
// vector norms rather than their product, so scores are not bounded by 1.
// Suggestion weights depend on that scale.
package textindex
