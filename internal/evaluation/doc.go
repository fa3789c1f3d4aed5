// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

/*
Package evaluation measures how well suggestion algorithms recover hidden
annotations.

A run clones the container, records the true neighbours of a random sample
of held-out items, deletes a shuffled share of the clone's edges, and asks
each algorithm for suggestions on the reduced graph. Every suggestion list
is scored against the recorded truth:

  - Precision, recall and F-beta (0.5, 1.0, 2.0)
  - Phi coefficient
  - Precision@5, Success@1, Success@5
  - Reciprocal rank (averaged into MRR)

Scores are collected in a Measurement per algorithm and metric. The clone is
deleted when the run ends, whether or not it succeeded.

# Example

	h, err := evaluation.NewHarness(store, evaluation.Options{}, logger)
	report, err := h.Evaluate(ctx, containerID, 0.4, 30)
	report.WriteText(os.Stdout)
*/
package evaluation
