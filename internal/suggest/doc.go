// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

/*
Package suggest ranks plausible new annotations for an item.

Given a concept, algorithms rank objects; given an object, they rank concepts.
All algorithms read an immutable graph.Graph snapshot and return a Result
ordered by descending score, with ascending graph.Ref breaking ties.

# Algorithms

Propagation family:
  - SAGA: influence propagation with text clustering, keeps scores >= 1.0
  - SAGA-Refined: as SAGA, but confirmed links are always kept
  - SAGA-Cumulative: drops the weakest tail holding less than 1.0 in total

Co-occurrence family:
  - Vote / VotePlus: top-list membership, optionally weighted by promotion
  - Sum / SumPlus: co-occurrence count over degree, optionally promoted

Baselines: All, Annotated, Shuffle, None. "Baseline" is an alias for All.

# Selection

Kinds are resolved once per request. Resolve never fails and falls back to
DefaultKind; Lookup is strict and returns ErrUnknownAlgorithm.

	engine, err := suggest.NewEngine(store, suggest.DefaultConfig(), logger)
	res, err := engine.Suggest(ctx, containerID, graph.ObjectRef(7), "VotePlus")
	for _, s := range res.Top(5) {
		fmt.Println(s.Ref, s.Score)
	}
*/
package suggest
