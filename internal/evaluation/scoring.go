// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package evaluation

import (
	"math"

	"github.com/tomtom215/sage/internal/graph"
)

// Classification is the confusion matrix of one suggestion list.
type Classification struct {
	TP int `json:"tp"`
	FP int `json:"fp"`
	FN int `json:"fn"`
	TN int `json:"tn"`
}

// Classify compares found against truth within a universe of the given size.
// Duplicate entries in found count once.
func Classify(found []graph.Ref, truth map[graph.Ref]struct{}, universe int) Classification {
	seen := make(map[graph.Ref]struct{}, len(found))
	var c Classification
	for _, ref := range found {
		if _, dup := seen[ref]; dup {
			continue
		}
		seen[ref] = struct{}{}
		if _, ok := truth[ref]; ok {
			c.TP++
		} else {
			c.FP++
		}
	}
	c.FN = len(truth) - c.TP
	c.TN = universe - (c.TP + c.FP + c.FN)
	return c
}

// Precision returns tp / (tp + fp), or 0.
func Precision(c Classification) float64 {
	return ratio(c.TP, c.TP+c.FP)
}

// Recall returns tp / (tp + fn), or 0.
func Recall(c Classification) float64 {
	return ratio(c.TP, c.TP+c.FN)
}

// FBeta combines precision and recall; beta > 1 favours recall.
// Returns 0 when both inputs are 0 or beta is 0.
func FBeta(p, r, beta float64) float64 {
	if (p <= 0 && r <= 0) || beta == 0 {
		return 0
	}
	b2 := beta * beta
	den := b2*p + r
	if den == 0 {
		return 0
	}
	return (1 + b2) * p * r / den
}

// Phi returns the phi coefficient. When the denominator product is zero the
// unscaled numerator tp*tn - fp*fn is returned instead.
func Phi(c Classification) float64 {
	tp, fp, fn, tn := float64(c.TP), float64(c.FP), float64(c.FN), float64(c.TN)
	num := tp*tn - fp*fn
	prod := (tp + fp) * (tp + fn) * (tn + fp) * (tn + fn)
	if prod == 0 {
		return num
	}
	return num / math.Sqrt(prod)
}

// PrecisionAt returns |found[:k] ∩ truth| / k, or 0 for empty found or k <= 0.
func PrecisionAt(found []graph.Ref, truth map[graph.Ref]struct{}, k int) float64 {
	if len(found) == 0 || k <= 0 {
		return 0
	}
	n := min(k, len(found))
	hits := 0
	for _, ref := range found[:n] {
		if _, ok := truth[ref]; ok {
			hits++
		}
	}
	return float64(hits) / float64(k)
}

// SuccessAt is 1 when any of the first k suggestions is correct.
func SuccessAt(found []graph.Ref, truth map[graph.Ref]struct{}, k int) float64 {
	if PrecisionAt(found, truth, k) > 0 {
		return 1
	}
	return 0
}

// ReciprocalRank returns 1 / rank of the first correct suggestion, or 0.
func ReciprocalRank(found []graph.Ref, truth map[graph.Ref]struct{}) float64 {
	for i, ref := range found {
		if _, ok := truth[ref]; ok {
			return 1 / float64(i+1)
		}
	}
	return 0
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
