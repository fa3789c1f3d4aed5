// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package evaluation

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/sage/internal/graph"
	"github.com/tomtom215/sage/internal/logging"
	"github.com/tomtom215/sage/internal/metrics"
	"github.com/tomtom215/sage/internal/suggest"
)

// ErrInvalidFraction is returned when a training fraction is outside [0, 1].
var ErrInvalidFraction = errors.New("training fraction must be within [0, 1]")

// Defaults used when Options leaves a field empty.
const (
	DefaultFraction = 0.4
	DefaultTrials   = 30
)

// DefaultAlgorithms are compared when Options.Algorithms is empty.
var DefaultAlgorithms = []string{string(suggest.KindVotePlus), string(suggest.KindSAGARefined)}

// Metric keys, in report order.
const (
	MetricPrecision  = "precision"
	MetricRecall     = "recall"
	MetricF05        = "f05"
	MetricF1         = "f1"
	MetricF2         = "f2"
	MetricPhi        = "phi"
	MetricPrecision5 = "precision5"
	MetricSuccess1   = "success1"
	MetricSuccess5   = "success5"
	MetricMRR        = "mrr"
)

// MetricKeys lists every metric recorded per algorithm.
var MetricKeys = []string{
	MetricPrecision, MetricRecall, MetricF05, MetricF1, MetricF2,
	MetricPhi, MetricPrecision5, MetricSuccess1, MetricSuccess5, MetricMRR,
}

var metricNames = map[string]string{
	MetricPrecision:  "Precision",
	MetricRecall:     "Recall",
	MetricF05:        "F-0.5",
	MetricF1:         "F-1.0",
	MetricF2:         "F-2.0",
	MetricPhi:        "Phi Coefficient",
	MetricPrecision5: "Precision@5",
	MetricSuccess1:   "Success@1",
	MetricSuccess5:   "Success@5",
	MetricMRR:        "MRR",
}

// Options configures a Harness.
type Options struct {
	// Algorithms are registry names, matched case-insensitively. Unknown
	// names resolve to the default algorithm; duplicates run once.
	Algorithms []string

	// Domain is the kind of held-out item. Suggestions are the opposite kind.
	Domain graph.Kind

	// Seed drives edge and domain shuffling.
	Seed int64

	Suggest suggest.Config
}

// Harness measures suggestion quality by hiding part of a container's
// annotations and asking each algorithm to recover them.
type Harness struct {
	store  graph.Store
	engine *suggest.Engine
	opts   Options
	kinds  []suggest.Kind
	logger zerolog.Logger
}

// NewHarness creates a harness over store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHarness(store graph.Store, opts Options, logger zerolog.Logger) (*Harness, error) {
	if len(opts.Algorithms) == 0 {
		opts.Algorithms = DefaultAlgorithms
	}
	if !opts.Domain.Valid() {
		opts.Domain = graph.KindObject
	}
	if opts.Seed == 0 {
		opts.Seed = suggest.DefaultSeed
	}

	engine, err := suggest.NewEngine(store, opts.Suggest, logger)
	if err != nil {
		return nil, fmt.Errorf("create suggestion engine: %w", err)
	}
	log := logger.With().Str("component", "evaluation").Logger()
	return &Harness{
		store:  store,
		engine: engine,
		opts:   opts,
		kinds:  resolveKinds(opts.Algorithms, log),
		logger: log,
	}, nil
}

// resolveKinds maps names onto registry keys in order, dropping repeats.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func resolveKinds(names []string, logger zerolog.Logger) []suggest.Kind {
	seen := make(map[suggest.Kind]struct{}, len(names))
	kinds := make([]suggest.Kind, 0, len(names))
	for _, name := range names {
		kind, err := suggest.Lookup(name)
		if err != nil {
			kind = suggest.DefaultKind
			logger.Warn().Str("algorithm", name).Str("using", string(kind)).Msg("Unknown algorithm")
		}
		if _, dup := seen[kind]; dup {
			continue
		}
		seen[kind] = struct{}{}
		kinds = append(kinds, kind)
	}
	return kinds
}

// Evaluate clones the container, keeps fraction of its edges, and scores
// every algorithm on up to trials held-out items (all items when trials <= 0).
// The clone is always deleted; a cleanup failure is joined with any run error.
// A run ID already on ctx is kept, otherwise a new one is assigned.
func (h *Harness) Evaluate(ctx context.Context, containerID int64, fraction float64, trials int) (report *Report, err error) {
	start := time.Now()
	ctx = logging.ContextWithLogger(ctx, h.logger)
	if logging.RunIDFromContext(ctx) == "" {
		ctx = logging.ContextWithNewRunID(ctx)
	}
	log := logging.Ctx(ctx)
	defer func() {
		metrics.RecordEvaluationRun(time.Since(start), err)
	}()

	if err := validateFraction(fraction); err != nil {
		return nil, err
	}
	source, err := h.store.Container(ctx, containerID)
	if err != nil {
		return nil, fmt.Errorf("evaluate container %d: %w", containerID, err)
	}

	clone, err := h.store.CloneContainer(ctx, containerID)
	if err != nil {
		return nil, fmt.Errorf("clone container %d: %w", containerID, err)
	}
	log.Debug().Int64("container_id", containerID).Int64("clone_id", clone.ID).Msg("Cloned container for evaluation")
	defer func() {
		if derr := h.store.DeleteContainer(context.WithoutCancel(ctx), clone.ID); derr != nil {
			err = errors.Join(err, fmt.Errorf("delete evaluation clone %d: %w", clone.ID, derr))
		}
	}()

	report, err = h.run(ctx, clone.ID, fraction, trials)
	if err != nil {
		return nil, err
	}
	report.RunID = logging.RunIDFromContext(ctx)
	report.ContainerID = source.ID
	report.ContainerName = source.Name
	report.Duration = time.Since(start)
	report.Finished = time.Now().UTC()

	container := strconv.FormatInt(source.ID, 10)
	for _, alg := range report.Algorithms {
		for key, m := range report.Results[alg] {
			metrics.SetEvaluationMean(container, alg, key, m.Mean())
		}
	}
	log.Info().
		Int64("container_id", source.ID).
		Int("items", report.Items).
		Int("removed_edges", report.RemovedEdges).
		Dur("duration", report.Duration).
		Msg("Evaluation complete")
	return report, nil
}

func (h *Harness) run(ctx context.Context, cloneID int64, fraction float64, trials int) (*Report, error) {
	rng := rand.New(rand.NewSource(h.opts.Seed)) //nolint:gosec // reproducible experiment, not security

	full, err := graph.Load(ctx, h.store, cloneID)
	if err != nil {
		return nil, fmt.Errorf("load clone: %w", err)
	}

	domain := append([]graph.Ref(nil), full.Items(h.opts.Domain)...)
	rng.Shuffle(len(domain), func(i, j int) { domain[i], domain[j] = domain[j], domain[i] })
	if trials > 0 && trials < len(domain) {
		domain = domain[:trials]
	}
	universe := full.Count(h.opts.Domain.Opposite())

	truth := make(map[graph.Ref]map[graph.Ref]struct{}, len(domain))
	for _, item := range domain {
		truth[item] = full.Related(item)
	}

	removed, err := Partition(ctx, h.store, cloneID, fraction, rng)
	if err != nil {
		return nil, err
	}
	training, err := graph.Load(ctx, h.store, cloneID)
	if err != nil {
		return nil, fmt.Errorf("load training graph: %w", err)
	}

	report := newReport(h.kinds, fraction, trials)
	report.Items = len(domain)
	report.RemovedEdges = len(removed)

	for _, item := range domain {
		for _, kind := range h.kinds {
			res, err := h.engine.SuggestWith(ctx, kind, training, item)
			if err != nil {
				return nil, fmt.Errorf("%s on %s: %w", kind, item, err)
			}
			record(report.Results[string(kind)], res.Refs(), truth[item], universe)
			metrics.RecordEvaluationTrial(string(kind))
		}
	}
	return report, nil
}

// record appends one item's scores to an algorithm's measurements.
func record(ms map[string]*Measurement, found []graph.Ref, truth map[graph.Ref]struct{}, universe int) {
	c := Classify(found, truth, universe)
	p, r := Precision(c), Recall(c)

	ms[MetricPrecision].Append(p)
	ms[MetricRecall].Append(r)
	ms[MetricF05].Append(FBeta(p, r, 0.5))
	ms[MetricF1].Append(FBeta(p, r, 1.0))
	ms[MetricF2].Append(FBeta(p, r, 2.0))
	ms[MetricPhi].Append(Phi(c))
	ms[MetricPrecision5].Append(PrecisionAt(found, truth, 5))
	ms[MetricSuccess1].Append(SuccessAt(found, truth, 1))
	ms[MetricSuccess5].Append(SuccessAt(found, truth, 5))
	ms[MetricMRR].Append(ReciprocalRank(found, truth))
}
