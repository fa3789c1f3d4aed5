// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package evaluation

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/sage/internal/suggest"
)

// Report holds the measurements of one evaluation run.
type Report struct {
	RunID         string        `json:"run_id"`
	ContainerID   int64         `json:"container_id"`
	ContainerName string        `json:"container_name"`
	Fraction      float64       `json:"fraction"`
	Trials        int           `json:"trials"`
	Items         int           `json:"items"`
	RemovedEdges  int           `json:"removed_edges"`
	Duration      time.Duration `json:"duration_ns"`
	Finished      time.Time     `json:"finished"`

	// Algorithms holds registry keys in the requested order.
	Algorithms []string `json:"algorithms"`

	// Results is keyed by registry key, then metric key.
	Results map[string]map[string]*Measurement `json:"results"`
}

func newReport(kinds []suggest.Kind, fraction float64, trials int) *Report {
	r := &Report{
		Fraction: fraction,
		Trials:   trials,
		Results:  make(map[string]map[string]*Measurement, len(kinds)),
	}
	for _, kind := range kinds {
		name := string(kind)
		if _, dup := r.Results[name]; dup {
			continue
		}
		r.Algorithms = append(r.Algorithms, name)
		ms := make(map[string]*Measurement, len(MetricKeys))
		for _, key := range MetricKeys {
			ms[key] = NewMeasurement(metricNames[key])
		}
		r.Results[name] = ms
	}
	return r
}

// Measurement returns one algorithm's measurement for a metric key, or nil.
func (r *Report) Measurement(algorithm, metric string) *Measurement {
	return r.Results[algorithm][metric]
}

// WriteText renders the report in the terminal layout.
func (r *Report) WriteText(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Performance test on %d - %s\n", r.ContainerID, r.ContainerName)
	fmt.Fprintf(&b, "Settings: %d tests @ %v training proportion.\n", r.Trials, r.Fraction)
	for _, alg := range r.Algorithms {
		fmt.Fprintf(&b, "\n%s:\n", alg)
		for _, key := range MetricKeys {
			b.WriteString(r.Results[alg][key].Terminal())
			b.WriteByte('\n')
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteCSV renders one row per algorithm and metric.
func (r *Report) WriteCSV(w io.Writer) error {
	var b strings.Builder
	b.WriteString("algorithm," + CSVHeader + "\n")
	for _, alg := range r.Algorithms {
		for _, key := range MetricKeys {
			b.WriteString(alg)
			b.WriteByte(',')
			b.WriteString(r.Results[alg][key].CSV())
			b.WriteByte('\n')
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteJSON encodes the report with indentation.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// Summary returns the mean of every metric keyed by algorithm then metric.
func (r *Report) Summary() map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(r.Results))
	for alg, ms := range r.Results {
		means := make(map[string]float64, len(ms))
		for key, m := range ms {
			means[key] = m.Mean()
		}
		out[alg] = means
	}
	return out
}
