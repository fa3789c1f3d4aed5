// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package evaluation

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Measurement is an appendable series of observations for one metric.
// Statistics are exact; rounding happens only in Terminal and CSV.
type Measurement struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// NewMeasurement creates an empty measurement.
func NewMeasurement(name string, values ...float64) *Measurement {
	return &Measurement{Name: name, Values: append([]float64(nil), values...)}
}

// Append adds one observation.
func (m *Measurement) Append(v float64) { m.Values = append(m.Values, v) }

// Count returns the number of observations.
func (m *Measurement) Count() int { return len(m.Values) }

// Min returns the smallest observation, or 0 when empty.
func (m *Measurement) Min() float64 {
	if len(m.Values) == 0 {
		return 0
	}
	return floats.Min(m.Values)
}

// Max returns the largest observation, or 0 when empty.
func (m *Measurement) Max() float64 {
	if len(m.Values) == 0 {
		return 0
	}
	return floats.Max(m.Values)
}

// Mean returns the arithmetic mean, or 0 when empty.
func (m *Measurement) Mean() float64 {
	if len(m.Values) == 0 {
		return 0
	}
	return stat.Mean(m.Values, nil)
}

// Variance returns the population variance, or 0 when empty.
func (m *Measurement) Variance() float64 {
	if len(m.Values) == 0 {
		return 0
	}
	_, v := stat.PopMeanVariance(m.Values, nil)
	return v
}

// StdDev returns the population standard deviation.
func (m *Measurement) StdDev() float64 {
	return math.Sqrt(m.Variance())
}

// Terminal renders "Name: N items, averaging mean (min-max, σ: sd)".
func (m *Measurement) Terminal() string {
	return fmt.Sprintf("%s: %d items, averaging %.2f (%.2f-%.2f, σ: %.2f)",
		m.Name, m.Count(), m.Mean(), m.Min(), m.Max(), m.StdDev())
}

// CSV renders "Name,count,mean,min,max,std_dev".
func (m *Measurement) CSV() string {
	return fmt.Sprintf("%s,%d,%.2f,%.2f,%.2f,%.2f",
		m.Name, m.Count(), m.Mean(), m.Min(), m.Max(), m.StdDev())
}

// CSVHeader is the header row matching CSV.
const CSVHeader = "name,count,mean,min,max,std_dev"
