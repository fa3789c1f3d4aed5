// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package suggest

import "fmt"

// Default tuning values.
const (
	DefaultHops      = 3
	DefaultThreshold = 1.0
	DefaultTopM      = 10
	DefaultSeed      = 42
)

// Config tunes every algorithm built by New.
type Config struct {
	// Default is the algorithm used when neither the request nor the
	// container names one.
	Default string `json:"default_algorithm"`

	// Hops is the SAGA hop budget. It must be odd so propagation ends on
	// the side opposite the item; zero takes the default.
	Hops int `json:"hops"`

	// Threshold is the SAGA cutoff score.
	Threshold float64 `json:"threshold"`

	// Seed drives the Shuffle baseline.
	Seed int64 `json:"seed"`

	// Rank family constants, one set per variant.
	Vote     RankParams `json:"vote"`
	VotePlus RankParams `json:"vote_plus"`
	Sum      RankParams `json:"sum"`
	SumPlus  RankParams `json:"sum_plus"`
}

// RankParams holds the co-occurrence list size and promotion constants.
// Promote is false for the plain variants, which ignore KS, KD and KR.
type RankParams struct {
	M       int     `json:"m"`
	KS      float64 `json:"ks"`
	KD      float64 `json:"kd"`
	KR      float64 `json:"kr"`
	Promote bool    `json:"promote"`
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	return Config{
		Default:   string(DefaultKind),
		Hops:      DefaultHops,
		Threshold: DefaultThreshold,
		Seed:      DefaultSeed,
		Vote:      RankParams{M: DefaultTopM},
		VotePlus:  RankParams{M: 25, KS: 9, KD: 11, KR: 4, Promote: true},
		Sum:       RankParams{M: DefaultTopM},
		SumPlus:   RankParams{M: 25, KS: 10, KD: 12, KR: 3, Promote: true},
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Default == "" {
		c.Default = d.Default
	}
	if c.Hops <= 0 {
		c.Hops = d.Hops
	}
	if c.Threshold <= 0 {
		c.Threshold = d.Threshold
	}
	if c.Seed == 0 {
		c.Seed = d.Seed
	}
	c.Vote = c.Vote.orDefault(d.Vote)
	c.VotePlus = c.VotePlus.orDefault(d.VotePlus)
	c.Sum = c.Sum.orDefault(d.Sum)
	c.SumPlus = c.SumPlus.orDefault(d.SumPlus)
	return c
}

func (p RankParams) orDefault(d RankParams) RankParams {
	if p == (RankParams{}) {
		return d
	}
	if p.M <= 0 {
		p.M = d.M
	}
	return p
}

// Validate checks the constants.
func (c Config) Validate() error {
	if c.Default != "" {
		if _, err := Lookup(c.Default); err != nil {
			return err
		}
	}
	if c.Hops < 0 {
		return fmt.Errorf("hops must be non-negative, got %d", c.Hops)
	}
	if c.Hops > 0 && c.Hops%2 == 0 {
		return fmt.Errorf("hops must be odd, got %d", c.Hops)
	}
	if c.Threshold < 0 {
		return fmt.Errorf("threshold must be non-negative, got %f", c.Threshold)
	}
	for name, p := range map[string]RankParams{"vote": c.Vote, "vote_plus": c.VotePlus, "sum": c.Sum, "sum_plus": c.SumPlus} {
		if p.M < 0 {
			return fmt.Errorf("%s.m must be non-negative, got %d", name, p.M)
		}
		if p.Promote && (p.KS <= 0 || p.KD <= 0 || p.KR <= 0) {
			return fmt.Errorf("%s promotion constants must be positive", name)
		}
	}
	return nil
}
