// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package suggest

import (
	"errors"
	"testing"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Kind
		wantErr bool
	}{
		{"exact key", "VotePlus", KindVotePlus, false},
		{"case insensitive", "saga-refined", KindSAGARefined, false},
		{"surrounding space", " Sum ", KindSum, false},
		{"baseline alias", "Baseline", KindAll, false},
		{"unknown", "PageRank", "", true},
		{"empty", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lookup(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownAlgorithm) {
					t.Errorf("Lookup(%q) error = %v, want ErrUnknownAlgorithm", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Lookup(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Lookup(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolve_FallsBackToDefault(t *testing.T) {
	if got := Resolve("does-not-exist"); got != DefaultKind {
		t.Errorf("Resolve(unknown) = %q, want %q", got, DefaultKind)
	}
	if got := Resolve("Annotated"); got != KindAnnotated {
		t.Errorf("Resolve(Annotated) = %q, want %q", got, KindAnnotated)
	}
}

func TestNew_NamesMatchKinds(t *testing.T) {
	for _, k := range Kinds() {
		alg := New(k, Config{})
		if alg.Name() != string(k) {
			t.Errorf("New(%q).Name() = %q", k, alg.Name())
		}
	}
	if got := New(Kind("bogus"), Config{}).Name(); got != string(DefaultKind) {
		t.Errorf("New(bogus).Name() = %q, want %q", got, DefaultKind)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", DefaultConfig(), false},
		{"unknown default algorithm", Config{Default: "nope"}, true},
		{"negative hops", Config{Hops: -1}, true},
		{"even hops", Config{Hops: 2}, true},
		{"odd hops", Config{Hops: 5}, false},
		{"zero hops takes the default", Config{Hops: 0}, false},
		{"promotion without constants", Config{VotePlus: RankParams{M: 5, Promote: true}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
