// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

// Package validation provides struct validation using go-playground/validator v10.
//
// It wraps the library in a thread-safe singleton (struct reflection is cached
// after the first call) and translates field errors into readable messages.
// Configuration sections and dataset records are validated through it.
//
// # Custom Tags
//
//   - algorithm: value must resolve through suggest.Lookup ("SAGA", "votePlus", "Baseline")
//   - itemkind: value must parse with graph.ParseKind ("concept", "objects")
//
// # Example
//
//	type EvaluationConfig struct {
//	    TrainFraction float64  `validate:"gte=0,lte=1"`
//	    Algorithms    []string `validate:"dive,algorithm"`
//	    Domain        string   `validate:"omitempty,itemkind"`
//	}
//
//	if verr := validation.ValidateStruct(&cfg); verr != nil {
//	    for _, e := range verr.Errors() {
//	        fmt.Println(e.Field(), e.Tag(), e.Error())
//	    }
//	}
//
// Field names in errors are namespaced ("Config.Evaluation.TrainFraction").
//
// # Error Message Translation
//
//	required   -> "Config.Database.Path is required"
//	gte=0      -> "...TrainFraction must be greater than or equal to 0"
//	oneof=a b  -> "...Driver must be one of: a b"
//	min=1      -> "...Trials must be at least 1"
//	algorithm  -> "...Algorithms[0] must name a registered suggestion algorithm"
package validation
