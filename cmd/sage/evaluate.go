// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tomtom215/sage/internal/evaluation"
	"github.com/tomtom215/sage/internal/graph"
	"github.com/tomtom215/sage/internal/logging"
	"github.com/tomtom215/sage/internal/validation"
)

// evaluateRequest merges the evaluate flags over the evaluation config.
type evaluateRequest struct {
	ContainerID int64    `validate:"gt=0"`
	Fraction    float64  `validate:"gte=0,lte=1"`
	Trials      int      `validate:"gte=0"`
	Algorithms  []string `validate:"dive,algorithm"`
	Domain      string   `validate:"itemkind"`
	Seed        int64
	Format      string `validate:"oneof=text csv json"`
	Output      string
}

func newEvaluateCmd(a *app) *cobra.Command {
	req := evaluateRequest{}

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Hide part of a container's annotations and score how well each algorithm recovers them",
		Long: `evaluate clones the container, keeps --fraction of its annotations and asks
every algorithm to suggest the hidden ones for up to --trials items. The clone
is deleted afterwards. Unset flags fall back to the evaluation config section.`,
		Example: `  sage evaluate --container 3
  sage evaluate --container 3 --algorithms SAGA,VotePlus,Sum --trials 0 --format csv -o results.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ec := a.cfg.Evaluation
			flags := cmd.Flags()
			if !flags.Changed("fraction") {
				req.Fraction = ec.TrainFraction
			}
			if !flags.Changed("trials") {
				req.Trials = ec.Trials
			}
			if !flags.Changed("algorithms") {
				req.Algorithms = ec.Algorithms
			}
			if !flags.Changed("domain") {
				req.Domain = ec.Domain
			}
			if !flags.Changed("seed") {
				req.Seed = ec.Seed
			}
			if verr := validation.ValidateStruct(&req); verr != nil {
				return verr
			}
			domain, err := graph.ParseKind(req.Domain)
			if err != nil {
				return err
			}

			store, closeStore, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			harness, err := evaluation.NewHarness(store, evaluation.Options{
				Algorithms: req.Algorithms,
				Domain:     domain,
				Seed:       req.Seed,
				Suggest:    a.cfg.Suggest.Engine(),
			}, a.logger)
			if err != nil {
				return err
			}

			ctx := logging.ContextWithNewRunID(cmd.Context())
			report, err := harness.Evaluate(ctx, req.ContainerID, req.Fraction, req.Trials)
			if err != nil {
				return fmt.Errorf("evaluate container %d: %w", req.ContainerID, err)
			}

			return writeOutput(cmd, req.Output, func(w io.Writer) error {
				return writeReport(w, report, req.Format)
			})
		},
	}

	f := cmd.Flags()
	f.Int64Var(&req.ContainerID, "container", 0, "container ID")
	f.Float64Var(&req.Fraction, "fraction", evaluation.DefaultFraction, "fraction of annotations kept for training")
	f.IntVar(&req.Trials, "trials", evaluation.DefaultTrials, "held-out items to score (0 = all)")
	f.StringSliceVar(&req.Algorithms, "algorithms", evaluation.DefaultAlgorithms, "algorithms to compare")
	f.StringVar(&req.Domain, "domain", "object", "kind of held-out item: concept or object")
	f.Int64Var(&req.Seed, "seed", 0, "shuffle seed")
	f.StringVarP(&req.Format, "format", "f", "text", "report format: text, csv or json")
	f.StringVarP(&req.Output, "output", "o", "", "output file (default stdout)")
	_ = cmd.MarkFlagRequired("container")
	return cmd
}

func writeReport(w io.Writer, r *evaluation.Report, format string) error {
	switch format {
	case "csv":
		return r.WriteCSV(w)
	case "json":
		return r.WriteJSON(w)
	default:
		return r.WriteText(w)
	}
}
