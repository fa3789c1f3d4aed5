// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tomtom215/sage/internal/graph"
	"github.com/tomtom215/sage/internal/suggest"
	"github.com/tomtom215/sage/internal/validation"
)

// suggestRequest holds the suggest command flags.
type suggestRequest struct {
	ContainerID int64  `validate:"gt=0"`
	Item        string `validate:"required_without=Text,excluded_with=Text"`
	Text        string `validate:"max=4096"`
	Algorithm   string `validate:"omitempty,algorithm"`
	Limit       int    `validate:"gte=1,lte=1000"`
}

func newSuggestCmd(a *app) *cobra.Command {
	req := suggestRequest{}

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Rank suggestions for an item or a free-text description",
		Example: `  sage suggest --container 3 --item concept:12 --algorithm VotePlus
  sage suggest --container 3 --text "red sports car"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if verr := validation.ValidateStruct(&req); verr != nil {
				return verr
			}
			ctx := cmd.Context()

			store, closeStore, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			engine, err := suggest.NewEngine(store, a.cfg.Suggest.Engine(), a.logger)
			if err != nil {
				return err
			}
			container, err := store.Container(ctx, req.ContainerID)
			if err != nil {
				return fmt.Errorf("container %d: %w", req.ContainerID, err)
			}
			g, err := graph.Load(ctx, store, req.ContainerID)
			if err != nil {
				return err
			}

			var (
				kind suggest.Kind
				res  suggest.Result
			)
			if req.Text != "" {
				kind = suggest.KindSAGA
				res, err = engine.SuggestTextWith(ctx, g, req.Text)
			} else {
				ref, perr := graph.ParseRef(req.Item)
				if perr != nil {
					return perr
				}
				if !g.Contains(ref) {
					return fmt.Errorf("%s: %w", ref, graph.ErrNotFound)
				}
				kind = engine.ResolveFor(container, req.Algorithm)
				res, err = engine.SuggestWith(ctx, kind, g, ref)
			}
			if err != nil {
				return err
			}

			return writeSuggestions(cmd.OutOrStdout(), g, kind, res.Top(req.Limit))
		},
	}

	f := cmd.Flags()
	f.Int64Var(&req.ContainerID, "container", 0, "container ID")
	f.StringVar(&req.Item, "item", "", "item reference, e.g. concept:12 or object:7")
	f.StringVar(&req.Text, "text", "", "free-text concept description")
	f.StringVarP(&req.Algorithm, "algorithm", "a", "", "algorithm (default: container preference, then suggest.default_algorithm)")
	f.IntVarP(&req.Limit, "limit", "n", suggest.DefaultTopM, "number of suggestions")
	_ = cmd.MarkFlagRequired("container")
	return cmd
}

func writeSuggestions(w io.Writer, g *graph.Graph, kind suggest.Kind, res suggest.Result) error {
	if len(res) == 0 {
		_, err := fmt.Fprintf(w, "%s: no suggestions\n", kind)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\n", kind)
	fmt.Fprintln(tw, "RANK\tSCORE\tITEM\tLABEL")
	for i, s := range res {
		fmt.Fprintf(tw, "%d\t%.4f\t%s\t%s\n", i+1, s.Score, s.Ref, g.Label(s.Ref))
	}
	return tw.Flush()
}
