// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package main

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/sage/internal/analytics"
)

func newStatsCmd(a *app) *cobra.Command {
	var (
		containerID int64
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print statistics, complexity, productivity and acceptance of a container",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, closeStore, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			report, err := analytics.Analyze(cmd.Context(), store, containerID)
			if err != nil {
				return fmt.Errorf("analyze container %d: %w", containerID, err)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			return report.WriteText(cmd.OutOrStdout())
		},
	}
	cmd.Flags().Int64Var(&containerID, "container", 0, "container ID")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	_ = cmd.MarkFlagRequired("container")
	return cmd
}
