// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomtom215/sage/internal/dataset"
	"github.com/tomtom215/sage/internal/graph"
)

func newImportCmd(a *app) *cobra.Command {
	var flatten bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a JSON dataset as a new container (- reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			in, closeIn, err := openInput(cmd, args[0])
			if err != nil {
				return err
			}
			defer closeIn()

			store, closeStore, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			stats, err := dataset.NewImporter(store, a.logger).Import(ctx, in)
			if err != nil {
				return fmt.Errorf("import %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported container %d: %d concepts, %d objects, %d annotations (%d skipped)\n",
				stats.ContainerID, stats.Concepts, stats.Objects, stats.Annotations, stats.Skipped)
			for _, role := range graph.AccessRoles {
				fmt.Fprintf(out, "  %s key: %s\n", role, stats.AccessKeys[role])
			}

			if flatten {
				res, err := graph.FlattenDuplicates(ctx, store, stats.ContainerID)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Flattened %d duplicate concepts and %d duplicate objects\n", res.Concepts, res.Objects)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&flatten, "flatten", false, "fold duplicate concepts and objects after import")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var (
		containerID int64
		output      string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a container as a JSON dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, closeStore, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			var stats *dataset.Stats
			err = writeOutput(cmd, output, func(w io.Writer) error {
				var werr error
				stats, werr = dataset.Export(cmd.Context(), store, containerID, w)
				return werr
			})
			if err != nil {
				return fmt.Errorf("export container %d: %w", containerID, err)
			}
			a.logger.Info().
				Int64("container_id", containerID).
				Int("concepts", stats.Concepts).
				Int("objects", stats.Objects).
				Int("annotations", stats.Annotations).
				Msg("Container exported")
			return nil
		},
	}
	cmd.Flags().Int64Var(&containerID, "container", 0, "container ID")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	_ = cmd.MarkFlagRequired("container")
	return cmd
}

// writeOutput runs write against path, or the command's stdout for "" and "-".
// A file that fails to close is reported as an error.
func writeOutput(cmd *cobra.Command, path string, write func(io.Writer) error) (err error) {
	if path == "" || path == "-" {
		return write(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return write(f)
}

// openInput opens path for reading; "-" is the command's stdin.
func openInput(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}
