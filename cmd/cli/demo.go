package main

import (
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/spf13/cobra"

	"cell-monitor/internal/console"
	"cell-monitor/internal/model"
	"cell-monitor/internal/registry"
)

// Demo:
// - Declare a handful of cells with random chemistries
// - Feed random currents through the text path
// - Print the dump and the status table to show how the pieces fit together
func NewDemoCommand() *cobra.Command {
	var (
		n    int
		seed uint64
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Simulate a few cells with random chemistries and currents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if n < 1 {
				return fmt.Errorf("--cells must be at least 1")
			}
			rng := rand.New(rand.NewPCG(seed, seed))
			chems := model.Chemistries()

			labels := make([]string, n)
			for i := range labels {
				labels[i] = chems[rng.IntN(len(chems))].String()
			}

			reg := registry.New(registry.WithSampler(rng))
			reg.Declare(n)
			if err := reg.SetChemistries(labels); err != nil {
				return err
			}
			reg.Materialize()
			for _, id := range reg.IDs() {
				current := model.Round(rng.Float64()*5, 1)
				if err := reg.SetCurrentText(id, strconv.FormatFloat(current, 'f', -1, 64)); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "--- Updated Cell Data ---")
			if err := registry.WriteText(out, reg.Rows()); err != nil {
				return err
			}
			fmt.Fprintln(out)
			for row := range reg.Rows() {
				fmt.Fprintf(out, "%-16s %s\n", row.ID, console.StatusText(row.Status))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&n, "cells", "n", 4, "number of cells to simulate")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "random seed")

	return cmd
}
