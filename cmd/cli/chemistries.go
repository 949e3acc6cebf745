package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cell-monitor/internal/model"
)

func NewChemistriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "chemistries",
		Short: "List the supported cell chemistries and their voltages",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-6s %8s %8s %8s\n", "TYPE", "NOMINAL", "MIN", "MAX")
			for _, c := range model.Chemistries() {
				b := c.Bounds()
				fmt.Fprintf(out, "%-6s %7.1fV %7.1fV %7.1fV\n", c, b.Nominal, b.Min, b.Max)
			}
		},
	}
}
