package main

import (
	"github.com/spf13/cobra"

	"cell-monitor/internal/console"
	"cell-monitor/internal/registry"
)

func NewPromptCommand() *cobra.Command {
	var showStatus bool
	var csvPath string

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Enter cells interactively and print the resulting cell data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			reg := registry.New(cfg.RegistryOptions()...)
			s := &console.Session{
				Registry:   reg,
				In:         cmd.InOrStdin(),
				Out:        cmd.OutOrStdout(),
				MaxCells:   cfg.Cells.MaxCount,
				ShowStatus: showStatus,
			}
			if err := s.Run(); err != nil {
				return err
			}

			if csvPath != "" {
				return registry.WriteCSVFile(csvPath, reg.Rows())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showStatus, "status", false, "print a status table and summary after the cell data")
	cmd.Flags().StringVar(&csvPath, "csv", "", "also write the table to this CSV file")

	return cmd
}
