package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"cell-monitor/internal/registry"
)

func NewExportCommand() *cobra.Command {
	var (
		chemistries []string
		currents    []string
		outPath     string
		format      string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Build cells from flags and write them as CSV or text",
		Example: `  cellmon export --chem lfp,nmc --current 2,1.5 --out battery_cell_data.csv
  cellmon export --chem nmc --format text`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(chemistries) == 0 {
				return fmt.Errorf("at least one --chem is required")
			}
			if len(currents) > len(chemistries) {
				return fmt.Errorf("got %d currents for %d cells", len(currents), len(chemistries))
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Cells.MaxCount > 0 && len(chemistries) > cfg.Cells.MaxCount {
				return fmt.Errorf("at most %d cells are allowed, got %d", cfg.Cells.MaxCount, len(chemistries))
			}

			reg := registry.New(cfg.RegistryOptions()...)
			reg.Declare(len(chemistries))
			if err := reg.SetChemistries(chemistries); err != nil {
				return err
			}
			reg.Materialize()

			ids := reg.IDs()
			for i, raw := range currents {
				if err := reg.SetCurrentText(ids[i], raw); err != nil {
					logrus.WithField("cell", ids[i]).Warn("invalid current, setting it to 0")
				}
			}

			switch format {
			case "csv":
				if outPath == "" {
					return registry.WriteCSV(cmd.OutOrStdout(), reg.Rows())
				}
				if err := registry.WriteCSVFile(outPath, reg.Rows()); err != nil {
					return err
				}
				logrus.WithFields(logrus.Fields{"path": outPath, "cells": reg.Len()}).Info("wrote cell table")
				return nil
			case "text":
				return registry.WriteText(cmd.OutOrStdout(), reg.Rows())
			default:
				return fmt.Errorf("unknown format %q (want csv or text)", format)
			}
		},
	}

	cmd.Flags().StringSliceVar(&chemistries, "chem", nil, "chemistry per cell, in order (lfp, nmc)")
	cmd.Flags().StringSliceVar(&currents, "current", nil, "current per cell in amperes, in order")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (csv only; stdout when empty)")
	cmd.Flags().StringVar(&format, "format", "csv", "output format: csv or text")

	return cmd
}
