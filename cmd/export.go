package main

import (
	"fmt"
	"os"

	"github.com/jekabolt/salon-analytics/internal/export"
	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Compute the dashboard once and write it as CSV or XLSX",
		RunE: func(cmd *cobra.Command, args []string) error {
			ef, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			d, err := computeDashboard(cmd, cfg)
			if err != nil {
				return err
			}
			if out == "" {
				out = ef.Filename(d)
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("can't create %s: %w", out, err)
			}
			if err := export.Write(f, ef, d); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("can't close %s: %w", out, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "csv or xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, defaults to a name derived from the range")
	addQueryFlags(cmd)
	return cmd
}
