package main

import (
	"fmt"

	"github.com/jekabolt/salon-analytics/app"
	"github.com/jekabolt/salon-analytics/internal/store"
	"github.com/spf13/cobra"
)

func importCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a JSON snapshot into the configured mysql or bunt source",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			// The snapshot is imported explicitly below, not seeded on open.
			cfg.Source.Path = ""

			ctx := cmd.Context()
			rt, err := app.Build(ctx, cfg)
			if err != nil {
				return err
			}
			defer rt.Close()

			if rt.Importer == nil {
				return fmt.Errorf("source %q is read-only", cfg.Source.Kind)
			}
			return app.Seed(ctx, store.NewFile(file), rt.Importer)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "JSON snapshot to import")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
