package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "salon-analytics",
		Short: "Salon business analytics service",
		RunE:  run,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the analytics HTTP API",
		RunE:  run,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the salon-analytics version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}

	cfgFile string
	version = "dev"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to configuration file (optional)")
	rootCmd.AddCommand(serveCmd, versionCmd, computeCmd(), exportCmd(), importCmd())
	if err := rootCmd.Execute(); err != nil {
		slog.Default().Error("salon-analytics failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
}
