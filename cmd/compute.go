package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/jekabolt/salon-analytics/app"
	"github.com/jekabolt/salon-analytics/config"
	"github.com/jekabolt/salon-analytics/internal/entity"
	"github.com/jekabolt/salon-analytics/internal/form"
	"github.com/spf13/cobra"
)

var queryFlags = []string{"from", "to", "preset", "location", "granularity", "sort", "order"}

func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().String("from", "", "range start, YYYY-MM-DD or RFC3339")
	cmd.Flags().String("to", "", "range end, YYYY-MM-DD or RFC3339")
	cmd.Flags().String("preset", "", "last_week, last_month, current_week or current_month")
	cmd.Flags().String("location", "", "business id, empty for all locations")
	cmd.Flags().String("granularity", "", "daily, weekly or monthly")
	cmd.Flags().String("sort", "", "staff sort field")
	cmd.Flags().String("order", "", "asc or desc")
}

// computeDashboard builds the runtime and computes the dashboard for the
// query flags of cmd.
func computeDashboard(cmd *cobra.Command, cfg *config.Config) (*entity.Dashboard, error) {
	q := url.Values{}
	for _, name := range queryFlags {
		v, err := cmd.Flags().GetString(name)
		if err != nil {
			return nil, err
		}
		q.Set(name, v)
	}

	now := time.Now().Truncate(time.Minute)
	f, opts, err := form.ParseDashboardQuery(q).Resolve(now, cfg.Analytics.Location(), cfg.Analytics.WeekStartDay(), cfg.Analytics.RangeLimit())
	if err != nil {
		if v := form.Violations(err); len(v) > 0 {
			return nil, fmt.Errorf("invalid query: %v", v)
		}
		return nil, err
	}
	opts.Now = now

	ctx := cmd.Context()
	rt, err := app.Build(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer rt.Close()

	return rt.Engine.Compute(ctx, f, opts)
}

func computeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute the dashboard once and print it as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			d, err := computeDashboard(cmd, cfg)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(d)
		},
	}
	addQueryFlags(cmd)
	return cmd
}
