package dependency

import (
	"context"

	"github.com/jekabolt/salon-analytics/internal/entity"
)

//go:generate mockery --with-expecter --case underscore --all --output=./mocks
type (
	// Source supplies record snapshots to the dashboard engine.
	Source interface {
		// Version identifies the current record set. It changes whenever any record changes.
		Version(ctx context.Context) (string, error)
		// Dataset loads the full normalized record set.
		Dataset(ctx context.Context) (*entity.Dataset, error)
	}

	// ResultCache memoizes computed dashboards by key.
	ResultCache interface {
		Get(ctx context.Context, key string) (*entity.Dashboard, bool, error)
		Set(ctx context.Context, key string, d *entity.Dashboard) error
	}

	Dashboard interface {
		// Compute runs every aggregator for the filter and returns the memoized result when present.
		Compute(ctx context.Context, f entity.FilterState, opts entity.DashboardOptions) (*entity.Dashboard, error)
		// Trigger is Compute with last-filter-wins semantics per slot: a newer trigger
		// on the same slot cancels the one still running.
		Trigger(ctx context.Context, slot string, f entity.FilterState, opts entity.DashboardOptions) (*entity.Dashboard, error)
	}
)
