// Package dashboard coordinates a dashboard computation: it loads the record
// set, filters it once, fans the aggregators out and memoizes the result.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jekabolt/salon-analytics/internal/analytics"
	"github.com/jekabolt/salon-analytics/internal/dependency"
	"github.com/jekabolt/salon-analytics/internal/entity"
	gerr "github.com/jekabolt/salon-analytics/internal/errors"
	"github.com/jekabolt/salon-analytics/internal/filter"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

type Config struct {
	ComputeTimeout time.Duration `mapstructure:"compute_timeout"`
}

func DefaultConfig() Config {
	return Config{ComputeTimeout: 30 * time.Second}
}

type slotState struct {
	cancel context.CancelFunc
}

// Engine is safe for concurrent use.
type Engine struct {
	src       dependency.Source
	cache     dependency.ResultCache
	analytics analytics.Config
	c         Config
	now       func() time.Time

	group singleflight.Group

	mu      sync.Mutex
	dataset *entity.Dataset
	slots   map[string]*slotState
}

var _ dependency.Dashboard = (*Engine)(nil)

// New creates an engine. A nil cache disables memoization.
func New(src dependency.Source, cache dependency.ResultCache, ac analytics.Config, c Config) *Engine {
	if c.ComputeTimeout <= 0 {
		c.ComputeTimeout = DefaultConfig().ComputeTimeout
	}
	return &Engine{
		src:       src,
		cache:     cache,
		analytics: ac,
		c:         c,
		now:       time.Now,
		slots:     map[string]*slotState{},
	}
}

func emptyDataset() *entity.Dataset {
	return filter.Dataset(nil, entity.FilterState{})
}

// Load returns the current record set. Source failures are logged and yield an
// empty, unversioned dataset so aggregation never sees them. The only error
// returned is the caller's own cancellation.
func (e *Engine) Load(ctx context.Context) (*entity.Dataset, error) {
	version, err := e.src.Version(ctx)
	if err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return nil, cerr
		}
		e.sourceFailed(ctx, err)
		return emptyDataset(), nil
	}

	e.mu.Lock()
	cached := e.dataset
	e.mu.Unlock()
	if cached != nil && cached.Version == version {
		return cached, nil
	}

	// The load is shared between callers, so it must outlive any one of them.
	ch := e.group.DoChan("load:"+version, func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.c.ComputeTimeout)
		defer cancel()
		ds, err := e.src.Dataset(lctx)
		if err != nil {
			return nil, err
		}
		e.mu.Lock()
		e.dataset = ds
		e.mu.Unlock()
		return ds, nil
	})
	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return nil, cerr
		}
		e.sourceFailed(ctx, res.Err)
		return emptyDataset(), nil
	}
	return res.Val.(*entity.Dataset), nil
}

func (e *Engine) sourceFailed(ctx context.Context, err error) {
	sourceFailures.Inc()
	slog.Default().ErrorContext(ctx, "can't load dataset, using empty dataset",
		slog.String("err", fmt.Errorf("%w: %w", gerr.ErrSourceUnavailable, err).Error()),
	)
}

// ResolveFilter fills the default range (last 30 days) and location.
func (e *Engine) ResolveFilter(f entity.FilterState, now time.Time) (entity.FilterState, error) {
	if f.DateRange.Start.IsZero() && f.DateRange.End.IsZero() {
		f.DateRange = filter.LastMonth(now)
	}
	if f.DateRange.Start.After(f.DateRange.End) {
		return f, gerr.ErrInvalidDateRange
	}
	if f.LocationID == "" {
		f.LocationID = entity.AllLocations
	}
	return f, nil
}

func (e *Engine) resolveOptions(opts entity.DashboardOptions) entity.DashboardOptions {
	if opts.Granularity < entity.MetricsGranularityDay || opts.Granularity > entity.MetricsGranularityMonth {
		opts.Granularity = entity.MetricsGranularityDay
	}
	if !entity.IsValidStaffSortField(string(opts.StaffSort.Field)) {
		opts.StaffSort.Field = entity.SortByRevenue
	}
	if opts.StaffSort.Order != entity.Ascending {
		opts.StaffSort.Order = entity.Descending
	}
	if opts.Now.IsZero() {
		opts.Now = e.now().Truncate(time.Minute)
	}
	return opts
}

func memoKey(version string, f entity.FilterState, opts entity.DashboardOptions) string {
	return fmt.Sprintf("%s|%d|%d|%s|%s|%s:%s|%d",
		version,
		f.DateRange.Start.UnixNano(),
		f.DateRange.End.UnixNano(),
		f.LocationID,
		opts.Granularity,
		opts.StaffSort.Field,
		opts.StaffSort.Order,
		opts.Now.Unix(),
	)
}

// Compute returns the dashboard for f, served from the result cache when the
// record set has not changed since it was computed.
func (e *Engine) Compute(ctx context.Context, f entity.FilterState, opts entity.DashboardOptions) (*entity.Dashboard, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts = e.resolveOptions(opts)
	f, err := e.ResolveFilter(f, opts.Now)
	if err != nil {
		return nil, err
	}

	ds, err := e.Load(ctx)
	if err != nil {
		return nil, err
	}
	memoize := e.cache != nil && ds.Version != ""
	key := memoKey(ds.Version, f, opts)

	if memoize {
		d, ok, err := e.cache.Get(ctx, key)
		if err != nil {
			slog.Default().ErrorContext(ctx, "can't get dashboard from cache",
				slog.String("err", err.Error()),
			)
		}
		if ok {
			cacheLookups.WithLabelValues("hit").Inc()
			return d, nil
		}
		cacheLookups.WithLabelValues("miss").Inc()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ch := e.group.DoChan(key, func() (any, error) {
		return e.compute(ctx, ds, f, opts)
	})
	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		// The shared computation belonged to a caller that gave up; run our own.
		if isCancellation(res.Err) && ctx.Err() == nil {
			return e.compute(ctx, ds, f, opts)
		}
		return nil, res.Err
	}
	d := res.Val.(*entity.Dashboard)

	if memoize {
		if err := e.cache.Set(ctx, key, d); err != nil {
			slog.Default().ErrorContext(ctx, "can't store dashboard in cache",
				slog.String("err", err.Error()),
			)
		}
	}
	return d, nil
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// compute filters once and runs every aggregator concurrently. Each goroutine
// writes a distinct field of the result.
func (e *Engine) compute(ctx context.Context, ds *entity.Dataset, f entity.FilterState, opts entity.DashboardOptions) (*entity.Dashboard, error) {
	start := time.Now()
	runID := uuid.NewString()
	ctx, cancel := context.WithTimeout(ctx, e.c.ComputeTimeout)
	defer cancel()

	d, err := e.run(ctx, ds, f, opts)

	outcome := "ok"
	if err != nil {
		outcome = "cancelled"
		if !isCancellation(err) {
			outcome = "error"
		}
	}
	computeDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	slog.Default().DebugContext(ctx, "dashboard computed",
		slog.String("run_id", runID),
		slog.String("version", ds.Version),
		slog.String("outcome", outcome),
		slog.Duration("took", time.Since(start)),
	)
	return d, err
}

func (e *Engine) run(ctx context.Context, ds *entity.Dataset, f entity.FilterState, opts entity.DashboardOptions) (*entity.Dashboard, error) {
	scoped := filter.Dataset(ds, f)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := e.analytics
	d := &entity.Dashboard{
		Filter:      f,
		Version:     ds.Version,
		Granularity: opts.Granularity,
	}

	g, gctx := errgroup.WithContext(ctx)
	stage := func(fn func()) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn()
			return nil
		})
	}
	stage(func() {
		d.QuickStats = analytics.QuickStats(scoped.Appointments, scoped.Staff, scoped.Clients)
	})
	stage(func() {
		d.Revenue = analytics.RevenueTrends(scoped.Appointments, scoped.Services, scoped.Clients, f.DateRange, opts.Granularity, cfg)
	})
	stage(func() {
		d.Staff = analytics.StaffPerformance(scoped.Appointments, scoped.Staff, f.DateRange, opts.StaffSort, cfg)
	})
	stage(func() {
		d.Clients = analytics.ClientAnalytics(scoped.Appointments, scoped.Clients, opts.Now, cfg)
	})
	stage(func() {
		d.Marketing = analytics.MarketingInsights(scoped.Appointments, scoped.Promotions, cfg)
	})
	stage(func() {
		d.Products = analytics.ProductSales(scoped.Products, scoped.Staff, cfg)
	})
	stage(func() {
		d.Calendar = analytics.CalendarUtilization(scoped.Appointments, scoped.Staff, cfg)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d, nil
}

// Trigger computes like Compute but cancels the computation previously
// triggered on the same slot, so only the latest filter per slot runs.
func (e *Engine) Trigger(ctx context.Context, slot string, f entity.FilterState, opts entity.DashboardOptions) (*entity.Dashboard, error) {
	ctx, cancel := context.WithCancel(ctx)
	s := &slotState{cancel: cancel}

	e.mu.Lock()
	if prev, ok := e.slots[slot]; ok {
		prev.cancel()
		supersededTriggers.Inc()
	}
	e.slots[slot] = s
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		if e.slots[slot] == s {
			delete(e.slots, slot)
		}
		e.mu.Unlock()
		cancel()
	}()

	return e.Compute(ctx, f, opts)
}
