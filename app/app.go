package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jekabolt/salon-analytics/config"
	httpapi "github.com/jekabolt/salon-analytics/internal/api/http"
	"github.com/jekabolt/salon-analytics/internal/cache"
	"github.com/jekabolt/salon-analytics/internal/dashboard"
	"github.com/jekabolt/salon-analytics/internal/dependency"
	"github.com/jekabolt/salon-analytics/internal/dto"
	"github.com/jekabolt/salon-analytics/internal/store"
)

// Importer writes raw records into a writable source.
type Importer interface {
	Import(ctx context.Context, ds *dto.Dataset) error
}

// Runtime is the wired data path shared by the server and one-shot commands.
type Runtime struct {
	Source   dependency.Source
	Cache    dependency.ResultCache
	Engine   *dashboard.Engine
	Importer Importer
	Checks   []httpapi.HealthCheck

	closers []func() error
}

// Build opens the configured source and cache and wires the dashboard engine.
func Build(ctx context.Context, c *config.Config) (*Runtime, error) {
	rt := &Runtime{}
	if err := rt.openSource(ctx, c); err != nil {
		rt.Close()
		return nil, err
	}
	rt.openCache(c)
	rt.Engine = dashboard.New(rt.Source, rt.Cache, c.Analytics, c.Dashboard)
	return rt, nil
}

func (rt *Runtime) openSource(ctx context.Context, c *config.Config) error {
	switch c.Source.Kind {
	case config.SourceMySQL:
		db, err := store.New(ctx, c.DB)
		if err != nil {
			return fmt.Errorf("couldn't connect to mysql: %w", err)
		}
		rt.Source, rt.Importer = db, db
		rt.closers = append(rt.closers, db.Close)
		rt.Checks = append(rt.Checks, httpapi.HealthCheck{Name: "mysql", Check: db.Ping})
	case config.SourceBunt:
		b, err := store.OpenBunt(c.Bunt)
		if err != nil {
			return fmt.Errorf("couldn't open buntdb: %w", err)
		}
		rt.Source, rt.Importer = b, b
		rt.closers = append(rt.closers, b.Close)
		if c.Source.Path != "" {
			if err := Seed(ctx, store.NewFile(c.Source.Path), b); err != nil {
				return err
			}
		}
	default:
		rt.Source = store.NewFile(c.Source.Path)
	}
	rt.Checks = append(rt.Checks, httpapi.HealthCheck{Name: "source", Check: func(ctx context.Context) error {
		_, err := rt.Source.Version(ctx)
		return err
	}})
	return nil
}

func (rt *Runtime) openCache(c *config.Config) {
	switch c.Cache.Kind {
	case config.CacheRedis:
		client := cache.NewRedisClient(c.Cache.Redis)
		r := cache.NewRedis(client, c.Cache.Redis)
		rt.Cache = r
		rt.closers = append(rt.closers, client.Close)
		rt.Checks = append(rt.Checks, httpapi.HealthCheck{Name: "redis", Check: r.HealthCheck})
	case config.CacheMemory:
		rt.Cache = cache.NewMemory(c.Cache.Memory)
	}
}

// Seed imports a JSON snapshot into a writable source.
func Seed(ctx context.Context, f *store.File, into Importer) error {
	raw, err := f.ReadDataset(ctx)
	if err != nil {
		return fmt.Errorf("can't read seed snapshot: %w", err)
	}
	if err := into.Import(ctx, raw); err != nil {
		return fmt.Errorf("can't import seed snapshot: %w", err)
	}
	slog.Default().InfoContext(ctx, "snapshot imported",
		slog.Int("appointments", len(raw.Appointments)),
		slog.Int("products", len(raw.Products)),
	)
	return nil
}

// Close releases every opened resource.
func (rt *Runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			slog.Default().Error("can't close resource", slog.String("err", err.Error()))
		}
	}
	rt.closers = nil
}

// App is the main application
type App struct {
	hs   *httpapi.Server
	rt   *Runtime
	c    *config.Config
	done chan struct{}
}

// New returns a new instance of App
func New(c *config.Config) *App {
	return &App{
		c:    c,
		done: make(chan struct{}),
	}
}

// Start starts the app
func (a *App) Start(ctx context.Context) error {
	var err error
	slog.Default().InfoContext(ctx, "starting salon analytics",
		slog.String("source", a.c.Source.Kind),
		slog.String("cache", a.c.Cache.Kind),
	)

	a.rt, err = Build(ctx, a.c)
	if err != nil {
		slog.Default().ErrorContext(ctx, "couldn't build runtime", slog.String("err", err.Error()))
		return err
	}

	a.hs = httpapi.New(&a.c.HTTP, a.rt.Engine, a.c.Analytics, a.rt.Checks...)
	if err = a.hs.Start(ctx); err != nil {
		slog.Default().ErrorContext(ctx, "cannot start http server", slog.String("err", err.Error()))
		return err
	}
	return nil
}

// Stop stops the application and waits for all services to exit
func (a *App) Stop(ctx context.Context) {
	if a.hs != nil {
		if err := a.hs.Stop(ctx); err != nil {
			slog.Default().ErrorContext(ctx, "http server shutdown failed", slog.String("err", err.Error()))
		}
	}
	if a.rt != nil {
		a.rt.Close()
	}
	close(a.done)
}

// Done returns a channel that is closed after the application has exited
func (a *App) Done() <-chan struct{} {
	if a.hs != nil {
		return a.hs.Done()
	}
	return a.done
}
