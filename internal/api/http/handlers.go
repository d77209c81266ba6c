package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/jekabolt/salon-analytics/internal/entity"
	gerr "github.com/jekabolt/salon-analytics/internal/errors"
	"github.com/jekabolt/salon-analytics/internal/export"
	"github.com/jekabolt/salon-analytics/internal/form"
	"github.com/jekabolt/salon-analytics/internal/middleware"
)

// sections maps a section path to the part of the dashboard it returns.
var sections = map[string]func(d *entity.Dashboard) any{
	"quickstats": func(d *entity.Dashboard) any { return d.QuickStats },
	"revenue":    func(d *entity.Dashboard) any { return d.Revenue },
	"staff":      func(d *entity.Dashboard) any { return d.Staff },
	"clients":    func(d *entity.Dashboard) any { return d.Clients },
	"marketing":  func(d *entity.Dashboard) any { return d.Marketing },
	"products":   func(d *entity.Dashboard) any { return d.Products },
	"calendar":   func(d *entity.Dashboard) any { return d.Calendar },
}

type sectionResponse struct {
	Filter  entity.FilterState `json:"filter"`
	Version string             `json:"version"`
	Section string             `json:"section"`
	Data    any                `json:"data"`
}

func (s *Server) resolve(r *http.Request) (entity.FilterState, entity.DashboardOptions, error) {
	now := s.now().Truncate(time.Minute)
	f, opts, err := form.ParseDashboardQuery(r.URL.Query()).Resolve(now, s.analytics.Location(), s.analytics.WeekStartDay(), s.analytics.RangeLimit())
	if err != nil {
		return f, opts, err
	}
	opts.Now = now
	return f, opts, nil
}

// trigger computes on the caller's slot so a newer filter from the same
// client cancels the older one.
func (s *Server) trigger(ctx context.Context, r *http.Request) (*entity.Dashboard, error) {
	f, opts, err := s.resolve(r)
	if err != nil {
		return nil, err
	}
	return s.dashboard.Trigger(ctx, middleware.GetClientSlot(ctx), f, opts)
}

func (s *Server) getDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.trigger(r.Context(), r)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, d)
}

func (s *Server) getSection(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "section")
	pick, ok := sections[name]
	if !ok {
		renderError(w, r, fmt.Errorf("%w: %q", gerr.ErrUnknownSection, name))
		return
	}
	d, err := s.trigger(r.Context(), r)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, sectionResponse{
		Filter:  d.Filter,
		Version: d.Version,
		Section: name,
		Data:    pick(d),
	})
}

// exportDashboard serves a download. Downloads use Compute, not the slot,
// so they never cancel the dashboard view.
func (s *Server) exportDashboard(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ef, err := export.ParseFormat(format)
		if err != nil {
			renderError(w, r, err)
			return
		}
		f, opts, err := s.resolve(r)
		if err != nil {
			renderError(w, r, err)
			return
		}
		d, err := s.dashboard.Compute(r.Context(), f, opts)
		if err != nil {
			renderError(w, r, err)
			return
		}

		var buf bytes.Buffer
		if err := export.Write(&buf, ef, d); err != nil {
			renderError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", ef.ContentType())
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, ef.Filename(d)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	}
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{Status: "ok", Checks: map[string]string{}}
	for _, c := range s.checks {
		if err := c.Check(ctx); err != nil {
			resp.Status = "degraded"
			resp.Checks[c.Name] = err.Error()
			continue
		}
		resp.Checks[c.Name] = "ok"
	}
	if resp.Status != "ok" {
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, resp)
}
