// Package report captures the state of a loaded page as plain data: the
// items every panel rendered and the per-panel load errors. Reports back the
// console and JSON output of the CLI.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ShyamSunder149/portfolio/pkg/blog"
	"github.com/ShyamSunder149/portfolio/pkg/panel"
	"github.com/ShyamSunder149/portfolio/pkg/site"
)

// Report is a snapshot of one page load.
type Report struct {
	GeneratedAt time.Time `json:"generatedAt"`

	Panels []PanelReport `json:"panels"`

	// Filter is the active blog tag, empty when unfiltered.
	Filter     string             `json:"filter,omitempty"`
	Tags       []string           `json:"tags"`
	Articles   []blog.Article     `json:"articles"`
	Projects   []panel.Project    `json:"projects"`
	Skills     []panel.Skill      `json:"skills"`
	Experience []panel.Experience `json:"experience"`
}

// PanelReport is the load outcome of one panel.
type PanelReport struct {
	Name  string `json:"name"`
	State string `json:"state"`
	Items int    `json:"items"`

	// Error contains any error encountered while loading
	Error error `json:"-"`

	// ErrorText mirrors Error for serialized output
	ErrorText string `json:"error,omitempty"`
}

// FromSite captures the current state of s.
func FromSite(s *site.Site) (*Report, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot page: %w", err)
	}
	return FromSnapshot(snap), nil
}

// FromSnapshot converts a page snapshot. Articles are the ones visible
// under the active filter.
func FromSnapshot(snap *site.Snapshot) *Report {
	rpt := &Report{
		GeneratedAt: time.Now().UTC(),
		Tags:        snap.Tags,
		Articles:    snap.VisibleItems,
		Projects:    snap.Projects,
		Skills:      snap.Skills,
		Experience:  snap.Experience,
	}
	if tag, ok := snap.Filter.Tag(); ok {
		rpt.Filter = tag
	}
	for _, p := range snap.Panels {
		pr := PanelReport{Name: p.Name, State: p.State, Items: p.Items, Error: p.Err}
		if p.Err != nil {
			pr.ErrorText = p.Err.Error()
		}
		rpt.Panels = append(rpt.Panels, pr)
	}
	return rpt
}

// Generator loads pages and reports on them.
type Generator struct {
	opts site.Options
}

// NewGenerator creates a generator for pages built from opts.
func NewGenerator(opts site.Options) *Generator {
	return &Generator{opts: opts}
}

// Generate loads a page, applies the optional tag filter once the blog has
// loaded, and reports on the result. It returns ctx's error when ctx ends
// before every panel has landed.
func (g *Generator) Generate(ctx context.Context, tag string) (*Report, error) {
	slog.Info("Starting page report generation")

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	s := site.New(g.opts)
	defer s.Close()

	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	if err := wait(ctx, s); err != nil {
		return nil, err
	}

	if tag != "" {
		if !s.Dispatch(blog.ActionFilter, tag) {
			return nil, fmt.Errorf("no handler for %s", blog.ActionFilter)
		}
	}

	rpt, err := FromSite(s)
	if err != nil {
		return nil, err
	}
	if tag != "" && rpt.Filter != tag {
		slog.Warn("Tag filter not applied", "tag", tag, "available", rpt.Tags)
	}

	slog.Info("Page report generation complete", "panels", len(rpt.Panels), "errors", len(rpt.GetErrors()))
	return rpt, nil
}

func wait(ctx context.Context, s *site.Site) error {
	done := make(chan struct{})
	go func() {
		s.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		// Fetches observe ctx and land shortly; drain them before returning.
		<-done
		return ctx.Err()
	}
}

// Panel returns the report of the named panel.
func (r *Report) Panel(name string) (PanelReport, bool) {
	for _, p := range r.Panels {
		if p.Name == name {
			return p, true
		}
	}
	return PanelReport{}, false
}

// HasErrors returns true if any panel failed to load
func (r *Report) HasErrors() bool {
	for _, p := range r.Panels {
		if p.Error != nil {
			return true
		}
	}
	return false
}

// GetErrors returns the load errors keyed by panel name
func (r *Report) GetErrors() map[string]error {
	errors := make(map[string]error)
	for _, p := range r.Panels {
		if p.Error != nil {
			errors[p.Name] = p.Error
		}
	}
	return errors
}
