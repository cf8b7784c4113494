// Package panel implements the content panels that share one lifecycle:
// fetch a collection, transform it, render it into a target and register the
// new nodes with the scroll observer. Projects, skills and experience are
// instances of the generic Panel.
package panel

import (
	"context"
	"log/slog"

	"github.com/ShyamSunder149/portfolio/pkg/page"
)

// State is the panel lifecycle state.
type State int

const (
	// StateLoading is the state before the fetch lands, including panels
	// that were never loaded.
	StateLoading State = iota
	// StateLoaded means items (possibly none) are rendered.
	StateLoaded
	// StateFailed means the failure message is shown; there is no retry.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FetchFunc retrieves and transforms a panel's collection.
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// RenderFunc renders one item.
type RenderFunc[T any] func(item T) *page.Node

// Status is the type-independent view of a panel used by reports.
type Status interface {
	PanelName() string
	State() State
	Err() error
	Len() int
}

// Panel is one independently fetched and rendered content area. Load,
// OnLoadSuccess and OnLoadFailure must run on the page loop.
type Panel[T any] struct {
	Name           string
	Target         *page.Target // May be nil; the panel then renders nothing
	Observer       page.Observer
	Fetch          FetchFunc[T]
	Render         RenderFunc[T]
	EmptyMessage   string
	FailureMessage string

	items []T
	err   error
	state State
}

// Load clears the target and fetches the collection off the loop.
func (p *Panel[T]) Load(ctx context.Context, loop *page.Loop) {
	p.state = StateLoading
	p.Target.Clear()

	loop.Go(ctx, func(ctx context.Context) func() {
		items, err := p.Fetch(ctx)
		if err != nil {
			return func() { p.OnLoadFailure(err) }
		}
		return func() { p.OnLoadSuccess(items) }
	})
}

// OnLoadSuccess stores items and renders them, or the empty message when
// there are none.
func (p *Panel[T]) OnLoadSuccess(items []T) {
	p.items = items
	p.err = nil
	p.state = StateLoaded
	slog.Debug("Panel loaded", "panel", p.Name, "items", len(items))

	if len(items) == 0 {
		p.Target.Replace(page.Placeholder(p.EmptyMessage))
		return
	}

	nodes := make([]*page.Node, 0, len(items))
	for _, item := range items {
		nodes = append(nodes, p.Render(item))
	}
	p.Target.Replace(nodes...)
	if p.Observer != nil && p.Target != nil {
		p.Observer.Observe(nodes)
	}
}

// OnLoadFailure renders the failure message in place of the content.
func (p *Panel[T]) OnLoadFailure(err error) {
	p.err = err
	p.state = StateFailed
	slog.Warn("Error loading panel", "panel", p.Name, "error", err)
	p.Target.Replace(page.Placeholder(p.FailureMessage))
}

// Items returns the loaded collection.
func (p *Panel[T]) Items() []T {
	return append([]T(nil), p.items...)
}

// PanelName returns the panel's name.
func (p *Panel[T]) PanelName() string { return p.Name }

// State returns the lifecycle state.
func (p *Panel[T]) State() State { return p.state }

// Err returns the last load failure, or nil.
func (p *Panel[T]) Err() error { return p.err }

// Len returns the number of loaded items.
func (p *Panel[T]) Len() int { return len(p.items) }
