package blog

import (
	"context"
	"log/slog"

	"github.com/ShyamSunder149/portfolio/pkg/content"
	"github.com/ShyamSunder149/portfolio/pkg/page"
)

// Actions raised by rendered blog nodes.
const (
	ActionFilter = "blog.filter" // arg: tag key
	ActionAll    = "blog.all"
	ActionOpen   = "blog.open"  // arg: article file
	ActionClose  = "blog.close" // modal close button
)

// Fixed messages rendered into the card list.
const (
	MsgNoArticles = "No articles found."
	MsgLoadFailed = "Failed to load articles."
)

// State is the controller lifecycle state.
type State int

const (
	// StateLoading is the initial state; user events are ignored.
	StateLoading State = iota
	// StateLoaded means articles are present and filtering is enabled.
	StateLoaded
	// StateFailed is terminal; only a new page load recovers.
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

// Options configures a Controller.
type Options struct {
	Source   content.Source
	Resource string       // Blog index, e.g. "data/blogs.json"
	Tags     *page.Target // Tag chooser container, may be nil
	Cards    *page.Target // Card list container, may be nil
	Observer page.Observer
	Loop     *page.Loop
	Link     page.LinkFunc
}

// Controller owns the blog panel state: the article collection, its tag
// universe and the active filter. Every method except NewController must run
// on the page loop.
type Controller struct {
	source   content.Source
	resource string
	tags     *page.Target
	cards    *page.Target
	observer page.Observer
	loop     *page.Loop
	link     page.LinkFunc

	state    State
	articles []Article
	universe TagUniverse
	filter   FilterState
	err      error
}

// NewController creates a controller in the Loading state.
func NewController(opts Options) *Controller {
	c := &Controller{
		source:   opts.Source,
		resource: opts.Resource,
		tags:     opts.Tags,
		cards:    opts.Cards,
		observer: opts.Observer,
		loop:     opts.Loop,
		link:     opts.Link,
		universe: TagUniverse{},
	}
	if c.observer == nil {
		c.observer = page.NopObserver{}
	}
	if c.link == nil {
		c.link = page.NoLink
	}
	return c
}

// Subscribe registers the controller's handlers for the filter actions.
func (c *Controller) Subscribe(d *page.Dispatcher) {
	d.On(ActionFilter, c.OnTagClicked)
	d.On(ActionAll, func(string) { c.OnAllClicked() })
}

// Load enters Loading, clears both containers and schedules the fetch.
func (c *Controller) Load(ctx context.Context) {
	c.state = StateLoading
	c.tags.Clear()
	c.cards.Clear()

	c.loop.Go(ctx, func(ctx context.Context) func() {
		articles, err := content.FetchJSON[Article](ctx, c.source, c.resource)
		if err != nil {
			return func() { c.OnLoadFailure(err) }
		}
		return func() { c.OnLoadSuccess(articles) }
	})
}

// OnLoadSuccess replaces the collection, rebuilds the tag universe, resets
// the filter and renders both containers.
func (c *Controller) OnLoadSuccess(articles []Article) {
	c.articles = normalize(articles)
	c.universe = BuildTagUniverse(c.articles)
	c.filter.Clear()
	c.err = nil
	c.state = StateLoaded

	slog.Debug("Blog articles loaded", "articles", len(c.articles), "tags", c.universe.Len())
	c.render()
}

// OnLoadFailure enters the terminal Failed state. The filter is left as it
// was.
func (c *Controller) OnLoadFailure(err error) {
	c.state = StateFailed
	c.err = err
	slog.Warn("Error loading blogs", "resource", c.resource, "error", err)

	c.tags.Clear()
	c.cards.Replace(page.Placeholder(MsgLoadFailed))
}

// OnTagClicked filters by tag and re-renders. Tags outside the current
// universe and clicks before a successful load are ignored.
func (c *Controller) OnTagClicked(tag string) {
	if c.state != StateLoaded {
		slog.Debug("Ignoring tag click", "tag", tag, "state", c.state.String())
		return
	}
	if !c.universe.Contains(tag) {
		slog.Debug("Ignoring unknown tag", "tag", tag)
		return
	}
	c.filter.Activate(tag)
	c.render()
}

// OnAllClicked clears the filter and re-renders.
func (c *Controller) OnAllClicked() {
	if c.state != StateLoaded {
		return
	}
	c.filter.Clear()
	c.render()
}

func (c *Controller) render() {
	c.renderTags()
	c.renderCards()
}

func (c *Controller) renderTags() {
	active, filtered := c.filter.Tag()

	nodes := []*page.Node{c.chip("All", page.Action{Name: ActionAll}, !filtered)}
	for _, t := range c.universe.Sorted() {
		nodes = append(nodes, c.chip(DisplayTag(t), page.Action{Name: ActionFilter, Arg: t}, filtered && t == active))
	}
	c.tags.Replace(nodes...)
}

func (c *Controller) chip(label string, action page.Action, active bool) *page.Node {
	v := chipView{Label: label, Href: c.link(action), Action: action, Active: active}
	return &page.Node{HTML: execute(chipTemplate, v), Action: &action, Active: active}
}

func (c *Controller) renderCards() {
	visible := Apply(c.articles, c.filter)
	if len(visible) == 0 {
		c.cards.Replace(page.Placeholder(MsgNoArticles))
		return
	}

	nodes := make([]*page.Node, 0, len(visible))
	for _, a := range visible {
		nodes = append(nodes, c.card(a))
	}
	c.cards.Replace(nodes...)
	c.observer.Observe(nodes)
}

func (c *Controller) card(a Article) *page.Node {
	open := page.Action{Name: ActionOpen, Arg: a.File}
	v := cardView{
		Title:   a.Title,
		Date:    a.Date,
		Excerpt: a.Excerpt,
		Href:    c.link(open),
		Action:  open,
	}
	for _, t := range a.Tags {
		filter := page.Action{Name: ActionFilter, Arg: t}
		v.Tags = append(v.Tags, chipView{Label: DisplayTag(t), Href: c.link(filter), Action: filter})
	}
	return &page.Node{HTML: execute(cardTemplate, v), Action: &open}
}

// State returns the lifecycle state.
func (c *Controller) State() State {
	return c.state
}

// Err returns the load failure, if any.
func (c *Controller) Err() error {
	return c.err
}

// Filter returns the current filter.
func (c *Controller) Filter() FilterState {
	return c.filter
}

// Articles returns the full collection.
func (c *Controller) Articles() []Article {
	return append([]Article(nil), c.articles...)
}

// Visible returns the articles under the current filter.
func (c *Controller) Visible() []Article {
	return append([]Article(nil), Apply(c.articles, c.filter)...)
}

// Tags returns the sorted tag universe.
func (c *Controller) Tags() []string {
	return c.universe.Sorted()
}
