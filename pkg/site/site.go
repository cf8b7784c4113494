// Package site assembles one page: the document with its fixed containers,
// the event loop, the dispatcher, the blog controller and article viewer and
// the generic panels. A Site is one page load; create it, Load it, drive it
// with events and discard it.
package site

import (
	"context"
	"errors"
	"html/template"

	"github.com/ShyamSunder149/portfolio/pkg/blog"
	"github.com/ShyamSunder149/portfolio/pkg/content"
	"github.com/ShyamSunder149/portfolio/pkg/page"
	"github.com/ShyamSunder149/portfolio/pkg/panel"
	"github.com/ShyamSunder149/portfolio/pkg/repository"
)

// Container keys of the page.
const (
	KeyProjects   = "projects-container"
	KeyBlogs      = "blogs-container"
	KeyTags       = "all-tags-filter"
	KeySkills     = "skills-container"
	KeyExperience = "experience-container"
	KeyModal      = "blog-modal"
	KeyModalBody  = "blog-content-body"
)

// DefaultKeys lists every container of the full page.
var DefaultKeys = []string{KeyProjects, KeyBlogs, KeyTags, KeySkills, KeyExperience, KeyModal, KeyModalBody}

// Default resource locations relative to the content source.
const (
	DefaultBlogIndex  = "data/blogs.json"
	DefaultSkills     = "data/skills.json"
	DefaultExperience = "data/experience.json"
	DefaultArticleDir = "blogs"
)

// ErrClosed is returned when an operation reaches a closed page.
var ErrClosed = errors.New("page closed")

// Options configures a Site.
type Options struct {
	// Keys restricts the containers present on the page. Nil means
	// DefaultKeys.
	Keys []string
	// SkipAbsent stops Load from fetching panels that have no container on
	// the page. By default every panel loads so its items reach Snapshot.
	SkipAbsent bool

	Source     content.Source    // Static JSON and article source
	Repos      repository.Client // Repository provider for the projects panel
	Owner      string            // Repository owner
	Topic      string            // Required repository topic
	Renderer   blog.Renderer     // Article markdown renderer
	Observer   page.Observer     // Scroll observer; MarkObserver when nil
	Link       page.LinkFunc     // Href builder for actionable nodes
	BlogIndex  string
	Skills     string
	Experience string
	ArticleDir string
}

func (o *Options) applyDefaults() {
	if o.Keys == nil {
		o.Keys = DefaultKeys
	}
	if o.Observer == nil {
		o.Observer = page.MarkObserver{}
	}
	if o.BlogIndex == "" {
		o.BlogIndex = DefaultBlogIndex
	}
	if o.Skills == "" {
		o.Skills = DefaultSkills
	}
	if o.Experience == "" {
		o.Experience = DefaultExperience
	}
	if o.ArticleDir == "" {
		o.ArticleDir = DefaultArticleDir
	}
}

// Site is one page load.
type Site struct {
	doc        *page.Document
	loop       *page.Loop
	dispatcher *page.Dispatcher

	blog       *blog.Controller
	viewer     *blog.Viewer
	projects   *panel.Panel[panel.Project]
	skills     *panel.Panel[panel.Skill]
	experience *panel.Panel[panel.Experience]

	skipAbsent bool
	started    bool
}

// New builds a page. Its loop runs until Close.
func New(opts Options) *Site {
	opts.applyDefaults()

	doc := page.NewDocument(opts.Keys...)
	loop := page.NewLoop()
	s := &Site{
		doc:        doc,
		loop:       loop,
		dispatcher: page.NewDispatcher(),
		skipAbsent: opts.SkipAbsent,
	}

	s.blog = blog.NewController(blog.Options{
		Source:   opts.Source,
		Resource: opts.BlogIndex,
		Tags:     doc.Target(KeyTags),
		Cards:    doc.Target(KeyBlogs),
		Observer: opts.Observer,
		Loop:     loop,
		Link:     opts.Link,
	})
	s.blog.Subscribe(s.dispatcher)

	s.viewer = blog.NewViewer(blog.ViewerOptions{
		Source:   opts.Source,
		Dir:      opts.ArticleDir,
		Modal:    doc.Target(KeyModal),
		Body:     doc.Target(KeyModalBody),
		Renderer: opts.Renderer,
		Loop:     loop,
	})

	s.projects = panel.NewProjects(panel.ProjectsOptions{
		Client:   opts.Repos,
		Owner:    opts.Owner,
		Topic:    opts.Topic,
		Target:   doc.Target(KeyProjects),
		Observer: opts.Observer,
	})
	// Skill tags are not animated.
	s.skills = panel.NewSkills(panel.SkillsOptions{
		Source:   opts.Source,
		Resource: opts.Skills,
		Target:   doc.Target(KeySkills),
		Observer: page.NopObserver{},
	})
	s.experience = panel.NewExperience(panel.ExperienceOptions{
		Source:   opts.Source,
		Resource: opts.Experience,
		Target:   doc.Target(KeyExperience),
		Observer: opts.Observer,
	})
	return s
}

// Load starts the four panel loads concurrently and returns without waiting
// for them. With SkipAbsent, panels without a container stay Loading and
// fetch nothing. Article fetches opened later run under the ctx of the
// first Load.
func (s *Site) Load(ctx context.Context) error {
	ok := s.loop.Do(func() {
		if !s.started {
			s.viewer.Subscribe(ctx, s.dispatcher)
			s.started = true
		}
		if s.present(KeyProjects) {
			s.projects.Load(ctx, s.loop)
		}
		if s.present(KeyTags, KeyBlogs) {
			s.blog.Load(ctx)
		}
		if s.present(KeySkills) {
			s.skills.Load(ctx, s.loop)
		}
		if s.present(KeyExperience) {
			s.experience.Load(ctx, s.loop)
		}
	})
	if !ok {
		return ErrClosed
	}
	return nil
}

// present reports whether a panel rendering into any of keys should load.
func (s *Site) present(keys ...string) bool {
	if !s.skipAbsent {
		return true
	}
	for _, k := range keys {
		if s.doc.Target(k) != nil {
			return true
		}
	}
	return false
}

// OpenArticle opens file in the article modal without loading the panels.
func (s *Site) OpenArticle(ctx context.Context, file string) error {
	if !s.loop.Do(func() { s.viewer.Open(ctx, file) }) {
		return ErrClosed
	}
	return nil
}

// Dispatch raises a user event on the loop and reports whether anything
// handled it.
func (s *Site) Dispatch(action, arg string) bool {
	var handled bool
	s.loop.Do(func() { handled = s.dispatcher.Dispatch(action, arg) })
	return handled
}

// ClickNode raises the action of the i-th node of the container key.
func (s *Site) ClickNode(key string, i int) bool {
	var handled bool
	s.loop.Do(func() {
		nodes := s.doc.Target(key).Nodes()
		if i < 0 || i >= len(nodes) {
			return
		}
		handled = s.dispatcher.Click(nodes[i])
	})
	return handled
}

// Click delivers a click on the container key itself, which closes the
// article modal when key is the overlay.
func (s *Site) Click(key string) {
	s.loop.Do(func() { s.viewer.HandleClick(s.doc.Target(key)) })
}

// Wait blocks until every pending fetch has landed.
func (s *Site) Wait() {
	s.loop.Wait()
}

// Close stops the page loop. Fetches still in flight are dropped.
func (s *Site) Close() {
	s.loop.Close()
}

// Keys returns the containers present on the page.
func (s *Site) Keys() []string {
	return s.doc.Keys()
}

// PanelStatus summarizes one panel.
type PanelStatus struct {
	Name  string
	State string
	Items int
	Err   error
}

// Snapshot is a copy of the page state taken on the loop.
type Snapshot struct {
	HTML    map[string]template.HTML
	Visible map[string]bool

	BlogState    blog.State
	Filter       blog.FilterState
	Articles     []blog.Article
	VisibleItems []blog.Article
	Tags         []string
	ArticleOpen  bool
	Article      string

	Projects   []panel.Project
	Skills     []panel.Skill
	Experience []panel.Experience

	Panels []PanelStatus
}

// Snapshot copies the current state. It returns ErrClosed after Close.
func (s *Site) Snapshot() (*Snapshot, error) {
	var snap *Snapshot
	ok := s.loop.Do(func() {
		snap = &Snapshot{
			HTML:         make(map[string]template.HTML),
			Visible:      make(map[string]bool),
			BlogState:    s.blog.State(),
			Filter:       s.blog.Filter(),
			Articles:     s.blog.Articles(),
			VisibleItems: s.blog.Visible(),
			Tags:         s.blog.Tags(),
			ArticleOpen:  s.viewer.IsOpen(),
			Article:      s.viewer.Current(),
			Projects:     s.projects.Items(),
			Skills:       s.skills.Items(),
			Experience:   s.experience.Items(),
		}
		for _, k := range s.doc.Keys() {
			t := s.doc.Target(k)
			snap.HTML[k] = t.HTML()
			snap.Visible[k] = t.Visible()
		}

		snap.Panels = append(snap.Panels, status(s.projects))
		snap.Panels = append(snap.Panels, PanelStatus{
			Name:  "blog",
			State: s.blog.State().String(),
			Items: len(snap.Articles),
			Err:   s.blog.Err(),
		})
		snap.Panels = append(snap.Panels, status(s.skills), status(s.experience))
	})
	if !ok {
		return nil, ErrClosed
	}
	return snap, nil
}

func status(p panel.Status) PanelStatus {
	return PanelStatus{Name: p.PanelName(), State: p.State().String(), Items: p.Len(), Err: p.Err()}
}
