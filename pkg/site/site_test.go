package site

import (
	"context"
	"errors"
	"html/template"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"go.uber.org/goleak"

	"github.com/ShyamSunder149/portfolio/pkg/blog"
	"github.com/ShyamSunder149/portfolio/pkg/content"
	"github.com/ShyamSunder149/portfolio/pkg/panel"
	"github.com/ShyamSunder149/portfolio/pkg/repository"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeRepos struct {
	err error
}

func (f fakeRepos) ListRepositories(context.Context, string) ([]repository.Info, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []repository.Info{
		{Name: "my-cool-project", URL: "https://example.com/p", Topics: []string{"side-project"}},
		{Name: "private-work", URL: "https://example.com/w"},
	}, nil
}

type textRenderer struct{}

func (textRenderer) Render(md []byte) (template.HTML, error) {
	return template.HTML("<article>" + template.HTMLEscapeString(string(md)) + "</article>"), nil
}

func fixtureFS() fstest.MapFS {
	return fstest.MapFS{
		"data/blogs.json": {Data: []byte(`[
			{"file": "a.md", "title": "Alpha", "date": "Jan 1", "excerpt": "A", "tags": ["go"]},
			{"file": "b.md", "title": "Beta", "date": "Jan 2", "excerpt": "B", "tags": ["linux"]}
		]`)},
		"data/skills.json":     {Data: []byte(`["Go", "Docker"]`)},
		"data/experience.json": {Data: []byte(`[{"role": "Engineer", "company": "Acme", "duration": "2022", "description": "One# Two"}]`)},
		"blogs/a.md":           {Data: []byte("alpha body")},
	}
}

func newLoadedSite(t *testing.T, opts Options) *Site {
	t.Helper()
	s := New(opts)
	t.Cleanup(s.Close)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	s.Wait()
	return s
}

func snapshot(t *testing.T, s *Site) *Snapshot {
	t.Helper()
	snap, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	return snap
}

func TestSiteLoadsAllPanels(t *testing.T) {
	s := newLoadedSite(t, Options{
		Source:   content.NewFSSource(fixtureFS()),
		Repos:    fakeRepos{},
		Owner:    "octo",
		Renderer: textRenderer{},
	})
	snap := snapshot(t, s)

	if snap.BlogState != blog.StateLoaded {
		t.Errorf("Expected blog loaded, got %s", snap.BlogState)
	}
	if len(snap.Projects) != 1 || snap.Projects[0].Name != "My Cool Project" {
		t.Errorf("Unexpected projects: %+v", snap.Projects)
	}
	if len(snap.Skills) != 2 {
		t.Errorf("Expected 2 skills, got %d", len(snap.Skills))
	}
	if len(snap.Experience) != 1 || len(snap.Experience[0].Points) != 2 {
		t.Errorf("Unexpected experience: %+v", snap.Experience)
	}
	if snap.Visible[KeyModal] {
		t.Error("Expected modal hidden")
	}
	for _, p := range snap.Panels {
		if p.Err != nil || p.State != "loaded" {
			t.Errorf("Panel %s: state %s, err %v", p.Name, p.State, p.Err)
		}
	}
	if !strings.Contains(string(snap.HTML[KeySkills]), "devicon-docker-plain colored") {
		t.Errorf("Unexpected skills HTML: %s", snap.HTML[KeySkills])
	}
	if strings.Contains(string(snap.HTML[KeySkills]), "fade-on-scroll") {
		t.Error("Skill tags must not be animated")
	}
	if !strings.Contains(string(snap.HTML[KeyBlogs]), "fade-on-scroll") {
		t.Error("Blog cards must be animated")
	}
}

func TestSiteFilterAndOpen(t *testing.T) {
	s := newLoadedSite(t, Options{
		Source:   content.NewFSSource(fixtureFS()),
		Repos:    fakeRepos{},
		Renderer: textRenderer{},
	})

	// Chips: All, go, linux.
	if !s.ClickNode(KeyTags, 2) {
		t.Fatal("Expected the linux chip to be clickable")
	}
	snap := snapshot(t, s)
	if tag, ok := snap.Filter.Tag(); !ok || tag != "linux" {
		t.Errorf("Expected linux filter, got %q (%v)", tag, ok)
	}
	if len(snap.VisibleItems) != 1 || snap.VisibleItems[0].File != "b.md" {
		t.Errorf("Unexpected visible articles: %+v", snap.VisibleItems)
	}

	if !s.Dispatch(blog.ActionOpen, "a.md") {
		t.Fatal("Expected open to be handled")
	}
	s.Wait()
	snap = snapshot(t, s)
	if !snap.ArticleOpen || snap.Article != "a.md" {
		t.Errorf("Expected a.md open, got %v %q", snap.ArticleOpen, snap.Article)
	}
	if !strings.Contains(string(snap.HTML[KeyModalBody]), "alpha body") {
		t.Errorf("Unexpected modal body: %s", snap.HTML[KeyModalBody])
	}
	if tag, _ := snap.Filter.Tag(); tag != "linux" {
		t.Error("Opening an article must not touch the filter")
	}

	s.Click(KeyModalBody)
	if snap = snapshot(t, s); !snap.ArticleOpen {
		t.Error("Click inside the modal must not close it")
	}
	s.Click(KeyModal)
	if snap = snapshot(t, s); snap.ArticleOpen {
		t.Error("Click on the overlay must close the modal")
	}
}

func TestSitePanelFailuresAreIsolated(t *testing.T) {
	fsys := fixtureFS()
	delete(fsys, "data/blogs.json")

	s := newLoadedSite(t, Options{
		Source: content.NewFSSource(fsys),
		Repos:  fakeRepos{err: errors.New("api down")},
	})
	snap := snapshot(t, s)

	if snap.BlogState != blog.StateFailed {
		t.Errorf("Expected blog failed, got %s", snap.BlogState)
	}
	if _, ok := snap.Filter.Tag(); ok {
		t.Error("Filter must stay unfiltered after a failed load")
	}
	if !strings.Contains(string(snap.HTML[KeyBlogs]), blog.MsgLoadFailed) {
		t.Errorf("Expected blog failure message, got %s", snap.HTML[KeyBlogs])
	}
	if !strings.Contains(string(snap.HTML[KeyProjects]), panel.MsgProjectsFailed) {
		t.Errorf("Expected projects failure message, got %s", snap.HTML[KeyProjects])
	}
	if len(snap.Skills) != 2 || len(snap.Experience) != 1 {
		t.Error("Healthy panels must render despite other failures")
	}

	failed := map[string]bool{}
	for _, p := range snap.Panels {
		if p.Err != nil {
			failed[p.Name] = true
		}
	}
	if !failed["blog"] || !failed["projects"] || failed["skills"] || failed["experience"] {
		t.Errorf("Unexpected failed panels: %v", failed)
	}
}

func TestSiteRestrictedKeys(t *testing.T) {
	s := newLoadedSite(t, Options{
		Keys:   []string{KeySkills},
		Source: content.NewFSSource(fixtureFS()),
		Repos:  fakeRepos{},
	})
	snap := snapshot(t, s)

	if len(snap.HTML) != 1 {
		t.Errorf("Expected only the skills container, got %v", s.Keys())
	}
	if snap.BlogState != blog.StateLoaded {
		t.Errorf("Absent containers must not stop loading, got %s", snap.BlogState)
	}
	if s.Dispatch(blog.ActionOpen, "a.md") {
		s.Wait()
	}
	if snap = snapshot(t, s); snap.ArticleOpen {
		t.Error("Modal cannot open without its container")
	}
}

// recordingSource records the resources fetched through it.
type recordingSource struct {
	next content.Source
	mu   sync.Mutex
	seen []string
}

func (r *recordingSource) Fetch(ctx context.Context, resource string) ([]byte, error) {
	r.mu.Lock()
	r.seen = append(r.seen, resource)
	r.mu.Unlock()
	return r.next.Fetch(ctx, resource)
}

func (r *recordingSource) resources() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.seen...)
}

type countingRepos struct {
	calls atomic.Int32
}

func (c *countingRepos) ListRepositories(ctx context.Context, owner string) ([]repository.Info, error) {
	c.calls.Add(1)
	return fakeRepos{}.ListRepositories(ctx, owner)
}

func TestSiteSkipAbsentPanels(t *testing.T) {
	src := &recordingSource{next: content.NewFSSource(fixtureFS())}
	repos := &countingRepos{}
	s := newLoadedSite(t, Options{
		Keys:       []string{KeyTags, KeyBlogs},
		SkipAbsent: true,
		Source:     src,
		Repos:      repos,
	})
	snap := snapshot(t, s)

	if got := src.resources(); len(got) != 1 || got[0] != DefaultBlogIndex {
		t.Errorf("Expected only the blog index to be fetched, got %v", got)
	}
	if n := repos.calls.Load(); n != 0 {
		t.Errorf("Expected no repository calls, got %d", n)
	}
	if snap.BlogState != blog.StateLoaded {
		t.Errorf("Expected blog loaded, got %s", snap.BlogState)
	}
	for _, p := range snap.Panels {
		if p.Name != "blog" && p.State != panel.StateLoading.String() {
			t.Errorf("Panel %s without a container should not load, state %s", p.Name, p.State)
		}
	}
}

func TestSiteClosed(t *testing.T) {
	s := New(Options{Source: content.NewFSSource(fixtureFS())})
	s.Close()

	if err := s.Load(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Load() after Close error = %v, want ErrClosed", err)
	}
	if _, err := s.Snapshot(); !errors.Is(err, ErrClosed) {
		t.Errorf("Snapshot() after Close error = %v, want ErrClosed", err)
	}
	if s.Dispatch(blog.ActionAll, "") {
		t.Error("Dispatch after Close must not be handled")
	}
}

func TestSiteOpenArticleWithoutLoad(t *testing.T) {
	s := New(Options{
		Keys:     []string{KeyModal, KeyModalBody},
		Source:   content.NewFSSource(fixtureFS()),
		Renderer: textRenderer{},
	})
	defer s.Close()

	if err := s.OpenArticle(context.Background(), "a.md"); err != nil {
		t.Fatalf("OpenArticle() error = %v", err)
	}
	s.Wait()

	snap := snapshot(t, s)
	if !snap.ArticleOpen {
		t.Error("Expected modal open")
	}
	if !strings.Contains(string(snap.HTML[KeyModalBody]), "alpha body") {
		t.Errorf("Unexpected body: %s", snap.HTML[KeyModalBody])
	}
	if snap.BlogState != blog.StateLoading {
		t.Errorf("Panels must not load, blog state %s", snap.BlogState)
	}
}
