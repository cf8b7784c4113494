package blog

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"path"
	"strings"

	"github.com/ShyamSunder149/portfolio/pkg/content"
	"github.com/ShyamSunder149/portfolio/pkg/page"
)

// Fixed placeholders rendered into the modal body.
const (
	MsgArticleLoading = "Loading..."
	MsgArticleFailed  = "Error loading article."
)

// Renderer converts article markdown into HTML.
type Renderer interface {
	Render(markdown []byte) (template.HTML, error)
}

// ViewerOptions configures a Viewer.
type ViewerOptions struct {
	Source   content.Source
	Dir      string       // Directory holding article files, e.g. "blogs"
	Modal    *page.Target // Modal overlay
	Body     *page.Target // Modal content body
	Renderer Renderer
	Loop     *page.Loop
}

// Viewer shows one article at a time in a modal overlay. It is independent
// of the blog filter. Every method except NewViewer and Subscribe must run on
// the page loop.
type Viewer struct {
	source   content.Source
	dir      string
	modal    *page.Target
	body     *page.Target
	renderer Renderer
	loop     *page.Loop
	current  string
}

// NewViewer creates a viewer with the modal hidden.
func NewViewer(opts ViewerOptions) *Viewer {
	v := &Viewer{
		source:   opts.Source,
		dir:      opts.Dir,
		modal:    opts.Modal,
		body:     opts.Body,
		renderer: opts.Renderer,
		loop:     opts.Loop,
	}
	v.modal.Hide()
	return v
}

// Subscribe registers the open and close handlers. Fetches started by an
// open event run under ctx.
func (v *Viewer) Subscribe(ctx context.Context, d *page.Dispatcher) {
	d.On(ActionOpen, func(file string) { v.Open(ctx, file) })
	d.On(ActionClose, func(string) { v.Close() })
}

// Open shows the modal with a loading placeholder and fetches the article
// in the background. The modal stays open whatever the outcome; a response
// arriving after a newer Open still overwrites the body.
func (v *Viewer) Open(ctx context.Context, file string) {
	if v.modal == nil || v.body == nil {
		return
	}

	v.current = file
	v.modal.Show()

	resource, ok := articleResource(v.dir, file)
	if !ok {
		slog.Warn("Rejected article name", "file", file)
		v.body.Replace(page.Placeholder(MsgArticleFailed))
		return
	}
	v.body.Replace(page.Placeholder(MsgArticleLoading))
	v.loop.Go(ctx, func(ctx context.Context) func() {
		html, err := v.fetch(ctx, resource)
		if err != nil {
			slog.Warn("Error loading article", "resource", resource, "error", err)
			return func() { v.body.Replace(page.Placeholder(MsgArticleFailed)) }
		}
		return func() { v.body.Replace(&page.Node{HTML: html}) }
	})
}

// articleResource maps an article file name to its resource under dir. The
// name must be a single path element.
func articleResource(dir, file string) (string, bool) {
	if file == "" || file == "." || file == ".." || file != path.Base(file) || strings.ContainsAny(file, `/\`) {
		return "", false
	}
	resource := path.Join(dir, file)
	if d := path.Clean(dir); d != "." && !strings.HasPrefix(resource, d+"/") {
		return "", false
	}
	return resource, true
}

func (v *Viewer) fetch(ctx context.Context, resource string) (template.HTML, error) {
	text, err := content.FetchText(ctx, v.source, resource)
	if err != nil {
		return "", err
	}
	if v.renderer == nil {
		return "", fmt.Errorf("no markdown renderer configured")
	}
	html, err := v.renderer.Render([]byte(text))
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", resource, err)
	}
	return html, nil
}

// Close hides the modal.
func (v *Viewer) Close() {
	v.modal.Hide()
}

// HandleClick closes the modal when the clicked element is the overlay
// itself. Clicks on the body or anywhere inside it do not close.
func (v *Viewer) HandleClick(target *page.Target) {
	if target != nil && target == v.modal {
		v.Close()
	}
}

// IsOpen reports whether the modal is visible.
func (v *Viewer) IsOpen() bool {
	return v.modal.Visible()
}

// Current returns the file of the most recently opened article.
func (v *Viewer) Current() string {
	return v.current
}
