// Package page models the rendered page that content panels write into. A
// Document is a fixed set of keyed render targets; each target holds an
// ordered list of nodes that panels replace wholesale on every render. A
// Loop serializes all state transitions and target mutations of one page.
package page

import (
	"html/template"
	"strings"
)

// Action names the user event a rendered node raises when clicked.
type Action struct {
	Name string // Dispatcher subscription name (e.g. "blog.filter")
	Arg  string // Argument passed to the handler (e.g. the tag key)
}

// LinkFunc turns an action into the href a rendered node links to.
type LinkFunc func(Action) string

// NoLink renders every action as an in-page anchor.
func NoLink(Action) string { return "#" }

// Node is one rendered element inside a Target.
type Node struct {
	HTML     template.HTML // Rendered markup
	Action   *Action       // Event raised on click, nil for inert nodes
	Active   bool          // Styled as the current selection
	Observed bool          // Registered with the scroll animation observer
}

// Target is a render insertion point identified by a stable key. A nil
// *Target stands for a container that is absent from the page; every method
// is a no-op on it.
type Target struct {
	key     string
	nodes   []*Node
	visible bool
}

// Key returns the target's identifier, or "" for an absent target.
func (t *Target) Key() string {
	if t == nil {
		return ""
	}
	return t.key
}

// Replace discards the current nodes and inserts nodes in order.
func (t *Target) Replace(nodes ...*Node) {
	if t == nil {
		return
	}
	t.nodes = append([]*Node(nil), nodes...)
}

// Clear removes every node.
func (t *Target) Clear() {
	t.Replace()
}

// Nodes returns a copy of the current node list.
func (t *Target) Nodes() []*Node {
	if t == nil {
		return nil
	}
	return append([]*Node(nil), t.nodes...)
}

// Len returns the number of nodes.
func (t *Target) Len() int {
	if t == nil {
		return 0
	}
	return len(t.nodes)
}

// HTML concatenates the markup of all nodes. Observed nodes are wrapped in
// the fade-on-scroll element the client script animates.
func (t *Target) HTML() template.HTML {
	if t == nil {
		return ""
	}
	var b strings.Builder
	for _, n := range t.nodes {
		if n.Observed {
			b.WriteString(`<div class="fade-on-scroll">`)
			b.WriteString(string(n.HTML))
			b.WriteString(`</div>`)
			continue
		}
		b.WriteString(string(n.HTML))
	}
	return template.HTML(b.String()) //nolint:gosec // nodes hold template output
}

// Show makes the target visible.
func (t *Target) Show() {
	if t != nil {
		t.visible = true
	}
}

// Hide makes the target invisible.
func (t *Target) Hide() {
	if t != nil {
		t.visible = false
	}
}

// Visible reports whether the target is shown.
func (t *Target) Visible() bool {
	return t != nil && t.visible
}

// Document holds the targets present on the current page.
type Document struct {
	targets map[string]*Target
	order   []string
}

// NewDocument creates a document containing exactly the given keys. Targets
// start visible; hide the ones that open on demand (e.g. modals).
func NewDocument(keys ...string) *Document {
	d := &Document{targets: make(map[string]*Target, len(keys))}
	for _, k := range keys {
		if _, ok := d.targets[k]; ok {
			continue
		}
		d.targets[k] = &Target{key: k, visible: true}
		d.order = append(d.order, k)
	}
	return d
}

// Target returns the target for key, or nil when the page has no such
// container.
func (d *Document) Target(key string) *Target {
	if d == nil {
		return nil
	}
	return d.targets[key]
}

// Keys returns the target keys in creation order.
func (d *Document) Keys() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.order...)
}

// Placeholder builds the paragraph used for loading, empty and failure
// states.
func Placeholder(msg string) *Node {
	return &Node{HTML: template.HTML(`<p class="text-secondary placeholder">` + template.HTMLEscapeString(msg) + `</p>`)} //nolint:gosec // escaped above
}
