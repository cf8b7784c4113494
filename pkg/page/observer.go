package page

// Observer is the scroll animation observer. Freshly inserted nodes are not
// discovered automatically; panels hand them over after every render.
type Observer interface {
	Observe(nodes []*Node)
}

// MarkObserver flags nodes as observed so the page template emits the
// fade-on-scroll class the client script animates.
type MarkObserver struct{}

// Observe marks every node.
func (MarkObserver) Observe(nodes []*Node) {
	for _, n := range nodes {
		if n != nil {
			n.Observed = true
		}
	}
}

// NopObserver ignores registrations (console rendering, tests).
type NopObserver struct{}

// Observe does nothing.
func (NopObserver) Observe([]*Node) {}
