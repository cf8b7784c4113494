package page

import "sync"

// Handler reacts to a dispatched user event.
type Handler func(arg string)

// Dispatcher maps action names to subscribed handlers. Rendering only
// attaches an Action to a node; whoever owns the behaviour subscribes here.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string][]Handler)}
}

// On subscribes h to action. Handlers run in subscription order.
func (d *Dispatcher) On(action string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[action] = append(d.handlers[action], h)
}

// Dispatch invokes every handler subscribed to action and reports whether
// there was at least one.
func (d *Dispatcher) Dispatch(action, arg string) bool {
	d.mu.RLock()
	hs := append([]Handler(nil), d.handlers[action]...)
	d.mu.RUnlock()

	for _, h := range hs {
		h(arg)
	}
	return len(hs) > 0
}

// Click dispatches the action carried by n, if any.
func (d *Dispatcher) Click(n *Node) bool {
	if n == nil || n.Action == nil {
		return false
	}
	return d.Dispatch(n.Action.Name, n.Action.Arg)
}
