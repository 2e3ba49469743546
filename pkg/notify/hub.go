package notify

import (
	"errors"
	"slices"
	"sync"
)

// ErrNoScope is returned when publishing without a session scope.
var ErrNoScope = errors.New("notify: empty scope")

// Mirror is told about every toast published on a hub, for relaying to
// other instances.
type Mirror func(scope string, msg Message)

// Dropper is implemented by displayers holding a connection that must end
// when their scope is dropped.
type Dropper interface {
	Dropped()
}

// Hub is the in-process broadcast channel. Tabs are grouped by scope (one
// scope per signed-in session); a toast published in a scope reaches every
// tab of that scope except the one it came from. Each Join is its own
// registration, so two connections sharing a tab id both receive toasts.
type Hub struct {
	mu     sync.RWMutex
	scopes map[string]map[*Broadcaster]struct{}
	mirror Mirror

	onDeliver func(n int)
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		scopes: make(map[string]map[*Broadcaster]struct{}),
	}
}

// SetMirror installs fn to be called after each local publish.
func (h *Hub) SetMirror(fn Mirror) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.mirror = fn
}

// OnDeliver installs a callback reporting how many tabs received a toast.
func (h *Hub) OnDeliver(fn func(n int)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onDeliver = fn
}

// Join registers a connection of tab in scope and returns its broadcaster.
func (h *Hub) Join(scope, tab string, display Displayer) *Broadcaster {
	b := NewBroadcaster(tab, display, h.Channel(scope))

	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.scopes[scope]
	if !ok {
		conns = make(map[*Broadcaster]struct{})
		h.scopes[scope] = conns
	}
	conns[b] = struct{}{}
	return b
}

// Leave removes the registration b from scope.
func (h *Hub) Leave(scope string, b *Broadcaster) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns := h.scopes[scope]
	delete(conns, b)
	if len(conns) == 0 {
		delete(h.scopes, scope)
	}
}

// Drop removes every tab of scope, e.g. on sign-out. Displayers that
// implement Dropper are told so they can close their connection.
func (h *Hub) Drop(scope string) {
	h.mu.Lock()
	conns := h.scopes[scope]
	delete(h.scopes, scope)
	h.mu.Unlock()

	for b := range conns {
		if d, ok := b.display.(Dropper); ok {
			d.Dropped()
		}
	}
}

// Publish delivers msg to the tabs of scope other than msg.Origin and hands
// it to the mirror. It returns the number of local deliveries.
func (h *Hub) Publish(scope string, msg Message) (int, error) {
	if scope == "" {
		return 0, ErrNoScope
	}
	n := h.Deliver(scope, msg)

	h.mu.RLock()
	mirror := h.mirror
	h.mu.RUnlock()
	if mirror != nil {
		mirror(scope, msg)
	}
	return n, nil
}

// Deliver hands msg to the local tabs of scope other than msg.Origin without
// mirroring it.
func (h *Hub) Deliver(scope string, msg Message) int {
	h.mu.RLock()
	targets := make([]*Broadcaster, 0, len(h.scopes[scope]))
	for b := range h.scopes[scope] {
		if b.tab != msg.Origin {
			targets = append(targets, b)
		}
	}
	onDeliver := h.onDeliver
	h.mu.RUnlock()

	for _, b := range targets {
		b.Receive(msg)
	}
	if onDeliver != nil && len(targets) > 0 {
		onDeliver(len(targets))
	}
	return len(targets)
}

// Tabs returns the sorted tab ids registered in scope, one per connection.
func (h *Hub) Tabs(scope string) []string {
	h.mu.RLock()
	result := make([]string, 0, len(h.scopes[scope]))
	for b := range h.scopes[scope] {
		result = append(result, b.tab)
	}
	h.mu.RUnlock()
	slices.Sort(result)
	return result
}

// Count returns the number of registered connections across all scopes.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, conns := range h.scopes {
		n += len(conns)
	}
	return n
}

// Channel returns the Channel of scope. Toasts published on it go through
// Publish.
func (h *Hub) Channel(scope string) Channel {
	return scopeChannel{hub: h, scope: scope}
}

type scopeChannel struct {
	hub   *Hub
	scope string
}

func (c scopeChannel) Publish(msg Message) error {
	_, err := c.hub.Publish(c.scope, msg)
	return err
}
