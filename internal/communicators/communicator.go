// Package communicators holds the registry of chat transports. Adapters
// register themselves in init(); the command layer starts them by ID or all
// at once.
package communicators

import (
	"context"
	"fmt"
	"sync"

	"maxy/internal/gateway"
)

// Communicator is one chat transport (console, Telegram). Start blocks
// until the context is canceled or the transport fails; a transport that is
// not configured (e.g. no bot token) should return nil rather than error.
type Communicator interface {
	ID() string
	Start(ctx context.Context, gw *gateway.Gateway) error
}

var (
	mu       sync.RWMutex
	ordered  []Communicator
	indexFor = make(map[string]int)
)

// Register adds a transport under its ID. Called from adapter init();
// duplicate IDs are a programming error.
func Register(c Communicator) {
	mu.Lock()
	defer mu.Unlock()

	if c == nil {
		panic("communicators: Register called with nil")
	}
	if _, dup := indexFor[c.ID()]; dup {
		panic("communicators: duplicate ID " + c.ID())
	}
	indexFor[c.ID()] = len(ordered)
	ordered = append(ordered, c)
}

// Get returns the transport registered under id.
func Get(id string) (Communicator, error) {
	mu.RLock()
	defer mu.RUnlock()

	i, ok := indexFor[id]
	if !ok {
		return nil, fmt.Errorf("no communicator registered as %q", id)
	}
	return ordered[i], nil
}

// All returns every registered transport in registration order, so
// multi-transport startup is deterministic.
func All() []Communicator {
	mu.RLock()
	defer mu.RUnlock()

	out := make([]Communicator, len(ordered))
	copy(out, ordered)
	return out
}
