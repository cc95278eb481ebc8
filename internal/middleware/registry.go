package middleware

import (
	"io"
	"os"
	"strings"
)

// registry holds globally-registered middleware plugins.
var registry []Middleware

// Register should be called by middleware packages (typically in init) to
// register themselves with the chain builder.
func Register(m Middleware) {
	registry = append(registry, m)
}

// Registered returns a shallow copy of all registered middleware.
func Registered() []Middleware {
	out := make([]Middleware, len(registry))
	copy(out, registry)
	return out
}

// BuildChain builds a chain from all registered middleware plus any
// explicitly wired ones (those that need stores injected at startup).
// Middlewares named in MAXY_DISABLED_MIDDLEWARES (comma-separated IDs) are
// left out. If a debug writer is provided, it is attached for JSONL debug
// logs.
func BuildChain(debugWriter io.Writer, wired ...Middleware) *Chain {
	mws := append(Registered(), wired...)

	if disabled := os.Getenv("MAXY_DISABLED_MIDDLEWARES"); disabled != "" {
		disabledSet := make(map[string]struct{})
		for _, id := range strings.Split(disabled, ",") {
			disabledSet[strings.TrimSpace(id)] = struct{}{}
		}

		filtered := make([]Middleware, 0, len(mws))
		for _, mw := range mws {
			if _, ok := disabledSet[mw.ID()]; !ok {
				filtered = append(filtered, mw)
			}
		}
		mws = filtered
	}

	c := NewChain(mws...)
	if debugWriter != nil {
		c.SetDebugWriter(debugWriter)
	}
	return c
}
