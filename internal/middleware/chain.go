package middleware

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
)

// Chain executes middlewares in descending Priority() order.
// If priorities are equal, registration order is preserved.
type Chain struct {
	mu  sync.RWMutex
	mws []Middleware

	debugMu sync.Mutex
	debugW  io.Writer
}

// DecisionResult records what one middleware did with the event. Skipped
// middlewares (ShouldLoad=false) are recorded too, so a dispatch trace is
// always complete.
type DecisionResult struct {
	MiddlewareID string
	Priority     int
	Skipped      bool
	Decision     Decision
}

// Results is the full trace of one dispatch, in execution order.
type Results []DecisionResult

// Reply extracts the reply a dispatch settled on: the text carried by the
// canceling decision, trimmed. A cancel without text is deliberate silence
// (reported true, empty); no cancel means nothing claimed the event.
func (rs Results) Reply() (string, bool) {
	for _, r := range rs {
		if !r.Decision.Cancel {
			continue
		}
		if r.Decision.ReplaceText != nil {
			return strings.TrimSpace(*r.Decision.ReplaceText), true
		}
		return "", true
	}
	return "", false
}

func NewChain(mws ...Middleware) *Chain {
	c := &Chain{}
	for _, mw := range mws {
		c.Use(mw)
	}
	return c
}

// SetDebugWriter enables JSONL debug logging for dispatch decisions.
// If w is nil, logging is disabled.
func (c *Chain) SetDebugWriter(w io.Writer) {
	c.debugMu.Lock()
	defer c.debugMu.Unlock()
	c.debugW = w
}

func (c *Chain) Use(mw Middleware) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mws = append(c.mws, mw)
	c.sortLocked()
}

func (c *Chain) List() []Middleware {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Middleware, len(c.mws))
	copy(out, c.mws)
	return out
}

// Dispatch runs all middlewares for the given event, stopping early if a
// middleware returns Decision.Cancel.
func (c *Chain) Dispatch(ctx context.Context, e *Event) (Results, error) {
	c.mu.RLock()
	mws := make([]Middleware, len(c.mws))
	copy(mws, c.mws)
	c.mu.RUnlock()

	results := make(Results, 0, len(mws))
	for _, mw := range mws {
		beforeText := eventText(e)
		if cmw, ok := mw.(ConditionalMiddleware); ok && !cmw.ShouldLoad(ctx, e) {
			c.debugLog(e, mw.ID(), mw.Priority(), true, beforeText, beforeText, Decision{Reason: "skipped (ShouldLoad=false)"})
			results = append(results, DecisionResult{
				MiddlewareID: mw.ID(),
				Priority:     mw.Priority(),
				Skipped:      true,
				Decision: Decision{
					Reason: "skipped (ShouldLoad=false)",
				},
			})
			continue
		}

		dec, err := mw.OnEvent(ctx, e)
		if err != nil {
			c.debugLog(e, mw.ID(), mw.Priority(), false, beforeText, eventText(e), Decision{Reason: err.Error(), Cancel: true})
			return nil, err
		}

		applyDecisionToEvent(e, dec)
		c.debugLog(e, mw.ID(), mw.Priority(), false, beforeText, eventText(e), dec)

		// Keep a record even if the decision is a no-op, since callers may
		// want visibility/logging per middleware.
		results = append(results, DecisionResult{
			MiddlewareID: mw.ID(),
			Priority:     mw.Priority(),
			Decision:     dec,
		})
		if dec.Cancel {
			break
		}
	}
	return results, nil
}

func (c *Chain) sortLocked() {
	sort.SliceStable(c.mws, func(i, j int) bool {
		return c.mws[i].Priority() > c.mws[j].Priority()
	})
}
