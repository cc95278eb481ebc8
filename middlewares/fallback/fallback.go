package fallback

import (
	"context"

	"maxy/internal/bot"
	mw "maxy/internal/middleware"
)

func init() {
	mw.Register(New(bot.NewSelector(nil)))
}

// Fallback is the last stop on the incoming pipeline: nothing matched, so
// reply with one of the canned messages, chosen by the selector's random
// source.
type Fallback struct {
	sel *bot.Selector
}

func New(sel *bot.Selector) *Fallback {
	return &Fallback{sel: sel}
}

func (*Fallback) ID() string    { return "fallback" }
func (*Fallback) Priority() int { return 10 } // always last

func (*Fallback) ShouldLoad(_ context.Context, e *mw.Event) bool {
	return e != nil && e.Name == mw.EventIncomingMessage
}

func (f *Fallback) OnEvent(_ context.Context, e *mw.Event) (mw.Decision, error) {
	if e == nil || e.Name != mw.EventIncomingMessage {
		return mw.Decision{}, nil
	}
	msg := f.sel.Fallback()
	return mw.Decision{
		Cancel:      true,
		ReplaceText: &msg,
		Reason:      "no FAQ matched; canned fallback",
	}, nil
}
