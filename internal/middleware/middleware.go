package middleware

import "context"

type EventName string

const (
	// EventIncomingMessage fires for each non-command message before any
	// reply is produced.
	EventIncomingMessage EventName = "incoming_message"

	// EventOutgoingReply fires after a reply has been chosen, before the
	// transport delivers it.
	EventOutgoingReply EventName = "outgoing_reply"
)

// Decision is a middleware's verdict on an event.
type Decision struct {
	Cancel      bool    // stop the pipeline for this event
	ReplaceText *string // replacement for the event's text, if non-nil
	Reason      string  // for logs
}

// Event carries one message through the chain. Context is a scratch map
// middlewares use to hand findings to later middlewares and to the
// outgoing dispatch.
type Event struct {
	Name      EventName
	UserText  string // incoming message text
	ReplyText string // chosen reply, for outgoing_reply
	ChannelID string
	ActorID   string
	Context   map[string]any
}

type Middleware interface {
	ID() string
	Priority() int
	OnEvent(ctx context.Context, e *Event) (Decision, error)
}

// ConditionalMiddleware is an optional extension that allows a middleware to
// be dynamically enabled/disabled per event. A middleware returning false is
// skipped during dispatch but still recorded in results with a "skipped"
// reason.
type ConditionalMiddleware interface {
	ShouldLoad(ctx context.Context, e *Event) bool
}
