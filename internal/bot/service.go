// Package bot wires the matching engine, the stores, and the middleware
// chain into the service the chat transports talk to.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"maxy/internal/config"
	"maxy/internal/faq"
	"maxy/internal/match"
	"maxy/internal/middleware"
)

const noPermission = "You don't have permission to use this command."

// Incoming is one message as seen by the core: a conversation identifier, an
// opaque actor identifier, and the text. Nothing transport-specific crosses
// this boundary.
type Incoming struct {
	ChannelID string
	ActorID   string
	Text      string
}

// Service owns the request pipeline and the privileged command surface.
// Every command returns user-facing text; no error escapes to the caller as
// anything fatal.
type Service struct {
	faqs *faq.Store
	cfg  *config.Store
	ids  Identity
	mws  *middleware.Chain
	sel  *Selector
	logf func(format string, args ...any)
}

type Option func(*Service)

// WithSelector replaces the default time-seeded selector (tests pass a
// seeded one).
func WithSelector(sel *Selector) Option {
	return func(s *Service) { s.sel = sel }
}

// WithLogf replaces the persist-failure logger.
func WithLogf(logf func(format string, args ...any)) Option {
	return func(s *Service) { s.logf = logf }
}

func NewService(faqs *faq.Store, cfg *config.Store, ids Identity, mws *middleware.Chain, opts ...Option) *Service {
	s := &Service{
		faqs: faqs,
		cfg:  cfg,
		ids:  ids,
		mws:  mws,
		sel:  NewSelector(nil),
		logf: log.Printf,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) FAQs() *faq.Store      { return s.faqs }
func (s *Service) Config() *config.Store { return s.cfg }
func (s *Service) Selector() *Selector   { return s.sel }

// HandleMessage runs one inbound message through the middleware chain and
// returns the reply, if any. Command-prefixed messages and messages from
// privileged actors never auto-reply; those are handled on the command
// surface instead.
func (s *Service) HandleMessage(ctx context.Context, in Incoming) (string, bool, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return "", false, nil
	}
	if strings.HasPrefix(text, "/") || strings.HasPrefix(text, "!") {
		return "", false, nil
	}
	if s.ids != nil && s.ids.IsPrivileged(in.ActorID) {
		return "", false, nil
	}

	e := &middleware.Event{
		Name:      middleware.EventIncomingMessage,
		UserText:  text,
		ChannelID: in.ChannelID,
		ActorID:   in.ActorID,
		Context:   map[string]any{},
	}
	results, err := s.mws.Dispatch(ctx, e)
	if err != nil {
		return "", false, err
	}

	reply, canceled := results.Reply()
	if !canceled || reply == "" {
		return "", false, nil
	}

	out := &middleware.Event{
		Name:      middleware.EventOutgoingReply,
		UserText:  text,
		ReplyText: reply,
		ChannelID: in.ChannelID,
		ActorID:   in.ActorID,
		Context:   e.Context,
	}
	if _, err := s.mws.Dispatch(ctx, out); err != nil {
		// Outgoing listeners are observers (caches); their failure must not
		// eat an already-chosen reply.
		s.logf("warning: outgoing dispatch failed: %v", err)
		return reply, true, nil
	}
	return out.ReplyText, true, nil
}

/* ------------------------- Command surface ------------------------- */

// AddFAQ stores a new question/answer pair. Privileged.
func (s *Service) AddFAQ(actorID, question, answer string) string {
	if !s.privileged(actorID) {
		return noPermission
	}
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)
	if question == "" || answer == "" {
		return "Both a question and an answer are required."
	}
	if err := s.faqs.Add(question, answer); err != nil {
		if errors.Is(err, faq.ErrExists) {
			return "That FAQ already exists. Use /faq_view or /faq_remove."
		}
		s.persistWarn(err)
	}
	return fmt.Sprintf("FAQ added for: %s", question)
}

// RemoveFAQ deletes a pair by exact key, falling back to normalized
// equality. Privileged.
func (s *Service) RemoveFAQ(actorID, question string) string {
	if !s.privileged(actorID) {
		return noPermission
	}
	removed, err := s.faqs.Remove(strings.TrimSpace(question))
	if err != nil {
		if errors.Is(err, faq.ErrNotFound) {
			return "Could not find that FAQ."
		}
		s.persistWarn(err)
	}
	return fmt.Sprintf("Removed FAQ: %s", removed)
}

// ListFAQ renders the stored questions. The boolean signals that the
// listing is too long for a direct message and should be exported
// out-of-band (ExportListing provides the content). Open to all callers.
func (s *Service) ListFAQ() (string, bool) {
	keys := s.faqs.List()
	if len(keys) == 0 {
		return "No FAQs have been added yet.", false
	}
	display, tooLong := s.sel.FormatList(keys)
	if tooLong {
		return "FAQ list is long — sending as a file.", true
	}
	return "FAQs:\n" + display, false
}

// ExportListing returns the full rendered key list regardless of size, for
// out-of-band delivery.
func (s *Service) ExportListing() string {
	display, _ := s.sel.FormatList(s.faqs.List())
	return display
}

// ViewFAQ looks a question up: exact key first, then the resolver. A fuzzy
// hit discloses the matched key and its score. Open to all callers.
func (s *Service) ViewFAQ(question string) string {
	question = strings.TrimSpace(question)
	if answer, ok := s.faqs.Get(question); ok {
		return answer
	}
	out := match.Resolve(question, s.faqs, s.cfg.Threshold())
	if out.Matched {
		return fmt.Sprintf("Closest match (%.2f): %s\n\n%s", out.Score, out.Question, out.Answer)
	}
	return "No matching FAQ found."
}

// AddChannel puts a channel on the auto-reply allowlist. Privileged.
func (s *Service) AddChannel(actorID, channelID string) string {
	if !s.privileged(actorID) {
		return noPermission
	}
	if err := s.cfg.AddChannel(channelID); err != nil {
		if errors.Is(err, config.ErrChannelExists) {
			return "That channel is already configured."
		}
		s.persistWarn(err)
	}
	return fmt.Sprintf("Added %s to auto-FAQ channels.", channelID)
}

// RemoveChannel drops a channel from the allowlist. Privileged.
func (s *Service) RemoveChannel(actorID, channelID string) string {
	if !s.privileged(actorID) {
		return noPermission
	}
	if err := s.cfg.RemoveChannel(channelID); err != nil {
		if errors.Is(err, config.ErrChannelMissing) {
			return "That channel isn't configured."
		}
		s.persistWarn(err)
	}
	return fmt.Sprintf("Removed %s from auto-FAQ channels.", channelID)
}

// SetThreshold updates the similarity threshold. Privileged.
func (s *Service) SetThreshold(actorID string, value float64) string {
	if !s.privileged(actorID) {
		return noPermission
	}
	if err := s.cfg.SetThreshold(value); err != nil {
		if errors.Is(err, config.ErrThresholdRange) {
			return "Threshold must be between 0.0 and 1.0"
		}
		s.persistWarn(err)
	}
	return fmt.Sprintf("Set FAQ similarity threshold to %.2f", value)
}

func (s *Service) privileged(actorID string) bool {
	return s.ids != nil && s.ids.IsPrivileged(actorID)
}

// persistWarn reports a persist failure loudly. The mutation already
// happened in memory and is reported to the user as a success; disk catches
// up on the next successful save.
func (s *Service) persistWarn(err error) {
	s.logf("error: state saved in memory but not on disk: %v", err)
}
