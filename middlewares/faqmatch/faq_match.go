package faqmatch

import (
	"context"
	"fmt"

	"maxy/internal/config"
	"maxy/internal/faq"
	"maxy/internal/match"
	mw "maxy/internal/middleware"
)

// Matcher is the auto-reply core: it resolves the incoming text against the
// FAQ store and, when the best score clears the configured threshold,
// answers with the stored text and stops the pipeline. On a miss it records
// the closest score for later middlewares and the debug log.
type Matcher struct {
	faqs *faq.Store
	cfg  *config.Store
}

func New(faqs *faq.Store, cfg *config.Store) *Matcher {
	return &Matcher{faqs: faqs, cfg: cfg}
}

func (*Matcher) ID() string    { return "faq_match" }
func (*Matcher) Priority() int { return 100 }

func (*Matcher) ShouldLoad(_ context.Context, e *mw.Event) bool {
	return e != nil && e.Name == mw.EventIncomingMessage
}

func (m *Matcher) OnEvent(_ context.Context, e *mw.Event) (mw.Decision, error) {
	if e == nil || e.Name != mw.EventIncomingMessage {
		return mw.Decision{}, nil
	}

	threshold := m.cfg.Threshold()
	out := match.Resolve(e.UserText, m.faqs, threshold)

	if out.Matched {
		if e.Context != nil {
			e.Context["faq_matched"] = true
			e.Context["faq_question"] = out.Question
			e.Context["faq_score"] = out.Score
		}
		answer := out.Answer
		return mw.Decision{
			Cancel:      true,
			ReplaceText: &answer,
			Reason:      fmt.Sprintf("matched %q (score %.2f)", out.Question, out.Score),
		}, nil
	}

	if e.Context != nil {
		e.Context["closest_score"] = out.Score
	}
	return mw.Decision{
		Reason: fmt.Sprintf("no match above %.2f (closest %.2f)", threshold, out.Score),
	}, nil
}
