package faqmatch

import (
	"context"
	"testing"

	"maxy/internal/config"
	"maxy/internal/faq"
	mw "maxy/internal/middleware"
)

func setup(t *testing.T) (*faq.Store, *config.Store, *Matcher) {
	t.Helper()
	faqs, err := faq.Open(nil)
	if err != nil {
		t.Fatalf("open faq store: %v", err)
	}
	cfg, err := config.Open(nil)
	if err != nil {
		t.Fatalf("open config store: %v", err)
	}
	return faqs, cfg, New(faqs, cfg)
}

func TestMatcherAnswersAboveThreshold(t *testing.T) {
	faqs, _, m := setup(t)
	if err := faqs.Add("What are your hours?", "9-5 Mon-Fri"); err != nil {
		t.Fatalf("add: %v", err)
	}

	e := &mw.Event{
		Name:     mw.EventIncomingMessage,
		UserText: "what are your hours",
		Context:  map[string]any{},
	}
	dec, err := m.OnEvent(context.Background(), e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !dec.Cancel || dec.ReplaceText == nil {
		t.Fatalf("expected canceling answer, got %+v", dec)
	}
	if *dec.ReplaceText != "9-5 Mon-Fri" {
		t.Fatalf("answer = %q", *dec.ReplaceText)
	}
	if matched, _ := e.Context["faq_matched"].(bool); !matched {
		t.Fatalf("expected faq_matched marker in context")
	}
}

func TestMatcherRecordsClosestScoreOnMiss(t *testing.T) {
	faqs, _, m := setup(t)
	_ = faqs.Add("What are your hours?", "9-5 Mon-Fri")

	e := &mw.Event{
		Name:     mw.EventIncomingMessage,
		UserText: "banana",
		Context:  map[string]any{},
	}
	dec, err := m.OnEvent(context.Background(), e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dec.Cancel {
		t.Fatalf("miss must not cancel, got %+v", dec)
	}
	score, ok := e.Context["closest_score"].(float64)
	if !ok {
		t.Fatalf("expected closest_score in context")
	}
	if score >= 0.60 {
		t.Fatalf("closest score for unrelated input = %v", score)
	}
}

func TestMatcherEmptyStore(t *testing.T) {
	_, _, m := setup(t)

	e := &mw.Event{
		Name:     mw.EventIncomingMessage,
		UserText: "anything at all",
		Context:  map[string]any{},
	}
	dec, err := m.OnEvent(context.Background(), e)
	if err != nil {
		t.Fatalf("empty store must not error: %v", err)
	}
	if dec.Cancel {
		t.Fatalf("empty store must not produce an answer")
	}
	if score, _ := e.Context["closest_score"].(float64); score != 0.0 {
		t.Fatalf("closest score on empty store = %v, want 0.0", score)
	}
}

func TestMatcherHonorsLoweredThreshold(t *testing.T) {
	faqs, cfg, m := setup(t)
	_ = faqs.Add("How do I reset my password?", "Use the account page.")
	if err := cfg.SetThreshold(0.30); err != nil {
		t.Fatalf("set threshold: %v", err)
	}

	e := &mw.Event{
		Name:     mw.EventIncomingMessage,
		UserText: "how do I reset a password",
		Context:  map[string]any{},
	}
	dec, err := m.OnEvent(context.Background(), e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !dec.Cancel || dec.ReplaceText == nil || *dec.ReplaceText != "Use the account page." {
		t.Fatalf("expected a match at the lowered threshold, got %+v", dec)
	}
}
