package bot_test

import (
	"context"
	"math/rand"
	"path/filepath"
	"strings"
	"testing"

	"maxy/internal/bot"
	"maxy/internal/config"
	"maxy/internal/faq"
	"maxy/internal/middleware"
	"maxy/internal/storage"
	"maxy/middlewares/channelgate"
	"maxy/middlewares/faqmatch"
	"maxy/middlewares/fallback"
)

const owner = "owner"

func ownerOnly() bot.Identity {
	return bot.IdentityFunc(func(actorID string) bool { return actorID == owner })
}

// newService builds a service over temp-file stores with the auto-reply
// pipeline: channel gate, FAQ matcher, canned fallback.
func newService(t *testing.T) *bot.Service {
	t.Helper()
	dir := t.TempDir()

	faqs, err := faq.Open(storage.NewFile(filepath.Join(dir, "faqs.json")))
	if err != nil {
		t.Fatalf("open faq store: %v", err)
	}
	cfg, err := config.Open(storage.NewFile(filepath.Join(dir, "config.json")))
	if err != nil {
		t.Fatalf("open config store: %v", err)
	}

	chain := middleware.NewChain(
		channelgate.New(cfg),
		faqmatch.New(faqs, cfg),
		fallback.New(bot.NewSelector(rand.New(rand.NewSource(1)))),
	)
	return bot.NewService(faqs, cfg, ownerOnly(), chain)
}

func TestAutoReplyOnConfiguredChannel(t *testing.T) {
	s := newService(t)
	s.AddFAQ(owner, "What are your hours?", "9-5 Mon-Fri")
	s.AddChannel(owner, "general")

	reply, replied, err := s.HandleMessage(context.Background(), bot.Incoming{
		ChannelID: "general",
		ActorID:   "guest",
		Text:      "what ARE your hours",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !replied || reply != "9-5 Mon-Fri" {
		t.Fatalf("got (%q, %v), want (\"9-5 Mon-Fri\", true)", reply, replied)
	}
}

func TestFallbackReplyWhenNothingMatches(t *testing.T) {
	s := newService(t)
	s.AddFAQ(owner, "What are your hours?", "9-5 Mon-Fri")
	s.AddChannel(owner, "general")

	reply, replied, err := s.HandleMessage(context.Background(), bot.Incoming{
		ChannelID: "general",
		ActorID:   "guest",
		Text:      "zzzzzz qqqqqq",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !replied || reply == "" {
		t.Fatalf("expected a canned fallback, got (%q, %v)", reply, replied)
	}
	if reply == "9-5 Mon-Fri" {
		t.Fatalf("fallback must not be a stored answer")
	}
}

func TestSilentOnUnlistedChannel(t *testing.T) {
	s := newService(t)
	s.AddFAQ(owner, "What are your hours?", "9-5 Mon-Fri")
	s.AddChannel(owner, "general")

	reply, replied, err := s.HandleMessage(context.Background(), bot.Incoming{
		ChannelID: "random",
		ActorID:   "guest",
		Text:      "what are your hours",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if replied || reply != "" {
		t.Fatalf("unlisted channel must stay silent, got (%q, %v)", reply, replied)
	}
}

func TestNoAutoReplyForCommandsEmptyOrPrivileged(t *testing.T) {
	s := newService(t)
	s.AddFAQ(owner, "What are your hours?", "9-5 Mon-Fri")
	s.AddChannel(owner, "general")

	cases := []struct {
		name string
		in   bot.Incoming
	}{
		{"empty", bot.Incoming{ChannelID: "general", ActorID: "guest", Text: "   "}},
		{"slash command", bot.Incoming{ChannelID: "general", ActorID: "guest", Text: "/faq_list"}},
		{"bang command", bot.Incoming{ChannelID: "general", ActorID: "guest", Text: "!help"}},
		{"privileged actor", bot.Incoming{ChannelID: "general", ActorID: owner, Text: "what are your hours"}},
	}
	for _, tc := range cases {
		reply, replied, err := s.HandleMessage(context.Background(), tc.in)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if replied || reply != "" {
			t.Fatalf("%s: expected silence, got (%q, %v)", tc.name, reply, replied)
		}
	}
}

func TestCommandSurfaceRequiresPrivilege(t *testing.T) {
	s := newService(t)

	want := "You don't have permission to use this command."
	if got := s.AddFAQ("guest", "q", "a"); got != want {
		t.Fatalf("AddFAQ = %q, want %q", got, want)
	}
	if got := s.RemoveFAQ("guest", "q"); got != want {
		t.Fatalf("RemoveFAQ = %q, want %q", got, want)
	}
	if got := s.AddChannel("guest", "general"); got != want {
		t.Fatalf("AddChannel = %q, want %q", got, want)
	}
	if got := s.RemoveChannel("guest", "general"); got != want {
		t.Fatalf("RemoveChannel = %q, want %q", got, want)
	}
	if got := s.SetThreshold("guest", 0.5); got != want {
		t.Fatalf("SetThreshold = %q, want %q", got, want)
	}
}

func TestCommandSurfaceResponses(t *testing.T) {
	s := newService(t)

	if got := s.AddFAQ(owner, "What are your hours?", "9-5 Mon-Fri"); got != "FAQ added for: What are your hours?" {
		t.Fatalf("AddFAQ = %q", got)
	}
	if got := s.AddFAQ(owner, "What are your hours?", "different"); got != "That FAQ already exists. Use /faq_view or /faq_remove." {
		t.Fatalf("duplicate AddFAQ = %q", got)
	}
	if got := s.AddFAQ(owner, "", "answer"); got != "Both a question and an answer are required." {
		t.Fatalf("blank AddFAQ = %q", got)
	}

	if got := s.ViewFAQ("What are your hours?"); got != "9-5 Mon-Fri" {
		t.Fatalf("exact ViewFAQ = %q", got)
	}
	if got := s.ViewFAQ("what are your h0urs"); !strings.HasPrefix(got, "Closest match (") || !strings.HasSuffix(got, "9-5 Mon-Fri") {
		t.Fatalf("fuzzy ViewFAQ = %q", got)
	}
	if got := s.ViewFAQ("zzzz"); got != "No matching FAQ found." {
		t.Fatalf("miss ViewFAQ = %q", got)
	}

	listing, tooLong := s.ListFAQ()
	if tooLong || listing != "FAQs:\n- What are your hours?" {
		t.Fatalf("ListFAQ = (%q, %v)", listing, tooLong)
	}

	if got := s.SetThreshold(owner, 1.5); got != "Threshold must be between 0.0 and 1.0" {
		t.Fatalf("SetThreshold out of range = %q", got)
	}
	if got := s.SetThreshold(owner, 0.4); got != "Set FAQ similarity threshold to 0.40" {
		t.Fatalf("SetThreshold = %q", got)
	}

	if got := s.AddChannel(owner, "general"); got != "Added general to auto-FAQ channels." {
		t.Fatalf("AddChannel = %q", got)
	}
	if got := s.AddChannel(owner, "general"); got != "That channel is already configured." {
		t.Fatalf("duplicate AddChannel = %q", got)
	}
	if got := s.RemoveChannel(owner, "general"); got != "Removed general from auto-FAQ channels." {
		t.Fatalf("RemoveChannel = %q", got)
	}
	if got := s.RemoveChannel(owner, "general"); got != "That channel isn't configured." {
		t.Fatalf("missing RemoveChannel = %q", got)
	}

	if got := s.RemoveFAQ(owner, "what are your hours?"); got != "Removed FAQ: What are your hours?" {
		t.Fatalf("normalized RemoveFAQ = %q", got)
	}
	if got := s.RemoveFAQ(owner, "never added"); got != "Could not find that FAQ." {
		t.Fatalf("missing RemoveFAQ = %q", got)
	}
}

func TestEmptyListing(t *testing.T) {
	s := newService(t)
	listing, tooLong := s.ListFAQ()
	if tooLong || listing != "No FAQs have been added yet." {
		t.Fatalf("ListFAQ = (%q, %v)", listing, tooLong)
	}
}
