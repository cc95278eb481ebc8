package llmfallback

import (
	"context"
	"fmt"
	"os"
	"sync"

	"maxy/internal/llm"
	mw "maxy/internal/middleware"
)

func init() {
	mw.Register(&LLMFallback{})
}

// LLMFallback optionally asks a local model when no FAQ matched. It sits
// between faq_match and the canned fallback; any error falls through so the
// canned fallback still answers. Disabled unless MAXY_LLM_FALLBACK is set.
type LLMFallback struct {
	once    sync.Once
	client  *llm.Client
	initErr error
}

func (*LLMFallback) ID() string    { return "llm_fallback" }
func (*LLMFallback) Priority() int { return 20 }

func (*LLMFallback) ShouldLoad(_ context.Context, e *mw.Event) bool {
	if e == nil || e.Name != mw.EventIncomingMessage {
		return false
	}
	v := os.Getenv("MAXY_LLM_FALLBACK")
	return v == "1" || v == "true"
}

func (l *LLMFallback) OnEvent(ctx context.Context, e *mw.Event) (mw.Decision, error) {
	if e == nil || e.Name != mw.EventIncomingMessage {
		return mw.Decision{}, nil
	}

	l.once.Do(func() {
		model := os.Getenv("MAXY_LLM_MODEL")
		if model == "" {
			model = "llama3.2"
		}
		l.client, l.initErr = llm.New(model, os.Getenv("MAXY_OLLAMA_URL"))
	})
	if l.initErr != nil {
		return mw.Decision{Reason: fmt.Sprintf("model unavailable: %v", l.initErr)}, nil
	}

	answer, err := l.client.Answer(ctx, e.UserText)
	if err != nil {
		return mw.Decision{Reason: fmt.Sprintf("model error: %v", err)}, nil
	}
	return mw.Decision{
		Cancel:      true,
		ReplaceText: &answer,
		Reason:      "answered by model",
	}, nil
}
