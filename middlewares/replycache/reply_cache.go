package replycache

import (
	"context"
	"sync"
	"time"

	"maxy/internal/match"
	mw "maxy/internal/middleware"
)

func init() {
	mw.Register(&ReplyCache{
		cache: make(map[string]cacheEntry),
	})
}

const ttl = 5 * time.Minute

type cacheEntry struct {
	response  string
	timestamp time.Time
}

// ReplyCache skips resolution when the same (normalized) question was
// matched on the same channel recently. Only matched answers are cached;
// randomized fallbacks stay random.
type ReplyCache struct {
	mu    sync.Mutex
	cache map[string]cacheEntry
}

func (*ReplyCache) ID() string    { return "reply_cache" }
func (*ReplyCache) Priority() int { return 110 } // after channel_gate, before faq_match

func (r *ReplyCache) OnEvent(_ context.Context, e *mw.Event) (mw.Decision, error) {
	if e == nil {
		return mw.Decision{}, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	key := cacheKey(e.ChannelID, e.UserText)

	switch e.Name {
	case mw.EventIncomingMessage:
		if entry, ok := r.cache[key]; ok {
			if time.Since(entry.timestamp) < ttl {
				reply := entry.response
				return mw.Decision{
					Cancel:      true,
					ReplaceText: &reply,
					Reason:      "served from reply cache",
				}, nil
			}
			delete(r.cache, key)
		}
	case mw.EventOutgoingReply:
		matched, _ := e.Context["faq_matched"].(bool)
		if matched && e.UserText != "" && e.ReplyText != "" {
			r.cache[key] = cacheEntry{
				response:  e.ReplyText,
				timestamp: time.Now(),
			}
		}
	}

	return mw.Decision{}, nil
}

func cacheKey(channelID, text string) string {
	return channelID + "\x00" + match.Normalize(text)
}
