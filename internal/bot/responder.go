package bot

import (
	"math/rand"
	"strings"
	"sync"
	"time"
)

// ListLimit is the largest rendered FAQ listing that still fits a direct
// chat message; anything longer is signaled for out-of-band export.
const ListLimit = 1900

// fallbackMessages is the fixed set one of which is sent, chosen uniformly
// at random, when no FAQ clears the threshold.
var fallbackMessages = []string{
	"Hmm, I don't have an answer for that yet. Could you try rephrasing?",
	"I'm not sure about that. Maybe check /faq_list or ask a staff member.",
	"That one's new to me 👀 want me to tell the team to add this question?",
	"I couldn't find anything on that, sorry! You can open a ticket or ask staff.",
}

// Selector picks fallback messages and decides listing delivery. The random
// source is injectable so tests can pin the selection.
type Selector struct {
	mu    sync.Mutex
	rng   *rand.Rand
	limit int
}

// NewSelector builds a selector around rng; a nil rng gets a time-seeded
// source.
func NewSelector(rng *rand.Rand) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Selector{rng: rng, limit: ListLimit}
}

// Fallback returns one of the canned no-match replies.
func (s *Selector) Fallback() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fallbackMessages[s.rng.Intn(len(fallbackMessages))]
}

// FormatList renders the ordered key list as "- key" lines and reports
// whether it is too long for direct delivery. How an oversized listing gets
// delivered (file upload, paste service) is the transport's business.
func (s *Selector) FormatList(keys []string) (string, bool) {
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, "- "+k)
	}
	display := strings.Join(lines, "\n")
	return display, len(display) > s.limit
}
