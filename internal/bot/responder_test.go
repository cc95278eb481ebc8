package bot

import (
	"math/rand"
	"strings"
	"testing"
)

func TestFallbackDrawsFromCannedSet(t *testing.T) {
	sel := NewSelector(rand.New(rand.NewSource(7)))
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		msg := sel.Fallback()
		found := false
		for _, want := range fallbackMessages {
			if msg == want {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("unexpected fallback message %q", msg)
		}
		seen[msg] = true
	}
	if len(seen) != len(fallbackMessages) {
		t.Fatalf("expected all %d messages over 200 draws, saw %d", len(fallbackMessages), len(seen))
	}
}

func TestFallbackDeterministicForSeed(t *testing.T) {
	a := NewSelector(rand.New(rand.NewSource(99)))
	b := NewSelector(rand.New(rand.NewSource(99)))
	for i := 0; i < 20; i++ {
		if got, want := a.Fallback(), b.Fallback(); got != want {
			t.Fatalf("draw %d differs: %q vs %q", i, got, want)
		}
	}
}

func TestFormatListRendersDashLines(t *testing.T) {
	sel := NewSelector(rand.New(rand.NewSource(1)))
	display, tooLong := sel.FormatList([]string{"How do I reset my password?", "What are your hours?"})
	want := "- How do I reset my password?\n- What are your hours?"
	if display != want {
		t.Fatalf("display = %q, want %q", display, want)
	}
	if tooLong {
		t.Fatalf("short listing flagged too long")
	}
}

func TestFormatListFlagsOversizedListing(t *testing.T) {
	sel := NewSelector(rand.New(rand.NewSource(1)))
	sel.limit = 20

	display, tooLong := sel.FormatList([]string{"short"})
	if tooLong {
		t.Fatalf("%q should fit within 20 chars", display)
	}

	_, tooLong = sel.FormatList([]string{strings.Repeat("a", 30)})
	if !tooLong {
		t.Fatalf("30-char entry must exceed the 20-char limit")
	}
}

func TestFormatListEmpty(t *testing.T) {
	sel := NewSelector(nil)
	display, tooLong := sel.FormatList(nil)
	if display != "" || tooLong {
		t.Fatalf("empty listing should be empty and short, got %q %v", display, tooLong)
	}
}
