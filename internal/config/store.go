// Package config owns the engine's runtime configuration: the auto-reply
// channel allowlist and the similarity threshold.
package config

import (
	"errors"
	"fmt"
	"sync"
)

// DefaultThreshold is the minimum similarity score required to accept an
// automatic match when nothing is persisted.
const DefaultThreshold = 0.60

var (
	// ErrThresholdRange rejects thresholds outside [0.0, 1.0]; the stored
	// value is left unchanged.
	ErrThresholdRange = errors.New("threshold must be between 0.0 and 1.0")

	// ErrChannelExists is returned when adding a channel already configured.
	ErrChannelExists = errors.New("channel already configured")

	// ErrChannelMissing is returned when removing a channel that isn't
	// configured.
	ErrChannelMissing = errors.New("channel not configured")

	// ErrPersist wraps a failed save; the in-memory mutation is kept.
	ErrPersist = errors.New("config store persist failed")
)

// Persister is the save/load collaborator injected into the store.
type Persister interface {
	Load(v any) error
	Save(v any) error
}

// document is the on-disk shape, using the field names the bot has always
// written.
type document struct {
	Channels  []string `json:"faq_channels"`
	Threshold float64  `json:"threshold"`
}

// Store holds the channel allowlist (insertion order preserved for
// deterministic listing) and the similarity threshold.
type Store struct {
	mu        sync.RWMutex
	persist   Persister
	channels  []string
	threshold float64
}

// Open builds a store from persisted state, falling back to defaults when
// the document is missing, corrupt, or carries an out-of-range threshold.
func Open(p Persister) (*Store, error) {
	s := &Store{persist: p, threshold: DefaultThreshold}
	if p == nil {
		return s, nil
	}
	doc := document{Threshold: DefaultThreshold}
	if err := p.Load(&doc); err != nil {
		return s, err
	}
	if doc.Threshold >= 0.0 && doc.Threshold <= 1.0 {
		s.threshold = doc.Threshold
	}
	seen := make(map[string]struct{}, len(doc.Channels))
	for _, ch := range doc.Channels {
		if _, dup := seen[ch]; dup {
			continue
		}
		seen[ch] = struct{}{}
		s.channels = append(s.channels, ch)
	}
	return s, nil
}

// AddChannel appends a channel to the auto-reply allowlist.
func (s *Store) AddChannel(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.channels {
		if ch == id {
			return ErrChannelExists
		}
	}
	s.channels = append(s.channels, id)
	return s.persistLocked()
}

// RemoveChannel drops a channel from the allowlist.
func (s *Store) RemoveChannel(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, ch := range s.channels {
		if ch == id {
			s.channels = append(s.channels[:i], s.channels[i+1:]...)
			return s.persistLocked()
		}
	}
	return ErrChannelMissing
}

// SetThreshold updates the similarity threshold. Out-of-range values are
// rejected, not clamped, and nothing is mutated on rejection.
func (s *Store) SetThreshold(v float64) error {
	if v < 0.0 || v > 1.0 {
		return ErrThresholdRange
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threshold = v
	return s.persistLocked()
}

// Channels returns the allowlist in insertion order.
func (s *Store) Channels() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.channels))
	copy(out, s.channels)
	return out
}

// HasChannel reports whether id is on the allowlist.
func (s *Store) HasChannel(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.channels {
		if ch == id {
			return true
		}
	}
	return false
}

// Threshold returns the current similarity threshold.
func (s *Store) Threshold() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.threshold
}

func (s *Store) persistLocked() error {
	if s.persist == nil {
		return nil
	}
	doc := document{
		Channels:  append([]string(nil), s.channels...),
		Threshold: s.threshold,
	}
	if err := s.persist.Save(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}
