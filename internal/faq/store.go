// Package faq owns the question/answer store behind the matching engine.
package faq

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"maxy/internal/match"
)

var (
	// ErrExists is returned by Add when the exact question key is already
	// stored. Uniqueness is exact-string only; two differently-punctuated
	// variants of the same question may coexist.
	ErrExists = errors.New("faq already exists")

	// ErrNotFound is returned by Remove when neither an exact nor a
	// normalized-equality key matches.
	ErrNotFound = errors.New("faq not found")

	// ErrPersist wraps a failed save. The in-memory mutation is kept; memory
	// may run ahead of disk until the next successful save.
	ErrPersist = errors.New("faq store persist failed")
)

// Persister is the save/load collaborator injected into the store.
type Persister interface {
	Load(v any) error
	Save(v any) error
}

// Entry is one stored question/answer pair, persisted as authored.
type Entry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// document is the on-disk shape: an ordered array of entries, so insertion
// order survives a save/load round trip. Legacy files holding a plain
// {"question": "answer"} object are still accepted; their keys are taken in
// sorted order since the object never carried one.
type document []Entry

func (d *document) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var m map[string]string
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		*d = (*d)[:0]
		for _, k := range keys {
			*d = append(*d, Entry{Question: k, Answer: m[k]})
		}
		return nil
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	*d = entries
	return nil
}

// Store maps question text to answer text, preserving insertion order for
// enumeration. All access is serialized: inbound events may arrive
// concurrently from a transport's handler pool.
type Store struct {
	mu      sync.RWMutex
	persist Persister
	keys    []string
	answers map[string]string
}

// Open builds a store and loads any persisted entries through p. A nil
// persister yields a memory-only store (used by tests).
func Open(p Persister) (*Store, error) {
	s := &Store{persist: p, answers: make(map[string]string)}
	if p == nil {
		return s, nil
	}
	var doc document
	if err := p.Load(&doc); err != nil {
		return s, err
	}
	for _, e := range doc {
		if _, dup := s.answers[e.Question]; dup {
			continue
		}
		s.keys = append(s.keys, e.Question)
		s.answers[e.Question] = e.Answer
	}
	return s, nil
}

// Add stores a new pair. The duplicate check is exact-string only.
func (s *Store) Add(question, answer string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.answers[question]; ok {
		return ErrExists
	}
	s.keys = append(s.keys, question)
	s.answers[question] = answer
	return s.persistLocked()
}

// Remove deletes a pair and reports which key was actually removed: the
// exact key if present, otherwise the first key (in insertion order) equal
// to the argument under normalization.
func (s *Store) Remove(question string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := question
	if _, ok := s.answers[target]; !ok {
		target = ""
		want := match.Normalize(question)
		for _, k := range s.keys {
			if match.Normalize(k) == want {
				target = k
				break
			}
		}
		if target == "" {
			return "", ErrNotFound
		}
	}

	delete(s.answers, target)
	for i, k := range s.keys {
		if k == target {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)
			break
		}
	}
	return target, s.persistLocked()
}

// Get looks up an answer under exact key equality.
func (s *Store) Get(question string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.answers[question]
	return a, ok
}

// List returns the question keys in insertion order.
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Len reports the number of stored pairs.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.keys)
}

func (s *Store) persistLocked() error {
	if s.persist == nil {
		return nil
	}
	doc := make(document, 0, len(s.keys))
	for _, k := range s.keys {
		doc = append(doc, Entry{Question: k, Answer: s.answers[k]})
	}
	if err := s.persist.Save(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}
