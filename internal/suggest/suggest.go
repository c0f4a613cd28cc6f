// Package suggest holds the background editing suggestions for a document and
// reconciles fresh batches from the backend against them.
//
// A Set never rewrites or reorders what it already holds. New candidates are
// only admitted when their Find text is present in the current document and
// not already claimed by a held suggestion, so results computed against an
// older snapshot of the document are filtered out on arrival.
package suggest

import (
	"strings"

	"github.com/google/uuid"
)

// Candidate is an edit proposed by the backend.
type Candidate struct {
	Find        string
	ReplaceWith string
	Reason      string
}

// Suggestion is a Candidate admitted into a Set.
type Suggestion struct {
	ID string
	Candidate
}

// Set is an insertion-ordered collection of suggestions keyed by ID. It is not
// safe for concurrent use; the UI loop owns it.
type Set struct {
	order []string
	byID  map[string]Suggestion
	newID func() string
}

// Option configures a Set.
type Option func(*Set)

// WithIDGenerator overrides how suggestion IDs are minted.
func WithIDGenerator(gen func() string) Option {
	return func(s *Set) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// NewSet returns an empty Set.
func NewSet(opts ...Option) *Set {
	s := &Set{
		byID:  make(map[string]Suggestion),
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reconcile admits the candidates that still apply to document and returns the
// suggestions it added, in candidate order.
func (s *Set) Reconcile(candidates []Candidate, document string) []Suggestion {
	if len(candidates) == 0 {
		return nil
	}
	claimed := make(map[string]struct{}, len(s.order)+len(candidates))
	for _, id := range s.order {
		claimed[s.byID[id].Find] = struct{}{}
	}

	var added []Suggestion
	for _, c := range candidates {
		if c.Find == "" || !strings.Contains(document, c.Find) {
			continue
		}
		if _, dup := claimed[c.Find]; dup {
			continue
		}
		claimed[c.Find] = struct{}{}

		sug := Suggestion{ID: s.mintID(), Candidate: c}
		s.order = append(s.order, sug.ID)
		s.byID[sug.ID] = sug
		added = append(added, sug)
	}
	return added
}

func (s *Set) mintID() string {
	for {
		id := s.newID()
		if _, taken := s.byID[id]; !taken && id != "" {
			return id
		}
	}
}

// Accept applies the suggestion to the first occurrence of its Find text and
// removes it. Unknown IDs leave the document untouched and report false.
func (s *Set) Accept(id, document string) (string, bool) {
	sug, ok := s.byID[id]
	if !ok {
		return document, false
	}
	s.remove(id)
	return ReplaceFirst(document, sug.Find, sug.ReplaceWith), true
}

// Reject drops the suggestion. It reports whether anything was removed.
func (s *Set) Reject(id string) bool {
	if _, ok := s.byID[id]; !ok {
		return false
	}
	s.remove(id)
	return true
}

func (s *Set) remove(id string) {
	delete(s.byID, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

// Get returns the suggestion with the given ID.
func (s *Set) Get(id string) (Suggestion, bool) {
	sug, ok := s.byID[id]
	return sug, ok
}

// All returns the held suggestions in insertion order.
func (s *Set) All() []Suggestion {
	out := make([]Suggestion, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// Len reports how many suggestions are held.
func (s *Set) Len() int {
	return len(s.order)
}

// ReplaceFirst replaces the first occurrence of old in document. A document
// that does not contain old is returned unchanged.
func ReplaceFirst(document, old, replacement string) string {
	if old == "" {
		return document
	}
	return strings.Replace(document, old, replacement, 1)
}
