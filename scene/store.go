// Package scene owns the authoritative, ordered collection of drawable
// elements and its change-notification machinery.
//
// The Store is the single source of truth for scene content. It is mutated
// exclusively through ReplaceAll (helpers like UpsertElement build a new
// full collection internally), which atomically swaps the collection,
// rebuilds derived lookups, re-randomizes the revision token, and notifies
// observers synchronously in registration order.
//
// The Store expects to be driven from a single goroutine, matching the
// cooperative scheduling model of the engine.
package scene

import (
	"errors"

	"github.com/google/uuid"

	"github.com/gogpu/board"
)

// Store API misuse errors. These indicate programmer errors and are
// returned immediately rather than logged.
var (
	// ErrDuplicateObserver is returned when an observer is subscribed twice.
	ErrDuplicateObserver = errors.New("scene: duplicate observer")

	// ErrUnknownObserver is returned when unsubscribing an observer that
	// is not (or no longer) registered.
	ErrUnknownObserver = errors.New("scene: unknown observer")
)

// Observer is notified synchronously after every completed ReplaceAll.
//
// Observer values must be comparable (typically a pointer to the
// subscribing component): identity is what makes duplicate registration
// and unsubscription well-defined.
type Observer interface {
	SceneReplaced(*Store)
}

// Store owns the ordered element collection, a derived non-deleted subset,
// an identifier index, and a scene-wide revision token.
//
// The revision token changes unconditionally on every ReplaceAll, even when
// the new collection is structurally identical. Downstream caches keyed on
// "scene state" key on this token instead of polling element contents.
type Store struct {
	elements   []*board.Element
	nonDeleted []*board.Element
	byID       map[string]*board.Element
	revision   string

	observers []Observer

	// ReplaceAll calls issued from inside an observer callback are queued
	// and applied after the current notification pass, never recursed.
	notifying bool
	queued    [][]*board.Element
}

// NewStore creates an empty store with a fresh revision token.
func NewStore() *Store {
	return &Store{
		byID:     make(map[string]*board.Element),
		revision: uuid.NewString(),
	}
}

// ReplaceAll atomically swaps the entire element collection.
//
// The collection is re-sorted by fractional ordering key, the non-deleted
// subset and identifier index are rebuilt, the revision token is
// re-randomized, and all observers are invoked in registration order before
// ReplaceAll returns.
//
// ReplaceAll is safe to call from within an observer callback: the nested
// call is queued and applied once the current notification pass completes.
func (s *Store) ReplaceAll(elements []*board.Element) {
	if s.notifying {
		s.queued = append(s.queued, elements)
		return
	}
	s.apply(elements)
	for len(s.queued) > 0 {
		next := s.queued[0]
		s.queued = s.queued[1:]
		s.apply(next)
	}
}

// apply performs one swap-and-notify pass.
func (s *Store) apply(elements []*board.Element) {
	els := make([]*board.Element, len(elements))
	copy(els, elements)
	board.SortByOrder(els)

	byID := make(map[string]*board.Element, len(els))
	nonDeleted := make([]*board.Element, 0, len(els))
	for _, el := range els {
		if prev, ok := byID[el.ID]; ok && prev != el {
			board.Logger().Warn("scene: duplicate element id replaced",
				"id", el.ID)
		}
		byID[el.ID] = el
		if !el.Deleted {
			nonDeleted = append(nonDeleted, el)
		}
	}

	s.elements = els
	s.nonDeleted = nonDeleted
	s.byID = byID
	s.revision = uuid.NewString()

	// Snapshot the registry: an observer may unsubscribe itself (or
	// others) from inside its callback, and mutating s.observers under
	// the range would skip the next observer in this pass.
	obs := make([]Observer, len(s.observers))
	copy(obs, s.observers)

	s.notifying = true
	for _, o := range obs {
		o.SceneReplaced(s)
	}
	s.notifying = false
}

// Get returns the element with the given identifier, deleted or not.
func (s *Store) Get(id string) (*board.Element, bool) {
	el, ok := s.byID[id]
	return el, ok
}

// NonDeleted returns the ordered non-deleted subset. The slice is rebuilt
// only inside ReplaceAll; callers must not mutate it.
func (s *Store) NonDeleted() []*board.Element {
	return s.nonDeleted
}

// Elements returns the full ordered collection, including soft-deleted
// elements. Callers must not mutate the returned slice.
func (s *Store) Elements() []*board.Element {
	return s.elements
}

// Len returns the total element count, including deleted elements.
func (s *Store) Len() int { return len(s.elements) }

// Revision returns the current scene revision token.
func (s *Store) Revision() string { return s.revision }

// Subscribe registers an observer and returns an unsubscribe function.
// Registering the same observer identity twice fails with
// ErrDuplicateObserver.
func (s *Store) Subscribe(o Observer) (func() error, error) {
	for _, existing := range s.observers {
		if existing == o {
			return nil, ErrDuplicateObserver
		}
	}
	s.observers = append(s.observers, o)
	return func() error { return s.Unsubscribe(o) }, nil
}

// Unsubscribe removes a previously registered observer. Removing an
// observer that is not registered fails with ErrUnknownObserver.
func (s *Store) Unsubscribe(o Observer) error {
	for i, existing := range s.observers {
		if existing == o {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return nil
		}
	}
	return ErrUnknownObserver
}

// UpsertElement inserts or replaces a single element by identifier,
// internally constructing a new full collection. New elements without a
// fractional index are placed after the current tail.
func (s *Store) UpsertElement(el *board.Element) {
	if el.FracIndex == "" {
		lo := ""
		if n := len(s.elements); n > 0 {
			lo = s.elements[n-1].FracIndex
		}
		el.FracIndex = board.OrderKeyBetween(lo, "")
	}

	next := make([]*board.Element, 0, len(s.elements)+1)
	replaced := false
	for _, existing := range s.elements {
		if existing.ID == el.ID {
			next = append(next, el)
			replaced = true
			continue
		}
		next = append(next, existing)
	}
	if !replaced {
		next = append(next, el)
	}
	s.ReplaceAll(next)
}

// DeleteElement soft-deletes an element: the Deleted flag is set and the
// version bumped, but the element stays in the collection for history.
// Unknown identifiers are a no-op.
func (s *Store) DeleteElement(id string) {
	el, ok := s.byID[id]
	if !ok || el.Deleted {
		return
	}
	next := make([]*board.Element, 0, len(s.elements))
	for _, existing := range s.elements {
		if existing.ID == id {
			deleted := existing.Clone()
			deleted.Deleted = true
			deleted.Bump()
			next = append(next, deleted)
			continue
		}
		next = append(next, existing)
	}
	s.ReplaceAll(next)
}
