package scene

import (
	"errors"
	"testing"

	"github.com/gogpu/board"
)

// recorder is a test observer that logs each notification.
type recorder struct {
	name string
	log  *[]string
}

func (r *recorder) SceneReplaced(*Store) {
	*r.log = append(*r.log, r.name)
}

func rect(frac string) *board.Element {
	el := board.NewElement(board.KindRectangle)
	el.Width, el.Height = 10, 10
	el.FracIndex = frac
	return el
}

func TestNewStoreEmpty(t *testing.T) {
	s := NewStore()
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
	if s.Revision() == "" {
		t.Error("a fresh store should carry a revision token")
	}
	s.ReplaceAll(nil)
	if got := s.NonDeleted(); len(got) != 0 {
		t.Errorf("NonDeleted() after empty replace has %d elements", len(got))
	}
}

func TestReplaceAllSortsAndIndexes(t *testing.T) {
	s := NewStore()
	a, b, c := rect("V"), rect("F"), rect("k")
	s.ReplaceAll([]*board.Element{a, b, c})

	els := s.Elements()
	want := []*board.Element{b, a, c}
	for i := range want {
		if els[i] != want[i] {
			t.Fatalf("Elements()[%d] = %q, want %q", i, els[i].FracIndex, want[i].FracIndex)
		}
	}

	got, ok := s.Get(c.ID)
	if !ok || got != c {
		t.Errorf("Get(%q) = %v, %v; want the stored element", c.ID, got, ok)
	}
	if _, ok := s.Get("missing"); ok {
		t.Error("Get should miss on unknown identifiers")
	}
}

// The revision token must change on every ReplaceAll, even when the new
// collection is structurally identical to the old one. Caches key on the
// token, so a stable token would mask real swaps.
func TestRevisionAlwaysChanges(t *testing.T) {
	s := NewStore()
	els := []*board.Element{rect("V")}

	seen := map[string]bool{s.Revision(): true}
	for i := 0; i < 5; i++ {
		s.ReplaceAll(els)
		rev := s.Revision()
		if seen[rev] {
			t.Fatalf("revision %q repeated on pass %d", rev, i)
		}
		seen[rev] = true
	}
}

func TestNonDeletedExcludesSoftDeleted(t *testing.T) {
	s := NewStore()
	a, b := rect("F"), rect("V")
	b.Deleted = true
	s.ReplaceAll([]*board.Element{a, b})

	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (deleted elements stay in history)", s.Len())
	}
	nd := s.NonDeleted()
	if len(nd) != 1 || nd[0] != a {
		t.Errorf("NonDeleted() = %v, want just the live element", nd)
	}
	if _, ok := s.Get(b.ID); !ok {
		t.Error("Get should still find soft-deleted elements")
	}
}

func TestObserverOrderAndErrors(t *testing.T) {
	s := NewStore()
	var log []string
	first := &recorder{name: "first", log: &log}
	second := &recorder{name: "second", log: &log}

	if _, err := s.Subscribe(first); err != nil {
		t.Fatalf("Subscribe(first) = %v", err)
	}
	unsub, err := s.Subscribe(second)
	if err != nil {
		t.Fatalf("Subscribe(second) = %v", err)
	}

	if _, err := s.Subscribe(first); !errors.Is(err, ErrDuplicateObserver) {
		t.Errorf("duplicate Subscribe = %v, want ErrDuplicateObserver", err)
	}

	s.ReplaceAll([]*board.Element{rect("V")})
	if len(log) != 2 || log[0] != "first" || log[1] != "second" {
		t.Errorf("notification order = %v, want [first second]", log)
	}

	if err := unsub(); err != nil {
		t.Fatalf("unsubscribe = %v", err)
	}
	if err := unsub(); !errors.Is(err, ErrUnknownObserver) {
		t.Errorf("second unsubscribe = %v, want ErrUnknownObserver", err)
	}

	log = log[:0]
	s.ReplaceAll(nil)
	if len(log) != 1 || log[0] != "first" {
		t.Errorf("after unsubscribe, notification log = %v, want [first]", log)
	}
}

// selfRemover unsubscribes itself from inside its own callback.
type selfRemover struct {
	store *Store
	log   *[]string
}

func (r *selfRemover) SceneReplaced(*Store) {
	*r.log = append(*r.log, "remover")
	if err := r.store.Unsubscribe(r); err != nil {
		*r.log = append(*r.log, "error")
	}
}

// Unsubscribing from inside a callback must not skip the observers
// registered after the one removing itself.
func TestUnsubscribeDuringNotification(t *testing.T) {
	s := NewStore()
	var log []string
	remover := &selfRemover{store: s, log: &log}
	after := &recorder{name: "after", log: &log}
	if _, err := s.Subscribe(remover); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Subscribe(after); err != nil {
		t.Fatal(err)
	}

	s.ReplaceAll(nil)
	if len(log) != 2 || log[0] != "remover" || log[1] != "after" {
		t.Errorf("first pass notified %v, want [remover after]", log)
	}

	log = log[:0]
	s.ReplaceAll(nil)
	if len(log) != 1 || log[0] != "after" {
		t.Errorf("second pass notified %v, want [after]", log)
	}
}

// replacer re-enters ReplaceAll from inside the notification callback.
type replacer struct {
	store *Store
	next  []*board.Element
	depth int
	max   int
	fired bool
}

func (r *replacer) SceneReplaced(s *Store) {
	r.depth++
	if r.depth > r.max {
		r.max = r.depth
	}
	if !r.fired {
		r.fired = true
		r.store.ReplaceAll(r.next)
	}
	r.depth--
}

func TestReplaceAllReentrant(t *testing.T) {
	s := NewStore()
	final := rect("V")
	obs := &replacer{store: s, next: []*board.Element{final}}
	if _, err := s.Subscribe(obs); err != nil {
		t.Fatal(err)
	}

	s.ReplaceAll([]*board.Element{rect("F"), rect("k")})

	if obs.max != 1 {
		t.Errorf("observer re-entered at depth %d, nested calls must be queued", obs.max)
	}
	els := s.Elements()
	if len(els) != 1 || els[0] != final {
		t.Errorf("final collection = %v, want the queued replacement applied", els)
	}
}

func TestUpsertElement(t *testing.T) {
	s := NewStore()
	a := rect("V")
	s.ReplaceAll([]*board.Element{a})

	// A new element without an order key lands after the tail.
	b := board.NewElement(board.KindEllipse)
	s.UpsertElement(b)
	if b.FracIndex == "" || b.FracIndex <= a.FracIndex {
		t.Errorf("upserted FracIndex = %q, want a key above %q", b.FracIndex, a.FracIndex)
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}

	// Upserting an existing identifier replaces in place.
	a2 := a.Clone()
	a2.Width = 50
	a2.Bump()
	s.UpsertElement(a2)
	if s.Len() != 2 {
		t.Errorf("Len() after replace = %d, want 2", s.Len())
	}
	got, _ := s.Get(a.ID)
	if got != a2 {
		t.Error("Get should return the replacement element")
	}
}

func TestDeleteElement(t *testing.T) {
	s := NewStore()
	a := rect("V")
	s.ReplaceAll([]*board.Element{a})
	rev := s.Revision()

	s.DeleteElement(a.ID)

	got, ok := s.Get(a.ID)
	if !ok {
		t.Fatal("deleted element should remain addressable")
	}
	if !got.Deleted {
		t.Error("element should be marked deleted")
	}
	if got.Version != a.Version+1 {
		t.Errorf("Version = %d, want %d (delete is a content change)", got.Version, a.Version+1)
	}
	if len(s.NonDeleted()) != 0 {
		t.Error("NonDeleted() should exclude the deleted element")
	}
	if s.Revision() == rev {
		t.Error("delete should advance the revision token")
	}

	// Deleting again (or an unknown id) is a no-op and must not touch
	// the revision.
	rev = s.Revision()
	s.DeleteElement(a.ID)
	s.DeleteElement("missing")
	if s.Revision() != rev {
		t.Error("no-op deletes must not advance the revision token")
	}
}
