package buffer

import "testing"

func TestLRUKReplacerEvictsColdFramesFirst(t *testing.T) {
	r := NewLRUKReplacer(7, 2)

	// frames 1,2,3 each get a single access: all "cold" (< k accesses).
	r.RecordAccess(1)
	r.RecordAccess(2)
	r.RecordAccess(3)
	// frame 4 becomes "warm" with two accesses.
	r.RecordAccess(4)
	r.RecordAccess(4)

	for _, f := range []FrameID{1, 2, 3, 4} {
		r.SetEvictable(f, true)
	}
	if r.Size() != 4 {
		t.Fatalf("got size %d, want 4", r.Size())
	}

	// among the cold frames, eviction proceeds oldest-recorded-first.
	victim, ok := r.Evict()
	if !ok || victim != 1 {
		t.Fatalf("got victim %v (ok=%v), want frame 1", victim, ok)
	}
	victim, ok = r.Evict()
	if !ok || victim != 2 {
		t.Fatalf("got victim %v (ok=%v), want frame 2", victim, ok)
	}
	victim, ok = r.Evict()
	if !ok || victim != 3 {
		t.Fatalf("got victim %v (ok=%v), want frame 3", victim, ok)
	}
	// only the warm frame 4 remains.
	victim, ok = r.Evict()
	if !ok || victim != 4 {
		t.Fatalf("got victim %v (ok=%v), want frame 4", victim, ok)
	}
	if r.Size() != 0 {
		t.Fatalf("got size %d, want 0", r.Size())
	}
}

func TestLRUKReplacerSkipsNonEvictable(t *testing.T) {
	r := NewLRUKReplacer(3, 2)
	r.RecordAccess(1)
	r.RecordAccess(2)
	r.SetEvictable(1, false)
	r.SetEvictable(2, true)

	victim, ok := r.Evict()
	if !ok || victim != 2 {
		t.Fatalf("got victim %v (ok=%v), want frame 2 since frame 1 is pinned", victim, ok)
	}
}

func TestLRUKReplacerRemove(t *testing.T) {
	r := NewLRUKReplacer(3, 2)
	r.RecordAccess(5)
	r.SetEvictable(5, true)
	r.Remove(5)
	if r.Size() != 0 {
		t.Fatalf("got size %d, want 0 after Remove", r.Size())
	}
	if _, ok := r.Evict(); ok {
		t.Fatalf("expected Evict to find nothing after Remove")
	}
}
