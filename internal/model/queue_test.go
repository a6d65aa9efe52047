package model

import (
	"errors"
	"testing"
)

func TestQueue(t *testing.T) {
	q := NewQueue()
	if _, _, ok := q.GetNextPair(); ok {
		t.Fatal("GetNextPair on empty queue reported a pair")
	}
	for _, id := range []string{"a", "b", "c"} {
		if err := q.AddPlayer(Player{ID: id}); err != nil {
			t.Fatalf("AddPlayer(%s): %v", id, err)
		}
	}
	if err := q.AddPlayer(Player{ID: "b"}); !errors.Is(err, ErrAlreadyQueued) {
		t.Errorf("duplicate AddPlayer error = %v, want ErrAlreadyQueued", err)
	}
	if !q.Remove("b") {
		t.Error("Remove(b) = false")
	}
	if q.Remove("b") {
		t.Error("second Remove(b) = true")
	}

	p1, p2, ok := q.GetNextPair()
	if !ok || p1.ID != "a" || p2.ID != "c" {
		t.Errorf("GetNextPair = %q, %q, %v; want a, c", p1.ID, p2.ID, ok)
	}
	if q.Size() != 0 {
		t.Errorf("Size = %d, want 0", q.Size())
	}
}

func TestQueueRejectsEmptyID(t *testing.T) {
	q := NewQueue()
	if err := q.AddPlayer(Player{}); !errors.Is(err, ErrNoPlayerID) {
		t.Errorf("AddPlayer(empty) error = %v, want ErrNoPlayerID", err)
	}
	if q.Size() != 0 {
		t.Errorf("Size = %d, want 0", q.Size())
	}
}

func TestQueueRequeue(t *testing.T) {
	q := NewQueue()
	for _, id := range []string{"a", "b", "c"} {
		if err := q.AddPlayer(Player{ID: id}); err != nil {
			t.Fatalf("AddPlayer(%s): %v", id, err)
		}
	}
	p1, p2, _ := q.GetNextPair()
	if err := q.AddPlayer(Player{ID: "b"}); err != nil {
		t.Fatalf("AddPlayer(b): %v", err)
	}
	q.Requeue(p1, p2)

	if q.Size() != 3 {
		t.Fatalf("Size = %d, want 3", q.Size())
	}
	p1, p2, _ = q.GetNextPair()
	if p1.ID != "a" || p2.ID != "c" {
		t.Errorf("GetNextPair = %q, %q; want a, c", p1.ID, p2.ID)
	}
}
