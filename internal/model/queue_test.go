package model

import "testing"

func TestPlayQueue_Navigation(t *testing.T) {
	q := NewPlayQueue("Lectures", []QueueItem{
		{ID: "a", URL: "https://www.youtube.com/watch?v=a"},
		{ID: "b", URL: "https://www.youtube.com/watch?v=b"},
	})

	current, ok := q.Current()
	if !ok || current.ID != "a" {
		t.Fatalf("Current() = %v, %v; expected item a", current, ok)
	}

	if _, ok := q.Previous(); ok {
		t.Error("Previous() at the start should return false")
	}

	next, ok := q.Next()
	if !ok || next.ID != "b" {
		t.Errorf("Next() = %v, %v; expected item b", next, ok)
	}

	if _, ok := q.Next(); ok {
		t.Error("Next() at the end should return false")
	}
	if q.Index() != 1 {
		t.Errorf("Index() = %d, expected 1", q.Index())
	}

	prev, ok := q.Previous()
	if !ok || prev.ID != "a" {
		t.Errorf("Previous() = %v, %v; expected item a", prev, ok)
	}
}

func TestPlayQueue_Empty(t *testing.T) {
	var q *PlayQueue
	if q.Len() != 0 {
		t.Errorf("nil queue Len() = %d, expected 0", q.Len())
	}

	empty := NewPlayQueue("", nil)
	if _, ok := empty.Current(); ok {
		t.Error("Current() on empty queue should return false")
	}
	if _, ok := empty.Next(); ok {
		t.Error("Next() on empty queue should return false")
	}
}
