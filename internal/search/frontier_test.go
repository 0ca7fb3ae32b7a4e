package search

import (
	"testing"

	"periodica/internal/life"
)

func TestFrontierDequeuesLowestCostFirst(t *testing.T) {
	f := NewFrontier()
	a := mustState(t, nil, life.RowTuple{1}, life.RowTuple{1})
	b := mustState(t, nil, life.RowTuple{2}, life.RowTuple{2})
	c := mustState(t, nil, life.RowTuple{3}, life.RowTuple{3})

	f.Enqueue(a, 3)
	f.Enqueue(b, -5)
	f.Enqueue(c, 0)

	if f.Len() != 3 {
		t.Fatalf("len = %d, want 3", f.Len())
	}
	for i, want := range []*State{b, c, a} {
		if got := f.Dequeue(); got != want {
			t.Fatalf("dequeue %d returned the wrong state", i)
		}
	}
	if f.Len() != 0 {
		t.Fatalf("len = %d after draining, want 0", f.Len())
	}
}

func TestFrontierEqualCostsAllDequeue(t *testing.T) {
	f := NewFrontier()
	states := map[*State]bool{}
	for i := 0; i < 4; i++ {
		s := mustState(t, nil, life.RowTuple{life.Row(i)}, life.RowTuple{life.Row(i)})
		states[s] = false
		f.Enqueue(s, 7)
	}
	for f.Len() > 0 {
		s := f.Dequeue()
		if states[s] {
			t.Fatal("state dequeued twice")
		}
		states[s] = true
	}
	for _, seen := range states {
		if !seen {
			t.Fatal("state never dequeued")
		}
	}
}

func TestFrontierDequeueEmptyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on empty dequeue")
		}
	}()
	NewFrontier().Dequeue()
}
