package search

import "container/heap"

// Frontier is the min-cost priority queue of pending states. Lower cost
// dequeues first; equal-cost states dequeue in arbitrary order, as states
// carry no meaningful mutual ordering. The frontier is owned by the single
// search goroutine and is not safe for concurrent use.
type Frontier struct {
	q costHeap
}

type frontierItem struct {
	cost  int64
	state *State
}

type costHeap []frontierItem

func (h costHeap) Len() int           { return len(h) }
func (h costHeap) Less(i, j int) bool { return h[i].cost < h[j].cost }
func (h costHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

// Push and Pop use pointer receivers because they modify the slice's length,
// not just its contents.
func (h *costHeap) Push(x any) {
	*h = append(*h, x.(frontierItem))
}

func (h *costHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = frontierItem{}
	*h = old[:n-1]
	return x
}

func NewFrontier() *Frontier {
	return &Frontier{}
}

// Len returns the number of pending states.
func (f *Frontier) Len() int {
	return len(f.q)
}

// Enqueue adds a state at the given cost.
func (f *Frontier) Enqueue(state *State, cost int64) {
	heap.Push(&f.q, frontierItem{cost: cost, state: state})
}

// Dequeue removes and returns the lowest-cost state. Calling it on an empty
// frontier is a programming error; callers check Len first.
func (f *Frontier) Dequeue() *State {
	if len(f.q) == 0 {
		panic("search: dequeue on empty frontier")
	}
	return heap.Pop(&f.q).(frontierItem).state
}
