package event

import (
	"container/heap"
	"errors"
)

// ErrEmptyQueue is returned by Get and Peek when no event is pending.
var ErrEmptyQueue = errors.New("event queue is empty")

// Queue is a priority queue of events ordered by time, with ties broken by
// insertion order so that identical inputs replay identically.
//
// Queue is not safe for concurrent use; the engine loop is its only user.
type Queue struct {
	items eventHeap
	seq   uint64
}

type entry struct {
	ev  Event
	seq uint64
}

type eventHeap []entry

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].ev.Time != h[j].ev.Time {
		return h[i].ev.Time < h[j].ev.Time
	}
	return h[i].seq < h[j].seq
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) { *h = append(*h, x.(entry)) }

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = entry{} // release the trade pointer
	*h = old[:n-1]
	return e
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{items: make(eventHeap, 0, 64)}
}

// Put adds an event in O(log n).
func (q *Queue) Put(ev Event) {
	q.seq++
	heap.Push(&q.items, entry{ev: ev, seq: q.seq})
}

// Get removes and returns the earliest event.
func (q *Queue) Get() (Event, error) {
	if len(q.items) == 0 {
		return Event{}, ErrEmptyQueue
	}
	return heap.Pop(&q.items).(entry).ev, nil
}

// Peek returns the earliest event without removing it.
func (q *Queue) Peek() (Event, error) {
	if len(q.items) == 0 {
		return Event{}, ErrEmptyQueue
	}
	return q.items[0].ev, nil
}

// Len returns the number of pending events.
func (q *Queue) Len() int {
	return len(q.items)
}
