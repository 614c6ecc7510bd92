package stn

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrSlotOccupied is returned when a task index is already in use.
	ErrSlotOccupied = errors.New("task slot occupied")

	// ErrNoTask is returned when a task index is not in use.
	ErrNoTask = errors.New("no task at index")

	// ErrUnknownNode is returned when an edge references a missing node.
	ErrUnknownNode = errors.New("unknown node")

	// ErrSelfEdge is returned for edges whose endpoints coincide.
	ErrSelfEdge = errors.New("self edge")

	// ErrNotDense is returned by CheckDense when indices are not 1..N.
	ErrNotDense = errors.New("task indices are not dense")
)

// Graph is a temporal network whose task slots carry a payload of type T.
type Graph[T any] struct {
	tasks map[int]T
	edges map[edgeKey]Edge
}

// New creates an empty network holding only the reference node.
func New[T any]() *Graph[T] {
	return &Graph[T]{
		tasks: make(map[int]T),
		edges: make(map[edgeKey]Edge),
	}
}

// Len returns the number of task slots in use.
func (g *Graph[T]) Len() int {
	return len(g.tasks)
}

// Indices returns the occupied task indices in ascending order.
func (g *Graph[T]) Indices() []int {
	out := make([]int, 0, len(g.tasks))
	for i := range g.tasks {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// Nodes returns the reference node followed by START and FINISH of every
// task in index order. Solution matrices use the same order.
func (g *Graph[T]) Nodes() []NodeKey {
	idx := g.Indices()
	out := make([]NodeKey, 0, 2*len(idx)+1)
	out = append(out, Ref)
	for _, i := range idx {
		out = append(out, StartOf(i), FinishOf(i))
	}
	return out
}

// HasNode reports whether k exists. The reference node always exists.
func (g *Graph[T]) HasNode(k NodeKey) bool {
	if k.IsRef() {
		return true
	}
	_, ok := g.tasks[k.Index]
	return ok
}

// Task returns the payload stored at index i.
func (g *Graph[T]) Task(i int) (T, bool) {
	t, ok := g.tasks[i]
	return t, ok
}

// SetTask replaces the payload of an existing task.
func (g *Graph[T]) SetTask(i int, t T) error {
	if _, ok := g.tasks[i]; !ok {
		return fmt.Errorf("set task %d: %w", i, ErrNoTask)
	}
	g.tasks[i] = t
	return nil
}

// AddTask creates the START and FINISH nodes of index i.
func (g *Graph[T]) AddTask(i int, t T) error {
	if i < 1 {
		return fmt.Errorf("add task %d: index must be positive", i)
	}
	if _, ok := g.tasks[i]; ok {
		return fmt.Errorf("add task %d: %w", i, ErrSlotOccupied)
	}
	g.tasks[i] = t
	return nil
}

// RemoveTask deletes both nodes of index i and every incident edge.
func (g *Graph[T]) RemoveTask(i int) (T, error) {
	t, ok := g.tasks[i]
	if !ok {
		var zero T
		return zero, fmt.Errorf("remove task %d: %w", i, ErrNoTask)
	}
	delete(g.tasks, i)
	for k := range g.edges {
		if k.from.Index == i || k.to.Index == i {
			delete(g.edges, k)
		}
	}
	return t, nil
}

// SetEdge stores the constraint t(to) - t(from) <= w, replacing any edge
// already present between the same ordered pair.
func (g *Graph[T]) SetEdge(from, to NodeKey, w float64, kind EdgeKind) error {
	if from == to {
		return fmt.Errorf("set edge %s: %w", from, ErrSelfEdge)
	}
	if !g.HasNode(from) {
		return fmt.Errorf("set edge %s->%s: %w: %s", from, to, ErrUnknownNode, from)
	}
	if !g.HasNode(to) {
		return fmt.Errorf("set edge %s->%s: %w: %s", from, to, ErrUnknownNode, to)
	}
	g.edges[edgeKey{from, to}] = Edge{From: from, To: to, Weight: w, Kind: kind}
	return nil
}

// RemoveEdge deletes the edge from -> to and reports whether it existed.
func (g *Graph[T]) RemoveEdge(from, to NodeKey) bool {
	k := edgeKey{from, to}
	if _, ok := g.edges[k]; !ok {
		return false
	}
	delete(g.edges, k)
	return true
}

// Edge looks up the edge from -> to.
func (g *Graph[T]) Edge(from, to NodeKey) (Edge, bool) {
	e, ok := g.edges[edgeKey{from, to}]
	return e, ok
}

// Edges returns all stored edges in a stable order.
func (g *Graph[T]) Edges() []Edge {
	out := make([]Edge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, e)
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].From != out[b].From {
			return lessKey(out[a].From, out[b].From)
		}
		return lessKey(out[a].To, out[b].To)
	})
	return out
}

func lessKey(a, b NodeKey) bool {
	if a.Index != b.Index {
		return a.Index < b.Index
	}
	return a.Point < b.Point
}

// ShiftPush relabels every index >= from to index+by. The vacated range
// [from, from+by) is left free for new tasks. Edges follow their nodes.
func (g *Graph[T]) ShiftPush(from, by int) error {
	if by < 0 {
		return fmt.Errorf("shift push: negative offset %d", by)
	}
	if by == 0 {
		return nil
	}
	g.relabel(from, by)
	return nil
}

// ShiftPull relabels every index >= from to index-by, closing a gap. It
// fails without modifying the graph if a target slot is occupied by a task
// that does not move, or if any index would drop below 1.
func (g *Graph[T]) ShiftPull(from, by int) error {
	if by < 0 {
		return fmt.Errorf("shift pull: negative offset %d", by)
	}
	if by == 0 {
		return nil
	}
	for i := range g.tasks {
		if i < from {
			if i >= from-by {
				return fmt.Errorf("shift pull from %d by %d: %w: %d", from, by, ErrSlotOccupied, i)
			}
			continue
		}
		if i-by < 1 {
			return fmt.Errorf("shift pull from %d by %d: index %d would drop below 1", from, by, i)
		}
	}
	g.relabel(from, -by)
	return nil
}

func (g *Graph[T]) relabel(from, by int) {
	tasks := make(map[int]T, len(g.tasks))
	for i, t := range g.tasks {
		if i >= from {
			i += by
		}
		tasks[i] = t
	}
	edges := make(map[edgeKey]Edge, len(g.edges))
	for _, e := range g.edges {
		e.From = e.From.shifted(from, by)
		e.To = e.To.shifted(from, by)
		edges[edgeKey{e.From, e.To}] = e
	}
	g.tasks = tasks
	g.edges = edges
}

// CheckDense verifies that the occupied indices are exactly 1..Len().
func (g *Graph[T]) CheckDense() error {
	for i, idx := range g.Indices() {
		if idx != i+1 {
			return fmt.Errorf("%w: expected %d, found %d", ErrNotDense, i+1, idx)
		}
	}
	return nil
}

// Clone returns a structural copy. Payloads are copied by value.
func (g *Graph[T]) Clone() *Graph[T] {
	c := &Graph[T]{
		tasks: make(map[int]T, len(g.tasks)),
		edges: make(map[edgeKey]Edge, len(g.edges)),
	}
	for i, t := range g.tasks {
		c.tasks[i] = t
	}
	for k, e := range g.edges {
		c.edges[k] = e
	}
	return c
}
