package stn

import (
	"math"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/mat"
)

// SolveOption adjusts a single Solve call without touching the graph.
type SolveOption func(*solveConfig)

type solveConfig struct {
	extra   []Edge
	ignored map[EdgeKind]bool
}

// WithEdges adds transient edges to this solve only. When a transient edge
// shares its ordered pair with a stored edge the tighter weight wins.
func WithEdges(edges ...Edge) SolveOption {
	return func(c *solveConfig) {
		c.extra = append(c.extra, edges...)
	}
}

// Ignoring drops every edge of the given kinds from this solve.
func Ignoring(kinds ...EdgeKind) SolveOption {
	return func(c *solveConfig) {
		for _, k := range kinds {
			c.ignored[k] = true
		}
	}
}

// Solution is the all-pairs shortest path matrix of a network.
type Solution struct {
	// Consistent is false when the network has a negative cycle.
	Consistent bool

	nodes []NodeKey
	pos   map[NodeKey]int
	dist  *mat.Dense
}

// Solve computes shortest path distances between every pair of nodes with
// Floyd-Warshall. Unreachable pairs are +Inf.
func (g *Graph[T]) Solve(opts ...SolveOption) *Solution {
	cfg := solveConfig{ignored: make(map[EdgeKind]bool)}
	for _, opt := range opts {
		opt(&cfg)
	}

	nodes := g.Nodes()
	pos := make(map[NodeKey]int, len(nodes))
	dg := simple.NewWeightedDirectedGraph(0, math.Inf(1))
	for i, k := range nodes {
		pos[k] = i
		dg.AddNode(simple.Node(i))
	}

	consistent := true
	weights := make(map[[2]int]float64)
	add := func(e Edge) {
		if cfg.ignored[e.Kind] {
			return
		}
		u, ok := pos[e.From]
		if !ok {
			return
		}
		v, ok := pos[e.To]
		if !ok {
			return
		}
		switch {
		case math.IsInf(e.Weight, 1):
			return
		case math.IsInf(e.Weight, -1), math.IsNaN(e.Weight):
			consistent = false
			return
		case u == v:
			if e.Weight < 0 {
				consistent = false
			}
			return
		}
		key := [2]int{u, v}
		if w, seen := weights[key]; !seen || e.Weight < w {
			weights[key] = e.Weight
		}
	}
	for _, e := range g.edges {
		add(e)
	}
	for _, e := range cfg.extra {
		add(e)
	}
	for key, w := range weights {
		dg.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(key[0]), T: simple.Node(key[1]), W: w})
	}

	paths, ok := path.FloydWarshall(dg)
	n := len(nodes)
	dist := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			dist.Set(i, j, paths.Weight(int64(i), int64(j)))
		}
	}

	return &Solution{
		Consistent: consistent && ok,
		nodes:      nodes,
		pos:        pos,
		dist:       dist,
	}
}

// Distance is the shortest path weight from -> to, +Inf when unreachable or
// when either node is unknown.
func (s *Solution) Distance(from, to NodeKey) float64 {
	i, ok := s.pos[from]
	if !ok {
		return math.Inf(1)
	}
	j, ok := s.pos[to]
	if !ok {
		return math.Inf(1)
	}
	return s.dist.At(i, j)
}

// Earliest is the earliest feasible time of k, -d(k, ref).
func (s *Solution) Earliest(k NodeKey) float64 {
	return -s.Distance(k, Ref)
}

// Latest is the latest feasible time of k, d(ref, k).
func (s *Solution) Latest(k NodeKey) float64 {
	return s.Distance(Ref, k)
}

// Nodes returns the row and column order of Matrix.
func (s *Solution) Nodes() []NodeKey {
	out := make([]NodeKey, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// Matrix returns a copy of the dense |V|x|V| distance matrix.
func (s *Solution) Matrix() *mat.Dense {
	return mat.DenseCopyOf(s.dist)
}

// Contains reports whether any matrix entry equals w.
func (s *Solution) Contains(w float64) bool {
	r, c := s.dist.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if s.dist.At(i, j) == w {
				return true
			}
		}
	}
	return false
}
