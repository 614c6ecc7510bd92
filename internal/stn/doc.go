// Package stn implements a Simple Temporal Network over an ordered sequence
// of tasks.
//
// Every task index owns a START and a FINISH time point. A single reference
// node stands for time zero. An edge u->v with weight w encodes the
// constraint t(v) - t(u) <= w. The network is consistent iff it contains no
// negative cycle, which Solve decides with an all-pairs shortest path pass.
//
// The graph is stored as an arena of task slots keyed by index plus a map of
// edges keyed by (from, to) node pairs. Re-indexing (ShiftPush, ShiftPull)
// is an explicit relabeling pass over both maps, so Clone is a structural
// copy and never shares mutable state.
package stn
