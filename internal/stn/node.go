package stn

import "fmt"

// Point selects one of the two time points of a task.
type Point uint8

const (
	// Start is the moment service begins.
	Start Point = iota
	// Finish is the moment service ends.
	Finish
)

// String returns START or FINISH.
func (p Point) String() string {
	if p == Finish {
		return "FINISH"
	}
	return "START"
}

// NodeKey addresses a time point. Index 0 is reserved for the reference node.
type NodeKey struct {
	Index int
	Point Point
}

// Ref is the reference node, fixed at time zero.
var Ref = NodeKey{}

// StartOf returns the START node of index i.
func StartOf(i int) NodeKey {
	return NodeKey{Index: i, Point: Start}
}

// FinishOf returns the FINISH node of index i.
func FinishOf(i int) NodeKey {
	return NodeKey{Index: i, Point: Finish}
}

// IsRef reports whether k is the reference node.
func (k NodeKey) IsRef() bool {
	return k.Index == 0
}

// String renders keys as "ref" or "<index>:<point>".
func (k NodeKey) String() string {
	if k.IsRef() {
		return "ref"
	}
	return fmt.Sprintf("%d:%s", k.Index, k.Point)
}

// shifted relabels k when its index is at or above from.
func (k NodeKey) shifted(from, by int) NodeKey {
	if k.IsRef() || k.Index < from {
		return k
	}
	return NodeKey{Index: k.Index + by, Point: k.Point}
}
