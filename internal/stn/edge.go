package stn

// EdgeKind records why an edge exists. Solve can ignore edges by kind.
type EdgeKind uint8

const (
	// Service ties START and FINISH of one task to its service duration.
	Service EdgeKind = iota + 1
	// Travel ties FINISH of one task to START of the next.
	Travel
	// Earliest is a lower window bound (START -> ref).
	Earliest
	// Latest is an upper window bound (ref -> START).
	Latest
	// Anchor pins the first task to the current position and clock.
	Anchor
)

var edgeKindNames = map[EdgeKind]string{
	Service:  "service",
	Travel:   "travel",
	Earliest: "earliest",
	Latest:   "latest",
	Anchor:   "anchor",
}

// String returns the lower-case kind name.
func (k EdgeKind) String() string {
	if name, ok := edgeKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Edge is the constraint t(To) - t(From) <= Weight.
type Edge struct {
	From   NodeKey
	To     NodeKey
	Weight float64
	Kind   EdgeKind
}

type edgeKey struct {
	from NodeKey
	to   NodeKey
}
