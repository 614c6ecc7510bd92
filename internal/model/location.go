package model

// Location is an opaque place identity, typically a port name.
type Location string

// String returns the location name.
func (l Location) String() string {
	return string(l)
}
