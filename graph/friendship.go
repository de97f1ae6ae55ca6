package graph

// Friendship describes a directed edge meaning "Src considers Dst a friend".
// Stores always keep the reverse edge next to it.
type Friendship struct {
	// The person the edge originates from.
	Src string

	// The person the edge points to.
	Dst string
}

// Reverse returns the mirrored edge.
func (f Friendship) Reverse() Friendship {
	return Friendship{Src: f.Dst, Dst: f.Src}
}

// EdgeIterator is implemented by objects that can iterate the graph edges.
type EdgeIterator interface {
	Iterator

	// Friendship returns the currently fetched edge.
	Friendship() *Friendship
}
