package graph

// Graph is implemented by objects that can mutate or query a friendship graph.
//
// Every friendship is stored as a mirrored pair of directed edges: whenever
// (a, b) exists, (b, a) exists as well. Implementations create and remove both
// directions atomically.
type Graph interface {
	// AddFriendship creates the people a and b if they do not exist yet and
	// links them with a mirrored pair of edges. Calling it again for the
	// same pair has no further effect.
	AddFriendship(a, b string) error

	// RemoveFriendship removes both directions of the friendship between a
	// and b. Removing a friendship that does not exist is not an error.
	RemoveFriendship(a, b string) error

	// DeletePeople removes each named person together with every edge that
	// touches it. Unknown names are ignored.
	DeletePeople(names ...string) error

	// Import creates every person listed as a key of the adjacency map and
	// then a mirrored friendship for every (key, friend) pair.
	Import(adjacency map[string][]string) error

	// Friends returns the ordered list of people that name has an outgoing
	// edge to. Unknown people have no friends.
	Friends(name string) ([]string, error)

	// People returns every person in the graph in the store's enumeration
	// order.
	People() ([]string, error)

	// Edges returns an iterator over all directed friendship edges.
	Edges() (EdgeIterator, error)

	// Snapshot returns an immutable, consistent copy of the graph that can
	// be handed to read-only analysis code.
	Snapshot() (*Snapshot, error)
}

// Iterator is implemented by graph objects that can be iterated.
type Iterator interface {
	// Next advances the iterator. If no more items are available or an
	// error occurs, calls to Next() return false.
	Next() bool

	// Error returns the last error encountered by the iterator.
	Error() error

	// Close releases any resources associated with an iterator.
	Close() error
}
