package graph

//go:generate mockgen -package mocks -destination mocks/mock.go github.com/ejacobg/friendgraph/graph View

import "sort"

// View is a read-only view of a friendship graph. Analysis code only ever
// receives a View.
type View interface {
	// People returns every person in enumeration order.
	People() []string

	// Friends returns the ordered outgoing edge targets for name. Unknown
	// people yield an empty list.
	Friends(name string) []string

	// Has reports whether name is a person of the graph.
	Has(name string) bool
}

// Compile-time check for ensuring Snapshot implements View.
var _ View = (*Snapshot)(nil)

// Snapshot is an immutable copy of a friendship graph. Once built, a snapshot
// is never modified and can be shared freely between goroutines.
type Snapshot struct {
	people  []string
	friends map[string][]string
}

// People returns every person in enumeration order. The returned slice must
// not be modified.
func (s *Snapshot) People() []string {
	return s.people
}

// Friends returns the ordered friend list for name. The returned slice must
// not be modified.
func (s *Snapshot) Friends(name string) []string {
	return s.friends[name]
}

// Has reports whether name is a person in the snapshot.
func (s *Snapshot) Has(name string) bool {
	_, found := s.friends[name]
	return found
}

// Len returns the number of people in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.people)
}

// EdgeCount returns the number of directed edges in the snapshot.
func (s *Snapshot) EdgeCount() int {
	var n int
	for _, list := range s.friends {
		n += len(list)
	}
	return n
}

// SnapshotBuilder assembles a Snapshot from a stream of people and directed
// edges, as read back from a store. Duplicates are collapsed and edge
// endpoints that were never added as people are created on the fly.
type SnapshotBuilder struct {
	people  []string
	friends map[string][]string
	edges   map[Friendship]struct{}
}

// NewSnapshotBuilder returns an empty builder.
func NewSnapshotBuilder() *SnapshotBuilder {
	return &SnapshotBuilder{
		friends: make(map[string][]string),
		edges:   make(map[Friendship]struct{}),
	}
}

// AddPerson appends name to the enumeration order unless already present.
func (b *SnapshotBuilder) AddPerson(name string) {
	if _, exists := b.friends[name]; exists {
		return
	}
	b.people = append(b.people, name)
	b.friends[name] = nil
}

// AddEdge records the directed edge src -> dst. Self-loops are dropped.
func (b *SnapshotBuilder) AddEdge(src, dst string) {
	b.AddPerson(src)
	b.AddPerson(dst)
	if src == dst {
		return
	}

	edge := Friendship{Src: src, Dst: dst}
	if _, exists := b.edges[edge]; exists {
		return
	}
	b.edges[edge] = struct{}{}
	b.friends[src] = append(b.friends[src], dst)
}

// Build returns the assembled snapshot. The builder must not be used
// afterwards.
func (b *SnapshotBuilder) Build() *Snapshot {
	snap := &Snapshot{people: b.people, friends: b.friends}
	if snap.people == nil {
		snap.people = []string{}
	}
	b.friends, b.edges, b.people = nil, nil, nil
	return snap
}

// NewSnapshot builds a snapshot from an adjacency map. Edges are taken as
// given (no mirroring); keys are enumerated in sorted order. It is mostly
// useful for tests and for analysing adjacency files without a store.
func NewSnapshot(adjacency map[string][]string) *Snapshot {
	b := NewSnapshotBuilder()
	keys := ImportOrder(adjacency)
	for _, person := range keys {
		b.AddPerson(person)
	}
	for _, person := range keys {
		for _, friend := range adjacency[person] {
			if friend == "" {
				continue
			}
			b.AddEdge(person, friend)
		}
	}
	return b.Build()
}

// ImportOrder returns the keys of an adjacency map in the order importers
// create them. Go maps are unordered so the keys are sorted to keep imports
// reproducible.
func ImportOrder(adjacency map[string][]string) []string {
	keys := make([]string, 0, len(adjacency))
	for person := range adjacency {
		keys = append(keys, person)
	}
	sort.Strings(keys)
	return keys
}
