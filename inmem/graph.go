// Package inmem provides an in-memory friendship graph implementation.
package inmem

import (
	"fmt"
	"github.com/ejacobg/friendgraph/graph"
	"sync"
)

// Compile-time check for ensuring Graph implements graph.Graph.
var _ graph.Graph = (*Graph)(nil)

// Graph implements an in-memory friendship graph that can be concurrently
// accessed by multiple clients. Mutations hold the write lock for their whole
// duration so readers never observe half of a mirrored edge pair.
type Graph struct {
	mu sync.RWMutex

	// people keeps the enumeration order.
	people []string

	// friends maps each person to its ordered outgoing edge targets.
	friends map[string][]string
}

// NewGraph creates a new in-memory friendship graph.
func NewGraph() *Graph {
	return &Graph{
		friends: make(map[string][]string),
	}
}

// AddFriendship links a and b with a mirrored pair of edges, creating either
// person if needed.
func (g *Graph) AddFriendship(a, b string) error {
	if err := graph.ValidateNames(a, b); err != nil {
		return fmt.Errorf("add friendship: %w", err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.addMirrored(a, b)
	return nil
}

// RemoveFriendship removes both directions of the friendship between a and b.
func (g *Graph) RemoveFriendship(a, b string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.removeEdge(a, b)
	g.removeEdge(b, a)
	return nil
}

// DeletePeople removes the named people and every edge touching them.
func (g *Graph) DeletePeople(names ...string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	gone := make(map[string]struct{}, len(names))
	for _, name := range names {
		friends, exists := g.friends[name]
		if !exists {
			continue
		}

		// Edges are mirrored, so the only incoming edges are the ones from
		// name's own friends.
		for _, friend := range friends {
			g.removeEdge(friend, name)
		}
		delete(g.friends, name)
		gone[name] = struct{}{}
	}

	if len(gone) == 0 {
		return nil
	}

	kept := g.people[:0]
	for _, person := range g.people {
		if _, deleted := gone[person]; !deleted {
			kept = append(kept, person)
		}
	}
	g.people = kept
	return nil
}

// Import creates every key of the adjacency map first and then a mirrored
// friendship for each listed friend. The whole import is applied under a
// single write lock.
func (g *Graph) Import(adjacency map[string][]string) error {
	if err := graph.ValidateAdjacency(adjacency); err != nil {
		return fmt.Errorf("import: %w", err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	keys := graph.ImportOrder(adjacency)
	for _, person := range keys {
		g.ensurePerson(person)
	}
	for _, person := range keys {
		for _, friend := range adjacency[person] {
			if friend == "" {
				continue
			}
			g.addMirrored(person, friend)
		}
	}
	return nil
}

// Friends returns a copy of the ordered friend list for name.
func (g *Graph) Friends(name string) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return append([]string{}, g.friends[name]...), nil
}

// People returns a copy of the people list in insertion order.
func (g *Graph) People() ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return append([]string{}, g.people...), nil
}

// Edges returns an iterator over every directed edge. The edge list is
// collected under the read lock so the iterator is unaffected by later
// mutations.
func (g *Graph) Edges() (graph.EdgeIterator, error) {
	g.mu.RLock()
	var list []graph.Friendship
	for _, person := range g.people {
		for _, friend := range g.friends[person] {
			list = append(list, graph.Friendship{Src: person, Dst: friend})
		}
	}
	g.mu.RUnlock()

	return &edgeIterator{edges: list}, nil
}

// Snapshot returns a deep copy of the graph taken under the read lock.
func (g *Graph) Snapshot() (*graph.Snapshot, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	b := graph.NewSnapshotBuilder()
	for _, person := range g.people {
		b.AddPerson(person)
	}
	for _, person := range g.people {
		for _, friend := range g.friends[person] {
			b.AddEdge(person, friend)
		}
	}
	return b.Build(), nil
}

// ensurePerson adds name to the graph unless it is already present. The
// caller must hold the write lock.
func (g *Graph) ensurePerson(name string) {
	if _, exists := g.friends[name]; exists {
		return
	}
	g.people = append(g.people, name)
	g.friends[name] = nil
}

// addMirrored creates both a and b and, unless a == b, both edge directions.
// The caller must hold the write lock.
func (g *Graph) addMirrored(a, b string) {
	g.ensurePerson(a)
	g.ensurePerson(b)
	if a == b {
		return
	}
	g.addEdge(a, b)
	g.addEdge(b, a)
}

// addEdge appends dst to src's friend list unless the edge already exists.
func (g *Graph) addEdge(src, dst string) {
	for _, existing := range g.friends[src] {
		if existing == dst {
			return
		}
	}
	g.friends[src] = append(g.friends[src], dst)
}

// removeEdge drops dst from src's friend list, preserving the order of the
// remaining entries.
func (g *Graph) removeEdge(src, dst string) {
	list, exists := g.friends[src]
	if !exists {
		return
	}
	for i, existing := range list {
		if existing == dst {
			g.friends[src] = append(list[:i], list[i+1:]...)
			return
		}
	}
}
