package inmem

import "github.com/ejacobg/friendgraph/graph"

// edgeIterator is a graph.EdgeIterator implementation for the in-memory graph.
type edgeIterator struct {
	edges []graph.Friendship
	curr  int
}

// Next implements graph.EdgeIterator.
func (i *edgeIterator) Next() bool {
	if i.curr >= len(i.edges) {
		return false
	}
	i.curr++
	return true
}

// Error implements graph.EdgeIterator.
func (i *edgeIterator) Error() error {
	return nil
}

// Close implements graph.EdgeIterator.
func (i *edgeIterator) Close() error {
	return nil
}

// Friendship implements graph.EdgeIterator. The edge list is private to the
// iterator, so a copy of the current entry can be handed out without locking.
func (i *edgeIterator) Friendship() *graph.Friendship {
	edge := new(graph.Friendship)
	*edge = i.edges[i.curr-1]
	return edge
}
