package neograph

import "github.com/ejacobg/friendgraph/graph"

// edgeIterator is a graph.EdgeIterator over edges buffered from a read
// transaction.
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

// Friendship implements graph.EdgeIterator.
func (i *edgeIterator) Friendship() *graph.Friendship {
	edge := i.edges[i.curr-1]
	return &edge
}
