package cdb

import (
	"database/sql"
	"fmt"
	"github.com/ejacobg/friendgraph/graph"
)

// edgeIterator is a graph.EdgeIterator implementation for the cdb graph.
type edgeIterator struct {
	rows        *sql.Rows
	lastErr     error
	latchedEdge *graph.Friendship
}

// Next implements graph.EdgeIterator.
func (i *edgeIterator) Next() bool {
	if i.lastErr != nil || !i.rows.Next() {
		return false
	}

	e := new(graph.Friendship)
	i.lastErr = i.rows.Scan(&e.Src, &e.Dst)
	if i.lastErr != nil {
		return false
	}

	i.latchedEdge = e
	return true
}

// Error implements graph.EdgeIterator.
func (i *edgeIterator) Error() error {
	if i.lastErr != nil {
		return i.lastErr
	}
	return i.rows.Err()
}

// Close implements graph.EdgeIterator.
func (i *edgeIterator) Close() error {
	err := i.rows.Close()
	if err != nil {
		return fmt.Errorf("edge iterator: %w", err)
	}
	return nil
}

// Friendship implements graph.EdgeIterator.
func (i *edgeIterator) Friendship() *graph.Friendship {
	return i.latchedEdge
}
