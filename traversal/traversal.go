// Package traversal implements iterative depth-first and breadth-first walks
// over a friendship graph view.
package traversal

import (
	"context"
	"fmt"
	"github.com/ejacobg/friendgraph/graph"
	"strings"
)

// Strategy selects the order in which a walk explores the graph.
type Strategy int

const (
	// DepthFirst explores the graph using an explicit stack.
	DepthFirst Strategy = iota

	// BreadthFirst explores the graph using an explicit queue.
	BreadthFirst
)

// String implements fmt.Stringer.
func (s Strategy) String() string {
	switch s {
	case DepthFirst:
		return "dfs"
	case BreadthFirst:
		return "bfs"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy maps "dfs" / "bfs" (case-insensitive) to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "dfs", "depth-first":
		return DepthFirst, nil
	case "bfs", "breadth-first":
		return BreadthFirst, nil
	default:
		return 0, fmt.Errorf("unsupported traversal strategy %q", name)
	}
}

// VisitedSet tracks the people reached by one or more walks.
type VisitedSet map[string]struct{}

// Has reports whether name has been visited.
func (v VisitedSet) Has(name string) bool {
	_, found := v[name]
	return found
}

// Add marks name as visited.
func (v VisitedSet) Add(name string) {
	v[name] = struct{}{}
}

// Walk visits start and every person reachable from it through outgoing
// edges, marking each one in visited at most once. People already present in
// visited are neither revisited nor expanded. Neighbors are explored in the
// order returned by view.Friends, which is only stable for a single snapshot.
//
// Walk returns the newly visited people in the order they were expanded. It
// checks ctx before expanding each person and returns ctx.Err() once it is
// cancelled.
func Walk(ctx context.Context, view graph.View, start string, strategy Strategy, visited VisitedSet) ([]string, error) {
	if visited.Has(start) {
		return nil, nil
	}

	var f frontier
	switch strategy {
	case DepthFirst:
		f = new(stack)
	case BreadthFirst:
		f = new(queue)
	default:
		return nil, fmt.Errorf("walk: unsupported traversal strategy %v", strategy)
	}

	visited.Add(start)
	f.push(start)

	var order []string
	for f.len() > 0 {
		if err := ctx.Err(); err != nil {
			return order, err
		}

		current := f.pop()
		order = append(order, current)
		friends := view.Friends(current)

		// A stack pops in reverse, so push friends back to front to keep
		// expanding them in enumeration order.
		for i := range friends {
			next := friends[i]
			if strategy == DepthFirst {
				next = friends[len(friends)-1-i]
			}
			if visited.Has(next) {
				continue
			}
			visited.Add(next)
			f.push(next)
		}
	}

	return order, nil
}
