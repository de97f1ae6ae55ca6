package analysis

import (
	"context"
	"fmt"
	"github.com/ejacobg/friendgraph/graph"
)

// ShortestPath returns a path with the fewest possible edges from source to
// target, both ends included. The boolean result is false when either person
// is unknown or target cannot be reached from source; that is not an error.
func ShortestPath(ctx context.Context, view graph.View, source, target string) ([]string, bool, error) {
	if !view.Has(source) || !view.Has(target) {
		return nil, false, nil
	}

	// parent maps each discovered person to the person it was discovered
	// from. The source is its own root and has no entry.
	parent := make(map[string]string)
	seen := map[string]struct{}{source: {}}
	queue := []string{source}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, false, fmt.Errorf("shortest path: %w", err)
		}

		current := queue[0]
		queue = queue[1:]

		if current == target {
			return reconstructPath(parent, source, target), true, nil
		}

		for _, friend := range view.Friends(current) {
			if _, found := seen[friend]; found {
				continue
			}
			seen[friend] = struct{}{}
			parent[friend] = current
			queue = append(queue, friend)
		}
	}

	return nil, false, nil
}

// reconstructPath follows parent links back from target and reverses them.
func reconstructPath(parent map[string]string, source, target string) []string {
	path := []string{target}
	for current := target; current != source; {
		current = parent[current]
		path = append(path, current)
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
