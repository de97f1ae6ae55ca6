package analysis

import (
	"context"
	"fmt"
	"github.com/ejacobg/friendgraph/graph"
	"github.com/ejacobg/friendgraph/traversal"
)

// frame is an entry of the explicit DFS stack used by FindCycle.
type frame struct {
	person string

	// parent is the person this frame was reached from. The edge back to it
	// is the mirror of the tree edge and must not count as a cycle.
	parent    string
	hasParent bool

	// next is the index of the next friend to examine.
	next int
}

// FindCycle looks for a cycle in view and returns it as a closed walk whose
// first and last entries are the same person, e.g. [A B C A]. The boolean
// result is false when the graph is acyclic.
//
// Every friendship is stored as two mirrored edges, so the edge leading back
// to a person's DFS parent is ignored; only an edge to another person on the
// current DFS path is reported as a cycle.
func FindCycle(ctx context.Context, view graph.View) ([]string, bool, error) {
	visited := make(traversal.VisitedSet)

	for _, root := range view.People() {
		if visited.Has(root) {
			continue
		}

		visited.Add(root)
		stack := []frame{{person: root}}
		path := []string{root}
		onPath := map[string]int{root: 0}

		for len(stack) > 0 {
			if err := ctx.Err(); err != nil {
				return nil, false, fmt.Errorf("find cycle: %w", err)
			}

			top := &stack[len(stack)-1]
			friends := view.Friends(top.person)
			if top.next >= len(friends) {
				// Fully explored; leave the current path.
				delete(onPath, top.person)
				path = path[:len(path)-1]
				stack = stack[:len(stack)-1]
				continue
			}

			current := top.person
			friend := friends[top.next]
			top.next++

			if top.hasParent && friend == top.parent {
				continue
			}
			if idx, found := onPath[friend]; found {
				cycle := append([]string{}, path[idx:]...)
				return append(cycle, friend), true, nil
			}
			if visited.Has(friend) {
				continue
			}

			visited.Add(friend)
			onPath[friend] = len(path)
			path = append(path, friend)
			stack = append(stack, frame{person: friend, parent: current, hasParent: true})
		}
	}

	return nil, false, nil
}
