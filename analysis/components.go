// Package analysis implements read-only algorithms over a friendship graph
// snapshot: friend groups, shortest paths, cycle detection, friend-of-friend
// recommendations and popularity ranking.
//
// None of the functions in this package mutate the view they are given.
package analysis

import (
	"context"
	"fmt"
	"github.com/ejacobg/friendgraph/graph"
	"github.com/ejacobg/friendgraph/traversal"
)

// CountComponents returns the number of friend groups (connected components)
// in view. The strategy only affects the traversal order, never the result.
func CountComponents(ctx context.Context, view graph.View, strategy traversal.Strategy) (int, error) {
	var count int
	err := forEachComponent(ctx, view, strategy, func([]string) { count++ })
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Components returns every friend group in view. Groups are listed in the
// order their first member appears in view.People() and members are listed
// in traversal order.
func Components(ctx context.Context, view graph.View, strategy traversal.Strategy) ([][]string, error) {
	var groups [][]string
	err := forEachComponent(ctx, view, strategy, func(members []string) {
		groups = append(groups, members)
	})
	if err != nil {
		return nil, err
	}
	return groups, nil
}

func forEachComponent(ctx context.Context, view graph.View, strategy traversal.Strategy, fn func([]string)) error {
	visited := make(traversal.VisitedSet)
	for _, person := range view.People() {
		if visited.Has(person) {
			continue
		}

		members, err := traversal.Walk(ctx, view, person, strategy, visited)
		if err != nil {
			return fmt.Errorf("components: %w", err)
		}
		fn(members)
	}
	return nil
}
