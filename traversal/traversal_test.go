package traversal

import (
	"context"
	"errors"
	"fmt"
	"github.com/ejacobg/friendgraph/graph"
	"github.com/google/go-cmp/cmp"
	"testing"
)

// tree builds the following mirrored graph:
//
//	A - B - D
//	|   |
//	C   E     F - G
func tree() *graph.Snapshot {
	return graph.NewSnapshot(map[string][]string{
		"A": {"B", "C"},
		"B": {"A", "D", "E"},
		"C": {"A"},
		"D": {"B"},
		"E": {"B"},
		"F": {"G"},
		"G": {"F"},
	})
}

func TestWalkOrder(t *testing.T) {
	specs := []struct {
		strategy Strategy
		exp      []string
	}{
		{DepthFirst, []string{"A", "B", "D", "E", "C"}},
		{BreadthFirst, []string{"A", "B", "C", "D", "E"}},
	}

	for _, spec := range specs {
		t.Run(spec.strategy.String(), func(t *testing.T) {
			visited := make(VisitedSet)
			got, err := Walk(context.TODO(), tree(), "A", spec.strategy, visited)
			if err != nil {
				t.Fatalf("walk failed: %v", err)
			}
			if !cmp.Equal(got, spec.exp) {
				t.Errorf("got order %v, want %v", got, spec.exp)
			}
			if len(visited) != 5 || visited.Has("F") || visited.Has("G") {
				t.Errorf("unexpected visited set %v", visited)
			}
		})
	}
}

func TestWalkSkipsVisited(t *testing.T) {
	visited := VisitedSet{"B": {}}
	got, err := Walk(context.TODO(), tree(), "A", BreadthFirst, visited)
	if err != nil {
		t.Fatalf("walk failed: %v", err)
	}
	if exp := []string{"A", "C"}; !cmp.Equal(got, exp) {
		t.Errorf("got order %v, want %v", got, exp)
	}

	got, err = Walk(context.TODO(), tree(), "A", BreadthFirst, visited)
	if err != nil {
		t.Fatalf("walk failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("walking from a visited person returned %v", got)
	}
}

func TestWalkUnknownStart(t *testing.T) {
	visited := make(VisitedSet)
	got, err := Walk(context.TODO(), tree(), "nobody", DepthFirst, visited)
	if err != nil {
		t.Fatalf("walk failed: %v", err)
	}
	if exp := []string{"nobody"}; !cmp.Equal(got, exp) {
		t.Errorf("got order %v, want %v", got, exp)
	}
}

func TestWalkLongChain(t *testing.T) {
	// Deep enough to blow a naive recursive implementation's budget while
	// still being fast.
	const n = 100000
	adjacency := make(map[string][]string, n)
	for i := 0; i < n-1; i++ {
		a, b := fmt.Sprint(i), fmt.Sprint(i+1)
		adjacency[a] = append(adjacency[a], b)
		adjacency[b] = append(adjacency[b], a)
	}
	snap := graph.NewSnapshot(adjacency)

	for _, strategy := range []Strategy{DepthFirst, BreadthFirst} {
		visited := make(VisitedSet)
		got, err := Walk(context.TODO(), snap, "0", strategy, visited)
		if err != nil {
			t.Fatalf("%v walk failed: %v", strategy, err)
		}
		if len(got) != n {
			t.Errorf("%v walk visited %d people, want %d", strategy, len(got), n)
		}
	}
}

func TestWalkCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Walk(ctx, tree(), "A", BreadthFirst, make(VisitedSet))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("unexpected error %v, want %v", err, context.Canceled)
	}
}

func TestWalkUnsupportedStrategy(t *testing.T) {
	if _, err := Walk(context.TODO(), tree(), "A", Strategy(42), make(VisitedSet)); err == nil {
		t.Error("expected an error for an unsupported strategy")
	}
}

func TestParseStrategy(t *testing.T) {
	specs := []struct {
		in  string
		exp Strategy
	}{
		{"dfs", DepthFirst},
		{"DFS", DepthFirst},
		{" bfs ", BreadthFirst},
		{"breadth-first", BreadthFirst},
	}
	for _, spec := range specs {
		got, err := ParseStrategy(spec.in)
		if err != nil {
			t.Errorf("ParseStrategy(%q): %v", spec.in, err)
			continue
		}
		if got != spec.exp {
			t.Errorf("ParseStrategy(%q) = %v, want %v", spec.in, got, spec.exp)
		}
	}

	if _, err := ParseStrategy("astar"); err == nil {
		t.Error("expected an error for an unknown strategy")
	}
}
