package graphtest

import (
	"errors"
	"fmt"
	"github.com/ejacobg/friendgraph/graph"
	"github.com/google/go-cmp/cmp"
	"sort"
	"sync"
	"testing"
	"time"
)

// Suite defines a re-usable set of graph-related tests that can
// be executed against any type that implements graph.Graph.
type Suite struct {
	G graph.Graph

	// Optional helper functions.
	BeforeEach func(*testing.T)
	AfterEach  func(*testing.T)
}

// TestGraph runs every acceptance test against s.G.
func (s *Suite) TestGraph(t *testing.T) {
	tests := []struct {
		name string
		fn   func(*testing.T, graph.Graph)
	}{
		{"Add friendship", TestAddFriendship},
		{"Add self friendship", TestAddSelfFriendship},
		{"Remove friendship", TestRemoveFriendship},
		{"Delete people", TestDeletePeople},
		{"Import", TestImport},
		{"Unknown person", TestUnknownPerson},
		{"Edge iterator", TestEdgeIterator},
		{"Snapshot isolation", TestSnapshotIsolation},
		{"Concurrent snapshots", TestConcurrentSnapshots},
	}

	if s.BeforeEach == nil {
		s.BeforeEach = func(t *testing.T) {}
	}

	if s.AfterEach == nil {
		s.AfterEach = func(t *testing.T) {}
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s.BeforeEach(t)
			test.fn(t, s.G)
			s.AfterEach(t)
		})
	}
}

// TestAddFriendship verifies that friendships are mirrored, idempotent and
// implicitly create the people involved.
func TestAddFriendship(t *testing.T, g graph.Graph) {
	if err := g.AddFriendship("alice", "bob"); err != nil {
		t.Fatalf("failed to add friendship: %v", err)
	}

	assertPeople(t, g, "alice", "bob")
	assertFriends(t, g, "alice", "bob")
	assertFriends(t, g, "bob", "alice")

	// Adding the same friendship again, in either direction, is a no-op.
	if err := g.AddFriendship("alice", "bob"); err != nil {
		t.Fatalf("failed to re-add friendship: %v", err)
	}
	if err := g.AddFriendship("bob", "alice"); err != nil {
		t.Fatalf("failed to re-add reversed friendship: %v", err)
	}
	assertFriends(t, g, "alice", "bob")
	assertFriends(t, g, "bob", "alice")

	if err := g.AddFriendship("alice", "carol"); err != nil {
		t.Fatalf("failed to add friendship: %v", err)
	}
	assertPeople(t, g, "alice", "bob", "carol")
	assertFriends(t, g, "alice", "bob", "carol")
	assertFriends(t, g, "carol", "alice")

	// Names are case-sensitive.
	if err := g.AddFriendship("Alice", "bob"); err != nil {
		t.Fatalf("failed to add friendship: %v", err)
	}
	assertPeople(t, g, "Alice", "alice", "bob", "carol")

	err := g.AddFriendship("alice", "")
	if !errors.Is(err, graph.ErrInvalidName) {
		t.Errorf("unexpected error %v, want %v", err, graph.ErrInvalidName)
	}

	// Names may not contain adjacency list separators.
	for _, name := range []string{"Smith, John", "a:b", " padded", "two\nlines"} {
		if err = g.AddFriendship("alice", name); !errors.Is(err, graph.ErrInvalidName) {
			t.Errorf("adding %q: unexpected error %v, want %v", name, err, graph.ErrInvalidName)
		}
	}
	assertPeople(t, g, "Alice", "alice", "bob", "carol")
}

// TestAddSelfFriendship verifies that a self-loop creates the person but no
// edge.
func TestAddSelfFriendship(t *testing.T, g graph.Graph) {
	if err := g.AddFriendship("narcissus", "narcissus"); err != nil {
		t.Fatalf("failed to add friendship: %v", err)
	}
	assertPeople(t, g, "narcissus")
	assertFriends(t, g, "narcissus")
}

// TestRemoveFriendship verifies that both directions are removed and that
// removing a missing friendship is not an error.
func TestRemoveFriendship(t *testing.T, g graph.Graph) {
	mustAdd(t, g, "alice", "bob")
	mustAdd(t, g, "alice", "carol")

	if err := g.RemoveFriendship("bob", "alice"); err != nil {
		t.Fatalf("failed to remove friendship: %v", err)
	}
	assertFriends(t, g, "alice", "carol")
	assertFriends(t, g, "bob")

	// People survive the loss of their friendships.
	assertPeople(t, g, "alice", "bob", "carol")

	if err := g.RemoveFriendship("alice", "bob"); err != nil {
		t.Errorf("removing a missing friendship failed: %v", err)
	}
	if err := g.RemoveFriendship("nobody", "ghost"); err != nil {
		t.Errorf("removing a friendship between unknown people failed: %v", err)
	}
	assertPeople(t, g, "alice", "bob", "carol")
}

// TestDeletePeople verifies that deleting a person removes every incident
// edge, for single and batch deletes alike.
func TestDeletePeople(t *testing.T, g graph.Graph) {
	mustAdd(t, g, "alice", "bob")
	mustAdd(t, g, "alice", "carol")
	mustAdd(t, g, "bob", "carol")
	mustAdd(t, g, "carol", "dave")
	mustAdd(t, g, "erin", "frank")

	if err := g.DeletePeople("carol"); err != nil {
		t.Fatalf("failed to delete person: %v", err)
	}
	assertPeople(t, g, "alice", "bob", "dave", "erin", "frank")
	assertFriends(t, g, "alice", "bob")
	assertFriends(t, g, "bob", "alice")
	assertFriends(t, g, "dave")

	if err := g.DeletePeople("erin", "ghost", "alice"); err != nil {
		t.Fatalf("failed to delete people: %v", err)
	}
	assertPeople(t, g, "bob", "dave", "frank")
	assertFriends(t, g, "bob")
	assertFriends(t, g, "frank")

	if err := g.DeletePeople(); err != nil {
		t.Errorf("empty delete failed: %v", err)
	}
}

// TestImport verifies the two-phase adjacency import.
func TestImport(t *testing.T, g graph.Graph) {
	adjacency := map[string][]string{
		"A": {"B", "C", "C"},
		"B": {"A", "Z"},
		"C": {""},
		"D": {},
		"E": {"E"},
	}
	if err := g.Import(adjacency); err != nil {
		t.Fatalf("failed to import graph: %v", err)
	}

	// Z is only mentioned as a friend but must still be created.
	assertPeople(t, g, "A", "B", "C", "D", "E", "Z")
	assertFriends(t, g, "A", "B", "C")
	assertFriends(t, g, "B", "A", "Z")
	assertFriends(t, g, "C", "A")
	assertFriends(t, g, "D")
	assertFriends(t, g, "E")
	assertFriends(t, g, "Z", "B")

	err := g.Import(map[string][]string{"": {"A"}})
	if !errors.Is(err, graph.ErrInvalidName) {
		t.Errorf("unexpected error %v, want %v", err, graph.ErrInvalidName)
	}

	// A reserved character anywhere rejects the whole import.
	err = g.Import(map[string][]string{"F": {"G"}, "H": {"Smith, John"}})
	if !errors.Is(err, graph.ErrInvalidName) {
		t.Errorf("unexpected error %v, want %v", err, graph.ErrInvalidName)
	}
	assertPeople(t, g, "A", "B", "C", "D", "E", "Z")
}

// TestUnknownPerson verifies that queries about unknown people return empty
// results instead of errors.
func TestUnknownPerson(t *testing.T, g graph.Graph) {
	mustAdd(t, g, "alice", "bob")

	friends, err := g.Friends("ghost")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(friends) != 0 {
		t.Errorf("got friends %v for an unknown person", friends)
	}

	snap, err := g.Snapshot()
	if err != nil {
		t.Fatalf("failed to take snapshot: %v", err)
	}
	if snap.Has("ghost") {
		t.Error("snapshot reports an unknown person")
	}
	if !snap.Has("alice") {
		t.Error("snapshot is missing a known person")
	}
}

// TestEdgeIterator verifies that the iterator yields both directions of every
// friendship exactly once.
func TestEdgeIterator(t *testing.T, g graph.Graph) {
	numPeople := 20
	for i := 1; i < numPeople; i++ {
		mustAdd(t, g, "p0", fmt.Sprintf("p%d", i))
	}

	it, err := g.Edges()
	if err != nil {
		t.Fatalf("failed to create iterator: %v", err)
	}
	defer func() {
		if err := it.Close(); err != nil {
			t.Errorf("failed to close iterator: %v", err)
		}
	}()

	seen := make(map[graph.Friendship]bool)
	for it.Next() {
		edge := *it.Friendship()
		if seen[edge] {
			t.Errorf("iterator returned edge %v twice", edge)
		}
		seen[edge] = true
	}
	if err = it.Error(); err != nil {
		t.Errorf("iterator error: %v", err)
	}

	if exp := 2 * (numPeople - 1); len(seen) != exp {
		t.Errorf("got %d edges, want %d", len(seen), exp)
	}
	for edge := range seen {
		if !seen[edge.Reverse()] {
			t.Errorf("edge %v is not mirrored", edge)
		}
	}
}

// TestSnapshotIsolation verifies that a snapshot is not affected by mutations
// applied after it was taken.
func TestSnapshotIsolation(t *testing.T, g graph.Graph) {
	mustAdd(t, g, "alice", "bob")
	mustAdd(t, g, "bob", "carol")

	snap, err := g.Snapshot()
	if err != nil {
		t.Fatalf("failed to take snapshot: %v", err)
	}

	mustAdd(t, g, "alice", "carol")
	if err = g.DeletePeople("bob"); err != nil {
		t.Fatalf("failed to delete person: %v", err)
	}

	if got := sorted(snap.People()); !cmp.Equal(got, []string{"alice", "bob", "carol"}) {
		t.Errorf("snapshot people changed: %v", got)
	}
	if got := sorted(snap.Friends("bob")); !cmp.Equal(got, []string{"alice", "carol"}) {
		t.Errorf("snapshot friends changed: %v", got)
	}
	if got := snap.Friends("alice"); !cmp.Equal(got, []string{"bob"}) {
		t.Errorf("snapshot friends changed: %v", got)
	}
}

// TestConcurrentSnapshots verifies that readers never observe half of a
// mirrored edge pair while a writer mutates the graph.
func TestConcurrentSnapshots(t *testing.T, g graph.Graph) {
	var (
		wg         sync.WaitGroup
		numReaders = 5
		numWrites  = 50
	)

	wg.Add(numReaders + 1)
	go func() {
		defer wg.Done()
		for i := 0; i < numWrites; i++ {
			a, b := fmt.Sprintf("w%d", i), fmt.Sprintf("w%d", i+1)
			if err := g.AddFriendship(a, b); err != nil {
				t.Errorf("failed to add friendship: %v", err)
				return
			}
			if i%3 == 0 {
				if err := g.RemoveFriendship(a, b); err != nil {
					t.Errorf("failed to remove friendship: %v", err)
					return
				}
			}
		}
	}()

	for i := 0; i < numReaders; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				snap, err := g.Snapshot()
				if err != nil {
					t.Errorf("reader %d: failed to take snapshot: %v", id, err)
					return
				}
				assertMirrored(t, snap)
			}
		}(i)
	}

	doneCh := make(chan struct{})
	go func() {
		wg.Wait()
		close(doneCh)
	}()

	select {
	case <-doneCh:
	// test completed successfully
	case <-time.After(30 * time.Second):
		t.Fatal("timed out waiting for test to complete")
	}
}

func mustAdd(t *testing.T, g graph.Graph, a, b string) {
	t.Helper()
	if err := g.AddFriendship(a, b); err != nil {
		t.Fatalf("failed to add friendship %s-%s: %v", a, b, err)
	}
}

func assertPeople(t *testing.T, g graph.Graph, exp ...string) {
	t.Helper()
	got, err := g.People()
	if err != nil {
		t.Fatalf("failed to list people: %v", err)
	}
	if got, exp := sorted(got), sorted(exp); !cmp.Equal(got, exp) {
		t.Errorf("got people %v, want %v", got, exp)
	}
}

func assertFriends(t *testing.T, g graph.Graph, name string, exp ...string) {
	t.Helper()
	got, err := g.Friends(name)
	if err != nil {
		t.Fatalf("failed to list friends of %s: %v", name, err)
	}
	if got, exp := sorted(got), sorted(exp); !cmp.Equal(got, exp) {
		t.Errorf("got friends of %s %v, want %v", name, got, exp)
	}
}

func assertMirrored(t *testing.T, snap *graph.Snapshot) {
	t.Helper()
	for _, person := range snap.People() {
		for _, friend := range snap.Friends(person) {
			if !contains(snap.Friends(friend), person) {
				t.Errorf("edge %s->%s has no mirror", person, friend)
			}
		}
	}
}

func contains(list []string, name string) bool {
	for _, v := range list {
		if v == name {
			return true
		}
	}
	return false
}

// sorted returns a sorted copy of list; nil and empty lists compare equal.
func sorted(list []string) []string {
	out := append([]string{}, list...)
	sort.Strings(out)
	return out
}
