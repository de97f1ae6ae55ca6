package inmem

import (
	"github.com/ejacobg/friendgraph/graph/graphtest"
	"github.com/google/go-cmp/cmp"
	"testing"
)

func TestAcceptance(t *testing.T) {
	suite := graphtest.Suite{}

	suite.BeforeEach = func(_ *testing.T) {
		suite.G = NewGraph()
	}

	suite.TestGraph(t)
}

// Writing individual tests for debugging purposes.

func TestDeletePeople(t *testing.T) {
	graphtest.TestDeletePeople(t, NewGraph())
}

func TestImport(t *testing.T) {
	graphtest.TestImport(t, NewGraph())
}

func TestConcurrentSnapshots(t *testing.T) {
	graphtest.TestConcurrentSnapshots(t, NewGraph())
}

// The in-memory store enumerates people and friends in insertion order.
func TestInsertionOrder(t *testing.T) {
	g := NewGraph()
	for _, pair := range [][2]string{{"d", "a"}, {"d", "c"}, {"b", "d"}, {"d", "a"}} {
		if err := g.AddFriendship(pair[0], pair[1]); err != nil {
			t.Fatalf("failed to add friendship: %v", err)
		}
	}

	people, _ := g.People()
	if exp := []string{"d", "a", "c", "b"}; !cmp.Equal(people, exp) {
		t.Errorf("got people %v, want %v", people, exp)
	}

	friends, _ := g.Friends("d")
	if exp := []string{"a", "c", "b"}; !cmp.Equal(friends, exp) {
		t.Errorf("got friends %v, want %v", friends, exp)
	}

	if err := g.RemoveFriendship("c", "d"); err != nil {
		t.Fatalf("failed to remove friendship: %v", err)
	}
	friends, _ = g.Friends("d")
	if exp := []string{"a", "b"}; !cmp.Equal(friends, exp) {
		t.Errorf("got friends %v, want %v", friends, exp)
	}

	snap, _ := g.Snapshot()
	if exp := []string{"d", "a", "c", "b"}; !cmp.Equal(snap.People(), exp) {
		t.Errorf("got snapshot people %v, want %v", snap.People(), exp)
	}
}

// Callers may not corrupt the store through the slices it returns.
func TestReturnedSlicesAreCopies(t *testing.T) {
	g := NewGraph()
	if err := g.AddFriendship("a", "b"); err != nil {
		t.Fatalf("failed to add friendship: %v", err)
	}

	friends, _ := g.Friends("a")
	friends[0] = "mallory"
	people, _ := g.People()
	people[0] = "mallory"

	if friends, _ = g.Friends("a"); !cmp.Equal(friends, []string{"b"}) {
		t.Errorf("friend list was modified through a returned slice: %v", friends)
	}
	if people, _ = g.People(); !cmp.Equal(people, []string{"a", "b"}) {
		t.Errorf("people list was modified through a returned slice: %v", people)
	}
}
