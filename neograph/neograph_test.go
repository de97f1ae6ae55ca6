package neograph

import (
	"context"
	"github.com/ejacobg/friendgraph/graph/graphtest"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"os"
	"testing"
)

func TestAcceptance(t *testing.T) {
	uri := os.Getenv("NEO4J_URI")
	if uri == "" {
		t.Skip("Missing NEO4J_URI env var; skipping neo4j-backed graph test suite")
	}

	g, err := NewGraph(uri, os.Getenv("NEO4J_USERNAME"), os.Getenv("NEO4J_PASSWORD"))
	if err != nil {
		t.Fatalf("failed to create graph: %v", err)
	}

	suite := graphtest.Suite{
		G: g,
		BeforeEach: func(t *testing.T) {
			flushDB(t, g)
		},
	}

	suite.TestGraph(t)

	flushDB(t, g)
	if err = g.Close(); err != nil {
		t.Errorf("failed to close driver: %v", err)
	}
}

func flushDB(t *testing.T, g *Graph) {
	ctx := context.Background()
	err := g.write(ctx, func(tx neo4j.ManagedTransaction) error {
		_, err := tx.Run(ctx, "MATCH (p:Person) DETACH DELETE p", nil)
		return err
	})
	if err != nil {
		t.Fatalf("failed to delete people: %v", err)
	}
}
