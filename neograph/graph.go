// Package neograph provides a friendship graph backed by Neo4j. People are
// stored as (:Person {name}) nodes and every friendship as a pair of
// [:FRIEND] relationships, one in each direction.
package neograph

import (
	"context"
	"fmt"
	"github.com/ejacobg/friendgraph/graph"
	"github.com/hashicorp/go-multierror"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"time"
)

// Compile-time check for ensuring Graph implements graph.Graph.
var _ graph.Graph = (*Graph)(nil)

const defaultTimeout = 30 * time.Second

// People and relationships carry a creation timestamp used for enumeration
// order. Neo4j returns the same timestamp() for a whole query, so ties are
// broken by name.
var (
	schemaQuery = `CREATE CONSTRAINT person_name_unique IF NOT EXISTS FOR (p:Person) REQUIRE p.name IS UNIQUE`

	mergePeopleQuery = `
		UNWIND $names AS name
		MERGE (p:Person {name: name})
		ON CREATE SET p.created = timestamp()`

	mergeFriendshipQuery = `
		MATCH (a:Person {name: $a}), (b:Person {name: $b})
		MERGE (a)-[r1:FRIEND]->(b) ON CREATE SET r1.created = timestamp()
		MERGE (b)-[r2:FRIEND]->(a) ON CREATE SET r2.created = timestamp()`

	removeFriendshipQuery = `
		MATCH (:Person {name: $a})-[r:FRIEND]-(:Person {name: $b})
		DELETE r`

	deletePeopleQuery = `
		UNWIND $names AS name
		MATCH (p:Person {name: name})
		DETACH DELETE p`

	friendsQuery = `
		MATCH (:Person {name: $name})-[r:FRIEND]->(f:Person)
		RETURN f.name AS name
		ORDER BY r.created, f.name`

	peopleQuery = `
		MATCH (p:Person)
		RETURN p.name AS name
		ORDER BY p.created, p.name`

	edgesQuery = `
		MATCH (a:Person)-[r:FRIEND]->(b:Person)
		RETURN a.name AS src, b.name AS dst
		ORDER BY r.created, a.name, b.name`
)

// Graph implements a friendship graph on top of a Neo4j database. Every
// mutation runs in a single managed write transaction.
type Graph struct {
	driver  neo4j.DriverWithContext
	timeout time.Duration
}

// NewGraph connects to the Neo4j server at uri, verifies connectivity and
// makes sure the uniqueness constraint on person names exists.
func NewGraph(uri, user, password string) (*Graph, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}

	g := &Graph{driver: driver, timeout: defaultTimeout}

	ctx, cancel := g.context()
	defer cancel()

	if err = driver.VerifyConnectivity(ctx); err != nil {
		return nil, multierror.Append(fmt.Errorf("verify connectivity: %w", err), driver.Close(ctx))
	}
	if err = g.EnsureSchema(ctx); err != nil {
		return nil, multierror.Append(err, driver.Close(ctx))
	}
	return g, nil
}

// EnsureSchema creates the uniqueness constraint on person names. It is
// idempotent.
func (g *Graph) EnsureSchema(ctx context.Context) error {
	if err := g.write(ctx, func(tx neo4j.ManagedTransaction) error {
		_, err := tx.Run(ctx, schemaQuery, nil)
		return err
	}); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Close releases the driver and its connection pool.
func (g *Graph) Close() error {
	ctx, cancel := g.context()
	defer cancel()
	return g.driver.Close(ctx)
}

// AddFriendship links a and b with a mirrored pair of FRIEND relationships,
// creating either person if needed.
func (g *Graph) AddFriendship(a, b string) error {
	if err := graph.ValidateNames(a, b); err != nil {
		return fmt.Errorf("add friendship: %w", err)
	}

	ctx, cancel := g.context()
	defer cancel()

	if err := g.write(ctx, func(tx neo4j.ManagedTransaction) error {
		return mergeMirrored(ctx, tx, a, b)
	}); err != nil {
		return fmt.Errorf("add friendship: %w", err)
	}
	return nil
}

// RemoveFriendship removes both FRIEND relationships between a and b.
func (g *Graph) RemoveFriendship(a, b string) error {
	ctx, cancel := g.context()
	defer cancel()

	if err := g.write(ctx, func(tx neo4j.ManagedTransaction) error {
		_, err := tx.Run(ctx, removeFriendshipQuery, map[string]any{"a": a, "b": b})
		return err
	}); err != nil {
		return fmt.Errorf("remove friendship: %w", err)
	}
	return nil
}

// DeletePeople detaches and deletes the named people.
func (g *Graph) DeletePeople(names ...string) error {
	if len(names) == 0 {
		return nil
	}

	ctx, cancel := g.context()
	defer cancel()

	if err := g.write(ctx, func(tx neo4j.ManagedTransaction) error {
		_, err := tx.Run(ctx, deletePeopleQuery, map[string]any{"names": names})
		return err
	}); err != nil {
		return fmt.Errorf("delete people: %w", err)
	}
	return nil
}

// Import merges every key of the adjacency map and then a mirrored
// friendship for each listed friend, all within one write transaction.
func (g *Graph) Import(adjacency map[string][]string) error {
	if err := graph.ValidateAdjacency(adjacency); err != nil {
		return fmt.Errorf("import: %w", err)
	}

	ctx, cancel := g.context()
	defer cancel()

	keys := graph.ImportOrder(adjacency)
	if err := g.write(ctx, func(tx neo4j.ManagedTransaction) error {
		if _, err := tx.Run(ctx, mergePeopleQuery, map[string]any{"names": keys}); err != nil {
			return err
		}
		for _, person := range keys {
			for _, friend := range adjacency[person] {
				if friend == "" {
					continue
				}
				if err := mergeMirrored(ctx, tx, person, friend); err != nil {
					return err
				}
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	return nil
}

// Friends returns the ordered friend list for name.
func (g *Graph) Friends(name string) ([]string, error) {
	ctx, cancel := g.context()
	defer cancel()

	var friends []string
	err := g.read(ctx, func(tx neo4j.ManagedTransaction) error {
		var err error
		friends, err = collectNames(ctx, tx, friendsQuery, map[string]any{"name": name})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("friends: %w", err)
	}
	return friends, nil
}

// People returns every person ordered by creation time.
func (g *Graph) People() ([]string, error) {
	ctx, cancel := g.context()
	defer cancel()

	var people []string
	err := g.read(ctx, func(tx neo4j.ManagedTransaction) error {
		var err error
		people, err = collectNames(ctx, tx, peopleQuery, nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("people: %w", err)
	}
	return people, nil
}

// Edges returns an iterator over every directed FRIEND relationship. Results
// of a managed transaction cannot outlive it, so the edges are buffered.
func (g *Graph) Edges() (graph.EdgeIterator, error) {
	ctx, cancel := g.context()
	defer cancel()

	var edges []graph.Friendship
	err := g.read(ctx, func(tx neo4j.ManagedTransaction) error {
		var err error
		edges, err = collectEdges(ctx, tx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("edges: %w", err)
	}
	return &edgeIterator{edges: edges}, nil
}

// Snapshot reads all people and relationships inside one read transaction.
func (g *Graph) Snapshot() (*graph.Snapshot, error) {
	ctx, cancel := g.context()
	defer cancel()

	var (
		people []string
		edges  []graph.Friendship
	)
	err := g.read(ctx, func(tx neo4j.ManagedTransaction) error {
		var err error
		if people, err = collectNames(ctx, tx, peopleQuery, nil); err != nil {
			return err
		}
		edges, err = collectEdges(ctx, tx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}

	b := graph.NewSnapshotBuilder()
	for _, person := range people {
		b.AddPerson(person)
	}
	for _, edge := range edges {
		b.AddEdge(edge.Src, edge.Dst)
	}
	return b.Build(), nil
}

func (g *Graph) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), g.timeout)
}

func (g *Graph) write(ctx context.Context, fn func(neo4j.ManagedTransaction) error) error {
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return nil, fn(tx)
	})
	return err
}

func (g *Graph) read(ctx context.Context, fn func(neo4j.ManagedTransaction) error) error {
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	_, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return nil, fn(tx)
	})
	return err
}

// mergeMirrored merges both people and, unless a == b, both relationship
// directions.
func mergeMirrored(ctx context.Context, tx neo4j.ManagedTransaction, a, b string) error {
	if _, err := tx.Run(ctx, mergePeopleQuery, map[string]any{"names": []string{a, b}}); err != nil {
		return err
	}
	if a == b {
		return nil
	}
	_, err := tx.Run(ctx, mergeFriendshipQuery, map[string]any{"a": a, "b": b})
	return err
}

func collectNames(ctx context.Context, tx neo4j.ManagedTransaction, query string, params map[string]any) ([]string, error) {
	res, err := tx.Run(ctx, query, params)
	if err != nil {
		return nil, err
	}

	names := []string{}
	for res.Next(ctx) {
		name, _ := res.Record().Get("name")
		names = append(names, name.(string))
	}
	return names, res.Err()
}

func collectEdges(ctx context.Context, tx neo4j.ManagedTransaction) ([]graph.Friendship, error) {
	res, err := tx.Run(ctx, edgesQuery, nil)
	if err != nil {
		return nil, err
	}

	var edges []graph.Friendship
	for res.Next(ctx) {
		rec := res.Record()
		src, _ := rec.Get("src")
		dst, _ := rec.Get("dst")
		edges = append(edges, graph.Friendship{Src: src.(string), Dst: dst.(string)})
	}
	return edges, res.Err()
}
