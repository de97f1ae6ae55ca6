// Package cdb provides a friendship graph backed by CockroachDB or any other
// PostgreSQL-compatible database.
package cdb

import (
	"context"
	"database/sql"
	"fmt"
	"github.com/ejacobg/friendgraph/graph"
	"github.com/hashicorp/go-multierror"
	"github.com/lib/pq"
)

// Compile-time check for ensuring Graph implements graph.Graph.
var _ graph.Graph = (*Graph)(nil)

// The seq columns preserve insertion order for enumeration. Deleting a person
// cascades to every friendship that references it.
const schema = `
CREATE TABLE IF NOT EXISTS people (
	seq BIGSERIAL NOT NULL,
	name TEXT PRIMARY KEY
);
CREATE TABLE IF NOT EXISTS friendships (
	seq BIGSERIAL NOT NULL,
	src TEXT NOT NULL REFERENCES people (name) ON DELETE CASCADE,
	dst TEXT NOT NULL REFERENCES people (name) ON DELETE CASCADE,
	PRIMARY KEY (src, dst)
);`

var (
	upsertPersonQuery = `INSERT INTO people (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`
	upsertEdgeQuery   = `INSERT INTO friendships (src, dst) VALUES ($1, $2) ON CONFLICT (src, dst) DO NOTHING`
	removeEdgeQuery   = `DELETE FROM friendships WHERE (src = $1 AND dst = $2) OR (src = $2 AND dst = $1)`
	deletePeopleQuery = `DELETE FROM people WHERE name = ANY($1)`
	friendsQuery      = `SELECT dst FROM friendships WHERE src = $1 ORDER BY seq`
	peopleQuery       = `SELECT name FROM people ORDER BY seq`
	edgesQuery        = `SELECT src, dst FROM friendships ORDER BY seq`
)

// Graph implements a friendship graph that persists people and friendships
// to a PostgreSQL-compatible database. Every mutation runs in a single
// transaction.
type Graph struct {
	db *sql.DB
}

// NewGraph returns a graph connected to the database at dsn, creating the
// schema if needed.
func NewGraph(dsn string) (*Graph, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err = db.Ping(); err != nil {
		return nil, multierror.Append(fmt.Errorf("ping database: %w", err), db.Close())
	}

	g := &Graph{db: db}
	if err = g.EnsureSchema(); err != nil {
		return nil, multierror.Append(err, db.Close())
	}
	return g, nil
}

// EnsureSchema creates the tables used by the graph. It is idempotent.
func (g *Graph) EnsureSchema() error {
	if _, err := g.db.Exec(schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Close terminates the connection to the backing database.
func (g *Graph) Close() error {
	return g.db.Close()
}

// AddFriendship links a and b with a mirrored pair of edges, creating either
// person if needed.
func (g *Graph) AddFriendship(a, b string) error {
	if err := graph.ValidateNames(a, b); err != nil {
		return fmt.Errorf("add friendship: %w", err)
	}

	err := g.withTx(func(tx *sql.Tx) error {
		return addMirrored(tx, a, b)
	})
	if err != nil {
		return fmt.Errorf("add friendship: %w", err)
	}
	return nil
}

// RemoveFriendship removes both directions of the friendship between a and b.
func (g *Graph) RemoveFriendship(a, b string) error {
	if _, err := g.db.Exec(removeEdgeQuery, a, b); err != nil {
		return fmt.Errorf("remove friendship: %w", err)
	}
	return nil
}

// DeletePeople removes the named people. Their friendships are removed by
// the ON DELETE CASCADE constraints.
func (g *Graph) DeletePeople(names ...string) error {
	if len(names) == 0 {
		return nil
	}
	if _, err := g.db.Exec(deletePeopleQuery, pq.Array(names)); err != nil {
		return fmt.Errorf("delete people: %w", err)
	}
	return nil
}

// Import creates every key of the adjacency map and then a mirrored
// friendship for each listed friend, all within one transaction.
func (g *Graph) Import(adjacency map[string][]string) error {
	if err := graph.ValidateAdjacency(adjacency); err != nil {
		return fmt.Errorf("import: %w", err)
	}

	err := g.withTx(func(tx *sql.Tx) error {
		keys := graph.ImportOrder(adjacency)
		for _, person := range keys {
			if _, err := tx.Exec(upsertPersonQuery, person); err != nil {
				return err
			}
		}
		for _, person := range keys {
			for _, friend := range adjacency[person] {
				if friend == "" {
					continue
				}
				if err := addMirrored(tx, person, friend); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	return nil
}

// Friends returns the ordered friend list for name.
func (g *Graph) Friends(name string) ([]string, error) {
	friends, err := queryNames(g.db, friendsQuery, name)
	if err != nil {
		return nil, fmt.Errorf("friends: %w", err)
	}
	return friends, nil
}

// People returns every person in insertion order.
func (g *Graph) People() ([]string, error) {
	people, err := queryNames(g.db, peopleQuery)
	if err != nil {
		return nil, fmt.Errorf("people: %w", err)
	}
	return people, nil
}

// Edges returns an iterator over every directed edge.
func (g *Graph) Edges() (graph.EdgeIterator, error) {
	rows, err := g.db.Query(edgesQuery)
	if err != nil {
		return nil, fmt.Errorf("edges: %w", err)
	}
	return &edgeIterator{rows: rows}, nil
}

// Snapshot reads all people and friendships inside a single read-only
// transaction.
func (g *Graph) Snapshot() (*graph.Snapshot, error) {
	b := graph.NewSnapshotBuilder()
	err := g.withReadTx(func(tx *sql.Tx) error {
		people, err := queryNames(tx, peopleQuery)
		if err != nil {
			return err
		}
		for _, person := range people {
			b.AddPerson(person)
		}

		rows, err := tx.Query(edgesQuery)
		if err != nil {
			return err
		}
		it := &edgeIterator{rows: rows}
		for it.Next() {
			edge := it.Friendship()
			b.AddEdge(edge.Src, edge.Dst)
		}
		if err = it.Error(); err != nil {
			_ = it.Close()
			return err
		}
		return it.Close()
	})
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	return b.Build(), nil
}

func (g *Graph) withTx(fn func(*sql.Tx) error) error {
	return g.runTx(nil, fn)
}

func (g *Graph) withReadTx(fn func(*sql.Tx) error) error {
	return g.runTx(&sql.TxOptions{Isolation: sql.LevelSerializable, ReadOnly: true}, fn)
}

// runTx executes fn in a transaction, rolling it back if fn fails.
func (g *Graph) runTx(opts *sql.TxOptions, fn func(*sql.Tx) error) error {
	tx, err := g.db.BeginTx(context.Background(), opts)
	if err != nil {
		return err
	}

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			err = multierror.Append(err, rbErr)
		}
		return err
	}
	return tx.Commit()
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	Query(query string, args ...interface{}) (*sql.Rows, error)
}

// queryNames runs a query returning a single text column.
func queryNames(q querier, query string, args ...interface{}) ([]string, error) {
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	names := []string{}
	for rows.Next() {
		var name string
		if err = rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// addMirrored upserts both people and, unless a == b, both edge directions.
func addMirrored(tx *sql.Tx, a, b string) error {
	for _, person := range []string{a, b} {
		if _, err := tx.Exec(upsertPersonQuery, person); err != nil {
			return err
		}
	}
	if a == b {
		return nil
	}
	for _, edge := range [][2]string{{a, b}, {b, a}} {
		if _, err := tx.Exec(upsertEdgeQuery, edge[0], edge[1]); err != nil {
			return err
		}
	}
	return nil
}
