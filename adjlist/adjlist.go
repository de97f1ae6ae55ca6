// Package adjlist reads and writes friendship graphs as adjacency lists, one
// person per line:
//
//	alice: bob, carol
//	bob: alice
//	dave:
package adjlist

import (
	"bufio"
	"errors"
	"fmt"
	"github.com/ejacobg/friendgraph/graph"
	"io"
	"strings"
)

// ErrMalformedLine is returned by Read for lines without a ':' separator.
var ErrMalformedLine = errors.New("malformed adjacency line")

// Read parses an adjacency list. Blank lines are skipped, names are trimmed
// and empty friend names are dropped. A person listed on several lines
// accumulates the friends of all of them.
func Read(r io.Reader) (map[string][]string, error) {
	adjacency := make(map[string][]string)
	br := bufio.NewReader(r)
	for lineNo := 1; ; lineNo++ {
		raw, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read adjacency list: %w", err)
		}

		if line := strings.TrimSpace(raw); line != "" {
			person, rest, found := strings.Cut(line, ":")
			person = strings.TrimSpace(person)
			if !found || person == "" {
				return nil, fmt.Errorf("line %d: %w", lineNo, ErrMalformedLine)
			}

			friends := adjacency[person]
			if friends == nil {
				friends = []string{}
			}
			for _, friend := range strings.Split(rest, ",") {
				if friend = strings.TrimSpace(friend); friend != "" {
					friends = append(friends, friend)
				}
			}
			adjacency[person] = friends
		}

		if err == io.EOF {
			return adjacency, nil
		}
	}
}

// Write emits one line per person of the view in enumeration order. People
// without friends are written as "name:" so they survive a round trip. Names
// that Read could not parse back, such as names containing ':' or ',', are
// rejected with an error wrapping graph.ErrInvalidName before anything is
// written.
func Write(w io.Writer, view graph.View) error {
	people := view.People()
	for _, person := range people {
		if err := graph.ValidateNames(person); err != nil {
			return fmt.Errorf("write adjacency list: %w", err)
		}
	}

	bw := bufio.NewWriter(w)
	for _, person := range people {
		line := person + ":"
		if friends := view.Friends(person); len(friends) != 0 {
			line += " " + strings.Join(friends, ", ")
		}
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return fmt.Errorf("write adjacency list: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write adjacency list: %w", err)
	}
	return nil
}
