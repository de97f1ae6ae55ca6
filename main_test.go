package main

import (
	"bytes"
	"github.com/sirupsen/logrus"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// seed describes the following graph:
//
//	A - B    D - E - G    F
//	 \ /
//	  C
const seed = "A: B, C\nB: C\nD: E\nE: G\nF:\n"

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()

	seedFile := filepath.Join(t.TempDir(), "seed.txt")
	if err := os.WriteFile(seedFile, []byte(seed), 0o600); err != nil {
		t.Fatalf("failed to write seed file: %v", err)
	}

	rootLogger := logrus.New()
	rootLogger.Out = io.Discard

	var out bytes.Buffer
	app := newApp(rootLogger, logrus.NewEntry(rootLogger))
	app.Writer = &out
	app.ErrWriter = io.Discard

	err := app.Run(append([]string{appName, "--seed", seedFile}, args...))
	return out.String(), err
}

func TestCommands(t *testing.T) {
	specs := []struct {
		descr string
		args  []string
		exp   string
	}{
		{"people", []string{"people"}, "A\nB\nD\nE\nF\nC\nG\n"},
		{"friends", []string{"friends", "E"}, "D\nG\n"},
		{"unknown friends", []string{"friends", "nobody"}, ""},
		{"groups bfs", []string{"groups", "--strategy", "bfs"}, "3 friend groups\n1: A, B, C\n2: D, E, G\n3: F\n"},
		{"path", []string{"path", "D", "G"}, "D -> E -> G\n"},
		{"no path", []string{"path", "A", "G"}, "no path between A and G\n"},
		{"recommend all", []string{"recommend", "--workers", "2"}, "A:\nB:\nD: G\nE:\nF:\nC:\nG: D\n"},
		{"recommend one", []string{"recommend", "G"}, "G: D\n"},
		{"popular", []string{"popular"}, "A\t2\nB\t2\nE\t2\nC\t2\n"},
		{"export", []string{"export"}, "A: B, C\nB: A, C\nD: E\nE: D, G\nF:\nC: A, B\nG: E\n"},
	}

	for _, spec := range specs {
		t.Run(spec.descr, func(t *testing.T) {
			got, err := runApp(t, spec.args...)
			if err != nil {
				t.Fatalf("command failed: %v", err)
			}
			if got != spec.exp {
				t.Errorf("got output:\n%s\nwant:\n%s", got, spec.exp)
			}
		})
	}
}

func TestCycleCommand(t *testing.T) {
	got, err := runApp(t, "cycle")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	cycle := strings.Split(strings.TrimSpace(got), " -> ")
	if len(cycle) != 4 || cycle[0] != cycle[3] {
		t.Errorf("unexpected cycle %q", got)
	}
}

func TestExportToFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.txt")
	if _, err := runApp(t, "export", target); err != nil {
		t.Fatalf("command failed: %v", err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}
	if !strings.HasPrefix(string(data), "A: B, C\n") {
		t.Errorf("unexpected export contents %q", data)
	}
}

func TestCommandErrors(t *testing.T) {
	specs := []struct {
		descr string
		args  []string
		exp   string
	}{
		{"missing args", []string{"add", "A"}, "usage: friendgraph add A B"},
		{"bad strategy", []string{"groups", "--strategy", "astar"}, "astar"},
		{"bad scheme", []string{"--graph-uri", "redis://localhost", "people"}, `unsupported graph URI scheme: "redis"`},
		{"bad log level", []string{"--log-level", "loud", "people"}, "loud"},
		{"missing import file", []string{"import", "/does/not/exist"}, "import: "},
	}

	for _, spec := range specs {
		t.Run(spec.descr, func(t *testing.T) {
			_, err := runApp(t, spec.args...)
			if err == nil {
				t.Fatal("expected command to fail")
			}
			if !strings.Contains(err.Error(), spec.exp) {
				t.Errorf("got error %q; want it to contain %q", err, spec.exp)
			}
		})
	}
}
