package main

import (
	"fmt"
	"github.com/ejacobg/friendgraph/adjlist"
	"github.com/ejacobg/friendgraph/analysis"
	"github.com/ejacobg/friendgraph/graph"
	"github.com/ejacobg/friendgraph/httpapi"
	"github.com/ejacobg/friendgraph/traversal"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	"os"
	"runtime"
	"strings"
)

type commands struct {
	logger *logrus.Entry
}

func (cmd *commands) list() []cli.Command {
	return []cli.Command{
		{
			Name:      "import",
			Usage:     "Import an adjacency list file",
			ArgsUsage: "FILE",
			Action:    cmd.withGraph(1, cmd.importFile),
		},
		{
			Name:      "export",
			Usage:     "Export the graph as an adjacency list (to stdout if FILE is omitted)",
			ArgsUsage: "[FILE]",
			Action:    cmd.withGraph(0, cmd.export),
		},
		{
			Name:   "people",
			Usage:  "List every person",
			Action: cmd.withGraph(0, cmd.people),
		},
		{
			Name:      "friends",
			Usage:     "List the friends of a person",
			ArgsUsage: "NAME",
			Action:    cmd.withGraph(1, cmd.friends),
		},
		{
			Name:      "add",
			Usage:     "Add a friendship between two people",
			ArgsUsage: "A B",
			Action:    cmd.withGraph(2, cmd.add),
		},
		{
			Name:      "remove",
			Usage:     "Remove the friendship between two people",
			ArgsUsage: "A B",
			Action:    cmd.withGraph(2, cmd.remove),
		},
		{
			Name:      "delete",
			Usage:     "Delete people and all of their friendships",
			ArgsUsage: "NAME...",
			Action:    cmd.withGraph(1, cmd.delete),
		},
		{
			Name:  "groups",
			Usage: "List friend groups",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "strategy",
					Value: "dfs",
					Usage: "The traversal strategy (dfs or bfs)",
				},
			},
			Action: cmd.withGraph(0, cmd.groups),
		},
		{
			Name:      "path",
			Usage:     "Find a shortest chain of friendships between two people",
			ArgsUsage: "A B",
			Action:    cmd.withGraph(2, cmd.path),
		},
		{
			Name:   "cycle",
			Usage:  "Find a cycle of friendships",
			Action: cmd.withGraph(0, cmd.cycle),
		},
		{
			Name:      "recommend",
			Usage:     "Recommend friends of friends (for everyone if NAME is omitted)",
			ArgsUsage: "[NAME]",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "workers",
					Value: runtime.NumCPU(),
					Usage: "The number of workers used when recommending for everyone",
				},
			},
			Action: cmd.withGraph(0, cmd.recommend),
		},
		{
			Name:   "popular",
			Usage:  "List the people with the most friends",
			Action: cmd.withGraph(0, cmd.popular),
		},
		{
			Name:  "serve",
			Usage: "Serve the graph over HTTP",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:   "listen-addr",
					Value:  ":8080",
					EnvVar: "FRIENDGRAPH_LISTEN_ADDR",
					Usage:  "The address to listen for incoming API requests",
				},
				cli.IntFlag{
					Name:  "workers",
					Value: runtime.NumCPU(),
					Usage: "The number of workers used when recommending for everyone",
				},
			},
			Action: cmd.withGraph(0, cmd.serve),
		},
	}
}

type graphAction func(c *cli.Context, g graph.Graph) error

// withGraph connects to the configured graph, imports the seed file if one
// was given and hands the graph to fn.
func (cmd *commands) withGraph(minArgs int, fn graphAction) func(*cli.Context) error {
	return func(c *cli.Context) error {
		if c.NArg() < minArgs {
			return fmt.Errorf("usage: %s %s %s", c.App.Name, c.Command.Name, c.Command.ArgsUsage)
		}

		g, err := getGraph(c, cmd.logger)
		if err != nil {
			return err
		}
		defer closeGraph(g, cmd.logger)

		if seed := c.GlobalString("seed"); seed != "" {
			if err = importAdjacencyFile(g, seed); err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			cmd.logger.WithField("file", seed).Debug("imported seed file")
		}

		return fn(c, g)
	}
}

func importAdjacencyFile(g graph.Graph, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	adjacency, err := adjlist.Read(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return g.Import(adjacency)
}

func (cmd *commands) importFile(c *cli.Context, g graph.Graph) error {
	if err := importAdjacencyFile(g, c.Args().First()); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	cmd.logger.WithField("file", c.Args().First()).Info("imported adjacency list")
	return nil
}

func (cmd *commands) export(c *cli.Context, g graph.Graph) error {
	snap, err := g.Snapshot()
	if err != nil {
		return err
	}

	if c.NArg() == 0 {
		return adjlist.Write(c.App.Writer, snap)
	}

	f, err := os.Create(c.Args().First())
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err = adjlist.Write(f, snap); err != nil {
		_ = f.Close()
		return fmt.Errorf("export: %w", err)
	}
	return f.Close()
}

func (cmd *commands) people(c *cli.Context, g graph.Graph) error {
	people, err := g.People()
	if err != nil {
		return err
	}
	for _, person := range people {
		fmt.Fprintln(c.App.Writer, person)
	}
	return nil
}

func (cmd *commands) friends(c *cli.Context, g graph.Graph) error {
	friends, err := g.Friends(c.Args().First())
	if err != nil {
		return err
	}
	for _, friend := range friends {
		fmt.Fprintln(c.App.Writer, friend)
	}
	return nil
}

func (cmd *commands) add(c *cli.Context, g graph.Graph) error {
	a, b := c.Args().Get(0), c.Args().Get(1)
	if err := g.AddFriendship(a, b); err != nil {
		return err
	}
	cmd.logger.WithFields(logrus.Fields{"a": a, "b": b}).Info("added friendship")
	return nil
}

func (cmd *commands) remove(c *cli.Context, g graph.Graph) error {
	a, b := c.Args().Get(0), c.Args().Get(1)
	if err := g.RemoveFriendship(a, b); err != nil {
		return err
	}
	cmd.logger.WithFields(logrus.Fields{"a": a, "b": b}).Info("removed friendship")
	return nil
}

func (cmd *commands) delete(c *cli.Context, g graph.Graph) error {
	names := []string(c.Args())
	if err := g.DeletePeople(names...); err != nil {
		return err
	}
	cmd.logger.WithField("people", names).Info("deleted people")
	return nil
}

func (cmd *commands) groups(c *cli.Context, g graph.Graph) error {
	strategy, err := traversal.ParseStrategy(c.String("strategy"))
	if err != nil {
		return err
	}

	snap, err := g.Snapshot()
	if err != nil {
		return err
	}

	ctx, cancelFn := signalContext(cmd.logger)
	defer cancelFn()

	groups, err := analysis.Components(ctx, snap, strategy)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "%d friend groups\n", len(groups))
	for i, members := range groups {
		fmt.Fprintf(c.App.Writer, "%d: %s\n", i+1, strings.Join(members, ", "))
	}
	return nil
}

func (cmd *commands) path(c *cli.Context, g graph.Graph) error {
	from, to := c.Args().Get(0), c.Args().Get(1)

	snap, err := g.Snapshot()
	if err != nil {
		return err
	}

	ctx, cancelFn := signalContext(cmd.logger)
	defer cancelFn()

	path, found, err := analysis.ShortestPath(ctx, snap, from, to)
	if err != nil {
		return err
	}
	if !found {
		fmt.Fprintf(c.App.Writer, "no path between %s and %s\n", from, to)
		return nil
	}
	fmt.Fprintln(c.App.Writer, strings.Join(path, " -> "))
	return nil
}

func (cmd *commands) cycle(c *cli.Context, g graph.Graph) error {
	snap, err := g.Snapshot()
	if err != nil {
		return err
	}

	ctx, cancelFn := signalContext(cmd.logger)
	defer cancelFn()

	cycle, found, err := analysis.FindCycle(ctx, snap)
	if err != nil {
		return err
	}
	if !found {
		fmt.Fprintln(c.App.Writer, "no cycle")
		return nil
	}
	fmt.Fprintln(c.App.Writer, strings.Join(cycle, " -> "))
	return nil
}

func (cmd *commands) recommend(c *cli.Context, g graph.Graph) error {
	snap, err := g.Snapshot()
	if err != nil {
		return err
	}

	if c.NArg() > 0 {
		person := c.Args().First()
		fmt.Fprintln(c.App.Writer, formatLine(person, analysis.RecommendFor(snap, person)))
		return nil
	}

	ctx, cancelFn := signalContext(cmd.logger)
	defer cancelFn()

	recs, err := analysis.Recommend(ctx, snap, c.Int("workers"))
	if err != nil {
		return err
	}
	for _, person := range snap.People() {
		fmt.Fprintln(c.App.Writer, formatLine(person, recs[person]))
	}
	return nil
}

func (cmd *commands) popular(c *cli.Context, g graph.Graph) error {
	snap, err := g.Snapshot()
	if err != nil {
		return err
	}
	for _, p := range analysis.MostPopular(snap) {
		fmt.Fprintf(c.App.Writer, "%s\t%d\n", p.Person, p.Friends)
	}
	return nil
}

func (cmd *commands) serve(c *cli.Context, g graph.Graph) error {
	ctx, cancelFn := signalContext(cmd.logger)
	defer cancelFn()

	svc, err := httpapi.NewService(httpapi.Config{
		GraphAPI:         g,
		ListenAddr:       c.String("listen-addr"),
		RecommendWorkers: c.Int("workers"),
		Logger:           cmd.logger.WithField("service", "api"),
	})
	if err != nil {
		return err
	}

	if err = svc.Run(ctx); err != nil {
		return err
	}
	cmd.logger.Info("shutdown complete")
	return nil
}

// formatLine renders a person and a list of names the same way adjacency
// list files do.
func formatLine(person string, names []string) string {
	if len(names) == 0 {
		return person + ":"
	}
	return person + ": " + strings.Join(names, ", ")
}
