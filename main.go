package main

import (
	"context"
	"fmt"
	"github.com/ejacobg/friendgraph/cdb"
	"github.com/ejacobg/friendgraph/graph"
	"github.com/ejacobg/friendgraph/inmem"
	"github.com/ejacobg/friendgraph/neograph"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	"io"
	"net/url"
	"os"
	"os/signal"
	"syscall"
)

var (
	appName = "friendgraph"
	appSha  = "populated-at-link-time"
)

func main() {
	host, _ := os.Hostname()
	rootLogger := logrus.New()
	logger := rootLogger.WithFields(logrus.Fields{
		"app":  appName,
		"sha":  appSha,
		"host": host,
	})

	if err := newApp(rootLogger, logger).Run(os.Args); err != nil {
		logger.WithField("err", err).Error("shutting down due to error")
		os.Exit(1)
	}
}

func newApp(rootLogger *logrus.Logger, logger *logrus.Entry) *cli.App {
	app := cli.NewApp()
	app.Name = appName
	app.Usage = "manage and analyse a social friendship graph"
	app.Version = appSha
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "graph-uri",
			Value:  "in-memory://",
			EnvVar: "FRIENDGRAPH_GRAPH_URI",
			Usage:  "The URI for connecting to the friendship graph (supported URIs: in-memory://, postgresql://user@host:26257/friendgraph?sslmode=disable, neo4j://host:7687)",
		},
		cli.StringFlag{
			Name:   "neo4j-user",
			Value:  "neo4j",
			EnvVar: "NEO4J_USERNAME",
			Usage:  "The user name for neo4j:// and bolt:// graph URIs",
		},
		cli.StringFlag{
			Name:   "neo4j-password",
			EnvVar: "NEO4J_PASSWORD",
			Usage:  "The password for neo4j:// and bolt:// graph URIs",
		},
		cli.StringFlag{
			Name:  "seed",
			Usage: "An adjacency list file to import before running the command",
		},
		cli.StringFlag{
			Name:   "log-level",
			Value:  "info",
			EnvVar: "FRIENDGRAPH_LOG_LEVEL",
			Usage:  "The log level (debug, info, warn, error)",
		},
	}
	app.Before = func(c *cli.Context) error {
		lvl, err := logrus.ParseLevel(c.GlobalString("log-level"))
		if err != nil {
			return err
		}
		rootLogger.SetLevel(lvl)
		return nil
	}

	cmd := &commands{logger: logger}
	app.Commands = cmd.list()
	return app
}

func getGraph(c *cli.Context, logger *logrus.Entry) (graph.Graph, error) {
	graphURI := c.GlobalString("graph-uri")
	if graphURI == "" {
		return nil, fmt.Errorf("graph URI must be specified with --graph-uri")
	}

	uri, err := url.Parse(graphURI)
	if err != nil {
		return nil, fmt.Errorf("could not parse graph URI: %w", err)
	}

	switch uri.Scheme {
	case "in-memory":
		logger.Debug("using in-memory graph")
		return inmem.NewGraph(), nil
	case "postgresql":
		logger.Debug("using CDB graph")
		return cdb.NewGraph(graphURI)
	case "neo4j", "neo4j+s", "bolt", "bolt+s":
		logger.Debug("using neo4j graph")
		return neograph.NewGraph(graphURI, c.GlobalString("neo4j-user"), c.GlobalString("neo4j-password"))
	default:
		return nil, fmt.Errorf("unsupported graph URI scheme: %q", uri.Scheme)
	}
}

func closeGraph(g graph.Graph, logger *logrus.Entry) {
	if closer, ok := g.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			logger.WithField("err", err).Warn("unable to close graph")
		}
	}
}

// signalContext returns a context that is cancelled on SIGINT or SIGHUP.
func signalContext(logger *logrus.Entry) (context.Context, context.CancelFunc) {
	ctx, cancelFn := context.WithCancel(context.Background())

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGHUP)
		defer signal.Stop(sigCh)
		select {
		case s := <-sigCh:
			logger.WithField("signal", s.String()).Infof("shutting down due to signal")
			cancelFn()
		case <-ctx.Done():
		}
	}()

	return ctx, cancelFn
}
