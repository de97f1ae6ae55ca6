// Package httpapi exposes a friendship graph and its analyses over a JSON
// REST API.
package httpapi

import (
	"context"
	"fmt"
	"github.com/ejacobg/friendgraph/graph"
	"github.com/gorilla/mux"
	"github.com/hashicorp/go-multierror"
	"github.com/juju/clock"
	"github.com/sirupsen/logrus"
	"io"
	"net"
	"net/http"
	"runtime"
)

// GraphAPI is implemented by the friendship graph stores served by the API.
type GraphAPI interface {
	AddFriendship(a, b string) error
	RemoveFriendship(a, b string) error
	DeletePeople(names ...string) error
	Import(adjacency map[string][]string) error
	Friends(name string) ([]string, error)
	People() ([]string, error)
	Snapshot() (*graph.Snapshot, error)
}

// Config encapsulates the settings for configuring the API service.
type Config struct {
	// The graph to serve.
	GraphAPI GraphAPI

	// The address to listen for incoming requests.
	ListenAddr string

	// The number of workers used when computing recommendations for
	// everyone. Defaults to runtime.NumCPU().
	RecommendWorkers int

	// A clock instance for timing requests. Defaults to the wall clock.
	Clock clock.Clock

	// The logger to use. If not defined an output-discarding logger will
	// be used instead.
	Logger *logrus.Entry
}

func (cfg *Config) validate() error {
	var err error
	if cfg.GraphAPI == nil {
		err = multierror.Append(err, fmt.Errorf("graph API has not been provided"))
	}
	if cfg.ListenAddr == "" {
		err = multierror.Append(err, fmt.Errorf("listen address has not been specified"))
	}
	if cfg.RecommendWorkers <= 0 {
		cfg.RecommendWorkers = runtime.NumCPU()
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.WallClock
	}
	if cfg.Logger == nil {
		l := logrus.New()
		l.Out = io.Discard
		cfg.Logger = logrus.NewEntry(l)
	}
	return err
}

// Service implements the friendship graph REST API.
type Service struct {
	cfg       Config
	router    *mux.Router
	sanitizer *nameSanitizer
}

// NewService creates a new API service instance with the specified config.
func NewService(cfg Config) (*Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("api service: config validation failed: %w", err)
	}

	svc := &Service{
		cfg:       cfg,
		router:    mux.NewRouter(),
		sanitizer: newNameSanitizer(),
	}

	svc.router.HandleFunc("/people", svc.renderPeople).Methods(http.MethodGet)
	svc.router.HandleFunc("/people/{name}", svc.deletePerson).Methods(http.MethodDelete)
	svc.router.HandleFunc("/people/{name}/friends", svc.renderFriends).Methods(http.MethodGet)
	svc.router.HandleFunc("/people/{name}/recommendations", svc.renderRecommendationsFor).Methods(http.MethodGet)
	svc.router.HandleFunc("/friendships/{a}/{b}", svc.addFriendship).Methods(http.MethodPut)
	svc.router.HandleFunc("/friendships/{a}/{b}", svc.removeFriendship).Methods(http.MethodDelete)
	svc.router.HandleFunc("/groups", svc.renderGroups).Methods(http.MethodGet)
	svc.router.HandleFunc("/path", svc.renderPath).Methods(http.MethodGet)
	svc.router.HandleFunc("/cycle", svc.renderCycle).Methods(http.MethodGet)
	svc.router.HandleFunc("/recommendations", svc.renderRecommendations).Methods(http.MethodGet)
	svc.router.HandleFunc("/popular", svc.renderPopular).Methods(http.MethodGet)
	svc.router.HandleFunc("/import", svc.importAdjacency).Methods(http.MethodPost)
	svc.router.HandleFunc("/export", svc.exportAdjacency).Methods(http.MethodGet)
	svc.router.NotFoundHandler = http.HandlerFunc(svc.renderNotFound)
	svc.router.Use(svc.logRequests)

	return svc, nil
}

// ServeHTTP dispatches a request to the matching route.
func (svc *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	svc.router.ServeHTTP(w, r)
}

// Run serves the API until ctx expires.
func (svc *Service) Run(ctx context.Context) error {
	l, err := net.Listen("tcp", svc.cfg.ListenAddr)
	if err != nil {
		return err
	}
	defer func() { _ = l.Close() }()

	srv := &http.Server{
		Addr:    svc.cfg.ListenAddr,
		Handler: svc,
	}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	svc.cfg.Logger.WithField("addr", svc.cfg.ListenAddr).Info("starting API server")
	if err = srv.Serve(l); err == http.ErrServerClosed {
		// Ignore error when the server shuts down.
		err = nil
	}

	return err
}
