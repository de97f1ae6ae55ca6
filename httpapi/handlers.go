package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"github.com/ejacobg/friendgraph/adjlist"
	"github.com/ejacobg/friendgraph/analysis"
	"github.com/ejacobg/friendgraph/graph"
	"github.com/ejacobg/friendgraph/traversal"
	"github.com/gorilla/mux"
	"net/http"
)

var errMarkupInName = errors.New("names must not contain markup")

type peopleResponse struct {
	People []string `json:"people"`
}

type friendsResponse struct {
	Person  string   `json:"person"`
	Friends []string `json:"friends"`
}

type recommendationsResponse struct {
	Person          string   `json:"person"`
	Recommendations []string `json:"recommendations"`
}

type groupsResponse struct {
	Strategy string     `json:"strategy"`
	Count    int        `json:"count"`
	Groups   [][]string `json:"groups"`
}

type pathResponse struct {
	Found bool     `json:"found"`
	Path  []string `json:"path"`
}

type cycleResponse struct {
	Found bool     `json:"found"`
	Cycle []string `json:"cycle"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (svc *Service) renderPeople(w http.ResponseWriter, r *http.Request) {
	people, err := svc.cfg.GraphAPI.People()
	if err != nil {
		svc.renderError(w, r, http.StatusInternalServerError, err)
		return
	}
	svc.renderJSON(w, r, http.StatusOK, peopleResponse{People: nonNil(people)})
}

func (svc *Service) renderFriends(w http.ResponseWriter, r *http.Request) {
	name, ok := svc.pathNames(w, r, "name")
	if !ok {
		return
	}

	friends, err := svc.cfg.GraphAPI.Friends(name[0])
	if err != nil {
		svc.renderError(w, r, http.StatusInternalServerError, err)
		return
	}
	svc.renderJSON(w, r, http.StatusOK, friendsResponse{Person: name[0], Friends: nonNil(friends)})
}

func (svc *Service) deletePerson(w http.ResponseWriter, r *http.Request) {
	name, ok := svc.pathNames(w, r, "name")
	if !ok {
		return
	}

	if err := svc.cfg.GraphAPI.DeletePeople(name[0]); err != nil {
		svc.renderError(w, r, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (svc *Service) addFriendship(w http.ResponseWriter, r *http.Request) {
	names, ok := svc.pathNames(w, r, "a", "b")
	if !ok {
		return
	}

	if err := svc.cfg.GraphAPI.AddFriendship(names[0], names[1]); err != nil {
		svc.renderStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (svc *Service) removeFriendship(w http.ResponseWriter, r *http.Request) {
	names, ok := svc.pathNames(w, r, "a", "b")
	if !ok {
		return
	}

	if err := svc.cfg.GraphAPI.RemoveFriendship(names[0], names[1]); err != nil {
		svc.renderStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (svc *Service) renderRecommendationsFor(w http.ResponseWriter, r *http.Request) {
	name, ok := svc.pathNames(w, r, "name")
	if !ok {
		return
	}

	snap, ok := svc.snapshot(w, r)
	if !ok {
		return
	}
	svc.renderJSON(w, r, http.StatusOK, recommendationsResponse{
		Person:          name[0],
		Recommendations: analysis.RecommendFor(snap, name[0]),
	})
}

func (svc *Service) renderRecommendations(w http.ResponseWriter, r *http.Request) {
	snap, ok := svc.snapshot(w, r)
	if !ok {
		return
	}

	recs, err := analysis.Recommend(r.Context(), snap, svc.cfg.RecommendWorkers)
	if err != nil {
		svc.renderError(w, r, http.StatusInternalServerError, err)
		return
	}
	svc.renderJSON(w, r, http.StatusOK, recs)
}

func (svc *Service) renderGroups(w http.ResponseWriter, r *http.Request) {
	strategy := traversal.DepthFirst
	if raw := r.URL.Query().Get("strategy"); raw != "" {
		var err error
		if strategy, err = traversal.ParseStrategy(raw); err != nil {
			svc.renderError(w, r, http.StatusBadRequest, err)
			return
		}
	}

	snap, ok := svc.snapshot(w, r)
	if !ok {
		return
	}

	groups, err := analysis.Components(r.Context(), snap, strategy)
	if err != nil {
		svc.renderError(w, r, http.StatusInternalServerError, err)
		return
	}
	if groups == nil {
		groups = [][]string{}
	}
	svc.renderJSON(w, r, http.StatusOK, groupsResponse{
		Strategy: strategy.String(),
		Count:    len(groups),
		Groups:   groups,
	})
}

func (svc *Service) renderPath(w http.ResponseWriter, r *http.Request) {
	from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	if from == "" || to == "" {
		svc.renderError(w, r, http.StatusBadRequest, fmt.Errorf("both from and to must be specified"))
		return
	}
	if !svc.sanitizer.Clean(from, to) {
		svc.renderError(w, r, http.StatusBadRequest, errMarkupInName)
		return
	}

	snap, ok := svc.snapshot(w, r)
	if !ok {
		return
	}

	path, found, err := analysis.ShortestPath(r.Context(), snap, from, to)
	if err != nil {
		svc.renderError(w, r, http.StatusInternalServerError, err)
		return
	}
	svc.renderJSON(w, r, http.StatusOK, pathResponse{Found: found, Path: nonNil(path)})
}

func (svc *Service) renderCycle(w http.ResponseWriter, r *http.Request) {
	snap, ok := svc.snapshot(w, r)
	if !ok {
		return
	}

	cycle, found, err := analysis.FindCycle(r.Context(), snap)
	if err != nil {
		svc.renderError(w, r, http.StatusInternalServerError, err)
		return
	}
	svc.renderJSON(w, r, http.StatusOK, cycleResponse{Found: found, Cycle: nonNil(cycle)})
}

func (svc *Service) renderPopular(w http.ResponseWriter, r *http.Request) {
	snap, ok := svc.snapshot(w, r)
	if !ok {
		return
	}
	svc.renderJSON(w, r, http.StatusOK, analysis.MostPopular(snap))
}

func (svc *Service) importAdjacency(w http.ResponseWriter, r *http.Request) {
	adjacency, err := adjlist.Read(r.Body)
	if err != nil {
		svc.renderError(w, r, http.StatusBadRequest, err)
		return
	}

	for person, friends := range adjacency {
		if !svc.sanitizer.Clean(person) || !svc.sanitizer.Clean(friends...) {
			svc.renderError(w, r, http.StatusBadRequest, errMarkupInName)
			return
		}
	}

	if err = svc.cfg.GraphAPI.Import(adjacency); err != nil {
		svc.renderStoreError(w, r, err)
		return
	}
	requestLogger(r, svc.cfg.Logger).WithField("people", len(adjacency)).Info("imported adjacency list")
	w.WriteHeader(http.StatusNoContent)
}

func (svc *Service) exportAdjacency(w http.ResponseWriter, r *http.Request) {
	snap, ok := svc.snapshot(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := adjlist.Write(w, snap); err != nil {
		requestLogger(r, svc.cfg.Logger).WithField("err", err).Error("export failed")
	}
}

func (svc *Service) renderNotFound(w http.ResponseWriter, r *http.Request) {
	svc.renderError(w, r, http.StatusNotFound, fmt.Errorf("no route for %s %s", r.Method, r.URL.Path))
}

// pathNames extracts the named route variables, rendering a 400 response
// if any of them contains markup.
func (svc *Service) pathNames(w http.ResponseWriter, r *http.Request, keys ...string) ([]string, bool) {
	vars := mux.Vars(r)
	names := make([]string, len(keys))
	for i, key := range keys {
		names[i] = vars[key]
	}

	if !svc.sanitizer.Clean(names...) {
		svc.renderError(w, r, http.StatusBadRequest, errMarkupInName)
		return nil, false
	}
	return names, true
}

func (svc *Service) snapshot(w http.ResponseWriter, r *http.Request) (*graph.Snapshot, bool) {
	snap, err := svc.cfg.GraphAPI.Snapshot()
	if err != nil {
		svc.renderError(w, r, http.StatusInternalServerError, err)
		return nil, false
	}
	return snap, true
}

func (svc *Service) renderStoreError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, graph.ErrInvalidName) {
		status = http.StatusBadRequest
	}
	svc.renderError(w, r, status, err)
}

func (svc *Service) renderError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		requestLogger(r, svc.cfg.Logger).WithField("err", err).Error("request failed")
	}
	svc.renderJSON(w, r, status, errorResponse{Error: err.Error()})
}

func (svc *Service) renderJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		requestLogger(r, svc.cfg.Logger).WithField("err", err).Error("unable to encode response")
	}
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
