package httpapi

import (
	"encoding/json"
	"github.com/ejacobg/friendgraph/inmem"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	gc "gopkg.in/check.v1"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

var _ = gc.Suite(new(APITestSuite))

func Test(t *testing.T) {
	// Run all gocheck test-suites
	gc.TestingT(t)
}

type APITestSuite struct {
	g    *inmem.Graph
	svc  *Service
	hook *logtest.Hook
}

// SetUpTest seeds the following graph:
//
//	A - B    D - E - G    F
//	 \ /
//	  C
func (s *APITestSuite) SetUpTest(c *gc.C) {
	s.g = inmem.NewGraph()
	for _, pair := range [][2]string{{"A", "B"}, {"B", "C"}, {"C", "A"}, {"D", "E"}, {"E", "G"}, {"F", "F"}} {
		c.Assert(s.g.AddFriendship(pair[0], pair[1]), gc.IsNil)
	}

	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	s.hook = hook

	var err error
	s.svc, err = NewService(Config{
		GraphAPI:         s.g,
		ListenAddr:       ":0",
		RecommendWorkers: 2,
		Logger:           logrus.NewEntry(logger),
	})
	c.Assert(err, gc.IsNil)
}

func (s *APITestSuite) TestConfigValidation(c *gc.C) {
	_, err := NewService(Config{})
	c.Assert(err, gc.ErrorMatches, "(?s)api service: config validation failed: .*graph API has not been provided.*listen address has not been specified.*")
}

func (s *APITestSuite) TestPeople(c *gc.C) {
	var res peopleResponse
	s.doJSON(c, http.MethodGet, "/people", nil, http.StatusOK, &res)
	c.Assert(res.People, gc.DeepEquals, []string{"A", "B", "C", "D", "E", "G", "F"})
}

func (s *APITestSuite) TestFriends(c *gc.C) {
	var res friendsResponse
	s.doJSON(c, http.MethodGet, "/people/A/friends", nil, http.StatusOK, &res)
	c.Assert(res, gc.DeepEquals, friendsResponse{Person: "A", Friends: []string{"B", "C"}})

	s.doJSON(c, http.MethodGet, "/people/nobody/friends", nil, http.StatusOK, &res)
	c.Assert(res, gc.DeepEquals, friendsResponse{Person: "nobody", Friends: []string{}})
}

func (s *APITestSuite) TestFriendshipMutations(c *gc.C) {
	s.do(c, http.MethodPut, "/friendships/F/A", nil, http.StatusNoContent)
	s.do(c, http.MethodDelete, "/friendships/A/B", nil, http.StatusNoContent)

	friends, err := s.g.Friends("A")
	c.Assert(err, gc.IsNil)
	c.Assert(friends, gc.DeepEquals, []string{"C", "F"})

	friends, err = s.g.Friends("B")
	c.Assert(err, gc.IsNil)
	c.Assert(friends, gc.DeepEquals, []string{"C"})
}

func (s *APITestSuite) TestDeletePerson(c *gc.C) {
	s.do(c, http.MethodDelete, "/people/C", nil, http.StatusNoContent)

	people, err := s.g.People()
	c.Assert(err, gc.IsNil)
	c.Assert(people, gc.DeepEquals, []string{"A", "B", "D", "E", "G", "F"})

	friends, err := s.g.Friends("A")
	c.Assert(err, gc.IsNil)
	c.Assert(friends, gc.DeepEquals, []string{"B"})
}

func (s *APITestSuite) TestMarkupInNamesIsRejected(c *gc.C) {
	var res errorResponse
	s.doJSON(c, http.MethodPut, "/friendships/%3Cscript%3Ex/A", nil, http.StatusBadRequest, &res)
	c.Assert(res.Error, gc.Equals, errMarkupInName.Error())

	s.doJSON(c, http.MethodGet, "/path?from=%3Cb%3EA%3C/b%3E&to=B", nil, http.StatusBadRequest, &res)
	s.doJSON(c, http.MethodPost, "/import", strings.NewReader("<b>H</b>: I\n"), http.StatusBadRequest, &res)

	people, err := s.g.People()
	c.Assert(err, gc.IsNil)
	c.Assert(people, gc.HasLen, 7)
}

func (s *APITestSuite) TestEscapableNamesAreAccepted(c *gc.C) {
	s.do(c, http.MethodPut, "/friendships/O'Brien/AT%26T", nil, http.StatusNoContent)
	s.do(c, http.MethodPost, "/import", strings.NewReader("Jane \"JJ\" Doe: O'Brien\n"), http.StatusNoContent)

	friends, err := s.g.Friends("O'Brien")
	c.Assert(err, gc.IsNil)
	c.Assert(friends, gc.DeepEquals, []string{"AT&T", `Jane "JJ" Doe`})
}

func (s *APITestSuite) TestReservedCharactersAreRejected(c *gc.C) {
	var res errorResponse
	s.doJSON(c, http.MethodPut, "/friendships/a:b/A", nil, http.StatusBadRequest, &res)
	c.Assert(res.Error, gc.Matches, `.*reserved character.*`)

	people, err := s.g.People()
	c.Assert(err, gc.IsNil)
	c.Assert(people, gc.HasLen, 7)
}

func (s *APITestSuite) TestGroups(c *gc.C) {
	var res groupsResponse
	s.doJSON(c, http.MethodGet, "/groups?strategy=bfs", nil, http.StatusOK, &res)
	c.Assert(res, gc.DeepEquals, groupsResponse{
		Strategy: "bfs",
		Count:    3,
		Groups:   [][]string{{"A", "B", "C"}, {"D", "E", "G"}, {"F"}},
	})

	s.doJSON(c, http.MethodGet, "/groups", nil, http.StatusOK, &res)
	c.Assert(res.Strategy, gc.Equals, "dfs")
	c.Assert(res.Count, gc.Equals, 3)

	s.do(c, http.MethodGet, "/groups?strategy=astar", nil, http.StatusBadRequest)
}

func (s *APITestSuite) TestPath(c *gc.C) {
	var res pathResponse
	s.doJSON(c, http.MethodGet, "/path?from=D&to=G", nil, http.StatusOK, &res)
	c.Assert(res, gc.DeepEquals, pathResponse{Found: true, Path: []string{"D", "E", "G"}})

	s.doJSON(c, http.MethodGet, "/path?from=A&to=G", nil, http.StatusOK, &res)
	c.Assert(res, gc.DeepEquals, pathResponse{Found: false, Path: []string{}})

	s.do(c, http.MethodGet, "/path?from=A", nil, http.StatusBadRequest)
}

func (s *APITestSuite) TestCycle(c *gc.C) {
	var res cycleResponse
	s.doJSON(c, http.MethodGet, "/cycle", nil, http.StatusOK, &res)
	c.Assert(res.Found, gc.Equals, true)
	c.Assert(res.Cycle, gc.HasLen, 4)
	c.Assert(res.Cycle[0], gc.Equals, res.Cycle[3])

	c.Assert(s.g.RemoveFriendship("A", "B"), gc.IsNil)
	s.doJSON(c, http.MethodGet, "/cycle", nil, http.StatusOK, &res)
	c.Assert(res, gc.DeepEquals, cycleResponse{Found: false, Cycle: []string{}})
}

func (s *APITestSuite) TestRecommendations(c *gc.C) {
	var all map[string][]string
	s.doJSON(c, http.MethodGet, "/recommendations", nil, http.StatusOK, &all)
	c.Assert(all, gc.DeepEquals, map[string][]string{
		"A": {}, "B": {}, "C": {},
		"D": {"G"}, "E": {}, "G": {"D"},
		"F": {},
	})

	var res recommendationsResponse
	s.doJSON(c, http.MethodGet, "/people/G/recommendations", nil, http.StatusOK, &res)
	c.Assert(res, gc.DeepEquals, recommendationsResponse{Person: "G", Recommendations: []string{"D"}})
}

func (s *APITestSuite) TestPopular(c *gc.C) {
	var res []struct {
		Person  string `json:"person"`
		Friends int    `json:"friends"`
	}
	s.doJSON(c, http.MethodGet, "/popular", nil, http.StatusOK, &res)
	c.Assert(res, gc.HasLen, 4)
	for i, exp := range []string{"A", "B", "C", "E"} {
		c.Assert(res[i].Person, gc.Equals, exp)
		c.Assert(res[i].Friends, gc.Equals, 2)
	}
}

func (s *APITestSuite) TestImportAndExport(c *gc.C) {
	s.do(c, http.MethodPost, "/import", strings.NewReader("H: I, J\nI: H\n"), http.StatusNoContent)

	friends, err := s.g.Friends("H")
	c.Assert(err, gc.IsNil)
	c.Assert(friends, gc.DeepEquals, []string{"I", "J"})

	c.Assert(s.g.DeletePeople("H", "I", "J"), gc.IsNil)
	rec := s.do(c, http.MethodGet, "/export", nil, http.StatusOK)
	c.Assert(rec.Header().Get("Content-Type"), gc.Equals, "text/plain; charset=utf-8")
	c.Assert(rec.Body.String(), gc.Equals, "A: B, C\nB: A, C\nC: B, A\nD: E\nE: D, G\nG: E\nF:\n")
}

func (s *APITestSuite) TestImportMalformed(c *gc.C) {
	var res errorResponse
	s.doJSON(c, http.MethodPost, "/import", strings.NewReader("A: B\nno separator\n"), http.StatusBadRequest, &res)
	c.Assert(res.Error, gc.Matches, "line 2: .*")
}

func (s *APITestSuite) TestNotFound(c *gc.C) {
	var res errorResponse
	s.doJSON(c, http.MethodGet, "/nope", nil, http.StatusNotFound, &res)
	c.Assert(res.Error, gc.Equals, "no route for GET /nope")
}

func (s *APITestSuite) TestRequestIDIsLogged(c *gc.C) {
	rec := s.do(c, http.MethodGet, "/people", nil, http.StatusOK)

	reqID := rec.Header().Get("X-Request-Id")
	_, err := uuid.Parse(reqID)
	c.Assert(err, gc.IsNil)

	entry := s.hook.LastEntry()
	c.Assert(entry, gc.NotNil)
	c.Assert(entry.Message, gc.Equals, "served request")
	c.Assert(entry.Data["request_id"], gc.Equals, reqID)
	c.Assert(entry.Data["status"], gc.Equals, http.StatusOK)
}

func (s *APITestSuite) do(c *gc.C, method, target string, body io.Reader, expStatus int) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.svc.ServeHTTP(rec, httptest.NewRequest(method, target, body))
	c.Assert(rec.Code, gc.Equals, expStatus, gc.Commentf("%s %s: %s", method, target, rec.Body.String()))
	return rec
}

func (s *APITestSuite) doJSON(c *gc.C, method, target string, body io.Reader, expStatus int, res interface{}) {
	rec := s.do(c, method, target, body, expStatus)
	c.Assert(rec.Header().Get("Content-Type"), gc.Equals, "application/json")
	c.Assert(json.NewDecoder(rec.Body).Decode(res), gc.IsNil)
}
