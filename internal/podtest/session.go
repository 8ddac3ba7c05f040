// Package podtest provides in-memory fakes for pod.Session and
// pod.SparqlEngine so the Pod dialect and the fallback planner can be
// exercised without a real Solid Pod or SPARQL engine. It mirrors the
// teacher's pgxmock-backed test doubles (internal/database tests) in
// spirit: a scriptable stand-in wired through the same interfaces
// production code consumes.
package podtest

import (
	"context"
	"strings"
	"sync"

	"github.com/undefinedsco/drizzle-solid/internal/pod"
)

// resourceState tracks one URL's simulated HTTP resource: its current
// body and, for PATCH, how many times a conflict should still be
// returned before succeeding.
type resourceState struct {
	status         int
	body           []byte
	conflictsLeft  int
	patchAttempts  int
	putAttempts    int
	lastPatchError bool
	failStatus     int // when set, the next PATCH/PUT returns this status instead of succeeding
}

// FakeSession is an in-memory pod.Session: HEAD/GET/PUT/PATCH against
// a map of resource URLs, with per-URL conflict scripting for
// exercising the 409 retry ladder.
type FakeSession struct {
	mu        sync.Mutex
	webID     string
	loggedIn  bool
	resources map[string]*resourceState
}

// NewFakeSession constructs a logged-in session for webID.
func NewFakeSession(webID string) *FakeSession {
	return &FakeSession{webID: webID, loggedIn: true, resources: map[string]*resourceState{}}
}

// SetLoggedIn overrides the session's login state, for exercising
// NotLoggedInError construction paths.
func (s *FakeSession) SetLoggedIn(v bool) { s.loggedIn = v }

func (s *FakeSession) IsLoggedIn() bool { return s.loggedIn }
func (s *FakeSession) WebID() string    { return s.webID }

// Seed pre-populates a resource as if a prior PUT/PATCH had succeeded.
func (s *FakeSession) Seed(url string, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources[url] = &resourceState{status: 200, body: body}
}

// ScriptConflicts makes the next n PATCH attempts against url return
// 409, before the (n+1)th succeeds — for exercising the conflict retry
// ladder. PUT does not consult this counter.
func (s *FakeSession) ScriptConflicts(url string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.resources[url]
	if !ok {
		st = &resourceState{status: 200}
		s.resources[url] = st
	}
	st.conflictsLeft = n
}

// ScriptFailure makes the next PATCH or PUT against url return status
// instead of succeeding, for exercising non-409 transport error paths.
func (s *FakeSession) ScriptFailure(url string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.resources[url]
	if !ok {
		st = &resourceState{status: 200}
		s.resources[url] = st
	}
	st.failStatus = status
}

// Body returns the current stored body for url, for assertions.
func (s *FakeSession) Body(url string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.resources[url]; ok {
		return st.body
	}
	return nil
}

// Exists reports whether url has a simulated resource at all, for
// asserting preflight side effects (PUT of an empty container/resource
// body, which leaves Body nil).
func (s *FakeSession) Exists(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.resources[url]
	return ok
}

func (s *FakeSession) Fetch(ctx context.Context, method, url string, headers map[string]string, body []byte) (*pod.HTTPResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch method {
	case "HEAD", "GET":
		st, ok := s.resources[url]
		if !ok {
			return &pod.HTTPResponse{Status: 404}, nil
		}
		if method == "HEAD" {
			return &pod.HTTPResponse{Status: st.status}, nil
		}
		return &pod.HTTPResponse{Status: st.status, Body: st.body}, nil
	case "PUT":
		st, existed := s.resources[url]
		if existed && st.failStatus != 0 {
			status := st.failStatus
			st.failStatus = 0
			return &pod.HTTPResponse{Status: status}, nil
		}
		if existed && !strings.Contains(url, "#create-conflict") {
			st.body = body
			return &pod.HTTPResponse{Status: 200}, nil
		}
		s.resources[url] = &resourceState{status: 201, body: body}
		return &pod.HTTPResponse{Status: 201}, nil
	case "PATCH":
		st, ok := s.resources[url]
		if !ok {
			st = &resourceState{status: 200}
			s.resources[url] = st
		}
		if st.failStatus != 0 {
			status := st.failStatus
			st.failStatus = 0
			return &pod.HTTPResponse{Status: status}, nil
		}
		if st.conflictsLeft > 0 {
			st.conflictsLeft--
			st.patchAttempts++
			return &pod.HTTPResponse{Status: 409}, nil
		}
		st.patchAttempts++
		st.body = append(st.body, body...)
		return &pod.HTTPResponse{Status: 200}, nil
	default:
		return &pod.HTTPResponse{Status: 405}, nil
	}
}
