package x2

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const (
	testUser = "api-user"
	testKey  = "api-key"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Body   []byte
	Header http.Header
}

// JSON decodes the recorded body into a generic map
func (r recordedRequest) JSON(t *testing.T) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(r.Body, &m))
	return m
}

// fakeCRM is an in-process stand-in for the X2 REST API. Field schemas and
// the dropdown catalog are served from fixtures; everything else needs an
// explicit route.
type fakeCRM struct {
	t      *testing.T
	server *httptest.Server

	mu        sync.Mutex
	fields    map[string][]Entity
	dropdowns []Entity
	routes    map[string]http.HandlerFunc
	requests  []recordedRequest
}

func newFakeCRM(t *testing.T) *fakeCRM {
	t.Helper()

	f := &fakeCRM{
		t:         t,
		fields:    map[string][]Entity{EntityContacts: contactFields()},
		dropdowns: testDropdowns(),
		routes:    make(map[string]http.HandlerFunc),
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.serveHTTP))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeCRM) serveHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	path := strings.TrimPrefix(r.URL.Path, "/api2/")

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method: r.Method,
		Path:   path,
		Query:  r.URL.Query(),
		Body:   body,
		Header: r.Header.Clone(),
	})
	route, hasRoute := f.routes[r.Method+" "+path]
	f.mu.Unlock()

	user, key, ok := r.BasicAuth()
	if !ok || user != testUser || key != testKey {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "unauthorized"})
		return
	}

	if hasRoute {
		route(w, r)
		return
	}

	if r.Method == http.MethodGet && path == "dropdowns" {
		writeJSON(w, http.StatusOK, f.dropdowns)
		return
	}
	if r.Method == http.MethodGet && strings.HasSuffix(path, "/fields") {
		entity := strings.TrimSuffix(path, "/fields")
		if fields, ok := f.fields[entity]; ok {
			writeJSON(w, http.StatusOK, fields)
			return
		}
	}

	writeJSON(w, http.StatusNotFound, map[string]any{"message": "not found"})
}

func (f *fakeCRM) handle(method, path string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = h
}

// respond registers a route that always answers with status and v
func (f *fakeCRM) respond(method, path string, status int, v any) {
	f.handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, status, v)
	})
}

func (f *fakeCRM) client(t *testing.T, opts ...Option) *Client {
	t.Helper()
	c, err := NewClient(f.server.URL+"/api2/", testUser, testKey, zerolog.Nop(), opts...)
	require.NoError(t, err)
	return c
}

func (f *fakeCRM) recorded(method, path string) []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []recordedRequest
	for _, r := range f.requests {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (f *fakeCRM) count(method, path string) int {
	return len(f.recorded(method, path))
}

func (f *fakeCRM) writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, r := range f.requests {
		if r.Method != http.MethodGet {
			n++
		}
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func contactFields() []Entity {
	return []Entity{
		{"fieldName": "firstName", "attributeLabel": "First Name", "type": "varchar", "required": "1"},
		{"fieldName": "lastName", "attributeLabel": "Last Name", "type": "varchar", "required": "1"},
		{"fieldName": "email", "attributeLabel": "Email", "type": "email", "required": "0"},
		{"fieldName": "businessEmail", "attributeLabel": "Business Email", "type": "email", "required": "0"},
		{"fieldName": "email2", "attributeLabel": "Other Address", "type": "varchar", "required": "0"},
		{"fieldName": "leadSource", "attributeLabel": "Lead Source", "type": "dropdown", "linkType": "103", "required": "0"},
		{"fieldName": "rating", "attributeLabel": "Rating", "type": "dropdown", "linkType": "999", "required": "0"},
		{"fieldName": "backgroundInfo", "attributeLabel": "Background", "type": "text", "required": "0"},
		{"fieldName": "visibility", "attributeLabel": "Visibility", "type": "visibility", "required": "1"},
		{"fieldName": "dupeCheck", "attributeLabel": "Dupe Check", "type": "boolean", "required": "0"},
	}
}

func testDropdowns() []Entity {
	return []Entity{
		{"id": 103, "name": "Lead Source", "multi": "0", "options": map[string]any{"Google": "Google", "Referral": "Referral"}},
		{"id": 104, "name": "Priority", "multi": "0", "options": []any{"Low", "High"}},
	}
}
