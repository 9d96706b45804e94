package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  map[string]string
	Body   string
}

// fakeCluster answers the handful of endpoints the backend uses.
type fakeCluster struct {
	mu       sync.Mutex
	requests []recordedRequest
	handler  func(w http.ResponseWriter, r *http.Request)
}

func (f *fakeCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	query := map[string]string{}
	for k, v := range r.URL.Query() {
		query[k] = strings.Join(v, ",")
	}

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{Method: r.Method, Path: r.URL.Path, Query: query, Body: string(body)})
	f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	f.handler(w, r)
}

func (f *fakeCluster) last() recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func newTestBackend(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*ElasticBackend, *fakeCluster) {
	t.Helper()
	cluster := &fakeCluster{handler: handler}
	srv := httptest.NewServer(cluster)
	t.Cleanup(srv.Close)

	backend, err := DialElastic(ElasticConfig{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return backend, cluster
}

func TestElasticBackend_Get(t *testing.T) {
	backend, cluster := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"_index":"movies","_id":"f-1","found":true,"_source":{"id":"f-1","title":"Alien"}}`)
	})

	doc, err := backend.Get(context.Background(), "movies", "f-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"f-1","title":"Alien"}`, string(doc))
	assert.Equal(t, "/movies/_doc/f-1", cluster.last().Path)
}

func TestElasticBackend_GetNotFound(t *testing.T) {
	backend, _ := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"_index":"movies","_id":"missing","found":false}`)
	})

	_, err := backend.Get(context.Background(), "movies", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestElasticBackend_GetMissingIndex(t *testing.T) {
	backend, _ := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":{"type":"index_not_found_exception"},"status":404}`)
	})

	_, err := backend.Get(context.Background(), "movies", "f-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "index_not_found_exception")
}

func TestElasticBackend_GetServerError(t *testing.T) {
	backend, _ := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"bad request"}`)
	})

	_, err := backend.Get(context.Background(), "movies", "f-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestElasticBackend_Search(t *testing.T) {
	backend, cluster := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{
			"hits": {
				"total": {"value": 42, "relation": "eq"},
				"hits": [
					{"_id": "f-2", "_source": {"id": "f-2", "title": "Aliens"}},
					{"_id": "f-1", "_source": {"id": "f-1", "title": "Alien"}}
				]
			}
		}`)
	})

	result, err := backend.Search(context.Background(), "movies", Request{
		Query: Match("title", "alien"),
		Size:  10,
		From:  20,
		Sort:  []string{"imdb_rating:desc"},
	})
	require.NoError(t, err)

	require.Len(t, result.Hits, 2)
	assert.Equal(t, 42, result.Total)
	assert.JSONEq(t, `{"id":"f-2","title":"Aliens"}`, string(result.Hits[0]))
	assert.JSONEq(t, `{"id":"f-1","title":"Alien"}`, string(result.Hits[1]))

	req := cluster.last()
	assert.Equal(t, "/movies/_search", req.Path)
	assert.Equal(t, "10", req.Query["size"])
	assert.Equal(t, "20", req.Query["from"])
	assert.Equal(t, "imdb_rating:desc", req.Query["sort"])
	assert.JSONEq(t, `{"query":{"match":{"title":{"query":"alien","fuzziness":"auto"}}}}`, req.Body)
}

func TestElasticBackend_SearchWithoutSort(t *testing.T) {
	backend, cluster := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"hits":{"total":{"value":0},"hits":[]}}`)
	})

	result, err := backend.Search(context.Background(), "genre", Request{Size: 10, From: 0})
	require.NoError(t, err)
	assert.Empty(t, result.Hits)

	req := cluster.last()
	_, hasSort := req.Query["sort"]
	assert.False(t, hasSort)
	assert.Equal(t, "0", req.Query["from"])
	assert.JSONEq(t, `{"query":{"match_all":{}}}`, req.Body)
}

func TestElasticBackend_SearchError(t *testing.T) {
	backend, _ := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"error":"cluster unavailable"}`)
	})

	_, err := backend.Search(context.Background(), "movies", Request{Size: 10})
	require.Error(t, err)
}

func TestRequest_Body(t *testing.T) {
	body, err := Request{Query: IDs("a", "b")}.Body()
	require.NoError(t, err)
	require.True(t, json.Valid(body))
	assert.JSONEq(t, `{"query":{"ids":{"values":["a","b"]}}}`, string(body))
}
