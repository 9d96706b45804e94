package search

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// ErrNotFound is returned by Backend.Get when the index holds no document with the id.
var ErrNotFound = errors.New("search: document not found")

// Request is a paginated search. Size and From are always sent.
type Request struct {
	Query Query
	Size  int
	From  int
	// Sort holds "field:direction" specs, empty for the backend's natural order.
	Sort []string
}

// Body returns the JSON request body.
func (r Request) Body() ([]byte, error) {
	return json.Marshal(map[string]any{"query": r.Query})
}

// Result is an ordered hit list. Hits hold each document's source.
type Result struct {
	Hits  []json.RawMessage
	Total int
}

// Backend is the search engine holding the catalog documents.
// Implementations must be safe for concurrent use.
type Backend interface {
	Get(ctx context.Context, index, id string) (json.RawMessage, error)
	Search(ctx context.Context, index string, req Request) (Result, error)
}
