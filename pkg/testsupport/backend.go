package testsupport

import (
	"context"
	"encoding/json"
	"slices"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/goliatone/go-catalog-cache/search"
)

// SearchCall records one Search invocation.
type SearchCall struct {
	Index   string
	Request search.Request
}

type document struct {
	id     string
	raw    json.RawMessage
	fields map[string]any
}

// Backend is an in-memory search.Backend. Documents keep insertion order,
// which is the order unsorted searches return them in. Match clauses are a
// case-insensitive substring test on a string or string list field.
type Backend struct {
	mu       sync.Mutex
	indexes  map[string][]document
	gets     []string
	searches []SearchCall

	// Err, when set, is returned by every Get and Search call.
	Err error
}

var _ search.Backend = (*Backend)(nil)

// NewBackend creates an empty in-memory backend.
func NewBackend() *Backend {
	return &Backend{indexes: make(map[string][]document)}
}

// Add stores docs in index. Each doc must marshal to a JSON object with an "id".
func (b *Backend) Add(index string, docs ...any) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, d := range docs {
		raw, err := json.Marshal(d)
		if err != nil {
			return errors.Wrap(err, "marshal document")
		}
		fields := map[string]any{}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return errors.Wrap(err, "document is not an object")
		}
		id, _ := fields["id"].(string)
		if id == "" {
			return errors.Newf("document in %s has no id", index)
		}
		b.indexes[index] = append(b.indexes[index], document{id: id, raw: raw, fields: fields})
	}
	return nil
}

// LoadFixture adds every document of a JSON array fixture to index.
func (b *Backend) LoadFixture(t *testing.T, index, path string) {
	t.Helper()

	var docs []json.RawMessage
	LoadFixtureJSON(t, path, &docs)
	for _, d := range docs {
		if err := b.Add(index, d); err != nil {
			t.Fatalf("failed to index fixture %s: %v", path, err)
		}
	}
}

func (b *Backend) Get(ctx context.Context, index, id string) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.gets = append(b.gets, index+"/"+id)
	if b.Err != nil {
		return nil, b.Err
	}

	for _, d := range b.indexes[index] {
		if d.id == id {
			return slices.Clone(d.raw), nil
		}
	}
	return nil, search.ErrNotFound
}

func (b *Backend) Search(ctx context.Context, index string, req search.Request) (search.Result, error) {
	if err := ctx.Err(); err != nil {
		return search.Result{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.searches = append(b.searches, SearchCall{Index: index, Request: req})
	if b.Err != nil {
		return search.Result{}, b.Err
	}
	if req.From < 0 || req.Size < 0 {
		return search.Result{}, errors.Newf("testsupport: search %s: from and size must be non-negative, got from=%d size=%d", index, req.From, req.Size)
	}

	var matched []document
	for _, d := range b.indexes[index] {
		if matches(req.Query, d) {
			matched = append(matched, d)
		}
	}
	for i := len(req.Sort) - 1; i >= 0; i-- {
		sortDocuments(matched, req.Sort[i])
	}

	result := search.Result{Total: len(matched), Hits: []json.RawMessage{}}
	if req.From >= len(matched) {
		return result, nil
	}
	end := len(matched)
	if req.Size > 0 && req.From+req.Size < end {
		end = req.From + req.Size
	}
	for _, d := range matched[req.From:end] {
		result.Hits = append(result.Hits, slices.Clone(d.raw))
	}
	return result, nil
}

// GetCalls returns the "index/id" pairs requested through Get.
func (b *Backend) GetCalls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.gets)
}

// SearchCalls returns every Search call in order.
func (b *Backend) SearchCalls() []SearchCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.searches)
}

// Calls returns the total number of backend calls.
func (b *Backend) Calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.gets) + len(b.searches)
}

// ResetCalls clears the call log and keeps the documents.
func (b *Backend) ResetCalls() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gets = nil
	b.searches = nil
}

func matches(q search.Query, d document) bool {
	switch q.Kind() {
	case search.KindMatch:
		return fieldContains(d.fields[q.Field()], q.Text())
	case search.KindIDs:
		return slices.Contains(q.Values(), d.id)
	case search.KindBool:
		for _, clause := range q.Clauses() {
			if !matches(clause, d) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func fieldContains(value any, text string) bool {
	text = strings.ToLower(text)
	switch v := value.(type) {
	case string:
		return strings.Contains(strings.ToLower(v), text)
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && strings.Contains(strings.ToLower(s), text) {
				return true
			}
		}
	}
	return false
}

func sortDocuments(docs []document, order string) {
	field, dir, _ := strings.Cut(order, ":")
	desc := dir == "desc"
	sort.SliceStable(docs, func(i, j int) bool {
		a, b := docs[i].fields[field], docs[j].fields[field]
		if desc {
			return less(b, a)
		}
		return less(a, b)
	})
}

func less(a, b any) bool {
	switch av := a.(type) {
	case float64:
		bv, ok := b.(float64)
		return ok && av < bv
	case string:
		bv, ok := b.(string)
		return ok && av < bv
	}
	return false
}
