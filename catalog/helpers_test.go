package catalog

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-catalog-cache/pkg/testsupport"
)

type setCall struct {
	Key string
	TTL time.Duration
}

// memStore is a map backed cache.Store recording every call.
type memStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	gets   []string
	sets   []setCall
	getErr error
	setErr error
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.gets = append(m.gets, key)
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sets = append(m.sets, setCall{Key: key, TTL: ttl})
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memStore) put(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

func (m *memStore) value(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *memStore) setCalls() []setCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]setCall(nil), m.sets...)
}

func (m *memStore) getCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.gets...)
}

func newFilmFixture(t *testing.T, opts ...Option) (*FilmService, *memStore, *testsupport.Backend) {
	t.Helper()

	store := newMemStore()
	backend := testsupport.NewCatalogBackend(t)
	svc, err := NewFilmService(store, backend, opts...)
	if err != nil {
		t.Fatalf("NewFilmService() error = %v", err)
	}
	return svc, store, backend
}

func newPersonFixture(t *testing.T, opts ...Option) (*PersonService, *memStore, *testsupport.Backend) {
	t.Helper()

	store := newMemStore()
	backend := testsupport.NewCatalogBackend(t)
	svc, err := NewPersonService(store, backend, opts...)
	if err != nil {
		t.Fatalf("NewPersonService() error = %v", err)
	}
	return svc, store, backend
}

func newGenreFixture(t *testing.T, opts ...Option) (*GenreService, *memStore, *testsupport.Backend) {
	t.Helper()

	store := newMemStore()
	backend := testsupport.NewCatalogBackend(t)
	svc, err := NewGenreService(store, backend, opts...)
	if err != nil {
		t.Fatalf("NewGenreService() error = %v", err)
	}
	return svc, store, backend
}

func filmIDs(films []Film) []string {
	ids := make([]string, 0, len(films))
	for _, f := range films {
		ids = append(ids, f.ID)
	}
	return ids
}
