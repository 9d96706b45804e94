package catalog

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/goliatone/go-catalog-cache/cache"
	"github.com/goliatone/go-catalog-cache/search"
)

// Family describes one kind of catalog entity: where it lives in the backend,
// how its collection keys are laid out and which fields its filters target.
type Family struct {
	// Tag prefixes every cache key of the family.
	Tag string
	// Index is the backend index holding the documents.
	Index string
	// TextField receives Query.Text.
	TextField string
	// FilterField receives Query.Filter. Empty when the family has no secondary filter.
	FilterField string
	// DefaultSort applies when the query carries no sort.
	DefaultSort string
	// KeyParams lists the collection key parameters in their fixed order.
	// It receives a normalized query with DefaultSort already applied.
	KeyParams func(q Query) []cache.Param
}

// Request builds the backend search for q.
func (f Family) Request(q Query) search.Request {
	var must []search.Query
	if q.Text != "" {
		must = append(must, search.Match(f.TextField, q.Text))
	}
	if q.Filter != "" {
		must = append(must, search.Match(f.FilterField, q.Filter))
	}

	req := search.Request{
		Query: search.Bool(must...),
		Size:  q.PageSize,
		From:  q.Offset(),
	}
	if q.Sort != "" {
		req.Sort = []string{q.Sort}
	}
	return req
}

func (f Family) prepare(q Query) (Query, error) {
	q = q.Normalize()
	if q.Sort == "" {
		q.Sort = f.DefaultSort
	}
	if err := q.Validate(); err != nil {
		return q, invalidQuery(err)
	}
	if q.Filter != "" && f.FilterField == "" {
		return q, invalidQuery(errors.Newf("%s does not support a secondary filter", f.Tag))
	}
	return q, nil
}

type options struct {
	ttl    time.Duration
	codec  string
	logger *zap.Logger
	keys   cache.KeySerializer
}

// Option configures a service.
type Option func(*options)

// WithTTL overrides the expiry of every entry the service writes.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// WithCodec selects the cache payload format, cache.FormatJSON or cache.FormatMsgpack.
func WithCodec(format string) Option {
	return func(o *options) {
		o.codec = format
	}
}

// WithLogger sets the logger used for cache warnings. A nil logger is ignored.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithKeySerializer replaces the default key scheme. A nil serializer is ignored.
func WithKeySerializer(keys cache.KeySerializer) Option {
	return func(o *options) {
		if keys != nil {
			o.keys = keys
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		ttl:    cache.DefaultTTL,
		codec:  cache.FormatJSON,
		logger: zap.NewNop(),
		keys:   cache.NewDefaultKeySerializer(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Engine serves one family through the cache. D is the document returned by
// id and L the projection returned in collections.
type Engine[D any, L any] struct {
	family  Family
	backend search.Backend
	keys    cache.KeySerializer
	items   *cache.Loader[D]
	lists   *cache.Loader[[]L]
	logger  *zap.Logger
}

// NewEngine wires a family to the shared store and backend.
func NewEngine[D any, L any](family Family, store cache.Store, backend search.Backend, opts ...Option) (*Engine[D, L], error) {
	o := buildOptions(opts)
	return newEngine[D, L](family, store, backend, o)
}

func newEngine[D any, L any](family Family, store cache.Store, backend search.Backend, o options) (*Engine[D, L], error) {
	if store == nil {
		return nil, errors.New("catalog: cache store is required")
	}
	if backend == nil {
		return nil, errors.New("catalog: search backend is required")
	}

	itemCodec, err := cache.NewCodec[D](o.codec)
	if err != nil {
		return nil, err
	}
	listCodec, err := cache.NewCodec[[]L](o.codec)
	if err != nil {
		return nil, err
	}

	logger := o.logger.With(zap.String("family", family.Tag))
	return &Engine[D, L]{
		family:  family,
		backend: backend,
		keys:    o.keys,
		items:   cache.NewLoader(store, itemCodec, o.ttl, logger),
		lists:   cache.NewLoader(store, listCodec, o.ttl, logger),
		logger:  logger,
	}, nil
}

// Family returns the family served by the engine.
func (e *Engine[D, L]) Family() Family {
	return e.family
}

// TTL returns the expiry applied to the family's entries.
func (e *Engine[D, L]) TTL() time.Duration {
	return e.items.TTL()
}

// GetByID returns the document with the given id, reading through the cache.
// A missing document yields ErrNotFound and leaves the cache untouched.
func (e *Engine[D, L]) GetByID(ctx context.Context, id string) (D, error) {
	var zero D
	if strings.TrimSpace(id) == "" {
		return zero, invalidQuery(errors.New("id is required"))
	}

	key := e.keys.ByID(e.family.Tag, id)
	doc, found, err := e.items.GetOrFetch(ctx, key, func(ctx context.Context) (D, bool, error) {
		return fetchDocument[D](ctx, e.backend, e.family.Index, id)
	})
	if err != nil {
		return zero, err
	}
	if !found {
		return zero, errors.Wrapf(ErrNotFound, "%s %s", e.family.Tag, id)
	}
	return doc, nil
}

// List returns one page of the collection described by q, in backend order.
// An empty page is returned as an empty slice and is not cached.
func (e *Engine[D, L]) List(ctx context.Context, q Query) ([]L, error) {
	q, err := e.family.prepare(q)
	if err != nil {
		return nil, err
	}

	key := e.keys.Collection(e.family.Tag, e.family.KeyParams(q)...)
	items, found, err := e.lists.GetOrFetch(ctx, key, func(ctx context.Context) ([]L, bool, error) {
		return searchList[L](ctx, e.backend, e.family.Index, e.family.Request(q))
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return []L{}, nil
	}
	return items, nil
}

// CollectionKey returns the cache key List uses for q.
func (e *Engine[D, L]) CollectionKey(q Query) (string, error) {
	q, err := e.family.prepare(q)
	if err != nil {
		return "", err
	}
	return e.keys.Collection(e.family.Tag, e.family.KeyParams(q)...), nil
}

func fetchDocument[T any](ctx context.Context, backend search.Backend, index, id string) (T, bool, error) {
	var doc T

	raw, err := backend.Get(ctx, index, id)
	if errors.Is(err, search.ErrNotFound) {
		return doc, false, nil
	}
	if err != nil {
		return doc, false, err
	}

	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, false, errors.Wrapf(err, "catalog: decode %s/%s", index, id)
	}
	return doc, true, nil
}

func searchList[T any](ctx context.Context, backend search.Backend, index string, req search.Request) ([]T, bool, error) {
	result, err := backend.Search(ctx, index, req)
	if err != nil {
		return nil, false, err
	}
	if len(result.Hits) == 0 {
		return nil, false, nil
	}

	items := make([]T, 0, len(result.Hits))
	for i, hit := range result.Hits {
		var item T
		if err := json.Unmarshal(hit, &item); err != nil {
			return nil, false, errors.Wrapf(err, "catalog: decode %s hit %d", index, i)
		}
		items = append(items, item)
	}
	return items, true, nil
}
