package catalog

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/goliatone/go-catalog-cache/cache"
	"github.com/goliatone/go-catalog-cache/search"
)

const (
	// PersonTag prefixes person keys and names the person index.
	PersonTag = "person"
	// RelationFilms names the person to films relation in cache keys.
	RelationFilms = "films"
)

// PersonFamily places the role filter ahead of the name filter in its keys.
var PersonFamily = Family{
	Tag:         PersonTag,
	Index:       PersonTag,
	TextField:   "full_name",
	FilterField: "roles",
	KeyParams: func(q Query) []cache.Param {
		return []cache.Param{
			cache.IntParam("page_size", q.PageSize),
			cache.IntParam("page_number", q.PageNumber),
			cache.StringParam("role", q.Filter),
			cache.StringParam("name", q.Text),
			cache.StringParam("sort", q.Sort),
		}
	},
}

// PersonService serves people and the films each person is credited on.
type PersonService struct {
	*Engine[Person, Person]
	films *cache.Loader[[]Film]
}

// NewPersonService builds the person service. Relation lists share the
// person TTL and codec.
func NewPersonService(store cache.Store, backend search.Backend, opts ...Option) (*PersonService, error) {
	o := buildOptions(opts)
	engine, err := newEngine[Person, Person](PersonFamily, store, backend, o)
	if err != nil {
		return nil, err
	}

	codec, err := cache.NewCodec[[]Film](o.codec)
	if err != nil {
		return nil, err
	}

	return &PersonService{
		Engine: engine,
		films:  cache.NewLoader(store, codec, o.ttl, engine.logger),
	}, nil
}

// Films returns the films of a person in backend order, cached under
// person::films::guid::{id}. An unknown person yields ErrNotFound; a person
// without films yields an empty slice. Neither outcome is cached.
func (s *PersonService) Films(ctx context.Context, personID string) ([]Film, error) {
	if strings.TrimSpace(personID) == "" {
		return nil, invalidQuery(errors.New("id is required"))
	}

	key := s.keys.Relation(PersonTag, RelationFilms, personID)
	films, found, err := s.films.GetOrFetch(ctx, key, func(ctx context.Context) ([]Film, bool, error) {
		person, ok, err := fetchDocument[Person](ctx, s.backend, PersonFamily.Index, personID)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, errors.Wrapf(ErrNotFound, "%s %s", PersonTag, personID)
		}
		if len(person.FilmIDs) == 0 {
			return nil, false, nil
		}

		return searchList[Film](ctx, s.backend, FilmFamily.Index, search.Request{
			Query: search.IDs(person.FilmIDs...),
			Size:  len(person.FilmIDs),
		})
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return []Film{}, nil
	}
	return films, nil
}
