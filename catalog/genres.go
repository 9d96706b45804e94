package catalog

import (
	"github.com/goliatone/go-catalog-cache/cache"
	"github.com/goliatone/go-catalog-cache/search"
)

// GenreTag prefixes genre keys and names the genre index.
const GenreTag = "genre"

// GenreFamily has no secondary filter; a Query.Filter is rejected.
var GenreFamily = Family{
	Tag:       GenreTag,
	Index:     GenreTag,
	TextField: "name",
	KeyParams: func(q Query) []cache.Param {
		return []cache.Param{
			cache.IntParam("page_size", q.PageSize),
			cache.IntParam("page_number", q.PageNumber),
			cache.StringParam("name", q.Text),
			cache.StringParam("sort", q.Sort),
		}
	},
}

// GenreService serves genres by id and by name search.
type GenreService struct {
	*Engine[Genre, Genre]
}

// NewGenreService builds the genre service over store and backend.
func NewGenreService(store cache.Store, backend search.Backend, opts ...Option) (*GenreService, error) {
	engine, err := NewEngine[Genre, Genre](GenreFamily, store, backend, opts...)
	if err != nil {
		return nil, err
	}
	return &GenreService{Engine: engine}, nil
}
