package catalog

import (
	"github.com/goliatone/go-catalog-cache/cache"
	"github.com/goliatone/go-catalog-cache/search"
)

// FilmTag is both the cache key prefix and the backend index of films.
const FilmTag = "movies"

// FilmFamily lays out film collection keys as
// movies::page_size::N::page_number::N::title::T::genre::G::sort::S.
var FilmFamily = Family{
	Tag:         FilmTag,
	Index:       FilmTag,
	TextField:   "title",
	FilterField: "genre",
	DefaultSort: "imdb_rating:desc",
	KeyParams: func(q Query) []cache.Param {
		return []cache.Param{
			cache.IntParam("page_size", q.PageSize),
			cache.IntParam("page_number", q.PageNumber),
			cache.StringParam("title", q.Text),
			cache.StringParam("genre", q.Filter),
			cache.StringParam("sort", q.Sort),
		}
	},
}

// FilmService serves films by id and by filtered, paginated search.
type FilmService struct {
	*Engine[FilmDetail, Film]
}

// NewFilmService creates a FilmService over the shared store and backend.
func NewFilmService(store cache.Store, backend search.Backend, opts ...Option) (*FilmService, error) {
	engine, err := NewEngine[FilmDetail, Film](FilmFamily, store, backend, opts...)
	if err != nil {
		return nil, err
	}
	return &FilmService{Engine: engine}, nil
}
