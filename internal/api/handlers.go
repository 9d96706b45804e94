package api

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/goliatone/go-catalog-cache/catalog"
)

// FilmReader is the film lookup the handlers need.
type FilmReader interface {
	GetByID(ctx context.Context, id string) (catalog.FilmDetail, error)
	List(ctx context.Context, q catalog.Query) ([]catalog.Film, error)
}

// PersonReader is the person lookup the handlers need, including the films
// credited to a person.
type PersonReader interface {
	GetByID(ctx context.Context, id string) (catalog.Person, error)
	List(ctx context.Context, q catalog.Query) ([]catalog.Person, error)
	Films(ctx context.Context, personID string) ([]catalog.Film, error)
}

// GenreReader is the genre lookup the handlers need.
type GenreReader interface {
	GetByID(ctx context.Context, id string) (catalog.Genre, error)
	List(ctx context.Context, q catalog.Query) ([]catalog.Genre, error)
}

// Paginator binds the page[size] and page[number] query parameters.
type Paginator struct {
	PageSize   int `form:"page[size],default=10" binding:"min=1,max=100"`
	PageNumber int `form:"page[number],default=1" binding:"min=1"`
}

type filmListParams struct {
	Paginator
	Title string `form:"title"`
	Genre string `form:"genre"`
	Sort  string `form:"sort"`
}

type personListParams struct {
	Paginator
	Name string `form:"name"`
	Role string `form:"role"`
	Sort string `form:"sort"`
}

type genreListParams struct {
	Paginator
	Name string `form:"name"`
	Sort string `form:"sort"`
}

// Handler serves the catalog over HTTP.
type Handler struct {
	films   FilmReader
	persons PersonReader
	genres  GenreReader
	logger  *zap.Logger
}

// NewHandler wires the readers into a Handler. A nil logger discards output.
func NewHandler(films FilmReader, persons PersonReader, genres GenreReader, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{films: films, persons: persons, genres: genres, logger: logger}
}

// ListFilms serves GET /api/v1/films.
func (h *Handler) ListFilms(c *gin.Context) {
	var p filmListParams
	if !h.bind(c, &p) {
		return
	}

	films, err := h.films.List(c.Request.Context(), catalog.Query{
		PageNumber: p.PageNumber,
		PageSize:   p.PageSize,
		Text:       p.Title,
		Filter:     p.Genre,
		Sort:       p.Sort,
	})
	respondList(h, c, films, err, "films not found")
}

// GetFilm serves GET /api/v1/films/:id.
func (h *Handler) GetFilm(c *gin.Context) {
	film, err := h.films.GetByID(c.Request.Context(), c.Param("id"))
	respond(h, c, film, err, "film not found")
}

// ListPersons serves GET /api/v1/persons.
func (h *Handler) ListPersons(c *gin.Context) {
	var p personListParams
	if !h.bind(c, &p) {
		return
	}

	people, err := h.persons.List(c.Request.Context(), catalog.Query{
		PageNumber: p.PageNumber,
		PageSize:   p.PageSize,
		Text:       p.Name,
		Filter:     p.Role,
		Sort:       p.Sort,
	})
	respondList(h, c, people, err, "persons not found")
}

// GetPerson serves GET /api/v1/persons/:id.
func (h *Handler) GetPerson(c *gin.Context) {
	person, err := h.persons.GetByID(c.Request.Context(), c.Param("id"))
	respond(h, c, person, err, "person not found")
}

// GetPersonFilms serves GET /api/v1/persons/:id/film.
func (h *Handler) GetPersonFilms(c *gin.Context) {
	films, err := h.persons.Films(c.Request.Context(), c.Param("id"))
	respondList(h, c, films, err, "films not found")
}

// ListGenres serves GET /api/v1/genres.
func (h *Handler) ListGenres(c *gin.Context) {
	var p genreListParams
	if !h.bind(c, &p) {
		return
	}

	genres, err := h.genres.List(c.Request.Context(), catalog.Query{
		PageNumber: p.PageNumber,
		PageSize:   p.PageSize,
		Text:       p.Name,
		Sort:       p.Sort,
	})
	respondList(h, c, genres, err, "genres not found")
}

// GetGenre serves GET /api/v1/genres/:id.
func (h *Handler) GetGenre(c *gin.Context) {
	genre, err := h.genres.GetByID(c.Request.Context(), c.Param("id"))
	respond(h, c, genre, err, "genre not found")
}

func (h *Handler) bind(c *gin.Context, dest any) bool {
	if err := c.ShouldBindQuery(dest); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return false
	}
	return true
}

func respond[T any](h *Handler, c *gin.Context, value T, err error, notFound string) {
	if err != nil {
		h.fail(c, err, notFound)
		return
	}
	c.JSON(http.StatusOK, value)
}

// respondList answers 404 for an empty page.
func respondList[T any](h *Handler, c *gin.Context, items []T, err error, notFound string) {
	if err != nil {
		h.fail(c, err, notFound)
		return
	}
	if len(items) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"detail": notFound})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) fail(c *gin.Context, err error, notFound string) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": notFound})
	case errors.Is(err, catalog.ErrInvalidQuery):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
	default:
		h.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", RequestIDFrom(c)),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
	}
}
