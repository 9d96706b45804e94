package di

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/goliatone/go-catalog-cache/cache"
	"github.com/goliatone/go-catalog-cache/catalog"
	"github.com/goliatone/go-catalog-cache/search"
)

// Container owns the process-wide cache store and search backend and the
// three catalog services built on top of them.
type Container struct {
	store         cache.Store
	backend       search.Backend
	keySerializer cache.KeySerializer
	config        cache.Config
	logger        *zap.Logger

	films   *catalog.FilmService
	persons *catalog.PersonService
	genres  *catalog.GenreService

	closers []func() error
}

// NewContainer dials the store and the backend described by the configs and
// wires the services. The caller must Close the container.
func NewContainer(ctx context.Context, cacheCfg cache.Config, elasticCfg search.ElasticConfig, logger *zap.Logger) (*Container, error) {
	store, err := cache.NewStore(ctx, cacheCfg)
	if err != nil {
		return nil, err
	}

	backend, err := search.DialElastic(elasticCfg)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	c, err := NewContainerWith(store, backend, cacheCfg, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	c.closers = append(c.closers, store.Close)
	return c, nil
}

// NewContainerWithDefaults serves backend through an in-process store using
// the default cache configuration.
func NewContainerWithDefaults(ctx context.Context, backend search.Backend) (*Container, error) {
	cfg := cache.DefaultConfig()
	cfg.Backend = cache.BackendMemory

	store, err := cache.NewStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	c, err := NewContainerWith(store, backend, cfg, nil)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	c.closers = append(c.closers, store.Close)
	return c, nil
}

// NewContainerWith wires the services around an existing store and backend.
// Only TTL and Codec are read from cfg. The container does not take ownership
// of store or backend.
func NewContainerWith(store cache.Store, backend search.Backend, cfg cache.Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	keySerializer := cache.NewDefaultKeySerializer()
	opts := []catalog.Option{
		catalog.WithTTL(cfg.TTL),
		catalog.WithCodec(cfg.Codec),
		catalog.WithLogger(logger),
		catalog.WithKeySerializer(keySerializer),
	}

	films, err := catalog.NewFilmService(store, backend, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "di: film service")
	}
	persons, err := catalog.NewPersonService(store, backend, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "di: person service")
	}
	genres, err := catalog.NewGenreService(store, backend, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "di: genre service")
	}

	return &Container{
		store:         store,
		backend:       backend,
		keySerializer: keySerializer,
		config:        cfg,
		logger:        logger,
		films:         films,
		persons:       persons,
		genres:        genres,
	}, nil
}

// Films returns the film service.
func (c *Container) Films() *catalog.FilmService {
	return c.films
}

// Persons returns the person service.
func (c *Container) Persons() *catalog.PersonService {
	return c.persons
}

// Genres returns the genre service.
func (c *Container) Genres() *catalog.GenreService {
	return c.genres
}

// Store returns the shared cache store.
func (c *Container) Store() cache.Store {
	return c.store
}

// Backend returns the shared search backend.
func (c *Container) Backend() search.Backend {
	return c.backend
}

// KeySerializer returns the key serializer shared by every service.
func (c *Container) KeySerializer() cache.KeySerializer {
	return c.keySerializer
}

// Config returns a copy of the cache configuration used by this container.
func (c *Container) Config() cache.Config {
	return c.config
}

// Logger returns the logger handed to the services.
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Close releases the resources the container created itself.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
