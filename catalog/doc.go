// Package catalog serves films, people and genres from a search backend
// through a shared key-value cache.
//
// Every family runs the same read-through protocol, implemented once by
// Engine: look the key up in the cache, decode and return on a hit, otherwise
// query the backend, write the result back with the family TTL and return it.
// Missing documents (ErrNotFound) and empty pages are returned to the caller
// and never cached, so the next request asks the backend again.
//
// Usage:
//
//	store, _ := cache.NewStore(ctx, cache.DefaultConfig())
//	backend, _ := search.DialElastic(search.ElasticConfig{Addresses: []string{"http://127.0.0.1:9200"}})
//
//	films, _ := catalog.NewFilmService(store, backend, catalog.WithTTL(5*time.Minute))
//	page, err := films.List(ctx, catalog.Query{PageNumber: 1, PageSize: 10, Text: "star"})
//
// Collection queries are validated before any I/O. A page number below one, a
// page size outside [1, 100] or a malformed sort fails with ErrInvalidQuery.
package catalog
