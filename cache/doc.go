// Package cache provides the read-through loader, cache key derivation and
// value codecs used by the catalog services.
//
// # Overview
//
// The package exports three building blocks:
//
//   - Store: the key-value store with per-entry TTL (redis or in-process sturdyc)
//   - Loader: runs cache read, source fetch and write-through for one value type
//   - KeySerializer: builds stable keys for by-id, relation and collection lookups
//
// # Basic Usage
//
//	store, err := cache.NewStore(ctx, cache.DefaultConfig())
//	loader := cache.NewLoader[Film](store, cache.JSONCodec[Film]{}, cache.DefaultTTL, logger)
//
//	film, found, err := loader.GetOrFetch(ctx, keys.ByID("movies", id), func(ctx context.Context) (Film, bool, error) {
//		return fetchFilm(ctx, id)
//	})
//
// # Key Scheme
//
// Keys are segments joined with KeySeparator ("::"):
//
//	movies::guid::{id}
//	person::films::guid::{id}
//	movies::page_size::10::page_number::1::title::%none::genre::drama::sort::imdb_rating%3Adesc
//
// Collection keys always list every parameter of the family in a fixed order.
// Absent parameters render as AbsentValue and values are escaped so that a
// value can never contain the separator. Two requests share a key exactly when
// every parameter matches.
//
// # Negative Results
//
// A FetchFn reporting found=false is never cached: the next call for the same
// key goes back to the source. Entries that fail to decode are treated as
// misses and overwritten.
package cache
