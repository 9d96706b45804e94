package testsupport

import (
	"embed"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
)

//go:embed testdata/*.json
var catalogFixtures embed.FS

// catalogIndexes maps each backend index to its bundled fixture file.
var catalogIndexes = []struct {
	index string
	file  string
}{
	{index: "movies", file: "testdata/films.json"},
	{index: "person", file: "testdata/persons.json"},
	{index: "genre", file: "testdata/genres.json"},
}

// LoadFixture loads test data from a fixture file.
// The path is relative to the test package directory.
func LoadFixture(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to load fixture from %s: %v", path, err)
	}

	return data
}

// LoadFixtureJSON loads JSON test data from a fixture file and unmarshals it.
// The path is relative to the test package directory.
func LoadFixtureJSON(t *testing.T, path string, dest any) {
	t.Helper()

	data := LoadFixture(t, path)
	if err := json.Unmarshal(data, dest); err != nil {
		t.Fatalf("failed to unmarshal JSON fixture from %s: %v", path, err)
	}
}

// FixturePath constructs a path to a fixture file relative to the testdata directory.
func FixturePath(filename string) string {
	return filepath.Join("testdata", filename)
}

// SeedCatalog indexes the bundled films, people and genres into b.
func SeedCatalog(b *Backend) error {
	for _, entry := range catalogIndexes {
		data, err := catalogFixtures.ReadFile(entry.file)
		if err != nil {
			return errors.Wrapf(err, "read %s", entry.file)
		}

		var docs []json.RawMessage
		if err := json.Unmarshal(data, &docs); err != nil {
			return errors.Wrapf(err, "decode %s", entry.file)
		}
		for _, d := range docs {
			if err := b.Add(entry.index, d); err != nil {
				return err
			}
		}
	}
	return nil
}

// NewCatalogBackend returns a Backend seeded with the bundled catalog.
func NewCatalogBackend(t *testing.T) *Backend {
	t.Helper()

	b := NewBackend()
	if err := SeedCatalog(b); err != nil {
		t.Fatalf("failed to seed catalog backend: %v", err)
	}
	return b
}
