package catalog

import "github.com/cockroachdb/errors"

var (
	// ErrNotFound reports that the backend holds no document for an id.
	// It is never cached: the next call asks the backend again.
	ErrNotFound = errors.New("catalog: not found")

	// ErrInvalidQuery matches every QueryError. Nothing is read from the
	// cache or the backend for an invalid query.
	ErrInvalidQuery = errors.New("catalog: invalid query")
)

// QueryError describes why a lookup was rejected before any I/O.
type QueryError struct {
	Cause error
}

func (e *QueryError) Error() string {
	return "catalog: invalid query: " + e.Cause.Error()
}

func (e *QueryError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrInvalidQuery.
func (e *QueryError) Is(target error) bool {
	return target == ErrInvalidQuery
}

func invalidQuery(err error) error {
	return &QueryError{Cause: err}
}
