package catalog

import (
	"regexp"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Page size bounds and defaults accepted by List.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	// MaxResultWindow is the deepest hit a page may reach. It matches the
	// search backend's default index.max_result_window.
	MaxResultWindow = 10000
)

// Sort directions.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

var sortPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*:(asc|desc)$`)

// Query describes one page of a collection lookup. Empty strings mean the
// filter or sort was not supplied.
type Query struct {
	PageNumber int
	PageSize   int
	// Text is the free-text filter on the family's main text field.
	Text string
	// Filter is the secondary filter (genre for films, role for people).
	Filter string
	// Sort is "field:asc", "field:desc", "-field" or "field".
	Sort string
}

// Offset returns the index of the first hit on the page.
func (q Query) Offset() int {
	return (q.PageNumber - 1) * q.PageSize
}

// Normalize trims the filters and rewrites Sort into its "field:direction" form,
// so equivalent requests compare equal.
func (q Query) Normalize() Query {
	q.Text = strings.TrimSpace(q.Text)
	q.Filter = strings.TrimSpace(q.Filter)
	q.Sort = normalizeSort(q.Sort)
	return q
}

// Validate checks the page bounds and the sort format. A page must end within
// MaxResultWindow hits, which also keeps Offset from overflowing.
func (q Query) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.PageNumber, validation.Required, validation.Min(1), validation.By(q.withinResultWindow)),
		validation.Field(&q.PageSize, validation.Required, validation.Min(1), validation.Max(MaxPageSize)),
		validation.Field(&q.Sort, validation.Match(sortPattern).Error("must be field:asc or field:desc")),
	)
}

func (q Query) withinResultWindow(any) error {
	if q.PageSize < 1 || q.PageSize > MaxPageSize {
		return nil
	}
	if q.PageNumber > MaxResultWindow/q.PageSize {
		return errPastResultWindow
	}
	return nil
}

var errPastResultWindow = validation.NewError("validation_page_window",
	"page_number * page_size must not exceed "+strconv.Itoa(MaxResultWindow))

func normalizeSort(sort string) string {
	sort = strings.TrimSpace(sort)
	if sort == "" {
		return ""
	}
	if field, ok := strings.CutPrefix(sort, "-"); ok {
		return field + ":" + SortDesc
	}
	field, dir, ok := strings.Cut(sort, ":")
	if !ok {
		return sort + ":" + SortAsc
	}
	return field + ":" + strings.ToLower(dir)
}
