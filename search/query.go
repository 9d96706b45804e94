package search

import "encoding/json"

// Fuzziness applied to every match clause.
const Fuzziness = "auto"

// Query kinds.
const (
	KindMatchAll = "match_all"
	KindMatch    = "match"
	KindIDs      = "ids"
	KindBool     = "bool"
)

// Query is a backend query clause. The zero value matches every document.
type Query struct {
	kind   string
	field  string
	text   string
	values []string
	must   []Query
}

// MatchAll matches every document.
func MatchAll() Query {
	return Query{kind: KindMatchAll}
}

// Match runs a fuzzy full-text match of text against field.
func Match(field, text string) Query {
	return Query{kind: KindMatch, field: field, text: text}
}

// IDs selects exactly the documents with the given ids.
func IDs(values ...string) Query {
	return Query{kind: KindIDs, values: append([]string(nil), values...)}
}

// Bool requires every clause to match. A single clause is returned unchanged
// and no clause at all matches everything.
func Bool(must ...Query) Query {
	switch len(must) {
	case 0:
		return MatchAll()
	case 1:
		return must[0]
	}
	return Query{kind: KindBool, must: append([]Query(nil), must...)}
}

// Kind reports the clause type.
func (q Query) Kind() string {
	if q.kind == "" {
		return KindMatchAll
	}
	return q.kind
}

// Field, Text, Values and Clauses expose the clause parts for backends that
// evaluate queries themselves.
func (q Query) Field() string { return q.field }

func (q Query) Text() string { return q.text }

func (q Query) Values() []string { return q.values }

func (q Query) Clauses() []Query { return q.must }

// MarshalJSON renders the clause in Elasticsearch query DSL.
func (q Query) MarshalJSON() ([]byte, error) {
	var body any
	switch q.Kind() {
	case KindMatch:
		body = map[string]any{
			KindMatch: map[string]any{
				q.field: map[string]any{
					"query":     q.text,
					"fuzziness": Fuzziness,
				},
			},
		}
	case KindIDs:
		values := q.values
		if values == nil {
			values = []string{}
		}
		body = map[string]any{KindIDs: map[string]any{"values": values}}
	case KindBool:
		body = map[string]any{KindBool: map[string]any{"must": q.must}}
	default:
		body = map[string]any{KindMatchAll: map[string]any{}}
	}
	return json.Marshal(body)
}
