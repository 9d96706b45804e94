package cache

import (
	"strconv"
	"strings"
)

// KeySeparator defines the delimiter used between cache key segments.
const KeySeparator = "::"

// AbsentValue marks a parameter that was not supplied. Every '%' in an escaped
// value starts "%25" or "%3A", so user input can never render as AbsentValue.
const AbsentValue = "%none"

const (
	segmentGUID = "guid"
)

// escaper keeps the separator out of parameter values.
var escaper = strings.NewReplacer("%", "%25", ":", "%3A")

// Param is one named collection parameter. Present is false when the request
// did not carry the parameter at all.
type Param struct {
	Name    string
	Value   string
	Present bool
}

// StringParam builds a parameter from a string; the empty string counts as absent.
func StringParam(name, value string) Param {
	return Param{Name: name, Value: value, Present: value != ""}
}

// IntParam builds a parameter that is always present.
func IntParam(name string, value int) Param {
	return Param{Name: name, Value: strconv.Itoa(value), Present: true}
}

// KeySerializer builds cache keys for catalog lookups.
// It is responsible for producing stable keys across calls.
type KeySerializer interface {
	// ByID returns "{family}::guid::{id}".
	ByID(family, id string) string
	// Relation returns "{family}::{relation}::guid::{id}".
	Relation(family, relation, id string) string
	// Collection returns the family tag followed by every name/value pair in
	// the order given.
	Collection(family string, params ...Param) string
}

type defaultKeySerializer struct{}

// NewDefaultKeySerializer creates a new instance of the default key serializer.
func NewDefaultKeySerializer() KeySerializer {
	return defaultKeySerializer{}
}

// ByID uses the id verbatim. Callers hand in ids that were already validated.
func (defaultKeySerializer) ByID(family, id string) string {
	return strings.Join([]string{family, segmentGUID, id}, KeySeparator)
}

func (defaultKeySerializer) Relation(family, relation, id string) string {
	return strings.Join([]string{family, relation, segmentGUID, id}, KeySeparator)
}

func (defaultKeySerializer) Collection(family string, params ...Param) string {
	parts := make([]string, 0, 1+2*len(params))
	parts = append(parts, family)
	for _, p := range params {
		parts = append(parts, p.Name, serializeValue(p))
	}
	return strings.Join(parts, KeySeparator)
}

func serializeValue(p Param) string {
	if !p.Present {
		return AbsentValue
	}
	return escaper.Replace(p.Value)
}
