// Package fieldfilter compiles a declarative filter expression against a
// record.Schema into a reusable, immutable predicate, then evaluates that
// predicate against record.Record instances (spec.md components C1-C7).
package fieldfilter

import (
	json "github.com/goccy/go-json"
)

// OpTag is the operator of one node of a FilterExpr tree.
type OpTag string

const (
	OpHas     OpTag = "HAS"
	OpEqual   OpTag = "EQUAL"
	OpGT      OpTag = "GT"
	OpLT      OpTag = "LT"
	OpIn      OpTag = "IN"
	OpAnyIn   OpTag = "ANY_IN"
	OpAnd     OpTag = "AND"
	OpOr      OpTag = "OR"
	OpNot     OpTag = "NOT"
	OpPartial OpTag = "PARTIAL"
	OpTrue    OpTag = "TRUE"
	OpRegexp  OpTag = "REGEXP"
)

// FilterExpr is the uncompiled, textual form of a filter (spec.md §6): a
// tagged tree of leaves and composites. It round-trips through
// github.com/goccy/go-json the same way the teacher's Schema type
// round-trips through its JSON codec (jsonschema/schema.go
// MarshalJSON/UnmarshalJSON), a pure encoding/json drop-in.
//
// Value is a pointer so "absent" (nil, triggers MissingValue) is
// distinguishable from "present and the empty string" (a legal EQUAL/IN
// literal for a string field) — required for the §8 round-trip property:
// compile_from_record on a record whose string field is set to "" must
// produce an EQUAL filter that compiles back successfully.
type FilterExpr struct {
	Op         OpTag         `json:"op"`
	Name       string        `json:"name,omitempty"`
	Value      *string       `json:"value,omitempty"`
	SubFilters []*FilterExpr `json:"sub_filters,omitempty"`
}

// Val builds a *string for FilterExpr.Value, for callers constructing
// expressions in Go rather than decoding them off the wire.
func Val(s string) *string { return &s }

func (e *FilterExpr) hasValue() bool {
	return e.Value != nil
}

func (e *FilterExpr) valueOrEmpty() string {
	if e.Value == nil {
		return ""
	}
	return *e.Value
}

// ParseFilterExpr decodes the wire form of a filter expression.
func ParseFilterExpr(data []byte) (*FilterExpr, error) {
	var e FilterExpr
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (e *FilterExpr) MarshalJSON() ([]byte, error) {
	type alias FilterExpr
	return json.Marshal((*alias)(e))
}
