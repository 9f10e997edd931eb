package fieldfilter

import (
	"fmt"

	"github.com/oarkflow/fieldfilter/record"
)

// compareResult is the three-way outcome integer_comparator.cc returns.
// Invalid is reserved for an unset terminal field; GT and LT both treat
// Invalid as false (spec.md §4.7).
type compareResult int

const (
	cmpInvalid compareResult = iota
	cmpLess
	cmpEqual
	cmpGreater
)

// intCompare is built once at compile time (compileIntCompare) from a path
// already known to end in an integer field and a literal already parsed
// to that field's kind; at match time it only reads and compares, never
// re-parses (spec.md §9's "monomorphise leaf nodes" note, and the
// observation in SPEC_FULL.md that integer_comparator.cc parses once).
type intCompare struct {
	path    FieldPath
	literal any // int32, int64, uint32, or uint64
}

func compileIntCompare(schema record.Schema, path FieldPath, literal string) (*intCompare, error) {
	kind := path.Terminal().Kind()
	if !kind.IsInteger() {
		return nil, fmt.Errorf("field kind %s is not an integer kind", kind)
	}
	v, err := parseScalar(kind, nil, literal)
	if err != nil {
		return nil, err
	}
	return &intCompare{path: path, literal: v}, nil
}

// compare resolves the field on r and returns its three-way relation to
// the stored literal. An unset terminal field yields cmpInvalid (the
// accessor's zero-value reads would otherwise silently compare against
// zero, which GT/LT must not do).
func (c *intCompare) compare(r record.Record) compareResult {
	if !hasField(r, c.path) {
		return cmpInvalid
	}
	v := valueOf(r, c.path)
	switch a := c.literal.(type) {
	case int32:
		b := v.(int32)
		return threeWay(a < b, a == b)
	case int64:
		b := v.(int64)
		return threeWay(a < b, a == b)
	case uint32:
		b := v.(uint32)
		return threeWay(a < b, a == b)
	case uint64:
		b := v.(uint64)
		return threeWay(a < b, a == b)
	default:
		return cmpInvalid
	}
}

// threeWay evaluates a literal-on-the-left comparison: recordValue is
// compared against the stored literal, so "less"/"equal" here mean
// "literal < record" / "literal == record" from c.compare's call sites
// above (a is the literal, b is the record's value) — GT then means the
// record's value is greater than the literal, matching spec.md's
// `value_of(record) > literal` reading of the GT operator.
func threeWay(literalLess bool, equal bool) compareResult {
	if equal {
		return cmpEqual
	}
	if literalLess {
		// literal < record value  =>  record value > literal
		return cmpGreater
	}
	return cmpLess
}
