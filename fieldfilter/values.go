package fieldfilter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/oarkflow/fieldfilter/record"
)

// ValueSet is the compiled form of a comma-separated literal list
// (spec.md §3 In<T>/AnyIn<T>, §4.3 parse_values). Membership is by
// "natural identity": byte-exact for strings, by value-number for enums
// (in_filter.cc stores enum members as their numeric value, never as a
// name string, so that is what this set keys on too).
type ValueSet struct {
	m map[any]struct{}
}

func newValueSet() *ValueSet {
	return &ValueSet{m: map[any]struct{}{}}
}

func (s *ValueSet) add(v any) {
	s.m[normalizeIdentity(v)] = struct{}{}
}

// Contains reports whether v (as returned by record.Record.GetScalar /
// GetRepeatedScalar) is a member of the set.
func (s *ValueSet) Contains(v any) bool {
	_, ok := s.m[normalizeIdentity(v)]
	return ok
}

// normalizeIdentity maps a scalar value onto the key a ValueSet actually
// stores: an EnumValue collapses to its number, since enum equality and
// set membership are always by value-number (spec.md §4.5/§4.6), never by
// name.
func normalizeIdentity(v any) any {
	if ev, ok := v.(record.EnumValue); ok {
		return ev.Number()
	}
	return v
}

// parseBool accepts the exact tokens spec.md §4.3 lists, case-insensitively
// (the spec leaves case sensitivity to "implementer's discretion"; this
// repo normalizes case so "True"/"TRUE" behave identically to "true").
func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "t", "yes", "y", "1":
		return true, nil
	case "false", "f", "no", "n", "0":
		return false, nil
	}
	return false, fmt.Errorf("not a bool literal: %q", s)
}

// parseScalar parses one literal as the kind declared by a resolved
// field, dispatching the way field_util.cc's templated ParseFromFieldValue
// does per scalar kind, but as a single type-erased entry point per
// spec.md §9's "sum type over scalar kinds" recommendation. The returned
// value has the same Go type record.Record.GetScalar would produce for
// that kind, so comparisons against a read value never need a type
// assertion on the caller's part beyond what Equal[K]/Compare[K] already
// do internally.
func parseScalar(kind record.Kind, enum record.EnumSchema, literal string) (any, error) {
	switch kind {
	case record.KindInt32:
		n, err := strconv.ParseInt(literal, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("not an int32 literal: %q", literal)
		}
		return int32(n), nil
	case record.KindInt64:
		n, err := strconv.ParseInt(literal, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("not an int64 literal: %q", literal)
		}
		return n, nil
	case record.KindUint32:
		n, err := strconv.ParseUint(literal, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("not a uint32 literal: %q", literal)
		}
		return uint32(n), nil
	case record.KindUint64:
		n, err := strconv.ParseUint(literal, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("not a uint64 literal: %q", literal)
		}
		return n, nil
	case record.KindFloat:
		f, err := strconv.ParseFloat(literal, 32)
		if err != nil {
			return nil, fmt.Errorf("not a float literal: %q", literal)
		}
		return float32(f), nil
	case record.KindDouble:
		f, err := strconv.ParseFloat(literal, 64)
		if err != nil {
			return nil, fmt.Errorf("not a double literal: %q", literal)
		}
		return f, nil
	case record.KindBool:
		b, err := parseBool(literal)
		if err != nil {
			return nil, err
		}
		return b, nil
	case record.KindString:
		return literal, nil
	case record.KindEnum:
		if enum == nil {
			return nil, fmt.Errorf("enum field has no enum schema")
		}
		if v, ok := enum.ByName(literal); ok {
			return v, nil
		}
		if n, err := strconv.ParseInt(literal, 10, 32); err == nil {
			if v, ok := enum.ByNumber(int32(n)); ok {
				return v, nil
			}
			return nil, fmt.Errorf("unknown enum number: %s", literal)
		}
		return nil, fmt.Errorf("unknown enum name: %q", literal)
	default:
		return nil, fmt.Errorf("kind %s has no literal form", kind)
	}
}

// parseValues splits literal on ',' with no escaping and no trimming (so
// "a,,b" yields {"a", "", "b"}, per spec.md §9 Open Question 1 — the
// source's behavior is preserved deliberately, not patched) and parses
// each element as kind.
func parseValues(kind record.Kind, enum record.EnumSchema, literal string) (*ValueSet, error) {
	parts := strings.Split(literal, ",")
	set := newValueSet()
	for _, part := range parts {
		v, err := parseScalar(kind, enum, part)
		if err != nil {
			return nil, err
		}
		set.add(v)
	}
	return set, nil
}
