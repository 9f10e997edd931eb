package fieldfilter

import "github.com/oarkflow/fieldfilter/record"

// Predicate is the compiled, immutable form of a filter expression
// (spec.md §3). It mirrors the teacher's Validator interface
// (jsonschema/common.go) in shape — one method, no other state exposed —
// but evaluates to a bool instead of accumulating errors into a context,
// since evaluation here never fails (spec.md §7).
type Predicate interface {
	IsMatch(r record.Record) bool
}

// IsMatch is the top-level entry point of the predicate evaluator (C5).
func IsMatch(p Predicate, r record.Record) bool {
	return p.IsMatch(r)
}

// truePredicate implements TRUE: matches every record.
type truePredicate struct{}

func (truePredicate) IsMatch(record.Record) bool { return true }

// hasPredicate implements HAS: presence for a singular field, non-empty
// for a repeated one. record.Record.Has already encodes that distinction
// (spec.md §4.2's has_field contract), so the predicate is a thin wrapper.
type hasPredicate struct {
	path FieldPath
}

func (p *hasPredicate) IsMatch(r record.Record) bool {
	return hasField(r, p.path)
}

// equalPredicate[T] is Equal<T> from spec.md §3: a monomorphised leaf that
// knows its field's resolved kind at construction time and performs no
// further kind dispatch at match time. T ranges over the nine comparable
// Go representations record.Record.GetScalar can produce: the four
// integer widths, float32/float64, bool, string, and record.EnumValue
// (whose equality spec.md §4.5 defines as "by value-number": both sides go
// through values.go normalizeIdentity, which reduces an EnumValue to its
// number and leaves every other kind as it is).
type equalPredicate[T comparable] struct {
	path  FieldPath
	value T
}

func (p *equalPredicate[T]) IsMatch(r record.Record) bool {
	v, ok := valueOf(r, p.path).(T)
	if !ok {
		return false
	}
	return normalizeIdentity(v) == normalizeIdentity(p.value)
}

// gtPredicate and ltPredicate are Compare<T> from spec.md §3, specialised
// to the GT/LT operator tags. Both reuse intCompare (C7): an unset
// terminal field yields compareResult cmpInvalid, which both operators
// treat as false (spec.md §4.7).
type gtPredicate struct{ cmp *intCompare }

func (p *gtPredicate) IsMatch(r record.Record) bool {
	return p.cmp.compare(r) == cmpGreater
}

type ltPredicate struct{ cmp *intCompare }

func (p *ltPredicate) IsMatch(r record.Record) bool {
	return p.cmp.compare(r) == cmpLess
}

// inPredicate is In<T>: membership in a pre-parsed ValueSet. Unlike
// Equal/Compare, no type parameter buys anything here since Contains
// already normalizes identity once per call; that's also why In/AnyIn use
// a shared ValueSet type instead of a generic one, despite spec.md §3
// writing them as In<T>/AnyIn<T>.
type inPredicate struct {
	path FieldPath
	set  *ValueSet
}

func (p *inPredicate) IsMatch(r record.Record) bool {
	return p.set.Contains(valueOf(r, p.path))
}

// anyInPredicate is AnyIn<T>: true iff any element of a repeated field is
// a member of the set. Scans in stored order, short-circuits on the first
// hit, never exposes which index matched (spec.md §5).
type anyInPredicate struct {
	path FieldPath
	set  *ValueSet
}

func (p *anyInPredicate) IsMatch(r record.Record) bool {
	n := repeatedLenOf(r, p.path)
	for i := 0; i < n; i++ {
		if p.set.Contains(repeatedScalarOf(r, p.path, i)) {
			return true
		}
	}
	return false
}

// partialPredicate is Partial(path, child): child evaluates against the
// sub-record at path, including an unset one (GetMessage's contract
// guarantees an "empty" record rather than nil, so child sees zero
// values throughout, per spec.md §9 Open Question 3).
type partialPredicate struct {
	path  FieldPath
	child Predicate
}

func (p *partialPredicate) IsMatch(r record.Record) bool {
	return p.child.IsMatch(messageOf(r, p.path))
}

// andPredicate and orPredicate own their children exclusively and
// evaluate them left-to-right with short-circuit, matching the teacher's
// AllOf/AnyOf (jsonschema/validator_logic.go) generalized from
// "accumulate errors" to "stop at the first boolean that decides it".
type andPredicate []Predicate

func (a andPredicate) IsMatch(r record.Record) bool {
	for _, child := range a {
		if !child.IsMatch(r) {
			return false
		}
	}
	return true
}

type orPredicate []Predicate

func (o orPredicate) IsMatch(r record.Record) bool {
	for _, child := range o {
		if child.IsMatch(r) {
			return true
		}
	}
	return false
}

// notPredicate negates a single child, which the compiler always builds
// as an andPredicate over NOT's sub_filters (spec.md §4.4, §9 Open
// Question 2): NOT{c1, c2, ...} means ¬(c1 ∧ c2 ∧ ...), never
// ¬c1 ∧ ¬c2 ∧ ... — not_filter.cc ANDs its children before negating, with
// no De Morgan expansion anywhere in the source.
type notPredicate struct {
	child Predicate
}

func (n *notPredicate) IsMatch(r record.Record) bool {
	return !n.child.IsMatch(r)
}
