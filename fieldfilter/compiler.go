package fieldfilter

import (
	"github.com/oarkflow/fieldfilter/record"
)

// compileFunc compiles one FilterExpr node against schema. The dispatch
// table below plays the role of the teacher's funcs map
// (jsonschema/validator_core.go RegisterValidator/NewProp): one entry per
// operator tag, looked up once per node rather than a long if/else chain.
type compileFunc func(schema record.Schema, e *FilterExpr) (Predicate, error)

var opCompilers = map[OpTag]compileFunc{}

// RegisterOp lets a host program extend the compiler with an operator
// this package doesn't know about, the same way the teacher's
// RegisterValidator/RegisterFormatValidator let callers plug in custom
// schema keywords and string formats.
func RegisterOp(op OpTag, fn func(schema record.Schema, e *FilterExpr) (Predicate, error)) {
	opCompilers[op] = fn
}

func init() {
	RegisterOp(OpTrue, compileTrue)
	RegisterOp(OpHas, compileHas)
	RegisterOp(OpEqual, compileEqual)
	RegisterOp(OpGT, compileGT)
	RegisterOp(OpLT, compileLT)
	RegisterOp(OpIn, compileIn)
	RegisterOp(OpAnyIn, compileAnyIn)
	RegisterOp(OpAnd, compileAnd)
	RegisterOp(OpOr, compileOr)
	RegisterOp(OpNot, compileNot)
	RegisterOp(OpPartial, compilePartial)
	RegisterOp(OpRegexp, compileRegexp)
}

// Compile validates e against schema and builds an executable Predicate,
// recursing into sub_filters as needed (spec.md §4.4). schema and any
// EnumSchema/MessageSchema it exposes must outlive the returned Predicate
// (spec.md §3 Lifecycle).
func Compile(schema record.Schema, e *FilterExpr) (Predicate, error) {
	if e == nil {
		return nil, &CompileError{Kind: ErrInvalidOp, Info: "nil filter expression"}
	}
	fn, ok := opCompilers[e.Op]
	if !ok {
		return nil, newErr(ErrInvalidOp, e, "unrecognized operator tag")
	}
	return fn(schema, e)
}

// resolve resolves e.Name against schema and attaches e's context to any
// failure, so a path error reports which sub-expression triggered it.
func resolve(schema record.Schema, e *FilterExpr, allowTerminalRepeated bool) (FieldPath, error) {
	path, err := ResolvePath(schema, e.Name, allowTerminalRepeated)
	if err != nil {
		if ce, ok := err.(*CompileError); ok {
			ce.Op = e.Op
			ce.Expr = canonicalizeExpr(e)
			return nil, ce
		}
		return nil, err
	}
	return path, nil
}

func compileTrue(schema record.Schema, e *FilterExpr) (Predicate, error) {
	if e.Name != "" || e.hasValue() || len(e.SubFilters) != 0 {
		return nil, newErr(ErrExtraFields, e, "TRUE forbids name, value, and sub_filters")
	}
	return truePredicate{}, nil
}

func compileHas(schema record.Schema, e *FilterExpr) (Predicate, error) {
	if e.Name == "" {
		return nil, newErr(ErrMissingName, e, "HAS requires name")
	}
	path, err := resolve(schema, e, true)
	if err != nil {
		return nil, err
	}
	return &hasPredicate{path: path}, nil
}

func compileEqual(schema record.Schema, e *FilterExpr) (Predicate, error) {
	if e.Name == "" {
		return nil, newErr(ErrMissingName, e, "EQUAL requires name")
	}
	if !e.hasValue() {
		return nil, newErr(ErrMissingValue, e, "EQUAL requires value")
	}
	path, err := resolve(schema, e, false)
	if err != nil {
		return nil, err
	}
	return buildEqual(schema, e, path)
}

// buildEqual instantiates the monomorphised Equal<T> node for the
// resolved field's kind: the switch is the one-time "kind dispatch" the
// spec's design notes (§9) describe, never repeated at match time.
func buildEqual(schema record.Schema, e *FilterExpr, path FieldPath) (Predicate, error) {
	terminal := path.Terminal()
	kind := terminal.Kind()
	if kind == record.KindMessage {
		return nil, newErr(ErrUnsupportedType, e, "EQUAL is not supported on a message field")
	}
	v, err := parseScalar(kind, terminal.EnumSchema(), e.valueOrEmpty())
	if err != nil {
		return nil, newErr(ErrValueParse, e, err.Error())
	}
	switch kind {
	case record.KindInt32:
		return &equalPredicate[int32]{path: path, value: v.(int32)}, nil
	case record.KindInt64:
		return &equalPredicate[int64]{path: path, value: v.(int64)}, nil
	case record.KindUint32:
		return &equalPredicate[uint32]{path: path, value: v.(uint32)}, nil
	case record.KindUint64:
		return &equalPredicate[uint64]{path: path, value: v.(uint64)}, nil
	case record.KindFloat:
		return &equalPredicate[float32]{path: path, value: v.(float32)}, nil
	case record.KindDouble:
		return &equalPredicate[float64]{path: path, value: v.(float64)}, nil
	case record.KindBool:
		return &equalPredicate[bool]{path: path, value: v.(bool)}, nil
	case record.KindString:
		return &equalPredicate[string]{path: path, value: v.(string)}, nil
	case record.KindEnum:
		return &equalPredicate[record.EnumValue]{path: path, value: v.(record.EnumValue)}, nil
	default:
		return nil, newErr(ErrUnsupportedType, e, "unsupported field kind for EQUAL")
	}
}

func compileGT(schema record.Schema, e *FilterExpr) (Predicate, error) {
	cmp, err := compileComparator(schema, e)
	if err != nil {
		return nil, err
	}
	return &gtPredicate{cmp: cmp}, nil
}

func compileLT(schema record.Schema, e *FilterExpr) (Predicate, error) {
	cmp, err := compileComparator(schema, e)
	if err != nil {
		return nil, err
	}
	return &ltPredicate{cmp: cmp}, nil
}

func compileComparator(schema record.Schema, e *FilterExpr) (*intCompare, error) {
	if e.Name == "" {
		return nil, newErr(ErrMissingName, e, string(e.Op)+" requires name")
	}
	if !e.hasValue() {
		return nil, newErr(ErrMissingValue, e, string(e.Op)+" requires value")
	}
	path, err := resolve(schema, e, false)
	if err != nil {
		return nil, err
	}
	if !path.Terminal().Kind().IsInteger() {
		return nil, newErr(ErrUnsupportedType, e, string(e.Op)+" requires an integer field")
	}
	cmp, err := compileIntCompare(schema, path, e.valueOrEmpty())
	if err != nil {
		return nil, newErr(ErrValueParse, e, err.Error())
	}
	return cmp, nil
}

func compileIn(schema record.Schema, e *FilterExpr) (Predicate, error) {
	if e.Name == "" {
		return nil, newErr(ErrMissingName, e, "IN requires name")
	}
	if !e.hasValue() {
		return nil, newErr(ErrMissingValue, e, "IN requires value")
	}
	path, err := resolve(schema, e, false)
	if err != nil {
		return nil, err
	}
	terminal := path.Terminal()
	if terminal.Kind() == record.KindMessage {
		return nil, newErr(ErrUnsupportedType, e, "IN is not supported on a message field")
	}
	set, err := parseValues(terminal.Kind(), terminal.EnumSchema(), e.valueOrEmpty())
	if err != nil {
		return nil, newErr(ErrValueParse, e, err.Error())
	}
	return &inPredicate{path: path, set: set}, nil
}

func compileAnyIn(schema record.Schema, e *FilterExpr) (Predicate, error) {
	if e.Name == "" {
		return nil, newErr(ErrMissingName, e, "ANY_IN requires name")
	}
	if !e.hasValue() {
		return nil, newErr(ErrMissingValue, e, "ANY_IN requires value")
	}
	path, err := resolve(schema, e, true)
	if err != nil {
		return nil, err
	}
	terminal := path.Terminal()
	if !terminal.Repeated() {
		return nil, newErr(ErrUnsupportedType, e, "ANY_IN requires a repeated field")
	}
	if terminal.Kind() == record.KindMessage {
		return nil, newErr(ErrUnsupportedType, e, "ANY_IN is not supported on a repeated message field")
	}
	set, err := parseValues(terminal.Kind(), terminal.EnumSchema(), e.valueOrEmpty())
	if err != nil {
		return nil, newErr(ErrValueParse, e, err.Error())
	}
	return &anyInPredicate{path: path, set: set}, nil
}

func compileAnd(schema record.Schema, e *FilterExpr) (Predicate, error) {
	children, err := compileChildren(schema, e)
	if err != nil {
		return nil, err
	}
	return andPredicate(children), nil
}

func compileOr(schema record.Schema, e *FilterExpr) (Predicate, error) {
	children, err := compileChildren(schema, e)
	if err != nil {
		return nil, err
	}
	return orPredicate(children), nil
}

// compileNot compiles its sub_filters as if they were an AND, then wraps
// the result with negation: spec.md §4.4 and §9 Open Question 2 are
// explicit that NOT{c1,...,cn} means ¬(c1 ∧ ... ∧ cn), not the
// De Morgan-expanded ¬c1 ∧ ... ∧ ¬cn — not_filter.cc takes one repeated
// field of children and ANDs them internally before negating.
func compileNot(schema record.Schema, e *FilterExpr) (Predicate, error) {
	children, err := compileChildren(schema, e)
	if err != nil {
		return nil, err
	}
	return &notPredicate{child: andPredicate(children)}, nil
}

func compileChildren(schema record.Schema, e *FilterExpr) ([]Predicate, error) {
	if len(e.SubFilters) == 0 {
		return nil, newErr(ErrMissingValue, e, string(e.Op)+" requires a non-empty sub_filters")
	}
	children := make([]Predicate, 0, len(e.SubFilters))
	for _, sub := range e.SubFilters {
		p, err := Compile(schema, sub)
		if err != nil {
			return nil, err
		}
		children = append(children, p)
	}
	return children, nil
}

func compilePartial(schema record.Schema, e *FilterExpr) (Predicate, error) {
	if e.Name == "" {
		return nil, newErr(ErrMissingName, e, "PARTIAL requires name")
	}
	if len(e.SubFilters) == 0 {
		return nil, newErr(ErrMissingValue, e, "PARTIAL requires a non-empty sub_filters")
	}
	path, err := resolve(schema, e, false)
	if err != nil {
		return nil, err
	}
	terminal := path.Terminal()
	if terminal.Kind() != record.KindMessage {
		return nil, newErr(ErrUnsupportedType, e, "PARTIAL requires a singular message field")
	}
	childSchema := terminal.MessageSchema()
	children := make([]Predicate, 0, len(e.SubFilters))
	for _, sub := range e.SubFilters {
		p, err := Compile(childSchema, sub)
		if err != nil {
			return nil, err
		}
		children = append(children, p)
	}
	return &partialPredicate{path: path, child: andPredicate(children)}, nil
}

// compileRegexp is reserved: REGEXP is not implemented (spec.md §1, §4.4).
func compileRegexp(schema record.Schema, e *FilterExpr) (Predicate, error) {
	return nil, newErr(ErrUnsupportedOp, e, "REGEXP is not supported")
}

// CompileFromRecord implements the compile_from_record entry point of
// spec.md §4.4: convert r into an equality filter (C6), then compile that
// filter against r's own schema.
func CompileFromRecord(r record.Record) (Predicate, error) {
	expr, err := ConvertRecordToFilter(r)
	if err != nil {
		return nil, err
	}
	return Compile(r.Schema(), expr)
}
