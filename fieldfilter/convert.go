package fieldfilter

import (
	"strconv"

	"github.com/oarkflow/fieldfilter/record"
)

// ConvertRecordToFilter implements C6 (spec.md §4.6): given a populated
// record, build an AND of one EQUAL per scalar/bool/enum/string field
// that is explicitly set, and a PARTIAL(field, recurse(child)) per set
// message field. Iteration follows record.Record.SetFields(), which is
// declared to return fields in schema-declaration order — the same
// "present fields, in declaration order, skip anything unset" walk
// message_filter_util.cc does over a protobuf Descriptor.
func ConvertRecordToFilter(r record.Record) (*FilterExpr, error) {
	subs, err := convertFields(r)
	if err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		// Nothing set: the only filter that compiles to "match
		// everything, no constraints" is TRUE. An empty AND would fail
		// Compile's non-empty-children invariant (spec.md §3 invariant 7).
		return &FilterExpr{Op: OpTrue}, nil
	}
	return &FilterExpr{Op: OpAnd, SubFilters: subs}, nil
}

func convertFields(r record.Record) ([]*FilterExpr, error) {
	var subs []*FilterExpr
	for _, f := range r.SetFields() {
		if f.Repeated() {
			return nil, &CompileError{Kind: ErrInvalidInput, Info: "repeated field " + f.Name() + " cannot be converted to a filter"}
		}
		switch f.Kind() {
		case record.KindFloat, record.KindDouble:
			return nil, &CompileError{Kind: ErrUnsupportedType, Info: "float/double field " + f.Name() + " cannot be converted to a filter"}
		case record.KindMessage:
			child := r.GetMessage(f)
			childSubs, err := convertFields(child)
			if err != nil {
				return nil, err
			}
			if len(childSubs) == 0 {
				// Nothing set on the sub-record: contributes no
				// constraint, so it is simply omitted (a PARTIAL with no
				// sub_filters would not compile).
				continue
			}
			subs = append(subs, &FilterExpr{Op: OpPartial, Name: f.Name(), SubFilters: childSubs})
		default:
			text, err := scalarText(f, r.GetScalar(f))
			if err != nil {
				return nil, err
			}
			subs = append(subs, &FilterExpr{Op: OpEqual, Name: f.Name(), Value: Val(text)})
		}
	}
	return subs, nil
}

// scalarText renders a scalar value the way EQUAL literals are written:
// enums by name, bools as "true"/"false", integers in base 10, strings
// verbatim (spec.md §4.6).
func scalarText(f record.Field, v any) (string, error) {
	switch vv := v.(type) {
	case int32:
		return strconv.FormatInt(int64(vv), 10), nil
	case int64:
		return strconv.FormatInt(vv, 10), nil
	case uint32:
		return strconv.FormatUint(uint64(vv), 10), nil
	case uint64:
		return strconv.FormatUint(vv, 10), nil
	case bool:
		if vv {
			return "true", nil
		}
		return "false", nil
	case string:
		return vv, nil
	case record.EnumValue:
		return vv.Name(), nil
	default:
		return "", &CompileError{Kind: ErrUnsupportedType, Info: "field " + f.Name() + " has no textual EQUAL form"}
	}
}
