package fieldfilter

import (
	"bytes"
	"fmt"
	"sort"

	json "github.com/goccy/go-json"
)

// ErrorKind classifies a compile-time failure (spec.md §7).
type ErrorKind string

const (
	ErrInvalidOp       ErrorKind = "InvalidOp"
	ErrInvalidPath     ErrorKind = "InvalidPath"
	ErrMissingName     ErrorKind = "MissingName"
	ErrMissingValue    ErrorKind = "MissingValue"
	ErrExtraFields     ErrorKind = "ExtraFields"
	ErrUnsupportedType ErrorKind = "UnsupportedType"
	ErrValueParse      ErrorKind = "ValueParse"
	ErrUnsupportedOp   ErrorKind = "UnsupportedOp"
	ErrInvalidInput    ErrorKind = "InvalidInput"
)

// CompileError is returned by Compile, CompileFromRecord and ResolvePath.
// It carries enough context (spec.md §7) to identify the offending
// sub-expression: the teacher reports failures as a []Error{Path, Info}
// slice (jsonschema/common.go); this mirrors that shape with a Kind added
// so callers can branch on failure class rather than string-matching Info.
type CompileError struct {
	Kind ErrorKind
	Op   OpTag
	Info string
	// Expr is a canonicalized JSON rendering of the offending
	// sub-expression, produced the same way the teacher computes a stable
	// cache key for a schema fragment (jsonschema/v2/cache.go
	// canonicalize/canonicalizeToBuffer): object keys sorted, so two
	// structurally identical expressions always render identically.
	Expr string
}

func (e *CompileError) Error() string {
	if e.Expr != "" {
		return fmt.Sprintf("fieldfilter: %s (op=%s): %s [%s]", e.Kind, e.Op, e.Info, e.Expr)
	}
	return fmt.Sprintf("fieldfilter: %s (op=%s): %s", e.Kind, e.Op, e.Info)
}

func newErr(kind ErrorKind, expr *FilterExpr, info string) *CompileError {
	op := OpTag("")
	var exprStr string
	if expr != nil {
		op = expr.Op
		exprStr = canonicalizeExpr(expr)
	}
	return &CompileError{Kind: kind, Op: op, Info: info, Expr: exprStr}
}

func canonicalizeExpr(e *FilterExpr) string {
	buf := &bytes.Buffer{}
	canonicalizeValue(buf, map[string]any{
		"op":          string(e.Op),
		"name":        e.Name,
		"value":       e.Value,
		"sub_filters": len(e.SubFilters),
	})
	return buf.String()
}

// canonicalizeValue is the teacher's canonicalizeToBuffer
// (jsonschema/v2/cache.go), trimmed to the map/scalar cases this package
// ever feeds it: keys are sorted so the same logical object always
// produces the same bytes.
func canonicalizeValue(buf *bytes.Buffer, v any) {
	switch t := v.(type) {
	case map[string]any:
		buf.WriteByte('{')
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, _ := json.Marshal(k)
			buf.Write(kb)
			buf.WriteByte(':')
			canonicalizeValue(buf, t[k])
		}
		buf.WriteByte('}')
	default:
		b, err := json.Marshal(v)
		if err != nil {
			buf.WriteString(`"?"`)
			return
		}
		buf.Write(b)
	}
}
