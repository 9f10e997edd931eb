package fieldfilter

import (
	"strings"

	"github.com/oarkflow/fieldfilter/record"
)

// FieldPath is a non-empty, ordered sequence of field handles addressing a
// nested datum (spec.md §3 "Field path"). Invariant: every non-terminal
// entry is singular and message-typed; the constructor (ResolvePath) is
// the only place that invariant needs enforcing.
type FieldPath []record.Field

// Terminal returns the last field of the path.
func (p FieldPath) Terminal() record.Field {
	return p[len(p)-1]
}

// Parent returns all but the terminal field.
func (p FieldPath) Parent() FieldPath {
	return p[:len(p)-1]
}

// ResolvePath walks name, split on '.', against schema, the way
// field_util.cc's GetFieldFromProto walks a dotted path segment by
// segment. allowTerminalRepeated controls whether the final segment may
// be a repeated field (true for HAS and ANY_IN, false everywhere else per
// spec.md §4.1).
func ResolvePath(schema record.Schema, name string, allowTerminalRepeated bool) (FieldPath, error) {
	if name == "" {
		return nil, &CompileError{Kind: ErrInvalidPath, Info: "empty field path"}
	}
	segments := strings.Split(name, ".")
	path := make(FieldPath, 0, len(segments))
	cur := schema
	for i, seg := range segments {
		if cur == nil {
			return nil, &CompileError{Kind: ErrInvalidPath, Info: "path continues past a non-message field: " + name}
		}
		f, ok := cur.FieldByName(seg)
		if !ok {
			return nil, &CompileError{Kind: ErrInvalidPath, Info: "unknown field " + seg + " in path " + name}
		}
		path = append(path, f)
		isTerminal := i == len(segments)-1
		if !isTerminal {
			if f.Repeated() || f.Kind() != record.KindMessage {
				return nil, &CompileError{Kind: ErrInvalidPath, Info: "non-terminal field " + seg + " must be a singular message field in path " + name}
			}
			cur = f.MessageSchema()
			continue
		}
		if f.Repeated() && !allowTerminalRepeated {
			return nil, &CompileError{Kind: ErrInvalidPath, Info: "terminal field " + seg + " may not be repeated in path " + name}
		}
	}
	return path, nil
}
