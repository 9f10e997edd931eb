package record

import (
	"strings"
	"sync"

	reflect "github.com/goccy/go-reflect"
)

// structField is the cached, already-classified description of one Go
// struct field, playing the role of jsonmap's fieldInfo{index, name} but
// carrying the extra kind/cardinality bookkeeping the filter engine needs.
type structField struct {
	index    int
	name     string
	kind     Kind
	repeated bool
	msgType  reflect.Type // struct type for KindMessage, pointers stripped
	enum     EnumSchema
}

func (f *structField) Name() string     { return f.name }
func (f *structField) Kind() Kind       { return f.kind }
func (f *structField) Repeated() bool   { return f.repeated }
func (f *structField) EnumSchema() EnumSchema {
	return f.enum
}
func (f *structField) MessageSchema() Schema {
	if f.kind != KindMessage {
		return nil
	}
	return schemaForType(f.msgType)
}

// StructSchema is a Schema backed by a Go struct type, discovered and
// cached via reflection the way jsonmap/unmarshaller.go caches fieldInfo
// per reflect.Type in a sync.Map, keyed here by the dereferenced struct
// type rather than by the (possibly pointer) value type callers pass in.
type StructSchema struct {
	typ    reflect.Type
	fields []*structField
	byName map[string]*structField
}

var schemaCache sync.Map // reflect.Type -> *StructSchema

// SchemaOf returns the Schema for the (possibly pointer) type of v,
// building and caching it on first use.
func SchemaOf(v any) Schema {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return schemaForType(t)
}

func schemaForType(t reflect.Type) *StructSchema {
	if cached, ok := schemaCache.Load(t); ok {
		return cached.(*StructSchema)
	}
	s := &StructSchema{typ: t, byName: map[string]*structField{}}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" { // unexported
			continue
		}
		name := sf.Name
		skip := false
		if tag := sf.Tag.Get("filter"); tag != "" {
			parts := strings.Split(tag, ",")
			if parts[0] == "-" {
				skip = true
			} else if parts[0] != "" {
				name = parts[0]
			}
		}
		if skip {
			continue
		}
		fld := classifyField(i, name, sf.Type)
		if fld == nil {
			continue
		}
		s.fields = append(s.fields, fld)
		s.byName[name] = fld
	}
	// Store-or-load to collapse a benign race building the same schema
	// twice concurrently; the loser's copy is discarded.
	actual, _ := schemaCache.LoadOrStore(t, s)
	return actual.(*StructSchema)
}

func classifyField(index int, name string, t reflect.Type) *structField {
	repeated := false
	elem := t
	if t.Kind() == reflect.Slice && t.Elem().Kind() != reflect.Uint8 {
		repeated = true
		elem = t.Elem()
	}
	underlying := elem
	for underlying.Kind() == reflect.Ptr {
		underlying = underlying.Elem()
	}

	if enumSchema, ok := lookupEnumType(underlying); ok {
		return &structField{index: index, name: name, kind: KindEnum, repeated: repeated, enum: enumSchema}
	}

	switch underlying.Kind() {
	case reflect.Int32:
		return &structField{index: index, name: name, kind: KindInt32, repeated: repeated}
	case reflect.Int64, reflect.Int:
		return &structField{index: index, name: name, kind: KindInt64, repeated: repeated}
	case reflect.Uint32:
		return &structField{index: index, name: name, kind: KindUint32, repeated: repeated}
	case reflect.Uint64, reflect.Uint:
		return &structField{index: index, name: name, kind: KindUint64, repeated: repeated}
	case reflect.Float32:
		return &structField{index: index, name: name, kind: KindFloat, repeated: repeated}
	case reflect.Float64:
		return &structField{index: index, name: name, kind: KindDouble, repeated: repeated}
	case reflect.Bool:
		return &structField{index: index, name: name, kind: KindBool, repeated: repeated}
	case reflect.String:
		return &structField{index: index, name: name, kind: KindString, repeated: repeated}
	case reflect.Struct:
		return &structField{index: index, name: name, kind: KindMessage, repeated: repeated, msgType: underlying}
	default:
		// Unsupported Go kind (map, chan, func, interface, ...): silently
		// excluded from the schema rather than erroring, since an adapter
		// is allowed to expose a subset of a struct's fields.
		return nil
	}
}

func (s *StructSchema) FieldByName(name string) (Field, bool) {
	f, ok := s.byName[name]
	return f, ok
}

// StructRecord is a Record backed by a reflect.Value of a Go struct.
type StructRecord struct {
	schema *StructSchema
	val    reflect.Value // struct value, never a pointer
}

// NewStructRecord builds a Record over v, which must be a struct or a
// pointer to one. A nil pointer is treated as an "empty" record of the
// pointee's schema, matching the unset-sub-record behavior spec.md §4.5
// requires of Partial.
func NewStructRecord(v any) *StructRecord {
	rv := reflect.ValueOf(v)
	t := rv.Type()
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
		if rv.IsValid() && !rv.IsNil() {
			rv = rv.Elem()
		} else {
			rv = reflect.Value{}
		}
	}
	if !rv.IsValid() {
		rv = reflect.New(t).Elem()
	}
	return &StructRecord{schema: schemaForType(t), val: rv}
}

func (r *StructRecord) Schema() Schema { return r.schema }

func (r *StructRecord) fieldValue(f Field) reflect.Value {
	sf := f.(*structField)
	return r.val.Field(sf.index)
}

func (r *StructRecord) Has(f Field) bool {
	sf := f.(*structField)
	fv := r.fieldValue(f)
	if sf.repeated {
		return fv.Len() > 0
	}
	if fv.Kind() == reflect.Ptr {
		return !fv.IsNil()
	}
	// A bare (non-pointer) scalar or message field carries no distinct
	// "unset" state in Go, so it is always considered present; EQUAL/IN
	// still read it as its zero value when the caller never set it,
	// matching spec.md §4.2's unset-reads-as-zero contract for those ops.
	return true
}

func deref(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func (r *StructRecord) GetScalar(f Field) any {
	sf := f.(*structField)
	v := deref(r.fieldValue(f))
	if !v.IsValid() {
		return zeroScalar(sf.kind, sf.enum)
	}
	return scalarOf(sf.kind, sf.enum, v)
}

func (r *StructRecord) GetMessage(f Field) Record {
	sf := f.(*structField)
	v := deref(r.fieldValue(f))
	if !v.IsValid() {
		return &StructRecord{schema: schemaForType(sf.msgType), val: reflect.New(sf.msgType).Elem()}
	}
	return &StructRecord{schema: schemaForType(sf.msgType), val: v}
}

func (r *StructRecord) RepeatedLen(f Field) int {
	return r.fieldValue(f).Len()
}

func (r *StructRecord) GetRepeatedScalar(f Field, i int) any {
	sf := f.(*structField)
	v := deref(r.fieldValue(f).Index(i))
	if !v.IsValid() {
		return zeroScalar(sf.kind, sf.enum)
	}
	return scalarOf(sf.kind, sf.enum, v)
}

func (r *StructRecord) SetFields() []Field {
	out := make([]Field, 0, len(r.schema.fields))
	for _, f := range r.schema.fields {
		if r.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

func zeroScalar(k Kind, enum EnumSchema) any {
	switch k {
	case KindInt32:
		return int32(0)
	case KindInt64:
		return int64(0)
	case KindUint32:
		return uint32(0)
	case KindUint64:
		return uint64(0)
	case KindFloat:
		return float32(0)
	case KindDouble:
		return float64(0)
	case KindBool:
		return false
	case KindString:
		return ""
	case KindEnum:
		if v, ok := enum.ByNumber(0); ok {
			return v
		}
		return simpleEnumValue{number: 0}
	default:
		return nil
	}
}

func scalarOf(k Kind, enum EnumSchema, v reflect.Value) any {
	switch k {
	case KindInt32:
		return int32(v.Int())
	case KindInt64:
		return v.Int()
	case KindUint32:
		return uint32(v.Uint())
	case KindUint64:
		return v.Uint()
	case KindFloat:
		return float32(v.Float())
	case KindDouble:
		return v.Float()
	case KindBool:
		return v.Bool()
	case KindString:
		return v.String()
	case KindEnum:
		n := int32(v.Int())
		if ev, ok := enum.ByNumber(n); ok {
			return ev
		}
		return simpleEnumValue{number: n}
	default:
		return nil
	}
}
