package record

import (
	"sync"

	reflect "github.com/goccy/go-reflect"
)

// simpleEnumValue is the concrete EnumValue used by NewEnumSchema.
type simpleEnumValue struct {
	name   string
	number int32
}

func (v simpleEnumValue) Name() string  { return v.name }
func (v simpleEnumValue) Number() int32 { return v.number }

// simpleEnumSchema is a small, static EnumSchema built from a name<->number
// mapping. It is the concrete type RegisterEnumType stores.
type simpleEnumSchema struct {
	byName   map[string]simpleEnumValue
	byNumber map[int32]simpleEnumValue
}

// NewEnumSchema builds an EnumSchema from a name->number mapping, e.g. the
// constants generated for a Go-native "enum" (a defined int32 type with a
// block of named constants).
func NewEnumSchema(values map[string]int32) EnumSchema {
	s := &simpleEnumSchema{
		byName:   make(map[string]simpleEnumValue, len(values)),
		byNumber: make(map[int32]simpleEnumValue, len(values)),
	}
	for name, num := range values {
		v := simpleEnumValue{name: name, number: num}
		s.byName[name] = v
		s.byNumber[num] = v
	}
	return s
}

func (s *simpleEnumSchema) ByName(name string) (EnumValue, bool) {
	v, ok := s.byName[name]
	return v, ok
}

func (s *simpleEnumSchema) ByNumber(n int32) (EnumValue, bool) {
	v, ok := s.byNumber[n]
	return v, ok
}

var (
	enumRegistryMu sync.RWMutex
	enumRegistry   = map[reflect.Type]EnumSchema{}
)

// RegisterEnumType associates a Go type (typically a defined int32 type
// used as a struct field's type) with the name<->number mapping of its
// enum values, so the reflect-based Schema adapter can resolve it as a
// KindEnum field rather than a plain KindInt32 field.
func RegisterEnumType(zero any, values map[string]int32) {
	t := reflect.TypeOf(zero)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	enumRegistryMu.Lock()
	enumRegistry[t] = NewEnumSchema(values)
	enumRegistryMu.Unlock()
}

func lookupEnumType(t reflect.Type) (EnumSchema, bool) {
	enumRegistryMu.RLock()
	s, ok := enumRegistry[t]
	enumRegistryMu.RUnlock()
	return s, ok
}
