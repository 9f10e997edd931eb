package fieldfilter_test

import (
	"github.com/oarkflow/fieldfilter/record"
)

// The record schema spec.md §8 uses for its concrete end-to-end scenarios:
//
//	Root{ a: Inner{ b: Leaf{ i32 int32_value; i64 int64_value;
//	  str string_value; enum enum_value∈{E1=1,E2=2,E3=3};
//	  repeated i32 int32_values; } } ; repeated Inner repeated_a; }
type TestEnum int32

const (
	TestEnumUnknown TestEnum = 0
	TestEnum1       TestEnum = 1
	TestEnum2       TestEnum = 2
	TestEnum3       TestEnum = 3
)

func init() {
	record.RegisterEnumType(TestEnum(0), map[string]int32{
		"TEST_ENUM_UNKNOWN": int32(TestEnumUnknown),
		"TEST_ENUM_1":       int32(TestEnum1),
		"TEST_ENUM_2":       int32(TestEnum2),
		"TEST_ENUM_3":       int32(TestEnum3),
	})
}

type Leaf struct {
	Int32Value  int32    `filter:"int32_value"`
	Int64Value  int64    `filter:"int64_value"`
	StringValue string   `filter:"string_value"`
	EnumValue   TestEnum `filter:"enum_value"`
	Int32Values []int32  `filter:"int32_values"`

	// OptInt32Value is declared as a pointer so the reflect adapter can
	// distinguish "explicitly set to 0" from "never set" for HAS — a bare
	// (non-pointer) Go scalar field has no such distinct state, which
	// record/reflect.go documents as an adapter limitation, not an engine
	// one; this field exists to exercise the engine's side of that
	// contract (spec.md §8 scenario 6's second HAS case).
	OptInt32Value *int32 `filter:"opt_int32_value"`
}

type Inner struct {
	B *Leaf `filter:"b"`
}

type Root struct {
	A         *Inner  `filter:"a"`
	RepeatedA []Inner `filter:"repeated_a"`
}

func rootSchema() record.Schema {
	return record.SchemaOf(&Root{})
}

func testRecord(r *Root) record.Record {
	return record.NewStructRecord(r)
}
