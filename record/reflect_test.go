package record_test

import (
	"testing"

	"github.com/oarkflow/fieldfilter/record"
)

type Color int32

const (
	ColorUnknown Color = 0
	ColorRed     Color = 1
	ColorBlue    Color = 2
)

func init() {
	record.RegisterEnumType(Color(0), map[string]int32{
		"COLOR_UNKNOWN": int32(ColorUnknown),
		"COLOR_RED":     int32(ColorRed),
		"COLOR_BLUE":    int32(ColorBlue),
	})
}

type Child struct {
	Name string `filter:"name"`
}

type Sample struct {
	Count      int32    `filter:"count"`
	OptCount   *int32   `filter:"opt_count"`
	Color      Color    `filter:"color"`
	Tags       []string `filter:"tags"`
	Child      *Child   `filter:"child"`
	Children   []Child  `filter:"children"`
	unexported int
	Skipped    string `filter:"-"`
}

func TestSchemaOf_FieldClassification(t *testing.T) {
	schema := record.SchemaOf(&Sample{})

	cases := []struct {
		name     string
		wantKind record.Kind
		repeated bool
	}{
		{"count", record.KindInt32, false},
		{"opt_count", record.KindInt32, false},
		{"color", record.KindEnum, false},
		{"tags", record.KindString, true},
		{"child", record.KindMessage, false},
		{"children", record.KindMessage, true},
	}

	for _, tt := range cases {
		f, ok := schema.FieldByName(tt.name)
		if !ok {
			t.Fatalf("field %q not found", tt.name)
		}
		if f.Kind() != tt.wantKind {
			t.Fatalf("field %q: expected kind %s, got %s", tt.name, tt.wantKind, f.Kind())
		}
		if f.Repeated() != tt.repeated {
			t.Fatalf("field %q: expected repeated=%v, got %v", tt.name, tt.repeated, f.Repeated())
		}
	}

	if _, ok := schema.FieldByName("Skipped"); ok {
		t.Fatal("expected a filter:\"-\" field to be excluded from the schema")
	}
	if _, ok := schema.FieldByName("unexported"); ok {
		t.Fatal("expected an unexported field to be excluded from the schema")
	}
}

func TestSchemaOf_Caching(t *testing.T) {
	s1 := record.SchemaOf(&Sample{})
	s2 := record.SchemaOf(&Sample{})
	if s1 != s2 {
		t.Fatal("expected SchemaOf to return the same cached schema for repeated calls on the same type")
	}
}

func TestStructRecord_HasSemantics(t *testing.T) {
	schema := record.SchemaOf(&Sample{})
	countField, _ := schema.FieldByName("count")
	optField, _ := schema.FieldByName("opt_count")
	tagsField, _ := schema.FieldByName("tags")

	zero := record.NewStructRecord(&Sample{})
	if !zero.Has(countField) {
		t.Fatal("a bare non-pointer scalar field is always reported present")
	}
	if zero.Has(optField) {
		t.Fatal("a nil pointer field must report Has()=false")
	}
	if zero.Has(tagsField) {
		t.Fatal("an empty repeated field must report Has()=false")
	}

	n := int32(5)
	populated := record.NewStructRecord(&Sample{OptCount: &n, Tags: []string{"a"}})
	if !populated.Has(optField) {
		t.Fatal("a non-nil pointer field must report Has()=true")
	}
	if !populated.Has(tagsField) {
		t.Fatal("a non-empty repeated field must report Has()=true")
	}
}

func TestStructRecord_GetScalarUnsetIsZero(t *testing.T) {
	schema := record.SchemaOf(&Sample{})
	optField, _ := schema.FieldByName("opt_count")

	r := record.NewStructRecord(&Sample{})
	if v := r.GetScalar(optField); v.(int32) != 0 {
		t.Fatalf("expected zero value for an unset pointer scalar, got %v", v)
	}
}

func TestStructRecord_GetMessageUnsetIsEmptyNotNil(t *testing.T) {
	schema := record.SchemaOf(&Sample{})
	childField, _ := schema.FieldByName("child")

	r := record.NewStructRecord(&Sample{})
	child := r.GetMessage(childField)
	if child == nil {
		t.Fatal("GetMessage must never return a nil Record")
	}
	nameField, ok := child.Schema().FieldByName("name")
	if !ok {
		t.Fatal("expected the empty child record to still expose its schema's fields")
	}
	if v := child.GetScalar(nameField); v.(string) != "" {
		t.Fatalf("expected the empty child's name to read as the zero value, got %q", v)
	}
}

func TestStructRecord_EnumRoundTrip(t *testing.T) {
	schema := record.SchemaOf(&Sample{})
	colorField, _ := schema.FieldByName("color")

	r := record.NewStructRecord(&Sample{Color: ColorBlue})
	v := r.GetScalar(colorField).(record.EnumValue)
	if v.Name() != "COLOR_BLUE" || v.Number() != int32(ColorBlue) {
		t.Fatalf("expected COLOR_BLUE/%d, got %s/%d", int32(ColorBlue), v.Name(), v.Number())
	}
}

func TestStructRecord_SetFieldsSkipsUnset(t *testing.T) {
	schema := record.SchemaOf(&Sample{})
	r := record.NewStructRecord(&Sample{Tags: []string{"x"}})

	var gotTags bool
	for _, f := range r.SetFields() {
		if f.Name() == "tags" {
			gotTags = true
		}
		if f.Name() == "opt_count" {
			t.Fatal("SetFields must not include an unset pointer field")
		}
	}
	if !gotTags {
		t.Fatal("SetFields must include a non-empty repeated field")
	}
	_ = schema
}

func TestStructRecord_RepeatedMessageElements(t *testing.T) {
	r := record.NewStructRecord(&Sample{Children: []Child{{Name: "a"}, {Name: "b"}}})
	schema := record.SchemaOf(&Sample{})
	childrenField, _ := schema.FieldByName("children")

	if r.RepeatedLen(childrenField) != 2 {
		t.Fatalf("expected 2 repeated message elements, got %d", r.RepeatedLen(childrenField))
	}
}
