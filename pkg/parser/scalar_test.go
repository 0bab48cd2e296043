package parser_test

import (
	"testing"

	"github.com/goliatone/go-formbind/pkg/field"
	"github.com/goliatone/go-formbind/pkg/parser"
	"github.com/goliatone/go-formbind/pkg/schema"
)

func buildRoot(t *testing.T, opts parser.Options) (*parser.Tree, *field.Field) {
	t.Helper()
	tree := parser.NewTree(opts)
	root := tree.Parse()
	if root == nil {
		t.Fatal("expected a root field")
	}
	return tree, root
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestScalar_StringAttrs(t *testing.T) {
	_, f := buildRoot(t, parser.Options{
		Name:     "title",
		Required: true,
		Schema: &schema.Schema{
			Type:      "string",
			MinLength: intPtr(2),
			MaxLength: intPtr(64),
			Pattern:   "^[a-z]+$",
		},
	})

	if f.Kind != field.KindString {
		t.Fatalf("kind mismatch: %s", f.Kind)
	}
	want := map[string]string{
		"minlength":     "2",
		"maxlength":     "64",
		"pattern":       "^[a-z]+$",
		"required":      "required",
		"aria-required": "true",
	}
	for name, value := range want {
		if f.Attrs[name] != value {
			t.Fatalf("attr %s = %q, want %q (all: %#v)", name, f.Attrs[name], value, f.Attrs)
		}
	}
}

func TestScalar_UndefinedValueIsNil(t *testing.T) {
	_, f := buildRoot(t, parser.Options{
		Name:   "title",
		Schema: &schema.Schema{Type: "string"},
	})
	if got := f.Value(); got != nil {
		t.Fatalf("unset field value = %v, want nil", got)
	}
	f.SetValue("")
	if got := f.Value(); got != nil {
		t.Fatalf("empty string value = %v, want nil", got)
	}
}

func TestScalar_SetValueCommitsModel(t *testing.T) {
	var committed any
	_, f := buildRoot(t, parser.Options{
		Name:     "title",
		Schema:   &schema.Schema{Type: "string"},
		OnChange: func(value any, _ *field.Field) { committed = value },
	})

	f.SetValue("hello")
	if committed != "hello" {
		t.Fatalf("commit did not notify: %v", committed)
	}
	if got := f.Value(); got != "hello" {
		t.Fatalf("value mismatch: %v", got)
	}
}

func TestScalar_ResetAndClear(t *testing.T) {
	tree, f := buildRoot(t, parser.Options{
		Name:   "count",
		Model:  "5",
		Schema: &schema.Schema{Type: "integer"},
	})

	if got := tree.Root().Model(); got != int64(5) {
		t.Fatalf("initial model = %v, want int64(5)", got)
	}

	f.SetValue("9")
	if got := tree.Root().Model(); got != int64(9) {
		t.Fatalf("model after set = %v", got)
	}

	f.Reset()
	if got := tree.Root().Model(); got != int64(5) {
		t.Fatalf("model after reset = %v", got)
	}

	f.Clear()
	if got := f.Value(); got != nil {
		t.Fatalf("value after clear = %v", got)
	}
}

func TestScalar_IntegerDisplayRoundTrip(t *testing.T) {
	_, f := buildRoot(t, parser.Options{
		Name:   "age",
		Schema: &schema.Schema{Type: "integer"},
	})
	f.SetValue("3")
	if got := f.Value(); got != "3" {
		t.Fatalf("display value = %v, want \"3\"", got)
	}
	f.SetValue(7)
	if got := f.Value(); got != "7" {
		t.Fatalf("display value = %v, want \"7\"", got)
	}
}

func TestScalar_UnparsableInputClears(t *testing.T) {
	var committed any
	_, f := buildRoot(t, parser.Options{
		Name:     "age",
		Schema:   &schema.Schema{Type: "integer"},
		OnChange: func(value any, _ *field.Field) { committed = value },
	})
	f.SetValue("not a number")
	if committed != nil {
		t.Fatalf("unparsable input committed %v, want nil", committed)
	}
	if got := f.Value(); got != nil {
		t.Fatalf("value = %v, want nil", got)
	}
}

func TestNumber_BoundsAttrs(t *testing.T) {
	cases := []struct {
		name    string
		schema  *schema.Schema
		wantMin string
		wantMax string
	}{
		{
			name: "inclusive",
			schema: &schema.Schema{
				Type:    "number",
				Minimum: floatPtr(0),
				Maximum: floatPtr(10),
			},
			wantMin: "0",
			wantMax: "10",
		},
		{
			name: "exclusive boolean shifts by epsilon",
			schema: &schema.Schema{
				Type:             "number",
				Minimum:          floatPtr(2),
				ExclusiveMinimum: &schema.Exclusive{Bool: true},
				Maximum:          floatPtr(8),
				ExclusiveMaximum: &schema.Exclusive{Bool: true},
			},
			wantMin: "2.1",
			wantMax: "7.9",
		},
		{
			name: "exclusive numeric",
			schema: &schema.Schema{
				Type:             "number",
				ExclusiveMinimum: &schema.Exclusive{Value: floatPtr(1)},
			},
			wantMin: "1.1",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, f := buildRoot(t, parser.Options{Name: "n", Schema: tc.schema})
			if f.Attrs[field.AttrMin] != tc.wantMin {
				t.Fatalf("min = %q, want %q", f.Attrs[field.AttrMin], tc.wantMin)
			}
			if f.Attrs[field.AttrMax] != tc.wantMax {
				t.Fatalf("max = %q, want %q", f.Attrs[field.AttrMax], tc.wantMax)
			}
		})
	}
}

func TestInteger_ExclusiveBoundsShiftWholeUnits(t *testing.T) {
	_, f := buildRoot(t, parser.Options{
		Name: "qty",
		Schema: &schema.Schema{
			Type:             "integer",
			Minimum:          floatPtr(2),
			ExclusiveMinimum: &schema.Exclusive{Bool: true},
			Maximum:          floatPtr(10),
			ExclusiveMaximum: &schema.Exclusive{Bool: true},
		},
	})
	if f.Attrs[field.AttrMin] != "3" {
		t.Fatalf("min = %q, want \"3\"", f.Attrs[field.AttrMin])
	}
	if f.Attrs[field.AttrMax] != "9" {
		t.Fatalf("max = %q, want \"9\"", f.Attrs[field.AttrMax])
	}
}

func TestNumber_MultipleOfMapsToStep(t *testing.T) {
	_, f := buildRoot(t, parser.Options{
		Name:   "price",
		Schema: &schema.Schema{Type: "number", MultipleOf: floatPtr(0.25)},
	})
	if f.Attrs[field.AttrStep] != "0.25" {
		t.Fatalf("step = %q, want \"0.25\"", f.Attrs[field.AttrStep])
	}
}

func TestScalar_SetRequiredRewritesAttrs(t *testing.T) {
	tree, f := buildRoot(t, parser.Options{
		Name:   "title",
		Schema: &schema.Schema{Type: "string"},
	})
	if _, ok := f.Attrs[field.AttrRequired]; ok {
		t.Fatal("optional field should not carry required attr")
	}

	tree.Root().SetRequired(true)
	if f.Attrs[field.AttrRequired] != "required" || f.Attrs[field.AttrAriaRequired] != "true" {
		t.Fatalf("required attrs missing after flip: %#v", f.Attrs)
	}
	if !f.Required {
		t.Fatal("field flag not updated")
	}

	tree.Root().SetRequired(false)
	if _, ok := f.Attrs[field.AttrRequired]; ok {
		t.Fatalf("required attr survived unflip: %#v", f.Attrs)
	}
}

func TestScalar_BooleanCoercion(t *testing.T) {
	var committed any
	_, f := buildRoot(t, parser.Options{
		Name:     "active",
		Schema:   &schema.Schema{Type: "boolean"},
		OnChange: func(value any, _ *field.Field) { committed = value },
	})
	f.SetValue("on")
	if committed != true {
		t.Fatalf("committed = %v, want true", committed)
	}
	f.SetValue("off")
	if committed != false {
		t.Fatalf("committed = %v, want false", committed)
	}
	if got := f.Value(); got != false {
		t.Fatalf("false should still surface as a value, got %v", got)
	}
}

func TestScalar_ConstSeedsValue(t *testing.T) {
	t.Run("empty model", func(t *testing.T) {
		tree, f := buildRoot(t, parser.Options{
			Name:   "kind",
			Schema: &schema.Schema{Type: "string", Const: "article"},
		})
		if got := f.Value(); got != "article" {
			t.Fatalf("value = %v, want the const", got)
		}
		if got := tree.Root().Model(); got != "article" {
			t.Fatalf("model = %v, want the const", got)
		}
	})

	t.Run("model wins", func(t *testing.T) {
		_, f := buildRoot(t, parser.Options{
			Name:   "kind",
			Schema: &schema.Schema{Type: "string", Const: "article"},
			Model:  "page",
		})
		if got := f.Value(); got != "page" {
			t.Fatalf("value = %v, want the supplied model", got)
		}
	})
}
