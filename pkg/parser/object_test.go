package parser_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/descriptor"
	"github.com/goliatone/go-formbind/pkg/field"
	"github.com/goliatone/go-formbind/pkg/parser"
	"github.com/goliatone/go-formbind/pkg/schema"
)

func objectSchema(t *testing.T, doc string) *schema.Schema {
	t.Helper()
	s, err := schema.Decode([]byte(doc))
	if err != nil {
		t.Fatalf("decode schema: %v", err)
	}
	return s
}

func TestObject_BuildsChildrenInDeclarationOrder(t *testing.T) {
	s := objectSchema(t, `{
		"type": "object",
		"properties": {
			"zebra": {"type": "string"},
			"alpha": {"type": "string"},
			"mango": {"type": "string"}
		}
	}`)
	_, f := buildRoot(t, parser.Options{Name: "form", Schema: s})

	if f.Name != "" {
		t.Fatalf("root object should have no name, got %q", f.Name)
	}
	var names []string
	for _, child := range f.Children {
		names = append(names, child.Name)
	}
	want := []string{"zebra", "alpha", "mango"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("child order mismatch (-want +got):\n%s", diff)
	}
}

func TestObject_DescriptorOrderWins(t *testing.T) {
	s := objectSchema(t, `{
		"type": "object",
		"properties": {
			"a": {"type": "string"},
			"b": {"type": "string"},
			"c": {"type": "string"}
		}
	}`)
	_, f := buildRoot(t, parser.Options{
		Schema:     s,
		Descriptor: &descriptor.Descriptor{Order: []string{"c", "a"}},
	})

	var names []string
	for _, child := range f.Children {
		names = append(names, child.Name)
	}
	// Listed properties first, leftovers in declaration order.
	want := []string{"c", "a", "b"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("child order mismatch (-want +got):\n%s", diff)
	}
}

func TestObject_OmitsRequiredAttrs(t *testing.T) {
	s := objectSchema(t, `{"type":"object","properties":{"a":{"type":"string"}}}`)
	_, f := buildRoot(t, parser.Options{Schema: s, Required: true})

	if !f.Required {
		t.Fatal("required flag should carry through")
	}
	if _, ok := f.Attrs[field.AttrRequired]; ok {
		t.Fatalf("composite field should not carry required attr: %#v", f.Attrs)
	}
	if _, ok := f.Attrs[field.AttrAriaRequired]; ok {
		t.Fatalf("composite field should not carry aria-required attr: %#v", f.Attrs)
	}
}

func TestObject_ChildNaming(t *testing.T) {
	doc := `{
		"type": "object",
		"properties": {
			"address": {
				"type": "object",
				"properties": {"city": {"type": "string"}}
			}
		}
	}`

	t.Run("dot paths", func(t *testing.T) {
		_, f := buildRoot(t, parser.Options{Schema: objectSchema(t, doc)})
		address := f.Child("address")
		if address == nil {
			t.Fatal("address child missing")
		}
		if city := address.Children[0]; city.Name != "address.city" {
			t.Fatalf("nested name = %q, want address.city", city.Name)
		}
	})

	t.Run("bracketed", func(t *testing.T) {
		_, f := buildRoot(t, parser.Options{Schema: objectSchema(t, doc), BracketedNames: true})
		address := f.Child("address")
		if city := address.Children[0]; city.Name != "address[city]" {
			t.Fatalf("nested name = %q, want address[city]", city.Name)
		}
	})
}

func TestObject_AggregatesChildCommits(t *testing.T) {
	s := objectSchema(t, `{
		"type": "object",
		"properties": {
			"name": {"type": "string"},
			"age": {"type": "integer"}
		}
	}`)
	var committed any
	tree, f := buildRoot(t, parser.Options{
		Schema:   s,
		OnChange: func(value any, _ *field.Field) { committed = value },
	})

	f.Child("name").SetValue("ada")
	f.Child("age").SetValue("36")

	want := map[string]any{"name": "ada", "age": int64(36)}
	if diff := cmp.Diff(want, tree.Root().Model()); diff != "" {
		t.Fatalf("aggregate model mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, committed); diff != "" {
		t.Fatalf("committed value mismatch (-want +got):\n%s", diff)
	}
}

func TestObject_DefaultsSeedTheModel(t *testing.T) {
	s := objectSchema(t, `{
		"type": "object",
		"properties": {
			"status": {"type": "string", "default": "draft"}
		}
	}`)
	tree, _ := buildRoot(t, parser.Options{Schema: s})

	want := map[string]any{"status": "draft"}
	if diff := cmp.Diff(want, tree.Root().Model()); diff != "" {
		t.Fatalf("model mismatch (-want +got):\n%s", diff)
	}
}

func TestObject_DependencyKeysFlipRequired(t *testing.T) {
	s := objectSchema(t, `{
		"type": "object",
		"properties": {
			"credit_card": {"type": "string"},
			"billing_address": {"type": "string"}
		},
		"dependencies": {
			"credit_card": ["billing_address"]
		}
	}`)
	_, f := buildRoot(t, parser.Options{Schema: s})

	billing := f.Child("billing_address")
	creditCard := f.Child("credit_card")
	if billing.Required || creditCard.Required {
		t.Fatal("nothing should be required before the trigger fills")
	}
	initialKey := billing.Key

	creditCard.SetValue("4111")
	if !billing.Required {
		t.Fatal("dependent should become required when the trigger fills")
	}
	if billing.Attrs[field.AttrRequired] != "required" {
		t.Fatalf("dependent attrs not rewritten: %#v", billing.Attrs)
	}
	if !creditCard.Required {
		t.Fatal("a filled trigger is itself required")
	}
	if billing.Key == initialKey {
		t.Fatal("empty dependent should get a fresh render key on the flip")
	}

	creditCard.SetValue("")
	if billing.Required {
		t.Fatal("dependent should revert when the trigger empties")
	}
	if creditCard.Required {
		t.Fatal("emptied trigger should revert too")
	}
}

func TestObject_DependencyFlipDoesNotRecurse(t *testing.T) {
	s := objectSchema(t, `{
		"type": "object",
		"properties": {
			"a": {"type": "string"},
			"b": {"type": "string"}
		},
		"dependencies": {"a": ["b"]}
	}`)
	changes := 0
	_, f := buildRoot(t, parser.Options{
		Schema:   s,
		OnChange: func(any, *field.Field) { changes++ },
	})

	f.Child("a").SetValue("x")
	if changes != 1 {
		t.Fatalf("one edit should commit exactly once, got %d", changes)
	}
}

func TestObject_SchemaFormDependencyMergesProperties(t *testing.T) {
	s := objectSchema(t, `{
		"type": "object",
		"properties": {
			"shipping": {"type": "string"}
		},
		"dependencies": {
			"shipping": {
				"properties": {"carrier": {"type": "string"}},
				"required": ["carrier"]
			}
		}
	}`)
	_, f := buildRoot(t, parser.Options{Schema: s})

	carrier := f.Child("carrier")
	if carrier == nil {
		t.Fatal("dependent property from the schema form should materialise")
	}
	if carrier.Required {
		t.Fatal("dependent should start optional while the trigger is empty")
	}

	f.Child("shipping").SetValue("express")
	if !carrier.Required {
		t.Fatal("dependent should become required once the trigger fills")
	}
}

func TestObject_MissingDependencyParserFailsSoft(t *testing.T) {
	s := objectSchema(t, `{
		"type": "object",
		"properties": {"a": {"type": "string"}},
		"dependencies": {"a": ["ghost"]}
	}`)
	_, f := buildRoot(t, parser.Options{Schema: s})

	// Must not panic; the missing dependent is skipped.
	f.Child("a").SetValue("x")
}

func TestObject_SetValueDistributes(t *testing.T) {
	s := objectSchema(t, `{
		"type": "object",
		"properties": {
			"name": {"type": "string"},
			"age": {"type": "integer"}
		}
	}`)
	tree, f := buildRoot(t, parser.Options{Schema: s})

	f.SetValue(map[string]any{"name": "grace", "age": "45"})
	want := map[string]any{"name": "grace", "age": int64(45)}
	if diff := cmp.Diff(want, tree.Root().Model()); diff != "" {
		t.Fatalf("model mismatch (-want +got):\n%s", diff)
	}
}

func TestObject_ResetRestoresInitialModel(t *testing.T) {
	s := objectSchema(t, `{
		"type": "object",
		"properties": {"name": {"type": "string"}}
	}`)
	tree, f := buildRoot(t, parser.Options{
		Schema: s,
		Model:  map[string]any{"name": "ada"},
	})

	f.Child("name").SetValue("grace")
	f.Reset()
	want := map[string]any{"name": "ada"}
	if diff := cmp.Diff(want, tree.Root().Model()); diff != "" {
		t.Fatalf("model after reset mismatch (-want +got):\n%s", diff)
	}
}

func TestObject_ClearEmptiesModel(t *testing.T) {
	s := objectSchema(t, `{
		"type": "object",
		"properties": {"name": {"type": "string"}}
	}`)
	tree, f := buildRoot(t, parser.Options{
		Schema: s,
		Model:  map[string]any{"name": "ada"},
	})

	f.Clear()
	model, ok := tree.Root().Model().(map[string]any)
	if !ok || len(model) != 0 {
		t.Fatalf("model after clear = %#v, want empty map", tree.Root().Model())
	}
	if got := f.Child("name").Value(); got != nil {
		t.Fatalf("child value after clear = %v, want nil", got)
	}
}

func TestObject_ChildClearEvictsKey(t *testing.T) {
	s := objectSchema(t, `{
		"type": "object",
		"properties": {
			"name": {"type": "string"},
			"age": {"type": "integer"}
		}
	}`)
	tree, f := buildRoot(t, parser.Options{
		Schema: s,
		Model:  map[string]any{"name": "ada", "age": float64(36)},
	})

	f.Child("name").Clear()
	want := map[string]any{"age": int64(36)}
	if diff := cmp.Diff(want, tree.Root().Model()); diff != "" {
		t.Fatalf("cleared key should leave the aggregate (-want +got):\n%s", diff)
	}
}

func TestObject_ClearingTriggerRevertsRequired(t *testing.T) {
	s := objectSchema(t, `{
		"type": "object",
		"properties": {
			"credit_card": {"type": "string"},
			"billing_address": {"type": "string"}
		},
		"dependencies": {"credit_card": ["billing_address"]}
	}`)
	tree, f := buildRoot(t, parser.Options{
		Schema: s,
		Model:  map[string]any{"credit_card": "4111"},
	})

	billing := f.Child("billing_address")
	f.Child("credit_card").SetValue("4111")
	if !billing.Required {
		t.Fatal("dependent should be required while the trigger is filled")
	}

	f.Child("credit_card").Clear()
	if billing.Required {
		t.Fatal("clearing the trigger should revert the dependent")
	}
	model := tree.Root().Model().(map[string]any)
	if _, ok := model["credit_card"]; ok {
		t.Fatalf("cleared trigger should leave the aggregate: %#v", model)
	}
}

func TestObject_DescriptorGroupsSurface(t *testing.T) {
	s := objectSchema(t, `{
		"type": "object",
		"properties": {
			"first": {"type": "string"},
			"last": {"type": "string"},
			"bio": {"type": "string"}
		}
	}`)
	_, f := buildRoot(t, parser.Options{
		Schema: s,
		Descriptor: &descriptor.Descriptor{
			Groups: []descriptor.Group{
				{ID: "identity", Label: "Identity", Properties: []string{"first", "last"}},
				{ID: "extra", Label: "Extra", Properties: []string{"bio", "missing"}},
				{ID: "empty", Properties: []string{"missing"}},
			},
		},
	})

	if len(f.Groups) != 2 {
		t.Fatalf("groups = %d, want 2 (memberless group dropped)", len(f.Groups))
	}
	identity := f.Groups[0]
	if identity.ID != "identity" || identity.Label != "Identity" {
		t.Fatalf("group header mismatch: %#v", identity)
	}
	if len(identity.Fields) != 2 || identity.Fields[0] != f.Child("first") || identity.Fields[1] != f.Child("last") {
		t.Fatalf("group members should alias the child roster: %#v", identity.Fields)
	}
	extra := f.Groups[1]
	if len(extra.Fields) != 1 || extra.Fields[0] != f.Child("bio") {
		t.Fatalf("unknown keys should be skipped: %#v", extra.Fields)
	}
}
