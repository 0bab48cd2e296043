package field_test

import (
	"testing"

	"github.com/goliatone/go-formbind/pkg/field"
)

func TestKind_Predicates(t *testing.T) {
	cases := []struct {
		kind      field.Kind
		composite bool
		scalar    bool
	}{
		{field.KindString, false, true},
		{field.KindNumber, false, true},
		{field.KindCheckbox, false, true},
		{field.KindRadio, false, true},
		{field.KindObject, true, false},
		{field.KindArray, true, false},
		{field.KindEnum, true, false},
		{field.KindUnknown, false, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			if got := tc.kind.Composite(); got != tc.composite {
				t.Fatalf("Composite() = %v, want %v", got, tc.composite)
			}
			if got := tc.kind.Scalar(); got != tc.scalar {
				t.Fatalf("Scalar() = %v, want %v", got, tc.scalar)
			}
		})
	}
}

type stubController struct {
	value    any
	commits  int
	resets   int
	clears   int
	setCalls []any
}

func (c *stubController) Value() any         { return c.value }
func (c *stubController) SetValue(value any) { c.setCalls = append(c.setCalls, value) }
func (c *stubController) Commit()            { c.commits++ }
func (c *stubController) Reset()             { c.resets++ }
func (c *stubController) Clear()             { c.clears++ }

func TestField_DelegatesToController(t *testing.T) {
	ctrl := &stubController{value: "hello"}
	f := &field.Field{Kind: field.KindString}
	f.Bind(ctrl)

	if got := f.Value(); got != "hello" {
		t.Fatalf("Value() = %v", got)
	}
	f.SetValue("next")
	f.Commit()
	f.Reset()
	f.Clear()

	if len(ctrl.setCalls) != 1 || ctrl.setCalls[0] != "next" {
		t.Fatalf("SetValue not delegated: %#v", ctrl.setCalls)
	}
	if ctrl.commits != 1 || ctrl.resets != 1 || ctrl.clears != 1 {
		t.Fatalf("delegation counts: %+v", ctrl)
	}
}

func TestField_UnboundMutationsAreNoops(t *testing.T) {
	var f *field.Field
	f.SetValue("x")
	f.Commit()
	f.Reset()
	f.Clear()
	if f.Value() != nil {
		t.Fatal("nil field value should be nil")
	}

	unbound := &field.Field{Kind: field.KindString}
	unbound.SetValue("x")
	if unbound.Value() != nil {
		t.Fatal("unbound field value should be nil")
	}
}

func TestField_Child(t *testing.T) {
	f := &field.Field{
		Kind: field.KindObject,
		Children: []*field.Field{
			{Name: "first"},
			{Name: "second"},
		},
	}
	if got := f.Child("second"); got == nil || got.Name != "second" {
		t.Fatalf("Child lookup failed: %#v", got)
	}
	if f.Child("missing") != nil {
		t.Fatal("missing child should be nil")
	}
}

func TestField_Snapshot(t *testing.T) {
	ctrl := &stubController{value: "ada"}
	child := &field.Field{
		Kind:     field.KindString,
		Name:     "name",
		ID:       "name-1",
		Key:      "k2",
		Label:    "Name",
		Required: true,
		Attrs:    map[string]string{"minlength": "2"},
	}
	child.Bind(ctrl)

	root := &field.Field{
		Kind:     field.KindObject,
		ID:       "root-1",
		Key:      "k1",
		Children: []*field.Field{child},
	}

	snap := root.Snapshot()
	if snap["kind"] != "object" || snap["id"] != "root-1" {
		t.Fatalf("root snapshot mismatch: %#v", snap)
	}
	children, ok := snap["children"].([]map[string]any)
	if !ok || len(children) != 1 {
		t.Fatalf("children snapshot mismatch: %#v", snap["children"])
	}
	got := children[0]
	if got["name"] != "name" || got["value"] != "ada" || got["required"] != true {
		t.Fatalf("child snapshot mismatch: %#v", got)
	}
	if _, present := got["children"]; present {
		t.Fatal("leaf snapshot should omit children")
	}
}

func TestField_ArraySnapshotCarriesShape(t *testing.T) {
	f := &field.Field{Kind: field.KindArray, Key: "k", Count: 2, Max: -1, Sortable: true}
	snap := f.Snapshot()
	if snap["count"] != 2 || snap["max"] != -1 || snap["sortable"] != true {
		t.Fatalf("array shape missing from snapshot: %#v", snap)
	}
}
