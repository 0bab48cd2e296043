// Package field defines the render-facing node produced by the parsing
// engine. A Field carries the resolved kind, validation attributes, child
// roster, and mutation handles bound to the parser that owns it; rendering
// components consume fields without ever touching parser internals.
package field

// Kind is the resolved field-type tag. The set is closed: the factory
// dispatches through these values, with a registration table as the only
// extension point for third-party kinds.
type Kind string

const (
	KindUnknown  Kind = ""
	KindString   Kind = "string"
	KindNumber   Kind = "number"
	KindInteger  Kind = "integer"
	KindBoolean  Kind = "boolean"
	KindNull     Kind = "null"
	KindEnum     Kind = "enum"
	KindRadio    Kind = "radio"
	KindCheckbox Kind = "checkbox"
	KindFile     Kind = "file"
	KindTextarea Kind = "textarea"
	KindArray    Kind = "array"
	KindObject   Kind = "object"
)

// Composite reports whether the kind owns child fields.
func (k Kind) Composite() bool {
	switch k {
	case KindArray, KindObject, KindEnum:
		return true
	default:
		return false
	}
}

// Scalar reports whether the kind maps to a single form control.
func (k Kind) Scalar() bool {
	switch k {
	case KindUnknown, KindArray, KindObject, KindEnum:
		return false
	default:
		return true
	}
}

// Attribute names used in the validation attribute bag.
const (
	AttrMin          = "min"
	AttrMax          = "max"
	AttrStep         = "step"
	AttrMinLength    = "minlength"
	AttrMaxLength    = "maxlength"
	AttrPattern      = "pattern"
	AttrRequired     = "required"
	AttrAriaRequired = "aria-required"
	AttrDisabled     = "disabled"
	AttrValue        = "value"
	AttrChecked      = "checked"
)

// Controller is implemented by the parser owning a field. Mutation calls on
// the field delegate here, so state always lives in exactly one place.
type Controller interface {
	// Value recomputes the display value from current model state.
	Value() any
	// SetValue writes a raw form value and commits it.
	SetValue(value any)
	// Commit flushes the raw value into the model and notifies the parent.
	Commit()
	// Reset restores the initial value.
	Reset()
	// Clear empties the value.
	Clear()
}

// Button is an action control surfaced to the rendering layer. Disabled is
// consulted before Trigger; triggering a disabled button is a no-op.
type Button struct {
	Disabled func() bool
	Trigger  func()
}

// Buttons groups the per-item controls of a sortable array entry.
type Buttons struct {
	MoveUp   *Button
	MoveDown *Button
	Delete   *Button
}

// Group is a named set of sibling fields rendered together as one section.
// Members point into the owning field's Children.
type Group struct {
	ID     string
	Label  string
	Fields []*Field
}

// Field is the public node handed to rendering components.
type Field struct {
	Kind        Kind
	Name        string
	ID          string
	Key         string
	Label       string
	Description string
	Placeholder string
	Component   string
	Required    bool
	Attrs       map[string]string

	// Children holds the ordered child roster for composite kinds. It
	// always mirrors the owning parser's current roster; stale entries are
	// never left behind after a structural mutation.
	Children []*Field

	// Groups sections the children per the form descriptor. Empty when the
	// descriptor declares no groups; ungrouped children stay in Children
	// only.
	Groups []Group

	// Array surface.
	Count    int
	Max      int
	Sortable bool
	Push     *Button
	Buttons  *Buttons

	ctrl Controller
}

// Bind attaches the owning parser's controller. Parsers call this once
// while building the field.
func (f *Field) Bind(ctrl Controller) {
	if f == nil {
		return
	}
	f.ctrl = ctrl
}

// Value returns the current display value, nil when the field is empty or
// unbound.
func (f *Field) Value() any {
	if f == nil || f.ctrl == nil {
		return nil
	}
	return f.ctrl.Value()
}

// SetValue writes a raw form value through the owning parser and commits.
func (f *Field) SetValue(value any) {
	if f == nil || f.ctrl == nil {
		return
	}
	f.ctrl.SetValue(value)
}

// Commit flushes the current raw value into the model.
func (f *Field) Commit() {
	if f == nil || f.ctrl == nil {
		return
	}
	f.ctrl.Commit()
}

// Reset restores the field to its initial value.
func (f *Field) Reset() {
	if f == nil || f.ctrl == nil {
		return
	}
	f.ctrl.Reset()
}

// Clear empties the field's value.
func (f *Field) Clear() {
	if f == nil || f.ctrl == nil {
		return
	}
	f.ctrl.Clear()
}

// Child returns the first child with the given name, nil when absent.
func (f *Field) Child(name string) *Field {
	if f == nil {
		return nil
	}
	for _, child := range f.Children {
		if child != nil && child.Name == name {
			return child
		}
	}
	return nil
}

// Snapshot returns a plain data view of the field tree suitable for JSON
// serialisation; function handles and controllers are omitted.
func (f *Field) Snapshot() map[string]any {
	if f == nil {
		return nil
	}
	snap := map[string]any{
		"kind": string(f.Kind),
		"key":  f.Key,
	}
	if f.Name != "" {
		snap["name"] = f.Name
	}
	if f.ID != "" {
		snap["id"] = f.ID
	}
	if f.Label != "" {
		snap["label"] = f.Label
	}
	if f.Description != "" {
		snap["description"] = f.Description
	}
	if f.Required {
		snap["required"] = true
	}
	if len(f.Attrs) > 0 {
		snap["attrs"] = f.Attrs
	}
	if value := f.Value(); value != nil {
		snap["value"] = value
	}
	if f.Kind == KindArray {
		snap["count"] = f.Count
		snap["max"] = f.Max
		snap["sortable"] = f.Sortable
	}
	if len(f.Children) > 0 {
		children := make([]map[string]any, 0, len(f.Children))
		for _, child := range f.Children {
			children = append(children, child.Snapshot())
		}
		snap["children"] = children
	}
	if len(f.Groups) > 0 {
		groups := make([]map[string]any, 0, len(f.Groups))
		for _, group := range f.Groups {
			names := make([]string, 0, len(group.Fields))
			for _, member := range group.Fields {
				if member != nil {
					names = append(names, member.Name)
				}
			}
			groups = append(groups, map[string]any{
				"id":     group.ID,
				"label":  group.Label,
				"fields": names,
			})
		}
		snap["groups"] = groups
	}
	return snap
}
