package parser

import (
	"strconv"

	"github.com/goliatone/go-formbind/pkg/field"
)

// Scalar handles leaf schema kinds. The specialisations (string, boolean,
// null, file, number, integer) share this one type and differ only in the
// coercion, display, and attribute functions their constructors install.
type Scalar struct {
	node
	coerce  func(any) any
	display func(any) any
	attrsFn func() map[string]string
}

func newScalar(t *Tree, opts Options, parent int, kind field.Kind) *Scalar {
	p := &Scalar{node: newNode(t, opts, parent, kind)}
	p.coerce = coercerFor(kind)
	p.display = displayIdentity
	p.attrsFn = p.scalarAttrs
	p.idx = t.attach(p, parent)
	return p
}

func newString(t *Tree, opts Options, parent int, kind field.Kind) *Scalar {
	return newScalar(t, opts, parent, kind)
}

func newBoolean(t *Tree, opts Options, parent int, kind field.Kind) *Scalar {
	return newScalar(t, opts, parent, kind)
}

func newNull(t *Tree, opts Options, parent int) *Scalar {
	return newScalar(t, opts, parent, field.KindNull)
}

// Parse builds the field from current schema and model state. It is
// idempotent while the schema is unchanged: attributes always recompute
// from the schema, and the model is re-coerced from whatever the raw value
// currently holds.
func (p *Scalar) Parse() {
	// A const pins the only admissible value; seed it when neither the
	// model nor a default supplied one.
	if p.sch != nil && p.sch.Const != nil && p.IsEmpty(p.raw) {
		p.raw = p.sch.Const
		p.initial = p.sch.Const
	}
	p.model = p.coerce(p.raw)
	p.fld = &field.Field{
		Kind:        p.Kind(),
		Name:        p.opts.Name,
		ID:          p.id(),
		Key:         p.tree.ids.Key(),
		Label:       p.label(),
		Description: p.description(),
		Placeholder: p.placeholder(),
		Component:   p.component(),
		Required:    p.required,
		Attrs:       p.attrsFn(),
	}
	p.fld.Bind(p)
}

// Value recomputes the display value from current raw state; nil when the
// coerced model is empty.
func (p *Scalar) Value() any {
	model := p.coerce(p.raw)
	if p.IsEmpty(model) {
		return nil
	}
	return p.display(model)
}

// SetValue writes a raw form value and commits it.
func (p *Scalar) SetValue(value any) {
	p.raw = value
	p.Commit()
}

// Commit flushes the raw value into the model and notifies the parent.
func (p *Scalar) Commit() {
	p.model = p.coerce(p.raw)
	p.notify(p.model)
}

// Reset restores the initial value without notifying.
func (p *Scalar) Reset() {
	p.raw = p.initial
	p.model = p.coerce(p.raw)
}

// Clear empties the value and commits the removal, so parent aggregates
// drop the entry instead of retaining the last committed value.
func (p *Scalar) Clear() {
	p.raw = nil
	p.Commit()
}

// SetRequired rewrites the required flag and rebuilds the attribute bag.
// This is a pure attribute rewrite: no change notification fires, so a
// dependency-triggered flip cannot re-enter the commit chain.
func (p *Scalar) SetRequired(required bool) {
	if p.required == required {
		return
	}
	p.required = required
	if p.fld != nil {
		p.fld.Required = required
		p.fld.Attrs = p.attrsFn()
	}
}

// scalarAttrs assembles the validation attribute bag from the applicable
// schema keywords plus descriptor pass-through.
func (p *Scalar) scalarAttrs() map[string]string {
	attrs := make(map[string]string)
	if s := p.sch; s != nil {
		if s.MinLength != nil {
			attrs[field.AttrMinLength] = strconv.Itoa(*s.MinLength)
		}
		if s.MaxLength != nil {
			attrs[field.AttrMaxLength] = strconv.Itoa(*s.MaxLength)
		}
		if s.Pattern != "" {
			attrs[field.AttrPattern] = s.Pattern
		}
	}
	p.applyRequiredAttrs(attrs)
	p.applyDescriptorAttrs(attrs)
	return attrs
}

func (p *Scalar) applyRequiredAttrs(attrs map[string]string) {
	if p.required {
		attrs[field.AttrRequired] = "required"
		attrs[field.AttrAriaRequired] = "true"
	}
}

func (p *Scalar) applyDescriptorAttrs(attrs map[string]string) {
	if p.desc == nil {
		return
	}
	for name, value := range p.desc.Attrs {
		attrs[name] = value
	}
}

func displayIdentity(value any) any { return value }
