package parser

import (
	"strconv"

	"github.com/goliatone/go-formbind/pkg/field"
	"github.com/goliatone/go-formbind/pkg/schema"
)

// Enum renders an enumerated scalar as a radio group: one child per enum
// value, all sharing a walk-scoped group name. The group's model is the
// selected enum value.
type Enum struct {
	Set
	group string
}

func newEnum(t *Tree, opts Options, parent int) *Enum {
	p := &Enum{Set: Set{node: newNode(t, opts, parent, field.KindEnum)}}
	p.idx = t.attach(p, parent)
	return p
}

// Parse builds the group field and one radio item per enum value.
func (p *Enum) Parse() {
	p.group = p.opts.Name
	if p.group == "" {
		p.group = p.tree.ids.Group()
	}
	p.fld = &field.Field{
		Kind:        field.KindEnum,
		Name:        p.opts.Name,
		ID:          p.id(),
		Key:         p.tree.ids.Key(),
		Label:       p.label(),
		Description: p.description(),
		Required:    p.required,
		Attrs:       p.setAttrs(),
	}
	p.fld.Bind(p)

	p.children = p.children[:0]
	if p.sch != nil {
		for index, value := range p.sch.Enum {
			p.buildItem(index, value)
		}
	}
	p.syncChildren()
}

func (p *Enum) buildItem(index int, value any) {
	opts := p.childOptions()
	opts.Schema = p.itemSchema(value)
	opts.Model = value
	opts.Name = p.group
	opts.ID = p.fld.ID + "-" + strconv.Itoa(index)
	opts.Descriptor = p.desc.Item(index)
	opts.OnChange = func(any, *field.Field) { p.selectValue(value) }
	opts.enumItem = true

	item := p.tree.Get(opts, p.idx)
	if item == nil {
		return
	}
	item.Parse()
	f := item.Field()
	f.Attrs[field.AttrValue] = attrString(value)
	if looseEqual(p.model, value) {
		f.Attrs[field.AttrChecked] = "checked"
	}
	p.children = append(p.children, item)
}

// itemSchema derives the scalar schema backing one radio item. The group's
// declared type wins; untyped enums infer the type from the value itself.
func (p *Enum) itemSchema(value any) *schema.Schema {
	itemType := p.sch.Type
	if itemType == "" {
		switch value.(type) {
		case bool:
			itemType = "boolean"
		case float64, int, int64:
			itemType = "number"
		default:
			itemType = "string"
		}
	}
	return &schema.Schema{Type: itemType, Title: attrString(value)}
}

// Value returns the selected enum value, nil when nothing is selected.
func (p *Enum) Value() any {
	if p.IsEmpty(p.model) {
		return nil
	}
	return p.model
}

// SetValue selects the enum member matching the raw input. Input that
// matches no member clears the selection.
func (p *Enum) SetValue(value any) {
	p.selectValue(p.match(value))
}

// Commit re-notifies the parent with the current selection.
func (p *Enum) Commit() {
	p.model = p.raw
	p.notify(p.model)
}

// Reset restores the initial selection.
func (p *Enum) Reset() {
	p.raw = p.initial
	p.model = p.initial
	p.refreshChecked()
}

// Clear drops the selection and commits the removal to the parent.
func (p *Enum) Clear() {
	p.raw = nil
	p.model = nil
	p.refreshChecked()
	p.notify(nil)
}

// SetRequired rewrites the required flag without notifying.
func (p *Enum) SetRequired(required bool) {
	if p.required == required {
		return
	}
	p.required = required
	if p.fld != nil {
		p.fld.Required = required
		p.fld.Attrs = p.setAttrs()
	}
}

func (p *Enum) selectValue(value any) {
	p.raw = value
	p.model = value
	p.refreshChecked()
	p.notify(p.model)
	p.tree.requestRender([]*field.Field{p.fld})
}

func (p *Enum) match(raw any) any {
	if raw == nil || p.sch == nil {
		return nil
	}
	for _, candidate := range p.sch.Enum {
		if looseEqual(candidate, raw) {
			return candidate
		}
	}
	return nil
}

func (p *Enum) refreshChecked() {
	selected := attrString(p.model)
	for _, item := range p.children {
		f := item.Field()
		if f == nil {
			continue
		}
		if p.model != nil && f.Attrs[field.AttrValue] == selected {
			f.Attrs[field.AttrChecked] = "checked"
		} else {
			delete(f.Attrs, field.AttrChecked)
		}
	}
}
