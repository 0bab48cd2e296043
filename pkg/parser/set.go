package parser

import (
	"fmt"
	"strconv"

	"github.com/goliatone/go-formbind/pkg/field"
)

// Set is the shared base for schema kinds with children (object, array,
// enum-as-radio-group): it owns the child parser roster and keeps the
// rendered child list aligned with it.
type Set struct {
	node
	children []Parser
}

// Children returns the current child parser roster in render order.
func (p *Set) Children() []Parser {
	return append([]Parser(nil), p.children...)
}

// syncChildren rebuilds the field's child list from the roster. Every
// structural mutation ends here so stale children are never rendered.
func (p *Set) syncChildren() {
	if p.fld == nil {
		return
	}
	fields := make([]*field.Field, 0, len(p.children))
	for _, child := range p.children {
		if child == nil || child.Field() == nil {
			continue
		}
		fields = append(fields, child.Field())
	}
	p.fld.Children = fields
}

// setAttrs is the composite counterpart of the scalar attribute bag:
// required flags plus descriptor pass-through.
func (p *Set) setAttrs() map[string]string {
	attrs := make(map[string]string)
	if p.required {
		attrs[field.AttrRequired] = "required"
		attrs[field.AttrAriaRequired] = "true"
	}
	if p.desc != nil {
		for name, value := range p.desc.Attrs {
			attrs[name] = value
		}
	}
	return attrs
}

// childOptions seeds the options every child derives from its parent.
func (p *Set) childOptions() Options {
	return Options{
		DescriptorConstructor: p.opts.DescriptorConstructor,
		BracketedNames:        p.opts.BracketedNames,
	}
}

// attrString renders a model value the way it appears in a value attribute.
func attrString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprint(v)
	}
}

// looseEqual compares a model value against an enum member, tolerating the
// numeric-type drift JSON decoding introduces.
func looseEqual(a, b any) bool {
	if a == nil || b == nil {
		return false
	}
	return attrString(a) == attrString(b)
}
