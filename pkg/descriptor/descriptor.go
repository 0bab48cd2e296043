// Package descriptor carries rendering hints resolved per field. The
// parsing engine passes descriptor content through to fields without
// interpreting it beyond kind overrides, ordering, and nested lookups.
package descriptor

import "github.com/goliatone/go-formbind/pkg/schema"

// Descriptor customises how one schema node surfaces as a field.
type Descriptor struct {
	// Kind overrides the detected field kind when set.
	Kind        string            `json:"kind,omitempty" yaml:"kind,omitempty"`
	Label       string            `json:"label,omitempty" yaml:"label,omitempty"`
	HelpText    string            `json:"helpText,omitempty" yaml:"helpText,omitempty"`
	Placeholder string            `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Component   string            `json:"component,omitempty" yaml:"component,omitempty"`
	Attrs       map[string]string `json:"attrs,omitempty" yaml:"attrs,omitempty"`

	// Order lists property names in render order; properties missing from
	// the list append after it in declaration order.
	Order []string `json:"order,omitempty" yaml:"order,omitempty"`
	// Groups collects related properties into labelled sections.
	Groups []Group `json:"groups,omitempty" yaml:"groups,omitempty"`

	Properties map[string]*Descriptor `json:"properties,omitempty" yaml:"properties,omitempty"`
	Items      []*Descriptor          `json:"items,omitempty" yaml:"items,omitempty"`
}

// Group names a set of sibling properties rendered together.
type Group struct {
	ID         string   `json:"id,omitempty" yaml:"id,omitempty"`
	Label      string   `json:"label,omitempty" yaml:"label,omitempty"`
	Properties []string `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// Constructor resolves a descriptor for a schema node. The engine calls it
// whenever no declarative descriptor covers a node.
type Constructor func(s *schema.Schema) *Descriptor

// Property returns the descriptor declared for a child property.
func (d *Descriptor) Property(name string) *Descriptor {
	if d == nil || d.Properties == nil {
		return nil
	}
	return d.Properties[name]
}

// Item returns the descriptor for an array index. A single declared item
// descriptor applies to every index, tuples resolve positionally.
func (d *Descriptor) Item(index int) *Descriptor {
	if d == nil || index < 0 || len(d.Items) == 0 {
		return nil
	}
	if len(d.Items) == 1 {
		return d.Items[0]
	}
	if index >= len(d.Items) {
		return nil
	}
	return d.Items[index]
}

// Sanitized returns a copy with help text and label markup run through the
// sanitiser, applied recursively.
func (d *Descriptor) Sanitized() *Descriptor {
	if d == nil {
		return nil
	}
	clone := *d
	clone.Label = SanitizeMarkup(d.Label)
	clone.HelpText = SanitizeMarkup(d.HelpText)
	if len(d.Properties) > 0 {
		clone.Properties = make(map[string]*Descriptor, len(d.Properties))
		for name, child := range d.Properties {
			clone.Properties[name] = child.Sanitized()
		}
	}
	if len(d.Items) > 0 {
		clone.Items = make([]*Descriptor, len(d.Items))
		for idx, child := range d.Items {
			clone.Items[idx] = child.Sanitized()
		}
	}
	return &clone
}
