package schema

import (
	"fmt"

	"github.com/imdario/mergo"
)

// Merge overlays src onto dst: unset keywords in dst are filled from src,
// list keywords (required, enum) append, and property maps combine entry by
// entry. The object parser uses this to fold dependency schemas into its
// property snapshot without touching the source tree.
func Merge(dst, src *Schema) error {
	if dst == nil || src == nil {
		return nil
	}
	dstProps := dst.Properties
	if err := mergo.Merge(dst, *src, mergo.WithAppendSlice); err != nil {
		return fmt.Errorf("schema: merge: %w", err)
	}
	// mergo cannot reach the ordered property map's unexported state, so
	// properties combine by hand. The result replaces whatever pointer
	// mergo installed, which keeps src's map out of dst.
	merged, err := mergeProperties(dstProps, src.Properties)
	if err != nil {
		return err
	}
	dst.Properties = merged
	return nil
}

func mergeProperties(dst, src *Properties) (*Properties, error) {
	if src == nil || src.Len() == 0 {
		return dst, nil
	}
	if dst == nil {
		dst = NewProperties()
	}
	for _, key := range src.keys {
		entry := src.entries[key]
		existing, ok := dst.Get(key)
		if !ok {
			dst.Set(key, entry)
			continue
		}
		combined := existing.Clone()
		if err := Merge(combined, entry); err != nil {
			return nil, fmt.Errorf("schema: merge property %q: %w", key, err)
		}
		dst.Set(key, combined)
	}
	return dst, nil
}

// Clone returns a deep copy of the schema node. Parsers clone before any
// rewrite because schema trees are shared, read-only input.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	clone := *s
	clone.Enum = append([]any(nil), s.Enum...)
	clone.Required = append([]string(nil), s.Required...)
	clone.Minimum = cloneFloat(s.Minimum)
	clone.Maximum = cloneFloat(s.Maximum)
	clone.MultipleOf = cloneFloat(s.MultipleOf)
	clone.MinLength = cloneInt(s.MinLength)
	clone.MaxLength = cloneInt(s.MaxLength)
	clone.MinItems = cloneInt(s.MinItems)
	clone.MaxItems = cloneInt(s.MaxItems)
	if s.ExclusiveMinimum != nil {
		bound := Exclusive{Bool: s.ExclusiveMinimum.Bool, Value: cloneFloat(s.ExclusiveMinimum.Value)}
		clone.ExclusiveMinimum = &bound
	}
	if s.ExclusiveMaximum != nil {
		bound := Exclusive{Bool: s.ExclusiveMaximum.Bool, Value: cloneFloat(s.ExclusiveMaximum.Value)}
		clone.ExclusiveMaximum = &bound
	}
	if s.Properties != nil {
		props := NewProperties()
		for _, key := range s.Properties.keys {
			props.Set(key, s.Properties.entries[key].Clone())
		}
		clone.Properties = props
	}
	if s.Items != nil {
		items := &Items{Schema: s.Items.Schema.Clone()}
		if s.Items.Tuple != nil {
			items.Tuple = make([]*Schema, len(s.Items.Tuple))
			for idx, entry := range s.Items.Tuple {
				items.Tuple[idx] = entry.Clone()
			}
		}
		clone.Items = items
	}
	if s.AdditionalItems != nil {
		clone.AdditionalItems = &AdditionalItems{
			Allowed: s.AdditionalItems.Allowed,
			Schema:  s.AdditionalItems.Schema.Clone(),
		}
	}
	if s.Dependencies != nil {
		deps := make(map[string]*Dependency, len(s.Dependencies))
		for key, dep := range s.Dependencies {
			if dep == nil {
				deps[key] = nil
				continue
			}
			deps[key] = &Dependency{
				Keys:   append([]string(nil), dep.Keys...),
				Schema: dep.Schema.Clone(),
			}
		}
		clone.Dependencies = deps
	}
	return &clone
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	value := *v
	return &value
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	value := *v
	return &value
}
