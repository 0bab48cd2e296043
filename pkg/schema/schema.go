package schema

// Schema is the JSON-Schema-shaped node the parsing engine consumes. It
// covers the structural subset the field builders read (type, properties,
// items, dependencies, numeric/length bounds); anything else in the source
// document is ignored. A Schema tree is read-only once handed to a parser:
// child parsers share nodes freely and never write through them.
type Schema struct {
	Type        string `json:"type,omitempty" yaml:"type,omitempty"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Format      string `json:"format,omitempty" yaml:"format,omitempty"`

	Default any   `json:"default,omitempty" yaml:"default,omitempty"`
	Const   any   `json:"const,omitempty" yaml:"const,omitempty"`
	Enum    []any `json:"enum,omitempty" yaml:"enum,omitempty"`

	Properties   *Properties            `json:"properties,omitempty" yaml:"properties,omitempty"`
	Required     []string               `json:"required,omitempty" yaml:"required,omitempty"`
	Dependencies map[string]*Dependency `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`

	Items           *Items           `json:"items,omitempty" yaml:"items,omitempty"`
	AdditionalItems *AdditionalItems `json:"additionalItems,omitempty" yaml:"additionalItems,omitempty"`
	MinItems        *int             `json:"minItems,omitempty" yaml:"minItems,omitempty"`
	MaxItems        *int             `json:"maxItems,omitempty" yaml:"maxItems,omitempty"`
	UniqueItems     bool             `json:"uniqueItems,omitempty" yaml:"uniqueItems,omitempty"`

	Minimum          *float64   `json:"minimum,omitempty" yaml:"minimum,omitempty"`
	Maximum          *float64   `json:"maximum,omitempty" yaml:"maximum,omitempty"`
	ExclusiveMinimum *Exclusive `json:"exclusiveMinimum,omitempty" yaml:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum *Exclusive `json:"exclusiveMaximum,omitempty" yaml:"exclusiveMaximum,omitempty"`
	MultipleOf       *float64   `json:"multipleOf,omitempty" yaml:"multipleOf,omitempty"`

	MinLength *int   `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
}

// IsRequired reports whether the named property appears in the schema's
// required list.
func (s *Schema) IsRequired(name string) bool {
	if s == nil {
		return false
	}
	for _, item := range s.Required {
		if item == name {
			return true
		}
	}
	return false
}

// MinimumBound resolves the effective lower bound. The second result reports
// whether the bound is exclusive: draft-6 numeric exclusiveMinimum supplies
// its own value, while the draft-4 boolean form flips the inclusive minimum.
func (s *Schema) MinimumBound() (value float64, exclusive, ok bool) {
	if s == nil {
		return 0, false, false
	}
	if s.ExclusiveMinimum != nil {
		if s.ExclusiveMinimum.Value != nil {
			return *s.ExclusiveMinimum.Value, true, true
		}
		if s.ExclusiveMinimum.Bool && s.Minimum != nil {
			return *s.Minimum, true, true
		}
	}
	if s.Minimum != nil {
		return *s.Minimum, false, true
	}
	return 0, false, false
}

// MaximumBound resolves the effective upper bound, mirroring MinimumBound.
func (s *Schema) MaximumBound() (value float64, exclusive, ok bool) {
	if s == nil {
		return 0, false, false
	}
	if s.ExclusiveMaximum != nil {
		if s.ExclusiveMaximum.Value != nil {
			return *s.ExclusiveMaximum.Value, true, true
		}
		if s.ExclusiveMaximum.Bool && s.Maximum != nil {
			return *s.Maximum, true, true
		}
	}
	if s.Maximum != nil {
		return *s.Maximum, false, true
	}
	return 0, false, false
}

// Properties is an insertion-ordered map of property name to schema. JSON
// objects are unordered in Go's map type, but declaration order matters to
// the object parser (it drives default field ordering), so the decoder
// records keys as it sees them.
type Properties struct {
	keys    []string
	entries map[string]*Schema
}

// NewProperties builds an empty ordered property map.
func NewProperties() *Properties {
	return &Properties{entries: make(map[string]*Schema)}
}

// Len returns the number of declared properties.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Keys returns the property names in declaration order.
func (p *Properties) Keys() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.keys...)
}

// Get looks up a property schema by name.
func (p *Properties) Get(name string) (*Schema, bool) {
	if p == nil || p.entries == nil {
		return nil, false
	}
	s, ok := p.entries[name]
	return s, ok
}

// Set stores a property schema, appending the key on first insertion.
func (p *Properties) Set(name string, s *Schema) {
	if p == nil {
		return
	}
	if p.entries == nil {
		p.entries = make(map[string]*Schema)
	}
	if _, exists := p.entries[name]; !exists {
		p.keys = append(p.keys, name)
	}
	p.entries[name] = s
}

// Clone returns a copy sharing the underlying schema nodes. Callers that
// need to rewrite an entry (dependency merges) must clone that entry first.
func (p *Properties) Clone() *Properties {
	if p == nil {
		return nil
	}
	clone := &Properties{
		keys:    append([]string(nil), p.keys...),
		entries: make(map[string]*Schema, len(p.entries)),
	}
	for name, s := range p.entries {
		clone.entries[name] = s
	}
	return clone
}

// Items carries the array items keyword, which is either a single schema
// applied to every index or a positional tuple of schemas.
type Items struct {
	Schema *Schema
	Tuple  []*Schema
}

// IsTuple reports whether items was declared in positional form.
func (i *Items) IsTuple() bool {
	return i != nil && i.Tuple != nil
}

// Len returns the number of declared item schemas: one for the single-schema
// form, the tuple length otherwise.
func (i *Items) Len() int {
	if i == nil {
		return 0
	}
	if i.Tuple != nil {
		return len(i.Tuple)
	}
	if i.Schema != nil {
		return 1
	}
	return 0
}

// At returns the schema governing the given index. The single-schema form
// applies to every index; tuples return nil past their length.
func (i *Items) At(index int) *Schema {
	if i == nil || index < 0 {
		return nil
	}
	if i.Tuple != nil {
		if index >= len(i.Tuple) {
			return nil
		}
		return i.Tuple[index]
	}
	return i.Schema
}

// AdditionalItems carries the additionalItems keyword: boolean false forbids
// overflow items, a schema both allows and types them.
type AdditionalItems struct {
	Allowed bool
	Schema  *Schema
}

// Dependency is one entry of the dependencies keyword: either a list of
// property names that become required when the key is filled, or a schema
// whose properties are merged into the host object.
type Dependency struct {
	Keys   []string
	Schema *Schema
}

// Exclusive captures exclusiveMinimum/exclusiveMaximum, boolean in draft-4
// and numeric from draft-6 on.
type Exclusive struct {
	Value *float64
	Bool  bool
}
