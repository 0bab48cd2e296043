package parser

import (
	"github.com/goliatone/go-formbind/pkg/field"
	"github.com/goliatone/go-formbind/pkg/schema"
)

// Object maps schema properties to child parsers and resolves the
// dependencies keyword into conditional-required cascades across siblings.
// Its model is a plain key-value map that children write back into through
// their change callbacks.
type Object struct {
	Set
	// props is a walk-local snapshot of the schema's properties with
	// schema-form dependency properties folded in; the source tree is
	// never written.
	props *schema.Properties
	order []string
	// deps maps a triggering property to the keys that become required
	// while the trigger is filled.
	deps  map[string][]string
	byKey map[string]Parser
}

func newObject(t *Tree, opts Options, parent int) *Object {
	p := &Object{Set: Set{node: newNode(t, opts, parent, field.KindObject)}}
	m := cloneValueMap(opts.Model)
	p.model = m
	p.raw = m
	p.initial = cloneValueMap(opts.Model)
	p.idx = t.attach(p, parent)
	return p
}

// Parse snapshots the schema properties, resolves dependencies, and builds
// one child parser per property. Properties order by the descriptor's
// explicit order list when present, with leftovers appended in declaration
// order.
func (p *Object) Parse() {
	p.snapshot()
	p.order = p.resolveOrder()

	name := p.opts.Name
	if p.parentIdx < 0 {
		// A root object has no addressable form-field name.
		name = ""
	}
	p.fld = &field.Field{
		Kind:        field.KindObject,
		Name:        name,
		ID:          p.id(),
		Key:         p.tree.ids.Key(),
		Label:       p.label(),
		Description: p.description(),
		Required:    p.required,
		Attrs:       p.objectAttrs(),
	}
	p.fld.Bind(p)

	p.children = p.children[:0]
	p.byKey = make(map[string]Parser, p.props.Len())
	for _, key := range p.order {
		p.buildProperty(key)
	}
	p.syncChildren()
	p.fld.Groups = p.buildGroups()
}

// buildGroups resolves the descriptor's group sections against the built
// roster. Members keep their declared order; keys that resolved to no child
// are skipped, and a group left without members is dropped.
func (p *Object) buildGroups() []field.Group {
	if p.desc == nil || len(p.desc.Groups) == 0 {
		return nil
	}
	groups := make([]field.Group, 0, len(p.desc.Groups))
	for _, g := range p.desc.Groups {
		members := make([]*field.Field, 0, len(g.Properties))
		for _, key := range g.Properties {
			if child, ok := p.byKey[key]; ok {
				members = append(members, child.Field())
			}
		}
		if len(members) == 0 {
			continue
		}
		groups = append(groups, field.Group{ID: g.ID, Label: g.Label, Fields: members})
	}
	return groups
}

func (p *Object) buildProperty(key string) {
	propSchema, ok := p.props.Get(key)
	if !ok || propSchema == nil {
		return
	}
	opts := p.childOptions()
	opts.Schema = propSchema
	opts.Name = p.childName(key)
	opts.ID = p.fld.ID + "-" + key
	opts.Required = p.sch.IsRequired(key)
	opts.Descriptor = p.desc.Property(key)
	opts.OnChange = p.childChange(key)

	value, exists := p.modelMap()[key]
	if !exists {
		value = propSchema.Default
	}
	opts.Model = value

	child := p.tree.Get(opts, p.idx)
	if child == nil {
		// Unsupported fragment: the field is omitted, not an error.
		return
	}
	child.Parse()
	p.children = append(p.children, child)
	p.byKey[key] = child
	if model := child.Model(); !child.IsEmpty(model) {
		p.modelMap()[key] = model
	}
}

// snapshot resolves the dependencies keyword. The array form lists the
// dependent keys directly; the schema form contributes its properties to
// the local snapshot and marks them (plus its required list) dependent.
func (p *Object) snapshot() {
	p.props = schema.NewProperties()
	p.deps = make(map[string][]string)
	if p.sch == nil {
		return
	}
	if props := p.sch.Properties.Clone(); props != nil {
		p.props = props
	}
	for key, dep := range p.sch.Dependencies {
		switch {
		case dep == nil:
		case dep.Schema != nil:
			p.deps[key] = p.mergeDependentSchema(dep.Schema)
		case len(dep.Keys) > 0:
			p.deps[key] = append([]string(nil), dep.Keys...)
		}
	}
}

func (p *Object) mergeDependentSchema(dep *schema.Schema) []string {
	var keys []string
	if dep.Properties != nil {
		for _, propKey := range dep.Properties.Keys() {
			propSchema, _ := dep.Properties.Get(propKey)
			if existing, ok := p.props.Get(propKey); ok {
				combined := existing.Clone()
				if err := schema.Merge(combined, propSchema); err == nil {
					p.props.Set(propKey, combined)
				}
			} else {
				p.props.Set(propKey, propSchema)
			}
			keys = append(keys, propKey)
		}
	}
	for _, req := range dep.Required {
		if !containsString(keys, req) {
			keys = append(keys, req)
		}
	}
	return keys
}

func (p *Object) resolveOrder() []string {
	declared := p.props.Keys()
	if p.desc == nil || len(p.desc.Order) == 0 {
		return declared
	}
	order := make([]string, 0, len(declared))
	seen := make(map[string]struct{}, len(declared))
	for _, key := range p.desc.Order {
		if _, ok := p.props.Get(key); !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		order = append(order, key)
	}
	for _, key := range declared {
		if _, dup := seen[key]; !dup {
			order = append(order, key)
		}
	}
	return order
}

func (p *Object) childName(key string) string {
	parent := p.fld.Name
	if parent == "" {
		return key
	}
	if p.opts.BracketedNames {
		return parent + "[" + key + "]"
	}
	return parent + "." + key
}

// objectAttrs deliberately omits required/aria-required: they are not
// meaningful on a composite field.
func (p *Object) objectAttrs() map[string]string {
	attrs := make(map[string]string)
	if p.desc != nil {
		for name, value := range p.desc.Attrs {
			if name == field.AttrRequired || name == field.AttrAriaRequired {
				continue
			}
			attrs[name] = value
		}
	}
	return attrs
}

func (p *Object) childChange(key string) ChangeFunc {
	return func(value any, _ *field.Field) {
		if value == nil {
			delete(p.modelMap(), key)
		} else {
			p.modelMap()[key] = value
		}
		p.Commit()
		p.propagate(key)
	}
}

// Value returns the aggregate key-value model.
func (p *Object) Value() any { return p.model }

// SetValue distributes a map value across the child parsers; keys missing
// from the input clear their fields.
func (p *Object) SetValue(value any) {
	m, ok := value.(map[string]any)
	if !ok && value != nil {
		return
	}
	if len(p.children) == 0 {
		p.model = cloneValueMap(value)
		p.raw = p.model
		p.Commit()
		return
	}
	for _, key := range p.order {
		child, exists := p.byKey[key]
		if !exists {
			continue
		}
		child.SetValue(m[key])
	}
}

// Commit notifies the parent with the aggregate model.
func (p *Object) Commit() {
	p.raw = p.model
	p.notify(p.model)
}

// Reset restores every child and rebuilds the aggregate from the initial
// model overlaid with the children's restored values.
func (p *Object) Reset() {
	m := cloneValueMap(p.initial)
	for _, key := range p.order {
		child, exists := p.byKey[key]
		if !exists {
			continue
		}
		child.Reset()
		if model := child.Model(); !child.IsEmpty(model) {
			m[key] = model
		} else {
			delete(m, key)
		}
	}
	p.model = m
	p.raw = m
}

// Clear empties every child and the aggregate, then commits the empty
// mapping to the parent. Children commit their own removals on the way,
// which also reverts any dependency-driven requiredness.
func (p *Object) Clear() {
	for _, child := range p.children {
		child.Clear()
	}
	m := make(map[string]any)
	p.model = m
	p.raw = m
	p.Commit()
}

// SetRequired updates the flag only; composite fields carry no required
// attributes.
func (p *Object) SetRequired(required bool) {
	if p.required == required {
		return
	}
	p.required = required
	if p.fld != nil {
		p.fld.Required = required
	}
}

// propagate recomputes conditional requiredness after a commit to the given
// property. A dependent is required while ANY trigger listing it is filled;
// the trigger's own flag unions its fill state with other triggers that
// list it as dependent. Requiredness flips are pure attribute/key rewrites:
// they never re-enter the commit chain.
func (p *Object) propagate(key string) {
	dependents := p.deps[key]
	if len(dependents) == 0 && !p.isDependent(key) {
		return
	}

	var changed []*field.Field
	for _, dk := range dependents {
		dep, ok := p.byKey[dk]
		if !ok {
			// Dependency references a property with no parser: fail-soft.
			continue
		}
		required := p.sch.IsRequired(dk) || p.anyTriggerFilled(dk, "")
		if p.applyRequired(dep, required) {
			changed = append(changed, dep.Field())
		}
	}

	if trigger, ok := p.byKey[key]; ok && len(dependents) > 0 {
		own := p.sch.IsRequired(key) ||
			!trigger.IsEmpty(trigger.Model()) ||
			p.anyTriggerFilled(key, key)
		if p.applyRequired(trigger, own) {
			changed = append(changed, trigger.Field())
		}
	}

	p.tree.requestRender(changed)
}

// anyTriggerFilled reports whether any trigger other than exclude lists
// dependentKey and is itself non-empty.
func (p *Object) anyTriggerFilled(dependentKey, exclude string) bool {
	for trigger, keys := range p.deps {
		if trigger == exclude || !containsString(keys, dependentKey) {
			continue
		}
		tp, ok := p.byKey[trigger]
		if !ok {
			continue
		}
		if !tp.IsEmpty(tp.Model()) {
			return true
		}
	}
	return false
}

func (p *Object) isDependent(key string) bool {
	for _, keys := range p.deps {
		if containsString(keys, key) {
			return true
		}
	}
	return false
}

// applyRequired flips a child's required flag. When the child is currently
// empty its render identity regenerates, forcing the rendering layer to
// remount the field so the attribute change is visibly reflected.
func (p *Object) applyRequired(child Parser, required bool) bool {
	f := child.Field()
	if f == nil || f.Required == required {
		return false
	}
	child.SetRequired(required)
	if child.IsEmpty(child.Model()) {
		f.Key = p.tree.ids.Key()
	}
	return true
}

func (p *Object) modelMap() map[string]any {
	if m, ok := p.model.(map[string]any); ok {
		return m
	}
	m := make(map[string]any)
	p.model = m
	p.raw = m
	return m
}

func cloneValueMap(value any) map[string]any {
	m, ok := value.(map[string]any)
	if !ok {
		return make(map[string]any)
	}
	out := make(map[string]any, len(m))
	for key, entry := range m {
		out[key] = entry
	}
	return out
}

func containsString(list []string, target string) bool {
	for _, item := range list {
		if item == target {
			return true
		}
	}
	return false
}
