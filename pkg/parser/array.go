package parser

import (
	"strconv"

	"github.com/goliatone/go-formbind/pkg/field"
	"github.com/goliatone/go-formbind/pkg/schema"
)

// Sentinel values for the array's item ceiling.
const (
	// maxUnbounded marks arrays that may grow without limit: an open
	// single-item schema or a tuple whose additionalItems allows overflow.
	maxUnbounded = -1
	// maxNoItems marks arrays with no declared item schema at all.
	maxNoItems = -2
)

// Array maps schema items to indexed child parsers. Three shapes exist: a
// single item schema (homogeneous, reorderable list), a tuple of schemas
// (heterogeneous positional list), and uniqueItems over an enumerated item
// schema (fixed checkbox group). The child roster, the raw value slice, and
// the rendered field list always stay index-aligned.
type Array struct {
	Set
	rawItems []any
	// slots maps each roster position to its backing index in rawItems.
	// The two diverge when a tuple member schema is unsupported: the slot
	// stays in rawItems but produces no child.
	slots    []int
	count    int
	max      int
	sortable bool
	unique   bool
}

func newArray(t *Tree, opts Options, parent int) *Array {
	p := &Array{Set: Set{node: newNode(t, opts, parent, field.KindArray)}}
	p.rawItems = cloneValueSlice(opts.Model)
	p.raw = p.rawItems
	p.initial = cloneValueSlice(opts.Model)
	p.idx = t.attach(p, parent)
	return p
}

// Parse derives the array shape, builds the indexed children, and computes
// the aggregate model.
func (p *Array) Parse() {
	p.deriveShape()
	p.fld = &field.Field{
		Kind:        field.KindArray,
		Name:        p.opts.Name,
		ID:          p.id(),
		Key:         p.tree.ids.Key(),
		Label:       p.label(),
		Description: p.description(),
		Required:    p.required,
		Attrs:       p.setAttrs(),
		Max:         p.max,
		Sortable:    p.sortable,
	}
	p.fld.Push = &field.Button{
		Disabled: func() bool { return p.max >= 0 && p.count >= p.max },
		Trigger:  p.Push,
	}
	p.fld.Bind(p)
	p.buildChildren()
	p.recompute()
}

func (p *Array) deriveShape() {
	s := p.sch
	p.unique = s != nil && s.UniqueItems && s.Items != nil && !s.Items.IsTuple() &&
		s.Items.Schema != nil && len(s.Items.Schema.Enum) > 0

	minItems := 0
	if s != nil && s.MinItems != nil {
		minItems = *s.MinItems
	} else if p.required {
		// A required array renders at least one item slot.
		minItems = 1
	}

	switch {
	case p.unique:
		n := len(s.Items.Schema.Enum)
		p.max = n
		p.count = n
		p.sortable = false
	case s == nil || s.Items == nil || s.Items.Len() == 0:
		p.max = maxNoItems
		p.sortable = false
		p.count = max(len(p.rawItems), minItems)
	case s.Items.IsTuple():
		p.sortable = false
		switch {
		case s.MaxItems != nil:
			p.max = *s.MaxItems
		case s.AdditionalItems != nil && s.AdditionalItems.Allowed:
			// Both the boolean-true and the schema form lift the ceiling;
			// only the schema form also types and renders the overflow.
			p.max = maxUnbounded
		default:
			p.max = len(s.Items.Tuple)
		}
		p.count = p.clampCount(max(len(p.rawItems), minItems))
	default:
		p.sortable = true
		if s.MaxItems != nil {
			p.max = *s.MaxItems
		} else {
			p.max = maxUnbounded
		}
		p.count = p.clampCount(max(len(p.rawItems), minItems))
	}
	p.ensureRaw(p.count)
}

func (p *Array) clampCount(n int) int {
	if p.max >= 0 && n > p.max {
		return p.max
	}
	return n
}

// limit is the number of renderable item slots. Unique-items groups always
// render the full enum-derived list; tuples stop at their declared length
// unless an additionalItems schema types the overflow.
func (p *Array) limit() int {
	switch {
	case p.unique:
		return p.count
	case p.sch == nil || p.sch.Items == nil || p.sch.Items.Len() == 0:
		return 0
	case p.sch.Items.IsTuple():
		declared := len(p.sch.Items.Tuple)
		if p.additionalSchema() != nil {
			return p.count
		}
		return min(p.count, declared)
	default:
		return p.count
	}
}

func (p *Array) additionalSchema() *schema.Schema {
	if p.sch == nil || p.sch.AdditionalItems == nil {
		return nil
	}
	return p.sch.AdditionalItems.Schema
}

func (p *Array) itemSchemaAt(index int) *schema.Schema {
	if p.unique {
		value := p.sch.Items.Schema.Enum[index]
		return &schema.Schema{Type: "boolean", Title: attrString(value)}
	}
	if p.sch == nil || p.sch.Items == nil {
		return nil
	}
	items := p.sch.Items
	if !items.IsTuple() {
		return items.Schema
	}
	if index < len(items.Tuple) {
		return items.Tuple[index]
	}
	return p.additionalSchema()
}

func (p *Array) buildChildren() {
	p.children = p.children[:0]
	p.slots = p.slots[:0]
	limit := p.limit()
	p.ensureRaw(limit)
	for index := 0; index < limit; index++ {
		if child := p.buildItem(index); child != nil {
			p.children = append(p.children, child)
			p.slots = append(p.slots, index)
		}
	}
	p.syncChildren()
	p.refreshCounts()
}

func (p *Array) buildItem(index int) Parser {
	opts := p.childOptions()
	opts.Name = p.itemName()
	opts.ID = p.fld.ID + "-" + strconv.Itoa(index)
	opts.Schema = p.itemSchemaAt(index)
	if opts.Schema == nil {
		return nil
	}

	if p.unique {
		opts.Kind = field.KindCheckbox
		opts.Model = p.rawItems[index] != nil
		opts.OnChange = p.toggleChange()
	} else {
		opts.Model = p.rawItems[index]
		opts.Descriptor = p.desc.Item(index)
		opts.OnChange = p.itemChange()
	}

	child := p.tree.Get(opts, p.idx)
	if child == nil {
		return nil
	}
	child.Parse()
	f := child.Field()
	if p.unique {
		value := p.sch.Items.Schema.Enum[index]
		f.Attrs[field.AttrValue] = attrString(value)
		if p.rawItems[index] != nil {
			f.Attrs[field.AttrChecked] = "checked"
		}
	}
	if p.sortable {
		f.Buttons = p.itemButtons(child)
	}
	return child
}

func (p *Array) itemName() string {
	if p.opts.BracketedNames {
		return p.opts.Name + "[]"
	}
	return p.opts.Name
}

// itemButtons binds the per-item controls to the child parser rather than
// to a captured index, so they survive reordering.
func (p *Array) itemButtons(child Parser) *field.Buttons {
	return &field.Buttons{
		MoveUp: &field.Button{
			Disabled: func() bool { return !p.sortable || p.indexOf(child) <= 0 },
			Trigger:  func() { index := p.indexOf(child); p.Move(index, index-1) },
		},
		MoveDown: &field.Button{
			Disabled: func() bool {
				index := p.indexOf(child)
				return !p.sortable || index < 0 || index >= len(p.children)-1
			},
			Trigger: func() { index := p.indexOf(child); p.Move(index, index+1) },
		},
		Delete: &field.Button{
			Disabled: func() bool { return !p.sortable },
			Trigger:  func() { p.Delete(p.indexOf(child)) },
		},
	}
}

// itemChange routes a child commit into SetIndexValue at the child's
// backing raw index, which may differ from its roster position when a
// tuple member was skipped.
func (p *Array) itemChange() ChangeFunc {
	return func(_ any, f *field.Field) {
		pos := p.indexOfField(f)
		if pos < 0 {
			return
		}
		p.SetIndexValue(p.slots[pos], p.children[pos].RawValue())
	}
}

// toggleChange flips an enum value's membership in the model array. Off
// leaves an explicit hole: positions are index-addressed.
func (p *Array) toggleChange() ChangeFunc {
	return func(value any, f *field.Field) {
		pos := p.indexOfField(f)
		if pos < 0 {
			return
		}
		slot := p.slots[pos]
		if on, ok := value.(bool); ok && on {
			p.rawItems[slot] = p.sch.Items.Schema.Enum[slot]
			f.Attrs[field.AttrChecked] = "checked"
		} else {
			p.rawItems[slot] = nil
			delete(f.Attrs, field.AttrChecked)
		}
		p.recompute()
		p.Commit()
	}
}

// SetIndexValue writes a raw value at a rawItems index and recomputes the
// whole model by coercing the raw array, keeping the model a pure function
// of the raw value.
func (p *Array) SetIndexValue(index int, value any) {
	if index < 0 || index >= len(p.rawItems) {
		return
	}
	p.rawItems[index] = value
	p.recompute()
	p.Commit()
}

// Move swaps two items: child roster, raw values, and rendered order move
// together, and both fields receive fresh render identities. It returns the
// field now at the target index, nil when the move was refused.
func (p *Array) Move(from, to int) *field.Field {
	if !p.sortable || from == to {
		return nil
	}
	if from < 0 || to < 0 || from >= len(p.children) || to >= len(p.children) {
		return nil
	}
	p.children[from], p.children[to] = p.children[to], p.children[from]
	ri, rj := p.slots[from], p.slots[to]
	p.rawItems[ri], p.rawItems[rj] = p.rawItems[rj], p.rawItems[ri]
	moved := p.children[to].Field()
	other := p.children[from].Field()
	moved.Key = p.tree.ids.Key()
	other.Key = p.tree.ids.Key()
	p.syncChildren()
	p.recompute()
	p.Commit()
	p.tree.requestRender([]*field.Field{moved, other})
	return moved
}

// Delete removes the item at the given index. Fixed-shape arrays refuse the
// operation silently.
func (p *Array) Delete(index int) {
	if !p.sortable || index < 0 || index >= len(p.children) {
		return
	}
	slot := p.slots[index]
	p.children = append(p.children[:index], p.children[index+1:]...)
	p.rawItems = append(p.rawItems[:slot], p.rawItems[slot+1:]...)
	p.slots = append(p.slots[:index], p.slots[index+1:]...)
	for i := range p.slots {
		if p.slots[i] > slot {
			p.slots[i]--
		}
	}
	p.count--
	p.syncChildren()
	p.refreshCounts()
	p.recompute()
	p.Commit()
	p.tree.requestRender([]*field.Field{p.fld})
}

// Push materialises one more item slot, bounded by the schema-derived
// ceiling. Pushing at the ceiling is a silent no-op; the Push button's
// Disabled predicate lets the UI grey the control out instead.
func (p *Array) Push() {
	if p.max >= 0 && p.count >= p.max {
		return
	}
	p.count++
	p.ensureRaw(p.count)
	// The new slot is always the last raw position, regardless of how many
	// earlier slots produced children.
	if slot := p.count - 1; slot < p.limit() {
		if child := p.buildItem(slot); child != nil {
			p.children = append(p.children, child)
			p.slots = append(p.slots, slot)
		}
	}
	p.syncChildren()
	p.refreshCounts()
	p.recompute()
	p.Commit()
	p.tree.requestRender([]*field.Field{p.fld})
}

// Count returns the number of materialised items.
func (p *Array) Count() int { return p.count }

// Max returns the schema-derived ceiling, negative when unbounded.
func (p *Array) Max() int { return p.max }

// Sortable reports whether items may be reordered or removed.
func (p *Array) Sortable() bool { return p.sortable }

// Value returns the aggregate model array.
func (p *Array) Value() any { return p.model }

// SetValue replaces the raw array and rebuilds the item roster.
func (p *Array) SetValue(value any) {
	items, ok := value.([]any)
	if !ok && value != nil {
		return
	}
	p.rawItems = append([]any(nil), items...)
	p.raw = p.rawItems
	p.deriveShape()
	p.buildChildren()
	p.recompute()
	p.Commit()
}

// Commit notifies the parent with the aggregate model.
func (p *Array) Commit() {
	p.notify(p.model)
}

// Reset restores the initial raw array and rebuilds the roster.
func (p *Array) Reset() {
	p.rawItems = cloneValueSlice(p.initial)
	p.raw = p.rawItems
	p.deriveShape()
	p.buildChildren()
	p.recompute()
}

// Clear drops every item, keeping the minimum slot count, and commits the
// emptied aggregate to the parent.
func (p *Array) Clear() {
	p.rawItems = nil
	p.raw = p.rawItems
	p.deriveShape()
	p.buildChildren()
	p.recompute()
	p.Commit()
}

// SetRequired rewrites the required flag and attribute bag.
func (p *Array) SetRequired(required bool) {
	if p.required == required {
		return
	}
	p.required = required
	if p.fld != nil {
		p.fld.Required = required
		p.fld.Attrs = p.setAttrs()
	}
}

func (p *Array) recompute() {
	out := make([]any, len(p.rawItems))
	for index, raw := range p.rawItems {
		if raw == nil {
			continue
		}
		out[index] = p.coerceAt(index)(raw)
	}
	p.model = out
	p.raw = p.rawItems
}

func (p *Array) coerceAt(index int) func(any) any {
	if p.unique {
		// Unique-mode raw entries already hold typed enum values.
		return func(v any) any { return v }
	}
	kind := ResolveKind(p.itemSchemaAt(index), Options{enumItem: true})
	return coercerFor(kind)
}

func (p *Array) indexOf(child Parser) int {
	for index, candidate := range p.children {
		if candidate == child {
			return index
		}
	}
	return -1
}

func (p *Array) indexOfField(f *field.Field) int {
	for index, candidate := range p.children {
		if candidate != nil && candidate.Field() == f {
			return index
		}
	}
	return -1
}

func (p *Array) ensureRaw(n int) {
	for len(p.rawItems) < n {
		p.rawItems = append(p.rawItems, nil)
	}
	p.raw = p.rawItems
}

func (p *Array) refreshCounts() {
	if p.fld == nil {
		return
	}
	p.fld.Count = p.count
	p.fld.Max = p.max
	p.fld.Sortable = p.sortable
}

func cloneValueSlice(value any) []any {
	items, ok := value.([]any)
	if !ok {
		return nil
	}
	return append([]any(nil), items...)
}
