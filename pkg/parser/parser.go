// Package parser implements the schema-to-field engine: a family of
// cooperating parsers that walk a JSON Schema tree and produce a matching
// tree of field descriptors carrying current values, validation attributes,
// child relationships, and mutation entry points.
//
// Parsing is a single synchronous tree build. User input flows strictly
// upward: SetValue -> Commit -> parent OnChange -> parent Commit, then
// outward once through the tree's render callback. The engine holds no
// package-level mutable state; every counter and identity source lives on
// the per-walk Tree.
package parser

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/goliatone/go-formbind/pkg/descriptor"
	"github.com/goliatone/go-formbind/pkg/field"
	"github.com/goliatone/go-formbind/pkg/schema"
)

// RenderFunc receives fields whose identity or attributes changed and must
// be re-rendered by the host.
type RenderFunc func(fields []*field.Field)

// ChangeFunc observes committed model values alongside the field that
// produced them.
type ChangeFunc func(value any, f *field.Field)

// Options configures a parser instance. Parent parsers derive child options
// from their own when recursing.
type Options struct {
	Schema   *schema.Schema
	Model    any
	ID       string
	Name     string
	Kind     field.Kind
	Required bool

	Descriptor            *descriptor.Descriptor
	DescriptorConstructor descriptor.Constructor

	OnChange      ChangeFunc
	RequestRender RenderFunc

	// BracketedNames switches nested field names from dot paths
	// (parent.child) to bracketed form (parent[child], name[] for items).
	BracketedNames bool

	enumItem bool
}

// Constructor builds a parser for a schema node inside a tree. It is the
// extension-hook signature for third-party kinds.
type Constructor func(t *Tree, opts Options, parent int) Parser

// Parser is the runtime object interpreting one schema node plus its
// current value into a field.
type Parser interface {
	field.Controller

	// Parse populates the field synchronously from schema and model state.
	// It recomputes attributes from the schema on every call and commits
	// whatever the model currently holds.
	Parse()
	Field() *field.Field
	Kind() field.Kind
	// Model returns the typed current value, exclusively owned by this
	// parser.
	Model() any
	// RawValue returns the form-facing value, which may differ in shape
	// from the model.
	RawValue() any
	// IsEmpty reports whether the given value counts as "no value".
	IsEmpty(value any) bool
	// SetRequired rewrites the required flag and dependent attributes. It
	// never triggers change notification: requiredness propagation is a
	// pure attribute rewrite.
	SetRequired(required bool)
}

// Tree is the arena owning every parser built during one schema walk. Nodes
// are addressed by stable index with the root at index zero; each node
// records its parent index, so upward lookups never form reference cycles.
type Tree struct {
	opts     Options
	nodes    []Parser
	parents  []int
	ids      *generator
	render   RenderFunc
	registry map[field.Kind]Constructor
}

// NewTree prepares a walk context for the given root options. Custom kinds
// may be registered before Parse.
func NewTree(opts Options) *Tree {
	return &Tree{
		opts:   opts,
		ids:    newGenerator(),
		render: opts.RequestRender,
	}
}

// Register associates a field kind with a constructor. Registered kinds are
// consulted before the built-in dispatch, so they may also shadow it.
func (t *Tree) Register(kind field.Kind, ctor Constructor) {
	if t == nil || kind == field.KindUnknown || ctor == nil {
		return
	}
	if t.registry == nil {
		t.registry = make(map[field.Kind]Constructor)
	}
	t.registry[kind] = ctor
}

// Parse builds the parser tree and returns the root field. A nil result
// means no parser matched the root schema; callers treat it as "form
// omitted", not as an error.
func (t *Tree) Parse() *field.Field {
	if t == nil {
		return nil
	}
	t.nodes = t.nodes[:0]
	t.parents = t.parents[:0]
	root := t.Get(t.opts, -1)
	if root == nil {
		return nil
	}
	root.Parse()
	return root.Field()
}

// Root returns the root parser, nil before Parse or when the root schema is
// unsupported.
func (t *Tree) Root() Parser {
	if t == nil || len(t.nodes) == 0 {
		return nil
	}
	return t.nodes[0]
}

// Parent returns the parser owning the supplied one, nil for the root.
func (t *Tree) Parent(p Parser) Parser {
	if t == nil || p == nil {
		return nil
	}
	for idx, candidate := range t.nodes {
		if candidate == p {
			parent := t.parents[idx]
			if parent < 0 || parent >= len(t.nodes) {
				return nil
			}
			return t.nodes[parent]
		}
	}
	return nil
}

func (t *Tree) attach(p Parser, parent int) int {
	t.nodes = append(t.nodes, p)
	t.parents = append(t.parents, parent)
	return len(t.nodes) - 1
}

func (t *Tree) requestRender(fields []*field.Field) {
	if t == nil || t.render == nil || len(fields) == 0 {
		return
	}
	t.render(fields)
}

// node carries the state shared by every built-in parser.
type node struct {
	tree      *Tree
	idx       int
	parentIdx int
	kind      field.Kind
	sch       *schema.Schema
	opts      Options
	fld       *field.Field
	model     any
	raw       any
	initial   any
	required  bool
	enumItem  bool
	desc      *descriptor.Descriptor
}

func newNode(t *Tree, opts Options, parent int, kind field.Kind) node {
	return node{
		tree:      t,
		parentIdx: parent,
		kind:      kind,
		sch:       opts.Schema,
		opts:      opts,
		model:     opts.Model,
		raw:       opts.Model,
		initial:   opts.Model,
		required:  opts.Required,
		enumItem:  opts.enumItem,
		desc:      resolveDescriptor(t, opts),
	}
}

func (n *node) Field() *field.Field { return n.fld }

// Kind reports the resolved field kind. Scalar members of an enumerated set
// surface as radio items regardless of their schema type.
func (n *node) Kind() field.Kind {
	if n.enumItem && n.kind.Scalar() {
		return field.KindRadio
	}
	return n.kind
}

func (n *node) Model() any    { return n.model }
func (n *node) RawValue() any { return n.raw }

// IsEmpty treats nil, empty strings, and zero-length collections as "no
// value"; everything else, including false and zero, counts as filled.
func (n *node) IsEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	default:
		return false
	}
}

// Root walks the arena to the tree's first node.
func (n *node) Root() Parser {
	if n.tree == nil {
		return nil
	}
	return n.tree.Root()
}

func (n *node) id() string {
	if n.opts.ID != "" {
		return n.opts.ID
	}
	prefix := n.opts.Name
	if prefix == "" {
		prefix = string(n.kind)
	}
	return n.tree.ids.Next(prefix)
}

func (n *node) label() string {
	if n.desc != nil && n.desc.Label != "" {
		return n.desc.Label
	}
	if n.sch != nil {
		return n.sch.Title
	}
	return ""
}

func (n *node) description() string {
	if n.desc != nil && n.desc.HelpText != "" {
		return n.desc.HelpText
	}
	if n.sch != nil {
		return n.sch.Description
	}
	return ""
}

func (n *node) placeholder() string {
	if n.desc != nil {
		return n.desc.Placeholder
	}
	return ""
}

func (n *node) component() string {
	if n.desc != nil {
		return n.desc.Component
	}
	return ""
}

func (n *node) notify(value any) {
	if n.opts.OnChange != nil {
		n.opts.OnChange(value, n.fld)
	}
}

func resolveDescriptor(t *Tree, opts Options) *descriptor.Descriptor {
	if opts.Descriptor != nil {
		return opts.Descriptor
	}
	if opts.DescriptorConstructor != nil {
		return opts.DescriptorConstructor(opts.Schema)
	}
	return nil
}

// generator issues walk-scoped ids and render-identity keys. Ids derive
// from per-prefix counters so repeated prefixes stay readable and stable
// within a walk; keys are random so a regenerated key never matches the one
// it replaces.
type generator struct {
	counters map[string]int
}

func newGenerator() *generator {
	return &generator{counters: make(map[string]int)}
}

func (g *generator) Next(prefix string) string {
	if prefix == "" {
		prefix = "field"
	}
	g.counters[prefix]++
	return fmt.Sprintf("%s-%d", prefix, g.counters[prefix])
}

func (g *generator) Key() string {
	return uuid.NewString()
}

func (g *generator) Group() string {
	return g.Next("radio")
}
