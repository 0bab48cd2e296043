// Package formbind converts a JSON Schema document into a live,
// two-way-bound form field tree: field state, validation attributes,
// sibling dependencies, and dynamic array/object nesting, ready for an
// external rendering layer to consume.
package formbind

import (
	"github.com/goliatone/go-formbind/pkg/descriptor"
	"github.com/goliatone/go-formbind/pkg/field"
	"github.com/goliatone/go-formbind/pkg/parser"
	"github.com/goliatone/go-formbind/pkg/schema"
)

// Option configures a Form before its first parse.
type Option func(*config)

type config struct {
	opts   parser.Options
	custom map[field.Kind]parser.Constructor
}

// WithModel seeds the form with an initial value.
func WithModel(model any) Option {
	return func(cfg *config) { cfg.opts.Model = model }
}

// WithName sets the root field name. Root objects ignore it; scalars and
// arrays use it as their form-field name and child-name prefix.
func WithName(name string) Option {
	return func(cfg *config) { cfg.opts.Name = name }
}

// WithID pins the root field id instead of generating one.
func WithID(id string) Option {
	return func(cfg *config) { cfg.opts.ID = id }
}

// WithKind overrides kind detection for the root schema.
func WithKind(kind field.Kind) Option {
	return func(cfg *config) { cfg.opts.Kind = kind }
}

// WithRequired marks the root field required.
func WithRequired() Option {
	return func(cfg *config) { cfg.opts.Required = true }
}

// WithDescriptor supplies the root descriptor declaratively.
func WithDescriptor(d *descriptor.Descriptor) Option {
	return func(cfg *config) { cfg.opts.Descriptor = d }
}

// WithDescriptorConstructor injects a descriptor resolver consulted for
// every node without a declarative descriptor.
func WithDescriptorConstructor(ctor descriptor.Constructor) Option {
	return func(cfg *config) { cfg.opts.DescriptorConstructor = ctor }
}

// WithBracketedNames switches nested field names from dot paths to the
// bracketed convention (parent[child], name[] for array items).
func WithBracketedNames() Option {
	return func(cfg *config) { cfg.opts.BracketedNames = true }
}

// WithRenderFunc registers the host callback receiving fields that must be
// re-rendered after attribute or identity changes.
func WithRenderFunc(fn parser.RenderFunc) Option {
	return func(cfg *config) { cfg.opts.RequestRender = fn }
}

// WithOnChange observes every committed aggregate value.
func WithOnChange(fn func(value any)) Option {
	return func(cfg *config) {
		if fn == nil {
			return
		}
		cfg.opts.OnChange = func(value any, _ *field.Field) { fn(value) }
	}
}

// WithParser registers a custom kind constructor, consulted before the
// built-in dispatch.
func WithParser(kind field.Kind, ctor parser.Constructor) Option {
	return func(cfg *config) {
		if cfg.custom == nil {
			cfg.custom = make(map[field.Kind]parser.Constructor)
		}
		cfg.custom[kind] = ctor
	}
}

// Form owns one schema walk and its resulting field tree.
type Form struct {
	tree *parser.Tree
	root *field.Field
}

// New prepares a form for the given schema. Parse builds the field tree.
func New(s *schema.Schema, options ...Option) *Form {
	cfg := config{}
	cfg.opts.Schema = s
	for _, opt := range options {
		opt(&cfg)
	}
	tree := parser.NewTree(cfg.opts)
	for kind, ctor := range cfg.custom {
		tree.Register(kind, ctor)
	}
	return &Form{tree: tree}
}

// ParseBytes decodes a JSON or YAML schema document and prepares a form
// for it.
func ParseBytes(data []byte, options ...Option) (*Form, error) {
	s, err := schema.Decode(data)
	if err != nil {
		return nil, err
	}
	return New(s, options...), nil
}

// Parse builds the field tree and returns its root. A nil root means the
// schema resolved to no supported field; this is a valid no-op outcome,
// not an error.
func (f *Form) Parse() *field.Field {
	if f == nil {
		return nil
	}
	f.root = f.tree.Parse()
	return f.root
}

// Field returns the most recently parsed root field.
func (f *Form) Field() *field.Field {
	if f == nil {
		return nil
	}
	return f.root
}

// Value returns the aggregate typed model.
func (f *Form) Value() any {
	if f == nil {
		return nil
	}
	root := f.tree.Root()
	if root == nil {
		return nil
	}
	return root.Model()
}

// Reset restores the whole tree to its initial value.
func (f *Form) Reset() {
	if f == nil {
		return
	}
	if root := f.tree.Root(); root != nil {
		root.Reset()
	}
}

// Tree exposes the underlying walk context.
func (f *Form) Tree() *parser.Tree {
	if f == nil {
		return nil
	}
	return f.tree
}
