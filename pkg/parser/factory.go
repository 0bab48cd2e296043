package parser

import (
	"github.com/goliatone/go-formbind/pkg/field"
	"github.com/goliatone/go-formbind/pkg/schema"
)

// Get resolves the parser for a schema node and builds it inside the tree.
// Resolution order: registered custom kinds, then the built-in dispatch. A
// nil return signals "skip this node": the schema fragment is unsupported
// and the field is simply omitted. Callers never treat nil as a failure.
func (t *Tree) Get(opts Options, parent int) Parser {
	if t == nil {
		return nil
	}
	kind := ResolveKind(opts.Schema, opts)
	if kind == field.KindUnknown {
		return nil
	}
	if ctor, ok := t.registry[kind]; ok {
		return ctor(t, opts, parent)
	}
	switch kind {
	case field.KindString, field.KindTextarea, field.KindFile, field.KindRadio:
		return newString(t, opts, parent, kind)
	case field.KindBoolean, field.KindCheckbox:
		return newBoolean(t, opts, parent, kind)
	case field.KindNull:
		return newNull(t, opts, parent)
	case field.KindNumber:
		return newNumber(t, opts, parent)
	case field.KindInteger:
		return newInteger(t, opts, parent)
	case field.KindEnum:
		return newEnum(t, opts, parent)
	case field.KindObject:
		return newObject(t, opts, parent)
	case field.KindArray:
		return newArray(t, opts, parent)
	default:
		return nil
	}
}

// Attach registers an externally constructed parser in the tree's arena and
// returns its index. Custom Constructor implementations call this once.
func (t *Tree) Attach(p Parser, parent int) int {
	if t == nil || p == nil {
		return -1
	}
	return t.attach(p, parent)
}

// ResolveKind applies the kind-detection rules for a schema node:
//
//  1. an explicit kind in the options wins;
//  2. a descriptor-declared kind comes next;
//  3. scalar schemas with a non-empty enum become enum groups, unless the
//     node is itself a member of an enumerated set;
//  4. string formats map to specialised kinds (file, textarea);
//  5. otherwise the schema type is taken as-is, which also gives registered
//     custom kinds a chance to match.
func ResolveKind(s *schema.Schema, opts Options) field.Kind {
	if opts.Kind != field.KindUnknown {
		return opts.Kind
	}
	if opts.Descriptor != nil && opts.Descriptor.Kind != "" {
		return field.Kind(opts.Descriptor.Kind)
	}
	if s == nil {
		return field.KindUnknown
	}
	switch s.Type {
	case "object":
		return field.KindObject
	case "array":
		return field.KindArray
	}
	if len(s.Enum) > 0 && !opts.enumItem {
		return field.KindEnum
	}
	switch s.Type {
	case "string":
		switch s.Format {
		case "file", "data-url":
			return field.KindFile
		case "textarea":
			return field.KindTextarea
		default:
			return field.KindString
		}
	case "number":
		return field.KindNumber
	case "integer":
		return field.KindInteger
	case "boolean":
		return field.KindBoolean
	case "null":
		return field.KindNull
	case "":
		if s.Properties.Len() > 0 {
			return field.KindObject
		}
		return field.KindUnknown
	default:
		return field.Kind(s.Type)
	}
}
