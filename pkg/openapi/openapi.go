// Package openapi extracts request-body schemas from OpenAPI 3 documents
// so they can drive the form field engine alongside plain JSON Schema
// input. Conversion is tolerant: unresolved references and unsupported
// fragments degrade to skippable nodes rather than failing the document.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/hashicorp/go-multierror"

	"github.com/goliatone/go-formbind/pkg/schema"
)

// Operation pairs an operation id with the request-body schema extracted
// for it.
type Operation struct {
	ID          string
	Method      string
	Path        string
	Summary     string
	Description string
	Schema      *schema.Schema
}

// Options tune document loading.
type Options struct {
	// ResolveReferences validates the document and resolves refs before
	// conversion. External refs stay forbidden unless enabled here.
	ResolveReferences bool
	// AllowPartialDocuments accepts documents where some operations carry
	// no convertible request body.
	AllowPartialDocuments bool
}

// Operations loads an OpenAPI document and converts every operation's
// request body, keyed by operation id. Operations without an id key under
// "method:path". Per-operation conversion problems aggregate; they only
// surface as an error when the document yields no usable operation at all.
func Operations(ctx context.Context, raw []byte, opts Options) (map[string]Operation, error) {
	if len(raw) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: opts.ResolveReferences,
	}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if opts.ResolveReferences {
		if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi: validate: %w", err)
		}
	}

	operations := make(map[string]Operation)
	var issues *multierror.Error
	if doc.Paths != nil {
		for path, item := range doc.Paths.Map() {
			if item == nil {
				continue
			}
			for method, op := range item.Operations() {
				id := op.OperationID
				if id == "" {
					id = strings.ToLower(method) + ":" + path
				}
				converted, err := requestSchema(op.RequestBody)
				if err != nil {
					issues = multierror.Append(issues, fmt.Errorf("openapi: operation %s: %w", id, err))
					continue
				}
				operations[id] = Operation{
					ID:          id,
					Method:      method,
					Path:        path,
					Summary:     op.Summary,
					Description: op.Description,
					Schema:      converted,
				}
			}
		}
	}

	if len(operations) == 0 && !opts.AllowPartialDocuments {
		issues = multierror.Append(issues, errors.New("openapi: no operations with a form schema"))
		return nil, issues.ErrorOrNil()
	}
	return operations, nil
}

// SchemaForOperation extracts the request-body schema of a single named
// operation.
func SchemaForOperation(ctx context.Context, raw []byte, operationID string, opts Options) (*schema.Schema, error) {
	opts.AllowPartialDocuments = true
	operations, err := Operations(ctx, raw, opts)
	if err != nil {
		return nil, err
	}
	op, ok := operations[operationID]
	if !ok {
		return nil, fmt.Errorf("openapi: operation %q not found", operationID)
	}
	if op.Schema == nil {
		return nil, fmt.Errorf("openapi: operation %q has no request schema", operationID)
	}
	return op.Schema, nil
}

var formMediaTypes = []string{
	"application/json",
	"application/x-www-form-urlencoded",
	"multipart/form-data",
}

func requestSchema(requestBody *openapi3.RequestBodyRef) (*schema.Schema, error) {
	if requestBody == nil || requestBody.Value == nil {
		return nil, errors.New("request body is absent or unresolved")
	}
	content := requestBody.Value.Content
	for _, mediaType := range formMediaTypes {
		if mt, ok := content[mediaType]; ok {
			return convertSchema(mt.Schema), nil
		}
	}
	for _, mt := range content {
		return convertSchema(mt.Schema), nil
	}
	return nil, errors.New("request body declares no content")
}

// convertSchema maps a resolved kin-openapi schema onto the engine's
// schema node. Unresolved refs convert to nil, which the field factory
// treats as a skippable fragment.
func convertSchema(ref *openapi3.SchemaRef) *schema.Schema {
	if ref == nil || ref.Value == nil {
		return nil
	}
	src := ref.Value
	out := &schema.Schema{
		Type:        firstType(src.Type),
		Format:      src.Format,
		Title:       src.Title,
		Description: src.Description,
		Default:     src.Default,
	}
	if len(src.Enum) > 0 {
		out.Enum = append([]any(nil), src.Enum...)
	}
	if len(src.Required) > 0 {
		out.Required = append([]string(nil), src.Required...)
	}
	if len(src.Properties) > 0 {
		names := make([]string, 0, len(src.Properties))
		for name := range src.Properties {
			names = append(names, name)
		}
		sort.Strings(names)
		props := schema.NewProperties()
		for _, name := range names {
			if child := convertSchema(src.Properties[name]); child != nil {
				props.Set(name, child)
			}
		}
		out.Properties = props
	}
	if src.Items != nil {
		if child := convertSchema(src.Items); child != nil {
			out.Items = &schema.Items{Schema: child}
		}
	}
	if src.Min != nil {
		value := *src.Min
		out.Minimum = &value
	}
	if src.Max != nil {
		value := *src.Max
		out.Maximum = &value
	}
	if src.ExclusiveMin {
		out.ExclusiveMinimum = &schema.Exclusive{Bool: true}
	}
	if src.ExclusiveMax {
		out.ExclusiveMaximum = &schema.Exclusive{Bool: true}
	}
	if src.MultipleOf != nil {
		value := *src.MultipleOf
		out.MultipleOf = &value
	}
	if src.MinLength != 0 {
		value := int(src.MinLength)
		out.MinLength = &value
	}
	if src.MaxLength != nil {
		value := int(*src.MaxLength)
		out.MaxLength = &value
	}
	out.Pattern = src.Pattern
	if src.MinItems != 0 {
		value := int(src.MinItems)
		out.MinItems = &value
	}
	if src.MaxItems != nil {
		value := int(*src.MaxItems)
		out.MaxItems = &value
	}
	out.UniqueItems = src.UniqueItems
	return out
}

func firstType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
