package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	json "github.com/goccy/go-json"

	formbind "github.com/goliatone/go-formbind"
	"github.com/goliatone/go-formbind/pkg/descriptor"
	"github.com/goliatone/go-formbind/pkg/field"
	"github.com/goliatone/go-formbind/pkg/openapi"
	"github.com/goliatone/go-formbind/pkg/schema"
)

func main() {
	source := flag.String("source", "", "schema document path (JSON Schema or OpenAPI)")
	operation := flag.String("operation", "", "OpenAPI operation ID; empty treats the source as a JSON Schema document")
	descriptors := flag.String("descriptors", "", "directory of descriptor documents")
	formID := flag.String("form", "", "descriptor form id to apply to the root schema")
	interactive := flag.Bool("interactive", false, "fill the form interactively before dumping")
	bracketed := flag.Bool("bracketed", false, "use bracketed field names (parent[child])")
	output := flag.String("output", "", "output file (stdout if empty)")
	flag.Parse()

	if *source == "" {
		log.Fatal("missing -source")
	}

	raw, err := os.ReadFile(*source)
	if err != nil {
		log.Fatalf("read source: %v", err)
	}

	sch, err := loadSchema(raw, *operation)
	if err != nil {
		log.Fatalf("load schema: %v", err)
	}

	options := []formbind.Option{formbind.WithName("form")}
	if *bracketed {
		options = append(options, formbind.WithBracketedNames())
	}
	if *descriptors != "" {
		store, err := descriptor.LoadFS(os.DirFS(*descriptors))
		if err != nil {
			log.Fatalf("load descriptors: %v", err)
		}
		options = append(options, descriptorOptions(store, *formID)...)
	}

	form := formbind.New(sch, options...)
	root := form.Parse()
	if root == nil {
		log.Fatal("schema resolved to no form fields")
	}

	if *interactive {
		if err := fill(root); err != nil {
			log.Fatalf("interactive fill: %v", err)
		}
	}

	dump, err := json.MarshalIndent(report(root, form.Value()), "", "  ")
	if err != nil {
		log.Fatalf("encode output: %v", err)
	}
	dump = append(dump, '\n')

	if *output != "" {
		if err := os.WriteFile(*output, dump, 0o644); err != nil {
			log.Fatalf("write output: %v", err)
		}
		fmt.Printf("Form written to %s\n", *output)
		return
	}
	os.Stdout.Write(dump)
}

func loadSchema(raw []byte, operation string) (*schema.Schema, error) {
	if operation == "" {
		return schema.Decode(raw)
	}
	return openapi.SchemaForOperation(context.Background(), raw, operation, openapi.Options{})
}

// descriptorOptions applies a named descriptor to the root and keeps the
// store available for title-keyed lookups on nested schemas.
func descriptorOptions(store *descriptor.Store, formID string) []formbind.Option {
	var options []formbind.Option
	if formID != "" {
		desc, ok := store.Descriptor(formID)
		if !ok {
			log.Fatalf("descriptor form %q not found", formID)
		}
		options = append(options, formbind.WithDescriptor(desc))
	}
	options = append(options, formbind.WithDescriptorConstructor(func(s *schema.Schema) *descriptor.Descriptor {
		if s == nil || s.Title == "" {
			return nil
		}
		desc, _ := store.Descriptor(s.Title)
		return desc
	}))
	return options
}

// fill walks the field tree and prompts for each scalar leaf. Composite
// fields recurse; array push/move controls are not exercised here.
func fill(f *field.Field) error {
	switch f.Kind {
	case field.KindObject, field.KindArray:
		for _, child := range f.Children {
			if err := fill(child); err != nil {
				return err
			}
		}
		return nil
	case field.KindEnum:
		return fillEnum(f)
	case field.KindBoolean:
		return fillBoolean(f)
	case field.KindNull:
		return nil
	default:
		return fillText(f)
	}
}

func fillEnum(f *field.Field) error {
	options := make([]string, 0, len(f.Children))
	for _, item := range f.Children {
		options = append(options, item.Attrs[field.AttrValue])
	}
	if len(options) == 0 {
		return nil
	}
	prompt := &survey.Select{
		Message: promptMessage(f),
		Options: options,
	}
	var answer string
	if err := survey.AskOne(prompt, &answer); err != nil {
		return err
	}
	f.SetValue(answer)
	return nil
}

func fillBoolean(f *field.Field) error {
	prompt := &survey.Confirm{Message: promptMessage(f)}
	var answer bool
	if err := survey.AskOne(prompt, &answer); err != nil {
		return err
	}
	f.SetValue(answer)
	return nil
}

func fillText(f *field.Field) error {
	prompt := &survey.Input{Message: promptMessage(f)}
	if current := f.Value(); current != nil {
		prompt.Default = fmt.Sprint(current)
	}
	var answer string
	opts := []survey.AskOpt{}
	if f.Required {
		opts = append(opts, survey.WithValidator(survey.Required))
	}
	if err := survey.AskOne(prompt, &answer, opts...); err != nil {
		return err
	}
	if strings.TrimSpace(answer) == "" {
		f.Clear()
		return nil
	}
	f.SetValue(answer)
	return nil
}

func promptMessage(f *field.Field) string {
	if f.Label != "" {
		return f.Label
	}
	if f.Name != "" {
		return f.Name
	}
	return string(f.Kind)
}

func report(root *field.Field, value any) map[string]any {
	return map[string]any{
		"fields": root.Snapshot(),
		"value":  value,
	}
}
