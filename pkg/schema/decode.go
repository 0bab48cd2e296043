package schema

import (
	"bytes"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Decode parses a schema document, accepting JSON or YAML payloads. A
// payload whose first significant byte opens a JSON object is treated as
// JSON; everything else goes through the YAML decoder.
func Decode(data []byte) (*Schema, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("schema: document is empty")
	}
	if trimmed[0] == '{' {
		return DecodeJSON(trimmed)
	}
	return DecodeYAML(trimmed)
}

// DecodeJSON parses a JSON schema document.
func DecodeJSON(data []byte) (*Schema, error) {
	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("schema: parse json: %w", err)
	}
	return &s, nil
}

// DecodeYAML parses a YAML schema document.
func DecodeYAML(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("schema: parse yaml: %w", err)
	}
	return &s, nil
}

// UnmarshalJSON decodes the properties object while recording key
// declaration order, which the default map decoding would lose.
func (p *Properties) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("schema: properties: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("schema: properties must be an object")
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("schema: properties: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return errors.New("schema: properties key must be a string")
		}
		child := &Schema{}
		if err := dec.Decode(child); err != nil {
			return fmt.Errorf("schema: property %q: %w", key, err)
		}
		p.Set(key, child)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("schema: properties: %w", err)
	}
	return nil
}

// UnmarshalYAML decodes a properties mapping preserving key order.
func (p *Properties) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return errors.New("schema: properties must be a mapping")
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		var key string
		if err := value.Content[i].Decode(&key); err != nil {
			return fmt.Errorf("schema: properties: %w", err)
		}
		child := &Schema{}
		if err := value.Content[i+1].Decode(child); err != nil {
			return fmt.Errorf("schema: property %q: %w", key, err)
		}
		p.Set(key, child)
	}
	return nil
}

// UnmarshalJSON accepts both items forms: a single schema object or a
// positional tuple of schemas.
func (i *Items) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &i.Tuple); err != nil {
			return fmt.Errorf("schema: items tuple: %w", err)
		}
		if i.Tuple == nil {
			i.Tuple = []*Schema{}
		}
		return nil
	}
	i.Schema = &Schema{}
	if err := json.Unmarshal(trimmed, i.Schema); err != nil {
		return fmt.Errorf("schema: items: %w", err)
	}
	return nil
}

// UnmarshalYAML mirrors the JSON items handling for YAML payloads.
func (i *Items) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		i.Tuple = make([]*Schema, 0, len(value.Content))
		for idx, node := range value.Content {
			child := &Schema{}
			if err := node.Decode(child); err != nil {
				return fmt.Errorf("schema: items[%d]: %w", idx, err)
			}
			i.Tuple = append(i.Tuple, child)
		}
		return nil
	}
	i.Schema = &Schema{}
	if err := value.Decode(i.Schema); err != nil {
		return fmt.Errorf("schema: items: %w", err)
	}
	return nil
}

// UnmarshalJSON accepts the boolean and schema forms of additionalItems.
func (a *AdditionalItems) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("true")):
		a.Allowed = true
	case bytes.Equal(trimmed, []byte("false")):
		a.Allowed = false
	case len(trimmed) > 0 && trimmed[0] == '{':
		a.Allowed = true
		a.Schema = &Schema{}
		if err := json.Unmarshal(trimmed, a.Schema); err != nil {
			return fmt.Errorf("schema: additionalItems: %w", err)
		}
	default:
		return errors.New("schema: additionalItems must be a boolean or a schema")
	}
	return nil
}

// UnmarshalYAML mirrors the JSON additionalItems handling.
func (a *AdditionalItems) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var allowed bool
		if err := value.Decode(&allowed); err != nil {
			return fmt.Errorf("schema: additionalItems: %w", err)
		}
		a.Allowed = allowed
		return nil
	}
	a.Allowed = true
	a.Schema = &Schema{}
	if err := value.Decode(a.Schema); err != nil {
		return fmt.Errorf("schema: additionalItems: %w", err)
	}
	return nil
}

// UnmarshalJSON accepts the two dependencies entry forms: a list of
// property names or a dependent schema.
func (d *Dependency) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &d.Keys); err != nil {
			return fmt.Errorf("schema: dependency keys: %w", err)
		}
		return nil
	}
	d.Schema = &Schema{}
	if err := json.Unmarshal(trimmed, d.Schema); err != nil {
		return fmt.Errorf("schema: dependency schema: %w", err)
	}
	return nil
}

// UnmarshalYAML mirrors the JSON dependencies handling.
func (d *Dependency) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		if err := value.Decode(&d.Keys); err != nil {
			return fmt.Errorf("schema: dependency keys: %w", err)
		}
		return nil
	}
	d.Schema = &Schema{}
	if err := value.Decode(d.Schema); err != nil {
		return fmt.Errorf("schema: dependency schema: %w", err)
	}
	return nil
}

// UnmarshalJSON accepts the draft-4 boolean and draft-6 numeric forms of
// the exclusive bound keywords.
func (e *Exclusive) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("true")):
		e.Bool = true
	case bytes.Equal(trimmed, []byte("false")):
		e.Bool = false
	default:
		var value float64
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return fmt.Errorf("schema: exclusive bound: %w", err)
		}
		e.Value = &value
	}
	return nil
}

// UnmarshalYAML mirrors the JSON exclusive bound handling.
func (e *Exclusive) UnmarshalYAML(value *yaml.Node) error {
	var asBool bool
	if err := value.Decode(&asBool); err == nil {
		e.Bool = asBool
		return nil
	}
	var asNumber float64
	if err := value.Decode(&asNumber); err != nil {
		return fmt.Errorf("schema: exclusive bound: %w", err)
	}
	e.Value = &asNumber
	return nil
}
