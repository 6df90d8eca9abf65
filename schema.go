package rigging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DraftURI is the JSON Schema dialect of exported documents.
const DraftURI = "http://json-schema.org/draft-07/schema#"

// definitionsPrefix is the JSON pointer prefix of named record schemas.
const definitionsPrefix = "#/definitions/"

// Schema is one node of an exported JSON Schema document.
// Keys are emitted in a fixed order so that documents diff cleanly.
type Schema struct {
	Schema      string
	ID          string
	Ref         string
	Title       string
	Description string

	Name         string // x-name: internal field name
	SemanticType string // x-semantic-type
	VariantGroup string // x-variant-group

	Type       string
	Const      any
	HasConst   bool
	Default    any
	HasDefault bool
	Enum       []any
	Minimum    json.Number
	Maximum    json.Number
	Examples   []any

	Items                *Schema
	Properties           *Properties
	Required             []string
	AdditionalProperties *Schema
	Closed               bool // additionalProperties: false

	AnyOf         []*Schema
	OneOf         []*Schema
	Discriminator *Discriminator

	Definitions *Properties
}

// Discriminator is the OpenAPI-style tag mapping attached to variant unions.
type Discriminator struct {
	PropertyName string            `json:"propertyName" yaml:"propertyName"`
	Mapping      map[string]string `json:"mapping" yaml:"mapping"`
}

type schemaPair struct {
	key   string
	value any
}

// pairs lists the node's keywords in emission order.
func (s *Schema) pairs() []schemaPair {
	var out []schemaPair
	add := func(key string, value any) { out = append(out, schemaPair{key, value}) }

	if s.Schema != "" {
		add("$schema", s.Schema)
	}
	if s.ID != "" {
		add("$id", s.ID)
	}
	if s.Ref != "" {
		add("$ref", s.Ref)
	}
	if s.Title != "" {
		add("title", s.Title)
	}
	if s.Description != "" {
		add("description", s.Description)
	}
	if s.Name != "" {
		add("x-name", s.Name)
	}
	if s.SemanticType != "" {
		add("x-semantic-type", s.SemanticType)
	}
	if s.VariantGroup != "" {
		add("x-variant-group", s.VariantGroup)
	}
	if s.Type != "" {
		add("type", s.Type)
	}
	if s.HasConst {
		add("const", s.Const)
	}
	if s.HasDefault {
		add("default", s.Default)
	}
	if len(s.Enum) > 0 {
		add("enum", s.Enum)
	}
	if s.Minimum != "" {
		add("minimum", s.Minimum)
	}
	if s.Maximum != "" {
		add("maximum", s.Maximum)
	}
	if len(s.Examples) > 0 {
		add("examples", s.Examples)
	}
	if s.Items != nil {
		add("items", s.Items)
	}
	if s.Properties != nil {
		add("properties", s.Properties)
	}
	if len(s.Required) > 0 {
		add("required", s.Required)
	}
	if s.Closed {
		add("additionalProperties", false)
	} else if s.AdditionalProperties != nil {
		add("additionalProperties", s.AdditionalProperties)
	}
	if len(s.AnyOf) > 0 {
		add("anyOf", s.AnyOf)
	}
	if len(s.OneOf) > 0 {
		add("oneOf", s.OneOf)
	}
	if s.Discriminator != nil {
		add("discriminator", s.Discriminator)
	}
	if s.Definitions != nil && s.Definitions.Len() > 0 {
		add("definitions", s.Definitions)
	}
	return out
}

// MarshalJSON encodes the node with keywords in emission order.
func (s *Schema) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range s.pairs() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(p.key)
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(p.value)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", p.key, err)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the node as an ordered mapping.
func (s *Schema) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, p := range s.pairs() {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: p.key}
		var value *yaml.Node
		if n, ok := p.value.(json.Number); ok {
			value = numberNode(n)
		} else {
			value = &yaml.Node{}
			if err := value.Encode(yamlValue(p.value)); err != nil {
				return nil, fmt.Errorf("encode %s: %w", p.key, err)
			}
		}
		node.Content = append(node.Content, key, value)
	}
	return node, nil
}

func numberNode(n json.Number) *yaml.Node {
	tag := "!!int"
	if strings.ContainsAny(string(n), ".eE") {
		tag = "!!float"
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: string(n)}
}

// yamlValue converts json.Number leaves, which the YAML encoder would quote.
func yamlValue(v any) any {
	switch t := v.(type) {
	case json.Number:
		return numberNode(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = yamlValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = yamlValue(e)
		}
		return out
	}
	return v
}

// UnmarshalJSON decodes a node, keeping property and definition order.
func (s *Schema) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Schema{}

	str := func(key string, dst *string) error {
		if v, ok := raw[key]; ok {
			return json.Unmarshal(v, dst)
		}
		return nil
	}
	for key, dst := range map[string]*string{
		"$schema": &s.Schema, "$id": &s.ID, "$ref": &s.Ref,
		"title": &s.Title, "description": &s.Description, "type": &s.Type,
		"x-name": &s.Name, "x-semantic-type": &s.SemanticType, "x-variant-group": &s.VariantGroup,
	} {
		if err := str(key, dst); err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}
	}

	if v, ok := raw["const"]; ok {
		s.HasConst = true
		if err := decodeNumber(v, &s.Const); err != nil {
			return fmt.Errorf("decode const: %w", err)
		}
	}
	if v, ok := raw["default"]; ok {
		s.HasDefault = true
		if err := decodeNumber(v, &s.Default); err != nil {
			return fmt.Errorf("decode default: %w", err)
		}
	}
	for key, dst := range map[string]*[]any{"enum": &s.Enum, "examples": &s.Examples} {
		if v, ok := raw[key]; ok {
			if err := decodeNumber(v, dst); err != nil {
				return fmt.Errorf("decode %s: %w", key, err)
			}
		}
	}
	for key, dst := range map[string]*json.Number{"minimum": &s.Minimum, "maximum": &s.Maximum} {
		if v, ok := raw[key]; ok {
			if err := decodeNumber(v, dst); err != nil {
				return fmt.Errorf("decode %s: %w", key, err)
			}
		}
	}
	if v, ok := raw["required"]; ok {
		if err := json.Unmarshal(v, &s.Required); err != nil {
			return fmt.Errorf("decode required: %w", err)
		}
	}

	if v, ok := raw["items"]; ok {
		s.Items = &Schema{}
		if err := json.Unmarshal(v, s.Items); err != nil {
			return fmt.Errorf("decode items: %w", err)
		}
	}
	if v, ok := raw["properties"]; ok {
		s.Properties = NewProperties()
		if err := json.Unmarshal(v, s.Properties); err != nil {
			return fmt.Errorf("decode properties: %w", err)
		}
	}
	if v, ok := raw["definitions"]; ok {
		s.Definitions = NewProperties()
		if err := json.Unmarshal(v, s.Definitions); err != nil {
			return fmt.Errorf("decode definitions: %w", err)
		}
	}
	if v, ok := raw["additionalProperties"]; ok {
		var closed bool
		if err := json.Unmarshal(v, &closed); err == nil {
			s.Closed = !closed
		} else {
			s.AdditionalProperties = &Schema{}
			if err := json.Unmarshal(v, s.AdditionalProperties); err != nil {
				return fmt.Errorf("decode additionalProperties: %w", err)
			}
		}
	}
	for key, dst := range map[string]*[]*Schema{"anyOf": &s.AnyOf, "oneOf": &s.OneOf} {
		if v, ok := raw[key]; ok {
			if err := json.Unmarshal(v, dst); err != nil {
				return fmt.Errorf("decode %s: %w", key, err)
			}
		}
	}
	if v, ok := raw["discriminator"]; ok {
		s.Discriminator = &Discriminator{}
		if err := json.Unmarshal(v, s.Discriminator); err != nil {
			return fmt.Errorf("decode discriminator: %w", err)
		}
	}
	return nil
}

func decodeNumber(data []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(dst)
}

// isNull reports whether s is exactly {"type": "null"}.
func (s *Schema) isNull() bool {
	return s.Type == "null" && s.Ref == "" && s.Properties == nil && len(s.AnyOf) == 0
}

// Properties is an ordered mapping of names to schemas.
type Properties struct {
	keys  []string
	items map[string]*Schema
}

// NewProperties returns an empty ordered mapping.
func NewProperties() *Properties {
	return &Properties{items: make(map[string]*Schema)}
}

// Set stores s under name; an existing name keeps its position.
func (p *Properties) Set(name string, s *Schema) {
	if _, ok := p.items[name]; !ok {
		p.keys = append(p.keys, name)
	}
	p.items[name] = s
}

// Get returns the schema stored under name.
func (p *Properties) Get(name string) (*Schema, bool) {
	if p == nil {
		return nil, false
	}
	s, ok := p.items[name]
	return s, ok
}

// Keys returns the names in order.
func (p *Properties) Keys() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.keys...)
}

// Len returns the number of entries.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// MarshalJSON encodes the entries as an object in order.
func (p *Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range p.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(name)
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(p.items[name])
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", name, err)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object, keeping key order.
func (p *Properties) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("properties: expected object, got %v", tok)
	}

	*p = Properties{items: make(map[string]*Schema)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("properties: expected key, got %v", tok)
		}
		s := &Schema{}
		if err := dec.Decode(s); err != nil {
			return fmt.Errorf("properties %s: %w", name, err)
		}
		p.Set(name, s)
	}
	_, err = dec.Token()
	return err
}

// MarshalYAML encodes the entries as an ordered mapping.
func (p *Properties) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, name := range p.Keys() {
		value := &yaml.Node{}
		if err := value.Encode(p.items[name]); err != nil {
			return nil, fmt.Errorf("encode %s: %w", name, err)
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name}, value)
	}
	return node, nil
}

// SchemaDocument is an exported JSON Schema document rooted at one record definition.
type SchemaDocument struct {
	Root *Schema
}

// ParseSchemaDocument decodes a JSON schema document produced by Export.
func ParseSchemaDocument(data []byte) (*SchemaDocument, error) {
	root := &Schema{}
	if err := json.Unmarshal(data, root); err != nil {
		return nil, fmt.Errorf("parse schema document: %w", err)
	}
	return &SchemaDocument{Root: root}, nil
}

// JSON encodes the document. An empty indent produces compact output.
func (d *SchemaDocument) JSON(indent string) ([]byte, error) {
	if indent == "" {
		return json.Marshal(d.Root)
	}
	return json.MarshalIndent(d.Root, "", indent)
}

// YAML encodes the document with the same key order as JSON.
func (d *SchemaDocument) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d.Root); err != nil {
		return nil, fmt.Errorf("encode schema yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalJSON encodes the root schema.
func (d *SchemaDocument) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Root)
}

// Definition returns the named record schema from the document's definitions.
func (d *SchemaDocument) Definition(name string) (*Schema, bool) {
	return d.Root.Definitions.Get(name)
}

// DefinitionNames returns the names in the definitions section, sorted.
func (d *SchemaDocument) DefinitionNames() []string {
	names := d.Root.Definitions.Keys()
	sort.Strings(names)
	return names
}
