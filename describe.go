package attrpool

import (
	"bytes"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/pelletier/go-toml/v2/unstable"
	"gopkg.in/yaml.v3"
)

// Document is a set of schema descriptions as written in a TOML or YAML
// file:
//
//	[[schema]]
//	name = "sprite"
//	vertices_per_object = 4
//	indices = [0, 1, 2, 0, 2, 3]
//
//	[[schema.attributes]]
//	name = "position"
//	components = ["x", "y"]
//	usage = "dynamic"
type Document struct {
	Schemas []Description `toml:"schema" yaml:"schema"`
}

// ParseTOML decodes a TOML document. Unknown keys are rejected.
func ParseTOML(data []byte) (Document, error) {
	var doc Document
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	dec.EnableUnmarshalerInterface()
	if err := dec.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("attrpool: decode toml: %w", err)
	}
	return doc, nil
}

// ParseYAML decodes a YAML document. Unknown keys are rejected.
func ParseYAML(data []byte) (Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("attrpool: decode yaml: %w", err)
	}
	return doc, nil
}

// UnmarshalTOML accepts a string or a boolean. false suppresses the
// accessor, true keeps the generated name.
func (n *AccessorName) UnmarshalTOML(v *unstable.Node) error {
	switch v.Kind {
	case unstable.String:
		*n = AccessorName(v.Data)
	case unstable.Bool:
		n.fromBool(string(v.Data) == "true")
	default:
		return fmt.Errorf("%w: accessor name must be a string or boolean, got %s", ErrSchemaViolation, v.Kind)
	}
	return nil
}

// UnmarshalYAML is the YAML counterpart of UnmarshalTOML.
func (n *AccessorName) UnmarshalYAML(v *yaml.Node) error {
	if v.Kind == yaml.ScalarNode && v.ShortTag() == "!!bool" {
		var b bool
		if err := v.Decode(&b); err != nil {
			return err
		}
		n.fromBool(b)
		return nil
	}
	var s string
	if err := v.Decode(&s); err != nil {
		return err
	}
	*n = AccessorName(s)
	return nil
}

func (n *AccessorName) fromBool(b bool) {
	if b {
		*n = DefaultAccessor
		return
	}
	*n = SuppressAccessor
}

// Registry builds and registers every schema of the document.
func (d Document) Registry() (*Registry, error) {
	return NewRegistry(d.Schemas...)
}

// LoadTOML parses a TOML document and registers its schemas.
func LoadTOML(data []byte) (*Registry, error) {
	doc, err := ParseTOML(data)
	if err != nil {
		return nil, err
	}
	return doc.Registry()
}

// LoadYAML parses a YAML document and registers its schemas.
func LoadYAML(data []byte) (*Registry, error) {
	doc, err := ParseYAML(data)
	if err != nil {
		return nil, err
	}
	return doc.Registry()
}
