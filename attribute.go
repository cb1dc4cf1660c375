package attrpool

import (
	"fmt"
	"strings"
	"unicode"
)

// Usage is a hint about how often an attribute changes. It only affects
// how attributes are grouped into buffers.
type Usage uint8

const (
	Static Usage = iota
	Dynamic
	Stream
)

// String returns the description name of the usage class.
func (u Usage) String() string {
	switch u {
	case Static:
		return "static"
	case Dynamic:
		return "dynamic"
	case Stream:
		return "stream"
	}
	return fmt.Sprintf("usage(%d)", uint8(u))
}

// ParseUsage resolves "static", "dynamic" or "stream". The empty string
// resolves to Static.
func ParseUsage(s string) (Usage, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "static":
		return Static, nil
	case "dynamic":
		return Dynamic, nil
	case "stream":
		return Stream, nil
	}
	return Static, fmt.Errorf("%w: unknown usage %q", ErrSchemaViolation, s)
}

// AttributeDescription is the input form of one attribute.
//
// Either Components or Size gives the component count; with neither the
// attribute is a scalar. Getter and Setter override the generated accessor
// names; a nil pointer keeps the default, while "", "-", "false" or a
// boolean false in a description file suppresses the accessor.
type AttributeDescription struct {
	Name       string        `toml:"name" yaml:"name"`
	Components []string      `toml:"components,omitempty" yaml:"components,omitempty"`
	Size       int           `toml:"size,omitempty" yaml:"size,omitempty"`
	Type       string        `toml:"type,omitempty" yaml:"type,omitempty"`
	Normalized bool          `toml:"normalized,omitempty" yaml:"normalized,omitempty"`
	Usage      string        `toml:"usage,omitempty" yaml:"usage,omitempty"`
	Getter     *AccessorName `toml:"getter,omitempty" yaml:"getter,omitempty"`
	Setter     *AccessorName `toml:"setter,omitempty" yaml:"setter,omitempty"`
	// Buffer overrides the derived buffer key.
	Buffer string `toml:"buffer,omitempty" yaml:"buffer,omitempty"`
}

// Attribute is one resolved field of a Schema. Attributes are immutable
// once their schema is built.
type Attribute struct {
	Name       string
	Components []string
	Type       ElementType
	Size       int
	Normalized bool
	Usage      Usage
	// Key identifies the buffer the attribute is stored in.
	Key string
	// Getter and Setter are the accessor names, empty when suppressed.
	Getter string
	Setter string
	index  int
}

// Index returns the attribute position in schema order.
func (a *Attribute) Index() int { return a.index }

// ByteSize returns the width in bytes of one vertex worth of the attribute.
func (a *Attribute) ByteSize() int { return a.Size * a.Type.Size() }

// Component returns the index of a named component, or -1.
func (a *Attribute) Component(name string) int {
	for i, c := range a.Components {
		if c == name {
			return i
		}
	}
	return -1
}

// BufferKey derives the grouping key shared by attributes that may live in
// the same interleaved buffer.
func BufferKey(u Usage, t ElementType, normalized bool) string {
	if normalized {
		return u.String() + "/" + t.String() + "/norm"
	}
	return u.String() + "/" + t.String()
}

func newAttribute(d AttributeDescription, index int) (*Attribute, error) {
	if d.Name == "" {
		return nil, fmt.Errorf("%w: attribute %d has no name", ErrSchemaViolation, index)
	}
	typ, err := ParseElementType(d.Type)
	if err != nil {
		return nil, fmt.Errorf("attribute %q: %w", d.Name, err)
	}
	usage, err := ParseUsage(d.Usage)
	if err != nil {
		return nil, fmt.Errorf("attribute %q: %w", d.Name, err)
	}
	if d.Normalized && typ.IsFloat() {
		return nil, fmt.Errorf("%w: attribute %q: %s cannot be normalized", ErrSchemaViolation, d.Name, typ)
	}
	size := d.Size
	switch {
	case len(d.Components) > 0 && size != 0 && size != len(d.Components):
		return nil, fmt.Errorf("%w: attribute %q: size %d does not match %d components",
			ErrSchemaViolation, d.Name, size, len(d.Components))
	case len(d.Components) > 0:
		size = len(d.Components)
	case size == 0:
		size = 1
	}
	if size < 1 {
		return nil, fmt.Errorf("%w: attribute %q: size must be at least 1", ErrSchemaViolation, d.Name)
	}
	a := &Attribute{
		Name:       d.Name,
		Components: append([]string(nil), d.Components...),
		Type:       typ,
		Size:       size,
		Normalized: d.Normalized,
		Usage:      usage,
		Key:        d.Buffer,
		Getter:     accessorName(d.Getter, "Get", d.Name),
		Setter:     accessorName(d.Setter, "Set", d.Name),
		index:      index,
	}
	if a.Key == "" {
		a.Key = BufferKey(usage, typ, d.Normalized)
	}
	return a, nil
}

// AccessorName overrides one generated accessor name.
type AccessorName string

const (
	// SuppressAccessor disables generation of the accessor.
	SuppressAccessor AccessorName = "-"
	// DefaultAccessor keeps the generated Get<Name> / Set<Name> name.
	DefaultAccessor AccessorName = "true"
)

// Rename returns an override naming the accessor name.
func Rename(name string) *AccessorName {
	n := AccessorName(name)
	return &n
}

// Suppress returns an override disabling the accessor.
func Suppress() *AccessorName { return Rename(string(SuppressAccessor)) }

// accessorName applies the naming convention: Get<Name> / Set<Name>.
func accessorName(override *AccessorName, prefix, name string) string {
	if override != nil {
		switch *override {
		case "", SuppressAccessor, "false":
			return ""
		case DefaultAccessor:
		default:
			return string(*override)
		}
	}
	return prefix + exportName(name)
}

// exportName turns "tex_coord" or "tex-coord" into "TexCoord".
func exportName(name string) string {
	var sb strings.Builder
	upper := true
	for _, r := range name {
		if r == '_' || r == '-' || r == ' ' || r == '.' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
