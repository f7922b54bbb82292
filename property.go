package gltfext

import "maps"

// PropertyKind identifies the kind of node that owns an extension, and
// scopes registry handlers to that kind. KindAny is the wildcard: a
// handler registered under KindAny applies to any node whose kind has no
// handler of its own. The bodies of extensions are themselves properties
// (an extension can carry nested extensions), and are parsed with
// KindAny so that only wildcard handlers apply inside them.
type PropertyKind uint8

const (
	KindAny PropertyKind = iota
	KindDocument
	KindMaterial
	KindMeshPrimitive
	KindTextureInfo
)

func (k PropertyKind) String() string {
	switch k {
	case KindAny:
		return "any"
	case KindDocument:
		return "document"
	case KindMaterial:
		return "material"
	case KindMeshPrimitive:
		return "meshPrimitive"
	case KindTextureInfo:
		return "textureInfo"
	}
	return "unknown"
}

// Extension is the capability contract every typed extension implements.
// The set of implementations is closed per registry: adding an extension
// means adding a type plus its serializer and deserializer registrations,
// not subclassing from outside.
type Extension interface {
	// ExtensionName returns the extension's registered name, e.g.
	// "KHR_texture_transform". It is the type tag the serializer
	// registry dispatches on.
	ExtensionName() string

	// Clone returns a deep copy sharing no mutable state with the
	// receiver.
	Clone() Extension

	// Equal reports field-wise equality. A different concrete type
	// compares unequal, never panics.
	Equal(other Extension) bool
}

// ExtensionPair is the transient (name, raw JSON text) unit produced
// while scanning a node's extensions object or serializing a typed
// instance back to text.
type ExtensionPair struct {
	Name  string
	Value string
}

// Property is the base of every node that can carry extensions. It holds
// unregistered extension bodies verbatim, an opaque extras payload, and
// at most one typed extension instance.
//
// The single typed slot mirrors the behavior this codec was modeled on.
// The glTF schema nominally allows several named extensions per node;
// supporting more than one typed instance at a time would be an API
// change to this slot, not a data-format change.
type Property struct {
	// Extensions holds raw bodies of extensions with no registered
	// handler, keyed by extension name. Values are verbatim JSON text.
	Extensions map[string]string

	// Extras is the node's extras payload as verbatim JSON text. Empty
	// means absent: no JSON value serializes to zero bytes, so the
	// sentinel cannot collide with real data.
	Extras string

	typed Extension
}

// SetExtension attaches ext as the node's typed extension, replacing any
// previous instance.
func (p *Property) SetExtension(ext Extension) {
	p.typed = ext
}

// TypedExtension returns the attached typed extension, or nil.
func (p *Property) TypedExtension() Extension {
	return p.typed
}

// RemoveExtension detaches the typed extension.
func (p *Property) RemoveExtension() {
	p.typed = nil
}

// HasUnregistered reports whether name is present in the unregistered
// extension map.
func (p *Property) HasUnregistered(name string) bool {
	_, ok := p.Extensions[name]
	return ok
}

// SetUnregistered stores a raw extension body verbatim under name.
func (p *Property) SetUnregistered(name, value string) {
	if p.Extensions == nil {
		p.Extensions = make(map[string]string)
	}
	p.Extensions[name] = value
}

// Clone returns a deep copy of the property, including a clone of the
// typed extension if one is attached.
func (p Property) Clone() Property {
	out := Property{
		Extensions: maps.Clone(p.Extensions),
		Extras:     p.Extras,
	}
	if p.typed != nil {
		out.typed = p.typed.Clone()
	}
	return out
}

// Equal reports whether two properties carry the same unregistered
// extensions, the same extras, and equal typed extensions.
func (p *Property) Equal(other *Property) bool {
	if other == nil {
		return false
	}
	if p.Extras != other.Extras {
		return false
	}
	if !maps.Equal(p.Extensions, other.Extensions) {
		return false
	}
	switch {
	case p.typed == nil && other.typed == nil:
		return true
	case p.typed == nil || other.typed == nil:
		return false
	}
	return p.typed.Equal(other.typed)
}
