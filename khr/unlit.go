package khr

import (
	"encoding/json"
	"fmt"

	gltfext "github.com/gltfkit/gltfext-go"
)

// Unlit marks a material as unlit. The extension carries no fields of
// its own; its presence is the signal, so it always serializes to an
// empty object (plus any nested extensions or extras).
type Unlit struct {
	gltfext.Property
}

func (x *Unlit) ExtensionName() string {
	return UnlitName
}

func (x *Unlit) Clone() gltfext.Extension {
	return &Unlit{Property: x.Property.Clone()}
}

// Equal is true for any other Unlit instance regardless of its property
// base: the flag has no state worth comparing.
func (x *Unlit) Equal(other gltfext.Extension) bool {
	_, ok := other.(*Unlit)
	return ok
}

func serializeUnlit(ext gltfext.Extension, doc *gltfext.Document, s *gltfext.ExtensionSerializer) (string, error) {
	x, ok := ext.(*Unlit)
	if !ok {
		return "", fmt.Errorf("%s: unexpected instance type %T", UnlitName, ext)
	}
	out := make(map[string]json.RawMessage)
	if err := gltfext.SerializeProperty(out, doc, &x.Property, gltfext.KindAny, s); err != nil {
		return "", err
	}
	encoded, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func deserializeUnlit(pair gltfext.ExtensionPair, d *gltfext.ExtensionDeserializer) (gltfext.Extension, error) {
	obj, err := extensionBody(pair)
	if err != nil {
		return nil, err
	}
	x := &Unlit{}
	if err := gltfext.ParseProperty(obj, &x.Property, gltfext.KindAny, d); err != nil {
		return nil, err
	}
	return x, nil
}
