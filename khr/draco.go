package khr

import (
	"encoding/json"
	"fmt"
	"maps"
	"strconv"

	gltfext "github.com/gltfkit/gltfext-go"
	"github.com/gltfkit/gltfext-go/jsonutil"
)

// DracoMeshCompression describes a Draco-compressed mesh primitive: the
// buffer view holding the compressed payload and the mapping from
// attribute names to Draco attribute ids.
type DracoMeshCompression struct {
	gltfext.Property

	// BufferViewID resolves through the document's bufferViews
	// collection; empty means unset.
	BufferViewID string

	// Attributes maps attribute semantics (POSITION, NORMAL, ...) to
	// Draco attribute ids. Never nil; may be empty.
	Attributes map[string]uint32
}

// NewDracoMeshCompression returns an instance with no buffer view and an
// empty attribute mapping.
func NewDracoMeshCompression() *DracoMeshCompression {
	return &DracoMeshCompression{Attributes: make(map[string]uint32)}
}

func (x *DracoMeshCompression) ExtensionName() string {
	return DracoMeshCompressionName
}

func (x *DracoMeshCompression) Clone() gltfext.Extension {
	return &DracoMeshCompression{
		Property:     x.Property.Clone(),
		BufferViewID: x.BufferViewID,
		Attributes:   maps.Clone(x.Attributes),
	}
}

func (x *DracoMeshCompression) Equal(other gltfext.Extension) bool {
	o, ok := other.(*DracoMeshCompression)
	if !ok {
		return false
	}
	return x.Property.Equal(&o.Property) &&
		x.BufferViewID == o.BufferViewID &&
		maps.Equal(x.Attributes, o.Attributes)
}

func serializeDracoMeshCompression(ext gltfext.Extension, doc *gltfext.Document, s *gltfext.ExtensionSerializer) (string, error) {
	x, ok := ext.(*DracoMeshCompression)
	if !ok {
		return "", fmt.Errorf("%s: unexpected instance type %T", DracoMeshCompressionName, ext)
	}

	out := make(map[string]json.RawMessage)
	if x.BufferViewID != "" {
		index, err := doc.BufferViews.IndexOf(x.BufferViewID)
		if err != nil {
			return "", err
		}
		out["bufferView"] = json.RawMessage(strconv.Itoa(index))
	}

	// The attribute mapping is always emitted, even when empty.
	if len(x.Attributes) == 0 {
		out["attributes"] = json.RawMessage("{}")
	} else {
		encoded, err := json.Marshal(x.Attributes)
		if err != nil {
			return "", err
		}
		out["attributes"] = encoded
	}

	if err := gltfext.SerializeProperty(out, doc, &x.Property, gltfext.KindAny, s); err != nil {
		return "", err
	}

	encoded, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func deserializeDracoMeshCompression(pair gltfext.ExtensionPair, d *gltfext.ExtensionDeserializer) (gltfext.Extension, error) {
	obj, err := extensionBody(pair)
	if err != nil {
		return nil, err
	}

	x := NewDracoMeshCompression()

	if raw, ok := obj["bufferView"]; ok {
		index, err := jsonutil.Uint("bufferView", raw)
		if err != nil {
			return nil, err
		}
		x.BufferViewID = strconv.FormatUint(uint64(index), 10)
	}

	if raw, ok := obj["attributes"]; ok {
		if k := jsonutil.Kind(raw); k != "object" {
			return nil, &gltfext.MalformedExtensionError{
				Extension: pair.Name, Field: "attributes", Reason: fmt.Sprintf("must be an object, got %s", k),
			}
		}
		attrs, err := jsonutil.Object("attributes", raw)
		if err != nil {
			return nil, err
		}
		for name, v := range attrs {
			id, err := jsonutil.Uint(name, v)
			if err != nil {
				return nil, &gltfext.MalformedExtensionError{
					Extension: pair.Name, Field: name, Reason: "must be an integer",
				}
			}
			x.Attributes[name] = id
		}
	}

	if err := gltfext.ParseProperty(obj, &x.Property, gltfext.KindAny, d); err != nil {
		return nil, err
	}
	return x, nil
}
