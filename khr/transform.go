package khr

import (
	"encoding/json"
	"fmt"

	gltfext "github.com/gltfkit/gltfext-go"
	"github.com/gltfkit/gltfext-go/jsonutil"
)

// TextureTransform applies an affine transform to a texture reference's
// UV coordinates, and can override the reference's texCoord set.
type TextureTransform struct {
	gltfext.Property

	Offset   [2]float64
	Rotation float64
	Scale    [2]float64
	TexCoord uint32
}

// NewTextureTransform returns an identity transform: zero offset and
// rotation, unit scale, texCoord 0.
func NewTextureTransform() *TextureTransform {
	return &TextureTransform{Scale: [2]float64{1, 1}}
}

func (x *TextureTransform) ExtensionName() string {
	return TextureTransformName
}

func (x *TextureTransform) Clone() gltfext.Extension {
	return &TextureTransform{
		Property: x.Property.Clone(),
		Offset:   x.Offset,
		Rotation: x.Rotation,
		Scale:    x.Scale,
		TexCoord: x.TexCoord,
	}
}

func (x *TextureTransform) Equal(other gltfext.Extension) bool {
	o, ok := other.(*TextureTransform)
	if !ok {
		return false
	}
	return x.Property.Equal(&o.Property) &&
		x.Offset == o.Offset &&
		x.Rotation == o.Rotation &&
		x.Scale == o.Scale &&
		x.TexCoord == o.TexCoord
}

func serializeTextureTransform(ext gltfext.Extension, doc *gltfext.Document, s *gltfext.ExtensionSerializer) (string, error) {
	x, ok := ext.(*TextureTransform)
	if !ok {
		return "", fmt.Errorf("%s: unexpected instance type %T", TextureTransformName, ext)
	}

	out := make(map[string]json.RawMessage)
	if x.Offset != [2]float64{0, 0} {
		a, err := jsonutil.NumberArray(x.Offset[:])
		if err != nil {
			return "", err
		}
		out["offset"] = json.RawMessage(a)
	}
	if x.Rotation != 0 {
		n, err := jsonutil.Number(x.Rotation)
		if err != nil {
			return "", err
		}
		out["rotation"] = json.RawMessage(n)
	}
	if x.Scale != [2]float64{1, 1} {
		a, err := jsonutil.NumberArray(x.Scale[:])
		if err != nil {
			return "", err
		}
		out["scale"] = json.RawMessage(a)
	}
	if x.TexCoord != 0 {
		out["texCoord"] = json.RawMessage(fmt.Sprintf("%d", x.TexCoord))
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

func deserializeTextureTransform(pair gltfext.ExtensionPair, d *gltfext.ExtensionDeserializer) (gltfext.Extension, error) {
	obj, err := extensionBody(pair)
	if err != nil {
		return nil, err
	}

	x := NewTextureTransform()

	if raw, ok := obj["offset"]; ok {
		values, err := jsonutil.FloatArray("offset", raw)
		if err != nil {
			return nil, err
		}
		if len(values) != 2 {
			return nil, &gltfext.MalformedExtensionError{
				Extension: pair.Name, Field: "offset", Reason: "must have two values",
			}
		}
		copy(x.Offset[:], values)
	}
	if x.Rotation, err = jsonutil.FloatOrDefault(obj, "rotation", 0); err != nil {
		return nil, err
	}
	if raw, ok := obj["scale"]; ok {
		values, err := jsonutil.FloatArray("scale", raw)
		if err != nil {
			return nil, err
		}
		if len(values) != 2 {
			return nil, &gltfext.MalformedExtensionError{
				Extension: pair.Name, Field: "scale", Reason: "must have two values",
			}
		}
		copy(x.Scale[:], values)
	}
	if x.TexCoord, err = jsonutil.UintOrDefault(obj, "texCoord", 0); err != nil {
		return nil, err
	}

	if err := gltfext.ParseProperty(obj, &x.Property, gltfext.KindAny, d); err != nil {
		return nil, err
	}
	return x, nil
}
