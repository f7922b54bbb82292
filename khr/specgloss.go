package khr

import (
	"encoding/json"
	"errors"
	"fmt"

	gltfext "github.com/gltfkit/gltfext-go"
	"github.com/gltfkit/gltfext-go/jsonutil"
)

// PBRSpecularGlossiness is the legacy specular-glossiness PBR material
// model, attached to materials.
type PBRSpecularGlossiness struct {
	gltfext.Property

	DiffuseFactor             [4]float64
	DiffuseTexture            *gltfext.TextureInfo
	SpecularFactor            [3]float64
	GlossinessFactor          float64
	SpecularGlossinessTexture *gltfext.TextureInfo
}

// NewPBRSpecularGlossiness returns an instance in its documented default
// state: white diffuse and specular, full glossiness, no textures.
func NewPBRSpecularGlossiness() *PBRSpecularGlossiness {
	return &PBRSpecularGlossiness{
		DiffuseFactor:    [4]float64{1, 1, 1, 1},
		SpecularFactor:   [3]float64{1, 1, 1},
		GlossinessFactor: 1,
	}
}

func (x *PBRSpecularGlossiness) ExtensionName() string {
	return PBRSpecularGlossinessName
}

func (x *PBRSpecularGlossiness) Clone() gltfext.Extension {
	return &PBRSpecularGlossiness{
		Property:                  x.Property.Clone(),
		DiffuseFactor:             x.DiffuseFactor,
		DiffuseTexture:            x.DiffuseTexture.Clone(),
		SpecularFactor:            x.SpecularFactor,
		GlossinessFactor:          x.GlossinessFactor,
		SpecularGlossinessTexture: x.SpecularGlossinessTexture.Clone(),
	}
}

func (x *PBRSpecularGlossiness) Equal(other gltfext.Extension) bool {
	o, ok := other.(*PBRSpecularGlossiness)
	if !ok {
		return false
	}
	return x.Property.Equal(&o.Property) &&
		x.DiffuseFactor == o.DiffuseFactor &&
		x.DiffuseTexture.Equal(o.DiffuseTexture) &&
		x.SpecularFactor == o.SpecularFactor &&
		x.GlossinessFactor == o.GlossinessFactor &&
		x.SpecularGlossinessTexture.Equal(o.SpecularGlossinessTexture)
}

func serializePBRSpecularGlossiness(ext gltfext.Extension, doc *gltfext.Document, s *gltfext.ExtensionSerializer) (string, error) {
	x, ok := ext.(*PBRSpecularGlossiness)
	if !ok {
		return "", fmt.Errorf("%s: unexpected instance type %T", PBRSpecularGlossinessName, ext)
	}

	out := make(map[string]json.RawMessage)
	if x.DiffuseFactor != [4]float64{1, 1, 1, 1} {
		a, err := jsonutil.NumberArray(x.DiffuseFactor[:])
		if err != nil {
			return "", err
		}
		out["diffuseFactor"] = json.RawMessage(a)
	}
	if x.DiffuseTexture != nil {
		encoded, err := gltfext.SerializeTextureInfo(x.DiffuseTexture, doc, s)
		if err != nil {
			return "", err
		}
		out["diffuseTexture"] = encoded
	}
	if x.SpecularFactor != [3]float64{1, 1, 1} {
		a, err := jsonutil.NumberArray(x.SpecularFactor[:])
		if err != nil {
			return "", err
		}
		out["specularFactor"] = json.RawMessage(a)
	}
	if x.GlossinessFactor != 1 {
		n, err := jsonutil.Number(x.GlossinessFactor)
		if err != nil {
			return "", err
		}
		out["glossinessFactor"] = json.RawMessage(n)
	}
	if x.SpecularGlossinessTexture != nil {
		encoded, err := gltfext.SerializeTextureInfo(x.SpecularGlossinessTexture, doc, s)
		if err != nil {
			return "", err
		}
		out["specularGlossinessTexture"] = encoded
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

func deserializePBRSpecularGlossiness(pair gltfext.ExtensionPair, d *gltfext.ExtensionDeserializer) (gltfext.Extension, error) {
	obj, err := extensionBody(pair)
	if err != nil {
		return nil, err
	}

	x := NewPBRSpecularGlossiness()

	if raw, ok := obj["diffuseFactor"]; ok {
		values, err := jsonutil.FloatArray("diffuseFactor", raw)
		if err != nil {
			return nil, err
		}
		if len(values) != 4 {
			return nil, &gltfext.MalformedExtensionError{
				Extension: pair.Name, Field: "diffuseFactor", Reason: "must have four values",
			}
		}
		copy(x.DiffuseFactor[:], values)
	}
	if raw, ok := obj["diffuseTexture"]; ok {
		if x.DiffuseTexture, err = textureRef(pair, "diffuseTexture", raw, d); err != nil {
			return nil, err
		}
	}
	if raw, ok := obj["specularFactor"]; ok {
		values, err := jsonutil.FloatArray("specularFactor", raw)
		if err != nil {
			return nil, err
		}
		if len(values) != 3 {
			return nil, &gltfext.MalformedExtensionError{
				Extension: pair.Name, Field: "specularFactor", Reason: "must have three values",
			}
		}
		copy(x.SpecularFactor[:], values)
	}
	if x.GlossinessFactor, err = jsonutil.FloatOrDefault(obj, "glossinessFactor", 1); err != nil {
		return nil, err
	}
	if raw, ok := obj["specularGlossinessTexture"]; ok {
		if x.SpecularGlossinessTexture, err = textureRef(pair, "specularGlossinessTexture", raw, d); err != nil {
			return nil, err
		}
	}

	if err := gltfext.ParseProperty(obj, &x.Property, gltfext.KindAny, d); err != nil {
		return nil, err
	}
	return x, nil
}

// textureRef parses a texture reference member of an extension body,
// stamping pair's name onto shape errors raised below the plugin
// boundary.
func textureRef(pair gltfext.ExtensionPair, member string, raw json.RawMessage, d *gltfext.ExtensionDeserializer) (*gltfext.TextureInfo, error) {
	ti, err := gltfext.ParseTextureInfo(member, raw, d)
	if err != nil {
		var malformed *gltfext.MalformedExtensionError
		if errors.As(err, &malformed) && malformed.Extension == "" {
			malformed.Extension = pair.Name
		}
		return nil, err
	}
	return ti, nil
}

// extensionBody decodes an extension pair's value, which must be a JSON
// object.
func extensionBody(pair gltfext.ExtensionPair) (map[string]json.RawMessage, error) {
	raw := json.RawMessage(pair.Value)
	if k := jsonutil.Kind(raw); k != "object" {
		return nil, &gltfext.MalformedExtensionError{
			Extension: pair.Name, Reason: fmt.Sprintf("body must be an object, got %s", k),
		}
	}
	return jsonutil.Object(pair.Name, raw)
}
