package gltfext

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/gltfkit/gltfext-go/jsonutil"
)

// The node types below are the subset of the core schema this library
// models: enough structure to own extensions at every kind the reference
// plugins are scoped to, plus the sibling collections their reference
// fields resolve through. Ids are caller-assigned strings; documents
// parsed from JSON mint decimal-index ids.

// Asset is the document's asset descriptor.
type Asset struct {
	Property
	Version    string
	MinVersion string
	Generator  string
	Copyright  string
}

// Material is a material node. Only the fields the reference extensions
// interact with are modeled.
type Material struct {
	Property
	ID          string
	Name        string
	DoubleSided bool
}

// MeshPrimitive is a mesh primitive node. Attribute values and Indices
// are accessor indices, carried opaquely.
type MeshPrimitive struct {
	Property
	Attributes map[string]uint32
	Indices    *uint32
	MaterialID string
}

// Mesh is a mesh node holding its primitives.
type Mesh struct {
	Property
	ID         string
	Name       string
	Primitives []*MeshPrimitive
}

// Texture is a texture node.
type Texture struct {
	Property
	ID   string
	Name string
}

// BufferView is a buffer view node.
type BufferView struct {
	Property
	ID         string
	Buffer     uint32
	ByteOffset uint32
	ByteLength uint32
}

// TextureInfo is a texture reference carried by materials and material
// extensions. TextureID resolves through the document's texture
// collection; serialized output stores the texture's index.
type TextureInfo struct {
	Property
	TextureID string
	TexCoord  uint32
}

// Clone returns a deep copy of the texture reference.
func (t *TextureInfo) Clone() *TextureInfo {
	if t == nil {
		return nil
	}
	return &TextureInfo{
		Property:  t.Property.Clone(),
		TextureID: t.TextureID,
		TexCoord:  t.TexCoord,
	}
}

// Equal reports field-wise equality, including the property base.
func (t *TextureInfo) Equal(other *TextureInfo) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.TextureID == other.TextureID &&
		t.TexCoord == other.TexCoord &&
		t.Property.Equal(&other.Property)
}

// ParseTextureInfo parses a raw texture reference. The "index" member is
// required; the minted TextureID is its decimal spelling. member names
// the value in errors.
func ParseTextureInfo(member string, raw json.RawMessage, d *ExtensionDeserializer) (*TextureInfo, error) {
	obj, err := jsonutil.Object(member, raw)
	if err != nil {
		return nil, err
	}
	indexRaw, ok := obj["index"]
	if !ok {
		return nil, &MalformedExtensionError{
			Field: "index", Reason: fmt.Sprintf("is missing from %q", member),
		}
	}
	index, err := jsonutil.Uint("index", indexRaw)
	if err != nil {
		return nil, err
	}
	texCoord, err := jsonutil.UintOrDefault(obj, "texCoord", 0)
	if err != nil {
		return nil, err
	}
	ti := &TextureInfo{
		TextureID: strconv.FormatUint(uint64(index), 10),
		TexCoord:  texCoord,
	}
	if err := ParseProperty(obj, &ti.Property, KindTextureInfo, d); err != nil {
		return nil, err
	}
	return ti, nil
}

// SerializeTextureInfo emits a texture reference, resolving TextureID to
// the texture's index in doc. texCoord is elided at its default of 0.
func SerializeTextureInfo(ti *TextureInfo, doc *Document, s *ExtensionSerializer) (json.RawMessage, error) {
	index, err := doc.Textures.IndexOf(ti.TextureID)
	if err != nil {
		return nil, err
	}
	out := map[string]json.RawMessage{
		"index": uintMember(uint32(index)),
	}
	if ti.TexCoord != 0 {
		out["texCoord"] = uintMember(ti.TexCoord)
	}
	if err := SerializeProperty(out, doc, &ti.Property, KindTextureInfo, s); err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

func parseAsset(raw json.RawMessage, d *ExtensionDeserializer) (Asset, error) {
	obj, err := jsonutil.Object("asset", raw)
	if err != nil {
		return Asset{}, err
	}
	versionRaw, ok := obj["version"]
	if !ok {
		return Asset{}, fmt.Errorf("asset: required member \"version\" is missing")
	}
	var a Asset
	if a.Version, err = jsonutil.String("version", versionRaw); err != nil {
		return Asset{}, err
	}
	if raw, ok := obj["minVersion"]; ok {
		if a.MinVersion, err = jsonutil.String("minVersion", raw); err != nil {
			return Asset{}, err
		}
	}
	if raw, ok := obj["generator"]; ok {
		if a.Generator, err = jsonutil.String("generator", raw); err != nil {
			return Asset{}, err
		}
	}
	if raw, ok := obj["copyright"]; ok {
		if a.Copyright, err = jsonutil.String("copyright", raw); err != nil {
			return Asset{}, err
		}
	}
	if err := ParseProperty(obj, &a.Property, KindAny, d); err != nil {
		return Asset{}, err
	}
	return a, nil
}

func serializeAsset(a *Asset, doc *Document, s *ExtensionSerializer) (json.RawMessage, error) {
	out := map[string]json.RawMessage{
		"version": stringMember(a.Version),
	}
	if a.MinVersion != "" {
		out["minVersion"] = stringMember(a.MinVersion)
	}
	if a.Generator != "" {
		out["generator"] = stringMember(a.Generator)
	}
	if a.Copyright != "" {
		out["copyright"] = stringMember(a.Copyright)
	}
	if err := SerializeProperty(out, doc, &a.Property, KindAny, s); err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

func parseMaterial(raw json.RawMessage, id string, d *ExtensionDeserializer) (*Material, error) {
	obj, err := jsonutil.Object("material", raw)
	if err != nil {
		return nil, err
	}
	m := &Material{ID: id}
	if raw, ok := obj["name"]; ok {
		if m.Name, err = jsonutil.String("name", raw); err != nil {
			return nil, err
		}
	}
	if raw, ok := obj["doubleSided"]; ok {
		if err := json.Unmarshal(raw, &m.DoubleSided); err != nil {
			return nil, &jsonutil.KindError{Member: "doubleSided", Want: "bool", Got: jsonutil.Kind(raw)}
		}
	}
	if err := ParseProperty(obj, &m.Property, KindMaterial, d); err != nil {
		return nil, err
	}
	return m, nil
}

func serializeMaterial(m *Material, doc *Document, s *ExtensionSerializer) (json.RawMessage, error) {
	out := map[string]json.RawMessage{}
	if m.Name != "" {
		out["name"] = stringMember(m.Name)
	}
	if m.DoubleSided {
		out["doubleSided"] = json.RawMessage("true")
	}
	if err := SerializeProperty(out, doc, &m.Property, KindMaterial, s); err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

func parseMeshPrimitive(raw json.RawMessage, d *ExtensionDeserializer) (*MeshPrimitive, error) {
	obj, err := jsonutil.Object("primitive", raw)
	if err != nil {
		return nil, err
	}
	p := &MeshPrimitive{}
	if attrRaw, ok := obj["attributes"]; ok {
		attrs, err := jsonutil.Object("attributes", attrRaw)
		if err != nil {
			return nil, err
		}
		p.Attributes = make(map[string]uint32, len(attrs))
		for name, v := range attrs {
			u, err := jsonutil.Uint(name, v)
			if err != nil {
				return nil, err
			}
			p.Attributes[name] = u
		}
	}
	if raw, ok := obj["indices"]; ok {
		u, err := jsonutil.Uint("indices", raw)
		if err != nil {
			return nil, err
		}
		p.Indices = &u
	}
	if raw, ok := obj["material"]; ok {
		u, err := jsonutil.Uint("material", raw)
		if err != nil {
			return nil, err
		}
		p.MaterialID = strconv.FormatUint(uint64(u), 10)
	}
	if err := ParseProperty(obj, &p.Property, KindMeshPrimitive, d); err != nil {
		return nil, err
	}
	return p, nil
}

func serializeMeshPrimitive(p *MeshPrimitive, doc *Document, s *ExtensionSerializer) (json.RawMessage, error) {
	out := map[string]json.RawMessage{}
	if len(p.Attributes) > 0 {
		encoded, err := json.Marshal(p.Attributes)
		if err != nil {
			return nil, err
		}
		out["attributes"] = encoded
	}
	if p.Indices != nil {
		out["indices"] = uintMember(*p.Indices)
	}
	if p.MaterialID != "" {
		index, err := doc.Materials.IndexOf(p.MaterialID)
		if err != nil {
			return nil, err
		}
		out["material"] = uintMember(uint32(index))
	}
	if err := SerializeProperty(out, doc, &p.Property, KindMeshPrimitive, s); err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

func parseMesh(raw json.RawMessage, id string, d *ExtensionDeserializer) (*Mesh, error) {
	obj, err := jsonutil.Object("mesh", raw)
	if err != nil {
		return nil, err
	}
	m := &Mesh{ID: id}
	if raw, ok := obj["name"]; ok {
		if m.Name, err = jsonutil.String("name", raw); err != nil {
			return nil, err
		}
	}
	if primsRaw, ok := obj["primitives"]; ok {
		var prims []json.RawMessage
		if jsonutil.Kind(primsRaw) != "array" {
			return nil, &jsonutil.KindError{Member: "primitives", Want: "array", Got: jsonutil.Kind(primsRaw)}
		}
		if err := json.Unmarshal(primsRaw, &prims); err != nil {
			return nil, err
		}
		for _, pr := range prims {
			p, err := parseMeshPrimitive(pr, d)
			if err != nil {
				return nil, err
			}
			m.Primitives = append(m.Primitives, p)
		}
	}
	if err := ParseProperty(obj, &m.Property, KindAny, d); err != nil {
		return nil, err
	}
	return m, nil
}

func serializeMesh(m *Mesh, doc *Document, s *ExtensionSerializer) (json.RawMessage, error) {
	out := map[string]json.RawMessage{}
	if m.Name != "" {
		out["name"] = stringMember(m.Name)
	}
	if len(m.Primitives) > 0 {
		prims := make([]json.RawMessage, len(m.Primitives))
		for i, p := range m.Primitives {
			encoded, err := serializeMeshPrimitive(p, doc, s)
			if err != nil {
				return nil, err
			}
			prims[i] = encoded
		}
		encoded, err := json.Marshal(prims)
		if err != nil {
			return nil, err
		}
		out["primitives"] = encoded
	}
	if err := SerializeProperty(out, doc, &m.Property, KindAny, s); err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

func parseTexture(raw json.RawMessage, id string, d *ExtensionDeserializer) (*Texture, error) {
	obj, err := jsonutil.Object("texture", raw)
	if err != nil {
		return nil, err
	}
	t := &Texture{ID: id}
	if raw, ok := obj["name"]; ok {
		if t.Name, err = jsonutil.String("name", raw); err != nil {
			return nil, err
		}
	}
	if err := ParseProperty(obj, &t.Property, KindAny, d); err != nil {
		return nil, err
	}
	return t, nil
}

func serializeTexture(t *Texture, doc *Document, s *ExtensionSerializer) (json.RawMessage, error) {
	out := map[string]json.RawMessage{}
	if t.Name != "" {
		out["name"] = stringMember(t.Name)
	}
	if err := SerializeProperty(out, doc, &t.Property, KindAny, s); err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

func parseBufferView(raw json.RawMessage, id string, d *ExtensionDeserializer) (*BufferView, error) {
	obj, err := jsonutil.Object("bufferView", raw)
	if err != nil {
		return nil, err
	}
	bv := &BufferView{ID: id}
	if bv.Buffer, err = jsonutil.UintOrDefault(obj, "buffer", 0); err != nil {
		return nil, err
	}
	if bv.ByteOffset, err = jsonutil.UintOrDefault(obj, "byteOffset", 0); err != nil {
		return nil, err
	}
	lengthRaw, ok := obj["byteLength"]
	if !ok {
		return nil, fmt.Errorf("bufferView: required member \"byteLength\" is missing")
	}
	if bv.ByteLength, err = jsonutil.Uint("byteLength", lengthRaw); err != nil {
		return nil, err
	}
	if err := ParseProperty(obj, &bv.Property, KindAny, d); err != nil {
		return nil, err
	}
	return bv, nil
}

func serializeBufferView(bv *BufferView, doc *Document, s *ExtensionSerializer) (json.RawMessage, error) {
	out := map[string]json.RawMessage{
		"buffer":     uintMember(bv.Buffer),
		"byteLength": uintMember(bv.ByteLength),
	}
	if bv.ByteOffset != 0 {
		out["byteOffset"] = uintMember(bv.ByteOffset)
	}
	if err := SerializeProperty(out, doc, &bv.Property, KindAny, s); err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

func uintMember(v uint32) json.RawMessage {
	return json.RawMessage(strconv.FormatUint(uint64(v), 10))
}

func stringMember(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}
