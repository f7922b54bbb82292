package khr

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gltfext "github.com/gltfkit/gltfext-go"
	"github.com/gltfkit/gltfext-go/jsonutil"
)

func newRegistries(t *testing.T) (*gltfext.ExtensionSerializer, *gltfext.ExtensionDeserializer) {
	t.Helper()
	s, err := NewSerializer()
	require.NoError(t, err)
	d, err := NewDeserializer()
	require.NoError(t, err)
	return s, d
}

// declaringDocument returns a document with all four KHR extensions
// declared and one texture and one buffer view to resolve references
// against.
func declaringDocument(t *testing.T) *gltfext.Document {
	t.Helper()
	doc := gltfext.NewDocument()
	doc.UseExtension(PBRSpecularGlossinessName)
	doc.UseExtension(UnlitName)
	doc.UseExtension(DracoMeshCompressionName)
	doc.UseExtension(TextureTransformName)
	_, err := doc.Textures.Append(&gltfext.Texture{ID: "0"})
	require.NoError(t, err)
	_, err = doc.BufferViews.Append(&gltfext.BufferView{ID: "0", ByteLength: 64})
	require.NoError(t, err)
	return doc
}

func roundTrip(t *testing.T, ext gltfext.Extension, owner gltfext.PropertyKind) gltfext.Extension {
	t.Helper()
	s, d := newRegistries(t)
	doc := declaringDocument(t)

	pair, err := s.Serialize(ext, owner, doc)
	require.NoError(t, err)
	back, err := d.Deserialize(pair, owner)
	require.NoError(t, err)
	return back
}

func TestRoundTripIdempotence(t *testing.T) {
	cases := []struct {
		name  string
		ext   gltfext.Extension
		owner gltfext.PropertyKind
	}{
		{"specGlossDefault", NewPBRSpecularGlossiness(), gltfext.KindMaterial},
		{"specGloss", &PBRSpecularGlossiness{
			DiffuseFactor:             [4]float64{0.2, 0.3, 0.4, 1},
			DiffuseTexture:            &gltfext.TextureInfo{TextureID: "0", TexCoord: 1},
			SpecularFactor:            [3]float64{1, 0.5, 0},
			GlossinessFactor:          0.25,
			SpecularGlossinessTexture: &gltfext.TextureInfo{TextureID: "0"},
		}, gltfext.KindMaterial},
		{"unlit", &Unlit{}, gltfext.KindMaterial},
		{"dracoDefault", NewDracoMeshCompression(), gltfext.KindMeshPrimitive},
		{"draco", &DracoMeshCompression{
			BufferViewID: "0",
			Attributes:   map[string]uint32{"POSITION": 0, "NORMAL": 1},
		}, gltfext.KindMeshPrimitive},
		{"transformDefault", NewTextureTransform(), gltfext.KindTextureInfo},
		{"transform", &TextureTransform{
			Offset:   [2]float64{0.5, -0.5},
			Rotation: 1.5,
			Scale:    [2]float64{2, 2},
			TexCoord: 3,
		}, gltfext.KindTextureInfo},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			back := roundTrip(t, c.ext, c.owner)
			assert.True(t, c.ext.Equal(back), "round-trip changed value: %#v vs %#v", c.ext, back)
		})
	}
}

func TestDefaultElision(t *testing.T) {
	s, _ := newRegistries(t)
	doc := declaringDocument(t)

	pair, err := s.Serialize(NewTextureTransform(), gltfext.KindTextureInfo, doc)
	require.NoError(t, err)
	assert.Equal(t, "{}", pair.Value)

	pair, err = s.Serialize(&Unlit{}, gltfext.KindMaterial, doc)
	require.NoError(t, err)
	assert.Equal(t, "{}", pair.Value)

	pair, err = s.Serialize(NewPBRSpecularGlossiness(), gltfext.KindMaterial, doc)
	require.NoError(t, err)
	assert.Equal(t, "{}", pair.Value)

	// The attribute mapping is intrinsically non-optional, so the Draco
	// default is not fully empty.
	pair, err = s.Serialize(NewDracoMeshCompression(), gltfext.KindMeshPrimitive, doc)
	require.NoError(t, err)
	assert.Equal(t, `{"attributes":{}}`, pair.Value)
}

func TestTextureTransformEndToEnd(t *testing.T) {
	s, d := newRegistries(t)
	doc := declaringDocument(t)

	ext, err := d.Deserialize(gltfext.ExtensionPair{
		Name:  TextureTransformName,
		Value: `{"offset":[0.5,0.5],"texCoord":1}`,
	}, gltfext.KindTextureInfo)
	require.NoError(t, err)

	transform := ext.(*TextureTransform)
	assert.Equal(t, [2]float64{0.5, 0.5}, transform.Offset)
	assert.Equal(t, 0.0, transform.Rotation)
	assert.Equal(t, [2]float64{1, 1}, transform.Scale)
	assert.Equal(t, uint32(1), transform.TexCoord)

	pair, err := s.Serialize(transform, gltfext.KindTextureInfo, doc)
	require.NoError(t, err)
	assert.Equal(t, `{"offset":[0.5,0.5],"texCoord":1}`, pair.Value)
}

func TestMalformedFields(t *testing.T) {
	_, d := newRegistries(t)

	cases := []struct {
		name  string
		ext   string
		owner gltfext.PropertyKind
		body  string
		field string
	}{
		{"offsetOneValue", TextureTransformName, gltfext.KindTextureInfo, `{"offset":[0.5]}`, "offset"},
		{"offsetThreeValues", TextureTransformName, gltfext.KindTextureInfo, `{"offset":[1,2,3]}`, "offset"},
		{"scaleOneValue", TextureTransformName, gltfext.KindTextureInfo, `{"scale":[2]}`, "scale"},
		{"attributesNotObject", DracoMeshCompressionName, gltfext.KindMeshPrimitive, `{"attributes":[1,2]}`, "attributes"},
		{"attributeNotInteger", DracoMeshCompressionName, gltfext.KindMeshPrimitive, `{"attributes":{"POSITION":"zero"}}`, "POSITION"},
		{"diffuseFactorShort", PBRSpecularGlossinessName, gltfext.KindMaterial, `{"diffuseFactor":[1,1,1]}`, "diffuseFactor"},
		{"diffuseTextureNoIndex", PBRSpecularGlossinessName, gltfext.KindMaterial, `{"diffuseTexture":{}}`, "index"},
		{"specGlossTextureNoIndex", PBRSpecularGlossinessName, gltfext.KindMaterial, `{"specularGlossinessTexture":{"texCoord":1}}`, "index"},
		{"specularFactorLong", PBRSpecularGlossinessName, gltfext.KindMaterial, `{"specularFactor":[1,1,1,1]}`, "specularFactor"},
		{"bodyNotObject", UnlitName, gltfext.KindMaterial, `[]`, ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := d.Deserialize(gltfext.ExtensionPair{Name: c.ext, Value: c.body}, c.owner)
			var malformed *gltfext.MalformedExtensionError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, c.ext, malformed.Extension)
			assert.Equal(t, c.field, malformed.Field)
		})
	}
}

func TestWrongKindFields(t *testing.T) {
	_, d := newRegistries(t)

	cases := []struct {
		name  string
		ext   string
		owner gltfext.PropertyKind
		body  string
	}{
		{"glossinessString", PBRSpecularGlossinessName, gltfext.KindMaterial, `{"glossinessFactor":"high"}`},
		{"rotationString", TextureTransformName, gltfext.KindTextureInfo, `{"rotation":"cw"}`},
		{"texCoordFloat", TextureTransformName, gltfext.KindTextureInfo, `{"texCoord":1.5}`},
		{"bufferViewString", DracoMeshCompressionName, gltfext.KindMeshPrimitive, `{"bufferView":"0"}`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := d.Deserialize(gltfext.ExtensionPair{Name: c.ext, Value: c.body}, c.owner)
			var kindErr *jsonutil.KindError
			require.ErrorAs(t, err, &kindErr)
		})
	}
}

func TestHandlersAreScoped(t *testing.T) {
	_, d := newRegistries(t)

	assert.True(t, d.HasHandler(UnlitName, gltfext.KindMaterial))
	assert.False(t, d.HasHandler(UnlitName, gltfext.KindMeshPrimitive))
	assert.False(t, d.HasHandler(TextureTransformName, gltfext.KindMaterial))
	assert.True(t, d.HasHandler(DracoMeshCompressionName, gltfext.KindMeshPrimitive))
}

func TestUndeclaredExtensionOnSerialize(t *testing.T) {
	s, _ := newRegistries(t)
	doc := gltfext.NewDocument() // nothing declared

	var p gltfext.Property
	p.SetExtension(&Unlit{})

	out := make(map[string]json.RawMessage)
	err := gltfext.SerializeProperty(out, doc, &p, gltfext.KindMaterial, s)
	var undeclared *gltfext.UndeclaredExtensionError
	require.ErrorAs(t, err, &undeclared)
	assert.Equal(t, UnlitName, undeclared.Name)
}

func TestDuplicateExtensionOnSerialize(t *testing.T) {
	s, _ := newRegistries(t)
	doc := declaringDocument(t)

	var p gltfext.Property
	p.SetExtension(&Unlit{})
	p.SetUnregistered(UnlitName, `{}`)

	out := make(map[string]json.RawMessage)
	err := gltfext.SerializeProperty(out, doc, &p, gltfext.KindMaterial, s)
	var dup *gltfext.DuplicateExtensionError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, UnlitName, dup.Name)
}

func TestDracoDanglingBufferView(t *testing.T) {
	s, _ := newRegistries(t)
	doc := declaringDocument(t)

	draco := NewDracoMeshCompression()
	draco.BufferViewID = "42"

	_, err := s.Serialize(draco, gltfext.KindMeshPrimitive, doc)
	var dangling *gltfext.DanglingReferenceError
	require.ErrorAs(t, err, &dangling)
	assert.Equal(t, "bufferViews", dangling.Collection)
	assert.Equal(t, "42", dangling.ID)
}

func TestNestedExtensionsRoundTrip(t *testing.T) {
	s, d := newRegistries(t)
	doc := declaringDocument(t)

	body := `{
		"glossinessFactor": 0.5,
		"extensions": {"VENDOR_nested": {"deep": true}},
		"extras": {"note": "nested"}
	}`
	ext, err := d.Deserialize(gltfext.ExtensionPair{Name: PBRSpecularGlossinessName, Value: body}, gltfext.KindMaterial)
	require.NoError(t, err)

	specGloss := ext.(*PBRSpecularGlossiness)
	assert.Equal(t, 0.5, specGloss.GlossinessFactor)
	assert.True(t, specGloss.HasUnregistered("VENDOR_nested"))
	assert.Equal(t, `{"note":"nested"}`, specGloss.Extras)

	pair, err := s.Serialize(specGloss, gltfext.KindMaterial, doc)
	require.NoError(t, err)
	assert.JSONEq(t, body, pair.Value)
}

func TestCloneIndependence(t *testing.T) {
	original := &DracoMeshCompression{
		BufferViewID: "0",
		Attributes:   map[string]uint32{"POSITION": 0},
	}
	clone := original.Clone().(*DracoMeshCompression)
	require.True(t, original.Equal(clone))

	original.Attributes["NORMAL"] = 1
	assert.False(t, original.Equal(clone))
}

func TestEqualityAcrossConcreteTypes(t *testing.T) {
	exts := []gltfext.Extension{
		NewPBRSpecularGlossiness(),
		&Unlit{},
		NewDracoMeshCompression(),
		NewTextureTransform(),
	}
	for i, a := range exts {
		for j, b := range exts {
			if i == j {
				assert.True(t, a.Equal(b))
				continue
			}
			assert.False(t, a.Equal(b), "%T vs %T", a, b)
		}
	}
}

func TestSpecGlossTextureReferences(t *testing.T) {
	s, d := newRegistries(t)
	doc := declaringDocument(t)

	specGloss := NewPBRSpecularGlossiness()
	specGloss.DiffuseTexture = &gltfext.TextureInfo{TextureID: "0", TexCoord: 1}

	pair, err := s.Serialize(specGloss, gltfext.KindMaterial, doc)
	require.NoError(t, err)
	assert.Equal(t, `{"diffuseTexture":{"index":0,"texCoord":1}}`, pair.Value)

	back, err := d.Deserialize(pair, gltfext.KindMaterial)
	require.NoError(t, err)
	assert.True(t, specGloss.Equal(back))

	specGloss.DiffuseTexture.TextureID = "missing"
	_, err = s.Serialize(specGloss, gltfext.KindMaterial, doc)
	var dangling *gltfext.DanglingReferenceError
	require.ErrorAs(t, err, &dangling)
	assert.Equal(t, "textures", dangling.Collection)
}
