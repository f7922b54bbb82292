package gltfext

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePropertyPromotesAndPassesThrough(t *testing.T) {
	d := stubDeserializer(t, KindMaterial)

	raw := map[string]json.RawMessage{
		"extensions": json.RawMessage(`{
			"TEST_stub": {"value": "typed"},
			"VENDOR_unknown": {"keep": [1, 2, 3]}
		}`),
		"extras": json.RawMessage(`{"note": "hello"}`),
	}

	var p Property
	require.NoError(t, ParseProperty(raw, &p, KindMaterial, d))

	typed := p.TypedExtension()
	require.NotNil(t, typed)
	assert.Equal(t, "typed", typed.(*stubExtension).Value)

	assert.False(t, p.HasUnregistered(stubName))
	require.True(t, p.HasUnregistered("VENDOR_unknown"))
	assert.Equal(t, `{"keep":[1,2,3]}`, p.Extensions["VENDOR_unknown"])
	assert.Equal(t, `{"note":"hello"}`, p.Extras)
}

func TestParsePropertyNilDeserializer(t *testing.T) {
	raw := map[string]json.RawMessage{
		"extensions": json.RawMessage(`{"TEST_stub": {}}`),
	}
	var p Property
	require.NoError(t, ParseProperty(raw, &p, KindMaterial, nil))
	assert.Nil(t, p.TypedExtension())
	assert.True(t, p.HasUnregistered(stubName))
}

func TestParsePropertyScopedElsewhereStaysVerbatim(t *testing.T) {
	d := stubDeserializer(t, KindMaterial)

	raw := map[string]json.RawMessage{
		"extensions": json.RawMessage(`{"TEST_stub": {"value": "x"}}`),
	}
	var p Property
	require.NoError(t, ParseProperty(raw, &p, KindMeshPrimitive, d))
	assert.Nil(t, p.TypedExtension())
	assert.True(t, p.HasUnregistered(stubName))
}

func TestParsePropertyRejectsNonObjectExtensions(t *testing.T) {
	raw := map[string]json.RawMessage{
		"extensions": json.RawMessage(`[1,2]`),
	}
	var p Property
	require.Error(t, ParseProperty(raw, &p, KindMaterial, nil))
}

func TestSerializePropertyMergesTypedAndVerbatim(t *testing.T) {
	s := stubSerializer(t, KindMaterial)
	doc := NewDocument()
	doc.UseExtension(stubName)

	var p Property
	p.SetExtension(&stubExtension{Value: "x"})
	p.SetUnregistered("VENDOR_unknown", `{"keep":true}`)
	p.Extras = `{"note":"hello"}`

	out := make(map[string]json.RawMessage)
	require.NoError(t, SerializeProperty(out, doc, &p, KindMaterial, s))

	assert.JSONEq(t, `{"TEST_stub":{"value":"x"},"VENDOR_unknown":{"keep":true}}`, string(out["extensions"]))
	assert.Equal(t, `{"note":"hello"}`, string(out["extras"]))
}

func TestSerializePropertyOmitsEmpty(t *testing.T) {
	s := stubSerializer(t, KindMaterial)
	doc := NewDocument()

	var p Property
	out := make(map[string]json.RawMessage)
	require.NoError(t, SerializeProperty(out, doc, &p, KindMaterial, s))
	assert.NotContains(t, out, "extensions")
	assert.NotContains(t, out, "extras")
}

func TestSerializePropertyNilSerializer(t *testing.T) {
	doc := NewDocument()
	doc.UseExtension(stubName)

	var p Property
	p.SetUnregistered("VENDOR_unknown", `{"keep":true}`)
	p.Extras = `{"note":"hello"}`

	// Verbatim entries and extras need no handlers.
	out := make(map[string]json.RawMessage)
	require.NoError(t, SerializeProperty(out, doc, &p, KindMaterial, nil))
	assert.JSONEq(t, `{"VENDOR_unknown":{"keep":true}}`, string(out["extensions"]))

	// A typed extension does.
	p.SetExtension(&stubExtension{Value: "x"})
	err := SerializeProperty(out, doc, &p, KindMaterial, nil)
	var noHandler *NoHandlerError
	require.ErrorAs(t, err, &noHandler)
	assert.Equal(t, stubName, noHandler.Name)
	assert.Equal(t, KindMaterial, noHandler.Owner)
}

func TestSerializePropertyDuplicateExtension(t *testing.T) {
	s := stubSerializer(t, KindMaterial)
	doc := NewDocument()
	doc.UseExtension(stubName)

	var p Property
	p.SetExtension(&stubExtension{Value: "typed"})
	p.SetUnregistered(stubName, `{"value":"raw"}`)

	out := make(map[string]json.RawMessage)
	err := SerializeProperty(out, doc, &p, KindMaterial, s)
	var dup *DuplicateExtensionError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, stubName, dup.Name)
}

func TestSerializePropertyUndeclaredExtension(t *testing.T) {
	s := stubSerializer(t, KindMaterial)
	doc := NewDocument() // stubName never declared in extensionsUsed

	var p Property
	p.SetExtension(&stubExtension{Value: "x"})

	out := make(map[string]json.RawMessage)
	err := SerializeProperty(out, doc, &p, KindMaterial, s)
	var undeclared *UndeclaredExtensionError
	require.ErrorAs(t, err, &undeclared)
	assert.Equal(t, stubName, undeclared.Name)
}

func TestSerializePropertyDeterministicOrder(t *testing.T) {
	s := stubSerializer(t, KindMaterial)
	doc := NewDocument()

	var p Property
	p.SetUnregistered("VENDOR_b", `{}`)
	p.SetUnregistered("VENDOR_a", `{}`)
	p.SetUnregistered("VENDOR_c", `{}`)

	out := make(map[string]json.RawMessage)
	require.NoError(t, SerializeProperty(out, doc, &p, KindMaterial, s))
	assert.Equal(t, `{"VENDOR_a":{},"VENDOR_b":{},"VENDOR_c":{}}`, string(out["extensions"]))
}

func TestRoundTripExtensionPassThrough(t *testing.T) {
	d := stubDeserializer(t, KindMaterial)
	s := stubSerializer(t, KindMaterial)
	doc := NewDocument()

	in := json.RawMessage(`{"VENDOR_a": {"z": 1, "a": [true, null, "s"]}, "VENDOR_b": 42}`)
	raw := map[string]json.RawMessage{"extensions": in}

	var p Property
	require.NoError(t, ParseProperty(raw, &p, KindMaterial, d))

	out := make(map[string]json.RawMessage)
	require.NoError(t, SerializeProperty(out, doc, &p, KindMaterial, s))

	var inTree, outTree map[string]any
	require.NoError(t, json.Unmarshal(in, &inTree))
	require.NoError(t, json.Unmarshal(out["extensions"], &outTree))
	assert.Equal(t, inTree, outTree)
}
