package gltfext

import (
	"encoding/json"
	"fmt"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/tidwall/jsonc"

	"github.com/gltfkit/gltfext-go/jsonutil"
)

// Top-level members the loader models. Everything else round-trips
// verbatim through Document.unknown.
var knownDocumentMembers = map[string]struct{}{
	"asset":              {},
	"extensionsUsed":     {},
	"extensionsRequired": {},
	"materials":          {},
	"meshes":             {},
	"textures":           {},
	"bufferViews":        {},
	"extensions":         {},
	"extras":             {},
}

// ParseDocument decodes a glTF document, walking every modeled node
// through the extension codec with d. The input may be JSONC (line and
// block comments, trailing commas); it is stripped to plain JSON before
// decoding. Collection elements are assigned decimal-index ids.
func ParseDocument(data []byte, d *ExtensionDeserializer) (*Document, error) {
	root, err := jsonutil.Object("document", jsonc.ToJSON(data))
	if err != nil {
		return nil, err
	}

	doc := NewDocument()

	assetRaw, ok := root["asset"]
	if !ok {
		return nil, fmt.Errorf("document: required member \"asset\" is missing")
	}
	if doc.Asset, err = parseAsset(assetRaw, d); err != nil {
		return nil, err
	}

	if err := parseNameSet(root, "extensionsUsed", doc.ExtensionsUsed); err != nil {
		return nil, err
	}
	if err := parseNameSet(root, "extensionsRequired", doc.ExtensionsRequired); err != nil {
		return nil, err
	}

	if err := parseCollection(root, "materials", doc.Materials, d, parseMaterial); err != nil {
		return nil, err
	}
	if err := parseCollection(root, "meshes", doc.Meshes, d, parseMesh); err != nil {
		return nil, err
	}
	if err := parseCollection(root, "textures", doc.Textures, d, parseTexture); err != nil {
		return nil, err
	}
	if err := parseCollection(root, "bufferViews", doc.BufferViews, d, parseBufferView); err != nil {
		return nil, err
	}

	if err := ParseProperty(root, &doc.Property, KindDocument, d); err != nil {
		return nil, err
	}

	for name, value := range root {
		if _, known := knownDocumentMembers[name]; !known {
			if doc.unknown == nil {
				doc.unknown = make(map[string]json.RawMessage)
			}
			doc.unknown[name] = value
		}
	}

	return doc, nil
}

// SerializeDocument validates doc and encodes it back to JSON. Typed
// extensions on every node are converted through s; unregistered
// extensions and out-of-subset top-level members are emitted verbatim.
// Output member order is deterministic (sorted keys throughout).
func SerializeDocument(doc *Document, s *ExtensionSerializer) ([]byte, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	out := make(map[string]json.RawMessage)

	assetRaw, err := serializeAsset(&doc.Asset, doc, s)
	if err != nil {
		return nil, err
	}
	out["asset"] = assetRaw

	if doc.ExtensionsUsed.Cardinality() > 0 {
		out["extensionsUsed"] = nameSetMember(doc.ExtensionsUsed)
	}
	if doc.ExtensionsRequired.Cardinality() > 0 {
		out["extensionsRequired"] = nameSetMember(doc.ExtensionsRequired)
	}

	if err := serializeCollection(out, "materials", doc.Materials, doc, s, serializeMaterial); err != nil {
		return nil, err
	}
	if err := serializeCollection(out, "meshes", doc.Meshes, doc, s, serializeMesh); err != nil {
		return nil, err
	}
	if err := serializeCollection(out, "textures", doc.Textures, doc, s, serializeTexture); err != nil {
		return nil, err
	}
	if err := serializeCollection(out, "bufferViews", doc.BufferViews, doc, s, serializeBufferView); err != nil {
		return nil, err
	}

	if err := SerializeProperty(out, doc, &doc.Property, KindDocument, s); err != nil {
		return nil, err
	}

	for name, value := range doc.unknown {
		out[name] = value
	}

	return json.Marshal(out)
}

func parseNameSet(root map[string]json.RawMessage, member string, into mapset.Set[string]) error {
	raw, ok := root[member]
	if !ok {
		return nil
	}
	if k := jsonutil.Kind(raw); k != "array" {
		return &jsonutil.KindError{Member: member, Want: "array", Got: k}
	}
	var names []json.RawMessage
	if err := json.Unmarshal(raw, &names); err != nil {
		return err
	}
	for _, n := range names {
		name, err := jsonutil.String(member, n)
		if err != nil {
			return err
		}
		into.Add(name)
	}
	return nil
}

func nameSetMember(set mapset.Set[string]) json.RawMessage {
	names := sortedSet(set)
	encoded, _ := json.Marshal(names)
	return encoded
}

func sortedSet(set mapset.Set[string]) []string {
	names := set.ToSlice()
	sort.Strings(names)
	return names
}

func parseCollection[T any](
	root map[string]json.RawMessage,
	member string,
	into *IndexedContainer[T],
	d *ExtensionDeserializer,
	parse func(raw json.RawMessage, id string, d *ExtensionDeserializer) (T, error),
) error {
	raw, ok := root[member]
	if !ok {
		return nil
	}
	if k := jsonutil.Kind(raw); k != "array" {
		return &jsonutil.KindError{Member: member, Want: "array", Got: k}
	}
	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return err
	}
	for i, e := range elements {
		v, err := parse(e, fmt.Sprintf("%d", i), d)
		if err != nil {
			return fmt.Errorf("%s[%d]: %w", member, i, err)
		}
		if _, err := into.Append(v); err != nil {
			return err
		}
	}
	return nil
}

func serializeCollection[T any](
	out map[string]json.RawMessage,
	member string,
	from *IndexedContainer[T],
	doc *Document,
	s *ExtensionSerializer,
	serialize func(v T, doc *Document, s *ExtensionSerializer) (json.RawMessage, error),
) error {
	if from.Len() == 0 {
		return nil
	}
	elements := make([]json.RawMessage, from.Len())
	for i, v := range from.Elements() {
		encoded, err := serialize(v, doc, s)
		if err != nil {
			return fmt.Errorf("%s[%d]: %w", member, i, err)
		}
		elements[i] = encoded
	}
	encoded, err := json.Marshal(elements)
	if err != nil {
		return err
	}
	out[member] = encoded
	return nil
}
