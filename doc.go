// Package gltfext implements the extension registry and round-trip codec
// for glTF 2.0 documents: a dual (serializer/deserializer) registry that
// promotes statically-known extensions to typed values while every other
// extension passes through losslessly as opaque JSON text.
//
// # Model
//
// Every node that can carry extensions embeds Property: a map of
// unregistered extension bodies kept verbatim, an opaque extras payload,
// and at most one attached typed Extension. The registries map
// (extension name, owning node kind) to conversion functions; a handler
// may be scoped to a kind (e.g. only on materials) or registered under
// KindAny as a wildcard.
//
// # Round-trip
//
//	deser, _ := khr.NewDeserializer()
//	doc, err := gltfext.ParseDocument(data, deser)
//	...
//	ser, _ := khr.NewSerializer()
//	out, err := gltfext.SerializeDocument(doc, ser)
//
// On parse, each member of a node's extensions object is promoted
// through the deserializer registry when a handler exists, and kept
// verbatim otherwise. On save, the typed extension is converted back to
// text and merged with the verbatim entries; a name present in both
// forms is a *DuplicateExtensionError, and a typed name missing from the
// document's extensionsUsed declaration is an *UndeclaredExtensionError.
// Output is deterministic: object members are emitted in sorted order.
//
// # Concurrency
//
// Registries are immutable after construction and safe for any number
// of concurrent parse and serialize operations. A single Document is
// not safe for concurrent mutation; distinct documents need no
// coordination.
//
// # Subpackages
//
//   - khr: the four Khronos reference extensions and pre-wired registries
//   - jsonutil: kind-checked raw-JSON extraction, deterministic re-encoding
//   - extname: extension-name convention parsing (vendor prefixes)
package gltfext
