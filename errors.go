package gltfext

import "fmt"

// The error types below form the full failure taxonomy of the extension
// codec. All are concrete types retrievable with errors.As; none of them
// is ever swallowed; a failing extension aborts the parse or serialize
// of its document. Kind mismatches during raw member extraction surface
// as *jsonutil.KindError from the jsonutil package.

// MalformedExtensionError reports a registered extension whose body does
// not have the documented shape: a missing required member, a numeric
// array of the wrong length, or a member of the wrong JSON kind.
//
// Shared parsers that run below the plugin boundary (ParseTextureInfo)
// leave Extension empty; the plugin that called them fills in its name
// before returning.
type MalformedExtensionError struct {
	Extension string
	Field     string
	Reason    string
}

func (e *MalformedExtensionError) Error() string {
	switch {
	case e.Extension == "":
		return fmt.Sprintf("malformed member %q: %s", e.Field, e.Reason)
	case e.Field == "":
		return fmt.Sprintf("malformed extension %s: %s", e.Extension, e.Reason)
	default:
		return fmt.Sprintf("malformed extension %s: member %q %s", e.Extension, e.Field, e.Reason)
	}
}

// DuplicateExtensionError reports an extension name present both as a
// typed instance and as an unregistered raw entry on the same node.
type DuplicateExtensionError struct {
	Name string
}

func (e *DuplicateExtensionError) Error() string {
	return fmt.Sprintf("extension %s is present in both registered and unregistered form", e.Name)
}

// UndeclaredExtensionError reports a typed extension serialized on a
// document that does not declare the name in extensionsUsed.
type UndeclaredExtensionError struct {
	Name string
}

func (e *UndeclaredExtensionError) Error() string {
	return fmt.Sprintf("extension %s is not declared in extensionsUsed", e.Name)
}

// DanglingReferenceError reports an id that does not resolve to an
// element of the named sibling collection.
type DanglingReferenceError struct {
	Collection string
	ID         string
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("id %q does not resolve to an element of %s", e.ID, e.Collection)
}

// DuplicateHandlerError reports a second registration for the same
// (extension name, owner kind) pair. Registry construction fails rather
// than silently overwriting the earlier handler.
type DuplicateHandlerError struct {
	Name  string
	Owner PropertyKind
}

func (e *DuplicateHandlerError) Error() string {
	return fmt.Sprintf("handler for %s on %s registered twice", e.Name, e.Owner)
}

// NoHandlerError reports a serialize or deserialize dispatch for which
// neither an owner-scoped nor a wildcard handler exists. Hitting it from
// SerializeProperty means a typed extension was attached to a node
// without a matching serializer registration, which is a host wiring
// mistake rather than a data error.
type NoHandlerError struct {
	Name  string
	Owner PropertyKind
}

func (e *NoHandlerError) Error() string {
	return fmt.Sprintf("no handler for %s on %s", e.Name, e.Owner)
}
