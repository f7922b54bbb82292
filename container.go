package gltfext

import "fmt"

// IndexedContainer is an append-only collection whose elements are
// addressable both by insertion index and by a caller-assigned string
// id. Cross-reference fields in serialized output store indices; the
// in-memory model stores ids, and this container is the bridge between
// the two.
type IndexedContainer[T any] struct {
	name     string
	elements []T
	byID     map[string]int
	idOf     func(T) string
}

// NewIndexedContainer returns an empty container. name identifies the
// collection in DanglingReferenceError messages ("textures",
// "bufferViews", ...); idOf extracts an element's id.
func NewIndexedContainer[T any](name string, idOf func(T) string) *IndexedContainer[T] {
	return &IndexedContainer[T]{
		name: name,
		byID: make(map[string]int),
		idOf: idOf,
	}
}

// Append adds v and returns its index. An element whose id is already
// present is rejected; an empty id is assigned the element's decimal
// index, matching how ids are minted when a document is parsed.
func (c *IndexedContainer[T]) Append(v T) (int, error) {
	id := c.idOf(v)
	if id == "" {
		id = fmt.Sprintf("%d", len(c.elements))
	}
	if _, exists := c.byID[id]; exists {
		return 0, fmt.Errorf("%s: duplicate id %q", c.name, id)
	}
	index := len(c.elements)
	c.elements = append(c.elements, v)
	c.byID[id] = index
	return index, nil
}

// Len returns the number of elements.
func (c *IndexedContainer[T]) Len() int {
	return len(c.elements)
}

// At returns the element at index i.
func (c *IndexedContainer[T]) At(i int) (T, bool) {
	var zero T
	if i < 0 || i >= len(c.elements) {
		return zero, false
	}
	return c.elements[i], true
}

// ResolveID returns the element with the given id.
func (c *IndexedContainer[T]) ResolveID(id string) (T, bool) {
	var zero T
	i, ok := c.byID[id]
	if !ok {
		return zero, false
	}
	return c.elements[i], true
}

// IndexOf returns the index of the element with the given id, or a
// *DanglingReferenceError when no element carries it.
func (c *IndexedContainer[T]) IndexOf(id string) (int, error) {
	i, ok := c.byID[id]
	if !ok {
		return 0, &DanglingReferenceError{Collection: c.name, ID: id}
	}
	return i, nil
}

// Elements returns the backing slice in insertion order. Callers must
// not mutate it.
func (c *IndexedContainer[T]) Elements() []T {
	return c.elements
}
