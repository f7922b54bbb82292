package gltfext

import (
	"encoding/json"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/multierr"
)

// Document is the owning root of a node tree: the asset descriptor, the
// extension usage declarations, and the indexed collections that
// reference fields resolve through. A document is built by one
// goroutine; once built it may be read (serialized) concurrently, but
// not mutated concurrently.
type Document struct {
	Property

	Asset Asset

	// ExtensionsUsed declares every extension name that appears anywhere
	// in the document. Serializing a typed extension whose name is not in
	// this set fails with *UndeclaredExtensionError.
	ExtensionsUsed mapset.Set[string]

	// ExtensionsRequired declares the subset of ExtensionsUsed a reader
	// must implement to load the document at all.
	ExtensionsRequired mapset.Set[string]

	Materials   *IndexedContainer[*Material]
	Meshes      *IndexedContainer[*Mesh]
	Textures    *IndexedContainer[*Texture]
	BufferViews *IndexedContainer[*BufferView]

	// unknown holds top-level members outside the modeled subset,
	// verbatim, for lossless round-trips.
	unknown map[string]json.RawMessage
}

// NewDocument returns an empty document with version set to
// SupportedVersion.
func NewDocument() *Document {
	return &Document{
		Asset:              Asset{Version: SupportedVersion},
		ExtensionsUsed:     mapset.NewThreadUnsafeSet[string](),
		ExtensionsRequired: mapset.NewThreadUnsafeSet[string](),
		Materials:          NewIndexedContainer("materials", func(m *Material) string { return m.ID }),
		Meshes:             NewIndexedContainer("meshes", func(m *Mesh) string { return m.ID }),
		Textures:           NewIndexedContainer("textures", func(t *Texture) string { return t.ID }),
		BufferViews:        NewIndexedContainer("bufferViews", func(bv *BufferView) string { return bv.ID }),
	}
}

// UseExtension declares name in extensionsUsed.
func (d *Document) UseExtension(name string) {
	d.ExtensionsUsed.Add(name)
}

// RequireExtension declares name in both extensionsRequired and
// extensionsUsed (required implies used).
func (d *Document) RequireExtension(name string) {
	d.ExtensionsRequired.Add(name)
	d.ExtensionsUsed.Add(name)
}

// IsExtensionUsed reports whether name is declared in extensionsUsed.
func (d *Document) IsExtensionUsed(name string) bool {
	return d.ExtensionsUsed.Contains(name)
}

// IsExtensionRequired reports whether name is declared in
// extensionsRequired.
func (d *Document) IsExtensionRequired(name string) bool {
	return d.ExtensionsRequired.Contains(name)
}

// Validate performs the document-level consistency checks: a parseable
// asset version, a supported minVersion, and required extensions being a
// subset of used ones. All problems are reported together.
func (d *Document) Validate() error {
	var errs error

	if _, err := ParseVersion(d.Asset.Version); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("asset.version: %w", err))
	}
	if d.Asset.MinVersion != "" {
		ok, err := IsMinVersionSupported(d.Asset.MinVersion)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("asset.minVersion: %w", err))
		} else if !ok {
			errs = multierr.Append(errs, fmt.Errorf("asset.minVersion: %s exceeds supported version %s", d.Asset.MinVersion, SupportedVersion))
		}
	}
	for _, name := range sortedSet(d.ExtensionsRequired) {
		if !d.ExtensionsUsed.Contains(name) {
			errs = multierr.Append(errs, fmt.Errorf("extensionsRequired: %s is not declared in extensionsUsed", name))
		}
	}
	return errs
}
