package gltfext

import (
	"encoding/json"
	"sort"

	"github.com/gltfkit/gltfext-go/jsonutil"
)

// ParseProperty scans the "extensions" and "extras" members of a node's
// raw object into p. Each extension with a handler registered for owner
// (or unscoped) is promoted to a typed instance and attached to p's
// typed slot; every other extension is kept verbatim in p.Extensions.
// Extras, when present, is stored verbatim.
//
// A nil deserializer keeps every extension verbatim.
func ParseProperty(raw map[string]json.RawMessage, p *Property, owner PropertyKind, d *ExtensionDeserializer) error {
	if extRaw, ok := raw["extensions"]; ok {
		obj, err := jsonutil.Object("extensions", extRaw)
		if err != nil {
			return err
		}
		names := make([]string, 0, len(obj))
		for name := range obj {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			value, err := jsonutil.Compact(obj[name])
			if err != nil {
				return err
			}
			pair := ExtensionPair{Name: name, Value: value}
			if d != nil && d.HasHandler(name, owner) {
				ext, err := d.Deserialize(pair, owner)
				if err != nil {
					return err
				}
				p.SetExtension(ext)
				continue
			}
			p.SetUnregistered(pair.Name, pair.Value)
			if d != nil {
				d.debugPassThrough(name, owner)
			}
		}
	}
	if extrasRaw, ok := raw["extras"]; ok {
		value, err := jsonutil.Compact(extrasRaw)
		if err != nil {
			return err
		}
		p.Extras = value
	}
	return nil
}

// SerializeProperty emits p's "extensions" and "extras" members into
// out, the raw object under construction for the owning node.
//
// The typed extension, if attached, is converted through s and inserted
// under its name. The same name appearing in p's unregistered map is a
// *DuplicateExtensionError; a name absent from doc's extensionsUsed set
// is an *UndeclaredExtensionError. Unregistered entries are inserted
// verbatim. Member order in the emitted object is sorted by name, so
// output is deterministic.
//
// A nil serializer emits unregistered entries and extras as usual, but
// a typed extension has no handler to convert it, so that fails with a
// *NoHandlerError.
func SerializeProperty(out map[string]json.RawMessage, doc *Document, p *Property, owner PropertyKind, s *ExtensionSerializer) error {
	typed := p.TypedExtension()
	if typed != nil || len(p.Extensions) > 0 {
		members := make(map[string]json.RawMessage, len(p.Extensions)+1)
		if typed != nil {
			if s == nil {
				return &NoHandlerError{Name: typed.ExtensionName(), Owner: owner}
			}
			pair, err := s.Serialize(typed, owner, doc)
			if err != nil {
				return err
			}
			if p.HasUnregistered(pair.Name) {
				return &DuplicateExtensionError{Name: pair.Name}
			}
			if doc == nil || !doc.IsExtensionUsed(pair.Name) {
				return &UndeclaredExtensionError{Name: pair.Name}
			}
			// TODO: validate pair.Value against the extension's published
			// JSON schema once a schema source is wired in.
			members[pair.Name] = json.RawMessage(pair.Value)
		}
		for name, value := range p.Extensions {
			members[name] = json.RawMessage(value)
		}
		encoded, err := json.Marshal(members)
		if err != nil {
			return err
		}
		out["extensions"] = encoded
	}
	if p.Extras != "" {
		out["extras"] = json.RawMessage(p.Extras)
	}
	return nil
}
