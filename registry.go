package gltfext

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/gltfkit/gltfext-go/extname"
)

// SerializeFn converts a typed extension instance back to raw JSON text.
// Implementations elide members equal to the extension's default value,
// resolve cross-references through doc's indexed collections, and recurse
// into SerializeProperty for the extension's own nested extensions and
// extras.
type SerializeFn func(ext Extension, doc *Document, s *ExtensionSerializer) (string, error)

// DeserializeFn converts raw JSON text into a typed extension instance,
// applying the extension's documented defaults and recursing into
// ParseProperty for nested extensions and extras.
type DeserializeFn func(pair ExtensionPair, d *ExtensionDeserializer) (Extension, error)

type handlerKey struct {
	name  string
	owner PropertyKind
}

// RegistryOption configures registry construction.
type RegistryOption func(*registryConfig)

type registryConfig struct {
	logger      *zap.Logger
	strictNames bool
}

// WithLogger attaches a logger to the registry. The codec emits
// debug-level events when an extension is promoted to typed form or kept
// verbatim. The default is a nop logger.
func WithLogger(l *zap.Logger) RegistryOption {
	return func(c *registryConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithStrictNames additionally requires every registered extension name
// to carry a vendor prefix reserved in the Khronos registry. By default
// only the `<PREFIX>_<rest>` shape is enforced.
func WithStrictNames() RegistryOption {
	return func(c *registryConfig) { c.strictNames = true }
}

func newRegistryConfig(opts []RegistryOption) registryConfig {
	c := registryConfig{logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	return c
}

func checkRegistrationName(name string, cfg *registryConfig) error {
	parsed, err := extname.Parse(name)
	if err != nil {
		return err
	}
	if cfg.strictNames && !extname.IsKnownPrefix(parsed.Prefix) {
		return fmt.Errorf("extension name %q: unknown vendor prefix %q", name, parsed.Prefix)
	}
	return nil
}

// SerializerRegistration binds one extension name, scoped to an owning
// node kind (or KindAny for unscoped), to its serialize function.
type SerializerRegistration struct {
	Name  string
	Owner PropertyKind
	Fn    SerializeFn
}

// ExtensionSerializer maps (extension name, owner kind) to serialize
// functions. It is immutable after construction; lookups are pure, so a
// single instance may serve any number of concurrent serialize calls.
type ExtensionSerializer struct {
	handlers map[handlerKey]SerializeFn
	logger   *zap.Logger
}

// NewExtensionSerializer builds a serializer registry. Registering the
// same (name, owner) pair twice, a nil function, or a malformed
// extension name fails construction; all registration problems are
// reported together.
func NewExtensionSerializer(regs []SerializerRegistration, opts ...RegistryOption) (*ExtensionSerializer, error) {
	cfg := newRegistryConfig(opts)

	handlers := make(map[handlerKey]SerializeFn, len(regs))
	var errs error
	for _, r := range regs {
		if err := checkRegistrationName(r.Name, &cfg); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if r.Fn == nil {
			errs = multierr.Append(errs, fmt.Errorf("serializer for %s on %s: nil function", r.Name, r.Owner))
			continue
		}
		key := handlerKey{name: r.Name, owner: r.Owner}
		if _, dup := handlers[key]; dup {
			errs = multierr.Append(errs, &DuplicateHandlerError{Name: r.Name, Owner: r.Owner})
			continue
		}
		handlers[key] = r.Fn
	}
	if errs != nil {
		return nil, errs
	}
	return &ExtensionSerializer{handlers: handlers, logger: cfg.logger}, nil
}

// HasHandler reports whether a handler exists for name, either scoped to
// owner or registered as a wildcard.
func (s *ExtensionSerializer) HasHandler(name string, owner PropertyKind) bool {
	_, ok := s.lookup(name, owner)
	return ok
}

func (s *ExtensionSerializer) lookup(name string, owner PropertyKind) (SerializeFn, bool) {
	if fn, ok := s.handlers[handlerKey{name: name, owner: owner}]; ok {
		return fn, true
	}
	fn, ok := s.handlers[handlerKey{name: name, owner: KindAny}]
	return fn, ok
}

// Serialize converts ext back to an ExtensionPair using the handler
// registered for its name on owner (falling back to the wildcard).
func (s *ExtensionSerializer) Serialize(ext Extension, owner PropertyKind, doc *Document) (ExtensionPair, error) {
	name := ext.ExtensionName()
	fn, ok := s.lookup(name, owner)
	if !ok {
		return ExtensionPair{}, &NoHandlerError{Name: name, Owner: owner}
	}
	value, err := fn(ext, doc, s)
	if err != nil {
		return ExtensionPair{}, err
	}
	s.logger.Debug("serialized extension", zap.String("name", name), zap.Stringer("owner", owner))
	return ExtensionPair{Name: name, Value: value}, nil
}

// DeserializerRegistration binds one extension name, scoped to an owning
// node kind (or KindAny for unscoped), to its deserialize function.
type DeserializerRegistration struct {
	Name  string
	Owner PropertyKind
	Fn    DeserializeFn
}

// ExtensionDeserializer maps (extension name, owner kind) to deserialize
// functions. It is immutable after construction and safe for concurrent
// use, like ExtensionSerializer.
type ExtensionDeserializer struct {
	handlers map[handlerKey]DeserializeFn
	logger   *zap.Logger
}

// NewExtensionDeserializer builds a deserializer registry with the same
// construction rules as NewExtensionSerializer.
func NewExtensionDeserializer(regs []DeserializerRegistration, opts ...RegistryOption) (*ExtensionDeserializer, error) {
	cfg := newRegistryConfig(opts)

	handlers := make(map[handlerKey]DeserializeFn, len(regs))
	var errs error
	for _, r := range regs {
		if err := checkRegistrationName(r.Name, &cfg); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if r.Fn == nil {
			errs = multierr.Append(errs, fmt.Errorf("deserializer for %s on %s: nil function", r.Name, r.Owner))
			continue
		}
		key := handlerKey{name: r.Name, owner: r.Owner}
		if _, dup := handlers[key]; dup {
			errs = multierr.Append(errs, &DuplicateHandlerError{Name: r.Name, Owner: r.Owner})
			continue
		}
		handlers[key] = r.Fn
	}
	if errs != nil {
		return nil, errs
	}
	return &ExtensionDeserializer{handlers: handlers, logger: cfg.logger}, nil
}

// HasHandler reports whether a handler exists for name, either scoped to
// owner or registered as a wildcard.
func (d *ExtensionDeserializer) HasHandler(name string, owner PropertyKind) bool {
	_, ok := d.lookup(name, owner)
	return ok
}

func (d *ExtensionDeserializer) lookup(name string, owner PropertyKind) (DeserializeFn, bool) {
	if fn, ok := d.handlers[handlerKey{name: name, owner: owner}]; ok {
		return fn, true
	}
	fn, ok := d.handlers[handlerKey{name: name, owner: KindAny}]
	return fn, ok
}

// Deserialize converts pair to a typed extension using the handler
// registered for its name on owner (falling back to the wildcard).
func (d *ExtensionDeserializer) Deserialize(pair ExtensionPair, owner PropertyKind) (Extension, error) {
	fn, ok := d.lookup(pair.Name, owner)
	if !ok {
		return nil, &NoHandlerError{Name: pair.Name, Owner: owner}
	}
	ext, err := fn(pair, d)
	if err != nil {
		return nil, err
	}
	d.logger.Debug("deserialized extension", zap.String("name", pair.Name), zap.Stringer("owner", owner))
	return ext, nil
}

func (d *ExtensionDeserializer) debugPassThrough(name string, owner PropertyKind) {
	d.logger.Debug("kept unregistered extension verbatim", zap.String("name", name), zap.Stringer("owner", owner))
}
