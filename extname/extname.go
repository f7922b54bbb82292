// Package extname parses and validates glTF extension names. Extension
// names follow the `<PREFIX>_<rest>` convention where the prefix is an
// uppercase vendor or working-group tag reserved with Khronos (KHR, EXT,
// MSFT, ...) and the rest names the extension itself.
package extname

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Name is a parsed `<PREFIX>_<rest>` extension name.
type Name struct {
	// Prefix is the vendor or working-group tag, always uppercase.
	Prefix string
	// Rest is everything after the first underscore.
	Rest string
}

func (n Name) String() string {
	if n.Prefix == "" || n.Rest == "" {
		return ""
	}
	return n.Prefix + "_" + n.Rest
}

var nameRe = regexp.MustCompile(`^[A-Z][A-Z0-9]*_[A-Za-z0-9][A-Za-z0-9_.]*$`)

// Parse parses an extension name into its prefix and rest.
func Parse(s string) (Name, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Name{}, errors.New("extension name: empty")
	}
	if !nameRe.MatchString(s) {
		return Name{}, fmt.Errorf("extension name: invalid %q", s)
	}
	underscore := strings.IndexByte(s, '_')
	return Name{Prefix: s[:underscore], Rest: s[underscore+1:]}, nil
}

// IsValid reports whether s is a syntactically valid extension name.
func IsValid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// Vendor prefixes reserved in the Khronos extension registry. Not
// exhaustive; used only for the opt-in strict-name check.
var knownPrefixes = map[string]struct{}{
	"KHR":    {},
	"EXT":    {},
	"ADOBE":  {},
	"AGI":    {},
	"CESIUM": {},
	"FB":     {},
	"GOOGLE": {},
	"MOZ":    {},
	"MSFT":   {},
	"NV":     {},
	"WEB3D":  {},
}

// IsKnownPrefix reports whether p is a registered vendor prefix.
func IsKnownPrefix(p string) bool {
	_, ok := knownPrefixes[p]
	return ok
}
