package gltfext

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
)

// SupportedVersion is the glTF specification version this library
// implements. asset.version carries the version a document was written
// against; asset.minVersion, when present, is the oldest version a
// reader must implement to consume the document.
const SupportedVersion = "2.0"

var supportedVersion Version

func init() {
	var err error
	supportedVersion, err = ParseVersion(SupportedVersion)
	if err != nil {
		panic(fmt.Sprintf("gltfext: invalid SupportedVersion %q: %v", SupportedVersion, err))
	}
}

// Version is a parsed `major.minor` asset version.
type Version struct {
	Major int
	Minor int
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// ParseVersion parses a strict `major.minor` version string.
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 2 {
		return Version{}, fmt.Errorf("invalid version: %q", s)
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil || major < 0 {
		return Version{}, fmt.Errorf("invalid version: %q", s)
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil || minor < 0 {
		return Version{}, fmt.Errorf("invalid version: %q", s)
	}
	return Version{Major: major, Minor: minor}, nil
}

// CompareVersions orders two versions by major, then minor.
func CompareVersions(a, b Version) int {
	if a.Major != b.Major {
		return cmp.Compare(a.Major, b.Major)
	}
	return cmp.Compare(a.Minor, b.Minor)
}

// IsMinVersionSupported reports whether a document declaring minVersion
// v can be consumed by this library.
func IsMinVersionSupported(v string) (bool, error) {
	parsed, err := ParseVersion(v)
	if err != nil {
		return false, err
	}
	return CompareVersions(parsed, supportedVersion) <= 0, nil
}
