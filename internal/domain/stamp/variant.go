package stamp

import (
	"fmt"
	"strings"
)

// BuildVariant selects the version name format.
type BuildVariant string

const (
	// Release names carry the calendar date only.
	Release BuildVariant = "release"
	// Debug names carry the full UTC time of the build.
	Debug BuildVariant = "debug"
)

// Variants returns every known build variant in a stable order.
func Variants() []BuildVariant {
	return []BuildVariant{Release, Debug}
}

// ParseBuildVariant converts a build type name into a BuildVariant.
// The comparison ignores case and surrounding whitespace.
func ParseBuildVariant(s string) (BuildVariant, error) {
	v := BuildVariant(strings.ToLower(strings.TrimSpace(s)))
	if !v.IsValid() {
		return "", fmt.Errorf("%w: unknown build variant %q", ErrInvalidInput, s)
	}

	return v, nil
}

// IsValid reports whether v is one of the known variants.
func (v BuildVariant) IsValid() bool {
	switch v {
	case Release, Debug:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (v BuildVariant) String() string {
	return string(v)
}
