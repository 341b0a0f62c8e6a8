package values

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// PlatformVersion is the version of the host platform the grants are requested on.
// Hosts older than the first release with runtime grants never prompt.
type PlatformVersion struct {
	value *semver.Version
}

// ParsePlatformVersion parses a (possibly partial) semantic version such as "14" or "6.0.1".
func ParsePlatformVersion(s string) (PlatformVersion, error) {
	v, err := semver.NewVersion(s)
	if err != nil {
		return PlatformVersion{}, fmt.Errorf("invalid platform version %q: %w", s, err)
	}
	return PlatformVersion{value: v}, nil
}

// MustParsePlatformVersion parses a string or panics (for tests only)
func MustParsePlatformVersion(s string) PlatformVersion {
	v, err := ParsePlatformVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Satisfies reports whether the version matches a semver constraint like ">= 6.0.0".
func (p PlatformVersion) Satisfies(constraint string) (bool, error) {
	if p.IsZero() {
		return false, fmt.Errorf("platform version is not set")
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("invalid version constraint %q: %w", constraint, err)
	}
	return c.Check(p.value), nil
}

// String returns the normalized version string.
func (p PlatformVersion) String() string {
	if p.value == nil {
		return ""
	}
	return p.value.String()
}

// IsZero returns true if this is the zero value
func (p PlatformVersion) IsZero() bool {
	return p.value == nil
}
