// Package oracle answers grant questions the host can settle without asking
// the user: platform gating, configured policy and earlier answers.
package oracle

import (
	"fmt"

	"github.com/reglet-dev/flowgrant/internal/application/ports"
	"github.com/reglet-dev/flowgrant/internal/domain/values"
)

// Ensure interface compliance
var _ ports.PlatformInfo = (*Platform)(nil)

// Platform is the host platform as described by the config file.
type Platform struct {
	version       values.PlatformVersion
	since         string
	runtimeGrants bool
}

// NewPlatform parses version and checks it against the runtime-grants constraint.
func NewPlatform(version, runtimeGrantsSince string) (*Platform, error) {
	v, err := values.ParsePlatformVersion(version)
	if err != nil {
		return nil, err
	}
	ok, err := v.Satisfies(runtimeGrantsSince)
	if err != nil {
		return nil, fmt.Errorf("platform %s: %w", v, err)
	}
	return &Platform{
		version:       v,
		since:         runtimeGrantsSince,
		runtimeGrants: ok,
	}, nil
}

// SupportsRuntimeGrants reports whether keys on this platform are granted at runtime.
func (p *Platform) SupportsRuntimeGrants() bool {
	return p.runtimeGrants
}

// Version returns the parsed platform version.
func (p *Platform) Version() values.PlatformVersion {
	return p.version
}

func (p *Platform) String() string {
	return fmt.Sprintf("%s (runtime grants %s: %t)", p.version, p.since, p.runtimeGrants)
}
