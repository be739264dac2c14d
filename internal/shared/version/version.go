// Package version carries the build version, set at link time with
// -ldflags "-X github.com/hopperkey/phatdev/internal/shared/version.Version=1.2.3".
package version

import (
	"strings"

	"golang.org/x/mod/semver"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Normalize ensures version string has "v" prefix for semver compatibility.
// Examples: "1.2.3" -> "v1.2.3", "v1.2.3" -> "v1.2.3"
func Normalize(version string) string {
	if version == "" {
		return ""
	}
	version = strings.TrimSpace(version)
	if !strings.HasPrefix(version, "v") {
		return "v" + version
	}
	return version
}

// Current returns the canonical semver of this build, or the raw value for
// development builds ("dev").
func Current() string {
	if v := semver.Canonical(Normalize(Version)); v != "" {
		return v
	}
	return Version
}

// IsRelease reports whether this binary was built from a tagged release.
func IsRelease() bool {
	v := Normalize(Version)
	return semver.IsValid(v) && semver.Prerelease(v) == ""
}
