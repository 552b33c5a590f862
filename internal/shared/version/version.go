// Package version carries the build version injected with -ldflags.
package version

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Set at build time:
//
//	go build -ldflags "-X github.com/lumishop/shopadmin/internal/shared/version.Version=1.4.0"
var (
	Version = "dev"
	Commit  = "unknown"
)

// Normalize ensures version string has "v" prefix for semver compatibility.
// Examples: "1.2.3" -> "v1.2.3", "v1.2.3" -> "v1.2.3"
func Normalize(version string) string {
	version = strings.TrimSpace(version)
	if version == "" {
		return ""
	}
	if !strings.HasPrefix(version, "v") {
		return "v" + version
	}
	return version
}

// Current returns the canonical semver of this build, or the raw value for dev builds.
func Current() string {
	v := Normalize(Version)
	if !semver.IsValid(v) {
		return Version
	}
	return semver.Canonical(v)
}

// IsRelease reports whether the binary was built from a tagged, non-prerelease version.
func IsRelease() bool {
	v := Normalize(Version)
	return semver.IsValid(v) && semver.Prerelease(v) == ""
}
