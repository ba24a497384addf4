// Package util provides helper functions shared by the scec-purl API and CLI.
package util

import (
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v2"

	"github.com/ortelius/scec-purl/purl"
)

// GetEnvDefault is a convenience function for handling env vars
func GetEnvDefault(key, defVal string) string {
	val, ex := os.LookupEnv(key) // get the env var
	if !ex {                     // not found return default
		return defVal
	}
	return val // return value for env var
}

// IsEmpty checks if a string is empty or contains only whitespace
func IsEmpty(s string) bool {
	return len(strings.TrimSpace(s)) == 0
}

// IsNotEmpty checks if a string is not empty
func IsNotEmpty(s string) bool {
	return !IsEmpty(s)
}

// Contains checks if a string slice contains an item
func Contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// CleanPURL removes qualifiers (after ?) and subpath (after #) to create a
// canonical versioned PURL
func CleanPURL(purlStr string) (string, error) {
	parsed, err := purl.FromString(purlStr)
	if err != nil {
		return "", err
	}

	// Rebuild without qualifiers and subpath. The components are already
	// canonical, so serializing the reduced form directly keeps types with
	// required qualifiers or versions from failing re-validation.
	cleaned := purl.PackageURL{
		Type:      parsed.Type,
		Namespace: parsed.Namespace,
		Name:      parsed.Name,
		Version:   parsed.Version,
		// Qualifiers and Subpath are intentionally omitted
	}

	return cleaned.ToString(), nil
}

// GetBasePURL removes the version component from a PURL to create a base package identifier
// This is used for grouping all stored versions of the same package
// Example: pkg:npm/lodash@4.17.20 -> pkg:npm/lodash
func GetBasePURL(purlStr string) (string, error) {
	parsed, err := purl.FromString(purlStr)
	if err != nil {
		return "", err
	}

	// Drop the version, qualifiers, and subpath from the already canonical
	// components. Serializing directly avoids re-validation, which would
	// reject version-required types like swift and cran.
	base := purl.PackageURL{
		Type:      parsed.Type,
		Namespace: parsed.Namespace,
		Name:      parsed.Name,
	}

	return base.ToString(), nil
}

// ParsePURL parses a PURL string and returns the parsed PackageURL
func ParsePURL(purlStr string) (*purl.PackageURL, error) {
	parsed, err := purl.FromString(purlStr)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// VersionParts breaks a purl version into semver major/minor/patch pointers.
// Non-semver versions yield all nils; purl versions are opaque identifiers
// and semver structure is opportunistic catalog metadata only.
func VersionParts(version string) (major, minor, patch *int) {
	v, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		return nil, nil, nil
	}

	ma := int(v.Major())
	mi := int(v.Minor())
	pa := int(v.Patch())
	return &ma, &mi, &pa
}

// EcosystemToPurlType converts an OSV/SBOM ecosystem name to a PURL type
func EcosystemToPurlType(ecosystem string) string {
	mapping := map[string]string{
		"npm":       "npm",
		"PyPI":      "pypi",
		"Maven":     "maven",
		"Go":        "golang",
		"NuGet":     "nuget",
		"RubyGems":  "gem",
		"crates.io": "cargo",
		"Packagist": "composer",
		"Pub":       "pub",
		"CocoaPods": "cocoapods",
		"Hex":       "hex",
		"Alpine":    "apk",
		"Debian":    "deb",
		"Ubuntu":    "deb",
	}
	return mapping[ecosystem]
}

// PurlFile is the YAML layout accepted by the CLI for batch operations
type PurlFile struct {
	Purls []string `yaml:"purls"`
}

// LoadPurlFile reads a YAML file containing a list of purl strings
func LoadPurlFile(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file PurlFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, err
	}

	return file.Purls, nil
}
