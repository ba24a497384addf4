// Package model defines the data structures used by the scec-purl service,
// including catalog documents and API request/response types.
package model

// PURL represents a canonicalized package URL stored in the catalog.
// The canonical string is the identity; the decomposed components are kept
// alongside it for indexed lookup.
type PURL struct {
	Key        string            `json:"_key,omitempty"`
	Purl       string            `json:"purl"`               // Canonical form (e.g., pkg:npm/lodash@4.17.21)
	BasePurl   string            `json:"basepurl,omitempty"` // Canonical form without version, qualifiers, and subpath
	Type       string            `json:"type"`
	Namespace  string            `json:"namespace,omitempty"`
	Name       string            `json:"name"`
	Version    string            `json:"version,omitempty"`
	Qualifiers map[string]string `json:"qualifiers,omitempty"`
	Subpath    string            `json:"subpath,omitempty"`

	// Semver breakdown of Version when it parses as semver, kept for
	// range queries over the catalog.
	VersionMajor *int `json:"version_major,omitempty"`
	VersionMinor *int `json:"version_minor,omitempty"`
	VersionPatch *int `json:"version_patch,omitempty"`

	ObjType string `json:"objtype"`
}

// NewPURL creates a new PURL instance
func NewPURL() *PURL {
	return &PURL{
		ObjType: "PURL",
	}
}
