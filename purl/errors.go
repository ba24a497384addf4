// Package purl parses, validates, normalizes, and serializes Package URLs
// (purls) as defined by the package-url specification.
package purl

import "errors"

// Sentinel errors for the purl grammar and type rules.
// Every failure returned by this package wraps exactly one of these,
// so callers can classify failures with errors.Is().
var (
	// ErrMissingScheme indicates the input does not start with the "pkg:" scheme.
	ErrMissingScheme = errors.New("missing \"pkg:\" scheme")

	// ErrMissingType indicates the type component is absent or empty.
	ErrMissingType = errors.New("type is missing")

	// ErrMissingName indicates the name component is absent or empty.
	ErrMissingName = errors.New("name is missing")

	// ErrMalformedEncoding indicates a bad percent-escape or a component
	// that does not decode to valid UTF-8.
	ErrMalformedEncoding = errors.New("malformed percent-encoding")

	// ErrInvalidCharacter indicates a raw character that is not allowed in
	// its structural position, such as whitespace inside a segment or an
	// invalid type or qualifier key character.
	ErrInvalidCharacter = errors.New("invalid character")

	// ErrDuplicateQualifierKey indicates the same qualifier key appears
	// more than once.
	ErrDuplicateQualifierKey = errors.New("duplicate qualifier key")

	// ErrTypeConstraint indicates a violated type-specific rule, such as a
	// required namespace or version that is absent.
	ErrTypeConstraint = errors.New("type constraint violated")

	// ErrEmptyComponent indicates a required component that normalized to
	// an empty string.
	ErrEmptyComponent = errors.New("component is empty after normalization")
)
