package purl

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// encodeContext selects which characters stay raw when encoding a component.
// The purl reserved sets differ by position: '/' is a structural separator
// in the path but data inside a qualifier value, '@' delimits the version in
// the path but is plain data in a qualifier value, and ':' never needs
// escaping after the scheme has been consumed (deb epoch versions rely on
// this).
type encodeContext int

const (
	// encodePath covers namespace, name, version, and subpath segments.
	encodePath encodeContext = iota
	// encodeQualifierValue covers the value half of a key=value qualifier.
	encodeQualifierValue
)

// decodeComponent decodes %XX escapes in a single purl component and
// verifies the result is valid UTF-8. A '+' is a literal plus sign, never a
// space: purl components are not form-encoded.
func decodeComponent(s string) (string, error) {
	if !strings.ContainsRune(s, '%') {
		if !utf8.ValidString(s) {
			return "", fmt.Errorf("%w: %q is not valid UTF-8", ErrMalformedEncoding, s)
		}
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		if i+2 >= len(s) || !isHex(s[i+1]) || !isHex(s[i+2]) {
			return "", fmt.Errorf("%w: %q", ErrMalformedEncoding, s)
		}
		b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
		i += 2
	}

	decoded := b.String()
	if !utf8.ValidString(decoded) {
		return "", fmt.Errorf("%w: %q does not decode to valid UTF-8", ErrMalformedEncoding, s)
	}
	return decoded, nil
}

// encodeComponent percent-encodes a decoded component for canonical output.
func encodeComponent(s string, ctx encodeContext) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) || isContextSafe(c, ctx) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&0x0f])
	}
	return b.String()
}

const upperhex = "0123456789ABCDEF"

// isUnreserved reports whether c never needs escaping in any purl position.
func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-' || c == '.' || c == '_' || c == '~':
		return true
	}
	return false
}

// isContextSafe reports whether c may stay raw in the given position.
func isContextSafe(c byte, ctx encodeContext) bool {
	switch ctx {
	case encodePath:
		// ':' and '+' carry no structural meaning once the scheme is gone.
		// '@' and '/' still do, so they get escaped here.
		return c == ':' || c == '+'
	case encodeQualifierValue:
		// The value is delimited by '&' on the left of the next pair and by
		// the first '=' of its own pair, so '@', ':', '=', ',' and '+' are
		// plain data. '/' , '?' and '#' would read as structure and must be
		// escaped.
		return c == ':' || c == '+' || c == '@' || c == '=' || c == ','
	}
	return false
}

func isHex(c byte) bool {
	switch {
	case '0' <= c && c <= '9', 'a' <= c && c <= 'f', 'A' <= c && c <= 'F':
		return true
	}
	return false
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

// checkRawComponent rejects raw bytes that are never legal in an undecoded
// purl component: whitespace and control characters must arrive
// percent-encoded or not at all.
func checkRawComponent(s string) error {
	for i := 0; i < len(s); i++ {
		if s[i] <= 0x20 || s[i] == 0x7f {
			return fmt.Errorf("%w: byte 0x%02x in %q", ErrInvalidCharacter, s[i], s)
		}
	}
	return nil
}
