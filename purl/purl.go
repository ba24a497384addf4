package purl

import (
	"fmt"
	"regexp"
	"strings"
)

// TypePattern describes a valid, already-lowercased purl type: ASCII
// letters, digits, '.', '+' and '-', not starting with a digit.
var TypePattern = regexp.MustCompile(`^[a-z.+-][a-z0-9.+-]*$`)

// PackageURL is the struct representation of the parts that make a package
// url. A value returned by FromString or New is in canonical form and must
// be treated as immutable; derive changed copies instead of mutating in
// place.
type PackageURL struct {
	Type       string
	Namespace  string
	Name       string
	Version    string
	Qualifiers Qualifiers
	Subpath    string
}

// New builds a PackageURL from components supplied directly, bypassing
// string parsing. The result is validated and normalized; on error the zero
// value is returned.
func New(purlType, namespace, name, version string, qualifiers Qualifiers, subpath string) (PackageURL, error) {
	p := PackageURL{
		Type:       purlType,
		Namespace:  namespace,
		Name:       name,
		Version:    version,
		Qualifiers: qualifiers,
		Subpath:    subpath,
	}
	if err := p.Normalize(); err != nil {
		return PackageURL{}, err
	}
	return p, nil
}

// FromString parses a package url string into a normalized PackageURL.
func FromString(purl string) (PackageURL, error) {
	scheme, remainder, ok := strings.Cut(purl, ":")
	if !ok || strings.ToLower(scheme) != "pkg" {
		return PackageURL{}, fmt.Errorf("%w: %q", ErrMissingScheme, purl)
	}
	// Leading slashes after the scheme are ignored: pkg://npm/x is
	// equivalent to pkg:npm/x.
	remainder = strings.TrimLeft(remainder, "/")

	var subpath string
	if before, after, found := strings.Cut(remainder, "#"); found {
		remainder = before
		decoded, err := parseSubpath(after)
		if err != nil {
			return PackageURL{}, err
		}
		subpath = decoded
	}

	var qualifiers Qualifiers
	if before, after, found := strings.Cut(remainder, "?"); found {
		remainder = before
		parsed, err := parseQualifiers(after)
		if err != nil {
			return PackageURL{}, err
		}
		qualifiers = parsed
	}

	rawType, remainder, found := strings.Cut(remainder, "/")
	if rawType == "" {
		return PackageURL{}, fmt.Errorf("%w: %q", ErrMissingType, purl)
	}
	if !found || remainder == "" {
		return PackageURL{}, fmt.Errorf("%w: %q", ErrMissingName, purl)
	}
	if err := checkRawComponent(rawType); err != nil {
		return PackageURL{}, err
	}
	// The type selects the rule set for everything that follows, so it is
	// folded before namespace and name are decoded.
	purlType := strings.ToLower(rawType)

	var namespaceSegs []string
	nameVersion := remainder
	if i := strings.LastIndex(remainder, "/"); i != -1 {
		for _, seg := range strings.Split(remainder[:i], "/") {
			if seg == "" {
				continue
			}
			if err := checkRawComponent(seg); err != nil {
				return PackageURL{}, err
			}
			decoded, err := decodeComponent(seg)
			if err != nil {
				return PackageURL{}, fmt.Errorf("namespace: %w", err)
			}
			namespaceSegs = append(namespaceSegs, decoded)
		}
		nameVersion = remainder[i+1:]
	}

	// The version is everything after the last '@'; an unescaped '@' is not
	// legal inside a name.
	rawName, version := nameVersion, ""
	if i := strings.LastIndex(nameVersion, "@"); i != -1 {
		rawVersion := nameVersion[i+1:]
		if err := checkRawComponent(rawVersion); err != nil {
			return PackageURL{}, err
		}
		decoded, err := decodeComponent(rawVersion)
		if err != nil {
			return PackageURL{}, fmt.Errorf("version: %w", err)
		}
		version = decoded
		rawName = nameVersion[:i]
	}

	if err := checkRawComponent(rawName); err != nil {
		return PackageURL{}, err
	}
	name, err := decodeComponent(rawName)
	if err != nil {
		return PackageURL{}, fmt.Errorf("name: %w", err)
	}
	if name == "" {
		return PackageURL{}, fmt.Errorf("%w: %q", ErrMissingName, purl)
	}

	p := PackageURL{
		Type:       purlType,
		Namespace:  strings.Join(namespaceSegs, "/"),
		Name:       name,
		Version:    version,
		Qualifiers: qualifiers,
		Subpath:    subpath,
	}
	if err := p.Normalize(); err != nil {
		return PackageURL{}, err
	}
	return p, nil
}

// Normalize converts p to its canonical form, returning an error if p is
// invalid. Validation is all-or-nothing: on error p is left untouched.
func (p *PackageURL) Normalize() error {
	purlType := strings.ToLower(p.Type)
	if purlType == "" {
		return ErrMissingType
	}
	if !TypePattern.MatchString(purlType) {
		return fmt.Errorf("%w: type %q", ErrInvalidCharacter, purlType)
	}
	rule := rulesFor(purlType)

	qualifiers := make(Qualifiers, len(p.Qualifiers))
	copy(qualifiers, p.Qualifiers)
	if err := qualifiers.normalize(); err != nil {
		return err
	}
	if len(rule.defaultQualifiers) > 0 {
		injected := false
		for key, value := range rule.defaultQualifiers {
			if _, ok := qualifiers.Get(key); !ok {
				qualifiers = append(qualifiers, Qualifier{Key: key, Value: value})
				injected = true
			}
		}
		if injected {
			if err := qualifiers.normalize(); err != nil {
				return err
			}
		}
	}

	namespace := joinNonEmpty(strings.Split(strings.Trim(p.Namespace, "/"), "/"))
	if rule.namespaceFold == caseLower {
		namespace = strings.ToLower(namespace)
	}

	if p.Name == "" {
		return ErrMissingName
	}
	name := p.Name
	if rule.nameFold == caseLower {
		name = strings.ToLower(name)
	}
	if rule.nameRewrite != nil {
		name = rule.nameRewrite(name)
	}
	if name == "" {
		return fmt.Errorf("%w: name %q", ErrEmptyComponent, p.Name)
	}

	version := p.Version
	if rule.versionFold == caseLower {
		version = strings.ToLower(version)
	}

	switch {
	case rule.namespaceRequired && namespace == "":
		return fmt.Errorf("%w: %s requires a namespace", ErrTypeConstraint, purlType)
	case rule.namespaceForbidden && namespace != "":
		return fmt.Errorf("%w: %s does not use a namespace", ErrTypeConstraint, purlType)
	case rule.versionRequired && version == "":
		return fmt.Errorf("%w: %s requires a version", ErrTypeConstraint, purlType)
	}

	normed := PackageURL{
		Type:       purlType,
		Namespace:  namespace,
		Name:       name,
		Version:    version,
		Qualifiers: qualifiers,
		Subpath:    cleanSubpath(p.Subpath),
	}
	if rule.adjust != nil {
		rule.adjust(&normed)
	}
	if rule.check != nil {
		if err := rule.check(&normed); err != nil {
			return err
		}
	}

	*p = normed
	return nil
}

// ToString renders the canonical string form of p. For a normalized value
// the output is deterministic and reparses to an equal PackageURL.
func (p PackageURL) ToString() string {
	var b strings.Builder
	b.WriteString("pkg:")
	b.WriteString(p.Type)
	if p.Namespace != "" {
		for _, seg := range strings.Split(p.Namespace, "/") {
			if seg == "" {
				continue
			}
			b.WriteByte('/')
			b.WriteString(encodeComponent(seg, encodePath))
		}
	}
	b.WriteByte('/')
	b.WriteString(encodeComponent(p.Name, encodePath))
	if p.Version != "" {
		b.WriteByte('@')
		b.WriteString(encodeComponent(p.Version, encodePath))
	}
	if len(p.Qualifiers) > 0 {
		b.WriteByte('?')
		b.WriteString(p.Qualifiers.String())
	}
	if p.Subpath != "" {
		segs := strings.Split(p.Subpath, "/")
		for i, seg := range segs {
			segs[i] = encodeComponent(seg, encodePath)
		}
		b.WriteByte('#')
		b.WriteString(strings.Join(segs, "/"))
	}
	return b.String()
}

func (p PackageURL) String() string {
	return p.ToString()
}

// parseSubpath decodes the raw '#' suffix of a purl segment by segment.
func parseSubpath(raw string) (string, error) {
	var segs []string
	for _, seg := range strings.Split(raw, "/") {
		if seg == "" {
			continue
		}
		if err := checkRawComponent(seg); err != nil {
			return "", err
		}
		decoded, err := decodeComponent(seg)
		if err != nil {
			return "", fmt.Errorf("subpath: %w", err)
		}
		segs = append(segs, decoded)
	}
	return cleanSubpath(strings.Join(segs, "/")), nil
}

// cleanSubpath drops empty, "." and ".." segments. A ".." segment is
// removed without popping its predecessor; the subpath is an identifier
// fragment, not a filesystem path to resolve.
func cleanSubpath(s string) string {
	if s == "" {
		return ""
	}
	var segs []string
	for _, seg := range strings.Split(s, "/") {
		if seg == "" || seg == "." || seg == ".." {
			continue
		}
		segs = append(segs, seg)
	}
	return strings.Join(segs, "/")
}

func joinNonEmpty(segs []string) string {
	kept := segs[:0]
	for _, seg := range segs {
		if seg != "" {
			kept = append(kept, seg)
		}
	}
	return strings.Join(kept, "/")
}
