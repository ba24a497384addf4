package purl

import (
	"fmt"
	"regexp"
	"strings"
)

// Known purl types as defined by the package-url specification. Some of
// these carry extra normalization or validation rules, captured in the
// typeRules table below.
// https://github.com/package-url/purl-spec#known-purl-types
var (
	// TypeAlpm is a pkg:alpm purl.
	TypeAlpm = "alpm"
	// TypeApk is a pkg:apk purl.
	TypeApk = "apk"
	// TypeBitbucket is a pkg:bitbucket purl.
	TypeBitbucket = "bitbucket"
	// TypeBitnami is a pkg:bitnami purl.
	TypeBitnami = "bitnami"
	// TypeCargo is a pkg:cargo purl.
	TypeCargo = "cargo"
	// TypeCocoapods is a pkg:cocoapods purl.
	TypeCocoapods = "cocoapods"
	// TypeComposer is a pkg:composer purl.
	TypeComposer = "composer"
	// TypeConan is a pkg:conan purl.
	TypeConan = "conan"
	// TypeConda is a pkg:conda purl.
	TypeConda = "conda"
	// TypeCpan is a pkg:cpan purl.
	TypeCpan = "cpan"
	// TypeCran is a pkg:cran purl.
	TypeCran = "cran"
	// TypeDebian is a pkg:deb purl.
	TypeDebian = "deb"
	// TypeDocker is a pkg:docker purl.
	TypeDocker = "docker"
	// TypeGem is a pkg:gem purl.
	TypeGem = "gem"
	// TypeGeneric is a pkg:generic purl.
	TypeGeneric = "generic"
	// TypeGithub is a pkg:github purl.
	TypeGithub = "github"
	// TypeGolang is a pkg:golang purl.
	TypeGolang = "golang"
	// TypeHackage is a pkg:hackage purl.
	TypeHackage = "hackage"
	// TypeHex is a pkg:hex purl.
	TypeHex = "hex"
	// TypeHuggingface is a pkg:huggingface purl.
	TypeHuggingface = "huggingface"
	// TypeMaven is a pkg:maven purl.
	TypeMaven = "maven"
	// TypeMLFlow is a pkg:mlflow purl.
	TypeMLFlow = "mlflow"
	// TypeNPM is a pkg:npm purl.
	TypeNPM = "npm"
	// TypeNuget is a pkg:nuget purl.
	TypeNuget = "nuget"
	// TypeOCI is a pkg:oci purl.
	TypeOCI = "oci"
	// TypePub is a pkg:pub purl.
	TypePub = "pub"
	// TypePyPi is a pkg:pypi purl.
	TypePyPi = "pypi"
	// TypeQpkg is a pkg:qpkg purl.
	TypeQpkg = "qpkg"
	// TypeRPM is a pkg:rpm purl.
	TypeRPM = "rpm"
	// TypeSWID is a pkg:swid purl.
	TypeSWID = "swid"
	// TypeSwift is a pkg:swift purl.
	TypeSwift = "swift"
)

// KnownTypes lists the types that carry a rule set in this package. Parsing
// an unknown type is legal: it gets the generic (zero-value) rules.
var KnownTypes = map[string]struct{}{
	TypeAlpm:        {},
	TypeApk:         {},
	TypeBitbucket:   {},
	TypeBitnami:     {},
	TypeCargo:       {},
	TypeCocoapods:   {},
	TypeComposer:    {},
	TypeConan:       {},
	TypeConda:       {},
	TypeCpan:        {},
	TypeCran:        {},
	TypeDebian:      {},
	TypeDocker:      {},
	TypeGem:         {},
	TypeGeneric:     {},
	TypeGithub:      {},
	TypeGolang:      {},
	TypeHackage:     {},
	TypeHex:         {},
	TypeHuggingface: {},
	TypeMaven:       {},
	TypeMLFlow:      {},
	TypeNPM:         {},
	TypeNuget:       {},
	TypeOCI:         {},
	TypePub:         {},
	TypePyPi:        {},
	TypeQpkg:        {},
	TypeRPM:         {},
	TypeSWID:        {},
	TypeSwift:       {},
}

// caseFold selects the case normalization applied to a component.
type caseFold int

const (
	caseKeep caseFold = iota
	caseLower
)

// typeRule is one row of the per-type rule table. The zero value is the
// generic rule set: nothing required, nothing folded, nothing rewritten.
// Adding ecosystem support means adding a row here, never new control flow
// in the normalization routine.
type typeRule struct {
	namespaceRequired  bool
	namespaceForbidden bool
	versionRequired    bool

	namespaceFold caseFold
	nameFold      caseFold
	versionFold   caseFold

	// nameRewrite runs after nameFold, e.g. pypi separator collapsing.
	nameRewrite func(string) string

	// defaultQualifiers are injected when the key is absent.
	defaultQualifiers map[string]string

	// adjust applies normalizations that depend on more than one component,
	// e.g. mlflow name casing keyed off the repository_url qualifier.
	adjust func(p *PackageURL)

	// check enforces composite constraints that the declarative fields
	// cannot express. Returned errors wrap ErrTypeConstraint.
	check func(p *PackageURL) error
}

var pypiSeparatorRuns = regexp.MustCompile(`[-_.]+`)

// typeRules maps each known type to its normalization and validation rules.
// Rules follow the per-type definitions of the purl spec.
var typeRules = map[string]typeRule{
	TypeAlpm:      {namespaceFold: caseLower, nameFold: caseLower},
	TypeApk:       {namespaceFold: caseLower, nameFold: caseLower},
	TypeBitbucket: {namespaceFold: caseLower, nameFold: caseLower},
	TypeBitnami: {
		nameFold:          caseLower,
		defaultQualifiers: map[string]string{"arch": "amd64"},
	},
	TypeCargo:     {},
	TypeCocoapods: {namespaceForbidden: true},
	TypeComposer:  {namespaceFold: caseLower, nameFold: caseLower},
	TypeConan:     {check: checkConan},
	TypeConda:     {namespaceForbidden: true},
	TypeCpan:      {check: checkCpan},
	TypeCran:      {namespaceForbidden: true, versionRequired: true},
	TypeDebian:    {namespaceFold: caseLower, nameFold: caseLower},
	TypeDocker:    {namespaceFold: caseLower, nameFold: caseLower},
	TypeGem:       {},
	TypeGeneric:   {},
	TypeGithub:    {namespaceFold: caseLower, nameFold: caseLower},
	// Go module paths are case-sensitive; only the type itself is folded.
	TypeGolang:  {},
	TypeHackage: {},
	TypeHex:     {namespaceFold: caseLower, nameFold: caseLower},
	TypeHuggingface: {
		versionFold: caseLower,
	},
	TypeMaven: {namespaceRequired: true, check: checkMaven},
	TypeMLFlow: {
		adjust: adjustMLFlow,
	},
	TypeNPM:   {namespaceFold: caseLower, nameFold: caseLower},
	TypeNuget: {},
	TypeOCI:   {namespaceForbidden: true, nameFold: caseLower},
	TypePub:   {nameFold: caseLower},
	TypePyPi: {
		nameFold: caseLower,
		nameRewrite: func(name string) string {
			return pypiSeparatorRuns.ReplaceAllString(name, "-")
		},
	},
	TypeQpkg:  {namespaceFold: caseLower},
	TypeRPM:   {namespaceFold: caseLower},
	TypeSWID:  {},
	TypeSwift: {namespaceRequired: true, versionRequired: true},
}

// rulesFor returns the rule set for typ. Unknown types get the generic
// zero-value rules.
func rulesFor(typ string) typeRule {
	return typeRules[typ]
}

// checkConan enforces the conan namespace/channel pairing: a namespace
// requires a non-empty channel qualifier and a channel requires a namespace.
func checkConan(p *PackageURL) error {
	channel, ok := p.Qualifiers.Get("channel")
	if p.Namespace != "" {
		if !ok || channel == "" {
			return fmt.Errorf("%w: conan purl with a namespace requires a channel qualifier", ErrTypeConstraint)
		}
	} else if ok && channel != "" {
		return fmt.Errorf("%w: conan purl with a channel qualifier requires a namespace", ErrTypeConstraint)
	}
	return nil
}

// checkCpan distinguishes CPAN distributions (namespaced, uppercase
// publisher, no "::" in the name) from modules (no namespace, no dashes).
func checkCpan(p *PackageURL) error {
	if p.Namespace != "" {
		if p.Namespace != strings.ToUpper(p.Namespace) {
			return fmt.Errorf("%w: cpan distribution namespace must be uppercase", ErrTypeConstraint)
		}
		if strings.Contains(p.Name, "::") {
			return fmt.Errorf("%w: cpan distribution name must not contain \"::\"", ErrTypeConstraint)
		}
		return nil
	}
	if strings.Contains(p.Name, "-") {
		return fmt.Errorf("%w: cpan module name must not contain dashes", ErrTypeConstraint)
	}
	return nil
}

// checkMaven rejects colons in artifact names; the group:artifact separator
// is not part of the purl form.
func checkMaven(p *PackageURL) error {
	if strings.Contains(p.Name, ":") {
		return fmt.Errorf("%w: maven artifact name must not contain a colon", ErrTypeConstraint)
	}
	return nil
}

// adjustMLFlow applies the repository-dependent name casing: Databricks
// model names are case-insensitive and fold to lowercase, Azure ML names
// are case-sensitive and kept as-is.
func adjustMLFlow(p *PackageURL) {
	repo, ok := p.Qualifiers.Get("repository_url")
	if ok && strings.Contains(repo, "databricks") {
		p.Name = strings.ToLower(p.Name)
	}
}
