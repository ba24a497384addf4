package purl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRulesForUnknownType(t *testing.T) {
	rule := rulesFor("somefuturetype")
	assert.Equal(t, typeRule{}, rule)
}

func TestKnownTypesHaveRules(t *testing.T) {
	for typ := range KnownTypes {
		_, ok := typeRules[typ]
		assert.True(t, ok, "known type %q has no rule row", typ)
	}
	assert.Equal(t, len(KnownTypes), len(typeRules))
}

func TestNamespaceFolding(t *testing.T) {
	tests := []struct {
		typ      string
		folded   bool
		example  string
		expected string
	}{
		{typ: TypeGithub, folded: true, example: "Package-URL", expected: "package-url"},
		{typ: TypeNPM, folded: true, example: "@MyScope", expected: "@myscope"},
		{typ: TypeGolang, folded: false, example: "github.com/Masterminds", expected: "github.com/Masterminds"},
		{typ: TypeMLFlow, folded: false, example: "MixedCase", expected: "MixedCase"},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			p, err := New(tt.typ, tt.example, "name", "1.0", nil, "")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p.Namespace)
		})
	}
}

func TestDefaultQualifierInjection(t *testing.T) {
	t.Run("injected when absent", func(t *testing.T) {
		p, err := New(TypeBitnami, "", "wordpress", "6.2.0", nil, "")
		require.NoError(t, err)

		arch, ok := p.Qualifiers.Get("arch")
		require.True(t, ok)
		assert.Equal(t, "amd64", arch)
	})

	t.Run("explicit value wins", func(t *testing.T) {
		p, err := New(TypeBitnami, "", "wordpress", "6.2.0", Qualifiers{{Key: "arch", Value: "arm64"}}, "")
		require.NoError(t, err)

		arch, ok := p.Qualifiers.Get("arch")
		require.True(t, ok)
		assert.Equal(t, "arm64", arch)
	})

	t.Run("injected qualifier sorts with the rest", func(t *testing.T) {
		p, err := New(TypeBitnami, "", "wordpress", "6.2.0", Qualifiers{{Key: "distro", Value: "debian-12"}}, "")
		require.NoError(t, err)
		assert.Equal(t, "pkg:bitnami/wordpress@6.2.0?arch=amd64&distro=debian-12", p.ToString())
	})
}

func TestConanChannelPairing(t *testing.T) {
	t.Run("no namespace no channel is valid", func(t *testing.T) {
		_, err := New(TypeConan, "", "openssl", "3.0.3", nil, "")
		assert.NoError(t, err)
	})

	t.Run("namespace with channel is valid", func(t *testing.T) {
		_, err := New(TypeConan, "openssl.org", "openssl", "3.0.3", Qualifiers{{Key: "channel", Value: "stable"}}, "")
		assert.NoError(t, err)
	})

	t.Run("namespace without channel fails", func(t *testing.T) {
		_, err := New(TypeConan, "openssl.org", "openssl", "3.0.3", nil, "")
		assert.ErrorIs(t, err, ErrTypeConstraint)
	})

	t.Run("channel without namespace fails", func(t *testing.T) {
		_, err := New(TypeConan, "", "openssl", "3.0.3", Qualifiers{{Key: "channel", Value: "stable"}}, "")
		assert.ErrorIs(t, err, ErrTypeConstraint)
	})
}

func TestCpanRules(t *testing.T) {
	t.Run("module with double colon is valid", func(t *testing.T) {
		_, err := New(TypeCpan, "", "Perl::Version", "1.013", nil, "")
		assert.NoError(t, err)
	})

	t.Run("distribution with uppercase publisher is valid", func(t *testing.T) {
		_, err := New(TypeCpan, "DROLSKY", "DateTime", "1.55", nil, "")
		assert.NoError(t, err)
	})

	t.Run("distribution name with dashes is valid", func(t *testing.T) {
		_, err := New(TypeCpan, "GDT", "URI-PackageURL", "2.11", nil, "")
		assert.NoError(t, err)
	})

	t.Run("module with dash fails", func(t *testing.T) {
		_, err := New(TypeCpan, "", "URI-PackageURL", "2.11", nil, "")
		assert.ErrorIs(t, err, ErrTypeConstraint)
	})

	t.Run("distribution name with double colon fails", func(t *testing.T) {
		_, err := New(TypeCpan, "DROLSKY", "Date::Time", "1.55", nil, "")
		assert.ErrorIs(t, err, ErrTypeConstraint)
	})

	t.Run("lowercase publisher fails", func(t *testing.T) {
		_, err := New(TypeCpan, "drolsky", "DateTime", "1.55", nil, "")
		assert.ErrorIs(t, err, ErrTypeConstraint)
	})
}

func TestVersionRequirements(t *testing.T) {
	_, err := New(TypeSwift, "github.com/apple", "swift-numerics", "", nil, "")
	assert.ErrorIs(t, err, ErrTypeConstraint)

	_, err = New(TypeSwift, "", "swift-numerics", "1.0.0", nil, "")
	assert.ErrorIs(t, err, ErrTypeConstraint)

	_, err = New(TypeCran, "", "A3", "", nil, "")
	assert.ErrorIs(t, err, ErrTypeConstraint)

	_, err = New(TypeCran, "", "A3", "1.0.0", nil, "")
	assert.NoError(t, err)
}

func TestNamespaceForbidden(t *testing.T) {
	for _, typ := range []string{TypeCocoapods, TypeConda, TypeOCI} {
		t.Run(typ, func(t *testing.T) {
			_, err := New(typ, "some-namespace", "name", "1.0.0", nil, "")
			assert.ErrorIs(t, err, ErrTypeConstraint)
		})
	}
}
