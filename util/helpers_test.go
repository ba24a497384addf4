package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanPURL(t *testing.T) {
	cleaned, err := CleanPURL("pkg:npm/Lodash@4.17.20?os=linux#lib/index.js")
	require.NoError(t, err)
	assert.Equal(t, "pkg:npm/lodash@4.17.20", cleaned)
}

func TestGetBasePURL(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "pkg:npm/lodash@4.17.20", want: "pkg:npm/lodash"},
		{input: "pkg:npm/%40angular/core@12.3.1", want: "pkg:npm/%40angular/core"},
		{input: "pkg:maven/org.apache/batik@1.9?packaging=sources", want: "pkg:maven/org.apache/batik"},
		{input: "pkg:golang/github.com/Masterminds/semver@v3.2.0", want: "pkg:golang/github.com/Masterminds/semver"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			base, err := GetBasePURL(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, base)
		})
	}
}

func TestGetBasePURLInvalid(t *testing.T) {
	_, err := GetBasePURL("not-a-purl")
	assert.Error(t, err)
}

func TestParsePURL(t *testing.T) {
	p, err := ParsePURL("pkg:pypi/Django@1.11.1")
	require.NoError(t, err)
	assert.Equal(t, "pypi", p.Type)
	assert.Equal(t, "django", p.Name)
}

func TestVersionParts(t *testing.T) {
	t.Run("semver", func(t *testing.T) {
		major, minor, patch := VersionParts("4.17.21")
		require.NotNil(t, major)
		assert.Equal(t, 4, *major)
		assert.Equal(t, 17, *minor)
		assert.Equal(t, 21, *patch)
	})

	t.Run("v-prefixed semver", func(t *testing.T) {
		major, minor, patch := VersionParts("v3.2.0")
		require.NotNil(t, major)
		assert.Equal(t, 3, *major)
		assert.Equal(t, 2, *minor)
		assert.Equal(t, 0, *patch)
	})

	t.Run("non-semver yields nils", func(t *testing.T) {
		major, minor, patch := VersionParts("1:2.4.47-2")
		assert.Nil(t, major)
		assert.Nil(t, minor)
		assert.Nil(t, patch)
	})

	t.Run("empty yields nils", func(t *testing.T) {
		major, _, _ := VersionParts("")
		assert.Nil(t, major)
	})
}

func TestEcosystemToPurlType(t *testing.T) {
	assert.Equal(t, "pypi", EcosystemToPurlType("PyPI"))
	assert.Equal(t, "golang", EcosystemToPurlType("Go"))
	assert.Equal(t, "deb", EcosystemToPurlType("Ubuntu"))
	assert.Equal(t, "", EcosystemToPurlType("Unknown"))
}

func TestLoadPurlFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "purls.yaml")
	content := []byte("purls:\n  - pkg:npm/lodash@4.17.21\n  - pkg:pypi/django@1.11.1\n")
	require.NoError(t, os.WriteFile(path, content, 0644))

	purls, err := LoadPurlFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"pkg:npm/lodash@4.17.21", "pkg:pypi/django@1.11.1"}, purls)
}

func TestLoadPurlFileMissing(t *testing.T) {
	_, err := LoadPurlFile("/nonexistent/purls.yaml")
	assert.Error(t, err)
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty("   "))
	assert.False(t, IsEmpty("x"))
	assert.True(t, IsNotEmpty("x"))
}

func TestContains(t *testing.T) {
	assert.True(t, Contains([]string{"a", "b"}, "b"))
	assert.False(t, Contains([]string{"a", "b"}, "c"))
}
