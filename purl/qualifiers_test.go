package purl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQualifiers(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Qualifiers
		wantErr error
	}{
		{
			name: "single pair",
			raw:  "arch=amd64",
			want: Qualifiers{{Key: "arch", Value: "amd64"}},
		},
		{
			name: "sorted ascending by key",
			raw:  "distro=jessie&arch=i386",
			want: Qualifiers{{Key: "arch", Value: "i386"}, {Key: "distro", Value: "jessie"}},
		},
		{
			name: "keys fold to lowercase",
			raw:  "ARCH=amd64",
			want: Qualifiers{{Key: "arch", Value: "amd64"}},
		},
		{
			name: "empty values dropped",
			raw:  "arch=&distro=jessie",
			want: Qualifiers{{Key: "distro", Value: "jessie"}},
		},
		{
			name: "empty pairs skipped",
			raw:  "&&arch=amd64&",
			want: Qualifiers{{Key: "arch", Value: "amd64"}},
		},
		{
			name: "values are percent-decoded",
			raw:  "repository_url=repo.spring.io%2Frelease",
			want: Qualifiers{{Key: "repository_url", Value: "repo.spring.io/release"}},
		},
		{
			name: "value keeps everything after the first equals",
			raw:  "checksum=sha256=abc",
			want: Qualifiers{{Key: "checksum", Value: "sha256=abc"}},
		},
		{
			name:    "duplicate keys rejected",
			raw:     "a=1&a=2",
			wantErr: ErrDuplicateQualifierKey,
		},
		{
			name:    "duplicate detected across case folding",
			raw:     "Arch=amd64&arch=i386",
			wantErr: ErrDuplicateQualifierKey,
		},
		{
			name:    "duplicate detected before empty-value dropping",
			raw:     "a=&a=2",
			wantErr: ErrDuplicateQualifierKey,
		},
		{
			name:    "digit-first key rejected",
			raw:     "1key=value",
			wantErr: ErrInvalidCharacter,
		},
		{
			name:    "underscore-first key rejected",
			raw:     "_key=value",
			wantErr: ErrInvalidCharacter,
		},
		{
			name:    "key with illegal character rejected",
			raw:     "bad*key=value",
			wantErr: ErrInvalidCharacter,
		},
		{
			name:    "bad escape in value",
			raw:     "key=%GG",
			wantErr: ErrMalformedEncoding,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qq, err := parseQualifiers(tt.raw)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, qq)
		})
	}
}

func TestQualifiersString(t *testing.T) {
	qq := Qualifiers{
		{Key: "arch", Value: "amd64"},
		{Key: "repository_url", Value: "https://registry.example.com/path"},
	}
	// Structural characters in values are escaped, ':' and '@' stay raw.
	assert.Equal(t, "arch=amd64&repository_url=https:%2F%2Fregistry.example.com%2Fpath", qq.String())
}

func TestQualifiersFromMap(t *testing.T) {
	qq := QualifiersFromMap(map[string]string{
		"distro": "jessie",
		"arch":   "i386",
	})
	// Deterministic ascending key order despite map iteration order.
	assert.Equal(t, Qualifiers{{Key: "arch", Value: "i386"}, {Key: "distro", Value: "jessie"}}, qq)
}

func TestQualifiersMapAndGet(t *testing.T) {
	qq := Qualifiers{{Key: "arch", Value: "amd64"}, {Key: "os", Value: "linux"}}

	assert.Equal(t, map[string]string{"arch": "amd64", "os": "linux"}, qq.Map())

	v, ok := qq.Get("os")
	require.True(t, ok)
	assert.Equal(t, "linux", v)

	_, ok = qq.Get("missing")
	assert.False(t, ok)
}
