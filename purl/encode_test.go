package purl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeComponent(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "plain ascii", raw: "lodash", want: "lodash"},
		{name: "escaped space", raw: "name%20here", want: "name here"},
		{name: "escaped at sign", raw: "%40angular", want: "@angular"},
		{name: "lowercase hex digits", raw: "%2f%2b", want: "/+"},
		{name: "multibyte utf-8", raw: "caf%C3%A9", want: "café"},
		{name: "literal plus is not a space", raw: "g+1", want: "g+1"},
		{name: "percent without digits", raw: "bad%", wantErr: true},
		{name: "percent with one digit", raw: "bad%2", wantErr: true},
		{name: "percent with non-hex", raw: "bad%zz", wantErr: true},
		{name: "decodes to invalid utf-8", raw: "bad%FF", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeComponent(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformedEncoding)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeComponentPath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "unreserved untouched", in: "batik-anim_1.9~x", want: "batik-anim_1.9~x"},
		{name: "colon stays raw", in: "1:2.4.47-2", want: "1:2.4.47-2"},
		{name: "plus stays raw", in: "1.30-0.2+deb10u1", want: "1.30-0.2+deb10u1"},
		{name: "at sign escaped", in: "@angular", want: "%40angular"},
		{name: "slash escaped", in: "a/b", want: "a%2Fb"},
		{name: "space escaped", in: "a b", want: "a%20b"},
		{name: "structural suffix characters escaped", in: "a?b#c", want: "a%3Fb%23c"},
		{name: "multibyte utf-8 escaped per byte", in: "café", want: "caf%C3%A9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, encodeComponent(tt.in, encodePath))
		})
	}
}

func TestEncodeComponentQualifierValue(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "url value keeps colon and at", in: "https://user@host", want: "https:%2F%2Fuser@host"},
		{name: "equals and comma stay raw", in: "sha256=a,md5=b", want: "sha256=a,md5=b"},
		{name: "ampersand escaped", in: "a&b", want: "a%26b"},
		{name: "hash and question mark escaped", in: "a#b?c", want: "a%23b%3Fc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, encodeComponent(tt.in, encodeQualifierValue))
		})
	}
}

func TestCheckRawComponent(t *testing.T) {
	assert.NoError(t, checkRawComponent("plain-segment_1.0"))
	assert.ErrorIs(t, checkRawComponent("has space"), ErrInvalidCharacter)
	assert.ErrorIs(t, checkRawComponent("has\ttab"), ErrInvalidCharacter)
	assert.ErrorIs(t, checkRawComponent("has\x00nul"), ErrInvalidCharacter)
}

func TestEncodeDecodeInverse(t *testing.T) {
	values := []string{
		"simple",
		"with space",
		"with/slash",
		"@scope",
		"café",
		"1:2.4+b1",
		"a?b#c&d=e",
	}

	for _, v := range values {
		t.Run(v, func(t *testing.T) {
			for _, ctx := range []encodeContext{encodePath, encodeQualifierValue} {
				decoded, err := decodeComponent(encodeComponent(v, ctx))
				require.NoError(t, err)
				assert.Equal(t, v, decoded)
			}
		})
	}
}
