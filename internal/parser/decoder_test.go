package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/rawline/internal/lineerr"
)

func TestLookupDecoder(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"", "utf-8"},
		{"UTF-8", "utf-8"},
		{"utf8", "utf-8"},
		{"ascii", "us-ascii"},
		{"US-ASCII", "us-ascii"},
		{"latin1", "iso-8859-1"},
		{"Shift_JIS", "shift_jis"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec, err := LookupDecoder(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, dec.(*transformDecoder).String())
		})
	}
}

func TestLookupDecoder_Unknown(t *testing.T) {
	_, err := LookupDecoder("klingon-8")
	require.Error(t, err)
}

func TestUTF8Decoder(t *testing.T) {
	n, text, err := UTF8().Decode([]byte("ab日"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "ab日", text)

	n, text, err = UTF8().Decode([]byte("ab\xe6\x97"))
	require.ErrorIs(t, err, ErrIncomplete)
	assert.Equal(t, 2, n)
	assert.Equal(t, "ab", text)

	n, _, err = UTF8().Decode([]byte("a\xffb"))
	require.ErrorIs(t, err, lineerr.ErrInvalidEncoding)
	assert.Equal(t, 1, n)
}

func TestShiftJISDecoder_MultiByte(t *testing.T) {
	dec, err := LookupDecoder("Shift_JIS")
	require.NoError(t, err)

	// 0x93 0xfa is U+65E5.
	res := Parse([]byte{0x93}, dec)
	require.Equal(t, Incomplete, res.Status)

	res = Parse([]byte{0x93, 0xfa}, dec)
	require.Equal(t, Success, res.Status)
	require.Equal(t, "日", res.Token.Text)
	require.Equal(t, 2, res.Len)
}
