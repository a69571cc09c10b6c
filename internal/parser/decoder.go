package parser

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"

	"github.com/zjrosen/rawline/internal/lineerr"
)

// ErrIncomplete is returned by a Decoder when its input ends in the middle of
// an encoded character.
var ErrIncomplete = errors.New("incomplete input")

// Decoder converts terminal input bytes to UTF-8 text.
//
// Decode decodes the longest valid prefix of p and returns how many bytes it
// consumed together with the decoded text. When it stops early the error is
// ErrIncomplete (p ends mid character) or wraps lineerr.ErrInvalidEncoding
// (p[n] cannot start a character).
type Decoder interface {
	Decode(p []byte) (n int, text string, err error)
}

// transformDecoder adapts an x/text transformer to Decoder.
type transformDecoder struct {
	name string
	t    transform.Transformer
}

func (d *transformDecoder) Decode(p []byte) (int, string, error) {
	d.t.Reset()
	// Single byte charmaps expand to at most 3 UTF-8 bytes per input byte.
	dst := make([]byte, 3*len(p)+utf8.UTFMax)
	nDst, nSrc, err := d.t.Transform(dst, p, false)
	text := string(dst[:nDst])

	switch {
	case err == nil:
		return nSrc, text, nil
	case errors.Is(err, transform.ErrShortSrc):
		return nSrc, text, ErrIncomplete
	default:
		return nSrc, text, fmt.Errorf("%w: %s: %w", lineerr.ErrInvalidEncoding, d.name, err)
	}
}

func (d *transformDecoder) String() string {
	return d.name
}

// UTF8 returns a decoder that validates UTF-8 input.
func UTF8() Decoder {
	return &transformDecoder{name: "utf-8", t: encoding.UTF8Validator}
}

// ASCII returns a decoder that rejects any byte outside 7-bit ASCII.
func ASCII() Decoder {
	return &transformDecoder{name: "us-ascii", t: asciiValidator{}}
}

// LookupDecoder returns a decoder for the named character encoding.
// Names are IANA names or aliases ("utf-8", "latin1", "shift_jis", ...).
func LookupDecoder(name string) (Decoder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return UTF8(), nil
	case "ascii", "us-ascii":
		return ASCII(), nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("lookup encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("encoding %q is not supported", name)
	}
	canonical, err := ianaindex.MIME.Name(enc)
	if err != nil {
		canonical = name
	}
	return &transformDecoder{name: strings.ToLower(canonical), t: enc.NewDecoder()}, nil
}

// errNonASCII marks a byte with the high bit set.
var errNonASCII = errors.New("non-ASCII byte")

// asciiValidator is a transformer that copies 7-bit bytes and fails on the first
// byte that is not.
type asciiValidator struct{}

func (asciiValidator) Reset() {}

func (asciiValidator) Transform(dst, src []byte, _ bool) (nDst, nSrc int, err error) {
	n := len(src)
	if n > len(dst) {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		if src[i] >= utf8.RuneSelf {
			return i, i, errNonASCII
		}
		dst[i] = src[i]
	}
	if n < len(src) {
		return n, n, transform.ErrShortDst
	}
	return n, n, nil
}
