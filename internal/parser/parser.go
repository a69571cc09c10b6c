// Package parser recognizes key tokens in raw terminal input.
//
// Parse is a pure function of the pending byte window: it never buffers
// input itself. The caller appends bytes as they arrive, calls Parse, and
// drops Result.Len bytes from the front of the window on Success or Error.
package parser

import (
	"errors"
	"fmt"

	"github.com/zjrosen/rawline/internal/lineerr"
)

// Status is the outcome of a Parse call.
type Status int

const (
	// Success means a token was recognized; drop Len bytes.
	Success Status = iota
	// Incomplete means the window is a valid prefix; wait for more bytes.
	Incomplete
	// Error means the first Len bytes can never form a token; drop them.
	Error
)

func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case Incomplete:
		return "incomplete"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Result is returned by Parse.
type Result struct {
	Status Status
	Token  Token // Valid only on Success
	Len    int   // Bytes consumed on Success, bytes to discard on Error
	Err    error // Decoder error behind an Error result, if any
}

// maxCSILen bounds how long an unterminated control sequence may grow
// before it is discarded.
const maxCSILen = 32

// Parse recognizes one token at the start of seq.
//
// Decoding rules:
//   - Bytes 0-31 and 127 are single-byte control keys, except ESC
//   - ESC not followed by '[' is a lone Escape
//   - ESC [ A/B/C/D/H/F are arrows, Home and End; ESC [ 3 ~ is Delete
//   - Any other complete control sequence is discarded whole
//   - Everything else is text, decoded one character at a time by dec
func Parse(seq []byte, dec Decoder) Result {
	if len(seq) == 0 {
		return Result{Status: Incomplete}
	}

	switch b := seq[0]; {
	case b == 0x1b:
		return parseEscape(seq)
	case isControl(b):
		return success(Token{Key: controlKey(b)}, 1)
	default:
		return parseText(seq, dec)
	}
}

func success(tok Token, n int) Result {
	return Result{Status: Success, Token: tok, Len: n}
}

func discard(n int, err error) Result {
	return Result{Status: Error, Len: n, Err: err}
}

func parseEscape(seq []byte) Result {
	if len(seq) < 2 {
		return Result{Status: Incomplete}
	}
	if seq[1] != '[' {
		return success(Token{Key: KeyEsc}, 1)
	}
	if len(seq) < 3 {
		return Result{Status: Incomplete}
	}

	switch seq[2] {
	case 'A':
		return success(Token{Key: KeyUp}, 3)
	case 'B':
		return success(Token{Key: KeyDown}, 3)
	case 'C':
		return success(Token{Key: KeyRight}, 3)
	case 'D':
		return success(Token{Key: KeyLeft}, 3)
	case 'H':
		return success(Token{Key: KeyHome}, 3)
	case 'F':
		return success(Token{Key: KeyEnd}, 3)
	}

	end, ok := csiEnd(seq)
	if !ok {
		if end < 0 {
			return Result{Status: Incomplete}
		}
		return discard(end, nil)
	}
	if string(seq[2:end]) == "3~" {
		return success(Token{Key: KeyDelete}, end)
	}
	return discard(end, nil)
}

// csiEnd finds the end of the control sequence introduced by ESC [.
// Parameter bytes are 0x20-0x3f and the final byte is 0x40-0x7e.
// Returns (-1, false) while the sequence is still open, and (n, false) when
// the first n bytes are malformed.
func csiEnd(seq []byte) (int, bool) {
	for i := 2; i < len(seq); i++ {
		c := seq[i]
		switch {
		case c >= 0x40 && c <= 0x7e:
			return i + 1, true
		case c >= 0x20 && c <= 0x3f:
			if i+1 >= maxCSILen {
				return i + 1, false
			}
		default:
			// Anything else interrupts the sequence; keep it for the next parse.
			return i, false
		}
	}
	return -1, false
}

// parseText decodes a single character from the run of non-control bytes at
// the start of seq.
func parseText(seq []byte, dec Decoder) Result {
	end := len(seq)
	for i, c := range seq {
		if isControl(c) {
			end = i
			break
		}
	}

	// Grow the window a byte at a time so exactly one character is consumed.
	for k := 1; k <= end; k++ {
		n, text, err := dec.Decode(seq[:k])
		if n > 0 {
			return success(Text(text), n)
		}
		if err != nil && !errors.Is(err, ErrIncomplete) {
			return discard(1, err)
		}
	}

	if end < len(seq) {
		// A control byte interrupted a multi-byte character.
		return discard(end, fmt.Errorf("%w: truncated character", lineerr.ErrInvalidEncoding))
	}
	return Result{Status: Incomplete}
}
