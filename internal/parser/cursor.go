package parser

import (
	"fmt"

	"github.com/zjrosen/rawline/internal/lineerr"
)

// CursorPos is a 1-based terminal cursor position.
type CursorPos struct {
	Row int
	Col int
}

// maxCursorField bounds each numeric field of a cursor position report.
const maxCursorField = 1 << 16

// ParseCursorPosition parses a `ESC [ row ; col R` cursor position report at
// the start of seq.
//
// It returns the position and the number of bytes consumed. When seq is a
// valid but unfinished prefix the error is ErrIncomplete; any other error
// wraps lineerr.ErrParse.
func ParseCursorPosition(seq []byte) (CursorPos, int, error) {
	var pos CursorPos
	i := 0

	expect := func(want byte) error {
		if i >= len(seq) {
			return ErrIncomplete
		}
		if seq[i] != want {
			return fmt.Errorf("%w: expected %q at byte %d, got %q", lineerr.ErrParse, want, i, seq[i])
		}
		i++
		return nil
	}

	// number reads one or more digits up to the terminator.
	number := func(term byte) (int, error) {
		start := i
		n := 0
		for i < len(seq) && seq[i] >= '0' && seq[i] <= '9' {
			n = n*10 + int(seq[i]-'0')
			if n > maxCursorField {
				return 0, fmt.Errorf("%w: cursor field overflow", lineerr.ErrParse)
			}
			i++
		}
		if i >= len(seq) {
			return 0, ErrIncomplete
		}
		if i == start {
			return 0, fmt.Errorf("%w: expected digit at byte %d, got %q", lineerr.ErrParse, i, seq[i])
		}
		return n, expect(term)
	}

	if err := expect(0x1b); err != nil {
		return pos, 0, err
	}
	if err := expect('['); err != nil {
		return pos, 0, err
	}

	var err error
	if pos.Row, err = number(';'); err != nil {
		return CursorPos{}, 0, err
	}
	if pos.Col, err = number('R'); err != nil {
		return CursorPos{}, 0, err
	}
	return pos, i, nil
}
