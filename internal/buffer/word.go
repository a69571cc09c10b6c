package buffer

// classAt returns the word class of the grapheme under the cursor.
func (b *Buffer) classAt(mode WordMode) charClass {
	return classify(b.Current(), mode)
}

// MoveWord moves to the start of the next word (vi's w/W).
//
// The run of non-whitespace under the cursor is skipped, then any whitespace
// after it. The cursor may end past the last grapheme when no further word
// exists. Returns false only when already at the end of the line.
func (b *Buffer) MoveWord(mode WordMode) bool {
	if b.AtEnd() {
		return false
	}

	start := b.classAt(mode)
	if start != classWhitespace {
		for !b.AtEnd() && b.classAt(mode) == start {
			b.MoveRight()
		}
	}
	for !b.AtEnd() && b.classAt(mode) == classWhitespace {
		b.MoveRight()
	}
	return true
}

// MoveWordBack moves to the start of the current or previous word (vi's b/B).
// Scanning backward, the start of a word is the last grapheme of its run.
func (b *Buffer) MoveWordBack(mode WordMode) bool {
	return b.MoveToEndOfWord(mode, Backward)
}

// MoveToEndOfWord moves to the last grapheme of the next run in dir.
//
// Algorithm:
//  1. Step once in dir so a cursor already on a run's edge moves on
//  2. Skip whitespace
//  3. Commit to the class of the first non-whitespace grapheme
//  4. Keep stepping until the class changes, then back off one grapheme
//
// Hitting the line edge ends the scan: forward scans back off onto the last
// grapheme, backward scans stop on the first one. A forward scan that finds
// only blanks before the end leaves the cursor where it was.
func (b *Buffer) MoveToEndOfWord(mode WordMode, dir Direction) bool {
	step, back := b.MoveRight, b.MoveLeft
	if dir == Backward {
		step, back = b.MoveLeft, b.MoveRight
	}

	start := b.pos
	if !step() {
		return false
	}

	state := scanWhitespace
	for {
		if b.AtEnd() {
			if state == scanWhitespace {
				// Only blanks remain: there is no next word to end on.
				b.pos = start
				return false
			}
			back()
			return b.pos != start
		}

		c := b.classAt(mode)
		switch state {
		case scanWhitespace:
			switch c {
			case classWord:
				state = scanEndOnWord
			case classOther:
				state = scanEndOnOther
			}
		case scanEndOnWord:
			if c != classWord {
				back()
				return b.pos != start
			}
		case scanEndOnOther:
			if c != classOther {
				back()
				return b.pos != start
			}
		}

		if !step() {
			return b.pos != start
		}
	}
}

// scanState tracks progress of an end-of-word scan.
type scanState int

const (
	scanWhitespace scanState = iota // Still skipping leading whitespace
	scanEndOnWord                   // Inside a run of keyword graphemes
	scanEndOnOther                  // Inside a run of punctuation graphemes
)

// AtWordEnd reports whether the cursor is on the last grapheme of a
// non-whitespace run.
func (b *Buffer) AtWordEnd(mode WordMode) bool {
	if b.AtEnd() {
		return false
	}
	c := b.classAt(mode)
	if c == classWhitespace {
		return false
	}
	next, _ := nextBoundary(b.front, b.pos)
	return next >= len(b.front) || classify(clusterAt(b.front, next), mode) != c
}

// OnWhitespace reports whether the cursor is on whitespace or past the last
// grapheme.
func (b *Buffer) OnWhitespace() bool {
	return b.classAt(Keyword) == classWhitespace
}

// MoveToChar moves to the count-th occurrence of target in dir, not counting
// the grapheme under the cursor. On failure the cursor is left where it was.
func (b *Buffer) MoveToChar(target string, dir Direction, count int) bool {
	if target == "" {
		return false
	}
	if count < 1 {
		count = 1
	}

	step := b.MoveRight
	if dir == Backward {
		step = b.MoveLeft
	}

	start := b.pos
	found := 0
	for step() && !b.AtEnd() {
		if b.Current() == target {
			found++
			if found == count {
				return true
			}
		}
	}
	b.pos = start
	return false
}
