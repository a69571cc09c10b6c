package edit

import (
	"github.com/zjrosen/rawline/internal/buffer"
	"github.com/zjrosen/rawline/internal/instr"
	"github.com/zjrosen/rawline/internal/lineerr"
	"github.com/zjrosen/rawline/internal/log"
)

// mover is the set of cursor motions shared by *buffer.Buffer and
// *buffer.DeleteContext.
type mover interface {
	MoveLeft() bool
	MoveRight() bool
	MoveStart()
	MoveEnd()
	MoveWord(mode buffer.WordMode) bool
	MoveWordBack(mode buffer.WordMode) bool
	MoveToEndOfWord(mode buffer.WordMode, dir buffer.Direction) bool
	MoveToChar(target string, dir buffer.Direction, count int) bool
}

var (
	_ mover = (*buffer.Buffer)(nil)
	_ mover = (*buffer.DeleteContext)(nil)
)

// apply executes one instruction.
func (c *Context) apply(in instr.Instr) Result {
	b := c.Buf
	m := &c.Mode

	switch in.Kind {
	case instr.Noop:

	// ========================================================================
	// Line completion
	// ========================================================================
	case instr.Done:
		return halt(b.Drain(), nil)
	case instr.DoneOrEOF:
		if b.Empty() {
			return halt("", lineerr.ErrEndOfFile)
		}
		return halt(b.Drain(), nil)
	case instr.Cancel:
		b.Drain()
		return halt("", lineerr.ErrCancelled)
	case instr.Clear:
		c.RequestClear()

	// ========================================================================
	// Text
	// ========================================================================
	case instr.InsertText:
		b.Insert(in.Text)
	case instr.DeleteLeft:
		b.DeleteLeft()
	case instr.DeleteRight:
		b.DeleteRight()
	case instr.DeleteRightOrEOF:
		if !b.DeleteRight() {
			return halt("", lineerr.ErrEndOfFile)
		}
	case instr.KillToEnd:
		d := b.StartDelete()
		d.MoveEnd()
		d.Delete()
	case instr.KillToStart:
		d := b.StartDelete()
		d.MoveStart()
		d.Delete()
	case instr.KillWordBack:
		d := b.StartDelete()
		d.MoveWordBack(buffer.Blank)
		d.Delete()
	case instr.DeleteChar:
		repeat(m.Repeat(), b.DeleteRight)
		m.ResetCount()
	case instr.Substitute:
		repeat(m.Repeat(), b.DeleteRight)
		c.enterInsert()
	case instr.ReplaceAtCursor:
		c.replace(in.Text)
		c.enterNormal()
	case instr.DeleteLine:
		b.Drain()
		c.enterNormal()
	case instr.ChangeLine:
		b.Drain()
		c.enterInsert()
	case instr.DeleteToEnd:
		d := b.StartDelete()
		d.MoveEnd()
		d.Delete()
		c.enterNormal()
	case instr.ChangeToEnd:
		d := b.StartDelete()
		d.MoveEnd()
		d.Delete()
		c.enterInsert()

	// ========================================================================
	// Motions and history
	// ========================================================================
	case instr.MoveLeft, instr.MoveRight, instr.MoveStart, instr.MoveEnd,
		instr.MoveWord, instr.MoveWordBack, instr.MoveEndOfWord, instr.MoveToChar:
		c.motion(in)
	case instr.HistoryPrev:
		repeat(m.Repeat(), c.historyPrev)
		m.ResetCount()
	case instr.HistoryNext:
		repeat(m.Repeat(), c.historyNext)
		m.ResetCount()

	// ========================================================================
	// Mode transitions
	// ========================================================================
	case instr.NormalMode:
		if m.Vi == instr.ViInsert {
			b.MoveLeft()
		}
		c.enterNormal()
	case instr.Insert:
		c.enterInsert()
	case instr.InsertStart:
		b.MoveStart()
		c.enterInsert()
	case instr.Append:
		b.MoveRight()
		c.enterInsert()
	case instr.AppendEnd:
		b.MoveEnd()
		c.enterInsert()
	case instr.ReplaceMode:
		c.setVi(instr.ViReplace)
	case instr.DeleteMode:
		m.OpCount, m.Count = m.Count, 0
		c.setVi(instr.ViDelete)
	case instr.ChangeMode:
		m.OpCount, m.Count = m.Count, 0
		c.setVi(instr.ViChange)
	case instr.MoveCharMode:
		m.Search = in.Search
		switch m.Vi {
		case instr.ViDelete:
			c.setVi(instr.ViDeleteMoveChar)
		case instr.ViChange:
			c.setVi(instr.ViChangeMoveChar)
		default:
			c.setVi(instr.ViMoveChar)
		}
	case instr.Digit:
		if in.Digit == 0 && m.Count == 0 {
			c.motion(instr.Instr{Kind: instr.MoveStart})
		} else {
			m.PushDigit(in.Digit)
		}
	}

	c.settle()
	return proceed()
}

// settle keeps the normal mode cursor on a grapheme.
func (c *Context) settle() {
	if c.Mode.Edit == instr.EditVi && c.Mode.Vi == instr.ViNormal {
		c.Buf.ExcludeEOL()
	}
}

func (c *Context) setVi(sub instr.ViMode) {
	if c.Mode.Vi != sub {
		log.Debug(log.CatEdit, "vi mode", "from", c.Mode.Vi, "to", sub)
	}
	c.Mode.Vi = sub
}

func (c *Context) enterNormal() {
	c.Mode.ResetCount()
	if c.Mode.Edit == instr.EditVi {
		c.setVi(instr.ViNormal)
	}
}

func (c *Context) enterInsert() {
	c.Mode.ResetCount()
	if c.Mode.Edit == instr.EditVi {
		c.setVi(instr.ViInsert)
	}
}

// replace overwrites graphemes starting at the cursor, once per count, and
// leaves the cursor on the last replaced grapheme.
func (c *Context) replace(text string) {
	b := c.Buf
	repeatWith(c.Mode.Repeat(),
		func() bool {
			if b.AtEnd() {
				return false
			}
			b.ReplaceAtCursor(text)
			return true
		},
		func() bool {
			b.MoveRight()
			return !b.AtEnd()
		},
	)
}

// ============================================================================
// Motions
// ============================================================================

// motion runs a cursor motion, deleting the spanned text when an operator
// is pending.
func (c *Context) motion(in instr.Instr) {
	m := &c.Mode
	if m.Edit == instr.EditVi {
		switch m.Vi {
		case instr.ViDelete, instr.ViDeleteMoveChar:
			c.operate(in, false)
			return
		case instr.ViChange, instr.ViChangeMoveChar:
			c.operate(in, true)
			return
		}
	}

	move(c.Buf, in, m.Repeat())
	if m.Vi == instr.ViMoveChar {
		c.enterNormal()
	}
	m.ResetCount()
}

// operate runs the motion through a DeleteContext and removes the span.
//
// End-of-word and forward character searches include their target. A change
// of word forward that starts on a non-blank acts like a change to the end of
// the word.
func (c *Context) operate(in instr.Instr, change bool) {
	n := c.Mode.Repeat()
	d := c.Buf.StartDelete()

	switch {
	case in.Kind == instr.MoveWord && change && !d.StartedOnWhitespace():
		for i := uint32(0); i < n; i++ {
			if i == 0 && d.AtWordEnd(in.Word) {
				continue
			}
			if !d.MoveToEndOfWord(in.Word, buffer.Forward) {
				break
			}
		}
		d.MoveRight()
	case in.Kind == instr.MoveEndOfWord:
		move(d, in, n)
		d.MoveRight()
	case in.Kind == instr.MoveToChar && searchDirection(in.Search) == buffer.Forward:
		if move(d, in, n) {
			d.MoveRight()
		}
	default:
		move(d, in, n)
	}

	removed := d.Delete()
	log.Debug(log.CatEdit, "operator", "change", change, "motion", in, "removed", removed)

	if change {
		c.enterInsert()
	} else {
		c.enterNormal()
	}
}

// move applies a motion up to n times and reports whether it moved at all.
// Character searches either reach the n-th match or leave the cursor alone.
func move(mv mover, in instr.Instr, n uint32) bool {
	switch in.Kind {
	case instr.MoveLeft:
		return repeat(n, mv.MoveLeft) > 0
	case instr.MoveRight:
		return repeat(n, mv.MoveRight) > 0
	case instr.MoveStart:
		mv.MoveStart()
		return true
	case instr.MoveEnd:
		mv.MoveEnd()
		return true
	case instr.MoveWord:
		return repeat(n, func() bool { return mv.MoveWord(in.Word) }) > 0
	case instr.MoveWordBack:
		return repeat(n, func() bool { return mv.MoveWordBack(in.Word) }) > 0
	case instr.MoveEndOfWord:
		return repeat(n, func() bool { return mv.MoveToEndOfWord(in.Word, buffer.Forward) }) > 0
	case instr.MoveToChar:
		dir := searchDirection(in.Search)
		if !mv.MoveToChar(in.Text, dir, int(min(n, maxSearchCount))) {
			return false
		}
		switch in.Search {
		case instr.SearchBeforeRight:
			mv.MoveLeft()
		case instr.SearchBeforeLeft:
			mv.MoveRight()
		}
		return true
	default:
		return false
	}
}

// maxSearchCount caps character search counts so they fit an int on every
// platform.
const maxSearchCount = 1 << 30

func searchDirection(s instr.CharSearch) buffer.Direction {
	switch s {
	case instr.SearchLeft, instr.SearchBeforeLeft:
		return buffer.Backward
	default:
		return buffer.Forward
	}
}

// ============================================================================
// History
// ============================================================================

func (c *Context) historyPrev() bool {
	moved, swap := c.History.Prev()
	if !moved {
		return false
	}
	if swap {
		c.Buf.Swap()
	}
	if line, ok := c.History.Get(); ok {
		c.Buf.Replace(line)
	}
	return true
}

func (c *Context) historyNext() bool {
	moved, swap := c.History.Next()
	if !moved {
		return false
	}
	if swap {
		c.Buf.Swap()
		return true
	}
	if line, ok := c.History.Get(); ok {
		c.Buf.Replace(line)
	}
	return true
}
