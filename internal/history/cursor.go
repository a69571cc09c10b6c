package history

// Cursor walks a History during one line read without modifying it.
//
// A new cursor has no selection. Prev selects older lines and clamps at the
// oldest one; Next selects newer lines and drops the selection when it walks
// past the most recent one.
type Cursor struct {
	h   History
	cur int // -1 when nothing is selected
}

// NewCursor returns a cursor over h with no selection. h may be nil.
func NewCursor(h History) *Cursor {
	return &Cursor{h: h, cur: -1}
}

func (c *Cursor) len() int {
	if c.h == nil {
		return 0
	}
	return c.h.Len()
}

// Prev selects the next older line.
//
// moved reports whether the selection changed. swap reports that browsing
// just started, so the caller must stash its live line first.
func (c *Cursor) Prev() (moved, swap bool) {
	switch {
	case c.cur < 0 && c.len() > 0:
		c.cur = 0
		return true, true
	case c.cur >= 0 && c.cur+1 < c.len():
		c.cur++
		return true, false
	default:
		return false, false
	}
}

// Next selects the next newer line.
//
// moved reports whether the selection changed. swap reports that browsing
// just ended, so the caller must restore its stashed line.
func (c *Cursor) Next() (moved, swap bool) {
	switch {
	case c.cur > 0:
		c.cur--
		return true, false
	case c.cur == 0:
		c.cur = -1
		return true, true
	default:
		return false, false
	}
}

// Selected reports whether a history line is selected.
func (c *Cursor) Selected() bool {
	return c.cur >= 0
}

// Index returns the selected index, or -1.
func (c *Cursor) Index() int {
	return c.cur
}

// Get returns the selected line.
func (c *Cursor) Get() (string, bool) {
	if c.cur < 0 || c.h == nil {
		return "", false
	}
	return c.h.Get(c.cur)
}
