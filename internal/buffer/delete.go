package buffer

// DeleteContext scopes an operator-pending deletion (vi's d and c).
//
// It records where the motion started, exposes the buffer's motions through
// the embedded *Buffer, and removes the spanned text when Delete is called.
// Every DeleteContext obtained from StartDelete must end with a Delete call;
// nothing is removed until then.
type DeleteContext struct {
	*Buffer
	start               int
	startedOnWhitespace bool
}

// StartDelete begins a deletion at the current cursor position.
func (b *Buffer) StartDelete() *DeleteContext {
	return &DeleteContext{
		Buffer:              b,
		start:               b.pos,
		startedOnWhitespace: b.OnWhitespace(),
	}
}

// StartedOnWhitespace reports whether the cursor was on whitespace (or past
// the last grapheme) when the deletion began.
func (d *DeleteContext) StartedOnWhitespace() bool {
	return d.startedOnWhitespace
}

// Start returns the byte offset the deletion began at.
func (d *DeleteContext) Start() int {
	return d.start
}

// Delete removes the text between the start and the current cursor,
// whichever order they are in, leaves the cursor at the left edge of the
// removed span, and returns the removed text.
func (d *DeleteContext) Delete() string {
	lo, hi := d.start, d.pos
	if lo > hi {
		lo, hi = hi, lo
	}
	removed := d.front[lo:hi]
	d.front = d.front[:lo] + d.front[hi:]
	d.pos = lo
	return removed
}
