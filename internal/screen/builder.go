// Package screen assembles the minimal VT100/ANSI byte sequences needed to
// redraw a single edited line.
package screen

import "strconv"

// Escape sequences emitted by Builder.
const (
	SeqCarriageReturn = "\r"
	SeqEraseToRight   = "\x1b[0K"
	SeqClearScreen    = "\x1b[H\x1b[2J"
	SeqResetColor     = "\x1b[0m"
	SeqInvertColor    = "\x1b[7m"
	SeqAskCursorPos   = "\x1b[6n"
)

// Builder is an append-only byte sequence builder.
// The zero value is ready to use.
type Builder struct {
	seq []byte
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build returns the accumulated sequence and resets the builder.
func (b *Builder) Build() []byte {
	seq := b.seq
	b.seq = nil
	return seq
}

// Append adds literal text.
func (b *Builder) Append(s string) {
	b.seq = append(b.seq, s...)
}

// CarriageReturn moves the cursor to column 0.
func (b *Builder) CarriageReturn() {
	b.seq = append(b.seq, SeqCarriageReturn...)
}

// EraseToRight clears from the cursor to the end of the line.
func (b *Builder) EraseToRight() {
	b.seq = append(b.seq, SeqEraseToRight...)
}

// SetCursorPos moves the cursor to the given column by returning to column 0
// and stepping forward.
func (b *Builder) SetCursorPos(col int) {
	b.seq = append(b.seq, "\r\x1b["...)
	b.seq = strconv.AppendInt(b.seq, int64(col), 10)
	b.seq = append(b.seq, 'C')
}

// ClearScreen homes the cursor and clears the whole screen.
func (b *Builder) ClearScreen() {
	b.seq = append(b.seq, SeqClearScreen...)
}

// ResetColor restores default rendition.
func (b *Builder) ResetColor() {
	b.seq = append(b.seq, SeqResetColor...)
}

// InvertColor switches to reverse video.
func (b *Builder) InvertColor() {
	b.seq = append(b.seq, SeqInvertColor...)
}

// AskCursorPos requests a `ESC [ row ; col R` cursor position report.
func (b *Builder) AskCursorPos() {
	b.seq = append(b.seq, SeqAskCursorPos...)
}
