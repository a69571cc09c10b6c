package buffer

import (
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/rawline/internal/screen"
)

// Position locates the cursor within the line.
type Position struct {
	Offset int // Byte offset into the line, always on a grapheme boundary
	Column int // Display column of the cursor relative to the start of the line
}

// Buffer holds the line being edited.
//
// front is the live text and the only one rendered. back stashes the user's
// in-progress line while history entries are displayed in front.
type Buffer struct {
	front string
	back  string
	pos   int
}

// New creates an empty buffer.
func New() *Buffer {
	return &Buffer{}
}

// String returns the current line.
func (b *Buffer) String() string {
	return b.front
}

// Len returns the length of the current line in bytes.
func (b *Buffer) Len() int {
	return len(b.front)
}

// Empty reports whether the current line has no text.
func (b *Buffer) Empty() bool {
	return len(b.front) == 0
}

// Offset returns the cursor byte offset.
func (b *Buffer) Offset() int {
	return b.pos
}

// Position returns the cursor byte offset together with its display column.
func (b *Buffer) Position() Position {
	return Position{Offset: b.pos, Column: StringDisplayWidth(b.front[:b.pos])}
}

// AtEnd reports whether the cursor sits after the last grapheme.
func (b *Buffer) AtEnd() bool {
	return b.pos >= len(b.front)
}

// Current returns the grapheme under the cursor, or "" at end of line.
func (b *Buffer) Current() string {
	return clusterAt(b.front, b.pos)
}

// ============================================================================
// Editing
// ============================================================================

// Insert inserts text at the cursor and advances the cursor past it.
// The cursor is snapped forward when the inserted text joins the following
// grapheme (e.g. a trailing zero width joiner).
func (b *Buffer) Insert(text string) {
	if text == "" {
		return
	}
	b.front = b.front[:b.pos] + text + b.front[b.pos:]
	b.pos = snapBoundary(b.front, b.pos+len(text))
}

// DeleteLeft removes the grapheme before the cursor.
// Returns false when the cursor is at the start of the line.
func (b *Buffer) DeleteLeft() bool {
	prev, ok := prevBoundary(b.front, b.pos)
	if !ok {
		return false
	}
	b.front = b.front[:prev] + b.front[b.pos:]
	b.pos = prev
	return true
}

// DeleteRight removes the grapheme under the cursor.
// Returns false when the cursor is at the end of the line.
func (b *Buffer) DeleteRight() bool {
	next, ok := nextBoundary(b.front, b.pos)
	if !ok {
		return false
	}
	b.front = b.front[:b.pos] + b.front[next:]
	return true
}

// ReplaceAtCursor replaces the grapheme under the cursor with text.
// The cursor stays at the start of the replacement.
func (b *Buffer) ReplaceAtCursor(text string) {
	start := b.pos
	b.DeleteRight()
	b.Insert(text)
	b.pos = start
}

// Drain empties the buffer and returns the line it held.
func (b *Buffer) Drain() string {
	line := b.front
	b.front = ""
	b.pos = 0
	return line
}

// Replace sets the live line to s and moves the cursor to its end.
func (b *Buffer) Replace(s string) {
	b.front = s
	b.pos = len(s)
}

// Swap exchanges the live line with the stashed one and moves the cursor to
// the end of the new live line.
func (b *Buffer) Swap() {
	b.front, b.back = b.back, b.front
	b.pos = len(b.front)
}

// ============================================================================
// Cursor motion
// ============================================================================

// MoveLeft steps one grapheme left. Returns false at the start of the line.
func (b *Buffer) MoveLeft() bool {
	prev, ok := prevBoundary(b.front, b.pos)
	if ok {
		b.pos = prev
	}
	return ok
}

// MoveRight steps one grapheme right. Returns false at the end of the line.
func (b *Buffer) MoveRight() bool {
	next, ok := nextBoundary(b.front, b.pos)
	if ok {
		b.pos = next
	}
	return ok
}

// MoveStart moves the cursor to the start of the line.
func (b *Buffer) MoveStart() {
	b.pos = 0
}

// MoveEnd moves the cursor past the last grapheme.
func (b *Buffer) MoveEnd() {
	b.pos = len(b.front)
}

// ExcludeEOL steps back onto the last grapheme if the cursor is past it.
// Returns whether the cursor was past the last grapheme.
func (b *Buffer) ExcludeEOL() bool {
	if b.pos > 0 && b.AtEnd() {
		b.MoveLeft()
		return true
	}
	return false
}

// ============================================================================
// Rendering
// ============================================================================

// Line renders the buffer as a redraw sequence: carriage return, optional
// screen clear, prompt, text, erase to end of line, then the cursor is
// placed at the prompt width plus the cursor's display column.
func (b *Buffer) Line(prompt string, clear bool) []byte {
	var sb screen.Builder
	sb.CarriageReturn()
	if clear {
		sb.ClearScreen()
	}
	sb.Append(prompt)
	sb.Append(b.front)
	sb.EraseToRight()
	sb.SetCursorPos(ansi.StringWidth(prompt) + b.Position().Column)
	return sb.Build()
}
