// Package history provides line history for the editor: the read-only view
// consulted while editing, an in-memory recency list, the browsing cursor and
// a SQLite backed store that persists lines across sessions.
package history

// History is the read-only view of past lines used during a line read.
// Index 0 is the most recent line.
type History interface {
	Len() int
	Get(i int) (string, bool)
}

// List is an in-memory most-recent-first history.
type List struct {
	lines []string // lines[0] is the most recent
	max   int
}

var _ History = (*List)(nil)

// NewList creates an empty list. max <= 0 means unbounded.
func NewList(max int) *List {
	return &List{max: max}
}

// Len returns the number of lines.
func (l *List) Len() int {
	return len(l.lines)
}

// Get returns the i-th most recent line.
func (l *List) Get(i int) (string, bool) {
	if i < 0 || i >= len(l.lines) {
		return "", false
	}
	return l.lines[i], true
}

// Push records line as the most recent entry. Empty lines and repeats of the
// most recent entry are ignored. Returns whether the line was added.
func (l *List) Push(line string) bool {
	if line == "" || (len(l.lines) > 0 && l.lines[0] == line) {
		return false
	}
	l.lines = append([]string{line}, l.lines...)
	l.trim()
	return true
}

// Pop removes and returns the most recent line.
func (l *List) Pop() (string, bool) {
	if len(l.lines) == 0 {
		return "", false
	}
	line := l.lines[0]
	l.lines = l.lines[1:]
	return line, true
}

// Remove deletes the i-th most recent line.
func (l *List) Remove(i int) (string, bool) {
	if i < 0 || i >= len(l.lines) {
		return "", false
	}
	line := l.lines[i]
	l.lines = append(l.lines[:i:i], l.lines[i+1:]...)
	return line, true
}

// Clear removes every line.
func (l *List) Clear() {
	l.lines = nil
}

// SetMax changes the maximum length, evicting the oldest lines if needed.
// max <= 0 means unbounded.
func (l *List) SetMax(max int) {
	l.max = max
	l.trim()
}

// Lines returns a copy of the lines, most recent first.
func (l *List) Lines() []string {
	return append([]string(nil), l.lines...)
}

func (l *List) trim() {
	if l.max > 0 && len(l.lines) > l.max {
		l.lines = l.lines[:l.max]
	}
}
