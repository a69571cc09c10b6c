// Package term acquires and releases raw mode on a terminal and exposes it as
// the byte source and sink the edit loop runs against.
package term

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	xterm "golang.org/x/term"

	"github.com/zjrosen/rawline/internal/lineerr"
	"github.com/zjrosen/rawline/internal/log"
	"github.com/zjrosen/rawline/internal/parser"
	"github.com/zjrosen/rawline/internal/screen"
)

// unsupported lists TERM values that cannot handle the redraw sequences.
var unsupported = []string{"dumb", "cons25", "emacs"}

// IsUnsupported reports whether the TERM value names a terminal the editor
// cannot drive.
func IsUnsupported(termEnv string) bool {
	return slices.Contains(unsupported, strings.ToLower(termEnv))
}

// Term is a terminal made of an input and an output file.
type Term struct {
	in  *os.File
	out *os.File

	// pending holds input left unread when the last RawMode was restored.
	pending []byte
}

// New returns a Term reading from in and writing to out.
func New(in, out *os.File) *Term {
	return &Term{in: in, out: out}
}

// Stdio returns the process terminal.
func Stdio() *Term {
	return New(os.Stdin, os.Stdout)
}

// Check returns ErrUnsupportedTerminal when either side is not a terminal or
// TERM names an unsupported one.
func (t *Term) Check() error {
	if env := os.Getenv("TERM"); IsUnsupported(env) {
		return fmt.Errorf("%w: TERM=%s", lineerr.ErrUnsupportedTerminal, env)
	}
	if !xterm.IsTerminal(int(t.in.Fd())) || !xterm.IsTerminal(int(t.out.Fd())) {
		return fmt.Errorf("%w: not a tty", lineerr.ErrUnsupportedTerminal)
	}
	return nil
}

// Raw locks the input terminal and switches it to raw mode. The returned
// RawMode must be restored on every exit path.
func (t *Term) Raw() (*RawMode, error) {
	fd := int(t.in.Fd())

	unlock, err := lock(fd)
	if err != nil {
		return nil, fmt.Errorf("lock terminal: %w", err)
	}

	state, err := xterm.MakeRaw(fd)
	if err != nil {
		unlock()
		return nil, fmt.Errorf("enter raw mode: %w", err)
	}
	log.Debug(log.CatTerm, "raw mode entered", "fd", fd)

	r := newRawMode(t.in, t.out)
	t.adopt(r, func() error {
		defer unlock()
		if err := xterm.Restore(fd, state); err != nil {
			return fmt.Errorf("restore terminal: %w", err)
		}
		log.Debug(log.CatTerm, "raw mode restored", "fd", fd)
		return nil
	})
	return r, nil
}

// adopt hands input left over from the previous raw session to r, and takes
// back whatever r has not consumed when it is restored.
func (t *Term) adopt(r *RawMode, restore func() error) {
	r.pending, t.pending = t.pending, nil
	r.restore = func() error {
		t.pending = append(t.pending, r.pending...)
		r.pending = nil
		return restore()
	}
}

// WriteString writes s to the output without touching terminal modes.
func (t *Term) WriteString(s string) error {
	_, err := io.WriteString(t.out, s)
	return err
}

// ============================================================================
// RawMode
// ============================================================================

// readSize is how many bytes one Read asks the terminal for.
const readSize = 64

// RawMode is a terminal in raw mode. It satisfies edit.Terminal.
type RawMode struct {
	r       io.Reader
	w       io.Writer
	buf     [readSize]byte
	pending []byte // Input read past a cursor position reply
	restore func() error
}

func newRawMode(r io.Reader, w io.Writer) *RawMode {
	return &RawMode{r: r, w: w}
}

// Write sends p to the terminal.
func (m *RawMode) Write(p []byte) error {
	_, err := m.w.Write(p)
	return err
}

// Read blocks until input is available. A zero-length read is reported as
// io.EOF.
func (m *RawMode) Read() ([]byte, error) {
	if len(m.pending) > 0 {
		p := m.pending
		m.pending = nil
		return p, nil
	}

	n, err := m.r.Read(m.buf[:])
	if n > 0 {
		return m.buf[:n], nil
	}
	if err == nil {
		err = io.EOF
	}
	return nil, err
}

// Restore leaves raw mode and releases the terminal lock. Calling it more
// than once is harmless.
func (m *RawMode) Restore() error {
	if m.restore == nil {
		return nil
	}
	restore := m.restore
	m.restore = nil
	return restore()
}

// ClearScreen clears the screen and homes the cursor.
func (m *RawMode) ClearScreen() error {
	b := screen.NewBuilder()
	b.ClearScreen()
	return m.Write(b.Build())
}

// QueryCursorPosition asks the terminal where the cursor is and parses the
// reply. Input bytes that arrive after the reply are kept for the next Read,
// or for the next raw session on the same Term once this one is restored.
// A malformed reply wraps lineerr.ErrParse.
func (m *RawMode) QueryCursorPosition() (parser.CursorPos, error) {
	b := screen.NewBuilder()
	b.AskCursorPos()
	if err := m.Write(b.Build()); err != nil {
		return parser.CursorPos{}, fmt.Errorf("request cursor position: %w", err)
	}

	var reply []byte
	for {
		p, err := m.Read()
		if err != nil {
			return parser.CursorPos{}, fmt.Errorf("read cursor position: %w", err)
		}
		reply = append(reply, p...)

		pos, n, err := parser.ParseCursorPosition(reply)
		if errors.Is(err, parser.ErrIncomplete) {
			continue
		}
		if err != nil {
			log.Warn(log.CatTerm, "malformed cursor position reply", "reply", fmt.Sprintf("%q", reply))
			return parser.CursorPos{}, err
		}
		if n < len(reply) {
			m.pending = append(m.pending, reply[n:]...)
		}
		return pos, nil
	}
}
