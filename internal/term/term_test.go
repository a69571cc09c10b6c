package term

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/rawline/internal/lineerr"
	"github.com/zjrosen/rawline/internal/parser"
)

func TestIsUnsupported(t *testing.T) {
	tests := []struct {
		term string
		want bool
	}{
		{"dumb", true},
		{"cons25", true},
		{"emacs", true},
		{"DUMB", true},
		{"xterm-256color", false},
		{"screen", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUnsupported(tt.term))
		})
	}
}

func TestCheck_RejectsPipes(t *testing.T) {
	t.Setenv("TERM", "xterm")
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer func() { _ = r.Close(); _ = w.Close() }()

	err = New(r, w).Check()
	require.ErrorIs(t, err, lineerr.ErrUnsupportedTerminal)
	assert.Contains(t, err.Error(), "not a tty")
}

func TestCheck_RejectsUnsupportedTerm(t *testing.T) {
	t.Setenv("TERM", "dumb")
	err := Stdio().Check()
	require.ErrorIs(t, err, lineerr.ErrUnsupportedTerminal)
	assert.Contains(t, err.Error(), "TERM=dumb")
}

func TestRawMode_ReadWrite(t *testing.T) {
	var out bytes.Buffer
	m := newRawMode(strings.NewReader("abc"), &out)

	require.NoError(t, m.Write([]byte("\rfoo> ")))
	assert.Equal(t, "\rfoo> ", out.String())

	p, err := m.Read()
	require.NoError(t, err)
	assert.Equal(t, "abc", string(p))

	_, err = m.Read()
	require.ErrorIs(t, err, io.EOF)
}

func TestRawMode_ClearScreen(t *testing.T) {
	var out bytes.Buffer
	m := newRawMode(strings.NewReader(""), &out)
	require.NoError(t, m.ClearScreen())
	assert.Equal(t, "\x1b[H\x1b[2J", out.String())
}

func TestRawMode_QueryCursorPosition(t *testing.T) {
	var out bytes.Buffer
	m := newRawMode(iotest.OneByteReader(strings.NewReader("\x1b[12;40Rxy")), &out)

	pos, err := m.QueryCursorPosition()
	require.NoError(t, err)
	assert.Equal(t, parser.CursorPos{Row: 12, Col: 40}, pos)
	assert.Equal(t, "\x1b[6n", out.String())

	// One byte at a time, so nothing was read past the reply.
	p, err := m.Read()
	require.NoError(t, err)
	assert.Equal(t, "x", string(p))
}

func TestRawMode_QueryCursorPositionKeepsTrailingInput(t *testing.T) {
	m := newRawMode(strings.NewReader("\x1b[1;1Rhello"), io.Discard)

	pos, err := m.QueryCursorPosition()
	require.NoError(t, err)
	assert.Equal(t, parser.CursorPos{Row: 1, Col: 1}, pos)

	p, err := m.Read()
	require.NoError(t, err)
	assert.Equal(t, "hello", string(p))
}

func TestRawMode_QueryCursorPositionErrors(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  error
	}{
		{"malformed", "\x1b[12x40R", lineerr.ErrParse},
		{"not a reply", "abc", lineerr.ErrParse},
		{"input ends", "\x1b[12;4", io.EOF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newRawMode(strings.NewReader(tt.reply), io.Discard)
			_, err := m.QueryCursorPosition()
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRawMode_RestoreOnce(t *testing.T) {
	m := newRawMode(strings.NewReader(""), io.Discard)
	require.NoError(t, m.Restore(), "no-op without raw mode")

	calls := 0
	m.restore = func() error { calls++; return nil }
	require.NoError(t, m.Restore())
	require.NoError(t, m.Restore())
	assert.Equal(t, 1, calls)
}

func TestTerm_KeepsInputAcrossRawSessions(t *testing.T) {
	tm := New(nil, nil)
	restores := 0
	restore := func() error { restores++; return nil }

	first := newRawMode(strings.NewReader("\x1b[3;7Rls"), io.Discard)
	tm.adopt(first, restore)
	pos, err := first.QueryCursorPosition()
	require.NoError(t, err)
	assert.Equal(t, parser.CursorPos{Row: 3, Col: 7}, pos)
	require.NoError(t, first.Restore())
	assert.Equal(t, 1, restores)

	second := newRawMode(strings.NewReader(""), io.Discard)
	tm.adopt(second, restore)
	p, err := second.Read()
	require.NoError(t, err)
	assert.Equal(t, "ls", string(p), "typed-ahead input reaches the next session")

	_, err = second.Read()
	require.ErrorIs(t, err, io.EOF)
	require.NoError(t, second.Restore())
	assert.Empty(t, tm.pending)
}
