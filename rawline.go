// Package rawline reads lines from a terminal with Emacs or Vi style editing.
//
// An Editor owns the terminal and an in-memory history list:
//
//	ed := rawline.New()
//	line, err := ed.ReadLine("> ", rawline.Config{Mode: rawline.Vi})
//	if errors.Is(err, rawline.ErrCancelled) {
//		// Ctrl-C
//	}
//	ed.AddHistory(line)
//
// ReadLineFrom runs the same editor against any byte source, which is how
// embedders without a real terminal (and tests) drive it.
package rawline

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/rawline/internal/edit"
	"github.com/zjrosen/rawline/internal/history"
	"github.com/zjrosen/rawline/internal/instr"
	"github.com/zjrosen/rawline/internal/lineerr"
	"github.com/zjrosen/rawline/internal/log"
	"github.com/zjrosen/rawline/internal/parser"
	"github.com/zjrosen/rawline/internal/screen"
	"github.com/zjrosen/rawline/internal/term"
	"github.com/zjrosen/rawline/internal/tracing"
)

// EditMode selects the key bindings.
type EditMode = instr.EditMode

const (
	Emacs = instr.EditEmacs
	Vi    = instr.EditVi
)

// Errors returned by ReadLine. Test with errors.Is.
var (
	ErrCancelled           = lineerr.ErrCancelled
	ErrEndOfFile           = lineerr.ErrEndOfFile
	ErrUnsupportedTerminal = lineerr.ErrUnsupportedTerminal
	ErrInvalidEncoding     = lineerr.ErrInvalidEncoding
	ErrParse               = lineerr.ErrParse
)

// Terminal is the byte source and sink ReadLineFrom edits against.
type Terminal = edit.Terminal

// History is a read-only view of past lines, most recent first.
type History = history.History

// Config controls a single line read.
type Config struct {
	Mode EditMode
	// Encoding is an IANA character set name for the input bytes. Empty
	// means UTF-8.
	Encoding string
}

func (c Config) decoder() (parser.Decoder, error) {
	dec, err := parser.LookupDecoder(c.Encoding)
	if err != nil {
		return nil, fmt.Errorf("encoding: %w", err)
	}
	return dec, nil
}

// Editor reads lines from a terminal. It is not safe for concurrent use.
type Editor struct {
	term    *term.Term
	history *history.List
	tracer  trace.Tracer
}

// New returns an Editor on the process stdin and stdout.
func New() *Editor {
	return NewFromFiles(os.Stdin, os.Stdout)
}

// NewFromFiles returns an Editor reading from in and drawing on out.
func NewFromFiles(in, out *os.File) *Editor {
	return &Editor{
		term:    term.New(in, out),
		history: history.NewList(0),
		tracer:  noop.NewTracerProvider().Tracer("noop"),
	}
}

// SetTracer records a span for every line read with t. A nil t turns
// tracing off.
func (e *Editor) SetTracer(t trace.Tracer) {
	if t == nil {
		t = noop.NewTracerProvider().Tracer("noop")
	}
	e.tracer = t
}

// ReadLine shows prompt and edits one line on the terminal.
func (e *Editor) ReadLine(prompt string, cfg Config) (string, error) {
	return e.ReadLineContext(context.Background(), prompt, cfg)
}

// ReadLineContext is ReadLine with a context checked between reads.
//
// It returns ErrUnsupportedTerminal without touching the terminal when stdin
// or stdout is not a tty or TERM is dumb, cons25 or emacs. Otherwise the
// terminal is put in raw mode for the duration of the read and always
// restored, and a newline is written after the line.
func (e *Editor) ReadLineContext(ctx context.Context, prompt string, cfg Config) (line string, err error) {
	if err := e.term.Check(); err != nil {
		_, span := tracing.StartReadLine(ctx, e.tracer, cfg.Mode.String())
		tracing.EndReadLine(span, err)
		return "", err
	}

	raw, err := e.term.Raw()
	if err != nil {
		return "", err
	}
	defer func() {
		werr := raw.Write([]byte("\r\n"))
		rerr := raw.Restore()
		if err == nil && werr != nil {
			err = fmt.Errorf("write newline: %w", werr)
		}
		if err == nil && rerr != nil {
			err = rerr
		}
	}()

	return e.ReadLineFrom(ctx, raw, prompt, e.history, cfg)
}

// ReadLineFrom edits one line against t, browsing h with Up/Down. h may be
// nil. The terminal is used as is; no mode changes are made.
func (e *Editor) ReadLineFrom(ctx context.Context, t Terminal, prompt string, h History, cfg Config) (string, error) {
	ctx, span := tracing.StartReadLine(ctx, e.tracer, cfg.Mode.String())

	dec, err := cfg.decoder()
	if err != nil {
		tracing.EndReadLine(span, err)
		return "", err
	}

	c := edit.NewContext(prompt, h, cfg.Mode, dec)
	line, err := c.Run(ctx, t)

	stats := c.Stats()
	log.Debug(log.CatEdit, "line read",
		"mode", cfg.Mode, "bytes", stats.BytesRead, "tokens", stats.Tokens,
		"discarded", stats.Discarded, "error", err)
	tracing.EndReadLine(span, err,
		attribute.Int(tracing.AttrBytesRead, stats.BytesRead),
		attribute.Int(tracing.AttrTokens, stats.Tokens),
		attribute.Int(tracing.AttrDiscarded, stats.Discarded),
		attribute.Int(tracing.AttrLineLength, len(line)),
	)
	return line, err
}

// ============================================================================
// History
// ============================================================================

// AddHistory records line as the most recent entry. Empty lines and repeats
// of the most recent entry are ignored; it reports whether line was added.
func (e *Editor) AddHistory(line string) bool {
	return e.history.Push(line)
}

// HistoryLen returns the number of entries.
func (e *Editor) HistoryLen() int {
	return e.history.Len()
}

// HistoryItem returns entry i, where 0 is the most recent.
func (e *Editor) HistoryItem(i int) (string, bool) {
	return e.history.Get(i)
}

// RemoveHistoryItem deletes entry i and returns it.
func (e *Editor) RemoveHistoryItem(i int) (string, bool) {
	return e.history.Remove(i)
}

// ClearHistory removes every entry.
func (e *Editor) ClearHistory() {
	e.history.Clear()
}

// SetHistoryLimit caps the number of entries, dropping the oldest. 0 means
// unbounded.
func (e *Editor) SetHistoryLimit(n int) {
	e.history.SetMax(n)
}

// ============================================================================
// Screen
// ============================================================================

// ClearScreen clears the terminal and moves the cursor home.
func (e *Editor) ClearScreen() error {
	if err := e.term.Check(); err != nil {
		return err
	}
	return e.term.WriteString(screen.SeqClearScreen)
}

// CursorPosition asks the terminal for the 1-based cursor position. A
// malformed answer returns ErrParse.
func (e *Editor) CursorPosition() (row, col int, err error) {
	if err := e.term.Check(); err != nil {
		return 0, 0, err
	}

	raw, err := e.term.Raw()
	if err != nil {
		return 0, 0, err
	}
	defer func() {
		if rerr := raw.Restore(); err == nil && rerr != nil {
			err = rerr
		}
	}()

	pos, err := raw.QueryCursorPosition()
	if err != nil {
		return 0, 0, err
	}
	return pos.Row, pos.Col, nil
}
