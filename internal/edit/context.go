// Package edit implements the line editing state machine.
//
// A Context owns everything one line read needs: the buffer, the pending
// input bytes, the modal state and the history cursor. Edit consumes one
// token from the pending bytes and applies it; Run drives Edit against a
// Terminal until the line is finished.
package edit

import (
	"encoding/hex"

	"github.com/zjrosen/rawline/internal/buffer"
	"github.com/zjrosen/rawline/internal/history"
	"github.com/zjrosen/rawline/internal/instr"
	"github.com/zjrosen/rawline/internal/log"
	"github.com/zjrosen/rawline/internal/parser"
)

// Status tells the caller what to do after Edit.
type Status int

const (
	// Continue means a token was handled; call Edit again.
	Continue Status = iota
	// NeedInput means the pending bytes hold no complete token; redraw and
	// read more input.
	NeedInput
	// Halt means the line read is over; see Result.Line and Result.Err.
	Halt
)

func (s Status) String() string {
	switch s {
	case Continue:
		return "continue"
	case NeedInput:
		return "need_input"
	case Halt:
		return "halt"
	default:
		return "unknown"
	}
}

// Result is returned by Edit.
type Result struct {
	Status Status
	Line   string // Finished line, set when Status is Halt and Err is nil
	Err    error  // Why the read ended, set only when Status is Halt
}

func proceed() Result {
	return Result{Status: Continue}
}

func halt(line string, err error) Result {
	return Result{Status: Halt, Line: line, Err: err}
}

// Stats counts work done by a Context.
type Stats struct {
	BytesRead int // Bytes passed to Feed
	Tokens    int // Tokens recognized
	Discarded int // Bytes dropped as malformed
}

// Context is the state of one line read.
type Context struct {
	Buf     *buffer.Buffer
	Seq     []byte
	Mode    instr.Mode
	History *history.Cursor
	Decoder parser.Decoder
	Prompt  string

	clear bool
	stats Stats
}

// NewContext creates the state for a new line read. h may be nil and dec
// defaults to UTF-8.
func NewContext(prompt string, h history.History, mode instr.EditMode, dec parser.Decoder) *Context {
	if dec == nil {
		dec = parser.UTF8()
	}
	return &Context{
		Buf:     buffer.New(),
		Mode:    instr.NewMode(mode),
		History: history.NewCursor(h),
		Decoder: dec,
		Prompt:  prompt,
	}
}

// Feed appends input bytes to the pending sequence.
func (c *Context) Feed(p []byte) {
	c.Seq = append(c.Seq, p...)
	c.stats.BytesRead += len(p)
}

// Stats returns counters for the line read so far.
func (c *Context) Stats() Stats {
	return c.stats
}

// Render returns the redraw sequence for the current line. A pending clear
// request is honored once.
func (c *Context) Render() []byte {
	line := c.Buf.Line(c.Prompt, c.clear)
	c.clear = false
	return line
}

// RequestClear makes the next Render clear the screen first.
func (c *Context) RequestClear() {
	c.clear = true
}

// Edit recognizes one token at the front of the pending bytes and applies it.
func (c *Context) Edit() Result {
	res := parser.Parse(c.Seq, c.Decoder)
	switch res.Status {
	case parser.Incomplete:
		return Result{Status: NeedInput}
	case parser.Error:
		log.Warn(log.CatParser, "discarded input",
			"bytes", hex.EncodeToString(c.Seq[:res.Len]),
			"reason", res.Err)
		c.stats.Discarded += res.Len
		c.consume(res.Len)
		return proceed()
	}

	c.consume(res.Len)
	c.stats.Tokens++

	in := instr.Interpret(res.Token, c.Mode)
	log.Debug(log.CatEdit, "instruction", "token", res.Token, "instr", in, "mode", c.Mode)
	return c.apply(in)
}

func (c *Context) consume(n int) {
	c.Seq = c.Seq[:copy(c.Seq, c.Seq[n:])]
}
