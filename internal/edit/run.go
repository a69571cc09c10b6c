package edit

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/zjrosen/rawline/internal/lineerr"
	"github.com/zjrosen/rawline/internal/log"
)

// Terminal is the byte-level I/O the edit loop needs.
type Terminal interface {
	// Write sends a redraw sequence to the terminal.
	Write(p []byte) error
	// Read blocks until at least one input byte is available. It returns
	// io.EOF or lineerr.ErrEndOfFile when the input is exhausted.
	Read() ([]byte, error)
}

// Run edits one line against t and returns it.
//
// The line is redrawn whenever the pending input runs dry, right before the
// next blocking read. ctx is checked before each read.
func (c *Context) Run(ctx context.Context, t Terminal) (string, error) {
	for {
		res := c.Edit()
		switch res.Status {
		case Halt:
			if res.Err != nil {
				log.Debug(log.CatEdit, "line read ended", "error", res.Err)
			}
			return res.Line, res.Err
		case Continue:
			continue
		}

		if err := t.Write(c.Render()); err != nil {
			return "", fmt.Errorf("write line: %w", err)
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}

		p, err := t.Read()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, lineerr.ErrEndOfFile) {
				return "", lineerr.ErrEndOfFile
			}
			return "", fmt.Errorf("read input: %w", err)
		}
		c.Feed(p)
	}
}
