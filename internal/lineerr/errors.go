// Package lineerr defines the error taxonomy shared by the line editing packages.
//
// Only ErrCancelled, ErrEndOfFile and I/O failures terminate a line read.
// ErrInvalidEncoding is reported by the parser and recovered in place by
// discarding the offending bytes. ErrParse is confined to the cursor position
// probe, and ErrUnsupportedTerminal is returned before raw mode is entered.
package lineerr

import "errors"

var (
	// ErrCancelled is returned when the user interrupts the read (Ctrl-C).
	ErrCancelled = errors.New("cancelled")

	// ErrEndOfFile is returned when the input is exhausted, or when a
	// forward delete is requested on an empty line.
	ErrEndOfFile = errors.New("end of file")

	// ErrUnsupportedTerminal is returned when the output is not a terminal
	// or TERM names a terminal that cannot handle the escape sequences.
	ErrUnsupportedTerminal = errors.New("unsupported terminal type")

	// ErrInvalidEncoding marks a byte sequence the configured decoder rejected.
	ErrInvalidEncoding = errors.New("invalid byte sequence")

	// ErrParse is returned when the terminal answers a cursor position
	// request with a malformed reply.
	ErrParse = errors.New("malformed terminal reply")
)
