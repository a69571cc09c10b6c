// Package buffer provides the editable line buffer used by the edit loop.
//
// This file provides grapheme cluster helpers for Unicode-aware cursor arithmetic.
//
// Triple-Unit Model:
//
// The buffer distinguishes between three units of text measurement:
//
//  1. Bytes: The storage unit. The cursor is kept as a byte offset into the
//     line so slicing never needs a conversion.
//
//  2. Graphemes: The logical unit users perceive as a "character". A grapheme
//     cluster may consist of several code points (e.g. "e" + combining accent).
//     Cursor motion steps whole clusters, so the byte offset always lands on a
//     cluster boundary.
//
//  3. Display Columns: The width in terminal cells that text occupies.
//     ASCII = 1 column, emoji = 2 columns, CJK = 2 columns. This is what the
//     rendered cursor position is computed from.
package buffer

import (
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// WordMode selects how word motions classify graphemes.
type WordMode int

const (
	// Keyword treats keyword characters, whitespace and other punctuation as
	// three distinct classes (vi's w, b, e).
	Keyword WordMode = iota
	// Blank only distinguishes whitespace from everything else (vi's W, B, E).
	Blank
)

// Direction selects the scan direction of a motion.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// Character class constants for word boundary detection.
type charClass int

const (
	classWhitespace charClass = iota
	classWord
	classOther
)

// GraphemeCount returns the number of grapheme clusters in a string.
// For example: "hello" = 5, "h😀llo" = 5, "👨‍👩‍👧‍👦" = 1.
func GraphemeCount(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// StringDisplayWidth returns the total display width of a string in terminal cells.
func StringDisplayWidth(s string) int {
	return runewidth.StringWidth(s)
}

// clusterAt returns the grapheme cluster starting at byte offset pos.
// Returns "" when pos is at or past the end of s.
func clusterAt(s string, pos int) string {
	if pos >= len(s) {
		return ""
	}
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(s[pos:], -1)
	return cluster
}

// nextBoundary returns the byte offset of the cluster boundary after pos.
// pos must itself be a cluster boundary.
func nextBoundary(s string, pos int) (int, bool) {
	if pos >= len(s) {
		return len(s), false
	}
	return pos + len(clusterAt(s, pos)), true
}

// prevBoundary returns the byte offset of the cluster boundary before pos.
// Segmentation has to start from the beginning of the string because
// cluster rules (regional indicator pairs, ZWJ sequences) depend on context.
func prevBoundary(s string, pos int) (int, bool) {
	if pos <= 0 {
		return 0, false
	}

	offset := 0
	state := -1
	rest := s
	for len(rest) > 0 {
		cluster, next, _, newState := uniseg.FirstGraphemeClusterInString(rest, state)
		if offset+len(cluster) >= pos {
			return offset, true
		}
		offset += len(cluster)
		rest = next
		state = newState
	}
	return offset, true
}

// snapBoundary returns the smallest cluster boundary >= pos.
func snapBoundary(s string, pos int) int {
	offset := 0
	state := -1
	rest := s
	for len(rest) > 0 && offset < pos {
		cluster, next, _, newState := uniseg.FirstGraphemeClusterInString(rest, state)
		offset += len(cluster)
		rest = next
		state = newState
	}
	return offset
}

// classify returns the class of a grapheme cluster for word boundary detection.
//
// Classification rules:
//   - Whitespace: any Unicode space
//   - Word: alphanumeric characters, underscore, or non-ASCII letters/numbers
//   - Other: everything else (punctuation, symbols, emoji)
//
// In Blank mode Word and Other collapse into Word.
func classify(cluster string, mode WordMode) charClass {
	if cluster == "" {
		return classWhitespace
	}

	// For multi-rune clusters (emoji, combining marks) the base character decides.
	r, _ := utf8.DecodeRuneInString(cluster)
	switch {
	case unicode.IsSpace(r):
		return classWhitespace
	case mode == Blank:
		return classWord
	case r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r):
		return classWord
	default:
		return classOther
	}
}
