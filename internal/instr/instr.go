// Package instr maps parsed key tokens to abstract editing instructions.
//
// Interpret is a pure function of the token and the modal state. Applying
// the instruction (and advancing the mode) is the edit package's job.
package instr

import (
	"fmt"

	"github.com/zjrosen/rawline/internal/buffer"
)

// Kind identifies an instruction.
type Kind int

const (
	Noop Kind = iota

	// Line completion
	Done      // Finish the line
	DoneOrEOF // Finish the line, or end of file when it is empty
	Cancel    // Abandon the line
	Clear     // Redraw on a cleared screen

	// Text
	InsertText       // Insert Text at the cursor
	ReplaceAtCursor  // Replace the grapheme under the cursor with Text
	DeleteLeft       // Delete the grapheme before the cursor
	DeleteRight      // Delete the grapheme under the cursor
	DeleteRightOrEOF // emacs Ctrl-D: end of file when nothing is under the cursor
	DeleteChar       // vi x
	Substitute       // vi s
	DeleteLine       // vi dd
	ChangeLine       // vi cc
	DeleteToEnd      // vi D
	ChangeToEnd      // vi C
	KillToEnd        // emacs Ctrl-K
	KillToStart      // emacs Ctrl-U
	KillWordBack     // emacs Ctrl-W

	// Motions
	MoveLeft
	MoveRight
	MoveStart
	MoveEnd
	MoveWord      // Start of next word, Word selects the class scheme
	MoveWordBack  // Start of previous word
	MoveEndOfWord // End of next word
	MoveToChar    // Character search for Text, Search selects the flavor

	// History
	HistoryPrev
	HistoryNext

	// Vi mode transitions
	NormalMode
	Insert
	InsertStart
	Append
	AppendEnd
	ReplaceMode
	DeleteMode
	ChangeMode
	MoveCharMode // Wait for a search target, Search selects the flavor
	Digit        // Count digit, see Instr.Digit
)

var kindNames = [...]string{
	Noop:             "Noop",
	Done:             "Done",
	DoneOrEOF:        "DoneOrEOF",
	Cancel:           "Cancel",
	Clear:            "Clear",
	InsertText:       "InsertText",
	ReplaceAtCursor:  "ReplaceAtCursor",
	DeleteLeft:       "DeleteLeft",
	DeleteRight:      "DeleteRight",
	DeleteRightOrEOF: "DeleteRightOrEOF",
	DeleteChar:       "DeleteChar",
	Substitute:       "Substitute",
	DeleteLine:       "DeleteLine",
	ChangeLine:       "ChangeLine",
	DeleteToEnd:      "DeleteToEnd",
	ChangeToEnd:      "ChangeToEnd",
	KillToEnd:        "KillToEnd",
	KillToStart:      "KillToStart",
	KillWordBack:     "KillWordBack",
	MoveLeft:         "MoveLeft",
	MoveRight:        "MoveRight",
	MoveStart:        "MoveStart",
	MoveEnd:          "MoveEnd",
	MoveWord:         "MoveWord",
	MoveWordBack:     "MoveWordBack",
	MoveEndOfWord:    "MoveEndOfWord",
	MoveToChar:       "MoveToChar",
	HistoryPrev:      "HistoryPrev",
	HistoryNext:      "HistoryNext",
	NormalMode:       "NormalMode",
	Insert:           "Insert",
	InsertStart:      "InsertStart",
	Append:           "Append",
	AppendEnd:        "AppendEnd",
	ReplaceMode:      "ReplaceMode",
	DeleteMode:       "DeleteMode",
	ChangeMode:       "ChangeMode",
	MoveCharMode:     "MoveCharMode",
	Digit:            "Digit",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsMotion reports whether the instruction only moves the cursor, and so can
// serve as the motion of a pending operator.
func (k Kind) IsMotion() bool {
	switch k {
	case MoveLeft, MoveRight, MoveStart, MoveEnd,
		MoveWord, MoveWordBack, MoveEndOfWord, MoveToChar:
		return true
	default:
		return false
	}
}

// Instr is an editing instruction with its parameters.
type Instr struct {
	Kind   Kind
	Text   string          // InsertText, ReplaceAtCursor, MoveToChar
	Word   buffer.WordMode // MoveWord, MoveWordBack, MoveEndOfWord
	Search CharSearch      // MoveToChar, MoveCharMode
	Digit  uint32          // Digit
}

func (i Instr) String() string {
	switch i.Kind {
	case InsertText, ReplaceAtCursor:
		return fmt.Sprintf("%s(%q)", i.Kind, i.Text)
	case MoveToChar:
		return fmt.Sprintf("%s(%s %q)", i.Kind, i.Search, i.Text)
	case MoveCharMode:
		return fmt.Sprintf("%s(%s)", i.Kind, i.Search)
	case Digit:
		return fmt.Sprintf("%s(%d)", i.Kind, i.Digit)
	default:
		return i.Kind.String()
	}
}

func of(k Kind) Instr {
	return Instr{Kind: k}
}
