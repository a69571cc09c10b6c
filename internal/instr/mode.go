package instr

import (
	"fmt"
	"math"
)

// EditMode selects the key binding family.
type EditMode int

const (
	// EditEmacs binds keys like GNU readline's default emacs mode.
	EditEmacs EditMode = iota
	// EditVi binds keys like vi, starting each line in insert mode.
	EditVi
)

// String returns the config name of the edit mode.
func (m EditMode) String() string {
	switch m {
	case EditEmacs:
		return "emacs"
	case EditVi:
		return "vi"
	default:
		return "unknown"
	}
}

// ParseEditMode converts a config name to an EditMode.
func ParseEditMode(s string) (EditMode, error) {
	switch s {
	case "emacs", "":
		return EditEmacs, nil
	case "vi":
		return EditVi, nil
	default:
		return EditEmacs, fmt.Errorf("unknown edit mode %q (want emacs or vi)", s)
	}
}

// ViMode is the vi sub-mode.
type ViMode int

const (
	// ViInsert inserts typed text.
	ViInsert ViMode = iota
	// ViNormal interprets keys as commands.
	ViNormal
	// ViReplace waits for the replacement character of r.
	ViReplace
	// ViDelete waits for the motion of d.
	ViDelete
	// ViChange waits for the motion of c.
	ViChange
	// ViMoveChar waits for the target of f/F/t/T.
	ViMoveChar
	// ViDeleteMoveChar waits for the target of df/dF/dt/dT.
	ViDeleteMoveChar
	// ViChangeMoveChar waits for the target of cf/cF/ct/cT.
	ViChangeMoveChar
)

// String returns the string representation of the mode.
func (m ViMode) String() string {
	switch m {
	case ViInsert:
		return "INSERT"
	case ViNormal:
		return "NORMAL"
	case ViReplace:
		return "REPLACE"
	case ViDelete:
		return "DELETE"
	case ViChange:
		return "CHANGE"
	case ViMoveChar:
		return "MOVE CHAR"
	case ViDeleteMoveChar:
		return "DELETE MOVE CHAR"
	case ViChangeMoveChar:
		return "CHANGE MOVE CHAR"
	default:
		return "UNKNOWN"
	}
}

// CharSearch is the flavor of a character search.
type CharSearch int

const (
	SearchRight       CharSearch = iota // f
	SearchLeft                          // F
	SearchBeforeRight                   // t
	SearchBeforeLeft                    // T
)

func (s CharSearch) String() string {
	switch s {
	case SearchRight:
		return "f"
	case SearchLeft:
		return "F"
	case SearchBeforeRight:
		return "t"
	case SearchBeforeLeft:
		return "T"
	default:
		return "?"
	}
}

// Mode is the complete modal state consulted by Interpret.
//
// Vi, Search, Count and OpCount are meaningful only when Edit is EditVi.
// Search is meaningful only in the three char-search sub-modes.
type Mode struct {
	Edit    EditMode
	Vi      ViMode
	Search  CharSearch
	Count   uint32 // Pending repeat count, 0 when none was typed
	OpCount uint32 // Count typed before a pending d or c
}

// NewMode returns the initial state for a line read.
func NewMode(edit EditMode) Mode {
	return Mode{Edit: edit, Vi: ViInsert}
}

func (m Mode) String() string {
	if m.Edit == EditEmacs {
		return "emacs"
	}
	switch m.Vi {
	case ViMoveChar, ViDeleteMoveChar, ViChangeMoveChar:
		return fmt.Sprintf("vi %s(%s) count=%d", m.Vi, m.Search, m.Count)
	default:
		return fmt.Sprintf("vi %s count=%d", m.Vi, m.Count)
	}
}

// PushDigit appends a decimal digit to the pending count. A digit that would
// overflow the count is ignored.
func (m *Mode) PushDigit(d uint32) {
	if m.Count > (math.MaxUint32-d)/10 {
		return
	}
	m.Count = m.Count*10 + d
}

// Repeat returns how many times the pending command runs: the product of the
// operator and motion counts, each defaulting to 1, saturating at MaxUint32.
func (m Mode) Repeat() uint32 {
	a, b := uint64(max(m.Count, 1)), uint64(max(m.OpCount, 1))
	if a*b > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(a * b)
}

// ResetCount clears both pending counts.
func (m *Mode) ResetCount() {
	m.Count = 0
	m.OpCount = 0
}
