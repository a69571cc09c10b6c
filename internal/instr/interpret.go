package instr

import (
	"github.com/zjrosen/rawline/internal/buffer"
	"github.com/zjrosen/rawline/internal/parser"
)

// ============================================================================
// Key tables
// ============================================================================

// emacsKeys binds control keys in emacs mode. Text always inserts.
var emacsKeys = map[parser.Key]Instr{
	parser.KeyEnter:     of(Done),
	parser.KeyBackspace: of(DeleteLeft),
	parser.KeyCtrlH:     of(DeleteLeft),
	parser.KeyDelete:    of(DeleteRight),
	parser.KeyCtrlD:     of(DeleteRightOrEOF),
	parser.KeyUp:        of(HistoryPrev),
	parser.KeyCtrlP:     of(HistoryPrev),
	parser.KeyDown:      of(HistoryNext),
	parser.KeyCtrlN:     of(HistoryNext),
	parser.KeyRight:     of(MoveRight),
	parser.KeyCtrlF:     of(MoveRight),
	parser.KeyLeft:      of(MoveLeft),
	parser.KeyCtrlB:     of(MoveLeft),
	parser.KeyCtrlA:     of(MoveStart),
	parser.KeyHome:      of(MoveStart),
	parser.KeyCtrlE:     of(MoveEnd),
	parser.KeyEnd:       of(MoveEnd),
	parser.KeyCtrlK:     of(KillToEnd),
	parser.KeyCtrlU:     of(KillToStart),
	parser.KeyCtrlW:     of(KillWordBack),
	parser.KeyCtrlC:     of(Cancel),
	parser.KeyCtrlL:     of(Clear),
}

// viKeys binds control keys shared by every vi sub-mode that does not
// override them.
var viKeys = map[parser.Key]Instr{
	parser.KeyEsc:       of(NormalMode),
	parser.KeyEnter:     of(Done),
	parser.KeyCtrlD:     of(DoneOrEOF),
	parser.KeyCtrlC:     of(Cancel),
	parser.KeyCtrlL:     of(Clear),
	parser.KeyBackspace: of(DeleteLeft),
	parser.KeyCtrlH:     of(DeleteLeft),
	parser.KeyDelete:    of(DeleteRight),
	parser.KeyUp:        of(HistoryPrev),
	parser.KeyDown:      of(HistoryNext),
	parser.KeyRight:     of(MoveRight),
	parser.KeyLeft:      of(MoveLeft),
	parser.KeyHome:      of(MoveStart),
	parser.KeyEnd:       of(MoveEnd),
}

// motionKeys are the vi commands usable both on their own and after d or c.
var motionKeys = map[string]Instr{
	"h": of(MoveLeft),
	"l": of(MoveRight),
	" ": of(MoveRight),
	"^": of(MoveStart),
	"$": of(MoveEnd),
	"w": {Kind: MoveWord, Word: buffer.Keyword},
	"W": {Kind: MoveWord, Word: buffer.Blank},
	"b": {Kind: MoveWordBack, Word: buffer.Keyword},
	"B": {Kind: MoveWordBack, Word: buffer.Blank},
	"e": {Kind: MoveEndOfWord, Word: buffer.Keyword},
	"E": {Kind: MoveEndOfWord, Word: buffer.Blank},
	"f": {Kind: MoveCharMode, Search: SearchRight},
	"F": {Kind: MoveCharMode, Search: SearchLeft},
	"t": {Kind: MoveCharMode, Search: SearchBeforeRight},
	"T": {Kind: MoveCharMode, Search: SearchBeforeLeft},
	"0": {Kind: Digit, Digit: 0},
	"1": {Kind: Digit, Digit: 1},
	"2": {Kind: Digit, Digit: 2},
	"3": {Kind: Digit, Digit: 3},
	"4": {Kind: Digit, Digit: 4},
	"5": {Kind: Digit, Digit: 5},
	"6": {Kind: Digit, Digit: 6},
	"7": {Kind: Digit, Digit: 7},
	"8": {Kind: Digit, Digit: 8},
	"9": {Kind: Digit, Digit: 9},
}

// normalKeys are the vi normal mode commands that are not motions.
var normalKeys = map[string]Instr{
	"j": of(HistoryNext),
	"k": of(HistoryPrev),
	"x": of(DeleteChar),
	"s": of(Substitute),
	"r": of(ReplaceMode),
	"c": of(ChangeMode),
	"d": of(DeleteMode),
	"C": of(ChangeToEnd),
	"D": of(DeleteToEnd),
	"a": of(Append),
	"A": of(AppendEnd),
	"i": of(Insert),
	"I": of(InsertStart),
}

// ============================================================================
// Interpreter
// ============================================================================

// Interpret maps a token to an instruction under the given mode.
func Interpret(tok parser.Token, m Mode) Instr {
	if m.Edit == EditEmacs {
		return interpretEmacs(tok)
	}

	switch m.Vi {
	case ViInsert:
		if tok.Key == parser.KeyText {
			return Instr{Kind: InsertText, Text: tok.Text}
		}
		return interpretViKey(tok)
	case ViNormal:
		return interpretNormal(tok)
	case ViReplace:
		if tok.Key == parser.KeyText {
			return Instr{Kind: ReplaceAtCursor, Text: tok.Text}
		}
		return of(NormalMode)
	case ViMoveChar, ViDeleteMoveChar, ViChangeMoveChar:
		if tok.Key == parser.KeyText {
			return Instr{Kind: MoveToChar, Text: tok.Text, Search: m.Search}
		}
		return of(NormalMode)
	case ViDelete:
		return interpretOperator(tok, "d", DeleteLine)
	case ViChange:
		return interpretOperator(tok, "c", ChangeLine)
	default:
		return of(Noop)
	}
}

func interpretEmacs(tok parser.Token) Instr {
	if tok.Key == parser.KeyText {
		return Instr{Kind: InsertText, Text: tok.Text}
	}
	if in, ok := emacsKeys[tok.Key]; ok {
		return in
	}
	return of(Noop)
}

func interpretViKey(tok parser.Token) Instr {
	if in, ok := viKeys[tok.Key]; ok {
		return in
	}
	return of(Noop)
}

func interpretNormal(tok parser.Token) Instr {
	switch tok.Key {
	case parser.KeyText:
		if in, ok := motionKeys[tok.Text]; ok {
			return in
		}
		if in, ok := normalKeys[tok.Text]; ok {
			return in
		}
		return of(Noop)
	case parser.KeyBackspace, parser.KeyCtrlH:
		return of(MoveLeft)
	default:
		return interpretViKey(tok)
	}
}

// interpretOperator handles the key after d or c. Repeating the operator
// key acts on the whole line; anything that is not a motion aborts.
func interpretOperator(tok parser.Token, self string, line Kind) Instr {
	switch tok.Key {
	case parser.KeyText:
		if tok.Text == self {
			return of(line)
		}
		if in, ok := motionKeys[tok.Text]; ok {
			return in
		}
	case parser.KeyCtrlC:
		return of(Cancel)
	default:
		if in, ok := viKeys[tok.Key]; ok && in.Kind.IsMotion() {
			return in
		}
	}
	return of(NormalMode)
}
