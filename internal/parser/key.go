package parser

import "fmt"

// Key identifies a recognized token.
//
// Control keys 0-27 share their byte value so the single-byte lookup is a
// plain conversion.
type Key int

const (
	KeyNull Key = iota
	KeyCtrlA
	KeyCtrlB
	KeyCtrlC
	KeyCtrlD
	KeyCtrlE
	KeyCtrlF
	KeyCtrlG
	KeyCtrlH
	KeyTab
	KeyCtrlJ
	KeyCtrlK
	KeyCtrlL
	KeyEnter
	KeyCtrlN
	KeyCtrlO
	KeyCtrlP
	KeyCtrlQ
	KeyCtrlR
	KeyCtrlS
	KeyCtrlT
	KeyCtrlU
	KeyCtrlV
	KeyCtrlW
	KeyCtrlX
	KeyCtrlY
	KeyCtrlZ
	KeyEsc

	KeyBackspace // DEL (127)
	KeyDelete    // ESC [ 3 ~
	KeyUp
	KeyDown
	KeyRight
	KeyLeft
	KeyHome
	KeyEnd
	KeyUnknown // Control bytes without a binding (28-31)
	KeyText    // Decoded printable text, see Token.Text
)

var keyNames = map[Key]string{
	KeyNull:      "Null",
	KeyTab:       "Tab",
	KeyEnter:     "Enter",
	KeyEsc:       "Esc",
	KeyBackspace: "Backspace",
	KeyDelete:    "Delete",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyRight:     "Right",
	KeyLeft:      "Left",
	KeyHome:      "Home",
	KeyEnd:       "End",
	KeyUnknown:   "Unknown",
	KeyText:      "Text",
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	if k >= KeyCtrlA && k <= KeyCtrlZ {
		return fmt.Sprintf("Ctrl-%c", 'A'+rune(k-KeyCtrlA))
	}
	return fmt.Sprintf("Key(%d)", int(k))
}

// Token is a single recognized input event.
type Token struct {
	Key  Key
	Text string // Set only for KeyText
}

// Text returns a text token.
func Text(s string) Token {
	return Token{Key: KeyText, Text: s}
}

func (t Token) String() string {
	if t.Key == KeyText {
		return fmt.Sprintf("Text(%q)", t.Text)
	}
	return t.Key.String()
}

// isControl reports whether b is handled by the control table rather than
// the text decoder.
func isControl(b byte) bool {
	return b < 0x20 || b == 0x7f
}

// controlKey maps a single control byte to its key.
func controlKey(b byte) Key {
	switch {
	case b <= 27:
		return Key(b)
	case b == 0x7f:
		return KeyBackspace
	default:
		return KeyUnknown
	}
}
