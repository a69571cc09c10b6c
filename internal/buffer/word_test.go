package buffer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestMoveWord(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		start int
		mode  WordMode
		want  int
		moved bool
	}{
		{"to next word", "foo bar", 0, Keyword, 4, true},
		{"from mid word", "foo bar", 1, Keyword, 4, true},
		{"stops at punctuation", "foo.bar", 0, Keyword, 3, true},
		{"punctuation run", "foo.bar", 3, Keyword, 4, true},
		{"skips whitespace run", "foo   bar", 1, Keyword, 6, true},
		{"from whitespace", "foo   bar", 3, Keyword, 6, true},
		{"last word ends at eol", "foo", 0, Keyword, 3, true},
		{"already at eol", "foo", 3, Keyword, 3, false},
		{"blank ignores punctuation", "foo.bar baz", 0, Blank, 8, true},
		{"unicode letters are words", "h\u00e9llo w\u00f6rld", 0, Keyword, 7, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newAt(tt.text, tt.start)
			require.Equal(t, tt.moved, b.MoveWord(tt.mode))
			assert.Equal(t, tt.want, b.Offset())
		})
	}
}

func TestMoveToEndOfWord(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		start int
		mode  WordMode
		dir   Direction
		want  int
		moved bool
	}{
		{"forward to end of word", "foo bar", 0, Keyword, Forward, 2, true},
		{"forward from word end", "foo bar", 2, Keyword, Forward, 6, true},
		{"forward onto punctuation", "foo.bar", 2, Keyword, Forward, 3, true},
		{"forward blank spans punctuation", "foo.bar baz", 0, Blank, Forward, 6, true},
		{"forward at last grapheme", "foo", 2, Keyword, Forward, 2, false},
		{"forward at eol", "foo", 3, Keyword, Forward, 3, false},
		{"forward over trailing blanks", "abc   ", 2, Keyword, Forward, 2, false},
		{"forward from blanks at eol", "abc   ", 4, Keyword, Forward, 4, false},
		{"backward to word start", "foo bar", 6, Keyword, Backward, 4, true},
		{"backward across whitespace", "foo bar", 4, Keyword, Backward, 0, true},
		{"backward from eol", "foo bar", 7, Keyword, Backward, 4, true},
		{"backward stops at line start", "  foo", 2, Keyword, Backward, 0, true},
		{"backward at line start", "foo", 0, Keyword, Backward, 0, false},
		{"backward punctuation run", "foo..bar", 5, Keyword, Backward, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newAt(tt.text, tt.start)
			require.Equal(t, tt.moved, b.MoveToEndOfWord(tt.mode, tt.dir))
			assert.Equal(t, tt.want, b.Offset())
		})
	}
}

func TestAtWordEnd(t *testing.T) {
	b := newAt("foo bar", 2)
	assert.True(t, b.AtWordEnd(Keyword))
	b.pos = 1
	assert.False(t, b.AtWordEnd(Keyword))
	b.pos = 3
	assert.False(t, b.AtWordEnd(Keyword), "whitespace is never a word end")
	b.pos = 6
	assert.True(t, b.AtWordEnd(Keyword))
	b.pos = 7
	assert.False(t, b.AtWordEnd(Keyword))
}

func TestMoveToChar(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		start  int
		target string
		dir    Direction
		count  int
		want   int
		found  bool
	}{
		{"first occurrence", "a,b,c", 0, ",", Forward, 1, 1, true},
		{"second occurrence", "a,b,c", 0, ",", Forward, 2, 3, true},
		{"missing nth restores", "a,b,c", 0, ",", Forward, 3, 0, false},
		{"cursor grapheme not counted", "a,b", 1, ",", Forward, 1, 1, false},
		{"backward", "a,b,c", 4, ",", Backward, 1, 3, true},
		{"backward second", "a,b,c", 4, ",", Backward, 2, 1, true},
		{"zero count means one", "a,b", 0, ",", Forward, 0, 1, true},
		{"grapheme target", "a日b日", 0, "日", Forward, 2, 5, true},
		{"empty target", "abc", 0, "", Forward, 1, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newAt(tt.text, tt.start)
			require.Equal(t, tt.found, b.MoveToChar(tt.target, tt.dir, tt.count))
			assert.Equal(t, tt.want, b.Offset())
		})
	}
}

// TestProperty_WordMotionSymmetry verifies that N forward word motions
// followed by N backward word motions return to the start of the line.
func TestProperty_WordMotionSymmetry(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		words := rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,6}`), 1, 8).Draw(t, "words")
		mode := rapid.SampledFrom([]WordMode{Keyword, Blank}).Draw(t, "mode")
		n := rapid.IntRange(0, len(words)).Draw(t, "n")

		b := newAt(strings.Join(words, " "), 0)
		for i := 0; i < n; i++ {
			assert.True(t, b.MoveWord(mode))
		}
		for i := 0; i < n; i++ {
			assert.True(t, b.MoveWordBack(mode))
		}
		assert.Equal(t, 0, b.Offset())
	})
}
