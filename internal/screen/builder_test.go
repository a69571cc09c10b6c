package screen

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuilder_Sequences(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *Builder)
		want  string
	}{
		{"carriage return", (*Builder).CarriageReturn, "\r"},
		{"erase to right", (*Builder).EraseToRight, "\x1b[0K"},
		{"clear screen", (*Builder).ClearScreen, "\x1b[H\x1b[2J"},
		{"reset color", (*Builder).ResetColor, "\x1b[0m"},
		{"invert color", (*Builder).InvertColor, "\x1b[7m"},
		{"ask cursor pos", (*Builder).AskCursorPos, "\x1b[6n"},
		{"cursor at 0", func(b *Builder) { b.SetCursorPos(0) }, "\r\x1b[0C"},
		{"cursor at 12", func(b *Builder) { b.SetCursorPos(12) }, "\r\x1b[12C"},
		{"append", func(b *Builder) { b.Append("héllo") }, "héllo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder()
			tt.build(b)
			require.Equal(t, tt.want, string(b.Build()))
		})
	}
}

func TestBuilder_ComposesInOrder(t *testing.T) {
	var b Builder
	b.CarriageReturn()
	b.Append("foo> ")
	b.Append("abc")
	b.EraseToRight()
	b.SetCursorPos(8)

	require.Equal(t, "\rfoo> abc\x1b[0K\r\x1b[8C", string(b.Build()))
}

func TestBuilder_BuildResets(t *testing.T) {
	b := NewBuilder()
	b.Append("x")
	require.Equal(t, "x", string(b.Build()))
	require.Empty(t, b.Build())
}
