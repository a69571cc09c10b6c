package buffer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeleteContext_Forward(t *testing.T) {
	b := newAt("abc 123", 4)
	d := b.StartDelete()
	require.False(t, d.StartedOnWhitespace())

	d.MoveWord(Keyword)
	require.Equal(t, "123", d.Delete())
	require.Equal(t, "abc ", b.String())
	require.Equal(t, 4, b.Offset())
}

func TestDeleteContext_Backward(t *testing.T) {
	b := newAt("foo bar", 7)
	d := b.StartDelete()
	require.True(t, d.StartedOnWhitespace(), "end of line counts as whitespace")

	d.MoveWordBack(Keyword)
	require.Equal(t, 7, d.Start())
	require.Equal(t, "bar", d.Delete())
	require.Equal(t, "foo ", b.String())
	require.Equal(t, 4, b.Offset())
}

func TestDeleteContext_NoMotionDeletesNothing(t *testing.T) {
	b := newAt("abc", 1)
	d := b.StartDelete()
	require.Empty(t, d.Delete())
	require.Equal(t, "abc", b.String())
}

func TestDeleteContext_WholeClusters(t *testing.T) {
	b := newAt("a👋🏽b", 1)
	d := b.StartDelete()
	d.MoveRight()
	require.Equal(t, "👋🏽", d.Delete())
	require.Equal(t, "ab", b.String())
}
