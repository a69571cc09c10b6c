package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList_Push(t *testing.T) {
	l := NewList(0)

	require.True(t, l.Push("first"))
	require.True(t, l.Push("second"))
	require.False(t, l.Push("second"), "consecutive duplicate is ignored")
	require.False(t, l.Push(""), "empty line is ignored")
	require.True(t, l.Push("first"), "non-consecutive duplicate is kept")

	assert.Equal(t, []string{"first", "second", "first"}, l.Lines())
}

func TestList_Get(t *testing.T) {
	l := NewList(0)
	l.Push("old")
	l.Push("new")

	line, ok := l.Get(0)
	require.True(t, ok)
	assert.Equal(t, "new", line)

	_, ok = l.Get(2)
	assert.False(t, ok)
	_, ok = l.Get(-1)
	assert.False(t, ok)
}

func TestList_MaxEvictsOldest(t *testing.T) {
	l := NewList(2)
	l.Push("a")
	l.Push("b")
	l.Push("c")
	assert.Equal(t, []string{"c", "b"}, l.Lines())

	l.SetMax(1)
	assert.Equal(t, []string{"c"}, l.Lines())

	l.SetMax(0)
	l.Push("d")
	l.Push("e")
	assert.Equal(t, 3, l.Len())
}

func TestList_PopRemoveClear(t *testing.T) {
	l := NewList(0)
	l.Push("a")
	l.Push("b")
	l.Push("c")

	line, ok := l.Pop()
	require.True(t, ok)
	assert.Equal(t, "c", line)

	line, ok = l.Remove(1)
	require.True(t, ok)
	assert.Equal(t, "a", line)
	assert.Equal(t, []string{"b"}, l.Lines())

	_, ok = l.Remove(5)
	assert.False(t, ok)

	l.Clear()
	assert.Equal(t, 0, l.Len())
	_, ok = l.Pop()
	assert.False(t, ok)
}

func TestCursor_Browse(t *testing.T) {
	l := NewList(0)
	l.Push("oldest")
	l.Push("middle")
	l.Push("newest")
	c := NewCursor(l)

	require.False(t, c.Selected())
	_, ok := c.Get()
	require.False(t, ok)

	moved, swap := c.Prev()
	require.True(t, moved)
	require.True(t, swap, "first Prev starts browsing")
	line, _ := c.Get()
	assert.Equal(t, "newest", line)

	moved, swap = c.Prev()
	require.True(t, moved)
	require.False(t, swap)
	moved, _ = c.Prev()
	require.True(t, moved)
	line, _ = c.Get()
	assert.Equal(t, "oldest", line)

	moved, swap = c.Prev()
	require.False(t, moved, "clamps at the oldest line")
	require.False(t, swap)
	assert.Equal(t, 2, c.Index())

	c.Next()
	moved, swap = c.Next()
	require.True(t, moved)
	require.False(t, swap)
	moved, swap = c.Next()
	require.True(t, moved)
	require.True(t, swap, "walking past the newest line ends browsing")
	require.False(t, c.Selected())

	moved, swap = c.Next()
	require.False(t, moved)
	require.False(t, swap)
}

func TestCursor_EmptyHistory(t *testing.T) {
	for _, h := range []History{nil, NewList(0)} {
		c := NewCursor(h)
		moved, swap := c.Prev()
		assert.False(t, moved)
		assert.False(t, swap)
		assert.False(t, c.Selected())
	}
}

func TestCursor_DoesNotMutateHistory(t *testing.T) {
	l := NewList(0)
	l.Push("a")
	l.Push("b")
	before := l.Lines()

	c := NewCursor(l)
	c.Prev()
	c.Prev()
	c.Next()
	c.Next()

	assert.Equal(t, before, l.Lines())
}
