package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFIFOEmptyPop(t *testing.T) {
	f := NewFIFO[int]()
	_, ok := f.PopFront()
	assert.False(t, ok)
	assert.Equal(t, 0, f.Len())
}

func TestFIFOOrdering(t *testing.T) {
	f := NewFIFO[int]()
	for i := 0; i < 5; i++ {
		f.PushBack(i)
	}
	require.Equal(t, 5, f.Len())

	for i := 0; i < 5; i++ {
		v, ok := f.PopFront()
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
	_, ok := f.PopFront()
	assert.False(t, ok)
}

func TestFIFOInterleaved(t *testing.T) {
	f := NewFIFO[string]()
	f.PushBack("a")
	f.PushBack("b")
	v, ok := f.PopFront()
	require.True(t, ok)
	assert.Equal(t, "a", v)

	f.PushBack("c")
	v, ok = f.PopFront()
	require.True(t, ok)
	assert.Equal(t, "b", v)

	v, ok = f.PopFront()
	require.True(t, ok)
	assert.Equal(t, "c", v)

	assert.Equal(t, 0, f.Len())
}

func TestFIFOClose(t *testing.T) {
	f := NewFIFO[int]()
	f.PushBack(1)
	f.PushBack(2)
	f.Close()
	assert.Equal(t, 0, f.Len())
	_, ok := f.PopFront()
	assert.False(t, ok)
}
