package dense

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatrixSetAndGet(t *testing.T) {
	M := NewIntMatrix(3, 4, -1)
	assert.Equal(t, 3, M.M())
	assert.Equal(t, 4, M.N())
	assert.Equal(t, 0, M.ValueCount())
	M.Set(2, 3, 4711).Set(0, 0, 7)
	assert.Equal(t, int32(4711), M.Value(2, 3))
	assert.Equal(t, int32(7), M.Value(0, 0))
	assert.Equal(t, int32(-1), M.Value(1, 1))
	assert.Equal(t, int32(-1), M.Value(10, 10), "outside reads as null")
	assert.Equal(t, 2, M.ValueCount())
	assert.Equal(t, []int32{-1, -1, -1, 4711}, M.Row(2))
	assert.Nil(t, M.Row(3))
	assert.Equal(t, ". . . .\n", NewIntMatrix(1, 4, -1).String())
}

func TestMatrixEquals(t *testing.T) {
	A := NewIntMatrix(2, 2, 0).Set(1, 0, 3)
	B := NewIntMatrix(2, 2, 0).Set(1, 0, 3)
	assert.True(t, A.Equals(B))
	B.Set(0, 1, 1)
	assert.False(t, A.Equals(B))
	assert.False(t, A.Equals(NewIntMatrix(2, 3, 0)))
	assert.Panics(t, func() { A.Set(2, 0, 1) })
}
