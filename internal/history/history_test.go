package history

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sensemill/logweave/internal/model"
)

func logN(n int) *model.Log {
	return &model.Log{Message: fmt.Sprintf("record %d", n)}
}

func TestAppendAssignsSequentialPositions(t *testing.T) {
	r := New(4)
	for i := 0; i < 6; i++ {
		assert.Equal(t, i, r.Append(logN(i)))
	}
	assert.Equal(t, 6, r.Next())
}

func TestGetWithinCapacity(t *testing.T) {
	r := New(4)
	for i := 0; i < 3; i++ {
		r.Append(logN(i))
	}
	for i := 0; i < 3; i++ {
		l, ok := r.Get(i)
		require.True(t, ok)
		assert.Equal(t, fmt.Sprintf("record %d", i), l.Message)
	}
	_, ok := r.Get(3)
	assert.False(t, ok, "future position")
	_, ok = r.Get(-1)
	assert.False(t, ok)
}

func TestEvictionRetiresOldPositions(t *testing.T) {
	r := New(3)
	for i := 0; i < 5; i++ {
		r.Append(logN(i))
	}
	assert.Equal(t, 2, r.Oldest())

	_, ok := r.Get(1)
	assert.False(t, ok, "retired position must not be readable")

	// Retained positions still map to the right Logs after wrap-around.
	for i := 2; i < 5; i++ {
		l, ok := r.Get(i)
		require.True(t, ok)
		assert.Equal(t, fmt.Sprintf("record %d", i), l.Message)
	}
}

func TestMinimumCapacity(t *testing.T) {
	r := New(0)
	r.Append(logN(0))
	r.Append(logN(1))
	_, ok := r.Get(0)
	assert.False(t, ok)
	l, ok := r.Get(1)
	require.True(t, ok)
	assert.Equal(t, "record 1", l.Message)
}
