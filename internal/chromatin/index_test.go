package chromatin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositionIndex_Empty(t *testing.T) {
	idx := NewPositionIndex(nil, 146)
	assert.Equal(t, 0, idx.Len())

	_, ok := idx.FirstAtOrAfter(0)
	assert.False(t, ok)
}

func TestPositionIndex_FirstAtOrAfter(t *testing.T) {
	chain := []Nucleosome{
		{Position: 166, Attached: true},
		{Position: 332, Attached: false},
		{Position: 498, Attached: true},
	}
	idx := NewPositionIndex(chain, 146)
	assert.Equal(t, 3, idx.Len())

	tests := []struct {
		x    int
		want int
		ok   bool
	}{
		{0, 166, true},
		{165, 166, true},
		{166, 166, true},
		{167, 332, true},
		{332, 332, true},
		{333, 498, true},
		{498, 498, true},
		{499, 0, false},
	}
	for _, tt := range tests {
		n, ok := idx.FirstAtOrAfter(tt.x)
		assert.Equal(t, tt.ok, ok, "x=%d", tt.x)
		if tt.ok {
			assert.Equal(t, tt.want, n.Position, "x=%d", tt.x)
		}
	}
}

func TestPositionIndex_Covering(t *testing.T) {
	chain := []Nucleosome{
		{Position: 166, Attached: true},
		{Position: 332, Attached: false},
		{Position: 498, Attached: true},
	}
	idx := NewPositionIndex(chain, 146)

	n, ok := idx.Covering(100)
	assert.True(t, ok)
	assert.Equal(t, 166, n.Position)

	_, ok = idx.Covering(20)
	assert.False(t, ok, "linker before the first nucleosome")

	_, ok = idx.Covering(300)
	assert.False(t, ok, "detached nucleosome protects nothing")

	n, ok = idx.Covering(498)
	assert.True(t, ok)
	assert.Equal(t, 498, n.Position)

	_, ok = idx.Covering(1000)
	assert.False(t, ok)
}
