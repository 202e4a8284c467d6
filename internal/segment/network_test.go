package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNetwork_Terminals(t *testing.T) {
	n := NewNetwork(4)
	assert.Equal(t, 4, n.NodeCount())
	assert.Equal(t, 0, n.Source())
	assert.Equal(t, 5, n.Sink())
	assert.Equal(t, 0, n.EdgeCount())

	empty := NewNetwork(-3)
	assert.Equal(t, 0, empty.NodeCount())
	assert.Equal(t, 1, empty.Sink())
}

func TestAddEdge_CreatesReversePair(t *testing.T) {
	n := NewNetwork(1)
	require.NoError(t, n.AddEdge(0, 1, 5))

	var arcs []Arc
	n.EachArc(func(a Arc) { arcs = append(arcs, a) })
	require.Len(t, arcs, 2)
	assert.Equal(t, Arc{From: 0, To: 1, Capacity: 5, Residual: 5}, arcs[0])
	assert.Equal(t, Arc{From: 1, To: 0, Capacity: 0, Residual: 0, Reverse: true}, arcs[1])

	assert.Equal(t, int64(5), n.Residual(0, 1))
	assert.Equal(t, int64(0), n.Residual(1, 0))
	assert.Equal(t, int64(0), n.Residual(1, 2), "missing arcs read as zero")
	assert.Equal(t, []int{1}, n.Neighbors(0))
	assert.Empty(t, n.Neighbors(1), "reverse arcs are not neighbours")
}

func TestAddEdge_ParallelEdgesAreSummed(t *testing.T) {
	n := NewNetwork(1)
	require.NoError(t, n.AddEdge(0, 1, 3))
	require.NoError(t, n.AddEdge(0, 1, 4))
	assert.Equal(t, 2, n.EdgeCount())
	assert.Equal(t, int64(7), n.Residual(0, 1))
}

func TestAddEdge_Errors(t *testing.T) {
	tests := []struct {
		name    string
		u, v    int
		cap     int64
		wantErr error
	}{
		{"negative from", -1, 1, 1, ErrNodeOutOfRange},
		{"past sink", 0, 4, 1, ErrNodeOutOfRange},
		{"negative capacity", 0, 1, -2, ErrNegativeCapacity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNetwork(2)
			err := n.AddEdge(tt.u, tt.v, tt.cap)
			require.ErrorIs(t, err, tt.wantErr)

			var edgeErr *EdgeError
			require.ErrorAs(t, err, &edgeErr)
			assert.Equal(t, tt.u, edgeErr.From)
			assert.Equal(t, tt.v, edgeErr.To)
			assert.Equal(t, 0, n.EdgeCount())
		})
	}
}

func TestArc_Flow(t *testing.T) {
	assert.Equal(t, int64(3), Arc{Capacity: 5, Residual: 2}.Flow())
	assert.Equal(t, int64(0), Arc{Capacity: 0, Residual: 2, Reverse: true}.Flow())
}
