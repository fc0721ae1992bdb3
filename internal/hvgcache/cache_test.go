package hvgcache

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipnetsim/hvg/internal/geo"
	"github.com/shipnetsim/hvg/internal/hvgerr"
	"github.com/shipnetsim/hvg/internal/poly"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	adj := Adjacency{
		PolygonSetHash: 42,
		Vertices: []VertexRecord{
			{Point: geo.NewPoint(-75, 39), PolygonID: 0},
			{Point: geo.NewPoint(-74, 39), PolygonID: 0},
		},
		Edges: [][2]uint32{{0, 1}},
	}

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, adj))

	loaded, err := Load(&buf, 42)
	require.NoError(t, err)
	assert.Equal(t, adj.PolygonSetHash, loaded.PolygonSetHash)
	require.Len(t, loaded.Vertices, 2)
	assert.InDelta(t, -75, loaded.Vertices[0].Point.Lon, 1e-9)
	assert.Equal(t, adj.Edges, loaded.Edges)
}

func TestLoadRejectsHashMismatch(t *testing.T) {
	adj := Adjacency{PolygonSetHash: 1}
	var buf bytes.Buffer
	require.NoError(t, Save(&buf, adj))

	_, err := Load(&buf, 2)
	require.Error(t, err)
	assert.True(t, hvgerr.Is(err, hvgerr.Incompatible))
}

func TestLoadRejectsBadMagic(t *testing.T) {
	_, err := Load(bytes.NewReader([]byte("not-a-cache-file-at-all")), 0)
	require.Error(t, err)
	assert.True(t, hvgerr.Is(err, hvgerr.Incompatible))
}

func TestPolygonSetHashOrderIndependent(t *testing.T) {
	ring := []geo.Point{
		geo.NewPoint(0, 0), geo.NewPoint(1, 0), geo.NewPoint(1, 1), geo.NewPoint(0, 1),
	}
	a, err := poly.NewPolygon("a", ring, nil)
	require.NoError(t, err)
	b, err := poly.NewPolygon("b", ring, nil)
	require.NoError(t, err)

	h1 := PolygonSetHash([]*poly.Polygon{a, b})
	h2 := PolygonSetHash([]*poly.Polygon{b, a})
	assert.Equal(t, h1, h2)
}
