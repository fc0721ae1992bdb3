package spatialindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipnetsim/hvg/internal/geo"
	"github.com/shipnetsim/hvg/internal/poly"
)

func box(id string, lon0, lat0, lon1, lat1 float64) *poly.Polygon {
	ring := []geo.Point{
		geo.NewPoint(lon0, lat0),
		geo.NewPoint(lon1, lat0),
		geo.NewPoint(lon1, lat1),
		geo.NewPoint(lon0, lat1),
	}
	p, err := poly.NewPolygon(id, ring, nil)
	if err != nil {
		panic(err)
	}
	return p
}

func TestBuildAndQuery(t *testing.T) {
	near := box("near", 0, 0, 1, 1)
	far := box("far", 50, 50, 51, 51)
	idx := Build([]*poly.Polygon{near, far})

	assert.Equal(t, 2, idx.Count())

	hits := idx.Query(poly.Bounds{MinLon: -1, MaxLon: 2, MinLat: -1, MaxLat: 2})
	require.Len(t, hits, 1)
	assert.Equal(t, "near", hits[0].PolygonID)
}

func TestNearestK(t *testing.T) {
	a := box("a", 0, 0, 1, 1)
	b := box("b", 5, 5, 6, 6)
	c := box("c", 10, 10, 11, 11)
	idx := Build([]*poly.Polygon{a, b, c})

	nearest := idx.NearestK(0, 0, 1)
	require.Len(t, nearest, 1)
	assert.Equal(t, "a", nearest[0].PolygonID)
}

func TestPolygonIDs(t *testing.T) {
	idx := Build([]*poly.Polygon{box("x", 0, 0, 1, 1)})
	assert.ElementsMatch(t, []string{"x"}, idx.PolygonIDs())
}
