package segdelaunay

import (
	"testing"

	"github.com/osuushi/segdelaunay/internal/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Smoke tests. The internals are already tested.
func TestFromPoints(t *testing.T) {
	points := []Point{
		{X: 1, Y: -1},
		{X: 1, Y: 1},
		{X: -1, Y: 1},
		{X: -1.5, Y: -1},
	}

	g, err := FromPoints(points, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 4, g.NumberOfVertices())
	assert.Equal(t, 2, g.NumberOfFiniteFaces())
	assert.True(t, g.IsValid(true, 1))
}

func TestFromScene(t *testing.T) {
	for _, name := range fixtures.Names() {
		t.Run(name, func(t *testing.T) {
			s := fixtures.Load(name)
			g, err := FromScene(s, DefaultOptions())
			require.NoError(t, err)
			assert.Equal(t, s.Len(), g.NumberOfInputSites())
			assert.True(t, g.IsValid(true, 0))
		})
	}

	t.Run("star", func(t *testing.T) {
		g, err := FromScene(fixtures.Star(5, 10, 4), DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, 10, g.NumberOfInputSites())
		assert.Equal(t, 20, g.NumberOfOutputSites())
		assert.True(t, g.IsValid(true, 0))
	})

	t.Run("crossing needs support", func(t *testing.T) {
		s := fixtures.Load("crossing.yaml")
		s.Options.Intersections = false
		g, err := FromScene(s, DefaultOptions())
		assert.ErrorIs(t, err, ErrIntersectingSegments)
		assert.Nil(t, g)
	})
}
