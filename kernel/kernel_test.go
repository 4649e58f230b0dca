package kernel

import (
	"math"
	"math/rand"
	"testing"

	"github.com/osuushi/segdelaunay/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func p(x, y float64) Site { return geom.NewPoint(Point{X: x, Y: y}) }

func s(x0, y0, x1, y1 float64) Site {
	return geom.NewSegment(Point{X: x0, Y: y0}, Point{X: x1, Y: y1})
}

func TestOrientation(t *testing.T) {
	k := New()
	assert.Equal(t, geom.LeftTurn, k.Orientation(p(0, 0), p(1, 0), p(0, 1)))
	assert.Equal(t, geom.RightTurn, k.Orientation(p(0, 0), p(0, 1), p(1, 0)))
	assert.Equal(t, geom.Collinear, k.Orientation(p(0, 0), p(1, 1), p(3, 3)))
	assert.Equal(t, geom.Collinear, k.Orientation(p(0, 0), p(1e6, 0), p(2e6, 1e-6)),
		"tolerance scales with the coordinates")
}

func TestEqualAndParallel(t *testing.T) {
	k := New()
	assert.True(t, k.Equal(p(1, 2), p(1, 2)))
	assert.False(t, k.Equal(p(1, 2), s(1, 2, 3, 4)))
	assert.True(t, k.Equal(s(0, 0, 1, 1), s(1, 1, 0, 0)))
	assert.True(t, k.AreParallel(s(0, 0, 1, 1), s(5, 0, 7, 2)))
	assert.False(t, k.AreParallel(s(0, 0, 1, 1), s(5, 0, 7, 1)))
	assert.False(t, k.AreParallel(p(0, 0), s(5, 0, 7, 2)))
}

func TestArrangementType(t *testing.T) {
	k := New()
	cases := []struct {
		name string
		a, b Site
		want geom.Arrangement
	}{
		{"same point", p(1, 1), p(1, 1), geom.Identical},
		{"distinct points", p(1, 1), p(2, 1), geom.Disjoint},
		{"point inside", p(1, 0), s(0, 0, 2, 0), geom.Interior},
		{"segment around point", s(0, 0, 2, 0), p(1, 0), geom.Interior},
		{"point at end", p(2, 0), s(0, 0, 2, 0), geom.TouchEndpoint},
		{"point off segment", p(1, 1), s(0, 0, 2, 0), geom.Disjoint},
		{"same segment", s(0, 0, 2, 0), s(2, 0, 0, 0), geom.Identical},
		{"crossing", s(0, 0, 2, 2), s(0, 2, 2, 0), geom.Crossing},
		{"shared endpoint", s(0, 0, 2, 2), s(2, 2, 4, 0), geom.TouchEndpoint},
		{"second source inside first", s(0, 0, 4, 0), s(2, 0, 2, 3), geom.SecondSourceInFirst},
		{"second target inside first", s(0, 0, 4, 0), s(2, 3, 2, 0), geom.SecondTargetInFirst},
		{"first source inside second", s(2, 0, 2, 3), s(0, 0, 4, 0), geom.FirstSourceInSecond},
		{"first target inside second", s(2, 3, 2, 0), s(0, 0, 4, 0), geom.FirstTargetInSecond},
		{"apart", s(0, 0, 1, 0), s(0, 1, 1, 1), geom.Disjoint},
		{"lines cross outside", s(0, 0, 1, 1), s(3, 0, 2, 1), geom.Disjoint},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, k.ArrangementType(c.a, c.b))
		})
	}
}

func TestOrientedSideOfBisector(t *testing.T) {
	k := New()
	assert.Equal(t, geom.Negative, k.OrientedSideOfBisector(p(0, 0), p(10, 0), p(1, 0)))
	assert.Equal(t, geom.Positive, k.OrientedSideOfBisector(p(0, 0), p(10, 0), p(9, 3)))
	assert.Equal(t, geom.Zero, k.OrientedSideOfBisector(p(0, 0), p(10, 0), p(5, 7)))
	assert.Equal(t, geom.Positive, k.OrientedSideOfBisector(p(5, 5), s(0, 0, 10, 0), p(3, 1)),
		"distance to a segment is to its closest point")
}

func TestVertexConflict(t *testing.T) {
	k := New()
	a, b, c := p(0, 0), p(2, 0), p(0, 2)

	center, ok := k.VoronoiVertex(a, b, c)
	require.True(t, ok)
	assert.InDelta(t, 1, center.X, 1e-12)
	assert.InDelta(t, 1, center.Y, 1e-12)

	assert.Equal(t, geom.Negative, k.VertexConflict(a, b, c, p(1, 1)))
	assert.Equal(t, geom.Positive, k.VertexConflict(a, b, c, p(5, 5)))
	assert.Equal(t, geom.Zero, k.VertexConflict(a, b, c, p(2, 2)))
	assert.Equal(t, geom.Negative, k.VertexConflict(a, b, c, s(1, 1, 9, 9)), "a segment reaching inside")
	assert.Equal(t, geom.Positive, k.VertexConflict(a, b, c, s(5, 5, 9, 9)))

	t.Run("point point segment", func(t *testing.T) {
		floor := s(-10, 0, 10, 0)
		left, right := p(-1, 2), p(1, 2)
		center, ok := k.VoronoiVertex(floor, right, left)
		require.True(t, ok)
		assert.InDelta(t, 0, center.X, 1e-9)
		assert.InDelta(t, 1.25, center.Y, 1e-9)
		assert.Equal(t, geom.Negative, k.VertexConflict(floor, right, left, p(0, 1)))
		assert.Equal(t, geom.Positive, k.VertexConflict(floor, right, left, p(0, 4)))
	})
}

func TestInfiniteVertexConflict(t *testing.T) {
	k := New()
	a, b := p(0, 0), p(2, 0)
	assert.Equal(t, geom.Negative, k.InfiniteVertexConflict(a, b, p(1, 5)))
	assert.Equal(t, geom.Positive, k.InfiniteVertexConflict(a, b, p(1, -5)))
	assert.Equal(t, geom.Negative, k.InfiniteVertexConflict(a, b, p(1, 0)), "inside the hull chord")
	assert.Equal(t, geom.Positive, k.InfiniteVertexConflict(a, b, p(5, 0)))
	assert.Equal(t, geom.Negative, k.InfiniteVertexConflict(a, b, s(1, -5, 1, 5)))

	dir, ok := k.InfiniteDirection(a, b)
	require.True(t, ok)
	assert.InDelta(t, 0, dir.X, 1e-12)
	assert.InDelta(t, 1, dir.Y, 1e-12)
}

func TestBisector(t *testing.T) {
	k := New()
	from := geom.End{At: Point{X: 1, Y: -1}}
	to := geom.End{At: Point{X: 1, Y: 1}}
	assert.Equal(t, geom.SegmentPrimitive, k.Bisector(p(0, 0), p(2, 0), from, to).Kind)
	assert.Equal(t, geom.SegmentPrimitive, k.Bisector(p(0, 0), s(0, 0, 2, 0), from, to).Kind)

	arc := k.Bisector(p(0, 2), s(-5, 0, 5, 0), geom.End{At: Point{X: -2, Y: 2}}, geom.End{At: Point{X: 2, Y: 2}})
	require.Equal(t, geom.ParabolicArcPrimitive, arc.Kind)
	for _, x := range arc.Sample(8, 10) {
		focus := x.Sub(Point{X: 0, Y: 2}).Norm()
		assert.InDelta(t, x.Y, focus, 1e-9, "%v is as far from the focus as from the directrix", x)
	}

	ray := k.Bisector(p(0, 0), p(2, 0), from, geom.End{Infinite: true, Direction: Point{X: 0, Y: 1}})
	assert.Equal(t, geom.RayPrimitive, ray.Kind)
	line := k.Bisector(p(0, 0), p(2, 0),
		geom.End{Infinite: true, Direction: Point{X: 0, Y: -1}}, geom.End{Infinite: true, Direction: Point{X: 0, Y: 1}})
	assert.Equal(t, geom.LinePrimitive, line.Kind)
	assert.Equal(t, Point{X: 1, Y: 0}, line.Source)
}

func TestVoronoiVertexAtSegmentEndpoint(t *testing.T) {
	k := New()
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 200; i++ {
		a := Point{X: rng.Float64() * 100, Y: rng.Float64() * 100}
		angle := rng.Float64() * 2 * math.Pi
		b := a.Add(Point{X: math.Cos(angle), Y: math.Sin(angle)}.Mul(1 + rng.Float64()*20))
		seg := geom.NewSegment(a, b)
		normal := b.Sub(a).Ortho().Normalize()
		off := normal.Mul((1 + rng.Float64()*30) * float64(1-2*rng.Intn(2)))
		q := geom.NewPoint(a.Add(b.Sub(a).Mul(rng.Float64()*2 - 0.5)).Add(off))

		for _, end := range []Point{a, b} {
			e := geom.NewPoint(end)
			c1, ok1 := k.VoronoiVertex(e, seg, q)
			c2, ok2 := k.VoronoiVertex(e, q, seg)
			require.True(t, ok1 != ok2, "exactly one order of %v, %v, %v has a circle", e, seg, q)
			center := c1
			if ok2 {
				center = c2
			}
			r := center.Sub(end).Norm()
			assert.InDelta(t, r, center.Sub(q.Point()).Norm(), 1e-9*(1+r))
			assert.InDelta(t, 0, center.Sub(end).Dot(b.Sub(a).Normalize()), 1e-9*(1+r),
				"the center is on the perpendicular through %v", end)
		}
	}
}

func TestClosestSnapsToEndpoints(t *testing.T) {
	a, b := Point{X: 0.1, Y: 0.7}, Point{X: 30.3, Y: 22.9}
	foot, at := closest(Point{X: 50, Y: 40}, a, b)
	assert.Equal(t, b, foot)
	assert.Equal(t, 1.0, at)
	foot, at = closest(Point{X: -5, Y: -3}, a, b)
	assert.Equal(t, a, foot)
	assert.Equal(t, 0.0, at)
}

func TestEdgeInteriorOfHullEdge(t *testing.T) {
	k := New()
	cases := []struct {
		name string
		a, b Point
		r    Site
	}{
		{"from the origin", Point{X: 0, Y: 0}, Point{X: 10, Y: 2}, p(4, 8)},
		{"short and far out", Point{X: 50, Y: 50}, Point{X: 52, Y: 53}, p(0, 0)},
		{"long", Point{X: 3, Y: 91}, Point{X: 97, Y: 88}, p(51, 40)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			pa, pb := geom.NewPoint(c.a), geom.NewPoint(c.b)
			// The edge ab runs from the circle of (a, b, r) out to infinity.
			// The segment ab spans it all the way.
			if k.Orientation(pa, pb, c.r) != geom.LeftTurn {
				pa, pb = pb, pa
			}
			seg := geom.NewSegment(c.a, c.b)
			assert.True(t, k.FiniteEdgeInteriorConflictInfinite(pa, pb, c.r, seg, geom.Negative))
			assert.False(t, k.FiniteEdgeInteriorConflictInfinite(pa, pb, c.r, p(500, 500), geom.Negative))
		})
	}
}
