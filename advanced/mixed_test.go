package advanced

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/osuushi/segdelaunay/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pointSegmentDistance(x, a, b geom.Point) float64 {
	d := b.Sub(a)
	u := math.Max(0, math.Min(1, x.Sub(a).Dot(d)/d.Dot(d)))
	return x.Sub(a.Add(d.Mul(u))).Norm()
}

func siteDistance(x geom.Point, s geom.Site) float64 {
	if s.IsPoint() {
		return x.Sub(s.Point()).Norm()
	}
	return pointSegmentDistance(x, s.SourcePoint(), s.TargetPoint())
}

func segmentsCross(a, b, c, d geom.Point) bool {
	side := func(p, q, r geom.Point) float64 { return q.Sub(p).Cross(r.Sub(p)) }
	return side(a, b, c)*side(a, b, d) < 0 && side(c, d, a)*side(c, d, b) < 0
}

func crossingPoint(a, b, c, d geom.Point) geom.Point {
	r, s := b.Sub(a), d.Sub(c)
	u := c.Sub(a).Cross(s) / r.Cross(s)
	return a.Add(r.Mul(u))
}

func segmentDistance(a, b, c, d geom.Point) float64 {
	if segmentsCross(a, b, c, d) {
		return 0
	}
	return math.Min(
		math.Min(pointSegmentDistance(a, c, d), pointSegmentDistance(b, c, d)),
		math.Min(pointSegmentDistance(c, a, b), pointSegmentDistance(d, a, b)))
}

// Checks every finite face against every site, not just the neighbors: no
// site comes closer to a Voronoi vertex than the ones it is tangent to.
func requireEmptyCircles(t *testing.T, g *Graph) {
	t.Helper()
	for _, f := range g.faces {
		if f.IsInfinite() {
			continue
		}
		c, ok := g.PrimalFace(f)
		require.True(t, ok, "face %s has no Voronoi vertex", faceString(f))
		r := siteDistance(c, f.v[0].site)
		for _, v := range g.vertices {
			if f.has(v) {
				continue
			}
			require.GreaterOrEqual(t, siteDistance(c, v.site), r-1e-7*(1+r),
				"%v is inside the circle of %s", v.site, faceString(f))
		}
	}
}

// spreadSegments draws n segments in [0, 100]² no longer than maxLen, each
// at least gap away from the others.
func spreadSegments(seed int64, n int, maxLen, gap float64) [][2]geom.Point {
	rng := rand.New(rand.NewSource(seed))
	var out [][2]geom.Point
next:
	for len(out) < n {
		a := pt(rng.Float64()*100, rng.Float64()*100)
		angle := rng.Float64() * 2 * math.Pi
		b := a.Add(pt(math.Cos(angle), math.Sin(angle)).Mul(1 + rng.Float64()*(maxLen-1)))
		for _, s := range out {
			if segmentDistance(a, b, s[0], s[1]) < gap {
				continue next
			}
		}
		out = append(out, [2]geom.Point{a, b})
	}
	return out
}

// crossingSegments draws n long segments in [0, 100]² that cross each other
// freely, with endpoints and crossings kept gap apart.
func crossingSegments(seed int64, n int, gap float64) [][2]geom.Point {
	rng := rand.New(rand.NewSource(seed))
	var out [][2]geom.Point
	var crossings []geom.Point
next:
	for len(out) < n {
		a := pt(rng.Float64()*100, rng.Float64()*100)
		b := pt(rng.Float64()*100, rng.Float64()*100)
		if a.Sub(b).Norm() < 10 {
			continue
		}
		var found []geom.Point
		for _, s := range out {
			if pointSegmentDistance(a, s[0], s[1]) < gap || pointSegmentDistance(b, s[0], s[1]) < gap ||
				pointSegmentDistance(s[0], a, b) < gap || pointSegmentDistance(s[1], a, b) < gap {
				continue next
			}
			if segmentsCross(a, b, s[0], s[1]) {
				found = append(found, crossingPoint(a, b, s[0], s[1]))
			}
		}
		for i, x := range found {
			for _, y := range append(append([]geom.Point(nil), crossings...), found[:i]...) {
				if x.Sub(y).Norm() < gap {
					continue next
				}
			}
		}
		out = append(out, [2]geom.Point{a, b})
		crossings = append(crossings, found...)
	}
	return out
}

// pointsAwayFrom draws n points in [0, 100]² at least gap away from every
// segment.
func pointsAwayFrom(seed int64, n int, segments [][2]geom.Point, gap float64) []geom.Point {
	rng := rand.New(rand.NewSource(seed))
	var out []geom.Point
next:
	for len(out) < n {
		p := pt(rng.Float64()*100, rng.Float64()*100)
		for _, s := range segments {
			if pointSegmentDistance(p, s[0], s[1]) < gap {
				continue next
			}
		}
		out = append(out, p)
	}
	return out
}

func TestGraph_PointsAroundSegments(t *testing.T) {
	frame := []geom.Point{pt(0, 0), pt(100, 0), pt(100, 100), pt(0, 100)}

	t.Run("one segment in a frame", func(t *testing.T) {
		g := newTestGraph(t, false)
		_, err := g.InsertPoints(frame, false)
		require.NoError(t, err)
		_, err = g.InsertSegment(pt(20, 20), pt(30, 22))
		require.NoError(t, err)
		require.True(t, g.IsValid(true, 1))

		for i, p := range randomPoints(2, 40) {
			_, err := g.InsertPoint(p)
			require.NoError(t, err)
			require.True(t, g.IsValid(true, 1), "after point %d at %v", i, p)
		}
		requireEmptyCircles(t, g)
	})

	for seed := int64(1); seed <= 20; seed++ {
		seed := seed
		t.Run(fmt.Sprintf("three segments seed %d", seed), func(t *testing.T) {
			g := newTestGraph(t, false)
			_, err := g.InsertPoints(frame, false)
			require.NoError(t, err)
			segments := spreadSegments(seed, 3, 30, 2)
			_, err = g.InsertSegments(segments)
			require.NoError(t, err)
			require.True(t, g.IsValid(true, 1))

			for i, p := range pointsAwayFrom(seed+100, 40, segments, 0.01) {
				_, err := g.InsertPoint(p)
				require.NoError(t, err)
				require.True(t, g.IsValid(true, 1), "after point %d at %v", i, p)
			}
			requireEmptyCircles(t, g)
		})
	}
}

func TestGraph_DisjointSegments(t *testing.T) {
	t.Run("two hull edges", func(t *testing.T) {
		g := newTestGraph(t, false)
		_, err := g.InsertSegment(pt(0, 0), pt(10, 2))
		require.NoError(t, err)
		require.True(t, g.IsValid(true, 1))
		_, err = g.InsertSegment(pt(50, 50), pt(52, 53))
		require.NoError(t, err)
		require.True(t, g.IsValid(true, 1))
		assert.Equal(t, 6, g.NumberOfVertices())
		for _, v := range g.vertices {
			if v.IsSegment() {
				assert.Equal(t, 2, g.NumberOfIncidentSegments(g.FirstEndpointOfSegment(v))+
					g.NumberOfIncidentSegments(g.SecondEndpointOfSegment(v)))
			}
		}
		requireEmptyCircles(t, g)
	})

	for seed := int64(1); seed <= 20; seed++ {
		seed := seed
		t.Run(fmt.Sprintf("short segments seed %d", seed), func(t *testing.T) {
			g := newTestGraph(t, false)
			for i, s := range spreadSegments(seed, 12, 5, 1) {
				v, err := g.InsertSegment(s[0], s[1])
				require.NoError(t, err)
				require.True(t, v.IsSegment())
				require.True(t, g.IsValid(true, 1), "after segment %d from %v to %v", i, s[0], s[1])
			}
			assert.Equal(t, 36, g.NumberOfVertices())
			requireEmptyCircles(t, g)
		})
	}
}

func TestGraph_RandomCrossings(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		seed := seed
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			g := newTestGraph(t, true)
			segments := crossingSegments(seed, 8, 0.5)
			for i, s := range segments {
				_, err := g.InsertSegment(s[0], s[1])
				require.NoError(t, err)
				require.True(t, g.IsValid(true, 1), "after segment %d from %v to %v", i, s[0], s[1])
			}
			assert.Equal(t, 8, g.NumberOfInputSites())

			pairs := 0
			for i := range segments {
				for j := i + 1; j < len(segments); j++ {
					if segmentsCross(segments[i][0], segments[i][1], segments[j][0], segments[j][1]) {
						pairs++
					}
				}
			}
			crossings := 0
			for _, v := range g.vertices {
				if v.IsPoint() && v.Site().Def.Crossing {
					crossings++
					assert.Equal(t, 4, g.NumberOfIncidentSegments(v))
				}
			}
			assert.Equal(t, pairs, crossings)
			requireEmptyCircles(t, g)

			for i, p := range pointsAwayFrom(seed+200, 15, segments, 0.05) {
				_, err := g.InsertPoint(p)
				require.NoError(t, err)
				require.True(t, g.IsValid(true, 1), "after point %d at %v", i, p)
			}
			requireEmptyCircles(t, g)
		})
	}
}

func TestGraph_MixedInsertRemove(t *testing.T) {
	nearSegments := 0
	for seed := int64(1); seed <= 10; seed++ {
		seed := seed
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			g := newTestGraph(t, false)
			segments := spreadSegments(seed, 6, 15, 1.5)
			points := pointsAwayFrom(seed+50, 40, segments, 0.05)

			// Points and segments arrive interleaved.
			rng := rand.New(rand.NewSource(seed))
			var segVertices []*Vertex
			ps, ss := points, segments
			for len(ps) > 0 || len(ss) > 0 {
				if len(ss) > 0 && (len(ps) == 0 || rng.Intn(len(ps)+len(ss)) < len(ss)) {
					v, err := g.InsertSegment(ss[0][0], ss[0][1])
					require.NoError(t, err)
					segVertices = append(segVertices, v)
					require.True(t, g.IsValid(true, 1), "after segment from %v to %v", ss[0][0], ss[0][1])
					ss = ss[1:]
					continue
				}
				_, err := g.InsertPoint(ps[0])
				require.NoError(t, err)
				require.True(t, g.IsValid(true, 1), "after point %v", ps[0])
				ps = ps[1:]
			}
			requireEmptyCircles(t, g)

			for i, p := range points {
				if rng.Intn(2) == 0 {
					continue
				}
				v := g.NearestNeighbor(p)
				require.Equal(t, p, v.Site().Point())
				for _, w := range g.IncidentVertices(v) {
					if !w.IsInfinite() && w.IsSegment() {
						nearSegments++
						break
					}
				}
				require.True(t, g.Remove(v))
				require.True(t, g.IsValid(true, 1), "after removing point %d at %v", i, p)
			}
			requireEmptyCircles(t, g)

			for _, s := range segVertices {
				require.True(t, g.Remove(s))
				require.True(t, g.IsValid(true, 1), "after removing %v", s.Site())
			}
			for g.NumberOfVertices() > 0 {
				require.True(t, g.Remove(g.Vertex(g.NumberOfVertices()-1)))
				require.True(t, g.IsValid(true, 1))
			}
			assert.Equal(t, 0, g.NumberOfInputSites())
		})
	}
	assert.Greater(t, nearSegments, 0, "some removed points had a segment for a neighbor")
}

func TestGraph_InsertRemoveNearSegment(t *testing.T) {
	g := newTestGraph(t, false)
	frame := []geom.Point{pt(0, 0), pt(100, 0), pt(100, 100), pt(0, 100)}
	_, err := g.InsertPoints(frame, false)
	require.NoError(t, err)
	_, err = g.InsertSegments([][2]geom.Point{
		{pt(20, 20), pt(30, 22)},
		{pt(60, 70), pt(75, 50)},
	})
	require.NoError(t, err)
	vertices, faces := g.NumberOfVertices(), g.NumberOfFaces()
	sites := siteSet(g)

	cases := []struct {
		name string
		at   geom.Point
	}{
		{"above the middle", pt(25, 24)},
		{"behind an endpoint", pt(32, 22.5)},
		{"between the segments", pt(45, 45)},
		{"close under", pt(25, 20.9)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			v, err := g.InsertPoint(c.at)
			require.NoError(t, err)
			require.True(t, g.IsValid(true, 1))
			requireEmptyCircles(t, g)
			require.True(t, g.Remove(v))
			require.True(t, g.IsValid(true, 1))
			assert.Equal(t, vertices, g.NumberOfVertices())
			assert.Equal(t, faces, g.NumberOfFaces())
			assert.Equal(t, sites, siteSet(g))
		})
	}
}
