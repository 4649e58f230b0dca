package advanced

import (
	"github.com/osuushi/segdelaunay/geom"
)

// NearestNeighbor returns the vertex whose site is closest to p, or nil for
// an empty graph.
func (g *Graph) NearestNeighbor(p geom.Point) *Vertex {
	return g.nearestVertex(geom.NewPoint(p), nil)
}

// NearestNeighborWithHint starts the walk at hint.
func (g *Graph) NearestNeighborWithHint(p geom.Point, hint *Vertex) *Vertex {
	return g.nearestVertex(geom.NewPoint(p), hint)
}

// nearestVertex walks from a seed towards t, moving to any neighbor closer to
// t until none is. The seed is the hint, the closest indexed point, or the
// first vertex, in that order. A segment hands over to a point at equal
// distance, so t behind an endpoint ends the walk at that endpoint.
func (g *Graph) nearestVertex(t geom.Site, hint *Vertex) *Vertex {
	if g.NumberOfVertices() == 0 {
		return nil
	}
	v := hint
	if v != nil && (v.infinite || v.slot < 0) {
		v = nil
	}
	if v == nil && g.locator != nil {
		v = g.locator.nearest(g.seedPoint(t))
	}
	if v == nil {
		v = g.vertices[0]
	}
	if g.NumberOfVertices() == 1 {
		return v
	}

	for steps := 0; ; steps++ {
		if steps > len(g.vertices) {
			fatalf("nearest neighbor walk towards %v does not terminate", t)
		}
		next := v
		for _, w := range g.incidentVertices(v) {
			if w.infinite || w == v {
				continue
			}
			side := g.pred.OrientedSideOfBisector(v.site, w.site, t)
			if side == geom.Positive || (side == geom.Zero && v.IsSegment() && w.IsPoint()) {
				next = w
				break
			}
		}
		if next == v {
			return v
		}
		v = next
	}
}

func (g *Graph) seedPoint(t geom.Site) geom.Point {
	if t.IsPoint() {
		return t.Point()
	}
	return t.SourcePoint()
}
