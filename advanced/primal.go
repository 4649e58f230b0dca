package advanced

import (
	"github.com/osuushi/segdelaunay/geom"
)

func (g *Graph) constructions() geom.Constructions {
	c, ok := g.pred.(geom.Constructions)
	if !ok {
		preconditionf("predicates %T cannot construct Voronoi primitives", g.pred)
	}
	return c
}

// PrimalFace returns the Voronoi vertex dual to a finite face: the center of
// the circle tangent to its three sites.
func (g *Graph) PrimalFace(f *Face) (geom.Point, bool) {
	if f.IsInfinite() {
		preconditionf("primal of an infinite face")
	}
	return g.constructions().VoronoiVertex(f.v[0].site, f.v[1].site, f.v[2].site)
}

// faceEnd is the end of a Voronoi edge at the dual of f.
func (g *Graph) faceEnd(f *Face) geom.End {
	c := g.constructions()
	for i, v := range f.v {
		if v.infinite {
			dir, _ := c.InfiniteDirection(f.v[ccw(i)].site, f.v[cw(i)].site)
			return geom.End{Infinite: true, Direction: dir}
		}
	}
	at, ok := c.VoronoiVertex(f.v[0].site, f.v[1].site, f.v[2].site)
	if !ok {
		fatalf("face %s has no Voronoi vertex", faceString(f))
	}
	return geom.End{At: at}
}

// Primal returns the piece of the Voronoi diagram dual to a finite edge: a
// segment, ray or line between two point sites or two segments, or a
// parabolic arc between a point and a segment.
func (g *Graph) Primal(e Edge) geom.Primitive {
	if e.IsInfinite() {
		preconditionf("primal of an infinite edge")
	}
	p, q := e.Vertices()
	m := g.mirror(e)
	return g.constructions().Bisector(p.site, q.site, g.faceEnd(e.Face), g.faceEnd(m.Face))
}
