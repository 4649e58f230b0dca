// Package kernel is a floating point implementation of geom.Predicates.
//
// Voronoi vertices are computed as generalized circles: a circle touching the
// three sites of a face in counterclockwise order, or a zero radius circle at
// the shared endpoint of two segments. Edge interiors are decided by sampling
// the distance difference along the bisector between the two Voronoi
// vertices. The kernel is good for inputs in general position with moderate
// coordinates; it is not exact.
package kernel

import (
	"math"

	"github.com/osuushi/segdelaunay/geom"
)

type Point = geom.Point
type Site = geom.Site

const (
	DefaultEps     = 1e-9
	DefaultSamples = 96
)

type Float struct {
	// Eps is the relative tolerance. Values within Eps times the coordinate
	// scale count as equal.
	Eps float64
	// Samples is the number of bisector samples used by edge interior tests.
	Samples int
}

var _ geom.Predicates = (*Float)(nil)
var _ geom.Constructions = (*Float)(nil)

func New() *Float {
	return &Float{Eps: DefaultEps, Samples: DefaultSamples}
}

func scale(pts ...Point) float64 {
	m := 1.0
	for _, p := range pts {
		m = math.Max(m, math.Max(math.Abs(p.X), math.Abs(p.Y)))
	}
	return m
}

func (k *Float) tol(pts ...Point) float64 {
	return k.Eps * scale(pts...)
}

func (k *Float) sign(v, tol float64) geom.Sign {
	if v > tol {
		return geom.Positive
	}
	if v < -tol {
		return geom.Negative
	}
	return geom.Zero
}

func sitePoints(s Site) []Point {
	if s.IsPoint() {
		return []Point{s.Point()}
	}
	return []Point{s.SourcePoint(), s.TargetPoint()}
}

func allPoints(sites ...Site) []Point {
	var pts []Point
	for _, s := range sites {
		pts = append(pts, sitePoints(s)...)
	}
	return pts
}

// closest returns the point of the closed segment ab nearest to x, and its
// parameter clamped to [0, 1].
func closest(x, a, b Point) (Point, float64) {
	d := b.Sub(a)
	l2 := d.Dot(d)
	if l2 == 0 {
		return a, 0
	}
	switch t := x.Sub(a).Dot(d) / l2; {
	case t <= 0:
		return a, 0
	case t >= 1:
		return b, 1
	default:
		return a.Add(d.Mul(t)), t
	}
}

func dist(x Point, s Site) float64 {
	if s.IsPoint() {
		return x.Sub(s.Point()).Norm()
	}
	c, _ := closest(x, s.SourcePoint(), s.TargetPoint())
	return x.Sub(c).Norm()
}

// support is the support function of a site in direction w.
func support(s Site, w Point) float64 {
	best := math.Inf(-1)
	for _, p := range sitePoints(s) {
		best = math.Max(best, p.Dot(w))
	}
	return best
}

func (k *Float) Orientation(p, q, r Site) geom.Sign {
	a, b, c := p.Point(), q.Point(), r.Point()
	m := scale(a, b, c)
	return k.sign(b.Sub(a).Cross(c.Sub(a)), k.Eps*m*m)
}

func (k *Float) Equal(a, b Site) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.IsPoint() {
		return a.Point() == b.Point()
	}
	return (a.SourcePoint() == b.SourcePoint() && a.TargetPoint() == b.TargetPoint()) ||
		(a.SourcePoint() == b.TargetPoint() && a.TargetPoint() == b.SourcePoint())
}

func (k *Float) AreParallel(a, b Site) bool {
	if !a.IsSegment() || !b.IsSegment() {
		return false
	}
	da := a.TargetPoint().Sub(a.SourcePoint())
	db := b.TargetPoint().Sub(b.SourcePoint())
	return math.Abs(da.Cross(db)) <= k.Eps*da.Norm()*db.Norm()
}

func (k *Float) OrientedSideOfBisector(p, q, t Site) geom.Sign {
	x := t.Point()
	if t.IsSegment() {
		x = t.SourcePoint()
	}
	return k.sign(dist(x, p)-dist(x, q), k.tol(allPoints(p, q, t)...))
}

func (k *Float) OrientedSide(p, q, r, supp, t Site) geom.Sign {
	c, ok := k.VoronoiVertex(p, q, r)
	if !ok {
		return geom.Zero
	}
	return k.orientedSide(c, supp, t)
}

func (k *Float) OrientedSideOfPoint(p, supp, t Site) geom.Sign {
	return k.orientedSide(p.Point(), supp, t)
}

func (k *Float) orientedSide(x Point, supp, t Site) geom.Sign {
	d := supp.TargetPoint().Sub(supp.SourcePoint())
	return k.sign(x.Sub(t.Point()).Dot(d.Normalize()), k.tol(x, t.Point()))
}

func (k *Float) VoronoiVertex(p, q, r Site) (Point, bool) {
	c, ok := k.circle(p, q, r)
	return c.center, ok
}

func (k *Float) InfiniteDirection(p, q Site) (Point, bool) {
	_, d, ok := k.hullLine(p, q)
	if !ok {
		return Point{}, false
	}
	return d.Ortho().Normalize(), true
}

// hullLine returns the supporting line of the infinite face (p, q, inf): both
// sites lie on it or to its right, p before q. The face's conflict region is
// the open halfplane to its left.
func (k *Float) hullLine(p, q Site) (Point, Point, bool) {
	pp, qp := sitePoints(p), sitePoints(q)
	all := append(append([]Point{}, pp...), qp...)
	t := k.tol(all...)
	for _, x := range pp {
		for _, y := range qp {
			d := y.Sub(x)
			l := d.Norm()
			if l == 0 {
				continue
			}
			ok := true
			for _, z := range all {
				if d.Cross(z.Sub(x))/l > t {
					ok = false
					break
				}
			}
			if ok {
				return x, d, true
			}
		}
	}
	return Point{}, Point{}, false
}
