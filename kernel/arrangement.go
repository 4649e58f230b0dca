package kernel

import (
	"github.com/osuushi/segdelaunay/geom"
)

// onOpenSegment reports whether x lies in the open segment ab.
func (k *Float) onOpenSegment(a, b, x Point) bool {
	d := b.Sub(a)
	l := d.Norm()
	if l == 0 {
		return false
	}
	tol := k.tol(a, b, x)
	if abs(d.Cross(x.Sub(a)))/l > tol {
		return false
	}
	t := x.Sub(a).Dot(d) / l
	return t > tol && t < l-tol
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func (k *Float) ArrangementType(a, b Site) geom.Arrangement {
	switch {
	case a.IsPoint() && b.IsPoint():
		if a.Point() == b.Point() {
			return geom.Identical
		}
		return geom.Disjoint
	case a.IsPoint():
		return k.pointSegment(a.Point(), b)
	case b.IsPoint():
		return k.pointSegment(b.Point(), a)
	}
	if k.Equal(a, b) {
		return geom.Identical
	}
	a0, a1 := a.SourcePoint(), a.TargetPoint()
	b0, b1 := b.SourcePoint(), b.TargetPoint()
	switch {
	case k.onOpenSegment(a0, a1, b0):
		return geom.SecondSourceInFirst
	case k.onOpenSegment(a0, a1, b1):
		return geom.SecondTargetInFirst
	case k.onOpenSegment(b0, b1, a0):
		return geom.FirstSourceInSecond
	case k.onOpenSegment(b0, b1, a1):
		return geom.FirstTargetInSecond
	case a0 == b0 || a0 == b1 || a1 == b0 || a1 == b1:
		return geom.TouchEndpoint
	}
	da, db := a1.Sub(a0), b1.Sub(b0)
	tol := k.tol(a0, a1, b0, b1)
	o1 := k.sign(da.Cross(b0.Sub(a0))/da.Norm(), tol)
	o2 := k.sign(da.Cross(b1.Sub(a0))/da.Norm(), tol)
	o3 := k.sign(db.Cross(a0.Sub(b0))/db.Norm(), tol)
	o4 := k.sign(db.Cross(a1.Sub(b0))/db.Norm(), tol)
	if o1*o2 < 0 && o3*o4 < 0 {
		return geom.Crossing
	}
	return geom.Disjoint
}

func (k *Float) pointSegment(p Point, s Site) geom.Arrangement {
	if s.HasEndpoint(p) {
		return geom.TouchEndpoint
	}
	if k.onOpenSegment(s.SourcePoint(), s.TargetPoint(), p) {
		return geom.Interior
	}
	return geom.Disjoint
}
