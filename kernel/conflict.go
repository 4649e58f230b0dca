package kernel

import (
	"math"

	"github.com/osuushi/segdelaunay/geom"
)

func (k *Float) VertexConflict(p, q, r, t Site) geom.Sign {
	c, ok := k.circle(p, q, r)
	if !ok {
		return geom.Positive
	}
	if c.wedge {
		return k.wedgeConflict(c, t)
	}
	tol := k.tol(append(allPoints(p, q, r, t), c.center)...) * (1 + c.radius)
	if t.IsPoint() {
		return k.sign(t.Point().Sub(c.center).Norm()-c.radius, tol)
	}
	d := dist(c.center, t)
	if d < c.radius-tol {
		return geom.Negative
	}
	if d > c.radius+tol {
		return geom.Positive
	}
	// Tangent to the circle: it conflicts only if it leaves a point on the
	// circle heading inwards.
	ends := [2]Point{t.SourcePoint(), t.TargetPoint()}
	for i, e := range ends {
		o := ends[1-i]
		if math.Abs(e.Sub(c.center).Norm()-c.radius) > tol {
			continue
		}
		if o.Sub(e).Normalize().Dot(c.center.Sub(e)) > tol {
			return geom.Negative
		}
	}
	return geom.Positive
}

func (k *Float) wedgeConflict(c gcircle, t Site) geom.Sign {
	if !t.IsSegment() || !t.HasEndpoint(c.center) {
		return geom.Positive
	}
	d := t.OtherEndpoint(c.center).Sub(c.center).Normalize()
	if c.from.Cross(d) > k.Eps && d.Cross(c.to) > k.Eps {
		return geom.Negative
	}
	return geom.Positive
}

func (k *Float) InfiniteVertexConflict(p, q, t Site) geom.Sign {
	o, d, ok := k.hullLine(p, q)
	if !ok {
		return geom.Positive
	}
	n := d.Ortho().Normalize()
	tol := k.tol(allPoints(p, q, t)...)
	pts := sitePoints(t)
	onLine := true
	for _, x := range pts {
		side := n.Dot(x.Sub(o))
		if side > tol {
			return geom.Negative
		}
		if side < -tol {
			onLine = false
		}
	}
	if !onLine || !p.IsPoint() || !q.IsPoint() {
		return geom.Positive
	}
	// Collinear with a hull edge between two points: in conflict when it
	// reaches into the open chord.
	u := d.Normalize()
	length := d.Norm()
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, x := range pts {
		v := u.Dot(x.Sub(o))
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if t.IsPoint() {
		if lo > tol && lo < length-tol {
			return geom.Negative
		}
		return geom.Positive
	}
	if math.Min(hi, length)-math.Max(lo, 0) > tol {
		return geom.Negative
	}
	return geom.Positive
}

// bisector parametrizes the bisector of p and q between two points on it.
// It reports false when p and q have a curved bisector.
func straightBisector(p, q Site) bool {
	switch {
	case p.IsPoint() && q.IsSegment():
		return q.HasEndpoint(p.Point())
	case p.IsSegment() && q.IsPoint():
		return p.HasEndpoint(q.Point())
	}
	return true
}

func (k *Float) arc(p, q Site, c1, c2 Point) func(float64) Point {
	if straightBisector(p, q) {
		return func(tau float64) Point {
			return c1.Add(c2.Sub(c1).Mul(tau))
		}
	}
	pt, seg := p, q
	if p.IsSegment() {
		pt, seg = q, p
	}
	l, ok := lineOf(seg)
	if !ok || math.Abs(l.signed(pt.Point())) <= k.tol(allPoints(p, q)...) {
		return func(tau float64) Point {
			return c1.Add(c2.Sub(c1).Mul(tau))
		}
	}
	u1 := c1.Sub(l.origin).Dot(l.u)
	u2 := c2.Sub(l.origin).Dot(l.u)
	return func(tau float64) Point {
		return geom.ParabolaPoint(pt.Point(), l.origin, l.u, u1+(u2-u1)*tau)
	}
}

// gap is negative where t is closer than p and q.
func gap(p, q, t Site) func(Point) float64 {
	return func(x Point) float64 {
		return dist(x, t) - (dist(x, p)+dist(x, q))/2
	}
}

// decide samples f on the open interval (lo, hi). With sgn Negative it asks
// whether f is negative everywhere, otherwise whether it dips below -tol.
func (k *Float) decide(f func(float64) float64, lo, hi float64, sgn geom.Sign, tol float64) bool {
	n := k.Samples
	if n < 4 {
		n = 4
	}
	step := (hi - lo) / float64(n)
	// Refinement stays half a step inside the open interval. Rays are
	// parametrized to reach infinity at the ends, where f is only a limit.
	bracket := func(at float64) (float64, float64) {
		return math.Max(lo+step/2, at-step), math.Min(hi-step/2, at+step)
	}
	if sgn == geom.Negative {
		worst, at := math.Inf(-1), lo
		for i := 1; i < n; i++ {
			tau := lo + step*float64(i)
			v := f(tau)
			if v >= 0 {
				return false
			}
			if v > worst {
				worst, at = v, tau
			}
		}
		a, b := bracket(at)
		neg := func(x float64) float64 { return -f(x) }
		return -golden(neg, a, b) < 0
	}
	best, at := math.Inf(1), lo
	for i := 1; i < n; i++ {
		tau := lo + step*float64(i)
		v := f(tau)
		if v < -tol {
			return true
		}
		if v < best {
			best, at = v, tau
		}
	}
	a, b := bracket(at)
	return golden(f, a, b) < -tol
}

// golden returns the minimum of f on [a, b] found by golden section search.
func golden(f func(float64) float64, a, b float64) float64 {
	const ratio = 0.6180339887498949
	x1 := b - ratio*(b-a)
	x2 := a + ratio*(b-a)
	f1, f2 := f(x1), f(x2)
	for i := 0; i < 40; i++ {
		if f1 < f2 {
			b, x2, f2 = x2, x1, f1
			x1 = b - ratio*(b-a)
			f1 = f(x1)
		} else {
			a, x1, f1 = x1, x2, f2
			x2 = a + ratio*(b-a)
			f2 = f(x2)
		}
	}
	return math.Min(f1, f2)
}

func allPointSites(sites ...Site) bool {
	for _, s := range sites {
		if !s.IsPoint() {
			return false
		}
	}
	return true
}

func (k *Float) FiniteEdgeInteriorConflict(p, q, r, s, t Site, sgn geom.Sign) bool {
	if allPointSites(p, q, t) {
		// The points closer to t than to p form a halfplane.
		return sgn == geom.Negative
	}
	c1, ok1 := k.circle(p, q, r)
	c2, ok2 := k.circle(q, p, s)
	if !ok1 || !ok2 {
		return false
	}
	curve := k.arc(p, q, c1.center, c2.center)
	g := gap(p, q, t)
	tol := k.tol(append(allPoints(p, q, t), c1.center, c2.center)...)
	return k.decide(func(tau float64) float64 { return g(curve(tau)) }, 0, 1, sgn, tol)
}

func (k *Float) FiniteEdgeInteriorConflictInfinite(p, q, r, t Site, sgn geom.Sign) bool {
	if allPointSites(p, q, t) {
		return sgn == geom.Negative
	}
	if !straightBisector(p, q) {
		return false
	}
	c1, ok1 := k.circle(p, q, r)
	w, ok2 := k.InfiniteDirection(q, p)
	if !ok1 || !ok2 {
		return false
	}
	reach := 1 + c1.radius + c1.center.Norm()
	g := gap(p, q, t)
	tol := k.tol(append(allPoints(p, q, t), c1.center)...)
	ray := func(tau float64) float64 {
		return g(c1.center.Add(w.Mul(reach * tau / (1 - tau))))
	}
	return k.decide(ray, 0, 1, sgn, tol)
}

func (k *Float) FiniteEdgeInteriorConflictDegenerate(p, q, t Site, sgn geom.Sign) bool {
	var base Point
	switch {
	case p.IsPoint() && q.IsPoint():
		base = p.Point().Add(q.Point()).Mul(0.5)
	case p.IsPoint() && q.HasEndpoint(p.Point()):
		base = p.Point()
	case q.IsPoint() && p.HasEndpoint(q.Point()):
		base = q.Point()
	default:
		return false
	}
	w, ok := k.InfiniteDirection(p, q)
	if !ok {
		return false
	}
	reach := 1 + base.Norm()
	g := gap(p, q, t)
	tol := k.tol(append(allPoints(p, q, t), base)...)
	full := func(tau float64) float64 {
		return g(base.Add(w.Mul(reach * math.Tan(tau*math.Pi/2))))
	}
	return k.decide(full, -1, 1, sgn, tol)
}

func (k *Float) InfiniteEdgeInteriorConflict(q, r, s, t Site, sgn geom.Sign) bool {
	from, ok1 := k.InfiniteDirection(q, s)
	to, ok2 := k.InfiniteDirection(r, q)
	if !ok1 || !ok2 {
		return false
	}
	a0 := math.Atan2(from.Y, from.X)
	span := math.Mod(math.Atan2(to.Y, to.X)-a0, 2*math.Pi)
	if span < 0 {
		span += 2 * math.Pi
	}
	if span > 2*math.Pi-angleEps {
		span = 0
	}
	tol := k.tol(allPoints(q, r, s, t)...)
	// Far away in direction w, t is closer than q exactly when its support
	// in that direction is larger.
	f := func(tau float64) float64 {
		a := a0 + span*tau
		w := Point{X: math.Cos(a), Y: math.Sin(a)}
		return support(q, w) - support(t, w)
	}
	if span < angleEps {
		v := f(0)
		if sgn == geom.Negative {
			return v < 0
		}
		return v < -tol
	}
	return k.decide(f, 0, 1, sgn, tol)
}

func (k *Float) Bisector(p, q Site, from, to geom.End) geom.Primitive {
	switch {
	case from.Infinite && to.Infinite:
		base := p.Point()
		switch {
		case p.IsPoint() && q.IsPoint():
			base = p.Point().Add(q.Point()).Mul(0.5)
		case q.IsPoint():
			base = q.Point()
		}
		return geom.Primitive{Kind: geom.LinePrimitive, Source: base, Direction: from.Direction}
	case from.Infinite:
		return geom.Primitive{Kind: geom.RayPrimitive, Source: to.At, Direction: from.Direction}
	case to.Infinite:
		return geom.Primitive{Kind: geom.RayPrimitive, Source: from.At, Direction: to.Direction}
	}
	if straightBisector(p, q) {
		return geom.Primitive{Kind: geom.SegmentPrimitive, Source: from.At, Target: to.At}
	}
	pt, seg := p, q
	if p.IsSegment() {
		pt, seg = q, p
	}
	return geom.Primitive{
		Kind:      geom.ParabolicArcPrimitive,
		Source:    from.At,
		Target:    to.At,
		Focus:     pt.Point(),
		Directrix: [2]Point{seg.SourcePoint(), seg.TargetPoint()},
	}
}
