package kernel

import (
	"math"
	"sort"
)

// gcircle is the generalized circle of a face. A wedge circle has zero
// radius at the common endpoint of two segments; its interior is the open
// wedge turning counterclockwise from `from` to `to`.
type gcircle struct {
	center Point
	radius float64
	wedge  bool
	from   Point
	to     Point
}

type line struct {
	origin Point
	u      Point // unit direction
	n      Point // unit left normal
	k      float64
}

func lineOf(s Site) (line, bool) {
	a, b := s.SourcePoint(), s.TargetPoint()
	d := b.Sub(a)
	if d.Norm() == 0 {
		return line{}, false
	}
	u := d.Normalize()
	n := u.Ortho()
	return line{origin: a, u: u, n: n, k: n.Dot(a)}, true
}

func (l line) signed(x Point) float64 {
	return l.n.Dot(x) - l.k
}

type candidate struct {
	c Point
	r float64
}

func (k *Float) circle(p, q, r Site) (gcircle, bool) {
	sites := [3]Site{p, q, r}
	if c, handled, ok := k.wedgeCircle(sites); handled {
		return c, ok
	}
	cands := k.candidates(sites)
	sort.Slice(cands, func(i, j int) bool { return cands[i].r < cands[j].r })
	for _, c := range cands {
		if k.accept(sites, c) {
			return gcircle{center: c.c, radius: c.r}, true
		}
	}
	return gcircle{}, false
}

// wedgeCircle recognizes the face (b, s1, s2) where both segments end at the
// point b. Such a face exists only when s2 turns counterclockwise from s1 by
// less than a half turn.
func (k *Float) wedgeCircle(s [3]Site) (gcircle, bool, bool) {
	for rot := 0; rot < 3; rot++ {
		b, sa, sb := s[rot], s[(rot+1)%3], s[(rot+2)%3]
		if !b.IsPoint() || !sa.IsSegment() || !sb.IsSegment() {
			continue
		}
		bp := b.Point()
		if !sa.HasEndpoint(bp) || !sb.HasEndpoint(bp) {
			continue
		}
		da := sa.OtherEndpoint(bp).Sub(bp).Normalize()
		db := sb.OtherEndpoint(bp).Sub(bp).Normalize()
		if da.Cross(db) > k.Eps {
			return gcircle{center: bp, wedge: true, from: da, to: db}, true, true
		}
		return gcircle{}, true, false
	}
	return gcircle{}, false, false
}

func (k *Float) candidates(s [3]Site) []candidate {
	var pts []Point
	var segs []Site
	for _, site := range s {
		if site.IsPoint() {
			pts = append(pts, site.Point())
		} else {
			segs = append(segs, site)
		}
	}
	switch len(segs) {
	case 0:
		if c, ok := circumcenter(pts[0], pts[1], pts[2]); ok {
			return []candidate{{c, c.Sub(pts[0]).Norm()}}
		}
	case 1:
		return ppsCandidates(pts[0], pts[1], segs[0])
	case 2:
		return pssCandidates(pts[0], segs[0], segs[1])
	case 3:
		return sssCandidates(segs[0], segs[1], segs[2])
	}
	return nil
}

func circumcenter(a, b, c Point) (Point, bool) {
	bb := b.Sub(a)
	cc := c.Sub(a)
	d := 2 * bb.Cross(cc)
	if d == 0 {
		return Point{}, false
	}
	b2, c2 := bb.Dot(bb), cc.Dot(cc)
	return a.Add(Point{X: (cc.Y*b2 - bb.Y*c2) / d, Y: (bb.X*c2 - cc.X*b2) / d}), true
}

// quadratic returns the real roots of a*x^2 + b*x + c.
func quadratic(a, b, c float64) []float64 {
	if math.Abs(a) < 1e-12 {
		if b == 0 {
			return nil
		}
		return []float64{-c / b}
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		if disc > -1e-12*(b*b+math.Abs(4*a*c)) {
			disc = 0
		} else {
			return nil
		}
	}
	sq := math.Sqrt(disc)
	return []float64{(-b - sq) / (2 * a), (-b + sq) / (2 * a)}
}

func ppsCandidates(a, b Point, s Site) []candidate {
	l, ok := lineOf(s)
	if !ok {
		return nil
	}
	var out []candidate
	// A point on the segment's line can only be touched where the circle is
	// tangent, so the center lies on the perpendicular through it.
	for _, pair := range [][2]Point{{a, b}, {b, a}} {
		e, o := pair[0], pair[1]
		if !s.HasEndpoint(e) {
			continue
		}
		den := 2 * l.n.Dot(o.Sub(e))
		if den == 0 {
			continue
		}
		d := o.Sub(e)
		t := d.Dot(d) / den
		out = append(out, candidate{e.Add(l.n.Mul(t)), math.Abs(t)})
	}
	if len(out) > 0 {
		return out
	}
	m := a.Add(b).Mul(0.5)
	w := b.Sub(a).Ortho().Normalize()
	h2 := b.Sub(a).Dot(b.Sub(a)) / 4
	alpha := l.signed(m)
	beta := l.n.Dot(w)
	for _, lambda := range quadratic(1-beta*beta, -2*alpha*beta, h2-alpha*alpha) {
		c := m.Add(w.Mul(lambda))
		out = append(out, candidate{c, c.Sub(a).Norm()})
	}
	return out
}

func solve2(n1, n2 Point, r1, r2 float64) (Point, bool) {
	det := n1.X*n2.Y - n1.Y*n2.X
	if math.Abs(det) < 1e-12 {
		return Point{}, false
	}
	return Point{X: (r1*n2.Y - r2*n1.Y) / det, Y: (n1.X*r2 - n2.X*r1) / det}, true
}

var signs = [2]float64{1, -1}

func pssCandidates(a Point, s1, s2 Site) []candidate {
	l1, ok1 := lineOf(s1)
	l2, ok2 := lineOf(s2)
	if !ok1 || !ok2 {
		return nil
	}
	var out []candidate
	ls := [2]line{l1, l2}
	ss := [2]Site{s1, s2}
	for i := 0; i < 2; i++ {
		li, lj := ls[i], ls[1-i]
		if !ss[i].HasEndpoint(a) {
			continue
		}
		// center a + t*ni, tangent to lj: nj.(a + t ni) - kj = sigma |t|
		for _, sigma := range signs {
			for _, st := range signs {
				den := lj.n.Dot(li.n) - sigma*st
				if den == 0 {
					continue
				}
				t := (lj.k - lj.n.Dot(a)) / den
				if t*st < 0 {
					continue
				}
				out = append(out, candidate{a.Add(li.n.Mul(t)), math.Abs(t)})
			}
		}
	}
	if len(out) > 0 {
		return out
	}
	for _, s1g := range signs {
		for _, s2g := range signs {
			c0, ok := solve2(l1.n, l2.n, l1.k, l2.k)
			if ok {
				c1, _ := solve2(l1.n, l2.n, s1g, s2g)
				d := c0.Sub(a)
				for _, r := range quadratic(c1.Dot(c1)-1, 2*c1.Dot(d), d.Dot(d)) {
					if r < 0 {
						continue
					}
					out = append(out, candidate{c0.Add(c1.Mul(r)), r})
				}
				continue
			}
			eps := 1.0
			if l1.n.Dot(l2.n) < 0 {
				eps = -1
			}
			den := s1g - eps*s2g
			if den == 0 {
				continue
			}
			r := (eps*l2.k - l1.k) / den
			if r <= 0 {
				continue
			}
			nc := l1.k + s1g*r
			dn := nc - l1.n.Dot(a)
			rem := r*r - dn*dn
			if rem < 0 {
				continue
			}
			for _, sq := range signs {
				tau := l1.u.Dot(a) + sq*math.Sqrt(rem)
				out = append(out, candidate{l1.n.Mul(nc).Add(l1.u.Mul(tau)), r})
			}
		}
	}
	return out
}

func det3(m [3][3]float64) float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

func sssCandidates(s1, s2, s3 Site) []candidate {
	var ls [3]line
	for i, s := range []Site{s1, s2, s3} {
		l, ok := lineOf(s)
		if !ok {
			return nil
		}
		ls[i] = l
	}
	var out []candidate
	for mask := 0; mask < 8; mask++ {
		var m [3][3]float64
		var rhs [3]float64
		for i := 0; i < 3; i++ {
			sigma := 1.0
			if mask&(1<<uint(i)) != 0 {
				sigma = -1
			}
			m[i] = [3]float64{ls[i].n.X, ls[i].n.Y, -sigma}
			rhs[i] = ls[i].k
		}
		d := det3(m)
		if math.Abs(d) < 1e-12 {
			continue
		}
		var sol [3]float64
		for col := 0; col < 3; col++ {
			mm := m
			for row := 0; row < 3; row++ {
				mm[row][col] = rhs[row]
			}
			sol[col] = det3(mm) / d
		}
		if sol[2] < 0 {
			continue
		}
		out = append(out, candidate{Point{X: sol[0], Y: sol[1]}, sol[2]})
	}
	return out
}

// accept checks that the candidate circle touches every site at distance r
// and that the touching points come in counterclockwise order.
func (k *Float) accept(s [3]Site, c candidate) bool {
	snap := k.tol(append(allPoints(s[0], s[1], s[2]), c.c)...) * (1 + c.r)
	tol := snap * 10
	for _, site := range s {
		if math.Abs(dist(c.c, site)-c.r) > tol {
			return false
		}
	}
	if c.r <= tol {
		return false
	}
	var ts [3]touch
	for i, site := range s {
		ts[i] = touchOf(c.c, site, snap)
	}
	return counterclockwise(ts)
}

// touch is the direction from the center to the point where a site touches
// the circle. A segment touching at its own endpoint is nudged along itself,
// which orders it against the endpoint site sharing that location.
type touch struct {
	angle float64
	nudge int
}

// touchOf finds where s touches the circle centered at c. A foot within tol
// of an endpoint is snapped to it: centers on the perpendicular through an
// endpoint project a rounding error away from it, on either side.
func touchOf(c Point, s Site, tol float64) touch {
	if s.IsPoint() {
		v := s.Point().Sub(c)
		return touch{angle: math.Atan2(v.Y, v.X)}
	}
	a, b := s.SourcePoint(), s.TargetPoint()
	foot, _ := closest(c, a, b)
	var dir Point
	switch {
	case foot.Sub(a).Norm() <= tol:
		foot, dir = a, b.Sub(a)
	case foot.Sub(b).Norm() <= tol:
		foot, dir = b, a.Sub(b)
	}
	v := foot.Sub(c)
	tc := touch{angle: math.Atan2(v.Y, v.X)}
	if dir == (Point{}) {
		return tc
	}
	if dir.Dot(v.Ortho()) > 0 {
		tc.nudge = 1
	} else {
		tc.nudge = -1
	}
	return tc
}

const angleEps = 1e-9

func counterclockwise(ts [3]touch) bool {
	rel := func(t touch) (float64, bool) {
		d := math.Mod(t.angle-ts[0].angle, 2*math.Pi)
		if d < 0 {
			d += 2 * math.Pi
		}
		if d < angleEps || d > 2*math.Pi-angleEps {
			switch {
			case t.nudge > ts[0].nudge:
				return 0, true
			case t.nudge < ts[0].nudge:
				return 2 * math.Pi, true
			}
			return 0, false
		}
		return d, true
	}
	r1, ok1 := rel(ts[1])
	r2, ok2 := rel(ts[2])
	if !ok1 || !ok2 {
		return false
	}
	if math.Abs(r1-r2) < angleEps {
		return ts[1].nudge < ts[2].nudge
	}
	return r1 < r2
}
