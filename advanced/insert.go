package advanced

import (
	"math/rand"

	"github.com/osuushi/segdelaunay/geom"
	"go.uber.org/zap"
)

// InsertPoint adds a point site and returns its vertex. Inserting a point
// that is already present returns the existing vertex.
func (g *Graph) InsertPoint(p geom.Point) (*Vertex, error) {
	return g.InsertPointWithHint(p, nil)
}

// InsertPointWithHint is InsertPoint with a vertex near p to start the
// location walk from.
func (g *Graph) InsertPointWithHint(p geom.Point, hint *Vertex) (*Vertex, error) {
	h, created := g.reg.Register(p)
	v, err := g.insertPoint(pointStorage(h), hint)
	if err != nil {
		if created {
			g.reg.release(h)
		}
		g.log.Warn("point insertion rolled back", zap.Error(err))
		return nil, err
	}
	g.reg.registerInputPoint(h)
	return v, nil
}

// InsertWithHint inserts an input site of either kind.
func (g *Graph) InsertWithHint(t geom.Site, hint *Vertex) (*Vertex, error) {
	if !t.IsInput() {
		preconditionf("only input sites can be inserted, got %v", t)
	}
	if t.IsPoint() {
		return g.InsertPointWithHint(t.Point(), hint)
	}
	return g.insertSegmentPoints(t.SourcePoint(), t.TargetPoint(), hint)
}

func (g *Graph) Insert(t geom.Site) (*Vertex, error) {
	return g.InsertWithHint(t, nil)
}

// InsertPoints inserts many points, each walk starting from the previous
// vertex. With shuffle the points go in in random order, which keeps the
// walks short on sorted input.
func (g *Graph) InsertPoints(points []geom.Point, shuffle bool) (int, error) {
	if shuffle {
		points = append([]geom.Point(nil), points...)
		rand.Shuffle(len(points), func(i, j int) { points[i], points[j] = points[j], points[i] })
	}
	before := g.NumberOfInputSites()
	var hint *Vertex
	for _, p := range points {
		v, err := g.InsertPointWithHint(p, hint)
		if err != nil {
			return g.NumberOfInputSites() - before, err
		}
		hint = v
	}
	return g.NumberOfInputSites() - before, nil
}

// InsertSegments inserts segments given as endpoint pairs.
func (g *Graph) InsertSegments(segments [][2]geom.Point) (int, error) {
	before := g.NumberOfInputSites()
	for _, s := range segments {
		if _, err := g.InsertSegmentPoints(s[0], s[1]); err != nil {
			return g.NumberOfInputSites() - before, err
		}
	}
	return g.NumberOfInputSites() - before, nil
}

// insertPoint puts a stored point into the graph without touching the input
// registrations.
func (g *Graph) insertPoint(storage StorageSite, hint *Vertex) (*Vertex, error) {
	t := storage.Site(g.reg)
	switch n := g.NumberOfVertices(); n {
	case 0:
		return g.insertFirst(storage), nil
	case 1, 2:
		for _, v := range g.vertices {
			if v.IsPoint() && g.pred.Equal(v.site, t) {
				return v, nil
			}
		}
		if n == 1 {
			return g.insertSecond(storage), nil
		}
		return g.insertThird(storage), nil
	}

	vnearest := g.nearestVertex(t, hint)
	at := g.pred.ArrangementType(t, vnearest.site)
	switch {
	case vnearest.IsPoint() && at == geom.Identical:
		return vnearest, nil
	case vnearest.IsSegment() && at == geom.Interior:
		return g.insertPointOnSegment(storage, vnearest)
	}

	start, last := g.conflictFace(vnearest, t)
	if start == nil {
		e, ok := g.conflictEdge(vnearest, t, last)
		if !ok {
			fatalf("no conflict found for point %v", t)
		}
		w := g.insertDegree2(e.Face, e.Index)
		g.setSite(w, storage)
		g.log.Debug("inserted point of degree 2", zap.Stringer("site", t))
		return w, nil
	}
	r := g.findConflictRegion(start, t)
	v := g.addVertex(storage)
	g.retriangulate(v, r)
	g.log.Debug("inserted point", zap.Stringer("site", t))
	return v, nil
}

func (g *Graph) insertFirst(storage StorageSite) *Vertex {
	return g.addVertex(storage)
}

// insertSecond creates the two faces of a graph with two sites, glued to each
// other along all three edges.
func (g *Graph) insertSecond(storage StorageSite) *Vertex {
	a := g.vertices[0]
	b := g.addVertex(storage)
	g.buildTwo(a, b)
	return b
}

func (g *Graph) buildTwo(a, b *Vertex) {
	inf := g.infinite
	f1 := g.newFace(a, b, inf)
	f2 := g.newFace(b, a, inf)
	f1.n = [3]*Face{f2, f2, f2}
	f2.n = [3]*Face{f1, f1, f1}
	a.face, b.face, inf.face = f1, f1, f1
}

// insertThird turns the two faces into the four of a tetrahedron. When the
// three sites are collinear points, or the third site is the segment joining
// the other two, the finite edge that should not exist is flipped away.
func (g *Graph) insertThird(storage StorageSite) *Vertex {
	a, b := g.vertices[0], g.vertices[1]
	c := g.addVertex(storage)
	t := c.site
	g.clearFaces()

	collinear := false
	if t.IsPoint() && a.IsPoint() && b.IsPoint() {
		switch g.pred.Orientation(a.site, b.site, t) {
		case geom.RightTurn:
			a, b = b, a
		case geom.Collinear:
			collinear = true
		}
	}

	inf := g.infinite
	f := g.newFace(a, b, c)
	gab := g.newFace(b, a, inf)
	gbc := g.newFace(c, b, inf)
	gca := g.newFace(a, c, inf)
	link(f, 0, gbc, 2)
	link(f, 1, gca, 2)
	link(f, 2, gab, 2)
	link(gab, 0, gca, 1)
	link(gab, 1, gbc, 0)
	link(gbc, 1, gca, 0)
	a.face, b.face, c.face = f, f, f
	inf.face = gab

	switch {
	case collinear:
		middle := middleOf(a, b, c)
		g.flip(f, f.index(middle))
	case t.IsSegment():
		g.flip(f, f.index(c))
	}
	return c
}

// middleOf returns whichever of three collinear point vertices lies between
// the other two.
func middleOf(a, b, c *Vertex) *Vertex {
	pa, pb, pc := a.site.Point(), b.site.Point(), c.site.Point()
	d := pb.Sub(pa)
	ta, tb, tc := 0.0, d.Dot(pb.Sub(pa)), d.Dot(pc.Sub(pa))
	switch {
	case (ta-tb)*(ta-tc) < 0:
		return a
	case (tb-ta)*(tb-tc) < 0:
		return b
	}
	return c
}

// insertPointOnSegment splits the segment vertex v at the point stored in
// storage, which lies in its interior.
func (g *Graph) insertPointOnSegment(storage StorageSite, v *Vertex) (*Vertex, error) {
	if !g.opts.SupportIntersections {
		return nil, ErrIntersectingSegments
	}
	t := storage.Site(g.reg)
	first, second := v.storage.split(storage)
	f1, f2 := g.facesToSplit(v, t)
	v1, v2, vx := g.splitVertex(v, f1, f2)
	g.setSite(v1, first)
	g.setSite(v2, second)
	g.setSite(vx, storage)
	g.log.Debug("split segment", zap.Stringer("segment", v.site), zap.Stringer("at", t))
	return vx, nil
}

// facesToSplit finds the run of faces around the segment vertex v whose
// Voronoi vertices lie on the target side of the line through t
// perpendicular to v. The run starts at the first face and ends just before
// the second.
func (g *Graph) facesToSplit(v *Vertex, t geom.Site) (*Face, *Face) {
	faces := g.incidentFaces(v)
	supp := v.site
	side := func(f *Face) geom.Sign {
		i := -1
		for k, w := range f.v {
			if w.infinite {
				i = k
			}
		}
		if i < 0 {
			if s := g.pred.OrientedSide(f.v[0].site, f.v[1].site, f.v[2].site, supp, t); s != geom.Zero {
				return s
			}
			// No usable Voronoi vertex: go by the neighbors when they agree.
			k := f.index(v)
			a := g.pred.OrientedSideOfPoint(sidePoint(f.v[ccw(k)].site, supp), supp, t)
			b := g.pred.OrientedSideOfPoint(sidePoint(f.v[cw(k)].site, supp), supp, t)
			if a == b {
				return a
			}
			return geom.Zero
		}
		other := f.v[ccw(i)]
		if other == v {
			other = f.v[cw(i)]
		}
		return g.pred.OrientedSideOfPoint(sidePoint(other.site, supp), supp, t)
	}
	signs := make([]geom.Sign, len(faces))
	for k, f := range faces {
		signs[k] = side(f)
	}
	var f1, f2 *Face
	for k := range faces {
		next := (k + 1) % len(faces)
		if f1 == nil && signs[k] != geom.Positive && signs[next] == geom.Positive {
			f1 = faces[next]
		}
		if f2 == nil && signs[k] == geom.Positive && signs[next] != geom.Positive {
			f2 = faces[next]
		}
	}
	if f1 == nil || f2 == nil {
		fatalf("cannot split %v at %v: faces are all on one side", v.site, t)
	}
	return f1, f2
}

// sidePoint stands in for a site when only its side of a line matters: a
// point is itself, a segment is represented by its endpoint farther along
// supp.
func sidePoint(s geom.Site, supp geom.Site) geom.Site {
	if s.IsPoint() {
		return s
	}
	d := supp.TargetPoint().Sub(supp.SourcePoint())
	if s.TargetPoint().Sub(s.SourcePoint()).Dot(d) >= 0 {
		return s.TargetSite()
	}
	return s.SourceSite()
}
