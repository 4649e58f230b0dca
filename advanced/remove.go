package advanced

import (
	"github.com/osuushi/segdelaunay/geom"
	"go.uber.org/zap"
)

// Remove deletes an input site. A point that is the endpoint of a segment
// cannot be removed, and neither can sites made by splitting; in both cases
// Remove returns false and leaves the graph alone. Removing a segment keeps
// its endpoints, which become input points if nothing else holds them.
func (g *Graph) Remove(v *Vertex) bool {
	if v == nil || v.infinite {
		preconditionf("removing the infinite vertex")
	}
	if v.slot < 0 || v.slot >= len(g.vertices) || g.vertices[v.slot] != v {
		preconditionf("removing a vertex that is not in the graph")
	}
	if !v.storage.IsInput() {
		g.log.Debug("refusing to remove a split site", zap.Stringer("site", v.site))
		return false
	}
	if v.IsPoint() {
		if g.NumberOfIncidentSegments(v) > 0 {
			g.log.Debug("refusing to remove a segment endpoint", zap.Stringer("site", v.site))
			return false
		}
		h := v.storage.Handle()
		g.removeVertex(v)
		g.reg.unregisterInputPoint(h)
		g.reg.release(h)
		return true
	}
	h0, h1 := v.storage.Support()
	g.removeVertex(v)
	if !g.reg.unregisterInputSegment(h0, h1, true) {
		g.log.Warn("removed segment was not registered", zap.Stringer("site", v.site))
	}
	return true
}

// removeVertex takes v out of the triangulation, whatever the input
// registrations say.
func (g *Graph) removeVertex(v *Vertex) {
	site := v.site
	g.dropVertex(v)
	switch n := g.NumberOfVertices(); {
	case n == 1:
		g.deleteVertex(v)
	case n == 2:
		g.clearFaces()
		g.deleteVertex(v)
	case n == 3:
		g.clearFaces()
		g.deleteVertex(v)
		g.buildTwo(g.vertices[0], g.vertices[1])
	default:
		g.removeGeneral(v)
	}
	g.log.Debug("removed site", zap.Stringer("site", site))
}

func (g *Graph) removeGeneral(v *Vertex) {
	switch deg := g.degree(v); {
	case deg == 2:
		g.removeDegree2(v)
		return
	case deg == 3 && g.degree3Removable(v):
		g.removeDegree3(v)
		return
	}
	if g.minimizeDegree(v) {
		g.removeDegree3(v)
		return
	}
	g.removeWithSmallDiagram(v)
}

// degree3Removable reports whether the three faces around v can be merged:
// three distinct neighbors and no two of the faces glued outside v.
func (g *Graph) degree3Removable(v *Vertex) bool {
	faces := g.incidentFaces(v)
	ring := g.incidentVertices(v)
	if ring[0] == ring[1] || ring[1] == ring[2] || ring[0] == ring[2] {
		return false
	}
	for _, f := range faces {
		o := f.n[f.index(v)]
		for _, h := range faces {
			if o == h {
				return false
			}
		}
	}
	return true
}

// minimizeDegree flips edges out of the point vertex v until it has degree
// three. It only plans on links made of distinct finite points, where ear
// clipping with the empty circle test is exact, and it changes nothing unless
// the whole plan goes through.
func (g *Graph) minimizeDegree(v *Vertex) bool {
	if !v.IsPoint() {
		return false
	}
	ring := g.incidentVertices(v)
	seen := map[*Vertex]bool{}
	for _, w := range ring {
		if w.infinite || !w.IsPoint() || seen[w] {
			return false
		}
		seen[w] = true
	}

	poly := append([]*Vertex(nil), ring...)
	var plan []*Vertex
	for len(poly) > 3 {
		ear := -1
		for k := range poly {
			a, w, b := poly[(k+len(poly)-1)%len(poly)], poly[k], poly[(k+1)%len(poly)]
			if g.isEar(v, a, w, b, poly) {
				ear = k
				break
			}
		}
		if ear < 0 {
			return false
		}
		plan = append(plan, poly[ear])
		poly = append(poly[:ear], poly[ear+1:]...)
	}

	for _, w := range plan {
		f, i := g.edgeBetween(v, w)
		g.flip(f, i)
	}
	g.log.Debug("minimized degree by flips", zap.Stringer("site", v.site), zap.Int("flips", len(plan)))
	return true
}

// isEar reports whether the edge vw can be flipped to ab: the quadrilateral
// v a w b must be convex and the circle through a, w, b must not hold any
// other site of the link.
func (g *Graph) isEar(v, a, w, b *Vertex, poly []*Vertex) bool {
	if g.pred.Orientation(a.site, w.site, b.site) != geom.LeftTurn {
		return false
	}
	if g.pred.Orientation(v.site, a.site, b.site) != geom.LeftTurn {
		return false
	}
	for _, x := range poly {
		if x == a || x == w || x == b {
			continue
		}
		if g.pred.VertexConflict(a.site, w.site, b.site, x.site) == geom.Negative {
			return false
		}
	}
	return true
}

// edgeBetween finds the face around v where the edge vw is opposite the
// face's third vertex.
func (g *Graph) edgeBetween(v, w *Vertex) (*Face, int) {
	for _, f := range g.incidentFaces(v) {
		i := f.index(v)
		if f.v[ccw(i)] == w {
			return f, cw(i)
		}
	}
	fatalf("no edge between %v and %v", v.site, w.site)
	return nil, -1
}

// removeWithSmallDiagram triangulates the neighbors of v on their own and
// copies the part of that triangulation v would have been in conflict with
// into the hole v leaves.
func (g *Graph) removeWithSmallDiagram(v *Vertex) {
	small := g.smallGraph()
	ring := g.incidentVertices(v)

	var segments []*Vertex
	for _, w := range ring {
		if w.infinite {
			continue
		}
		if w.IsSegment() {
			segments = append(segments, w)
			continue
		}
		if _, err := small.insertPoint(w.storage, nil); err != nil {
			fatalf("small diagram point %v: %v", w.site, err)
		}
	}
	for _, w := range segments {
		for _, end := range [2]StorageSite{w.storage.sourceStorage(), w.storage.targetStorage()} {
			if _, err := small.insertPoint(end, nil); err != nil {
				fatalf("small diagram endpoint of %v: %v", w.site, err)
			}
		}
		if _, err := small.insertSegment(w.storage, nil); err != nil {
			fatalf("small diagram segment %v: %v", w.site, err)
		}
	}

	vmap := map[*Vertex]*Vertex{small.infinite: g.infinite}
	byStorage := map[StorageSite]*Vertex{}
	for _, w := range ring {
		if !w.infinite {
			byStorage[w.storage] = w
		}
	}
	for _, sv := range small.vertices {
		if w, ok := byStorage[sv.storage]; ok {
			vmap[sv] = w
		}
	}

	t := v.site
	seed := small.nearestVertex(geom.NewPoint(small.seedPoint(t)), nil)
	start, _ := small.conflictFace(seed, t)
	if start == nil {
		fatalf("removed site %v conflicts with nothing among its neighbors", t)
	}
	r := small.findConflictRegion(start, t)
	if r.cross != nil {
		fatalf("removed site %v crosses %v among its neighbors", t, r.cross.site)
	}
	g.fillHole(small, v, r, vmap)
}

type linkEdge struct {
	from, to *Vertex
	outer    *Face
	index    int
	star     bool
}

// fillHole replaces the star of v with copies of the conflict faces of v in
// the small diagram.
func (g *Graph) fillHole(small *Graph, v *Vertex, r *conflictRegion, vmap map[*Vertex]*Vertex) {
	star := g.incidentFaces(v)
	inStar := map[*Face]bool{}
	for _, f := range star {
		inStar[f] = true
	}
	links := make([]linkEdge, len(star))
	for k, f := range star {
		i := f.index(v)
		links[k] = linkEdge{
			from:  f.v[ccw(i)],
			to:    f.v[cw(i)],
			outer: f.n[i],
			index: g.mirrorIndex(f, i),
			star:  inStar[f.n[i]],
		}
	}

	boundary := r.boundary.slice()
	d := len(links)
	if len(boundary) != d {
		fatalf("hole of %v has %d edges but the small diagram gives %d", v.site, d, len(boundary))
	}
	mapped := func(w *Vertex) *Vertex {
		m, ok := vmap[w]
		if !ok {
			fatalf("small diagram vertex %v has no counterpart", w.site)
		}
		return m
	}
	offset := -1
	for m := 0; m < d && offset < 0; m++ {
		ok := true
		for k := 0; k < d && ok; k++ {
			e := boundary[(m+k)%d]
			from, to := e.Face.v[cw(e.Index)], e.Face.v[ccw(e.Index)]
			ok = vmap[from] == links[k].from && vmap[to] == links[k].to
		}
		if ok {
			offset = m
		}
	}
	if offset < 0 {
		fatalf("small diagram boundary does not match the hole of %v", v.site)
	}

	copies := make(map[*Face]*Face, len(r.order))
	for _, f := range r.order {
		copies[f] = g.newFace(mapped(f.v[0]), mapped(f.v[1]), mapped(f.v[2]))
	}
	for _, f := range r.order {
		for i, n := range f.n {
			if c, ok := copies[n]; ok {
				copies[f].n[i] = c
			}
		}
	}
	for k, l := range links {
		e := boundary[(offset+k)%d]
		inner := e.Face.n[e.Index]
		c := copies[inner]
		j := small.mirrorIndex(e.Face, e.Index)
		if l.star {
			if c.n[j] == nil {
				fatalf("hole of %v: edge %d is open in the small diagram", v.site, k)
			}
			continue
		}
		link(c, j, l.outer, l.index)
	}

	for _, f := range star {
		g.deleteFace(f)
	}
	g.deleteVertex(v)
	for _, c := range copies {
		for i, w := range c.v {
			w.face = c
			if c.n[i] == nil {
				fatalf("hole of %v left a face without a neighbor", v.site)
			}
		}
	}
	g.log.Debug("filled hole from small diagram", zap.Int("faces", len(copies)), zap.Int("edges", d))
}
