package advanced

import (
	"github.com/osuushi/segdelaunay/geom"
	"go.uber.org/zap"
)

// edgeList is the boundary of a conflict region: a cyclic sequence of edges,
// each seen from the face just outside the region.
type edgeList struct {
	nodes map[Edge]*edgeNode
	head  *edgeNode
}

type edgeNode struct {
	edge       Edge
	prev, next *edgeNode
}

func newEdgeList() *edgeList {
	return &edgeList{nodes: map[Edge]*edgeNode{}}
}

func (l *edgeList) len() int { return len(l.nodes) }

func (l *edgeList) contains(e Edge) bool {
	_, ok := l.nodes[e]
	return ok
}

func (l *edgeList) pushBack(e Edge) {
	n := &edgeNode{edge: e}
	l.nodes[e] = n
	if l.head == nil {
		n.prev, n.next = n, n
		l.head = n
		return
	}
	tail := l.head.prev
	n.prev, n.next = tail, l.head
	tail.next = n
	l.head.prev = n
}

func (l *edgeList) node(e Edge) *edgeNode {
	n, ok := l.nodes[e]
	if !ok {
		fatalf("edge is not on the conflict boundary")
	}
	return n
}

func (l *edgeList) insertBefore(at Edge, e Edge) {
	next := l.node(at)
	n := &edgeNode{edge: e, prev: next.prev, next: next}
	next.prev.next = n
	next.prev = n
	l.nodes[e] = n
}

func (l *edgeList) insertAfter(at Edge, e Edge) {
	prev := l.node(at)
	n := &edgeNode{edge: e, prev: prev, next: prev.next}
	prev.next.prev = n
	prev.next = n
	l.nodes[e] = n
}

func (l *edgeList) remove(e Edge) {
	n := l.node(e)
	delete(l.nodes, e)
	if n.next == n {
		l.head = nil
		return
	}
	n.prev.next = n.next
	n.next.prev = n.prev
	if l.head == n {
		l.head = n.next
	}
}

func (l *edgeList) replace(old, e Edge) {
	n := l.node(old)
	delete(l.nodes, old)
	n.edge = e
	l.nodes[e] = n
}

func (l *edgeList) slice() []Edge {
	edges := make([]Edge, 0, len(l.nodes))
	if l.head == nil {
		return edges
	}
	n := l.head
	for {
		edges = append(edges, n.edge)
		n = n.next
		if n == l.head {
			return edges
		}
	}
}

// conflictRegion is the transient state of one insertion or removal: the
// faces whose empty circle the new site violates, the boundary around them,
// and the signs computed along the way. When a segment is found to cross an
// existing site before the region is complete, cross holds that site and the
// region is empty.
type conflictRegion struct {
	site     geom.Site
	boundary *edgeList
	faces    map[*Face]bool
	order    []*Face
	signs    map[*Face]geom.Sign
	cross    *Vertex
}

func (r *conflictRegion) add(f *Face) {
	r.faces[f] = true
	r.order = append(r.order, f)
}

// incircle is the conflict sign of t against the circle of f.
func (g *Graph) incircle(f *Face, t geom.Site) geom.Sign {
	for i, v := range f.v {
		if v.infinite {
			return g.pred.InfiniteVertexConflict(f.v[ccw(i)].site, f.v[cw(i)].site, t)
		}
	}
	return g.pred.VertexConflict(f.v[0].site, f.v[1].site, f.v[2].site, t)
}

// edgeInterior tests the dual of the edge i of f against t, dispatching on
// where the infinite vertex sits around the edge.
func (g *Graph) edgeInterior(f *Face, i int, t geom.Site, sgn geom.Sign) bool {
	p, q, r := f.v[ccw(i)], f.v[cw(i)], f.v[i]
	s := g.mirrorVertex(f, i)
	switch {
	case p.infinite:
		return g.pred.InfiniteEdgeInteriorConflict(q.site, s.site, r.site, t, sgn)
	case q.infinite:
		return g.pred.InfiniteEdgeInteriorConflict(p.site, r.site, s.site, t, sgn)
	case r.infinite && s.infinite:
		return g.pred.FiniteEdgeInteriorConflictDegenerate(p.site, q.site, t, sgn)
	case s.infinite:
		return g.pred.FiniteEdgeInteriorConflictInfinite(p.site, q.site, r.site, t, sgn)
	case r.infinite:
		return g.pred.FiniteEdgeInteriorConflictInfinite(q.site, p.site, s.site, t, sgn)
	}
	return g.pred.FiniteEdgeInteriorConflict(p.site, q.site, r.site, s.site, t, sgn)
}

// startFace looks for a face around v whose circle t violates.
func (g *Graph) startFace(v *Vertex, t geom.Site) (*Face, geom.Sign) {
	last := geom.Positive
	for _, f := range g.incidentFaces(v) {
		last = g.incircle(f, t)
		if last == geom.Negative {
			return f, last
		}
	}
	return nil, last
}

// conflictFace is startFace that falls back on every face of the graph when
// none around v conflicts with t. The walk ends at v only up to tolerance, so
// the conflict can begin one cell over.
func (g *Graph) conflictFace(v *Vertex, t geom.Site) (*Face, geom.Sign) {
	start, last := g.startFace(v, t)
	if start != nil {
		return start, last
	}
	for _, f := range g.faces {
		if g.incircle(f, t) == geom.Negative {
			g.log.Debug("conflict found away from the nearest site",
				zap.Stringer("site", t), zap.Stringer("nearest", v.site))
			return f, geom.Negative
		}
	}
	return nil, last
}

// conflictEdge finds an edge whose Voronoi interior t cuts although neither
// of its Voronoi vertices is in conflict. The edges around v come first.
func (g *Graph) conflictEdge(v *Vertex, t geom.Site, sgn geom.Sign) (Edge, bool) {
	for _, e := range g.incidentEdges(v) {
		if g.edgeInterior(e.Face, e.Index, t, sgn) {
			return e, true
		}
	}
	for _, f := range g.faces {
		for i := range f.v {
			n := f.n[i]
			// Each edge once, from the face earlier in the slice.
			if n.slot < f.slot {
				continue
			}
			if g.incircle(n, t) == geom.Negative {
				continue
			}
			if g.edgeInterior(f, i, t, sgn) {
				return Edge{f, i}, true
			}
		}
	}
	return Edge{}, false
}

type expandFrame struct {
	face *Face
	next int
}

// findConflictRegion grows the conflict region of t from the face start,
// which must be in conflict with t.
func (g *Graph) findConflictRegion(start *Face, t geom.Site) *conflictRegion {
	r := &conflictRegion{
		site:     t,
		boundary: newEdgeList(),
		faces:    map[*Face]bool{},
		signs:    map[*Face]geom.Sign{start: geom.Negative},
	}
	for i := 0; i < 3; i++ {
		r.boundary.pushBack(g.mirror(Edge{start, i}))
	}
	r.add(start)

	stack := []expandFrame{{face: start}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next == 3 {
			stack = stack[:len(stack)-1]
			continue
		}
		f, i := top.face, top.next
		top.next++
		n := f.n[i]

		if !r.faces[n] && t.IsSegment() {
			if v := g.crossedVertex(n, t); v != nil {
				g.log.Debug("segment meets a site while growing conflict region",
					zap.Stringer("segment", t), zap.Stringer("site", v.site))
				return &conflictRegion{site: t, boundary: newEdgeList(), faces: map[*Face]bool{}, cross: v}
			}
		}

		s := g.incircle(n, t)
		r.signs[n] = s
		if s == geom.Positive || s != r.signs[f] {
			continue
		}
		if !g.edgeInterior(f, i, t, s) {
			continue
		}
		if r.faces[n] {
			continue
		}

		e := g.mirror(Edge{f, i})
		j := e.Index
		before := g.mirror(Edge{n, ccw(j)})
		after := g.mirror(Edge{n, cw(j)})
		if !r.boundary.contains(before) {
			r.boundary.insertBefore(e, before)
		}
		if !r.boundary.contains(after) {
			r.boundary.insertAfter(e, after)
		}
		r.boundary.remove(e)
		r.add(n)
		stack = append(stack, expandFrame{face: n})
	}
	return r
}

// crossedVertex is a finite vertex of f that the segment t cannot coexist
// with: a segment it crosses, or a point inside it.
func (g *Graph) crossedVertex(f *Face, t geom.Site) *Vertex {
	for _, v := range f.v {
		if v.infinite {
			continue
		}
		switch at := g.pred.ArrangementType(t, v.site); {
		case v.IsSegment() && at == geom.Crossing:
			return v
		case v.IsPoint() && at == geom.Interior:
			return v
		}
	}
	return nil
}

// retriangulate replaces the faces of the region by the star of v.
func (g *Graph) retriangulate(v *Vertex, r *conflictRegion) {
	edges := r.boundary.slice()

	// An edge with the region on both sides gets a temporary vertex, so the
	// star sees two distinct edges.
	seen := map[Edge]bool{}
	var twice []Edge
	for _, e := range edges {
		sym := g.mirror(e)
		if r.boundary.contains(sym) && !seen[sym] {
			seen[e] = true
			twice = append(twice, e)
		}
	}
	var bogus []*Vertex
	for _, e := range twice {
		sym := g.mirror(e)
		w := g.insertDegree2(e.Face, e.Index)
		f1 := w.face
		f2 := f1.n[1]
		r.boundary.replace(e, Edge{f2, 0})
		r.boundary.replace(sym, Edge{f1, 0})
		bogus = append(bogus, w)
	}
	edges = r.boundary.slice()

	for _, e := range edges {
		a, b := e.Vertices()
		a.face, b.face = e.Face, e.Face
	}
	for _, f := range r.order {
		g.deleteFace(f)
	}
	g.starHole(v, edges)
	for _, w := range bogus {
		g.removeDegree2(w)
	}
	g.log.Debug("retriangulated conflict region",
		zap.Stringer("site", v.site), zap.Int("faces", len(r.order)), zap.Int("boundary", len(edges)))
}
