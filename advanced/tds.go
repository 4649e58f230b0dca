package advanced

import (
	"github.com/osuushi/segdelaunay/geom"
)

// Vertex carries one site. The infinite vertex carries none.
type Vertex struct {
	storage  StorageSite
	site     geom.Site
	face     *Face
	infinite bool
	slot     int
}

func (v *Vertex) IsInfinite() bool { return v.infinite }
func (v *Vertex) IsPoint() bool    { return !v.infinite && v.site.IsPoint() }
func (v *Vertex) IsSegment() bool  { return !v.infinite && v.site.IsSegment() }

// Site is the geometric site of the vertex.
func (v *Vertex) Site() geom.Site { return v.site }

// StorageSite is the handle based form of Site.
func (v *Vertex) StorageSite() StorageSite { return v.storage }

// Face returns some face incident to the vertex.
func (v *Vertex) Face() *Face { return v.face }

// Face is a triangle with its vertices in counterclockwise order. Neighbor i
// is across the edge opposite vertex i.
type Face struct {
	v    [3]*Vertex
	n    [3]*Face
	slot int
}

func (f *Face) Vertex(i int) *Vertex { return f.v[i] }
func (f *Face) Neighbor(i int) *Face { return f.n[i] }

func (f *Face) IsInfinite() bool {
	return f.v[0].infinite || f.v[1].infinite || f.v[2].infinite
}

func (f *Face) has(v *Vertex) bool {
	return f.v[0] == v || f.v[1] == v || f.v[2] == v
}

func (f *Face) index(v *Vertex) int {
	for i, w := range f.v {
		if w == v {
			return i
		}
	}
	fatalf("vertex %v is not on face %v", v.site, f.v)
	return -1
}

func (f *Face) neighborIndex(g *Face) int {
	for i, h := range f.n {
		if h == g {
			return i
		}
	}
	fatalf("faces are not adjacent")
	return -1
}

// Edge is the edge of Face opposite its vertex Index.
type Edge struct {
	Face  *Face
	Index int
}

// Vertices returns the endpoints of the edge in the order they appear on its
// face.
func (e Edge) Vertices() (*Vertex, *Vertex) {
	return e.Face.v[ccw(e.Index)], e.Face.v[cw(e.Index)]
}

func (e Edge) IsInfinite() bool {
	p, q := e.Vertices()
	return p.infinite || q.infinite
}

func ccw(i int) int { return (i + 1) % 3 }
func cw(i int) int  { return (i + 2) % 3 }

// tds is the combinatorial triangulation of the sphere: all faces, finite or
// not, and one infinite vertex. It knows nothing about geometry.
type tds struct {
	vertices []*Vertex
	faces    []*Face
	infinite *Vertex
	version  int
}

func newTDS() tds {
	return tds{infinite: &Vertex{infinite: true, slot: -1}}
}

func (t *tds) touch() { t.version++ }

func (t *tds) newVertex(storage StorageSite, site geom.Site) *Vertex {
	v := &Vertex{storage: storage, site: site, slot: len(t.vertices)}
	t.vertices = append(t.vertices, v)
	t.touch()
	return v
}

func (t *tds) deleteVertex(v *Vertex) {
	if v.infinite || v.slot < 0 || v.slot >= len(t.vertices) || t.vertices[v.slot] != v {
		fatalf("deleting a vertex that is not in the graph")
	}
	last := t.vertices[len(t.vertices)-1]
	t.vertices[v.slot] = last
	last.slot = v.slot
	t.vertices = t.vertices[:len(t.vertices)-1]
	v.slot = -1
	v.face = nil
	t.touch()
}

func (t *tds) newFace(a, b, c *Vertex) *Face {
	f := &Face{v: [3]*Vertex{a, b, c}, slot: len(t.faces)}
	t.faces = append(t.faces, f)
	t.touch()
	return f
}

func (t *tds) deleteFace(f *Face) {
	if f.slot < 0 || f.slot >= len(t.faces) || t.faces[f.slot] != f {
		fatalf("deleting a face that is not in the graph")
	}
	last := t.faces[len(t.faces)-1]
	t.faces[f.slot] = last
	last.slot = f.slot
	t.faces = t.faces[:len(t.faces)-1]
	f.slot = -1
	t.touch()
}

func (t *tds) clearFaces() {
	for _, f := range t.faces {
		f.slot = -1
	}
	t.faces = nil
	for _, v := range t.vertices {
		v.face = nil
	}
	t.infinite.face = nil
	t.touch()
}

// mirrorIndex is the index of the vertex of f.n[i] that is across the edge i
// of f. Faces never repeat a vertex, so the shared edge pins it down even
// where two faces share more than one edge.
func (t *tds) mirrorIndex(f *Face, i int) int {
	g := f.n[i]
	return ccw(g.index(f.v[ccw(i)]))
}

func (t *tds) mirror(e Edge) Edge {
	return Edge{e.Face.n[e.Index], t.mirrorIndex(e.Face, e.Index)}
}

func (t *tds) mirrorVertex(f *Face, i int) *Vertex {
	return f.n[i].v[t.mirrorIndex(f, i)]
}

func link(f *Face, i int, g *Face, j int) {
	f.n[i] = g
	g.n[j] = f
}

// incidentFaces lists the faces around v in counterclockwise order, starting
// from v.face.
func (t *tds) incidentFaces(v *Vertex) []*Face {
	start := v.face
	if start == nil {
		return nil
	}
	var faces []*Face
	f := start
	for {
		faces = append(faces, f)
		f = f.n[ccw(f.index(v))]
		if f == start {
			return faces
		}
		if len(faces) > len(t.faces) {
			fatalf("face ring around %v does not close", v.site)
		}
	}
}

// incidentVertices lists the neighbors of v in counterclockwise order. A
// neighbor appears once per edge, so multi-edges repeat it.
func (t *tds) incidentVertices(v *Vertex) []*Vertex {
	faces := t.incidentFaces(v)
	vertices := make([]*Vertex, len(faces))
	for k, f := range faces {
		vertices[k] = f.v[ccw(f.index(v))]
	}
	return vertices
}

// incidentEdges lists the edges out of v, each as seen from the face where it
// is followed counterclockwise by v.
func (t *tds) incidentEdges(v *Vertex) []Edge {
	faces := t.incidentFaces(v)
	edges := make([]Edge, len(faces))
	for k, f := range faces {
		edges[k] = Edge{f, cw(f.index(v))}
	}
	return edges
}

func (t *tds) degree(v *Vertex) int {
	return len(t.incidentFaces(v))
}

// flip replaces the edge i of f, shared with g, by the other diagonal of the
// quadrilateral the two faces form.
func (t *tds) flip(f *Face, i int) {
	g := f.n[i]
	j := t.mirrorIndex(f, i)
	p, q, r, s := f.v[i], f.v[ccw(i)], f.v[cw(i)], g.v[j]

	a, ma := f.n[ccw(i)], t.mirrorIndex(f, ccw(i))
	b, mb := f.n[cw(i)], t.mirrorIndex(f, cw(i))
	c, mc := g.n[ccw(j)], t.mirrorIndex(g, ccw(j))
	d, md := g.n[cw(j)], t.mirrorIndex(g, cw(j))
	if a == g || b == g || p == s {
		fatalf("flip of a degenerate edge between %v and %v", q.site, r.site)
	}

	f.v = [3]*Vertex{p, q, s}
	f.n = [3]*Face{c, g, b}
	g.v = [3]*Vertex{s, r, p}
	g.n = [3]*Face{a, f, d}
	a.n[ma] = g
	b.n[mb] = f
	c.n[mc] = f
	d.n[md] = g

	p.face, q.face = f, f
	r.face, s.face = g, g
	t.touch()
}

// insertDegree2 puts a new vertex inside the edge i of f: two new faces are
// inserted between f and its neighbor, both made of the edge plus the new
// vertex. The caller sets the site.
func (t *tds) insertDegree2(f *Face, i int) *Vertex {
	g := f.n[i]
	j := t.mirrorIndex(f, i)
	q, r := f.v[ccw(i)], f.v[cw(i)]

	w := t.newVertex(StorageSite{}, geom.Site{})
	f1 := t.newFace(w, r, q)
	f2 := t.newFace(w, q, r)
	f1.n = [3]*Face{f, f2, f2}
	f2.n = [3]*Face{g, f1, f1}
	f.n[i] = f1
	g.n[j] = f2
	w.face = f1
	return w
}

// removeDegree2 is the inverse of insertDegree2.
func (t *tds) removeDegree2(v *Vertex) {
	faces := t.incidentFaces(v)
	if len(faces) != 2 {
		fatalf("removeDegree2 on a vertex of degree %d", len(faces))
	}
	f1, f2 := faces[0], faces[1]
	i1, i2 := f1.index(v), f2.index(v)
	o1, m1 := f1.n[i1], t.mirrorIndex(f1, i1)
	o2, m2 := f2.n[i2], t.mirrorIndex(f2, i2)
	if o1 == f2 || o2 == f1 {
		fatalf("removeDegree2 would leave no faces")
	}
	link(o1, m1, o2, m2)
	a, b := f1.v[ccw(i1)], f1.v[cw(i1)]
	a.face, b.face = o1, o1
	t.deleteFace(f1)
	t.deleteFace(f2)
	t.deleteVertex(v)
}

// removeDegree3 merges the three faces around v into one.
func (t *tds) removeDegree3(v *Vertex) {
	faces := t.incidentFaces(v)
	if len(faces) != 3 {
		fatalf("removeDegree3 on a vertex of degree %d", len(faces))
	}
	var ring [3]*Vertex
	var outer [3]*Face
	var mirrors [3]int
	for k, f := range faces {
		i := f.index(v)
		ring[k] = f.v[ccw(i)]
		outer[k] = f.n[i]
		mirrors[k] = t.mirrorIndex(f, i)
	}
	if ring[0] == ring[1] || ring[1] == ring[2] || ring[0] == ring[2] {
		fatalf("removeDegree3 with repeated neighbors around %v", v.site)
	}
	for k := range faces {
		for _, f := range faces {
			if outer[k] == f {
				fatalf("removeDegree3 around %v: faces are glued to each other", v.site)
			}
		}
	}
	nf := t.newFace(ring[0], ring[1], ring[2])
	// faces[k] is (v, ring[k], ring[k+1]) so its outer edge is opposite
	// ring[k+2] in the merged face.
	for k := range faces {
		link(nf, (k+2)%3, outer[k], mirrors[k])
	}
	for _, w := range ring {
		w.face = nf
	}
	for _, f := range faces {
		t.deleteFace(f)
	}
	t.deleteVertex(v)
}

// starHole fills a hole with faces joining v to every boundary edge. The
// boundary is a counterclockwise cycle of edges seen from the faces outside
// the hole.
func (t *tds) starHole(v *Vertex, boundary []Edge) {
	n := len(boundary)
	if n < 2 {
		fatalf("star of a hole with %d edges", n)
	}
	faces := make([]*Face, n)
	for k, e := range boundary {
		g, j := e.Face, e.Index
		f := t.newFace(v, g.v[cw(j)], g.v[ccw(j)])
		link(f, 0, g, j)
		faces[k] = f
	}
	for k, f := range faces {
		next := faces[(k+1)%n]
		if f.v[2] != next.v[1] {
			fatalf("hole boundary is not a cycle at edge %d", k)
		}
		link(f, 1, next, 2)
	}
	v.face = faces[0]
	for _, f := range faces {
		f.v[1].face = f
	}
}

// splitVertex cuts the segment vertex v in two at a new vertex. The faces
// from f1 up to, not including, f2 counterclockwise go to the second piece;
// the rest stay with v, which becomes the first piece. Four new faces join
// the pieces and the new vertex. Returns the two pieces and the new vertex;
// sites are left to the caller.
func (t *tds) splitVertex(v *Vertex, f1, f2 *Face) (*Vertex, *Vertex, *Vertex) {
	ring := t.incidentFaces(v)
	start := -1
	for k, f := range ring {
		if f == f1 {
			start = k
			break
		}
	}
	if start < 0 {
		fatalf("split face is not incident to the vertex")
	}
	ring = append(ring[start:], ring[:start]...)
	end := -1
	for k, f := range ring {
		if f == f2 {
			end = k
			break
		}
	}
	if end <= 0 || end >= len(ring) {
		fatalf("split faces do not leave faces on both sides")
	}
	second, first := ring[:end], ring[end:]
	pFirst, pLast := second[0], second[len(second)-1]
	nFirst, nLast := first[0], first[len(first)-1]

	a := pFirst.v[ccw(pFirst.index(v))]
	b := nFirst.v[ccw(nFirst.index(v))]
	iPFirst, iPLast := pFirst.index(v), pLast.index(v)
	iNFirst, iNLast := nFirst.index(v), nLast.index(v)

	v1 := v
	v2 := t.newVertex(StorageSite{}, geom.Site{})
	vx := t.newVertex(StorageSite{}, geom.Site{})
	for _, f := range second {
		f.v[f.index(v)] = v2
	}

	a1 := t.newFace(v1, a, vx)
	a2 := t.newFace(v1, vx, b)
	b1 := t.newFace(v2, b, vx)
	b2 := t.newFace(v2, vx, a)
	link(a1, 0, b2, 0)
	link(a1, 1, a2, 2)
	link(a2, 0, b1, 0)
	link(b1, 1, b2, 2)
	link(a1, 2, nLast, ccw(iNLast))
	link(a2, 1, nFirst, cw(iNFirst))
	link(b1, 2, pLast, ccw(iPLast))
	link(b2, 1, pFirst, cw(iPFirst))

	v1.face, vx.face = a1, a1
	v2.face = b1
	a.face, b.face = a1, a2
	return v1, v2, vx
}
