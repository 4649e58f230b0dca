package advanced

import (
	"github.com/osuushi/segdelaunay/geom"
)

// FaceIterator walks the faces of a graph depth first through adjacency. It
// panics if the graph changes while it is in use.
type FaceIterator struct {
	graph      *Graph
	version    int
	stack      []*Face
	seen       map[*Face]struct{}
	finiteOnly bool
}

// AllFaces iterates over every face, infinite ones included.
func (g *Graph) AllFaces() *FaceIterator {
	return g.newFaceIterator(false)
}

// FiniteFaces iterates over the faces not incident to the infinite vertex.
func (g *Graph) FiniteFaces() *FaceIterator {
	return g.newFaceIterator(true)
}

func (g *Graph) newFaceIterator(finiteOnly bool) *FaceIterator {
	iter := &FaceIterator{
		graph:      g,
		version:    g.version,
		seen:       map[*Face]struct{}{},
		finiteOnly: finiteOnly,
	}
	if len(g.faces) > 0 {
		iter.stack = []*Face{g.faces[0]}
	}
	return iter
}

func (iter *FaceIterator) check() {
	if iter.graph.version != iter.version {
		preconditionf("graph changed during iteration")
	}
}

func (iter *FaceIterator) Next() *Face {
	iter.check()
	for len(iter.stack) > 0 {
		face := iter.stack[len(iter.stack)-1]
		iter.stack = iter.stack[:len(iter.stack)-1]
		if _, ok := iter.seen[face]; ok {
			continue
		}
		iter.seen[face] = struct{}{}
		iter.stack = append(iter.stack, face.n[0], face.n[1], face.n[2])
		if iter.finiteOnly && face.IsInfinite() {
			continue
		}
		return face
	}
	return nil
}

// Create a channel using a go routine to iterate over the faces. The faces
// are gathered before MakeChan returns, so a stale iterator panics in the
// caller and later changes to the graph do not reach the channel. The channel
// must be drained.
func (iter *FaceIterator) MakeChan() chan *Face {
	var faces []*Face
	for face := iter.Next(); face != nil; face = iter.Next() {
		faces = append(faces, face)
	}
	ch := make(chan *Face)
	go func() {
		for _, face := range faces {
			ch <- face
		}
		close(ch)
	}()
	return ch
}

// VertexIterator walks vertices in storage order.
type VertexIterator struct {
	graph   *Graph
	version int
	next    int
}

// FiniteVertices iterates over the vertices carrying a site.
func (g *Graph) FiniteVertices() *VertexIterator {
	return &VertexIterator{graph: g, version: g.version}
}

func (iter *VertexIterator) Next() *Vertex {
	if iter.graph.version != iter.version {
		preconditionf("graph changed during iteration")
	}
	if iter.next >= len(iter.graph.vertices) {
		return nil
	}
	v := iter.graph.vertices[iter.next]
	iter.next++
	return v
}

// EdgeIterator yields every edge once, from the face with the lower slot.
type EdgeIterator struct {
	faces      []*Face
	graph      *Graph
	version    int
	face, i    int
	finiteOnly bool
}

func (g *Graph) AllEdges() *EdgeIterator {
	return &EdgeIterator{faces: g.faces, graph: g, version: g.version}
}

func (g *Graph) FiniteEdges() *EdgeIterator {
	return &EdgeIterator{faces: g.faces, graph: g, version: g.version, finiteOnly: true}
}

func (iter *EdgeIterator) Next() (Edge, bool) {
	if iter.graph.version != iter.version {
		preconditionf("graph changed during iteration")
	}
	for iter.face < len(iter.faces) {
		f := iter.faces[iter.face]
		i := iter.i
		iter.i++
		if iter.i == 3 {
			iter.i = 0
			iter.face++
		}
		if f.n[i].slot < f.slot {
			continue
		}
		e := Edge{f, i}
		if iter.finiteOnly && e.IsInfinite() {
			continue
		}
		return e, true
	}
	return Edge{}, false
}

// Edges collects the remaining edges of the iterator.
func (iter *EdgeIterator) Edges() []Edge {
	var edges []Edge
	for e, ok := iter.Next(); ok; e, ok = iter.Next() {
		edges = append(edges, e)
	}
	return edges
}

// InputSites lists the registered input sites, points first.
func (g *Graph) InputSites() []geom.Site {
	storage := g.reg.inputStorage()
	sites := make([]geom.Site, len(storage))
	for i, s := range storage {
		sites[i] = s.Site(g.reg)
	}
	return sites
}

// OutputSites lists the sites of all vertices: input sites that survived
// whole, plus the pieces and crossing points made by splitting.
func (g *Graph) OutputSites() []geom.Site {
	sites := make([]geom.Site, len(g.vertices))
	for i, v := range g.vertices {
		sites[i] = v.site
	}
	return sites
}
