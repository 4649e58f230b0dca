package advanced

import (
	"github.com/osuushi/segdelaunay/geom"
	"github.com/osuushi/segdelaunay/kernel"
	"go.uber.org/zap"
)

// Options configure a Graph.
type Options struct {
	// SupportIntersections allows segments to cross or touch in their
	// interiors. Crossings are split at synthetic points that remember both
	// supporting segments. Without it such insertions fail with
	// ErrIntersectingSegments and leave the graph untouched.
	SupportIntersections bool
	// Predicates is the geometric kernel. Nil means kernel.New().
	Predicates geom.Predicates
	// Logger receives debug events. Nil means no logging.
	Logger *zap.Logger
	// UseLocator seeds nearest neighbor walks from an R-tree of the point
	// sites instead of an arbitrary vertex.
	UseLocator bool
}

func DefaultOptions() Options {
	return Options{
		Predicates: kernel.New(),
		Logger:     zap.NewNop(),
		UseLocator: true,
	}
}

// Graph is the Delaunay graph of a set of point and segment sites.
//
// A Graph is not safe for concurrent use. Queries may run in parallel with
// each other but not with insertion or removal, and every structural change
// invalidates iterators and slices obtained before it.
type Graph struct {
	tds
	opts    Options
	pred    geom.Predicates
	log     *zap.Logger
	reg     *Registry
	locator *locator
}

func NewGraph(opts Options) *Graph {
	if opts.Predicates == nil {
		opts.Predicates = kernel.New()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	g := &Graph{
		tds:  newTDS(),
		opts: opts,
		pred: opts.Predicates,
		log:  opts.Logger,
		reg:  NewRegistry(),
	}
	if opts.UseLocator {
		g.locator = newLocator()
	}
	return g
}

// smallGraph is a scratch graph over the same registry, used to work out how
// a hole left by a removal is triangulated. It never registers anything.
func (g *Graph) smallGraph() *Graph {
	return &Graph{
		tds:  newTDS(),
		opts: Options{SupportIntersections: true, Predicates: g.pred, Logger: g.log},
		pred: g.pred,
		log:  g.log.Named("small"),
		reg:  g.reg,
	}
}

func (g *Graph) Options() Options        { return g.opts }
func (g *Graph) Registry() *Registry     { return g.reg }
func (g *Graph) InfiniteVertex() *Vertex { return g.infinite }

func (g *Graph) addVertex(storage StorageSite) *Vertex {
	v := g.newVertex(storage, storage.Site(g.reg))
	if g.locator != nil && v.IsPoint() {
		g.locator.add(v)
	}
	return v
}

// setSite gives a vertex made by a structural operation its site.
func (g *Graph) setSite(v *Vertex, storage StorageSite) {
	if g.locator != nil && v.IsPoint() {
		g.locator.remove(v)
	}
	v.storage = storage
	v.site = storage.Site(g.reg)
	if g.locator != nil && v.IsPoint() {
		g.locator.add(v)
	}
}

func (g *Graph) dropVertex(v *Vertex) {
	if g.locator != nil && v.IsPoint() {
		g.locator.remove(v)
	}
}

// Dimension is -1 for an empty graph, 0 with one site, 1 with two and 2
// otherwise.
func (g *Graph) Dimension() int {
	switch n := g.NumberOfVertices(); {
	case n == 0:
		return -1
	case n < 3:
		return n - 1
	}
	return 2
}

// NumberOfVertices counts finite vertices, that is output sites.
func (g *Graph) NumberOfVertices() int { return len(g.vertices) }

// NumberOfFaces counts all faces, including the infinite ones.
func (g *Graph) NumberOfFaces() int { return len(g.faces) }

func (g *Graph) NumberOfFiniteFaces() int {
	n := 0
	for _, f := range g.faces {
		if !f.IsInfinite() {
			n++
		}
	}
	return n
}

// NumberOfEdges counts all edges, including the infinite ones.
func (g *Graph) NumberOfEdges() int { return len(g.faces) * 3 / 2 }

func (g *Graph) NumberOfInputSites() int { return g.reg.NumberOfInputSites() }

func (g *Graph) NumberOfOutputSites() int { return len(g.vertices) }

// NumberOfIncidentSegments counts segments that end at the point vertex v.
func (g *Graph) NumberOfIncidentSegments(v *Vertex) int {
	if !v.IsPoint() {
		preconditionf("incident segments of a non-point vertex")
	}
	if g.NumberOfVertices() < 2 {
		return 0
	}
	n := 0
	seen := map[*Vertex]struct{}{}
	for _, w := range g.incidentVertices(v) {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		if w.IsSegment() && g.isEndpointOf(v, w) {
			n++
		}
	}
	return n
}

func (g *Graph) isEndpointOf(p, s *Vertex) bool {
	return s.storage.sourceStorage() == p.storage || s.storage.targetStorage() == p.storage
}

// FirstEndpointOfSegment returns the vertex of the source of segment v.
func (g *Graph) FirstEndpointOfSegment(v *Vertex) *Vertex {
	return g.endpointVertex(v, v.storage.sourceStorage())
}

// SecondEndpointOfSegment returns the vertex of the target of segment v.
func (g *Graph) SecondEndpointOfSegment(v *Vertex) *Vertex {
	return g.endpointVertex(v, v.storage.targetStorage())
}

func (g *Graph) endpointVertex(v *Vertex, end StorageSite) *Vertex {
	if !v.IsSegment() {
		preconditionf("endpoint of a non-segment vertex")
	}
	for _, w := range g.incidentVertices(v) {
		if w.IsPoint() && w.storage == end {
			return w
		}
	}
	fatalf("segment %v is not adjacent to its endpoint", v.site)
	return nil
}

func (g *Graph) Degree(v *Vertex) int { return g.degree(v) }

func (g *Graph) IncidentFaces(v *Vertex) []*Face      { return g.incidentFaces(v) }
func (g *Graph) IncidentVertices(v *Vertex) []*Vertex { return g.incidentVertices(v) }
func (g *Graph) IncidentEdges(v *Vertex) []Edge       { return g.incidentEdges(v) }

// Mirror returns the edge as seen from the adjacent face.
func (g *Graph) Mirror(e Edge) Edge { return g.mirror(e) }

// MirrorVertex is the vertex of the adjacent face across edge e.
func (g *Graph) MirrorVertex(e Edge) *Vertex { return g.mirrorVertex(e.Face, e.Index) }

// Clear removes every site, including the registry contents.
func (g *Graph) Clear() {
	version := g.version
	g.tds = newTDS()
	g.version = version + 1
	g.reg = NewRegistry()
	if g.locator != nil {
		g.locator = newLocator()
	}
}

// Swap exchanges the contents of two graphs.
func (g *Graph) Swap(other *Graph) {
	version := g.version
	if other.version > version {
		version = other.version
	}
	*g, *other = *other, *g
	g.version, other.version = version+1, version+1
}

// Copy returns a deep copy sharing nothing with g.
func (g *Graph) Copy() *Graph {
	c := &Graph{
		tds:  newTDS(),
		opts: g.opts,
		pred: g.pred,
		log:  g.log,
		reg:  g.reg.clone(),
	}
	if g.locator != nil {
		c.locator = newLocator()
	}
	vmap := map[*Vertex]*Vertex{g.infinite: c.infinite}
	for _, v := range g.vertices {
		w := c.newVertex(v.storage, v.site)
		if c.locator != nil && w.IsPoint() {
			c.locator.add(w)
		}
		vmap[v] = w
	}
	fmap := make(map[*Face]*Face, len(g.faces))
	for _, f := range g.faces {
		fmap[f] = c.newFace(vmap[f.v[0]], vmap[f.v[1]], vmap[f.v[2]])
	}
	for _, f := range g.faces {
		nf := fmap[f]
		for i := range f.n {
			nf.n[i] = fmap[f.n[i]]
		}
	}
	for v, w := range vmap {
		if v.face != nil {
			w.face = fmap[v.face]
		}
	}
	return c
}

// Vertex returns the vertex with the given index, in iteration order.
func (g *Graph) Vertex(i int) *Vertex { return g.vertices[i] }

// vertexOf finds the vertex holding a storage site.
func (g *Graph) vertexOf(storage StorageSite) *Vertex {
	for _, v := range g.vertices {
		if v.storage == storage {
			return v
		}
	}
	return nil
}
