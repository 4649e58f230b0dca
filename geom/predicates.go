package geom

// Sign is the result of a predicate. Orientation results use LeftTurn for a
// counterclockwise triple.
type Sign int

const (
	Negative Sign = -1
	Zero     Sign = 0
	Positive Sign = 1

	RightTurn = Negative
	Collinear = Zero
	LeftTurn  = Positive
)

func (s Sign) String() string {
	switch s {
	case Negative:
		return "negative"
	case Positive:
		return "positive"
	}
	return "zero"
}

// Arrangement classifies how two sites meet.
type Arrangement int

const (
	Disjoint Arrangement = iota
	Identical
	// Interior: a point lies in the open interior of a segment.
	Interior
	// TouchEndpoint: the sites share an endpoint and nothing else.
	TouchEndpoint
	// Crossing: two open segments meet in a single interior point.
	Crossing
	// The endpoint of one segment lies in the open interior of the other.
	// These also cover collinear overlaps.
	FirstSourceInSecond
	FirstTargetInSecond
	SecondSourceInFirst
	SecondTargetInFirst
)

var arrangementNames = [...]string{
	"disjoint", "identical", "interior", "touch-endpoint", "crossing",
	"first-source-in-second", "first-target-in-second",
	"second-source-in-first", "second-target-in-first",
}

func (a Arrangement) String() string {
	return arrangementNames[a]
}

// Predicates is everything the graph engine needs to know about geometry.
// Faces are passed as their sites in counterclockwise order, with the
// infinite vertex left out of the argument list; the method name says which
// form is meant.
type Predicates interface {
	Orientation(p, q, r Site) Sign
	Equal(a, b Site) bool
	AreParallel(a, b Site) bool
	ArrangementType(a, b Site) Arrangement

	// Negative when t is closer to p, Positive when closer to q.
	OrientedSideOfBisector(p, q, t Site) Sign

	// Side of the Voronoi vertex of (p, q, r), or of the point site p for
	// OrientedSideOfPoint, relative to the line through the point t
	// perpendicular to supp. Positive is towards the target of supp.
	OrientedSide(p, q, r, supp, t Site) Sign
	OrientedSideOfPoint(p, supp, t Site) Sign

	// Negative when t is in conflict with the Voronoi vertex of the face
	// (p, q, r), or of the infinite face (p, q, inf).
	VertexConflict(p, q, r, t Site) Sign
	InfiniteVertexConflict(p, q, t Site) Sign

	// Edge interior tests for the edge pq. With sgn Negative they report
	// whether the whole dual edge is in conflict with t, otherwise whether
	// some interior point of it is.
	//
	// Faces (p, q, r) and (q, p, s).
	FiniteEdgeInteriorConflict(p, q, r, s, t Site, sgn Sign) bool
	// Faces (p, q, r) and (q, p, inf).
	FiniteEdgeInteriorConflictInfinite(p, q, r, t Site, sgn Sign) bool
	// Faces (p, q, inf) and (q, p, inf).
	FiniteEdgeInteriorConflictDegenerate(p, q, t Site, sgn Sign) bool
	// The edge (q, inf) between faces (r, q, inf) and (q, s, inf).
	InfiniteEdgeInteriorConflict(q, r, s, t Site, sgn Sign) bool
}

// Constructions are optional geometric constructions used for drawing and
// for dual (Voronoi) output. They never influence the combinatorics.
type Constructions interface {
	VoronoiVertex(p, q, r Site) (Point, bool)
	// InfiniteDirection is the direction of the Voronoi vertex of (p, q, inf).
	InfiniteDirection(p, q Site) (Point, bool)
	// Bisector returns the dual of the edge pq given the two end points of
	// the Voronoi edge.
	Bisector(p, q Site, from, to End) Primitive
}

// End is one end of a Voronoi edge, either a finite point or a direction
// towards infinity.
type End struct {
	At        Point
	Infinite  bool
	Direction Point
}

type PrimitiveKind int

const (
	SegmentPrimitive PrimitiveKind = iota
	RayPrimitive
	LinePrimitive
	ParabolicArcPrimitive
)

func (k PrimitiveKind) String() string {
	return [...]string{"segment", "ray", "line", "parabolic-arc"}[k]
}

// Primitive is a piece of the Voronoi diagram dual to one Delaunay edge.
// Rays start at Source and follow Direction; lines pass through Source in
// Direction; parabolic arcs run from Source to Target around Focus with
// Directrix as the supporting line.
type Primitive struct {
	Kind      PrimitiveKind
	Source    Point
	Target    Point
	Direction Point
	Focus     Point
	Directrix [2]Point
}

// Sample returns n+1 points along the primitive. Unbounded primitives are
// cut at length reach.
func (p Primitive) Sample(n int, reach float64) []Point {
	pts := make([]Point, 0, n+1)
	switch p.Kind {
	case SegmentPrimitive:
		for i := 0; i <= n; i++ {
			pts = append(pts, p.Source.Add(p.Target.Sub(p.Source).Mul(float64(i)/float64(n))))
		}
	case RayPrimitive:
		dir := p.Direction.Normalize()
		for i := 0; i <= n; i++ {
			pts = append(pts, p.Source.Add(dir.Mul(reach*float64(i)/float64(n))))
		}
	case LinePrimitive:
		dir := p.Direction.Normalize()
		for i := 0; i <= n; i++ {
			pts = append(pts, p.Source.Add(dir.Mul(reach*(2*float64(i)/float64(n)-1))))
		}
	case ParabolicArcPrimitive:
		a, b := p.Directrix[0], p.Directrix[1]
		u := b.Sub(a).Normalize()
		u0 := p.Source.Sub(a).Dot(u)
		u1 := p.Target.Sub(a).Dot(u)
		for i := 0; i <= n; i++ {
			uu := u0 + (u1-u0)*float64(i)/float64(n)
			pts = append(pts, ParabolaPoint(p.Focus, a, u, uu))
		}
	}
	return pts
}

// ParabolaPoint returns the point of the parabola with the given focus and
// directrix (through origin with unit direction u) whose foot on the
// directrix is at parameter t.
func ParabolaPoint(focus, origin, u Point, t float64) Point {
	foot := origin.Add(u.Mul(t))
	n := u.Ortho()
	delta := focus.Sub(foot).Dot(n)
	if delta < 0 {
		n = n.Mul(-1)
		delta = -delta
	}
	d := focus.Sub(foot)
	h := d.Dot(d) / (2 * delta)
	return foot.Add(n.Mul(h))
}
