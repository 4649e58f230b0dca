package advanced

import (
	"github.com/osuushi/segdelaunay/geom"
	"go.uber.org/zap"
)

// InsertSegment adds the segment p0p1 with its endpoints and returns the
// vertex of the segment. A segment of zero length is inserted as a point.
// When crossings are supported and the segment gets split, the vertex of
// the last piece is returned.
func (g *Graph) InsertSegment(p0, p1 geom.Point) (*Vertex, error) {
	return g.insertSegmentPoints(p0, p1, nil)
}

// InsertSegmentPoints is InsertSegment. It exists to mirror InsertPoints.
func (g *Graph) InsertSegmentPoints(p0, p1 geom.Point) (*Vertex, error) {
	return g.insertSegmentPoints(p0, p1, nil)
}

func (g *Graph) insertSegmentPoints(p0, p1 geom.Point, hint *Vertex) (*Vertex, error) {
	if g.pred.Equal(geom.NewPoint(p0), geom.NewPoint(p1)) {
		return g.InsertPointWithHint(p0, hint)
	}

	h0, new0 := g.reg.Register(p0)
	h1, new1 := g.reg.Register(p1)
	var created []*Vertex
	rollback := func(err error) (*Vertex, error) {
		for i := len(created) - 1; i >= 0; i-- {
			g.removeVertex(created[i])
		}
		if new1 {
			g.reg.release(h1)
		}
		if new0 {
			g.reg.release(h0)
		}
		g.log.Warn("segment insertion rolled back",
			zap.Stringer("from", p0), zap.Stringer("to", p1), zap.Error(err))
		return nil, err
	}

	endpoint := func(h PointHandle, hint *Vertex) (*Vertex, error) {
		before := g.NumberOfVertices()
		v, err := g.insertPoint(pointStorage(h), hint)
		if err == nil && g.NumberOfVertices() == before+1 && v.storage == pointStorage(h) {
			created = append(created, v)
		}
		return v, err
	}
	v0, err := endpoint(h0, hint)
	if err != nil {
		return rollback(err)
	}
	if _, err := endpoint(h1, v0); err != nil {
		return rollback(err)
	}

	storage := segmentStorage(h0, h1)
	if g.reg.isInputSegment(h0, h1) {
		if v := g.vertexOf(storage); v != nil {
			return v, nil
		}
		if v := g.vertexOf(segmentStorage(h1, h0)); v != nil {
			return v, nil
		}
	}
	v, err := g.insertSegment(storage, v0)
	if err != nil {
		return rollback(err)
	}
	g.reg.registerInputSegment(h0, h1)
	return v, nil
}

// insertSegment puts a stored segment into the graph. Its endpoints must
// already be there.
func (g *Graph) insertSegment(storage StorageSite, hint *Vertex) (*Vertex, error) {
	t := storage.Site(g.reg)
	if g.NumberOfVertices() == 2 {
		return g.insertThird(storage), nil
	}
	vsource := g.nearestVertex(t.SourceSite(), hint)
	if !vsource.IsPoint() || !g.pred.Equal(vsource.site, t.SourceSite()) {
		fatalf("source of %v is not in the graph", t)
	}
	return g.insertSegmentInterior(storage, t, vsource)
}

// insertSegmentInterior inserts t whose source vertex is vsource. Sites the
// segment would overlap or cross are dealt with first by splitting.
func (g *Graph) insertSegmentInterior(storage StorageSite, t geom.Site, vsource *Vertex) (*Vertex, error) {
	for _, w := range g.incidentVertices(vsource) {
		if w.infinite {
			continue
		}
		at := g.pred.ArrangementType(t, w.site)
		if w.IsSegment() {
			switch at {
			case geom.Identical:
				return w, nil
			case geom.Crossing:
				return g.insertIntersectingSegment(storage, t, w)
			case geom.SecondSourceInFirst:
				return g.splitAndInsert(storage, w.storage.sourceStorage())
			case geom.SecondTargetInFirst:
				return g.splitAndInsert(storage, w.storage.targetStorage())
			case geom.FirstSourceInSecond, geom.FirstTargetInSecond:
				fatalf("endpoint of %v lies inside %v", t, w.site)
			}
		} else if at == geom.Interior {
			return g.splitAndInsert(storage, w.storage)
		}
	}

	start, _ := g.conflictFace(vsource, t)
	if start == nil {
		fatalf("no conflict found for segment %v", t)
	}
	r := g.findConflictRegion(start, t)
	if r.cross != nil {
		if r.cross.IsSegment() {
			return g.insertIntersectingSegment(storage, t, r.cross)
		}
		return g.splitAndInsert(storage, r.cross.storage)
	}
	v := g.addVertex(storage)
	g.retriangulate(v, r)
	g.log.Debug("inserted segment", zap.Stringer("site", t))
	return v, nil
}

// splitAndInsert inserts a segment as two pieces cut at the point x, which
// is already a vertex.
func (g *Graph) splitAndInsert(storage StorageSite, x StorageSite) (*Vertex, error) {
	if !g.opts.SupportIntersections {
		return nil, ErrIntersectingSegments
	}
	first, second := storage.split(x)
	vx := g.vertexOf(x)
	if _, err := g.insertSegment(first, vx); err != nil {
		return nil, err
	}
	return g.insertSegment(second, vx)
}

// insertIntersectingSegment splits w at its crossing with t and inserts the
// two halves of t.
func (g *Graph) insertIntersectingSegment(storage StorageSite, t geom.Site, w *Vertex) (*Vertex, error) {
	if !g.opts.SupportIntersections {
		return nil, ErrIntersectingSegments
	}
	x := crossingStorage(storage, w.storage)
	vx, err := g.insertPointOnSegment(x, w)
	if err != nil {
		return nil, err
	}
	first, second := storage.split(x)
	if _, err := g.insertSegment(first, vx); err != nil {
		return nil, err
	}
	return g.insertSegment(second, vx)
}
