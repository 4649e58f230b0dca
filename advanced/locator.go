package advanced

import (
	"github.com/osuushi/segdelaunay/geom"
	"github.com/peterstace/simplefeatures/rtree"
)

// locator indexes the point vertices so nearest neighbor walks can start
// close to their target.
type locator struct {
	tree   rtree.RTree
	byID   map[int]*Vertex
	ids    map[*Vertex]int
	nextID int
}

func newLocator() *locator {
	return &locator{
		byID: map[int]*Vertex{},
		ids:  map[*Vertex]int{},
	}
}

func pointBox(p geom.Point) rtree.Box {
	return rtree.Box{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y}
}

func (l *locator) add(v *Vertex) {
	if _, ok := l.ids[v]; ok {
		return
	}
	l.nextID++
	l.ids[v] = l.nextID
	l.byID[l.nextID] = v
	l.tree.Insert(pointBox(v.site.Point()), l.nextID)
}

func (l *locator) remove(v *Vertex) {
	id, ok := l.ids[v]
	if !ok {
		return
	}
	l.tree.Delete(pointBox(v.site.Point()), id)
	delete(l.ids, v)
	delete(l.byID, id)
}

// nearest returns the indexed vertex closest to p, or nil when empty.
func (l *locator) nearest(p geom.Point) *Vertex {
	var found *Vertex
	_ = l.tree.PrioritySearch(pointBox(p), func(id int) error {
		found = l.byID[id]
		return rtree.Stop
	})
	return found
}

func (l *locator) len() int { return len(l.ids) }
