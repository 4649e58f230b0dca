package advanced

import (
	"fmt"

	"github.com/osuushi/segdelaunay/geom"
)

// pointRef is a point as it is stored: either a registry point, or the
// crossing of two supporting segments given by their endpoint handles.
type pointRef struct {
	at       PointHandle
	crossing bool
	cross    [2][2]PointHandle
}

func (p pointRef) def(r *Registry) geom.PointDef {
	if !p.crossing {
		return geom.InputPoint(r.Point(p.at))
	}
	return geom.CrossingPoint(
		[2]geom.Point{r.Point(p.cross[0][0]), r.Point(p.cross[0][1])},
		[2]geom.Point{r.Point(p.cross[1][0]), r.Point(p.cross[1][1])},
	)
}

// StorageSite is a site expressed through registry handles only. It is
// comparable, and two storage sites are equal exactly when they describe the
// same site the same way.
type StorageSite struct {
	kind    geom.SiteKind
	point   pointRef
	support [2]PointHandle
	source  pointRef
	target  pointRef
}

func pointStorage(h PointHandle) StorageSite {
	return StorageSite{kind: geom.PointKind, point: pointRef{at: h}}
}

func segmentStorage(h0, h1 PointHandle) StorageSite {
	return StorageSite{
		kind:    geom.SegmentKind,
		support: [2]PointHandle{h0, h1},
		source:  pointRef{at: h0},
		target:  pointRef{at: h1},
	}
}

// crossingStorage is the point where the supports of two segments cross.
func crossingStorage(a, b StorageSite) StorageSite {
	if !a.IsSegment() || !b.IsSegment() {
		preconditionf("crossing of %v and %v: both must be segments", a.kind, b.kind)
	}
	return StorageSite{
		kind: geom.PointKind,
		point: pointRef{
			crossing: true,
			cross:    [2][2]PointHandle{a.support, b.support},
		},
	}
}

func (s StorageSite) IsPoint() bool   { return s.kind == geom.PointKind }
func (s StorageSite) IsSegment() bool { return s.kind == geom.SegmentKind }
func (s StorageSite) Kind() geom.SiteKind {
	return s.kind
}

// IsInput reports whether the site can be an input site: a registry point,
// or a segment that still spans its whole support.
func (s StorageSite) IsInput() bool {
	if s.IsPoint() {
		return !s.point.crossing
	}
	return !s.source.crossing && !s.target.crossing &&
		s.source.at == s.support[0] && s.target.at == s.support[1]
}

// Handle is the registry point of an input point site.
func (s StorageSite) Handle() PointHandle {
	return s.point.at
}

// Support returns the handles of the input segment a segment was cut from.
func (s StorageSite) Support() (PointHandle, PointHandle) {
	return s.support[0], s.support[1]
}

func (s StorageSite) sourceStorage() StorageSite {
	return StorageSite{kind: geom.PointKind, point: s.source}
}

func (s StorageSite) targetStorage() StorageSite {
	return StorageSite{kind: geom.PointKind, point: s.target}
}

// split cuts a segment at the point site x into the pieces before and after
// it. Both pieces keep the original support.
func (s StorageSite) split(x StorageSite) (StorageSite, StorageSite) {
	if !s.IsSegment() || !x.IsPoint() {
		preconditionf("cannot split %v at %v", s.kind, x.kind)
	}
	first, second := s, s
	first.target = x.point
	second.source = x.point
	return first, second
}

// Site resolves the handles against the registry.
func (s StorageSite) Site(r *Registry) geom.Site {
	if s.IsPoint() {
		return geom.NewPointDef(s.point.def(r))
	}
	return geom.NewSubsegment(
		[2]geom.Point{r.Point(s.support[0]), r.Point(s.support[1])},
		s.source.def(r),
		s.target.def(r),
	)
}

func (s StorageSite) handles() []PointHandle {
	var hs []PointHandle
	add := func(p pointRef) {
		if p.crossing {
			hs = append(hs, p.cross[0][0], p.cross[0][1], p.cross[1][0], p.cross[1][1])
		} else {
			hs = append(hs, p.at)
		}
	}
	if s.IsPoint() {
		add(s.point)
		return hs
	}
	hs = append(hs, s.support[0], s.support[1])
	add(s.source)
	add(s.target)
	return hs
}

func (p pointRef) String() string {
	if p.crossing {
		return fmt.Sprintf("x[%d %d|%d %d]", p.cross[0][0].index, p.cross[0][1].index, p.cross[1][0].index, p.cross[1][1].index)
	}
	return fmt.Sprint(p.at.index)
}

func (s StorageSite) String() string {
	if s.IsPoint() {
		return "p" + s.point.String()
	}
	return fmt.Sprintf("s%d-%d(%v %v)", s.support[0].index, s.support[1].index, s.source, s.target)
}
