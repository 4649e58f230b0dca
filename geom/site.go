package geom

import (
	"fmt"

	"github.com/golang/geo/r2"
)

type Point = r2.Point

type SiteKind int

const (
	PointKind SiteKind = iota
	SegmentKind
)

func (k SiteKind) String() string {
	if k == SegmentKind {
		return "segment"
	}
	return "point"
}

// PointDef defines a point site either as an input location or as the
// crossing of two supporting segments. At always holds the location; for
// crossings it is computed once from the supporting segments, which are kept
// so that an exact kernel can rebuild the point symbolically.
type PointDef struct {
	At       Point
	Crossing bool
	First    [2]Point
	Second   [2]Point
}

func InputPoint(p Point) PointDef {
	return PointDef{At: p}
}

func CrossingPoint(first, second [2]Point) PointDef {
	return PointDef{
		At:       LineIntersection(first[0], first[1], second[0], second[1]),
		Crossing: true,
		First:    first,
		Second:   second,
	}
}

// LineIntersection returns the intersection of the lines a0a1 and b0b1. The
// lines must not be parallel.
func LineIntersection(a0, a1, b0, b1 Point) Point {
	da := a1.Sub(a0)
	db := b1.Sub(b0)
	denom := da.Cross(db)
	t := b0.Sub(a0).Cross(db) / denom
	return a0.Add(da.Mul(t))
}

// Site is a point or an open segment. A segment lies on its Support and is
// bounded by Source and Target, which are themselves point definitions. An
// input segment has its endpoints equal to its support.
type Site struct {
	Kind    SiteKind
	Def     PointDef
	Support [2]Point
	Source  PointDef
	Target  PointDef
}

func NewPoint(p Point) Site {
	return Site{Kind: PointKind, Def: InputPoint(p)}
}

func NewPointDef(d PointDef) Site {
	return Site{Kind: PointKind, Def: d}
}

func NewSegment(p0, p1 Point) Site {
	return Site{
		Kind:    SegmentKind,
		Support: [2]Point{p0, p1},
		Source:  InputPoint(p0),
		Target:  InputPoint(p1),
	}
}

func NewSubsegment(support [2]Point, source, target PointDef) Site {
	return Site{Kind: SegmentKind, Support: support, Source: source, Target: target}
}

func (s Site) IsPoint() bool   { return s.Kind == PointKind }
func (s Site) IsSegment() bool { return s.Kind == SegmentKind }

// IsInput reports whether the site was given by the user as opposed to being
// produced by splitting a segment.
func (s Site) IsInput() bool {
	if s.IsPoint() {
		return !s.Def.Crossing
	}
	return !s.Source.Crossing && !s.Target.Crossing &&
		s.Source.At == s.Support[0] && s.Target.At == s.Support[1]
}

func (s Site) Point() Point {
	return s.Def.At
}

func (s Site) SourcePoint() Point { return s.Source.At }
func (s Site) TargetPoint() Point { return s.Target.At }

func (s Site) SourceSite() Site { return NewPointDef(s.Source) }
func (s Site) TargetSite() Site { return NewPointDef(s.Target) }

// SupportingSite returns the input segment this segment was cut from.
func (s Site) SupportingSite() Site {
	return NewSegment(s.Support[0], s.Support[1])
}

// HasEndpoint reports whether p is one of the segment's endpoints.
func (s Site) HasEndpoint(p Point) bool {
	return s.IsSegment() && (s.Source.At == p || s.Target.At == p)
}

// OtherEndpoint returns the endpoint of the segment that is not p.
func (s Site) OtherEndpoint(p Point) Point {
	if s.Source.At == p {
		return s.Target.At
	}
	return s.Source.At
}

func (s Site) String() string {
	if s.IsPoint() {
		if s.Def.Crossing {
			return fmt.Sprintf("x(%g, %g)", s.Def.At.X, s.Def.At.Y)
		}
		return fmt.Sprintf("p(%g, %g)", s.Def.At.X, s.Def.At.Y)
	}
	return fmt.Sprintf("s(%g, %g)-(%g, %g)", s.Source.At.X, s.Source.At.Y, s.Target.At.X, s.Target.At.Y)
}
