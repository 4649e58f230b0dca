package advanced

import (
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/osuushi/segdelaunay/geom"
	"go.uber.org/zap"
)

// IsValid checks the graph. Level 0 checks the combinatorics: adjacency is
// symmetric, vertex rings close, and the triangulation is a sphere. Level 1
// also checks that no face has a mirror vertex in conflict with its circle
// and that no point sits inside a neighboring segment. With verbose every
// failure is logged, and drawn to the terminal when SEGDELAUNAY_DRAW is set.
func (g *Graph) IsValid(verbose bool, level int) bool {
	report := func(msg string, fields ...zap.Field) bool {
		if verbose {
			g.log.Error(msg, fields...)
			if os.Getenv("SEGDELAUNAY_DRAW") != "" {
				g.dbgDraw(20)
			}
		}
		return false
	}

	n := g.NumberOfVertices()
	if n < 2 {
		if len(g.faces) != 0 {
			return report("faces in a graph with fewer than two sites", zap.Int("faces", len(g.faces)))
		}
		return true
	}
	if !g.combinatoriallyValid(report) {
		return false
	}
	if level < 1 {
		return true
	}
	return g.geometricallyValid(report)
}

type reporter func(msg string, fields ...zap.Field) bool

func (g *Graph) combinatoriallyValid(report reporter) bool {
	for slot, f := range g.faces {
		if f.slot != slot {
			return report("face slot out of date", zap.Int("slot", slot))
		}
		if f.v[0] == f.v[1] || f.v[1] == f.v[2] || f.v[0] == f.v[2] {
			return report("face repeats a vertex", zap.String("face", spew.Sdump(f.v)))
		}
		for i := 0; i < 3; i++ {
			nb := f.n[i]
			if nb == nil || nb.slot < 0 {
				return report("face has a missing neighbor", zap.Int("index", i))
			}
			j := ccw(indexOrNegative(nb, f.v[ccw(i)]))
			if j < 0 || !nb.has(f.v[cw(i)]) || nb.v[ccw(j)] != f.v[cw(i)] {
				return report("neighbor does not share the edge",
					zap.Stringer("from", f.v[ccw(i)].site), zap.Stringer("to", f.v[cw(i)].site))
			}
			if nb.n[j] != f {
				return report("adjacency is not symmetric", zap.Int("index", i))
			}
		}
	}
	for slot, v := range g.vertices {
		if v.slot != slot {
			return report("vertex slot out of date", zap.Int("slot", slot))
		}
		if v.face == nil || v.face.slot < 0 || !v.face.has(v) {
			return report("vertex face pointer is broken", zap.Stringer("site", v.site))
		}
	}
	incident := 0
	for _, v := range append([]*Vertex{g.infinite}, g.vertices...) {
		incident += len(g.incidentFaces(v))
	}
	if incident != 3*len(g.faces) {
		return report("vertex rings do not cover the faces",
			zap.Int("incidences", incident), zap.Int("faces", len(g.faces)))
	}
	vertices := len(g.vertices) + 1
	edges := 3 * len(g.faces) / 2
	if 3*len(g.faces)%2 != 0 || vertices-edges+len(g.faces) != 2 {
		return report("triangulation is not a sphere",
			zap.Int("vertices", vertices), zap.Int("edges", edges), zap.Int("faces", len(g.faces)))
	}
	return true
}

func indexOrNegative(f *Face, v *Vertex) int {
	for i, w := range f.v {
		if w == v {
			return i
		}
	}
	return -2
}

func (g *Graph) geometricallyValid(report reporter) bool {
	if len(g.vertices) < 3 {
		return true
	}
	for _, f := range g.faces {
		for i := 0; i < 3; i++ {
			w := g.mirrorVertex(f, i)
			if w.infinite {
				continue
			}
			if g.incircle(f, w.site) == geom.Negative {
				return report("mirror vertex conflicts with face",
					zap.Stringer("site", w.site), zap.String("face", faceString(f)))
			}
		}
	}
	for _, v := range g.vertices {
		if !v.IsPoint() {
			continue
		}
		for _, w := range g.incidentVertices(v) {
			if w.IsSegment() && g.pred.ArrangementType(w.site, v.site) == geom.Interior {
				return report("point lies inside a segment",
					zap.Stringer("point", v.site), zap.Stringer("segment", w.site))
			}
		}
	}
	return true
}

func faceString(f *Face) string {
	s := "("
	for i, v := range f.v {
		if i > 0 {
			s += ", "
		}
		if v.infinite {
			s += "inf"
		} else {
			s += v.site.String()
		}
	}
	return s + ")"
}
