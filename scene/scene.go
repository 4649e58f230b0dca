// Package scene reads the inputs of a segment Delaunay graph: a set of points
// and segments, plus the options the scene was drawn for.
//
// Three formats are understood. The plain text format has one site per line,
// either "p x y", "s x0 y0 x1 y1" or a bare "x y" point; blank lines and lines
// starting with '#' are skipped. YAML scenes carry the same sites as lists of
// coordinates and an optional options block. SVG drawings contribute circles
// as points and lines, polylines and polygons as segments.
package scene

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/osuushi/segdelaunay/geom"
	"github.com/pkg/errors"
)

type Options struct {
	// Intersections asks for a graph that splits crossing segments.
	Intersections bool `yaml:"intersections"`
}

type Scene struct {
	Points   []geom.Point
	Segments [][2]geom.Point
	Options  Options
}

func (s *Scene) AddPoint(p geom.Point) {
	s.Points = append(s.Points, p)
}

func (s *Scene) AddSegment(a, b geom.Point) {
	s.Segments = append(s.Segments, [2]geom.Point{a, b})
}

// AddPath adds the segments between consecutive points, and the closing one
// when closed is set.
func (s *Scene) AddPath(points []geom.Point, closed bool) {
	for i := 0; i+1 < len(points); i++ {
		s.AddSegment(points[i], points[i+1])
	}
	if closed && len(points) > 2 {
		s.AddSegment(points[len(points)-1], points[0])
	}
}

func (s *Scene) Len() int {
	return len(s.Points) + len(s.Segments)
}

// Load reads a scene file, picking the format by extension: .yaml and .yml
// are YAML, .svg is SVG and anything else is plain text.
func Load(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening scene")
	}
	defer f.Close()

	var s *Scene
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		s, err = ParseYAML(f)
	case ".svg":
		s, err = ParseSVG(f)
	default:
		s, err = Parse(f)
	}
	return s, errors.Wrapf(err, "reading %s", path)
}

// Write emits the scene in the plain text format.
func (s *Scene) Write(w io.Writer) error {
	for _, p := range s.Points {
		if _, err := io.WriteString(w, "p "+coords(p)+"\n"); err != nil {
			return errors.Wrap(err, "writing scene")
		}
	}
	for _, seg := range s.Segments {
		if _, err := io.WriteString(w, "s "+coords(seg[0], seg[1])+"\n"); err != nil {
			return errors.Wrap(err, "writing scene")
		}
	}
	return nil
}
