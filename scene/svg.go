package scene

import (
	"io"
	"strconv"
	"strings"

	"github.com/JoshVarga/svgparser"
	"github.com/osuushi/segdelaunay/geom"
	"github.com/pkg/errors"
)

// ParseSVG reads a drawing. This is not a full svg parser: transforms, paths
// and styles are ignored. Circles become points at their centers, lines
// become segments, and polylines and polygons become chains of segments. A
// root element with data-intersections="true" turns on intersection support.
func ParseSVG(r io.Reader) (*Scene, error) {
	root, err := svgparser.Parse(r, false)
	if err != nil {
		return nil, errors.Wrap(err, "parsing svg scene")
	}

	s := &Scene{}
	s.Options.Intersections = root.Attributes["data-intersections"] == "true"

	for _, el := range root.FindAll("circle") {
		values, err := svgAttributes(el, "cx", "cy")
		if err != nil {
			return nil, err
		}
		s.AddPoint(geom.Point{X: values[0], Y: values[1]})
	}
	for _, el := range root.FindAll("line") {
		values, err := svgAttributes(el, "x1", "y1", "x2", "y2")
		if err != nil {
			return nil, err
		}
		s.AddSegment(geom.Point{X: values[0], Y: values[1]}, geom.Point{X: values[2], Y: values[3]})
	}
	for _, name := range []string{"polyline", "polygon"} {
		for _, el := range root.FindAll(name) {
			points, err := svgPoints(el.Attributes["points"])
			if err != nil {
				return nil, errors.Wrapf(err, "%s points", name)
			}
			s.AddPath(points, name == "polygon")
		}
	}
	return s, nil
}

func svgAttributes(el *svgparser.Element, names ...string) ([]float64, error) {
	values := make([]float64, len(names))
	for i, name := range names {
		raw, ok := el.Attributes[name]
		if !ok {
			return nil, errors.Errorf("%s is missing %q", el.Name, name)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "%s attribute %q", el.Name, name)
		}
		values[i] = v
	}
	return values, nil
}

// svgPoints parses "x,y x,y ..." lists. Commas and whitespace are
// interchangeable separators.
func svgPoints(raw string) ([]geom.Point, error) {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields)%2 != 0 {
		return nil, errors.Errorf("odd number of coordinates in %q", raw)
	}
	values, err := parseFloats(fields)
	if err != nil {
		return nil, err
	}
	points := make([]geom.Point, 0, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		points = append(points, geom.Point{X: values[i], Y: values[i+1]})
	}
	return points, nil
}
