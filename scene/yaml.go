package scene

import (
	"io"

	"github.com/osuushi/segdelaunay/geom"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// yamlScene is the document layout:
//
//	options:
//	  intersections: true
//	points:
//	  - [1, 2]
//	segments:
//	  - [0, 0, 4, 3]
//	paths:
//	  - closed: true
//	    points: [[0, 0], [4, 0], [4, 4]]
type yamlScene struct {
	Options  Options     `yaml:"options"`
	Points   [][]float64 `yaml:"points"`
	Segments [][]float64 `yaml:"segments"`
	Paths    []yamlPath  `yaml:"paths"`
}

type yamlPath struct {
	Closed bool        `yaml:"closed"`
	Points [][]float64 `yaml:"points"`
}

func ParseYAML(r io.Reader) (*Scene, error) {
	var doc yamlScene
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decoding yaml scene")
	}

	s := &Scene{Options: doc.Options}
	for i, values := range doc.Points {
		p, err := yamlPoint(values)
		if err != nil {
			return nil, errors.Wrapf(err, "point %d", i)
		}
		s.AddPoint(p)
	}
	for i, values := range doc.Segments {
		if len(values) != 4 {
			return nil, errors.Errorf("segment %d: need 4 coordinates, got %d", i, len(values))
		}
		s.AddSegment(geom.Point{X: values[0], Y: values[1]}, geom.Point{X: values[2], Y: values[3]})
	}
	for i, path := range doc.Paths {
		points := make([]geom.Point, 0, len(path.Points))
		for j, values := range path.Points {
			p, err := yamlPoint(values)
			if err != nil {
				return nil, errors.Wrapf(err, "path %d point %d", i, j)
			}
			points = append(points, p)
		}
		s.AddPath(points, path.Closed)
	}
	return s, nil
}

func yamlPoint(values []float64) (geom.Point, error) {
	if len(values) != 2 {
		return geom.Point{}, errors.Errorf("need 2 coordinates, got %d", len(values))
	}
	return geom.Point{X: values[0], Y: values[1]}, nil
}
