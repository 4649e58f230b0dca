package scene

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/osuushi/segdelaunay/geom"
	"github.com/pkg/errors"
)

// Parse reads the plain text format.
func Parse(r io.Reader) (*Scene, error) {
	s := &Scene{}
	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := s.parseLine(line); err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNumber)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "scanning scene")
	}
	return s, nil
}

func (s *Scene) parseLine(line string) error {
	fields := strings.Fields(line)
	kind := "p"
	if _, err := strconv.ParseFloat(fields[0], 64); err != nil {
		kind, fields = fields[0], fields[1:]
	}
	values, err := parseFloats(fields)
	if err != nil {
		return err
	}

	switch kind {
	case "p":
		if len(values) != 2 {
			return errors.Errorf("a point needs 2 coordinates, got %d", len(values))
		}
		s.AddPoint(geom.Point{X: values[0], Y: values[1]})
	case "s":
		if len(values) != 4 {
			return errors.Errorf("a segment needs 4 coordinates, got %d", len(values))
		}
		s.AddSegment(geom.Point{X: values[0], Y: values[1]}, geom.Point{X: values[2], Y: values[3]})
	default:
		return errors.Errorf("unknown site kind %q", kind)
	}
	return nil
}

func parseFloats(fields []string) ([]float64, error) {
	values := make([]float64, len(fields))
	for i, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid coordinate %q", field)
		}
		values[i] = v
	}
	return values, nil
}

func coords(points ...geom.Point) string {
	parts := make([]string, 0, 2*len(points))
	for _, p := range points {
		parts = append(parts,
			strconv.FormatFloat(p.X, 'g', -1, 64),
			strconv.FormatFloat(p.Y, 'g', -1, 64))
	}
	return strings.Join(parts, " ")
}
