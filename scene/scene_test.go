package scene

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/osuushi/segdelaunay/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pt(x, y float64) geom.Point { return geom.Point{X: x, Y: y} }

func TestParse(t *testing.T) {
	s, err := Parse(strings.NewReader(`
# a comment
p 1 2
3.5 -4
s 0 0 10 1e1

s -1 -1 1 1
`))
	require.NoError(t, err)
	assert.Equal(t, []geom.Point{pt(1, 2), pt(3.5, -4)}, s.Points)
	assert.Equal(t, [][2]geom.Point{{pt(0, 0), pt(10, 10)}, {pt(-1, -1), pt(1, 1)}}, s.Segments)
	assert.Equal(t, 4, s.Len())
	assert.False(t, s.Options.Intersections)
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"short point", "p 1", "line 1"},
		{"short segment", "p 1 1\ns 1 2 3", "line 2"},
		{"bad number", "s 1 2 x 4", "invalid coordinate"},
		{"unknown kind", "q 1 2", "unknown site kind"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(c.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), c.want)
		})
	}
}

func TestWrite(t *testing.T) {
	s := &Scene{}
	s.AddPoint(pt(1.25, 2))
	s.AddSegment(pt(0, 0), pt(-3, 4))
	var out bytes.Buffer
	require.NoError(t, s.Write(&out))
	assert.Equal(t, "p 1.25 2\ns 0 0 -3 4\n", out.String())

	back, err := Parse(&out)
	require.NoError(t, err)
	assert.Equal(t, s.Points, back.Points)
	assert.Equal(t, s.Segments, back.Segments)
}

func TestAddPath(t *testing.T) {
	square := []geom.Point{pt(0, 0), pt(1, 0), pt(1, 1), pt(0, 1)}
	open := &Scene{}
	open.AddPath(square, false)
	assert.Len(t, open.Segments, 3)

	closed := &Scene{}
	closed.AddPath(square, true)
	require.Len(t, closed.Segments, 4)
	assert.Equal(t, [2]geom.Point{pt(0, 1), pt(0, 0)}, closed.Segments[3])
}

func TestParseYAML(t *testing.T) {
	s, err := ParseYAML(strings.NewReader(`
options:
  intersections: true
points:
  - [1, 2]
segments:
  - [0, 0, 4, 3]
paths:
  - closed: true
    points: [[0, 0], [4, 0], [4, 4]]
`))
	require.NoError(t, err)
	assert.True(t, s.Options.Intersections)
	assert.Equal(t, []geom.Point{pt(1, 2)}, s.Points)
	assert.Len(t, s.Segments, 4)

	_, err = ParseYAML(strings.NewReader("points:\n  - [1, 2, 3]\n"))
	assert.Error(t, err)

	empty, err := ParseYAML(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())
}

func TestParseSVG(t *testing.T) {
	s, err := ParseSVG(strings.NewReader(`<svg xmlns="http://www.w3.org/2000/svg" data-intersections="true">
<circle cx="5" cy="6" r="1"/>
<line x1="0" y1="0" x2="10" y2="0"/>
<polyline points="0,1 2,3 4,5"/>
<polygon points="20,20 30,20 25,28"/>
</svg>`))
	require.NoError(t, err)
	assert.True(t, s.Options.Intersections)
	assert.Equal(t, []geom.Point{pt(5, 6)}, s.Points)
	assert.Len(t, s.Segments, 1+2+3)

	_, err = ParseSVG(strings.NewReader(`<svg><line x1="0" y1="0" x2="10"/></svg>`))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	s, err := Load(write("a.txt", "p 1 1\n"))
	require.NoError(t, err)
	assert.Len(t, s.Points, 1)

	s, err = Load(write("b.yml", "points: [[1, 1], [2, 2]]\n"))
	require.NoError(t, err)
	assert.Len(t, s.Points, 2)

	s, err = Load(write("c.SVG", `<svg><circle cx="1" cy="1" r="1"/><circle cx="2" cy="1" r="1"/><circle cx="3" cy="1" r="1"/></svg>`))
	require.NoError(t, err)
	assert.Len(t, s.Points, 3)

	_, err = Load(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}
