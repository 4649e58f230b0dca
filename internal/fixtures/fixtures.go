// Package fixtures holds the scenes used by tests. Scenes in scenes/ are
// available by file name; a few more are generated in code.
package fixtures

import (
	"embed"
	"io/fs"
	"log"
	"math"
	"path"
	"sort"
	"strings"

	"github.com/osuushi/segdelaunay/geom"
	"github.com/osuushi/segdelaunay/scene"
)

//go:embed scenes
var scenes embed.FS

// Load returns the scene stored under name, with its extension. If anything
// goes wrong it exits, since a broken fixture is a broken test suite.
func Load(name string) *scene.Scene {
	f, err := scenes.Open("scenes/" + name)
	if err != nil {
		log.Fatalf("Could not load fixture %q: %v", name, err)
	}
	defer f.Close()

	var s *scene.Scene
	switch path.Ext(name) {
	case ".yaml":
		s, err = scene.ParseYAML(f)
	case ".svg":
		s, err = scene.ParseSVG(f)
	default:
		s, err = scene.Parse(f)
	}
	if err != nil {
		log.Fatalf("Failed to parse fixture %q: %v", name, err)
	}
	return s
}

// Names lists the stored scenes in lexical order.
func Names() []string {
	entries, err := fs.ReadDir(scenes, "scenes")
	if err != nil {
		log.Fatalf("Could not list fixtures: %v", err)
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names
}

// Star is a closed star outline with the given number of tips, slightly
// rotated so that no two vertices share a coordinate.
func Star(tips int, outer, inner float64) *scene.Scene {
	var points []geom.Point
	for i := 0; i < 2*tips; i++ {
		radius := outer
		if i%2 == 1 {
			radius = inner
		}
		angle := 0.1 + math.Pi*float64(i)/float64(tips)
		points = append(points, geom.Point{X: radius * math.Cos(angle), Y: radius * math.Sin(angle)})
	}
	s := &scene.Scene{}
	s.AddPath(points, true)
	return s
}

// Lattice is a jittered grid of points. The jitter is deterministic.
func Lattice(n int, spacing float64) *scene.Scene {
	s := &scene.Scene{}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			jx := 0.1 * spacing * math.Sin(float64(7*i+3*j))
			jy := 0.1 * spacing * math.Cos(float64(5*i+11*j))
			s.AddPoint(geom.Point{X: float64(i)*spacing + jx, Y: float64(j)*spacing + jy})
		}
	}
	return s
}
