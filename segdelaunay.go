// An incremental segment Delaunay graph for Go.
//
// This package builds the Delaunay graph of a set of points and segments: the
// dual of their Voronoi diagram, where sites are closest by Euclidean
// distance. Segments may share endpoints, and when intersection support is
// on they may also cross, in which case crossing points are added and the
// segments are split.
//
// The functions here recover internal failures into errors. The advanced
// package has the full incremental API.
package segdelaunay

import (
	"github.com/osuushi/segdelaunay/advanced"
	"github.com/osuushi/segdelaunay/geom"
	"github.com/osuushi/segdelaunay/scene"
)

type Point = geom.Point
type Site = geom.Site
type Graph = advanced.Graph
type Vertex = advanced.Vertex
type Face = advanced.Face
type Edge = advanced.Edge
type Options = advanced.Options
type Scene = scene.Scene

var ErrIntersectingSegments = advanced.ErrIntersectingSegments

func DefaultOptions() Options {
	return advanced.DefaultOptions()
}

func New(opts Options) *Graph {
	return advanced.NewGraph(opts)
}

// Build a graph of points.
func FromPoints(points []Point, opts Options) (result *Graph, err error) {
	defer func() {
		recoveredErr := advanced.HandleGraphPanicRecover(recover())
		if recoveredErr != nil {
			result = nil
			err = recoveredErr
		}
	}()
	g := advanced.NewGraph(opts)
	if _, err := g.InsertPoints(points, true); err != nil {
		return nil, err
	}
	return g, nil
}

// Build a graph of a scene. Points go in first, then segments in scene order.
// A scene that asks for intersections turns them on even when opts does not.
func FromScene(s *Scene, opts Options) (result *Graph, err error) {
	defer func() {
		recoveredErr := advanced.HandleGraphPanicRecover(recover())
		if recoveredErr != nil {
			result = nil
			err = recoveredErr
		}
	}()
	if s.Options.Intersections {
		opts.SupportIntersections = true
	}
	g := advanced.NewGraph(opts)
	if _, err := g.InsertPoints(s.Points, false); err != nil {
		return nil, err
	}
	if _, err := g.InsertSegments(s.Segments); err != nil {
		return nil, err
	}
	return g, nil
}

// Load a scene file and build its graph.
func Load(path string, opts Options) (*Graph, error) {
	s, err := scene.Load(path)
	if err != nil {
		return nil, err
	}
	return FromScene(s, opts)
}
