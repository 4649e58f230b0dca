package advanced

import (
	"io"
	"math"
	"os"

	"github.com/fogleman/gg"
	imgcat "github.com/martinlindhe/imgcat/lib"
	"github.com/osuushi/segdelaunay/dbg"
	"github.com/osuushi/segdelaunay/geom"
	"go.uber.org/zap"
	"golang.org/x/image/font/basicfont"
)

// Padding around the sites so rays and the hull stay visible
const drawPadding = 100

// DrawOptions choose what Draw renders.
type DrawOptions struct {
	Scale    float64
	Delaunay bool
	Voronoi  bool
	Labels   bool
}

func DefaultDrawOptions() DrawOptions {
	return DrawOptions{Scale: 20, Delaunay: true, Voronoi: true}
}

// bounds of every site in the graph
func (g *Graph) bounds() (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	add := func(p geom.Point) {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	for _, v := range g.vertices {
		if v.IsPoint() {
			add(v.site.Point())
		} else {
			add(v.site.SourcePoint())
			add(v.site.TargetPoint())
		}
	}
	if len(g.vertices) == 0 {
		return 0, 0, 1, 1
	}
	return
}

// NewContext makes a context that fits the graph at the given scale, with
// the origin at the bottom left.
func (g *Graph) NewContext(scale float64) *gg.Context {
	minX, minY, maxX, maxY := g.bounds()
	width := int(scale*(maxX-minX)) + drawPadding*2
	height := int(scale*(maxY-minY)) + drawPadding*2
	c := gg.NewContext(width, height)
	c.SetRGB(0, 0, 0)
	c.DrawRectangle(0, 0, float64(width), float64(height))
	c.Fill()
	// Flip the context so the origin is at the bottom left
	c.Translate(0, float64(height))
	c.Scale(1, -1)
	c.Translate(drawPadding, drawPadding)
	c.Scale(scale, scale)
	c.Translate(-minX, -minY)
	c.SetFontFace(basicfont.Face7x13)
	return c
}

// Draw renders the graph into c.
func (g *Graph) Draw(c *gg.Context, opts DrawOptions) {
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	minX, minY, maxX, maxY := g.bounds()
	reach := math.Hypot(maxX-minX, maxY-minY) + 2*drawPadding/opts.Scale

	c.SetLineWidth(1)
	if opts.Delaunay {
		c.SetRGBA(0.4, 0.4, 1, 0.8)
		for _, e := range g.FiniteEdges().Edges() {
			p, q := e.Vertices()
			a, b := anchor(p.site), anchor(q.site)
			c.DrawLine(a.X, a.Y, b.X, b.Y)
			c.Stroke()
		}
	}
	if opts.Voronoi {
		if _, ok := g.pred.(geom.Constructions); ok && len(g.vertices) >= 2 {
			c.SetRGBA(1, 1, 0, 0.8)
			for _, e := range g.FiniteEdges().Edges() {
				pts := g.Primal(e).Sample(24, reach)
				for i, p := range pts {
					if i == 0 {
						c.MoveTo(p.X, p.Y)
					} else {
						c.LineTo(p.X, p.Y)
					}
				}
				c.Stroke()
			}
		}
	}

	c.SetLineWidth(3)
	for _, v := range g.vertices {
		if v.IsSegment() {
			a, b := v.site.SourcePoint(), v.site.TargetPoint()
			c.SetRGB(1, 0.3, 0.3)
			c.DrawLine(a.X, a.Y, b.X, b.Y)
			c.Stroke()
		}
	}
	for _, v := range g.vertices {
		if !v.IsPoint() {
			continue
		}
		p := v.site.Point()
		if v.site.Def.Crossing {
			c.SetRGB(1, 0.6, 0)
		} else {
			c.SetRGB(1, 1, 1)
		}
		c.DrawCircle(p.X, p.Y, 3/opts.Scale)
		c.Fill()
	}
	if opts.Labels {
		for _, v := range g.vertices {
			p := anchor(v.site)
			// Text has to be drawn in device coordinates
			x, y := c.TransformPoint(p.X, p.Y)
			c.Push()
			c.Identity()
			c.SetRGB(1, 1, 1)
			c.DrawStringAnchored(dbg.Name(v), x, y-8, 0.5, 0.5)
			c.Pop()
		}
	}
}

// anchor is where edges attach to a site: the point itself or the middle of
// a segment.
func anchor(s geom.Site) geom.Point {
	if s.IsPoint() {
		return s.Point()
	}
	return s.SourcePoint().Add(s.TargetPoint()).Mul(0.5)
}

// WritePNG renders the graph as a PNG image.
func (g *Graph) WritePNG(w io.Writer, opts DrawOptions) error {
	c := g.NewContext(opts.Scale)
	g.Draw(c, opts)
	return c.EncodePNG(w)
}

// Helper to draw and print a graph in the terminal (iTerm only) for debugging.
func (g *Graph) dbgDraw(scale float64) {
	g.drawToTerminal("/tmp/segdelaunay.png", os.Stdout, scale)
}

// drawToTerminal saves a picture of the graph at path and prints it to out.
// Failures only get logged.
func (g *Graph) drawToTerminal(path string, out io.Writer, scale float64) {
	opts := DefaultDrawOptions()
	opts.Scale = scale
	opts.Labels = true
	c := g.NewContext(scale)
	g.Draw(c, opts)
	if err := c.SavePNG(path); err != nil {
		g.log.Warn("saving debug drawing", zap.String("path", path), zap.Error(err))
		return
	}
	if err := imgcat.CatFile(path, out); err != nil {
		g.log.Warn("printing debug drawing", zap.String("path", path), zap.Error(err))
	}
}
