package advanced

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/osuushi/segdelaunay/geom"
	"github.com/pkg/errors"
)

const fileHeader = "segdelaunay"
const fileVersion = 1

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// FileOutput writes the whole graph: registry points, input sites, vertex
// storage sites and faces. FileInput reads it back into an identical graph.
func (g *Graph) FileOutput(w io.Writer) error {
	out := bufio.NewWriter(w)

	// Slots are renumbered densely so a fresh registry reproduces them.
	slots := map[int]int{}
	var order []int
	for index, record := range g.reg.records {
		if index > 0 && record.live {
			order = append(order, index)
		}
	}
	for i, index := range order {
		slots[index] = i + 1
	}
	ref := func(p pointRef) string {
		if !p.crossing {
			return strconv.Itoa(slots[p.at.index])
		}
		return fmt.Sprintf("x %d %d %d %d",
			slots[p.cross[0][0].index], slots[p.cross[0][1].index],
			slots[p.cross[1][0].index], slots[p.cross[1][1].index])
	}

	fmt.Fprintf(out, "%s %d\n", fileHeader, fileVersion)
	fmt.Fprintf(out, "intersections %t\n", g.opts.SupportIntersections)
	fmt.Fprintf(out, "points %d\n", len(order))
	for _, index := range order {
		p := g.reg.records[index].point
		fmt.Fprintf(out, "%s %s\n", formatFloat(p.X), formatFloat(p.Y))
	}
	inputs := g.reg.inputStorage()
	fmt.Fprintf(out, "inputs %d\n", len(inputs))
	for _, s := range inputs {
		if s.IsPoint() {
			fmt.Fprintf(out, "p %d\n", slots[s.point.at.index])
		} else {
			fmt.Fprintf(out, "s %d %d\n", slots[s.support[0].index], slots[s.support[1].index])
		}
	}
	fmt.Fprintf(out, "vertices %d\n", len(g.vertices))
	for _, v := range g.vertices {
		s := v.storage
		if s.IsPoint() {
			fmt.Fprintf(out, "p %s\n", ref(s.point))
		} else {
			fmt.Fprintf(out, "s %d %d %s %s\n",
				slots[s.support[0].index], slots[s.support[1].index], ref(s.source), ref(s.target))
		}
	}
	vertexIndex := func(v *Vertex) int {
		if v.infinite {
			return 0
		}
		return v.slot + 1
	}
	fmt.Fprintf(out, "faces %d\n", len(g.faces))
	for _, f := range g.faces {
		fmt.Fprintf(out, "%d %d %d %d %d %d\n",
			vertexIndex(f.v[0]), vertexIndex(f.v[1]), vertexIndex(f.v[2]),
			f.n[0].slot, f.n[1].slot, f.n[2].slot)
	}
	fmt.Fprintln(out, "end")
	return errors.Wrap(out.Flush(), "writing graph")
}

type tokenReader struct {
	scanner *bufio.Scanner
}

func (r *tokenReader) word() (string, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return r.scanner.Text(), nil
}

func (r *tokenReader) expect(want string) error {
	got, err := r.word()
	if err != nil {
		return err
	}
	if got != want {
		return errors.Errorf("expected %q, got %q", want, got)
	}
	return nil
}

func (r *tokenReader) integer() (int, error) {
	w, err := r.word()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(w)
	return n, errors.Wrapf(err, "parsing %q", w)
}

func (r *tokenReader) number() (float64, error) {
	w, err := r.word()
	if err != nil {
		return 0, err
	}
	x, err := strconv.ParseFloat(w, 64)
	return x, errors.Wrapf(err, "parsing %q", w)
}

func (r *tokenReader) count(name string) (int, error) {
	if err := r.expect(name); err != nil {
		return 0, err
	}
	n, err := r.integer()
	if err == nil && n < 0 {
		err = errors.Errorf("negative %s count", name)
	}
	return n, err
}

// FileInput replaces the contents of g with a graph written by FileOutput.
// On error g is left unchanged.
func (g *Graph) FileInput(r io.Reader) (err error) {
	defer func() {
		if recovered := HandleGraphPanicRecover(recover()); recovered != nil {
			err = errors.Wrap(recovered, "reading graph")
		}
	}()
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	in := &tokenReader{scanner}

	if err := in.expect(fileHeader); err != nil {
		return errors.Wrap(err, "reading graph header")
	}
	version, err := in.integer()
	if err != nil {
		return errors.Wrap(err, "reading graph version")
	}
	if version != fileVersion {
		return errors.Errorf("unsupported graph file version %d", version)
	}
	if err := in.expect("intersections"); err != nil {
		return err
	}
	flag, err := in.word()
	if err != nil {
		return err
	}
	intersections, err := strconv.ParseBool(flag)
	if err != nil {
		return errors.Wrap(err, "reading intersections flag")
	}

	reg := NewRegistry()
	npoints, err := in.count("points")
	if err != nil {
		return err
	}
	handles := make([]PointHandle, npoints+1)
	for i := 1; i <= npoints; i++ {
		x, err := in.number()
		if err != nil {
			return errors.Wrapf(err, "reading point %d", i)
		}
		y, err := in.number()
		if err != nil {
			return errors.Wrapf(err, "reading point %d", i)
		}
		h, created := reg.Register(geom.Point{X: x, Y: y})
		if !created {
			return errors.Errorf("point %d repeats an earlier point", i)
		}
		handles[i] = h
	}
	handle := func() (PointHandle, error) {
		i, err := in.integer()
		if err != nil {
			return PointHandle{}, err
		}
		if i < 1 || i > npoints {
			return PointHandle{}, errors.Errorf("point index %d out of range", i)
		}
		return handles[i], nil
	}
	ref := func() (pointRef, error) {
		w, err := in.word()
		if err != nil {
			return pointRef{}, err
		}
		if w != "x" {
			i, err := strconv.Atoi(w)
			if err != nil || i < 1 || i > npoints {
				return pointRef{}, errors.Errorf("bad point reference %q", w)
			}
			return pointRef{at: handles[i]}, nil
		}
		p := pointRef{crossing: true}
		for k := 0; k < 4; k++ {
			h, err := handle()
			if err != nil {
				return pointRef{}, err
			}
			p.cross[k/2][k%2] = h
		}
		return p, nil
	}

	ninputs, err := in.count("inputs")
	if err != nil {
		return err
	}
	for i := 0; i < ninputs; i++ {
		kind, err := in.word()
		if err != nil {
			return err
		}
		h0, err := handle()
		if err != nil {
			return err
		}
		switch kind {
		case "p":
			reg.registerInputPoint(h0)
		case "s":
			h1, err := handle()
			if err != nil {
				return err
			}
			reg.registerInputSegment(h0, h1)
		default:
			return errors.Errorf("unknown input site kind %q", kind)
		}
	}

	c := &Graph{tds: newTDS(), opts: g.opts, pred: g.pred, log: g.log, reg: reg}
	c.opts.SupportIntersections = intersections
	if g.locator != nil {
		c.locator = newLocator()
	}
	nvertices, err := in.count("vertices")
	if err != nil {
		return err
	}
	for i := 0; i < nvertices; i++ {
		kind, err := in.word()
		if err != nil {
			return err
		}
		var s StorageSite
		switch kind {
		case "p":
			p, err := ref()
			if err != nil {
				return err
			}
			s = StorageSite{kind: geom.PointKind, point: p}
		case "s":
			s.kind = geom.SegmentKind
			for k := 0; k < 2; k++ {
				if s.support[k], err = handle(); err != nil {
					return err
				}
			}
			if s.source, err = ref(); err != nil {
				return err
			}
			if s.target, err = ref(); err != nil {
				return err
			}
		default:
			return errors.Errorf("unknown vertex kind %q", kind)
		}
		c.addVertex(s)
	}

	nfaces, err := in.count("faces")
	if err != nil {
		return err
	}
	vertex := func(i int) (*Vertex, error) {
		if i == 0 {
			return c.infinite, nil
		}
		if i < 1 || i > nvertices {
			return nil, errors.Errorf("vertex index %d out of range", i)
		}
		return c.vertices[i-1], nil
	}
	neighbors := make([][3]int, nfaces)
	for i := 0; i < nfaces; i++ {
		var vs [3]*Vertex
		for k := 0; k < 3; k++ {
			n, err := in.integer()
			if err != nil {
				return err
			}
			if vs[k], err = vertex(n); err != nil {
				return err
			}
		}
		for k := 0; k < 3; k++ {
			if neighbors[i][k], err = in.integer(); err != nil {
				return err
			}
			if neighbors[i][k] < 0 || neighbors[i][k] >= nfaces {
				return errors.Errorf("face index %d out of range", neighbors[i][k])
			}
		}
		f := c.newFace(vs[0], vs[1], vs[2])
		for _, v := range vs {
			v.face = f
		}
	}
	for i, f := range c.faces {
		for k := 0; k < 3; k++ {
			f.n[k] = c.faces[neighbors[i][k]]
		}
	}
	if err := in.expect("end"); err != nil {
		return err
	}
	if !c.IsValid(false, 0) {
		return errors.New("graph file describes an invalid triangulation")
	}
	version = g.version
	*g = *c
	g.version = version + 1
	return nil
}

// WriteSites writes the input sites in the scene text format, one site per
// line.
func (g *Graph) WriteSites(w io.Writer) error {
	out := bufio.NewWriter(w)
	for _, s := range g.InputSites() {
		if s.IsPoint() {
			p := s.Point()
			fmt.Fprintf(out, "p %s %s\n", formatFloat(p.X), formatFloat(p.Y))
			continue
		}
		a, b := s.SourcePoint(), s.TargetPoint()
		fmt.Fprintf(out, "s %s %s %s %s\n", formatFloat(a.X), formatFloat(a.Y), formatFloat(b.X), formatFloat(b.Y))
	}
	return errors.Wrap(out.Flush(), "writing sites")
}
