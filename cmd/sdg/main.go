package main

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/kr/pretty"
	imgcat "github.com/martinlindhe/imgcat/lib"
	"github.com/osuushi/segdelaunay"
	"github.com/osuushi/segdelaunay/advanced"
	"github.com/osuushi/segdelaunay/scene"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/alecthomas/kingpin.v2"
)

// Builds the segment Delaunay graph of a scene file and reports on it. The
// scene format is picked by extension (see package scene). The graph can be
// saved in the graph file format, listed as sites, or rendered to PNG.
var (
	app = kingpin.New("sdg", "Build the segment Delaunay graph of a scene.")

	scenePath     = app.Arg("scene", "Scene file (.txt, .yaml or .svg).").Required().ExistingFile()
	intersections = app.Flag("intersections", "Split crossing segments instead of failing.").Short('i').Bool()
	outPath       = app.Flag("out", "Write the graph file here.").Short('o').String()
	sites         = app.Flag("sites", "Print the input sites to stdout.").Bool()
	pngPath       = app.Flag("png", "Render the graph to this PNG file.").String()
	showImage     = app.Flag("imgcat", "Show the rendering in the terminal (iTerm).").Bool()
	scale         = app.Flag("scale", "Pixels per unit in renderings.").Default("20").Float64()
	labels        = app.Flag("labels", "Label vertices in renderings.").Bool()
	check         = app.Flag("check", "Verify the graph after building it.").Bool()
	verbose       = app.Flag("verbose", "Log engine events.").Short('v').Bool()
)

type stats struct {
	InputSites    int
	OutputSites   int
	Points        int
	Segments      int
	Crossings     int
	Faces         int
	FiniteFaces   int
	Edges         int
	Dimension     int
	Intersections bool
}

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "sdg: %v\n", err)
		os.Exit(1)
	}
}

func newLogger() (*zap.Logger, error) {
	if *verbose {
		return zap.NewDevelopment()
	}
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return config.Build()
}

func run() (err error) {
	defer func() {
		if recoveredErr := advanced.HandleGraphPanicRecover(recover()); recoveredErr != nil {
			err = recoveredErr
		}
	}()

	logger, err := newLogger()
	if err != nil {
		return errors.Wrap(err, "building logger")
	}
	defer logger.Sync()

	s, err := scene.Load(*scenePath)
	if err != nil {
		return err
	}
	opts := segdelaunay.DefaultOptions()
	opts.Logger = logger
	opts.SupportIntersections = *intersections
	g, err := segdelaunay.FromScene(s, opts)
	if err != nil {
		return errors.Wrap(err, "building graph")
	}
	logger.Info("graph built", zap.Int("sites", g.NumberOfInputSites()))

	if *check && !g.IsValid(true, 1) {
		return errors.New("graph failed validation")
	}
	pretty.Println(collectStats(g))

	if *sites {
		if err := g.WriteSites(os.Stdout); err != nil {
			return err
		}
	}
	if *outPath != "" {
		if err := writeFile(*outPath, g.FileOutput); err != nil {
			return err
		}
	}
	return render(g)
}

func collectStats(g *advanced.Graph) stats {
	st := stats{
		InputSites:    g.NumberOfInputSites(),
		OutputSites:   g.NumberOfOutputSites(),
		Faces:         g.NumberOfFaces(),
		FiniteFaces:   g.NumberOfFiniteFaces(),
		Edges:         g.NumberOfEdges(),
		Dimension:     g.Dimension(),
		Intersections: g.Options().SupportIntersections,
	}
	for iter := g.FiniteVertices(); ; {
		v := iter.Next()
		if v == nil {
			break
		}
		switch {
		case v.IsSegment():
			st.Segments++
		case v.Site().Def.Crossing:
			st.Crossings++
		default:
			st.Points++
		}
	}
	return st
}

func writeFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating output")
	}
	if err := write(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	return errors.Wrapf(f.Close(), "closing %s", path)
}

func render(g *advanced.Graph) error {
	if *pngPath == "" && !*showImage {
		return nil
	}
	opts := advanced.DefaultDrawOptions()
	opts.Scale = *scale
	opts.Labels = *labels
	draw := func(w io.Writer) error { return g.WritePNG(w, opts) }

	path := *pngPath
	if path == "" {
		f, err := ioutil.TempFile("", "sdg-*.png")
		if err != nil {
			return errors.Wrap(err, "creating temporary image")
		}
		path = f.Name()
		f.Close()
		defer os.Remove(path)
	}
	if err := writeFile(path, draw); err != nil {
		return err
	}
	if *showImage {
		return errors.Wrap(imgcat.CatFile(path, os.Stdout), "showing image")
	}
	return nil
}
