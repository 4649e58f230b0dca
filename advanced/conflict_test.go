package advanced

import (
	"bytes"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/osuushi/segdelaunay/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestEdgeList(t *testing.T) {
	f := &Face{}
	e := func(i int) Edge { return Edge{f, i} }

	l := newEdgeList()
	assert.Empty(t, l.slice())
	l.pushBack(e(0))
	l.pushBack(e(2))
	l.insertBefore(e(2), e(1))
	assert.Equal(t, []Edge{e(0), e(1), e(2)}, l.slice())

	other := &Face{}
	l.insertAfter(e(2), Edge{other, 0})
	assert.Equal(t, []Edge{e(0), e(1), e(2), {other, 0}}, l.slice())
	assert.True(t, l.contains(Edge{other, 0}))

	l.replace(e(1), Edge{other, 1})
	assert.False(t, l.contains(e(1)))
	assert.Equal(t, []Edge{e(0), {other, 1}, e(2), {other, 0}}, l.slice())

	l.remove(e(0))
	assert.Equal(t, []Edge{{other, 1}, e(2), {other, 0}}, l.slice(), "removing the head moves it along")
	assert.Equal(t, 3, l.len())

	err := catchGraphError(func() { l.remove(e(0)) })
	assert.Error(t, err)

	for _, edge := range l.slice() {
		l.remove(edge)
	}
	assert.Equal(t, 0, l.len())
	assert.Empty(t, l.slice())
}

func TestFindConflictRegion(t *testing.T) {
	g := newTestGraph(t, false)
	_, err := g.InsertPoints(randomPoints(11, 40), false)
	require.NoError(t, err)

	q := geom.NewPoint(pt(47.5, 52.5))
	v := g.nearestVertex(q, nil)
	start, _ := g.startFace(v, q)
	require.NotNil(t, start)
	r := g.findConflictRegion(start, q)
	require.NotEmpty(t, r.order)
	assert.Nil(t, r.cross)

	// A disk of triangles has a boundary of F+2 edges.
	assert.Equal(t, len(r.order)+2, r.boundary.len())
	for _, f := range r.order {
		assert.Equal(t, geom.Negative, g.incircle(f, q))
	}
	for _, edge := range r.boundary.slice() {
		assert.False(t, r.faces[edge.Face], "boundary edges are seen from outside")
	}
}

func TestWritePNG(t *testing.T) {
	g := newTestGraph(t, false)
	_, err := g.InsertSegment(pt(0, 0), pt(10, 3))
	require.NoError(t, err)
	_, err = g.InsertPoints([]geom.Point{pt(2, 6), pt(8, -4), pt(12, 9)}, false)
	require.NoError(t, err)

	opts := DefaultDrawOptions()
	opts.Labels = true
	var out bytes.Buffer
	require.NoError(t, g.WritePNG(&out, opts))
	img, err := png.Decode(&out)
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dx(), 2*drawPadding)
}

func TestDrawToTerminal(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	opts := DefaultOptions()
	opts.Logger = zap.New(core)
	g := NewGraph(opts)
	_, err := g.InsertPoints([]geom.Point{pt(0, 0), pt(4, 1), pt(1, 3)}, false)
	require.NoError(t, err)

	var out bytes.Buffer
	g.drawToTerminal(filepath.Join(t.TempDir(), "missing", "graph.png"), &out, 10)
	assert.Equal(t, 1, logs.FilterMessage("saving debug drawing").Len())
	assert.Zero(t, out.Len())

	g.drawToTerminal(filepath.Join(t.TempDir(), "graph.png"), &out, 10)
	assert.Equal(t, 1, logs.Len(), "a picture that was saved prints cleanly")
	assert.Greater(t, out.Len(), 0)
}
