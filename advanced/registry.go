package advanced

import (
	"sort"

	"github.com/osuushi/segdelaunay/geom"
)

// PointHandle is a stable reference to a point owned by a Registry. The zero
// value is the nil handle. A handle carries the generation of its slot, so a
// handle kept past the release of its point is detected instead of silently
// aliasing whatever point reuses the slot.
type PointHandle struct {
	index int
	gen   uint32
}

func (h PointHandle) IsNil() bool { return h.index == 0 }

// Index is the slot of the handle in its registry. Only meaningful together
// with the registry that issued it.
func (h PointHandle) Index() int { return h.index }

type pointRecord struct {
	point geom.Point
	gen   uint32
	live  bool
	refs  int
}

// inputKey identifies a registered input site: a point (second is nil) or a
// segment. Segment keys are stored with the lower slot first.
type inputKey struct {
	first, second PointHandle
	isPoint       bool
}

func newPointKey(h PointHandle) inputKey {
	return inputKey{first: h, isPoint: true}
}

func newSegmentKey(h0, h1 PointHandle) inputKey {
	if h1.index < h0.index {
		h0, h1 = h1, h0
	}
	return inputKey{first: h0, second: h1}
}

// Registry is an arena of points plus the set of input sites built from them.
// Slot 0 is never used so that the zero PointHandle is nil.
type Registry struct {
	records []pointRecord
	free    []int
	byPoint map[geom.Point]int
	inputs  map[inputKey]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		records: make([]pointRecord, 1),
		byPoint: map[geom.Point]int{},
		inputs:  map[inputKey]struct{}{},
	}
}

// Register returns the handle of p, allocating a slot if p is not known yet.
// Equal points always share a handle.
func (r *Registry) Register(p geom.Point) (h PointHandle, created bool) {
	if index, ok := r.byPoint[p]; ok {
		return PointHandle{index, r.records[index].gen}, false
	}
	var index int
	if n := len(r.free); n > 0 {
		index = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		r.records = append(r.records, pointRecord{})
		index = len(r.records) - 1
	}
	record := &r.records[index]
	record.point = p
	record.live = true
	record.refs = 0
	r.byPoint[p] = index
	return PointHandle{index, record.gen}, true
}

func (r *Registry) RegisterPair(p0, p1 geom.Point) (PointHandle, PointHandle) {
	h0, _ := r.Register(p0)
	h1, _ := r.Register(p1)
	return h0, h1
}

func (r *Registry) record(h PointHandle) *pointRecord {
	if h.IsNil() {
		preconditionf("nil point handle")
	}
	if h.index >= len(r.records) {
		preconditionf("point handle %d out of range", h.index)
	}
	record := &r.records[h.index]
	if !record.live || record.gen != h.gen {
		preconditionf("stale point handle %d (generation %d, slot is at %d)", h.index, h.gen, record.gen)
	}
	return record
}

// Valid reports whether h still refers to a live point.
func (r *Registry) Valid(h PointHandle) bool {
	if h.IsNil() || h.index >= len(r.records) {
		return false
	}
	record := r.records[h.index]
	return record.live && record.gen == h.gen
}

func (r *Registry) Point(h PointHandle) geom.Point {
	return r.record(h).point
}

// Lookup finds the handle of an already registered point.
func (r *Registry) Lookup(p geom.Point) (PointHandle, bool) {
	index, ok := r.byPoint[p]
	if !ok {
		return PointHandle{}, false
	}
	return PointHandle{index, r.records[index].gen}, true
}

// release frees the slot of h if no input site refers to it. Callers use it
// to drop handles created for an insertion that ended up not happening.
func (r *Registry) release(h PointHandle) bool {
	record := r.record(h)
	if record.refs > 0 {
		return false
	}
	delete(r.byPoint, record.point)
	record.live = false
	record.gen++
	r.free = append(r.free, h.index)
	return true
}

func (r *Registry) addKey(key inputKey) bool {
	if _, ok := r.inputs[key]; ok {
		return false
	}
	r.inputs[key] = struct{}{}
	r.record(key.first).refs++
	if !key.isPoint {
		r.record(key.second).refs++
	}
	return true
}

func (r *Registry) dropKey(key inputKey) bool {
	if _, ok := r.inputs[key]; !ok {
		return false
	}
	delete(r.inputs, key)
	r.record(key.first).refs--
	if !key.isPoint {
		r.record(key.second).refs--
	}
	return true
}

func (r *Registry) registerInputPoint(h PointHandle) bool {
	return r.addKey(newPointKey(h))
}

func (r *Registry) registerInputSegment(h0, h1 PointHandle) bool {
	return r.addKey(newSegmentKey(h0, h1))
}

func (r *Registry) isInputPoint(h PointHandle) bool {
	_, ok := r.inputs[newPointKey(h)]
	return ok
}

func (r *Registry) isInputSegment(h0, h1 PointHandle) bool {
	_, ok := r.inputs[newSegmentKey(h0, h1)]
	return ok
}

func (r *Registry) unregisterInputPoint(h PointHandle) bool {
	return r.dropKey(newPointKey(h))
}

// unregisterInputSegment drops a segment key. With keepEndpoints, each
// endpoint that no other registered segment uses becomes an input point, so
// removing a segment never loses its endpoints. Rolling back a failed
// insertion passes false.
func (r *Registry) unregisterInputSegment(h0, h1 PointHandle, keepEndpoints bool) bool {
	if !r.dropKey(newSegmentKey(h0, h1)) {
		return false
	}
	if !keepEndpoints {
		return true
	}
	for _, h := range [2]PointHandle{h0, h1} {
		if !r.isInputPoint(h) && !r.endpointShared(h) {
			r.registerInputPoint(h)
		}
	}
	return true
}

func (r *Registry) endpointShared(h PointHandle) bool {
	for key := range r.inputs {
		if !key.isPoint && (key.first == h || key.second == h) {
			return true
		}
	}
	return false
}

// NumberOfInputSites counts registered points and segments.
func (r *Registry) NumberOfInputSites() int {
	return len(r.inputs)
}

// NumberOfPoints counts live point records, input or not.
func (r *Registry) NumberOfPoints() int {
	return len(r.byPoint)
}

// inputStorage returns the registered input sites as storage sites, points
// first, each group ordered by slot.
func (r *Registry) inputStorage() []StorageSite {
	keys := make([]inputKey, 0, len(r.inputs))
	for key := range r.inputs {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.isPoint != b.isPoint {
			return a.isPoint
		}
		if a.first.index != b.first.index {
			return a.first.index < b.first.index
		}
		return a.second.index < b.second.index
	})
	sites := make([]StorageSite, len(keys))
	for i, key := range keys {
		if key.isPoint {
			sites[i] = pointStorage(key.first)
		} else {
			sites[i] = segmentStorage(key.first, key.second)
		}
	}
	return sites
}

// clone returns an independent copy. Handles stay valid across the copy.
func (r *Registry) clone() *Registry {
	c := &Registry{
		records: append([]pointRecord(nil), r.records...),
		free:    append([]int(nil), r.free...),
		byPoint: make(map[geom.Point]int, len(r.byPoint)),
		inputs:  make(map[inputKey]struct{}, len(r.inputs)),
	}
	for p, index := range r.byPoint {
		c.byPoint[p] = index
	}
	for key := range r.inputs {
		c.inputs[key] = struct{}{}
	}
	return c
}
