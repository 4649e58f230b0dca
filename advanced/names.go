package advanced

import (
	"fmt"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/osuushi/segdelaunay/dbg"
)

// DbgName is a colored readable name for the vertex: cyan for the infinite
// vertex, yellow for crossing points, green for other points and red for
// segments.
func (v *Vertex) DbgName() string {
	name := dbg.Name(v)
	switch {
	case v.infinite:
		name = aurora.Cyan("∞").String()
	case v.site.IsPoint() && v.site.Def.Crossing:
		name = aurora.Yellow(name).String()
	case v.site.IsPoint():
		name = aurora.Green(name).String()
	default:
		name = aurora.Red(name).String()
	}
	return name
}

func (v *Vertex) String() string {
	if v.infinite {
		return "Vertex{∞}"
	}
	return fmt.Sprintf("Vertex{%s %v}", dbg.Name(v), v.site)
}

func (f *Face) DbgName() string {
	name := dbg.Name(f)
	if f.IsInfinite() {
		return aurora.Cyan(name).String()
	}
	return aurora.Green(name).String()
}

func (f *Face) String() string {
	var parts []string
	for _, v := range f.v {
		parts = append(parts, v.DbgName())
	}
	return fmt.Sprintf("Face{%s: %s}", dbg.Name(f), strings.Join(parts, ", "))
}
