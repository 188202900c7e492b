package fluid

import "fmt"

// Shape is the geometry of a fixture in body local coordinates. The set of kinds is closed,
// so callers switch on Kind() rather than going through an interface.
type Shape struct {
	kind int

	// circle: center and radius
	c Vector
	r float64

	// segment end points
	a, b Vector

	// poly vertices
	verts []Vector
}

type ShapeMassInfo struct {
	m, i, area float64
	cog        Vector
}

func (info ShapeMassInfo) Mass() float64 {
	return info.m
}

func (info ShapeMassInfo) Moment() float64 {
	return info.i
}

func (info ShapeMassInfo) Area() float64 {
	return info.area
}

func (info ShapeMassInfo) CenterOfGravity() Vector {
	return info.cog
}

func (s *Shape) String() string {
	switch s.kind {
	case SHAPE_CLASS_CIRCLE:
		return fmt.Sprintf("Circle(c=%v r=%f)", s.c, s.r)
	case SHAPE_CLASS_SEGMENT:
		return fmt.Sprintf("Segment(%v %v)", s.a, s.b)
	case SHAPE_CLASS_POLY:
		return fmt.Sprintf("Poly(%d verts)", len(s.verts))
	}
	return "Shape(?)"
}

func (s *Shape) Kind() int {
	return s.kind
}

func (s *Shape) Area() float64 {
	switch s.kind {
	case SHAPE_CLASS_CIRCLE:
		return AreaForCircle(0, s.r)
	case SHAPE_CLASS_POLY:
		return AreaForPoly(s.verts, 0)
	}
	return 0
}

// MassInfo returns the mass properties of the shape filled with the given density.
// Segments are treated as massless.
func (s *Shape) MassInfo(density float64) ShapeMassInfo {
	switch s.kind {
	case SHAPE_CLASS_CIRCLE:
		return CircleShapeMassInfo(density*AreaForCircle(0, s.r), s.r, s.c)
	case SHAPE_CLASS_POLY:
		return PolyShapeMassInfo(density*AreaForPoly(s.verts, 0), s.verts)
	}
	return ShapeMassInfo{}
}
