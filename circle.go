package fluid

import "math"

func NewCircle(radius float64, offset Vector) *Shape {
	return &Shape{
		kind: SHAPE_CLASS_CIRCLE,
		c:    offset,
		r:    radius,
	}
}

func CircleShapeMassInfo(mass, radius float64, center Vector) ShapeMassInfo {
	return ShapeMassInfo{
		m:    mass,
		i:    MomentForCircle(mass, 0, radius, Vector{}),
		cog:  center,
		area: AreaForCircle(0, radius),
	}
}

func (circle *Shape) Radius() float64 {
	return circle.r
}

// Offset is the circle center in body local coordinates.
func (circle *Shape) Offset() Vector {
	return circle.c
}

/// Calculate the moment of inertia for a circle.
/// r1 and r2 are the inner and outer diameters. A solid circle has an inner diameter of 0.
func MomentForCircle(m, r1, r2 float64, offset Vector) float64 {
	return m * (0.5*(r1*r1+r2*r2) + offset.LengthSq())
}

/// Calculate area of a hollow circle.
/// r1 and r2 are the inner and outer diameters. A solid circle has an inner diameter of 0.
func AreaForCircle(r1, r2 float64) float64 {
	return math.Pi * math.Abs(r1*r1-r2*r2)
}

// CircleVertices approximates a circle with ceil(resolution*radius) points, clamped to
// [1, MAX_CIRCLE_VERTICES], spaced evenly by angle starting at angle 0. NaN counts as 1.
// The points are appended to dst[:0]. Radii close to zero give fewer than three points;
// callers must check before clipping.
func CircleVertices(center Vector, radius, resolution float64, dst []Vector) []Vector {
	n := math.Ceil(resolution * radius)
	count := 1
	switch {
	case n > MAX_CIRCLE_VERTICES:
		count = MAX_CIRCLE_VERTICES
	case n > 1:
		count = int(n)
	}

	dst = dst[:0]
	delta := 2 * math.Pi / float64(count)
	for i := 0; i < count; i++ {
		dst = append(dst, center.Add(ForAngle(delta*float64(i)).Mult(radius)))
	}
	return dst
}
