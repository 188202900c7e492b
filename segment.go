package fluid

// NewSegment creates a line segment shape. Segments have no area, so they never displace fluid.
func NewSegment(a, b Vector) *Shape {
	return &Shape{
		kind: SHAPE_CLASS_SEGMENT,
		a:    a,
		b:    b,
	}
}

func (seg *Shape) A() Vector {
	return seg.a
}

func (seg *Shape) B() Vector {
	return seg.b
}

func MomentForSegment(m float64, a, b Vector, r float64) float64 {
	offset := a.Lerp(b, 0.5)
	length := b.Distance(a) + 2.0*r
	return m * ((length*length+4.0*r*r)/12.0 + offset.LengthSq())
}
