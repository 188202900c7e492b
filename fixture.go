package fluid

// BodyState is what the force model needs from the body a fixture is attached to.
// *Body implements it; hosts with their own body type can too.
//
// The force methods must accumulate. If two fluids can touch the same body in one step
// and the calls may come from different goroutines, the implementation has to be safe for
// that, or the caller has to serialize per body the way ApplyAll does.
type BodyState interface {
	LocalToWorld(point Vector) Vector
	VelocityAtWorldPoint(point Vector) Vector
	ApplyForceAtWorldPoint(force, point Vector, wake bool)
	ApplyForceToCenter(force Vector, wake bool)
}

// Fixture binds a shape to a body.
type Fixture struct {
	Shape   *Shape
	Body    BodyState
	Density float64

	UserData interface{}
}

func NewFixture(body BodyState, shape *Shape) *Fixture {
	return &Fixture{
		Shape: shape,
		Body:  body,
	}
}

// BB returns the world space bounding box of the fixture.
func (f *Fixture) BB() BB {
	s := f.Shape
	switch s.kind {
	case SHAPE_CLASS_CIRCLE:
		return NewBBForCircle(f.Body.LocalToWorld(s.c), s.r)
	case SHAPE_CLASS_SEGMENT:
		return NewBBForPoints(nil).Expand(f.Body.LocalToWorld(s.a)).Expand(f.Body.LocalToWorld(s.b))
	case SHAPE_CLASS_POLY:
		bb := NewBBForPoints(nil)
		for _, v := range s.verts {
			bb = bb.Expand(f.Body.LocalToWorld(v))
		}
		return bb
	}
	return NewBBForPoints(nil)
}
