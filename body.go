package fluid

import (
	"fmt"
	"sync/atomic"
)

// Body is the reference rigid body. It samples velocities for the force model and
// accumulates the forces it applies until the next UpdateVelocity.
//
// Body does no locking. Forces for one body must come from one goroutine at a time;
// ApplyAll arranges that.
type Body struct {
	id int64

	bodyType int

	// mass and it's inverse
	m     float64
	m_inv float64

	// moment of inertia and it's inverse
	i     float64
	i_inv float64

	// center of gravity
	cog Vector

	// position, velocity, force
	p Vector
	v Vector
	f Vector

	// Angle, angular velocity, torque (radians)
	a float64
	w float64
	t float64

	transform Transform

	sleeping bool

	fixtures []*Fixture

	UserData interface{}
}

func (b *Body) String() string {
	return fmt.Sprint("Body ", b.id)
}

var bodyCur atomic.Int64

func NewBody(mass, moment float64) *Body {
	body := &Body{
		id:        bodyCur.Add(1) - 1,
		bodyType:  BODY_DYNAMIC,
		transform: NewTransformIdentity(),
	}

	body.SetMass(mass)
	body.SetMoment(moment)
	body.SetAngle(0)

	return body
}

func NewStaticBody() *Body {
	body := NewBody(0, 0)
	body.SetType(BODY_STATIC)
	return body
}

func NewKinematicBody() *Body {
	body := NewBody(0, 0)
	body.SetType(BODY_KINEMATIC)
	return body
}

func (body *Body) SetType(newType int) {
	if body.bodyType == newType {
		return
	}
	body.bodyType = newType

	if newType == BODY_DYNAMIC {
		body.m = 0
		body.i = 0
		body.m_inv = INFINITY
		body.i_inv = INFINITY

		body.AccumulateMassFromShapes()
		return
	}

	body.m = INFINITY
	body.i = INFINITY
	body.m_inv = 0
	body.i_inv = 0

	body.v = Vector{}
	body.w = 0
	body.f = Vector{}
	body.t = 0
}

func (body *Body) GetType() int {
	return body.bodyType
}

func (body *Body) Mass() float64 {
	return body.m
}

func (body *Body) SetMass(mass float64) {
	body.Activate()
	body.m = mass
	body.m_inv = 1 / mass
}

func (body *Body) Moment() float64 {
	return body.i
}

func (body *Body) SetMoment(moment float64) {
	body.Activate()
	body.i = moment
	body.i_inv = 1 / moment
}

// AddFixture attaches shape to the body. Dynamic bodies take their mass from their fixtures.
func (body *Body) AddFixture(shape *Shape, density float64) *Fixture {
	fixture := &Fixture{
		Shape:   shape,
		Body:    body,
		Density: density,
	}
	body.fixtures = append(body.fixtures, fixture)
	if density > 0 {
		body.AccumulateMassFromShapes()
	}
	return fixture
}

func (body *Body) Fixtures() []*Fixture {
	return body.fixtures
}

// Should *only* be called when fixtures with mass info are modified, added or removed.
func (body *Body) AccumulateMassFromShapes() {
	if body == nil || body.GetType() != BODY_DYNAMIC {
		return
	}

	body.m = 0
	body.i = 0
	body.cog = Vector{}

	// cache position, realign at the end
	pos := body.Position()

	for _, fixture := range body.fixtures {
		info := fixture.Shape.MassInfo(fixture.Density)
		m := info.m

		if m > 0 {
			msum := body.m + m
			body.i += info.i + body.cog.DistanceSq(info.cog)*(m*body.m)/msum
			body.cog = body.cog.Lerp(info.cog, m/msum)
			body.m = msum
		}
	}

	body.m_inv = 1.0 / body.m
	body.i_inv = 1.0 / body.i

	body.SetPosition(pos)
}

func (body *Body) CenterOfGravity() Vector {
	return body.cog
}

func (body *Body) Angle() float64 {
	return body.a
}

func (body *Body) SetAngle(angle float64) {
	body.Activate()
	body.a = angle
	body.SetTransform(body.p, angle)
}

// Position is the world position of the body origin.
func (body *Body) Position() Vector {
	return body.transform.Point(Vector{})
}

func (body *Body) SetPosition(position Vector) {
	body.Activate()
	body.p = body.transform.Vect(body.cog).Add(position)
	body.SetTransform(body.p, body.a)
}

func (body *Body) Transform() Transform {
	return body.transform
}

func (body *Body) Velocity() Vector {
	return body.v
}

func (body *Body) SetVelocity(x, y float64) {
	body.Activate()
	body.v = Vector{x, y}
}

func (body *Body) SetVelocityVector(v Vector) {
	body.Activate()
	body.v = v
}

func (body *Body) AngularVelocity() float64 {
	return body.w
}

func (body *Body) SetAngularVelocity(angularVelocity float64) {
	body.Activate()
	body.w = angularVelocity
}

func (body *Body) Force() Vector {
	return body.f
}

func (body *Body) Torque() float64 {
	return body.t
}

func (body *Body) SetTransform(p Vector, a float64) {
	rot := ForAngle(a)
	c := body.cog

	body.transform = NewTransformTranspose(
		rot.X, -rot.Y, p.X-(c.X*rot.X-c.Y*rot.Y),
		rot.Y, rot.X, p.Y-(c.X*rot.Y+c.Y*rot.X),
	)
}

func (body *Body) Activate() {
	if body.GetType() != BODY_DYNAMIC {
		return
	}
	body.sleeping = false
}

// Sleep puts a dynamic body to sleep. Sleeping bodies drop forces applied without wake.
func (body *Body) Sleep() {
	if body.GetType() != BODY_DYNAMIC {
		return
	}
	body.sleeping = true
	body.v = Vector{}
	body.w = 0
	body.f = Vector{}
	body.t = 0
}

func (body *Body) IsSleeping() bool {
	return body.sleeping
}

// KineticEnergy is m*v^2 + i*w^2, without the usual factor of one half.
func (body *Body) KineticEnergy() float64 {
	// Need to do some fudging to avoid NaNs
	vsq := body.v.Dot(body.v)
	wsq := body.w * body.w
	var a, b float64
	if vsq != 0 {
		a = vsq * body.m
	}
	if wsq != 0 {
		b = wsq * body.i
	}
	return a + b
}

func (body *Body) WorldToLocal(point Vector) Vector {
	return NewTransformRigidInverse(body.transform).Point(point)
}

func (body *Body) LocalToWorld(point Vector) Vector {
	return body.transform.Point(point)
}

// ApplyForceAtWorldPoint adds force to the accumulator along with the torque it produces
// about the center of gravity. Only dynamic bodies take forces.
func (body *Body) ApplyForceAtWorldPoint(force, point Vector, wake bool) {
	if body.GetType() != BODY_DYNAMIC {
		return
	}
	if wake {
		body.Activate()
	}
	if body.sleeping {
		return
	}

	body.f = body.f.Add(force)

	r := point.Sub(body.transform.Point(body.cog))
	body.t += r.Cross(force)
}

func (body *Body) ApplyForceToCenter(force Vector, wake bool) {
	if body.GetType() != BODY_DYNAMIC {
		return
	}
	if wake {
		body.Activate()
	}
	if body.sleeping {
		return
	}

	body.f = body.f.Add(force)
}

func (body *Body) VelocityAtWorldPoint(point Vector) Vector {
	r := point.Sub(body.transform.Point(body.cog))
	return body.v.Add(r.Perp().Mult(body.w))
}

// ClearForces drops the accumulated force and torque.
func (body *Body) ClearForces() {
	body.f = Vector{}
	body.t = 0
}

// UpdateVelocity integrates the accumulated force and torque and clears them.
func (body *Body) UpdateVelocity(gravity Vector, damping, dt float64) {
	if body.GetType() != BODY_DYNAMIC || body.sleeping {
		return
	}

	debugAssert(body.m > 0 && body.i > 0, "Body's mass and moment must be positive")

	body.v = body.v.Mult(damping).Add(gravity.Add(body.f.Mult(body.m_inv)).Mult(dt))
	body.w = body.w*damping + body.t*body.i_inv*dt

	body.ClearForces()
}

func (body *Body) UpdatePosition(dt float64) {
	if body.GetType() == BODY_STATIC || body.sleeping {
		return
	}

	body.p = body.p.Add(body.v.Mult(dt))
	body.a = body.a + body.w*dt
	body.SetTransform(body.p, body.a)
}
