package fluid

import (
	"context"
	"math"

	"go.uber.org/zap"
)

type fluidVolume struct {
	fixture *Fixture
	fluid   *Fluid
}

// Space is a small host world: it pairs fluid fixtures with the fixtures of dynamic bodies
// by bounding box, applies the fluid forces and integrates the bodies. It does no collision
// response between bodies.
//
// Without a spatial hash every body fixture is tested against every fluid.
type Space struct {
	// Concurrent body groups during ApplyAll. Zero means no limit.
	Workers int

	gravity Vector
	damping float64

	stamp   uint
	curr_dt float64

	bodies []*Body
	fluids []fluidVolume

	hash *SpaceHash

	// scratch, reused every step
	pairs []Pair

	StaticBody *Body
}

func NewSpace() *Space {
	return &Space{
		damping:    1.0,
		StaticBody: NewStaticBody(),
	}
}

func (space *Space) Gravity() Vector {
	return space.gravity
}

func (space *Space) SetGravity(gravity Vector) {
	space.gravity = gravity
}

func (space *Space) Damping() float64 {
	return space.damping
}

// SetDamping sets the fraction of velocity kept per second.
func (space *Space) SetDamping(damping float64) {
	debugAssert(damping >= 0, "Damping must be positive")
	space.damping = damping
}

func (space *Space) TimeStep() float64 {
	return space.curr_dt
}

func (space *Space) Stamp() uint {
	return space.stamp
}

func (space *Space) AddBody(body *Body) *Body {
	debugAssert(!Contains(space.bodies, body), "Body already added to space")
	space.bodies = append(space.bodies, body)
	return body
}

func (space *Space) RemoveBody(body *Body) {
	for i, b := range space.bodies {
		if b == body {
			space.bodies = append(space.bodies[:i], space.bodies[i+1:]...)
			break
		}
	}
	for i := 0; i < len(space.fluids); {
		if space.fluids[i].fixture.Body == BodyState(body) {
			space.fluids = append(space.fluids[:i], space.fluids[i+1:]...)
			continue
		}
		i++
	}
}

func (space *Space) Bodies() []*Body {
	return space.bodies
}

// AddFluid marks fixture as a fluid volume with the given parameters.
func (space *Space) AddFluid(fixture *Fixture, fluid *Fluid) {
	space.fluids = append(space.fluids, fluidVolume{fixture: fixture, fluid: fluid})
}

// UseSpatialHash switches the fluid broadphase to a spatial hash. See SpaceHash for picking
// dim and count.
func (space *Space) UseSpatialHash(dim float64, count int) {
	if space.hash == nil {
		space.hash = NewSpaceHash(dim, count)
		return
	}
	space.hash.Resize(dim, count)
}

func (space *Space) EachFluid(f func(*Fixture, *Fluid)) {
	for _, v := range space.fluids {
		f(v.fixture, v.fluid)
	}
}

func (space *Space) Step(dt float64) error {
	return space.StepContext(context.Background(), dt)
}

// StepContext applies fluid forces to every overlapping fixture and integrates all bodies.
// If ctx is cancelled while forces are being applied, the forces accumulated so far are
// cleared from every body, nothing is integrated and the context error is returned, so the
// step can simply be retried.
func (space *Space) StepContext(ctx context.Context, dt float64) error {
	if dt == 0 {
		return nil
	}

	space.stamp++
	space.curr_dt = dt

	space.pairs = space.findPairs(space.pairs[:0])
	pairs := space.pairs

	hits, err := ApplyAll(ctx, space.gravity, pairs, space.Workers)
	if err != nil {
		for _, body := range space.bodies {
			body.ClearForces()
		}
		return err
	}

	Logger().Debug("space: step",
		zap.Uint("stamp", space.stamp),
		zap.Int("pairs", len(pairs)),
		zap.Int("submerged", hits))

	// Damping is given per second.
	damping := 1.0
	if space.damping != 1.0 {
		damping = math.Pow(space.damping, dt)
	}

	for _, body := range space.bodies {
		body.UpdateVelocity(space.gravity, damping, dt)
		body.UpdatePosition(dt)
	}
	return nil
}

// findPairs appends a Pair for every dynamic body fixture whose bounding box touches a fluid
// fixture of another body. Pairs are ordered by body, then fixture, then fluid.
func (space *Space) findPairs(pairs []Pair) []Pair {
	if space.hash != nil {
		space.hash.rebuild(space.fluids)
	}

	for _, body := range space.bodies {
		if body.GetType() != BODY_DYNAMIC {
			continue
		}
		for _, fixture := range body.fixtures {
			bb := fixture.BB()
			visit := func(v fluidVolume) {
				if v.fixture.Body == BodyState(body) {
					return
				}
				pairs = append(pairs, Pair{Fluid: v.fluid, FluidFixture: v.fixture, Fixture: fixture})
			}

			if space.hash != nil {
				space.hash.query(bb, visit)
				continue
			}
			for _, v := range space.fluids {
				if v.fixture.BB().Intersects(bb) {
					visit(v)
				}
			}
		}
	}
	return pairs
}

func Contains(bodies []*Body, body *Body) bool {
	for _, b := range bodies {
		if b == body {
			return true
		}
	}
	return false
}
