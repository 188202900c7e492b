package fluid

import (
	"sync"

	"go.uber.org/zap"
)

// Fluid holds the parameters of a fluid volume. The fluid's extent is the fixture passed to
// Apply, so one Fluid can be shared by several fixtures.
//
// A Fluid is read-only during Apply and may be used from several goroutines at once.
type Fluid struct {
	// Mass per unit area.
	Density float64
	// Scales drag. Lift is not affected.
	DragMultiplier float64

	// Constant push on every overlapping body, applied at its center of mass.
	FlowMagnitude float64
	FlowAngle     float64 // radians

	// Reverses buoyancy and the edge normal convention for worlds with inverted gravity.
	FlipGravity bool

	// Circle vertices per unit of radius. Zero means DEFAULT_CIRCLE_RESOLUTION.
	Resolution float64

	logger *zap.Logger
}

func NewFluid(density, dragMultiplier float64) *Fluid {
	return &Fluid{
		Density:        density,
		DragMultiplier: dragMultiplier,
		Resolution:     DEFAULT_CIRCLE_RESOLUTION,
	}
}

// SetLogger sets the logger for this fluid. Without one the package logger is used.
func (fl *Fluid) SetLogger(l *zap.Logger) {
	fl.logger = l
}

func (fl *Fluid) log() *zap.Logger {
	if fl.logger != nil {
		return fl.logger
	}
	return Logger()
}

func (fl *Fluid) resolution() float64 {
	if fl.Resolution > 0 {
		return fl.Resolution
	}
	return DEFAULT_CIRCLE_RESOLUTION
}

var clipperPool = sync.Pool{
	New: func() interface{} {
		return NewClipper(DEFAULT_CIRCLE_RESOLUTION)
	},
}

// ApplyBuoyancy applies buoyancy, flow, drag and lift from fluid to fixture's body.
// It reports whether the two fixtures overlapped.
func ApplyBuoyancy(fluid, fixture *Fixture, gravity Vector, flipGravity bool, density, dragMultiplier, flowMagnitude, flowAngle float64) bool {
	fl := Fluid{
		Density:        density,
		DragMultiplier: dragMultiplier,
		FlowMagnitude:  flowMagnitude,
		FlowAngle:      flowAngle,
		FlipGravity:    flipGravity,
	}
	return fl.Apply(fluid, fixture, gravity)
}

// Apply applies the fluid's forces to fixture's body where it overlaps the fluid fixture.
// Nothing is applied when the fixtures do not overlap or either shape cannot be clipped,
// and Apply reports false.
func (fl *Fluid) Apply(fluid, fixture *Fixture, gravity Vector) bool {
	c := clipperPool.Get().(*Clipper)
	defer clipperPool.Put(c)
	return fl.ApplyWithClipper(c, fluid, fixture, gravity)
}

// ApplyWithClipper is Apply using the caller's clipper for scratch space.
func (fl *Fluid) ApplyWithClipper(c *Clipper, fluid, fixture *Fixture, gravity Vector) bool {
	if !clippable(fluid.Shape) || !clippable(fixture.Shape) {
		fl.log().Debug("buoyancy: shape not applicable",
			zap.Stringer("fluid", fluid.Shape),
			zap.Stringer("fixture", fixture.Shape))
		return false
	}

	c.Resolution = fl.resolution()
	verts, ok := c.Intersect(fluid, fixture)
	if n := c.Singular(); n > 0 {
		fl.log().Debug("buoyancy: dropped intersections of parallel edges", zap.Int("count", n))
	}
	if !ok {
		return false
	}

	gravityMultiplier := 1.0
	if fl.FlipGravity {
		gravityMultiplier = -1.0
	}

	body := fixture.Body
	count := len(verts)

	if count >= 3 {
		centroid, area := CentroidForPoly(verts)
		if area > 0 {
			displacedMass := fl.Density * area
			buoyancy := gravity.Neg().Mult(displacedMass * gravityMultiplier)
			body.ApplyForceAtWorldPoint(buoyancy, centroid, true)
		} else {
			fl.log().Debug("buoyancy: degenerate intersection", zap.Int("verts", count))
		}
	} else {
		fl.log().Debug("buoyancy: degenerate intersection", zap.Int("verts", count))
	}

	if fl.FlowMagnitude != 0 {
		flow := ForAngle(fl.FlowAngle).Mult(fl.FlowMagnitude)
		body.ApplyForceToCenter(flow, true)
	}

	if count < 3 {
		return true
	}

	// drag and lift per edge
	for i := 0; i < count; i++ {
		v0 := verts[i]
		v1 := verts[(i+1)%count]
		midPoint := v0.Add(v1).Mult(0.5)

		// relative velocity of the body through the fluid at the edge
		velDir := body.VelocityAtWorldPoint(midPoint).Sub(fluid.Body.VelocityAtWorldPoint(midPoint))

		edge := v1.Sub(v0)
		normal := edge.Perp().Mult(-gravityMultiplier)

		// only leading edges push against the fluid
		dragDot := normal.Dot(velDir)
		if dragDot <= 0 {
			continue
		}

		velDir, vel := velDir.NormalizeLength()
		edge, edgeLength := edge.NormalizeLength()
		if vel == 0 || edgeLength == 0 {
			continue
		}

		dragMag := dragDot * edgeLength * fl.Density * vel * vel
		dragForce := velDir.Neg().Mult(dragMag * fl.DragMultiplier)
		body.ApplyForceAtWorldPoint(dragForce, midPoint, true)

		liftMag := edge.Dot(velDir) * dragMag
		liftDir := velDir.Perp().Mult(gravityMultiplier)
		body.ApplyForceAtWorldPoint(liftDir.Mult(liftMag), midPoint, true)
	}

	return true
}

func clippable(s *Shape) bool {
	switch s.Kind() {
	case SHAPE_CLASS_POLY, SHAPE_CLASS_CIRCLE:
		return true
	}
	return false
}
