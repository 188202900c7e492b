package fluid

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidScene = errors.New("invalid scene")
	ErrUnknownShape = errors.New("unknown shape type")
)

// Scene describes a world of fluid volumes and bodies. Vectors are two element lists.
type Scene struct {
	Gravity     []float64 `yaml:"gravity"`
	FlipGravity bool      `yaml:"flip_gravity"`
	// Fraction of velocity kept per second. Defaults to 1.
	Damping *float64 `yaml:"damping,omitempty"`
	// Circle vertices per unit of radius for every fluid. Defaults to DEFAULT_CIRCLE_RESOLUTION.
	Resolution float64 `yaml:"resolution"`
	Workers    int     `yaml:"workers"`
	// Optional fluid broadphase. Without it every body fixture is tested against every fluid.
	SpatialHash *HashConfig `yaml:"spatial_hash,omitempty"`

	Fluids []FluidConfig `yaml:"fluids"`
	Bodies []BodyConfig  `yaml:"bodies"`
}

type HashConfig struct {
	CellSize float64 `yaml:"cell_size"`
	Cells    int     `yaml:"cells"`
}

type FlowConfig struct {
	Magnitude float64 `yaml:"magnitude"`
	Angle     float64 `yaml:"angle"` // radians
}

type FluidConfig struct {
	Name    string     `yaml:"name,omitempty"`
	Density float64    `yaml:"density"`
	Drag    float64    `yaml:"drag"`
	Flow    FlowConfig `yaml:"flow"`

	// A fluid with a velocity moves as a kinematic body, otherwise it is static.
	Position        []float64   `yaml:"position"`
	Angle           float64     `yaml:"angle"`
	Velocity        []float64   `yaml:"velocity"`
	AngularVelocity float64     `yaml:"angular_velocity"`
	Shape           ShapeConfig `yaml:"shape"`
}

type BodyConfig struct {
	Name            string        `yaml:"name,omitempty"`
	Density         float64       `yaml:"density"`
	Position        []float64     `yaml:"position"`
	Angle           float64       `yaml:"angle"`
	Velocity        []float64     `yaml:"velocity"`
	AngularVelocity float64       `yaml:"angular_velocity"`
	Shapes          []ShapeConfig `yaml:"shapes"`
}

type ShapeConfig struct {
	Type string `yaml:"type"`

	// circle
	Radius float64   `yaml:"radius,omitempty"`
	Offset []float64 `yaml:"offset,omitempty"`

	// box
	Width  float64 `yaml:"width,omitempty"`
	Height float64 `yaml:"height,omitempty"`

	// poly
	Vertices [][]float64 `yaml:"vertices,omitempty"`

	// segment
	A []float64 `yaml:"a,omitempty"`
	B []float64 `yaml:"b,omitempty"`
}

// LoadScene decodes a YAML scene. Unknown keys are rejected.
func LoadScene(r io.Reader) (*Scene, error) {
	var s Scene
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return &s, nil
}

func LoadSceneFile(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := LoadScene(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Validate reports every problem in the scene, each wrapping ErrInvalidScene or ErrUnknownShape.
func (s *Scene) Validate() error {
	var errs []error
	bad := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidScene, fmt.Sprintf(format, args...)))
	}

	checkVec := func(name string, v []float64) {
		if v != nil && len(v) != 2 {
			bad("%s: want 2 components, got %d", name, len(v))
		} else if !finite(v...) {
			bad("%s: components must be finite", name)
		}
	}
	checkNum := func(name string, x float64) {
		if !finite(x) {
			bad("%s must be finite", name)
		}
	}

	resolution := s.Resolution
	if resolution == 0 {
		resolution = DEFAULT_CIRCLE_RESOLUTION
	}
	checkShape := func(name string, sc ShapeConfig) error {
		if err := sc.validate(name); err != nil {
			return err
		}
		if sc.Type == "circle" && sc.Radius*resolution > MAX_CIRCLE_VERTICES {
			return fmt.Errorf("%w: %s: radius %g at resolution %g needs more than %d vertices",
				ErrInvalidScene, name, sc.Radius, resolution, MAX_CIRCLE_VERTICES)
		}
		return nil
	}

	checkVec("gravity", s.Gravity)
	if s.Damping != nil {
		checkNum("damping", *s.Damping)
		if *s.Damping < 0 {
			bad("damping must not be negative")
		}
	}
	checkNum("resolution", s.Resolution)
	if s.Resolution < 0 {
		bad("resolution must not be negative")
	}
	if s.Workers < 0 {
		bad("workers must not be negative")
	}
	if h := s.SpatialHash; h != nil && (!finite(h.CellSize) || h.CellSize <= 0 || h.Cells <= 0) {
		bad("spatial_hash: cell_size and cells must be positive")
	}

	for i, f := range s.Fluids {
		name := fmt.Sprintf("fluids[%d]", i)
		checkNum(name+".density", f.Density)
		if f.Density < 0 {
			bad("%s: density must not be negative", name)
		}
		checkNum(name+".drag", f.Drag)
		checkNum(name+".flow.magnitude", f.Flow.Magnitude)
		checkNum(name+".flow.angle", f.Flow.Angle)
		checkNum(name+".angle", f.Angle)
		checkNum(name+".angular_velocity", f.AngularVelocity)
		checkVec(name+".position", f.Position)
		checkVec(name+".velocity", f.Velocity)
		if err := checkShape(name+".shape", f.Shape); err != nil {
			errs = append(errs, err)
		}
	}

	for i, b := range s.Bodies {
		name := fmt.Sprintf("bodies[%d]", i)
		checkNum(name+".density", b.Density)
		if b.Density <= 0 {
			bad("%s: density must be positive", name)
		}
		checkNum(name+".angle", b.Angle)
		checkNum(name+".angular_velocity", b.AngularVelocity)
		checkVec(name+".position", b.Position)
		checkVec(name+".velocity", b.Velocity)

		if len(b.Shapes) == 0 {
			bad("%s: needs at least one shape", name)
		}
		area := 0.0
		for j, sc := range b.Shapes {
			if err := checkShape(fmt.Sprintf("%s.shapes[%d]", name, j), sc); err != nil {
				errs = append(errs, err)
				continue
			}
			if shape, err := sc.Shape(); err == nil {
				area += shape.Area()
			}
		}
		if len(b.Shapes) > 0 && area <= 0 {
			bad("%s: shapes have no area, the body would have no mass", name)
		}
	}

	return errors.Join(errs...)
}

func (sc ShapeConfig) validate(name string) error {
	pair := func(v []float64) bool { return len(v) == 2 && finite(v...) }

	switch sc.Type {
	case "circle":
		if !finite(sc.Radius) || sc.Radius <= 0 {
			return fmt.Errorf("%w: %s: radius must be positive and finite", ErrInvalidScene, name)
		}
		if sc.Offset != nil && !pair(sc.Offset) {
			return fmt.Errorf("%w: %s: offset wants 2 finite components", ErrInvalidScene, name)
		}
	case "box":
		if !finite(sc.Width, sc.Height) || sc.Width <= 0 || sc.Height <= 0 {
			return fmt.Errorf("%w: %s: width and height must be positive and finite", ErrInvalidScene, name)
		}
	case "poly":
		if len(sc.Vertices) < 3 {
			return fmt.Errorf("%w: %s: poly needs at least 3 vertices", ErrInvalidScene, name)
		}
		for i, v := range sc.Vertices {
			if !pair(v) {
				return fmt.Errorf("%w: %s: vertices[%d] wants 2 finite components", ErrInvalidScene, name, i)
			}
		}
	case "segment":
		if !pair(sc.A) || !pair(sc.B) {
			return fmt.Errorf("%w: %s: segment needs finite a and b", ErrInvalidScene, name)
		}
	default:
		return fmt.Errorf("%w: %s: %q", ErrUnknownShape, name, sc.Type)
	}
	return nil
}

// Shape builds the shape in body local coordinates.
func (sc ShapeConfig) Shape() (*Shape, error) {
	if err := sc.validate("shape"); err != nil {
		return nil, err
	}

	switch sc.Type {
	case "circle":
		return NewCircle(sc.Radius, vec(sc.Offset)), nil
	case "box":
		return NewBox(sc.Width, sc.Height), nil
	case "poly":
		verts := make([]Vector, len(sc.Vertices))
		for i, v := range sc.Vertices {
			verts[i] = vec(v)
		}
		return NewPolyShape(verts, NewTransformIdentity()), nil
	case "segment":
		return NewSegment(vec(sc.A), vec(sc.B)), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownShape, sc.Type)
}

// Build validates the scene and creates a space from it.
func (s *Scene) Build() (*Space, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	space := NewSpace()
	space.SetGravity(vec(s.Gravity))
	if s.Damping != nil {
		space.SetDamping(*s.Damping)
	}
	space.Workers = s.Workers
	if s.SpatialHash != nil {
		space.UseSpatialHash(s.SpatialHash.CellSize, s.SpatialHash.Cells)
	}

	for _, fc := range s.Fluids {
		shape, err := fc.Shape.Shape()
		if err != nil {
			return nil, err
		}

		var body *Body
		if vec(fc.Velocity) != (Vector{}) || fc.AngularVelocity != 0 {
			body = NewKinematicBody()
			body.SetVelocityVector(vec(fc.Velocity))
			body.SetAngularVelocity(fc.AngularVelocity)
		} else {
			body = NewStaticBody()
		}
		body.UserData = fc.Name
		body.SetAngle(fc.Angle)
		body.SetPosition(vec(fc.Position))
		space.AddBody(body)

		fluid := &Fluid{
			Density:        fc.Density,
			DragMultiplier: fc.Drag,
			FlowMagnitude:  fc.Flow.Magnitude,
			FlowAngle:      fc.Flow.Angle,
			FlipGravity:    s.FlipGravity,
			Resolution:     s.Resolution,
		}
		space.AddFluid(body.AddFixture(shape, 0), fluid)
	}

	for _, bc := range s.Bodies {
		body := NewBody(0, 0)
		body.UserData = bc.Name
		for _, sc := range bc.Shapes {
			shape, err := sc.Shape()
			if err != nil {
				return nil, err
			}
			body.AddFixture(shape, bc.Density)
		}
		body.SetAngle(bc.Angle)
		body.SetPosition(vec(bc.Position))
		body.SetVelocityVector(vec(bc.Velocity))
		body.SetAngularVelocity(bc.AngularVelocity)
		space.AddBody(body)
	}

	return space, nil
}

func finite(xs ...float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// vec converts a validated two element list. Missing vectors are zero.
func vec(v []float64) Vector {
	if len(v) != 2 {
		return Vector{}
	}
	return Vector{v[0], v[1]}
}
