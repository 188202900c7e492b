package fluid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(x, y, size float64) []Vector {
	return []Vector{{x, y}, {x + size, y}, {x + size, y + size}, {x, y + size}}
}

func reversed(verts []Vector) []Vector {
	out := make([]Vector, len(verts))
	for i, v := range verts {
		out[len(verts)-1-i] = v
	}
	return out
}

func staticFixture(shape *Shape, position Vector) *Fixture {
	body := NewStaticBody()
	body.SetPosition(position)
	return body.AddFixture(shape, 0)
}

func TestClipPolygons_Overlap(t *testing.T) {
	out := ClipPolygons(square(0, 0, 1), square(0.5, 0.5, 1))

	require.Len(t, out, 4)
	c, area := CentroidForPoly(out)
	require.InDelta(t, 0.25, area, 1e-12)
	require.InDelta(t, 0.75, c.X, 1e-12)
	require.InDelta(t, 0.75, c.Y, 1e-12)

	for _, v := range out {
		assert.True(t, v.X >= 0.5-1e-12 && v.X <= 1+1e-12, "%v", v)
		assert.True(t, v.Y >= 0.5-1e-12 && v.Y <= 1+1e-12, "%v", v)
	}
}

func TestClipPolygons_NoOverlap(t *testing.T) {
	for _, tc := range []struct {
		name          string
		subject, clip []Vector
	}{
		{"apart", square(0, 0, 1), square(5, 5, 1)},
		{"beside", square(0, 0, 1), square(1.5, 0, 1)},
		{"sharing an edge", square(0, 0, 1), square(1, 0, 1)},
		{"triangle under square", []Vector{{0, -3}, {2, -3}, {1, -1}}, square(0, 0, 2)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.Empty(t, ClipPolygons(tc.subject, tc.clip))
			require.Empty(t, ClipPolygons(tc.clip, tc.subject))
		})
	}
}

func TestClipPolygons_Contained(t *testing.T) {
	inner := square(1, 1, 1)
	out := ClipPolygons(inner, square(0, 0, 4))
	require.Equal(t, inner, out)

	out = ClipPolygons(square(0, 0, 4), inner)
	_, area := CentroidForPoly(out)
	require.InDelta(t, 1.0, area, 1e-12)
}

func TestClipPolygons_ClockwiseClip(t *testing.T) {
	out := ClipPolygons(square(0, 0, 1), reversed(square(0.5, 0.5, 1)))

	c, area := CentroidForPoly(out)
	require.InDelta(t, 0.25, area, 1e-12)
	require.InDelta(t, 0.75, c.X, 1e-12)
	require.InDelta(t, 0.75, c.Y, 1e-12)
}

func TestClipPolygons_ClockwiseSubject(t *testing.T) {
	for _, clip := range [][]Vector{square(0.5, 0.5, 1), reversed(square(0.5, 0.5, 1))} {
		out := ClipPolygons(reversed(square(0, 0, 1)), clip)

		c, area := CentroidForPoly(out)
		require.InDelta(t, 0.25, area, 1e-12)
		require.InDelta(t, 0.25, AreaForPoly(out, 0), 1e-12)
		require.InDelta(t, 0.75, c.X, 1e-12)
		require.InDelta(t, 0.75, c.Y, 1e-12)
	}
}

func TestClipPolygons_Empty(t *testing.T) {
	require.Empty(t, ClipPolygons(nil, square(0, 0, 1)))
	require.Empty(t, ClipPolygons(square(0, 0, 1), nil))

	// a single point or a line has no interior
	require.Empty(t, ClipPolygons(square(0, 0, 1), []Vector{{0.5, 0.5}}))
	require.Empty(t, ClipPolygons(square(0, 0, 1), []Vector{{0, 0.5}, {1, 0.5}}))
}

func TestClipper_ReusesBuffers(t *testing.T) {
	var c Clipper
	first := c.Clip(square(0, 0, 1), square(0.5, 0.5, 1))
	saved := append([]Vector(nil), first...)

	second := c.Clip(square(0, 0, 1), square(0.5, 0.5, 1))
	require.Equal(t, saved, second)

	third := c.Clip(square(0, 0, 1), square(5, 5, 1))
	require.Empty(t, third)
}

func TestClipper_Intersect(t *testing.T) {
	fluid := staticFixture(NewBox(10, 10), Vector{0, -5})
	box := staticFixture(NewBox(2, 2), Vector{0, 0})

	c := NewClipper(DEFAULT_CIRCLE_RESOLUTION)
	out, ok := c.Intersect(fluid, box)
	require.True(t, ok)

	centroid, area := CentroidForPoly(out)
	require.InDelta(t, 2.0, area, 1e-12)
	require.InDelta(t, 0.0, centroid.X, 1e-12)
	require.InDelta(t, -0.5, centroid.Y, 1e-12)
	require.Zero(t, c.Singular())
}

func TestClipper_IntersectIsIdempotent(t *testing.T) {
	body := NewBody(1, 1)
	body.SetPosition(Vector{0.3, -0.2})
	body.SetAngle(0.7)
	box := body.AddFixture(NewBox(1.3, 0.6), 1)
	fluid := staticFixture(NewCircle(1, Vector{}), Vector{0, -0.5})

	c := NewClipper(16)
	first, ok := c.Intersect(fluid, box)
	require.True(t, ok)
	saved := append([]Vector(nil), first...)

	second, ok := c.Intersect(fluid, box)
	require.True(t, ok)
	require.Equal(t, saved, second)

	other := NewClipper(16)
	third, _ := other.Intersect(fluid, box)
	require.Equal(t, saved, third)
}

func TestClipper_IntersectCircle(t *testing.T) {
	fluid := staticFixture(NewBox(10, 10), Vector{})
	ball := staticFixture(NewCircle(1, Vector{}), Vector{1, 1})

	out, ok := NewClipper(16).Intersect(fluid, ball)
	require.True(t, ok)
	require.Len(t, out, 16)

	c, area := CentroidForPoly(out)
	require.InDelta(t, 8*math.Sin(2*math.Pi/16), area, 1e-9)
	require.InDelta(t, 1.0, c.X, 1e-9)
	require.InDelta(t, 1.0, c.Y, 1e-9)
}

func TestClipper_IntersectCircleFluid(t *testing.T) {
	fluid := staticFixture(NewCircle(2, Vector{}), Vector{})
	box := staticFixture(NewBox(1, 1), Vector{})

	out, ok := NewClipper(16).Intersect(fluid, box)
	require.True(t, ok)

	_, area := CentroidForPoly(out)
	require.InDelta(t, 1.0, area, 1e-9)
}

func TestClipper_IntersectNotApplicable(t *testing.T) {
	seg := staticFixture(NewSegment(Vector{-1, 0}, Vector{1, 0}), Vector{})
	box := staticFixture(NewBox(4, 4), Vector{})

	c := NewClipper(16)
	_, ok := c.Intersect(seg, box)
	require.False(t, ok)
	_, ok = c.Intersect(box, seg)
	require.False(t, ok)
}

func TestFixtureVertices(t *testing.T) {
	body := NewStaticBody()
	body.SetPosition(Vector{2, 3})
	body.SetAngle(math.Pi / 2)
	box := body.AddFixture(NewBox(2, 2), 0)

	verts, ok := FixtureVertices(box, 16, nil)
	require.True(t, ok)
	require.Len(t, verts, 4)

	// (1, -1) rotated a quarter turn is (1, 1)
	require.InDelta(t, 3.0, verts[0].X, 1e-12)
	require.InDelta(t, 4.0, verts[0].Y, 1e-12)

	ball := body.AddFixture(NewCircle(0.5, Vector{1, 0}), 0)
	verts, ok = FixtureVertices(ball, 16, verts)
	require.True(t, ok)
	require.Len(t, verts, 8)
	require.InDelta(t, 0.5, verts[3].Distance(Vector{2, 4}), 1e-12)
}

func TestIntersection_Parallel(t *testing.T) {
	_, ok := intersection(Vector{0, 0}, Vector{1, 0}, Vector{0, 1}, Vector{2, 1})
	require.False(t, ok)

	p, ok := intersection(Vector{0, 0}, Vector{1, 0}, Vector{0.5, -1}, Vector{0.5, 1})
	require.True(t, ok)
	require.InDelta(t, 0.5, p.X, 1e-12)
	require.InDelta(t, 0.0, p.Y, 1e-12)
}

func TestInside(t *testing.T) {
	a, b := Vector{0, 0}, Vector{1, 0}
	require.True(t, inside(a, b, Vector{0.5, 1}))
	require.False(t, inside(a, b, Vector{0.5, -1}))
	require.False(t, inside(a, b, Vector{0.5, 0}))
}
