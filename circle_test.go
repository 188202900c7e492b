package fluid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircleVertices(t *testing.T) {
	center := Vector{0, 0}
	verts := CircleVertices(center, 2, 16, nil)

	require.Len(t, verts, 32)
	require.InDelta(t, 2.0, verts[0].X, 1e-12)
	require.InDelta(t, 0.0, verts[0].Y, 1e-12)

	step := 2 * math.Pi / 32
	chord := 2 * 2 * math.Sin(step/2)
	for i, v := range verts {
		assert.InDelta(t, 2.0, v.Distance(center), 1e-12, "vertex %d", i)
		assert.InDelta(t, step*float64(i), math.Mod(v.ToAngle()+2*math.Pi, 2*math.Pi), 1e-9, "vertex %d", i)
		next := verts[(i+1)%len(verts)]
		assert.InDelta(t, chord, v.Distance(next), 1e-12, "edge %d", i)
	}
}

func TestCircleVertices_Offset(t *testing.T) {
	center := Vector{5, -3}
	verts := CircleVertices(center, 0.5, 16, nil)

	require.Len(t, verts, 8)
	for _, v := range verts {
		require.InDelta(t, 0.5, v.Distance(center), 1e-12)
	}
}

func TestCircleVertices_RoundsUp(t *testing.T) {
	require.Len(t, CircleVertices(Vector{}, 1.01, 16, nil), 17)
	require.Len(t, CircleVertices(Vector{}, 0.1, 16, nil), 2)
}

func TestCircleVertices_Degenerate(t *testing.T) {
	for _, r := range []float64{0, 1e-6, 0.01} {
		verts := CircleVertices(Vector{1, 1}, r, 16, nil)
		require.Len(t, verts, 1, "radius %v", r)
	}

	verts := CircleVertices(Vector{1, 1}, 0, 16, nil)
	require.Equal(t, Vector{1, 1}, verts[0])
}

func TestCircleVertices_ReusesBuffer(t *testing.T) {
	buf := make([]Vector, 3, 64)
	verts := CircleVertices(Vector{}, 1, 16, buf)

	require.Len(t, verts, 16)
	require.Equal(t, cap(buf), cap(verts))
	require.Equal(t, &buf[0], &verts[0])
}

func TestShapeCircleArea(t *testing.T) {
	circle := NewCircle(2, Vector{0, 0})

	if circle.Area() != 4*math.Pi {
		t.Fail()
	}
}

func TestShapeCircleMass(t *testing.T) {
	circle := NewCircle(1, Vector{1, 0})
	info := circle.MassInfo(1)

	require.InDelta(t, math.Pi, info.Mass(), 1e-12)
	require.InDelta(t, math.Pi*0.5, info.Moment(), 1e-12)
	require.Equal(t, Vector{1, 0}, info.CenterOfGravity())
}

func TestCircleVertices_Clamped(t *testing.T) {
	require.Len(t, CircleVertices(Vector{}, 1e9, DEFAULT_CIRCLE_RESOLUTION, nil), MAX_CIRCLE_VERTICES)
	require.Len(t, CircleVertices(Vector{}, math.Inf(1), DEFAULT_CIRCLE_RESOLUTION, nil), MAX_CIRCLE_VERTICES)
	require.Len(t, CircleVertices(Vector{}, 1, math.NaN(), nil), 1)
	require.Len(t, CircleVertices(Vector{}, -1, DEFAULT_CIRCLE_RESOLUTION, nil), 1)
}
