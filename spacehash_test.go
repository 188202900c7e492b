package fluid

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func scatteredFluids(r *rand.Rand, n int) []fluidVolume {
	fl := NewFluid(1, 1)
	var fluids []fluidVolume
	for i := 0; i < n; i++ {
		body := NewStaticBody()
		body.SetPosition(Vector{r.Float64()*80 - 40, r.Float64()*80 - 40})
		var shape *Shape
		if i%2 == 0 {
			shape = NewBox(1+r.Float64()*6, 1+r.Float64()*6)
		} else {
			shape = NewCircle(0.5+r.Float64()*3, Vector{})
		}
		fluids = append(fluids, fluidVolume{fixture: body.AddFixture(shape, 0), fluid: fl})
	}
	return fluids
}

func TestSpaceHash_MatchesBruteForce(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	fluids := scatteredFluids(r, 60)

	hash := NewSpaceHash(2, 97)
	hash.rebuild(fluids)
	require.Equal(t, 60, hash.Count())

	for q := 0; q < 200; q++ {
		x, y := r.Float64()*100-50, r.Float64()*100-50
		bb := NewBBForExtents(Vector{x, y}, r.Float64()*4, r.Float64()*4)

		var want []*Fixture
		for _, v := range fluids {
			if v.fixture.BB().Intersects(bb) {
				want = append(want, v.fixture)
			}
		}

		var got []*Fixture
		hash.query(bb, func(v fluidVolume) {
			got = append(got, v.fixture)
		})
		require.Equal(t, want, got, "query %d", q)
	}
}

func TestSpaceHash_Rebuild(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	fluids := scatteredFluids(r, 10)

	hash := NewSpaceHash(4, 31)
	hash.rebuild(fluids)

	// move a fluid far away and rebuild
	moved := fluids[3].fixture.Body.(*Body)
	moved.SetPosition(Vector{500, 500})
	hash.rebuild(fluids[:5])
	require.Equal(t, 5, hash.Count())

	var hits []*Fixture
	hash.query(NewBBForExtents(Vector{500, 500}, 0.1, 0.1), func(v fluidVolume) {
		hits = append(hits, v.fixture)
	})
	require.Equal(t, []*Fixture{fluids[3].fixture}, hits)

	hash.query(NewBBForExtents(fluids[7].fixture.BB().Center(), 0.1, 0.1), func(v fluidVolume) {
		require.NotSame(t, fluids[7].fixture, v.fixture)
	})
}

func TestSpaceHash_Resize(t *testing.T) {
	fluids := scatteredFluids(rand.New(rand.NewSource(3)), 20)

	hash := NewSpaceHash(1, 11)
	hash.rebuild(fluids)
	hash.Resize(8, 53)
	hash.rebuild(fluids)

	var n int
	hash.query(NewBBForExtents(Vector{}, 100, 100), func(fluidVolume) { n++ })
	require.Equal(t, 20, n)
}

func TestSpace_SpatialHashMatchesScan(t *testing.T) {
	build := func(hashed bool) (*Space, []*Body) {
		space := NewSpace()
		space.SetGravity(Vector{0, -10})
		if hashed {
			space.UseSpatialHash(2, 127)
		}

		for i := 0; i < 4; i++ {
			water := space.AddBody(NewStaticBody())
			water.SetPosition(Vector{float64(i*6) - 9, -3})
			space.AddFluid(water.AddFixture(NewBox(6, 6), 0), NewFluid(1+0.5*float64(i), 1))
		}

		var crates []*Body
		for i := 0; i < 12; i++ {
			crate := addCrate(space, 0.6, Vector{float64(2*i) - 11, 0.2})
			crate.SetAngle(0.1 * float64(i))
			crates = append(crates, crate)
		}
		return space, crates
	}

	scan, want := build(false)
	hashed, got := build(true)
	for i := 0; i < 60; i++ {
		require.NoError(t, scan.Step(1.0/60.0))
		require.NoError(t, hashed.Step(1.0/60.0))
		require.Equal(t, len(scan.pairs), len(hashed.pairs), "step %d", i)
	}
	for i := range want {
		require.Equal(t, want[i].Position(), got[i].Position())
		require.Equal(t, want[i].Velocity(), got[i].Velocity())
	}
}
