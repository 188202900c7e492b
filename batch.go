package fluid

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// ErrIncomparableBody is returned by ApplyAll for a BodyState whose dynamic type cannot be
// compared, such as a struct value holding a slice. Use a pointer instead.
var ErrIncomparableBody = errors.New("body state is not comparable")

// Pair is one fluid fixture touching one body fixture.
type Pair struct {
	Fluid        *Fluid
	FluidFixture *Fixture
	Fixture      *Fixture
}

// ApplyAll applies every pair and returns how many of them overlapped.
//
// Pairs are grouped by the body of Fixture. Groups run concurrently, at most workers at a
// time (no limit when workers <= 0), and the pairs of one group run in order on one
// goroutine, so a body's force accumulator is never written concurrently. Bodies are told
// apart by BodyState equality, so a body should be a pointer; a BodyState whose type is not
// comparable makes ApplyAll fail with ErrIncomparableBody before any force is applied.
//
// Cancelling ctx stops the remaining pairs; forces already applied stay applied.
func ApplyAll(ctx context.Context, gravity Vector, pairs []Pair, workers int) (int, error) {
	groups := make(map[BodyState][]Pair)
	var order []BodyState
	for _, p := range pairs {
		body := p.Fixture.Body
		if t := reflect.TypeOf(body); t != nil && !t.Comparable() {
			return 0, fmt.Errorf("%w: %s", ErrIncomparableBody, t)
		}
		if _, ok := groups[body]; !ok {
			order = append(order, body)
		}
		groups[body] = append(groups[body], p)
	}

	var hits atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for _, body := range order {
		group := groups[body]
		g.Go(func() error {
			c := clipperPool.Get().(*Clipper)
			defer clipperPool.Put(c)

			for _, p := range group {
				if err := ctx.Err(); err != nil {
					return err
				}
				if p.Fluid.ApplyWithClipper(c, p.FluidFixture, p.Fixture, gravity) {
					hits.Add(1)
				}
			}
			return nil
		})
	}

	err := g.Wait()
	return int(hits.Load()), err
}
