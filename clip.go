package fluid

import "slices"

// Clipper intersects convex fixtures with Sutherland-Hodgman clipping.
//
// All buffers are kept between calls, so the polygon returned by Intersect or Clip is only
// valid until the next call on the same Clipper, and a Clipper must not be used from more
// than one goroutine at a time.
type Clipper struct {
	// Circle vertices per unit of radius used when a fixture is a circle.
	Resolution float64

	subject, clip []Vector

	// ping-pong buffers, swapped for every clip edge
	input, output []Vector

	singular int
}

func NewClipper(resolution float64) *Clipper {
	if resolution <= 0 {
		resolution = DEFAULT_CIRCLE_RESOLUTION
	}
	return &Clipper{Resolution: resolution}
}

// ClipPolygons returns the intersection of two convex polygons in a freshly allocated slice.
func ClipPolygons(subject, clip []Vector) []Vector {
	var c Clipper
	out := c.Clip(subject, clip)
	if len(out) == 0 {
		return nil
	}
	return out
}

// FixtureVertices resolves a fixture to world space vertices appended to dst[:0].
// Polygons are mapped through the body transform and circles are sampled with CircleVertices.
// It reports false for shape kinds that cannot be clipped.
func FixtureVertices(f *Fixture, resolution float64, dst []Vector) ([]Vector, bool) {
	s := f.Shape
	switch s.kind {
	case SHAPE_CLASS_POLY:
		dst = dst[:0]
		for _, v := range s.verts {
			dst = append(dst, f.Body.LocalToWorld(v))
		}
		return dst, true
	case SHAPE_CLASS_CIRCLE:
		return CircleVertices(f.Body.LocalToWorld(s.c), s.r, resolution, dst), true
	}
	return dst[:0], false
}

// Intersect clips the world shape of a against the world shape of b. The result is wound
// counter-clockwise whatever the winding of either shape. It reports false when either shape kind is unsupported or when the
// shapes do not overlap.
func (c *Clipper) Intersect(a, b *Fixture) ([]Vector, bool) {
	c.singular = 0

	var ok bool
	if c.subject, ok = FixtureVertices(a, c.Resolution, c.subject); !ok {
		return nil, false
	}
	if c.clip, ok = FixtureVertices(b, c.Resolution, c.clip); !ok {
		return nil, false
	}

	out := c.Clip(c.subject, c.clip)
	return out, len(out) > 0
}

// Singular is the number of intersection points the last call dropped because the subject
// edge was parallel to the clip edge.
func (c *Clipper) Singular() int {
	return c.singular
}

// Clip cuts subject down to the part inside the convex polygon clip. Either polygon may be
// wound either way. A clockwise clip is walked backwards so its interior is always on the
// left of each edge, and a clockwise subject is reversed, so the result is counter-clockwise.
func (c *Clipper) Clip(subject, clip []Vector) []Vector {
	c.singular = 0

	out := append(c.output[:0], subject...)
	if AreaForPoly(subject, 0) < 0 {
		slices.Reverse(out)
	}
	in := c.input[:0]
	defer func() {
		c.input, c.output = in, out
	}()

	count := len(clip)
	if count == 0 || len(out) == 0 {
		out = out[:0]
		return out
	}

	reverse := AreaForPoly(clip, 0) < 0
	edge := func(i int) Vector {
		if reverse {
			return clip[count-1-i]
		}
		return clip[i]
	}

	cp1 := edge(count - 1)
	for i := 0; i < count; i++ {
		cp2 := edge(i)
		if len(out) == 0 {
			break
		}

		in, out = out, in[:0]
		s := in[len(in)-1]
		for _, e := range in {
			if inside(cp1, cp2, e) {
				if !inside(cp1, cp2, s) {
					out = c.appendIntersection(out, cp1, cp2, s, e)
				}
				out = append(out, e)
			} else if inside(cp1, cp2, s) {
				out = c.appendIntersection(out, cp1, cp2, s, e)
			}
			s = e
		}
		cp1 = cp2
	}

	return out
}

func (c *Clipper) appendIntersection(out []Vector, cp1, cp2, s, e Vector) []Vector {
	p, ok := intersection(cp1, cp2, s, e)
	if !ok {
		c.singular++
		return out
	}
	return append(out, p)
}

// inside reports whether p is strictly left of the directed line cp1->cp2.
func inside(cp1, cp2, p Vector) bool {
	return (cp2.X-cp1.X)*(p.Y-cp1.Y) > (cp2.Y-cp1.Y)*(p.X-cp1.X)
}

// intersection returns where the line through cp1, cp2 meets the line through s, e.
// Parallel lines have no single answer and report false.
func intersection(cp1, cp2, s, e Vector) (Vector, bool) {
	dc := Vector{cp1.X - cp2.X, cp1.Y - cp2.Y}
	dp := Vector{s.X - e.X, s.Y - e.Y}

	det := dc.X*dp.Y - dc.Y*dp.X
	if det < CLIP_EPSILON && det > -CLIP_EPSILON {
		return Vector{}, false
	}

	n1 := cp1.X*cp2.Y - cp1.Y*cp2.X
	n2 := s.X*e.Y - s.Y*e.X
	n3 := 1.0 / det
	return Vector{(n1*dp.X - n2*dc.X) * n3, (n1*dp.Y - n2*dc.Y) * n3}, true
}
