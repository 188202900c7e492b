package fluid

import "math"

// NewPolyShape builds a convex polygon from verts after applying transform. The vertices are
// reduced to their convex hull, which also puts them in counter-clockwise order.
func NewPolyShape(verts []Vector, transform Transform) *Shape {
	hullVerts := transform.Points(verts, make([]Vector, 0, len(verts)))
	if len(hullVerts) < 3 {
		return NewPolyShapeRaw(hullVerts)
	}

	hullCount := ConvexHull(hullVerts, 0)
	return NewPolyShapeRaw(hullVerts[:hullCount])
}

// NewPolyShapeRaw uses verts as given. They must already be convex.
func NewPolyShapeRaw(verts []Vector) *Shape {
	poly := &Shape{
		kind:  SHAPE_CLASS_POLY,
		verts: make([]Vector, len(verts)),
	}
	copy(poly.verts, verts)
	return poly
}

func NewBox(w, h float64) *Shape {
	hw := w / 2.0
	hh := h / 2.0
	return NewBox2(BB{-hw, -hh, hw, hh})
}

func NewBox2(bb BB) *Shape {
	verts := []Vector{
		{bb.R, bb.B},
		{bb.R, bb.T},
		{bb.L, bb.T},
		{bb.L, bb.B},
	}
	return NewPolyShapeRaw(verts)
}

func (poly *Shape) Count() int {
	return len(poly.verts)
}

// Vertices returns the local vertices. The slice must not be modified.
func (poly *Shape) Vertices() []Vector {
	return poly.verts
}

func PolyShapeMassInfo(mass float64, verts []Vector) ShapeMassInfo {
	if len(verts) < 3 {
		return ShapeMassInfo{m: mass}
	}
	centroid, _ := CentroidForPoly(verts)
	return ShapeMassInfo{
		m:    mass,
		i:    MomentForPoly(mass, verts, centroid.Neg(), 0),
		cog:  centroid,
		area: AreaForPoly(verts, 0),
	}
}

/// Calculate the signed area of a polygon. A Clockwise winding gives negative area.
/// This is probably backwards from what you expect, but matches Chipmunk's the winding for poly shapes.
func AreaForPoly(verts []Vector, r float64) float64 {
	count := len(verts)
	var area, perimeter float64
	for i := 0; i < count; i++ {
		v1 := verts[i]
		v2 := verts[(i+1)%count]

		area += v1.Cross(v2)
		perimeter += v1.Distance(v2)
	}

	return r*(math.Pi*math.Abs(r)+perimeter) + area/2.0
}

// CentroidForPoly returns the area weighted centroid of a polygon together with its signed
// area. The polygon is fanned into triangles from the origin; the result does not depend on
// the reference point except for rounding. Areas at or below CENTROID_EPSILON are reported as
// exactly 0 and the centroid is then meaningless.
func CentroidForPoly(verts []Vector) (Vector, float64) {
	count := len(verts)
	debugAssert(count >= 3, "Polygon needs at least 3 vertices.")

	const inv3 = 1.0 / 3.0

	var c Vector
	var area float64

	// p1 of every triangle is the origin.
	for i := 0; i < count; i++ {
		p2 := verts[i]
		var p3 Vector
		if i+1 < count {
			p3 = verts[i+1]
		} else {
			p3 = verts[0]
		}

		triangleArea := 0.5 * p2.Cross(p3)
		area += triangleArea

		c = c.Add(p2.Add(p3).Mult(triangleArea * inv3))
	}

	if area > CENTROID_EPSILON {
		c = c.Mult(1.0 / area)
	} else {
		area = 0
	}
	return c, area
}

/// Calculate the moment of inertia for a solid polygon shape assuming it's center of gravity is at it's centroid.
/// The offset is added to each vertex.
func MomentForPoly(m float64, verts []Vector, offset Vector, r float64) float64 {
	count := len(verts)
	if count == 2 {
		return MomentForSegment(m, verts[0], verts[1], 0)
	}

	var sum1, sum2 float64
	for i := 0; i < count; i++ {
		v1 := verts[i].Add(offset)
		v2 := verts[(i+1)%count].Add(offset)

		a := v2.Cross(v1)
		b := v1.Dot(v1) + v1.Dot(v2) + v2.Dot(v2)

		sum1 += a * b
		sum2 += a
	}

	return (m * sum1) / (6.0 * sum2)
}

/// Calculate the moment of inertia for a solid box.
func MomentForBox(m, width, height float64) float64 {
	return m * (width*width + height*height) / 12.0
}

// QuickHull seemed like a neat algorithm, and efficient-ish for large input sets.
// My implementation performs an in place reduction using the result array as scratch space.
// The hull is left in verts[:n] in counter-clockwise order.
func ConvexHull(verts []Vector, tol float64) int {
	count := len(verts)
	start, end := LoopIndexes(verts)
	if start == end {
		return 1
	}

	verts[0], verts[start] = verts[start], verts[0]
	if end == 0 {
		verts[1], verts[start] = verts[start], verts[1]
	} else {
		verts[1], verts[end] = verts[end], verts[1]
	}

	a := verts[0]
	b := verts[1]

	return QHullReduce(tol, verts[2:], count-2, a, b, a, verts[1:]) + 1
}

// LoopIndexes finds the lexicographically lowest and highest vertices.
func LoopIndexes(verts []Vector) (int, int) {
	start := 0
	end := 0

	min := verts[0]
	max := min

	for i := 1; i < len(verts); i++ {
		v := verts[i]

		if v.X < min.X || (v.X == min.X && v.Y < min.Y) {
			min = v
			start = i
		} else if v.X > max.X || (v.X == max.X && v.Y > max.Y) {
			max = v
			end = i
		}
	}

	return start, end
}

func QHullReduce(tol float64, verts []Vector, count int, a, pivot, b Vector, result []Vector) int {
	if count < 0 {
		return 0
	}

	if count == 0 {
		result[0] = pivot
		return 1
	}

	leftCount := QHullPartition(verts, count, a, pivot, tol)
	index := QHullReduce(tol, verts[1:], leftCount-1, a, verts[0], pivot, result)

	result[index] = pivot
	index++

	rightCount := QHullPartition(verts[leftCount:], count-leftCount, pivot, b, tol)

	// Go doesn't let you just walk off the end of an array, so added a short circuit here
	if rightCount-1 < 0 {
		return index
	}

	return index + QHullReduce(tol, verts[leftCount+1:], rightCount-1, pivot, verts[leftCount], b, result[index:])
}

func QHullPartition(verts []Vector, count int, a, b Vector, tol float64) int {
	if count == 0 {
		return 0
	}

	max := 0.0
	pivot := 0

	delta := b.Sub(a)
	valueTol := tol * delta.Length()

	head := 0
	for tail := count - 1; head <= tail; {
		value := verts[head].Sub(a).Cross(delta)
		if value > valueTol {
			if value > max {
				max = value
				pivot = head
			}

			head++
		} else {
			verts[head], verts[tail] = verts[tail], verts[head]
			tail--
		}
	}

	// move the new pivot to the front if it's not already there.
	if pivot != 0 {
		verts[0], verts[pivot] = verts[pivot], verts[0]
	}
	return head
}
