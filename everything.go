package fluid

import "math"

const INFINITY = math.MaxFloat64

const MAGIC_EPSILON = 1e-5

// Areas at or below this are reported as exactly zero by CentroidForPoly.
const CENTROID_EPSILON = 1.1920929e-07

// Line pairs whose intersection determinant is smaller than this are treated as parallel.
const CLIP_EPSILON = 1e-12

// Circle vertices per unit of radius.
const DEFAULT_CIRCLE_RESOLUTION = 16.0

// Upper bound on the points CircleVertices produces for one circle.
const MAX_CIRCLE_VERTICES = 4096

// Shape Class
const (
	SHAPE_CLASS_CIRCLE = iota
	SHAPE_CLASS_SEGMENT
	SHAPE_CLASS_POLY
	SHAPE_CLASS_NUM
)

// body types
const (
	BODY_DYNAMIC = iota
	BODY_KINEMATIC
	BODY_STATIC
)
