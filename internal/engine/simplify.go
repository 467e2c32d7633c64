package engine

import "math"

// Plane is the active coordinate plane for circular interpolation.
type Plane int

const (
	PlaneXY Plane = 17
	PlaneXZ Plane = 18
	PlaneYZ Plane = 19
)

// MotionRecord is one output of the simplifier: either a linear move
// (Arc == false) or a circular move in the active plane.
type MotionRecord struct {
	Point [3]float64
	Arc   bool
	CW    bool
	// CenterOffset holds the arc center expressed as an offset from the
	// move's start, indexed by global axis (0=X,1=Y,2=Z); only the two
	// axes of the active plane are meaningful.
	CenterOffset [3]float64
}

const quadrantEpsilon = 1e-5
const circumcircleEpsilon = 1e-5

// planeAxes returns the two global axis indices (0=X,1=Y,2=Z) spanned by
// the active plane.
func planeAxes(p Plane) (int, int) {
	switch p {
	case PlaneXZ:
		return 0, 2
	case PlaneYZ:
		return 1, 2
	default:
		return 0, 1
	}
}

func planeCoords(pt [3]float64, p Plane) (float64, float64) {
	a, b := planeAxes(p)
	return pt[a], pt[b]
}

// Simplify runs Douglas-Peucker with a per-segment circular-arc fitting
// test (spec.md §4.5), grounded on the algorithm description directly
// (no surviving original-language reference for this component). Uses an
// explicit work stack per spec.md §9's redesign note rather than
// recursion.
func Simplify(points [][3]float64, plane Plane, tolerance float64, arcsEnabled bool) []MotionRecord {
	n := len(points)
	if n < 2 {
		return nil
	}

	type frame struct{ lo, hi int }
	var out []MotionRecord
	stack := []frame{{0, n - 1}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		lo, hi := f.lo, f.hi

		if hi-lo < 1 {
			continue
		}
		if hi-lo == 1 {
			out = append(out, MotionRecord{Point: points[hi]})
			continue
		}

		worstIdx, worstDist := findWorstChordPoint(points, lo, hi)

		worstArcDist := math.Inf(1)
		var arcCenterA, arcCenterB, minRad float64
		if arcsEnabled {
			arcIdx, rad, ca, cb := findBestArcFit(points, lo, hi, plane)
			if !math.IsInf(rad, 1) && quadrantOK(points, lo, arcIdx, hi, plane, ca, cb) {
				minRad = rad
				arcCenterA, arcCenterB = ca, cb
				worstArcDist = maxArcDeviation(points, lo, hi, plane, ca, cb, rad)
			}
		}

		if arcsEnabled && worstArcDist < tolerance && worstArcDist < worstDist {
			out = append(out, MotionRecord{Point: points[lo]})
			out = append(out, buildArcRecord(points[lo], points[hi], plane, arcCenterA, arcCenterB, minRad))
			continue
		}

		if worstDist > tolerance {
			stack = append(stack, frame{worstIdx, hi})
			stack = append(stack, frame{lo, worstIdx})
			continue
		}

		out = append(out, MotionRecord{Point: points[hi]})
	}
	return out
}

func findWorstChordPoint(points [][3]float64, lo, hi int) (int, float64) {
	worstIdx := lo
	worstDist := -1.0
	for k := lo + 1; k < hi; k++ {
		d := pointToChordDistance3D(points[lo], points[hi], points[k])
		if d > worstDist {
			worstDist = d
			worstIdx = k
		}
	}
	if worstDist < 0 {
		worstDist = 0
	}
	return worstIdx, worstDist
}

func pointToChordDistance3D(a, b, p [3]float64) float64 {
	ab := sub3(b, a)
	ap := sub3(p, a)
	abLen := norm3(ab)
	if abLen < circumcircleEpsilon {
		return norm3(ap)
	}
	cr := cross3(ap, ab)
	return norm3(cr) / abLen
}

// findBestArcFit searches for the index whose circumcircle through
// (lo, k, hi) in the active plane has the smallest radius, per spec.md
// §4.5 step 2.
func findBestArcFit(points [][3]float64, lo, hi int, plane Plane) (idx int, rad, cx, cy float64) {
	rad = math.Inf(1)
	idx = -1
	ax0, ay0 := planeCoords(points[lo], plane)
	ax2, ay2 := planeCoords(points[hi], plane)
	for k := lo + 1; k < hi; k++ {
		axk, ayk := planeCoords(points[k], plane)
		ccx, ccy, r, ok := circumcircle(ax0, ay0, axk, ayk, ax2, ay2)
		if !ok {
			continue
		}
		if r < rad {
			rad = r
			idx = k
			cx, cy = ccx, ccy
		}
	}
	return idx, rad, cx, cy
}

func circumcircle(x1, y1, x2, y2, x3, y3 float64) (cx, cy, r float64, ok bool) {
	d := 2 * (x1*(y2-y3) + x2*(y3-y1) + x3*(y1-y2))
	if math.Abs(d) < circumcircleEpsilon {
		return 0, 0, 0, false
	}
	sq1 := x1*x1 + y1*y1
	sq2 := x2*x2 + y2*y2
	sq3 := x3*x3 + y3*y3
	cx = (sq1*(y2-y3) + sq2*(y3-y1) + sq3*(y1-y2)) / d
	cy = (sq1*(x3-x2) + sq2*(x1-x3) + sq3*(x2-x1)) / d
	r = math.Hypot(x1-cx, y1-cy)
	return cx, cy, r, true
}

// quadrantOK implements the quadrant check of spec.md §4.5: the three
// arc-defining points, projected into the active plane and re-centered
// on the fitted circle's center, must fall in a single quadrant.
// Magnitudes below quadrantEpsilon are treated as zero and collapsed
// into the neighboring quadrant rather than creating a boundary case.
func quadrantOK(points [][3]float64, lo, mid, hi int, plane Plane, cx, cy float64) bool {
	if mid < 0 {
		return false
	}
	b0 := quadrantBucket(points[lo], plane, cx, cy)
	b1 := quadrantBucket(points[mid], plane, cx, cy)
	b2 := quadrantBucket(points[hi], plane, cx, cy)
	return b0 == b1 && b1 == b2
}

func quadrantBucket(pt [3]float64, plane Plane, cx, cy float64) int {
	a, b := planeCoords(pt, plane)
	dx, dy := a-cx, b-cy
	sx, sy := 0, 0
	switch {
	case dx > quadrantEpsilon:
		sx = 1
	case dx < -quadrantEpsilon:
		sx = -1
	}
	switch {
	case dy > quadrantEpsilon:
		sy = 1
	case dy < -quadrantEpsilon:
		sy = -1
	}
	if sx == 0 {
		if sy >= 0 {
			sx = 1
		} else {
			sx = -1
		}
	}
	if sy == 0 {
		if sx >= 0 {
			sy = 1
		} else {
			sy = -1
		}
	}
	switch {
	case sx > 0 && sy > 0:
		return 0
	case sx < 0 && sy > 0:
		return 1
	case sx < 0 && sy < 0:
		return 2
	default:
		return 3
	}
}

// maxArcDeviation computes the maximum, over every vertex and every
// segment midpoint between lo and hi, of |distance-from-center - rad|.
func maxArcDeviation(points [][3]float64, lo, hi int, plane Plane, cx, cy, rad float64) float64 {
	worst := 0.0
	check := func(a, b float64) {
		d := math.Abs(math.Hypot(a-cx, b-cy) - rad)
		if d > worst {
			worst = d
		}
	}
	for k := lo; k <= hi; k++ {
		a, b := planeCoords(points[k], plane)
		check(a, b)
		if k < hi {
			a2, b2 := planeCoords(points[k+1], plane)
			check((a+a2)/2, (b+b2)/2)
		}
	}
	return worst
}

func buildArcRecord(start, end [3]float64, plane Plane, cx, cy, rad float64) MotionRecord {
	sa, sb := planeCoords(start, plane)
	ea, eb := planeCoords(end, plane)

	cross := (sa-cx)*(eb-cy) - (sb-cy)*(ea-cx)
	ccw := cross > 0
	if plane == PlaneXZ {
		ccw = !ccw
	}

	a, b := planeAxes(plane)
	var offset [3]float64
	offset[a] = cx - sa
	offset[b] = cy - sb

	return MotionRecord{
		Point:        end,
		Arc:          true,
		CW:           !ccw,
		CenterOffset: offset,
	}
}

func sub3(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func cross3(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func norm3(a [3]float64) float64 {
	return math.Sqrt(a[0]*a[0] + a[1]*a[1] + a[2]*a[2])
}
