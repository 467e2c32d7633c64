package engine

import "math"

// EntryCut sizes and emits the lead-in motion from clearance height down
// to the start of a cutting span (spec.md §4.6). Grounded on the original
// engine's SimpleEntryCut, generalized with an arc variant from the
// spec's detailed non-gouge lookahead algorithm.
type EntryCut interface {
	Apply(c *Converter, axis Axis, primaryIndex, secondaryIndex int, points []Sample)
}

// SimpleEntryCut sets feed to plunge rate, rapids to safe-Z, rapids to
// the first sample's (x,y), then plunges straight down, restoring the
// cut feed afterward.
type SimpleEntryCut struct{}

func (SimpleEntryCut) Apply(c *Converter, axis Axis, primaryIndex, secondaryIndex int, points []Sample) {
	simpleEntry(c, points)
}

func simpleEntry(c *Converter, points []Sample) {
	if len(points) == 0 {
		return
	}
	p := points[0]
	c.emitter.Flush()
	c.emitter.Safety()
	x, y := p.X, p.Y
	c.emitter.Rapid(&x, &y, nil)
	c.emitter.SetFeed(c.currentPlungeFeed)
	z := p.Z
	c.emitter.Cut(nil, nil, &z)
	c.emitter.SetFeed(c.currentFeed)
}

// ArcEntryCut is a tangent circular-arc lead-in sized so it does not
// gouge neighboring, not-yet-cut pixels (spec.md §4.6).
type ArcEntryCut struct{}

func (ArcEntryCut) Apply(c *Converter, axis Axis, primaryIndex, secondaryIndex int, points []Sample) {
	if c.cfg.DisableArcs || len(points) < 2 {
		simpleEntry(c, points)
		return
	}
	p1, p2 := points[0], points[1]

	var dirSign float64
	if axis == AxisX {
		dirSign = math.Copysign(1, p2.X-p1.X)
	} else {
		dirSign = math.Copysign(1, p2.Y-p1.Y)
	}
	if p2.X == p1.X && p2.Y == p1.Y {
		simpleEntry(c, points)
		return
	}

	rMax := c.cfg.EntryArcMaxRadius()
	pixelSize := c.pixelSize
	maxLookahead := int(math.Ceil(rMax / pixelSize))

	r := rMax
	for dp := 1; dp <= maxLookahead; dp++ {
		var neighborZ float64
		ok := true
		if axis == AxisX {
			ni := primaryIndex + int(dirSign)*dp
			if ni < 0 || ni >= c.hf.Cols {
				ok = false
			} else {
				neighborZ = float64(c.sweep.ZFloor(secondaryIndex, ni, c.rd))
			}
		} else {
			nj := primaryIndex + int(dirSign)*dp
			if nj < 0 || nj >= c.hf.Rows {
				ok = false
			} else {
				neighborZ = float64(c.sweep.ZFloor(nj, secondaryIndex, c.rd))
			}
		}
		if !ok {
			break
		}
		dxPhysical := float64(dp) * pixelSize
		dz := neighborZ - p1.Z
		if dz <= 0 {
			continue
		}
		if dz >= dxPhysical {
			r = dxPhysical
			break
		}
		r = math.Min(r, (dxPhysical*dxPhysical/dz+dz)/2)
		if dxPhysical > r {
			break
		}
	}

	z1 := math.Min(p1.Z+r, c.cfg.ZSafe)
	h := z1 - p1.Z
	startOffset := math.Sqrt(math.Max(0, r*r-h*h))

	startX, startY := p1.X, p1.Y
	var plane Plane
	if axis == AxisX {
		startX = p1.X + dirSign*startOffset
		plane = PlaneXZ
	} else {
		startY = p1.Y + dirSign*startOffset
		plane = PlaneYZ
	}

	c.emitter.Flush()
	c.emitter.Safety()
	c.emitter.Rapid(&startX, &startY, nil)
	c.emitter.SetPlane(plane)
	c.emitter.Rapid(nil, nil, &z1)
	c.emitter.SetFeed(c.currentPlungeFeed)

	start := [3]float64{startX, startY, z1}
	end := [3]float64{p1.X, p1.Y, p1.Z}
	motion := arcEntryRecord(start, end, plane, dirSign)
	c.emitter.EmitArc(motion)
	c.emitter.SetFeed(c.currentFeed)
}

// arcEntryRecord builds the G2/G3 motion record for the arc lead-in. The
// center sits directly on the vertical axis of the active plane through
// p1, level with the arc start's height: (end.a, start.b) in plane
// coordinates, i.e. the arc is tangent to vertical at the cut start, the
// construction the non-gouge radius search above sizes r against. Arc
// direction follows the sign of the travel direction per spec.md §4.6.
func arcEntryRecord(start, end [3]float64, plane Plane, dirSign float64) MotionRecord {
	sa, _ := planeCoords(start, plane)
	ea, _ := planeCoords(end, plane)
	a, b := planeAxes(plane)
	var offset [3]float64
	offset[a] = ea - sa
	offset[b] = 0
	return MotionRecord{
		Point:        end,
		Arc:          true,
		CW:           dirSign < 0,
		CenterOffset: offset,
	}
}
