package engine

import "math"

// ToolShape is the precomputed square matrix of relative Z offsets
// representing the cutter's lower envelope, grounded on the original
// engine's make_tool_shape/ball_tool/endmill/vee_common and ToolShape.
//
// Cells are addressed by offset (dx, dy) from the center, dx/dy ranging
// over [-Wpix, Wpix]. Cells outside the cutter disk hold +Inf so they are
// never the argmax of a swept-height query.
type ToolShape struct {
	Wpix  int
	Width int
	data  []float32
}

// NewToolShape builds a tool shape for the given kind, diameter, pixel
// size, and rough-pass offset (0 for a finish pass), per spec.md §3/§4.2.
func NewToolShape(kind ToolKind, diameter, vAngle, pixelSize, roughOffset float64) (*ToolShape, error) {
	radius := diameter / 2
	wpix := int(math.Ceil((radius - pixelSize/2) / pixelSize))
	width := 2*wpix + 1
	if wpix < 1 {
		return nil, &NumericError{Message: "tool half-width computed as 0 pixels (pixel size not smaller than tool diameter)"}
	}

	profile := toolProfile(kind, vAngle)

	ts := &ToolShape{Wpix: wpix, Width: width}
	ts.data = make([]float32, width*width)
	for i := range ts.data {
		ts.data[i] = float32(math.Inf(1))
	}

	minV := math.Inf(1)
	for dy := -wpix; dy <= wpix; dy++ {
		for dx := -wpix; dx <= wpix; dx++ {
			r := math.Hypot(float64(dx), float64(dy)) * pixelSize
			if r < radius {
				z := profile(r, radius)
				ts.set(dx, dy, float32(z))
				if z < minV {
					minV = z
				}
			}
		}
	}
	if math.IsInf(minV, 1) {
		minV = 0
	}
	bias := minV - roughOffset
	for i, v := range ts.data {
		if !math.IsInf(float64(v), 1) {
			ts.data[i] = v - float32(bias)
		}
	}
	return ts, nil
}

func toolProfile(kind ToolKind, vAngle float64) func(r, radius float64) float64 {
	switch kind {
	case ToolBall:
		return func(r, radius float64) float64 {
			return -math.Sqrt(radius*radius - r*r)
		}
	case ToolV:
		halfAngle := vAngle / 2
		slope := math.Tan((90 - halfAngle) * math.Pi / 180)
		return func(r, radius float64) float64 {
			return r * slope
		}
	default: // ToolFlat
		return func(r, radius float64) float64 {
			return 0
		}
	}
}

func (t *ToolShape) idx(dx, dy int) int {
	return (dy+t.Wpix)*t.Width + (dx + t.Wpix)
}

func (t *ToolShape) set(dx, dy int, v float32) {
	t.data[t.idx(dx, dy)] = v
}

// At returns the Z offset of the tool's underside at footprint offset
// (dx, dy); +Inf outside the cutter disk.
func (t *ToolShape) At(dx, dy int) float32 {
	if dx < -t.Wpix || dx > t.Wpix || dy < -t.Wpix || dy > t.Wpix {
		return float32(math.Inf(1))
	}
	return t.data[t.idx(dx, dy)]
}
