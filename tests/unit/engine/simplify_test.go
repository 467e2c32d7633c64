package engine_test

import (
	"math"
	"testing"

	"github.com/relief-cnc/dmap2gcode/internal/engine"
)

func TestSimplifyStraightLineCollapses(t *testing.T) {
	points := [][3]float64{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {3, 0, 0}}
	out := engine.Simplify(points, engine.PlaneXY, 0.01, false)
	if len(out) != 1 {
		t.Fatalf("a perfectly straight line should collapse to one move, got %d", len(out))
	}
	if out[0].Point != points[len(points)-1] {
		t.Errorf("final motion should end at the last input point, got %v", out[0].Point)
	}
}

func TestSimplifyRespectsTolerance(t *testing.T) {
	// A single spike point far outside tolerance must force a split.
	points := [][3]float64{{0, 0, 0}, {1, 5, 0}, {2, 0, 0}}
	out := engine.Simplify(points, engine.PlaneXY, 0.5, false)
	if len(out) < 2 {
		t.Fatalf("a large deviation should not collapse to a single segment, got %d moves", len(out))
	}
}

func TestSimplifyFitsArcOnCircularPoints(t *testing.T) {
	var points [][3]float64
	for i := 0; i <= 64; i++ {
		angle := float64(i) / 64 * math.Pi / 2 // quarter circle, single quadrant
		points = append(points, [3]float64{10 * math.Cos(angle), 10 * math.Sin(angle), 0})
	}
	out := engine.Simplify(points, engine.PlaneXY, 0.01, true)
	foundArc := false
	for _, m := range out {
		if m.Arc {
			foundArc = true
		}
	}
	if !foundArc {
		t.Error("a quarter-circle's worth of points should fit a single arc")
	}
}

func TestSimplifyDisabledArcsNeverEmitsArcs(t *testing.T) {
	var points [][3]float64
	for i := 0; i <= 8; i++ {
		angle := float64(i) / 8 * math.Pi / 2
		points = append(points, [3]float64{10 * math.Cos(angle), 10 * math.Sin(angle), 0})
	}
	out := engine.Simplify(points, engine.PlaneXY, 0.01, false)
	for _, m := range out {
		if m.Arc {
			t.Fatal("arcs disabled but an arc motion was emitted")
		}
	}
}

func TestSimplifyRejectsMultiQuadrantArc(t *testing.T) {
	// Points spanning more than one quadrant around the fitted center
	// must not collapse into a single arc move (the quadrant check).
	var points [][3]float64
	for i := 0; i <= 16; i++ {
		angle := float64(i) / 16 * math.Pi * 1.5 // 270 degrees, crosses quadrants
		points = append(points, [3]float64{10 * math.Cos(angle), 10 * math.Sin(angle), 0})
	}
	out := engine.Simplify(points, engine.PlaneXY, 0.01, true)
	if len(out) < 2 {
		t.Fatal("a multi-quadrant sweep should not collapse into one arc move")
	}
}

func TestSimplifyEmptyAndSinglePoint(t *testing.T) {
	if out := engine.Simplify(nil, engine.PlaneXY, 0.1, true); out != nil {
		t.Errorf("nil input should produce no motion records, got %v", out)
	}
	if out := engine.Simplify([][3]float64{{0, 0, 0}}, engine.PlaneXY, 0.1, true); out != nil {
		t.Errorf("a single point should produce no motion records, got %v", out)
	}
}
