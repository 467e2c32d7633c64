package engine

import (
	"fmt"

	"github.com/256dpi/gcode"
)

// Emitter is the stateful G-code writer of spec.md §4.7, grounded on the
// original engine's Gcode class and adapted to the teacher's idiom of
// building gcode.Line{Codes: []gcode.GCode{...}} values and rendering them
// with Line.String() (internal/gcode/command.go, internal/writer/writer.go).
type Emitter struct {
	cfg   *Config
	write func(string)

	lastX, lastY, lastZ *float64
	lastGCode            string // "", "G0", or "G1"
	plane                Plane
	planeSet             bool
	feed                 float64
	feedSet              bool

	queue        [][3]float64
	pendingStart [3]float64
	hasPending   bool
}

// NewEmitter constructs an Emitter that calls write for every completed
// line of G-code.
func NewEmitter(cfg *Config, write func(string)) *Emitter {
	return &Emitter{cfg: cfg, write: write, plane: PlaneXY}
}

func (e *Emitter) Begin() {
	if len(e.cfg.HeaderLines) > 0 {
		for _, l := range e.cfg.HeaderLines {
			e.write(l)
		}
	} else {
		e.write("G17 G90 M3 S3000 G40 G94")
	}
	e.write(e.cfg.Units.GCodeWord())
	if !e.cfg.DisableArcs {
		e.write("G91.1")
	}
	z := e.cfg.ZSafe
	e.Rapid(nil, nil, &z)
}

// SetPlane emits G17/G18/G19 when the plane changes; a no-op when arcs
// are disabled.
func (e *Emitter) SetPlane(p Plane) {
	if e.cfg.DisableArcs {
		return
	}
	if e.planeSet && e.plane == p {
		return
	}
	e.plane = p
	e.planeSet = true
	e.write(fmt.Sprintf("G%d", int(p)))
}

func (e *Emitter) resolve(x, y, z *float64) (float64, float64, float64) {
	rx, ry, rz := e.curX(), e.curY(), e.curZ()
	if x != nil {
		rx = *x
	}
	if y != nil {
		ry = *y
	}
	if z != nil {
		rz = *z
	}
	return rx, ry, rz
}

func (e *Emitter) curX() float64 {
	if e.lastX != nil {
		return *e.lastX
	}
	return 0
}
func (e *Emitter) curY() float64 {
	if e.lastY != nil {
		return *e.lastY
	}
	return 0
}
func (e *Emitter) curZ() float64 {
	if e.lastZ != nil {
		return *e.lastZ
	}
	return 0
}

func (e *Emitter) setLast(x, y, z float64) {
	e.lastX, e.lastY, e.lastZ = &x, &y, &z
}

// Rapid emits a G0 move with sparse coordinates; missing axes inherit
// from last state, unchanged axes are omitted from the line.
func (e *Emitter) Rapid(x, y, z *float64) {
	e.Flush()
	e.moveCommon("G0", x, y, z)
}

// Cut appends a resolved (x,y,z) triple to the pending cut queue; missing
// axes inherit from the last queued point, or from the last emitted
// position when the queue is empty. A cut whose resolved Z is above the
// surface-clearance guard is silently dropped (spec.md §4.7, §9).
func (e *Emitter) Cut(x, y, z *float64) {
	nx, ny, nz := e.resolve(x, y, z)
	if n := len(e.queue); n > 0 {
		q := e.queue[n-1]
		if x == nil {
			nx = q[0]
		}
		if y == nil {
			ny = q[1]
		}
		if z == nil {
			nz = q[2]
		}
	}
	if nz > SurfaceClearanceGuard {
		return
	}
	if !e.hasPending {
		e.pendingStart = [3]float64{e.curX(), e.curY(), e.curZ()}
		e.hasPending = true
	}
	e.queue = append(e.queue, [3]float64{nx, ny, nz})
}

// SetFeed flushes pending cuts and writes F%.4f when the feed differs from
// the last one written.
func (e *Emitter) SetFeed(f float64) {
	e.Flush()
	if e.feedSet && e.feed == f {
		return
	}
	e.feed = f
	e.feedSet = true
	e.write(fmt.Sprintf("F%.4f", f))
}

// Flush runs the Path Simplifier over the queued cut points and emits
// the resulting motion records. A no-op on an empty queue.
func (e *Emitter) Flush() {
	if len(e.queue) == 0 {
		return
	}
	points := make([][3]float64, 0, len(e.queue)+1)
	points = append(points, e.pendingStart)
	points = append(points, e.queue...)

	records := Simplify(points, e.plane, e.cfg.Tolerance, !e.cfg.DisableArcs)
	for _, m := range records {
		e.emitMotion(m)
	}
	e.queue = nil
	e.hasPending = false
}

// EmitArc emits a single G2/G3 move directly, bypassing the cut queue.
// Used by the arc entry cut, which computes its own lead-in geometry
// rather than going through the Path Simplifier.
func (e *Emitter) EmitArc(m MotionRecord) {
	e.Flush()
	e.emitMotion(m)
}

func (e *Emitter) emitMotion(m MotionRecord) {
	word, gval := "G1", 1.0
	if m.Arc {
		if m.CW {
			word, gval = "G2", 2.0
		} else {
			word, gval = "G3", 3.0
		}
	}
	x, y, z := m.Point[0], m.Point[1], m.Point[2]

	codes := []gcode.GCode{}
	if word != e.lastGCode {
		codes = append(codes, gcode.GCode{Letter: "G", Value: gval})
	}
	if e.lastX == nil || *e.lastX != x {
		codes = append(codes, gcode.GCode{Letter: "X", Value: x})
	}
	if e.lastY == nil || *e.lastY != y {
		codes = append(codes, gcode.GCode{Letter: "Y", Value: y})
	}
	if e.lastZ == nil || *e.lastZ != z {
		codes = append(codes, gcode.GCode{Letter: "Z", Value: z})
	}
	if m.Arc {
		a, b := planeAxes(e.plane)
		codes = append(codes, gcode.GCode{Letter: axisCenterLetter(a), Value: m.CenterOffset[a]})
		codes = append(codes, gcode.GCode{Letter: axisCenterLetter(b), Value: m.CenterOffset[b]})
	}
	e.lastGCode = word
	if m.Arc {
		e.lastGCode = ""
	}
	e.setLast(x, y, z)

	if len(codes) == 0 {
		return
	}
	line := gcode.Line{Codes: codes}
	e.write(line.String())
}

// moveCommon emits a G0 line for sparse, possibly-absent axis values,
// omitting axes that are nil or unchanged from last state, and the
// motion word itself when it hasn't changed (spec.md §4.7).
func (e *Emitter) moveCommon(word string, x, y, z *float64) {
	codes := []gcode.GCode{}
	if word != e.lastGCode {
		codes = append(codes, gcode.GCode{Letter: "G", Value: 0})
	}
	nx, ny, nz := e.curX(), e.curY(), e.curZ()
	if x != nil {
		nx = *x
		if e.lastX == nil || *e.lastX != nx {
			codes = append(codes, gcode.GCode{Letter: "X", Value: nx})
		}
	}
	if y != nil {
		ny = *y
		if e.lastY == nil || *e.lastY != ny {
			codes = append(codes, gcode.GCode{Letter: "Y", Value: ny})
		}
	}
	if z != nil {
		nz = *z
		if e.lastZ == nil || *e.lastZ != nz {
			codes = append(codes, gcode.GCode{Letter: "Z", Value: nz})
		}
	}
	e.lastGCode = word
	e.setLast(nx, ny, nz)
	if len(codes) == 0 {
		return
	}
	line := gcode.Line{Codes: codes}
	e.write(line.String())
}

func axisCenterLetter(axis int) string {
	switch axis {
	case 0:
		return "I"
	case 1:
		return "J"
	default:
		return "K"
	}
}

// Safety flushes pending cuts then rapids to Z=z_safe.
func (e *Emitter) Safety() {
	e.Flush()
	z := e.cfg.ZSafe
	e.Rapid(nil, nil, &z)
}

// End flushes, rises to safe height, rapids home, and emits the
// postscript (or M5/M2 by default: spindle stop then program end,
// matching dmap2gcode_cli.py's default postscript of "M5|M2").
func (e *Emitter) End() {
	e.Flush()
	z := e.cfg.ZSafe
	e.Rapid(nil, nil, &z)
	x, y := 0.0, 0.0
	e.Rapid(&x, &y, nil)
	if len(e.cfg.PostscriptLines) > 0 {
		for _, l := range e.cfg.PostscriptLines {
			e.write(l)
		}
		return
	}
	e.write("M5")
	e.write("M2")
}

// Warn emits a host-visible warning as a G-code comment (spec.md §7:
// "Unknown scan direction defaults to alternating with a warning
// delivered to the emit callback as a G-code comment").
func (e *Emitter) Warn(message string) {
	e.write("(" + message + ")")
}
