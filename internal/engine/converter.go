package engine

import "math"

// Converter is the Converter/Orchestrator of spec.md §4.8, grounded on
// the original engine's Converter class (one_pass/convert/frange/
// mill_rows/mill_cols) plus convert_image_to_gcode's origin-anchor table.
type Converter struct {
	cfg *Config

	hf    *HeightField
	tool  *ToolShape
	sweep *Sweep

	pixelSize float64
	xoffset   float64
	yoffset   float64

	rowScan ScanConverter
	colScan ScanConverter
	entry   EntryCut

	rd                float32 // current layer floor
	currentFeed       float64 // feed rate for the pass currently running
	currentPlungeFeed float64 // plunge feed rate for the pass currently running

	emitter *Emitter

	pixelstep   int
	splitpixels int
	edgeOffset  int // roughing-only: pixels the swath keeps clear of the final surface

	rowsActive   bool
	colsActive   bool
	colsFirst    bool
	cutPerimeter bool
	stepover     float64

	warn func(string)
}

// Convert is the engine's single entry point (spec.md §6):
// convert(config, pixels) -> sequence<string>.
func Convert(cfg Config, pixels [][]float64) ([]string, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(pixels) == 0 || len(pixels[0]) == 0 {
		return nil, &ImageError{Message: "empty pixel buffer"}
	}

	var lines []string
	write := func(s string) { lines = append(lines, s) }

	finishTool, err := NewToolShape(cfg.ToolKind, cfg.ToolDiameter, cfg.VAngle, pixelSizeOf(cfg, len(pixels)), 0)
	if err != nil {
		return nil, err
	}
	halo := finishTool.Wpix

	hf, err := NewHeightField(pixels, &cfg, halo)
	if err != nil {
		return nil, err
	}

	pixelSize := pixelSizeOf(cfg, len(pixels))
	x0, y0 := originOffsets(cfg.Origin, hf, pixelSize)

	emitter := NewEmitter(&cfg, write)
	conv := &Converter{
		cfg:       &cfg,
		hf:        hf,
		pixelSize: pixelSize,
		xoffset:   x0,
		yoffset:   y0,
		emitter:   emitter,
		warn:      func(msg string) { emitter.Warn(msg) },
	}

	emitter.Begin()
	emitter.Safety()

	if cfg.RoughDepthPerPass > 0 {
		roughTool, err := NewToolShape(cfg.RoughToolKind, cfg.RoughDiameter, cfg.VAngle, pixelSize, cfg.RoughOffset)
		if err != nil {
			return nil, err
		}
		conv.tool = roughTool
		conv.sweep = NewSweep(hf, roughTool)
		conv.currentFeed = cfg.RoughFeed
		conv.currentPlungeFeed = cfg.RoughPlungeFeed
		conv.edgeOffset = edgeOffsetPixels(cfg.RoughDiameter, cfg.ToolDiameter, pixelSize)
		conv.setupPasses(cfg.RoughScanPattern, cfg.RoughScanDirection, cfg.RoughCutPerimeter, cfg.RoughStepover)

		m := float64(hf.Min())
		r := -cfg.RoughDepthPerPass
		for r > m {
			conv.rd = float32(r)
			conv.onePass()
			r -= cfg.RoughDepthPerPass
		}
		if r < m+1e-6 {
			conv.rd = hf.Min()
			conv.onePass()
		}
	}

	conv.tool = finishTool
	conv.sweep = NewSweep(hf, finishTool)
	conv.currentFeed = cfg.Feed
	conv.currentPlungeFeed = cfg.PlungeFeed
	conv.edgeOffset = 0
	conv.setupPasses(cfg.ScanPattern, cfg.ScanDirection, cfg.CutPerimeter, cfg.Stepover)
	conv.rd = hf.Min()
	conv.onePass()

	emitter.End()
	return lines, nil
}

func pixelSizeOf(cfg Config, rows int) float64 {
	if rows < 2 {
		return cfg.ImageYScale
	}
	return cfg.ImageYScale / float64(rows-1)
}

func edgeOffsetPixels(roughDia, finishDia, pixelSize float64) int {
	d := (roughDia - finishDia) / 2
	if d < 0 {
		d = 0
	}
	return int(math.Ceil(d / pixelSize))
}

func (c *Converter) setupPasses(pattern ScanPattern, direction ScanDirection, cutPerimeter bool, stepover float64) {
	rowsActive := pattern == ScanRows || pattern == ScanColumnsThenRows
	colsActive := pattern == ScanColumns || pattern == ScanColumnsThenRows

	c.rowsActive = rowsActive
	c.colsActive = colsActive
	c.colsFirst = pattern == ScanColumnsThenRows
	c.cutPerimeter = cutPerimeter
	c.stepover = stepover

	c.pixelstep = intMax(1, int(math.Floor(stepover/c.pixelSize)))
	c.splitpixels = 0
	if c.cfg.Splitstep > 1e-9 {
		c.pixelstep = int(math.Floor(float64(c.pixelstep) * c.cfg.Splitstep * 2))
		if c.pixelstep < 1 {
			c.pixelstep = 1
		}
		c.splitpixels = int(math.Floor(float64(c.pixelstep) * c.cfg.Splitstep))
	}

	resolvedDir := direction
	if !isKnownDirection(direction) {
		c.warn("Unknown scan direction, defaulting to alternating")
		resolvedDir = ScanAlternating
	}

	c.rowScan = wrapLace(NewScanConverter(resolvedDir, AxisX), c, AxisX, rowsActive, colsActive, stepover)
	c.colScan = wrapLace(NewScanConverter(resolvedDir, AxisY), c, AxisY, rowsActive, colsActive, stepover)

	if !c.cfg.Cuttop {
		c.rowScan = NewCutTopReducer(c.rowScan, c.cfg.TopTol)
		c.colScan = NewCutTopReducer(c.colScan, c.cfg.TopTol)
	}

	if c.cfg.PlungeType == PlungeArc {
		c.entry = ArcEntryCut{}
	} else {
		c.entry = SimpleEntryCut{}
	}
}

func isKnownDirection(d ScanDirection) bool {
	switch d {
	case ScanPositive, ScanNegative, ScanAlternating, ScanUpMill, ScanDownMill:
		return true
	default:
		return false
	}
}

func wrapLace(inner ScanConverter, c *Converter, axis Axis, rowsActive, colsActive bool, stepover float64) ScanConverter {
	if c.cfg.LaceBound == LaceNone || !(rowsActive && colsActive) {
		return inner
	}
	secondaryAxis := AxisY
	if c.colsFirst {
		secondaryAxis = AxisX
	}
	if c.cfg.LaceBound == LaceFull || axis == secondaryAxis {
		keep := intMax(1, int(math.Floor(stepover/c.pixelSize))+1)
		return NewLaceReducer(inner, axis, c.cfg.ContactAngle, keep)
	}
	return inner
}

func intMax(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// onePass runs one full layer traversal per spec.md §4.8's one_pass.
func (c *Converter) onePass() {
	if c.colsFirst {
		c.emitter.SetPlane(PlaneYZ)
		c.millCols(true)
		if c.rowsActive {
			c.emitter.Safety()
		}
	}
	if c.rowsActive {
		c.emitter.SetPlane(PlaneXZ)
		c.millRows(!c.colsFirst)
	}
	if c.colsActive && !c.colsFirst {
		c.emitter.Safety()
		c.emitter.SetPlane(PlaneYZ)
		c.millCols(true)
	}
	c.emitter.Safety()

	if c.cutPerimeter && (c.rowsActive != c.colsActive) {
		savedStep := c.pixelstep
		c.pixelstep = intMax(c.hf.Rows, c.hf.Cols) + 1
		c.rowScan.Reset()
		c.colScan.Reset()
		if c.rowsActive {
			c.emitter.SetPlane(PlaneYZ)
			c.millCols(true)
		} else {
			c.emitter.SetPlane(PlaneXZ)
			c.millRows(true)
		}
		c.pixelstep = savedStep
		c.emitter.Safety()
	}

	c.rowScan.Reset()
	c.colScan.Reset()
}

// indexSchedule produces the j-schedule for mill_rows/mill_cols, forced
// to include both endpoints of [splitpixels+edgeOffset, limit-1-edgeOffset].
func (c *Converter) indexSchedule(limit int) []int {
	lo := float64(c.splitpixels + c.edgeOffset)
	hi := float64(limit - c.edgeOffset)
	if hi <= lo {
		if limit > 0 {
			return []int{0}
		}
		return nil
	}
	seen := map[int]bool{}
	var out []int
	add := func(v int) {
		if v < 0 || v >= limit || seen[v] {
			return
		}
		seen[v] = true
		out = append(out, v)
	}
	for v := lo; v < hi; v += float64(c.pixelstep) {
		add(int(v))
	}
	add(int(lo))
	add(limit - 1 - c.edgeOffset)
	return out
}

// millRows walks row index j, producing column samples i=0..Cols-1.
func (c *Converter) millRows(primary bool) {
	for _, j := range c.indexSchedule(c.hf.Rows) {
		y := float64(c.hf.Rows-j-1)*c.pixelSize + c.yoffset
		samples := make([]Sample, 0, c.hf.Cols)
		for i := 0; i < c.hf.Cols; i++ {
			x := float64(i)*c.pixelSize + c.xoffset
			z := float64(c.sweep.ZFloor(j, i, c.rd))
			dzdx := c.sweep.DZDCol(j, i, c.rd, c.pixelSize)
			dzdy := c.sweep.DZDRow(j, i, c.rd, c.pixelSize)
			samples = append(samples, Sample{Index: i, X: x, Y: y, Z: z, DZDX: dzdx, DZDY: dzdy})
		}
		for _, span := range c.rowScan.Next(primary, samples) {
			if len(span.Samples) == 0 {
				continue
			}
			if span.NeedsEntry {
				c.entry.Apply(c, AxisX, span.Samples[0].Index, j, span.Samples)
			}
			for _, s := range span.Samples {
				x, y, z := s.X, s.Y, s.Z
				c.emitter.Cut(&x, &y, &z)
			}
			c.emitter.Flush()
		}
	}
}

// millCols is symmetric to millRows with x/y roles swapped and reversed
// traversal.
func (c *Converter) millCols(primary bool) {
	indices := c.indexSchedule(c.hf.Cols)
	for k := len(indices) - 1; k >= 0; k-- {
		i := indices[k]
		x := float64(i)*c.pixelSize + c.xoffset
		samples := make([]Sample, 0, c.hf.Rows)
		for j := 0; j < c.hf.Rows; j++ {
			y := float64(c.hf.Rows-j-1)*c.pixelSize + c.yoffset
			z := float64(c.sweep.ZFloor(j, i, c.rd))
			dzdx := c.sweep.DZDCol(j, i, c.rd, c.pixelSize)
			dzdy := c.sweep.DZDRow(j, i, c.rd, c.pixelSize)
			samples = append(samples, Sample{Index: j, X: x, Y: y, Z: z, DZDX: dzdx, DZDY: dzdy})
		}
		for _, span := range c.colScan.Next(primary, samples) {
			if len(span.Samples) == 0 {
				continue
			}
			if span.NeedsEntry {
				c.entry.Apply(c, AxisY, span.Samples[0].Index, i, span.Samples)
			}
			for _, s := range span.Samples {
				x, y, z := s.X, s.Y, s.Z
				c.emitter.Cut(&x, &y, &z)
			}
			c.emitter.Flush()
		}
	}
}

// originOffsets maps the nine anchors (plus arc_center, treated as
// center) to (x_zero, y_zero), from which xoffset=-x_zero, yoffset=-y_zero
// (spec.md §4.8).
func originOffsets(o Origin, hf *HeightField, pixelSize float64) (xoffset, yoffset float64) {
	width := float64(hf.Cols-1) * pixelSize
	height := float64(hf.Rows-1) * pixelSize
	var x0, y0 float64
	switch o {
	case OriginTopLeft:
		x0, y0 = 0, height
	case OriginTopCenter:
		x0, y0 = width/2, height
	case OriginTopRight:
		x0, y0 = width, height
	case OriginCenterLeft:
		x0, y0 = 0, height/2
	case OriginBottomLeft:
		x0, y0 = 0, 0
	case OriginBottomCenter:
		x0, y0 = width/2, 0
	case OriginBottomRight:
		x0, y0 = width, 0
	case OriginCenterRight:
		x0, y0 = width, height/2
	default: // OriginCenter, OriginArcCenter
		x0, y0 = width/2, height/2
	}
	return -x0, -y0
}
