// Package config loads the JSON configuration file consumed by the
// dmap2gcode CLI and translates it into an engine.Config, grounded on
// generate_gcode.py's load_config_from_toml/create_default_config (which,
// despite the historical "toml" naming, reads a JSON document with
// basic/roughing/advanced sections) and dmap2gcode_cli.py's simplified
// origin-flag naming.
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/relief-cnc/dmap2gcode/internal/cli"
	"github.com/relief-cnc/dmap2gcode/internal/engine"
)

// file is the on-disk JSON shape: three sections, each optional, each
// field within optional. Pointer fields distinguish "absent" from the
// zero value so loading can fall back to create_default_config's
// hardcoded defaults field by field.
type file struct {
	Basic    basicSection    `json:"basic"`
	Roughing roughingSection `json:"roughing"`
	Advanced advancedSection `json:"advanced"`
}

type basicSection struct {
	Units         *string  `json:"units"`
	ToolType      *string  `json:"tool_type"`
	Dia           *float64 `json:"dia"`
	VAngle        *float64 `json:"v_angle"`
	YScale        *float64 `json:"yscale"`
	ZCut          *float64 `json:"z_cut"`
	ZSafe         *float64 `json:"z_safe"`
	FFeed         *float64 `json:"f_feed"`
	PFeed         *float64 `json:"p_feed"`
	Stepover      *float64 `json:"stepover"`
	ScanPattern   *string  `json:"scan_pattern"`
	ScanDirection *string  `json:"scan_direction"`
	Origin        *string  `json:"origin"`
	Tolerance     *float64 `json:"tolerance"`
	PlungeType    *string  `json:"plungetype"`
	Invert        *bool    `json:"invert"`
	Normalize     *bool    `json:"normalize"`
	Cuttop        *bool    `json:"cuttop"`
}

type roughingSection struct {
	Tool         *string  `json:"tool"`
	Dia          *float64 `json:"dia"`
	Stepover     *float64 `json:"stepover"`
	DepthPerPass *float64 `json:"depth_per_pass"`
	FeedRate     *float64 `json:"feed_rate"`
	PlungeRate   *float64 `json:"plunge_rate"`
	Offset       *float64 `json:"offset"`
}

type advancedSection struct {
	CutPerim    *bool    `json:"cutperim"`
	DisableArcs *bool    `json:"disable_arcs"`
	Splitstep   *float64 `json:"splitstep"`
	LaceBound   *string  `json:"lace_bound"`
	ContactAngle *float64 `json:"cangle"`
	GPre        []string `json:"gpre"`
	GPost       []string `json:"gpost"`
}

// Load reads a dmapConfig.json-style file at path and returns the
// translated engine.Config. A file that cannot be read or parsed is
// returned as an error; Default returns the same hardcoded fallback
// create_default_config uses when no file is present.
func Load(path string) (engine.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return engine.Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return engine.Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return f.toEngineConfig()
}

// Default returns the hardcoded configuration create_default_config
// falls back to when dmapConfig.json is absent.
func Default() engine.Config {
	var f file
	cfg, err := f.toEngineConfig()
	if err != nil {
		// The hardcoded defaults are fixed strings checked against the
		// same parse tables exercised by every unit test; a failure here
		// would mean the table and the defaults drifted apart.
		panic(err)
	}
	return cfg
}

func strVal(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

func floatVal(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func boolVal(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func (f file) toEngineConfig() (engine.Config, error) {
	var cfg engine.Config

	cfg.Units, _ = engine.ParseUnits(strVal(f.Basic.Units, "mm"))
	toolType := strVal(f.Basic.ToolType, "Ball")
	toolKind, ok := engine.ParseToolKind(strings.ToLower(toolType))
	if !ok {
		return engine.Config{}, &cli.InvalidStrategyError{Strategy: "tool_type: " + toolType}
	}
	cfg.ToolKind = toolKind
	cfg.ToolDiameter = floatVal(f.Basic.Dia, 4.0)
	cfg.VAngle = floatVal(f.Basic.VAngle, 60.0)

	cfg.ImageYScale = floatVal(f.Basic.YScale, 150.0)
	// create_default_config stores z_cut as a negative Z value
	// (downward); the engine's ZCut is the positive depth magnitude
	// scaled into the height field (heightfield.go), so take the
	// absolute value here.
	cfg.ZCut = math.Abs(floatVal(f.Basic.ZCut, -20.0))
	cfg.ZSafe = floatVal(f.Basic.ZSafe, 10.0)

	cfg.Feed = floatVal(f.Basic.FFeed, 3000.0)
	cfg.PlungeFeed = floatVal(f.Basic.PFeed, 1500.0)
	cfg.Stepover = floatVal(f.Basic.Stepover, 1.0)
	cfg.Tolerance = floatVal(f.Basic.Tolerance, 0.05)

	scanPattern := strVal(f.Basic.ScanPattern, "Rows")
	pattern, ok := engine.ParseScanPattern(strings.ToLower(strings.ReplaceAll(scanPattern, "-", "_")))
	if !ok {
		return engine.Config{}, &cli.InvalidStrategyError{Strategy: "scan_pattern: " + scanPattern}
	}
	cfg.ScanPattern = pattern
	cfg.ScanDirection = parseScanDirection(strVal(f.Basic.ScanDirection, "Alternating"))

	origin := strVal(f.Basic.Origin, "Mid-Center")
	resolvedOrigin, ok := resolveOrigin(origin)
	if !ok {
		return engine.Config{}, &cli.InvalidStrategyError{Strategy: "origin: " + origin}
	}
	cfg.Origin = resolvedOrigin

	cfg.PlungeType, _ = engine.ParsePlungeType(strings.ToLower(strVal(f.Basic.PlungeType, "simple")))

	cfg.Invert = boolVal(f.Basic.Invert, false)
	cfg.Normalize = boolVal(f.Basic.Normalize, true)
	cfg.Cuttop = boolVal(f.Basic.Cuttop, true)
	cfg.TopTol = cfg.Tolerance

	cfg.RoughToolKind = parseToolKind(strVal(f.Roughing.Tool, "Flat"))
	cfg.RoughDiameter = floatVal(f.Roughing.Dia, 6.0)
	cfg.RoughStepover = floatVal(f.Roughing.Stepover, 3.0)
	cfg.RoughDepthPerPass = floatVal(f.Roughing.DepthPerPass, 3.0)
	cfg.RoughFeed = floatVal(f.Roughing.FeedRate, 5000.0)
	cfg.RoughPlungeFeed = floatVal(f.Roughing.PlungeRate, 1500.0)
	cfg.RoughOffset = floatVal(f.Roughing.Offset, 1.0)
	cfg.RoughScanPattern = cfg.ScanPattern
	cfg.RoughScanDirection = cfg.ScanDirection
	cfg.RoughCutPerimeter = boolVal(f.Advanced.CutPerim, false)

	cfg.CutPerimeter = boolVal(f.Advanced.CutPerim, false)
	cfg.DisableArcs = boolVal(f.Advanced.DisableArcs, true)
	cfg.Splitstep = floatVal(f.Advanced.Splitstep, 0.0)
	cfg.LaceBound = parseLaceBound(strVal(f.Advanced.LaceBound, "None"))
	cfg.ContactAngle = floatVal(f.Advanced.ContactAngle, 45.0)

	gpre := f.Advanced.GPre
	if len(gpre) == 0 {
		gpre = []string{"G17 G90 M3 S24000", "G4 P5000"}
	}
	cfg.HeaderLines = gpre

	gpost := f.Advanced.GPost
	if len(gpost) == 0 {
		gpost = []string{"M5", "M30"}
	}
	cfg.PostscriptLines = gpost

	return cfg, nil
}

func parseToolKind(s string) engine.ToolKind {
	if k, ok := engine.ParseToolKind(strings.ToLower(s)); ok {
		return k
	}
	return engine.ToolBall
}

func parseScanDirection(s string) engine.ScanDirection {
	if d, ok := engine.ParseScanDirection(strings.ToLower(s)); ok {
		return d
	}
	return engine.ScanAlternating
}

func parseLaceBound(s string) engine.LaceBound {
	if b, ok := engine.ParseLaceBound(strings.ToLower(s)); ok {
		return b
	}
	return engine.LaceNone
}

// resolveOrigin reconciles the two naming conventions seen in the
// original sources: generate_gcode.py's GUI-style "Mid-Center" and
// dmap2gcode_cli.py's hyphenated "top-left", mapping both onto
// engine.Config's nine anchors plus arc_center.
func resolveOrigin(s string) (engine.Origin, bool) {
	norm := strings.ToLower(strings.ReplaceAll(s, " ", "-"))
	norm = strings.TrimPrefix(norm, "mid-")
	norm = strings.ReplaceAll(norm, "-", "_")
	if norm == "default" || norm == "" {
		norm = "center"
	}
	return engine.ParseOrigin(norm)
}
