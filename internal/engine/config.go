package engine

import (
	"fmt"
	"strings"
)

// Units selects the G-code unit word emitted in the header.
type Units int

const (
	UnitsMM Units = iota
	UnitsInch
)

func ParseUnits(s string) (Units, bool) {
	switch strings.ToLower(s) {
	case "mm":
		return UnitsMM, true
	case "in":
		return UnitsInch, true
	default:
		return 0, false
	}
}

// ToolKind is the cutter profile used to build a ToolShape.
type ToolKind int

const (
	ToolBall ToolKind = iota
	ToolFlat
	ToolV
)

func ParseToolKind(s string) (ToolKind, bool) {
	switch strings.ToLower(s) {
	case "ball":
		return ToolBall, true
	case "flat":
		return ToolFlat, true
	case "v":
		return ToolV, true
	default:
		return 0, false
	}
}

// ScanPattern selects which axes are milled.
type ScanPattern int

const (
	ScanRows ScanPattern = iota
	ScanColumns
	ScanColumnsThenRows
)

func ParseScanPattern(s string) (ScanPattern, bool) {
	switch strings.ToLower(s) {
	case "rows":
		return ScanRows, true
	case "columns":
		return ScanColumns, true
	case "columns_then_rows":
		return ScanColumnsThenRows, true
	default:
		return 0, false
	}
}

// ScanDirection selects the per-row/column sample ordering strategy.
type ScanDirection int

const (
	ScanPositive ScanDirection = iota
	ScanNegative
	ScanAlternating
	ScanUpMill
	ScanDownMill
)

func ParseScanDirection(s string) (ScanDirection, bool) {
	switch strings.ToLower(s) {
	case "positive":
		return ScanPositive, true
	case "negative":
		return ScanNegative, true
	case "alternating":
		return ScanAlternating, true
	case "upmill":
		return ScanUpMill, true
	case "downmill":
		return ScanDownMill, true
	default:
		return 0, false
	}
}

// LaceBound controls when the lace reducer wraps the secondary/both scan converters.
type LaceBound int

const (
	LaceNone LaceBound = iota
	LaceSecondary
	LaceFull
)

func ParseLaceBound(s string) (LaceBound, bool) {
	switch strings.ToLower(s) {
	case "none":
		return LaceNone, true
	case "secondary":
		return LaceSecondary, true
	case "full":
		return LaceFull, true
	default:
		return 0, false
	}
}

// Origin is one of the nine anchor points plus arc_center.
type Origin int

const (
	OriginTopLeft Origin = iota
	OriginTopCenter
	OriginTopRight
	OriginCenterLeft
	OriginCenter
	OriginCenterRight
	OriginBottomLeft
	OriginBottomCenter
	OriginBottomRight
	OriginArcCenter
)

func ParseOrigin(s string) (Origin, bool) {
	switch strings.ToLower(s) {
	case "top_left":
		return OriginTopLeft, true
	case "top_center":
		return OriginTopCenter, true
	case "top_right":
		return OriginTopRight, true
	case "center_left":
		return OriginCenterLeft, true
	case "center", "default":
		return OriginCenter, true
	case "center_right":
		return OriginCenterRight, true
	case "bottom_left":
		return OriginBottomLeft, true
	case "bottom_center":
		return OriginBottomCenter, true
	case "bottom_right":
		return OriginBottomRight, true
	case "arc_center":
		return OriginArcCenter, true
	default:
		return 0, false
	}
}

// PlungeType selects the entry-cut geometry.
type PlungeType int

const (
	PlungeSimple PlungeType = iota
	PlungeArc
)

func ParsePlungeType(s string) (PlungeType, bool) {
	switch strings.ToLower(s) {
	case "simple":
		return PlungeSimple, true
	case "arc":
		return PlungeArc, true
	default:
		return 0, false
	}
}

// DefaultEntryArcMaxRadius is the default R_max for arc entry cuts, stated in
// engine units (spec §4.6, §9 open question: not rescaled with Units).
const DefaultEntryArcMaxRadius = 0.125

// SurfaceClearanceGuard is the Z threshold above which a cut move is silently
// dropped (spec §4.7). Stated in engine units (spec §9 open question).
const SurfaceClearanceGuard = -0.01

// Config is the immutable per-run record described in spec.md §3.
type Config struct {
	Units Units

	ToolKind      ToolKind
	ToolDiameter  float64
	VAngle        float64
	EntryArcRMax  float64 // defaults to DefaultEntryArcMaxRadius when zero
	PlungeType    PlungeType

	ImageYScale float64
	ZSafe       float64
	ZCut        float64

	Feed       float64
	PlungeFeed float64
	Stepover   float64
	Tolerance  float64

	ScanPattern   ScanPattern
	ScanDirection ScanDirection

	LaceBound    LaceBound
	ContactAngle float64

	Origin Origin

	Invert    bool
	Normalize bool
	Cuttop    bool
	TopTol    float64

	CutPerimeter bool
	DisableArcs  bool
	Splitstep    float64

	RoughToolKind      ToolKind
	RoughDiameter      float64
	RoughStepover      float64
	RoughDepthPerPass  float64
	RoughFeed          float64
	RoughPlungeFeed    float64
	RoughOffset        float64
	RoughScanPattern   ScanPattern
	RoughScanDirection ScanDirection
	RoughCutPerimeter  bool

	HeaderLines     []string
	PostscriptLines []string
}

// Validate checks the fields listed as "Configuration" errors in spec.md §7,
// including the §9 open-question decision to reject splitstep above 0.5
// rather than leave it as undefined behavior.
func (c *Config) Validate() error {
	if c.ToolDiameter <= 0 {
		return &ConfigError{Field: "tool_diameter", Message: "must be positive"}
	}
	if c.ToolKind == ToolV && (c.VAngle <= 0 || c.VAngle >= 180) {
		return &ConfigError{Field: "v_angle", Message: "must be in (0, 180) degrees"}
	}
	if c.ImageYScale <= 0 {
		return &ConfigError{Field: "image_yscale", Message: "must be positive"}
	}
	if c.ZCut <= 0 {
		return &ConfigError{Field: "z_cut", Message: "must be positive"}
	}
	if c.ZSafe <= 0 {
		return &ConfigError{Field: "z_safe", Message: "must be positive"}
	}
	if c.Feed <= 0 {
		return &ConfigError{Field: "feed", Message: "must be positive"}
	}
	if c.PlungeFeed <= 0 {
		return &ConfigError{Field: "plunge_feed", Message: "must be positive"}
	}
	if c.Stepover <= 0 {
		return &ConfigError{Field: "stepover", Message: "must be positive"}
	}
	if c.Tolerance <= 0 {
		return &ConfigError{Field: "tolerance", Message: "must be positive"}
	}
	if c.Splitstep < 0 || c.Splitstep > 0.5 {
		return &ConfigError{Field: "splitstep", Message: "must be within [0, 0.5]"}
	}
	if c.RoughDepthPerPass > 0 {
		if c.RoughDiameter <= 0 {
			return &ConfigError{Field: "rough_diameter", Message: "must be positive when roughing is enabled"}
		}
		if c.RoughStepover <= 0 {
			return &ConfigError{Field: "rough_stepover", Message: "must be positive when roughing is enabled"}
		}
		if c.RoughFeed <= 0 {
			return &ConfigError{Field: "rough_feed", Message: "must be positive when roughing is enabled"}
		}
		if c.RoughPlungeFeed <= 0 {
			return &ConfigError{Field: "rough_plunge_feed", Message: "must be positive when roughing is enabled"}
		}
	}
	return nil
}

// EntryArcMaxRadius returns the configured R_max, falling back to the
// engine default when unset.
func (c *Config) EntryArcMaxRadius() float64 {
	if c.EntryArcRMax > 0 {
		return c.EntryArcRMax
	}
	return DefaultEntryArcMaxRadius
}

func (u Units) GCodeWord() string {
	if u == UnitsInch {
		return "G20"
	}
	return "G21"
}

func (u Units) String() string {
	if u == UnitsInch {
		return "in"
	}
	return "mm"
}

func (c *Config) String() string {
	return fmt.Sprintf("Config{units=%s tool=%v d=%.4f}", c.Units, c.ToolKind, c.ToolDiameter)
}
