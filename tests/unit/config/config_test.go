package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/relief-cnc/dmap2gcode/internal/config"
	"github.com/relief-cnc/dmap2gcode/internal/engine"
)

func TestDefaultMatchesHardcodedFallback(t *testing.T) {
	cfg := config.Default()
	if cfg.Units != engine.UnitsMM {
		t.Errorf("default units = %v, want mm", cfg.Units)
	}
	if cfg.ToolKind != engine.ToolBall {
		t.Errorf("default tool kind = %v, want ball", cfg.ToolKind)
	}
	if cfg.ToolDiameter != 4.0 {
		t.Errorf("default dia = %v, want 4.0", cfg.ToolDiameter)
	}
	if cfg.ZCut != 20.0 {
		t.Errorf("default z_cut magnitude = %v, want 20.0", cfg.ZCut)
	}
	if cfg.ScanDirection != engine.ScanAlternating {
		t.Errorf("default scan direction = %v, want alternating", cfg.ScanDirection)
	}
	if cfg.Origin != engine.OriginCenter {
		t.Errorf("default origin = %v, want center (from Mid-Center)", cfg.Origin)
	}
	if len(cfg.HeaderLines) != 2 || cfg.HeaderLines[0] != "G17 G90 M3 S24000" {
		t.Errorf("default header lines = %v", cfg.HeaderLines)
	}
	if len(cfg.PostscriptLines) != 2 {
		t.Errorf("default postscript lines = %v", cfg.PostscriptLines)
	}
	if !cfg.DisableArcs {
		t.Error("default disable_arcs should be true")
	}
}

func TestLoadOverridesBasicSection(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dmapConfig.json")
	content := `{
		"basic": {
			"units": "in",
			"tool_type": "V",
			"dia": 6.35,
			"v_angle": 90,
			"yscale": 100,
			"z_cut": -5,
			"scan_pattern": "columns",
			"scan_direction": "upmill",
			"origin": "top-left"
		},
		"roughing": {
			"tool": "ball",
			"dia": 8
		},
		"advanced": {
			"disable_arcs": false,
			"cangle": 30
		}
	}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Units != engine.UnitsInch {
		t.Errorf("units = %v, want inch", cfg.Units)
	}
	if cfg.ToolKind != engine.ToolV {
		t.Errorf("tool kind = %v, want v", cfg.ToolKind)
	}
	if cfg.ZCut != 5 {
		t.Errorf("z_cut magnitude = %v, want 5 (abs of -5)", cfg.ZCut)
	}
	if cfg.ScanPattern != engine.ScanColumns {
		t.Errorf("scan pattern = %v, want columns", cfg.ScanPattern)
	}
	if cfg.ScanDirection != engine.ScanUpMill {
		t.Errorf("scan direction = %v, want upmill", cfg.ScanDirection)
	}
	if cfg.Origin != engine.OriginTopLeft {
		t.Errorf("origin = %v, want top_left (from top-left)", cfg.Origin)
	}
	if cfg.RoughDiameter != 8 {
		t.Errorf("rough diameter = %v, want 8 (override)", cfg.RoughDiameter)
	}
	if cfg.RoughStepover != 3.0 {
		t.Errorf("rough stepover = %v, want 3.0 (default fallback)", cfg.RoughStepover)
	}
	if cfg.DisableArcs {
		t.Error("disable_arcs should be overridden to false")
	}
	if cfg.ContactAngle != 30 {
		t.Errorf("contact angle = %v, want 30", cfg.ContactAngle)
	}
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	if _, err := config.Load("/nonexistent/dmapConfig.json"); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dmapConfig.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := config.Load(path); err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
}
