package cli_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/relief-cnc/dmap2gcode/internal/cli"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    *cli.Args
		wantErr bool
	}{
		{
			name: "Minimal positional args",
			args: []string{"relief.png", "output.gcode"},
			want: &cli.Args{InputFile: "relief.png", OutputFile: "output.gcode"},
		},
		{
			name: "With force and rough",
			args: []string{"--force", "--rough", "relief.png", "output.gcode"},
			want: &cli.Args{InputFile: "relief.png", OutputFile: "output.gcode", Force: true, Rough: true},
		},
		{
			name: "With config file flag",
			args: []string{"--config=dmapConfig.json", "relief.png", "output.gcode"},
			want: &cli.Args{InputFile: "relief.png", OutputFile: "output.gcode", ConfigFile: "dmapConfig.json"},
		},
		{
			name:    "No arguments",
			args:    []string{},
			wantErr: true,
		},
		{
			name:    "Too few positional args",
			args:    []string{"relief.png"},
			wantErr: true,
		},
		{
			name:    "Too many positional args",
			args:    []string{"relief.png", "a", "b"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cli.ParseArgs(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseArgs() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.InputFile != tt.want.InputFile || got.OutputFile != tt.want.OutputFile ||
				got.ConfigFile != tt.want.ConfigFile || got.Force != tt.want.Force || got.Rough != tt.want.Rough {
				t.Errorf("ParseArgs() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestValidateArgs(t *testing.T) {
	tmpDir := t.TempDir()
	existingImage := filepath.Join(tmpDir, "relief.png")
	if err := os.WriteFile(existingImage, []byte("fake-png"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	existingConfig := filepath.Join(tmpDir, "config.json")
	if err := os.WriteFile(existingConfig, []byte("{}"), 0644); err != nil {
		t.Fatalf("Failed to create test config: %v", err)
	}

	tests := []struct {
		name    string
		args    *cli.Args
		wantErr bool
		errMsg  string
	}{
		{
			name: "Valid args with existing input file",
			args: &cli.Args{
				InputFile:  existingImage,
				OutputFile: filepath.Join(tmpDir, "output.gcode"),
			},
			wantErr: false,
		},
		{
			name: "Valid args with existing config file",
			args: &cli.Args{
				InputFile:  existingImage,
				OutputFile: filepath.Join(tmpDir, "output.gcode"),
				ConfigFile: existingConfig,
			},
			wantErr: false,
		},
		{
			name: "Input file does not exist",
			args: &cli.Args{
				InputFile:  filepath.Join(tmpDir, "nonexistent.png"),
				OutputFile: filepath.Join(tmpDir, "output.gcode"),
			},
			wantErr: true,
			errMsg:  "input file does not exist",
		},
		{
			name: "Config file does not exist",
			args: &cli.Args{
				InputFile:  existingImage,
				OutputFile: filepath.Join(tmpDir, "output.gcode"),
				ConfigFile: filepath.Join(tmpDir, "nonexistent.json"),
			},
			wantErr: true,
			errMsg:  "config file does not exist",
		},
		{
			name: "Output directory does not exist",
			args: &cli.Args{
				InputFile:  existingImage,
				OutputFile: "/nonexistent/directory/output.gcode",
			},
			wantErr: true,
			errMsg:  "output directory does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cli.ValidateArgs(tt.args)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateArgs() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && err != nil && tt.errMsg != "" {
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Error message should contain %q, got %q", tt.errMsg, err.Error())
				}
			}
		})
	}
}

func TestShouldShowHelp(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want bool
	}{
		{"--help flag", []string{"--help"}, true},
		{"-h flag", []string{"-h"}, true},
		{"--help with other args", []string{"--help", "foo", "bar"}, true},
		{"--help in middle", []string{"foo", "--help", "bar"}, true},
		{"No help flag", []string{"foo", "bar"}, false},
		{"Empty args", []string{}, false},
		{"Similar but not help", []string{"--helper"}, false},
		{"Just -h alone", []string{"-h"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cli.ShouldShowHelp(tt.args)
			if got != tt.want {
				t.Errorf("ShouldShowHelp(%v) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}

func TestShouldShowVersion(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want bool
	}{
		{"--version flag", []string{"--version"}, true},
		{"-v flag", []string{"-v"}, true},
		{"--version with other args", []string{"--version", "foo", "bar"}, true},
		{"--version in middle", []string{"foo", "--version", "bar"}, true},
		{"No version flag", []string{"foo", "bar"}, false},
		{"Empty args", []string{}, false},
		{"Similar but not version", []string{"--verbose"}, false},
		{"Just -v alone", []string{"-v"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cli.ShouldShowVersion(tt.args)
			if got != tt.want {
				t.Errorf("ShouldShowVersion(%v) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}

func TestGetHelpText(t *testing.T) {
	help := cli.GetHelpText()

	if help == "" {
		t.Fatal("GetHelpText() returned empty string")
	}

	requiredStrings := []string{
		"Depth-Map to G-code Converter",
		"Usage:",
		"dmap2gcode",
		"<input-image>",
		"<output-file>",
		"Positional Arguments:",
		"Optional Flags:",
		"--force",
		"--rough",
		"--config",
		"--help",
		"--version",
		"Examples:",
		"github.com/relief-cnc/dmap2gcode",
	}

	for _, required := range requiredStrings {
		if !strings.Contains(help, required) {
			t.Errorf("Help text missing required string: %q", required)
		}
	}
}

func TestGetVersionText(t *testing.T) {
	version := cli.GetVersionText()

	if version == "" {
		t.Fatal("GetVersionText() returned empty string")
	}

	requiredStrings := []string{
		"dmap2gcode",
		"version",
		"Built with Go",
		"Platform:",
	}

	for _, required := range requiredStrings {
		if !strings.Contains(version, required) {
			t.Errorf("Version text missing required string: %q", required)
		}
	}

	if !strings.Contains(version, runtime.Version()) {
		t.Error("Version text should contain Go runtime version")
	}

	if !strings.Contains(version, runtime.GOOS) {
		t.Error("Version text should contain OS name")
	}

	if !strings.Contains(version, runtime.GOARCH) {
		t.Error("Version text should contain architecture")
	}
}
