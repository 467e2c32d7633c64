package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Version information (set during build with -ldflags)
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Args contains parsed command-line arguments
type Args struct {
	InputFile  string // depth-map image path
	OutputFile string // finish-pass G-code output path
	ConfigFile string // optional JSON configuration file
	Force      bool   // overwrite OutputFile without prompting
	Rough      bool   // also emit a roughing pass alongside the finish pass
}

// ParseArgs parses command-line arguments.
// Expected format: [--force] [--rough] [--config=FILE] <input-image> <output-file>
func ParseArgs(args []string) (*Args, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no arguments provided")
	}

	fs := flag.NewFlagSet("dmap2gcode", flag.ContinueOnError)

	result := &Args{}

	fs.BoolVar(&result.Force, "force", false, "Overwrite output file without prompting")
	fs.BoolVar(&result.Force, "f", false, "Overwrite output file without prompting")
	fs.BoolVar(&result.Rough, "rough", false, "Also emit a roughing pass ahead of the finish pass")
	fs.StringVar(&result.ConfigFile, "config", "", "Path to a JSON configuration file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	positional := fs.Args()
	if len(positional) != 2 {
		return nil, fmt.Errorf("expected 2 arguments (input image, output file), got %d", len(positional))
	}

	result.InputFile = positional[0]
	result.OutputFile = positional[1]

	return result, nil
}

// ValidateArgs validates that the parsed arguments are valid.
// Checks that the input file and (if given) the config file exist, and that
// the output directory exists.
func ValidateArgs(args *Args) error {
	if _, err := os.Stat(args.InputFile); os.IsNotExist(err) {
		return fmt.Errorf("input file does not exist: %s", args.InputFile)
	} else if err != nil {
		return fmt.Errorf("failed to check input file: %w", err)
	}

	if args.ConfigFile != "" {
		if _, err := os.Stat(args.ConfigFile); os.IsNotExist(err) {
			return fmt.Errorf("config file does not exist: %s", args.ConfigFile)
		} else if err != nil {
			return fmt.Errorf("failed to check config file: %w", err)
		}
	}

	outputDir := filepath.Dir(args.OutputFile)
	if outputDir == "." || outputDir == "" {
		outputDir = "."
	}

	if _, err := os.Stat(outputDir); os.IsNotExist(err) {
		return fmt.Errorf("output directory does not exist: %s", outputDir)
	} else if err != nil {
		return fmt.Errorf("failed to check output directory: %w", err)
	}

	return nil
}

// ShouldShowHelp checks if --help or -h flag is present
func ShouldShowHelp(args []string) bool {
	for _, arg := range args {
		if arg == "--help" || arg == "-h" {
			return true
		}
	}
	return false
}

// ShouldShowVersion checks if --version or -v flag is present
func ShouldShowVersion(args []string) bool {
	for _, arg := range args {
		if arg == "--version" || arg == "-v" {
			return true
		}
	}
	return false
}

// GetHelpText returns the help message text
func GetHelpText() string {
	var sb strings.Builder

	sb.WriteString("Depth-Map to G-code Converter\n\n")
	sb.WriteString("Usage: dmap2gcode [FLAGS] <input-image> <output-file>\n\n")

	sb.WriteString("Positional Arguments:\n")
	sb.WriteString("  input-image    Path to a grayscale depth-map image (PNG or JPEG)\n")
	sb.WriteString("  output-file    Path for the generated G-code file\n\n")

	sb.WriteString("Optional Flags:\n")
	sb.WriteString("  --config=<file>   Path to a JSON configuration file (basic/roughing/advanced)\n")
	sb.WriteString("  --rough           Also emit a roughing pass ahead of the finish pass\n")
	sb.WriteString("  --force, -f       Overwrite output file without confirmation\n")
	sb.WriteString("  --help, -h        Display this help message\n")
	sb.WriteString("  --version, -v     Display version information\n\n")

	sb.WriteString("Examples:\n")
	sb.WriteString("  dmap2gcode relief.png output.gcode\n")
	sb.WriteString("  dmap2gcode --config=dmapConfig.json --rough relief.png output.gcode\n")
	sb.WriteString("  dmap2gcode --force relief.png output.gcode\n\n")

	sb.WriteString("For more information, visit: https://github.com/relief-cnc/dmap2gcode\n")

	return sb.String()
}

// GetVersionText returns the version information text
func GetVersionText() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("dmap2gcode version %s\n", Version))
	sb.WriteString(fmt.Sprintf("Built with Go %s\n", runtime.Version()))
	sb.WriteString(fmt.Sprintf("Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH))

	if GitCommit != "unknown" {
		sb.WriteString(fmt.Sprintf("Git commit: %s\n", GitCommit))
	}

	if BuildDate != "unknown" {
		sb.WriteString(fmt.Sprintf("Build date: %s\n", BuildDate))
	}

	return sb.String()
}
