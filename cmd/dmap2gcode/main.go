// Command dmap2gcode converts a grayscale depth-map image into G-code,
// grounded on the teacher's cmd/snapmaker-cnc-finisher/main.go (flag
// handling, --force overwrite confirmation, buffered writing, summary
// print) and dmap2gcode_cli.py's main()/convert_image_to_gcode image-
// load-then-convert sequencing.
package main

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"
	"time"

	"github.com/relief-cnc/dmap2gcode/internal/cli"
	"github.com/relief-cnc/dmap2gcode/internal/config"
	"github.com/relief-cnc/dmap2gcode/internal/engine"
	"github.com/relief-cnc/dmap2gcode/internal/gcode"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	if cli.ShouldShowHelp(argv) {
		fmt.Print(cli.GetHelpText())
		return 0
	}
	if cli.ShouldShowVersion(argv) {
		fmt.Print(cli.GetVersionText())
		return 0
	}

	args, err := cli.ParseArgs(argv)
	if err != nil {
		fmt.Print(cli.GetHelpText())
		return cli.PrintError(err)
	}
	if err := cli.ValidateArgs(args); err != nil {
		return cli.PrintError(err)
	}

	if !args.Force {
		if _, err := os.Stat(args.OutputFile); err == nil {
			fmt.Printf("Output file exists: %s\nOverwrite? (y/n): ", args.OutputFile)
			var response string
			fmt.Scanln(&response)
			if !strings.EqualFold(response, "y") {
				fmt.Println("Operation cancelled.")
				return 0
			}
		}
	}

	cfg, err := loadConfig(args.ConfigFile)
	if err != nil {
		return cli.PrintError(err)
	}

	// generate_gcode.py's generate_rough prompt: roughing only runs
	// ahead of the finish pass when explicitly requested, even if the
	// config file carries roughing settings.
	if !args.Rough {
		cfg.RoughDepthPerPass = 0
	} else if cfg.RoughDepthPerPass <= 0 {
		cli.PrintWarning("--rough was given but the configuration has no rough_depth_per_pass; only the finish pass will run")
	}

	pixels, err := decodeDepthMap(args.InputFile)
	if err != nil {
		return cli.PrintError(err)
	}

	start := time.Now()
	if err := convertAndWrite(cfg, pixels, args.OutputFile, start); err != nil {
		return cli.PrintError(err)
	}
	return 0
}

func loadConfig(path string) (engine.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// decodeDepthMap reads a PNG or JPEG file and converts it to a row-major
// grayscale buffer scaled into 0..255 via the standard library's weighted luminance
// conversion (color.Gray16Model, ITU-R 601 luma weights), matching
// spec.md §4.1 step 1's "color images are luminance-converted" and
// resolving the image-load side of the open question in SPEC_FULL.md
// section E.1.
func decodeDepthMap(path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding input image: %w", err)
	}

	bounds := img.Bounds()
	rows := bounds.Dy()
	cols := bounds.Dx()

	tracker := cli.NewProgressTracker(rows)
	start := time.Now()
	lastUpdateLine := 0
	lastUpdateAt := start

	pixels := make([][]float64, rows)
	for r := 0; r < rows; r++ {
		row := make([]float64, cols)
		for c := 0; c < cols; c++ {
			gray := color.Gray16Model.Convert(img.At(bounds.Min.X+c, bounds.Min.Y+r)).(color.Gray16)
			row[c] = float64(gray.Y) / 257.0
		}
		pixels[r] = row

		tracker.Update(r+1, 0)
		now := time.Now()
		if tracker.ShouldUpdate(lastUpdateLine, now.Sub(lastUpdateAt)) {
			tracker.Display(os.Stderr, now.Sub(start))
			lastUpdateLine = r + 1
			lastUpdateAt = now
		}
	}
	if rows > 0 {
		fmt.Fprintln(os.Stderr)
	}
	return pixels, nil
}

// convertAndWrite runs the engine once (roughing layers, if enabled,
// followed by the single finish layer per spec.md §4.8) and writes the
// resulting line sequence to outputPath.
func convertAndWrite(cfg engine.Config, pixels [][]float64, outputPath string, start time.Time) error {
	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer out.Close()

	lines, err := engine.Convert(cfg, pixels)
	if err != nil {
		return fmt.Errorf("converting image: %w", err)
	}

	bw := gcode.NewBufferedWriter(out)
	for _, l := range lines {
		if err := bw.WriteLine(l); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}

	info, err := out.Stat()
	if err != nil {
		return fmt.Errorf("stat output file: %w", err)
	}

	stats := summarize(lines, info.Size(), time.Since(start))
	cli.PrintSummary(&stats)
	return nil
}

func summarize(lines []string, bytesOut int64, elapsed time.Duration) cli.ConversionStats {
	stats := cli.ConversionStats{
		TotalLines:     len(lines),
		BytesOut:       bytesOut,
		ProcessingTime: elapsed,
		Passes:         1,
	}
	for _, l := range lines {
		switch {
		case strings.Contains(l, "G0"):
			stats.RapidMoves++
		case strings.Contains(l, "G1"):
			stats.CutMoves++
		case strings.Contains(l, "G2"), strings.Contains(l, "G3"):
			stats.ArcMoves++
		}
	}
	return stats
}
