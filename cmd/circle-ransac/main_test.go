package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ironsheep/circle-ransac/internal/ransac"
)

// execute runs the root command with args and returns what it printed.
// Flags are reset to their defaults first since the command tree is global.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	for _, c := range rootCmd.Commands() {
		resetFlags(c)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(c *cobra.Command) {
	c.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
}

func writeRingPNG(t *testing.T, dir string, w, h int, cx, cy, r float64) string {
	t.Helper()

	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if math.Abs(math.Hypot(float64(x)-cx, float64(y)-cy)-r) <= 0.75 {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}

	path := filepath.Join(dir, "edges.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func TestFitCommand(t *testing.T) {
	out, err := execute(t, "fit", "150", "100", "100", "150", "50", "100")
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	if !strings.Contains(out, "center: [100.00, 100.00] radius: 50.00") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "inlier tolerance: 2.00 px") {
		t.Errorf("tolerance missing from output:\n%s", out)
	}
}

func TestFitCommand_Collinear(t *testing.T) {
	_, err := execute(t, "fit", "0", "0", "10", "10", "20", "20")
	if !errors.Is(err, ransac.ErrDegenerateFit) {
		t.Errorf("got %v, want ErrDegenerateFit", err)
	}
}

func TestFitCommand_InvalidArgs(t *testing.T) {
	if _, err := execute(t, "fit", "1", "2", "x", "4", "5", "6"); err == nil {
		t.Error("non-numeric coordinate accepted")
	}
	if _, err := execute(t, "fit", "1", "2", "3"); err == nil {
		t.Error("three arguments accepted")
	}
}

func TestDetectCommand_JSON(t *testing.T) {
	dir := t.TempDir()
	input := writeRingPNG(t, dir, 160, 140, 80, 70, 45)
	overlay := filepath.Join(dir, "detectedCircles.png")
	residual := filepath.Join(dir, "residual.png")

	out, err := execute(t, "detect", input,
		"--seed", "5",
		"--max-iterations", "2000",
		"--erode", "0",
		"--json",
		"--output", overlay,
		"--mask-output", residual,
	)
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}

	var res struct {
		Count      int    `json:"count"`
		Seed       int64  `json:"seed"`
		Iterations int    `json:"iterations"`
		StopReason string `json:"stop_reason"`
		Width      int    `json:"width"`
		Height     int    `json:"height"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("invalid JSON output %q: %v", out, err)
	}
	if res.Count == 0 {
		t.Error("no circle detected")
	}
	if res.Seed != 5 {
		t.Errorf("seed: got %d, want 5", res.Seed)
	}
	if res.Iterations > 2000 {
		t.Errorf("iterations %d exceed the budget", res.Iterations)
	}
	if res.Width != 160 || res.Height != 140 {
		t.Errorf("size: got %dx%d, want 160x140", res.Width, res.Height)
	}

	for _, p := range []string{overlay, residual} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("output %s not written: %v", p, err)
		}
	}
}

func TestDetectCommand_Text(t *testing.T) {
	dir := t.TempDir()
	input := writeRingPNG(t, dir, 120, 120, 60, 60, 40)

	out, err := execute(t, "detect", input, "--seed", "9", "--max-iterations", "2000", "--erode", "0")
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}

	if !strings.Contains(out, "circle 1: center: ") {
		t.Errorf("accepted circle not reported:\n%s", out)
	}
	if !strings.Contains(out, "iterations performed") {
		t.Errorf("iteration summary missing:\n%s", out)
	}
	if !strings.Contains(out, "seed 9") {
		t.Errorf("seed missing from summary:\n%s", out)
	}
}

func TestDetectCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	input := writeRingPNG(t, dir, 40, 40, 20, 20, 10)

	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"detect", filepath.Join(dir, "missing.png")}},
		{"threshold out of range", []string{"detect", input, "--threshold", "256"}},
		{"invalid inlier ratio", []string{"detect", input, "--min-inliers", "1.5"}},
		{"negative iteration limit", []string{"detect", input, "--max-iterations", "-1"}},
		{"no image", []string{"detect"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestServeCommand(t *testing.T) {
	for _, c := range rootCmd.Commands() {
		resetFlags(c)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}` + "\n"))
	rootCmd.SetArgs([]string{"serve"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("serve failed: %v", err)
	}
	if !strings.Contains(out.String(), `"id":1`) {
		t.Errorf("ping response missing: %q", out.String())
	}
}
