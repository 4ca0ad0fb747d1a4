package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ironsheep/circle-ransac/internal/imaging"
	"github.com/ironsheep/circle-ransac/internal/pipeline"
	"github.com/ironsheep/circle-ransac/internal/ransac"
	"github.com/ironsheep/circle-ransac/internal/render"
)

var (
	detectSeed           int64
	detectMaxIterations  int
	detectTimeout        time.Duration
	detectMinInliers     float64
	detectEraseThickness float64
	detectAngleStep      float64
	detectThreshold      int
	detectErode          float64
	detectCanny          bool
	detectOutput         string
	detectMaskOutput     string
	detectLabels         bool
	detectGrid           int
	detectGridColor      string
	detectJSON           bool
)

var detectCmd = &cobra.Command{
	Use:   "detect [image]",
	Short: "Detect circles in an edge image",
	Long: `Detect circles in an edge image. Any non-black pixel counts as an edge
after thresholding and erosion; use --canny for photographs.

The run continues until Ctrl-C, --timeout, --max-iterations, or fewer than
three edge pixels remain. Circles are printed as they are accepted.`,
	Args: cobra.ExactArgs(1),
	RunE: runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)

	def := ransac.DefaultConfig()
	f := detectCmd.Flags()
	f.Int64Var(&detectSeed, "seed", 0, "Random seed (0 picks a time-based seed)")
	f.IntVarP(&detectMaxIterations, "max-iterations", "n", 0, "Stop after this many iterations (0 means no limit)")
	f.DurationVarP(&detectTimeout, "timeout", "t", 0, "Stop after this long, e.g. 30s (0 means no limit)")
	f.Float64Var(&detectMinInliers, "min-inliers", def.MinInlierRatio, "Fraction of circumference samples that must be inliers")
	f.Float64Var(&detectEraseThickness, "erase-thickness", def.EraseThickness, "Stroke width used to erase accepted circles (<= 0 erases the disc)")
	f.Float64Var(&detectAngleStep, "angle-step", def.AngleStep, "Circumference sampling step in radians")
	f.IntVar(&detectThreshold, "threshold", 1, "Lowest gray level (1-255) counted as an edge")
	f.Float64Var(&detectErode, "erode", 1, "Erosion radius applied to the mask (0 disables)")
	f.BoolVar(&detectCanny, "canny", false, "Extract edges with Canny before thresholding")
	f.StringVarP(&detectOutput, "output", "o", "", "Write the input with detected circles drawn, e.g. detectedCircles.png")
	f.StringVar(&detectMaskOutput, "mask-output", "", "Write the edge mask left after erasing detected circles")
	f.BoolVar(&detectLabels, "labels", true, "Label drawn circles with their detection index")
	f.IntVar(&detectGrid, "grid", 0, "Draw a coordinate grid every N pixels on the output image")
	f.StringVar(&detectGridColor, "grid-color", "#FF000080", "Grid color as #RRGGBB or #RRGGBBAA")
	f.BoolVar(&detectJSON, "json", false, "Print the result as JSON")
}

func runDetect(cmd *cobra.Command, args []string) error {
	if detectThreshold < 0 || detectThreshold > 255 {
		return fmt.Errorf("threshold %d outside [0, 255]", detectThreshold)
	}

	gridColor, err := render.ParseHexColor(detectGridColor)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if detectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, detectTimeout)
		defer cancel()
	}

	cfg := ransac.Config{
		MinInlierRatio: detectMinInliers,
		AngleStep:      detectAngleStep,
		EraseThickness: detectEraseThickness,
		MaxIterations:  detectMaxIterations,
	}

	out := cmd.OutOrStdout()
	req := pipeline.Request{
		Path: args[0],
		Mask: imaging.MaskOptions{
			Threshold:   uint8(detectThreshold),
			ErodeRadius: detectErode,
			Canny:       detectCanny,
		},
		Config:    cfg,
		Seed:      detectSeed,
		Overlay:   detectOutput != "",
		Labels:    detectLabels,
		Grid:      detectGrid,
		GridColor: gridColor,
		Logger:    debugLogger(),
	}
	if !detectJSON {
		n := 0
		req.OnAccept = func(d ransac.Detection) {
			n++
			fmt.Fprintf(out, "circle %d: %s (%.2f%% inliers, iteration %d)\n", n, d.Circle, 100*d.InlierRatio, d.Iteration)
		}
	}

	res, err := pipeline.Run(ctx, imaging.NewImageCache(), req)
	if err != nil {
		return err
	}

	if detectOutput != "" {
		if err := render.Save(res.Overlay, detectOutput); err != nil {
			return err
		}
	}
	if detectMaskOutput != "" {
		if err := render.Save(res.Residual.Gray(), detectMaskOutput); err != nil {
			return err
		}
	}

	if detectJSON {
		b, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		fmt.Fprintln(out, string(b))
		return nil
	}

	fmt.Fprintf(out, "%d iterations performed\n", res.Iterations)
	fmt.Fprintf(out, "found %d circles, stopped: %s, %d of %d edge pixels left (seed %d, %d ms)\n",
		res.Count, res.StopReason, res.RemainingEdges, res.InitialEdges, res.Seed, res.ElapsedMs)
	return nil
}
