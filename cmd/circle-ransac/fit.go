package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ironsheep/circle-ransac/internal/geometry"
	"github.com/ironsheep/circle-ransac/internal/ransac"
)

var fitCmd = &cobra.Command{
	Use:   "fit x1 y1 x2 y2 x3 y3",
	Short: "Print the circle through three points",
	Args:  cobra.ExactArgs(6),
	RunE:  runFit,
}

func init() {
	rootCmd.AddCommand(fitCmd)
}

func runFit(cmd *cobra.Command, args []string) error {
	var v [6]float64
	for i, s := range args {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid coordinate %q: %w", s, err)
		}
		v[i] = f
	}

	p1, p2, p3 := geometry.Pt(v[0], v[1]), geometry.Pt(v[2], v[3]), geometry.Pt(v[4], v[5])
	c := geometry.FitCircle(p1, p2, p3)
	if !c.IsFinite() {
		return fmt.Errorf("%w: %s %s %s are collinear or coincident", ransac.ErrDegenerateFit, p1, p2, p3)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "circle: %s\n", c)
	fmt.Fprintf(out, "inlier tolerance: %.2f px\n", ransac.Tolerance(c.Radius))
	return nil
}
