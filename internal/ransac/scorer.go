package ransac

import (
	"math"

	"github.com/ironsheep/circle-ransac/internal/distance"
	"github.com/ironsheep/circle-ransac/internal/geometry"
)

// Inlier tolerance bounds, in pixels. The tolerance is radius/ToleranceDivisor
// clamped to [MinTolerance, MaxTolerance].
const (
	MinTolerance     = 2.0
	MaxTolerance     = 100.0
	ToleranceDivisor = 25.0
)

// DefaultAngleStep is the circumference sampling increment in radians.
const DefaultAngleStep = 0.05

// MinAngleStep is the finest accepted sampling increment. It caps a Score
// call at about 63k samples, so one pass stays short enough for
// cancellation to be honoured between passes.
const MinAngleStep = 1e-4

// ValidAngleStep reports whether step lies in [MinAngleStep, 2π).
func ValidAngleStep(step float64) bool {
	return step >= MinAngleStep && step < 2*math.Pi
}

// clampAngleStep maps a non-positive step to DefaultAngleStep and raises
// a positive one to MinAngleStep.
func clampAngleStep(step float64) float64 {
	if step <= 0 || math.IsNaN(step) {
		return DefaultAngleStep
	}
	return math.Max(step, MinAngleStep)
}

// Tolerance returns the inlier distance threshold for a circle of the given
// radius.
func Tolerance(radius float64) float64 {
	tol := radius / ToleranceDivisor
	if tol < MinTolerance || math.IsNaN(tol) {
		return MinTolerance
	}
	if tol > MaxTolerance {
		return MaxTolerance
	}
	return tol
}

// Score samples the circumference of c every angleStep radians over
// [0, 2π) and returns the fraction of samples lying near an edge, along
// with the inlier samples themselves.
//
// Every sample counts toward the denominator. A sample is an inlier only
// if its nearest pixel lies inside the field and the field value there is
// below Tolerance(c.Radius); samples falling outside the image can never
// be inliers.
//
// A non-finite circle scores 0. A non-positive angleStep falls back to
// DefaultAngleStep, and steps below MinAngleStep are raised to it.
func Score(field *distance.Field, c geometry.Circle, angleStep float64) (float64, []geometry.Point) {
	angleStep = clampAngleStep(angleStep)
	if !c.IsFinite() {
		return 0, nil
	}

	tol := Tolerance(c.Radius)
	trials := 0
	inliers := make([]geometry.Point, 0)

	for i := 0; ; i++ {
		t := float64(i) * angleStep
		if t >= 2*math.Pi {
			break
		}
		trials++

		p := c.PointAt(t)
		x, y := math.Round(p.X), math.Round(p.Y)
		if x < 0 || y < 0 || x >= float64(field.Width()) || y >= float64(field.Height()) {
			continue
		}

		if d, ok := field.At(int(x), int(y)); ok && d < tol {
			inliers = append(inliers, p)
		}
	}

	if trials == 0 {
		return 0, inliers
	}
	return float64(len(inliers)) / float64(trials), inliers
}

// SampleCount returns how many circumference samples Score takes with the
// given angle step.
func SampleCount(angleStep float64) int {
	angleStep = clampAngleStep(angleStep)
	n := 0
	for float64(n)*angleStep < 2*math.Pi {
		n++
	}
	return n
}
