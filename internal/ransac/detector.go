package ransac

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/ironsheep/circle-ransac/internal/distance"
	"github.com/ironsheep/circle-ransac/internal/edgemask"
	"github.com/ironsheep/circle-ransac/internal/geometry"
)

// Source supplies uniformly distributed sample indices. *math/rand.Rand
// satisfies it.
type Source interface {
	// Intn returns a value in [0, n). n is always at least 3.
	Intn(n int) int
}

// Config holds the detector parameters.
type Config struct {
	// MinInlierRatio is the fraction of circumference samples that must be
	// inliers for a circle to be accepted.
	MinInlierRatio float64 `json:"min_inlier_ratio"`

	// AngleStep is the circumference sampling increment in radians.
	AngleStep float64 `json:"angle_step"`

	// EraseThickness is the stroke width in pixels used to erase an accepted
	// circle from the mask. Values <= 0 erase the whole disc.
	EraseThickness float64 `json:"erase_thickness"`

	// MaxIterations bounds Report.Iterations. Zero means unbounded.
	MaxIterations int `json:"max_iterations"`
}

// DefaultConfig returns the reference parameters: 40% inliers, 0.05 rad
// sampling and a 10 px erase stroke, with no iteration limit.
func DefaultConfig() Config {
	return Config{
		MinInlierRatio: 0.4,
		AngleStep:      DefaultAngleStep,
		EraseThickness: 10,
	}
}

// Validate checks that the parameters are usable.
func (c Config) Validate() error {
	if math.IsNaN(c.MinInlierRatio) || c.MinInlierRatio < 0 || c.MinInlierRatio > 1 {
		return fmt.Errorf("%w: min inlier ratio %v outside [0, 1]", ErrInvalidConfig, c.MinInlierRatio)
	}
	if !ValidAngleStep(c.AngleStep) {
		return fmt.Errorf("%w: angle step %v outside [%v, 2π)", ErrInvalidConfig, c.AngleStep, MinAngleStep)
	}
	if math.IsNaN(c.EraseThickness) {
		return fmt.Errorf("%w: erase thickness is NaN", ErrInvalidConfig)
	}
	if c.MaxIterations < 0 {
		return fmt.Errorf("%w: max iterations %d is negative", ErrInvalidConfig, c.MaxIterations)
	}
	return nil
}

// StopReason says why a run ended.
type StopReason string

const (
	// StopCancelled means the context was cancelled.
	StopCancelled StopReason = "cancelled"
	// StopExhausted means fewer than three edge points remained.
	StopExhausted StopReason = "exhausted"
	// StopIterationLimit means Config.MaxIterations was reached.
	StopIterationLimit StopReason = "iteration_limit"
)

// Detection is an accepted circle.
type Detection struct {
	Circle geometry.Circle `json:"circle"`

	// InlierRatio is the fraction of circumference samples near an edge.
	InlierRatio float64 `json:"inlier_ratio"`

	// Iteration is the value of Report.Iterations when the circle was found.
	Iteration int `json:"iteration"`

	// Inliers are the accepted circumference samples.
	Inliers []geometry.Point `json:"-"`

	// Erased is the number of mask pixels removed with this circle.
	Erased int `json:"erased"`
}

// Report summarises a finished run.
type Report struct {
	// Iterations counts loop passes that reached the fitting step.
	Iterations int `json:"iterations"`

	// Attempts counts every loop pass, including duplicate-index draws.
	Attempts int `json:"attempts"`

	DuplicateDraws int `json:"duplicate_draws"`
	DegenerateFits int `json:"degenerate_fits"`
	Rejected       int `json:"rejected"`

	Circles    []Detection `json:"circles"`
	StopReason StopReason  `json:"stop_reason"`

	// RemainingEdges is the edge point count when the run stopped.
	RemainingEdges int `json:"remaining_edges"`
}

// Detector runs the sample-fit-verify-remove loop.
type Detector struct {
	cfg Config
	src Source

	// Logger receives acceptance and illegal-circle messages. Nil is silent.
	Logger *log.Logger

	// OnAccept, if set, is called synchronously for every accepted circle.
	OnAccept func(Detection)
}

// NewDetector returns a detector using cfg and drawing sample indices from src.
func NewDetector(cfg Config, src Source) *Detector {
	return &Detector{cfg: cfg, src: src}
}

// Config returns the detector parameters.
func (d *Detector) Config() Config {
	return d.cfg
}

// state is the mutable working set owned by one run. The edge list and
// field are always derived from mask and are replaced together.
type state struct {
	mask  *edgemask.Mask
	edges []geometry.Point
	field *distance.Field
}

func newState(m *edgemask.Mask) *state {
	s := &state{mask: m}
	s.rebuild()
	return s
}

func (s *state) rebuild() {
	s.edges = s.mask.EdgePoints()
	s.field = distance.Build(s.mask)
}

// Run detects circles in mask until ctx is cancelled, the iteration budget
// is spent, or the edges run out. The mask is mutated: accepted circles are
// erased from it.
//
// Sampling, fitting and scoring failures are handled inside the loop. The
// returned error is non-nil only for a nil mask, a nil source, or an
// invalid config.
func (d *Detector) Run(ctx context.Context, mask *edgemask.Mask) (*Report, error) {
	if mask == nil {
		return nil, fmt.Errorf("%w: nil mask", ErrInvalidConfig)
	}
	if d.src == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrInvalidConfig)
	}
	if err := d.cfg.Validate(); err != nil {
		return nil, err
	}

	s := newState(mask)
	report := &Report{Circles: make([]Detection, 0)}

	for {
		if reason, stop := d.shouldStop(ctx, s, report); stop {
			report.StopReason = reason
			report.RemainingEdges = len(s.edges)
			d.logf("%d iterations performed", report.Iterations)
			return report, nil
		}

		report.Attempts++
		det, err := d.step(s, report.Iterations+1)
		switch {
		case errors.Is(err, ErrInsufficientEdgePoints):
			continue
		case errors.Is(err, ErrDuplicateSample):
			report.DuplicateDraws++
			continue
		case errors.Is(err, ErrDegenerateFit):
			report.DegenerateFits++
			d.logf("circle illegal")
		case det == nil:
			report.Rejected++
		default:
			report.Circles = append(report.Circles, *det)
			if d.OnAccept != nil {
				d.OnAccept(*det)
			}
		}
		report.Iterations++
	}
}

// shouldStop polls the stop conditions without blocking.
func (d *Detector) shouldStop(ctx context.Context, s *state, report *Report) (StopReason, bool) {
	select {
	case <-ctx.Done():
		return StopCancelled, true
	default:
	}
	if d.cfg.MaxIterations > 0 && report.Iterations >= d.cfg.MaxIterations {
		return StopIterationLimit, true
	}
	if len(s.edges) < 3 {
		return StopExhausted, true
	}
	return "", false
}

// step performs one sample-fit-score pass. It returns the accepted
// detection, nil for a rejected circle, or ErrDuplicateSample /
// ErrDegenerateFit for discarded passes.
func (d *Detector) step(s *state, iteration int) (*Detection, error) {
	i1, i2, i3, err := d.sample(len(s.edges))
	if err != nil {
		return nil, err
	}

	c := geometry.FitCircle(s.edges[i1], s.edges[i2], s.edges[i3])
	if !c.IsFinite() {
		return nil, ErrDegenerateFit
	}

	ratio, inliers := Score(s.field, c, d.cfg.AngleStep)
	if ratio < d.cfg.MinInlierRatio {
		return nil, nil
	}

	d.logf("accepted circle with %.2f %% inlier", ratio*100)
	d.logf("circle: %s", c)

	erased := s.mask.EraseCircle(c, d.cfg.EraseThickness)
	s.rebuild()

	return &Detection{
		Circle:      c,
		InlierRatio: ratio,
		Iteration:   iteration,
		Inliers:     inliers,
		Erased:      erased,
	}, nil
}

// sample draws three indices in [0, n).
func (d *Detector) sample(n int) (int, int, int, error) {
	if n < 3 {
		return 0, 0, 0, ErrInsufficientEdgePoints
	}
	i1 := d.src.Intn(n)
	i2 := d.src.Intn(n)
	i3 := d.src.Intn(n)
	if i1 == i2 || i1 == i3 || i2 == i3 {
		return 0, 0, 0, ErrDuplicateSample
	}
	return i1, i2, i3, nil
}

func (d *Detector) logf(format string, args ...interface{}) {
	if d.Logger != nil {
		d.Logger.Printf(format, args...)
	}
}
