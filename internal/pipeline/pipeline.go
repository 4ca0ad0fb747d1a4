// Package pipeline wires image loading, mask preparation, RANSAC detection
// and overlay rendering into a single call shared by the CLI and the
// JSON-RPC server.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log"
	"math/rand"
	"time"

	"github.com/ironsheep/circle-ransac/internal/edgemask"
	"github.com/ironsheep/circle-ransac/internal/geometry"
	"github.com/ironsheep/circle-ransac/internal/imaging"
	"github.com/ironsheep/circle-ransac/internal/ransac"
	"github.com/ironsheep/circle-ransac/internal/render"
)

// Request describes one detection run.
type Request struct {
	// Path is the input image file.
	Path string

	Mask   imaging.MaskOptions
	Config ransac.Config

	// Seed seeds the sample index generator. Zero picks a time-based seed,
	// reported back in Result.Seed.
	Seed int64

	// Overlay renders the accepted circles over the input image, with an
	// optional coordinate grid every Grid pixels.
	Overlay   bool
	Labels    bool
	Grid      int
	GridColor color.Color

	// Logger receives per-circle progress. Nil is silent.
	Logger *log.Logger

	// OnAccept is forwarded to the detector.
	OnAccept func(ransac.Detection)
}

// Result is the outcome of a run.
type Result struct {
	*ransac.Report

	Count     int   `json:"count"`
	Seed      int64 `json:"seed"`
	ElapsedMs int64 `json:"elapsed_ms"`
	Width     int   `json:"width"`
	Height    int   `json:"height"`

	// InitialEdges is the edge pixel count before detection.
	InitialEdges int `json:"initial_edges"`

	// Overlay is the rendered image, set when Request.Overlay is true.
	Overlay image.Image `json:"-"`

	// Residual is the mask left after the accepted circles were erased.
	Residual *edgemask.Mask `json:"-"`
}

// Accepted returns the accepted circles in detection order.
func (r *Result) Accepted() []geometry.Circle {
	out := make([]geometry.Circle, len(r.Report.Circles))
	for i, d := range r.Report.Circles {
		out[i] = d.Circle
	}
	return out
}

// Run loads req.Path through cache and detects circles in it until ctx is
// done, the iteration budget is spent, or the edges run out.
func Run(ctx context.Context, cache *imaging.ImageCache, req Request) (*Result, error) {
	img, err := cache.Load(req.Path)
	if err != nil {
		return nil, err
	}

	mask := imaging.PrepareMask(img, req.Mask)
	res, err := Detect(ctx, mask, req)
	if err != nil {
		return nil, err
	}

	if req.Overlay {
		res.Overlay = render.Overlay(img, res.Accepted(), render.Options{
			Labels:    req.Labels,
			Grid:      req.Grid,
			GridColor: req.GridColor,
		})
	}
	return res, nil
}

// Detect runs the detector on an already prepared mask. The mask is
// mutated.
func Detect(ctx context.Context, mask *edgemask.Mask, req Request) (*Result, error) {
	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	d := ransac.NewDetector(req.Config, rand.New(rand.NewSource(seed)))
	d.Logger = req.Logger
	d.OnAccept = req.OnAccept

	initial := mask.Count()
	start := time.Now()
	report, err := d.Run(ctx, mask)
	if err != nil {
		return nil, fmt.Errorf("detection failed: %w", err)
	}

	return &Result{
		Report:       report,
		Count:        len(report.Circles),
		Seed:         seed,
		ElapsedMs:    time.Since(start).Milliseconds(),
		Width:        mask.Width(),
		Height:       mask.Height(),
		InitialEdges: initial,
		Residual:     mask,
	}, nil
}
