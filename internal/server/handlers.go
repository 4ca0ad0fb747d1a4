package server

import (
	"context"
	"encoding/json"
	"fmt"
	"image/color"
	"time"

	"github.com/ironsheep/circle-ransac/internal/distance"
	"github.com/ironsheep/circle-ransac/internal/geometry"
	"github.com/ironsheep/circle-ransac/internal/imaging"
	"github.com/ironsheep/circle-ransac/internal/pipeline"
	"github.com/ironsheep/circle-ransac/internal/ransac"
	"github.com/ironsheep/circle-ransac/internal/render"
)

// Defaults applied by circles_detect_ransac when the caller leaves a bound
// unset. A server call must always terminate, so unlike the CLI there is
// no unbounded mode.
const (
	defaultMaxIterations = 5000
	defaultTimeoutMs     = 10000
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "circles_detect_ransac").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "edge_mask_preview":
		return s.handleEdgeMaskPreview(args)

	case "circle_fit":
		return s.handleCircleFit(args)
	case "circle_score":
		return s.handleCircleScore(args)
	case "circles_detect_ransac":
		return s.handleCirclesDetectRansac(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Image Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// maskArgs are the preprocessing options shared by every tool that works
// on an edge mask. Nil fields take the DefaultMaskOptions value.
type maskArgs struct {
	Threshold   *int     `json:"threshold"`
	ErodeRadius *float64 `json:"erode_radius"`
	Canny       bool     `json:"canny"`
	CannyLow    int      `json:"canny_low"`
	CannyHigh   int      `json:"canny_high"`
}

func (m maskArgs) options() (imaging.MaskOptions, error) {
	opts := imaging.DefaultMaskOptions()
	if m.Threshold != nil {
		if *m.Threshold < 0 || *m.Threshold > 255 {
			return opts, fmt.Errorf("threshold %d outside [0, 255]", *m.Threshold)
		}
		opts.Threshold = uint8(*m.Threshold)
	}
	if m.ErodeRadius != nil {
		opts.ErodeRadius = *m.ErodeRadius
	}
	opts.Canny = m.Canny
	opts.CannyLow = m.CannyLow
	opts.CannyHigh = m.CannyHigh
	return opts, nil
}

type edgeMaskPreviewArgs struct {
	Path string `json:"path"`
	maskArgs
}

// EdgeMaskPreviewResult is the prepared edge mask as an image.
type EdgeMaskPreviewResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	EdgePixels  int    `json:"edge_pixels"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

func (s *Server) handleEdgeMaskPreview(args json.RawMessage) (interface{}, error) {
	var a edgeMaskPreviewArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	opts, err := a.options()
	if err != nil {
		return nil, err
	}

	mask, err := imaging.LoadMask(s.cache, a.Path, opts)
	if err != nil {
		return nil, err
	}

	encoded, err := render.EncodePNGBase64(mask.Gray())
	if err != nil {
		return nil, err
	}

	return &EdgeMaskPreviewResult{
		Width:       mask.Width(),
		Height:      mask.Height(),
		EdgePixels:  mask.Count(),
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

// === Circle Handlers ===

type circleFitArgs struct {
	P1 geometry.Point `json:"p1"`
	P2 geometry.Point `json:"p2"`
	P3 geometry.Point `json:"p3"`
}

// CircleFitResult is the circle through three points. Circle is omitted
// when the points are collinear or coincident.
type CircleFitResult struct {
	Circle *geometry.Circle `json:"circle,omitempty"`
	Finite bool             `json:"finite"`
}

func (s *Server) handleCircleFit(args json.RawMessage) (interface{}, error) {
	var a circleFitArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	c := geometry.FitCircle(a.P1, a.P2, a.P3)
	if !c.IsFinite() {
		return &CircleFitResult{Finite: false}, nil
	}
	return &CircleFitResult{Circle: &c, Finite: true}, nil
}

type circleScoreArgs struct {
	Path      string         `json:"path"`
	Center    geometry.Point `json:"center"`
	Radius    float64        `json:"radius"`
	AngleStep float64        `json:"angle_step"`
	maskArgs
}

// CircleScoreResult reports how well a candidate circle is supported by
// the edges of an image.
type CircleScoreResult struct {
	InlierRatio float64 `json:"inlier_ratio"`
	Inliers     int     `json:"inliers"`
	Samples     int     `json:"samples"`
	Tolerance   float64 `json:"tolerance"`

	// Accepted is true when InlierRatio meets the default acceptance ratio.
	Accepted bool `json:"accepted"`
}

func (s *Server) handleCircleScore(args json.RawMessage) (interface{}, error) {
	var a circleScoreArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Radius <= 0 {
		return nil, fmt.Errorf("radius must be positive, got %v", a.Radius)
	}
	if a.AngleStep == 0 {
		a.AngleStep = ransac.DefaultAngleStep
	}
	if !ransac.ValidAngleStep(a.AngleStep) {
		return nil, fmt.Errorf("angle_step %v outside [%v, 2π)", a.AngleStep, ransac.MinAngleStep)
	}
	opts, err := a.options()
	if err != nil {
		return nil, err
	}

	mask, err := imaging.LoadMask(s.cache, a.Path, opts)
	if err != nil {
		return nil, err
	}

	c := geometry.Circle{Center: a.Center, Radius: a.Radius}
	ratio, inliers := ransac.Score(distance.Build(mask), c, a.AngleStep)

	return &CircleScoreResult{
		InlierRatio: ratio,
		Inliers:     len(inliers),
		Samples:     ransac.SampleCount(a.AngleStep),
		Tolerance:   ransac.Tolerance(a.Radius),
		Accepted:    ratio >= ransac.DefaultConfig().MinInlierRatio,
	}, nil
}

type circlesDetectArgs struct {
	Path           string  `json:"path"`
	Seed           int64   `json:"seed"`
	MaxIterations  int     `json:"max_iterations"`
	TimeoutMs      int     `json:"timeout_ms"`
	MinInlierRatio float64 `json:"min_inlier_ratio"`
	EraseThickness float64 `json:"erase_thickness"`
	AngleStep      float64 `json:"angle_step"`
	Overlay        bool    `json:"overlay"`
	Labels         bool    `json:"labels"`
	GridSpacing    int     `json:"grid_spacing"`
	GridColor      string  `json:"grid_color"`
	maskArgs
}

// CirclesDetectResult is the outcome of a RANSAC run.
type CirclesDetectResult struct {
	*pipeline.Result

	OverlayBase64 string `json:"overlay_base64,omitempty"`
	MimeType      string `json:"mime_type,omitempty"`
}

func (s *Server) handleCirclesDetectRansac(args json.RawMessage) (interface{}, error) {
	var a circlesDetectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	cfg := ransac.DefaultConfig()
	if a.MinInlierRatio != 0 {
		cfg.MinInlierRatio = a.MinInlierRatio
	}
	if a.EraseThickness != 0 {
		cfg.EraseThickness = a.EraseThickness
	}
	if a.AngleStep != 0 {
		cfg.AngleStep = a.AngleStep
	}
	cfg.MaxIterations = a.MaxIterations
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = defaultMaxIterations
	}
	if a.TimeoutMs <= 0 {
		a.TimeoutMs = defaultTimeoutMs
	}

	opts, err := a.options()
	if err != nil {
		return nil, err
	}

	var gridColor color.Color
	if a.GridColor != "" {
		c, err := render.ParseHexColor(a.GridColor)
		if err != nil {
			return nil, err
		}
		gridColor = c
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(a.TimeoutMs)*time.Millisecond)
	defer cancel()

	res, err := pipeline.Run(ctx, s.cache, pipeline.Request{
		Path:      a.Path,
		Mask:      opts,
		Config:    cfg,
		Seed:      a.Seed,
		Overlay:   a.Overlay,
		Labels:    a.Labels,
		Grid:      a.GridSpacing,
		GridColor: gridColor,
		Logger:    s.Logger,
	})
	if err != nil {
		return nil, err
	}

	out := &CirclesDetectResult{Result: res}
	if res.Overlay != nil {
		encoded, err := render.EncodePNGBase64(res.Overlay)
		if err != nil {
			return nil, err
		}
		out.OverlayBase64 = encoded
		out.MimeType = "image/png"
	}
	return out, nil
}
