package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

func pointProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": description,
		"properties": map[string]interface{}{
			"x": map[string]interface{}{"type": "number"},
			"y": map[string]interface{}{"type": "number"},
		},
		"required": []string{"x", "y"},
	}
}

// withMaskProperties adds the edge mask preprocessing options to props.
func withMaskProperties(props map[string]interface{}) map[string]interface{} {
	props["threshold"] = map[string]interface{}{
		"type":        "integer",
		"description": "Lowest gray level (1-255) counted as an edge. Default 1 (any non-black pixel)",
		"default":     1,
	}
	props["erode_radius"] = map[string]interface{}{
		"type":        "number",
		"description": "Erosion radius applied to the binary mask; 0 disables. Default 1",
		"default":     1.0,
	}
	props["canny"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Run Canny edge extraction first, for photographs rather than edge images. Default false",
		"default":     false,
	}
	props["canny_low"] = map[string]interface{}{
		"type":        "integer",
		"description": "Canny low hysteresis threshold (0-255). Default 50",
		"default":     50,
	}
	props["canny_high"] = map[string]interface{}{
		"type":        "integer",
		"description": "Canny high hysteresis threshold (0-255). Default 150",
		"default":     150,
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and the number of edge pixels found by the default preprocessing.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "edge_mask_preview",
			Description: "Prepare the binary edge mask the circle detector would use and return it as base64-encoded PNG. Use this to tune threshold, erosion and Canny options.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withMaskProperties(map[string]interface{}{
					"path": pathProperty(),
				}),
				"required": []string{"path"},
			},
		},

		// Circle Operations
		{
			Name:        "circle_fit",
			Description: "Compute the circle passing through three points. Collinear or coincident points return finite=false and no circle.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"p1": pointProperty("First point"),
					"p2": pointProperty("Second point"),
					"p3": pointProperty("Third point"),
				},
				"required": []string{"p1", "p2", "p3"},
			},
		},
		{
			Name:        "circle_score",
			Description: "Score a candidate circle against the edges of an image: the fraction of circumference samples lying within the radius-dependent tolerance of an edge pixel.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withMaskProperties(map[string]interface{}{
					"path":   pathProperty(),
					"center": pointProperty("Circle center in pixels"),
					"radius": map[string]interface{}{
						"type":        "number",
						"description": "Circle radius in pixels",
					},
					"angle_step": map[string]interface{}{
						"type":        "number",
						"description": "Circumference sampling step in radians. Default 0.05",
						"default":     0.05,
					},
				}),
				"required": []string{"path", "center", "radius"},
			},
		},
		{
			Name:        "circles_detect_ransac",
			Description: "Detect circles in an edge image with RANSAC: repeatedly fit a circle through three random edge pixels, accept it when enough of its circumference lies on edges, then erase it and continue. Returns every accepted circle in detection order with run statistics.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withMaskProperties(map[string]interface{}{
					"path": pathProperty(),
					"seed": map[string]interface{}{
						"type":        "integer",
						"description": "Random seed for reproducible runs. 0 picks a time-based seed, returned in the result",
						"default":     0,
					},
					"max_iterations": map[string]interface{}{
						"type":        "integer",
						"description": "Iteration budget. Default 5000",
						"default":     5000,
					},
					"timeout_ms": map[string]interface{}{
						"type":        "integer",
						"description": "Wall-clock limit in milliseconds. Default 10000",
						"default":     10000,
					},
					"min_inlier_ratio": map[string]interface{}{
						"type":        "number",
						"description": "Fraction of circumference samples that must be inliers (0-1). Default 0.4",
						"default":     0.4,
					},
					"erase_thickness": map[string]interface{}{
						"type":        "number",
						"description": "Stroke width in pixels used to erase an accepted circle. Default 10",
						"default":     10.0,
					},
					"angle_step": map[string]interface{}{
						"type":        "number",
						"description": "Circumference sampling step in radians. Default 0.05",
						"default":     0.05,
					},
					"overlay": map[string]interface{}{
						"type":        "boolean",
						"description": "Return the input image with the detected circles drawn, as base64-encoded PNG. Default false",
						"default":     false,
					},
					"labels": map[string]interface{}{
						"type":        "boolean",
						"description": "Label each drawn circle with its detection index, and grid lines with their coordinates. Default false",
						"default":     false,
					},
					"grid_spacing": map[string]interface{}{
						"type":        "integer",
						"description": "Draw a coordinate grid on the overlay every N pixels; 0 disables. Default 0",
						"default":     0,
					},
					"grid_color": map[string]interface{}{
						"type":        "string",
						"description": "Grid color as hex (#RRGGBB or #RRGGBBAA). Default #FF000080",
						"default":     "#FF000080",
					},
				}),
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
