// Package server implements the MCP (Model Context Protocol) server for the
// circle detector.
//
// The server speaks JSON-RPC 2.0 over stdio, one request per line:
//   - Input: JSON-RPC requests on stdin
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods are initialize, tools/list, tools/call and ping.
//
// # Available Tools
//
// Image information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//   - edge_mask_preview: Render the prepared edge mask
//
// Circle operations:
//   - circle_fit: Circle through three points
//   - circle_score: Inlier ratio of one candidate circle
//   - circles_detect_ransac: Full RANSAC detection run
//
// Every detection call is bounded by an iteration budget and a timeout,
// both defaulted when the caller omits them.
//
// # Image Caching
//
// Images are cached by path for the lifetime of the server process. Edge
// masks are rebuilt on every call since the detector consumes them.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with
// code -32000 and the Go error string in data. Malformed tools/call
// params return -32602 and unknown methods -32601.
package server
