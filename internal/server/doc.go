// Package server implements the MCP (Model Context Protocol) server for
// min-cut image segmentation.
//
// This package provides a JSON-RPC 2.0 server that exposes the segmentation
// pipeline through the MCP protocol, so MCP-compatible clients can split an
// image into foreground and background and inspect the result.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata, including the flow network size
//   - image_dimensions: Get width and height
//
// Segmentation:
//   - image_segment: Segment an image (or a region of it) and return cut
//     statistics plus a tinted overlay
//   - image_segment_mask: Segment and return the binary mask
//   - image_segment_batch: Segment every image in a directory
//
// Segmentation tools accept an explicit region rectangle or a named region
// (top-left, center, ...) and may override the configured seed layout.
//
// # Image Caching
//
// The server maintains an in-memory cache of loaded images. Images are cached
// by path and reused across multiple tool calls. Batch runs evict each image
// once it has been processed.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// A batch run with per-file failures still succeeds; the failures are listed
// in the report.
//
// # Logging
//
// Requests and tool failures are logged through the zerolog logger given to
// New. Logs must go to stderr since stdout carries the protocol.
//
// # Usage
//
//	p, err := pipeline.New(cfg, logger)
//	if err != nil {
//	    return err
//	}
//	srv := server.New(p, logger, version)
//	if err := srv.Run(ctx); err != nil {
//	    return err
//	}
package server
