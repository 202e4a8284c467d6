package server

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"time"

	"github.com/ironsheep/image-segment-mcp/internal/imaging"
	"github.com/ironsheep/image-segment-mcp/internal/pipeline"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_segment").
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
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn().Err(err).Str("tool", params.Name).Msg("tool failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	s.logger.Debug().Str("tool", params.Name).Dur("elapsed", time.Since(start)).Msg("tool completed")

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
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Segmentation
	case "image_segment":
		return s.handleImageSegment(ctx, args)
	case "image_segment_mask":
		return s.handleImageSegmentMask(ctx, args)
	case "image_segment_batch":
		return s.handleImageSegmentBatch(ctx, args)

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
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Basic Image Information Handlers ===

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

// === Segmentation Handlers ===

type imageSegmentArgs struct {
	Path         string          `json:"path"`
	Region       *imaging.Region `json:"region"`
	RegionName   string          `json:"region_name"`
	Seeds        string          `json:"seeds"`
	OutputPath   string          `json:"output_path"`
	IncludeImage *bool           `json:"include_image"`
}

// SegmentResult is returned by image_segment.
type SegmentResult struct {
	Width         int                   `json:"width"`
	Height        int                   `json:"height"`
	GridWidth     int                   `json:"grid_width"`
	GridHeight    int                   `json:"grid_height"`
	Region        *imaging.Region       `json:"region,omitempty"`
	MaxFlow       int64                 `json:"max_flow"`
	Augmentations int                   `json:"augmentations"`
	Stats         *imaging.MaskStats    `json:"stats"`
	ElapsedMS     int64                 `json:"elapsed_ms"`
	OutputPath    string                `json:"output_path,omitempty"`
	Overlay       *imaging.EncodedImage `json:"overlay,omitempty"`
}

// MaskResult is returned by image_segment_mask.
type MaskResult struct {
	Width            int                   `json:"width"`
	Height           int                   `json:"height"`
	Region           *imaging.Region       `json:"region,omitempty"`
	ForegroundPixels int                   `json:"foreground_pixels"`
	MaxFlow          int64                 `json:"max_flow"`
	OutputPath       string                `json:"output_path,omitempty"`
	Mask             *imaging.EncodedImage `json:"mask"`
}

// segment loads a.Path and runs the pipeline with the region and seed
// overrides from a.
func (s *Server) segment(ctx context.Context, a *imageSegmentArgs, skipOverlay bool) (*pipeline.Result, error) {
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	region, err := resolveRegion(img, a.Region, a.RegionName)
	if err != nil {
		return nil, err
	}

	return s.pipeline.Run(ctx, img, pipeline.Request{
		Region:      region,
		Seeds:       a.Seeds,
		SkipOverlay: skipOverlay,
	})
}

// resolveRegion returns the explicit region if given, otherwise the named one
// translated into img's coordinates, otherwise nil.
func resolveRegion(img image.Image, region *imaging.Region, name string) (*imaging.Region, error) {
	if region != nil || name == "" {
		return region, nil
	}
	b := img.Bounds()
	r, err := imaging.NamedRegion(name, b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}
	r.X1 += b.Min.X
	r.X2 += b.Min.X
	r.Y1 += b.Min.Y
	r.Y2 += b.Min.Y
	return &r, nil
}

func (s *Server) handleImageSegment(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageSegmentArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	includeImage := a.IncludeImage == nil || *a.IncludeImage

	res, err := s.segment(ctx, &a, !includeImage && a.OutputPath == "")
	if err != nil {
		return nil, err
	}

	out := &SegmentResult{
		Width:         res.Prepared.SourceWidth,
		Height:        res.Prepared.SourceHeight,
		GridWidth:     res.Prepared.Grid.Width,
		GridHeight:    res.Prepared.Grid.Height,
		Region:        res.Region,
		MaxFlow:       res.Segmentation.MaxFlow,
		Augmentations: res.Segmentation.Augmentations,
		Stats:         res.Stats,
		ElapsedMS:     res.Elapsed.Milliseconds(),
	}

	if a.OutputPath != "" {
		if err := imaging.Save(res.Overlay, a.OutputPath); err != nil {
			return nil, err
		}
		out.OutputPath = a.OutputPath
	}
	if includeImage {
		if out.Overlay, err = imaging.EncodePNGBase64(res.Overlay); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Server) handleImageSegmentMask(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageSegmentArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	res, err := s.segment(ctx, &a, true)
	if err != nil {
		return nil, err
	}

	out := &MaskResult{
		Width:            res.Prepared.SourceWidth,
		Height:           res.Prepared.SourceHeight,
		Region:           res.Region,
		ForegroundPixels: res.Stats.Foreground.Pixels,
		MaxFlow:          res.Segmentation.MaxFlow,
	}
	if a.OutputPath != "" {
		if err := imaging.Save(res.MaskImage, a.OutputPath); err != nil {
			return nil, err
		}
		out.OutputPath = a.OutputPath
	}
	if out.Mask, err = imaging.EncodePNGBase64(res.MaskImage); err != nil {
		return nil, err
	}
	return out, nil
}

type imageSegmentBatchArgs struct {
	InputDir  string `json:"input_dir"`
	OutputDir string `json:"output_dir"`
	Seeds     string `json:"seeds"`
}

func (s *Server) handleImageSegmentBatch(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageSegmentBatchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.InputDir == "" {
		return nil, fmt.Errorf("input_dir is required")
	}
	if a.OutputDir == "" {
		a.OutputDir = a.InputDir
	}

	report, err := s.batch.Run(ctx, a.InputDir, a.OutputDir, pipeline.Request{Seeds: a.Seeds})
	if report != nil {
		// Per-file failures are listed in the report.
		return report, nil
	}
	return nil, err
}
