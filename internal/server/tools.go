package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to the image file",
}

// segmentProperties are shared by the single-image segmentation tools.
func segmentProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": pathProperty,
		"region": map[string]interface{}{
			"type":        "object",
			"description": "Optional rectangle to segment instead of the whole image. (x1,y1) inclusive, (x2,y2) exclusive.",
			"properties": map[string]interface{}{
				"x1": map[string]interface{}{"type": "integer"},
				"y1": map[string]interface{}{"type": "integer"},
				"x2": map[string]interface{}{"type": "integer"},
				"y2": map[string]interface{}{"type": "integer"},
			},
			"required": []string{"x1", "y1", "x2", "y2"},
		},
		"region_name": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"top-left", "top-right", "bottom-left", "bottom-right", "top-half", "bottom-half", "left-half", "right-half", "center"},
			"description": "Optional named region to segment. Ignored when region is given.",
		},
		"seeds": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"rows", "columns"},
			"description": "Terminal wiring: rows (top row is foreground, bottom row background) or columns (left column foreground, right column background). Defaults to the server setting.",
		},
		"output_path": map[string]interface{}{
			"type":        "string",
			"description": "Optional path to also write the rendered PNG to.",
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	segmentProps := segmentProperties()
	segmentProps["include_image"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Return the overlay as base64-encoded PNG. Default true.",
		"default":     true,
	}

	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and the flow network size a full-resolution segmentation would need.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
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
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},

		// Segmentation
		{
			Name:        "image_segment",
			Description: "Split an image into foreground and background with a minimum graph cut between seed pixels. Returns cut statistics, the foreground bounding box and mean colours, and an overlay PNG with the foreground tinted.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": segmentProps,
				"required":   []string{"path"},
			},
		},
		{
			Name:        "image_segment_mask",
			Description: "Segment an image like image_segment and return the binary mask as base64-encoded PNG (foreground white, background black).",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": segmentProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "image_segment_batch",
			Description: "Segment every PNG, JPEG and GIF image in a directory, writing <name>_overlay.png and <name>_mask.png for each into the output directory.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"input_dir": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the directory of images",
					},
					"output_dir": map[string]interface{}{
						"type":        "string",
						"description": "Directory to write results to. Defaults to input_dir.",
					},
					"seeds": map[string]interface{}{
						"type": "string",
						"enum": []string{"rows", "columns"},
					},
				},
				"required": []string{"input_dir"},
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
