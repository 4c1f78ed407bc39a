package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/matzehuels/stayscout/pkg/buildinfo"
	"github.com/matzehuels/stayscout/pkg/errors"
	"github.com/matzehuels/stayscout/pkg/integrations"
)

// Name is the implementation name announced to MCP clients.
const Name = "stayscout"

// NewMCPServer registers one tool per operation against src.
func NewMCPServer(src integrations.Source, logger *log.Logger) *mcp.Server {
	logger = integrations.DefaultLogger(logger)
	srv := mcp.NewServer(&mcp.Implementation{Name: Name, Version: buildinfo.Version}, nil)
	for _, op := range Operations {
		srv.AddTool(&mcp.Tool{
			Name:        op.Tool,
			Description: op.Description,
			Annotations: &mcp.ToolAnnotations{Title: op.Title, ReadOnlyHint: true},
			InputSchema: op.InputSchema(),
		}, toolHandler(src, op, logger))
	}
	return srv
}

// ServeStdio runs the MCP server over stdin/stdout until ctx is done or
// the client disconnects.
func ServeStdio(ctx context.Context, src integrations.Source, logger *log.Logger) error {
	return NewMCPServer(src, logger).Run(ctx, &mcp.StdioTransport{})
}

func toolHandler(src integrations.Source, op Operation, logger *log.Logger) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args Args
		if raw := req.Params.Arguments; len(raw) > 0 {
			dec := json.NewDecoder(bytes.NewReader(raw))
			dec.DisallowUnknownFields()
			if err := dec.Decode(&args); err != nil {
				return toolError(errors.Validation(string(op.Op), "invalid arguments: %v", err)), nil
			}
		}

		rec, err := op.Run(ctx, src, args)
		if err != nil {
			logger.Warn("tool failed", "tool", op.Tool, "code", errors.GetCode(err), "err", err)
			return toolError(err), nil
		}
		out, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode %s result: %w", op.Tool, err)
		}
		return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: string(out)}}}, nil
	}
}

// toolError reports err to the model as a failed tool call rather than a
// protocol error, so it can adjust its arguments.
func toolError(err error) *mcp.CallToolResult {
	msg := errors.UserMessage(err)
	if hint := hintFor(errors.GetCode(err)); hint != "" {
		msg += ". " + hint
	}
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
	}
}

func hintFor(code errors.Code) string {
	switch code {
	case errors.ErrCodeNotFound:
		return "Verify the listing ID; airbnb_search returns valid IDs"
	case errors.ErrCodeRateLimited:
		return "Upstream is throttling requests; wait before retrying"
	case errors.ErrCodeValidation:
		return "Check the tool arguments"
	case errors.ErrCodeParse:
		return "The page layout may have changed; try again later or a broader search"
	default:
		return ""
	}
}
