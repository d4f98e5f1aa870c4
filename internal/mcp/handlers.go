package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/hpungsan/meetcorpus/internal/errors"
	"github.com/hpungsan/meetcorpus/internal/meeting"
	"github.com/hpungsan/meetcorpus/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	env    *ops.Env
	logger *zap.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(env *ops.Env) *Handlers {
	logger := env.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{env: env, logger: logger}
}

// DescribeRequest represents the arguments for meeting_describe.
type DescribeRequest struct {
	Records []json.RawMessage `json:"records,omitempty"`
	Path    string            `json:"path,omitempty"`
	HTML    bool              `json:"html,omitempty"`
}

// DescribeResponse is the meeting_describe result.
type DescribeResponse struct {
	Items []ops.DescribeOutput `json:"items"`
	HTML  string               `json:"html,omitempty"`
}

// ExportRequest represents the arguments for corpus_export.
type ExportRequest struct {
	Dir    string `json:"dir,omitempty"`
	Prefix string `json:"prefix,omitempty"`
}

// RunsRequest represents the arguments for corpus_runs.
type RunsRequest struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// RunRequest represents the arguments for corpus_run.
type RunRequest struct {
	ID string `json:"id"`
}

// HandleDescribe handles the meeting_describe tool call.
func (h *Handlers) HandleDescribe(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DescribeRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	var records []meeting.Record
	switch {
	case len(input.Records) > 0:
		raw, err := json.Marshal(input.Records)
		if err != nil {
			return errorResult(errors.NewInvalidRequest(err.Error())), nil
		}
		records, err = ops.DecodeRecords(bytes.NewReader(raw))
		if err != nil {
			return errorResult(err), nil
		}
	case input.Path != "":
		records, err = ops.LoadRecords(input.Path)
		if err != nil {
			return errorResult(err), nil
		}
	default:
		return errorResult(errors.NewInvalidRequest("records or path is required")), nil
	}

	items, err := ops.Describe(records)
	if err != nil {
		return errorResult(err), nil
	}

	resp := DescribeResponse{Items: items}
	if input.HTML {
		resp.HTML, err = ops.RenderHTML(items)
		if err != nil {
			return errorResult(err), nil
		}
	}
	return successResult(resp)
}

// HandleExport handles the corpus_export tool call.
// A run whose views partly failed is still reported as a success with status "partial".
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Export(ctx, h.env, ops.ExportInput{
		Dir:    input.Dir,
		Prefix: input.Prefix,
	})
	if err != nil {
		if result != nil && errors.Is(err, errors.ErrPersistenceFailure) {
			h.logger.Warn("export finished with failed views", zap.String("run_id", result.RunID), zap.Error(err))
			return successResult(result)
		}
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleRuns handles the corpus_runs tool call.
func (h *Handlers) HandleRuns(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RunsRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ListRuns(ctx, h.env.DB, ops.ListRunsInput{
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleRun handles the corpus_run tool call.
func (h *Handlers) HandleRun(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RunRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.GetRun(ctx, h.env.DB, input.ID)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Internal error details are never exposed.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var cErr *errors.CorpusError
	if stderrors.As(err, &cErr) {
		// Wrapped errors keep their context in the message.
		msg := cErr.Message
		if err != error(cErr) {
			msg = err.Error()
		}
		errorObj := map[string]any{
			"code":    cErr.Code,
			"message": msg,
			"status":  cErr.Status,
		}
		if cErr.Code == errors.ErrInternal {
			errorObj["message"] = "an internal error occurred"
		} else if cErr.Details != nil {
			errorObj["details"] = cErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
