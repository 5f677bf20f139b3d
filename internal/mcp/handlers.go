package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/specdash/internal/dashboard"
	"github.com/hpungsan/specdash/internal/errors"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	asm        *dashboard.Assembler
	outputPath string
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(asm *dashboard.Assembler, outputPath string) *Handlers {
	return &Handlers{asm: asm, outputPath: outputPath}
}

// FeatureStateRequest represents the arguments for feature_state and health.
type FeatureStateRequest struct {
	FeatureID string `json:"feature_id"`
}

var featuresToolDef = mcp.NewTool("dashboard_features",
	mcp.WithDescription("List the project's features with story counts and task progress."),
)

var featureStateToolDef = mcp.NewTool("dashboard_feature_state",
	mcp.WithDescription("Return the full assembled state for one feature: board, pipeline, story map, plan view, checklist, testify, analyze, and bugs."),
	mcp.WithString("feature_id",
		mcp.Required(),
		mcp.Description("Feature directory name under specs/, e.g. 003-watch-mode."),
	),
)

var healthToolDef = mcp.NewTool("dashboard_health",
	mcp.WithDescription("Return the analysis health score and factors for one feature."),
	mcp.WithString("feature_id",
		mcp.Required(),
		mcp.Description("Feature directory name under specs/."),
	),
)

var refreshToolDef = mcp.NewTool("dashboard_refresh",
	mcp.WithDescription("Regenerate the dashboard snapshot file and return the new generation metadata."),
)

// HandleFeatures handles the dashboard_features tool call.
func (h *Handlers) HandleFeatures(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := h.asm.Assemble(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"features": snap.Features})
}

// HandleFeatureState handles the dashboard_feature_state tool call.
func (h *Handlers) HandleFeatureState(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FeatureStateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.FeatureID == "" {
		return errorResult(errors.NewInvalidRequest("feature_id is required")), nil
	}

	snap, err := h.asm.Assemble(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	state, ok := snap.FeatureData[input.FeatureID]
	if !ok {
		return errorResult(errors.NewInvalidRequest("unknown feature: " + input.FeatureID)), nil
	}
	return successResult(state)
}

// HandleHealth handles the dashboard_health tool call.
func (h *Handlers) HandleHealth(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FeatureStateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.FeatureID == "" {
		return errorResult(errors.NewInvalidRequest("feature_id is required")), nil
	}

	snap, err := h.asm.Assemble(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	state, ok := snap.FeatureData[input.FeatureID]
	if !ok {
		return errorResult(errors.NewInvalidRequest("unknown feature: " + input.FeatureID)), nil
	}
	return successResult(map[string]any{
		"featureId":   input.FeatureID,
		"healthScore": state.Analyze.HealthScore,
		"exists":      state.Analyze.Exists,
	})
}

// HandleRefresh handles the dashboard_refresh tool call.
func (h *Handlers) HandleRefresh(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := h.asm.Assemble(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	html, err := dashboard.BuildHTML(snap)
	if err != nil {
		return errorResult(errors.NewInternal(err)), nil
	}
	if err := dashboard.WriteAtomic(h.outputPath, html); err != nil {
		return errorResult(errors.NewOutputNotWritable(h.outputPath, err)), nil
	}
	return successResult(map[string]any{"meta": snap.Meta, "outputPath": h.outputPath})
}

// errorResult creates an MCP error result from an error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if dashErr, ok := err.(*errors.DashError); ok {
		errorObj := map[string]any{
			"code":    dashErr.Code,
			"message": dashErr.Message,
			"exit":    dashErr.Exit,
		}
		if dashErr.Code != errors.ErrInternal && dashErr.Details != nil {
			errorObj["details"] = dashErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
			},
		}
	}

	result, jsonErr := mcp.NewToolResultJSON(payload)
	if jsonErr != nil {
		return mcp.NewToolResultError("an internal error occurred")
	}
	result.IsError = true
	return result
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
