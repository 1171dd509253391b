package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/huangsam/cigate/core"
	"github.com/huangsam/cigate/internal/contract"
	"github.com/huangsam/cigate/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
}

func (h *toolHandler) handleScanArtifacts(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if p := strings.TrimSpace(request.GetString("artifacts_dir", "")); p != "" {
		cfg.ArtifactsDir = p
	}
	minCov, err := optionalMinCoverage(request, cfg.MinCoverage)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	report, err := core.BuildRunReport(cfg.ArtifactsDir, cfg.Excludes, minCov)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scan failed: %v", err)), nil
	}

	return jsonResult(report), nil
}

func (h *toolHandler) handleEvaluateGate(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	coverage, err := request.RequireFloat("coverage")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid gate parameters: %v", err)), nil
	}
	if math.IsNaN(coverage) || coverage < 0 {
		return mcp.NewToolResultError("coverage must be a non-negative number"), nil
	}

	failures := request.GetInt("failures", 0)
	errs := request.GetInt("errors", 0)
	if failures < 0 || errs < 0 {
		return mcp.NewToolResultError("failures and errors must not be negative"), nil
	}

	minCov, err := optionalMinCoverage(request, h.baseCfg.MinCoverage)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	gate := core.EvaluateGate(schema.RunTotals{Failures: failures, Errors: errs}, coverage, minCov)
	return jsonResult(gate), nil
}

// jsonResult renders v as an indented JSON text result, or a tool error when it cannot be encoded.
func jsonResult(v any) *mcp.CallToolResult {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err))
	}
	return mcp.NewToolResultText(string(jsonData))
}

// optionalMinCoverage reads min_coverage, falling back to def when it is absent.
func optionalMinCoverage(request mcp.CallToolRequest, def float64) (float64, error) {
	minCov := request.GetFloat("min_coverage", def)
	if math.IsNaN(minCov) || minCov < 0 {
		return 0, fmt.Errorf("min_coverage must not be negative (received %v)", minCov)
	}
	return minCov, nil
}
