// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/cigate/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the cigate MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config) *server.MCPServer {
	s := server.NewMCPServer(
		"cigate Artifact Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{baseCfg: baseCfg}

	// --- 1. Tool: scan_artifacts ---
	s.AddTool(mcp.NewTool("scan_artifacts",
		mcp.WithDescription("Scan a CI artifacts directory for JUnit XML and lcov files, then report test totals, line coverage and the gate outcome."),
		mcp.WithString("artifacts_dir", mcp.Description("Directory containing the artifacts (defaults to the configured directory).")),
		mcp.WithNumber("min_coverage", mcp.Description("Minimum line coverage percentage required by the gate.")),
	), h.handleScanArtifacts)

	// --- 2. Tool: evaluate_gate ---
	s.AddTool(mcp.NewTool("evaluate_gate",
		mcp.WithDescription("Evaluate the coverage and test-failure gate for precomputed numbers."),
		mcp.WithNumber("coverage", mcp.Description("Line coverage percentage."), mcp.Required()),
		mcp.WithNumber("failures", mcp.Description("Number of failed tests.")),
		mcp.WithNumber("errors", mcp.Description("Number of errored tests.")),
		mcp.WithNumber("min_coverage", mcp.Description("Minimum line coverage percentage required by the gate.")),
	), h.handleEvaluateGate)

	return s
}

// StartMCPServer starts the cigate MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config) error {
	s := NewMCPServer(baseCfg)
	return server.ServeStdio(s)
}
