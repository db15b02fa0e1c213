// Package server serves the BigQuery dry run tools over MCP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mevdschee/bqdryrun"
	"github.com/mevdschee/bqdryrun/internal/server/metrics"
)

// Server exposes a bqdryrun.Service as MCP tools.
type Server struct {
	log        *slog.Logger
	cfg        Config
	mcp        *mcp.Server
	dispatcher *Dispatcher
}

// New validates cfg and registers the dry run tools on a new MCP server.
func New(cfg Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "bqdryrun",
		Title:   "BigQuery Dry Run",
		Version: cfg.Version,
	}, &mcp.ServerOptions{
		Logger: cfg.Logger,
	})

	s := &Server{
		log:        cfg.Logger,
		cfg:        cfg,
		mcp:        mcpServer,
		dispatcher: NewDispatcher(cfg.Service),
	}

	for _, tool := range Tools() {
		mcpServer.AddTool(tool, s.handleToolCall)
	}

	return s, nil
}

// Run serves the MCP session on the configured transport until the client
// disconnects or ctx is done.
func (s *Server) Run(ctx context.Context) error {
	s.log.Info("server: mcp serving", "version", s.cfg.Version, "tools", len(toolDescriptors))
	err := s.mcp.Run(ctx, s.cfg.Transport)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp session failed: %w", err)
	}
	s.log.Info("server: stopped")
	return nil
}

func (s *Server) handleToolCall(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	toolName := req.Params.Name
	startTime := time.Now()
	res, err := s.dispatcher.Dispatch(ctx, toolName, req.Params.Arguments)
	duration := time.Since(startTime)
	metrics.ToolCallDuration.WithLabelValues(toolName).Observe(duration.Seconds())

	if err != nil {
		metrics.ToolCallsTotal.WithLabelValues(toolName, "error").Inc()
		s.log.Error("mcp/tool: call failed", "tool", toolName, "error", err, "duration", duration)
		return nil, err
	}

	status := "success"
	switch r := res.(type) {
	case bqdryrun.ValidationResult:
		if r.Error != nil {
			status = "invalid_sql"
		}
	case bqdryrun.DryRunResult:
		if r.Error != nil {
			status = "invalid_sql"
		} else {
			metrics.BytesEstimatedTotal.Add(float64(r.TotalBytesProcessed))
		}
	}
	metrics.ToolCallsTotal.WithLabelValues(toolName, status).Inc()
	s.log.Debug("mcp/tool: call handled", "tool", toolName, "status", status, "duration", duration)

	data, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s result: %w", toolName, err)
	}
	return &mcp.CallToolResult{
		Content:           []mcp.Content{&mcp.TextContent{Text: string(data)}},
		StructuredContent: json.RawMessage(data),
	}, nil
}
