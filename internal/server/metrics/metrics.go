// Package metrics holds the prometheus collectors of the MCP server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BuildInfo is set to 1 with the version labels of the running binary.
	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bqdryrun_mcp_build_info",
			Help: "Build information of the BigQuery dry run MCP server",
		},
		[]string{"version", "commit", "date"},
	)

	// ToolCallsTotal counts tool calls by tool and outcome (success, invalid_sql, error).
	ToolCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bqdryrun_mcp_tool_calls_total",
			Help: "Total number of tool calls",
		},
		[]string{"tool_name", "status"},
	)

	// ToolCallDuration observes tool call latency.
	ToolCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bqdryrun_mcp_tool_call_duration_seconds",
			Help:    "Duration of tool calls, dominated by the BigQuery round trip",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 0.01s to ~41s
		},
		[]string{"tool_name"},
	)

	// BytesEstimatedTotal sums bytes reported by successful estimates.
	BytesEstimatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bqdryrun_mcp_bytes_estimated_total",
			Help: "Total bytes reported by successful dry run estimates",
		},
	)
)
