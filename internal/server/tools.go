package server

import (
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool names.
const (
	ValidateSQLTool = "bq.validate_sql"
	DryRunSQLTool   = "bq.dry_run_sql"
)

var toolDescriptors = []*mcp.Tool{
	{
		Name: ValidateSQLTool,
		Description: `Validate BigQuery SQL syntax and semantics with a dry run, without executing the query.
Returns {"isValid": true}, or {"isValid": false, "error": {"code": "INVALID_SQL", "message": ..., "location": {"line": ..., "column": ...}}}.
Parameters are bound as STRING; cast them in SQL when another type is needed.`,
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"sql":    sqlSchema(),
				"params": paramsSchema(),
			},
			Required: []string{"sql"},
		},
	},
	{
		Name: DryRunSQLTool,
		Description: `Dry run BigQuery SQL to get the bytes it would process, a USD cost estimate, the referenced tables and a preview of the output schema.
No data is scanned and nothing is charged.`,
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"sql":    sqlSchema(),
				"params": paramsSchema(),
				"pricePerTiB": {
					Type:        "number",
					Description: "USD price per TiB scanned; defaults to SAFE_PRICE_PER_TIB or 5.0",
				},
			},
			Required: []string{"sql"},
		},
	},
}

func sqlSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Description: "The SQL query to dry run",
	}
}

func paramsSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:                 "object",
		Description:          "Named query parameters, referenced as @name in the SQL",
		AdditionalProperties: &jsonschema.Schema{Type: "string"},
	}
}

// Tools returns the descriptors of the tools the server exposes.
func Tools() []*mcp.Tool {
	tools := make([]*mcp.Tool, len(toolDescriptors))
	copy(tools, toolDescriptors)
	return tools
}
