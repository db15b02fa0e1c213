package server

import (
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mevdschee/bqdryrun"
)

const defaultVersion = "dev"

// Config configures a Server.
type Config struct {
	Logger *slog.Logger

	Service *bqdryrun.Service

	Version string

	// Transport defaults to stdio.
	Transport mcp.Transport
}

// Validate checks required fields and fills defaults.
func (c *Config) Validate() error {
	if c.Logger == nil {
		return fmt.Errorf("logger is required")
	}
	if c.Service == nil {
		return fmt.Errorf("service is required")
	}
	if c.Version == "" {
		c.Version = defaultVersion
	}
	if c.Transport == nil {
		c.Transport = &mcp.StdioTransport{}
	}
	return nil
}
