// Package mcp exposes the identifier mapping tool over the Model Context
// Protocol, so external MCP clients can call it without going through the
// conversational agent.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/avdwerff/bridgechat/internal/tools"
)

// Server wraps the MCP SDK server and the mapping toolset.
type Server struct {
	mcpServer *mcp.Server
	mapping   *tools.MappingToolset
	name      string
	version   string
}

// Config holds MCP server configuration.
type Config struct {
	Name    string
	Version string
	Mapping *tools.MappingToolset
}

// NewServer creates a new MCP server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("server name is required")
	}
	if cfg.Version == "" {
		return nil, fmt.Errorf("server version is required")
	}
	if cfg.Mapping == nil {
		return nil, fmt.Errorf("mapping toolset is required")
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	s := &Server{
		mcpServer: mcpServer,
		mapping:   cfg.Mapping,
		name:      cfg.Name,
		version:   cfg.Version,
	}

	if err := s.registerMapIdentifiers(); err != nil {
		return nil, fmt.Errorf("registering mapIdentifiers: %w", err)
	}

	return s, nil
}

// Run starts the MCP server on the given transport.
// This is a blocking call that handles all MCP protocol communication.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	return s.mcpServer.Run(ctx, transport)
}

// registerMapIdentifiers registers the mapping tool. The handler builds the
// MCP response inline, like a net/http.Handler; no conversion layer.
func (s *Server) registerMapIdentifiers() error {
	inputSchema, err := jsonschema.For[tools.MapIdentifiersInput](nil)
	if err != nil {
		return fmt.Errorf("creating input schema: %w", err)
	}

	tool := &mcp.Tool{
		Name:        tools.ToolMapIdentifiers,
		Description: "Map a biological or chemical identifier across databases via BridgeDB, with a PubChem fallback for chemical names. Accepts 'species, source, identifier', 'source, identifier', or a bare identifier or name.",
		InputSchema: inputSchema,
	}

	mcp.AddTool(s.mcpServer, tool, func(ctx context.Context, req *mcp.CallToolRequest, in tools.MapIdentifiersInput) (*mcp.CallToolResult, any, error) {
		result, err := s.mapping.MapIdentifiers(&ai.ToolContext{Context: ctx}, in)
		if err != nil {
			// System error - propagate to MCP
			return nil, nil, fmt.Errorf("system error: %w", err)
		}

		if result.Status == tools.StatusError {
			errorText := fmt.Sprintf("Error [%s]: %s", result.Error.Code, result.Error.Message)
			if result.Error.Details != nil {
				detailsJSON, _ := json.Marshal(result.Error.Details)
				errorText += fmt.Sprintf("\nDetails: %s", string(detailsJSON))
			}

			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: errorText}},
				IsError: true,
			}, nil, nil
		}

		data, ok := result.Data.(map[string]any)
		if !ok {
			return nil, nil, fmt.Errorf("unexpected data format")
		}

		report, ok := data["report"].(string)
		if !ok {
			return nil, nil, fmt.Errorf("report field not found or not string")
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: report}},
		}, nil, nil
	})

	return nil
}
