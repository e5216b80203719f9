package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/avdwerff/bridgechat/internal/log"
)

// ToolMapIdentifiers is the registered name of the identifier mapping tool.
const ToolMapIdentifiers = "mapIdentifiers"

// mapIdentifiersDescription teaches the model the three accepted query
// shapes, mirroring what the resolver parses.
const mapIdentifiersDescription = "Map identifiers between biological and chemical databases via BridgeDB. " +
	"Input formats: " +
	"'species, source, identifier' (e.g. 'Homo sapiens, Ensembl, ENSG00000139618'); " +
	"'source, identifier' with species defaulting to Human (e.g. 'Cpc, 2478'); " +
	"or a bare identifier, gene symbol, or chemical name (e.g. 'ENSG00000139618', 'BRCA2', 'Busulfan'). " +
	"Returns a formatted list of equivalent identifiers across databases."

// MapIdentifiersInput defines input for the mapIdentifiers tool.
type MapIdentifiersInput struct {
	Query string `json:"query" jsonschema_description:"The identifier, gene symbol, chemical name, or comma-separated lookup to map"`
}

// QueryResolver is the resolution dependency, defined here by the consumer.
// *resolver.Resolver satisfies it.
type QueryResolver interface {
	Resolve(ctx context.Context, query string) (string, error)
}

// MappingToolset exposes identifier resolution to the agent. It implements
// the one tool the conversational layer needs.
type MappingToolset struct {
	resolver QueryResolver
	logger   log.Logger
}

// NewMapping creates a MappingToolset.
func NewMapping(resolver QueryResolver, logger log.Logger) (*MappingToolset, error) {
	if resolver == nil {
		return nil, fmt.Errorf("resolver is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &MappingToolset{resolver: resolver, logger: logger}, nil
}

// Name returns the toolset identifier.
func (*MappingToolset) Name() string {
	return "mapping"
}

// MapIdentifiers resolves a raw query into a mapping report.
//
// Expected failures (malformed queries, unmapped identifiers, upstream
// non-200s) are already text inside the report and count as success here.
// Only transport-level faults surface as an error Result.
func (mt *MappingToolset) MapIdentifiers(ctx *ai.ToolContext, input MapIdentifiersInput) (Result, error) {
	query := strings.TrimSpace(input.Query)
	mt.logger.Info("MapIdentifiers called", "query", query)

	if query == "" {
		return Result{
			Status:  StatusError,
			Message: "Empty query",
			Error: &Error{
				Code:    ErrCodeValidation,
				Message: "query must not be empty",
			},
		}, nil
	}

	report, err := mt.resolver.Resolve(ctx.Context, query)
	if err != nil {
		mt.logger.Error("MapIdentifiers failed", "query", query, "error", err)
		return Result{
			Status:  StatusError,
			Message: "Upstream service unreachable",
			Error: &Error{
				Code:    ErrCodeNetwork,
				Message: fmt.Sprintf("resolving %q: %v", query, err),
			},
		}, nil
	}

	mt.logger.Info("MapIdentifiers succeeded", "query", query, "report_size", len(report))
	return Result{
		Status:  StatusSuccess,
		Message: fmt.Sprintf("Resolved %q", query),
		Data: map[string]any{
			"query":  query,
			"report": report,
		},
	}, nil
}

// RegisterMapping registers the toolset's tools with Genkit and returns the
// registered references for the agent to pass to Generate.
func RegisterMapping(g *genkit.Genkit, mt *MappingToolset) ([]ai.Tool, error) {
	if g == nil {
		return nil, fmt.Errorf("genkit instance is required")
	}
	if mt == nil {
		return nil, fmt.Errorf("mapping toolset is required")
	}

	tool := genkit.DefineTool(g, ToolMapIdentifiers, mapIdentifiersDescription, mt.MapIdentifiers)
	return []ai.Tool{tool}, nil
}
