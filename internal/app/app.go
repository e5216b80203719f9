// Package app provides application initialization and dependency injection.
//
// App is the core container that wires the identifier mapping pipeline
// (BridgeDB client, PubChem client, resolver), registers the mapping tool
// with Genkit, and constructs the conversational agent on top.
package app

import (
	"context"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/avdwerff/bridgechat/internal/agent"
	"github.com/avdwerff/bridgechat/internal/config"
	"github.com/avdwerff/bridgechat/internal/log"
	"github.com/avdwerff/bridgechat/internal/resolver"
	"github.com/avdwerff/bridgechat/internal/tools"
)

// App is the core application container.
type App struct {
	// Configuration
	Config *config.Config
	Logger log.Logger

	// Core services
	Genkit   *genkit.Genkit
	Resolver *resolver.Resolver
	Mapping  *tools.MappingToolset
	Agent    *agent.Agent
	Tools    []ai.Tool

	// Lifecycle management
	otelCleanup func()
	cancel      context.CancelFunc
}

// Close gracefully shuts down all resources.
func (a *App) Close() error {
	a.Logger.Info("shutting down application")

	if a.cancel != nil {
		a.cancel()
	}

	// Flush pending spans last so teardown work is still traced.
	if a.otelCleanup != nil {
		a.otelCleanup()
	}

	return nil
}
