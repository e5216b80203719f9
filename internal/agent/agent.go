// Package agent implements the conversational agent that answers
// natural-language questions about biological identifiers by calling the
// identifier mapping tool through Genkit's agentic loop.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
)

const (
	// Name is the unique identifier for the agent.
	Name = "bridgechat"

	// defaultMaxTurns caps the agentic tool-calling loop per request.
	defaultMaxTurns = 5

	// fallbackResponseMessage is returned when the model produces an empty response.
	fallbackResponseMessage = "I apologize, but I couldn't generate a response. Please try rephrasing your question."
)

// systemPrompt steers the model toward the mapping tool and explains the
// accepted query shapes so the model forwards identifiers verbatim.
const systemPrompt = `You are BridgeChat, an assistant for cross-referencing biological and
chemical identifiers. You have one tool, mapIdentifiers, that queries the
BridgeDB web service (with a PubChem fallback for chemical names).

What you can do:
1. Map gene identifiers: find corresponding IDs for genes across databases
   (e.g., Ensembl, HGNC, RefSeq).
2. Look up chemical compounds: get identifiers for chemicals in databases
   like PubChem, ChEBI, or DrugBank.
3. Cross-reference identifiers: translate IDs between biological databases.

When a user mentions a gene, compound, or identifier, call mapIdentifiers
with one of these query formats:
- "species, source, identifier" (e.g., "Homo sapiens, En, ENSG00000139618")
- "source, identifier" (e.g., "Cpc, 2478") for human
- a bare identifier or name (e.g., "ENSG00000139618", "BRCA2", "Busulfan")

Pass identifiers through exactly as the user wrote them. Present the tool's
report to the user, adding brief context where helpful. Notes:
- Gene Ontology terms can be looked up at http://geneontology.org/
- UCSC Genome Browser identifiers are internal; search by gene name or
  genomic location at https://genome.ucsc.edu/`

// ErrExecutionFailed indicates the model call failed.
var ErrExecutionFailed = errors.New("execution failed")

// Response represents the complete result of an agent execution.
type Response struct {
	FinalText    string            // Model's final text output
	ToolRequests []*ai.ToolRequest // Tool requests made during execution
}

// Config contains all required parameters for the agent.
type Config struct {
	Genkit *genkit.Genkit
	Logger *slog.Logger
	Tools  []ai.Tool // Pre-registered tools from tools.RegisterMapping()

	// ModelName is the provider-qualified model name
	// (e.g., "googleai/gemini-2.5-flash", "ollama/llama3.3").
	ModelName string

	// Temperature passed to the model. Low values keep identifier handling literal.
	Temperature float32

	// MaxTokens caps the model output per turn. Zero leaves the model default.
	MaxTokens int

	// MaxTurns caps the agentic loop. Zero uses the default.
	MaxTurns int

	// MaxHistoryMessages bounds the in-memory conversation history.
	// Zero disables history (every Ask is independent).
	MaxHistoryMessages int
}

// validate checks if all required parameters are present.
func (cfg Config) validate() error {
	if cfg.Genkit == nil {
		return errors.New("genkit instance is required")
	}
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	if len(cfg.Tools) == 0 {
		return errors.New("at least one tool is required")
	}
	return nil
}

// Agent is the conversational front end over the identifier mapping tool.
//
// Configuration is captured immutably at construction time. History is the
// only mutable state and is guarded by a mutex, so a single Agent is safe
// for concurrent use.
type Agent struct {
	modelName   string
	temperature float32
	maxTokens   int
	maxTurns    int
	maxHistory  int

	g         *genkit.Genkit
	logger    *slog.Logger
	toolRefs  []ai.ToolRef
	toolNames string // cached comma-separated list for logging

	mu      sync.Mutex
	history []*ai.Message
}

// New creates a new Agent with required configuration.
func New(cfg Config) (*Agent, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	maxTurns := cfg.MaxTurns
	if maxTurns <= 0 {
		maxTurns = defaultMaxTurns
	}

	toolRefs := make([]ai.ToolRef, len(cfg.Tools))
	names := make([]string, len(cfg.Tools))
	for i, t := range cfg.Tools {
		toolRefs[i] = t
		names[i] = t.Name()
	}

	a := &Agent{
		modelName:   cfg.ModelName,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		maxTurns:    maxTurns,
		maxHistory:  cfg.MaxHistoryMessages,
		g:           cfg.Genkit,
		logger:      cfg.Logger,
		toolRefs:    toolRefs,
		toolNames:   strings.Join(names, ", "),
	}

	a.logger.Info("agent initialized",
		"tools", a.toolNames,
		"maxTurns", a.maxTurns,
		"model", a.modelName,
	)

	return a, nil
}

// Ask runs one conversational turn and returns the model's final text.
func (a *Agent) Ask(ctx context.Context, input string) (string, error) {
	resp, err := a.Execute(ctx, input)
	if err != nil {
		return "", err
	}
	return resp.FinalText, nil
}

// Execute runs one conversational turn with full response details.
// The user message and the model's reply are appended to the bounded
// conversation history.
func (a *Agent) Execute(ctx context.Context, input string) (*Response, error) {
	a.logger.Debug("executing agent",
		"tools", a.toolNames,
		"queryLength", len(input),
	)

	// Snapshot history under the lock; Generate runs without it.
	// CRITICAL: deep copy is required because Genkit's renderMessages()
	// modifies msg.Content in-place, racing with concurrent executions
	// that share the same message objects.
	a.mu.Lock()
	messages := deepCopyMessages(a.history)
	a.mu.Unlock()

	messages = append(messages, ai.NewUserMessage(ai.NewTextPart(input)))

	opts := []ai.GenerateOption{
		ai.WithSystem(systemPrompt),
		ai.WithMessages(messages...),
		ai.WithTools(a.toolRefs...),
		ai.WithMaxTurns(a.maxTurns),
		ai.WithConfig(&ai.GenerationCommonConfig{
			Temperature:     float64(a.temperature),
			MaxOutputTokens: a.maxTokens,
		}),
	}
	if a.modelName != "" {
		opts = append(opts, ai.WithModelName(a.modelName))
	}

	resp, err := genkit.Generate(ctx, a.g, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExecutionFailed, err)
	}

	responseText := resp.Text()

	// Empty text with tool requests is valid agentic behavior; only fall
	// back when the model produced nothing at all.
	if strings.TrimSpace(responseText) == "" && len(resp.ToolRequests()) == 0 {
		a.logger.Warn("model returned empty response with no tool requests")
		responseText = fallbackResponseMessage
	}

	a.appendHistory(
		ai.NewUserMessage(ai.NewTextPart(input)),
		ai.NewModelMessage(ai.NewTextPart(responseText)),
	)

	return &Response{
		FinalText:    responseText,
		ToolRequests: resp.ToolRequests(),
	}, nil
}

// Reset clears the conversation history.
func (a *Agent) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.history = nil
}

// HistoryLen reports the number of messages currently retained.
func (a *Agent) HistoryLen() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.history)
}

// appendHistory records messages, trimming the oldest once the bound is
// exceeded. A zero bound disables history entirely.
func (a *Agent) appendHistory(msgs ...*ai.Message) {
	if a.maxHistory <= 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.history = append(a.history, msgs...)
	if excess := len(a.history) - a.maxHistory; excess > 0 {
		a.history = a.history[excess:]
	}
}

// deepCopyMessages creates independent copies of Message and Part structs.
//
// WORKAROUND: Genkit's renderMessages() modifies msg.Content in-place,
// causing data races in concurrent executions. Tested against
// github.com/firebase/genkit/go v1.4.0; re-verify with the race detector
// before removing.
func deepCopyMessages(msgs []*ai.Message) []*ai.Message {
	if msgs == nil {
		return nil
	}
	copied := make([]*ai.Message, len(msgs))
	for i, msg := range msgs {
		parts := make([]*ai.Part, len(msg.Content))
		for j, part := range msg.Content {
			parts[j] = deepCopyPart(part)
		}
		copied[i] = &ai.Message{
			Role:     msg.Role,
			Content:  parts,
			Metadata: shallowCopyMap(msg.Metadata),
		}
	}
	return copied
}

// deepCopyPart creates an independent copy of an ai.Part struct.
// ToolRequest.Input and ToolResponse.Output are type any and copied by
// reference; Genkit only mutates the Content slice, not tool data.
func deepCopyPart(p *ai.Part) *ai.Part {
	if p == nil {
		return nil
	}
	cp := &ai.Part{
		Kind:        p.Kind,
		ContentType: p.ContentType,
		Text:        p.Text,
		Custom:      shallowCopyMap(p.Custom),
		Metadata:    shallowCopyMap(p.Metadata),
	}
	if p.ToolRequest != nil {
		cp.ToolRequest = &ai.ToolRequest{
			Input: p.ToolRequest.Input,
			Name:  p.ToolRequest.Name,
			Ref:   p.ToolRequest.Ref,
		}
	}
	if p.ToolResponse != nil {
		cp.ToolResponse = &ai.ToolResponse{
			Name:   p.ToolResponse.Name,
			Output: p.ToolResponse.Output,
			Ref:    p.ToolResponse.Ref,
		}
	}
	return cp
}

// shallowCopyMap copies map keys and values but not nested structures.
func shallowCopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	cp := make(map[string]any, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}
