// Package config provides application configuration management with multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (BRIDGECHAT_* overrides)
//  2. Config file (~/.bridgechat/config.yaml)
//  3. Default values (sensible defaults for quick start)
//
// Main configuration categories:
//   - AI: provider, model selection, temperature, max tokens
//   - Mapping: BridgeDB and PubChem endpoints, default species
//   - HTTP: outbound request timeout and response size cap
//   - Tracing: optional OTLP exporter (see tracing.go)
//
// Error Handling:
//   - Uses sentinel errors for Go-idiomatic error checking with errors.Is()
//   - Wrap with context using fmt.Errorf("%w: details", ErrXxx)
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrMissingAPIKey indicates a required API key is missing.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrInvalidModelName indicates the model name is invalid.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidTemperature indicates the temperature value is out of range.
	ErrInvalidTemperature = errors.New("invalid temperature")

	// ErrInvalidMaxTokens indicates the max tokens value is out of range.
	ErrInvalidMaxTokens = errors.New("invalid max tokens")

	// ErrInvalidProvider indicates the AI provider is not supported.
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrInvalidOllamaHost indicates the Ollama host is invalid.
	ErrInvalidOllamaHost = errors.New("invalid Ollama host")

	// ErrInvalidBaseURL indicates a mapping service base URL is invalid.
	ErrInvalidBaseURL = errors.New("invalid base URL")

	// ErrInvalidSpecies indicates the default species is empty.
	ErrInvalidSpecies = errors.New("invalid default species")

	// ErrInvalidHTTPTimeout indicates the HTTP timeout is out of range.
	ErrInvalidHTTPTimeout = errors.New("invalid HTTP timeout")

	// ErrInvalidResponseSize indicates the response size cap is out of range.
	ErrInvalidResponseSize = errors.New("invalid max response size")
)

const (
	// DefaultBridgeDBBaseURL is the public BridgeDB REST endpoint.
	DefaultBridgeDBBaseURL = "https://webservice.bridgedb.org"

	// DefaultPubChemBaseURL is the public PubChem PUG REST endpoint.
	DefaultPubChemBaseURL = "https://pubchem.ncbi.nlm.nih.gov"

	// DefaultSpecies is assumed when a query omits the species.
	DefaultSpecies = "Human"

	// DefaultMaxHistoryMessages is the default number of conversation
	// messages kept in memory per session.
	DefaultMaxHistoryMessages = 40

	// MaxAllowedHistoryMessages is the absolute maximum to prevent OOM.
	MaxAllowedHistoryMessages = 1000
)

// AI provider identifiers used in Config.Provider.
const (
	ProviderGemini   = "gemini"
	ProviderOllama   = "ollama"
	ProviderOpenAI   = "openai"
	ProviderGoogleAI = "googleai"
)

// Config stores application configuration.
type Config struct {
	// AI provider and model configuration
	Provider    string  `mapstructure:"provider"`
	ModelName   string  `mapstructure:"model_name"`
	Temperature float32 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`

	// Ollama configuration (only used when provider is "ollama")
	OllamaHost string `mapstructure:"ollama_host"`

	// Identifier mapping services
	BridgeDBBaseURL string `mapstructure:"bridgedb_base_url"`
	PubChemBaseURL  string `mapstructure:"pubchem_base_url"`
	DefaultSpecies  string `mapstructure:"default_species"`

	// Outbound HTTP limits
	HTTPTimeoutMS   int   `mapstructure:"http_timeout_ms"`
	MaxResponseSize int64 `mapstructure:"max_response_size"`

	// Conversation history configuration
	MaxHistoryMessages int `mapstructure:"max_history_messages"`

	// Logging configuration
	LogLevel string `mapstructure:"log_level"`
	LogJSON  bool   `mapstructure:"log_json"`

	// Observability configuration (see tracing.go for type definition)
	Tracing TracingConfig `mapstructure:"tracing"`
}

// Load loads and fully validates configuration.
// Priority: Environment variables > Configuration file > Default values
func Load() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return cfg, nil
}

// LoadMapping loads configuration for direct mapping use, validating only
// the fields the resolver pipeline needs. No model provider or API key is
// required, so `bridgechat map` works without any LLM credentials.
func LoadMapping() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}

	if err := cfg.validateMapping(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return cfg, nil
}

// read loads configuration from all sources without validating.
func read() (*Config, error) {
	// Configuration directory: ~/.bridgechat/
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".bridgechat")

	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".") // Also support current directory

	setDefaults()
	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		// Configuration file not found is not an error, use default values
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"search_paths", []string{configDir, "."},
			"config_name", "config.yaml")
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults() {
	// AI defaults
	viper.SetDefault("provider", ProviderGemini)
	viper.SetDefault("model_name", "gemini-2.5-flash")
	viper.SetDefault("temperature", 0.2)
	viper.SetDefault("max_tokens", 2048)
	viper.SetDefault("max_history_messages", DefaultMaxHistoryMessages)

	// Ollama defaults
	viper.SetDefault("ollama_host", "http://localhost:11434")

	// Mapping service defaults
	viper.SetDefault("bridgedb_base_url", DefaultBridgeDBBaseURL)
	viper.SetDefault("pubchem_base_url", DefaultPubChemBaseURL)
	viper.SetDefault("default_species", DefaultSpecies)

	// Outbound HTTP defaults
	viper.SetDefault("http_timeout_ms", 15000)
	viper.SetDefault("max_response_size", int64(2*1024*1024))

	// Logging defaults
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_json", false)

	// Tracing defaults
	viper.SetDefault("tracing.enabled", false)
	viper.SetDefault("tracing.endpoint", "localhost:4318")
	viper.SetDefault("tracing.service_name", "bridgechat")
	viper.SetDefault("tracing.environment", "dev")
}

// bindEnvVariables binds environment variable overrides explicitly.
//
// API keys are NOT bound here: GEMINI_API_KEY and OPENAI_API_KEY are read
// directly by the Genkit plugins. Validate() only checks their presence for
// the selected provider.
func bindEnvVariables() {
	// Hardcoded keys cannot fail to bind; a panic here is a bug, not a
	// runtime condition.
	mustBind := func(key, envVar string) {
		if err := viper.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("provider", "BRIDGECHAT_PROVIDER")
	mustBind("model_name", "BRIDGECHAT_MODEL_NAME")
	mustBind("ollama_host", "BRIDGECHAT_OLLAMA_HOST")

	mustBind("bridgedb_base_url", "BRIDGECHAT_BRIDGEDB_BASE_URL")
	mustBind("pubchem_base_url", "BRIDGECHAT_PUBCHEM_BASE_URL")
	mustBind("default_species", "BRIDGECHAT_DEFAULT_SPECIES")

	mustBind("log_level", "BRIDGECHAT_LOG_LEVEL")
	mustBind("log_json", "BRIDGECHAT_LOG_JSON")

	mustBind("tracing.enabled", "BRIDGECHAT_TRACING_ENABLED")
	mustBind("tracing.endpoint", "BRIDGECHAT_TRACING_ENDPOINT")
}

// FullModelName returns the provider-qualified model name for Genkit.
// Examples: "googleai/gemini-2.5-flash", "ollama/llama3.3", "openai/gpt-4o".
// If ModelName already contains a "/", it is returned as-is.
func (c *Config) FullModelName() string {
	if strings.Contains(c.ModelName, "/") {
		return c.ModelName
	}
	switch c.Provider {
	case ProviderOllama:
		return ProviderOllama + "/" + c.ModelName
	case ProviderOpenAI:
		return ProviderOpenAI + "/" + c.ModelName
	default:
		return ProviderGoogleAI + "/" + c.ModelName
	}
}

// HTTPTimeout returns the outbound HTTP timeout as a duration.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutMS) * time.Millisecond
}
