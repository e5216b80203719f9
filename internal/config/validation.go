package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
)

// Validate validates configuration values.
// Returns sentinel errors that can be checked with errors.Is().
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	// 1. Provider and API key validation
	validProviders := []string{ProviderGemini, ProviderGoogleAI, ProviderOllama, ProviderOpenAI}
	if !slices.Contains(validProviders, c.Provider) {
		return fmt.Errorf("%w: %q is not valid, must be one of: %v",
			ErrInvalidProvider, c.Provider, validProviders)
	}

	switch c.Provider {
	case ProviderGemini, ProviderGoogleAI:
		if os.Getenv("GEMINI_API_KEY") == "" {
			return fmt.Errorf("%w: GEMINI_API_KEY environment variable is required\n"+
				"Get your API key at: https://ai.google.dev/gemini-api/docs/api-key",
				ErrMissingAPIKey)
		}
	case ProviderOpenAI:
		if os.Getenv("OPENAI_API_KEY") == "" {
			return fmt.Errorf("%w: OPENAI_API_KEY environment variable is required", ErrMissingAPIKey)
		}
	case ProviderOllama:
		if c.OllamaHost == "" {
			return fmt.Errorf("%w: ollama_host cannot be empty", ErrInvalidOllamaHost)
		}
		if _, err := url.ParseRequestURI(c.OllamaHost); err != nil {
			return fmt.Errorf("%w: %q: %v", ErrInvalidOllamaHost, c.OllamaHost, err)
		}
	}

	// 2. Model configuration validation
	if c.ModelName == "" {
		return fmt.Errorf("%w: model_name cannot be empty", ErrInvalidModelName)
	}

	// Temperature range: 0.0 (deterministic) to 2.0 (maximum creativity)
	if c.Temperature < 0.0 || c.Temperature > 2.0 {
		return fmt.Errorf("%w: must be between 0.0 and 2.0, got %.2f", ErrInvalidTemperature, c.Temperature)
	}

	if c.MaxTokens < 1 || c.MaxTokens > 2097152 {
		return fmt.Errorf("%w: must be between 1 and 2,097,152, got %d", ErrInvalidMaxTokens, c.MaxTokens)
	}

	// 3. Mapping pipeline validation
	return c.validateMapping()
}

// validateMapping checks the fields the resolver pipeline depends on.
// This is the full validation surface for `bridgechat map`, which runs
// without a model provider.
func (c *Config) validateMapping() error {
	if c == nil {
		return ErrConfigNil
	}

	if err := validateBaseURL("bridgedb_base_url", c.BridgeDBBaseURL); err != nil {
		return err
	}
	if err := validateBaseURL("pubchem_base_url", c.PubChemBaseURL); err != nil {
		return err
	}

	if c.DefaultSpecies == "" {
		return fmt.Errorf("%w: default_species cannot be empty", ErrInvalidSpecies)
	}

	if c.HTTPTimeoutMS < 100 || c.HTTPTimeoutMS > 300000 {
		return fmt.Errorf("%w: http_timeout_ms must be between 100 and 300,000, got %d",
			ErrInvalidHTTPTimeout, c.HTTPTimeoutMS)
	}

	if c.MaxResponseSize < 1024 || c.MaxResponseSize > 100*1024*1024 {
		return fmt.Errorf("%w: max_response_size must be between 1KiB and 100MiB, got %d",
			ErrInvalidResponseSize, c.MaxResponseSize)
	}

	return nil
}

// validateBaseURL checks a service base URL is absolute http(s).
func validateBaseURL(name, raw string) error {
	if raw == "" {
		return fmt.Errorf("%w: %s cannot be empty", ErrInvalidBaseURL, name)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidBaseURL, name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: %s must use http or https, got %q", ErrInvalidBaseURL, name, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: %s has no host", ErrInvalidBaseURL, name)
	}
	return nil
}

// NormalizeMaxHistoryMessages normalizes the max history messages value.
func NormalizeMaxHistoryMessages(limit int) int {
	if limit <= 0 {
		return DefaultMaxHistoryMessages
	}
	if limit > MaxAllowedHistoryMessages {
		return MaxAllowedHistoryMessages
	}
	return limit
}
