package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

// withCleanEnv points HOME at an empty temp directory and sets a fake API
// key so Load() exercises pure defaults.
func withCleanEnv(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GEMINI_API_KEY", "test-api-key")
	for _, v := range []string{
		"BRIDGECHAT_PROVIDER",
		"BRIDGECHAT_MODEL_NAME",
		"BRIDGECHAT_BRIDGEDB_BASE_URL",
		"BRIDGECHAT_PUBCHEM_BASE_URL",
		"BRIDGECHAT_DEFAULT_SPECIES",
	} {
		if err := os.Unsetenv(v); err != nil {
			t.Fatalf("failed to unset %s: %v", v, err)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	withCleanEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Provider != ProviderGemini {
		t.Errorf("expected default Provider %q, got %q", ProviderGemini, cfg.Provider)
	}

	if cfg.ModelName != "gemini-2.5-flash" {
		t.Errorf("expected default ModelName 'gemini-2.5-flash', got %q", cfg.ModelName)
	}

	if cfg.BridgeDBBaseURL != DefaultBridgeDBBaseURL {
		t.Errorf("expected default BridgeDBBaseURL %q, got %q", DefaultBridgeDBBaseURL, cfg.BridgeDBBaseURL)
	}

	if cfg.PubChemBaseURL != DefaultPubChemBaseURL {
		t.Errorf("expected default PubChemBaseURL %q, got %q", DefaultPubChemBaseURL, cfg.PubChemBaseURL)
	}

	if cfg.DefaultSpecies != "Human" {
		t.Errorf("expected default DefaultSpecies 'Human', got %q", cfg.DefaultSpecies)
	}

	if cfg.HTTPTimeoutMS != 15000 {
		t.Errorf("expected default HTTPTimeoutMS 15000, got %d", cfg.HTTPTimeoutMS)
	}

	if cfg.MaxResponseSize != 2*1024*1024 {
		t.Errorf("expected default MaxResponseSize 2MiB, got %d", cfg.MaxResponseSize)
	}

	if cfg.MaxHistoryMessages != DefaultMaxHistoryMessages {
		t.Errorf("expected default MaxHistoryMessages %d, got %d", DefaultMaxHistoryMessages, cfg.MaxHistoryMessages)
	}

	if cfg.Tracing.Enabled {
		t.Error("expected tracing disabled by default")
	}
}

func TestLoadConfigFile(t *testing.T) {
	withCleanEnv(t)

	home := os.Getenv("HOME")
	configDir := filepath.Join(home, ".bridgechat")
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}

	content := []byte(`model_name: gemini-2.5-pro
default_species: "Mouse"
bridgedb_base_url: "http://localhost:8183"
temperature: 0.5
`)
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), content, 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.ModelName != "gemini-2.5-pro" {
		t.Errorf("expected ModelName 'gemini-2.5-pro', got %q", cfg.ModelName)
	}

	if cfg.DefaultSpecies != "Mouse" {
		t.Errorf("expected DefaultSpecies 'Mouse', got %q", cfg.DefaultSpecies)
	}

	if cfg.BridgeDBBaseURL != "http://localhost:8183" {
		t.Errorf("expected BridgeDBBaseURL 'http://localhost:8183', got %q", cfg.BridgeDBBaseURL)
	}

	if cfg.Temperature != 0.5 {
		t.Errorf("expected Temperature 0.5, got %f", cfg.Temperature)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	withCleanEnv(t)
	t.Setenv("BRIDGECHAT_DEFAULT_SPECIES", "Rat")
	t.Setenv("BRIDGECHAT_BRIDGEDB_BASE_URL", "http://localhost:9999")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.DefaultSpecies != "Rat" {
		t.Errorf("expected env-overridden DefaultSpecies 'Rat', got %q", cfg.DefaultSpecies)
	}

	if cfg.BridgeDBBaseURL != "http://localhost:9999" {
		t.Errorf("expected env-overridden BridgeDBBaseURL, got %q", cfg.BridgeDBBaseURL)
	}
}

func TestLoadMapping_NoAPIKeyRequired(t *testing.T) {
	withCleanEnv(t)
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := LoadMapping()
	if err != nil {
		t.Fatalf("LoadMapping() failed: %v", err)
	}

	if cfg.BridgeDBBaseURL != DefaultBridgeDBBaseURL {
		t.Errorf("expected default BridgeDBBaseURL, got %q", cfg.BridgeDBBaseURL)
	}

	if cfg.DefaultSpecies != "Human" {
		t.Errorf("expected default species 'Human', got %q", cfg.DefaultSpecies)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Provider:           ProviderOllama,
			ModelName:          "llama3.3",
			Temperature:        0.2,
			MaxTokens:          2048,
			OllamaHost:         "http://localhost:11434",
			BridgeDBBaseURL:    DefaultBridgeDBBaseURL,
			PubChemBaseURL:     DefaultPubChemBaseURL,
			DefaultSpecies:     "Human",
			HTTPTimeoutMS:      15000,
			MaxResponseSize:    2 * 1024 * 1024,
			MaxHistoryMessages: DefaultMaxHistoryMessages,
		}
	}

	t.Run("valid config passes", func(t *testing.T) {
		if err := valid().Validate(); err != nil {
			t.Fatalf("Validate() failed: %v", err)
		}
	})

	t.Run("nil config", func(t *testing.T) {
		var cfg *Config
		if err := cfg.Validate(); !errors.Is(err, ErrConfigNil) {
			t.Errorf("expected ErrConfigNil, got %v", err)
		}
	})

	t.Run("unknown provider", func(t *testing.T) {
		cfg := valid()
		cfg.Provider = "anthropic"
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidProvider) {
			t.Errorf("expected ErrInvalidProvider, got %v", err)
		}
	})

	t.Run("gemini requires API key", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "")
		cfg := valid()
		cfg.Provider = ProviderGemini
		if err := cfg.Validate(); !errors.Is(err, ErrMissingAPIKey) {
			t.Errorf("expected ErrMissingAPIKey, got %v", err)
		}
	})

	t.Run("empty model name", func(t *testing.T) {
		cfg := valid()
		cfg.ModelName = ""
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidModelName) {
			t.Errorf("expected ErrInvalidModelName, got %v", err)
		}
	})

	t.Run("temperature out of range", func(t *testing.T) {
		cfg := valid()
		cfg.Temperature = 2.5
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidTemperature) {
			t.Errorf("expected ErrInvalidTemperature, got %v", err)
		}
	})

	t.Run("bad bridgedb URL scheme", func(t *testing.T) {
		cfg := valid()
		cfg.BridgeDBBaseURL = "ftp://webservice.bridgedb.org"
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidBaseURL) {
			t.Errorf("expected ErrInvalidBaseURL, got %v", err)
		}
	})

	t.Run("empty species", func(t *testing.T) {
		cfg := valid()
		cfg.DefaultSpecies = ""
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidSpecies) {
			t.Errorf("expected ErrInvalidSpecies, got %v", err)
		}
	})

	t.Run("timeout too small", func(t *testing.T) {
		cfg := valid()
		cfg.HTTPTimeoutMS = 10
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidHTTPTimeout) {
			t.Errorf("expected ErrInvalidHTTPTimeout, got %v", err)
		}
	})

	t.Run("response size too small", func(t *testing.T) {
		cfg := valid()
		cfg.MaxResponseSize = 100
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidResponseSize) {
			t.Errorf("expected ErrInvalidResponseSize, got %v", err)
		}
	})
}

func TestFullModelName(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		model    string
		want     string
	}{
		{"gemini maps to googleai prefix", ProviderGemini, "gemini-2.5-flash", "googleai/gemini-2.5-flash"},
		{"ollama prefix", ProviderOllama, "llama3.3", "ollama/llama3.3"},
		{"openai prefix", ProviderOpenAI, "gpt-4o", "openai/gpt-4o"},
		{"already qualified", ProviderGemini, "googleai/gemini-2.5-pro", "googleai/gemini-2.5-pro"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Provider: tt.provider, ModelName: tt.model}
			if got := cfg.FullModelName(); got != tt.want {
				t.Errorf("FullModelName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeMaxHistoryMessages(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, DefaultMaxHistoryMessages},
		{-5, DefaultMaxHistoryMessages},
		{20, 20},
		{5000, MaxAllowedHistoryMessages},
	}

	for _, tt := range tests {
		if got := NormalizeMaxHistoryMessages(tt.in); got != tt.want {
			t.Errorf("NormalizeMaxHistoryMessages(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
