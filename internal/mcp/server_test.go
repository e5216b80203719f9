package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdwerff/bridgechat/internal/log"
	"github.com/avdwerff/bridgechat/internal/tools"
)

// staticResolver answers every query with the same report.
type staticResolver struct {
	report string
}

func (s *staticResolver) Resolve(_ context.Context, _ string) (string, error) {
	return s.report, nil
}

func newTestMapping(t *testing.T) *tools.MappingToolset {
	t.Helper()
	mt, err := tools.NewMapping(&staticResolver{report: "ok"}, log.NewNop())
	if err != nil {
		t.Fatalf("failed to create mapping toolset: %v", err)
	}
	return mt
}

func TestNewServer(t *testing.T) {
	t.Parallel()

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()
		s, err := NewServer(Config{
			Name:    "test-server",
			Version: "1.0.0",
			Mapping: newTestMapping(t),
		})
		require.NoError(t, err)
		assert.NotNil(t, s)
	})

	t.Run("missing name", func(t *testing.T) {
		t.Parallel()
		_, err := NewServer(Config{
			Version: "1.0.0",
			Mapping: newTestMapping(t),
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name is required")
	})

	t.Run("missing version", func(t *testing.T) {
		t.Parallel()
		_, err := NewServer(Config{
			Name:    "test-server",
			Mapping: newTestMapping(t),
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "version is required")
	})

	t.Run("missing toolset", func(t *testing.T) {
		t.Parallel()
		_, err := NewServer(Config{
			Name:    "test-server",
			Version: "1.0.0",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "toolset is required")
	})
}
