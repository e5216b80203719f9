package tools

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultJSON(t *testing.T) {
	t.Parallel()

	t.Run("success omits the error field", func(t *testing.T) {
		t.Parallel()
		r := Result{
			Status:  StatusSuccess,
			Message: "Resolved \"BRCA2\"",
			Data:    map[string]any{"query": "BRCA2"},
		}

		raw, err := json.Marshal(r)
		require.NoError(t, err)
		assert.Contains(t, string(raw), `"status":"success"`)
		assert.NotContains(t, string(raw), `"error"`)
	})

	t.Run("error carries a machine-readable code", func(t *testing.T) {
		t.Parallel()
		r := Result{
			Status: StatusError,
			Error: &Error{
				Code:    ErrCodeNetwork,
				Message: "resolving \"BRCA2\": connection refused",
			},
		}

		raw, err := json.Marshal(r)
		require.NoError(t, err)
		assert.Contains(t, string(raw), `"code":"NetworkError"`)
	})
}

func TestStatusValues(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Status("success"), StatusSuccess)
	assert.Equal(t, Status("error"), StatusError)
	assert.Equal(t, ErrorCode("ValidationError"), ErrCodeValidation)
	assert.Equal(t, ErrorCode("NetworkError"), ErrCodeNetwork)
}
