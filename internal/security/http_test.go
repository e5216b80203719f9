package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTP_ValidateURL(t *testing.T) {
	t.Parallel()

	v := NewHTTP()

	t.Run("rejects localhost", func(t *testing.T) {
		t.Parallel()
		err := v.ValidateURL("http://localhost:8080/Human/xrefs/En/ENSG00000139618")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access denied")
	})

	t.Run("rejects loopback IP", func(t *testing.T) {
		t.Parallel()
		err := v.ValidateURL("http://127.0.0.1/xrefs")
		require.Error(t, err)
	})

	t.Run("rejects metadata endpoint", func(t *testing.T) {
		t.Parallel()
		err := v.ValidateURL("http://169.254.169.254/latest/meta-data/")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access denied")
	})

	t.Run("rejects GCP metadata hostname", func(t *testing.T) {
		t.Parallel()
		err := v.ValidateURL("http://metadata.google.internal/computeMetadata/v1/")
		require.Error(t, err)
	})

	t.Run("rejects file scheme", func(t *testing.T) {
		t.Parallel()
		err := v.ValidateURL("file:///etc/passwd")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disallowed scheme")
	})

	t.Run("rejects ftp scheme", func(t *testing.T) {
		t.Parallel()
		err := v.ValidateURL("ftp://example.org/data.tsv")
		require.Error(t, err)
	})

	t.Run("rejects missing hostname", func(t *testing.T) {
		t.Parallel()
		err := v.ValidateURL("https:///xrefs/En/BRCA2")
		require.Error(t, err)
	})

	t.Run("rejects private ranges", func(t *testing.T) {
		t.Parallel()
		for _, target := range []string{
			"http://10.0.0.7/",
			"http://192.168.1.1/",
			"http://172.16.0.1/",
		} {
			err := v.ValidateURL(target)
			assert.Error(t, err, "expected %s to be rejected", target)
		}
	})
}

func TestHTTP_Client(t *testing.T) {
	t.Parallel()

	t.Run("default timeout", func(t *testing.T) {
		t.Parallel()
		client := NewHTTP().Client()
		assert.Equal(t, DefaultTimeout, client.Timeout)
		assert.NotNil(t, client.CheckRedirect)
	})

	t.Run("custom timeout", func(t *testing.T) {
		t.Parallel()
		client := NewHTTP(WithTimeout(3 * time.Second)).Client()
		assert.Equal(t, 3*time.Second, client.Timeout)
	})

	t.Run("non-positive options ignored", func(t *testing.T) {
		t.Parallel()
		v := NewHTTP(WithTimeout(0), WithMaxResponseSize(-1))
		assert.Equal(t, DefaultTimeout, v.Client().Timeout)
		assert.Equal(t, DefaultMaxResponseSize, v.MaxResponseSize())
	})
}

func TestHTTP_MaxResponseSize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultMaxResponseSize, NewHTTP().MaxResponseSize())
	assert.Equal(t, int64(1024), NewHTTP(WithMaxResponseSize(1024)).MaxResponseSize())
}
