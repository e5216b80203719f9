package pubchem

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdwerff/bridgechat/internal/log"
)

type openGuard struct{}

func (*openGuard) ValidateURL(string) error { return nil }
func (*openGuard) Client() *http.Client     { return &http.Client{} }
func (*openGuard) MaxResponseSize() int64   { return 1 << 20 }

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := New(baseURL, &openGuard{}, log.NewNop())
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("defaults base URL", func(t *testing.T) {
		t.Parallel()
		c, err := New("", &openGuard{}, log.NewNop())
		require.NoError(t, err)
		assert.Equal(t, DefaultBaseURL, c.baseURL)
	})

	t.Run("nil guard fails", func(t *testing.T) {
		t.Parallel()
		_, err := New("", nil, log.NewNop())
		assert.Error(t, err)
	})
}

func TestClient_CompoundID(t *testing.T) {
	t.Parallel()

	t.Run("returns trimmed identifier", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/rest/pug/compound/name/Busulfan/cids/TXT", r.URL.Path)
			_, _ = w.Write([]byte("2478\n"))
		}))
		defer srv.Close()

		cid, err := newTestClient(t, srv.URL).CompoundID(context.Background(), "Busulfan")
		require.NoError(t, err)
		assert.Equal(t, "2478", cid)
	})

	t.Run("multi-identifier response yields first", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("2244\n2245\n2246\n"))
		}))
		defer srv.Close()

		cid, err := newTestClient(t, srv.URL).CompoundID(context.Background(), "Aspirin")
		require.NoError(t, err)
		assert.Equal(t, "2244", cid)
	})

	t.Run("escapes names with spaces", func(t *testing.T) {
		t.Parallel()
		var gotPath string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.EscapedPath()
			_, _ = w.Write([]byte("702\n"))
		}))
		defer srv.Close()

		_, err := newTestClient(t, srv.URL).CompoundID(context.Background(), "ethyl alcohol")
		require.NoError(t, err)
		assert.Equal(t, "/rest/pug/compound/name/ethyl%20alcohol/cids/TXT", gotPath)
	})

	t.Run("non-200 yields ErrNotFound", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "no such compound", http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := newTestClient(t, srv.URL).CompoundID(context.Background(), "notachemical")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("blank body yields ErrNotFound", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("  \n"))
		}))
		defer srv.Close()

		_, err := newTestClient(t, srv.URL).CompoundID(context.Background(), "mystery")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		t.Parallel()
		_, err := newTestClient(t, "https://pubchem.example.org").CompoundID(context.Background(), "   ")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
	})

	t.Run("transport failure propagates as error", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		_, err := newTestClient(t, srv.URL).CompoundID(context.Background(), "Busulfan")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
	})
}
