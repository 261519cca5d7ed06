package rates

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}

func TestClient_Latest(t *testing.T) {
	t.Run("ProviderResponse", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "TRY", r.URL.Query().Get("base"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"rates": {"USD": "33.10", "EUR": "35.75"}}`))
		}))
		defer server.Close()

		client := NewClient(testLogger(), server.URL, time.Second)
		result := client.Latest(context.Background(), "TRY")

		assert.False(t, result.Fallback)
		assert.Equal(t, "TRY", result.Base)
		require.Len(t, result.Rates, 2)
		assert.Equal(t, "33.1", result.Rates["USD"].String())
	})

	t.Run("ServerErrorFallsBack", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewClient(testLogger(), server.URL, time.Second)
		result := client.Latest(context.Background(), "TRY")

		assert.True(t, result.Fallback)
		assertFallbackTable(t, result)
	})

	t.Run("UnreachableProviderFallsBack", func(t *testing.T) {
		client := NewClient(testLogger(), "http://127.0.0.1:1", 100*time.Millisecond)
		result := client.Latest(context.Background(), "TRY")

		assert.True(t, result.Fallback)
		assertFallbackTable(t, result)
	})

	t.Run("MalformedBodyFallsBack", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		defer server.Close()

		client := NewClient(testLogger(), server.URL, time.Second)
		result := client.Latest(context.Background(), "TRY")
		assert.True(t, result.Fallback)
	})

	t.Run("EmptyRatesFallsBack", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"rates": {}}`))
		}))
		defer server.Close()

		client := NewClient(testLogger(), server.URL, time.Second)
		result := client.Latest(context.Background(), "TRY")
		assert.True(t, result.Fallback)
	})
}

func assertFallbackTable(t *testing.T, result Result) {
	t.Helper()
	require.Len(t, result.Rates, 3)
	assert.Equal(t, "34.5", result.Rates["USD"].String())
	assert.Equal(t, "36.2", result.Rates["EUR"].String())
	assert.Equal(t, "42.1", result.Rates["GBP"].String())
}
