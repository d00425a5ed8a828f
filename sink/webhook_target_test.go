package sink

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shadowmint/loghaul"
)

func TestWebhookTargetPostsEachRecord(t *testing.T) {
	var mu sync.Mutex
	var bodies []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		mu.Lock()
		bodies = append(bodies, string(body))
		mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	target := NewWebhookTarget(server.URL)
	require.NoError(t, target.Consume(loghaul.StreamEntryData, []byte("one")))
	require.NoError(t, target.Consume(loghaul.StreamEntryData, []byte("two")))

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"one", "two"}, bodies)
}

func TestWebhookTargetIgnoresNonData(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	target := NewWebhookTarget(server.URL)
	require.NoError(t, target.Consume(loghaul.StreamEntryNoData, nil))
	require.NoError(t, target.Consume(loghaul.StreamEntryEOF, nil))
	require.Zero(t, calls)
}
