package goodfire_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/germanamz/steerlab/pkg/chats/message"
	"github.com/germanamz/steerlab/pkg/goodfire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *goodfire.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return goodfire.New(srv.URL, "test-key")
}

func readBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}

	var req map[string]any
	if err := json.Unmarshal(body, &req); err != nil {
		t.Fatalf("failed to unmarshal body: %v", err)
	}

	return req
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("failed to encode response: %v", err)
	}
}

func TestClient_AppliesBearerAuth(t *testing.T) {
	var gotAuth string

	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(t, w, map[string]any{"logits": map[string]float64{}})
	})

	_, err := client.Logits(context.Background(), []message.Message{message.User("hi")}, goodfire.NewVariant("m"), 10)
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-key", gotAuth)
}

func TestClient_ExtraHeaders(t *testing.T) {
	var gotHeader string

	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-Playground")
		writeJSON(t, w, map[string]any{"logits": map[string]float64{}})
	})
	client.Headers = map[string]string{"X-Playground": "steerlab"}

	_, err := client.Logits(context.Background(), []message.Message{message.User("hi")}, goodfire.NewVariant("m"), 10)
	require.NoError(t, err)

	assert.Equal(t, "steerlab", gotHeader)
}

func TestClient_NonOKStatusReturnsAPIError(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"invalid api key"}`))
	})

	_, err := client.Logits(context.Background(), []message.Message{message.User("hi")}, goodfire.NewVariant("m"), 10)
	require.Error(t, err)

	var apiErr *goodfire.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Contains(t, apiErr.Body, "invalid api key")
}

func TestClient_RejectsInvalidRoleBeforeNetwork(t *testing.T) {
	hit := false

	client := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		hit = true
		writeJSON(t, w, map[string]any{"logits": map[string]float64{}})
	})

	bad := []message.Message{message.New("tool", "result payload")}

	_, err := client.Logits(context.Background(), bad, goodfire.NewVariant("m"), 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid message role")

	_, err = client.Inspect(context.Background(), bad, goodfire.NewVariant("m"))
	require.Error(t, err)

	_, err = client.CreateStream(context.Background(), goodfire.CompletionRequest{
		Messages: bad,
		Model:    goodfire.NewVariant("m"),
	})
	require.Error(t, err)

	assert.False(t, hit, "invalid conversations must not reach the service")
}

func TestClient_ContextCancellation(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{"logits": map[string]float64{}})
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Logits(ctx, []message.Message{message.User("hi")}, goodfire.NewVariant("m"), 10)
	assert.Error(t, err)
}
