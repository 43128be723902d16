package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"yield-service/internal/config"
	"yield-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func computeClientFor(serverURL string) *ComputeClient {
	return NewComputeClient(config.ComputeConfig{
		BaseURL:         serverURL,
		CallbackBaseURL: "http://yield-service:8084",
		TimeoutSeconds:  "2",
	})
}

func TestRequestComputation_SendsOrderAndCallback(t *testing.T) {
	var received models.ComputeRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/compute", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	err := computeClientFor(server.URL).RequestComputation(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, int64(42), received.OrderID)
	assert.Equal(t, "http://yield-service:8084/api/compute/orders/42/result", received.CallbackURL)
}

func TestRequestComputation_ServerErrorIsUpstream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	err := computeClientFor(server.URL).RequestComputation(context.Background(), 7)

	assert.ErrorIs(t, err, models.ErrUpstream)
}

func TestRequestComputation_UnreachableIsUpstream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listens there anymore

	err := computeClientFor(server.URL).RequestComputation(context.Background(), 7)

	assert.ErrorIs(t, err, models.ErrUpstream)
}

func TestRequestComputation_TimeoutIsUpstream(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer func() {
		close(release)
		server.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := computeClientFor(server.URL).RequestComputation(ctx, 7)

	assert.ErrorIs(t, err, models.ErrUpstream)
}
