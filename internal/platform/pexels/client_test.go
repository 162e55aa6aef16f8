package pexels

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPexelsClient(serverURL string) *Client {
	c := NewClient("test-api-key")
	c.baseURL = serverURL
	return c
}

func TestSearchFoodPhoto(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-api-key", r.Header.Get("Authorization"))
		assert.Equal(t, "penne pasta", r.URL.Query().Get("query"))
		assert.Equal(t, "1", r.URL.Query().Get("per_page"))

		w.Write([]byte(`{
			"photos": [
				{"id": 123, "src": {
					"original": "https://images.example/orig.jpg",
					"medium": "https://images.example/medium.jpg",
					"small": "https://images.example/small.jpg"
				}}
			]
		}`))
	}))
	defer server.Close()

	url, ok := newTestPexelsClient(server.URL).SearchFoodPhoto(context.Background(), "penne pasta")

	require.True(t, ok)
	assert.Equal(t, "https://images.example/medium.jpg", url)
}

func TestSearchFoodPhoto_NoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"photos": []}`))
	}))
	defer server.Close()

	url, ok := newTestPexelsClient(server.URL).SearchFoodPhoto(context.Background(), "penne pasta")

	assert.False(t, ok)
	assert.Empty(t, url)
}

func TestSearchFoodPhoto_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, ok := newTestPexelsClient(server.URL).SearchFoodPhoto(context.Background(), "penne pasta")
	assert.False(t, ok)
}

func TestSearchFoodPhoto_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	_, ok := newTestPexelsClient(server.URL).SearchFoodPhoto(context.Background(), "penne pasta")
	assert.False(t, ok)
}
