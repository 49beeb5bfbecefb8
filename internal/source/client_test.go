package source

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SendsBasicAuthAndJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "reporter" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/thing", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		json.NewEncoder(w).Encode(map[string]string{"echo": body["name"]})
	}))
	defer server.Close()

	c := NewClient(KindJira, server.URL+"/api/", "reporter", "secret",
		WithHTTPClient(server.Client()))

	var out map[string]string
	err := c.Post(context.Background(), "/thing", map[string]string{"name": "x"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "x", out["echo"])
}

func TestClient_UnauthorizedIsAuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c := NewClient(KindZapi, server.URL, "u", "p", WithHTTPClient(server.Client()))
	err := c.Get(context.Background(), "/x", nil)
	require.Error(t, err)
	assert.True(t, IsAuthError(err))
	assert.False(t, IsNotFound(err))
}

func TestClient_ErrorEnvelopeBecomesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"errorMessages": []string{"Issue Does Not Exist"},
		})
	}))
	defer server.Close()

	c := NewClient(KindJira, server.URL, "u", "p", WithHTTPClient(server.Client()))
	err := c.Get(context.Background(), "/rest/api/2/issue/NOPE-1", &struct{}{})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, []string{"Issue Does Not Exist"}, apiErr.Messages)
	assert.Contains(t, err.Error(), "Issue Does Not Exist")
}

func TestClient_PlainErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer server.Close()

	c := NewClient(KindZapi, server.URL, "u", "p", WithHTTPClient(server.Client()))
	err := c.Delete(context.Background(), "/teststep/1/2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 500")
	assert.Contains(t, err.Error(), "boom")
}

func TestClient_EmptyBodyWithResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := NewClient(KindZapi, server.URL, "u", "p", WithHTTPClient(server.Client()))
	var out map[string]interface{}
	require.NoError(t, c.Put(context.Background(), "/execution/1/execute", map[string]int{"status": 1}, &out))
	assert.Nil(t, out)
}
