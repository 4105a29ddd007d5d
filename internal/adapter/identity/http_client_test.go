package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nishantchy/ecom-microservice/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/verify-token", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "tok-123", body["token"])

		json.NewEncoder(w).Encode(map[string]any{
			"user_id":     42,
			"username":    "jdoe",
			"email":       "jane@example.com",
			"first_name":  "Jane",
			"last_name":   "Doe",
			"street":      "1 Main St",
			"city":        "Springfield",
			"postal_code": "00000",
			"country":     "USA",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	p, err := c.Verify(context.Background(), "tok-123")
	require.NoError(t, err)
	assert.Equal(t, "42", p.UserID)
	assert.Equal(t, "jane@example.com", p.Email)
	assert.Equal(t, "Jane Doe", p.DisplayName())
	assert.Equal(t, "Springfield", p.City)
}

func TestVerify_NonSuccessStatus(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusNotFound, http.StatusInternalServerError} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
		c := NewClient(srv.URL, time.Second)
		_, err := c.Verify(context.Background(), "tok")
		assert.ErrorIs(t, err, usecase.ErrUnauthenticated, "status %d", status)
		srv.Close()
	}
}

func TestVerify_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.Verify(context.Background(), "tok")
	assert.ErrorIs(t, err, usecase.ErrUnauthenticated)
}

func TestVerify_IncompletePrincipal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"username": "jdoe"}) // no id, no email
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.Verify(context.Background(), "tok")
	assert.ErrorIs(t, err, usecase.ErrUnauthenticated)
}

func TestVerify_AuthorityUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := NewClient(srv.URL, time.Second)
	_, err := c.Verify(context.Background(), "tok")
	assert.ErrorIs(t, err, usecase.ErrUnauthenticated)
}
