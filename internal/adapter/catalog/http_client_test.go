package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nishantchy/ecom-microservice/internal/usecase"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitPrice_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/7", r.URL.Path)
		w.Write([]byte(`{"product": {"id": 7, "name": "widget", "price": 10.55}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	price, err := c.UnitPrice(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.RequireFromString("10.55")), "price = %s", price)
}

func TestUnitPrice_KeepsCatalogScale(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"product": {"price": 0.1}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	price, err := c.UnitPrice(context.Background(), 1)
	require.NoError(t, err)
	// 0.1 * 3 must not drift
	assert.True(t, price.Mul(decimal.NewFromInt(3)).Equal(decimal.RequireFromString("0.3")))
}

func TestUnitPrice_MalformedShapes(t *testing.T) {
	cases := map[string]string{
		"not json":        `not json`,
		"not an object":   `[1,2,3]`,
		"missing product": `{"item": {"price": 1}}`,
		"missing price":   `{"product": {"name": "widget"}}`,
		"string price":    `{"product": {"price": "abc"}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL, time.Second)
			_, err := c.UnitPrice(context.Background(), 9)
			var pe *usecase.PriceError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, int64(9), pe.ProductID)
		})
	}
}

func TestUnitPrice_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.UnitPrice(context.Background(), 7)
	var pe *usecase.PriceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, int64(7), pe.ProductID)
}

func TestUnitPrice_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 20*time.Millisecond)
	_, err := c.UnitPrice(context.Background(), 7)
	var pe *usecase.PriceError
	require.ErrorAs(t, err, &pe)
}
