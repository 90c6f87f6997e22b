package sheetapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func requireFetchError(t *testing.T, err error, reason string) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFetchProducts)

	var fe *domain.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, reason, fe.Reason)
}

func TestFetchProducts(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		srv := serve(t, http.StatusOK, `{"Producto":[
			{"ID_Producto":"1","nombre":"Arepa","precio":"50"},
			{"ID_Producto":2,"nombre":"Batida","precio":80.5,"enOferta":true}
		]}`)

		raws, err := New(srv.URL).FetchProducts(t.Context())
		require.NoError(t, err)
		require.Len(t, raws, 2)
		assert.Equal(t, "Arepa", raws[0]["nombre"])
		assert.Equal(t, json.Number("80.5"), raws[1]["precio"])
		assert.Equal(t, true, raws[1]["enOferta"])
	})

	t.Run("LargeNumericID", func(t *testing.T) {
		srv := serve(t, http.StatusOK, `{"Producto":[{"ID_Producto":12345678901234567,"nombre":"Big"}]}`)

		raws, err := New(srv.URL).FetchProducts(t.Context())
		require.NoError(t, err)
		require.Len(t, raws, 1)
		assert.Equal(t, json.Number("12345678901234567"), raws[0]["ID_Producto"])
	})

	t.Run("EmptyArray", func(t *testing.T) {
		srv := serve(t, http.StatusOK, `{"Producto":[]}`)
		raws, err := New(srv.URL).FetchProducts(t.Context())
		require.NoError(t, err)
		assert.Empty(t, raws)
	})

	t.Run("ServerError", func(t *testing.T) {
		srv := serve(t, http.StatusInternalServerError, `oops`)
		_, err := New(srv.URL).FetchProducts(t.Context())
		requireFetchError(t, err, "HTTP 500")
	})

	t.Run("MissingKey", func(t *testing.T) {
		srv := serve(t, http.StatusOK, `{"Products":[]}`)
		_, err := New(srv.URL).FetchProducts(t.Context())
		requireFetchError(t, err, "invalid data format")
		assert.ErrorIs(t, err, domain.ErrInvalidPayload)
	})

	t.Run("NotAnArray", func(t *testing.T) {
		srv := serve(t, http.StatusOK, `{"Producto":{"a":1}}`)
		_, err := New(srv.URL).FetchProducts(t.Context())
		requireFetchError(t, err, "invalid data format")
	})

	t.Run("NullArray", func(t *testing.T) {
		srv := serve(t, http.StatusOK, `{"Producto":null}`)
		_, err := New(srv.URL).FetchProducts(t.Context())
		requireFetchError(t, err, "invalid data format")
	})

	t.Run("NotJSON", func(t *testing.T) {
		srv := serve(t, http.StatusOK, `<html>`)
		_, err := New(srv.URL).FetchProducts(t.Context())
		requireFetchError(t, err, "invalid data format")
	})

	t.Run("Timeout", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		t.Cleanup(srv.Close)
		t.Cleanup(func() { close(release) })

		_, err := New(srv.URL, TimeoutOpt(50*time.Millisecond)).FetchProducts(t.Context())
		requireFetchError(t, err, "request timeout")
		assert.ErrorIs(t, err, domain.ErrFetchTimeout)
	})

	t.Run("NetworkError", func(t *testing.T) {
		srv := serve(t, http.StatusOK, `{}`)
		url := srv.URL
		srv.Close()

		_, err := New(url).FetchProducts(t.Context())
		requireFetchError(t, err, "network error")
	})
}
