package currency

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrankfurter_FetchRates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest", r.URL.Path)
		assert.Equal(t, "EUR", r.URL.Query().Get("from"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"amount":1.0,"base":"EUR","date":"2025-06-02","rates":{"USD":1.1,"GBP":0.85}}`))
	}))
	defer server.Close()

	f := NewFrankfurter(server.URL+"/", 5*time.Second)
	rates, err := f.FetchRates(context.Background(), "EUR")
	require.NoError(t, err)

	assert.Equal(t, 1.1, rates["USD"])
	assert.Equal(t, 0.85, rates["GBP"])
	assert.Equal(t, 1.0, rates["EUR"], "base currency must be present at 1")
}

func TestFrankfurter_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewFrankfurter(server.URL, time.Second).FetchRates(context.Background(), "EUR")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestFrankfurter_BadBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := NewFrankfurter(server.URL, time.Second).FetchRates(context.Background(), "EUR")
	require.Error(t, err)
}
