package httpclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gaze-network/presale/pkg/middleware/walletauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientSignedRequest(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		body, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		signer, err := walletauth.Verify(
			r.Header.Get(walletauth.HeaderAddress),
			r.Header.Get(walletauth.HeaderMessage),
			r.Header.Get(walletauth.HeaderSignature),
			walletauth.Request{Method: r.Method, Path: r.URL.Path, Body: body},
			time.Now(), walletauth.DefaultMaxAge, walletauth.DefaultMaxSkew,
		)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error(), "code": "Unauthenticated"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"result": map[string]string{"account": signer.Hex(), "path": r.URL.Path, "simulate": r.URL.Query().Get("simulate")},
		})
	}))
	defer server.Close()

	t.Run("signed", func(t *testing.T) {
		client, err := New(server.URL, Config{Signer: key})
		require.NoError(t, err)

		resp, err := client.Get(context.Background(), "/presale/v1/status", RequestOptions{Query: map[string][]string{"simulate": {"50"}}})
		require.NoError(t, err)

		var result struct {
			Account  string `json:"account"`
			Path     string `json:"path"`
			Simulate string `json:"simulate"`
		}
		require.NoError(t, resp.Result(&result))
		assert.Equal(t, client.Address().Hex(), result.Account)
		assert.Equal(t, "/presale/v1/status", result.Path)
		assert.Equal(t, "50", result.Simulate)
	})

	t.Run("signed_with_body", func(t *testing.T) {
		client, err := New(server.URL, Config{Signer: key})
		require.NoError(t, err)

		resp, err := client.Post(context.Background(), "/presale/v1/buy", RequestOptions{Body: []byte(`{"amount":"100"}`)})
		require.NoError(t, err)

		var result struct {
			Account string `json:"account"`
			Path    string `json:"path"`
		}
		require.NoError(t, resp.Result(&result))
		assert.Equal(t, client.Address().Hex(), result.Account)
		assert.Equal(t, "/presale/v1/buy", result.Path)
	})

	t.Run("unsigned", func(t *testing.T) {
		client, err := New(server.URL)
		require.NoError(t, err)

		resp, err := client.Post(context.Background(), "/presale/v1/claim", RequestOptions{Body: []byte(`{}`)})
		require.NoError(t, err)

		err = resp.Result(&struct{}{})
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
		assert.Equal(t, "Unauthenticated", apiErr.Code)
	})
}
