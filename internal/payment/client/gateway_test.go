package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aprayoga/storefront/internal/config"
	commonErrors "github.com/aprayoga/storefront/internal/errors"
	"github.com/aprayoga/storefront/payment/pkg/request"
)

func newTestGateway(baseUrl string) Gateway {
	return NewGateway(config.Payment{
		BaseUrl:        baseUrl,
		ServerKey:      "server-key",
		ExpiryUnit:     "day",
		ExpiryDuration: 7,
		TimeoutSeconds: 5,
	})
}

func TestCreateTransaction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/snap/v1/transactions", r.URL.Path)
		username, password, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "server-key", username)
		assert.Empty(t, password)

		reqBody := request.CreateTransaction{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, "ORD/20260828/ABCDE", reqBody.TransactionDetails.OrderID)
		assert.Equal(t, int64(64500), reqBody.TransactionDetails.GrossAmount)
		assert.Equal(t, "day", reqBody.Expiry.Unit)
		assert.Equal(t, 7, reqBody.Expiry.Duration)

		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"token":"snap-token","redirect_url":"https://pay.example/snap-token"}`)
	}))
	defer server.Close()

	gateway := newTestGateway(server.URL)
	transaction, err := gateway.CreateTransaction(context.Background(), request.CreateTransaction{
		TransactionDetails: request.TransactionDetails{
			OrderID:     "ORD/20260828/ABCDE",
			GrossAmount: 64500,
		},
		CustomerDetails: request.CustomerDetails{
			FirstName: "Andi",
			Email:     "andi@example.com",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "snap-token", transaction.Token)
	assert.Equal(t, "https://pay.example/snap-token", transaction.RedirectUrl)
}

func TestCreateTransactionGatewayRejects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error_messages":["Access denied due to unauthorized transaction"]}`)
	}))
	defer server.Close()

	gateway := newTestGateway(server.URL)
	_, err := gateway.CreateTransaction(context.Background(), request.CreateTransaction{
		TransactionDetails: request.TransactionDetails{OrderID: "ORD/20260828/ABCDE"},
	})
	assert.True(t, errors.Is(err, commonErrors.ErrPaymentGateway))
	assert.Contains(t, err.Error(), "Access denied")
}

func TestCreateTransactionGatewayDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	gateway := newTestGateway(server.URL)
	_, err := gateway.CreateTransaction(context.Background(), request.CreateTransaction{
		TransactionDetails: request.TransactionDetails{OrderID: "ORD/20260828/ABCDE"},
	})
	assert.True(t, errors.Is(err, commonErrors.ErrPaymentGateway))
}
