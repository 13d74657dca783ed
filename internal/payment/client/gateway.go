package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/aprayoga/storefront/internal/config"
	commonErrors "github.com/aprayoga/storefront/internal/errors"
	"github.com/aprayoga/storefront/internal/log"
	inOtel "github.com/aprayoga/storefront/internal/otel"
	"github.com/aprayoga/storefront/internal/payment/otel"
	"github.com/aprayoga/storefront/payment/pkg/request"
	"github.com/aprayoga/storefront/payment/pkg/response"
)

// Gateway creates payment transactions at the provider. The server key
// authenticates via basic auth with an empty password.
type Gateway struct {
	httpClient *http.Client
	baseUrl    string
	serverKey  string
	expiry     request.Expiry
}

func NewGateway(cfg config.Payment) Gateway {
	return Gateway{
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		baseUrl:   cfg.BaseUrl,
		serverKey: cfg.ServerKey,
		expiry:    request.Expiry{Unit: cfg.ExpiryUnit, Duration: cfg.ExpiryDuration},
	}
}

// CreateTransaction registers the order with the gateway and returns the
// payment token and redirect url. The order code is the transaction
// reference, so retrying a failed checkout never double-charges an order.
func (g Gateway) CreateTransaction(
	c context.Context,
	param request.CreateTransaction,
) (response.Transaction, error) {
	c, span := otel.Tracer.Start(c, "Gateway CreateTransaction")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Gateway CreateTransaction").
		Str(log.KeyOrderCode, param.TransactionDetails.OrderID).
		Logger()

	param.Expiry = g.expiry

	logger = logger.With().Str(log.KeyProcess, "creating transaction").Logger()
	logger.Info().Msg("creating transaction")
	body := bytes.Buffer{}
	if err := json.NewEncoder(&body).Encode(param); err != nil {
		err = fmt.Errorf("failed encoding request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Transaction{}, err
	}

	req, err := http.NewRequestWithContext(
		c,
		http.MethodPost,
		g.baseUrl+"/snap/v1/transactions",
		&body,
	)
	if err != nil {
		err = fmt.Errorf("failed creating request with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Transaction{}, err
	}
	req.SetBasicAuth(g.serverKey, "")
	req.Header.Set("content-type", "application/json")
	req.Header.Set("accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf(
			"failed requesting transaction: %s with error=%w",
			err,
			commonErrors.ErrPaymentGateway,
		)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Transaction{}, err
	}
	defer resp.Body.Close()

	transaction := response.Transaction{}
	if err := json.NewDecoder(resp.Body).Decode(&transaction); err != nil {
		err = fmt.Errorf("failed decoding response with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Transaction{}, err
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		err = fmt.Errorf(
			"gateway returned statusCode=%d messages=%s with error=%w",
			resp.StatusCode,
			strings.Join(transaction.Errors, "; "),
			commonErrors.ErrPaymentGateway,
		)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Transaction{}, err
	}

	logger = logger.With().Str(log.KeyPaymentToken, transaction.Token).Logger()
	logger.Info().Msg("created transaction")
	return transaction, nil
}
