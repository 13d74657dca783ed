package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/aprayoga/storefront/internal/config"
	commonErrors "github.com/aprayoga/storefront/internal/errors"
	"github.com/aprayoga/storefront/internal/log"
	inOtel "github.com/aprayoga/storefront/internal/otel"
	"github.com/aprayoga/storefront/internal/shipping/otel"
	"github.com/aprayoga/storefront/shipping/pkg/response"
)

// RateClient quotes shipping rates from the provider, one request per
// configured courier.
type RateClient struct {
	httpClient *http.Client
	baseUrl    string
	apiKey     string
	origin     string
	couriers   []string
}

func NewRateClient(cfg config.Shipping) RateClient {
	return RateClient{
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		baseUrl:  cfg.BaseUrl,
		apiKey:   cfg.ApiKey,
		origin:   cfg.Origin,
		couriers: cfg.Couriers,
	}
}

// FindRates collects rates across all configured couriers. A courier whose
// request fails is skipped so one provider outage does not empty the whole
// option list; the error surfaces only when no courier answered.
func (cl RateClient) FindRates(
	c context.Context,
	destination string,
	weight int32,
) ([]response.Rate, error) {
	c, span := otel.Tracer.Start(c, "RateClient FindRates")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "RateClient FindRates").
		Str(log.KeyDestination, destination).
		Int32(log.KeyTotalWeight, weight).
		Logger()

	rates := []response.Rate{}
	failed := 0
	for _, courier := range cl.couriers {
		lg := logger.With().Str(log.KeyCourier, courier).Logger()
		courierRates, err := cl.findCourierRates(c, courier, destination, weight)
		if err != nil {
			failed++
			err = fmt.Errorf("failed finding rates for courier=%s with error=%w", courier, err)
			inOtel.RecordError(err, span)
			lg.Error().Err(err).Msg(err.Error())
			continue
		}
		lg.Info().Msgf("found %d rates for courier=%s", len(courierRates), courier)
		rates = append(rates, courierRates...)
	}
	if failed == len(cl.couriers) {
		err := fmt.Errorf(
			"no courier answered with error=%w",
			commonErrors.ErrShippingUnavailable,
		)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	return rates, nil
}

// FindRate resolves a single selected service by normalized name match.
func (cl RateClient) FindRate(
	c context.Context,
	destination string,
	weight int32,
	service string,
) (response.Rate, error) {
	c, span := otel.Tracer.Start(c, "RateClient FindRate")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "RateClient FindRate").
		Str(log.KeyShippingService, service).
		Logger()

	rates, err := cl.FindRates(c, destination, weight)
	if err != nil {
		err = fmt.Errorf("failed finding rates with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Rate{}, err
	}

	want := NormalizeService(service)
	for _, rate := range rates {
		if NormalizeService(rate.Service) == want {
			return rate, nil
		}
	}
	err = fmt.Errorf(
		"service=%s not offered for destination with error=%w",
		service,
		commonErrors.ErrShippingUnavailable,
	)
	inOtel.RecordError(err, span)
	logger.Error().Err(err).Msg(err.Error())
	return response.Rate{}, err
}

func (cl RateClient) findCourierRates(
	c context.Context,
	courier string,
	destination string,
	weight int32,
) ([]response.Rate, error) {
	form := url.Values{}
	form.Set("origin", cl.origin)
	form.Set("destination", destination)
	form.Set("weight", strconv.FormatInt(int64(weight), 10))
	form.Set("courier", courier)

	req, err := http.NewRequestWithContext(
		c,
		http.MethodPost,
		cl.baseUrl+"/cost",
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed creating request with error=%w", err)
	}
	req.Header.Set("key", cl.apiKey)
	req.Header.Set("content-type", "application/x-www-form-urlencoded")

	resp, err := cl.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed requesting rates with error=%w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned statusCode=%d", resp.StatusCode)
	}

	envelope := response.CostEnvelope{}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed decoding response with error=%w", err)
	}
	return envelope.Flatten(), nil
}

// NormalizeService strips all whitespace and uppercases, so "JNE - REG",
// "jne-reg" and "JNE -REG" select the same service.
func NormalizeService(service string) string {
	return strings.ToUpper(strings.Join(strings.Fields(service), ""))
}
