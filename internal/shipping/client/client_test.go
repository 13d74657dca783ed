package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aprayoga/storefront/internal/config"
	commonErrors "github.com/aprayoga/storefront/internal/errors"
)

func rateBody(courier string, services ...string) string {
	costs := ""
	for i, service := range services {
		if i > 0 {
			costs += ","
		}
		costs += fmt.Sprintf(
			`{"service":"%s","description":"","cost":[{"value":%d,"etd":"1-2","note":""}]}`,
			service,
			15000+i*1000,
		)
	}
	return fmt.Sprintf(
		`{"rajaongkir":{"status":{"code":200,"description":"OK"},"results":[{"code":"%s","name":"%s","costs":[%s]}]}}`,
		courier,
		courier,
		costs,
	)
}

func newTestClient(baseUrl string, couriers ...string) RateClient {
	return NewRateClient(config.Shipping{
		BaseUrl:        baseUrl,
		ApiKey:         "test-key",
		Origin:         "153",
		Couriers:       couriers,
		TimeoutSeconds: 5,
	})
}

func TestFindRatesFlattensNestedCosts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "153", r.FormValue("origin"))
		assert.Equal(t, "114", r.FormValue("destination"))
		assert.Equal(t, "400", r.FormValue("weight"))
		assert.Equal(t, "test-key", r.Header.Get("key"))
		fmt.Fprint(w, rateBody(r.FormValue("courier"), "REG", "YES"))
	}))
	defer server.Close()

	cl := newTestClient(server.URL, "jne")
	rates, err := cl.FindRates(context.Background(), "114", 400)
	require.NoError(t, err)

	require.Len(t, rates, 2)
	assert.Equal(t, "jne - REG", rates[0].Service)
	assert.Equal(t, int64(15000), rates[0].Cost)
	assert.Equal(t, "1-2", rates[0].Etd)
	assert.Equal(t, "jne - YES", rates[1].Service)
	assert.Equal(t, int64(16000), rates[1].Cost)
}

func TestFindRatesSkipsFailingCourier(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.FormValue("courier") == "pos" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, rateBody(r.FormValue("courier"), "REG"))
	}))
	defer server.Close()

	cl := newTestClient(server.URL, "jne", "pos", "tiki")
	rates, err := cl.FindRates(context.Background(), "114", 400)
	require.NoError(t, err)

	require.Len(t, rates, 2)
	assert.Equal(t, "jne - REG", rates[0].Service)
	assert.Equal(t, "tiki - REG", rates[1].Service)
}

func TestFindRatesAllCouriersFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	cl := newTestClient(server.URL, "jne", "pos")
	_, err := cl.FindRates(context.Background(), "114", 400)
	assert.True(t, errors.Is(err, commonErrors.ErrShippingUnavailable))
}

func TestFindRateMatchesNormalizedService(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		fmt.Fprint(w, rateBody("JNE", "REG", "YES"))
	}))
	defer server.Close()

	cl := newTestClient(server.URL, "jne")

	rate, err := cl.FindRate(context.Background(), "114", 400, "jne-reg")
	require.NoError(t, err)
	assert.Equal(t, "JNE - REG", rate.Service)
	assert.Equal(t, int64(15000), rate.Cost)

	_, err = cl.FindRate(context.Background(), "114", 400, "jne-oke")
	assert.True(t, errors.Is(err, commonErrors.ErrShippingUnavailable))
}

func TestNormalizeService(t *testing.T) {
	assert.Equal(t, "JNE-REG", NormalizeService("JNE - REG"))
	assert.Equal(t, "JNE-REG", NormalizeService("jne-reg"))
	assert.Equal(t, "JNE-REG", NormalizeService("  JNE -  REG  "))
	assert.Equal(t, NormalizeService("POS - Paket Kilat Khusus"), NormalizeService("pos-paketkilatkhusus"))
}
