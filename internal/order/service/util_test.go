package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	testRedis "github.com/testcontainers/testcontainers-go/modules/redis"

	cartService "github.com/aprayoga/storefront/internal/cart/service"
	"github.com/aprayoga/storefront/internal/config"
	paymentClient "github.com/aprayoga/storefront/internal/payment/client"
	"github.com/aprayoga/storefront/internal/repository"
	shippingClient "github.com/aprayoga/storefront/internal/shipping/client"
	orderRequest "github.com/aprayoga/storefront/order/pkg/request"
	paymentRequest "github.com/aprayoga/storefront/payment/pkg/request"
)

type testEnv struct {
	cache   *redis.Client
	pool    *pgxpool.Pool
	queries *repository.Queries
	carts   cartService.CartService
	service OrderService
}

// newShippingServer quotes a fixed REG service per requested courier at the
// given cost.
func newShippingServer(t *testing.T, cost int64) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		courier := r.FormValue("courier")
		fmt.Fprintf(
			w,
			`{"rajaongkir":{"status":{"code":200,"description":"OK"},"results":[{"code":"%s","name":"%s","costs":[{"service":"REG","description":"","cost":[{"value":%d,"etd":"1-2","note":""}]}]}]}}`,
			courier,
			courier,
			cost,
		)
	}))
	t.Cleanup(server.Close)
	return server
}

// newRecordingPaymentServer accepts every transaction and records the last
// gross_amount the gateway was asked to charge.
func newRecordingPaymentServer(t *testing.T) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	gross := &atomic.Int64{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		param := paymentRequest.CreateTransaction{}
		if err := json.NewDecoder(r.Body).Decode(&param); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		gross.Store(param.TransactionDetails.GrossAmount)
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"token":"snap-token","redirect_url":"https://pay.example/snap-token"}`)
	}))
	t.Cleanup(server.Close)
	return server, gross
}

func newPaymentServer(t *testing.T, statusCode int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(statusCode)
		if statusCode >= http.StatusBadRequest {
			fmt.Fprint(w, `{"error_messages":["transaction rejected"]}`)
			return
		}
		fmt.Fprint(w, `{"token":"snap-token","redirect_url":"https://pay.example/snap-token"}`)
	}))
	t.Cleanup(server.Close)
	return server
}

func setupTestEnv(t *testing.T, c context.Context, shippingUrl, paymentUrl string) testEnv {
	t.Helper()

	pgContainer, err := postgres.Run(
		c,
		"postgres:16.6-alpine3.21",
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		postgres.WithDatabase("postgres"),
		postgres.BasicWaitStrategies(),
		postgres.WithInitScripts(
			filepath.Join("..", "..", "..", "migrations", "20250114093211_create_table_products.up.sql"),
			filepath.Join("..", "..", "..", "migrations", "20250121141530_create_table_orders.up.sql"),
			filepath.Join("..", "..", "..", "migrations", "20250122104815_create_table_shipments.up.sql"),
		),
	)
	if err != nil {
		t.Fatalf("failed running postgres container with error: %s", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(pgContainer); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	})

	pgConnStr, err := pgContainer.ConnectionString(c, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed getting postgres connection string with error: %s", err)
	}
	pool, err := pgxpool.New(c, pgConnStr)
	if err != nil {
		t.Fatalf("failed creating postgres pool with error: %s", err)
	}
	t.Cleanup(pool.Close)
	if err := pool.Ping(c); err != nil {
		t.Fatalf("failed ping postgres pool with error: %s", err)
	}

	redisContainer, err := testRedis.Run(c, "redis/redis-stack-server:7.4.0-v3")
	if err != nil {
		t.Fatalf("failed running redis container with error: %s", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(redisContainer); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	})

	redisConnStr, err := redisContainer.ConnectionString(c)
	if err != nil {
		t.Fatalf("failed getting redis connection string with error: %s", err)
	}
	redisOpt, err := redis.ParseURL(redisConnStr)
	if err != nil {
		t.Fatalf("failed parsing redis connection string with error: %s", err)
	}
	cache := redis.NewClient(redisOpt)
	t.Cleanup(func() { cache.Close() })
	if err := cache.Ping(c).Err(); err != nil {
		t.Fatalf("failed ping redis client with error: %s", err)
	}

	queries := repository.New(pool)
	carts := cartService.NewCartService(cache, queries, "10")
	rates := shippingClient.NewRateClient(config.Shipping{
		BaseUrl:        shippingUrl,
		ApiKey:         "test-key",
		Origin:         "153",
		Couriers:       []string{"jne", "pos", "tiki"},
		TimeoutSeconds: 5,
	})
	gateway := paymentClient.NewGateway(config.Payment{
		BaseUrl:        paymentUrl,
		ServerKey:      "server-key",
		ExpiryUnit:     "day",
		ExpiryDuration: 7,
		TimeoutSeconds: 5,
	})
	return testEnv{
		cache:   cache,
		pool:    pool,
		queries: queries,
		carts:   carts,
		service: NewOrderService(pool, queries, cache, carts, rates, gateway),
	}
}

func seedProduct(
	t *testing.T,
	c context.Context,
	env testEnv,
	sku string,
	price int64,
	weight int32,
	quantity int32,
) repository.Product {
	t.Helper()
	return seedTypedProduct(t, c, env, sku, "simple", price, weight, quantity)
}

func seedTypedProduct(
	t *testing.T,
	c context.Context,
	env testEnv,
	sku string,
	productType string,
	price int64,
	weight int32,
	quantity int32,
) repository.Product {
	t.Helper()

	product, err := env.queries.InsertProduct(c, repository.InsertProductParams{
		Sku:    sku,
		Type:   productType,
		Name:   "Product " + sku,
		Slug:   "product-" + sku,
		Price:  repository.NumericFromDecimal(decimal.NewFromInt(price)),
		Weight: weight,
	})
	if err != nil {
		t.Fatalf("failed seeding product with error: %s", err)
	}
	_, err = env.queries.InsertProductInventory(c, repository.InsertProductInventoryParams{
		ProductID: product.ID,
		Quantity:  quantity,
	})
	if err != nil {
		t.Fatalf("failed seeding inventory with error: %s", err)
	}
	return product
}

func checkoutParam() orderRequest.Checkout {
	return orderRequest.Checkout{
		FirstName:       "Andi",
		LastName:        "Wijaya",
		Address1:        "Jl. Sudirman 1",
		Phone:           "+628123456789",
		Email:           "andi@example.com",
		CityID:          "114",
		ProvinceID:      "9",
		Postcode:        "40115",
		ShippingCourier: "jne",
		ShippingService: "jne-reg",
		Note:            "leave at the door",
	}
}

func countOrders(t *testing.T, c context.Context, env testEnv) int {
	t.Helper()
	var count int
	if err := env.pool.QueryRow(c, "SELECT count(*) FROM orders").Scan(&count); err != nil {
		t.Fatalf("failed counting orders with error: %s", err)
	}
	return count
}

func remainingStock(
	t *testing.T,
	c context.Context,
	env testEnv,
	product repository.Product,
) int32 {
	t.Helper()
	inventory, err := env.queries.FindInventoryByProductId(c, product.ID)
	if err != nil {
		t.Fatalf("failed finding inventory with error: %s", err)
	}
	return inventory.Quantity
}
