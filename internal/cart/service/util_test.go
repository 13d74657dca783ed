package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	testRedis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/aprayoga/storefront/internal/repository"
	productRequest "github.com/aprayoga/storefront/product/pkg/request"
)

type testEnv struct {
	cache   *redis.Client
	pool    *pgxpool.Pool
	queries *repository.Queries
	service CartService
}

func setupTestEnv(t *testing.T, c context.Context) testEnv {
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
	return testEnv{
		cache:   cache,
		pool:    pool,
		queries: queries,
		service: NewCartService(cache, queries, "10"),
	}
}

func seedProduct(
	t *testing.T,
	c context.Context,
	env testEnv,
	param productRequest.InsertProduct,
) repository.Product {
	t.Helper()

	product, err := env.queries.InsertProduct(c, repository.InsertProductParams{
		Sku:    param.Sku,
		Type:   param.Type,
		Name:   param.Name,
		Slug:   param.Slug,
		Price:  repository.NumericFromDecimal(param.Price),
		Weight: param.Weight,
	})
	if err != nil {
		t.Fatalf("failed seeding product with error: %s", err)
	}
	_, err = env.queries.InsertProductInventory(c, repository.InsertProductInventoryParams{
		ProductID: product.ID,
		Quantity:  param.Quantity,
	})
	if err != nil {
		t.Fatalf("failed seeding inventory with error: %s", err)
	}
	return product
}

func sweaterParam() productRequest.InsertProduct {
	return productRequest.InsertProduct{
		Sku:      "SWT-001",
		Type:     "simple",
		Name:     "Wool Sweater",
		Slug:     "wool-sweater",
		Price:    decimal.NewFromInt(150000),
		Weight:   400,
		Quantity: 10,
	}
}
