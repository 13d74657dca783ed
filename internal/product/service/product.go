package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/aprayoga/storefront/internal/common"
	commonErrors "github.com/aprayoga/storefront/internal/errors"
	"github.com/aprayoga/storefront/internal/log"
	inOtel "github.com/aprayoga/storefront/internal/otel"
	"github.com/aprayoga/storefront/internal/product/otel"
	"github.com/aprayoga/storefront/internal/repository"
	"github.com/aprayoga/storefront/product/pkg/request"
	"github.com/aprayoga/storefront/product/pkg/response"
)

type ProductService struct {
	pool    *pgxpool.Pool
	queries *repository.Queries
	cache   *redis.Client
}

func NewProductService(
	pool *pgxpool.Pool,
	queries *repository.Queries,
	cache *redis.Client,
) ProductService {
	return ProductService{pool: pool, queries: queries, cache: cache}
}

// InsertProduct creates the product and its inventory row in one
// transaction, then primes the cache.
func (svc ProductService) InsertProduct(
	c context.Context,
	param request.InsertProduct,
) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService InsertProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService InsertProduct").
		Str(log.KeyProduct, param.Name).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "checking slug").Logger()
	logger.Info().Msg("checking slug")
	_, err := svc.queries.FindProductBySlug(c, param.Slug)
	if err == nil {
		err = fmt.Errorf("slug=%s with error=%w", param.Slug, commonErrors.ErrProductExists)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		err = fmt.Errorf("failed checking slug with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	logger.Info().Msg("checked slug")

	logger = logger.With().Str(log.KeyProcess, "initializing transaction").Logger()
	logger.Info().Msg("initializing transaction")
	tx, err := svc.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		err = fmt.Errorf("failed initializing transaction with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	logger.Info().Msg("initialized transaction")
	defer func(lg zerolog.Logger) {
		l := lg.With().Str(log.KeyProcess, "rolling back transaction").Logger()
		rollbackErr := tx.Rollback(c)
		if rollbackErr != nil {
			if errors.Is(rollbackErr, pgx.ErrTxClosed) {
				return
			}
			rollbackErr = fmt.Errorf("failed rolling back transaction with error=%w", rollbackErr)
			inOtel.RecordError(rollbackErr, span)
			l.Error().Err(rollbackErr).Msg(rollbackErr.Error())
			return
		}
		l.Info().Msg("rolled back transaction")
	}(logger)
	queries := svc.queries.WithTx(tx)

	logger = logger.With().Str(log.KeyProcess, "inserting product").Logger()
	logger.Info().Msg("inserting product")
	product, err := queries.InsertProduct(c, repository.InsertProductParams{
		Sku:    param.Sku,
		Type:   param.Type,
		Name:   param.Name,
		Slug:   strings.ToLower(param.Slug),
		Price:  repository.NumericFromDecimal(param.Price),
		Weight: param.Weight,
	})
	if err != nil {
		err = fmt.Errorf("failed inserting product with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	logger = logger.With().Str(log.KeyProductID, product.ID.String()).Logger()
	logger.Info().Msg("inserted product")

	logger = logger.With().Str(log.KeyProcess, "inserting inventory").Logger()
	logger.Info().Msg("inserting inventory")
	inventory, err := queries.InsertProductInventory(c, repository.InsertProductInventoryParams{
		ProductID: product.ID,
		Quantity:  param.Quantity,
	})
	if err != nil {
		err = fmt.Errorf("failed inserting inventory with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	logger.Info().Msg("inserted inventory")

	logger = logger.With().Str(log.KeyProcess, "committing transaction").Logger()
	logger.Info().Msg("committing transaction")
	if err := tx.Commit(c); err != nil {
		err = fmt.Errorf("failed committing transaction with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	logger.Info().Msg("committed transaction")

	productResponse := response.FromRow(repository.FindProductsRow{
		ID:        product.ID,
		Sku:       product.Sku,
		Type:      product.Type,
		Name:      product.Name,
		Slug:      product.Slug,
		Price:     product.Price,
		Weight:    product.Weight,
		CreatedAt: product.CreatedAt,
		UpdatedAt: product.UpdatedAt,
		Quantity:  inventory.Quantity,
	})

	logger = logger.With().Str(log.KeyProcess, "inserting product to cache").Logger()
	cacheKey := fmt.Sprintf(common.KeyProducts, product.ID.String())
	logger.Info().Str(log.KeyCacheKey, cacheKey).Msg("inserting product to cache")
	if err := svc.cache.JSONSet(c, cacheKey, "$", productResponse).Err(); err != nil {
		err = fmt.Errorf("failed inserting product to cache with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	} else {
		logger.Info().Msg("inserted product to cache")
	}
	return productResponse, nil
}

func (svc ProductService) FindProducts(c context.Context) ([]response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService FindProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService FindProducts").
		Str(log.KeyProcess, "finding products").
		Logger()

	logger.Info().Msg("finding products")
	rows, err := svc.queries.FindProducts(c)
	if err != nil {
		err = fmt.Errorf("failed finding products with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msgf("found %d products", len(rows))

	products := make([]response.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, response.FromRow(row))
	}
	return products, nil
}

// FindProductById serves from the cache first and falls back to the
// database, repriming the cache on the way out.
func (svc ProductService) FindProductById(
	c context.Context,
	id uuid.UUID,
) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService FindProductById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService FindProductById").
		Str(log.KeyProductID, id.String()).
		Logger()

	cacheKey := fmt.Sprintf(common.KeyProducts, id.String())
	logger = logger.With().
		Str(log.KeyProcess, "finding product in cache").
		Str(log.KeyCacheKey, cacheKey).
		Logger()
	jsonCache, err := svc.cache.JSONGet(c, cacheKey).Result()
	if err == nil && strings.TrimSpace(jsonCache) != "" {
		product := response.Product{}
		if err := json.Unmarshal([]byte(jsonCache), &product); err == nil {
			logger.Info().Msg("found product in cache")
			return product, nil
		}
	}

	logger = logger.With().Str(log.KeyProcess, "finding product in database").Logger()
	logger.Info().Msg("finding product in database")
	row, err := svc.queries.FindProductById(c, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = commonErrors.ErrProductNotFound
		}
		err = fmt.Errorf("failed finding productId=%s with error=%w", id, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	logger.Info().Msg("found product in database")

	product := response.FromRow(row)
	logger = logger.With().Str(log.KeyProcess, "inserting product to cache").Logger()
	if err := svc.cache.JSONSet(c, cacheKey, "$", product).Err(); err != nil {
		err = fmt.Errorf("failed inserting product to cache with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	}
	return product, nil
}

func (svc ProductService) FindProductBySlug(
	c context.Context,
	slug string,
) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService FindProductBySlug")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService FindProductBySlug").
		Str(log.KeyProcess, "finding product by slug").
		Logger()

	logger.Info().Msgf("finding product by slug=%s", slug)
	row, err := svc.queries.FindProductBySlug(c, strings.ToLower(slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = commonErrors.ErrProductNotFound
		}
		err = fmt.Errorf("failed finding slug=%s with error=%w", slug, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	logger.Info().Msg("found product by slug")
	return response.FromRow(row), nil
}
