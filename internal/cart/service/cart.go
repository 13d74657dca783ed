package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/aprayoga/storefront/cart/pkg/request"
	"github.com/aprayoga/storefront/cart/pkg/response"
	"github.com/aprayoga/storefront/internal/cart/otel"
	"github.com/aprayoga/storefront/internal/common"
	commonErrors "github.com/aprayoga/storefront/internal/errors"
	"github.com/aprayoga/storefront/internal/log"
	inOtel "github.com/aprayoga/storefront/internal/otel"
	"github.com/aprayoga/storefront/internal/pricing"
	"github.com/aprayoga/storefront/internal/repository"
)

type CartService struct {
	cache      *redis.Client
	queries    *repository.Queries
	taxPercent string
}

func NewCartService(
	cache *redis.Client,
	queries *repository.Queries,
	taxPercent string,
) CartService {
	return CartService{cache: cache, queries: queries, taxPercent: taxPercent}
}

// Content returns the cart with the configured tax condition reapplied and
// totals recomputed. Tax is removed by kind and re-added on every read so a
// configuration change takes effect on carts that already exist.
func (svc CartService) Content(c context.Context, sessionKey string) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService Content")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService Content").
		Str(log.KeySessionKey, sessionKey).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding cart in cache").Logger()
	cart, err := svc.findCart(c, sessionKey)
	if err != nil {
		err = fmt.Errorf("failed finding cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "reapplying tax condition").Logger()
	cart.Conditions = pricing.RemoveByKind(cart.Conditions, pricing.KindTax)
	if svc.taxPercent != "" && svc.taxPercent != "0" {
		cart.Conditions = append(cart.Conditions, pricing.Condition{
			Name:   "TAX",
			Kind:   pricing.KindTax,
			Target: pricing.TargetSubtotal,
			Value:  svc.taxPercent + "%",
		})
	}
	cart.ComputeTotals()

	logger = logger.With().Str(log.KeyProcess, "saving cart to cache").Logger()
	if err := svc.saveCart(c, cart); err != nil {
		err = fmt.Errorf("failed saving cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("returning cart content")
	return cart, nil
}

// AddItem puts a product into the cart. The line id is derived from the
// product and its variant options, so an existing line with the same options
// gains quantity instead of duplicating. The requested quantity is checked
// against inventory cumulatively, together with what is already in the cart.
func (svc CartService) AddItem(
	c context.Context,
	sessionKey string,
	param request.InsertCartItem,
) (response.Item, error) {
	c, span := otel.Tracer.Start(c, "CartService AddItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService AddItem").
		Str(log.KeySessionKey, sessionKey).
		Str(log.KeyProductID, param.ProductID.String()).
		Int32(log.KeyQuantity, param.Quantity).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding product").Logger()
	logger.Info().Msg("finding product")
	product, err := svc.queries.FindProductById(c, param.ProductID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = commonErrors.ErrProductNotFound
		}
		err = fmt.Errorf("failed finding productId=%s with error=%w", param.ProductID, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Item{}, err
	}
	logger.Info().Msg("found product")

	logger = logger.With().Str(log.KeyProcess, "finding cart in cache").Logger()
	cart, err := svc.findCart(c, sessionKey)
	if err != nil {
		err = fmt.Errorf("failed finding cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Item{}, err
	}

	attrs := response.Attributes{Size: param.Attributes.Size, Color: param.Attributes.Color}
	itemID := response.ItemID(param.ProductID, attrs)
	logger = logger.With().Str(log.KeyCartItemID, itemID).Logger()

	logger = logger.With().Str(log.KeyProcess, "checking inventory").Logger()
	logger.Info().Msg("checking inventory")
	requested := param.Quantity
	if existing, ok := cart.Items[itemID]; ok {
		requested += existing.Quantity
	}
	if requested > product.Quantity {
		err = fmt.Errorf(
			"requested quantity=%d exceeds stock=%d with error=%w",
			requested,
			product.Quantity,
			commonErrors.ErrOutOfStock,
		)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Item{}, err
	}
	logger.Info().Msg("checked inventory")

	item := response.Item{
		ID:         itemID,
		ProductID:  product.ID,
		Sku:        product.Sku,
		Type:       product.Type,
		Name:       product.Name,
		Price:      repository.DecimalFromNumeric(product.Price),
		Quantity:   requested,
		Weight:     product.Weight,
		Attributes: attrs,
	}
	cart.Items[itemID] = item
	cart.ComputeTotals()

	logger = logger.With().Str(log.KeyProcess, "saving cart to cache").Logger()
	logger.Info().Msg("saving cart to cache")
	if err := svc.saveCart(c, cart); err != nil {
		err = fmt.Errorf("failed saving cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Item{}, err
	}
	logger.Info().Msg("saved cart to cache")
	return item, nil
}

// UpdateItem sets the quantity of an existing line to an absolute value.
func (svc CartService) UpdateItem(
	c context.Context,
	sessionKey string,
	itemID string,
	quantity int32,
) (response.Item, error) {
	c, span := otel.Tracer.Start(c, "CartService UpdateItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService UpdateItem").
		Str(log.KeySessionKey, sessionKey).
		Str(log.KeyCartItemID, itemID).
		Int32(log.KeyQuantity, quantity).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding cart in cache").Logger()
	cart, err := svc.findCart(c, sessionKey)
	if err != nil {
		err = fmt.Errorf("failed finding cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Item{}, err
	}

	item, ok := cart.Items[itemID]
	if !ok {
		err = fmt.Errorf("cartItemId=%s with error=%w", itemID, commonErrors.ErrCartItemNotFound)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Item{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "checking inventory").Logger()
	logger.Info().Msg("checking inventory")
	product, err := svc.queries.FindProductById(c, item.ProductID)
	if err != nil {
		err = fmt.Errorf("failed finding productId=%s with error=%w", item.ProductID, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Item{}, err
	}
	if quantity > product.Quantity {
		err = fmt.Errorf(
			"requested quantity=%d exceeds stock=%d with error=%w",
			quantity,
			product.Quantity,
			commonErrors.ErrOutOfStock,
		)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Item{}, err
	}

	item.Quantity = quantity
	cart.Items[itemID] = item
	cart.ComputeTotals()

	logger = logger.With().Str(log.KeyProcess, "saving cart to cache").Logger()
	if err := svc.saveCart(c, cart); err != nil {
		err = fmt.Errorf("failed saving cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Item{}, err
	}
	logger.Info().Msg("updated cart item")
	return item, nil
}

func (svc CartService) RemoveItem(c context.Context, sessionKey string, itemID string) error {
	c, span := otel.Tracer.Start(c, "CartService RemoveItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService RemoveItem").
		Str(log.KeySessionKey, sessionKey).
		Str(log.KeyCartItemID, itemID).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding cart in cache").Logger()
	cart, err := svc.findCart(c, sessionKey)
	if err != nil {
		err = fmt.Errorf("failed finding cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	if _, ok := cart.Items[itemID]; !ok {
		err = fmt.Errorf("cartItemId=%s with error=%w", itemID, commonErrors.ErrCartItemNotFound)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	delete(cart.Items, itemID)
	cart.ComputeTotals()

	logger = logger.With().Str(log.KeyProcess, "saving cart to cache").Logger()
	if err := svc.saveCart(c, cart); err != nil {
		err = fmt.Errorf("failed saving cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("removed cart item")
	return nil
}

// Clear drops the whole cart document.
func (svc CartService) Clear(c context.Context, sessionKey string) error {
	c, span := otel.Tracer.Start(c, "CartService Clear")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService Clear").
		Str(log.KeySessionKey, sessionKey).
		Str(log.KeyProcess, "deleting cart from cache").
		Logger()

	cacheKey := fmt.Sprintf(common.KeyCarts, sessionKey)
	logger.Info().Str(log.KeyCacheKey, cacheKey).Msg("deleting cart from cache")
	err := svc.cache.JSONDel(c, cacheKey, "$").Err()
	if err != nil {
		err = fmt.Errorf("failed deleting cart from cache with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("deleted cart from cache")
	return nil
}

// ApplyCondition replaces any condition of the same kind, so at most one tax,
// one shipping and one discount condition is active at a time.
func (svc CartService) ApplyCondition(
	c context.Context,
	sessionKey string,
	cond pricing.Condition,
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService ApplyCondition")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService ApplyCondition").
		Str(log.KeySessionKey, sessionKey).
		Str(log.KeyProcess, "applying condition").
		Logger()

	cart, err := svc.findCart(c, sessionKey)
	if err != nil {
		err = fmt.Errorf("failed finding cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}

	cart.Conditions = pricing.RemoveByKind(cart.Conditions, cond.Kind)
	cart.Conditions = append(cart.Conditions, cond)
	cart.ComputeTotals()

	if err := svc.saveCart(c, cart); err != nil {
		err = fmt.Errorf("failed saving cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msgf("applied condition name=%s kind=%s", cond.Name, cond.Kind)
	return cart, nil
}

func (svc CartService) RemoveConditionsByKind(
	c context.Context,
	sessionKey string,
	kind pricing.ConditionKind,
) error {
	c, span := otel.Tracer.Start(c, "CartService RemoveConditionsByKind")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService RemoveConditionsByKind").
		Str(log.KeySessionKey, sessionKey).
		Str(log.KeyProcess, "removing conditions").
		Logger()

	cart, err := svc.findCart(c, sessionKey)
	if err != nil {
		err = fmt.Errorf("failed finding cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	cart.Conditions = pricing.RemoveByKind(cart.Conditions, kind)
	cart.ComputeTotals()

	if err := svc.saveCart(c, cart); err != nil {
		err = fmt.Errorf("failed saving cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msgf("removed conditions of kind=%s", kind)
	return nil
}

func (svc CartService) findCart(c context.Context, sessionKey string) (response.Cart, error) {
	cacheKey := fmt.Sprintf(common.KeyCarts, sessionKey)
	jsonCache, err := svc.cache.JSONGet(c, cacheKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return response.Cart{}, fmt.Errorf("failed getting cacheKey=%s with error=%w", cacheKey, err)
	}
	if strings.TrimSpace(jsonCache) == "" {
		return response.NewCart(sessionKey), nil
	}
	cart := response.Cart{}
	if err := json.Unmarshal([]byte(jsonCache), &cart); err != nil {
		return response.Cart{}, fmt.Errorf("failed unmarshaling cacheKey=%s with error=%w", cacheKey, err)
	}
	if cart.Items == nil {
		cart.Items = map[string]response.Item{}
	}
	return cart, nil
}

func (svc CartService) saveCart(c context.Context, cart response.Cart) error {
	cacheKey := fmt.Sprintf(common.KeyCarts, cart.SessionKey)
	if err := svc.cache.JSONSet(c, cacheKey, "$", cart).Err(); err != nil {
		return fmt.Errorf("failed setting cacheKey=%s with error=%w", cacheKey, err)
	}
	return nil
}
