package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	cartResponse "github.com/aprayoga/storefront/cart/pkg/response"
	cartService "github.com/aprayoga/storefront/internal/cart/service"
	"github.com/aprayoga/storefront/internal/common"
	commonErrors "github.com/aprayoga/storefront/internal/errors"
	"github.com/aprayoga/storefront/internal/log"
	"github.com/aprayoga/storefront/internal/order/otel"
	inOtel "github.com/aprayoga/storefront/internal/otel"
	paymentClient "github.com/aprayoga/storefront/internal/payment/client"
	"github.com/aprayoga/storefront/internal/pricing"
	"github.com/aprayoga/storefront/internal/repository"
	shippingClient "github.com/aprayoga/storefront/internal/shipping/client"
	"github.com/aprayoga/storefront/order/pkg/request"
	"github.com/aprayoga/storefront/order/pkg/response"
	paymentRequest "github.com/aprayoga/storefront/payment/pkg/request"
	shippingResponse "github.com/aprayoga/storefront/shipping/pkg/response"
)

const paymentDueDays = 7

type OrderService struct {
	pool    *pgxpool.Pool
	queries *repository.Queries
	cache   *redis.Client
	carts   cartService.CartService
	rates   shippingClient.RateClient
	gateway paymentClient.Gateway
}

func NewOrderService(
	pool *pgxpool.Pool,
	queries *repository.Queries,
	cache *redis.Client,
	carts cartService.CartService,
	rates shippingClient.RateClient,
	gateway paymentClient.Gateway,
) OrderService {
	return OrderService{
		pool:    pool,
		queries: queries,
		cache:   cache,
		carts:   carts,
		rates:   rates,
		gateway: gateway,
	}
}

// ShippingCost quotes shippable options for the session's cart weight.
func (svc OrderService) ShippingCost(
	c context.Context,
	sessionKey string,
	destination string,
) ([]shippingResponse.Rate, error) {
	c, span := otel.Tracer.Start(c, "OrderService ShippingCost")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService ShippingCost").
		Str(log.KeySessionKey, sessionKey).
		Str(log.KeyDestination, destination).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "getting cart content").Logger()
	c = logger.WithContext(c)
	cart, err := svc.carts.Content(c, sessionKey)
	if err != nil {
		err = fmt.Errorf("failed getting cart content with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	if cart.IsEmpty() {
		err = commonErrors.ErrCartEmpty
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	logger = logger.With().
		Str(log.KeyProcess, "finding shipping rates").
		Int32(log.KeyTotalWeight, cart.TotalWeight()).
		Logger()
	logger.Info().Msg("finding shipping rates")
	c = logger.WithContext(c)
	rates, err := svc.rates.FindRates(c, destination, cart.TotalWeight())
	if err != nil {
		err = fmt.Errorf("failed finding shipping rates with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msgf("found %d shipping rates", len(rates))
	return rates, nil
}

// SetShipping resolves the chosen service and stores its cost as the cart's
// shipping condition, replacing any previously chosen one.
func (svc OrderService) SetShipping(
	c context.Context,
	sessionKey string,
	param request.SetShipping,
) (shippingResponse.Rate, error) {
	c, span := otel.Tracer.Start(c, "OrderService SetShipping")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService SetShipping").
		Str(log.KeySessionKey, sessionKey).
		Str(log.KeyShippingService, param.Service).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "getting cart content").Logger()
	c = logger.WithContext(c)
	cart, err := svc.carts.Content(c, sessionKey)
	if err != nil {
		err = fmt.Errorf("failed getting cart content with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return shippingResponse.Rate{}, err
	}
	if cart.IsEmpty() {
		err = commonErrors.ErrCartEmpty
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return shippingResponse.Rate{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "resolving shipping rate").Logger()
	logger.Info().Msg("resolving shipping rate")
	c = logger.WithContext(c)
	rate, err := svc.rates.FindRate(c, param.Destination, cart.TotalWeight(), param.Service)
	if err != nil {
		err = fmt.Errorf("failed resolving shipping rate with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return shippingResponse.Rate{}, err
	}

	logger = logger.With().
		Str(log.KeyProcess, "applying shipping condition").
		Int64(log.KeyShippingCost, rate.Cost).
		Logger()
	logger.Info().Msg("applying shipping condition")
	c = logger.WithContext(c)
	_, err = svc.carts.ApplyCondition(c, sessionKey, pricing.Condition{
		Name:   rate.Service,
		Kind:   pricing.KindShipping,
		Target: pricing.TargetSubtotal,
		Value:  fmt.Sprintf("+%d", rate.Cost),
	})
	if err != nil {
		err = fmt.Errorf("failed applying shipping condition with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return shippingResponse.Rate{}, err
	}
	logger.Info().Msg("applied shipping condition")
	return rate, nil
}

// Checkout turns the session's cart into an order. The shipping rate is
// re-resolved against the provider before anything is persisted so a stale
// cart condition can never price an order. Order, items, stock decrements,
// shipment and the payment token all commit or roll back as one unit.
func (svc OrderService) Checkout(
	c context.Context,
	sessionKey string,
	param request.Checkout,
) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService Checkout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService Checkout").
		Str(log.KeySessionKey, sessionKey).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "getting cart content").Logger()
	logger.Info().Msg("getting cart content")
	c = logger.WithContext(c)
	cart, err := svc.carts.Content(c, sessionKey)
	if err != nil {
		err = fmt.Errorf("failed getting cart content with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	if cart.IsEmpty() {
		err = commonErrors.ErrCartEmpty
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msg("got cart content")

	logger = logger.With().
		Str(log.KeyProcess, "resolving shipping rate").
		Str(log.KeyShippingService, param.ShippingService).
		Str(log.KeyDestination, param.Destination()).
		Logger()
	logger.Info().Msg("resolving shipping rate")
	c = logger.WithContext(c)
	rate, err := svc.rates.FindRate(
		c,
		param.Destination(),
		cart.TotalWeight(),
		param.ShippingService,
	)
	if err != nil {
		err = fmt.Errorf("failed resolving shipping rate with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msgf("resolved shipping rate cost=%d", rate.Cost)

	logger = logger.With().Str(log.KeyProcess, "computing totals").Logger()
	conditions := pricing.RemoveByKind(cart.Conditions, pricing.KindShipping)
	conditions = append(conditions, pricing.Condition{
		Name:   rate.Service,
		Kind:   pricing.KindShipping,
		Target: pricing.TargetSubtotal,
		Value:  fmt.Sprintf("+%d", rate.Cost),
	})
	totals := pricing.Compute(cart.SubTotal(), conditions)
	logger = logger.With().Str(log.KeyGrandTotal, totals.GrandTotal.String()).Logger()
	logger.Info().Msg("computed totals")

	logger = logger.With().Str(log.KeyProcess, "initializing transaction").Logger()
	logger.Info().Msg("initializing transaction")
	tx, err := svc.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		err = fmt.Errorf("failed initializing transaction with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
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

	logger = logger.With().Str(log.KeyProcess, "generating order code").Logger()
	orderDate := time.Now()
	code, err := svc.uniqueOrderCode(c, orderDate)
	if err != nil {
		err = fmt.Errorf("failed generating order code with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger = logger.With().Str(log.KeyOrderCode, code).Logger()
	logger.Info().Msgf("generated order code=%s", code)

	logger = logger.With().Str(log.KeyProcess, "inserting order").Logger()
	logger.Info().Msg("inserting order")
	order, err := queries.InsertOrder(c, repository.InsertOrderParams{
		Code:               code,
		Status:             repository.OrderStatusCreated,
		SessionKey:         sessionKey,
		OrderDate:          pgtype.Timestamptz{Time: orderDate, Valid: true},
		PaymentDue:         pgtype.Timestamptz{Time: orderDate.AddDate(0, 0, paymentDueDays), Valid: true},
		PaymentStatus:      repository.PaymentStatusUnpaid,
		BaseTotal:          repository.NumericFromDecimal(totals.BaseTotal),
		TaxAmount:          repository.NumericFromDecimal(totals.TaxAmount),
		TaxPercent:         repository.NumericFromDecimal(totals.TaxPercent),
		DiscountAmount:     repository.NumericFromDecimal(totals.DiscountAmount),
		DiscountPercent:    repository.NumericFromDecimal(totals.DiscountPercent),
		ShippingCost:       repository.NumericFromDecimal(totals.ShippingCost),
		GrandTotal:         repository.NumericFromDecimal(totals.GrandTotal),
		Note:               param.Note,
		CustomerFirstName:  param.FirstName,
		CustomerLastName:   param.LastName,
		CustomerCompany:    param.Company,
		CustomerAddress1:   param.Address1,
		CustomerAddress2:   param.Address2,
		CustomerPhone:      param.Phone,
		CustomerEmail:      param.Email,
		CustomerCityID:     param.CityID,
		CustomerProvinceID: param.ProvinceID,
		CustomerPostcode:   param.Postcode,
		ShippingCourier:    param.ShippingCourier,
		ShippingService:    rate.Service,
	})
	if err != nil {
		err = fmt.Errorf("failed inserting order with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msg("inserted order")

	logger = logger.With().Str(log.KeyProcess, "inserting order items").Logger()
	logger.Info().Msg("inserting order items")
	orderResponse := response.FromOrder(order)
	for _, item := range sortedItems(cart.Items) {
		attributes, err := json.Marshal(item.Attributes)
		if err != nil {
			err = fmt.Errorf("failed marshaling attributes with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Order{}, err
		}
		baseTotal := item.SubTotal()
		orderItem, err := queries.InsertOrderItem(c, repository.InsertOrderItemParams{
			OrderID:         order.ID,
			ProductID:       item.ProductID,
			Qty:             item.Quantity,
			BasePrice:       repository.NumericFromDecimal(item.Price),
			BaseTotal:       repository.NumericFromDecimal(baseTotal),
			TaxAmount:       repository.NumericFromDecimal(decimal.Zero),
			TaxPercent:      repository.NumericFromDecimal(decimal.Zero),
			DiscountAmount:  repository.NumericFromDecimal(decimal.Zero),
			DiscountPercent: repository.NumericFromDecimal(decimal.Zero),
			SubTotal:        repository.NumericFromDecimal(baseTotal),
			Sku:             item.Sku,
			Type:            item.Type,
			Name:            item.Name,
			Weight:          item.Weight,
			Attributes:      attributes,
		})
		if err != nil {
			err = fmt.Errorf("failed inserting order item with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Order{}, err
		}

		affected, err := queries.DecrementProductStock(c, repository.DecrementProductStockParams{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
		if err != nil {
			err = fmt.Errorf("failed decrementing stock with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Order{}, err
		}
		if affected == 0 {
			err = fmt.Errorf(
				"productId=%s quantity=%d with error=%w",
				item.ProductID,
				item.Quantity,
				commonErrors.ErrOutOfStock,
			)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Order{}, err
		}
		orderResponse.Items = append(orderResponse.Items, response.FromOrderItem(orderItem))
	}
	logger.Info().Msgf("inserted %d order items", len(orderResponse.Items))

	logger = logger.With().Str(log.KeyProcess, "inserting shipment").Logger()
	logger.Info().Msg("inserting shipment")
	shipment, err := queries.InsertShipment(c, shipmentParams(order.ID, cart, param))
	if err != nil {
		err = fmt.Errorf("failed inserting shipment with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	shipmentResponse := response.FromShipment(shipment)
	orderResponse.Shipment = &shipmentResponse
	logger.Info().Msg("inserted shipment")

	logger = logger.With().Str(log.KeyProcess, "creating payment transaction").Logger()
	logger.Info().Msg("creating payment transaction")
	c = logger.WithContext(c)
	transaction, err := svc.gateway.CreateTransaction(c, paymentRequest.CreateTransaction{
		TransactionDetails: paymentRequest.TransactionDetails{
			OrderID:     order.Code,
			GrossAmount: totals.GrandTotal.Round(0).IntPart(),
		},
		CustomerDetails: paymentRequest.CustomerDetails{
			FirstName: param.FirstName,
			LastName:  param.LastName,
			Email:     param.Email,
			Phone:     param.Phone,
		},
	})
	if err != nil {
		err = fmt.Errorf("failed creating payment transaction with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	err = queries.UpdateOrderPayment(c, repository.UpdateOrderPaymentParams{
		ID:           order.ID,
		PaymentToken: transaction.Token,
		PaymentUrl:   transaction.RedirectUrl,
	})
	if err != nil {
		err = fmt.Errorf("failed updating order payment with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	orderResponse.PaymentToken = transaction.Token
	orderResponse.PaymentUrl = transaction.RedirectUrl
	logger = logger.With().Str(log.KeyPaymentToken, transaction.Token).Logger()
	logger.Info().Msg("created payment transaction")

	logger = logger.With().Str(log.KeyProcess, "committing transaction").Logger()
	logger.Info().Msg("committing transaction")
	if err := tx.Commit(c); err != nil {
		err = fmt.Errorf("failed committing transaction with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msg("committed transaction")

	logger = logger.With().Str(log.KeyProcess, "clearing cart").Logger()
	logger.Info().Msg("clearing cart")
	c = logger.WithContext(c)
	if err := svc.carts.Clear(c, sessionKey); err != nil {
		err = fmt.Errorf("failed clearing cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	} else {
		logger.Info().Msg("cleared cart")
	}

	logger = logger.With().Str(log.KeyProcess, "publishing order created").Logger()
	logger.Info().Msg("publishing order created")
	payload, err := json.Marshal(orderResponse)
	if err != nil {
		err = fmt.Errorf("failed marshaling order with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return orderResponse, nil
	}
	if err := svc.cache.Publish(c, common.ChannelOrderCreated, payload).Err(); err != nil {
		err = fmt.Errorf("failed publishing order created with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	} else {
		logger.Info().Msg("published order created")
	}

	return orderResponse, nil
}

func (svc OrderService) FindOrders(
	c context.Context,
	sessionKey string,
) ([]response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService FindOrders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService FindOrders").
		Str(log.KeySessionKey, sessionKey).
		Str(log.KeyProcess, "finding orders").
		Logger()

	logger.Info().Msg("finding orders")
	orders, err := svc.queries.FindOrdersBySessionKey(c, sessionKey)
	if err != nil {
		err = fmt.Errorf("failed finding orders with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msgf("found %d orders", len(orders))

	responses := make([]response.Order, 0, len(orders))
	for _, order := range orders {
		responses = append(responses, response.FromOrder(order))
	}
	return responses, nil
}

func (svc OrderService) FindOrderByCode(
	c context.Context,
	sessionKey string,
	code string,
) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService FindOrderByCode")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService FindOrderByCode").
		Str(log.KeySessionKey, sessionKey).
		Str(log.KeyOrderCode, code).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding order").Logger()
	logger.Info().Msg("finding order")
	order, err := svc.queries.FindOrderByCode(c, repository.FindOrderByCodeParams{
		Code:       code,
		SessionKey: sessionKey,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = commonErrors.ErrOrderNotFound
		}
		err = fmt.Errorf("failed finding orderCode=%s with error=%w", code, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msg("found order")

	logger = logger.With().Str(log.KeyProcess, "finding order items").Logger()
	items, err := svc.queries.FindOrderItemsByOrderId(c, order.ID)
	if err != nil {
		err = fmt.Errorf("failed finding order items with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "finding shipment").Logger()
	shipment, err := svc.queries.FindShipmentByOrderId(c, order.ID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		err = fmt.Errorf("failed finding shipment with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}

	orderResponse := response.FromOrder(order)
	for _, item := range items {
		orderResponse.Items = append(orderResponse.Items, response.FromOrderItem(item))
	}
	if shipment.ID != uuid.Nil {
		shipmentResponse := response.FromShipment(shipment)
		orderResponse.Shipment = &shipmentResponse
	}
	return orderResponse, nil
}

func (svc OrderService) uniqueOrderCode(c context.Context, now time.Time) (string, error) {
	for attempt := 0; attempt < 10; attempt++ {
		code, err := generateOrderCode(now)
		if err != nil {
			return "", err
		}
		exists, err := svc.queries.OrderCodeExists(c, code)
		if err != nil {
			return "", fmt.Errorf("failed checking order code with error=%w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", errors.New("exhausted attempts generating a unique order code")
}

func sortedItems(items map[string]cartResponse.Item) []cartResponse.Item {
	sorted := make([]cartResponse.Item, 0, len(items))
	for _, item := range items {
		sorted = append(sorted, item)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	return sorted
}

func shipmentParams(
	orderID uuid.UUID,
	cart cartResponse.Cart,
	param request.Checkout,
) repository.InsertShipmentParams {
	fallback := func(shipTo string, billing string) string {
		if param.ShipTo && shipTo != "" {
			return shipTo
		}
		return billing
	}
	return repository.InsertShipmentParams{
		OrderID:     orderID,
		Status:      repository.ShipmentStatusPending,
		TotalQty:    cart.TotalQuantity(),
		TotalWeight: cart.TotalWeight(),
		FirstName:   fallback(param.ShippingFirstName, param.FirstName),
		LastName:    fallback(param.ShippingLastName, param.LastName),
		Address1:    fallback(param.ShippingAddress1, param.Address1),
		Address2:    fallback(param.ShippingAddress2, param.Address2),
		Phone:       fallback(param.ShippingPhone, param.Phone),
		Email:       fallback(param.ShippingEmail, param.Email),
		CityID:      fallback(param.ShippingCityID, param.CityID),
		ProvinceID:  fallback(param.ShippingProvinceID, param.ProvinceID),
		Postcode:    fallback(param.ShippingPostcode, param.Postcode),
	}
}
