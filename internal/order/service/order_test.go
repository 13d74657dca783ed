package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartRequest "github.com/aprayoga/storefront/cart/pkg/request"
	"github.com/aprayoga/storefront/internal/common"
	commonErrors "github.com/aprayoga/storefront/internal/errors"
	"github.com/aprayoga/storefront/internal/repository"
)

func TestCheckoutCreatesOrderItemsAndShipment(t *testing.T) {
	c := context.Background()
	shipping := newShippingServer(t, 12000)
	payment, gross := newRecordingPaymentServer(t)
	env := setupTestEnv(t, c, shipping.URL, payment.URL)

	sweater := seedProduct(t, c, env, "SWT-001", 150000, 400, 10)
	scarf := seedProduct(t, c, env, "SCF-001", 50000, 200, 5)

	sessionKey := "session-checkout"
	_, err := env.carts.AddItem(c, sessionKey, cartRequest.InsertCartItem{
		ProductID:  sweater.ID,
		Quantity:   2,
		Attributes: cartRequest.ItemAttributes{Size: "M", Color: "Navy"},
	})
	require.NoError(t, err)
	_, err = env.carts.AddItem(c, sessionKey, cartRequest.InsertCartItem{
		ProductID: scarf.ID,
		Quantity:  1,
	})
	require.NoError(t, err)

	order, err := env.service.Checkout(c, sessionKey, checkoutParam())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(order.Code, "ORD/"))
	assert.Equal(t, string(repository.OrderStatusCreated), order.Status)
	assert.Equal(t, string(repository.PaymentStatusUnpaid), order.PaymentStatus)
	assert.Equal(t, "snap-token", order.PaymentToken)
	assert.Equal(t, "https://pay.example/snap-token", order.PaymentUrl)

	// 2 x 150000 + 1 x 50000, 10% tax, flat shipping quote.
	assert.True(t, order.BaseTotal.Equal(decimal.NewFromInt(350000)), "base_total = %s", order.BaseTotal)
	assert.True(t, order.TaxAmount.Equal(decimal.NewFromInt(35000)), "tax_amount = %s", order.TaxAmount)
	assert.True(t, order.ShippingCost.Equal(decimal.NewFromInt(12000)), "shipping_cost = %s", order.ShippingCost)
	assert.True(t, order.GrandTotal.Equal(decimal.NewFromInt(397000)), "grand_total = %s", order.GrandTotal)
	assert.Equal(t, int64(397000), gross.Load())
	assert.Equal(t, order.OrderDate.AddDate(0, 0, 7).Unix(), order.PaymentDue.Unix())

	require.Len(t, order.Items, 2)
	require.NotNil(t, order.Shipment)
	assert.Equal(t, "Andi", order.Shipment.FirstName)
	assert.Equal(t, "Jl. Sudirman 1", order.Shipment.Address1)
	assert.Equal(t, int32(3), order.Shipment.TotalQty)
	assert.Equal(t, int32(1000), order.Shipment.TotalWeight)

	assert.Equal(t, int32(8), remainingStock(t, c, env, sweater))
	assert.Equal(t, int32(4), remainingStock(t, c, env, scarf))

	cart, err := env.carts.Content(c, sessionKey)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestCheckoutSnapshotsProductType(t *testing.T) {
	c := context.Background()
	shipping := newShippingServer(t, 9000)
	payment := newPaymentServer(t, http.StatusCreated)
	env := setupTestEnv(t, c, shipping.URL, payment.URL)

	jacket := seedTypedProduct(t, c, env, "JKT-001", "configurable", 250000, 600, 10)

	sessionKey := "session-type"
	_, err := env.carts.AddItem(c, sessionKey, cartRequest.InsertCartItem{
		ProductID:  jacket.ID,
		Quantity:   1,
		Attributes: cartRequest.ItemAttributes{Size: "L", Color: "Black"},
	})
	require.NoError(t, err)

	order, err := env.service.Checkout(c, sessionKey, checkoutParam())
	require.NoError(t, err)

	require.Len(t, order.Items, 1)
	assert.Equal(t, "configurable", order.Items[0].Type)
}

func TestCheckoutRoundsFractionalGrossAmount(t *testing.T) {
	c := context.Background()
	shipping := newShippingServer(t, 9000)
	payment, gross := newRecordingPaymentServer(t)
	env := setupTestEnv(t, c, shipping.URL, payment.URL)

	// 149995 + 10% tax leaves a half-unit fraction on the grand total.
	sweater := seedProduct(t, c, env, "SWT-010", 149995, 400, 10)

	sessionKey := "session-fraction"
	_, err := env.carts.AddItem(c, sessionKey, cartRequest.InsertCartItem{
		ProductID: sweater.ID,
		Quantity:  1,
	})
	require.NoError(t, err)

	order, err := env.service.Checkout(c, sessionKey, checkoutParam())
	require.NoError(t, err)

	assert.True(t, order.GrandTotal.Equal(decimal.NewFromFloat(173994.5)), "grand_total = %s", order.GrandTotal)
	assert.Equal(t, int64(173995), gross.Load())
}

func TestCheckoutShipToFallsBackPerField(t *testing.T) {
	c := context.Background()
	shipping := newShippingServer(t, 9000)
	payment := newPaymentServer(t, http.StatusCreated)
	env := setupTestEnv(t, c, shipping.URL, payment.URL)

	sweater := seedProduct(t, c, env, "SWT-002", 150000, 400, 10)

	sessionKey := "session-shipto"
	_, err := env.carts.AddItem(c, sessionKey, cartRequest.InsertCartItem{
		ProductID: sweater.ID,
		Quantity:  1,
	})
	require.NoError(t, err)

	param := checkoutParam()
	param.ShipTo = true
	param.ShippingFirstName = "Budi"
	param.ShippingAddress1 = "Jl. Gatot Subroto 99"
	param.ShippingCityID = "501"

	order, err := env.service.Checkout(c, sessionKey, param)
	require.NoError(t, err)

	require.NotNil(t, order.Shipment)
	assert.Equal(t, "Budi", order.Shipment.FirstName)
	assert.Equal(t, "Jl. Gatot Subroto 99", order.Shipment.Address1)
	assert.Equal(t, "501", order.Shipment.CityID)
	// Fields left blank on the shipping address fall back to billing.
	assert.Equal(t, "Wijaya", order.Shipment.LastName)
	assert.Equal(t, "+628123456789", order.Shipment.Phone)
	assert.Equal(t, "andi@example.com", order.Shipment.Email)
}

func TestCheckoutEmptyCart(t *testing.T) {
	c := context.Background()
	shipping := newShippingServer(t, 9000)
	payment := newPaymentServer(t, http.StatusCreated)
	env := setupTestEnv(t, c, shipping.URL, payment.URL)

	_, err := env.service.Checkout(c, "session-empty", checkoutParam())
	assert.ErrorIs(t, err, commonErrors.ErrCartEmpty)
}

func TestCheckoutUnknownShippingService(t *testing.T) {
	c := context.Background()
	shipping := newShippingServer(t, 9000)
	payment := newPaymentServer(t, http.StatusCreated)
	env := setupTestEnv(t, c, shipping.URL, payment.URL)

	sweater := seedProduct(t, c, env, "SWT-003", 150000, 400, 10)

	sessionKey := "session-no-service"
	_, err := env.carts.AddItem(c, sessionKey, cartRequest.InsertCartItem{
		ProductID: sweater.ID,
		Quantity:  1,
	})
	require.NoError(t, err)

	param := checkoutParam()
	param.ShippingService = "jne-oke"

	_, err = env.service.Checkout(c, sessionKey, param)
	assert.ErrorIs(t, err, commonErrors.ErrShippingUnavailable)
	assert.Equal(t, 0, countOrders(t, c, env))
	assert.Equal(t, int32(10), remainingStock(t, c, env, sweater))
}

func TestCheckoutPaymentFailureRollsBack(t *testing.T) {
	c := context.Background()
	shipping := newShippingServer(t, 9000)
	payment := newPaymentServer(t, http.StatusUnauthorized)
	env := setupTestEnv(t, c, shipping.URL, payment.URL)

	sweater := seedProduct(t, c, env, "SWT-004", 150000, 400, 10)

	sessionKey := "session-payment-down"
	_, err := env.carts.AddItem(c, sessionKey, cartRequest.InsertCartItem{
		ProductID: sweater.ID,
		Quantity:  2,
	})
	require.NoError(t, err)

	_, err = env.service.Checkout(c, sessionKey, checkoutParam())
	assert.ErrorIs(t, err, commonErrors.ErrPaymentGateway)

	assert.Equal(t, 0, countOrders(t, c, env))
	assert.Equal(t, int32(10), remainingStock(t, c, env, sweater))

	cart, err := env.carts.Content(c, sessionKey)
	require.NoError(t, err)
	assert.False(t, cart.IsEmpty())
}

func TestCheckoutStockDrainedAfterAdding(t *testing.T) {
	c := context.Background()
	shipping := newShippingServer(t, 9000)
	payment := newPaymentServer(t, http.StatusCreated)
	env := setupTestEnv(t, c, shipping.URL, payment.URL)

	sweater := seedProduct(t, c, env, "SWT-005", 150000, 400, 2)

	sessionKey := "session-drained"
	_, err := env.carts.AddItem(c, sessionKey, cartRequest.InsertCartItem{
		ProductID: sweater.ID,
		Quantity:  2,
	})
	require.NoError(t, err)

	// Another checkout takes the stock between add-to-cart and checkout.
	_, err = env.pool.Exec(
		c,
		"UPDATE product_inventories SET quantity = 1 WHERE product_id = $1",
		sweater.ID,
	)
	require.NoError(t, err)

	_, err = env.service.Checkout(c, sessionKey, checkoutParam())
	assert.ErrorIs(t, err, commonErrors.ErrOutOfStock)
	assert.Equal(t, 0, countOrders(t, c, env))
	assert.Equal(t, int32(1), remainingStock(t, c, env, sweater))
}

func TestCheckoutConcurrentLastUnit(t *testing.T) {
	c := context.Background()
	shipping := newShippingServer(t, 9000)
	payment := newPaymentServer(t, http.StatusCreated)
	env := setupTestEnv(t, c, shipping.URL, payment.URL)

	sweater := seedProduct(t, c, env, "SWT-009", 150000, 400, 1)

	sessions := []string{"session-racer-a", "session-racer-b"}
	for _, sessionKey := range sessions {
		_, err := env.carts.AddItem(c, sessionKey, cartRequest.InsertCartItem{
			ProductID: sweater.ID,
			Quantity:  1,
		})
		require.NoError(t, err)
	}

	results := make(chan error, len(sessions))
	for _, sessionKey := range sessions {
		go func(sessionKey string) {
			_, err := env.service.Checkout(c, sessionKey, checkoutParam())
			results <- err
		}(sessionKey)
	}

	var succeeded, outOfStock int
	for range sessions {
		err := <-results
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, commonErrors.ErrOutOfStock):
			outOfStock++
		default:
			t.Fatalf("unexpected checkout error: %s", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, outOfStock)
	assert.Equal(t, 1, countOrders(t, c, env))
	assert.Equal(t, int32(0), remainingStock(t, c, env, sweater))
}

func TestCheckoutPublishesOrderCreated(t *testing.T) {
	c := context.Background()
	shipping := newShippingServer(t, 9000)
	payment := newPaymentServer(t, http.StatusCreated)
	env := setupTestEnv(t, c, shipping.URL, payment.URL)

	sweater := seedProduct(t, c, env, "SWT-006", 150000, 400, 10)

	pubsub := env.cache.Subscribe(c, common.ChannelOrderCreated)
	t.Cleanup(func() { pubsub.Close() })
	_, err := pubsub.Receive(c)
	require.NoError(t, err)

	sessionKey := "session-publish"
	_, err = env.carts.AddItem(c, sessionKey, cartRequest.InsertCartItem{
		ProductID: sweater.ID,
		Quantity:  1,
	})
	require.NoError(t, err)

	order, err := env.service.Checkout(c, sessionKey, checkoutParam())
	require.NoError(t, err)

	receiveCtx, cancel := context.WithTimeout(c, 10*time.Second)
	defer cancel()
	message, err := pubsub.ReceiveMessage(receiveCtx)
	require.NoError(t, err)
	assert.Contains(t, message.Payload, order.Code)
}

func TestFindOrderByCodeScopedToSession(t *testing.T) {
	c := context.Background()
	shipping := newShippingServer(t, 9000)
	payment := newPaymentServer(t, http.StatusCreated)
	env := setupTestEnv(t, c, shipping.URL, payment.URL)

	sweater := seedProduct(t, c, env, "SWT-007", 150000, 400, 10)

	sessionKey := "session-owner"
	_, err := env.carts.AddItem(c, sessionKey, cartRequest.InsertCartItem{
		ProductID: sweater.ID,
		Quantity:  1,
	})
	require.NoError(t, err)

	order, err := env.service.Checkout(c, sessionKey, checkoutParam())
	require.NoError(t, err)

	found, err := env.service.FindOrderByCode(c, sessionKey, order.Code)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)
	assert.Len(t, found.Items, 1)
	assert.NotNil(t, found.Shipment)

	_, err = env.service.FindOrderByCode(c, "session-other", order.Code)
	assert.ErrorIs(t, err, commonErrors.ErrOrderNotFound)
}

func TestFindOrdersNewestFirst(t *testing.T) {
	c := context.Background()
	shipping := newShippingServer(t, 9000)
	payment := newPaymentServer(t, http.StatusCreated)
	env := setupTestEnv(t, c, shipping.URL, payment.URL)

	sweater := seedProduct(t, c, env, "SWT-008", 150000, 400, 10)

	sessionKey := "session-history"
	var codes []string
	for i := 0; i < 2; i++ {
		_, err := env.carts.AddItem(c, sessionKey, cartRequest.InsertCartItem{
			ProductID: sweater.ID,
			Quantity:  1,
		})
		require.NoError(t, err)
		order, err := env.service.Checkout(c, sessionKey, checkoutParam())
		require.NoError(t, err)
		codes = append(codes, order.Code)
	}

	orders, err := env.service.FindOrders(c, sessionKey)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, codes[1], orders[0].Code)
	assert.Equal(t, codes[0], orders[1].Code)

	others, err := env.service.FindOrders(c, "session-other")
	require.NoError(t, err)
	assert.Empty(t, others)
}
