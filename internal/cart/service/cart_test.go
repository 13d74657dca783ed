package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aprayoga/storefront/cart/pkg/request"
	"github.com/aprayoga/storefront/cart/pkg/response"
	commonErrors "github.com/aprayoga/storefront/internal/errors"
	"github.com/aprayoga/storefront/internal/pricing"
)

func TestAddItemMergesSameVariant(t *testing.T) {
	c := context.Background()
	env := setupTestEnv(t, c)
	product := seedProduct(t, c, env, sweaterParam())
	sessionKey := "session-merge"

	attrs := request.ItemAttributes{Size: "M", Color: "blue"}
	_, err := env.service.AddItem(c, sessionKey, request.InsertCartItem{
		ProductID:  product.ID,
		Quantity:   2,
		Attributes: attrs,
	})
	require.NoError(t, err)

	item, err := env.service.AddItem(c, sessionKey, request.InsertCartItem{
		ProductID:  product.ID,
		Quantity:   3,
		Attributes: attrs,
	})
	require.NoError(t, err)
	assert.Equal(t, int32(5), item.Quantity)
	assert.Equal(t, "simple", item.Type)
	assert.Equal(t, "SWT-001", item.Sku)

	cart, err := env.service.Content(c, sessionKey)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, int32(5), cart.TotalQuantity())
}

func TestAddItemSeparateLinesPerVariant(t *testing.T) {
	c := context.Background()
	env := setupTestEnv(t, c)
	product := seedProduct(t, c, env, sweaterParam())
	sessionKey := "session-variants"

	_, err := env.service.AddItem(c, sessionKey, request.InsertCartItem{
		ProductID:  product.ID,
		Quantity:   1,
		Attributes: request.ItemAttributes{Size: "M", Color: "blue"},
	})
	require.NoError(t, err)
	_, err = env.service.AddItem(c, sessionKey, request.InsertCartItem{
		ProductID:  product.ID,
		Quantity:   1,
		Attributes: request.ItemAttributes{Size: "L", Color: "blue"},
	})
	require.NoError(t, err)

	cart, err := env.service.Content(c, sessionKey)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
}

func TestAddItemCumulativeStockCheck(t *testing.T) {
	c := context.Background()
	env := setupTestEnv(t, c)
	product := seedProduct(t, c, env, sweaterParam())
	sessionKey := "session-stock"

	attrs := request.ItemAttributes{Size: "M", Color: "blue"}
	_, err := env.service.AddItem(c, sessionKey, request.InsertCartItem{
		ProductID:  product.ID,
		Quantity:   8,
		Attributes: attrs,
	})
	require.NoError(t, err)

	_, err = env.service.AddItem(c, sessionKey, request.InsertCartItem{
		ProductID:  product.ID,
		Quantity:   3,
		Attributes: attrs,
	})
	assert.True(t, errors.Is(err, commonErrors.ErrOutOfStock))
}

func TestContentReappliesSingleTaxCondition(t *testing.T) {
	c := context.Background()
	env := setupTestEnv(t, c)
	product := seedProduct(t, c, env, sweaterParam())
	sessionKey := "session-tax"

	_, err := env.service.AddItem(c, sessionKey, request.InsertCartItem{
		ProductID:  product.ID,
		Quantity:   1,
		Attributes: request.ItemAttributes{Size: "M"},
	})
	require.NoError(t, err)

	first, err := env.service.Content(c, sessionKey)
	require.NoError(t, err)
	second, err := env.service.Content(c, sessionKey)
	require.NoError(t, err)

	taxCount := 0
	for _, cond := range second.Conditions {
		if cond.Kind == pricing.KindTax {
			taxCount++
		}
	}
	assert.Equal(t, 1, taxCount)
	assert.True(t, first.Totals.TaxAmount.Equal(second.Totals.TaxAmount))
	assert.True(t, second.Totals.TaxAmount.Equal(decimal.NewFromInt(15000)))
	assert.True(t, second.Totals.GrandTotal.Equal(decimal.NewFromInt(165000)))
}

func TestUpdateItemSetsAbsoluteQuantity(t *testing.T) {
	c := context.Background()
	env := setupTestEnv(t, c)
	product := seedProduct(t, c, env, sweaterParam())
	sessionKey := "session-update"

	added, err := env.service.AddItem(c, sessionKey, request.InsertCartItem{
		ProductID:  product.ID,
		Quantity:   2,
		Attributes: request.ItemAttributes{Size: "M"},
	})
	require.NoError(t, err)

	updated, err := env.service.UpdateItem(c, sessionKey, added.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, int32(7), updated.Quantity)

	_, err = env.service.UpdateItem(c, sessionKey, "missing-item-id", 1)
	assert.True(t, errors.Is(err, commonErrors.ErrCartItemNotFound))
}

func TestRemoveItemAndClear(t *testing.T) {
	c := context.Background()
	env := setupTestEnv(t, c)
	product := seedProduct(t, c, env, sweaterParam())
	sessionKey := "session-remove"

	added, err := env.service.AddItem(c, sessionKey, request.InsertCartItem{
		ProductID:  product.ID,
		Quantity:   2,
		Attributes: request.ItemAttributes{Size: "M"},
	})
	require.NoError(t, err)

	require.NoError(t, env.service.RemoveItem(c, sessionKey, added.ID))
	err = env.service.RemoveItem(c, sessionKey, added.ID)
	assert.True(t, errors.Is(err, commonErrors.ErrCartItemNotFound))

	_, err = env.service.AddItem(c, sessionKey, request.InsertCartItem{
		ProductID:  product.ID,
		Quantity:   1,
		Attributes: request.ItemAttributes{Size: "M"},
	})
	require.NoError(t, err)
	require.NoError(t, env.service.Clear(c, sessionKey))

	cart, err := env.service.Content(c, sessionKey)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestEmptyCartWeightIsZero(t *testing.T) {
	cart := response.NewCart("session-empty")
	assert.Equal(t, int32(0), cart.TotalWeight())
	assert.Equal(t, int32(0), cart.TotalQuantity())
	assert.True(t, cart.SubTotal().IsZero())
}
