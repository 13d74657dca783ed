package errors

import (
	"errors"
)

var (
	ErrEmptyAuth           = errors.New("missing authorization")
	ErrTokenInvalid        = errors.New("invalid token")
	ErrEmptySessionKey     = errors.New("missing session key")
	ErrCartEmpty           = errors.New("cart is empty")
	ErrCartItemNotFound    = errors.New("cart item not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrProductExists       = errors.New("product already exists")
	ErrOrderNotFound       = errors.New("order not found")
	ErrOutOfStock          = errors.New("product is out of stock")
	ErrShippingUnavailable = errors.New("selected shipping service is unavailable")
	ErrPaymentGateway      = errors.New("payment gateway request failed")
)
