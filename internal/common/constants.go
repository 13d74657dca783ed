package common

const (
	AppStorefront         = "storefront"
	AppNotificationWorker = "notification-worker"
)

// Tracer scope names, one per domain package.
const (
	ScopeCart     = "storefront.cart"
	ScopeOrder    = "storefront.order"
	ScopeProduct  = "storefront.product"
	ScopeShipping = "storefront.shipping"
	ScopePayment  = "storefront.payment"
)

const (
	// Redis key patterns. Cart documents live under carts:<sessionKey>,
	// cached products under products:<productId>.
	KeyCarts    = "carts:%s"
	KeyProducts = "products:%s"

	// Pub/sub channel for fire-and-forget order confirmation emails.
	ChannelOrderCreated = "orders:created"
)
