package log

const (
	KeyAppName            = "app"
	KeyRequestID          = "requestId"
	KeyProcess            = "process"
	KeyTag                = "tag"
	KeyConfig             = "config"
	KeyRequestBody        = "requestBody"
	KeyRequestHeader      = "requestHeader"
	KeyRequestHost        = "host"
	KeyRequestIp          = "requesterIP"
	KeyRequestMethod      = "requestMethod"
	KeyRequestURI         = "requestURI"
	KeyRequestURL         = "requestURL"
	KeyTraceID            = "traceId"
	KeySpanID             = "spanId"
	KeyDbURL              = "dbURL"
	KeySessionKey         = "sessionKey"
	KeyCacheKey           = "cacheKey"
	KeyCart               = "cart"
	KeyCartItemID         = "cartItemId"
	KeyProduct            = "product"
	KeyProductID          = "productId"
	KeyQuantity           = "quantity"
	KeyOrder              = "order"
	KeyOrderID            = "orderId"
	KeyOrderCode          = "orderCode"
	KeyCourier            = "courier"
	KeyShippingService    = "shippingService"
	KeyShippingCost       = "shippingCost"
	KeyDestination        = "destination"
	KeyTotalWeight        = "totalWeight"
	KeyGrandTotal         = "grandTotal"
	KeyPaymentToken       = "paymentToken"
	KeyEmail              = "email"
	KeyRequestProcessedAt = "requestProcessedAt"
)
