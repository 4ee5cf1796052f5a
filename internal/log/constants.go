package log

const (
	KeyAppName            = "app"
	KeyRequestID          = "requestId"
	KeyTraceID            = "traceId"
	KeySpanID             = "spanId"
	KeyProcess            = "process"
	KeyTag                = "tag"
	KeyRequest            = "request"
	KeyRequestBody        = "requestBody"
	KeyRequestHeader      = "requestHeader"
	KeyRequestHost        = "host"
	KeyRequestIp          = "requesterIP"
	KeyRequestMethod      = "requestMethod"
	KeyRequestProcessedAt = "requestProcessedAt"
	KeyRequestURI         = "requestURI"
	KeyRequestURL         = "requestURL"
	KeyConfig             = "config"
	KeyCacheKey           = "cacheKey"
	KeyDbURL              = "dbUrl"
	KeySessionID          = "sessionId"
	KeyProductID          = "productId"
	KeyCustomization      = "customization"
	KeyFingerprint        = "fingerprint"
	KeyQuantity           = "quantity"
	KeyCartItemsCount     = "cartItemsCount"
	KeyCartTotal          = "cartTotal"
	KeyCartSubTotal       = "cartSubTotal"
	KeyFavoritesCount     = "favoritesCount"
	KeySnapshotVersion    = "snapshotVersion"
	KeyStorageBackend     = "storageBackend"
	KeyOrderID            = "orderId"
	KeyOrderURL           = "orderUrl"
	KeyStatusCode         = "statusCode"
	KeyEvicted            = "evicted"
)
