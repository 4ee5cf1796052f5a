package constants

const (
	AppStorefront      = "storefront"
	AppCartService     = "cart-service"
	AppMigration       = "storefront-migration"
	AudienceSession    = "audience-session"
	HeaderSessionToken = "X-Session-Token"
	HeaderRequestID    = "X-Request-Id"
)
