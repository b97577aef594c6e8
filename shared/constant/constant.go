package constant

// Context key types to avoid collisions
type contextKey string

const (
	ContextKeyWallet  contextKey = "wallet_address"
	ContextKeyTokenID contextKey = "token_id"
)

const (
	RoleDriver = "driver"
	RoleHost   = "host"
	RoleBoth   = "both"
)

const (
	RequestParamPage    = "page"
	RequestParamLimit   = "limit"
	RequestParamSortBy  = "sort_by"
	RequestParamSortDir = "sort_dir"
)

const (
	RequestParamID     = "id"
	RequestParamSpotID = "spotId"
	RequestParamWallet = "wallet"
	RequestParamKey    = "key"
)

const (
	DefaultValuePage  = 1
	DefaultValueLimit = 20
)

const (
	OtelServiceScopeName    = "service"
	OtelRepositoryScopeName = "repository"
	OtelHandlerScopeName    = "handler"
	OtelLedgerScopeName     = "ledger"
	OtelEventScopeName      = "event"

	OtelQueryAttributeKey = "query"
	OtelSpotAttributeKey  = "spot_id"
)

const (
	// CacheKeyMarketplaceView prefixes the cached reconciled marketplace.
	// Shared so writers in other domains can invalidate it on confirmation.
	CacheKeyMarketplaceView = "marketplace:view"
)

const (
	RequestHeaderAuthorization      = "Authorization"
	RequestHeaderContentType        = "Content-Type"
	RequestHeaderRateLimit          = "X-RateLimit-Limit"
	RequestHeaderRateLimitRemaining = "X-RateLimit-Remaining"
	RequestHeaderRateLimitWindow    = "X-RateLimit-Window"
)

const (
	ContentTypeJSON = "application/json"
)

const (
	DateFormat = "2006-01-02 15:04:05"
)

const (
	ResponseErrorPrepareShutdown      = "SERVER PREPARING TO SHUT DOWN"
	ResponseErrorUnhealthy            = "SERVER UNHEALTHY"
	ResponseErrorRequestLimitExceeded = "REQUEST LIMIT EXCEEDED"
)

const (
	ServerEnvDevelopment = "development"
	ServerEnvProduction  = "production"
)

const (
	// LedgerModeMemory runs against the in-process escrow ledger, LedgerModeRPC
	// against a deployed contract over JSON-RPC.
	LedgerModeMemory = "memory"
	LedgerModeRPC    = "rpc"
)

const (
	KafkaTopicSpotListed     = "spot.listed"
	KafkaTopicSpotBooked     = "spot.booked"
	KafkaTopicPaymentClaimed = "payment.claimed"
)

const (
	Empty = ""
)
