package constants

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// HTTP Headers
	HeaderXRequestID        = "X-Request-ID"
	HeaderRazorpaySignature = "X-Razorpay-Signature"

	// Context keys
	ContextKeyRequestID = "request_id"

	// Database table names
	TablePlans         = "plans"
	TableSubscriptions = "subscriptions"
	TablePayments      = "payments"
	TableProperties    = "properties"
	TableUsers         = "users"

	// Redis keys
	RedisKeyReconcileLock      = "homemart:lock:payment_reconcile"
	RedisChannelSubscriptionEv = "homemart:events:subscription"

	ErrMsgInternalServerError = "Internal server error occurred"
)
