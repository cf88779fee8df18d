package tracing

// Span and attribute names for registration tracing.
const (
	SpanSubmit    = "registration.submit"
	SpanQRPreview = "qr.preview"

	AttrAttemptID    = "registration.attempt_id"
	AttrPricingMode  = "registration.pricing_mode"
	AttrEventCount   = "registration.event_count"
	AttrAmount       = "registration.amount"
	AttrHTTPURL      = "http.url"
	AttrHTTPStatus   = "http.status_code"
	AttrQRSource     = "qr.source"
	AttrQRCacheHit   = "qr.cache_hit"
	AttrErrorType    = "error.type"
	EventRequestSent = "request.sent"
	EventBodyDecoded = "response.decoded"
)
