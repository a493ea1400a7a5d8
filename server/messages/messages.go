package messages

const (
	APIExtract     = "iflowscan.api.extract" // APIExtract is the request/reply subject for batch extraction.
	APIQueueGroup  = "iflowscan"             // APIQueueGroup load balances API requests across servers.
	APIErrorHeader = "Iflowscan-Error"       // APIErrorHeader marks a reply that carries an error.
	AuthHeader     = "Authorization"         // AuthHeader carries the bearer token of an API request.

	CorrelationHeader = "Iflowscan-Correlation" // CorrelationHeader carries the correlation ID of an API request.
)
