// Package config provides centralized timeout constants for the application.
//
// These values are tuned around two facts:
//   - Twilio expects the webhook to answer within 15 seconds, after
//     which it gives up on the request and the user sees nothing.
//   - The GhanaPost GPS service has no idempotent-retry contract, so a
//     single short attempt per request is the whole budget; the user
//     can simply resend their message.
package config

import "time"

// Webhook timeouts
const (
	// WebhookProcessing is the timeout for handling a single inbound
	// message end to end. It must fit one media fetch plus one geocode
	// call with room for reply rendering, and stay inside Twilio's
	// 15 second webhook deadline.
	WebhookProcessing = 14 * time.Second

	// WebhookHTTPRead is the HTTP server read timeout for webhook
	// requests. Twilio sends small form-encoded payloads.
	WebhookHTTPRead = 10 * time.Second

	// WebhookHTTPWrite is the HTTP server write timeout.
	// Accommodates WebhookProcessing plus response serialization.
	WebhookHTTPWrite = 15 * time.Second

	// WebhookHTTPIdle is the HTTP server idle timeout for keep-alive connections.
	WebhookHTTPIdle = 120 * time.Second
)

// Upstream timeouts
const (
	// GeocodeRequest is the budget for one GhanaPost GPS call, forward
	// or reverse. One attempt only; a timeout is a definitive "no
	// data" for the request.
	GeocodeRequest = 5 * time.Second

	// MediaFetch is the budget for downloading one image from the
	// Twilio media store for QR decoding.
	MediaFetch = 10 * time.Second
)

// Probe timeouts
const (
	// ReadinessCheckTimeout bounds the upstream probe behind /ready.
	ReadinessCheckTimeout = 3 * time.Second
)

// Background job intervals
const (
	// RateLimiterCleanupInterval is how often per-sender rate limiter
	// buckets that refilled completely are discarded.
	RateLimiterCleanupInterval = 5 * time.Minute
)
