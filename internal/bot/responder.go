package bot

import (
	"context"
	"fmt"
	"time"

	"ghanapost-gps-bot/internal/geocode"
	"ghanapost-gps-bot/internal/logger"
	"ghanapost-gps-bot/internal/metrics"
	"ghanapost-gps-bot/internal/postcode"
	"ghanapost-gps-bot/internal/sentry"
)

const moduleName = "bot"

// Geocoder is the lookup gateway the responder depends on. Both
// operations are fail-soft: an absent value, never an error.
type Geocoder interface {
	Lookup(ctx context.Context, code postcode.Code) *geocode.AddressRecord
	ReverseLookup(ctx context.Context, lat, lng float64) string
}

// QRScanner turns a media URL into the decoded QR text payload.
type QRScanner interface {
	Payload(ctx context.Context, mediaURL string) (string, error)
}

// Responder runs the per-request pipeline: classify, dispatch, compose.
// It always produces exactly one reply; no failure escapes to the
// transport layer.
type Responder struct {
	geocoder Geocoder
	scanner  QRScanner
	metrics  *metrics.Metrics
	logger   *logger.Logger
}

// NewResponder creates a Responder.
func NewResponder(geocoder Geocoder, scanner QRScanner, m *metrics.Metrics, log *logger.Logger) *Responder {
	return &Responder{
		geocoder: geocoder,
		scanner:  scanner,
		metrics:  m,
		logger:   log.WithModule(moduleName),
	}
}

// Respond handles one inbound message and returns the reply text.
// The recover boundary is the single place that must never fail: any
// panic below it becomes the generic apology reply.
func (r *Responder) Respond(ctx context.Context, msg InboundMessage) (reply string) {
	start := time.Now()
	intent := Classify(msg)

	defer func() {
		if rec := recover(); rec != nil {
			err := fmt.Errorf("panic handling %s intent: %v", intent.Kind, rec)
			r.logger.WithError(err).ErrorContext(ctx, "Recovered while composing reply")
			sentry.CaptureException(err)
			r.metrics.RecordWebhook(intent.Kind.String(), "error", time.Since(start).Seconds())
			reply = MsgServerError
		}
	}()

	switch intent.Kind {
	case KindQrLookup:
		reply = r.respondQr(ctx, intent.MediaURL)
	case KindDirectLookup:
		reply = r.respondDirect(ctx, intent.Text)
	case KindLocationLookup:
		reply = r.respondLocation(ctx, intent.Latitude, intent.Longitude)
	default:
		reply = MsgHelp
	}

	r.metrics.RecordWebhook(intent.Kind.String(), "success", time.Since(start).Seconds())
	return reply
}

// respondQr fetches the shared image, decodes its QR payload, extracts
// a code from the payload and resolves it.
func (r *Responder) respondQr(ctx context.Context, mediaURL string) string {
	payload, err := r.scanner.Payload(ctx, mediaURL)
	if err != nil {
		// Fetch failures and unreadable images get the same guidance
		return MsgQRUnreadable
	}

	code, ok := postcode.Find(payload)
	if !ok {
		r.logger.WithField("payload_len", len(payload)).InfoContext(ctx, "No code in QR payload")
		r.metrics.RecordQRDecode("no_code")
		return MsgQRNoCode
	}

	record := r.geocoder.Lookup(ctx, code)
	if record == nil {
		return ComposeNotFound(code)
	}
	return ComposeFound(record)
}

// respondDirect resolves a code typed as the message body. The
// classifier only routes grammar-valid text here, but the composer
// contract stays total: text that fails normalization gets the format
// guidance rather than an assumption.
func (r *Responder) respondDirect(ctx context.Context, text string) string {
	code, ok := postcode.Normalize(text)
	if !ok {
		return MsgInvalidCode
	}

	record := r.geocoder.Lookup(ctx, code)
	if record == nil {
		return ComposeNotFound(code)
	}
	return ComposeFound(record)
}

// respondLocation reverse-geocodes shared coordinates. Failure is not
// an error path: the reply degrades to coordinates without a code.
func (r *Responder) respondLocation(ctx context.Context, lat, lng float64) string {
	code := r.geocoder.ReverseLookup(ctx, lat, lng)
	return ComposeLocation(lat, lng, code)
}
