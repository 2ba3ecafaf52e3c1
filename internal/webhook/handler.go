// Package webhook provides the Twilio WhatsApp webhook endpoint:
// signature validation, form decoding, per-sender throttling, and
// TwiML reply rendering around the message pipeline.
package webhook

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	twilioclient "github.com/twilio/twilio-go/client"
	"github.com/twilio/twilio-go/twiml"

	"ghanapost-gps-bot/internal/bot"
	"ghanapost-gps-bot/internal/config"
	"ghanapost-gps-bot/internal/ctxutil"
	"ghanapost-gps-bot/internal/logger"
	"ghanapost-gps-bot/internal/metrics"
	"ghanapost-gps-bot/internal/ratelimit"
)

// Handler handles Twilio WhatsApp webhook requests.
type Handler struct {
	validator         twilioclient.RequestValidator
	validateSignature bool
	publicBaseURL     string
	responder         *bot.Responder
	senderLimiter     *ratelimit.PerKeyLimiter
	metrics           *metrics.Metrics
	logger            *logger.Logger
}

// HandlerConfig holds configuration for creating a new Handler.
type HandlerConfig struct {
	AuthToken         string
	ValidateSignature bool
	PublicBaseURL     string
	SenderRateBurst   float64
	SenderRateRefill  float64
	Responder         *bot.Responder
	Metrics           *metrics.Metrics
	Logger            *logger.Logger
}

// NewHandler creates a new webhook handler.
func NewHandler(cfg HandlerConfig) *Handler {
	h := &Handler{
		validator:         twilioclient.NewRequestValidator(cfg.AuthToken),
		validateSignature: cfg.ValidateSignature,
		publicBaseURL:     cfg.PublicBaseURL,
		responder:         cfg.Responder,
		metrics:           cfg.Metrics,
		logger:            cfg.Logger.WithModule("webhook"),
	}

	h.senderLimiter = ratelimit.NewPerKeyLimiter(ratelimit.PerKeyLimiterConfig{
		MaxTokens:     cfg.SenderRateBurst,
		RefillRate:    cfg.SenderRateRefill,
		CleanupPeriod: config.RateLimiterCleanupInterval,
	})
	h.senderLimiter.OnDrop(func() {
		h.metrics.RecordRateLimiterDrop("sender")
	})

	return h
}

// Handle is the Gin handler for the webhook endpoint. Twilio retries
// nothing here: whatever happens, the response is a TwiML document
// with exactly one message, so every reply path stays in-band.
func (h *Handler) Handle(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		h.logger.WithError(err).Warn("Malformed webhook form body")
		c.Status(http.StatusBadRequest)
		return
	}

	if h.validateSignature && !h.validRequest(c) {
		h.logger.WithField("client_ip", c.ClientIP()).Warn("Invalid webhook signature")
		c.Status(http.StatusForbidden)
		return
	}

	requestID := uuid.NewString()
	sender := c.Request.PostForm.Get("From")

	ctx := ctxutil.WithRequestID(c.Request.Context(), requestID)
	ctx = ctxutil.WithSenderID(ctx, sender)

	if !h.senderLimiter.Allow(sender) {
		h.logger.InfoContext(ctx, "Sender rate limited")
		h.metrics.RecordWebhook("none", "rate_limited", 0)
		h.reply(c, bot.MsgRateLimited)
		return
	}

	msg := parseInbound(c)

	processCtx, cancel := context.WithTimeout(ctx, config.WebhookProcessing)
	defer cancel()

	start := time.Now()
	reply := h.responder.Respond(processCtx, msg)
	h.logger.WithField("duration_ms", time.Since(start).Milliseconds()).
		DebugContext(ctx, "Webhook processed")

	h.reply(c, reply)
}

// validRequest checks the X-Twilio-Signature header against the
// request URL and POST parameters. Behind a proxy the URL Twilio
// signed differs from what the server sees, so PUBLIC_BASE_URL takes
// precedence when set.
func (h *Handler) validRequest(c *gin.Context) bool {
	url := h.publicBaseURL
	if url == "" {
		scheme := "https"
		if c.Request.TLS == nil {
			scheme = "http"
		}
		url = scheme + "://" + c.Request.Host
	}
	url += c.Request.URL.RequestURI()

	params := make(map[string]string, len(c.Request.PostForm))
	for key, values := range c.Request.PostForm {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	return h.validator.Validate(url, params, c.GetHeader("X-Twilio-Signature"))
}

// parseInbound maps the Twilio form fields onto an InboundMessage.
// Coordinates arrive as strings and are only trusted as a pair.
func parseInbound(c *gin.Context) bot.InboundMessage {
	form := c.Request.PostForm

	msg := bot.InboundMessage{
		Text:     form.Get("Body"),
		MediaURL: form.Get("MediaUrl0"),
	}

	lat, latErr := strconv.ParseFloat(form.Get("Latitude"), 64)
	lng, lngErr := strconv.ParseFloat(form.Get("Longitude"), 64)
	if latErr == nil && lngErr == nil {
		msg.Latitude = &lat
		msg.Longitude = &lng
	}

	return msg
}

// reply renders a single-message TwiML document.
func (h *Handler) reply(c *gin.Context, body string) {
	doc, err := twiml.Messages([]twiml.Element{
		&twiml.MessagingMessage{Body: body},
	})
	if err != nil {
		h.logger.WithError(err).Error("TwiML rendering failed")
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Data(http.StatusOK, "application/xml", []byte(doc))
}

// Shutdown stops the per-sender limiter's cleanup goroutine.
func (h *Handler) Shutdown() {
	h.senderLimiter.Stop()
}
