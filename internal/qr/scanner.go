package qr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"ghanapost-gps-bot/internal/logger"
	"ghanapost-gps-bot/internal/metrics"
)

const moduleName = "qr"

// maxImageBytes caps the accepted media size. Twilio's own limit for
// inbound WhatsApp media is well below this.
const maxImageBytes = 8 << 20

// Scanner fetches a media URL and decodes its QR payload.
type Scanner struct {
	httpClient *http.Client
	accountSID string
	authToken  string
	metrics    *metrics.Metrics
	logger     *logger.Logger
}

// NewScanner creates a Scanner. Twilio media URLs require the account
// SID and auth token as basic auth credentials.
func NewScanner(accountSID, authToken string, timeout time.Duration, m *metrics.Metrics, log *logger.Logger) *Scanner {
	return &Scanner{
		httpClient: &http.Client{Timeout: timeout},
		accountSID: accountSID,
		authToken:  authToken,
		metrics:    m,
		logger:     log.WithModule(moduleName),
	}
}

// Payload downloads the image at mediaURL and returns the text of the
// first QR code found in it. All failure modes, fetch errors included,
// surface as an error the caller renders as "undecodable".
func (s *Scanner) Payload(ctx context.Context, mediaURL string) (string, error) {
	data, err := s.fetch(ctx, mediaURL)
	if err != nil {
		s.logger.WithError(err).WithField("media_url", mediaURL).Warn("Media fetch failed")
		s.metrics.RecordQRDecode("fetch_error")
		return "", err
	}

	payload, err := Decode(data)
	if err != nil {
		if errors.Is(err, ErrUnreadableImage) {
			s.logger.WithField("media_url", mediaURL).Warn("Media is not a readable image")
		} else {
			s.logger.WithField("media_url", mediaURL).Info("No QR code detected in image")
		}
		s.metrics.RecordQRDecode("no_qr")
		return "", err
	}

	s.logger.WithField("payload_len", len(payload)).Debug("QR decoded")
	s.metrics.RecordQRDecode("decoded")
	return payload, nil
}

// fetch downloads the media bytes with account credentials.
func (s *Scanner) fetch(ctx context.Context, mediaURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(s.accountSID, s.authToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty media content")
	}

	return data, nil
}
