// Package geocode is the gateway to the GhanaPost GPS service. It
// exposes forward lookup (code to address) and reverse lookup
// (coordinates to code) with a fail-soft contract: every failure is
// logged and reported to the caller as an absent value, never as an
// error. One attempt per call, no retries; the upstream has no
// idempotent-retry contract and the channel is interactive.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"ghanapost-gps-bot/internal/logger"
	"ghanapost-gps-bot/internal/metrics"
	"ghanapost-gps-bot/internal/postcode"
)

const moduleName = "geocode"

// Client calls the GhanaPost GPS lookup service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *metrics.Metrics
	logger     *logger.Logger
}

// NewClient creates a new gateway client. The timeout bounds each
// individual call (see config.GeocodeRequest).
func NewClient(baseURL string, timeout time.Duration, m *metrics.Metrics, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		metrics: m,
		logger:  log.WithModule(moduleName),
	}
}

// lookupResponse mirrors the upstream JSON envelope. Forward lookups
// carry rows under data.Table; reverse lookups carry data.gpscode.
type lookupResponse struct {
	Data struct {
		Table   []addressRow `json:"Table"`
		GPSCode string       `json:"gpscode"`
	} `json:"data"`
}

type addressRow struct {
	Street          string   `json:"Street"`
	District        string   `json:"District"`
	Region          string   `json:"Region"`
	CenterLatitude  *float64 `json:"CenterLatitude"`
	CenterLongitude *float64 `json:"CenterLongitude"`
}

// Lookup resolves a digital address to an address record.
// Returns nil on any failure: network error, timeout, non-success
// status, or a response without a usable record.
func (c *Client) Lookup(ctx context.Context, code postcode.Code) *AddressRecord {
	start := time.Now()
	log := c.logger.WithField("code", code.String())

	form := url.Values{}
	form.Set("address", code.String())

	resp, err := c.postForm(ctx, form)
	if err != nil {
		log.WithError(err).Warn("Forward lookup failed")
		c.metrics.RecordGeocode("forward", "error", time.Since(start).Seconds())
		return nil
	}

	if len(resp.Data.Table) == 0 {
		// Success response with no record is an expected outcome
		log.Debug("Forward lookup returned no record")
		c.metrics.RecordGeocode("forward", "not_found", time.Since(start).Seconds())
		return nil
	}

	row := resp.Data.Table[0]
	c.metrics.RecordGeocode("forward", "found", time.Since(start).Seconds())
	return &AddressRecord{
		Code:      code,
		Street:    orUnavailable(row.Street),
		District:  orUnavailable(row.District),
		Region:    orUnavailable(row.Region),
		Latitude:  row.CenterLatitude,
		Longitude: row.CenterLongitude,
	}
}

// ReverseLookup resolves coordinates to a digital address code.
// Returns the empty string on any failure or when the upstream has no
// code for the location.
func (c *Client) ReverseLookup(ctx context.Context, lat, lng float64) string {
	start := time.Now()
	log := c.logger.
		WithField("lat", lat).
		WithField("lng", lng)

	form := url.Values{}
	form.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	form.Set("long", strconv.FormatFloat(lng, 'f', -1, 64))

	resp, err := c.postForm(ctx, form)
	if err != nil {
		log.WithError(err).Warn("Reverse lookup failed")
		c.metrics.RecordGeocode("reverse", "error", time.Since(start).Seconds())
		return ""
	}

	code := strings.TrimSpace(resp.Data.GPSCode)
	if code == "" {
		log.Debug("Reverse lookup returned no code")
		c.metrics.RecordGeocode("reverse", "not_found", time.Since(start).Seconds())
		return ""
	}

	c.metrics.RecordGeocode("reverse", "found", time.Since(start).Seconds())
	return code
}

// Ping checks that the service endpoint is reachable. Used by the
// readiness probe; any HTTP response counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	_ = resp.Body.Close()
	return nil
}

// postForm performs one form-encoded POST against the service root and
// decodes the JSON envelope. Callers translate errors into the
// fail-soft contract.
func (c *Client) postForm(ctx context.Context, form url.Values) (*lookupResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("decompress gzip: %w", err)
		}
		defer func() { _ = gzipReader.Close() }()
		reader = gzipReader
	}

	body, err := io.ReadAll(io.LimitReader(reader, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("empty response body")
	}

	var parsed lookupResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	return &parsed, nil
}

// orUnavailable substitutes the "N/A" placeholder for missing fields.
func orUnavailable(s string) string {
	if strings.TrimSpace(s) == "" {
		return FieldUnavailable
	}
	return s
}
