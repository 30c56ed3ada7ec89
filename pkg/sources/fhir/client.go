// Package fhir provides a live patient source backed by a FHIR R4 server.
//
// The source searches catheter devices with their patient references included,
// follows bundle pagination, and takes the device's meta.lastUpdated as the
// insertion timestamp. That last point is a known simplification inherited
// from the clinical prototype: real deployments should read the insertion
// time from the device's recorded period.
package fhir

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dwellwatch/dwellwatch/pkg/protocol"
)

const (
	// DefaultBaseURL is the public HAPI FHIR R4 test server.
	DefaultBaseURL = "https://hapi.fhir.org/baseR4"

	// SNOMEDSystem and UrinaryCatheterCode identify urinary catheter devices
	// in FHIR type codings.
	SNOMEDSystem        = "http://snomed.info/sct"
	UrinaryCatheterCode = "303620002"

	defaultTimeout       = 30 * time.Second
	defaultRetryAttempts = 3
	defaultRetryDelay    = 2 * time.Second
)

// Client is a minimal FHIR R4 HTTP client for the device search the watchdog
// needs. It is not a general FHIR client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retry      RetryConfig
	logger     *slog.Logger
}

// RetryConfig defines retry behavior for FHIR requests.
type RetryConfig struct {
	Attempts int
	Delay    time.Duration
}

func NewClient(baseURL string, timeout time.Duration, retry RetryConfig, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	if timeout <= 0 {
		timeout = defaultTimeout
	}

	if retry.Attempts <= 0 {
		retry.Attempts = defaultRetryAttempts
	}

	if retry.Delay <= 0 {
		retry.Delay = defaultRetryDelay
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		retry:      retry,
		logger:     logger.With("module", "fhir_client", "base_url", baseURL),
	}
}

// CheckStatus probes the server's metadata endpoint. An unreachable server
// means nothing can be evaluated, so the failure is batch-level.
func (c *Client) CheckStatus(ctx context.Context) error {
	body, err := c.get(ctx, c.baseURL+"/metadata")
	if err != nil {
		return fmt.Errorf("server status check failed: %w: %w", protocol.ErrSourceUnavailable, err)
	}

	body.Close()

	return nil
}

// SearchCatheterDevices fetches all catheter device bundle pages, starting
// from the type=catheter search with patient references included.
func (c *Client) SearchCatheterDevices(ctx context.Context) ([]Bundle, error) {
	searchURL := c.baseURL + "/Device?" + url.Values{
		"type":     []string{"catheter"},
		"_include": []string{"Device:patient"},
	}.Encode()

	var bundles []Bundle

	for searchURL != "" {
		bundle, err := c.fetchBundle(ctx, searchURL)
		if err != nil {
			return nil, err
		}

		bundles = append(bundles, *bundle)
		searchURL = bundle.NextLink()

		if searchURL != "" {
			c.logger.Debug("Fetching next bundle page", "url", searchURL)
		}
	}

	return bundles, nil
}

func (c *Client) fetchBundle(ctx context.Context, requestURL string) (*Bundle, error) {
	body, err := c.get(ctx, requestURL)
	if err != nil {
		return nil, fmt.Errorf("device search failed: %w: %w", protocol.ErrSourceUnavailable, err)
	}
	defer body.Close()

	var bundle Bundle
	if err := json.NewDecoder(body).Decode(&bundle); err != nil {
		return nil, fmt.Errorf("failed to decode bundle from %s: %w", requestURL, err)
	}

	return &bundle, nil
}

// get performs a GET with retry on transport errors and 5xx responses.
func (c *Client) get(ctx context.Context, requestURL string) (io.ReadCloser, error) {
	var (
		lastErr error
		resp    *http.Response
	)

	for attempt := 1; attempt <= c.retry.Attempts; attempt++ {
		if attempt > 1 {
			c.logger.InfoContext(ctx, fmt.Sprintf("FHIR request retry attempt %d/%d", attempt, c.retry.Attempts))
			time.Sleep(c.retry.Delay)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return nil, err
		}

		req.Header.Set("Accept", "application/fhir+json")

		resp, err = c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("http request failed: %w", err)
			resp = nil

			continue
		}

		if resp.StatusCode >= http.StatusInternalServerError && attempt < c.retry.Attempts {
			err = resp.Body.Close()
			if err != nil {
				c.logger.ErrorContext(ctx, "failed to close response body", "error", err)
			}

			lastErr = fmt.Errorf("server error (status %d), retrying", resp.StatusCode)
			resp = nil

			continue
		}

		break
	}

	if resp == nil {
		return nil, fmt.Errorf("all retry attempts failed, last error: %w", lastErr)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()

		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, requestURL)
	}

	return resp.Body, nil
}
