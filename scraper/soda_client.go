// scraper/soda_client.go
package scraper

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mwenda/sf311-elt/config"
	"github.com/mwenda/sf311-elt/models"
)

// SodaClient fetches pages from a Socrata resource endpoint. Transient
// failures (network errors, 429, 5xx) are retried with backoff up to
// MaxRetries attempts; an exhausted retry is a fatal fetch failure for the
// run; pages are never silently skipped.
type SodaClient struct {
	BaseURL    string
	DatasetID  string
	AppToken   string
	MaxRetries int
	RetryDelay time.Duration // base backoff between attempts
	HTTPClient *http.Client
}

// NewSodaClient builds a client from configuration.
func NewSodaClient(cfg config.SocrataConfig) *SodaClient {
	return &SodaClient{
		BaseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		DatasetID:  cfg.DatasetID,
		AppToken:   cfg.AppToken,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: 2 * time.Second,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchPage requests one offset window of records matching the SoQL
// predicate. Pages are ordered by the row identifier so offset windows stay
// stable while the remote dataset is being updated.
func (c *SodaClient) FetchPage(where string, offset, limit int) ([]models.ServiceRequestRecord, error) {
	endpoint := fmt.Sprintf("%s/resource/%s.json", c.BaseURL, c.DatasetID)

	params := url.Values{}
	params.Set("$where", where)
	params.Set("$order", ":id")
	params.Set("$limit", strconv.Itoa(limit))
	params.Set("$offset", strconv.Itoa(offset))
	pageURL := endpoint + "?" + params.Encode()

	attempts := c.MaxRetries
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			backoff := time.Duration(attempt-1) * c.RetryDelay
			log.Printf("WARN Scraper: retrying page at offset %d in %s (attempt %d/%d): %v\n",
				offset, backoff, attempt, attempts, lastErr)
			time.Sleep(backoff)
		}

		records, retryable, err := c.fetchOnce(pageURL)
		if err == nil {
			return records, nil
		}
		lastErr = err
		if !retryable {
			return nil, lastErr
		}
	}
	return nil, fmt.Errorf("page at offset %d failed after %d attempts: %w", offset, attempts, lastErr)
}

func (c *SodaClient) fetchOnce(pageURL string) (records []models.ServiceRequestRecord, retryable bool, err error) {
	req, err := http.NewRequest(http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.AppToken != "" {
		req.Header.Set("X-App-Token", c.AppToken)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		io.Copy(io.Discard, resp.Body)
		return nil, true, fmt.Errorf("received status code %d", resp.StatusCode)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, false, fmt.Errorf("received status code %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, false, fmt.Errorf("failed to decode response body: %w", err)
	}
	return records, false, nil
}
