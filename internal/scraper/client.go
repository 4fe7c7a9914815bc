package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 30 * time.Second

// Browser-looking headers. The books serve the same JSON either way but are
// quicker to rate-limit obvious bots.
var defaultHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Accept":          "application/json",
	"Accept-Language": "en-US,en;q=0.9",
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// getJSON fetches url and decodes the response body into v. Network and
// HTTP-status failures come back as ErrNetwork, undecodable bodies as
// ErrParse.
func getJSON(ctx context.Context, client *http.Client, bookmaker, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fetchErr(bookmaker, ErrNetwork, fmt.Errorf("build request: %w", err))
	}
	for k, val := range defaultHeaders {
		req.Header.Set(k, val)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fetchErr(bookmaker, ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fetchErr(bookmaker, ErrNetwork,
			fmt.Errorf("GET %s: status %d: %s", url, resp.StatusCode, string(body)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fetchErr(bookmaker, ErrNetwork, fmt.Errorf("read body: %w", err))
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fetchErr(bookmaker, ErrParse, fmt.Errorf("decode %s: %w", url, err))
	}
	return nil
}
