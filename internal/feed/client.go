package feed

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/pworker3/whispers/internal/model"
)

const browserUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// FetchError reports which step of the two-request protocol failed.
type FetchError struct {
	Step string // "warmup" or "data"
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Step, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client fetches the earnings feed. The upstream site only serves its JSON
// endpoint to sessions that already hold cookies from a page view, so every
// fetch first warms a cookie jar against the calendar page and then issues
// the data request through the same jar.
type Client struct {
	baseURL      string
	calendarPath string
	apiPath      string
	httpClient   *http.Client
}

// NewClient creates a feed client with optional proxy support.
func NewClient(baseURL, calendarPath, apiPath, proxyURL string) (*Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &Client{
		baseURL:      baseURL,
		calendarPath: calendarPath,
		apiPath:      apiPath,
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
			Jar:       jar,
		},
	}, nil
}

// FetchReports runs the warm-up request and then the authenticated data
// request, returning the feed's current report list.
func (c *Client) FetchReports() ([]model.ReportRecord, error) {
	if err := c.warmup(); err != nil {
		return nil, &FetchError{Step: "warmup", Err: err}
	}
	records, err := c.fetchData()
	if err != nil {
		return nil, &FetchError{Step: "data", Err: err}
	}
	return records, nil
}

// Close releases any idle connections held by the session.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// warmup hits the human-facing calendar page so the server issues session
// cookies into the jar. The HTML body is discarded.
func (c *Client) warmup() error {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+c.calendarPath, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", browserUA)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) fetchData() ([]model.ReportRecord, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+c.apiPath, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUA)
	req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("Referer", c.baseURL+c.calendarPath)
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d, body: %.200s", resp.StatusCode, string(body))
	}

	// The endpoint returns a bare JSON array. Anything else is a failure.
	var records []model.ReportRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("decode reports: %w", err)
	}
	return records, nil
}
