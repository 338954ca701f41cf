package feed

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

const reportsJSON = `[
	{"epsDate":"2025-07-27T12:50:00","ticker":"CNC","name":"Centene",
	 "subject":"Centene Missed Consensus Estimates","revenue":48740}
]`

// newFeedServer fakes the upstream's two-step protocol: the calendar page
// issues a session cookie and the API endpoint requires it back along with
// the AJAX headers.
func newFeedServer(t *testing.T, apiBody string, apiStatus int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/calendar":
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc123"})
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte("<html></html>"))
		case "/api/todaysresults":
			if c, err := r.Cookie("session"); err != nil || c.Value != "abc123" {
				t.Error("data request missing warmed session cookie")
			}
			if r.Header.Get("X-Requested-With") != "XMLHttpRequest" {
				t.Error("data request missing X-Requested-With header")
			}
			if r.Header.Get("Referer") == "" {
				t.Error("data request missing Referer header")
			}
			if r.Header.Get("Cache-Control") != "no-cache" || r.Header.Get("Pragma") != "no-cache" {
				t.Error("data request missing cache-busting headers")
			}
			w.WriteHeader(apiStatus)
			w.Write([]byte(apiBody))
		default:
			http.NotFound(w, r)
		}
	}))
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(baseURL, "/calendar", "/api/todaysresults", "")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestFetchReports(t *testing.T) {
	srv := newFeedServer(t, reportsJSON, http.StatusOK)
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	defer c.Close()

	records, err := c.FetchReports()
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	r := records[0]
	if r.Ticker != "CNC" || r.EpsDate != "2025-07-27T12:50:00" {
		t.Errorf("unexpected record: %+v", r)
	}
	if r.Revenue == nil || *r.Revenue != 48740 {
		t.Errorf("unexpected revenue: %v", r.Revenue)
	}
	if r.Whisper != nil {
		t.Errorf("expected nil whisper for absent field, got %v", *r.Whisper)
	}
}

func TestFetchReports_NonArrayBody(t *testing.T) {
	srv := newFeedServer(t, `{"error":"maintenance"}`, http.StatusOK)
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	defer c.Close()

	_, err := c.FetchReports()
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fe.Step != "data" {
		t.Errorf("expected data step failure, got %q", fe.Step)
	}
}

func TestFetchReports_DataStatusError(t *testing.T) {
	srv := newFeedServer(t, "denied", http.StatusForbidden)
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	defer c.Close()

	_, err := c.FetchReports()
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fe.Step != "data" {
		t.Errorf("expected data step failure, got %q", fe.Step)
	}
}

func TestFetchReports_WarmupFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	defer c.Close()

	_, err := c.FetchReports()
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fe.Step != "warmup" {
		t.Errorf("expected warmup step failure, got %q", fe.Step)
	}
}
