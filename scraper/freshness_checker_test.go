// scraper/freshness_checker_test.go
package scraper

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func servePage(t *testing.T, html string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, html)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestCheckPortalUpdatedDatePrefersDatetimeAttr(t *testing.T) {
	server := servePage(t, `<html><body>
		<time class="updated" datetime="2025-10-18T14:30:00Z">October 18, 2025</time>
	</body></html>`)

	got, err := CheckPortalUpdatedDate(server.URL, "time.updated")
	if err != nil {
		t.Fatalf("CheckPortalUpdatedDate failed: %v", err)
	}
	want := time.Date(2025, time.October, 18, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCheckPortalUpdatedDateFallsBackToText(t *testing.T) {
	server := servePage(t, `<html><body>
		<span class="meta">Data last updated October 18, 2025</span>
	</body></html>`)

	got, err := CheckPortalUpdatedDate(server.URL, "span.meta")
	if err != nil {
		t.Fatalf("CheckPortalUpdatedDate failed: %v", err)
	}
	want := time.Date(2025, time.October, 18, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCheckPortalUpdatedDateISOText(t *testing.T) {
	server := servePage(t, `<html><body><div id="d">Updated: 2025-10-18</div></body></html>`)

	got, err := CheckPortalUpdatedDate(server.URL, "#d")
	if err != nil {
		t.Fatalf("CheckPortalUpdatedDate failed: %v", err)
	}
	want := time.Date(2025, time.October, 18, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCheckPortalUpdatedDateSelectorMiss(t *testing.T) {
	server := servePage(t, `<html><body><p>nothing here</p></body></html>`)

	if _, err := CheckPortalUpdatedDate(server.URL, "time.updated"); err == nil {
		t.Fatal("expected an error when the selector matches nothing")
	}
}

func TestCheckPortalUpdatedDateNoDateInText(t *testing.T) {
	server := servePage(t, `<html><body><div id="d">refreshed recently</div></body></html>`)

	if _, err := CheckPortalUpdatedDate(server.URL, "#d"); err == nil {
		t.Fatal("expected an error when no date is recognizable")
	}
}

func TestCheckPortalUpdatedDateHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	if _, err := CheckPortalUpdatedDate(server.URL, "time"); err == nil {
		t.Fatal("expected an error for a non-200 response")
	}
}
