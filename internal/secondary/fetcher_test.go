package secondary

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestFetcherFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/PublicHolidays/2026/CN" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"date": "2026-01-01", "localName": "元旦", "name": "New Year's Day"},
			{"date": "2026-02-17", "localName": "春节", "name": "Chinese New Year"},
			{"date": "2026-10-01", "localName": "", "name": "National Day"}
		]`))
	}))
	defer srv.Close()

	fetcher := NewFetcher(srv.URL+"/api/v3/PublicHolidays/{year}/CN", time.Second, zap.NewNop())

	got := fetcher.Fetch(2026)

	if len(got) != 3 {
		t.Fatalf("Fetch() returned %d entries, want 3", len(got))
	}
	if got["2026-01-01"] != "元旦" {
		t.Errorf("Fetch()[2026-01-01] = %q, want 元旦", got["2026-01-01"])
	}
	// English name fills in when the local name is missing.
	if got["2026-10-01"] != "National Day" {
		t.Errorf("Fetch()[2026-10-01] = %q, want National Day", got["2026-10-01"])
	}
}

func TestFetcherFetch_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "oops", http.StatusInternalServerError)
			},
		},
		{
			name: "malformed payload",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"not": "a list"}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			fetcher := NewFetcher(srv.URL+"/{year}", time.Second, zap.NewNop())

			if got := fetcher.Fetch(2026); len(got) != 0 {
				t.Errorf("Fetch() = %v, want empty map", got)
			}
		})
	}
}

func TestFetcherFetch_Unreachable(t *testing.T) {
	// Closed server: connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	fetcher := NewFetcher(srv.URL+"/{year}", time.Second, zap.NewNop())

	if got := fetcher.Fetch(2026); len(got) != 0 {
		t.Errorf("Fetch() = %v, want empty map", got)
	}
}
