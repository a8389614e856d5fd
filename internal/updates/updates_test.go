package updates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLatestFrom(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tag_name":"v1.4.0","html_url":"https://example.com"}`))
	}))
	defer server.Close()

	got, err := latestFrom(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("latestFrom: %v", err)
	}
	if got != "1.4.0" {
		t.Errorf("latest = %q, want 1.4.0", got)
	}
}

func TestLatestFromBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	if _, err := latestFrom(context.Background(), server.URL); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}

func TestNewer(t *testing.T) {
	cases := []struct {
		current, latest string
		want            bool
	}{
		{"1.0.0", "1.0.1", true},
		{"1.0.0", "1.1.0", true},
		{"1.2.3", "2.0.0", true},
		{"1.0.1", "1.0.0", false},
		{"1.0.0", "1.0.0", false},
		{"dev", "9.9.9", false},
		{"v1.0.0", "v1.2.0", true},
		{"", "1.0.0", false},
	}
	for _, tc := range cases {
		if got := Newer(tc.current, tc.latest); got != tc.want {
			t.Errorf("Newer(%q, %q) = %v, want %v", tc.current, tc.latest, got, tc.want)
		}
	}
}
