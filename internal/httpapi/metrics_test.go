package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMetricsRecordRequests(t *testing.T) {
	r := NewMux(&mockService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/models", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("metrics status=%d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "inferd_http_requests_total") {
		t.Fatal("request counter missing from scrape")
	}
	if !strings.Contains(body, "inferd_http_request_duration_seconds") {
		t.Fatal("duration histogram missing from scrape")
	}
}

func TestMetricsCaptureErrorStatus(t *testing.T) {
	r := NewMux(&mockService{})

	w := postJSON(r, "/generate", "not-json")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}

	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(w2.Body.String(), `status="400"`) {
		t.Fatal("400 status label missing from scrape")
	}
}

func TestItoa(t *testing.T) {
	cases := map[int]string{0: "0", 200: "200", 404: "404", 1234: "1234"}
	for in, want := range cases {
		if got := itoa(in); got != want {
			t.Fatalf("itoa(%d)=%q want %q", in, got, want)
		}
	}
}
