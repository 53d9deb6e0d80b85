package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestObserveAndExpose(t *testing.T) {
	m := NewHTTPMetrics()
	m.Observe(http.MethodGet, "/api/v1/products", 200, 15*time.Millisecond)
	m.Observe(http.MethodPost, "/api/v1/products", 409, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from metrics handler, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "http_requests_total") {
		t.Fatalf("expected request counter in exposition, got:\n%s", body)
	}
	if !strings.Contains(body, `status="4xx"`) {
		t.Fatalf("expected 4xx status label in exposition")
	}
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *HTTPMetrics
	m.Observe(http.MethodGet, "", 200, time.Millisecond)
	done := m.TrackInFlight()
	done()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for nil metrics handler, got %d", rec.Code)
	}
}
