package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAPIKeyAcceptsMatchingKey(t *testing.T) {
	handler := APIKey("secret-key", nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/the7space/artworks", nil)
	req.Header.Set("Authorization", "Bearer secret-key")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestAPIKeyRejectsWrongKey(t *testing.T) {
	handler := APIKey("secret-key", nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/the7space/artworks", nil)
	req.Header.Set("Authorization", "Bearer wrong-key")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAPIKeyRejectsMissingHeader(t *testing.T) {
	handler := APIKey("secret-key", nil)(okHandler())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/the7space/artworks", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAPIKeyEmptyConfigClosesSurface(t *testing.T) {
	handler := APIKey("", nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/the7space/artworks", nil)
	req.Header.Set("Authorization", "Bearer anything")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}
