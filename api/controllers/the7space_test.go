package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/higherself/network-server/internal/the7space"
)

func galleryService() the7space.Service {
	return the7space.NewService(the7space.ServiceParams{})
}

func TestThe7SpaceCatalogEndpoints(t *testing.T) {
	svc := galleryService()

	endpoints := []struct {
		name    string
		handler http.HandlerFunc
		path    string
	}{
		{"artworks", The7SpaceArtworks(svc, nil), "/api/the7space/artworks"},
		{"events", The7SpaceEvents(svc, nil), "/api/the7space/events"},
		{"services", The7SpaceServices(svc, nil), "/api/the7space/services"},
	}
	for _, ep := range endpoints {
		t.Run(ep.name, func(t *testing.T) {
			resp := httptest.NewRecorder()
			ep.handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, ep.path, nil))
			if resp.Code != http.StatusOK {
				t.Fatalf("expected 200 got %d", resp.Code)
			}

			var envelope struct {
				Data []json.RawMessage `json:"data"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if len(envelope.Data) == 0 {
				t.Fatalf("expected seeded catalog entries")
			}
		})
	}
}

func TestThe7SpaceContactCreate(t *testing.T) {
	handler := The7SpaceContactCreate(galleryService(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/the7space/contacts", bytes.NewReader([]byte(
		`{"name":"Iris Vale","email":"iris@example.com","message":"Interested in the new collection"}`,
	)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data the7space.Contact `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID == 0 || envelope.Data.Email != "iris@example.com" {
		t.Fatalf("unexpected contact payload %+v", envelope.Data)
	}
}

func TestThe7SpaceContactCreateRejectsBadEmail(t *testing.T) {
	handler := The7SpaceContactCreate(galleryService(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/the7space/contacts", bytes.NewReader([]byte(
		`{"name":"Iris Vale","email":"not-an-email"}`,
	)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestThe7SpaceAppointmentFlow(t *testing.T) {
	svc := galleryService()
	book := The7SpaceAppointmentCreate(svc, nil)
	body := `{"service_id":1,"name":"Iris Vale","email":"iris@example.com","date":"2025-02-10","slot":"10:00"}`

	req := httptest.NewRequest(http.MethodPost, "/api/the7space/appointments", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	book.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}

	// Booking the same slot again conflicts.
	req = httptest.NewRequest(http.MethodPost, "/api/the7space/appointments", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp = httptest.NewRecorder()

	book.ServeHTTP(resp, req)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}

	availability := The7SpaceAvailability(svc, nil)
	resp = httptest.NewRecorder()
	availability.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/the7space/availability?service_id=1&date=2025-02-10", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data the7space.Availability `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	for _, slot := range envelope.Data.Slots {
		if slot == "10:00" {
			t.Fatalf("booked slot still offered")
		}
	}
}

func TestThe7SpaceAvailabilityRequiresParams(t *testing.T) {
	handler := The7SpaceAvailability(galleryService(), nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/the7space/availability?date=2025-02-10", nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without service_id got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/the7space/availability?service_id=1", nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without date got %d", resp.Code)
	}
}

func TestThe7SpaceAnalyticsTrack(t *testing.T) {
	handler := The7SpaceAnalyticsTrack(galleryService(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/the7space/analytics", bytes.NewReader([]byte(`{"event":"page_view"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data map[string]string `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data["status"] != "tracked" {
		t.Fatalf("expected tracked status got %v", envelope.Data)
	}
}
