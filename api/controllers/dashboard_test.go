package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/higherself/network-server/internal/store"
	"github.com/shopspring/decimal"
)

func seededDashboardStore(t *testing.T) *store.Store {
	t.Helper()
	st := store.New()
	st.SeedEmployees(store.DemoEmployees())
	st.SeedProjects(store.DemoProjects())
	return st
}

func withAssignmentID(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("assignmentId", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestAssignmentCreateAndList(t *testing.T) {
	st := seededDashboardStore(t)

	create := AssignmentCreate(st, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/dashboard/assignments", bytes.NewReader([]byte(
		`{"employee_id":1,"project_id":101,"assignment_date":"2025-02-05","hours_assigned":8}`,
	)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	create.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}

	var created struct {
		Data store.Assignment `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.Data.Status != store.AssignmentStatusAssigned {
		t.Fatalf("expected default status got %q", created.Data.Status)
	}

	list := AssignmentsList(st, nil)
	resp = httptest.NewRecorder()
	list.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/dashboard/assignments", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var listed struct {
		Data []store.Assignment `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listed); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(listed.Data) != 1 || listed.Data[0].ID != created.Data.ID {
		t.Fatalf("expected the created assignment in the list, got %+v", listed.Data)
	}
}

func TestAssignmentCreateValidation(t *testing.T) {
	handler := AssignmentCreate(seededDashboardStore(t), nil)

	cases := []struct {
		name string
		body string
		want int
	}{
		{"missing employee", `{"project_id":101,"assignment_date":"2025-02-05","hours_assigned":8}`, http.StatusBadRequest},
		{"too many hours", `{"employee_id":1,"project_id":101,"assignment_date":"2025-02-05","hours_assigned":25}`, http.StatusBadRequest},
		{"bad status", `{"employee_id":1,"project_id":101,"assignment_date":"2025-02-05","hours_assigned":8,"status":"Paused"}`, http.StatusBadRequest},
		{"unknown employee", `{"employee_id":999,"project_id":101,"assignment_date":"2025-02-05","hours_assigned":8}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/dashboard/assignments", bytes.NewReader([]byte(tc.body)))
			req.Header.Set("Content-Type", "application/json")
			resp := httptest.NewRecorder()

			handler.ServeHTTP(resp, req)
			if resp.Code != tc.want {
				t.Fatalf("expected %d got %d: %s", tc.want, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestAssignmentCreateDuplicateConflicts(t *testing.T) {
	st := seededDashboardStore(t)
	handler := AssignmentCreate(st, nil)
	body := `{"employee_id":1,"project_id":101,"assignment_date":"2025-02-05","hours_assigned":8}`

	for i, want := range []int{http.StatusCreated, http.StatusConflict} {
		req := httptest.NewRequest(http.MethodPost, "/api/dashboard/assignments", bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()

		handler.ServeHTTP(resp, req)
		if resp.Code != want {
			t.Fatalf("attempt %d: expected %d got %d", i+1, want, resp.Code)
		}
	}
}

func TestAssignmentUpdateAndDelete(t *testing.T) {
	st := seededDashboardStore(t)
	created, err := st.CreateAssignment(store.CreateAssignmentParams{
		EmployeeID:    1,
		ProjectID:     101,
		Date:          "2025-02-05",
		HoursAssigned: decimal.NewFromInt(8),
	})
	if err != nil {
		t.Fatalf("seed assignment: %v", err)
	}

	update := AssignmentUpdate(st, nil)
	req := httptest.NewRequest(http.MethodPatch, "/api/dashboard/assignments/1", bytes.NewReader([]byte(`{"status":"Confirmed"}`)))
	req.Header.Set("Content-Type", "application/json")
	req = withAssignmentID(req, "1")
	resp := httptest.NewRecorder()

	update.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var updated struct {
		Data store.Assignment `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		t.Fatalf("decode update response: %v", err)
	}
	if updated.Data.Status != store.AssignmentStatusConfirmed {
		t.Fatalf("expected Confirmed got %q", updated.Data.Status)
	}
	if updated.Data.EmployeeID != created.EmployeeID {
		t.Fatalf("identity fields must not change: %+v", updated.Data)
	}

	del := AssignmentDelete(st, nil)
	req = withAssignmentID(httptest.NewRequest(http.MethodDelete, "/api/dashboard/assignments/1", nil), "1")
	resp = httptest.NewRecorder()

	del.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	req = withAssignmentID(httptest.NewRequest(http.MethodDelete, "/api/dashboard/assignments/1", nil), "1")
	resp = httptest.NewRecorder()
	del.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for second delete got %d", resp.Code)
	}
}

func TestAssignmentInvalidID(t *testing.T) {
	handler := AssignmentDelete(seededDashboardStore(t), nil)
	req := withAssignmentID(httptest.NewRequest(http.MethodDelete, "/api/dashboard/assignments/nope", nil), "nope")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestDashboardUnassignedRequiresDate(t *testing.T) {
	handler := DashboardUnassignedEmployees(seededDashboardStore(t), nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/dashboard/employees/unassigned", nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without date got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/dashboard/employees/unassigned?date=2025-02-05", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestDashboardEmployeesActiveFilter(t *testing.T) {
	st := seededDashboardStore(t)
	handler := DashboardEmployees(st, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/dashboard/employees?active=true", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data []store.Employee `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	for _, emp := range envelope.Data {
		if !emp.IsActive {
			t.Fatalf("inactive employee %d in active listing", emp.ID)
		}
	}

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/dashboard/employees?active=banana", nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad boolean got %d", resp.Code)
	}
}
