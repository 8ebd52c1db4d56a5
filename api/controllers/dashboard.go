package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/higherself/network-server/api/responses"
	"github.com/higherself/network-server/api/validators"
	"github.com/higherself/network-server/internal/store"
	pkgerrors "github.com/higherself/network-server/pkg/errors"
	"github.com/higherself/network-server/pkg/logger"
)

// CreateAssignmentRequest is the POST body for a new assignment.
type CreateAssignmentRequest struct {
	EmployeeID    int     `json:"employee_id" validate:"required,min=1"`
	ProjectID     int     `json:"project_id" validate:"required,min=1"`
	Date          string  `json:"assignment_date" validate:"required"`
	HoursAssigned float64 `json:"hours_assigned" validate:"required,gt=0,lte=24"`
	Status        string  `json:"status" validate:"omitempty,oneof=Assigned Confirmed Completed"`
}

// UpdateAssignmentRequest is the PATCH body; absent fields are untouched.
type UpdateAssignmentRequest struct {
	Date          *string  `json:"assignment_date"`
	HoursAssigned *float64 `json:"hours_assigned" validate:"omitempty,gt=0,lte=24"`
	Status        *string  `json:"status" validate:"omitempty,oneof=Assigned Confirmed Completed"`
}

// DashboardMetrics returns the headline counts for the operations dashboard.
func DashboardMetrics(st *store.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		today := r.URL.Query().Get("date")
		if today == "" {
			today = time.Now().UTC().Format(store.DateFormat)
		}
		metrics, err := st.DashboardMetrics(today)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, metrics)
	}
}

// DashboardEmployees lists employees; ?active=true narrows to active ones.
func DashboardEmployees(st *store.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		active, err := validators.ParseQueryBool(r, "active")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if active != nil && *active {
			responses.WriteSuccess(w, st.ActiveEmployees())
			return
		}
		responses.WriteSuccess(w, st.Employees())
	}
}

// DashboardUnassignedEmployees lists active employees with no assignment on
// the given date.
func DashboardUnassignedEmployees(st *store.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, err := validators.ParseQueryDate(r, "date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		employees, err := st.UnassignedEmployees(date)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, employees)
	}
}

// DashboardProjects lists projects; ?active=true narrows to active ones.
func DashboardProjects(st *store.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		active, err := validators.ParseQueryBool(r, "active")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if active != nil && *active {
			responses.WriteSuccess(w, st.ActiveProjects())
			return
		}
		responses.WriteSuccess(w, st.Projects())
	}
}

// AssignmentsList returns every assignment, oldest first.
func AssignmentsList(st *store.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, st.Assignments())
	}
}

// AssignmentsWeek returns the 7-day schedule starting at ?week_start.
func AssignmentsWeek(st *store.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		weekStart, err := validators.ParseQueryDate(r, "week_start")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		schedule, err := st.WeekAssignments(weekStart)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, schedule)
	}
}

// AssignmentCreate books an employee onto a project for one date.
func AssignmentCreate(st *store.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body CreateAssignmentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		assignment, err := st.CreateAssignment(store.CreateAssignmentParams{
			EmployeeID:    body.EmployeeID,
			ProjectID:     body.ProjectID,
			Date:          body.Date,
			HoursAssigned: decimal.NewFromFloat(body.HoursAssigned),
			Status:        body.Status,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, assignment)
	}
}

// AssignmentUpdate patches the mutable fields of an assignment.
func AssignmentUpdate(st *store.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := assignmentID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body UpdateAssignmentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		patch := store.AssignmentPatch{
			Date:   body.Date,
			Status: body.Status,
		}
		if body.HoursAssigned != nil {
			hours := decimal.NewFromFloat(*body.HoursAssigned)
			patch.HoursAssigned = &hours
		}

		assignment, err := st.UpdateAssignment(id, patch)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, assignment)
	}
}

// AssignmentDelete removes an assignment.
func AssignmentDelete(st *store.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := assignmentID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := st.DeleteAssignment(id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func assignmentID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "assignmentId")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "assignment id must be a positive integer")
	}
	return id, nil
}
