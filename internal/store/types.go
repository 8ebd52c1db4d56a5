package store

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the calendar-date layout used for assignment dates.
const DateFormat = "2006-01-02"

// Project status values.
const (
	ProjectStatusActive    = "Active"
	ProjectStatusOnHold    = "On Hold"
	ProjectStatusCompleted = "Completed"
)

// Assignment status values.
const (
	AssignmentStatusAssigned  = "Assigned"
	AssignmentStatusConfirmed = "Confirmed"
	AssignmentStatusCompleted = "Completed"
)

// Employee is a worker record hydrated from the snapshot loader or demo seed.
type Employee struct {
	ID         int             `json:"employee_id"`
	FirstName  string          `json:"first_name"`
	LastName   string          `json:"last_name"`
	Name       string          `json:"name"`
	Trade      string          `json:"trade"`
	Level      string          `json:"level"`
	HourlyRate decimal.Decimal `json:"hourly_rate"`
	IsActive   bool            `json:"is_active"`
	HireDate   time.Time       `json:"hire_date"`
	Phone      string          `json:"phone"`
	Email      string          `json:"email"`
	Supervisor string          `json:"supervisor,omitempty"`
	Type       string          `json:"type,omitempty"`
}

// Project is a work order employees are assigned to.
type Project struct {
	ID             int             `json:"project_id"`
	Name           string          `json:"name"`
	Status         string          `json:"status"`
	EstimatedHours decimal.Decimal `json:"estimated_hours"`
	ActualHours    decimal.Decimal `json:"actual_hours"`
	ProjectManager string          `json:"project_manager"`
}

// Assignment links one employee to one project for a single calendar date.
type Assignment struct {
	ID            int             `json:"assignment_id"`
	EmployeeID    int             `json:"employee_id"`
	ProjectID     int             `json:"project_id"`
	Date          string          `json:"assignment_date"`
	HoursAssigned decimal.Decimal `json:"hours_assigned"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// AssignmentDetail is an assignment with its employee record embedded, as the
// weekly schedule view needs both.
type AssignmentDetail struct {
	Assignment
	Employee Employee `json:"employee"`
}

// WeekSchedule maps date -> project ID -> assignments for that project/date.
type WeekSchedule map[string]map[int][]AssignmentDetail

// DashboardMetrics aggregates the counts shown on the operations dashboard.
type DashboardMetrics struct {
	ActiveEmployees  int        `json:"active_employees"`
	ActiveProjects   int        `json:"active_projects"`
	TodayAssignments int        `json:"today_assignments"`
	UnassignedToday  []Employee `json:"unassigned_today"`
}

// CreateAssignmentParams carries the validated inputs for a new assignment.
type CreateAssignmentParams struct {
	EmployeeID    int
	ProjectID     int
	Date          string
	HoursAssigned decimal.Decimal
	Status        string
}

// AssignmentPatch whitelists the mutable assignment fields. Nil fields are
// left untouched; IDs and audit timestamps are never patchable.
type AssignmentPatch struct {
	Date          *string
	HoursAssigned *decimal.Decimal
	Status        *string
}
