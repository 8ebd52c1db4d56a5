package store

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/higherself/network-server/pkg/db/models"
	pkgerrors "github.com/higherself/network-server/pkg/errors"
)

// Store holds the demo-mode collections behind a single mutex so concurrent
// handlers cannot race on reads, writes, or ID generation. It replaces any
// module-level singleton: callers receive an instance and inject it.
type Store struct {
	mu sync.RWMutex

	users       []models.User
	employees   []Employee
	projects    []Project
	assignments []Assignment

	nextAssignmentID int
}

// New returns an empty store. Seed* methods hydrate it at startup.
func New() *Store {
	return &Store{nextAssignmentID: 1}
}

// SeedUsers replaces the user collection.
func (s *Store) SeedUsers(users []models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append([]models.User(nil), users...)
}

// SeedEmployees replaces the employee collection.
func (s *Store) SeedEmployees(employees []Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees = append([]Employee(nil), employees...)
}

// SeedProjects replaces the project collection.
func (s *Store) SeedProjects(projects []Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = append([]Project(nil), projects...)
}

// SeedAssignments replaces the assignment collection and advances the ID
// counter past the highest seeded ID.
func (s *Store) SeedAssignments(assignments []Assignment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments = append([]Assignment(nil), assignments...)
	s.nextAssignmentID = 1
	for _, a := range s.assignments {
		if a.ID >= s.nextAssignmentID {
			s.nextAssignmentID = a.ID + 1
		}
	}
}

// FindUserByID returns a copy of the user with the given ID.
func (s *Store) FindUserByID(id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID.String() == id {
			return u, nil
		}
	}
	return models.User{}, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("user %s not found", id))
}

// FindUserByIdentifier matches username or email, case-insensitively.
func (s *Store) FindUserByIdentifier(identifier string) (models.User, error) {
	needle := strings.ToLower(strings.TrimSpace(identifier))
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.ToLower(u.Username) == needle || strings.ToLower(u.Email) == needle {
			return u, nil
		}
	}
	return models.User{}, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
}

// UpsertUser inserts or replaces a user by ID.
func (s *Store) UpsertUser(user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, u := range s.users {
		if u.ID == user.ID {
			s.users[i] = user
			return
		}
	}
	s.users = append(s.users, user)
}

// TouchUserLogin records a successful login timestamp for the user.
func (s *Store) TouchUserLogin(id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID.String() == id {
			ts := at
			s.users[i].LastLoginAt = &ts
			s.users[i].UpdatedAt = at
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("user %s not found", id))
}

// Employees returns a copy of every employee record.
func (s *Store) Employees() []Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Employee(nil), s.employees...)
}

// ActiveEmployees returns copies of employees flagged active.
func (s *Store) ActiveEmployees() []Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Employee, 0, len(s.employees))
	for _, e := range s.employees {
		if e.IsActive {
			out = append(out, e)
		}
	}
	return out
}

// Projects returns a copy of every project record.
func (s *Store) Projects() []Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Project(nil), s.projects...)
}

// ActiveProjects returns copies of projects whose status is Active.
func (s *Store) ActiveProjects() []Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Project, 0, len(s.projects))
	for _, p := range s.projects {
		if p.Status == ProjectStatusActive {
			out = append(out, p)
		}
	}
	return out
}

// UnassignedEmployees returns active employees with no assignment on date.
func (s *Store) UnassignedEmployees(date string) ([]Employee, error) {
	if _, err := time.Parse(DateFormat, date); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid date")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	assigned := make(map[int]struct{}, len(s.assignments))
	for _, a := range s.assignments {
		if a.Date == date {
			assigned[a.EmployeeID] = struct{}{}
		}
	}

	out := []Employee{}
	for _, e := range s.employees {
		if !e.IsActive {
			continue
		}
		if _, ok := assigned[e.ID]; ok {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// WeekAssignments builds the 7-day schedule starting at weekStart: a nested
// map of date -> project ID -> assignments with the employee embedded.
func (s *Store) WeekAssignments(weekStart string) (WeekSchedule, error) {
	start, err := time.Parse(DateFormat, weekStart)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid week start date")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	employeesByID := make(map[int]Employee, len(s.employees))
	for _, e := range s.employees {
		employeesByID[e.ID] = e
	}

	week := make(WeekSchedule, 7)
	for day := 0; day < 7; day++ {
		date := start.AddDate(0, 0, day).Format(DateFormat)
		week[date] = make(map[int][]AssignmentDetail)
		for _, a := range s.assignments {
			if a.Date != date {
				continue
			}
			week[date][a.ProjectID] = append(week[date][a.ProjectID], AssignmentDetail{
				Assignment: a,
				Employee:   employeesByID[a.EmployeeID],
			})
		}
	}
	return week, nil
}

// DashboardMetrics aggregates the headline counts for the given "today".
func (s *Store) DashboardMetrics(today string) (DashboardMetrics, error) {
	unassigned, err := s.UnassignedEmployees(today)
	if err != nil {
		return DashboardMetrics{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	metrics := DashboardMetrics{UnassignedToday: unassigned}
	for _, e := range s.employees {
		if e.IsActive {
			metrics.ActiveEmployees++
		}
	}
	for _, p := range s.projects {
		if p.Status == ProjectStatusActive {
			metrics.ActiveProjects++
		}
	}
	for _, a := range s.assignments {
		if a.Date == today {
			metrics.TodayAssignments++
		}
	}
	return metrics, nil
}

// Assignments returns a copy of every assignment, ordered by ID.
func (s *Store) Assignments() []Assignment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]Assignment(nil), s.assignments...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CreateAssignment validates the referenced records and inserts a new
// assignment under the store-owned monotonic ID counter. A duplicate
// (employee, project, date) triple is rejected as a conflict.
func (s *Store) CreateAssignment(params CreateAssignmentParams) (Assignment, error) {
	if _, err := time.Parse(DateFormat, params.Date); err != nil {
		return Assignment{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid assignment date")
	}
	if params.HoursAssigned.IsNegative() {
		return Assignment{}, pkgerrors.New(pkgerrors.CodeValidation, "hours assigned cannot be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.employeeExistsLocked(params.EmployeeID) {
		return Assignment{}, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("employee %d not found", params.EmployeeID))
	}
	if !s.projectExistsLocked(params.ProjectID) {
		return Assignment{}, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("project %d not found", params.ProjectID))
	}
	for _, a := range s.assignments {
		if a.EmployeeID == params.EmployeeID && a.ProjectID == params.ProjectID && a.Date == params.Date {
			return Assignment{}, pkgerrors.New(pkgerrors.CodeConflict, "employee already assigned to this project on this date")
		}
	}

	status := params.Status
	if status == "" {
		status = AssignmentStatusAssigned
	}

	assignment := Assignment{
		ID:            s.nextAssignmentID,
		EmployeeID:    params.EmployeeID,
		ProjectID:     params.ProjectID,
		Date:          params.Date,
		HoursAssigned: params.HoursAssigned,
		Status:        status,
		CreatedAt:     time.Now().UTC(),
	}
	s.nextAssignmentID++
	s.assignments = append(s.assignments, assignment)
	return assignment, nil
}

// UpdateAssignment applies the whitelisted patch fields to the assignment.
func (s *Store) UpdateAssignment(id int, patch AssignmentPatch) (Assignment, error) {
	if patch.Date != nil {
		if _, err := time.Parse(DateFormat, *patch.Date); err != nil {
			return Assignment{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid assignment date")
		}
	}
	if patch.HoursAssigned != nil && patch.HoursAssigned.IsNegative() {
		return Assignment{}, pkgerrors.New(pkgerrors.CodeValidation, "hours assigned cannot be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.assignments {
		if s.assignments[i].ID != id {
			continue
		}
		if patch.Date != nil {
			s.assignments[i].Date = *patch.Date
		}
		if patch.HoursAssigned != nil {
			s.assignments[i].HoursAssigned = *patch.HoursAssigned
		}
		if patch.Status != nil {
			s.assignments[i].Status = *patch.Status
		}
		return s.assignments[i], nil
	}
	return Assignment{}, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("assignment %d not found", id))
}

// DeleteAssignment removes the assignment with the given ID.
func (s *Store) DeleteAssignment(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.assignments {
		if s.assignments[i].ID == id {
			s.assignments = append(s.assignments[:i], s.assignments[i+1:]...)
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("assignment %d not found", id))
}

func (s *Store) employeeExistsLocked(id int) bool {
	for _, e := range s.employees {
		if e.ID == id {
			return true
		}
	}
	return false
}

func (s *Store) projectExistsLocked(id int) bool {
	for _, p := range s.projects {
		if p.ID == id {
			return true
		}
	}
	return false
}
