package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/higherself/network-server/pkg/db/models"
	"github.com/shopspring/decimal"
)

// DemoEmployees is the built-in fallback used when no snapshot file is
// available, so demo mode always has a workable crew.
func DemoEmployees() []Employee {
	hire := func(year, month, day int) time.Time {
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	}
	return []Employee{
		{
			ID: 1, FirstName: "Maya", LastName: "Torres", Name: "Maya Torres",
			Trade: "Electrician", Level: "Journeyman",
			HourlyRate: decimal.NewFromFloat(38.00), IsActive: true,
			HireDate: hire(2021, 3, 15), Phone: "555-210-4431", Email: "maya.torres@the7space.com",
			Supervisor: "R. Castillo", Type: "Full Time",
		},
		{
			ID: 2, FirstName: "Devon", LastName: "Price", Name: "Devon Price",
			Trade: "Carpenter", Level: "Foreman",
			HourlyRate: decimal.NewFromFloat(42.50), IsActive: true,
			HireDate: hire(2019, 8, 2), Phone: "555-210-8874", Email: "devon.price@the7space.com",
			Supervisor: "R. Castillo", Type: "Full Time",
		},
		{
			ID: 3, FirstName: "Ana", LastName: "Okafor", Name: "Ana Okafor",
			Trade: "Apprentice", Level: "60%",
			HourlyRate: decimal.NewFromFloat(22.50), IsActive: true,
			HireDate: hire(2023, 5, 22), Phone: "555-210-9016", Email: "ana.okafor@the7space.com",
			Supervisor: "D. Price", Type: "Full Time",
		},
		{
			ID: 4, FirstName: "Theo", LastName: "Lindgren", Name: "Theo Lindgren",
			Trade: "Laborer", Level: "Standard",
			HourlyRate: decimal.NewFromFloat(24.00), IsActive: false,
			HireDate: hire(2020, 11, 9), Phone: "555-210-2250", Email: "theo.lindgren@the7space.com",
			Type: "Part Time",
		},
	}
}

// DemoUsers builds the built-in demo accounts. hashPassword is injected so
// the seed honors the configured bcrypt cost.
func DemoUsers(hashPassword func(string) (string, error)) ([]models.User, error) {
	now := time.Now().UTC()
	seeds := []struct {
		username, email, password, first, last, role string
	}{
		{"admin", "admin@the7space.com", "DemoAdmin2024!", "Alex", "Rivera", models.RoleAdmin},
		{"rcastillo", "r.castillo@the7space.com", "DemoManager2024!", "Rosa", "Castillo", models.RoleProjectManager},
		{"frontdesk", "frontdesk@the7space.com", "DemoViewer2024!", "Sam", "Whitfield", models.RoleViewOnly},
	}

	users := make([]models.User, 0, len(seeds))
	for _, seed := range seeds {
		hash, err := hashPassword(seed.password)
		if err != nil {
			return nil, fmt.Errorf("hash demo password for %s: %w", seed.username, err)
		}
		users = append(users, models.User{
			ID:           uuid.New(),
			Username:     seed.username,
			Email:        seed.email,
			PasswordHash: hash,
			FirstName:    seed.first,
			LastName:     seed.last,
			Role:         seed.role,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	return users, nil
}

// DemoProjects is the built-in project seed for demo mode.
func DemoProjects() []Project {
	return []Project{
		{
			ID: 101, Name: "Gallery East Wing Renovation", Status: ProjectStatusActive,
			EstimatedHours: decimal.NewFromInt(320), ActualHours: decimal.NewFromInt(112),
			ProjectManager: "R. Castillo",
		},
		{
			ID: 102, Name: "Wellness Studio Buildout", Status: ProjectStatusActive,
			EstimatedHours: decimal.NewFromInt(180), ActualHours: decimal.NewFromInt(45),
			ProjectManager: "J. Whitfield",
		},
		{
			ID: 103, Name: "Storefront Lighting Retrofit", Status: ProjectStatusCompleted,
			EstimatedHours: decimal.NewFromInt(60), ActualHours: decimal.NewFromInt(58),
			ProjectManager: "R. Castillo",
		},
	}
}
