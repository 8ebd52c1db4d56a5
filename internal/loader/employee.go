package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/higherself/network-server/internal/store"
	"github.com/higherself/network-server/pkg/config"
	"github.com/higherself/network-server/pkg/logger"
	"github.com/shopspring/decimal"
)

const (
	emailDomain       = "the7space.com"
	phoneAreaCode     = "555"
	deterministicSeed = 7
)

// rateTable maps trade -> level -> hourly rate. The "default" level covers
// unrecognized levels within a trade.
var rateTable = map[string]map[string]decimal.Decimal{
	"Apprentice": {
		"40%":     decimal.NewFromFloat(15.00),
		"50%":     decimal.NewFromFloat(18.75),
		"60%":     decimal.NewFromFloat(22.50),
		"70%":     decimal.NewFromFloat(26.25),
		"default": decimal.NewFromFloat(18.75),
	},
	"Electrician": {
		"Journeyman": decimal.NewFromFloat(38.00),
		"Foreman":    decimal.NewFromFloat(44.00),
		"default":    decimal.NewFromFloat(36.00),
	},
	"Carpenter": {
		"Journeyman": decimal.NewFromFloat(34.00),
		"Foreman":    decimal.NewFromFloat(42.50),
		"default":    decimal.NewFromFloat(32.00),
	},
	"Laborer": {
		"Standard": decimal.NewFromFloat(24.00),
		"default":  decimal.NewFromFloat(22.00),
	},
}

var globalDefaultRate = decimal.NewFromFloat(25.00)

// snapshotRecord mirrors one entry of the employee snapshot JSON. Every field
// beyond the ID may be absent; derivation fills the gaps.
type snapshotRecord struct {
	EmployeeID int     `json:"employee_id"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Name       string  `json:"name"`
	Trade      string  `json:"trade"`
	Level      string  `json:"level"`
	HourlyRate *float64 `json:"hourly_rate"`
	Status     string  `json:"status"`
	Supervisor string  `json:"supervisor"`
	Type       string  `json:"type"`
	HireDate   string  `json:"hire_date"`
	Phone      string  `json:"phone"`
	Email      string  `json:"email"`
}

// Loader hydrates employee records from the snapshot file, deriving missing
// fields. The random source is injected so demo fixtures can be reproducible.
type Loader struct {
	path string
	rng  *rand.Rand
	logg *logger.Logger
	now  func() time.Time
}

// New builds a loader from config. When the deterministic flag is set the
// random source is seeded with a fixed value.
func New(cfg config.SnapshotConfig, logg *logger.Logger) *Loader {
	seed := time.Now().UnixNano()
	if cfg.Deterministic {
		seed = deterministicSeed
	}
	return &Loader{
		path: cfg.EmployeePath,
		rng:  rand.New(rand.NewSource(seed)),
		logg: logg,
		now:  time.Now,
	}
}

// Load reads and normalizes the snapshot. A missing file is a soft failure:
// it logs a warning and reports ok=false so callers fall back to demo seeds.
func (l *Loader) Load(ctx context.Context) ([]store.Employee, bool, error) {
	raw, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			if l.logg != nil {
				ctx = l.logg.WithField(ctx, "path", l.path)
				l.logg.Warn(ctx, "employee snapshot not found, falling back to demo seed")
			}
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading employee snapshot: %w", err)
	}

	var records []snapshotRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, false, fmt.Errorf("parsing employee snapshot: %w", err)
	}

	employees := make([]store.Employee, 0, len(records))
	for i, rec := range records {
		employees = append(employees, l.normalize(rec, i+1))
	}

	if l.logg != nil {
		ctx = l.logg.WithFields(ctx, map[string]any{"path": l.path, "count": len(employees)})
		l.logg.Info(ctx, "employee snapshot loaded")
	}
	return employees, true, nil
}

func (l *Loader) normalize(rec snapshotRecord, fallbackID int) store.Employee {
	emp := store.Employee{
		ID:         rec.EmployeeID,
		FirstName:  strings.TrimSpace(rec.FirstName),
		LastName:   strings.TrimSpace(rec.LastName),
		Trade:      strings.TrimSpace(rec.Trade),
		Level:      strings.TrimSpace(rec.Level),
		Supervisor: strings.TrimSpace(rec.Supervisor),
		Type:       strings.TrimSpace(rec.Type),
		IsActive:   !strings.EqualFold(rec.Status, "inactive"),
	}
	if emp.ID == 0 {
		emp.ID = fallbackID
	}

	emp.Name = displayName(rec)
	emp.HourlyRate = l.deriveRate(rec)
	emp.HireDate = l.deriveHireDate(rec)
	emp.Phone = l.derivePhone(rec)
	emp.Email = deriveEmail(rec)

	return emp
}

func displayName(rec snapshotRecord) string {
	if name := strings.TrimSpace(rec.Name); name != "" {
		return name
	}
	name := strings.TrimSpace(strings.TrimSpace(rec.FirstName) + " " + strings.TrimSpace(rec.LastName))
	if name == "" {
		return fmt.Sprintf("Employee %d", rec.EmployeeID)
	}
	return name
}

// deriveRate resolves the hourly rate from the snapshot, the (trade, level)
// table, the trade default, then the global default, in that order.
func (l *Loader) deriveRate(rec snapshotRecord) decimal.Decimal {
	if rec.HourlyRate != nil && *rec.HourlyRate > 0 {
		return decimal.NewFromFloat(*rec.HourlyRate)
	}
	levels, ok := rateTable[rec.Trade]
	if !ok {
		return globalDefaultRate
	}
	if rate, ok := levels[rec.Level]; ok {
		return rate
	}
	if rate, ok := levels["default"]; ok {
		return rate
	}
	return globalDefaultRate
}

// deriveHireDate keeps a parseable snapshot date, otherwise synthesizes one
// at a random offset within the last five years.
func (l *Loader) deriveHireDate(rec snapshotRecord) time.Time {
	if rec.HireDate != "" {
		if parsed, err := time.Parse(store.DateFormat, rec.HireDate); err == nil {
			return parsed
		}
	}
	const fiveYearsDays = 5 * 365
	offset := l.rng.Intn(fiveYearsDays)
	return l.now().UTC().AddDate(0, 0, -offset).Truncate(24 * time.Hour)
}

func (l *Loader) derivePhone(rec snapshotRecord) string {
	if rec.Phone != "" {
		return rec.Phone
	}
	return fmt.Sprintf("%s-%03d-%04d", phoneAreaCode, l.rng.Intn(1000), l.rng.Intn(10000))
}

func deriveEmail(rec snapshotRecord) string {
	if rec.Email != "" {
		return rec.Email
	}
	first := strings.ToLower(strings.TrimSpace(rec.FirstName))
	last := strings.ToLower(strings.TrimSpace(rec.LastName))
	if first == "" || last == "" {
		return fmt.Sprintf("employee%d@%s", rec.EmployeeID, emailDomain)
	}
	return fmt.Sprintf("%s.%s@%s", first, last, emailDomain)
}
