package the7space

import (
	"time"

	"github.com/shopspring/decimal"
)

// Artwork is a gallery piece exposed to the WordPress site.
type Artwork struct {
	ID          int             `json:"artwork_id"`
	Title       string          `json:"title"`
	Artist      string          `json:"artist"`
	Medium      string          `json:"medium"`
	Price       decimal.Decimal `json:"price"`
	IsAvailable bool            `json:"is_available"`
}

// Event is a gallery happening (opening, workshop, sound bath).
type Event struct {
	ID       int       `json:"event_id"`
	Title    string    `json:"title"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
	Location string    `json:"location"`
	Capacity int       `json:"capacity"`
}

// WellnessService is a bookable offering.
type WellnessService struct {
	ID              int             `json:"service_id"`
	Name            string          `json:"name"`
	DurationMinutes int             `json:"duration_minutes"`
	Price           decimal.Decimal `json:"price"`
	Practitioner    string          `json:"practitioner"`
}

// Contact is an inbound contact-form submission.
type Contact struct {
	ID        int       `json:"contact_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Message   string    `json:"message,omitempty"`
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Lead is a qualified inquiry captured from the site.
type Lead struct {
	ID        int       `json:"lead_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Interest  string    `json:"interest,omitempty"`
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Appointment books a wellness service slot.
type Appointment struct {
	ID        int       `json:"appointment_id"`
	ServiceID int       `json:"service_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Date      string    `json:"date"`
	Slot      string    `json:"slot"`
	CreatedAt time.Time `json:"created_at"`
}

// Availability lists the open slots for a service on one date.
type Availability struct {
	ServiceID int      `json:"service_id"`
	Date      string   `json:"date"`
	Slots     []string `json:"slots"`
}
