package the7space

import (
	"time"

	"github.com/shopspring/decimal"
)

// CatalogArtworks returns the seeded gallery catalog.
func CatalogArtworks() []Artwork {
	return []Artwork{
		{ID: 1, Title: "Threshold Light", Artist: "Maya Chen", Medium: "Oil on canvas", Price: decimal.NewFromFloat(1800.00), IsAvailable: true},
		{ID: 2, Title: "Salt and Circuit", Artist: "Devon Ray", Medium: "Mixed media", Price: decimal.NewFromFloat(950.00), IsAvailable: true},
		{ID: 3, Title: "Quiet Frequencies", Artist: "Maya Chen", Medium: "Acrylic", Price: decimal.NewFromFloat(1250.00), IsAvailable: false},
	}
}

// CatalogEvents returns the seeded event calendar.
func CatalogEvents() []Event {
	base := time.Date(2025, 2, 7, 18, 0, 0, 0, time.UTC)
	return []Event{
		{ID: 1, Title: "First Friday Opening", StartsAt: base, EndsAt: base.Add(3 * time.Hour), Location: "Main Gallery", Capacity: 80},
		{ID: 2, Title: "Sound Bath", StartsAt: base.AddDate(0, 0, 8).Add(time.Hour), EndsAt: base.AddDate(0, 0, 8).Add(2 * time.Hour), Location: "Wellness Studio", Capacity: 20},
		{ID: 3, Title: "Figure Drawing Workshop", StartsAt: base.AddDate(0, 0, 15), EndsAt: base.AddDate(0, 0, 15).Add(2 * time.Hour), Location: "Studio B", Capacity: 15},
	}
}

// CatalogServices returns the bookable wellness offerings.
func CatalogServices() []WellnessService {
	return []WellnessService{
		{ID: 1, Name: "Reiki Session", DurationMinutes: 60, Price: decimal.NewFromFloat(85.00), Practitioner: "Sage Kimura"},
		{ID: 2, Name: "Massage Therapy", DurationMinutes: 90, Price: decimal.NewFromFloat(120.00), Practitioner: "Jordan Alvarez"},
		{ID: 3, Name: "Meditation Coaching", DurationMinutes: 45, Price: decimal.NewFromFloat(60.00), Practitioner: "Sage Kimura"},
	}
}
