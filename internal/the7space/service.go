package the7space

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/higherself/network-server/internal/integrations/gateway"
	"github.com/higherself/network-server/internal/store"
	pkgerrors "github.com/higherself/network-server/pkg/errors"
	"github.com/higherself/network-server/pkg/logger"
)

// Booking slots are hourly within studio hours.
const (
	openingHour = 9
	closingHour = 17
)

// recordSyncer is the slice of the Notion sync client the service uses.
// Sync failures are logged and swallowed so inbound submissions never bounce.
type recordSyncer interface {
	SyncRecord(ctx context.Context, database string, properties map[string]any) error
}

// notifier pushes a heads-up to the team channel for new submissions.
type notifier interface {
	Notify(ctx context.Context, n gateway.Notification) error
}

// analyticsCounter is the slice of the redis client used for event tallies.
type analyticsCounter interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	CounterKey(name string) string
}

// Service exposes the gallery and wellness operations behind the site endpoints.
type Service interface {
	Artworks(ctx context.Context) []Artwork
	Events(ctx context.Context) []Event
	Services(ctx context.Context) []WellnessService
	CreateContact(ctx context.Context, req CreateContactRequest) (*Contact, error)
	CreateLead(ctx context.Context, req CreateLeadRequest) (*Lead, error)
	CreateAppointment(ctx context.Context, req CreateAppointmentRequest) (*Appointment, error)
	Availability(ctx context.Context, serviceID int, date string) (*Availability, error)
	TrackAnalytics(ctx context.Context, event string) error
}

// CreateContactRequest is the contact-form payload.
type CreateContactRequest struct {
	Name    string `json:"name" validate:"required,max=128"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"max=32"`
	Message string `json:"message" validate:"max=2000"`
	Source  string `json:"source" validate:"max=64"`
}

// CreateLeadRequest is the lead-capture payload.
type CreateLeadRequest struct {
	Name     string `json:"name" validate:"required,max=128"`
	Email    string `json:"email" validate:"required,email"`
	Interest string `json:"interest" validate:"max=128"`
	Source   string `json:"source" validate:"max=64"`
}

// CreateAppointmentRequest books a slot for a wellness service.
type CreateAppointmentRequest struct {
	ServiceID int    `json:"service_id" validate:"required,min=1"`
	Name      string `json:"name" validate:"required,max=128"`
	Email     string `json:"email" validate:"required,email"`
	Date      string `json:"date" validate:"required"`
	Slot      string `json:"slot" validate:"required"`
}

// TrackAnalyticsRequest names the event being counted.
type TrackAnalyticsRequest struct {
	Event string `json:"event" validate:"required,max=64"`
}

type service struct {
	mu           sync.Mutex
	artworks     []Artwork
	events       []Event
	services     []WellnessService
	contacts     []Contact
	leads        []Lead
	appointments []Appointment
	nextID       int

	syncer   recordSyncer
	notifier notifier
	counter  analyticsCounter
	logg     *logger.Logger
	now      func() time.Time
}

// ServiceParams bundles the dependencies for the gallery service. Syncer and
// Counter may be nil; the corresponding side effects are then skipped.
type ServiceParams struct {
	Syncer   recordSyncer
	Notifier notifier
	Counter  analyticsCounter
	Logger   *logger.Logger
}

// NewService builds the gallery service with the seeded catalog.
func NewService(params ServiceParams) Service {
	return &service{
		artworks: CatalogArtworks(),
		events:   CatalogEvents(),
		services: CatalogServices(),
		nextID:   1,
		syncer:   params.Syncer,
		notifier: params.Notifier,
		counter:  params.Counter,
		logg:     params.Logger,
		now:      time.Now,
	}
}

func (s *service) Artworks(ctx context.Context) []Artwork {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Artwork, len(s.artworks))
	copy(out, s.artworks)
	return out
}

func (s *service) Events(ctx context.Context) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

func (s *service) Services(ctx context.Context) []WellnessService {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]WellnessService, len(s.services))
	copy(out, s.services)
	return out
}

func (s *service) CreateContact(ctx context.Context, req CreateContactRequest) (*Contact, error) {
	s.mu.Lock()
	contact := Contact{
		ID:        s.nextID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Message:   req.Message,
		Source:    req.Source,
		CreatedAt: s.now().UTC(),
	}
	s.nextID++
	s.contacts = append(s.contacts, contact)
	s.mu.Unlock()

	s.forward(ctx, "contacts", map[string]any{
		"name":    contact.Name,
		"email":   contact.Email,
		"phone":   contact.Phone,
		"message": contact.Message,
		"source":  contact.Source,
	})
	s.notify(ctx, gateway.Notification{
		Channel: "gallery-inbound",
		Subject: "New contact form submission",
		Body:    fmt.Sprintf("%s <%s> reached out", contact.Name, contact.Email),
		Metadata: map[string]any{
			"contact_id": contact.ID,
			"source":     contact.Source,
		},
	})
	return &contact, nil
}

func (s *service) CreateLead(ctx context.Context, req CreateLeadRequest) (*Lead, error) {
	s.mu.Lock()
	lead := Lead{
		ID:        s.nextID,
		Name:      req.Name,
		Email:     req.Email,
		Interest:  req.Interest,
		Source:    req.Source,
		CreatedAt: s.now().UTC(),
	}
	s.nextID++
	s.leads = append(s.leads, lead)
	s.mu.Unlock()

	s.forward(ctx, "leads", map[string]any{
		"name":     lead.Name,
		"email":    lead.Email,
		"interest": lead.Interest,
		"source":   lead.Source,
	})
	s.notify(ctx, gateway.Notification{
		Channel: "gallery-inbound",
		Subject: "New lead captured",
		Body:    fmt.Sprintf("%s is interested in %s", lead.Name, lead.Interest),
		Metadata: map[string]any{
			"lead_id": lead.ID,
			"source":  lead.Source,
		},
	})
	return &lead, nil
}

func (s *service) CreateAppointment(ctx context.Context, req CreateAppointmentRequest) (*Appointment, error) {
	if _, err := time.Parse(store.DateFormat, req.Date); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", req.Date))
	}
	if !validSlot(req.Slot) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid slot %q", req.Slot))
	}

	s.mu.Lock()
	if !s.serviceExistsLocked(req.ServiceID) {
		s.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("service %d not found", req.ServiceID))
	}
	for _, appt := range s.appointments {
		if appt.ServiceID == req.ServiceID && appt.Date == req.Date && appt.Slot == req.Slot {
			s.mu.Unlock()
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "slot already booked")
		}
	}
	appointment := Appointment{
		ID:        s.nextID,
		ServiceID: req.ServiceID,
		Name:      req.Name,
		Email:     req.Email,
		Date:      req.Date,
		Slot:      req.Slot,
		CreatedAt: s.now().UTC(),
	}
	s.nextID++
	s.appointments = append(s.appointments, appointment)
	s.mu.Unlock()

	s.forward(ctx, "appointments", map[string]any{
		"service_id": appointment.ServiceID,
		"name":       appointment.Name,
		"email":      appointment.Email,
		"date":       appointment.Date,
		"slot":       appointment.Slot,
	})
	s.notify(ctx, gateway.Notification{
		Channel: "wellness-bookings",
		Subject: "New appointment booked",
		Body:    fmt.Sprintf("%s booked %s at %s", appointment.Name, appointment.Date, appointment.Slot),
		Metadata: map[string]any{
			"appointment_id": appointment.ID,
			"service_id":     appointment.ServiceID,
		},
	})
	return &appointment, nil
}

// Availability returns studio-hour slots not yet booked for the service.
func (s *service) Availability(ctx context.Context, serviceID int, date string) (*Availability, error) {
	if _, err := time.Parse(store.DateFormat, date); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", date))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.serviceExistsLocked(serviceID) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("service %d not found", serviceID))
	}

	booked := map[string]bool{}
	for _, appt := range s.appointments {
		if appt.ServiceID == serviceID && appt.Date == date {
			booked[appt.Slot] = true
		}
	}

	slots := []string{}
	for hour := openingHour; hour < closingHour; hour++ {
		slot := fmt.Sprintf("%02d:00", hour)
		if !booked[slot] {
			slots = append(slots, slot)
		}
	}
	sort.Strings(slots)
	return &Availability{ServiceID: serviceID, Date: date, Slots: slots}, nil
}

// TrackAnalytics bumps a daily counter for the event. Counter outages are
// logged and swallowed so tracking never breaks the site.
func (s *service) TrackAnalytics(ctx context.Context, event string) error {
	if s.counter == nil {
		return nil
	}
	day := s.now().UTC().Format(store.DateFormat)
	key := s.counter.CounterKey(fmt.Sprintf("the7space:%s:%s", event, day))
	if _, err := s.counter.IncrWithTTL(ctx, key, 90*24*time.Hour); err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "event", event), "analytics counter unavailable")
		}
	}
	return nil
}

func (s *service) serviceExistsLocked(id int) bool {
	for _, svc := range s.services {
		if svc.ID == id {
			return true
		}
	}
	return false
}

func (s *service) forward(ctx context.Context, database string, properties map[string]any) {
	if s.syncer == nil {
		return
	}
	if err := s.syncer.SyncRecord(ctx, database, properties); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"database": database,
			"reason":   err.Error(),
		}), "notion sync failed")
	}
}

func (s *service) notify(ctx context.Context, n gateway.Notification) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, n); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "reason", err.Error()), "gateway notification failed")
	}
}

func validSlot(slot string) bool {
	t, err := time.Parse("15:04", slot)
	if err != nil {
		return false
	}
	return t.Minute() == 0 && t.Hour() >= openingHour && t.Hour() < closingHour
}
