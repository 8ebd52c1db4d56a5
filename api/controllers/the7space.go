package controllers

import (
	"net/http"

	"github.com/higherself/network-server/api/responses"
	"github.com/higherself/network-server/api/validators"
	"github.com/higherself/network-server/internal/the7space"
	pkgerrors "github.com/higherself/network-server/pkg/errors"
	"github.com/higherself/network-server/pkg/logger"
)

// The7SpaceArtworks lists the gallery catalog.
func The7SpaceArtworks(svc the7space.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.Artworks(r.Context()))
	}
}

// The7SpaceEvents lists the event calendar.
func The7SpaceEvents(svc the7space.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.Events(r.Context()))
	}
}

// The7SpaceServices lists the bookable wellness offerings.
func The7SpaceServices(svc the7space.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.Services(r.Context()))
	}
}

// The7SpaceContactCreate accepts a contact-form submission.
func The7SpaceContactCreate(svc the7space.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body the7space.CreateContactRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		contact, err := svc.CreateContact(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, contact)
	}
}

// The7SpaceLeadCreate captures a qualified inquiry.
func The7SpaceLeadCreate(svc the7space.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body the7space.CreateLeadRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		lead, err := svc.CreateLead(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, lead)
	}
}

// The7SpaceAppointmentCreate books a wellness slot.
func The7SpaceAppointmentCreate(svc the7space.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body the7space.CreateAppointmentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		appointment, err := svc.CreateAppointment(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, appointment)
	}
}

// The7SpaceAvailability lists open slots for a service on a date.
func The7SpaceAvailability(svc the7space.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serviceID, err := validators.ParseQueryInt(r, "service_id", 0, 1, 1_000_000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if serviceID == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "query parameter is required").WithDetails(map[string]any{"field": "service_id"}))
			return
		}
		date, err := validators.ParseQueryDate(r, "date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		availability, err := svc.Availability(r.Context(), serviceID, date)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, availability)
	}
}

// The7SpaceAnalyticsTrack bumps the counter for a site event.
func The7SpaceAnalyticsTrack(svc the7space.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body the7space.TrackAnalyticsRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.TrackAnalytics(r.Context(), body.Event); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "tracked"})
	}
}
