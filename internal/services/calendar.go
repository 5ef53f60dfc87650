package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"practice-manager-server/internal/models"
)

// CalendarEvent is one appointment occurrence shaped for the FullCalendar
// frontend. End is always one hour after Start.
type CalendarEvent struct {
	ID            string             `json:"id"`
	Title         string             `json:"title"`
	Start         time.Time          `json:"start"`
	End           time.Time          `json:"end"`
	ClassName     string             `json:"className,omitempty"`
	ExtendedProps CalendarEventProps `json:"extendedProps"`
}

// CalendarEventProps carries the appointment details the calendar popover
// renders.
type CalendarEventProps struct {
	PatientID           string                     `json:"patientId"`
	Value               decimal.Decimal            `json:"value"`
	Notes               string                     `json:"notes"`
	IsRecurring         bool                       `json:"isRecurring"`
	RecurrenceFrequency models.RecurrenceFrequency `json:"recurrenceFrequency,omitempty"`
	RecurrenceUntil     *time.Time                 `json:"recurrenceUntil,omitempty"`
}

// CalendarEvents projects every appointment in the optional date range onto
// calendar events. Cancelled occurrences keep their slot but are flagged for
// struck-through styling.
func (s *AppointmentService) CalendarEvents(ctx context.Context, start, end *time.Time) ([]CalendarEvent, error) {
	query := s.DB.WithContext(ctx).Preload("Patient")
	if start != nil {
		query = query.Where("date >= ?", *start)
	}
	if end != nil {
		query = query.Where("date <= ?", *end)
	}

	var appointments []models.Appointment
	if err := query.Find(&appointments).Error; err != nil {
		return nil, err
	}

	events := make([]CalendarEvent, 0, len(appointments))
	for _, appointment := range appointments {
		event := CalendarEvent{
			ID:    appointment.ID,
			Title: "Session - " + appointment.Patient.Name,
			Start: appointment.Date,
			End:   appointment.Date.Add(time.Hour),
			ExtendedProps: CalendarEventProps{
				PatientID:           appointment.PatientID,
				Value:               appointment.Value,
				Notes:               appointment.Notes,
				IsRecurring:         appointment.InSeries(),
				RecurrenceFrequency: appointment.RecurrenceFrequency,
				RecurrenceUntil:     appointment.RecurrenceUntil,
			},
		}

		if appointment.Status == models.StatusCancelled {
			event.ClassName = "fc-event-cancelled"
			event.Title = "[Cancelled] " + event.Title
		}

		events = append(events, event)
	}

	return events, nil
}
