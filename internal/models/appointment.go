package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// RecurrenceFrequency represents how often a recurring series repeats.
type RecurrenceFrequency string

const (
	FrequencyWeekly   RecurrenceFrequency = "weekly"
	FrequencyBiweekly RecurrenceFrequency = "biweekly"
	FrequencyMonthly  RecurrenceFrequency = "monthly"
)

// Appointment represents a single session, either standalone or part of a
// recurring series. Exactly one member of a series is the parent: it carries
// IsRecurring=true and a null ParentAppointmentID, while every generated
// child points back at it. The linkage never nests beyond one hop.
type Appointment struct {
	BaseModel
	PatientID string            `gorm:"size:36;not null;index" json:"patientId"`
	Date      time.Time         `gorm:"not null;index" json:"date"`
	Status    AppointmentStatus `gorm:"size:20;not null;default:'scheduled';index" json:"status"`
	Value     decimal.Decimal   `gorm:"type:decimal(10,2);not null" json:"value"`
	Notes     string            `gorm:"type:text" json:"notes"`

	IsRecurring         bool                `gorm:"default:false" json:"isRecurring"`
	RecurrenceFrequency RecurrenceFrequency `gorm:"size:20" json:"recurrenceFrequency,omitempty"`
	RecurrenceDay       *int                `json:"recurrenceDay,omitempty"`
	RecurrenceUntil     *time.Time          `gorm:"type:date" json:"recurrenceUntil,omitempty"`
	ParentAppointmentID *string             `gorm:"size:36;index" json:"parentAppointmentId,omitempty"`

	// Relations
	Patient           Patient       `gorm:"foreignKey:PatientID" json:"-"`
	ChildAppointments []Appointment `gorm:"foreignKey:ParentAppointmentID" json:"-"`
}

// InSeries reports whether the appointment belongs to a recurring series,
// either as the parent or as a generated child.
func (a *Appointment) InSeries() bool {
	return a.IsRecurring || a.ParentAppointmentID != nil
}
