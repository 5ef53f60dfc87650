package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"practice-manager-server/internal/models"
)

// AppointmentService owns the appointment series lifecycle: materializing a
// parent with its generated occurrences, scope-aware edits and deletes,
// cancellation, and the read projections.
type AppointmentService struct {
	DB *gorm.DB
}

// NewAppointmentService creates a new AppointmentService.
func NewAppointmentService(db *gorm.DB) *AppointmentService {
	return &AppointmentService{DB: db}
}

// CreateAppointmentInput is the input for CreateSeries.
type CreateAppointmentInput struct {
	PatientID   string
	Date        time.Time
	Value       decimal.Decimal
	Notes       string
	IsRecurring bool
	Frequency   models.RecurrenceFrequency
	Until       *time.Time
}

// UpdateAppointmentInput patches a single appointment. Nil fields are left
// untouched.
type UpdateAppointmentInput struct {
	PatientID *string
	Date      *time.Time
	Value     *decimal.Decimal
	Notes     *string
	Status    *models.AppointmentStatus
}

// UpdateSeriesInput rewrites a series from the edited occurrence onward.
// Frequency and Until are patch fields: when absent the parent keeps its
// current values. ClearUntil turns the series open-ended.
type UpdateSeriesInput struct {
	PatientID  string
	Date       time.Time
	Value      decimal.Decimal
	Notes      string
	Frequency  *models.RecurrenceFrequency
	Until      *time.Time
	ClearUntil bool
}

// CreateSeries validates the input, persists the parent appointment and, for
// a recurring series, expands and persists every child occurrence. All rows
// are written in one transaction; a failure after partial writes rolls the
// whole unit back.
func (s *AppointmentService) CreateSeries(ctx context.Context, in CreateAppointmentInput) (*models.Appointment, error) {
	if in.IsRecurring && in.Until != nil && !truncateToDay(*in.Until).After(truncateToDay(in.Date)) {
		return nil, NewValidationError("recurrence end date must be after the start date")
	}

	parent := &models.Appointment{
		PatientID: in.PatientID,
		Date:      in.Date,
		Status:    models.StatusScheduled,
		Value:     in.Value,
		Notes:     in.Notes,
	}
	if in.IsRecurring {
		day := int(in.Date.Weekday())
		parent.IsRecurring = true
		parent.RecurrenceFrequency = in.Frequency
		parent.RecurrenceDay = &day
		parent.RecurrenceUntil = in.Until
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkCollision(tx, in.Date, ""); err != nil {
			return err
		}

		if err := tx.Create(parent).Error; err != nil {
			return fmt.Errorf("creating parent appointment: %w", err)
		}

		if !in.IsRecurring || in.Frequency == "" {
			return nil
		}

		children := buildChildren(parent, ExpandRecurrence(in.Date, in.Frequency, in.Until))
		if len(children) == 0 {
			return nil
		}
		if err := tx.Create(&children).Error; err != nil {
			return fmt.Errorf("creating recurring appointments: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return parent, nil
}

// GetByID fetches one appointment with its patient preloaded.
func (s *AppointmentService) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	var appointment models.Appointment
	err := s.DB.WithContext(ctx).Preload("Patient").First(&appointment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

// List returns appointments ordered by date descending, optionally bounded
// by an inclusive date range.
func (s *AppointmentService) List(ctx context.Context, start, end *time.Time) ([]models.Appointment, error) {
	query := s.DB.WithContext(ctx).Preload("Patient").Order("date desc")
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
	return appointments, nil
}

// UpdateSingle patches exactly one appointment. A cancelled appointment is
// immutable. Changing the date re-checks the scheduled-collision invariant
// against every other appointment.
func (s *AppointmentService) UpdateSingle(ctx context.Context, id string, in UpdateAppointmentInput) (*models.Appointment, error) {
	var updated *models.Appointment
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var appointment models.Appointment
		if err := tx.First(&appointment, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if appointment.Status == models.StatusCancelled {
			return NewValidationError("a cancelled appointment cannot be edited")
		}

		if in.Date != nil && !in.Date.Equal(appointment.Date) {
			if err := s.checkCollision(tx, *in.Date, appointment.ID); err != nil {
				return err
			}
			appointment.Date = *in.Date
		}
		if in.PatientID != nil {
			appointment.PatientID = *in.PatientID
		}
		if in.Value != nil {
			appointment.Value = *in.Value
		}
		if in.Notes != nil {
			appointment.Notes = *in.Notes
		}
		if in.Status != nil {
			appointment.Status = *in.Status
		}

		if err := tx.Save(&appointment).Error; err != nil {
			return fmt.Errorf("updating appointment: %w", err)
		}
		updated = &appointment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateSeries edits an occurrence with "this and all following" scope. It
// resolves the true series parent, updates its fields, and atomically swaps
// every sibling dated at or after the edited occurrence for a freshly
// expanded set. The replacement set is computed before any row is deleted.
func (s *AppointmentService) UpdateSeries(ctx context.Context, id string, in UpdateSeriesInput) (*models.Appointment, error) {
	var updated *models.Appointment
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		target, parent, err := s.resolveParent(tx, id)
		if err != nil {
			return err
		}
		if parent.Status == models.StatusCancelled {
			return NewValidationError("a cancelled appointment cannot be edited")
		}

		// Pivot for the "this and all following" scope: everything in the
		// series dated before the edited occurrence is preserved as-is.
		pivot := target.Date
		dateChanged := false

		parent.PatientID = in.PatientID
		parent.Value = in.Value
		parent.Notes = in.Notes
		if target.ID == parent.ID {
			dateChanged = !in.Date.Equal(parent.Date)
			parent.Date = in.Date
			pivot = in.Date
			day := int(in.Date.Weekday())
			parent.RecurrenceDay = &day
		}

		// Recurrence fields are patches, not overwrites: an edit that omits
		// them keeps the series on its current cadence. Standalone rows
		// never gain recurrence fields.
		if parent.IsRecurring {
			if in.Frequency != nil {
				parent.RecurrenceFrequency = *in.Frequency
			}
			if in.ClearUntil {
				parent.RecurrenceUntil = nil
			} else if in.Until != nil {
				parent.RecurrenceUntil = in.Until
			}
		}

		if parent.RecurrenceUntil != nil &&
			!truncateToDay(*parent.RecurrenceUntil).After(truncateToDay(parent.Date)) {
			return NewValidationError("recurrence end date must be after the start date")
		}

		// Phase one: compute the replacement occurrences. Occurrences that
		// would land before the pivot are already covered by the preserved
		// earlier siblings.
		var children []models.Appointment
		if parent.IsRecurring && parent.RecurrenceFrequency != "" {
			dates := ExpandRecurrence(parent.Date, parent.RecurrenceFrequency, parent.RecurrenceUntil)
			future := dates[:0]
			for _, d := range dates {
				if !d.Before(pivot) {
					future = append(future, d)
				}
			}
			children = buildChildren(parent, future)
		}

		// Phase two: swap. Delete the edited occurrence and its later
		// siblings, then insert the replacements.
		if err := tx.Where("parent_appointment_id = ? AND date >= ?", parent.ID, pivot).
			Delete(&models.Appointment{}).Error; err != nil {
			return fmt.Errorf("removing superseded occurrences: %w", err)
		}

		// A moved parent must honor the scheduled-collision invariant like
		// any other date-changing edit. Checked after the swap deletions so
		// a superseded child in the old slot cannot count against it.
		if dateChanged {
			if err := s.checkCollision(tx, parent.Date, parent.ID); err != nil {
				return err
			}
		}

		if err := tx.Save(parent).Error; err != nil {
			return fmt.Errorf("updating series parent: %w", err)
		}
		if len(children) > 0 {
			if err := tx.Create(&children).Error; err != nil {
				return fmt.Errorf("recreating series occurrences: %w", err)
			}
		}
		updated = parent
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Cancel transitions a scheduled appointment to cancelled. Any other current
// status is rejected without mutation, and cancellation never touches the
// sibling occurrences of a series.
func (s *AppointmentService) Cancel(ctx context.Context, id string) (*models.Appointment, error) {
	var appointment models.Appointment
	err := s.DB.WithContext(ctx).First(&appointment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if appointment.Status != models.StatusScheduled {
		return nil, ErrInvalidTransition
	}

	appointment.Status = models.StatusCancelled
	if err := s.DB.WithContext(ctx).Save(&appointment).Error; err != nil {
		return nil, fmt.Errorf("cancelling appointment: %w", err)
	}
	return &appointment, nil
}

// DeleteSingle removes exactly one appointment row. Children of a deleted
// series parent are left in place with a dangling parent reference.
func (s *AppointmentService) DeleteSingle(ctx context.Context, id string) error {
	result := s.DB.WithContext(ctx).Delete(&models.Appointment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteSeries removes the targeted occurrence and every series member dated
// at or after it, the parent included when it falls inside that bound.
// Earlier members of the series are left untouched.
func (s *AppointmentService) DeleteSeries(ctx context.Context, id string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		target, parent, err := s.resolveParent(tx, id)
		if err != nil {
			return err
		}

		if err := tx.Where(
			"(id = ? OR parent_appointment_id = ?) AND date >= ?",
			parent.ID, parent.ID, target.Date,
		).Delete(&models.Appointment{}).Error; err != nil {
			return fmt.Errorf("deleting series occurrences: %w", err)
		}
		return nil
	})
}

// resolveParent loads the targeted appointment and the true parent of its
// series. The linkage is at most one hop: a standalone or parent row resolves
// to itself.
func (s *AppointmentService) resolveParent(tx *gorm.DB, id string) (target, parent *models.Appointment, err error) {
	var appointment models.Appointment
	if err := tx.First(&appointment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	if appointment.ParentAppointmentID == nil {
		return &appointment, &appointment, nil
	}

	var parentRow models.Appointment
	if err := tx.First(&parentRow, "id = ?", *appointment.ParentAppointmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	return &appointment, &parentRow, nil
}

// checkCollision enforces the single-scheduled-appointment-per-timestamp
// invariant inside the caller's transaction. The check is system-wide, not
// per patient. On MySQL the read locks matching rows so two concurrent
// requests cannot both pass; SQLite serializes writers on its own.
func (s *AppointmentService) checkCollision(tx *gorm.DB, date time.Time, excludeID string) error {
	query := tx.Model(&models.Appointment{}).
		Where("date = ? AND status = ?", date, models.StatusScheduled)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	if tx.Dialector.Name() == "mysql" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("checking for scheduling collision: %w", err)
	}
	if count > 0 {
		return ErrCollision
	}
	return nil
}

// buildChildren materializes child appointment rows for the given occurrence
// dates, inheriting patient, value and notes from the parent.
func buildChildren(parent *models.Appointment, dates []time.Time) []models.Appointment {
	children := make([]models.Appointment, 0, len(dates))
	for _, date := range dates {
		children = append(children, models.Appointment{
			PatientID:           parent.PatientID,
			Date:                date,
			Status:              models.StatusScheduled,
			Value:               parent.Value,
			Notes:               parent.Notes,
			ParentAppointmentID: &parent.ID,
		})
	}
	return children
}
