package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"practice-manager-server/internal/models"
)

// PatientService owns the patient lifecycle, including the soft-delete flow
// that purges future appointments.
type PatientService struct {
	DB *gorm.DB
}

// NewPatientService creates a new PatientService.
func NewPatientService(db *gorm.DB) *PatientService {
	return &PatientService{DB: db}
}

// PatientInput carries the form fields for creating or updating a patient.
type PatientInput struct {
	Name      string
	Email     string
	Phone     string
	BirthDate time.Time
	Notes     string
}

// Create registers a new patient.
func (s *PatientService) Create(ctx context.Context, in PatientInput) (*models.Patient, error) {
	patient := &models.Patient{
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		BirthDate: in.BirthDate,
		Notes:     in.Notes,
		IsActive:  true,
	}
	if err := s.DB.WithContext(ctx).Create(patient).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, NewValidationError("a patient with this email already exists")
		}
		return nil, fmt.Errorf("creating patient: %w", err)
	}
	return patient, nil
}

// Update rewrites a patient's form fields.
func (s *PatientService) Update(ctx context.Context, id string, in PatientInput) (*models.Patient, error) {
	patient, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patient.Name = in.Name
	patient.Email = in.Email
	patient.Phone = in.Phone
	patient.BirthDate = in.BirthDate
	patient.Notes = in.Notes

	if err := s.DB.WithContext(ctx).Save(patient).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, NewValidationError("a patient with this email already exists")
		}
		return nil, fmt.Errorf("updating patient: %w", err)
	}
	return patient, nil
}

// GetByID fetches one patient.
func (s *PatientService) GetByID(ctx context.Context, id string) (*models.Patient, error) {
	var patient models.Patient
	err := s.DB.WithContext(ctx).First(&patient, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &patient, nil
}

// List returns patients ordered by name, optionally only the active ones.
func (s *PatientService) List(ctx context.Context, activeOnly bool) ([]models.Patient, error) {
	query := s.DB.WithContext(ctx).Order("name")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var patients []models.Patient
	if err := query.Find(&patients).Error; err != nil {
		return nil, err
	}
	return patients, nil
}

// ActiveCount returns the number of active patients.
func (s *PatientService) ActiveCount(ctx context.Context) (int64, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.Patient{}).
		Where("is_active = ?", true).Count(&count).Error
	return count, err
}

// Deactivate flips the patient inactive and deletes all of their
// appointments from today onward, in one transaction. Past appointments are
// kept for the financial history.
func (s *PatientService) Deactivate(ctx context.Context, id string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var patient models.Patient
		if err := tx.First(&patient, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		today := truncateToDay(time.Now().UTC())
		if err := tx.Where("patient_id = ? AND date >= ?", patient.ID, today).
			Delete(&models.Appointment{}).Error; err != nil {
			return fmt.Errorf("purging future appointments: %w", err)
		}

		patient.IsActive = false
		if err := tx.Save(&patient).Error; err != nil {
			return fmt.Errorf("deactivating patient: %w", err)
		}
		return nil
	})
}

// Activate flips the patient active again. Appointments purged on
// deactivation are not restored.
func (s *PatientService) Activate(ctx context.Context, id string) error {
	patient, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	patient.IsActive = true
	if err := s.DB.WithContext(ctx).Save(patient).Error; err != nil {
		return fmt.Errorf("activating patient: %w", err)
	}
	return nil
}

// Delete hard-deletes a patient together with their appointments and
// payments.
func (s *PatientService) Delete(ctx context.Context, id string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var patient models.Patient
		if err := tx.First(&patient, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		// Cascade explicitly rather than relying on the FK constraint, so
		// SQLite-backed deployments behave the same as MySQL.
		if err := tx.Where("patient_id = ?", patient.ID).Delete(&models.Appointment{}).Error; err != nil {
			return fmt.Errorf("deleting patient appointments: %w", err)
		}
		if err := tx.Where("patient_id = ?", patient.ID).Delete(&models.Payment{}).Error; err != nil {
			return fmt.Errorf("deleting patient payments: %w", err)
		}
		if err := tx.Delete(&patient).Error; err != nil {
			return fmt.Errorf("deleting patient: %w", err)
		}
		return nil
	})
}

// isDuplicateKey matches unique-constraint violations across the MySQL and
// SQLite drivers.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate entry") || strings.Contains(msg, "unique constraint")
}
