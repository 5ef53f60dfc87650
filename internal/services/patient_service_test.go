package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"practice-manager-server/internal/models"
)

func TestCreatePatientRejectsDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPatientService(db)

	input := PatientInput{
		Name:      "Ana Souza",
		Email:     "ana@example.com",
		Phone:     "555-0100",
		BirthDate: time.Date(1990, 5, 12, 0, 0, 0, 0, time.UTC),
	}
	_, err := svc.Create(context.Background(), input)
	require.NoError(t, err)

	input.Name = "Another Ana"
	_, err = svc.Create(context.Background(), input)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestUpdatePatientRewritesFields(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPatientService(db)
	patient := createTestPatient(t, db, "Ana Souza", "ana@example.com")

	updated, err := svc.Update(context.Background(), patient.ID, PatientInput{
		Name:      "Ana Souza Oliveira",
		Email:     "ana.oliveira@example.com",
		Phone:     "555-0199",
		BirthDate: patient.BirthDate,
		Notes:     "moved clinics",
	})
	require.NoError(t, err)

	assert.Equal(t, "Ana Souza Oliveira", updated.Name)
	assert.Equal(t, "ana.oliveira@example.com", updated.Email)
	assert.Equal(t, "moved clinics", updated.Notes)
	assert.True(t, updated.IsActive)
}

func TestDeactivatePurgesOnlyFutureAppointments(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPatientService(db)
	patient := createTestPatient(t, db, "Ana Souza", "ana@example.com")

	past := models.Appointment{
		PatientID: patient.ID,
		Date:      time.Now().UTC().AddDate(0, 0, -14),
		Status:    models.StatusCompleted,
		Value:     money("150.00"),
	}
	future := models.Appointment{
		PatientID: patient.ID,
		Date:      time.Now().UTC().AddDate(0, 0, 14),
		Status:    models.StatusScheduled,
		Value:     money("150.00"),
	}
	require.NoError(t, db.Create(&past).Error)
	require.NoError(t, db.Create(&future).Error)

	require.NoError(t, svc.Deactivate(context.Background(), patient.ID))

	var remaining []models.Appointment
	require.NoError(t, db.Where("patient_id = ?", patient.ID).Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, past.ID, remaining[0].ID)

	reloaded, err := svc.GetByID(context.Background(), patient.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsActive)
}

func TestActivateFlipsFlagWithoutBackfill(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPatientService(db)
	patient := createTestPatient(t, db, "Ana Souza", "ana@example.com")

	future := models.Appointment{
		PatientID: patient.ID,
		Date:      time.Now().UTC().AddDate(0, 0, 7),
		Status:    models.StatusScheduled,
		Value:     money("150.00"),
	}
	require.NoError(t, db.Create(&future).Error)
	require.NoError(t, svc.Deactivate(context.Background(), patient.ID))

	require.NoError(t, svc.Activate(context.Background(), patient.ID))

	reloaded, err := svc.GetByID(context.Background(), patient.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.IsActive)
	// Purged appointments stay gone.
	var count int64
	require.NoError(t, db.Model(&models.Appointment{}).Where("patient_id = ?", patient.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestDeletePatientCascades(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPatientService(db)
	patient := createTestPatient(t, db, "Ana Souza", "ana@example.com")

	appointment := models.Appointment{
		PatientID: patient.ID,
		Date:      time.Now().UTC().AddDate(0, 0, 7),
		Status:    models.StatusScheduled,
		Value:     money("150.00"),
	}
	require.NoError(t, db.Create(&appointment).Error)
	payment := models.Payment{
		PatientID: &patient.ID,
		Date:      time.Now().UTC(),
		Value:     money("150.00"),
		Type:      models.PaymentIncome,
	}
	require.NoError(t, db.Create(&payment).Error)

	require.NoError(t, svc.Delete(context.Background(), patient.ID))

	var appointments, payments int64
	require.NoError(t, db.Model(&models.Appointment{}).Count(&appointments).Error)
	require.NoError(t, db.Model(&models.Payment{}).Count(&payments).Error)
	assert.EqualValues(t, 0, appointments)
	assert.EqualValues(t, 0, payments)

	_, err := svc.GetByID(context.Background(), patient.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListAndActiveCount(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPatientService(db)
	createTestPatient(t, db, "Zoe Prado", "zoe@example.com")
	inactive := createTestPatient(t, db, "Ana Souza", "ana@example.com")
	require.NoError(t, svc.Deactivate(context.Background(), inactive.ID))

	all, err := svc.List(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Ordered by name.
	assert.Equal(t, "Ana Souza", all[0].Name)

	active, err := svc.List(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Zoe Prado", active[0].Name)

	count, err := svc.ActiveCount(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
