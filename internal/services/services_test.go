package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"practice-manager-server/internal/models"
)

// setupTestDB opens an isolated in-memory database for one test. The DSN is
// keyed by test name so parallel packages never share state.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))

	return db
}

func createTestPatient(t *testing.T, db *gorm.DB, name, email string) *models.Patient {
	t.Helper()

	patient := &models.Patient{
		Name:      name,
		Email:     email,
		Phone:     "555-0100",
		BirthDate: time.Date(1990, 5, 12, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
	}
	require.NoError(t, db.Create(patient).Error)
	return patient
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func countAppointments(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&models.Appointment{}).Count(&count).Error)
	return count
}
