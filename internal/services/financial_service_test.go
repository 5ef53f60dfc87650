package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"practice-manager-server/internal/models"
)

func TestRegisterPaymentDropsPatientForExpenses(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFinancialService(db)
	patient := createTestPatient(t, db, "Ana Souza", "ana@example.com")

	income, err := svc.Register(context.Background(), PaymentInput{
		PatientID: &patient.ID,
		Date:      date(2025, time.July, 10, 12, 0),
		Value:     money("150.00"),
		Type:      models.PaymentIncome,
		Notes:     "session payment",
	})
	require.NoError(t, err)
	require.NotNil(t, income.PatientID)
	assert.Equal(t, patient.ID, *income.PatientID)

	// A patient reference on an expense is discarded.
	expense, err := svc.Register(context.Background(), PaymentInput{
		PatientID: &patient.ID,
		Date:      date(2025, time.July, 5, 0, 0),
		Value:     money("1200.00"),
		Type:      models.PaymentExpense,
		Notes:     "office rent",
	})
	require.NoError(t, err)
	assert.Nil(t, expense.PatientID)
}

func TestListPaymentsFiltersAndTotals(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFinancialService(db)

	for _, p := range []models.Payment{
		{Date: date(2025, time.June, 20, 0, 0), Value: money("100.00"), Type: models.PaymentIncome},
		{Date: date(2025, time.July, 1, 0, 0), Value: money("150.00"), Type: models.PaymentIncome},
		{Date: date(2025, time.July, 15, 0, 0), Value: money("80.50"), Type: models.PaymentExpense},
	} {
		payment := p
		require.NoError(t, db.Create(&payment).Error)
	}

	start := date(2025, time.July, 1, 0, 0)
	payments, err := svc.List(context.Background(), &start, nil)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	// Ordered by date descending.
	assert.True(t, payments[0].Date.After(payments[1].Date))

	assert.True(t, Total(payments).Equal(money("230.50")))
}

func TestDeletePayment(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFinancialService(db)

	payment := models.Payment{Date: date(2025, time.July, 1, 0, 0), Value: money("50.00"), Type: models.PaymentExpense}
	require.NoError(t, db.Create(&payment).Error)

	require.NoError(t, svc.Delete(context.Background(), payment.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), payment.ID), ErrNotFound)
}

func TestSummaryForPeriod(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFinancialService(db)

	for _, p := range []models.Payment{
		{Date: date(2025, time.July, 2, 0, 0), Value: money("150.00"), Type: models.PaymentIncome},
		{Date: date(2025, time.July, 9, 0, 0), Value: money("150.00"), Type: models.PaymentIncome},
		{Date: date(2025, time.July, 5, 0, 0), Value: money("1200.00"), Type: models.PaymentExpense},
		// Outside the period, must not count.
		{Date: date(2025, time.June, 30, 0, 0), Value: money("999.00"), Type: models.PaymentIncome},
	} {
		payment := p
		require.NoError(t, db.Create(&payment).Error)
	}

	summary, err := svc.SummaryForPeriod(context.Background(),
		date(2025, time.July, 1, 0, 0), date(2025, time.July, 31, 23, 59))
	require.NoError(t, err)

	assert.True(t, summary.Income.Equal(money("300.00")), "income = %s", summary.Income)
	assert.True(t, summary.Expenses.Equal(money("1200.00")), "expenses = %s", summary.Expenses)
	assert.True(t, summary.Net.Equal(money("-900.00")), "net = %s", summary.Net)
}

func TestSummaryForEmptyPeriodIsZero(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFinancialService(db)

	summary, err := svc.SummaryForPeriod(context.Background(),
		date(2025, time.January, 1, 0, 0), date(2025, time.January, 31, 0, 0))
	require.NoError(t, err)

	assert.True(t, summary.Income.IsZero())
	assert.True(t, summary.Expenses.IsZero())
	assert.True(t, summary.Net.IsZero())
}

func TestMonthlyChartBucketsTwelveMonths(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFinancialService(db)

	for _, p := range []models.Payment{
		{Date: date(2025, time.July, 2, 0, 0), Value: money("150.00"), Type: models.PaymentIncome},
		{Date: date(2025, time.June, 15, 0, 0), Value: money("200.00"), Type: models.PaymentIncome},
		{Date: date(2025, time.June, 5, 0, 0), Value: money("80.00"), Type: models.PaymentExpense},
	} {
		payment := p
		require.NoError(t, db.Create(&payment).Error)
	}

	chart, err := svc.MonthlyChart(context.Background(), date(2025, time.July, 1, 0, 0))
	require.NoError(t, err)

	require.Len(t, chart, 12)
	assert.Equal(t, "2024-08", chart[0].Month)
	assert.Equal(t, "2025-07", chart[11].Month)

	june := chart[10]
	assert.Equal(t, "2025-06", june.Month)
	assert.True(t, june.Income.Equal(money("200.00")))
	assert.True(t, june.Expenses.Equal(money("80.00")))

	july := chart[11]
	assert.True(t, july.Income.Equal(money("150.00")))
	assert.True(t, july.Expenses.IsZero())
}
