package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"practice-manager-server/internal/models"
)

// FinancialService owns payment records and the summary aggregations behind
// the dashboard.
type FinancialService struct {
	DB *gorm.DB
}

// NewFinancialService creates a new FinancialService.
func NewFinancialService(db *gorm.DB) *FinancialService {
	return &FinancialService{DB: db}
}

// PaymentInput carries the form fields for registering a payment.
type PaymentInput struct {
	PatientID *string
	Date      time.Time
	Value     decimal.Decimal
	Type      models.PaymentType
	Notes     string
}

// FinancialSummary aggregates a period's payments by type.
type FinancialSummary struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
}

// MonthlyTotals is one month's bucket of the dashboard chart.
type MonthlyTotals struct {
	Month    string          `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
}

// Register records a new income or expense. Only income records may be
// linked to a patient; practice expenses drop any patient reference.
func (s *FinancialService) Register(ctx context.Context, in PaymentInput) (*models.Payment, error) {
	payment := &models.Payment{
		Date:  in.Date,
		Value: in.Value,
		Type:  in.Type,
		Notes: in.Notes,
	}
	if in.Type == models.PaymentIncome {
		payment.PatientID = in.PatientID
	}

	if err := s.DB.WithContext(ctx).Create(payment).Error; err != nil {
		return nil, fmt.Errorf("registering payment: %w", err)
	}
	return payment, nil
}

// GetByID fetches one payment.
func (s *FinancialService) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	var payment models.Payment
	err := s.DB.WithContext(ctx).First(&payment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// List returns payments ordered by date descending, optionally bounded by an
// inclusive date range.
func (s *FinancialService) List(ctx context.Context, start, end *time.Time) ([]models.Payment, error) {
	query := s.DB.WithContext(ctx).Order("date desc")
	if start != nil {
		query = query.Where("date >= ?", *start)
	}
	if end != nil {
		query = query.Where("date <= ?", *end)
	}

	var payments []models.Payment
	if err := query.Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// Delete removes one payment record.
func (s *FinancialService) Delete(ctx context.Context, id string) error {
	result := s.DB.WithContext(ctx).Delete(&models.Payment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Total sums the values of a list of payments regardless of type.
func Total(payments []models.Payment) decimal.Decimal {
	total := decimal.Zero
	for _, payment := range payments {
		total = total.Add(payment.Value)
	}
	return total
}

// SummaryForPeriod aggregates income, expenses and net result over an
// inclusive date range.
func (s *FinancialService) SummaryForPeriod(ctx context.Context, start, end time.Time) (*FinancialSummary, error) {
	income, err := s.sumByType(ctx, models.PaymentIncome, start, end)
	if err != nil {
		return nil, err
	}
	expenses, err := s.sumByType(ctx, models.PaymentExpense, start, end)
	if err != nil {
		return nil, err
	}

	return &FinancialSummary{
		Income:   income,
		Expenses: expenses,
		Net:      income.Sub(expenses),
	}, nil
}

// MonthlyChart returns twelve month-bucketed income/expense totals, ending
// at the month containing the reference date.
func (s *FinancialService) MonthlyChart(ctx context.Context, reference time.Time) ([]MonthlyTotals, error) {
	firstOfReference := time.Date(reference.Year(), reference.Month(), 1, 0, 0, 0, 0, reference.Location())

	buckets := make([]MonthlyTotals, 0, 12)
	for i := 11; i >= 0; i-- {
		start := firstOfReference.AddDate(0, -i, 0)
		end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)

		summary, err := s.SummaryForPeriod(ctx, start, end)
		if err != nil {
			return nil, err
		}
		buckets = append(buckets, MonthlyTotals{
			Month:    start.Format("2006-01"),
			Income:   summary.Income,
			Expenses: summary.Expenses,
		})
	}

	return buckets, nil
}

// sumByType sums payment values of one type over an inclusive date range.
// The SUM runs in the database; NULL (no rows) scans as zero.
func (s *FinancialService) sumByType(ctx context.Context, paymentType models.PaymentType, start, end time.Time) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := s.DB.WithContext(ctx).Model(&models.Payment{}).
		Select("SUM(value)").
		Where("type = ? AND date >= ? AND date <= ?", paymentType, start, end).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("summing %s payments: %w", paymentType, err)
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
