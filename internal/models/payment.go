package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentType distinguishes session income from practice expenses.
type PaymentType string

const (
	PaymentIncome  PaymentType = "income"
	PaymentExpense PaymentType = "expense"
)

// Payment represents a financial record. PatientID is null for practice
// expenses (rent, supplies); income records may link back to a patient.
type Payment struct {
	BaseModel
	PatientID *string         `gorm:"size:36;index" json:"patientId,omitempty"`
	Date      time.Time       `gorm:"not null;index" json:"date"`
	Value     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"value"`
	Type      PaymentType     `gorm:"size:20;not null;default:'income'" json:"type"`
	Notes     string          `gorm:"type:text" json:"notes"`

	Patient *Patient `gorm:"foreignKey:PatientID" json:"-"`
}
