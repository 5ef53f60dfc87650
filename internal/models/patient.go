package models

import (
	"time"
)

// Patient represents a patient of the practice.
type Patient struct {
	BaseModel
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;size:120;not null" json:"email"`
	Phone     string    `gorm:"size:20;not null" json:"phone"`
	BirthDate time.Time `gorm:"type:date;not null" json:"birthDate"`
	Notes     string    `gorm:"type:text" json:"notes"`
	IsActive  bool      `gorm:"default:true;not null" json:"isActive"`

	// Relations (not always preloaded)
	Appointments []Appointment `gorm:"foreignKey:PatientID;constraint:OnDelete:CASCADE" json:"-"`
	Payments     []Payment     `gorm:"foreignKey:PatientID;constraint:OnDelete:CASCADE" json:"-"`
}
