package models

import "time"

// HealthRecord tracks one vet visit for a user's pet. Optional fields are
// stored as NULL rather than empty strings.
type HealthRecord struct {
	ID              int64      `gorm:"column:id;primaryKey;autoIncrement"`
	UserID          int64      `gorm:"column:user_id;not null;index"`
	PetName         string     `gorm:"column:pet_name;not null"`
	CheckupDate     time.Time  `gorm:"column:checkup_date;type:date;not null"`
	VetName         *string    `gorm:"column:vet_name"`
	Diagnosis       *string    `gorm:"column:diagnosis"`
	Treatment       *string    `gorm:"column:treatment"`
	NextAppointment *time.Time `gorm:"column:next_appointment;type:date"`
	Notes           *string    `gorm:"column:notes"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
}
