package models

import "time"

// Review is a user's rating of a hospital. Repeat reviews from the same user
// for the same hospital are allowed on purpose.
type Review struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID     int64     `gorm:"column:user_id;not null;index"`
	HospitalID int64     `gorm:"column:hospital_id;not null;index"`
	Rating     int       `gorm:"column:rating;not null"`
	Comment    string    `gorm:"column:comment;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
