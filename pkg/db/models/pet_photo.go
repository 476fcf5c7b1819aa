package models

import "time"

// PetPhoto references a stored image file on the community photo wall. The
// file itself lives in object/disk storage; this row owns only the public URL.
type PetPhoto struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID      int64     `gorm:"column:user_id;not null;index"`
	PetName     string    `gorm:"column:pet_name;not null"`
	PhotoURL    string    `gorm:"column:photo_url;not null"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
