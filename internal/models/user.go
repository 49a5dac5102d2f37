package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account that browses, rates, reviews and favorites recipes.
type User struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
	Name              string         `gorm:"not null" json:"name"`
	Email             string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash      string         `gorm:"not null" json:"-"`
	Active            bool           `gorm:"not null;default:false" json:"active"`
	ActivationToken   *string        `gorm:"uniqueIndex" json:"-"`
	AboutMe           string         `gorm:"type:text" json:"about_me"`
	ProfilePictureURL string         `gorm:"size:255" json:"profile_picture_url"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
