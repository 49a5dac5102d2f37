package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Chef is an account that authors recipes. Accounts start inactive and are
// activated through the emailed one-time token.
type Chef struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
	Name              string         `gorm:"not null" json:"name"`
	Email             string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash      string         `gorm:"not null" json:"-"`
	Active            bool           `gorm:"not null;default:false" json:"active"`
	ActivationToken   *string        `gorm:"uniqueIndex" json:"-"`
	Expertise         string         `gorm:"size:255" json:"expertise"`
	Experience        string         `gorm:"size:255" json:"experience"`
	Bio               string         `gorm:"type:text" json:"bio"`
	ProfilePictureURL string         `gorm:"size:255" json:"profile_picture_url"`

	Recipes []Recipe `gorm:"foreignKey:ChefID" json:"-"`
}

func (c *Chef) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
