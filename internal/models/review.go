package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is a free-text comment, at most one per (user, recipe) pair.
type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_recipe" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_recipe;index" json:"recipe_id"`
	Comment   string    `gorm:"type:text;not null" json:"comment"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
