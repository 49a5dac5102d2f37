package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rating holds one star value per (user, recipe) pair. The composite unique
// index backs the application-level upsert so two concurrent submissions for
// the same pair can never produce two rows.
type Rating struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ratings_user_recipe" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ratings_user_recipe;index" json:"recipe_id"`
	Value     int       `gorm:"not null" json:"value"`
}

func (r *Rating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
