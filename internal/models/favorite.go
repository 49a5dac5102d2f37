package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecipeFavorite links a user to a favorited recipe. The composite unique
// index gives the favorites set its set semantics.
type RecipeFavorite struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorites_user_recipe" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorites_user_recipe;index" json:"recipe_id"`
}

func (RecipeFavorite) TableName() string {
	return "recipe_favorites"
}

func (f *RecipeFavorite) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
