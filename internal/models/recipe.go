package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StringArray stores an ordered list of strings as a JSON column.
type StringArray []string

// Value implements the driver.Valuer interface
func (a StringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// Recipe is owned by exactly one chef. Title is unique per chef
// (case-insensitive, enforced in the recipe service). Thumbnail and image
// URLs reference externally hosted assets; the row never holds binary data.
// Recipes are hard-deleted: removing one also removes its ratings, reviews
// and favorite links.
type Recipe struct {
	ID            uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
	Title         string      `gorm:"size:255;not null;uniqueIndex:idx_recipes_chef_title" json:"title"`
	Description   string      `gorm:"type:text" json:"description"`
	Ingredients   StringArray `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Utensils      StringArray `gorm:"type:jsonb;not null;default:'[]'" json:"utensils"`
	Instructions  StringArray `gorm:"type:jsonb;not null;default:'[]'" json:"instructions"`
	NutritionInfo string      `gorm:"type:text" json:"nutrition_info"`
	ThumbnailURL  string      `gorm:"size:255" json:"thumbnail_url"`
	ImageURLs     StringArray `gorm:"type:jsonb;not null;default:'[]'" json:"image_urls"`
	ChefID        uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_recipes_chef_title;index" json:"chef_id"`

	Chef    *Chef    `gorm:"foreignKey:ChefID" json:"chef,omitempty"`
	Ratings []Rating `gorm:"foreignKey:RecipeID" json:"-"`
	Reviews []Review `gorm:"foreignKey:RecipeID" json:"-"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
