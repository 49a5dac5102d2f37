package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/newcooks/backend/internal/models"
)

// RatingStats aggregates a recipe's ratings into the fixed 1..5 histogram.
// Counts always contains all five buckets, zero-filled when empty.
type RatingStats struct {
	Average float64     `json:"average"`
	Total   int64       `json:"total"`
	Counts  map[int]int `json:"counts"`
}

// RatingService manages per-user recipe ratings. A user holds at most one
// rating per recipe; submitting again overwrites the previous value.
type RatingService struct {
	db *gorm.DB
}

func NewRatingService(db *gorm.DB) *RatingService {
	return &RatingService{db: db}
}

// AddOrUpdate upserts the user's rating for the recipe.
func (s *RatingService) AddOrUpdate(ctx context.Context, userID, recipeID uuid.UUID, value int) (*models.Rating, error) {
	if value < 1 || value > 5 {
		return nil, ErrInvalidRating
	}
	if err := s.db.WithContext(ctx).First(&models.Recipe{}, "id = ?", recipeID).Error; err != nil {
		return nil, fmt.Errorf("recipe: %w", ErrNotFound)
	}
	if err := s.db.WithContext(ctx).First(&models.User{}, "id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("user: %w", ErrNotFound)
	}

	rating := models.Rating{
		UserID:   userID,
		RecipeID: recipeID,
		Value:    value,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "recipe_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"value": value}),
	}).Create(&rating).Error
	if err != nil {
		return nil, err
	}

	// On the conflict path the stored row keeps its original id; return the
	// persisted state rather than the in-memory candidate.
	var saved models.Rating
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		First(&saved).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

// Stats computes the rating histogram for a recipe. A recipe with no ratings
// yields average 0.0 and five zero buckets.
func (s *RatingService) Stats(ctx context.Context, recipeID uuid.UUID) (*RatingStats, error) {
	if err := s.db.WithContext(ctx).First(&models.Recipe{}, "id = ?", recipeID).Error; err != nil {
		return nil, fmt.Errorf("recipe: %w", ErrNotFound)
	}

	var rows []struct {
		Value int
		N     int64
	}
	err := s.db.WithContext(ctx).Model(&models.Rating{}).
		Select("value, COUNT(*) AS n").
		Where("recipe_id = ?", recipeID).
		Group("value").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := &RatingStats{Counts: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}
	var sum int64
	for _, r := range rows {
		stats.Counts[r.Value] = int(r.N)
		stats.Total += r.N
		sum += int64(r.Value) * r.N
	}
	if stats.Total > 0 {
		stats.Average = float64(sum) / float64(stats.Total)
	}
	return stats, nil
}

// Average returns just the mean rating, 0.0 for an unrated recipe.
func (s *RatingService) Average(ctx context.Context, recipeID uuid.UUID) (float64, error) {
	stats, err := s.Stats(ctx, recipeID)
	if err != nil {
		return 0, err
	}
	return stats.Average, nil
}

// ForUser returns the rating the user gave the recipe, 0 when they never
// rated it.
func (s *RatingService) ForUser(ctx context.Context, userID, recipeID uuid.UUID) (int, error) {
	var rating models.Rating
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		First(&rating).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, nil
		}
		return 0, err
	}
	return rating.Value, nil
}

// Delete removes the user's rating for the recipe. Deleting a rating that
// does not exist is an error.
func (s *RatingService) Delete(ctx context.Context, userID, recipeID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.Rating{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("rating: %w", ErrNotFound)
	}
	return nil
}
