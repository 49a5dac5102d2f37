package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/newcooks/backend/internal/models"
)

// ChefAnalytics summarizes engagement across all of a chef's recipes.
type ChefAnalytics struct {
	TotalRecipes        int64   `json:"total_recipes"`
	AvgReviewsPerRecipe float64 `json:"avg_reviews_per_recipe"`
	AvgRating           float64 `json:"avg_rating"`
}

// UserAnalytics summarizes a user's activity on the platform.
type UserAnalytics struct {
	RecipesReviewed int64 `json:"recipes_reviewed"`
	FavoritesCount  int64 `json:"favorites_count"`
	RatingsGiven    int64 `json:"ratings_given"`
}

// AnalyticsService computes aggregate engagement figures for dashboards.
type AnalyticsService struct {
	db *gorm.DB
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

// ForChef aggregates review and rating activity over the chef's recipes.
// A chef without recipes gets all zeros without touching the other tables.
func (s *AnalyticsService) ForChef(ctx context.Context, chefID uuid.UUID) (*ChefAnalytics, error) {
	if err := s.db.WithContext(ctx).First(&models.Chef{}, "id = ?", chefID).Error; err != nil {
		return nil, fmt.Errorf("chef: %w", ErrNotFound)
	}

	out := &ChefAnalytics{}
	err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("chef_id = ?", chefID).
		Count(&out.TotalRecipes).Error
	if err != nil {
		return nil, err
	}
	if out.TotalRecipes == 0 {
		return out, nil
	}

	var reviewCount int64
	err = s.db.WithContext(ctx).Model(&models.Review{}).
		Joins("JOIN recipes ON recipes.id = reviews.recipe_id").
		Where("recipes.chef_id = ?", chefID).
		Count(&reviewCount).Error
	if err != nil {
		return nil, err
	}
	out.AvgReviewsPerRecipe = float64(reviewCount) / float64(out.TotalRecipes)

	var avg struct {
		Avg *float64
	}
	err = s.db.WithContext(ctx).Model(&models.Rating{}).
		Select("AVG(ratings.value) AS avg").
		Joins("JOIN recipes ON recipes.id = ratings.recipe_id").
		Where("recipes.chef_id = ?", chefID).
		Scan(&avg).Error
	if err != nil {
		return nil, err
	}
	if avg.Avg != nil {
		out.AvgRating = *avg.Avg
	}
	return out, nil
}

// ForUser counts the user's reviews, favorites and ratings.
func (s *AnalyticsService) ForUser(ctx context.Context, userID uuid.UUID) (*UserAnalytics, error) {
	if err := s.db.WithContext(ctx).First(&models.User{}, "id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("user: %w", ErrNotFound)
	}

	out := &UserAnalytics{}
	if err := s.db.WithContext(ctx).Model(&models.Review{}).Where("user_id = ?", userID).Count(&out.RecipesReviewed).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.RecipeFavorite{}).Where("user_id = ?", userID).Count(&out.FavoritesCount).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.Rating{}).Where("user_id = ?", userID).Count(&out.RatingsGiven).Error; err != nil {
		return nil, err
	}
	return out, nil
}
