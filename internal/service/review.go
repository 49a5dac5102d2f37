package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/newcooks/backend/internal/models"
)

// ReviewView is a review joined with its author's public profile fields.
type ReviewView struct {
	ID                uuid.UUID `json:"id"`
	RecipeID          uuid.UUID `json:"recipe_id"`
	UserID            uuid.UUID `json:"user_id"`
	Comment           string    `json:"comment"`
	UserName          string    `json:"user_name"`
	ProfilePictureURL string    `json:"profile_picture_url"`
	AboutMe           string    `json:"about_me"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// MostReviewedRecipe pairs a recipe with its review count for rankings.
type MostReviewedRecipe struct {
	RecipeID     uuid.UUID `json:"recipe_id"`
	Title        string    `json:"title"`
	ThumbnailURL string    `json:"thumbnail_url"`
	ReviewCount  int64     `json:"review_count"`
}

// ReviewService manages written recipe reviews. Like ratings, a user keeps
// at most one review per recipe and resubmitting replaces the text.
type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// AddOrUpdate upserts the user's review text for the recipe. Blank comments
// are rejected.
func (s *ReviewService) AddOrUpdate(ctx context.Context, userID, recipeID uuid.UUID, comment string) (*models.Review, error) {
	if strings.TrimSpace(comment) == "" {
		return nil, ErrEmptyReview
	}
	if err := s.db.WithContext(ctx).First(&models.Recipe{}, "id = ?", recipeID).Error; err != nil {
		return nil, fmt.Errorf("recipe: %w", ErrNotFound)
	}
	if err := s.db.WithContext(ctx).First(&models.User{}, "id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("user: %w", ErrNotFound)
	}

	review := models.Review{
		UserID:   userID,
		RecipeID: recipeID,
		Comment:  comment,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "recipe_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"comment": comment, "updated_at": time.Now()}),
	}).Create(&review).Error
	if err != nil {
		return nil, err
	}

	// Return the persisted row; on conflict the stored id survives, not the
	// one generated for the insert candidate.
	var saved models.Review
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		First(&saved).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

// ForRecipe returns a recipe's reviews with author names and avatars
// attached, newest first.
func (s *ReviewService) ForRecipe(ctx context.Context, recipeID uuid.UUID) ([]ReviewView, error) {
	var reviews []models.Review
	err := s.db.WithContext(ctx).Preload("User").
		Where("recipe_id = ?", recipeID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}

	out := make([]ReviewView, len(reviews))
	for i, r := range reviews {
		out[i] = ReviewView{
			ID:        r.ID,
			RecipeID:  r.RecipeID,
			UserID:    r.UserID,
			Comment:   r.Comment,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		}
		if r.User != nil {
			out[i].UserName = r.User.Name
			out[i].ProfilePictureURL = r.User.ProfilePictureURL
			out[i].AboutMe = r.User.AboutMe
		}
	}
	return out, nil
}

// ForUser returns every review the user has written.
func (s *ReviewService) ForUser(ctx context.Context, userID uuid.UUID) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// ForUserOnRecipe returns the user's review of a recipe, or a zero-valued
// review when they have not written one.
func (s *ReviewService) ForUserOnRecipe(ctx context.Context, userID, recipeID uuid.UUID) (*models.Review, error) {
	var review models.Review
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.Review{}, nil
		}
		return nil, err
	}
	return &review, nil
}

// Delete removes a review by its id, but only for its author.
func (s *ReviewService) Delete(ctx context.Context, userID, reviewID uuid.UUID) error {
	var review models.Review
	if err := s.db.WithContext(ctx).First(&review, "id = ?", reviewID).Error; err != nil {
		return fmt.Errorf("review: %w", ErrNotFound)
	}
	if review.UserID != userID {
		return fmt.Errorf("cannot delete another user's review: %w", ErrForbidden)
	}
	return s.db.WithContext(ctx).Delete(&review).Error
}

// MostReviewed ranks recipes by review count, descending.
func (s *ReviewService) MostReviewed(ctx context.Context, limit int) ([]MostReviewedRecipe, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []MostReviewedRecipe
	err := s.db.WithContext(ctx).Model(&models.Review{}).
		Select("reviews.recipe_id, recipes.title, recipes.thumbnail_url, COUNT(*) AS review_count").
		Joins("JOIN recipes ON recipes.id = reviews.recipe_id").
		Group("reviews.recipe_id, recipes.title, recipes.thumbnail_url").
		Order("review_count DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
