package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/newcooks/backend/internal/models"
)

// UserProfileUpdate carries the editable user profile fields. A nil Picture
// keeps the current avatar; an empty desired URL together with no new file
// clears it.
type UserProfileUpdate struct {
	Name              string
	AboutMe           string
	ProfilePictureURL string
	Picture           *Upload
}

// UserService manages user profiles and their favorite recipes.
type UserService struct {
	db     *gorm.DB
	images ImageStore
}

func NewUserService(db *gorm.DB, images ImageStore) *UserService {
	return &UserService{
		db:     db,
		images: images,
	}
}

// FindByEmail resolves the account behind a token subject.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, fmt.Errorf("user: %w", ErrNotFound)
	}
	return &user, nil
}

// Profile fetches a user by id.
func (s *UserService) Profile(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("user: %w", ErrNotFound)
	}
	return &user, nil
}

// UpdateProfile applies the edit. When the avatar changes, the previous
// hosted image is released.
func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, in UserProfileUpdate) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("user: %w", ErrNotFound)
	}

	old := user.ProfilePictureURL
	if in.Picture != nil {
		if s.images == nil {
			return nil, errors.New("image storage is not configured")
		}
		url, err := s.images.Upload(ctx, *in.Picture)
		if err != nil {
			return nil, err
		}
		user.ProfilePictureURL = url
	} else {
		user.ProfilePictureURL = in.ProfilePictureURL
	}

	user.Name = in.Name
	user.AboutMe = in.AboutMe
	if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
		return nil, err
	}

	if old != "" && old != user.ProfilePictureURL && s.images != nil {
		if err := s.images.Delete(ctx, old); err != nil {
			// Orphaned avatar, no reason to fail the update.
			log.Printf("avatar cleanup failed for %s: %v", old, err)
		}
	}
	return &user, nil
}

// ToggleFavorite flips the user's favorite mark on a recipe. It reports the
// resulting state: true when the recipe is now a favorite.
func (s *UserService) ToggleFavorite(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	if err := s.db.WithContext(ctx).First(&models.Recipe{}, "id = ?", recipeID).Error; err != nil {
		return false, fmt.Errorf("recipe: %w", ErrNotFound)
	}

	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.RecipeFavorite{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	fav := models.RecipeFavorite{UserID: userID, RecipeID: recipeID}
	if err := s.db.WithContext(ctx).Create(&fav).Error; err != nil {
		return false, err
	}
	return true, nil
}

// Favorites lists the user's favorite recipes, most recently added first.
func (s *UserService) Favorites(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).Preload("Chef").
		Joins("JOIN recipe_favorites ON recipe_favorites.recipe_id = recipes.id").
		Where("recipe_favorites.user_id = ?", userID).
		Order("recipe_favorites.created_at DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

// IsFavorite reports whether the user has favorited the recipe.
func (s *UserService) IsFavorite(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.RecipeFavorite{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
