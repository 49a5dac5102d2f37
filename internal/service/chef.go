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

// ChefProfileUpdate carries the editable chef profile fields.
type ChefProfileUpdate struct {
	Name              string
	Expertise         string
	Experience        string
	Bio               string
	ProfilePictureURL string
	Picture           *Upload
}

// ChefService manages chef profiles.
type ChefService struct {
	db     *gorm.DB
	images ImageStore
}

func NewChefService(db *gorm.DB, images ImageStore) *ChefService {
	return &ChefService{
		db:     db,
		images: images,
	}
}

// FindByEmail resolves the account behind a token subject.
func (s *ChefService) FindByEmail(ctx context.Context, email string) (*models.Chef, error) {
	var chef models.Chef
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&chef).Error; err != nil {
		return nil, fmt.Errorf("chef: %w", ErrNotFound)
	}
	return &chef, nil
}

// Profile fetches a chef by id.
func (s *ChefService) Profile(ctx context.Context, id uuid.UUID) (*models.Chef, error) {
	var chef models.Chef
	if err := s.db.WithContext(ctx).First(&chef, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("chef: %w", ErrNotFound)
	}
	return &chef, nil
}

// UpdateProfile applies the edit, releasing the old hosted avatar when it
// is replaced or cleared.
func (s *ChefService) UpdateProfile(ctx context.Context, id uuid.UUID, in ChefProfileUpdate) (*models.Chef, error) {
	var chef models.Chef
	if err := s.db.WithContext(ctx).First(&chef, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("chef: %w", ErrNotFound)
	}

	old := chef.ProfilePictureURL
	if in.Picture != nil {
		if s.images == nil {
			return nil, errors.New("image storage is not configured")
		}
		url, err := s.images.Upload(ctx, *in.Picture)
		if err != nil {
			return nil, err
		}
		chef.ProfilePictureURL = url
	} else {
		chef.ProfilePictureURL = in.ProfilePictureURL
	}

	chef.Name = in.Name
	chef.Expertise = in.Expertise
	chef.Experience = in.Experience
	chef.Bio = in.Bio
	if err := s.db.WithContext(ctx).Save(&chef).Error; err != nil {
		return nil, err
	}

	if old != "" && old != chef.ProfilePictureURL && s.images != nil {
		if err := s.images.Delete(ctx, old); err != nil {
			log.Printf("avatar cleanup failed for %s: %v", old, err)
		}
	}
	return &chef, nil
}
