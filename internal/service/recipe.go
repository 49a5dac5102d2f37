package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/newcooks/backend/internal/models"
)

// assetDeleteAttempts caps the best-effort retries against the image host.
const assetDeleteAttempts = 3

// RecipeInput carries the client-supplied recipe fields. On update, Thumbnail
// and Images hold the URLs the client wants to keep; anything stored but
// absent from them is released from the image host.
type RecipeInput struct {
	Title         string
	Description   string
	Ingredients   []string
	Utensils      []string
	Instructions  []string
	NutritionInfo string
	Thumbnail     string
	Images        []string
}

// RecipeSuggestion is the lightweight search result row.
type RecipeSuggestion struct {
	ID               uuid.UUID `json:"id"`
	Title            string    `json:"title"`
	ShortDescription string    `json:"short_description"`
}

// RecipeService handles recipe lifecycle, ownership checks and the hosted
// image bookkeeping that goes with it.
type RecipeService struct {
	db     *gorm.DB
	images ImageStore
}

func NewRecipeService(db *gorm.DB, images ImageStore) *RecipeService {
	return &RecipeService{
		db:     db,
		images: images,
	}
}

// Create persists a new recipe for the chef. Files are uploaded to the image
// host first; only the returned URLs are stored.
func (s *RecipeService) Create(ctx context.Context, chefID uuid.UUID, in RecipeInput, thumbnail *Upload, imageFiles []Upload) (*models.Recipe, error) {
	var chef models.Chef
	if err := s.db.WithContext(ctx).First(&chef, "id = ?", chefID).Error; err != nil {
		return nil, fmt.Errorf("chef: %w", ErrNotFound)
	}

	taken, err := s.titleTaken(ctx, chefID, in.Title)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrDuplicateTitle
	}

	recipe := models.Recipe{
		Title:         in.Title,
		Description:   in.Description,
		Ingredients:   in.Ingredients,
		Utensils:      in.Utensils,
		Instructions:  in.Instructions,
		NutritionInfo: in.NutritionInfo,
		ChefID:        chefID,
	}

	uploaded, err := s.uploadFiles(ctx, thumbnail, imageFiles, &recipe)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(&recipe).Error; err != nil {
		// The row never landed; release whatever we already uploaded.
		s.cleanupAssets(ctx, uploaded)
		return nil, err
	}
	return &recipe, nil
}

// Update replaces the recipe's fields wholesale and reconciles hosted images:
// stored URLs missing from the desired list are released, new files are
// uploaded and appended. Title uniqueness is re-checked only when the title
// changed.
func (s *RecipeService) Update(ctx context.Context, chefID, recipeID uuid.UUID, in RecipeInput, newThumbnail *Upload, newImageFiles []Upload) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		return nil, fmt.Errorf("recipe: %w", ErrNotFound)
	}
	if recipe.ChefID != chefID {
		return nil, fmt.Errorf("cannot update another chef's recipe: %w", ErrForbidden)
	}

	if !strings.EqualFold(recipe.Title, in.Title) {
		taken, err := s.titleTaken(ctx, chefID, in.Title)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrDuplicateTitle
		}
	}

	keep := make(map[string]bool, len(in.Images))
	for _, u := range in.Images {
		keep[u] = true
	}
	var removed []string
	kept := make(models.StringArray, 0, len(in.Images))
	for _, u := range recipe.ImageURLs {
		if keep[u] {
			kept = append(kept, u)
		} else {
			removed = append(removed, u)
		}
	}

	recipe.Title = in.Title
	recipe.Description = in.Description
	recipe.Ingredients = in.Ingredients
	recipe.Utensils = in.Utensils
	recipe.Instructions = in.Instructions
	recipe.NutritionInfo = in.NutritionInfo
	recipe.ImageURLs = kept

	oldThumbnail := recipe.ThumbnailURL
	switch {
	case newThumbnail != nil:
		url, err := s.upload(ctx, *newThumbnail)
		if err != nil {
			return nil, err
		}
		recipe.ThumbnailURL = url
		if oldThumbnail != "" {
			removed = append(removed, oldThumbnail)
		}
	case in.Thumbnail == "" && oldThumbnail != "":
		recipe.ThumbnailURL = ""
		removed = append(removed, oldThumbnail)
	}

	for _, f := range newImageFiles {
		url, err := s.upload(ctx, f)
		if err != nil {
			return nil, err
		}
		recipe.ImageURLs = append(recipe.ImageURLs, url)
	}

	if err := s.db.WithContext(ctx).Save(&recipe).Error; err != nil {
		return nil, err
	}

	// Release dropped assets only after the row is safely updated.
	s.cleanupAssets(ctx, removed)
	return &recipe, nil
}

// Delete removes the recipe row together with its ratings, reviews and
// favorite links. Hosted assets are released best-effort first; a failed
// image-host call never blocks the local delete.
func (s *RecipeService) Delete(ctx context.Context, chefID, recipeID uuid.UUID) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		return fmt.Errorf("recipe: %w", ErrNotFound)
	}
	if recipe.ChefID != chefID {
		return fmt.Errorf("cannot delete another chef's recipe: %w", ErrForbidden)
	}

	var assets []string
	if recipe.ThumbnailURL != "" {
		assets = append(assets, recipe.ThumbnailURL)
	}
	assets = append(assets, recipe.ImageURLs...)
	s.cleanupAssets(ctx, assets)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.Rating{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeFavorite{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, "id = ?", recipeID).Error
	})
}

// RemoveImage releases one hosted asset and drops it from the recipe. The
// URL may be the thumbnail or any gallery image.
func (s *RecipeService) RemoveImage(ctx context.Context, chefID, recipeID uuid.UUID, imageURL string) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		return nil, fmt.Errorf("recipe: %w", ErrNotFound)
	}
	if recipe.ChefID != chefID {
		return nil, fmt.Errorf("cannot modify another chef's recipe: %w", ErrForbidden)
	}

	if imageURL == recipe.ThumbnailURL {
		recipe.ThumbnailURL = ""
		s.cleanupAssets(ctx, []string{imageURL})
	} else {
		kept := make(models.StringArray, 0, len(recipe.ImageURLs))
		found := false
		for _, u := range recipe.ImageURLs {
			if u == imageURL {
				found = true
				continue
			}
			kept = append(kept, u)
		}
		if !found {
			return nil, fmt.Errorf("image: %w", ErrNotFound)
		}
		recipe.ImageURLs = kept
		s.cleanupAssets(ctx, []string{imageURL})
	}

	if err := s.db.WithContext(ctx).Save(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// Get retrieves a recipe with its owning chef.
func (s *RecipeService) Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).Preload("Chef").First(&recipe, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("recipe: %w", ErrNotFound)
	}
	return &recipe, nil
}

// List returns one page of recipes plus the total count. Page is zero-based.
func (s *RecipeService) List(ctx context.Context, page, size int) ([]models.Recipe, int64, error) {
	if size <= 0 {
		size = 12
	}
	if page < 0 {
		page = 0
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []models.Recipe
	err := s.db.WithContext(ctx).Preload("Chef").
		Order("created_at DESC").
		Offset(page * size).Limit(size).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

// ByChef returns every recipe owned by the chef.
func (s *RecipeService) ByChef(ctx context.Context, chefID uuid.UUID) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).Preload("Chef").
		Where("chef_id = ?", chefID).
		Order("created_at DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

// SearchAll matches the keyword against recipe titles, case-insensitive.
func (s *RecipeService) SearchAll(ctx context.Context, keyword string) ([]RecipeSuggestion, error) {
	like := "%" + strings.ToLower(keyword) + "%"
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Where("LOWER(title) LIKE ?", like).
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return toSuggestions(recipes), nil
}

// SearchByChef matches the keyword against title or description within one
// chef's recipes.
func (s *RecipeService) SearchByChef(ctx context.Context, chefID uuid.UUID, keyword string) ([]RecipeSuggestion, error) {
	like := "%" + strings.ToLower(keyword) + "%"
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Where("chef_id = ?", chefID).
		Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like).
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return toSuggestions(recipes), nil
}

func (s *RecipeService) titleTaken(ctx context.Context, chefID uuid.UUID, title string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("chef_id = ? AND LOWER(title) = ?", chefID, strings.ToLower(title)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *RecipeService) uploadFiles(ctx context.Context, thumbnail *Upload, imageFiles []Upload, recipe *models.Recipe) ([]string, error) {
	var uploaded []string
	if thumbnail != nil {
		url, err := s.upload(ctx, *thumbnail)
		if err != nil {
			s.cleanupAssets(ctx, uploaded)
			return nil, err
		}
		recipe.ThumbnailURL = url
		uploaded = append(uploaded, url)
	}
	for _, f := range imageFiles {
		url, err := s.upload(ctx, f)
		if err != nil {
			s.cleanupAssets(ctx, uploaded)
			return nil, err
		}
		recipe.ImageURLs = append(recipe.ImageURLs, url)
		uploaded = append(uploaded, url)
	}
	return uploaded, nil
}

func (s *RecipeService) upload(ctx context.Context, img Upload) (string, error) {
	if s.images == nil {
		return "", errors.New("image storage is not configured")
	}
	return s.images.Upload(ctx, img)
}

// cleanupAssets releases hosted assets best-effort: each URL gets a bounded
// number of attempts, failures are logged and swallowed so the local state
// change always wins. An orphaned asset is acceptable, a dangling row is not.
func (s *RecipeService) cleanupAssets(ctx context.Context, urls []string) {
	if s.images == nil {
		return
	}
	for _, u := range urls {
		var err error
		for attempt := 1; attempt <= assetDeleteAttempts; attempt++ {
			if err = s.images.Delete(ctx, u); err == nil {
				break
			}
		}
		if err != nil {
			log.Printf("image host cleanup failed for %s after %d attempts: %v", u, assetDeleteAttempts, err)
		}
	}
}

func toSuggestions(recipes []models.Recipe) []RecipeSuggestion {
	out := make([]RecipeSuggestion, len(recipes))
	for i, r := range recipes {
		out[i] = RecipeSuggestion{
			ID:               r.ID,
			Title:            r.Title,
			ShortDescription: truncateDescription(r.Description),
		}
	}
	return out
}

// truncateDescription caps suggestion descriptions at 80 characters.
func truncateDescription(s string) string {
	runes := []rune(s)
	if len(runes) <= 80 {
		return s
	}
	return string(runes[:80]) + "..."
}
