package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newcooks/backend/internal/models"
)

func TestChefAnalyticsZeroRecipes(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnalyticsService(db)
	chef := seedChef(t, db, "chef@example.com")

	got, err := svc.ForChef(context.Background(), chef.ID)
	require.NoError(t, err)

	assert.Zero(t, got.TotalRecipes)
	assert.Zero(t, got.AvgReviewsPerRecipe)
	assert.Zero(t, got.AvgRating)
}

func TestChefAnalytics(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnalyticsService(db)
	chef := seedChef(t, db, "chef@example.com")
	r1 := seedRecipe(t, db, chef.ID, "Soup")
	r2 := seedRecipe(t, db, chef.ID, "Stew")

	u1 := seedUser(t, db, "a@example.com")
	u2 := seedUser(t, db, "b@example.com")

	require.NoError(t, db.Create(&models.Review{UserID: u1.ID, RecipeID: r1.ID, Comment: "x"}).Error)
	require.NoError(t, db.Create(&models.Review{UserID: u2.ID, RecipeID: r1.ID, Comment: "y"}).Error)
	require.NoError(t, db.Create(&models.Review{UserID: u1.ID, RecipeID: r2.ID, Comment: "z"}).Error)

	require.NoError(t, db.Create(&models.Rating{UserID: u1.ID, RecipeID: r1.ID, Value: 5}).Error)
	require.NoError(t, db.Create(&models.Rating{UserID: u2.ID, RecipeID: r2.ID, Value: 2}).Error)

	got, err := svc.ForChef(context.Background(), chef.ID)
	require.NoError(t, err)

	assert.EqualValues(t, 2, got.TotalRecipes)
	assert.InDelta(t, 1.5, got.AvgReviewsPerRecipe, 0.001)
	assert.InDelta(t, 3.5, got.AvgRating, 0.001)
}

func TestChefAnalyticsUnknownChef(t *testing.T) {
	svc := NewAnalyticsService(newTestDB(t))
	_, err := svc.ForChef(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserAnalytics(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnalyticsService(db)
	chef := seedChef(t, db, "chef@example.com")
	user := seedUser(t, db, "user@example.com")
	r1 := seedRecipe(t, db, chef.ID, "Soup")
	r2 := seedRecipe(t, db, chef.ID, "Stew")

	require.NoError(t, db.Create(&models.Review{UserID: user.ID, RecipeID: r1.ID, Comment: "x"}).Error)
	require.NoError(t, db.Create(&models.Rating{UserID: user.ID, RecipeID: r1.ID, Value: 4}).Error)
	require.NoError(t, db.Create(&models.Rating{UserID: user.ID, RecipeID: r2.ID, Value: 3}).Error)
	require.NoError(t, db.Create(&models.RecipeFavorite{UserID: user.ID, RecipeID: r2.ID}).Error)

	got, err := svc.ForUser(context.Background(), user.ID)
	require.NoError(t, err)

	assert.EqualValues(t, 1, got.RecipesReviewed)
	assert.EqualValues(t, 1, got.FavoritesCount)
	assert.EqualValues(t, 2, got.RatingsGiven)
}

func TestUserAnalyticsFresh(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnalyticsService(db)
	user := seedUser(t, db, "user@example.com")

	got, err := svc.ForUser(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Zero(t, got.RecipesReviewed)
	assert.Zero(t, got.FavoritesCount)
	assert.Zero(t, got.RatingsGiven)
}
