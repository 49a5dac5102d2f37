package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newcooks/backend/internal/models"
)

func TestAddReviewRejectsBlank(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)
	chef := seedChef(t, db, "chef@example.com")
	user := seedUser(t, db, "user@example.com")
	recipe := seedRecipe(t, db, chef.ID, "Soup")

	for _, comment := range []string{"", "   ", "\n\t"} {
		_, err := svc.AddOrUpdate(context.Background(), user.ID, recipe.ID, comment)
		assert.ErrorIs(t, err, ErrEmptyReview)
	}
}

func TestAddReviewUpserts(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)
	chef := seedChef(t, db, "chef@example.com")
	user := seedUser(t, db, "user@example.com")
	recipe := seedRecipe(t, db, chef.ID, "Soup")

	_, err := svc.AddOrUpdate(context.Background(), user.ID, recipe.ID, "decent")
	require.NoError(t, err)
	_, err = svc.AddOrUpdate(context.Background(), user.ID, recipe.ID, "actually great")
	require.NoError(t, err)

	assert.EqualValues(t, 1, tableCount(t, db, &models.Review{}))

	reviews, err := svc.ForUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "actually great", reviews[0].Comment)
}

func TestReviewsForRecipeIncludeAuthor(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)
	chef := seedChef(t, db, "chef@example.com")
	user := seedUser(t, db, "user@example.com")
	recipe := seedRecipe(t, db, chef.ID, "Soup")

	_, err := svc.AddOrUpdate(context.Background(), user.ID, recipe.ID, "great")
	require.NoError(t, err)

	views, err := svc.ForRecipe(context.Background(), recipe.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)

	assert.Equal(t, user.Name, views[0].UserName)
	assert.Equal(t, "home cook", views[0].AboutMe)
	assert.Equal(t, "great", views[0].Comment)
}

func TestReviewForUserOnRecipe(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)
	chef := seedChef(t, db, "chef@example.com")
	user := seedUser(t, db, "user@example.com")
	recipe := seedRecipe(t, db, chef.ID, "Soup")

	review, err := svc.ForUserOnRecipe(context.Background(), user.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, review.ID)
	assert.Empty(t, review.Comment)

	_, err = svc.AddOrUpdate(context.Background(), user.ID, recipe.ID, "solid weeknight dish")
	require.NoError(t, err)

	review, err = svc.ForUserOnRecipe(context.Background(), user.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "solid weeknight dish", review.Comment)
	assert.Equal(t, recipe.ID, review.RecipeID)
}

func TestDeleteReviewAuthorOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)
	chef := seedChef(t, db, "chef@example.com")
	author := seedUser(t, db, "author@example.com")
	stranger := seedUser(t, db, "stranger@example.com")
	recipe := seedRecipe(t, db, chef.ID, "Soup")

	review, err := svc.AddOrUpdate(context.Background(), author.ID, recipe.ID, "mine")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(context.Background(), stranger.ID, review.ID), ErrForbidden)

	require.NoError(t, svc.Delete(context.Background(), author.ID, review.ID))
	assert.Zero(t, tableCount(t, db, &models.Review{}))

	assert.ErrorIs(t, svc.Delete(context.Background(), author.ID, review.ID), ErrNotFound)
}

func TestDeleteReviewUnknownID(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)
	user := seedUser(t, db, "user@example.com")

	assert.ErrorIs(t, svc.Delete(context.Background(), user.ID, uuid.New()), ErrNotFound)
}

func TestMostReviewed(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)
	chef := seedChef(t, db, "chef@example.com")
	popular := seedRecipe(t, db, chef.ID, "Popular")
	quiet := seedRecipe(t, db, chef.ID, "Quiet")

	for i := 0; i < 3; i++ {
		user := seedUser(t, db, uuid.NewString()[:8]+"@example.com")
		_, err := svc.AddOrUpdate(context.Background(), user.ID, popular.ID, "love it")
		require.NoError(t, err)
		if i == 0 {
			_, err = svc.AddOrUpdate(context.Background(), user.ID, quiet.ID, "fine")
			require.NoError(t, err)
		}
	}

	got, err := svc.MostReviewed(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, popular.ID, got[0].RecipeID)
	assert.EqualValues(t, 3, got[0].ReviewCount)
	assert.Equal(t, quiet.ID, got[1].RecipeID)

	// Limit caps the result.
	got, err = svc.MostReviewed(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
