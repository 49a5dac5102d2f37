package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (ts *testServer) seedRecipeViaAPI(t *testing.T, chefToken, title string) string {
	t.Helper()
	w := ts.doMultipart(t, http.MethodPost, "/api/v1/chef/recipes", chefToken, "recipe",
		map[string]interface{}{"title": title}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	return decodeBody(t, w)["id"].(string)
}

func TestRateRecipeEndpoint(t *testing.T) {
	ts := newTestServer(t)
	chef := ts.chefToken(t, "gordon@example.com")
	user := ts.userToken(t, "julia@example.com")
	recipeID := ts.seedRecipeViaAPI(t, chef, "Soup")

	// Out-of-range stars fail binding validation.
	for _, v := range []int{0, 6} {
		w := ts.doJSON(t, http.MethodPost, "/api/v1/user/recipes/"+recipeID+"/rating", user,
			map[string]int{"value": v})
		assert.Equal(t, http.StatusBadRequest, w.Code, "value %d", v)
	}

	w := ts.doJSON(t, http.MethodPost, "/api/v1/user/recipes/"+recipeID+"/rating", user,
		map[string]int{"value": 4})
	require.Equal(t, http.StatusOK, w.Code)

	// Resubmitting replaces the value.
	w = ts.doJSON(t, http.MethodPost, "/api/v1/user/recipes/"+recipeID+"/rating", user,
		map[string]int{"value": 5})
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.doJSON(t, http.MethodGet, "/api/v1/user/recipes/"+recipeID+"/rating", user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 5, decodeBody(t, w)["value"])

	w = ts.doJSON(t, http.MethodGet, "/api/v1/recipes/"+recipeID+"/rating-stats", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.EqualValues(t, 1, body["total"])
	assert.InDelta(t, 5.0, body["average"].(float64), 0.001)
}

func TestDeleteRatingEndpoint(t *testing.T) {
	ts := newTestServer(t)
	chef := ts.chefToken(t, "gordon@example.com")
	user := ts.userToken(t, "julia@example.com")
	recipeID := ts.seedRecipeViaAPI(t, chef, "Soup")

	w := ts.doJSON(t, http.MethodDelete, "/api/v1/user/recipes/"+recipeID+"/rating", user, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.doJSON(t, http.MethodPost, "/api/v1/user/recipes/"+recipeID+"/rating", user, map[string]int{"value": 3})
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.doJSON(t, http.MethodDelete, "/api/v1/user/recipes/"+recipeID+"/rating", user, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReviewEndpoints(t *testing.T) {
	ts := newTestServer(t)
	chef := ts.chefToken(t, "gordon@example.com")
	author := ts.userToken(t, "julia@example.com")
	stranger := ts.userToken(t, "karl@example.com")
	recipeID := ts.seedRecipeViaAPI(t, chef, "Soup")

	w := ts.doJSON(t, http.MethodPost, "/api/v1/user/recipes/"+recipeID+"/review", author,
		map[string]string{"comment": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.doJSON(t, http.MethodPost, "/api/v1/user/recipes/"+recipeID+"/review", author,
		map[string]string{"comment": "lovely"})
	require.Equal(t, http.StatusOK, w.Code)
	reviewID := decodeBody(t, w)["id"].(string)

	// Public listing carries the author's display fields.
	w = ts.doJSON(t, http.MethodGet, "/api/v1/recipes/"+recipeID+"/reviews", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	reviews := decodeBody(t, w)["reviews"].([]interface{})
	require.Len(t, reviews, 1)
	first := reviews[0].(map[string]interface{})
	assert.Equal(t, "lovely", first["comment"])
	assert.Equal(t, "User julia@example.com", first["user_name"])

	// Only the author may delete it.
	w = ts.doJSON(t, http.MethodDelete, "/api/v1/user/reviews/"+reviewID, stranger, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.doJSON(t, http.MethodDelete, "/api/v1/user/reviews/"+reviewID, author, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetOwnReview(t *testing.T) {
	ts := newTestServer(t)
	chef := ts.chefToken(t, "gordon@example.com")
	user := ts.userToken(t, "julia@example.com")
	recipeID := ts.seedRecipeViaAPI(t, chef, "Soup")

	// No review yet: a zero-valued body, not an error.
	w := ts.doJSON(t, http.MethodGet, "/api/v1/user/recipes/"+recipeID+"/review", user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", decodeBody(t, w)["comment"])

	w = ts.doJSON(t, http.MethodPost, "/api/v1/user/recipes/"+recipeID+"/review", user,
		map[string]string{"comment": "keeps well overnight"})
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.doJSON(t, http.MethodGet, "/api/v1/user/recipes/"+recipeID+"/review", user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "keeps well overnight", decodeBody(t, w)["comment"])
}

func TestFavoriteEndpoints(t *testing.T) {
	ts := newTestServer(t)
	chef := ts.chefToken(t, "gordon@example.com")
	user := ts.userToken(t, "julia@example.com")
	recipeID := ts.seedRecipeViaAPI(t, chef, "Soup")

	w := ts.doJSON(t, http.MethodPost, "/api/v1/user/recipes/"+recipeID+"/favorite", user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["favorited"])

	w = ts.doJSON(t, http.MethodGet, "/api/v1/user/favorites", user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["recipes"], 1)

	w = ts.doJSON(t, http.MethodPost, "/api/v1/user/recipes/"+recipeID+"/favorite", user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["favorited"])

	w = ts.doJSON(t, http.MethodGet, "/api/v1/user/favorites", user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody(t, w)["recipes"])
}

func TestUserAnalyticsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	chef := ts.chefToken(t, "gordon@example.com")
	user := ts.userToken(t, "julia@example.com")
	recipeID := ts.seedRecipeViaAPI(t, chef, "Soup")

	w := ts.doJSON(t, http.MethodPost, "/api/v1/user/recipes/"+recipeID+"/rating", user, map[string]int{"value": 4})
	require.Equal(t, http.StatusOK, w.Code)
	w = ts.doJSON(t, http.MethodPost, "/api/v1/user/recipes/"+recipeID+"/favorite", user, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.doJSON(t, http.MethodGet, "/api/v1/user/analytics", user, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.EqualValues(t, 1, body["ratings_given"])
	assert.EqualValues(t, 1, body["favorites_count"])
	assert.EqualValues(t, 0, body["recipes_reviewed"])
}

func TestUserRoutesRejectChefRole(t *testing.T) {
	ts := newTestServer(t)
	chef := ts.chefToken(t, "gordon@example.com")

	w := ts.doJSON(t, http.MethodGet, "/api/v1/user/favorites", chef, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
