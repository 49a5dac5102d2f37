package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/newcooks/backend/internal/middleware"
	"github.com/newcooks/backend/internal/service"
)

// UserHandler serves the user-only surface: profile, ratings, reviews,
// favorites and the activity dashboard. Every route requires a user token.
type UserHandler struct {
	userService      *service.UserService
	ratingService    *service.RatingService
	reviewService    *service.ReviewService
	analyticsService *service.AnalyticsService
	validator        middleware.TokenValidator
}

func NewUserHandler(
	userService *service.UserService,
	ratingService *service.RatingService,
	reviewService *service.ReviewService,
	analyticsService *service.AnalyticsService,
	validator middleware.TokenValidator,
) *UserHandler {
	return &UserHandler{
		userService:      userService,
		ratingService:    ratingService,
		reviewService:    reviewService,
		analyticsService: analyticsService,
		validator:        validator,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	user := router.Group("/user",
		middleware.AuthMiddleware(h.validator),
		middleware.RequireRole(middleware.RoleUser),
	)
	{
		user.GET("/profile", h.GetProfile)
		user.PUT("/profile", h.UpdateProfile)
		user.POST("/recipes/:id/rating", h.RateRecipe)
		user.GET("/recipes/:id/rating", h.GetOwnRating)
		user.DELETE("/recipes/:id/rating", h.DeleteRating)
		user.POST("/recipes/:id/review", h.ReviewRecipe)
		user.GET("/recipes/:id/review", h.GetOwnReview)
		user.POST("/recipes/:id/favorite", h.ToggleFavorite)
		user.GET("/reviews", h.ListOwnReviews)
		user.DELETE("/reviews/:id", h.DeleteReview)
		user.GET("/favorites", h.ListFavorites)
		user.GET("/analytics", h.Analytics)
	}
}

func (h *UserHandler) currentUser(c *gin.Context) (uuid.UUID, bool) {
	user, err := h.userService.FindByEmail(c.Request.Context(), c.GetString("email"))
	if err != nil {
		writeError(c, err)
		return uuid.Nil, false
	}
	return user.ID, true
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.userService.FindByEmail(c.Request.Context(), c.GetString("email"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile takes a multipart form: a "profile" JSON part plus an
// optional "picture" file for a new avatar.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req userProfileRequest
	if err := bindFormJSON(c, "profile", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	picture, err := formUpload(c, "picture")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, service.UserProfileUpdate{
		Name:              req.Name,
		AboutMe:           req.AboutMe,
		ProfilePictureURL: req.ProfilePictureURL,
		Picture:           picture,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// RateRecipe records the caller's star rating, replacing any previous one.
func (h *UserHandler) RateRecipe(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	var req rateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	rating, err := h.ratingService.AddOrUpdate(c.Request.Context(), userID, recipeID, req.Value)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rating)
}

func (h *UserHandler) GetOwnRating(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	value, err := h.ratingService.ForUser(c.Request.Context(), userID, recipeID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"value": value})
}

func (h *UserHandler) DeleteRating(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	if err := h.ratingService.Delete(c.Request.Context(), userID, recipeID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "rating deleted"})
}

// ReviewRecipe records the caller's written review, replacing any previous
// one for the same recipe.
func (h *UserHandler) ReviewRecipe(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	review, err := h.reviewService.AddOrUpdate(c.Request.Context(), userID, recipeID, req.Comment)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

// GetOwnReview returns the caller's review of a recipe, or a zero-valued
// review when they have not written one.
func (h *UserHandler) GetOwnReview(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	review, err := h.reviewService.ForUserOnRecipe(c.Request.Context(), userID, recipeID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

func (h *UserHandler) ListOwnReviews(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	reviews, err := h.reviewService.ForUser(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

func (h *UserHandler) DeleteReview(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review id"})
		return
	}

	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	if err := h.reviewService.Delete(c.Request.Context(), userID, reviewID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "review deleted"})
}

// ToggleFavorite flips the favorite mark and reports the resulting state.
func (h *UserHandler) ToggleFavorite(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	favorited, err := h.userService.ToggleFavorite(c.Request.Context(), userID, recipeID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorited": favorited})
}

func (h *UserHandler) ListFavorites(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	recipes, err := h.userService.Favorites(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *UserHandler) Analytics(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	analytics, err := h.analyticsService.ForUser(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, analytics)
}
