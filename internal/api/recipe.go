package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/newcooks/backend/internal/service"
)

// RecipeHandler serves the public, unauthenticated recipe surface.
type RecipeHandler struct {
	recipeService *service.RecipeService
	ratingService *service.RatingService
	reviewService *service.ReviewService
}

func NewRecipeHandler(
	recipeService *service.RecipeService,
	ratingService *service.RatingService,
	reviewService *service.ReviewService,
) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		ratingService: ratingService,
		reviewService: reviewService,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/search", h.SearchRecipes)
		recipes.GET("/most-reviewed", h.MostReviewed)
		recipes.GET("/:id", h.GetRecipe)
		recipes.GET("/:id/rating-stats", h.RatingStats)
		recipes.GET("/:id/average-rating", h.AverageRating)
		recipes.GET("/:id/reviews", h.ListReviews)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "12"))

	recipes, total, err := h.recipeService.List(c.Request.Context(), page, size)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"recipes": recipes,
		"total":   total,
		"page":    page,
		"size":    size,
	})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	recipe, err := h.recipeService.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// SearchRecipes returns title-match suggestions for the keyword.
func (h *RecipeHandler) SearchRecipes(c *gin.Context) {
	keyword := c.Query("q")
	if keyword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing search keyword"})
		return
	}

	suggestions, err := h.recipeService.SearchAll(c.Request.Context(), keyword)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

func (h *RecipeHandler) MostReviewed(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	recipes, err := h.reviewService.MostReviewed(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *RecipeHandler) RatingStats(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	stats, err := h.ratingService.Stats(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *RecipeHandler) AverageRating(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	avg, err := h.ratingService.Average(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"average": avg})
}

func (h *RecipeHandler) ListReviews(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	reviews, err := h.reviewService.ForRecipe(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}
