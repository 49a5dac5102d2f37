package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"

	"github.com/newcooks/backend/internal/middleware"
	"github.com/newcooks/backend/internal/service"
)

// ChefHandler serves the chef-only surface: profile, recipe authoring and
// the analytics dashboard. Every route requires a chef token.
type ChefHandler struct {
	chefService      *service.ChefService
	recipeService    *service.RecipeService
	analyticsService *service.AnalyticsService
	validator        middleware.TokenValidator
	createLimiter    *middleware.RateLimiter
}

func NewChefHandler(
	chefService *service.ChefService,
	recipeService *service.RecipeService,
	analyticsService *service.AnalyticsService,
	validator middleware.TokenValidator,
	createLimiter *middleware.RateLimiter,
) *ChefHandler {
	return &ChefHandler{
		chefService:      chefService,
		recipeService:    recipeService,
		analyticsService: analyticsService,
		validator:        validator,
		createLimiter:    createLimiter,
	}
}

func (h *ChefHandler) RegisterRoutes(router *gin.RouterGroup) {
	chef := router.Group("/chef",
		middleware.AuthMiddleware(h.validator),
		middleware.RequireRole(middleware.RoleChef),
	)
	{
		chef.GET("/profile", h.GetProfile)
		chef.PUT("/profile", h.UpdateProfile)
		chef.GET("/recipes", h.ListRecipes)
		chef.GET("/recipes/search", h.SearchRecipes)
		if h.createLimiter != nil {
			chef.POST("/recipes", h.createLimiter.ByEmail(), h.CreateRecipe)
		} else {
			chef.POST("/recipes", h.CreateRecipe)
		}
		chef.PUT("/recipes/:id", h.UpdateRecipe)
		chef.DELETE("/recipes/:id", h.DeleteRecipe)
		chef.DELETE("/recipes/:id/images", h.RemoveRecipeImage)
		chef.GET("/analytics", h.Analytics)
	}
}

// currentChef resolves the authenticated chef from the token subject.
func (h *ChefHandler) currentChef(c *gin.Context) (uuid.UUID, bool) {
	chef, err := h.chefService.FindByEmail(c.Request.Context(), c.GetString("email"))
	if err != nil {
		writeError(c, err)
		return uuid.Nil, false
	}
	return chef.ID, true
}

func (h *ChefHandler) GetProfile(c *gin.Context) {
	chef, err := h.chefService.FindByEmail(c.Request.Context(), c.GetString("email"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, chef)
}

// UpdateProfile takes a multipart form: a "profile" JSON part plus an
// optional "picture" file for a new avatar.
func (h *ChefHandler) UpdateProfile(c *gin.Context) {
	var req chefProfileRequest
	if err := bindFormJSON(c, "profile", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	picture, err := formUpload(c, "picture")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chefID, ok := h.currentChef(c)
	if !ok {
		return
	}

	chef, err := h.chefService.UpdateProfile(c.Request.Context(), chefID, service.ChefProfileUpdate{
		Name:              req.Name,
		Expertise:         req.Expertise,
		Experience:        req.Experience,
		Bio:               req.Bio,
		ProfilePictureURL: req.ProfilePictureURL,
		Picture:           picture,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, chef)
}

func (h *ChefHandler) ListRecipes(c *gin.Context) {
	chefID, ok := h.currentChef(c)
	if !ok {
		return
	}

	recipes, err := h.recipeService.ByChef(c.Request.Context(), chefID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// CreateRecipe takes a multipart form: a "recipe" JSON part plus optional
// "thumbnail" and "images" files.
func (h *ChefHandler) CreateRecipe(c *gin.Context) {
	var req recipePayload
	if err := bindFormJSON(c, "recipe", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	thumbnail, err := formUpload(c, "thumbnail")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	images, err := formUploads(c, "images")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chefID, ok := h.currentChef(c)
	if !ok {
		return
	}

	recipe, err := h.recipeService.Create(c.Request.Context(), chefID, recipeInput(req), thumbnail, images)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

// UpdateRecipe takes a multipart form: a "recipe" JSON part carrying the
// full desired state (including which stored URLs to keep) plus optional
// "new_thumbnail" and "new_images" files.
func (h *ChefHandler) UpdateRecipe(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	var req recipePayload
	if err := bindFormJSON(c, "recipe", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	newThumbnail, err := formUpload(c, "new_thumbnail")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	newImages, err := formUploads(c, "new_images")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chefID, ok := h.currentChef(c)
	if !ok {
		return
	}

	recipe, err := h.recipeService.Update(c.Request.Context(), chefID, recipeID, recipeInput(req), newThumbnail, newImages)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *ChefHandler) DeleteRecipe(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	chefID, ok := h.currentChef(c)
	if !ok {
		return
	}

	if err := h.recipeService.Delete(c.Request.Context(), chefID, recipeID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "recipe deleted"})
}

// RemoveRecipeImage releases one hosted image, identified by its URL in the
// "url" query parameter.
func (h *ChefHandler) RemoveRecipeImage(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}
	imageURL := c.Query("url")
	if imageURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing image url"})
		return
	}

	chefID, ok := h.currentChef(c)
	if !ok {
		return
	}

	recipe, err := h.recipeService.RemoveImage(c.Request.Context(), chefID, recipeID, imageURL)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// SearchRecipes matches the keyword against the chef's own recipe titles
// and descriptions.
func (h *ChefHandler) SearchRecipes(c *gin.Context) {
	keyword := c.Query("q")
	if keyword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing search keyword"})
		return
	}

	chefID, ok := h.currentChef(c)
	if !ok {
		return
	}

	suggestions, err := h.recipeService.SearchByChef(c.Request.Context(), chefID, keyword)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

func (h *ChefHandler) Analytics(c *gin.Context) {
	chefID, ok := h.currentChef(c)
	if !ok {
		return
	}

	analytics, err := h.analyticsService.ForChef(c.Request.Context(), chefID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, analytics)
}

// bindFormJSON decodes a JSON document carried in a multipart form field
// and runs the binding validations on it.
func bindFormJSON(c *gin.Context, field string, out interface{}) error {
	raw := c.PostForm(field)
	if raw == "" {
		return fmt.Errorf("missing %s form field", field)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return err
	}
	return binding.Validator.ValidateStruct(out)
}

func recipeInput(req recipePayload) service.RecipeInput {
	return service.RecipeInput{
		Title:         req.Title,
		Description:   req.Description,
		Ingredients:   req.Ingredients,
		Utensils:      req.Utensils,
		Instructions:  req.Instructions,
		NutritionInfo: req.NutritionInfo,
		Thumbnail:     req.ThumbnailURL,
		Images:        req.ImageURLs,
	}
}
