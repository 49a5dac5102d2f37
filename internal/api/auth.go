package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/newcooks/backend/internal/middleware"
	"github.com/newcooks/backend/internal/service"
)

// AuthHandler exposes registration, activation, login and password reset.
type AuthHandler struct {
	authService *service.AuthService
	regLimiter  *middleware.RateLimiter
}

func NewAuthHandler(authService *service.AuthService, regLimiter *middleware.RateLimiter) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		regLimiter:  regLimiter,
	}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		register := auth.Group("")
		if h.regLimiter != nil {
			register.Use(h.regLimiter.ByClientIP())
		}
		register.POST("/chefs/register", h.RegisterChef)
		register.POST("/users/register", h.RegisterUser)

		auth.GET("/activate", h.Activate)
		auth.POST("/chefs/login", h.LoginChef)
		auth.POST("/users/login", h.LoginUser)
		auth.POST("/chefs/reset-password", h.ResetChefPassword)
		auth.POST("/users/reset-password", h.ResetUserPassword)
	}
}

func (h *AuthHandler) RegisterChef(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chef, err := h.authService.RegisterChef(req.Name, req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, chef)
}

func (h *AuthHandler) RegisterUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.RegisterUser(req.Name, req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Activate consumes the one-time token from the activation link.
func (h *AuthHandler) Activate(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing activation token"})
		return
	}

	if err := h.authService.Activate(token); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "account activated"})
}

func (h *AuthHandler) LoginChef(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, chef, err := h.authService.LoginChef(req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "chef": chef})
}

func (h *AuthHandler) LoginUser(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, user, err := h.authService.LoginUser(req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

func (h *AuthHandler) ResetChefPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authService.ResetChefPassword(req.Email, req.NewPassword); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated, check your email to reactivate your account"})
}

func (h *AuthHandler) ResetUserPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authService.ResetUserPassword(req.Email, req.NewPassword); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated, check your email to reactivate your account"})
}
