package api

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Handlers bundles every route group of the HTTP API.
type Handlers struct {
	Auth   *AuthHandler
	Chef   *ChefHandler
	User   *UserHandler
	Recipe *RecipeHandler
}

// RegisterRoutes mounts all route groups under the given router group.
func (h *Handlers) RegisterRoutes(router *gin.RouterGroup) {
	h.Auth.RegisterRoutes(router)
	h.Chef.RegisterRoutes(router)
	h.User.RegisterRoutes(router)
	h.Recipe.RegisterRoutes(router)
}

// RegisterValidations installs the custom binding rules on gin's validator.
// "stars" accepts whole-star ratings from one through five.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("stars", func(fl validator.FieldLevel) bool {
		n := fl.Field().Int()
		return n >= 1 && n <= 5
	})
}
