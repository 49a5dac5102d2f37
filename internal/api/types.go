package api

// Request payloads. Validation happens through gin's binding tags plus the
// custom "stars" rule registered in RegisterValidations.

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type resetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

type recipePayload struct {
	Title         string   `json:"title" binding:"required"`
	Description   string   `json:"description"`
	Ingredients   []string `json:"ingredients"`
	Utensils      []string `json:"utensils"`
	Instructions  []string `json:"instructions"`
	NutritionInfo string   `json:"nutrition_info"`
	ThumbnailURL  string   `json:"thumbnail_url"`
	ImageURLs     []string `json:"image_urls"`
}

type rateRequest struct {
	Value int `json:"value" binding:"required,stars"`
}

type reviewRequest struct {
	Comment string `json:"comment" binding:"required"`
}

type chefProfileRequest struct {
	Name              string `json:"name" binding:"required"`
	Expertise         string `json:"expertise"`
	Experience        string `json:"experience"`
	Bio               string `json:"bio"`
	ProfilePictureURL string `json:"profile_picture_url"`
}

type userProfileRequest struct {
	Name              string `json:"name" binding:"required"`
	AboutMe           string `json:"about_me"`
	ProfilePictureURL string `json:"profile_picture_url"`
}
