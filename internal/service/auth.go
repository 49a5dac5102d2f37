package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/newcooks/backend/internal/middleware"
	"github.com/newcooks/backend/internal/models"
)

// AuthService handles registration, activation, login and token issuance for
// both account types.
type AuthService struct {
	db        *gorm.DB
	jwtSecret string
	mailer    Mailer
	baseURL   string
}

func NewAuthService(db *gorm.DB, jwtSecret string, mailer Mailer, baseURL string) *AuthService {
	return &AuthService{
		db:        db,
		jwtSecret: jwtSecret,
		mailer:    mailer,
		baseURL:   baseURL,
	}
}

// RegisterChef stores a new inactive chef account and emails the activation
// link. A mail failure surfaces as an error but the row stays persisted.
func (s *AuthService) RegisterChef(name, email, password string) (*models.Chef, error) {
	var existing models.Chef
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	token := uuid.NewString()
	chef := models.Chef{
		Name:            name,
		Email:           email,
		PasswordHash:    string(hash),
		Active:          false,
		ActivationToken: &token,
	}
	if err := s.db.Create(&chef).Error; err != nil {
		return nil, err
	}

	if err := s.sendActivation(email, token); err != nil {
		return &chef, fmt.Errorf("%w: %v", ErrActivationMail, err)
	}
	return &chef, nil
}

// RegisterUser mirrors RegisterChef for the consumer account type.
func (s *AuthService) RegisterUser(name, email, password string) (*models.User, error) {
	var existing models.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	token := uuid.NewString()
	user := models.User{
		Name:            name,
		Email:           email,
		PasswordHash:    string(hash),
		Active:          false,
		ActivationToken: &token,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}

	if err := s.sendActivation(email, token); err != nil {
		return &user, fmt.Errorf("%w: %v", ErrActivationMail, err)
	}
	return &user, nil
}

// Activate consumes a one-time token. It is shared by both account types:
// the token is looked up among users first, then chefs. Replay fails because
// the token is cleared on success.
func (s *AuthService) Activate(token string) error {
	var user models.User
	if err := s.db.Where("activation_token = ?", token).First(&user).Error; err == nil {
		user.Active = true
		user.ActivationToken = nil
		return s.db.Save(&user).Error
	}

	var chef models.Chef
	if err := s.db.Where("activation_token = ?", token).First(&chef).Error; err == nil {
		chef.Active = true
		chef.ActivationToken = nil
		return s.db.Save(&chef).Error
	}

	return ErrInvalidActivationToken
}

// LoginChef verifies credentials and returns a signed token. Inactive
// accounts are rejected with a distinct error before the password check.
func (s *AuthService) LoginChef(email, password string) (string, *models.Chef, error) {
	var chef models.Chef
	if err := s.db.Where("email = ?", email).First(&chef).Error; err != nil {
		return "", nil, fmt.Errorf("email not registered: %w", ErrNotFound)
	}
	if !chef.Active {
		return "", nil, ErrAccountInactive
	}
	if err := bcrypt.CompareHashAndPassword([]byte(chef.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.GenerateToken(chef.Email, middleware.RoleChef)
	if err != nil {
		return "", nil, err
	}
	return token, &chef, nil
}

func (s *AuthService) LoginUser(email, password string) (string, *models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return "", nil, fmt.Errorf("email not registered: %w", ErrNotFound)
	}
	if !user.Active {
		return "", nil, ErrAccountInactive
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.GenerateToken(user.Email, middleware.RoleUser)
	if err != nil {
		return "", nil, err
	}
	return token, &user, nil
}

// ResetChefPassword replaces the credential, deactivates the account and
// emails a fresh activation link. The account must re-activate before the
// new password works.
func (s *AuthService) ResetChefPassword(email, newPassword string) error {
	var chef models.Chef
	if err := s.db.Where("email = ?", email).First(&chef).Error; err != nil {
		return fmt.Errorf("chef: %w", ErrNotFound)
	}
	if bcrypt.CompareHashAndPassword([]byte(chef.PasswordHash), []byte(newPassword)) == nil {
		return ErrSamePassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	token := uuid.NewString()
	chef.PasswordHash = string(hash)
	chef.Active = false
	chef.ActivationToken = &token
	if err := s.db.Save(&chef).Error; err != nil {
		return err
	}

	if err := s.sendActivation(chef.Email, token); err != nil {
		return fmt.Errorf("%w: %v", ErrActivationMail, err)
	}
	return nil
}

func (s *AuthService) ResetUserPassword(email, newPassword string) error {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return fmt.Errorf("user: %w", ErrNotFound)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(newPassword)) == nil {
		return ErrSamePassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	token := uuid.NewString()
	user.PasswordHash = string(hash)
	user.Active = false
	user.ActivationToken = &token
	if err := s.db.Save(&user).Error; err != nil {
		return err
	}

	if err := s.sendActivation(user.Email, token); err != nil {
		return fmt.Errorf("%w: %v", ErrActivationMail, err)
	}
	return nil
}

func (s *AuthService) sendActivation(email, token string) error {
	link := fmt.Sprintf("%s/api/v1/auth/activate?token=%s", s.baseURL, token)
	return s.mailer.SendActivationEmail(email, link)
}

// GenerateToken signs a 24h HS256 token carrying the account email and role.
func (s *AuthService) GenerateToken(email, role string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  email,
		"role": role,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateToken implements middleware.TokenValidator.
func (s *AuthService) ValidateToken(tokenString string) (*middleware.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	email, ok := claims["sub"].(string)
	if !ok || email == "" {
		return nil, errors.New("invalid token claims")
	}
	role, ok := claims["role"].(string)
	if !ok || (role != middleware.RoleChef && role != middleware.RoleUser) {
		return nil, errors.New("invalid token claims")
	}

	return &middleware.TokenClaims{Email: email, Role: role}, nil
}
