package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/newcooks/backend/internal/models"
	"github.com/newcooks/backend/internal/testdb"
)

// fakeImageStore records uploads and deletes in memory. FailDeletes makes
// every Delete call fail, to exercise the best-effort cleanup path.
type fakeImageStore struct {
	mu          sync.Mutex
	uploads     int
	Deleted     []string
	FailDeletes bool
}

func (f *fakeImageStore) Upload(ctx context.Context, img Upload) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads++
	return fmt.Sprintf("https://img.test/%d%s", f.uploads, extensionFor(img.ContentType)), nil
}

func (f *fakeImageStore) Delete(ctx context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Deleted = append(f.Deleted, url)
	if f.FailDeletes {
		return errors.New("image host unavailable")
	}
	return nil
}

// recordingMailer captures outgoing activation mail. Fail makes sends error.
type recordingMailer struct {
	To    []string
	Links []string
	Fail  bool
}

func (m *recordingMailer) SendActivationEmail(to, link string) error {
	if m.Fail {
		return errors.New("smtp down")
	}
	m.To = append(m.To, to)
	m.Links = append(m.Links, link)
	return nil
}

func seedChef(t *testing.T, db *gorm.DB, email string) *models.Chef {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	chef := &models.Chef{
		Name:         "Chef " + email,
		Email:        email,
		PasswordHash: string(hash),
		Active:       true,
	}
	require.NoError(t, db.Create(chef).Error)
	return chef
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		Name:         "User " + email,
		Email:        email,
		PasswordHash: string(hash),
		Active:       true,
		AboutMe:      "home cook",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedRecipe(t *testing.T, db *gorm.DB, chefID uuid.UUID, title string) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{
		Title:       title,
		Description: "a test recipe",
		Ingredients: models.StringArray{"salt"},
		ChefID:      chefID,
	}
	require.NoError(t, db.Create(recipe).Error)
	return recipe
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testdb.Open(t)
}
