package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/newcooks/backend/internal/service"
	"github.com/newcooks/backend/internal/testdb"
)

// fakeImageStore satisfies service.ImageStore without touching S3.
type fakeImageStore struct {
	mu      sync.Mutex
	uploads int
	Deleted []string
}

func (f *fakeImageStore) Upload(ctx context.Context, img service.Upload) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads++
	return fmt.Sprintf("https://img.test/%d.jpg", f.uploads), nil
}

func (f *fakeImageStore) Delete(ctx context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Deleted = append(f.Deleted, url)
	return nil
}

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
	auth   *service.AuthService
	images *fakeImageStore
}

// newTestServer wires the full API against an in-memory database, with no
// rate limiters and a fake image host.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, RegisterValidations())

	db := testdb.Open(t)
	images := &fakeImageStore{}

	authService := service.NewAuthService(db, "test-secret", &nopMailer{}, "http://localhost:8080")
	chefService := service.NewChefService(db, images)
	userService := service.NewUserService(db, images)
	recipeService := service.NewRecipeService(db, images)
	ratingService := service.NewRatingService(db)
	reviewService := service.NewReviewService(db)
	analyticsService := service.NewAnalyticsService(db)

	handlers := &Handlers{
		Auth:   NewAuthHandler(authService, nil),
		Chef:   NewChefHandler(chefService, recipeService, analyticsService, authService, nil),
		User:   NewUserHandler(userService, ratingService, reviewService, analyticsService, authService),
		Recipe: NewRecipeHandler(recipeService, ratingService, reviewService),
	}

	router := gin.New()
	handlers.RegisterRoutes(router.Group("/api/v1"))

	return &testServer{
		router: router,
		db:     db,
		auth:   authService,
		images: images,
	}
}

type nopMailer struct{}

func (nopMailer) SendActivationEmail(to, link string) error { return nil }

// chefToken registers and activates a chef account, returning a bearer token.
func (ts *testServer) chefToken(t *testing.T, email string) string {
	t.Helper()
	chef, err := ts.auth.RegisterChef("Chef "+email, email, "password123")
	require.NoError(t, err)
	require.NoError(t, ts.auth.Activate(*chef.ActivationToken))

	token, _, err := ts.auth.LoginChef(email, "password123")
	require.NoError(t, err)
	return token
}

func (ts *testServer) userToken(t *testing.T, email string) string {
	t.Helper()
	user, err := ts.auth.RegisterUser("User "+email, email, "password123")
	require.NoError(t, err)
	require.NoError(t, ts.auth.Activate(*user.ActivationToken))

	token, _, err := ts.auth.LoginUser(email, "password123")
	require.NoError(t, err)
	return token
}

// doJSON performs a JSON request, optionally authenticated.
func (ts *testServer) doJSON(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

// doMultipart performs a multipart request with a JSON part and file parts.
func (ts *testServer) doMultipart(t *testing.T, method, path, token, jsonField string, payload interface{}, files map[string][]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, mw.WriteField(jsonField, string(raw)))

	for field, contents := range files {
		for i, content := range contents {
			part, err := mw.CreateFormFile(field, fmt.Sprintf("%s-%d.jpg", field, i))
			require.NoError(t, err)
			_, err = part.Write([]byte(content))
			require.NoError(t, err)
		}
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
