package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/releasenotes-backend/internal/config"
	"github.com/pushp314/releasenotes-backend/internal/database"
	"github.com/pushp314/releasenotes-backend/internal/middleware"
	"github.com/pushp314/releasenotes-backend/internal/migrations"
	"github.com/pushp314/releasenotes-backend/internal/models"
	"github.com/pushp314/releasenotes-backend/internal/routes"
	"github.com/pushp314/releasenotes-backend/pkg/utils"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

const testPassword = "password123"

// setupTestDB points the global database at a fresh in-memory SQLite
// schema built by the real migrations.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	config.AppConfig = &config.Config{
		JWTSecret: "test_secret_key_12345",
		Env:       "test",
	}

	db, err := database.Open("sqlite://:memory:")
	require.NoError(t, err)
	_, err = migrations.NewMigrator(db).Run()
	require.NoError(t, err)

	database.DB = db
	return db
}

// setupRouter returns the production handler with rate limits lifted
func setupRouter() http.Handler {
	gin.SetMode(gin.TestMode)
	unlimited := func() *middleware.IPRateLimiter { return middleware.NewIPRateLimiter(rate.Inf, 1) }
	middleware.AuthLimiter = unlimited()
	middleware.GeneralLimiter = unlimited()
	middleware.WriteLimiter = unlimited()
	return routes.Handler()
}

// createTestUser stores a user and returns a token for it
func createTestUser(t *testing.T, prefix string, active, staff bool) string {
	t.Helper()
	hash, err := utils.HashPassword(testPassword)
	require.NoError(t, err)

	user := models.User{
		ID:       utils.GenerateID(),
		Username: prefix,
		Email:    prefix + "@example.com",
		Password: hash,
		IsActive: active,
		IsStaff:  staff,
	}
	require.NoError(t, database.DB.Create(&user).Error)

	token, err := utils.GenerateToken(user.ID)
	require.NoError(t, err)
	return token
}

func createTestRelease(t *testing.T, product, channel, version string, public bool) models.Release {
	t.Helper()
	r := models.Release{
		Product:     product,
		Channel:     channel,
		Version:     version,
		IsPublic:    public,
		ReleaseDate: time.Date(2015, 11, 3, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, database.DB.Create(&r).Error)
	return r
}

func performRequest(h http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	return performRequestWithHeaders(h, method, path, body, token, nil)
}

func performRequestWithHeaders(h http.Handler, method, path string, body interface{}, token string, headers map[string]string) *httptest.ResponseRecorder {
	bodyReader := strings.NewReader("")
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		bodyReader = strings.NewReader(string(jsonBytes))
	}

	req, _ := http.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
