package integration

import (
	"net/http"
	"testing"

	"github.com/pushp314/releasenotes-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthTokenFlow(t *testing.T) {
	setupTestDB(t)
	r := setupRouter()
	createTestUser(t, "editor", true, true)
	createTestUser(t, "viewer", true, false)
	createTestUser(t, "retired", false, true)

	tests := []struct {
		name   string
		body   map[string]interface{}
		status int
	}{
		{"active staff by username", map[string]interface{}{"username": "editor", "password": testPassword}, http.StatusOK},
		{"active staff by email", map[string]interface{}{"username": "editor@example.com", "password": testPassword}, http.StatusOK},
		{"wrong password", map[string]interface{}{"username": "editor", "password": "nope"}, http.StatusForbidden},
		{"unknown user", map[string]interface{}{"username": "ghost", "password": testPassword}, http.StatusForbidden},
		{"not staff", map[string]interface{}{"username": "viewer", "password": testPassword}, http.StatusForbidden},
		{"inactive staff", map[string]interface{}{"username": "retired", "password": testPassword}, http.StatusForbidden},
		{"missing password", map[string]interface{}{"username": "editor"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(r, http.MethodPost, "/rna/auth_token/", tt.body, "")
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.status == http.StatusOK {
				assert.NotEmpty(t, decode[map[string]string](t, w)["token"])
			}
		})
	}
}

func TestIssuedTokenCanWrite(t *testing.T) {
	setupTestDB(t)
	r := setupRouter()
	createTestUser(t, "editor", true, true)

	w := performRequest(r, http.MethodPost, "/rna/auth_token/",
		map[string]interface{}{"username": "editor", "password": testPassword}, "")
	require.Equal(t, http.StatusOK, w.Code)
	token := decode[map[string]string](t, w)["token"]

	w = performRequest(r, http.MethodPost, "/rna/releases/", releasePayload("44.0"), token)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = performRequestWithHeaders(r, http.MethodPost, "/rna/releases/", releasePayload("45.0"), "",
		map[string]string{"Authorization": "Token " + token})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = performRequest(r, http.MethodDelete, "/rna/auth_token/", nil, token)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = performRequest(r, http.MethodDelete, "/rna/auth_token/", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWritesAreAudited(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter()
	token := createTestUser(t, "editor", true, true)

	w := performRequest(r, http.MethodPost, "/rna/releases/", releasePayload("44.0"), token)
	require.Equal(t, http.StatusCreated, w.Code)

	var logs []models.AdminAction
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, models.ActionCreateRelease, logs[0].Action)
	assert.Equal(t, "release", logs[0].TargetType)
	assert.NotEmpty(t, logs[0].AdminID)
}
