package integration

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/pushp314/releasenotes-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type page[T any] struct {
	Pagination struct {
		Page  int   `json:"page"`
		Limit int   `json:"limit"`
		Total int64 `json:"total"`
	} `json:"pagination"`
	Releases []T `json:"releases"`
	Notes    []T `json:"notes"`
	Logs     []T `json:"logs"`
}

func TestAdminRequiresStaff(t *testing.T) {
	setupTestDB(t)
	r := setupRouter()
	viewer := createTestUser(t, "viewer", true, false)

	w := performRequest(r, http.MethodGet, "/api/admin/releases", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = performRequest(r, http.MethodGet, "/api/admin/releases", nil, viewer)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminListReleases(t *testing.T) {
	setupTestDB(t)
	r := setupRouter()
	token := createTestUser(t, "staff", true, true)

	createTestRelease(t, models.ProductFirefox, models.ChannelRelease, "41.0", true)
	createTestRelease(t, models.ProductFirefox, models.ChannelBeta, "42.0beta", false)
	createTestRelease(t, models.ProductThunderbird, models.ChannelRelease, "38.0", true)

	w := performRequest(r, http.MethodGet, "/api/admin/releases?limit=2", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	p := decode[page[models.Release]](t, w)
	assert.Equal(t, int64(3), p.Pagination.Total)
	assert.Len(t, p.Releases, 2)

	w = performRequest(r, http.MethodGet, "/api/admin/releases?search=beta", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	p = decode[page[models.Release]](t, w)
	require.Len(t, p.Releases, 1)
	assert.Equal(t, "42.0beta", p.Releases[0].Version)

	w = performRequest(r, http.MethodGet, "/api/admin/releases?product=Thunderbird", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[page[models.Release]](t, w).Releases, 1)
}

func TestAdminCopyReleases(t *testing.T) {
	setupTestDB(t)
	r := setupRouter()
	token := createTestUser(t, "staff", true, true)
	rel := createTestRelease(t, models.ProductFirefox, models.ChannelBeta, "43.0beta", true)

	n := createNoteViaAPI(t, r, token, map[string]interface{}{"note": "shared", "releases": []uint{rel.ID}})

	w := performRequest(r, http.MethodPost, "/api/admin/releases/copy", map[string]interface{}{"ids": []uint{rel.ID}}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	result := decode[struct {
		Copies  []models.Release `json:"copies"`
		Message string           `json:"message"`
	}](t, w)
	assert.Equal(t, "Copied Release", result.Message)
	require.Len(t, result.Copies, 1)
	assert.Equal(t, "copy-43.0beta", result.Copies[0].Version)
	assert.False(t, result.Copies[0].IsPublic)

	w = performRequest(r, http.MethodGet, fmt.Sprintf("/rna/notes/%d/", n.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.ElementsMatch(t, []uint{rel.ID, result.Copies[0].ID}, decode[noteResponse](t, w).Releases)

	w = performRequest(r, http.MethodPost, "/api/admin/releases/copy", map[string]interface{}{"ids": []uint{}}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(r, http.MethodPost, "/api/admin/releases/copy", map[string]interface{}{"ids": []uint{9999}}, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performRequest(r, http.MethodGet, "/api/admin/audit-logs?action=COPY_RELEASES", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	logs := decode[page[models.AdminAction]](t, w)
	require.Len(t, logs.Logs, 1)
	assert.Equal(t, fmt.Sprint(result.Copies[0].ID), logs.Logs[0].TargetID)
}

func TestAdminNoteLinks(t *testing.T) {
	setupTestDB(t)
	r := setupRouter()
	token := createTestUser(t, "staff", true, true)
	a := createTestRelease(t, models.ProductFirefox, models.ChannelRelease, "42.0", true)
	b := createTestRelease(t, models.ProductFirefox, models.ChannelBeta, "43.0beta", true)
	n := createNoteViaAPI(t, r, token, map[string]interface{}{"note": "movable", "releases": []uint{a.ID}, "bug": 777})

	path := fmt.Sprintf("/api/admin/notes/%d/releases", n.ID)
	w := performRequest(r, http.MethodPut, path, map[string]interface{}{"releases": []uint{a.ID, b.ID}}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.ElementsMatch(t, []uint{a.ID, b.ID}, decode[noteResponse](t, w).Releases)

	w = performRequest(r, http.MethodPut, path, map[string]interface{}{"releases": []uint{12345}}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(r, http.MethodDelete, fmt.Sprintf("%s/%d", path, a.ID), nil, token)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = performRequest(r, http.MethodDelete, fmt.Sprintf("%s/%d", path, a.ID), nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performRequest(r, http.MethodGet, "/api/admin/notes?search=777", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	notes := decode[page[noteResponse]](t, w).Notes
	require.Len(t, notes, 1)
	assert.Equal(t, []uint{b.ID}, notes[0].Releases)

	w = performRequest(r, http.MethodGet, "/api/admin/notes?search=43.0", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[page[noteResponse]](t, w).Notes, 1)

	w = performRequest(r, http.MethodGet, "/api/admin/notes?version=42.0", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[page[noteResponse]](t, w).Notes)
}

func TestAdminVersionMaintenance(t *testing.T) {
	setupTestDB(t)
	r := setupRouter()
	token := createTestUser(t, "staff", true, true)

	createTestRelease(t, models.ProductFirefox, models.ChannelRelease, "28.0", true)
	createTestRelease(t, models.ProductFirefox, models.ChannelBeta, "28.0", true)
	createTestRelease(t, models.ProductFirefox, models.ChannelBeta, "29.0.0", true)

	w := performRequest(r, http.MethodGet, "/api/admin/releases/duplicates", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	dups := decode[map[string][]map[string]interface{}](t, w)["duplicates"]
	require.Len(t, dups, 1)
	assert.Equal(t, "28.0", dups[0]["version"])

	w = performRequest(r, http.MethodPost, "/api/admin/releases/normalize-versions", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(1), decode[map[string]interface{}](t, w)["changed"])

	w = performRequest(r, http.MethodGet, "/rna/releases/?version=29.0beta", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Release](t, w), 1)
}
