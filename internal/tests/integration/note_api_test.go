package integration

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/pushp314/releasenotes-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noteResponse struct {
	ID             uint   `json:"id"`
	Bug            *int   `json:"bug"`
	Note           string `json:"note"`
	Releases       []uint `json:"releases"`
	IsKnownIssue   bool   `json:"is_known_issue"`
	FixedInRelease *uint  `json:"fixed_in_release"`
	Tag            string `json:"tag"`
	SortNum        int    `json:"sort_num"`
	IsPublic       bool   `json:"is_public"`
}

func createNoteViaAPI(t *testing.T, r http.Handler, token string, payload map[string]interface{}) noteResponse {
	t.Helper()
	w := performRequest(r, http.MethodPost, "/rna/notes/", payload, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[noteResponse](t, w)
}

func TestNoteCRUD(t *testing.T) {
	setupTestDB(t)
	r := setupRouter()
	token := createTestUser(t, "staff", true, true)
	a := createTestRelease(t, models.ProductFirefox, models.ChannelRelease, "42.0", true)
	b := createTestRelease(t, models.ProductFirefoxAndroid, models.ChannelRelease, "42.0", true)

	n := createNoteViaAPI(t, r, token, map[string]interface{}{
		"note":     "Private browsing gets tracking protection",
		"bug":      1100000,
		"tag":      models.TagNew,
		"releases": []uint{a.ID, b.ID},
	})
	assert.True(t, n.IsPublic, "notes default to public")
	assert.ElementsMatch(t, []uint{a.ID, b.ID}, n.Releases)
	require.NotNil(t, n.Bug)
	assert.Equal(t, 1100000, *n.Bug)
	assert.Nil(t, n.FixedInRelease)

	path := fmt.Sprintf("/rna/notes/%d/", n.ID)

	// PATCH without releases keeps the links
	w := performRequest(r, http.MethodPatch, path, map[string]interface{}{
		"is_known_issue":   true,
		"fixed_in_release": a.ID,
		"bug":              nil,
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	patched := decode[noteResponse](t, w)
	assert.True(t, patched.IsKnownIssue)
	require.NotNil(t, patched.FixedInRelease)
	assert.Equal(t, a.ID, *patched.FixedInRelease)
	assert.Nil(t, patched.Bug)
	assert.ElementsMatch(t, []uint{a.ID, b.ID}, patched.Releases)
	assert.Equal(t, models.TagNew, patched.Tag)

	// PATCH with releases replaces them
	w = performRequest(r, http.MethodPatch, path, map[string]interface{}{"releases": []uint{b.ID}}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []uint{b.ID}, decode[noteResponse](t, w).Releases)

	// PUT resets omitted fields
	w = performRequest(r, http.MethodPut, path, map[string]interface{}{"note": "rewritten"}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	put := decode[noteResponse](t, w)
	assert.Equal(t, "rewritten", put.Note)
	assert.Empty(t, put.Tag)
	assert.Empty(t, put.Releases)
	assert.False(t, put.IsKnownIssue)
	assert.True(t, put.IsPublic)

	w = performRequest(r, http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "rewritten", decode[noteResponse](t, w).Note)

	w = performRequest(r, http.MethodDelete, path, nil, token)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = performRequest(r, http.MethodGet, path, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNoteValidation(t *testing.T) {
	setupTestDB(t)
	r := setupRouter()
	token := createTestUser(t, "staff", true, true)
	a := createTestRelease(t, models.ProductFirefox, models.ChannelRelease, "42.0", true)

	tests := []struct {
		name    string
		payload map[string]interface{}
	}{
		{"unknown tag", map[string]interface{}{"note": "x", "tag": "Security"}},
		{"missing release", map[string]interface{}{"note": "x", "releases": []uint{a.ID, 9999}}},
		{"missing fixed release", map[string]interface{}{"note": "x", "fixed_in_release": 9999}},
		{"bug not a number", map[string]interface{}{"note": "x", "bug": "abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(r, http.MethodPost, "/rna/notes/", tt.payload, token)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}

	w := performRequest(r, http.MethodGet, "/rna/notes/", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]noteResponse](t, w))
}

func TestNoteListFilters(t *testing.T) {
	setupTestDB(t)
	r := setupRouter()
	token := createTestUser(t, "staff", true, true)
	a := createTestRelease(t, models.ProductFirefox, models.ChannelRelease, "42.0", true)
	b := createTestRelease(t, models.ProductFirefox, models.ChannelBeta, "43.0beta", true)

	createNoteViaAPI(t, r, token, map[string]interface{}{"note": "one", "releases": []uint{a.ID}, "tag": models.TagFixed, "bug": 1})
	createNoteViaAPI(t, r, token, map[string]interface{}{"note": "two", "releases": []uint{a.ID, b.ID}, "is_known_issue": true})
	createNoteViaAPI(t, r, token, map[string]interface{}{"note": "three", "releases": []uint{b.ID}, "is_public": false})

	list := func(query string) []string {
		w := performRequest(r, http.MethodGet, "/rna/notes/"+query, nil, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var texts []string
		for _, n := range decode[[]noteResponse](t, w) {
			texts = append(texts, n.Note)
		}
		return texts
	}

	assert.ElementsMatch(t, []string{"one", "two", "three"}, list(""))
	assert.ElementsMatch(t, []string{"one", "two"}, list(fmt.Sprintf("?release=%d", a.ID)))
	assert.ElementsMatch(t, []string{"two", "three"}, list(fmt.Sprintf("?release=%d", b.ID)))
	assert.Equal(t, []string{"one"}, list("?tag=Fixed"))
	assert.Equal(t, []string{"one"}, list("?bug=1"))
	assert.Equal(t, []string{"two"}, list("?is_known_issue=true"))
	assert.Equal(t, []string{"three"}, list("?is_public=false"))

	w := performRequest(r, http.MethodGet, "/rna/notes/?bug=one", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReleaseNotesAndSummary(t *testing.T) {
	setupTestDB(t)
	r := setupRouter()
	token := createTestUser(t, "staff", true, true)
	desktop := createTestRelease(t, models.ProductFirefox, models.ChannelRelease, "42.0", true)
	android := createTestRelease(t, models.ProductFirefoxAndroid, models.ChannelRelease, "42.0", true)

	createNoteViaAPI(t, r, token, map[string]interface{}{"note": "low", "releases": []uint{desktop.ID}, "tag": models.TagChanged})
	createNoteViaAPI(t, r, token, map[string]interface{}{"note": "issue", "releases": []uint{desktop.ID}, "is_known_issue": true, "sort_num": 50})
	createNoteViaAPI(t, r, token, map[string]interface{}{"note": "high", "releases": []uint{desktop.ID}, "sort_num": 10, "tag": models.TagNew})
	createNoteViaAPI(t, r, token, map[string]interface{}{"note": "42.0 dot fix", "releases": []uint{desktop.ID}, "tag": models.TagFixed})
	createNoteViaAPI(t, r, token, map[string]interface{}{"note": "draft", "releases": []uint{desktop.ID}, "is_public": false})

	texts := func(notes []noteResponse) []string {
		out := []string{}
		for _, n := range notes {
			out = append(out, n.Note)
		}
		return out
	}

	// nested notes: new features in stored order, then known issues
	w := performRequest(r, http.MethodGet, fmt.Sprintf("/rna/releases/%d/notes/", desktop.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []string{"high", "low", "42.0 dot fix", "draft", "issue"}, texts(decode[[]noteResponse](t, w)))

	w = performRequest(r, http.MethodGet, fmt.Sprintf("/rna/releases/%d/notes/?public_only=true", desktop.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"high", "low", "42.0 dot fix", "issue"}, texts(decode[[]noteResponse](t, w)))

	w = performRequest(r, http.MethodGet, fmt.Sprintf("/rna/releases/%d/summary/", desktop.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	summary := decode[struct {
		Release           models.Release  `json:"release"`
		NewFeatures       []noteResponse  `json:"new_features"`
		KnownIssues       []noteResponse  `json:"known_issues"`
		BugSearchURL      string          `json:"bug_search_url"`
		EquivalentAndroid *models.Release `json:"equivalent_android"`
		EquivalentDesktop *models.Release `json:"equivalent_desktop"`
	}](t, w)

	assert.Equal(t, desktop.ID, summary.Release.ID)
	assert.Equal(t, []string{"42.0 dot fix", "high", "low"}, texts(summary.NewFeatures))
	assert.Equal(t, []string{"issue"}, texts(summary.KnownIssues))
	assert.Contains(t, summary.BugSearchURL, "cf_status_firefox42")
	require.NotNil(t, summary.EquivalentAndroid)
	assert.Equal(t, android.ID, summary.EquivalentAndroid.ID)
	assert.Nil(t, summary.EquivalentDesktop)
}

func TestSummaryDraftPreviewRequiresStaff(t *testing.T) {
	setupTestDB(t)
	r := setupRouter()
	staff := createTestUser(t, "staff", true, true)
	viewer := createTestUser(t, "viewer", true, false)
	release := createTestRelease(t, models.ProductFirefox, models.ChannelRelease, "43.0", true)
	createNoteViaAPI(t, r, staff, map[string]interface{}{"note": "shipped", "releases": []uint{release.ID}})
	createNoteViaAPI(t, r, staff, map[string]interface{}{"note": "draft", "releases": []uint{release.ID}, "is_public": false})

	path := fmt.Sprintf("/rna/releases/%d/summary/?public_only=false", release.ID)

	w := performRequest(r, http.MethodGet, path, nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = performRequest(r, http.MethodGet, path, nil, "junk")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = performRequest(r, http.MethodGet, path, nil, viewer)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = performRequest(r, http.MethodGet, path, nil, staff)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	summary := decode[struct {
		NewFeatures []noteResponse `json:"new_features"`
	}](t, w)
	notes := []string{}
	for _, n := range summary.NewFeatures {
		notes = append(notes, n.Note)
	}
	assert.ElementsMatch(t, []string{"shipped", "draft"}, notes)

	// the public view stays open to everyone
	w = performRequest(r, http.MethodGet, fmt.Sprintf("/rna/releases/%d/summary/", release.ID), nil, viewer)
	assert.Equal(t, http.StatusOK, w.Code)
}
