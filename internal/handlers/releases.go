package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/releasenotes-backend/internal/database"
	"github.com/pushp314/releasenotes-backend/internal/middleware"
	"github.com/pushp314/releasenotes-backend/internal/models"
	"github.com/pushp314/releasenotes-backend/internal/services"
	"github.com/pushp314/releasenotes-backend/pkg/errors"
	"github.com/pushp314/releasenotes-backend/pkg/logger"
	"gorm.io/gorm"
)

var releaseFilters = []fieldFilter{
	{param: "id", column: "releases.id", kind: filterInt},
	{param: "product", column: "releases.product"},
	{param: "channel", column: "releases.channel"},
	{param: "version", column: "releases.version"},
	{param: "is_public", column: "releases.is_public", kind: filterBool},
	{param: "bug_list", column: "releases.bug_list"},
}

// ReleaseInput is the writable part of a release. created and modified
// are ignored; the server stamps them.
type ReleaseInput struct {
	Product            Optional[string]    `json:"product"`
	Channel            Optional[string]    `json:"channel"`
	Version            Optional[string]    `json:"version"`
	ReleaseDate        Optional[time.Time] `json:"release_date"`
	Text               Optional[string]    `json:"text"`
	IsPublic           Optional[bool]      `json:"is_public"`
	BugList            Optional[string]    `json:"bug_list"`
	BugSearchURL       Optional[string]    `json:"bug_search_url"`
	SystemRequirements Optional[string]    `json:"system_requirements"`
}

// apply copies the input onto r. With partial false every field is
// assigned and the required ones must be present.
func (in ReleaseInput) apply(r *models.Release, partial bool) error {
	if !partial {
		var missing []string
		for _, f := range []struct {
			name    string
			present bool
		}{
			{"product", in.Product.Present()},
			{"channel", in.Channel.Present()},
			{"version", in.Version.Present()},
			{"release_date", in.ReleaseDate.Present()},
		} {
			if !f.present {
				missing = append(missing, f.name)
			}
		}
		if len(missing) > 0 {
			return errors.BadRequestf("This field is required: %s", strings.Join(missing, ", "))
		}
		*r = models.Release{ID: r.ID, TimeStamped: r.TimeStamped}
	}

	setString(&r.Product, in.Product)
	setString(&r.Channel, in.Channel)
	setString(&r.Version, in.Version)
	setString(&r.Text, in.Text)
	setString(&r.BugList, in.BugList)
	setString(&r.BugSearchURL, in.BugSearchURL)
	setString(&r.SystemRequirements, in.SystemRequirements)
	if in.ReleaseDate.Set {
		if in.ReleaseDate.Null {
			return errors.BadRequest("release_date: This field may not be null")
		}
		r.ReleaseDate = in.ReleaseDate.Value.UTC()
	}
	if in.IsPublic.Present() {
		r.IsPublic = in.IsPublic.Value
	}

	return validateRelease(*r)
}

func setString(dst *string, v Optional[string]) {
	if v.Set {
		*dst = v.Value
	}
}

func validateRelease(r models.Release) error {
	if !models.ValidProduct(r.Product) {
		return errors.BadRequestf("product: %q is not a valid choice", r.Product)
	}
	if !models.ValidChannel(r.Channel) {
		return errors.BadRequestf("channel: %q is not a valid choice", r.Channel)
	}
	if strings.TrimSpace(r.Version) == "" {
		return errors.BadRequest("version: This field may not be blank")
	}
	if len(r.BugSearchURL) > 2000 {
		return errors.BadRequest("bug_search_url: Ensure this field has no more than 2000 characters")
	}
	return nil
}

// releaseTaken reports whether another release already uses the identity of r
func releaseTaken(db *gorm.DB, r models.Release) (bool, error) {
	var count int64
	err := db.Model(&models.Release{}).
		Where("product = ? AND channel = ? AND version = ? AND id <> ?", r.Product, r.Channel, r.Version, r.ID).
		Count(&count).Error
	return count > 0, err
}

// ListReleases returns every release matching the query filters
func ListReleases(c *gin.Context) {
	scopes, err := listScopes(c, "releases", releaseFilters)
	if err != nil {
		c.Error(err)
		return
	}

	releases := []models.Release{}
	if err := database.DB.Scopes(scopes...).Order(models.ReleaseOrder).Find(&releases).Error; err != nil {
		dbError(c, err, "Failed to fetch releases")
		return
	}
	c.JSON(http.StatusOK, releases)
}

func GetRelease(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	release, err := releaseService().Get(id)
	if err != nil {
		dbError(c, err, "Failed to fetch release")
		return
	}
	c.JSON(http.StatusOK, release)
}

func CreateRelease(c *gin.Context) {
	var input ReleaseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(errors.BadRequest(err.Error()))
		return
	}

	var release models.Release
	if err := input.apply(&release, false); err != nil {
		c.Error(err)
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		taken, err := releaseTaken(tx, release)
		if err != nil {
			return err
		}
		if taken {
			return errReleaseTaken
		}
		if err := tx.Create(&release).Error; err != nil {
			return err
		}
		return services.LogAdminAction(tx, getAdminID(c), models.ActionCreateRelease, itoa(release.ID), "release", release.String())
	})
	if err != nil {
		releaseWriteError(c, err)
		return
	}

	logger.Info().Uint("release_id", release.ID).Str("release", release.String()).Msg("Release created")
	c.JSON(http.StatusCreated, release)
}

// UpdateRelease serves both PUT (full) and PATCH (partial) writes
func UpdateRelease(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	partial := c.Request.Method == http.MethodPatch

	var input ReleaseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(errors.BadRequest(err.Error()))
		return
	}

	var release models.Release
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&release, id).Error; err != nil {
			return err
		}
		if err := input.apply(&release, partial); err != nil {
			return err
		}
		taken, err := releaseTaken(tx, release)
		if err != nil {
			return err
		}
		if taken {
			return errReleaseTaken
		}
		if err := tx.Save(&release).Error; err != nil {
			return err
		}
		return services.LogAdminAction(tx, getAdminID(c), models.ActionUpdateRelease, itoa(release.ID), "release", release.String())
	})
	if err != nil {
		releaseWriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, release)
}

// DeleteRelease removes the release; its note links go with it and notes
// that were fixed in it lose the reference.
func DeleteRelease(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var release models.Release
		if err := tx.First(&release, id).Error; err != nil {
			return err
		}
		if err := services.DeleteRelease(tx, release.ID); err != nil {
			return err
		}
		return services.LogAdminAction(tx, getAdminID(c), models.ActionDeleteRelease, itoa(id), "release", release.String())
	})
	if err != nil {
		dbError(c, err, "Failed to delete release")
		return
	}

	c.Status(http.StatusNoContent)
}

// ReleaseNotes lists the notes of a release, new features first and known
// issues after. public_only=true hides drafts.
func ReleaseNotes(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	publicOnly, err := boolQuery(c, "public_only", false)
	if err != nil {
		c.Error(err)
		return
	}

	svc := releaseService()
	release, err := svc.Get(id)
	if err != nil {
		dbError(c, err, "Failed to fetch release")
		return
	}

	newFeatures, knownIssues, err := svc.Notes(*release, publicOnly)
	if err != nil {
		dbError(c, err, "Failed to fetch notes")
		return
	}

	views, err := noteViews(database.DB, append(newFeatures, knownIssues...))
	if err != nil {
		dbError(c, err, "Failed to fetch notes")
		return
	}
	c.JSON(http.StatusOK, views)
}

// ReleaseSummary is everything a release notes page shows. Drafts are
// hidden unless a staff user asks for public_only=false.
func ReleaseSummary(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	publicOnly, err := boolQuery(c, "public_only", true)
	if err != nil {
		c.Error(err)
		return
	}
	if !publicOnly {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.Error(errors.Unauthorized("Log in as staff to preview drafts"))
			return
		}
		if !user.CanEdit() {
			c.Error(errors.Forbidden("Only staff can preview drafts"))
			return
		}
	}

	svc := releaseService()
	release, err := svc.Get(id)
	if err != nil {
		dbError(c, err, "Failed to fetch release")
		return
	}

	summary, err := svc.Summarize(*release, publicOnly)
	if err != nil {
		dbError(c, err, "Failed to summarize release")
		return
	}

	newFeatures, err := noteViews(database.DB, summary.NewFeatures)
	if err != nil {
		dbError(c, err, "Failed to fetch notes")
		return
	}
	knownIssues, err := noteViews(database.DB, summary.KnownIssues)
	if err != nil {
		dbError(c, err, "Failed to fetch notes")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"release":            summary.Release,
		"new_features":       newFeatures,
		"known_issues":       knownIssues,
		"bug_search_url":     summary.BugSearchURL,
		"equivalent_android": summary.EquivalentAndroid,
		"equivalent_desktop": summary.EquivalentDesktop,
	})
}

var errReleaseTaken = errors.BadRequest("Release with this Product, Channel and Version already exists.")

func releaseWriteError(c *gin.Context, err error) {
	if appErr, ok := err.(*errors.AppError); ok {
		c.Error(appErr)
		return
	}
	dbError(c, err, "Failed to save release")
}

func boolQuery(c *gin.Context, name string, def bool) (bool, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errors.BadRequestf("%s: expected a boolean", name)
	}
	return v, nil
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
