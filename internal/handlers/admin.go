package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/releasenotes-backend/internal/database"
	"github.com/pushp314/releasenotes-backend/internal/models"
	"github.com/pushp314/releasenotes-backend/internal/services"
	"github.com/pushp314/releasenotes-backend/pkg/errors"
	"github.com/pushp314/releasenotes-backend/pkg/logger"
	"github.com/pushp314/releasenotes-backend/pkg/utils"
	"gorm.io/gorm"
)

// --- Releases ---

var adminReleaseFilters = []fieldFilter{
	{param: "product", column: "releases.product"},
	{param: "channel", column: "releases.channel"},
	{param: "is_public", column: "releases.is_public", kind: filterBool},
}

// AdminListReleases pages through releases, newest release date first
func AdminListReleases(c *gin.Context) {
	page, limit, offset := pagination(c)

	scopes, err := fieldFilters(c, adminReleaseFilters)
	if err != nil {
		c.Error(err)
		return
	}

	query := database.DB.Model(&models.Release{}).Scopes(scopes...)
	if search := c.Query("search"); search != "" {
		term := utils.SanitizeSearchQuery(search)
		query = query.Where("releases.version LIKE ? ESCAPE '\\' OR releases.text LIKE ? ESCAPE '\\'", term, term)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		dbError(c, err, "Failed to count releases")
		return
	}

	releases := []models.Release{}
	if err := query.Order("release_date DESC, id DESC").Offset(offset).Limit(limit).Find(&releases).Error; err != nil {
		dbError(c, err, "Failed to fetch releases")
		return
	}

	c.JSON(http.StatusOK, paginated("releases", releases, total, page, limit))
}

// AdminCopyReleases runs the bulk copy action on the selected releases
func AdminCopyReleases(c *gin.Context) {
	var req struct {
		IDs []uint `json:"ids" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.BadRequest("ids: select at least one release"))
		return
	}

	adminID := getAdminID(c)
	var result *services.CopyResult
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = services.NewReleases(tx, devMode()).Copy(req.IDs)
		if err != nil {
			return err
		}
		for i, cp := range result.Copies {
			reason := fmt.Sprintf("Copied release %d as %s", req.IDs[i], cp.String())
			if err := services.LogAdminAction(tx, adminID, models.ActionCopyReleases, itoa(cp.ID), "release", reason); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		dbError(c, err, "Failed to copy releases")
		return
	}

	logger.Info().Str("admin_id", adminID).Int("count", len(result.Copies)).Msg(result.Message)
	c.JSON(http.StatusCreated, result)
}

// AdminDuplicateReleases lists product/version pairs used on several channels
func AdminDuplicateReleases(c *gin.Context) {
	dups, err := releaseService().DuplicateProductVersions()
	if err != nil {
		dbError(c, err, "Failed to find duplicates")
		return
	}
	c.JSON(http.StatusOK, gin.H{"duplicates": dups})
}

// AdminNormalizeVersions rewrites legacy X.0.0 versions
func AdminNormalizeVersions(c *gin.Context) {
	var changed int
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		changed, err = services.NormalizeVersions(tx)
		if err != nil {
			return err
		}
		return services.LogAdminAction(tx, getAdminID(c), models.ActionNormalizeVersions, "", "system",
			fmt.Sprintf("Normalized %d release versions", changed))
	})
	if err != nil {
		dbError(c, err, "Failed to normalize versions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"changed": changed})
}

// --- Notes ---

var adminNoteFilters = []fieldFilter{
	{param: "tag", column: "notes.tag"},
	{param: "is_known_issue", column: "notes.is_known_issue", kind: filterBool},
	{param: "product", column: "notes.id IN (SELECT nr.note_id FROM note_releases nr JOIN releases r ON r.id = nr.release_id WHERE r.product = ?)"},
	{param: "version", column: "notes.id IN (SELECT nr.note_id FROM note_releases nr JOIN releases r ON r.id = nr.release_id WHERE r.version = ?)"},
}

// AdminListNotes pages through notes. search matches the bug number, the
// note text or the version of any attached release.
func AdminListNotes(c *gin.Context) {
	page, limit, offset := pagination(c)

	scopes, err := fieldFilters(c, adminNoteFilters)
	if err != nil {
		c.Error(err)
		return
	}

	query := database.DB.Model(&models.Note{}).Scopes(scopes...)
	if search := c.Query("search"); search != "" {
		term := utils.SanitizeSearchQuery(search)
		cond := "notes.note LIKE ? ESCAPE '\\' OR notes.id IN (SELECT nr.note_id FROM note_releases nr JOIN releases r ON r.id = nr.release_id WHERE r.version LIKE ? ESCAPE '\\')"
		args := []interface{}{term, term}
		if bug, err := strconv.Atoi(search); err == nil {
			cond += " OR notes.bug = ?"
			args = append(args, bug)
		}
		query = query.Where(cond, args...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		dbError(c, err, "Failed to count notes")
		return
	}

	var notes []models.Note
	if err := query.Order("notes.modified DESC, notes.id DESC").Offset(offset).Limit(limit).Find(&notes).Error; err != nil {
		dbError(c, err, "Failed to fetch notes")
		return
	}

	views, err := noteViews(database.DB, notes)
	if err != nil {
		dbError(c, err, "Failed to fetch notes")
		return
	}
	c.JSON(http.StatusOK, paginated("notes", views, total, page, limit))
}

// AdminSetNoteReleases replaces the releases a note is attached to
func AdminSetNoteReleases(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Releases []uint `json:"releases"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.BadRequest(err.Error()))
		return
	}

	var note models.Note
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&note, id).Error; err != nil {
			return err
		}
		missing, err := services.MissingReleases(tx, req.Releases)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return errors.BadRequestf("Invalid release id %d - object does not exist", missing[0])
		}
		if err := services.SetNoteReleases(tx, note.ID, req.Releases); err != nil {
			return err
		}
		// stamp modified so incremental syncs see the new links
		if err := tx.Omit("Releases", "FixedInRelease").Save(&note).Error; err != nil {
			return err
		}
		return services.LogAdminAction(tx, getAdminID(c), models.ActionRelinkNote, itoa(note.ID), "note",
			fmt.Sprintf("Attached to releases %v", req.Releases))
	})
	if err != nil {
		noteWriteError(c, err)
		return
	}

	respondNote(c, http.StatusOK, note)
}

// AdminDetachNoteRelease removes a single release from a note
func AdminDetachNoteRelease(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	releaseID, ok := parseID(c, "releaseId")
	if !ok {
		return
	}

	removed, err := services.DetachNoteRelease(database.DB, id, releaseID)
	if err != nil {
		dbError(c, err, "Failed to detach note")
		return
	}
	if !removed {
		c.Error(errors.NotFound("Note is not attached to that release"))
		return
	}

	if err := services.LogAdminAction(database.DB, getAdminID(c), models.ActionDetachNote, itoa(id), "note",
		fmt.Sprintf("Detached from release %d", releaseID)); err != nil {
		logger.Error().Err(err).Msg("Failed to record audit log")
	}
	c.Status(http.StatusNoContent)
}

// --- Audit ---

func AdminGetAuditLogs(c *gin.Context) {
	page, limit, offset := pagination(c)

	query := database.DB.Model(&models.AdminAction{})
	if action := c.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		dbError(c, err, "Failed to count audit logs")
		return
	}

	logs := []models.AdminAction{}
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&logs).Error; err != nil {
		dbError(c, err, "Failed to fetch audit logs")
		return
	}
	c.JSON(http.StatusOK, paginated("logs", logs, total, page, limit))
}
