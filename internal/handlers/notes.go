package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/releasenotes-backend/internal/database"
	"github.com/pushp314/releasenotes-backend/internal/models"
	"github.com/pushp314/releasenotes-backend/internal/services"
	"github.com/pushp314/releasenotes-backend/pkg/errors"
	"github.com/pushp314/releasenotes-backend/pkg/logger"
	"github.com/pushp314/releasenotes-backend/pkg/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var noteFilters = []fieldFilter{
	{param: "id", column: "notes.id", kind: filterInt},
	{param: "bug", column: "notes.bug", kind: filterInt},
	{param: "tag", column: "notes.tag"},
	{param: "is_known_issue", column: "notes.is_known_issue", kind: filterBool},
	{param: "is_public", column: "notes.is_public", kind: filterBool},
	{param: "fixed_in_release", column: "notes.fixed_in_release_id", kind: filterInt},
	{param: "sort_num", column: "notes.sort_num", kind: filterInt},
	{param: "release", column: "notes.id IN (SELECT note_id FROM note_releases WHERE release_id = ?)", kind: filterInt},
}

// NoteView is a note as the API shows it, with its releases as ids
type NoteView struct {
	models.Note
	Releases []uint `json:"releases"`
}

func noteViews(db *gorm.DB, notes []models.Note) ([]NoteView, error) {
	ids := make([]uint, 0, len(notes))
	for _, n := range notes {
		ids = append(ids, n.ID)
	}
	byNote, err := services.ReleaseIDsByNote(db, ids)
	if err != nil {
		return nil, err
	}

	views := make([]NoteView, 0, len(notes))
	for _, n := range notes {
		releases := byNote[n.ID]
		if releases == nil {
			releases = []uint{}
		}
		views = append(views, NoteView{Note: n, Releases: releases})
	}
	return views, nil
}

// NoteInput is the writable part of a note
type NoteInput struct {
	Bug            Optional[int]    `json:"bug"`
	Note           Optional[string] `json:"note"`
	Releases       Optional[[]uint] `json:"releases"`
	IsKnownIssue   Optional[bool]   `json:"is_known_issue"`
	FixedInRelease Optional[uint]   `json:"fixed_in_release"`
	Tag            Optional[string] `json:"tag"`
	SortNum        Optional[int]    `json:"sort_num"`
	IsPublic       Optional[bool]   `json:"is_public"`
}

// apply copies the input onto n. With partial false, fields that are not
// sent fall back to their defaults (public, untagged, sort_num 0).
func (in NoteInput) apply(n *models.Note, partial bool) error {
	if !partial {
		*n = models.Note{ID: n.ID, IsPublic: true, TimeStamped: n.TimeStamped}
	}

	if in.Bug.Set {
		if in.Bug.Null {
			n.Bug = nil
		} else {
			bug := in.Bug.Value
			n.Bug = &bug
		}
	}
	if in.FixedInRelease.Set {
		if in.FixedInRelease.Null || in.FixedInRelease.Value == 0 {
			n.FixedInReleaseID = nil
		} else {
			id := in.FixedInRelease.Value
			n.FixedInReleaseID = &id
		}
	}
	setString(&n.Note, in.Note)
	setString(&n.Tag, in.Tag)
	if in.IsKnownIssue.Present() {
		n.IsKnownIssue = in.IsKnownIssue.Value
	}
	if in.SortNum.Present() {
		n.SortNum = in.SortNum.Value
	}
	if in.IsPublic.Present() {
		n.IsPublic = in.IsPublic.Value
	}

	if !models.ValidTag(n.Tag) {
		return errors.BadRequestf("tag: %q is not a valid choice (%s)", n.Tag, strings.Join(models.Tags, ", "))
	}
	return nil
}

// checkReferences makes sure every release the note points at exists
func (in NoteInput) checkReferences(db *gorm.DB, n models.Note) error {
	ids := []uint{}
	if in.Releases.Present() {
		ids = append(ids, in.Releases.Value...)
	}
	if n.FixedInReleaseID != nil {
		ids = append(ids, *n.FixedInReleaseID)
	}
	missing, err := services.MissingReleases(db, ids)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return errors.BadRequestf("Invalid release id %d - object does not exist", missing[0])
	}
	return nil
}

// saveNote writes n and, when the input carries releases (always for full
// writes), replaces its release links.
func saveNote(tx *gorm.DB, n *models.Note, in NoteInput, partial bool) error {
	if err := in.checkReferences(tx, *n); err != nil {
		return err
	}
	if err := tx.Omit(clause.Associations).Save(n).Error; err != nil {
		return err
	}
	if partial && !in.Releases.Set {
		return nil
	}
	var ids []uint
	if in.Releases.Present() {
		ids = in.Releases.Value
	}
	return services.SetNoteReleases(tx, n.ID, ids)
}

func ListNotes(c *gin.Context) {
	scopes, err := listScopes(c, "notes", noteFilters)
	if err != nil {
		c.Error(err)
		return
	}

	var notes []models.Note
	if err := database.DB.Scopes(scopes...).Order("notes.sort_num ASC, notes.id ASC").Find(&notes).Error; err != nil {
		dbError(c, err, "Failed to fetch notes")
		return
	}

	views, err := noteViews(database.DB, notes)
	if err != nil {
		dbError(c, err, "Failed to fetch notes")
		return
	}
	c.JSON(http.StatusOK, views)
}

func GetNote(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var note models.Note
	if err := database.DB.First(&note, id).Error; err != nil {
		dbError(c, err, "Failed to fetch note")
		return
	}

	views, err := noteViews(database.DB, []models.Note{note})
	if err != nil {
		dbError(c, err, "Failed to fetch note")
		return
	}
	c.JSON(http.StatusOK, views[0])
}

func CreateNote(c *gin.Context) {
	var input NoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(errors.BadRequest(err.Error()))
		return
	}

	var note models.Note
	if err := input.apply(&note, false); err != nil {
		c.Error(err)
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := saveNote(tx, &note, input, false); err != nil {
			return err
		}
		return services.LogAdminAction(tx, getAdminID(c), models.ActionCreateNote, itoa(note.ID), "note", utils.TruncateString(note.Note, 80))
	})
	if err != nil {
		noteWriteError(c, err)
		return
	}

	logger.Info().Uint("note_id", note.ID).Msg("Note created")
	respondNote(c, http.StatusCreated, note)
}

// UpdateNote serves both PUT (full) and PATCH (partial) writes
func UpdateNote(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	partial := c.Request.Method == http.MethodPatch

	var input NoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(errors.BadRequest(err.Error()))
		return
	}

	var note models.Note
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&note, id).Error; err != nil {
			return err
		}
		if err := input.apply(&note, partial); err != nil {
			return err
		}
		if err := saveNote(tx, &note, input, partial); err != nil {
			return err
		}
		return services.LogAdminAction(tx, getAdminID(c), models.ActionUpdateNote, itoa(note.ID), "note", utils.TruncateString(note.Note, 80))
	})
	if err != nil {
		noteWriteError(c, err)
		return
	}

	respondNote(c, http.StatusOK, note)
}

func DeleteNote(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var note models.Note
		if err := tx.First(&note, id).Error; err != nil {
			return err
		}
		if err := services.SetNoteReleases(tx, id, nil); err != nil {
			return err
		}
		if err := tx.Delete(&note).Error; err != nil {
			return err
		}
		return services.LogAdminAction(tx, getAdminID(c), models.ActionDeleteNote, itoa(id), "note", utils.TruncateString(note.Note, 80))
	})
	if err != nil {
		dbError(c, err, "Failed to delete note")
		return
	}

	c.Status(http.StatusNoContent)
}

func respondNote(c *gin.Context, status int, note models.Note) {
	views, err := noteViews(database.DB, []models.Note{note})
	if err != nil {
		dbError(c, err, "Failed to fetch note")
		return
	}
	c.JSON(status, views[0])
}

func noteWriteError(c *gin.Context, err error) {
	if appErr, ok := err.(*errors.AppError); ok {
		c.Error(appErr)
		return
	}
	dbError(c, err, "Failed to save note")
}
