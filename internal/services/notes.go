package services

import (
	"fmt"
	"time"

	"github.com/pushp314/releasenotes-backend/internal/models"
	"gorm.io/gorm"
)

const noteReleasesTable = "note_releases"

// ReleaseIDsByNote maps each note id to the ids of its releases, ascending
func ReleaseIDsByNote(db *gorm.DB, noteIDs []uint) (map[uint][]uint, error) {
	out := make(map[uint][]uint, len(noteIDs))
	if len(noteIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		NoteID    uint
		ReleaseID uint
	}
	err := db.Table(noteReleasesTable).
		Select("note_id", "release_id").
		Where("note_id IN ?", noteIDs).
		Order("note_id ASC, release_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load note releases: %w", err)
	}
	for _, r := range rows {
		out[r.NoteID] = append(out[r.NoteID], r.ReleaseID)
	}
	return out, nil
}

// MissingReleases returns the ids in ids that have no release row
func MissingReleases(db *gorm.DB, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []uint
	if err := db.Model(&models.Release{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, fmt.Errorf("check releases: %w", err)
	}
	seen := make(map[uint]bool, len(found))
	for _, id := range found {
		seen[id] = true
	}
	var missing []uint
	for _, id := range ids {
		if !seen[id] {
			missing = append(missing, id)
			seen[id] = true
		}
	}
	return missing, nil
}

// SetNoteReleases replaces the releases of a note. Run it inside a
// transaction together with the note write.
func SetNoteReleases(tx *gorm.DB, noteID uint, releaseIDs []uint) error {
	if err := tx.Exec("DELETE FROM "+noteReleasesTable+" WHERE note_id = ?", noteID).Error; err != nil {
		return fmt.Errorf("clear releases of note %d: %w", noteID, err)
	}
	if len(releaseIDs) == 0 {
		return nil
	}

	seen := make(map[uint]bool, len(releaseIDs))
	links := make([]map[string]interface{}, 0, len(releaseIDs))
	for _, rid := range releaseIDs {
		if seen[rid] {
			continue
		}
		seen[rid] = true
		links = append(links, map[string]interface{}{"note_id": noteID, "release_id": rid})
	}
	if err := tx.Table(noteReleasesTable).Create(links).Error; err != nil {
		return fmt.Errorf("attach releases to note %d: %w", noteID, err)
	}
	return nil
}

// DetachNoteRelease removes one release from a note and stamps the note as
// modified so incremental syncs pick the change up. It reports whether the
// link existed.
func DetachNoteRelease(db *gorm.DB, noteID, releaseID uint) (bool, error) {
	var removed bool
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Exec("DELETE FROM "+noteReleasesTable+" WHERE note_id = ? AND release_id = ?", noteID, releaseID)
		if res.Error != nil {
			return fmt.Errorf("detach release %d from note %d: %w", releaseID, noteID, res.Error)
		}
		removed = res.RowsAffected > 0
		if !removed {
			return nil
		}
		return tx.Model(&models.Note{}).Where("id = ?", noteID).
			UpdateColumn("modified", time.Now().UTC()).Error
	})
	return removed, err
}

// DeleteRelease removes a release and its note links. Notes that were fixed
// in it lose the reference; the notes themselves are kept.
func DeleteRelease(tx *gorm.DB, releaseID uint) error {
	if err := tx.Exec("DELETE FROM "+noteReleasesTable+" WHERE release_id = ?", releaseID).Error; err != nil {
		return fmt.Errorf("detach notes from release %d: %w", releaseID, err)
	}
	if err := tx.Model(&models.Note{}).Where("fixed_in_release_id = ?", releaseID).
		UpdateColumn("fixed_in_release_id", nil).Error; err != nil {
		return fmt.Errorf("clear fixed_in_release %d: %w", releaseID, err)
	}
	if err := tx.Delete(&models.Release{}, releaseID).Error; err != nil {
		return fmt.Errorf("delete release %d: %w", releaseID, err)
	}
	return nil
}
