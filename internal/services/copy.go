package services

import (
	"fmt"
	"time"

	"github.com/pushp314/releasenotes-backend/internal/models"
	"github.com/pushp314/releasenotes-backend/pkg/utils"
	"gorm.io/gorm"
)

// CopyResult is what the bulk copy action reports back
type CopyResult struct {
	Copies  []models.Release `json:"copies"`
	Message string           `json:"message"`
}

// CopyVersion names the copy of version given how many releases of the
// product already end with it (the original included).
func CopyVersion(version string, existing int64) string {
	if existing > 1 {
		return fmt.Sprintf("copy%d-%s", existing, version)
	}
	return "copy-" + version
}

// Copy duplicates each release to seed a similar one, typically for the next
// channel. Copies are private, get a "copy-" version prefix and share the
// original's notes.
func (s *Releases) Copy(ids []uint) (*CopyResult, error) {
	result := &CopyResult{Copies: []models.Release{}}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		for _, id := range ids {
			cp, err := copyRelease(tx, id)
			if err != nil {
				return err
			}
			result.Copies = append(result.Copies, *cp)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(result.Copies) == 1 {
		result.Message = "Copied Release"
	} else {
		result.Message = fmt.Sprintf("Copied %d Releases", len(result.Copies))
	}
	return result, nil
}

func copyRelease(tx *gorm.DB, id uint) (*models.Release, error) {
	var original models.Release
	if err := tx.First(&original, id).Error; err != nil {
		return nil, fmt.Errorf("load release %d: %w", id, err)
	}

	var existing int64
	err := tx.Model(&models.Release{}).
		Where("product = ?", original.Product).
		Where("version LIKE ? ESCAPE '\\'", "%"+utils.EscapeSQLWildcards(original.Version)).
		Count(&existing).Error
	if err != nil {
		return nil, fmt.Errorf("count copies of %s: %w", original, err)
	}

	var noteIDs []uint
	err = tx.Table(noteReleasesTable).Where("release_id = ?", original.ID).Pluck("note_id", &noteIDs).Error
	if err != nil {
		return nil, fmt.Errorf("load notes of %s: %w", original, err)
	}

	cp := original
	cp.ID = 0
	cp.Version = CopyVersion(original.Version, existing)
	cp.IsPublic = false
	cp.TimeStamped = models.TimeStamped{}
	if err := tx.Create(&cp).Error; err != nil {
		return nil, fmt.Errorf("create copy of %s: %w", original, err)
	}

	if len(noteIDs) == 0 {
		return &cp, nil
	}

	links := make([]map[string]interface{}, 0, len(noteIDs))
	for _, nid := range noteIDs {
		links = append(links, map[string]interface{}{"note_id": nid, "release_id": cp.ID})
	}
	if err := tx.Table(noteReleasesTable).Create(links).Error; err != nil {
		return nil, fmt.Errorf("attach notes to %s: %w", cp, err)
	}

	err = tx.Model(&models.Note{}).Where("id IN ?", noteIDs).
		UpdateColumn("modified", time.Now().UTC()).Error
	if err != nil {
		return nil, fmt.Errorf("touch notes of %s: %w", cp, err)
	}
	return &cp, nil
}
