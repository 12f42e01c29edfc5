package syncer

import (
	"fmt"

	"github.com/pushp314/releasenotes-backend/internal/models"
	"github.com/pushp314/releasenotes-backend/internal/services"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const importBatchSize = 100

// upsertOnID updates every column of an existing row with the same id
var upsertOnID = clause.OnConflict{
	Columns:   []clause.Column{{Name: "id"}},
	UpdateAll: true,
}

// clearLocal removes all local content before a clean import
func clearLocal(tx *gorm.DB) error {
	for _, stmt := range []string{
		"DELETE FROM note_releases",
		"DELETE FROM notes",
		"DELETE FROM releases",
	} {
		if err := tx.Exec(stmt).Error; err != nil {
			return fmt.Errorf("clear local data: %w", err)
		}
	}
	return nil
}

// importReleases upserts releases by id, keeping their remote timestamps.
// A local release holding the same product/channel/version under another
// id is dropped first so the remote row can take its place.
func importReleases(tx *gorm.DB, releases []models.Release) error {
	if len(releases) == 0 {
		return nil
	}

	for _, r := range releases {
		var stale []uint
		err := tx.Model(&models.Release{}).
			Where("product = ? AND channel = ? AND version = ? AND id <> ?", r.Product, r.Channel, r.Version, r.ID).
			Pluck("id", &stale).Error
		if err != nil {
			return fmt.Errorf("check release %d: %w", r.ID, err)
		}
		for _, id := range stale {
			if err := services.DeleteRelease(tx, id); err != nil {
				return err
			}
		}
	}

	if err := models.WithoutModified(tx).Clauses(upsertOnID).CreateInBatches(&releases, importBatchSize).Error; err != nil {
		return fmt.Errorf("save releases: %w", err)
	}
	return nil
}

// importNotes upserts notes by id and replaces their release links.
// Links to releases this instance does not have are skipped.
func importNotes(tx *gorm.DB, remote []RemoteNote) (skipped int, err error) {
	if len(remote) == 0 {
		return 0, nil
	}

	notes := make([]models.Note, len(remote))
	var wanted []uint
	for i, rn := range remote {
		notes[i] = rn.Note
		notes[i].Releases = nil
		notes[i].FixedInRelease = nil
		wanted = append(wanted, rn.Releases...)
		if rn.FixedInReleaseID != nil {
			wanted = append(wanted, *rn.FixedInReleaseID)
		}
	}

	missing, err := services.MissingReleases(tx, wanted)
	if err != nil {
		return 0, err
	}
	absent := make(map[uint]bool, len(missing))
	for _, id := range missing {
		absent[id] = true
	}
	for i := range notes {
		if id := notes[i].FixedInReleaseID; id != nil && absent[*id] {
			notes[i].FixedInReleaseID = nil
			skipped++
		}
	}

	err = models.WithoutModified(tx).Omit(clause.Associations).Clauses(upsertOnID).
		CreateInBatches(&notes, importBatchSize).Error
	if err != nil {
		return 0, fmt.Errorf("save notes: %w", err)
	}

	for _, rn := range remote {
		ids := make([]uint, 0, len(rn.Releases))
		for _, id := range rn.Releases {
			if absent[id] {
				skipped++
				continue
			}
			ids = append(ids, id)
		}
		if err := services.SetNoteReleases(tx, rn.ID, ids); err != nil {
			return 0, err
		}
	}
	return skipped, nil
}
