package migrations

import (
	"gorm.io/gorm"
)

// Migration002ListingIndexes adds indexes for the two hot queries: notes of a
// release in display order, and equivalent release lookups.
func Migration002ListingIndexes() Migration {
	return Migration{
		ID:        "002_listing_indexes",
		Name:      "Add indexes for release note listings",
		DependsOn: []string{"001_initial_schema"},
		Up: func(db *gorm.DB) error {
			stmts := []string{
				`CREATE INDEX IF NOT EXISTS idx_note_releases_release ON note_releases (release_id)`,
				`CREATE INDEX IF NOT EXISTS idx_notes_display ON notes (sort_num DESC, created)`,
				`CREATE INDEX IF NOT EXISTS idx_releases_lookup ON releases (product, channel, version)`,
			}
			for _, s := range stmts {
				if err := db.Exec(s).Error; err != nil {
					return err
				}
			}
			return nil
		},
		Down: func(db *gorm.DB) error {
			for _, idx := range []string{"idx_releases_lookup", "idx_notes_display", "idx_note_releases_release"} {
				if err := db.Exec(`DROP INDEX IF EXISTS ` + idx).Error; err != nil {
					return err
				}
			}
			return nil
		},
	}
}
