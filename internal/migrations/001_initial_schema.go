package migrations

import (
	"github.com/pushp314/releasenotes-backend/internal/models"
	"gorm.io/gorm"
)

// Migration001InitialSchema creates releases, notes, the note_releases join
// table, users and the audit log.
func Migration001InitialSchema() Migration {
	return Migration{
		ID:   "001_initial_schema",
		Name: "Create release notes schema",
		Up: func(db *gorm.DB) error {
			return db.AutoMigrate(models.All()...)
		},
		Down: func(db *gorm.DB) error {
			m := db.Migrator()
			for _, table := range []interface{}{"note_releases", &models.Note{}, &models.Release{}, &models.AdminAction{}, &models.User{}} {
				if err := m.DropTable(table); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
