package migrations

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Migration represents a database migration
type Migration struct {
	ID        string // Unique identifier (e.g., "001_initial_schema")
	Name      string // Human-readable name
	Up        func(db *gorm.DB) error
	Down      func(db *gorm.DB) error
	DependsOn []string // IDs of migrations this depends on
}

// MigrationRecord tracks which migrations have been applied
type MigrationRecord struct {
	ID        string    `gorm:"primaryKey;type:text"`
	Name      string    `gorm:"type:text"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

func (MigrationRecord) TableName() string {
	return "schema_migrations"
}

// Migrator applies migrations in order, each in its own transaction
type Migrator struct {
	db         *gorm.DB
	migrations []Migration
}

func NewMigrator(db *gorm.DB) *Migrator {
	return &Migrator{
		db:         db,
		migrations: GetMigrations(),
	}
}

func (m *Migrator) applied() (map[string]bool, error) {
	if err := m.db.AutoMigrate(&MigrationRecord{}); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	var records []MigrationRecord
	if err := m.db.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch applied migrations: %w", err)
	}

	done := make(map[string]bool, len(records))
	for _, r := range records {
		done[r.ID] = true
	}
	return done, nil
}

// Run executes all pending migrations and returns the ids it applied
func (m *Migrator) Run() ([]string, error) {
	appliedMap, err := m.applied()
	if err != nil {
		return nil, err
	}

	var ran []string
	for _, migration := range m.migrations {
		if appliedMap[migration.ID] {
			continue
		}

		for _, dep := range migration.DependsOn {
			if !appliedMap[dep] {
				return ran, fmt.Errorf("migration %s depends on %s which is not applied", migration.ID, dep)
			}
		}

		log.Info().Str("migration", migration.ID).Str("name", migration.Name).Msg("Running migration")

		if err := m.db.Transaction(func(tx *gorm.DB) error {
			if err := migration.Up(tx); err != nil {
				return err
			}
			return tx.Create(&MigrationRecord{
				ID:   migration.ID,
				Name: migration.Name,
			}).Error
		}); err != nil {
			log.Error().Err(err).Str("migration", migration.ID).Msg("Migration failed")
			return ran, fmt.Errorf("migration %s failed: %w", migration.ID, err)
		}

		appliedMap[migration.ID] = true
		ran = append(ran, migration.ID)
		log.Info().Str("migration", migration.ID).Msg("Migration completed")
	}

	return ran, nil
}

// Rollback reverts the most recently applied migration, if any
func (m *Migrator) Rollback() (string, error) {
	appliedMap, err := m.applied()
	if err != nil {
		return "", err
	}

	for i := len(m.migrations) - 1; i >= 0; i-- {
		migration := m.migrations[i]
		if !appliedMap[migration.ID] {
			continue
		}

		err := m.db.Transaction(func(tx *gorm.DB) error {
			if migration.Down != nil {
				if err := migration.Down(tx); err != nil {
					return err
				}
			}
			return tx.Delete(&MigrationRecord{}, "id = ?", migration.ID).Error
		})
		if err != nil {
			return "", fmt.Errorf("rollback %s failed: %w", migration.ID, err)
		}
		log.Info().Str("migration", migration.ID).Msg("Migration rolled back")
		return migration.ID, nil
	}
	return "", nil
}

// GetMigrations returns all registered migrations in order
func GetMigrations() []Migration {
	return []Migration{
		Migration001InitialSchema(),
		Migration002ListingIndexes(),
		Migration003NormalizeReleaseVersions(),
	}
}
