package migrations

import (
	"github.com/pushp314/releasenotes-backend/internal/services"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Migration003NormalizeReleaseVersions rewrites legacy "X.0.0" versions to
// the per-channel form ("X.0", "X.0a2", "X.0beta").
func Migration003NormalizeReleaseVersions() Migration {
	return Migration{
		ID:        "003_normalize_release_versions",
		Name:      "Normalize legacy X.0.0 release versions",
		DependsOn: []string{"001_initial_schema"},
		Up: func(db *gorm.DB) error {
			n, err := services.NormalizeVersions(db)
			if err != nil {
				return err
			}
			log.Info().Int("releases", n).Msg("Normalized release versions")
			return nil
		},
		// the old form cannot be recovered
		Down: func(db *gorm.DB) error {
			return nil
		},
	}
}
