// Command inspect_schema prints the release notes tables, applied
// migrations and release versions that need attention. With --rollback N it
// first reverts the N most recently applied migrations.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pushp314/releasenotes-backend/internal/config"
	"github.com/pushp314/releasenotes-backend/internal/database"
	"github.com/pushp314/releasenotes-backend/internal/migrations"
	"github.com/pushp314/releasenotes-backend/internal/models"
	"github.com/pushp314/releasenotes-backend/internal/services"
	"github.com/pushp314/releasenotes-backend/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	var steps int

	cmd := &cobra.Command{
		Use:          "inspect_schema",
		Short:        "Print tables, migrations and duplicate release versions",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			config.LoadConfig()
			logger.Init(config.AppConfig.Env)
			database.Connect()

			if err := rollback(database.DB, steps, cmd.OutOrStdout()); err != nil {
				return err
			}
			return inspect(database.DB, cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVar(&steps, "rollback", 0, "revert this many of the latest applied migrations first")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// rollback reverts up to steps migrations, stopping early once none are left
func rollback(db *gorm.DB, steps int, w io.Writer) error {
	m := migrations.NewMigrator(db)
	for i := 0; i < steps; i++ {
		id, err := m.Rollback()
		if err != nil {
			return err
		}
		if id == "" {
			fmt.Fprintln(w, "Nothing left to roll back")
			return nil
		}
		fmt.Fprintf(w, "Rolled back %s\n", id)
	}
	return nil
}

func inspect(db *gorm.DB, w io.Writer) error {
	m := db.Migrator()
	for _, model := range models.All() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return err
		}
		table := stmt.Schema.Table
		if !m.HasTable(table) {
			fmt.Fprintf(w, "%s: missing\n", table)
			continue
		}

		var count int64
		if err := db.Table(table).Count(&count).Error; err != nil {
			return err
		}
		fmt.Fprintf(w, "%s (%d rows)\n", table, count)

		cols, err := m.ColumnTypes(table)
		if err != nil {
			return err
		}
		for _, col := range cols {
			fmt.Fprintf(w, "  - %s %s\n", col.Name(), col.DatabaseTypeName())
		}
	}

	var records []migrations.MigrationRecord
	if m.HasTable(&migrations.MigrationRecord{}) {
		if err := db.Order("id ASC").Find(&records).Error; err != nil {
			return err
		}
	}
	fmt.Fprintln(w, "Applied migrations:")
	applied := make(map[string]bool, len(records))
	for _, r := range records {
		applied[r.ID] = true
		fmt.Fprintf(w, "  - %s\n", r.ID)
	}
	for _, mig := range migrations.GetMigrations() {
		if !applied[mig.ID] {
			fmt.Fprintf(w, "  ! pending %s (%s)\n", mig.ID, mig.Name)
		}
	}

	if !m.HasTable(&models.Release{}) {
		return nil
	}
	dups, err := services.NewReleases(db, false).DuplicateProductVersions()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Versions shared across channels: %d\n", len(dups))
	for _, d := range dups {
		fmt.Fprintf(w, "  - %s %s\n", d.Product, d.Version)
	}
	return nil
}
