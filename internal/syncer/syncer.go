// Package syncer pulls releases and notes from another release-notes
// instance into the local database.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pushp314/releasenotes-backend/internal/models"
	"github.com/pushp314/releasenotes-backend/internal/services"
	"github.com/pushp314/releasenotes-backend/pkg/logger"
	"gorm.io/gorm"
)

// NotifySubject is the admin notification subject for transport failures
const NotifySubject = "Problem connecting to release notes source"

// Source is the remote side of a sync
type Source interface {
	FetchReleases(ctx context.Context, modifiedAfter *time.Time) ([]models.Release, error)
	FetchNotes(ctx context.Context, modifiedAfter *time.Time) ([]RemoteNote, error)
}

type Options struct {
	// Clean replaces all local content with a full fetch
	Clean bool
	// ModifiedAfter overrides the per-model watermark when set
	ModifiedAfter *time.Time
	// AdminID is recorded in the audit log; empty for scheduled runs
	AdminID string
}

// Result counts what one run imported
type Result struct {
	Releases     int  `json:"releases"`
	Notes        int  `json:"notes"`
	SkippedLinks int  `json:"skipped_links"`
	Clean        bool `json:"clean"`
}

type Syncer struct {
	DB       *gorm.DB
	Source   Source
	Notifier services.AdminNotifier
}

func New(db *gorm.DB, source Source, notifier services.AdminNotifier) *Syncer {
	return &Syncer{DB: db, Source: source, Notifier: notifier}
}

// Run fetches releases, then notes, and imports them in one transaction.
// Watermarks are taken before the first fetch.
func (s *Syncer) Run(ctx context.Context, opts Options) (*Result, error) {
	releasesAfter, notesAfter, err := s.watermarks(opts)
	if err != nil {
		return nil, err
	}

	log := logger.Component("rnasync")

	releases, err := s.Source.FetchReleases(ctx, releasesAfter)
	if err != nil {
		return nil, s.fail(err)
	}
	notes, err := s.Source.FetchNotes(ctx, notesAfter)
	if err != nil {
		return nil, s.fail(err)
	}
	log.Info().Int("releases", len(releases)).Int("notes", len(notes)).Bool("clean", opts.Clean).Msg("Fetched remote content")

	result := &Result{Releases: len(releases), Notes: len(notes), Clean: opts.Clean}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if opts.Clean {
			if err := clearLocal(tx); err != nil {
				return err
			}
		}
		if err := importReleases(tx, releases); err != nil {
			return err
		}
		skipped, err := importNotes(tx, notes)
		if err != nil {
			return err
		}
		result.SkippedLinks = skipped
		if err := resetSequences(tx); err != nil {
			return err
		}
		return services.LogAdminAction(tx, opts.AdminID, models.ActionSync, "", "system",
			fmt.Sprintf("Synced %d releases and %d notes", result.Releases, result.Notes))
	})
	if err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}

	if result.SkippedLinks > 0 {
		log.Warn().Int("skipped", result.SkippedLinks).Msg("Skipped links to releases missing locally")
	}
	log.Info().Int("releases", result.Releases).Int("notes", result.Notes).Msg("Sync complete")
	return result, nil
}

// fail notifies the admins about transport failures. The returned error
// carries the notification subject.
func (s *Syncer) fail(err error) error {
	var te *TransportError
	if !errors.As(err, &te) {
		return err
	}
	if s.Notifier != nil {
		if nerr := s.Notifier.NotifyAdmins(NotifySubject, err.Error()); nerr != nil {
			logger.Error().Err(nerr).Msg("Failed to notify admins")
		}
	}
	return fmt.Errorf("%s: %w", NotifySubject, err)
}

func (s *Syncer) watermarks(opts Options) (releases, notes *time.Time, err error) {
	if opts.Clean {
		return nil, nil, nil
	}
	if opts.ModifiedAfter != nil {
		return opts.ModifiedAfter, opts.ModifiedAfter, nil
	}
	if releases, err = latestModified(s.DB, &models.Release{}); err != nil {
		return nil, nil, err
	}
	if notes, err = latestModified(s.DB, &models.Note{}); err != nil {
		return nil, nil, err
	}
	return releases, notes, nil
}

// latestModified is nil for an empty table
func latestModified(db *gorm.DB, model interface{}) (*time.Time, error) {
	var row struct {
		Modified time.Time
	}
	err := db.Model(model).Select("modified").Order("modified DESC").Limit(1).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest modified: %w", err)
	}
	return &row.Modified, nil
}

// resetSequences moves Postgres id sequences past imported ids
func resetSequences(tx *gorm.DB) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	for _, table := range []string{"releases", "notes"} {
		err := tx.Exec(fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 0) + 1, false)",
			table, table)).Error
		if err != nil {
			return fmt.Errorf("reset %s sequence: %w", table, err)
		}
	}
	return nil
}
