package seeds

import (
	"errors"
	"fmt"
	"time"

	"github.com/pushp314/releasenotes-backend/internal/models"
	"github.com/pushp314/releasenotes-backend/internal/services"
	"github.com/pushp314/releasenotes-backend/pkg/logger"
	"gorm.io/gorm"
)

type sampleNote struct {
	note       string
	bug        int
	tag        string
	sortNum    int
	knownIssue bool
	fixedIn    string
	releases   []string
}

var sampleReleases = []models.Release{
	{Product: models.ProductFirefox, Channel: models.ChannelRelease, Version: "42.0",
		ReleaseDate: time.Date(2015, 11, 3, 0, 0, 0, 0, time.UTC), IsPublic: true,
		Text: "Private Browsing with Tracking Protection"},
	{Product: models.ProductFirefox, Channel: models.ChannelBeta, Version: "43.0beta",
		ReleaseDate: time.Date(2015, 11, 4, 0, 0, 0, 0, time.UTC), IsPublic: true},
	{Product: models.ProductFirefoxAndroid, Channel: models.ChannelRelease, Version: "42.0",
		ReleaseDate: time.Date(2015, 11, 3, 0, 0, 0, 0, time.UTC), IsPublic: true},
	{Product: models.ProductThunderbird, Channel: models.ChannelRelease, Version: "38.3.0",
		ReleaseDate: time.Date(2015, 9, 29, 0, 0, 0, 0, time.UTC), IsPublic: true},
}

// notes reference releases by "<product>/<channel>/<version>"
var sampleNotes = []sampleNote{
	{note: "Private Browsing with Tracking Protection blocks certain Web elements", bug: 1106109,
		tag: models.TagNew, sortNum: 10, releases: []string{"Firefox/Release/42.0", "Firefox for Android/Release/42.0"}},
	{note: "Login manager improvements", tag: models.TagChanged,
		releases: []string{"Firefox/Release/42.0"}},
	{note: "42.0 fixes a crash on startup with some graphics drivers", bug: 1210003, tag: models.TagFixed,
		releases: []string{"Firefox/Release/42.0"}},
	{note: "Windows 10 users may see a blank window after update", knownIssue: true, fixedIn: "Firefox/Beta/43.0beta",
		releases: []string{"Firefox/Release/42.0", "Firefox/Beta/43.0beta"}},
	{note: "Add-on signing is enforced", tag: models.TagDeveloper,
		releases: []string{"Firefox/Beta/43.0beta"}},
	{note: "Fixed a problem with some IMAP servers", tag: models.TagFixed,
		releases: []string{"Thunderbird/Release/38.3.0"}},
}

func releaseKey(r models.Release) string {
	return fmt.Sprintf("%s/%s/%s", r.Product, r.Channel, r.Version)
}

// SeedReleases creates the sample releases and notes. Releases that already
// exist are reused; notes are only added when their release was new.
func SeedReleases(db *gorm.DB, adminID string) error {
	logger.Info().Msg("Seeding releases")

	return db.Transaction(func(tx *gorm.DB) error {
		byKey := make(map[string]uint, len(sampleReleases))
		fresh := make(map[string]bool)

		for _, sample := range sampleReleases {
			r := sample
			err := tx.Where("product = ? AND channel = ? AND version = ?", r.Product, r.Channel, r.Version).First(&r).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				if err := tx.Create(&r).Error; err != nil {
					return fmt.Errorf("create release %s: %w", r, err)
				}
				fresh[releaseKey(r)] = true
				if err := services.LogAdminAction(tx, adminID, models.ActionCreateRelease, fmt.Sprint(r.ID), "release", r.String()); err != nil {
					return err
				}
			case err != nil:
				return err
			default:
				logger.Info().Str("release", r.String()).Msg("Release already exists")
			}
			byKey[releaseKey(r)] = r.ID
		}

		created := 0
		for _, sample := range sampleNotes {
			if !anyFresh(sample.releases, fresh) {
				continue
			}
			n := models.Note{
				Note:         sample.note,
				Tag:          sample.tag,
				SortNum:      sample.sortNum,
				IsKnownIssue: sample.knownIssue,
				IsPublic:     true,
			}
			if sample.bug != 0 {
				bug := sample.bug
				n.Bug = &bug
			}
			if sample.fixedIn != "" {
				id := byKey[sample.fixedIn]
				n.FixedInReleaseID = &id
			}
			if err := tx.Create(&n).Error; err != nil {
				return fmt.Errorf("create note: %w", err)
			}
			ids := make([]uint, 0, len(sample.releases))
			for _, key := range sample.releases {
				ids = append(ids, byKey[key])
			}
			if err := services.SetNoteReleases(tx, n.ID, ids); err != nil {
				return err
			}
			created++
		}

		logger.Info().Int("releases", len(fresh)).Int("notes", created).Msg("Seeding complete")
		return nil
	})
}

func anyFresh(keys []string, fresh map[string]bool) bool {
	for _, k := range keys {
		if fresh[k] {
			return true
		}
	}
	return false
}
