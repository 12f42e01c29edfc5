package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pushp314/releasenotes-backend/internal/models"
	"github.com/pushp314/releasenotes-backend/pkg/utils"
	"gorm.io/gorm"
)

// Releases derives per-release views from stored releases and notes.
// Dev mirrors the DEV deployment flag: when false, equivalent release
// lookups only consider public releases.
type Releases struct {
	DB  *gorm.DB
	Dev bool
}

func NewReleases(db *gorm.DB, dev bool) *Releases {
	return &Releases{DB: db, Dev: dev}
}

// Get loads a release by id. gorm.ErrRecordNotFound is returned untouched.
func (s *Releases) Get(id uint) (*models.Release, error) {
	var r models.Release
	if err := s.DB.First(&r, id).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// NotesFor returns the notes attached to release in display order
// (sort_num descending, then oldest first).
func (s *Releases) NotesFor(release models.Release, publicOnly bool) ([]models.Note, error) {
	q := s.DB.Model(&models.Note{}).
		Joins("JOIN note_releases ON note_releases.note_id = notes.id").
		Where("note_releases.release_id = ?", release.ID)
	if publicOnly {
		q = q.Where("notes.is_public = ?", true)
	}

	var notes []models.Note
	if err := q.Order(models.NoteOrder).Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("load notes for release %d: %w", release.ID, err)
	}
	return notes, nil
}

// Notes splits the notes of release into new features and known issues,
// keeping the stored order inside each group.
func (s *Releases) Notes(release models.Release, publicOnly bool) (newFeatures, knownIssues []models.Note, err error) {
	notes, err := s.NotesFor(release, publicOnly)
	if err != nil {
		return nil, nil, err
	}
	newFeatures, knownIssues = PartitionNotes(release, notes)
	return newFeatures, knownIssues, nil
}

// PartitionNotes is the in-memory half of Notes
func PartitionNotes(release models.Release, notes []models.Note) (newFeatures, knownIssues []models.Note) {
	newFeatures = []models.Note{}
	knownIssues = []models.Note{}
	for _, n := range notes {
		if n.IsKnownIssueFor(release) {
			knownIssues = append(knownIssues, n)
		} else {
			newFeatures = append(newFeatures, n)
		}
	}
	return newFeatures, knownIssues
}

// DisplayOrder reorders new features for the public release notes page:
// grouped by tag, with fixes whose text starts with the release version
// ("dot fixes") pulled to the top. The input slice is not modified.
func DisplayOrder(release models.Release, newFeatures []models.Note) []models.Note {
	out := make([]models.Note, len(newFeatures))
	copy(out, newFeatures)

	sort.SliceStable(out, func(i, j int) bool {
		return models.TagIndex(out[i].Tag) < models.TagIndex(out[j].Tag)
	})
	sort.SliceStable(out, func(i, j int) bool {
		return isDotFix(release, out[i]) && !isDotFix(release, out[j])
	})
	return out
}

func isDotFix(release models.Release, n models.Note) bool {
	return n.Tag == models.TagFixed && strings.HasPrefix(n.Note, release.Version)
}

// EquivalentReleaseForProduct finds the release of another product on the
// same channel and major version with the highest version, or nil.
func (s *Releases) EquivalentReleaseForProduct(release models.Release, product string) (*models.Release, error) {
	if product == release.Product {
		return nil, nil
	}

	q := s.DB.Where("product = ? AND channel = ?", product, release.Channel).
		Where("version LIKE ? ESCAPE '\\'", utils.EscapeSQLWildcards(release.MajorVersion()+".")+"%")
	if !s.Dev {
		q = q.Where("is_public = ?", true)
	}

	var candidates []models.Release
	if err := q.Order("version DESC").Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("equivalent %s release for %s: %w", product, release, err)
	}
	return highestVersion(candidates), nil
}

func highestVersion(releases []models.Release) *models.Release {
	if len(releases) == 0 {
		return nil
	}
	best := releases[0]
	for _, r := range releases[1:] {
		if CompareVersions(r.Version, best.Version) > 0 {
			best = r
		}
	}
	return &best
}

// EquivalentAndroidRelease is only defined for desktop Firefox releases
func (s *Releases) EquivalentAndroidRelease(release models.Release) (*models.Release, error) {
	if release.Product != models.ProductFirefox {
		return nil, nil
	}
	return s.EquivalentReleaseForProduct(release, models.ProductFirefoxAndroid)
}

// EquivalentDesktopRelease is only defined for Firefox for Android releases
func (s *Releases) EquivalentDesktopRelease(release models.Release) (*models.Release, error) {
	if release.Product != models.ProductFirefoxAndroid {
		return nil, nil
	}
	return s.EquivalentReleaseForProduct(release, models.ProductFirefox)
}

// Summary bundles every derived view of a release
type Summary struct {
	Release           models.Release  `json:"release"`
	NewFeatures       []models.Note   `json:"new_features"`
	KnownIssues       []models.Note   `json:"known_issues"`
	BugSearchURL      string          `json:"bug_search_url"`
	EquivalentAndroid *models.Release `json:"equivalent_android"`
	EquivalentDesktop *models.Release `json:"equivalent_desktop"`
}

// Summarize builds the public view of release
func (s *Releases) Summarize(release models.Release, publicOnly bool) (*Summary, error) {
	newFeatures, knownIssues, err := s.Notes(release, publicOnly)
	if err != nil {
		return nil, err
	}
	android, err := s.EquivalentAndroidRelease(release)
	if err != nil {
		return nil, err
	}
	desktop, err := s.EquivalentDesktopRelease(release)
	if err != nil {
		return nil, err
	}
	return &Summary{
		Release:           release,
		NewFeatures:       DisplayOrder(release, newFeatures),
		KnownIssues:       knownIssues,
		BugSearchURL:      release.GetBugSearchURL(),
		EquivalentAndroid: android,
		EquivalentDesktop: desktop,
	}, nil
}

// IsNotFound reports whether err means the record does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
