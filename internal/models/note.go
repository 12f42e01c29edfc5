package models

// Note tags
const (
	TagNew       = "New"
	TagChanged   = "Changed"
	TagHTML5     = "HTML5"
	TagDeveloper = "Developer"
	TagFixed     = "Fixed"
)

// Tags in display order
var Tags = []string{TagNew, TagChanged, TagHTML5, TagDeveloper, TagFixed}

// NoteOrder is the order notes are shown within a release
const NoteOrder = "notes.sort_num DESC, notes.created ASC, notes.id ASC"

// Note is a single release-note entry shared by any number of releases
type Note struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Bug              *int      `json:"bug"`
	Note             string    `gorm:"type:text" json:"note"`
	Releases         []Release `gorm:"many2many:note_releases;constraint:OnDelete:CASCADE" json:"-"`
	IsKnownIssue     bool      `gorm:"default:false" json:"is_known_issue"`
	FixedInReleaseID *uint     `gorm:"index" json:"fixed_in_release"`
	FixedInRelease   *Release  `gorm:"foreignKey:FixedInReleaseID;constraint:OnDelete:SET NULL" json:"-"`
	Tag              string    `gorm:"type:varchar(255)" json:"tag"`
	SortNum          int       `gorm:"not null;default:0" json:"sort_num"`
	IsPublic         bool      `gorm:"not null" json:"is_public"`
	TimeStamped
}

func (n Note) String() string {
	return n.Note
}

// IsKnownIssueFor reports whether the note is still an outstanding issue
// for release, i.e. flagged as known and not fixed in that release.
func (n Note) IsKnownIssueFor(release Release) bool {
	if !n.IsKnownIssue {
		return false
	}
	return n.FixedInReleaseID == nil || *n.FixedInReleaseID != release.ID
}

// TagIndex is the display position of tag. Untagged and unknown tags share
// the position of New.
func TagIndex(tag string) int {
	for i, t := range Tags {
		if t == tag {
			return i
		}
	}
	return 0
}

// ValidTag reports whether tag is empty or one of Tags
func ValidTag(tag string) bool {
	return tag == "" || contains(Tags, tag)
}
