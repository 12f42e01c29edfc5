package models

import (
	"strings"
	"time"
)

// Products a release can belong to
const (
	ProductFirefox        = "Firefox"
	ProductFirefoxAndroid = "Firefox for Android"
	ProductFirefoxESR     = "Firefox Extended Support Release"
	ProductFirefoxOS      = "Firefox OS"
	ProductThunderbird    = "Thunderbird"
)

// Channels a release ships on
const (
	ChannelNightly = "Nightly"
	ChannelAurora  = "Aurora"
	ChannelBeta    = "Beta"
	ChannelRelease = "Release"
	ChannelESR     = "ESR"
)

var (
	Products = []string{ProductFirefox, ProductFirefoxAndroid, ProductFirefoxESR, ProductFirefoxOS, ProductThunderbird}
	Channels = []string{ChannelNightly, ChannelAurora, ChannelBeta, ChannelRelease, ChannelESR}
)

// ReleaseOrder is the default listing order
const ReleaseOrder = "product ASC, version DESC, channel ASC"

const (
	firefoxBugSearchTemplate = "https://bugzilla.mozilla.org/buglist.cgi?" +
		"j_top=OR&f1=target_milestone&o3=equals&v3=Firefox%20{version}&" +
		"o1=equals&resolution=FIXED&o2=anyexact&query_format=advanced&" +
		"f3=target_milestone&f2=cf_status_firefox{version}&" +
		"bug_status=RESOLVED&bug_status=VERIFIED&bug_status=CLOSED&" +
		"v1=mozilla{version}&v2=fixed%2Cverified&limit=0"

	thunderbirdBugSearchTemplate = "https://bugzilla.mozilla.org/buglist.cgi?" +
		"classification=Client%20Software&query_format=advanced&" +
		"bug_status=RESOLVED&bug_status=VERIFIED&bug_status=CLOSED&" +
		"target_milestone=Thunderbird%20{version}.0&product=Thunderbird" +
		"&resolution=FIXED"
)

// Release is a published version of a product on a channel
type Release struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Product            string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_release_identity" json:"product"`
	Channel            string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_release_identity" json:"channel"`
	Version            string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_release_identity" json:"version"`
	ReleaseDate        time.Time `json:"release_date"`
	Text               string    `gorm:"type:text" json:"text"`
	IsPublic           bool      `gorm:"default:false;index" json:"is_public"`
	BugList            string    `gorm:"type:text" json:"bug_list"`
	BugSearchURL       string    `gorm:"type:varchar(2000)" json:"bug_search_url"`
	SystemRequirements string    `gorm:"type:text" json:"system_requirements"`
	TimeStamped
}

func (r Release) String() string {
	return r.Product + " " + r.Version + " " + r.Channel
}

// MajorVersion is the version up to, but not including, the first dot
func (r Release) MajorVersion() string {
	major, _, _ := strings.Cut(r.Version, ".")
	return major
}

// GetBugSearchURL returns the stored override or a Bugzilla query for the
// release's major version.
func (r Release) GetBugSearchURL() string {
	if r.BugSearchURL != "" {
		return r.BugSearchURL
	}
	tmpl := firefoxBugSearchTemplate
	if r.Product == ProductThunderbird {
		tmpl = thunderbirdBugSearchTemplate
	}
	return strings.ReplaceAll(tmpl, "{version}", r.MajorVersion())
}

// ValidProduct reports whether p is a known product
func ValidProduct(p string) bool {
	return contains(Products, p)
}

// ValidChannel reports whether c is a known channel
func ValidChannel(c string) bool {
	return contains(Channels, c)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
