package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReleaseString(t *testing.T) {
	r := Release{Product: ProductFirefox, Channel: ChannelRelease, Version: "12.0.1"}
	assert.Equal(t, "Firefox 12.0.1 Release", r.String())
}

func TestReleaseMajorVersion(t *testing.T) {
	assert.Equal(t, "42", Release{Version: "42.0"}.MajorVersion())
	assert.Equal(t, "33", Release{Version: "33.0.3"}.MajorVersion())
	assert.Equal(t, "nightly", Release{Version: "nightly"}.MajorVersion())
	assert.Equal(t, "", Release{}.MajorVersion())
}

func TestGetBugSearchURL(t *testing.T) {
	t.Run("override wins", func(t *testing.T) {
		r := Release{Version: "42.0", BugSearchURL: "http://example.com"}
		assert.Equal(t, "http://example.com", r.GetBugSearchURL())
	})

	t.Run("firefox template", func(t *testing.T) {
		r := Release{Version: "42.0"}
		assert.Equal(t,
			"https://bugzilla.mozilla.org/buglist.cgi?"+
				"j_top=OR&f1=target_milestone&o3=equals&v3=Firefox%2042&"+
				"o1=equals&resolution=FIXED&o2=anyexact&query_format=advanced&"+
				"f3=target_milestone&f2=cf_status_firefox42&"+
				"bug_status=RESOLVED&bug_status=VERIFIED&bug_status=CLOSED&"+
				"v1=mozilla42&v2=fixed%2Cverified&limit=0",
			r.GetBugSearchURL())
		assert.Contains(t, r.GetBugSearchURL(), "v1=mozilla42")
	})

	t.Run("thunderbird template", func(t *testing.T) {
		r := Release{Version: "42.0", Product: ProductThunderbird}
		assert.Equal(t,
			"https://bugzilla.mozilla.org/buglist.cgi?"+
				"classification=Client%20Software&query_format=advanced&"+
				"bug_status=RESOLVED&bug_status=VERIFIED&bug_status=CLOSED&"+
				"target_milestone=Thunderbird%2042.0&product=Thunderbird"+
				"&resolution=FIXED",
			r.GetBugSearchURL())
	})
}

func TestValidProductAndChannel(t *testing.T) {
	assert.True(t, ValidProduct("Firefox for Android"))
	assert.False(t, ValidProduct("Netscape"))
	assert.True(t, ValidChannel("ESR"))
	assert.False(t, ValidChannel("release"))
}
