package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func uintPtr(v uint) *uint { return &v }

func TestNoteString(t *testing.T) {
	assert.Equal(t, "test", Note{Note: "test"}.String())
}

func TestIsKnownIssueFor(t *testing.T) {
	release := Release{ID: 1}
	other := Release{ID: 2}

	tests := []struct {
		name string
		note Note
		want bool
	}{
		{"not a known issue", Note{IsKnownIssue: false}, false},
		{"not a known issue even if fixed elsewhere", Note{FixedInReleaseID: uintPtr(other.ID)}, false},
		{"known issue never fixed", Note{IsKnownIssue: true}, true},
		{"known issue fixed in another release", Note{IsKnownIssue: true, FixedInReleaseID: uintPtr(other.ID)}, true},
		{"known issue fixed in this release", Note{IsKnownIssue: true, FixedInReleaseID: uintPtr(release.ID)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.note.IsKnownIssueFor(release))
		})
	}
}

func TestTagIndex(t *testing.T) {
	assert.Equal(t, 0, TagIndex(""))
	assert.Equal(t, 0, TagIndex("Bogus"))
	assert.Equal(t, 1, TagIndex(TagChanged))
	assert.Equal(t, 4, TagIndex(TagFixed))
	assert.True(t, ValidTag(""))
	assert.True(t, ValidTag(TagHTML5))
	assert.False(t, ValidTag("html5"))
}
