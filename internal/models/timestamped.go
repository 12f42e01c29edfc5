package models

import (
	"time"

	"gorm.io/gorm"
)

// skipModifiedKey is the statement setting that suppresses the modified stamp
const skipModifiedKey = "releasenotes:skip_modified"

// TimeStamped is embedded by every persisted content model. Created is set
// on first save, Modified on every save unless the save runs through
// WithoutModified.
type TimeStamped struct {
	Created  time.Time `gorm:"index" json:"created"`
	Modified time.Time `gorm:"index" json:"modified"`
}

// WithoutModified returns a session whose saves keep the caller's Modified value.
func WithoutModified(db *gorm.DB) *gorm.DB {
	return db.Set(skipModifiedKey, true)
}

func skipModified(tx *gorm.DB) bool {
	v, ok := tx.Get(skipModifiedKey)
	if !ok {
		return false
	}
	skip, _ := v.(bool)
	return skip
}

// Touch stamps the timestamps the way a save would
func (t *TimeStamped) Touch(now time.Time, modified bool) {
	if t.Created.IsZero() {
		t.Created = now
	}
	if modified || t.Modified.IsZero() {
		t.Modified = now
	}
}

// BeforeSave runs for Create and Save on any model embedding TimeStamped
func (t *TimeStamped) BeforeSave(tx *gorm.DB) error {
	t.Touch(time.Now().UTC(), !skipModified(tx))
	return nil
}
