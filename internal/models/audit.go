package models

import "time"

type ActionType string

const (
	ActionCreateRelease     ActionType = "CREATE_RELEASE"
	ActionUpdateRelease     ActionType = "UPDATE_RELEASE"
	ActionDeleteRelease     ActionType = "DELETE_RELEASE"
	ActionCopyReleases      ActionType = "COPY_RELEASES"
	ActionNormalizeVersions ActionType = "NORMALIZE_VERSIONS"

	ActionCreateNote   ActionType = "CREATE_NOTE"
	ActionUpdateNote   ActionType = "UPDATE_NOTE"
	ActionDeleteNote   ActionType = "DELETE_NOTE"
	ActionDetachNote   ActionType = "DETACH_NOTE"
	ActionRelinkNote   ActionType = "RELINK_NOTE"
	ActionPromoteStaff ActionType = "PROMOTE_STAFF"
	ActionSync         ActionType = "SYNC"
)

// AdminAction is an audit row for every content change made by staff
type AdminAction struct {
	ID         string     `gorm:"primaryKey;type:text" json:"id"`
	AdminID    string     `gorm:"index" json:"admin_id"` // empty for automated changes
	Action     ActionType `gorm:"type:text" json:"action"`
	TargetID   string     `json:"target_id"`
	TargetType string     `json:"target_type"` // "release", "note", "user", "system"
	Reason     string     `json:"reason"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
