package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/pushp314/releasenotes-backend/internal/models"
	"gorm.io/gorm"
)

// LogAdminAction records an audit row inside tx
func LogAdminAction(tx *gorm.DB, adminID string, action models.ActionType, targetID string, targetType string, reason string) error {
	audit := models.AdminAction{
		ID:         uuid.New().String(),
		AdminID:    adminID,
		Action:     action,
		TargetID:   targetID,
		TargetType: targetType,
		Reason:     reason,
		CreatedAt:  time.Now().UTC(),
	}
	return tx.Create(&audit).Error
}
