package seeds

import (
	"errors"

	"github.com/google/uuid"
	"github.com/pushp314/releasenotes-backend/internal/models"
	"github.com/pushp314/releasenotes-backend/pkg/logger"
	"github.com/pushp314/releasenotes-backend/pkg/utils"
	"gorm.io/gorm"
)

const (
	EditorUsername = "editor"
	EditorEmail    = "editor@example.com"
)

// GetOrCreateEditor returns the demo staff account, creating it with
// password when missing.
func GetOrCreateEditor(db *gorm.DB, password string) (models.User, error) {
	var user models.User
	err := db.Where("username = ?", EditorUsername).First(&user).Error
	if err == nil {
		logger.Info().Str("username", user.Username).Msg("Editor user found")
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}
	user = models.User{
		ID:       uuid.New().String(),
		Username: EditorUsername,
		Email:    EditorEmail,
		Password: hash,
		IsActive: true,
		IsStaff:  true,
	}
	if err := db.Create(&user).Error; err != nil {
		return models.User{}, err
	}

	logger.Info().Str("username", user.Username).Msg("Editor user created")
	return user, nil
}
