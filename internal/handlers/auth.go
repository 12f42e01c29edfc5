package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/releasenotes-backend/internal/database"
	"github.com/pushp314/releasenotes-backend/internal/models"
	"github.com/pushp314/releasenotes-backend/pkg/errors"
	"github.com/pushp314/releasenotes-backend/pkg/logger"
	"github.com/pushp314/releasenotes-backend/pkg/utils"
)

type TokenInput struct {
	// Username may hold either the username or the email address
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// ObtainAuthToken exchanges credentials for an API token. Only active staff
// users get one; everyone else receives 403.
func ObtainAuthToken(c *gin.Context) {
	var input TokenInput
	if err := c.ShouldBind(&input); err != nil {
		c.Error(errors.BadRequest("username and password are required"))
		return
	}

	login := strings.TrimSpace(input.Username)

	var user models.User
	if err := database.DB.Where("username = ? OR email = ?", login, strings.ToLower(login)).First(&user).Error; err != nil {
		logger.Warn().Str("login", login).Msg("Token request failed: user not found")
		c.Error(errors.Forbidden("Invalid credentials"))
		return
	}

	if !utils.CheckPassword(user.Password, input.Password) {
		logger.Warn().Str("user_id", user.ID).Msg("Token request failed: invalid password")
		c.Error(errors.Forbidden("Invalid credentials"))
		return
	}

	if !user.CanEdit() {
		logger.Warn().Str("user_id", user.ID).Msg("Token request refused: not active staff")
		c.Error(errors.ErrForbidden)
		return
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to generate token")
		c.Error(errors.Internal("Failed to generate token"))
		return
	}

	logger.Info().Str("user_id", user.ID).Msg("API token issued")
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// RevokeAuthToken revokes the token used for this request. Runs behind
// AuthMiddleware.
func RevokeAuthToken(c *gin.Context) {
	v, _ := c.Get("claims")
	claims, ok := v.(*utils.Claims)
	if !ok || claims == nil {
		c.Error(errors.ErrUnauthorized)
		return
	}

	if err := database.BlacklistToken(claims.GetJTI(), claims.RemainingTTL()); err != nil {
		logger.Error().Err(err).Str("jti", claims.GetJTI()).Msg("Failed to revoke token")
		c.Error(errors.Internal("Failed to revoke token"))
		return
	}

	c.Status(http.StatusNoContent)
}
