package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/releasenotes-backend/internal/database"
	"github.com/pushp314/releasenotes-backend/internal/models"
)

// APIRoot lists the browsable endpoints
func APIRoot(c *gin.Context) {
	base := "/rna"
	c.JSON(http.StatusOK, gin.H{
		"releases":   base + "/releases/",
		"notes":      base + "/notes/",
		"auth_token": base + "/auth_token/",
	})
}

// Choices exposes the fixed value lists the admin UI offers
func Choices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"products": models.Products,
		"channels": models.Channels,
		"tags":     models.Tags,
	})
}

func HealthCheck(c *gin.Context) {
	if err := database.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
