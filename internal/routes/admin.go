package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/pushp314/releasenotes-backend/internal/handlers"
	"github.com/pushp314/releasenotes-backend/internal/middleware"
)

func RegisterAdminRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.WriteRateLimit(), middleware.AuthMiddleware(), middleware.StaffOnly())

	// Releases
	admin.GET("/releases", handlers.AdminListReleases)
	admin.POST("/releases/copy", handlers.AdminCopyReleases)
	admin.GET("/releases/duplicates", handlers.AdminDuplicateReleases)
	admin.POST("/releases/normalize-versions", handlers.AdminNormalizeVersions)

	// Notes
	admin.GET("/notes", handlers.AdminListNotes)
	admin.PUT("/notes/:id/releases", handlers.AdminSetNoteReleases)
	admin.DELETE("/notes/:id/releases/:releaseId", handlers.AdminDetachNoteRelease)

	// Sync
	admin.POST("/sync", handlers.AdminRunSync)

	// Audit
	admin.GET("/audit-logs", handlers.AdminGetAuditLogs)
}
