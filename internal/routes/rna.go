package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/pushp314/releasenotes-backend/internal/handlers"
	"github.com/pushp314/releasenotes-backend/internal/middleware"
)

// RegisterRNARoutes mounts the release notes API. Reads are anonymous,
// writes need an active staff token.
func RegisterRNARoutes(r gin.IRouter) {
	r.GET("/", handlers.APIRoot)
	r.GET("/choices/", handlers.Choices)

	write := []gin.HandlerFunc{middleware.WriteRateLimit(), middleware.AuthMiddleware(), middleware.StaffOnly()}
	with := func(h gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, write...), h)
	}

	releases := r.Group("/releases")
	releases.GET("/", handlers.ListReleases)
	releases.POST("/", with(handlers.CreateRelease)...)
	releases.GET("/:id/", handlers.GetRelease)
	releases.PUT("/:id/", with(handlers.UpdateRelease)...)
	releases.PATCH("/:id/", with(handlers.UpdateRelease)...)
	releases.DELETE("/:id/", with(handlers.DeleteRelease)...)
	releases.GET("/:id/notes/", handlers.ReleaseNotes)
	releases.GET("/:id/summary/", middleware.OptionalAuthMiddleware(), handlers.ReleaseSummary)

	notes := r.Group("/notes")
	notes.GET("/", handlers.ListNotes)
	notes.POST("/", with(handlers.CreateNote)...)
	notes.GET("/:id/", handlers.GetNote)
	notes.PUT("/:id/", with(handlers.UpdateNote)...)
	notes.PATCH("/:id/", with(handlers.UpdateNote)...)
	notes.DELETE("/:id/", with(handlers.DeleteNote)...)

	RegisterAuthRoutes(r)
}
