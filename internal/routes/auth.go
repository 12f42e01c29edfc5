package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/pushp314/releasenotes-backend/internal/handlers"
	"github.com/pushp314/releasenotes-backend/internal/middleware"
)

func RegisterAuthRoutes(r gin.IRouter) {
	r.POST("/auth_token/", middleware.AuthRateLimit(), handlers.ObtainAuthToken)
	r.DELETE("/auth_token/", middleware.AuthMiddleware(), handlers.RevokeAuthToken)
}
