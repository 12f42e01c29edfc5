package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/releasenotes-backend/internal/handlers"
	"github.com/pushp314/releasenotes-backend/internal/middleware"
)

// NewRouter builds the gin engine with every route and the shared
// middleware chain.
func NewRouter() *gin.Engine {
	r := gin.New()

	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.ErrorHandlerMiddleware())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORSMiddleware())

	r.GET("/health", handlers.HealthCheck)

	rna := r.Group("/rna")
	rna.Use(middleware.GeneralRateLimit())
	RegisterRNARoutes(rna)

	api := r.Group("/api")
	RegisterAdminRoutes(api)

	return r
}

// Handler is NewRouter wrapped so X-HTTP-Method-Override is applied before
// routing.
func Handler() http.Handler {
	return middleware.MethodOverride(NewRouter())
}
