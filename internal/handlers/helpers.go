package handlers

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/releasenotes-backend/internal/config"
	"github.com/pushp314/releasenotes-backend/internal/database"
	"github.com/pushp314/releasenotes-backend/internal/middleware"
	"github.com/pushp314/releasenotes-backend/internal/services"
	"github.com/pushp314/releasenotes-backend/pkg/errors"
	"github.com/pushp314/releasenotes-backend/pkg/logger"
)

func devMode() bool {
	return config.AppConfig != nil && config.AppConfig.Dev
}

func releaseService() *services.Releases {
	return services.NewReleases(database.DB, devMode())
}

func getAdminID(c *gin.Context) string {
	return middleware.CurrentUserID(c)
}

// parseID reads a numeric path parameter. Anything else is a 404, the same
// as an id that does not exist.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 || id > math.MaxUint32 {
		c.Error(errors.ErrNotFound)
		return 0, false
	}
	return uint(id), true
}

// dbError logs err and answers 404 for missing rows, 500 otherwise
func dbError(c *gin.Context, err error, msg string) {
	if services.IsNotFound(err) {
		c.Error(errors.ErrNotFound)
		return
	}
	logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg(msg)
	c.Error(errors.Internal(msg))
}

func pagination(c *gin.Context) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit, (page - 1) * limit
}

func paginated(key string, items interface{}, total int64, page, limit int) gin.H {
	return gin.H{
		key: items,
		"pagination": gin.H{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": (total + int64(limit) - 1) / int64(limit),
		},
	}
}
