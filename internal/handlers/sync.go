package handlers

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/releasenotes-backend/internal/config"
	"github.com/pushp314/releasenotes-backend/internal/database"
	"github.com/pushp314/releasenotes-backend/internal/services"
	"github.com/pushp314/releasenotes-backend/internal/syncer"
	"github.com/pushp314/releasenotes-backend/pkg/errors"
	"github.com/pushp314/releasenotes-backend/pkg/logger"
)

// AdminRunSync pulls from the configured remote instance, the same as
// running cmd/rnasync.
func AdminRunSync(c *gin.Context) {
	cfg := config.AppConfig
	if cfg == nil || cfg.SyncURL == "" {
		c.Error(errors.BadRequest("Sync source is not configured (RNA_SYNC_URL)"))
		return
	}

	var req struct {
		Clean         bool       `json:"clean"`
		ModifiedAfter *time.Time `json:"modified_after"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(errors.BadRequest(err.Error()))
			return
		}
	}
	if req.Clean && req.ModifiedAfter != nil {
		c.Error(errors.BadRequest("clean and modified_after cannot be combined"))
		return
	}

	notifier, err := services.NewShoutrrrNotifier(cfg.NotifyURLs(), 10*time.Second)
	if err != nil {
		logger.Error().Err(err).Msg("Invalid admin notification config")
		notifier = services.LogNotifier{}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.SyncDeadline())
	defer cancel()

	client := syncer.NewClient(cfg.SyncURL, cfg.SyncAPIToken, cfg.SyncRequestTimeout())
	result, err := syncer.New(database.DB, client, notifier).Run(ctx, syncer.Options{
		Clean:         req.Clean,
		ModifiedAfter: req.ModifiedAfter,
		AdminID:       getAdminID(c),
	})
	if err != nil {
		var te *syncer.TransportError
		if stderrors.As(err, &te) {
			c.Error(errors.NewAppError(http.StatusBadGateway, err.Error()))
			return
		}
		logger.Error().Err(err).Msg("Sync failed")
		c.Error(errors.Internal("Sync failed"))
		return
	}

	c.JSON(http.StatusOK, result)
}
