// Command rnasync pulls releases and notes from another release notes
// instance into the local database.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pushp314/releasenotes-backend/internal/config"
	"github.com/pushp314/releasenotes-backend/internal/database"
	"github.com/pushp314/releasenotes-backend/internal/migrations"
	"github.com/pushp314/releasenotes-backend/internal/services"
	"github.com/pushp314/releasenotes-backend/internal/syncer"
	"github.com/pushp314/releasenotes-backend/pkg/logger"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(cfg, func(ctx context.Context, src source, opts syncer.Options) (*syncer.Result, error) {
		database.Connect()
		if _, err := migrations.NewMigrator(database.DB).Run(); err != nil {
			return nil, err
		}

		notifier, err := services.NewShoutrrrNotifier(cfg.NotifyURLs(), 10*time.Second)
		if err != nil {
			return nil, err
		}
		client := syncer.NewClient(src.url, src.token, cfg.SyncRequestTimeout())
		return syncer.New(database.DB, client, notifier).Run(ctx, opts)
	})

	if err := cmd.ExecuteContext(ctx); err != nil {
		logger.Error().Err(err).Msg("Sync failed")
		os.Exit(1)
	}
}
