package root

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/upperspacecase/habitspace/internal/config"
	"github.com/upperspacecase/habitspace/internal/habit"
	"github.com/upperspacecase/habitspace/internal/notify"
	"github.com/upperspacecase/habitspace/internal/storage"
)

// deps bundles what every command needs: the engine, the loaded config,
// and a logger.
type deps struct {
	cfg   config.Config
	svc   *habit.Service
	mail  *notify.Async
	log   *zap.Logger
	close func()
}

func openService(ctx context.Context) (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := zap.NewDevelopment()
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	path := cfg.DBPath
	if path == "" {
		path, err = storage.ResolveDBPath()
		if err != nil {
			return nil, err
		}
	}
	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, err
	}

	mail := notify.NewAsync(notify.NewMailer(cfg.ResendAPIKey, cfg.FromEmail, log), log)
	svc := habit.NewService(db, mail)

	cleanup := func() {
		mail.Wait()
		_ = db.Close()
		_ = log.Sync()
	}
	return &deps{cfg: cfg, svc: svc, mail: mail, log: log, close: cleanup}, nil
}
