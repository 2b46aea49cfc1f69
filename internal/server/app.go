// Package server assembles the forum service: storage, session store,
// domain services and the HTTP adapter, plus process lifecycle.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/forumlab/webforum/internal/config"
	"github.com/forumlab/webforum/internal/logging"
	"github.com/forumlab/webforum/internal/server/auth"
	"github.com/forumlab/webforum/internal/server/comments"
	"github.com/forumlab/webforum/internal/server/flags"
	"github.com/forumlab/webforum/internal/server/httpapi"
	"github.com/forumlab/webforum/internal/server/posts"
	"github.com/forumlab/webforum/internal/server/sessions"
	"github.com/forumlab/webforum/internal/server/storage"
)

const janitorInterval = time.Minute

type App struct {
	cfg     *config.Config
	logger  logging.Logger
	storage storage.Manager
	store   *sessions.MemoryStore
	http    *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	manager, err := storage.NewPostgresManager(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}

	store := sessions.NewMemoryStore(cfg.SessionTTL)

	authSvc := auth.NewService(manager.Users(), store, logger)
	postsSvc := posts.NewService(manager.Posts(), logger)
	commentsSvc := comments.NewService(manager.Comments(), manager.Posts(), logger)
	flagsSvc := flags.NewService(manager.Flags(), manager.Comments(), logger)

	httpSrv := httpapi.NewServer(cfg.EndpointAddr, cfg.SessionCookieName,
		authSvc, postsSvc, commentsSvc, flagsSvc, logger)

	return &App{
		cfg:     cfg,
		logger:  logger,
		storage: manager,
		store:   store,
		http:    httpSrv,
	}, nil
}

// Run serves until the context is cancelled or a termination signal arrives,
// then shuts everything down and waits for the workers to drain.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		a.store.Janitor(ctx, janitorInterval)
	}()

	err := a.http.Run(ctx)

	stop()
	wg.Wait()

	if cerr := a.storage.Conn().Close(); cerr != nil {
		a.logger.Error(context.Background(), "closing database", "error", cerr)
	}

	return err
}
