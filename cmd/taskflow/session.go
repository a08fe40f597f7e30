package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"taskflow/internal/board"
	"taskflow/internal/config"
	"taskflow/internal/filter"
	"taskflow/internal/logging"
	"taskflow/internal/storage"
	"taskflow/internal/task"
)

// session holds everything opened for one run, in reverse close order.
type session struct {
	cfg       config.Config
	log       zerolog.Logger
	board     *board.Board
	store     storage.KV
	lock      *storage.Lock
	logCloser io.Closer
}

func openSession(ctx context.Context, configPath string, exclusive bool) (*session, error) {
	if configPath == "" {
		configPath = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, logCloser, err := logging.New(logging.Config{
		Level:      cfg.Logging.Level,
		FilePath:   cfg.Logging.File,
		MaxSize:    cfg.Logging.MaxSize,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAge:     cfg.Logging.MaxAge,
		Compress:   cfg.Logging.Compress,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}
	s := &session{cfg: cfg, log: log, logCloser: logCloser}

	if exclusive && cfg.Storage.Backend == config.BackendSQLite {
		s.lock, err = storage.AcquireLock(cfg.LockPath())
		if errors.Is(err, storage.ErrLocked) {
			s.Close()
			return nil, fmt.Errorf("%s is open in another taskflow session", cfg.Storage.DBPath)
		}
		if err != nil {
			s.Close()
			return nil, err
		}
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Storage.Backend, err)
	}
	s.store = store

	repo := task.NewRepository(ctx, s.store,
		task.WithLogger(logging.Component(log, "tasks")),
		task.WithDefaultCategory(cfg.Tasks.DefaultCategory),
	)
	f := filter.Default()
	switch cfg.UI.DefaultFilter {
	case string(task.StatusPending), string(task.StatusCompleted):
		f.Status = cfg.UI.DefaultFilter
	}
	s.board = board.New(ctx, repo, s.store,
		board.WithLogger(logging.Component(log, "board")),
		board.WithCategories(cfg.Tasks.Categories),
		board.WithSearchDelay(cfg.SearchDelayDuration()),
		board.WithFilter(f),
	)
	return s, nil
}

func openStore(ctx context.Context, cfg config.Config) (storage.KV, error) {
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		db, err := storage.Open(cfg.Storage.DBPath)
		if err != nil {
			return nil, err
		}
		return db, nil
	case config.BackendRedis:
		rdb, err := storage.OpenRedis(ctx, cfg.Storage.RedisURL, cfg.Storage.RedisPrefix)
		if err != nil {
			return nil, err
		}
		return rdb, nil
	case config.BackendMemory:
		return storage.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func (s *session) Close() {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.log.Error().Err(err).Msg("close store")
		}
	}
	if s.lock != nil {
		if err := s.lock.Release(); err != nil {
			s.log.Error().Err(err).Msg("release lock")
		}
	}
	if s.logCloser != nil {
		s.logCloser.Close()
	}
}
