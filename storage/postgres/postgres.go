package postgres

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"

	"quranbot/pkg/logger"
	"quranbot/storage"
)

type Store struct {
	pool    *pgxpool.Pool
	timeout time.Duration
	log     logger.ILogger
}

func New(ctx context.Context, url string, timeout time.Duration, log logger.ILogger) (storage.IStorage, error) {
	// 🔹 Connection pool
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		log.Error("error while parsing Postgres config", logger.Error(err))
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Error("failed to connect Postgres", logger.Error(err))
		return nil, err
	}

	if err := migrateUp(url, log); err != nil {
		pool.Close()
		return nil, err
	}

	log.Info("Postgres connected")

	return &Store{
		pool:    pool,
		timeout: timeout,
		log:     log,
	}, nil
}

// migrateUp applies migrations from ./migrations, or MIGRATIONS_DIR when set.
func migrateUp(url string, log logger.ILogger) error {
	mPath := os.Getenv("MIGRATIONS_DIR")
	if mPath == "" {
		cwd, _ := os.Getwd()
		mPath = filepath.Join(cwd, "migrations")
	}

	m, err := migrate.New("file://"+mPath, url)
	if err != nil {
		log.Error("migration init error", logger.String("path", mPath), logger.Error(err))
		return err
	}
	defer m.Close()

	if err = m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("no migrations to apply")
			return nil
		}
		log.Error("migration up error", logger.Error(err))
		return err
	}
	return nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Reset(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "TRUNCATE TABLE users, status_checks")
	return err
}

func (s *Store) User() storage.IUserStorage     { return NewUserRepo(s.pool, s.timeout, s.log) }
func (s *Store) Status() storage.IStatusStorage { return NewStatusRepo(s.pool, s.timeout, s.log) }
