package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"quranbot/pkg/logger"
	"quranbot/pkg/models"
	"quranbot/storage"
)

type statusRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
	log     logger.ILogger
}

func NewStatusRepo(db *pgxpool.Pool, timeout time.Duration, log logger.ILogger) storage.IStatusStorage {
	return &statusRepo{db: db, timeout: timeout, log: log}
}

func (r *statusRepo) Create(ctx context.Context, check *models.StatusCheck) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.Exec(ctx,
		`INSERT INTO status_checks (id, client_name, timestamp) VALUES ($1, $2, $3)`,
		check.ID, check.ClientName, check.Timestamp,
	)
	if err != nil {
		r.log.Error("failed to insert status check", logger.Error(err))
		return err
	}
	return nil
}

func (r *statusRepo) GetAll(ctx context.Context, limit int) ([]*models.StatusCheck, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if limit <= 0 {
		limit = storage.StatusListLimit
	}
	rows, err := r.db.Query(ctx, `SELECT id, client_name, timestamp FROM status_checks ORDER BY timestamp LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	checks := []*models.StatusCheck{}
	for rows.Next() {
		var c models.StatusCheck
		if err := rows.Scan(&c.ID, &c.ClientName, &c.Timestamp); err != nil {
			return nil, err
		}
		checks = append(checks, &c)
	}
	return checks, rows.Err()
}
