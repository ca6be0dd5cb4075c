package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"quranbot/pkg/logger"
	"quranbot/pkg/models"
	"quranbot/storage"
)

type userRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
	log     logger.ILogger
}

func NewUserRepo(db *pgxpool.Pool, timeout time.Duration, log logger.ILogger) storage.IUserStorage {
	return &userRepo{db: db, timeout: timeout, log: log}
}

func (r *userRepo) Upsert(ctx context.Context, profile *models.UserProfile) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		INSERT INTO users (user_id, username, full_name, language, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET username = EXCLUDED.username,
			full_name = EXCLUDED.full_name,
			language = EXCLUDED.language
	`
	_, err := r.db.Exec(ctx, query, profile.UserID, profile.Username, profile.FullName, profile.Language, profile.CreatedAt)
	if err != nil {
		r.log.Error("failed to upsert user", logger.String("user_id", profile.UserID), logger.Error(err))
		return err
	}
	return nil
}

func (r *userRepo) SetLanguage(ctx context.Context, userID, lang string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, "UPDATE users SET language=$1 WHERE user_id=$2", lang, userID)
	if err != nil {
		r.log.Error("failed to update user language", logger.String("user_id", userID), logger.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *userRepo) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var user models.UserProfile
	query := `SELECT user_id, language, username, full_name, created_at FROM users WHERE user_id = $1`
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&user.UserID, &user.Language, &user.Username, &user.FullName, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		r.log.Error("failed to get user", logger.String("user_id", userID), logger.Error(err))
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetAll(ctx context.Context) ([]*models.UserProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT user_id, language, username, full_name, created_at FROM users`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*models.UserProfile{}
	for rows.Next() {
		var u models.UserProfile
		err := rows.Scan(&u.UserID, &u.Language, &u.Username, &u.FullName, &u.CreatedAt)
		if err != nil {
			return nil, err
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}
