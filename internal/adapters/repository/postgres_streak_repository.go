package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/khatma-sync-engine/internal/core/domain"
)

// PostgresStreakRepository stores the per-user singleton row. Every setter is
// an upsert that only touches its own columns.
type PostgresStreakRepository struct {
	db *sqlx.DB
}

func NewPostgresStreakRepository(db *sqlx.DB) *PostgresStreakRepository {
	return &PostgresStreakRepository{db: db}
}

func (r *PostgresStreakRepository) Get(ctx context.Context, userID string) (*domain.UserStreak, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT user_id, streak_count, last_date, current_page, daily_goal, target_date, updated_at
		FROM user_streaks
		WHERE user_id = $1`

	var s domain.UserStreak
	err := r.db.GetContext(ctx, &s, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrStreakNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("repository: get streak: %w", err)
	}
	return &s, nil
}

func (r *PostgresStreakRepository) upsert(ctx context.Context, op, query string, args ...any) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("repository: %s: %w", op, err)
	}
	return nil
}

func (r *PostgresStreakRepository) SaveStreak(ctx context.Context, s *domain.UserStreak) error {
	query := `
		INSERT INTO user_streaks (user_id, streak_count, last_date, updated_at)
		VALUES ($1, $2, $3::date, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			streak_count = EXCLUDED.streak_count,
			last_date = EXCLUDED.last_date,
			updated_at = EXCLUDED.updated_at`

	return r.upsert(ctx, "save streak", query, s.UserID, s.StreakCount, nullableDate(s.LastDate), time.Now().UTC())
}

func (r *PostgresStreakRepository) SetCurrentPage(ctx context.Context, userID string, page int) error {
	query := `
		INSERT INTO user_streaks (user_id, current_page, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			current_page = EXCLUDED.current_page,
			updated_at = EXCLUDED.updated_at`

	return r.upsert(ctx, "set current page", query, userID, domain.ClampPage(page))
}

func (r *PostgresStreakRepository) SetDailyGoal(ctx context.Context, userID string, goal int) error {
	query := `
		INSERT INTO user_streaks (user_id, daily_goal, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			daily_goal = EXCLUDED.daily_goal,
			updated_at = EXCLUDED.updated_at`

	return r.upsert(ctx, "set daily goal", query, userID, goal)
}

func (r *PostgresStreakRepository) SetTargetDate(ctx context.Context, userID string, date *time.Time) error {
	query := `
		INSERT INTO user_streaks (user_id, target_date, updated_at)
		VALUES ($1, $2::date, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			target_date = EXCLUDED.target_date,
			updated_at = EXCLUDED.updated_at`

	return r.upsert(ctx, "set target date", query, userID, nullableDate(date))
}

func (r *PostgresStreakRepository) Reset(ctx context.Context, userID string) error {
	query := `
		INSERT INTO user_streaks (user_id, streak_count, last_date, current_page, updated_at)
		VALUES ($1, 0, NULL, 1, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			streak_count = 0,
			last_date = NULL,
			current_page = 1,
			updated_at = EXCLUDED.updated_at`

	return r.upsert(ctx, "reset streak", query, userID)
}
