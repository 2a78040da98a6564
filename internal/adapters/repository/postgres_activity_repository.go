package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/khatma-sync-engine/internal/core/domain"
)

type PostgresActivityRepository struct {
	db *sqlx.DB
}

func NewPostgresActivityRepository(db *sqlx.DB) *PostgresActivityRepository {
	return &PostgresActivityRepository{db: db}
}

func (r *PostgresActivityRepository) AddToDailyLog(ctx context.Context, userID string, day time.Time, ayahs, pages int) (*domain.UserReadingLog, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO user_reading_logs (id, user_id, day, ayahs_read, pages_read, created_at, updated_at)
		VALUES ($1, $2, $3::date, $4, $5, NOW(), NOW())
		ON CONFLICT (user_id, day) DO UPDATE SET
			ayahs_read = user_reading_logs.ayahs_read + EXCLUDED.ayahs_read,
			pages_read = user_reading_logs.pages_read + EXCLUDED.pages_read,
			updated_at = EXCLUDED.updated_at
		RETURNING id, user_id, day, ayahs_read, pages_read, created_at, updated_at`

	var entry domain.UserReadingLog
	if err := r.db.GetContext(ctx, &entry, query, uuid.NewString(), userID, dateParam(day), ayahs, pages); err != nil {
		return nil, fmt.Errorf("repository: add to daily log: %w", err)
	}
	return &entry, nil
}

func (r *PostgresActivityRepository) ListLogs(ctx context.Context, userID string, from, to time.Time) ([]domain.UserReadingLog, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT id, user_id, day, ayahs_read, pages_read, created_at, updated_at
		FROM user_reading_logs
		WHERE user_id = $1 AND day BETWEEN $2::date AND $3::date
		ORDER BY day ASC`

	logs := []domain.UserReadingLog{}
	if err := r.db.SelectContext(ctx, &logs, query, userID, dateParam(from), dateParam(to)); err != nil {
		return nil, fmt.Errorf("repository: list reading logs: %w", err)
	}
	return logs, nil
}

func (r *PostgresActivityRepository) CreateBadge(ctx context.Context, badge *domain.UserBadge) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO user_badges (id, user_id, badge_key, awarded_at)
		VALUES (:id, :user_id, :badge_key, :awarded_at)`

	if _, err := r.db.NamedExecContext(ctx, query, badge); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateBadge
		}
		return fmt.Errorf("repository: create badge: %w", err)
	}
	return nil
}

func (r *PostgresActivityRepository) ListBadges(ctx context.Context, userID string) ([]domain.UserBadge, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT id, user_id, badge_key, awarded_at
		FROM user_badges
		WHERE user_id = $1
		ORDER BY awarded_at ASC`

	badges := []domain.UserBadge{}
	if err := r.db.SelectContext(ctx, &badges, query, userID); err != nil {
		return nil, fmt.Errorf("repository: list badges: %w", err)
	}
	return badges, nil
}
