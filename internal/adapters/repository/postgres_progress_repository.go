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

type PostgresProgressRepository struct {
	db *sqlx.DB
}

func NewPostgresProgressRepository(db *sqlx.DB) *PostgresProgressRepository {
	return &PostgresProgressRepository{db: db}
}

const selectProgress = `
	SELECT p.user_id, p.number, s.english_name, s.number_of_ayahs,
	       p.completed_ayahs, p.completed, p.version, p.updated_at
	FROM surah_progress p
	JOIN surahs s ON s.number = p.number`

func (r *PostgresProgressRepository) InitializeUser(ctx context.Context, userID string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO surah_progress (user_id, number, completed_ayahs, completed, version, updated_at)
		SELECT $1, number, 0, FALSE, 1, NOW() FROM surahs
		ON CONFLICT (user_id, number) DO NOTHING`

	res, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("repository: initialize progress: %w", err)
	}

	created, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(created), nil
}

func (r *PostgresProgressRepository) GetSurah(ctx context.Context, userID string, number int) (*domain.SurahProgress, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var p domain.SurahProgress
	err := r.db.GetContext(ctx, &p, selectProgress+` WHERE p.user_id = $1 AND p.number = $2`, userID, number)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSurahNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("repository: get surah progress: %w", err)
	}
	return &p, nil
}

func (r *PostgresProgressRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.SurahProgress, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows := []*domain.SurahProgress{}
	if err := r.db.SelectContext(ctx, &rows, selectProgress+` WHERE p.user_id = $1 ORDER BY p.number ASC`, userID); err != nil {
		return nil, fmt.Errorf("repository: list progress: %w", err)
	}
	return rows, nil
}

func (r *PostgresProgressRepository) Update(ctx context.Context, p *domain.SurahProgress) error {
	if err := p.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	now := time.Now().UTC()
	query := `
		UPDATE surah_progress
		SET completed_ayahs = $1, completed = $2, version = version + 1, updated_at = $3
		WHERE user_id = $4 AND number = $5 AND version = $6`

	res, err := r.db.ExecContext(ctx, query, p.CompletedAyahs, p.Completed, now, p.UserID, p.Number, p.Version)
	if err != nil {
		return fmt.Errorf("repository: update surah progress: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		var exists bool
		if err := r.db.GetContext(ctx, &exists,
			`SELECT EXISTS (SELECT 1 FROM surah_progress WHERE user_id = $1 AND number = $2)`,
			p.UserID, p.Number); err != nil {
			return fmt.Errorf("repository: check surah progress: %w", err)
		}
		if !exists {
			return domain.ErrSurahNotFound
		}
		return domain.ErrProgressConflict
	}

	p.Version++
	p.UpdatedAt = now
	return nil
}

func (r *PostgresProgressRepository) ResetAll(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		UPDATE surah_progress
		SET completed_ayahs = 0, completed = FALSE, version = version + 1, updated_at = NOW()
		WHERE user_id = $1`

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("repository: reset progress: %w", err)
	}
	return nil
}
