package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/khatma-sync-engine/internal/core/domain"
)

type PostgresCatalogRepository struct {
	db *sqlx.DB
}

func NewPostgresCatalogRepository(db *sqlx.DB) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{db: db}
}

func (r *PostgresCatalogRepository) UpsertSurahs(ctx context.Context, surahs []domain.SurahInfo) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("repository: begin catalog upsert: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO surahs (number, name, english_name, english_name_translation, number_of_ayahs, revelation_type)
		VALUES (:number, :name, :english_name, :english_name_translation, :number_of_ayahs, :revelation_type)
		ON CONFLICT (number) DO UPDATE SET
			name = EXCLUDED.name,
			english_name = EXCLUDED.english_name,
			english_name_translation = EXCLUDED.english_name_translation,
			number_of_ayahs = EXCLUDED.number_of_ayahs,
			revelation_type = EXCLUDED.revelation_type`

	for _, s := range surahs {
		if _, err := tx.NamedExecContext(ctx, query, s); err != nil {
			return fmt.Errorf("repository: upsert surah %d: %w", s.Number, err)
		}
	}

	return tx.Commit()
}

func (r *PostgresCatalogRepository) ListSurahs(ctx context.Context) ([]domain.SurahInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var surahs []domain.SurahInfo
	query := `
		SELECT number, name, english_name, english_name_translation, number_of_ayahs, revelation_type
		FROM surahs
		ORDER BY number ASC`

	if err := r.db.SelectContext(ctx, &surahs, query); err != nil {
		return nil, fmt.Errorf("repository: list surahs: %w", err)
	}
	return surahs, nil
}
